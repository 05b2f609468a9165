// Package autofill writes matched vault records into detected form fields.
package autofill

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/models"
)

// PageWriter applies fill effects to the hosting page. Implementations own
// the DOM side: setting values, visual markers and synthetic input/change
// notifications so host-page validation reacts.
type PageWriter interface {
	// SetValue writes a text value into the field.
	SetValue(ref models.ElementRef, value string) error

	// MarkFilled applies the visual "filled" marker to the field.
	MarkFilled(ref models.ElementRef)

	// EmitEvents fires synthetic DOM notifications on the field.
	EmitEvents(ref models.ElementRef, events ...string)

	// AttachFile assigns a reconstructed file to a file input.
	AttachFile(ref models.ElementRef, file models.FilePayload) error

	// ShowUploadPrompt renders the inline "manual upload required"
	// affordance next to a file field that could not be auto-filled.
	ShowUploadPrompt(ref models.ElementRef, label string)
}

// Notifier surfaces transient, auto-dismissing notifications.
type Notifier interface {
	Notify(level, message string)
}

// Granter records the implicit trust escalation that follows a successful
// fill. Distinct from the explicit dialog flow.
type Granter interface {
	GrantImplicit(ctx context.Context, domain string) error
}

// FillResult summarizes one autofill run.
type FillResult struct {
	FilledCount int `json:"filledCount"`
}

// Engine matches candidates against stored records and fills them.
type Engine struct {
	writer   PageWriter
	notifier Notifier
	granter  Granter
	logger   *zap.Logger
}

// NewEngine creates an Engine. granter may be nil to disable the implicit
// post-fill grant.
func NewEngine(writer PageWriter, notifier Notifier, granter Granter, logger *zap.Logger) *Engine {
	return &Engine{
		writer:   writer,
		notifier: notifier,
		granter:  granter,
		logger:   logger.Named("autofill"),
	}
}

// Fill processes every candidate independently: a failure on one never
// aborts the rest. Returns the number of successfully filled fields; zero
// fills produce a "no matching data" notification rather than an error.
func (e *Engine) Fill(ctx context.Context, domain string, candidates []models.FieldCandidate, records []models.DataRecord) FillResult {
	var result FillResult

	for _, candidate := range candidates {
		filled, err := e.fillOne(candidate, records)
		if err != nil {
			e.logger.Warn("Skipping candidate after fill error",
				zap.String("field", candidate.Name),
				zap.Error(err))
			continue
		}
		if filled {
			result.FilledCount++
		}
	}

	if result.FilledCount > 0 {
		e.notifier.Notify("success",
			fmt.Sprintf("Auto-filled %d fields with your data", result.FilledCount))
		if e.granter != nil {
			if err := e.granter.GrantImplicit(ctx, domain); err != nil {
				e.logger.Warn("Implicit grant failed",
					zap.String("domain", domain),
					zap.Error(err))
			}
		}
	} else {
		e.notifier.Notify("warning", "No matching data found to auto-fill")
	}

	return result
}

func (e *Engine) fillOne(candidate models.FieldCandidate, records []models.DataRecord) (bool, error) {
	cat := categorize(candidate)
	if cat == categoryNone {
		return false, nil
	}

	record := match(cat, records)
	if record == nil {
		record = matchLoose(cat, records)
	}
	if record == nil {
		e.logger.Debug("No matching data for field", zap.String("field", candidate.Name))
		return false, nil
	}

	if cat == categoryFile {
		return e.fillFile(candidate, record)
	}
	return e.fillText(candidate, record)
}

func (e *Engine) fillText(candidate models.FieldCandidate, record *models.DataRecord) (bool, error) {
	value := record.Content
	if value == "" {
		value = record.Name
	}
	if err := e.writer.SetValue(candidate.Element, value); err != nil {
		return false, fmt.Errorf("set value on %q: %w", candidate.Name, err)
	}
	e.writer.MarkFilled(candidate.Element)
	e.writer.EmitEvents(candidate.Element, "input", "change")

	e.logger.Debug("Filled field",
		zap.String("field", candidate.Name),
		zap.String("record", record.Name))
	return true, nil
}

// fillFile tries the auto-upload path when the record carries embedded file
// bytes; otherwise it renders the manual upload affordance. File content is
// never fabricated.
func (e *Engine) fillFile(candidate models.FieldCandidate, record *models.DataRecord) (bool, error) {
	info := record.FileInfo
	if info != nil && len(info.Data) > 0 && candidate.Type == models.FieldTypeFile {
		payload := models.FilePayload{
			Name:     info.Name,
			MimeType: info.MimeType,
			Data:     info.Data,
		}
		err := e.writer.AttachFile(candidate.Element, payload)
		if err == nil {
			e.writer.MarkFilled(candidate.Element)
			e.writer.EmitEvents(candidate.Element, "input", "change")
			return true, nil
		}
		e.logger.Debug("File attach failed, falling back to manual upload",
			zap.String("field", candidate.Name),
			zap.Error(err))
	}

	label := record.Name
	if info != nil && info.Name != "" {
		label = info.Name
	}
	e.writer.ShowUploadPrompt(candidate.Element, label)
	return false, nil
}
