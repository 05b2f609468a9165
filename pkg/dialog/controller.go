// Package dialog implements the permission dialog controller: the state
// machine between field detection and autofill.
package dialog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/autofill"
	"github.com/nillion-vault/vault-engine/pkg/models"
)

// State of the controller. One controller instance serves one page load.
type State int

const (
	StateIdle State = iota
	StateShown
	StateGranted
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateShown:
		return "shown"
	case StateGranted:
		return "granted"
	case StateDenied:
		return "denied"
	}
	return "unknown"
}

// Request is what the dialog presents to the user.
type Request struct {
	Domain     string
	SiteName   string
	Candidates []models.FieldCandidate
}

// Decision is the user's answer. Permissions and Description may be empty;
// the controller applies the documented defaults.
type Decision struct {
	Granted     bool
	Permissions []models.Permission
	Description string
}

// Prompter renders the dialog and collects the user's decision.
type Prompter interface {
	Prompt(ctx context.Context, req Request) (Decision, error)
}

// Notifier surfaces transient notifications.
type Notifier interface {
	Notify(level, message string)
}

// PermissionStore is the subset of the grant table the controller needs.
type PermissionStore interface {
	Check(domain string) (bool, error)
	Grant(record models.PermissionRecord) (models.PermissionRecord, error)
}

// DataLister supplies the records handed to the autofill engine.
type DataLister interface {
	List(filter models.DataType) ([]models.DataRecord, error)
}

// Filler runs the autofill engine over the candidate list.
type Filler interface {
	Fill(ctx context.Context, domain string, candidates []models.FieldCandidate, records []models.DataRecord) autofill.FillResult
}

// Controller walks Idle -> Shown -> Granted/Denied once per page load. An
// existing active grant for the domain skips Shown entirely and goes
// straight to autofill.
type Controller struct {
	permissions PermissionStore
	data        DataLister
	filler      Filler
	prompter    Prompter
	notifier    Notifier
	logger      *zap.Logger

	mu       sync.Mutex
	state    State
	granting bool
}

// NewController creates a Controller in StateIdle.
func NewController(permissions PermissionStore, data DataLister, filler Filler, prompter Prompter, notifier Notifier, logger *zap.Logger) *Controller {
	return &Controller{
		permissions: permissions,
		data:        data,
		filler:      filler,
		prompter:    prompter,
		notifier:    notifier,
		logger:      logger.Named("dialog"),
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HandleCandidates drives one detection delivery through the state machine.
// An empty candidate list is a no-op; so is any delivery after the first.
func (c *Controller) HandleCandidates(ctx context.Context, domain, siteName string, candidates []models.FieldCandidate) error {
	if len(candidates) == 0 {
		return nil
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}

	has, err := c.permissions.Check(domain)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("check permission for %s: %w", domain, err)
	}
	if has {
		// Existing active grant: no re-prompt, straight to autofill.
		c.state = StateGranted
		c.mu.Unlock()
		c.logger.Info("Existing grant found, skipping dialog",
			zap.String("domain", domain))
		return c.runAutofill(ctx, domain, candidates)
	}

	c.state = StateShown
	c.mu.Unlock()

	decision, err := c.prompter.Prompt(ctx, Request{
		Domain:     domain,
		SiteName:   siteName,
		Candidates: candidates,
	})
	if err != nil {
		c.mu.Lock()
		c.state = StateDenied
		c.mu.Unlock()
		return fmt.Errorf("prompt for %s: %w", domain, err)
	}

	if !decision.Granted {
		c.mu.Lock()
		c.state = StateDenied
		c.mu.Unlock()
		c.notifier.Notify("error", "Access denied to "+siteName)
		return nil
	}

	return c.Grant(ctx, domain, siteName, decision, candidates)
}

// Grant persists the user's decision and triggers autofill. It is
// idempotent per dialog instance: a second activation before or after the
// first completes is a no-op.
func (c *Controller) Grant(ctx context.Context, domain, siteName string, decision Decision, candidates []models.FieldCandidate) error {
	c.mu.Lock()
	if c.granting || c.state == StateGranted {
		c.mu.Unlock()
		return nil
	}
	c.granting = true
	c.mu.Unlock()

	permissions := decision.Permissions
	if len(permissions) == 0 {
		permissions = []models.Permission{models.PermissionRead, models.PermissionWrite}
	}
	description := decision.Description
	if description == "" {
		description = "Data from " + siteName
	}

	record, err := c.permissions.Grant(models.PermissionRecord{
		Domain:      domain,
		SiteName:    siteName,
		Permissions: permissions,
		Description: description,
	})
	if err != nil {
		c.mu.Lock()
		c.granting = false
		c.mu.Unlock()
		c.notifier.Notify("error", "Failed to grant permission")
		return fmt.Errorf("grant for %s: %w", domain, err)
	}

	c.mu.Lock()
	c.state = StateGranted
	c.mu.Unlock()

	c.logger.Info("Permission granted via dialog",
		zap.String("domain", domain),
		zap.String("id", record.ID))
	c.notifier.Notify("success", "Access granted to "+siteName)

	return c.runAutofill(ctx, domain, candidates)
}

func (c *Controller) runAutofill(ctx context.Context, domain string, candidates []models.FieldCandidate) error {
	records, err := c.data.List("")
	if err != nil {
		return fmt.Errorf("list data for autofill: %w", err)
	}
	result := c.filler.Fill(ctx, domain, candidates, records)
	c.logger.Info("Autofill complete",
		zap.String("domain", domain),
		zap.Int("filled", result.FilledCount))
	return nil
}
