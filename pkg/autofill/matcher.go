package autofill

import (
	"regexp"
	"strings"

	"github.com/nillion-vault/vault-engine/pkg/models"
)

// category is the field-name keyword bucket driving record matching.
type category int

const (
	categoryNone category = iota
	categoryName
	categoryEmail
	categoryPhone
	categoryAddress
	categoryFile
	categoryBio
)

var phonePattern = regexp.MustCompile(`\d{3}[-.\s]\d{3}[-.\s]\d{4}`)

// categorize picks the first applicable category for a candidate. Order
// matters: file-type fields always take the file path regardless of name.
func categorize(c models.FieldCandidate) category {
	if c.Type == models.FieldTypeFile || c.Type == models.FieldTypeUploadArea {
		return categoryFile
	}

	name := strings.ToLower(c.Name)
	switch {
	case strings.Contains(name, "email") || strings.Contains(name, "mail"):
		return categoryEmail
	case strings.Contains(name, "phone") || strings.Contains(name, "telephone"):
		return categoryPhone
	case strings.Contains(name, "address") || strings.Contains(name, "location"):
		return categoryAddress
	case strings.Contains(name, "resume") || strings.Contains(name, "cv"):
		return categoryFile
	case strings.Contains(name, "description") || strings.Contains(name, "bio") || strings.Contains(name, "about"):
		return categoryBio
	case strings.Contains(name, "name") || strings.Contains(name, "fullname"):
		return categoryName
	}
	return categoryNone
}

// match returns the first record plausibly matching the category, or nil.
func match(cat category, records []models.DataRecord) *models.DataRecord {
	for i := range records {
		r := &records[i]
		switch cat {
		case categoryName:
			if r.Name != "" && (r.Type == models.DataTypeDocument || r.Type == models.DataTypeText) &&
				!strings.Contains(r.Content, "@") && !phonePattern.MatchString(r.Content) {
				return r
			}
		case categoryEmail:
			if strings.Contains(r.Content, "@") {
				return r
			}
		case categoryPhone:
			if phonePattern.MatchString(r.Content) {
				return r
			}
		case categoryAddress:
			if strings.Contains(strings.ToLower(r.Name), "address") ||
				strings.Contains(strings.ToLower(r.Description), "address") {
				return r
			}
		case categoryFile:
			if r.FileInfo != nil && containsAny(strings.ToLower(r.FileInfo.Name), "resume", "cv") {
				return r
			}
		case categoryBio:
			if r.Type == models.DataTypeText && len(r.Content) > 20 {
				return r
			}
		}
	}
	return nil
}

// matchLoose is the fallback pass with relaxed per-category rules, used only
// when the strict pass finds nothing.
func matchLoose(cat category, records []models.DataRecord) *models.DataRecord {
	for i := range records {
		r := &records[i]
		nameLower := strings.ToLower(r.Name)
		switch cat {
		case categoryName:
			if strings.Contains(nameLower, "personal") {
				return r
			}
		case categoryEmail:
			if containsAny(nameLower, "email", "contact") {
				return r
			}
		case categoryPhone:
			if strings.Contains(nameLower, "phone") {
				return r
			}
		case categoryAddress:
			if strings.Contains(nameLower, "home") {
				return r
			}
		case categoryFile:
			if r.FileInfo != nil {
				return r
			}
		case categoryBio:
			if r.Type == models.DataTypeText && r.Content != "" {
				return r
			}
		}
	}
	return nil
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
