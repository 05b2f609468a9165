package models

// ElementRef is an opaque handle to a page-owned DOM node. The vault never
// owns the node; it only writes through it during autofill.
type ElementRef = any

// FieldType classifies a detected form field.
type FieldType string

const (
	FieldTypeText       FieldType = "text"
	FieldTypeEmail      FieldType = "email"
	FieldTypeTel        FieldType = "tel"
	FieldTypeURL        FieldType = "url"
	FieldTypeFile       FieldType = "file"
	FieldTypeTextarea   FieldType = "textarea"
	FieldTypeUploadArea FieldType = "upload-area"
)

// FieldCandidate is a form field scored as potentially relevant to stored
// user data. Candidates are rebuilt on every detection pass and never
// persisted.
type FieldCandidate struct {
	Element ElementRef `json:"-"`
	Name    string     `json:"name"`
	Type    FieldType  `json:"type"`
	Accept  string     `json:"accept,omitempty"`
	Score   int        `json:"score"`

	// DocumentOrder is the position of the element within the scanned
	// document, used as the tiebreaker when scores are equal.
	DocumentOrder int `json:"-"`
}
