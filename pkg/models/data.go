package models

import "time"

// DataType classifies a stored user record.
type DataType string

const (
	DataTypeText       DataType = "text"
	DataTypeDocument   DataType = "document"
	DataTypeImage      DataType = "image"
	DataTypePDF        DataType = "pdf"
	DataTypeAudio      DataType = "audio"
	DataTypeVideo      DataType = "video"
	DataTypeArchive    DataType = "archive"
	DataTypeGeneral    DataType = "general"
	DataTypeNote       DataType = "note"
	DataTypeCredential DataType = "credential"
)

// FileInfo describes the file backing a DataRecord, when one exists.
// Data holds the embedded file bytes for small payloads; it may be empty,
// in which case autofill falls back to the manual upload affordance.
type FileInfo struct {
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ByteSize     int64  `json:"byteSize"`
	LastModified int64  `json:"lastModified,omitempty"`
	Data         []byte `json:"data,omitempty"`
}

// DataRecord is a user-owned record in the vault: manually entered text, a
// picked file, or generated sample data. Records are only ever created and
// deleted by explicit user action.
type DataRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        DataType  `json:"type"`
	Content     string    `json:"content,omitempty"`
	Description string    `json:"description,omitempty"`
	FileInfo    *FileInfo `json:"fileInfo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

// FilePayload is a reconstructed file ready to be assigned to a file input.
type FilePayload struct {
	Name     string
	MimeType string
	Data     []byte
}
