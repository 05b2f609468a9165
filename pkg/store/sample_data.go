package store

import (
	"fmt"
	"time"

	"github.com/nillion-vault/vault-engine/pkg/models"
)

// SeedSampleData creates the five demo records used to exercise autofill
// against real forms. Returns the created records.
func (s *DataStore) SeedSampleData() ([]models.DataRecord, error) {
	samples := []models.DataRecord{
		{
			Name:        "Personal Information",
			Content:     "John Doe",
			Type:        models.DataTypeText,
			Description: "Full name for forms",
		},
		{
			Name:        "Email Contact",
			Content:     "john.doe@example.com",
			Type:        models.DataTypeText,
			Description: "Email address",
		},
		{
			Name:        "Phone Number",
			Content:     "+1-555-123-4567",
			Type:        models.DataTypeText,
			Description: "Contact phone number",
		},
		{
			Name:        "Home Address",
			Content:     "123 Main Street, City, State 12345",
			Type:        models.DataTypeText,
			Description: "Residential address",
		},
		{
			Name:        "Resume Document",
			Content:     "File: John_Doe_Resume.pdf",
			Type:        models.DataTypePDF,
			Description: "Professional resume document",
			FileInfo: &models.FileInfo{
				Name:         "John_Doe_Resume.pdf",
				MimeType:     "application/pdf",
				ByteSize:     1024000,
				LastModified: time.Now().UnixMilli(),
			},
		},
	}

	created := make([]models.DataRecord, 0, len(samples))
	for _, sample := range samples {
		record, err := s.Create(sample)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", sample.Name, err)
		}
		created = append(created, record)
	}
	return created, nil
}
