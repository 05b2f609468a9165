package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/apperrors"
	"github.com/nillion-vault/vault-engine/pkg/models"
)

// DataStore holds the user's private records. Records are created and
// deleted only by explicit user action; listing preserves insertion order.
type DataStore struct {
	mu     sync.Mutex
	kv     KV
	logger *zap.Logger
}

// NewDataStore creates a DataStore over the shared namespace.
func NewDataStore(kv KV, logger *zap.Logger) *DataStore {
	return &DataStore{
		kv:     kv,
		logger: logger.Named("data-store"),
	}
}

// Create validates and stores a new record. A missing name aborts the
// operation before any store mutation.
func (s *DataStore) Create(record models.DataRecord) (models.DataRecord, error) {
	if strings.TrimSpace(record.Name) == "" {
		return models.DataRecord{}, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return models.DataRecord{}, err
	}

	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Type == "" {
		record.Type = models.DataTypeGeneral
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.ModifiedAt = now

	records = append(records, record)
	if err := setJSON(s.kv, keyDocuments, records); err != nil {
		return models.DataRecord{}, err
	}

	s.logger.Info("Data record created",
		zap.String("id", record.ID),
		zap.String("type", string(record.Type)))
	return record, nil
}

// Get returns the record with the given id, or apperrors.ErrNotFound.
func (s *DataStore) Get(id string) (models.DataRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return models.DataRecord{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return models.DataRecord{}, apperrors.ErrNotFound
}

// Update replaces the content of an existing record and bumps ModifiedAt.
func (s *DataStore) Update(id, content string) (models.DataRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return models.DataRecord{}, err
	}
	for i := range records {
		if records[i].ID == id {
			records[i].Content = content
			records[i].ModifiedAt = time.Now().UTC()
			if err := setJSON(s.kv, keyDocuments, records); err != nil {
				return models.DataRecord{}, err
			}
			return records[i], nil
		}
	}
	return models.DataRecord{}, apperrors.ErrNotFound
}

// Delete removes the record with the given id. Returns apperrors.ErrNotFound
// when no such record exists.
func (s *DataStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for _, r := range records {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return apperrors.ErrNotFound
	}

	if err := setJSON(s.kv, keyDocuments, kept); err != nil {
		return err
	}
	s.logger.Info("Data record deleted", zap.String("id", id))
	return nil
}

// List returns all records in insertion order. A non-empty filter restricts
// the result to records of that type.
func (s *DataStore) List(filter models.DataType) ([]models.DataRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return records, nil
	}
	filtered := make([]models.DataRecord, 0, len(records))
	for _, r := range records {
		if r.Type == filter {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *DataStore) load() ([]models.DataRecord, error) {
	var records []models.DataRecord
	if _, err := getJSON(s.kv, keyDocuments, &records); err != nil {
		return nil, err
	}
	return records, nil
}
