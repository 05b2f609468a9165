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

// PermissionStore is the per-domain grant table. At most one active record
// exists per domain; granting replaces, revoking marks. History is
// append-only - records are never physically deleted.
type PermissionStore struct {
	mu     sync.Mutex
	kv     KV
	logger *zap.Logger
}

// NewPermissionStore creates a PermissionStore over the shared namespace.
func NewPermissionStore(kv KV, logger *zap.Logger) *PermissionStore {
	return &PermissionStore{
		kv:     kv,
		logger: logger.Named("permission-store"),
	}
}

// Grant stores a new active record for record.Domain, revoking any previous
// active record for that domain. Missing id/timestamps are filled in.
func (s *PermissionStore) Grant(record models.PermissionRecord) (models.PermissionRecord, error) {
	if strings.TrimSpace(record.Domain) == "" {
		return models.PermissionRecord{}, fmt.Errorf("%w: domain is required", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return models.PermissionRecord{}, err
	}

	now := time.Now().UTC()
	for i := range records {
		if records[i].Domain == record.Domain && records[i].Active() {
			records[i].Status = models.PermissionStatusRevoked
			revokedAt := now
			records[i].RevokedAt = &revokedAt
		}
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.GrantedAt.IsZero() {
		record.GrantedAt = now
	}
	record.Status = models.PermissionStatusActive
	record.RevokedAt = nil

	records = append(records, record)
	if err := setJSON(s.kv, keyPermissions, records); err != nil {
		return models.PermissionRecord{}, err
	}

	s.logger.Info("Permission granted",
		zap.String("domain", record.Domain),
		zap.String("id", record.ID))
	return record, nil
}

// Revoke marks the record with the given id revoked. Revoking an unknown or
// already-revoked record is a no-op.
func (s *PermissionStore) Revoke(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	changed := false
	for i := range records {
		if records[i].ID == id && records[i].Active() {
			records[i].Status = models.PermissionStatusRevoked
			revokedAt := time.Now().UTC()
			records[i].RevokedAt = &revokedAt
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := setJSON(s.kv, keyPermissions, records); err != nil {
		return err
	}
	s.logger.Info("Permission revoked", zap.String("id", id))
	return nil
}

// RevokeAll revokes every active record.
func (s *PermissionStore) RevokeAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	changed := false
	for i := range records {
		if records[i].Active() {
			records[i].Status = models.PermissionStatusRevoked
			revokedAt := now
			records[i].RevokedAt = &revokedAt
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return setJSON(s.kv, keyPermissions, records)
}

// Check reports whether an active record exists for domain.
func (s *PermissionStore) Check(domain string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return false, err
	}
	for i := range records {
		if records[i].Domain == domain && records[i].Active() {
			return true, nil
		}
	}
	return false, nil
}

// ListActive returns only active records.
func (s *PermissionStore) ListActive() ([]models.PermissionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	active := make([]models.PermissionRecord, 0, len(records))
	for _, r := range records {
		if r.Active() {
			active = append(active, r)
		}
	}
	return active, nil
}

// List returns the full grant history, revoked records included.
func (s *PermissionStore) List() ([]models.PermissionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *PermissionStore) load() ([]models.PermissionRecord, error) {
	var records []models.PermissionRecord
	if _, err := getJSON(s.kv, keyPermissions, &records); err != nil {
		return nil, err
	}
	return records, nil
}
