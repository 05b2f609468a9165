// Package session owns the popup context's view of the vault: identity,
// data and permission snapshots loaded once from the stores instead of
// free-floating globals rebuilt on every UI reload.
package session

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/apperrors"
	"github.com/nillion-vault/vault-engine/pkg/models"
	"github.com/nillion-vault/vault-engine/pkg/store"
)

// Session is the popup controller's state. The popup is the sole writer of
// data records; permission writes stay with the background context. With
// the offline cache enabled, accessors serve the snapshots loaded at
// startup; disabled, every accessor reads through to the stores.
type Session struct {
	mu sync.Mutex

	identity     *store.IdentityStore
	data         *store.DataStore
	perms        *store.PermissionStore
	activity     *store.ActivityLog
	offlineCache bool
	logger       *zap.Logger

	// cached snapshots, refreshed on every mutation
	did         *models.DID
	records     []models.DataRecord
	permissions []models.PermissionRecord
}

// New creates an unloaded Session over the given stores.
func New(identity *store.IdentityStore, data *store.DataStore, perms *store.PermissionStore, activity *store.ActivityLog, offlineCache bool, logger *zap.Logger) *Session {
	return &Session{
		identity:     identity,
		data:         data,
		perms:        perms,
		activity:     activity,
		offlineCache: offlineCache,
		logger:       logger.Named("session"),
	}
}

// Load populates the snapshots from the stores. Called once at popup
// startup; render paths read the snapshots by reference afterwards.
func (s *Session) Load() error {
	if err := s.refreshIdentity(); err != nil {
		return err
	}
	if err := s.refreshData(); err != nil {
		return err
	}
	return s.refreshPermissions()
}

// readThrough refreshes one snapshot from its store when the offline cache
// is disabled. A failed read keeps serving the last snapshot.
func (s *Session) readThrough(refresh func() error) {
	if s.offlineCache {
		return
	}
	if err := refresh(); err != nil {
		s.logger.Warn("Store read-through failed, serving cached snapshot", zap.Error(err))
	}
}

// DID returns the current identity, or nil when none has been generated.
func (s *Session) DID() *models.DID {
	s.readThrough(s.refreshIdentity)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.did
}

// GenerateDID creates and persists a fresh identity, replacing any previous
// one.
func (s *Session) GenerateDID() (models.DID, error) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return models.DID{}, fmt.Errorf("generate keypair: %w", err)
	}

	did := models.DID{
		ID:        "did:nillion:" + hex.EncodeToString(pub),
		PublicKey: hex.EncodeToString(pub),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.identity.Set(did); err != nil {
		return models.DID{}, fmt.Errorf("store identity: %w", err)
	}

	s.mu.Lock()
	s.did = &did
	s.mu.Unlock()

	s.activity.Append("identity", "generated", did.ID)
	s.logger.Info("DID generated", zap.String("did", did.ID))
	return did, nil
}

// Records returns the data snapshot.
func (s *Session) Records() []models.DataRecord {
	s.readThrough(s.refreshData)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}

// Permissions returns the active-grant snapshot.
func (s *Session) Permissions() []models.PermissionRecord {
	s.readThrough(s.refreshPermissions)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permissions
}

// CreateData stores a new record and refreshes the snapshot.
func (s *Session) CreateData(record models.DataRecord) (models.DataRecord, error) {
	created, err := s.data.Create(record)
	if err != nil {
		return models.DataRecord{}, err
	}
	s.activity.Append("data", "created", created.Name)
	return created, s.refreshData()
}

// DeleteData removes a record and refreshes the snapshot.
func (s *Session) DeleteData(id string) error {
	if err := s.data.Delete(id); err != nil {
		return err
	}
	s.activity.Append("data", "deleted", id)
	return s.refreshData()
}

// SeedSampleData creates the demo records and refreshes the snapshot.
func (s *Session) SeedSampleData() ([]models.DataRecord, error) {
	created, err := s.data.SeedSampleData()
	if err != nil {
		return created, err
	}
	s.activity.Append("data", "seeded", fmt.Sprintf("%d sample records", len(created)))
	return created, s.refreshData()
}

// RevokePermission revokes one grant and refreshes the snapshot.
func (s *Session) RevokePermission(id string) error {
	if err := s.perms.Revoke(id); err != nil {
		return err
	}
	s.activity.Append("permission", "revoked", id)
	return s.refreshPermissions()
}

// RevokeAllPermissions revokes every active grant.
func (s *Session) RevokeAllPermissions() error {
	if err := s.perms.RevokeAll(); err != nil {
		return err
	}
	s.activity.Append("permission", "revoked", "all grants")
	return s.refreshPermissions()
}

// Activity returns the retained audit trail, oldest first.
func (s *Session) Activity() ([]models.ActivityEntry, error) {
	return s.activity.List()
}

// ClearActivity drops the audit trail.
func (s *Session) ClearActivity() error {
	return s.activity.Clear()
}

func (s *Session) refreshIdentity() error {
	did, err := s.identity.Get()
	if errors.Is(err, apperrors.ErrNotFound) {
		s.mu.Lock()
		s.did = nil
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load identity: %w", err)
	}
	s.mu.Lock()
	s.did = &did
	s.mu.Unlock()
	return nil
}

func (s *Session) refreshData() error {
	records, err := s.data.List("")
	if err != nil {
		return fmt.Errorf("refresh data snapshot: %w", err)
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

func (s *Session) refreshPermissions() error {
	permissions, err := s.perms.ListActive()
	if err != nil {
		return fmt.Errorf("refresh permission snapshot: %w", err)
	}
	s.mu.Lock()
	s.permissions = permissions
	s.mu.Unlock()
	return nil
}
