package store

import (
	"sync"

	"github.com/nillion-vault/vault-engine/pkg/apperrors"
	"github.com/nillion-vault/vault-engine/pkg/models"
)

// IdentityStore persists the user's DID in the shared namespace.
type IdentityStore struct {
	mu sync.Mutex
	kv KV
}

// NewIdentityStore creates an IdentityStore.
func NewIdentityStore(kv KV) *IdentityStore {
	return &IdentityStore{kv: kv}
}

// Get returns the stored DID, or apperrors.ErrNotFound when none exists.
func (s *IdentityStore) Get() (models.DID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var did models.DID
	found, err := getJSON(s.kv, keyUserDID, &did)
	if err != nil {
		return models.DID{}, err
	}
	if !found {
		return models.DID{}, apperrors.ErrNotFound
	}
	return did, nil
}

// Set stores the DID, replacing any previous identity.
func (s *IdentityStore) Set(did models.DID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return setJSON(s.kv, keyUserDID, did)
}
