package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nillion-vault/vault-engine/pkg/apperrors"
	"github.com/nillion-vault/vault-engine/pkg/models"
)

func TestIdentityStore(t *testing.T) {
	s := NewIdentityStore(NewMemoryKV())

	_, err := s.Get()
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	did := models.DID{
		ID:        "did:nillion:abc123",
		PublicKey: "abc123",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	assert.NoError(t, s.Set(did))

	got, err := s.Get()
	assert.NoError(t, err)
	assert.Equal(t, did.ID, got.ID)
	assert.Equal(t, did.PublicKey, got.PublicKey)
}
