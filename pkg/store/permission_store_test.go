package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/nillion-vault/vault-engine/pkg/apperrors"
	"github.com/nillion-vault/vault-engine/pkg/models"
)

func newPermissionStore(t *testing.T) *PermissionStore {
	t.Helper()
	return NewPermissionStore(NewMemoryKV(), zaptest.NewLogger(t))
}

func grantRecord(domain string) models.PermissionRecord {
	return models.PermissionRecord{
		Domain:      domain,
		SiteName:    "Example",
		Permissions: []models.Permission{models.PermissionRead, models.PermissionWrite},
		Description: "Data from Example",
	}
}

func TestGrant_FillsDefaults(t *testing.T) {
	s := newPermissionStore(t)

	record, err := s.Grant(grantRecord("example.com"))

	assert.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.GrantedAt.IsZero())
	assert.Equal(t, models.PermissionStatusActive, record.Status)
	assert.Nil(t, record.RevokedAt)
}

func TestGrant_RequiresDomain(t *testing.T) {
	s := newPermissionStore(t)

	_, err := s.Grant(models.PermissionRecord{SiteName: "Example"})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGrant_ReplacesActiveRecordForDomain(t *testing.T) {
	s := newPermissionStore(t)

	first, err := s.Grant(grantRecord("example.com"))
	assert.NoError(t, err)
	second, err := s.Grant(grantRecord("example.com"))
	assert.NoError(t, err)

	active, err := s.ListActive()
	assert.NoError(t, err)
	assert.Len(t, active, 1, "at most one active record per domain")
	assert.Equal(t, second.ID, active[0].ID)

	// The replaced record stays in history, marked revoked.
	all, err := s.List()
	assert.NoError(t, err)
	assert.Len(t, all, 2)
	for _, r := range all {
		if r.ID == first.ID {
			assert.Equal(t, models.PermissionStatusRevoked, r.Status)
			assert.NotNil(t, r.RevokedAt)
		}
	}
}

func TestGrant_DistinctDomainsCoexist(t *testing.T) {
	s := newPermissionStore(t)

	_, err := s.Grant(grantRecord("a.example.com"))
	assert.NoError(t, err)
	_, err = s.Grant(grantRecord("b.example.com"))
	assert.NoError(t, err)

	active, err := s.ListActive()
	assert.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestRevoke(t *testing.T) {
	s := newPermissionStore(t)
	record, err := s.Grant(grantRecord("example.com"))
	assert.NoError(t, err)

	assert.NoError(t, s.Revoke(record.ID))

	ok, err := s.Check("example.com")
	assert.NoError(t, err)
	assert.False(t, ok)

	// History retains the record.
	all, err := s.List()
	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, models.PermissionStatusRevoked, all[0].Status)
}

func TestRevoke_UnknownIDIsNoOp(t *testing.T) {
	s := newPermissionStore(t)
	_, err := s.Grant(grantRecord("example.com"))
	assert.NoError(t, err)

	assert.NoError(t, s.Revoke("no-such-id"))

	ok, err := s.Check("example.com")
	assert.NoError(t, err)
	assert.True(t, ok, "unrelated grant untouched")
}

func TestRevoke_AlreadyRevokedIsNoOp(t *testing.T) {
	s := newPermissionStore(t)
	record, err := s.Grant(grantRecord("example.com"))
	assert.NoError(t, err)

	assert.NoError(t, s.Revoke(record.ID))
	assert.NoError(t, s.Revoke(record.ID))
}

func TestRevokeAll(t *testing.T) {
	s := newPermissionStore(t)
	_, err := s.Grant(grantRecord("a.example.com"))
	assert.NoError(t, err)
	_, err = s.Grant(grantRecord("b.example.com"))
	assert.NoError(t, err)

	assert.NoError(t, s.RevokeAll())

	active, err := s.ListActive()
	assert.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.List()
	assert.NoError(t, err)
	assert.Len(t, all, 2, "history preserved")
}

func TestCheck(t *testing.T) {
	s := newPermissionStore(t)

	ok, err := s.Check("example.com")
	assert.NoError(t, err)
	assert.False(t, ok, "empty store has no grants")

	_, err = s.Grant(grantRecord("example.com"))
	assert.NoError(t, err)

	ok, err = s.Check("example.com")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Check("other.com")
	assert.NoError(t, err)
	assert.False(t, ok)
}
