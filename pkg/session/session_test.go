package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/nillion-vault/vault-engine/pkg/models"
	"github.com/nillion-vault/vault-engine/pkg/store"
)

type sessionFixture struct {
	session *Session
	perms   *store.PermissionStore
	data    *store.DataStore
}

func newSessionFixture(t *testing.T) *sessionFixture {
	return newCacheFixture(t, true)
}

func newCacheFixture(t *testing.T, offlineCache bool) *sessionFixture {
	t.Helper()
	kv := store.NewMemoryKV()
	logger := zaptest.NewLogger(t)
	f := &sessionFixture{
		perms: store.NewPermissionStore(kv, logger),
		data:  store.NewDataStore(kv, logger),
	}
	f.session = New(
		store.NewIdentityStore(kv),
		f.data,
		f.perms,
		store.NewActivityLog(kv, store.DefaultActivityCap, logger),
		offlineCache,
		logger,
	)
	return f
}

func TestLoad_EmptyStores(t *testing.T) {
	f := newSessionFixture(t)

	assert.NoError(t, f.session.Load())
	assert.Nil(t, f.session.DID())
	assert.Empty(t, f.session.Records())
	assert.Empty(t, f.session.Permissions())
}

func TestLoad_PicksUpExistingState(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.data.Create(models.DataRecord{Name: "Note"})
	assert.NoError(t, err)
	_, err = f.perms.Grant(models.PermissionRecord{Domain: "example.com"})
	assert.NoError(t, err)

	assert.NoError(t, f.session.Load())

	assert.Len(t, f.session.Records(), 1)
	assert.Len(t, f.session.Permissions(), 1)
}

func TestGenerateDID(t *testing.T) {
	f := newSessionFixture(t)
	assert.NoError(t, f.session.Load())

	did, err := f.session.GenerateDID()

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(did.ID, "did:nillion:"))
	assert.NotEmpty(t, did.PublicKey)
	assert.NotNil(t, f.session.DID())

	// A second generation replaces the identity.
	replacement, err := f.session.GenerateDID()
	assert.NoError(t, err)
	assert.NotEqual(t, did.ID, replacement.ID)
	assert.Equal(t, replacement.ID, f.session.DID().ID)
}

func TestCreateAndDeleteData_RefreshSnapshot(t *testing.T) {
	f := newSessionFixture(t)
	assert.NoError(t, f.session.Load())

	created, err := f.session.CreateData(models.DataRecord{Name: "Note", Content: "hello"})
	assert.NoError(t, err)
	assert.Len(t, f.session.Records(), 1)

	assert.NoError(t, f.session.DeleteData(created.ID))
	assert.Empty(t, f.session.Records())
}

func TestSeedSampleData(t *testing.T) {
	f := newSessionFixture(t)
	assert.NoError(t, f.session.Load())

	created, err := f.session.SeedSampleData()

	assert.NoError(t, err)
	assert.Len(t, created, 5)
	assert.Len(t, f.session.Records(), 5)
}

func TestRevokePermission_RefreshesSnapshot(t *testing.T) {
	f := newSessionFixture(t)
	granted, err := f.perms.Grant(models.PermissionRecord{Domain: "example.com"})
	assert.NoError(t, err)
	assert.NoError(t, f.session.Load())
	assert.Len(t, f.session.Permissions(), 1)

	assert.NoError(t, f.session.RevokePermission(granted.ID))

	assert.Empty(t, f.session.Permissions())
}

func TestRevokeAllPermissions(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.perms.Grant(models.PermissionRecord{Domain: "a.example.com"})
	assert.NoError(t, err)
	_, err = f.perms.Grant(models.PermissionRecord{Domain: "b.example.com"})
	assert.NoError(t, err)
	assert.NoError(t, f.session.Load())

	assert.NoError(t, f.session.RevokeAllPermissions())

	assert.Empty(t, f.session.Permissions())
}

func TestOfflineCache_ServesSnapshotUntilReload(t *testing.T) {
	f := newCacheFixture(t, true)
	assert.NoError(t, f.session.Load())

	// A write from another context is invisible until the next Load.
	_, err := f.data.Create(models.DataRecord{Name: "Note"})
	assert.NoError(t, err)
	_, err = f.perms.Grant(models.PermissionRecord{Domain: "example.com"})
	assert.NoError(t, err)

	assert.Empty(t, f.session.Records())
	assert.Empty(t, f.session.Permissions())

	assert.NoError(t, f.session.Load())
	assert.Len(t, f.session.Records(), 1)
	assert.Len(t, f.session.Permissions(), 1)
}

func TestOfflineCacheDisabled_ReadsThroughToStores(t *testing.T) {
	f := newCacheFixture(t, false)
	assert.NoError(t, f.session.Load())

	_, err := f.data.Create(models.DataRecord{Name: "Note"})
	assert.NoError(t, err)
	_, err = f.perms.Grant(models.PermissionRecord{Domain: "example.com"})
	assert.NoError(t, err)

	// No reload needed; every accessor reflects the stores.
	assert.Len(t, f.session.Records(), 1)
	assert.Len(t, f.session.Permissions(), 1)
}

func TestActivityTrail(t *testing.T) {
	f := newSessionFixture(t)
	assert.NoError(t, f.session.Load())

	_, err := f.session.CreateData(models.DataRecord{Name: "Note"})
	assert.NoError(t, err)
	_, err = f.session.GenerateDID()
	assert.NoError(t, err)

	entries, err := f.session.Activity()
	assert.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.NoError(t, f.session.ClearActivity())
	entries, err = f.session.Activity()
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
