package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nillion-vault/vault-engine/pkg/apperrors"
)

// Storage keys within the shared namespace. All persistent entities live
// under these fixed keys, mirroring the extension's local-storage layout.
const (
	keyPermissions = "permissions"
	keyDocuments   = "documents"
	keyActivityLog = "activityLogs"
	keyUserDID     = "user_did"
)

// KV is the shared key-value namespace backing every store. Writes are
// last-write-wins; no transactional guarantees are offered or required.
type KV interface {
	// Get reads the raw value for key. Returns apperrors.ErrNotFound
	// when the key is absent.
	Get(key string) ([]byte, error)

	// Set writes the raw value for key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error

	// Keys lists all keys present in the namespace.
	Keys() ([]string, error)
}

// getJSON reads and decodes the value for key into out. Absent keys leave
// out untouched and return false.
func getJSON(kv KV, key string, out any) (bool, error) {
	raw, err := kv.Get(key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// setJSON encodes value and writes it under key.
func setJSON(kv KV, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := kv.Set(key, raw); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}
