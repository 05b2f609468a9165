package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/models"
)

// DefaultActivityCap bounds the audit trail when no cap is configured.
const DefaultActivityCap = 100

// ActivityLog is the append-only, capped audit trail. When the cap is
// exceeded the oldest entries are evicted first.
type ActivityLog struct {
	mu     sync.Mutex
	kv     KV
	cap    int
	logger *zap.Logger
}

// NewActivityLog creates an ActivityLog with the given cap. A cap <= 0
// falls back to DefaultActivityCap.
func NewActivityLog(kv KV, cap int, logger *zap.Logger) *ActivityLog {
	if cap <= 0 {
		cap = DefaultActivityCap
	}
	return &ActivityLog{
		kv:     kv,
		cap:    cap,
		logger: logger.Named("activity-log"),
	}
}

// Append records one entry. Callers treat this as fire-and-forget; failures
// are logged and never propagate into the operation being audited.
func (l *ActivityLog) Append(entryType, action, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		l.logger.Warn("Failed to load activity log", zap.Error(err))
		return
	}

	entries = append(entries, models.ActivityEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      entryType,
		Action:    action,
		Details:   details,
	})
	if len(entries) > l.cap {
		entries = entries[len(entries)-l.cap:]
	}

	if err := setJSON(l.kv, keyActivityLog, entries); err != nil {
		l.logger.Warn("Failed to persist activity log", zap.Error(err))
	}
}

// List returns all retained entries, oldest first.
func (l *ActivityLog) List() ([]models.ActivityEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// Clear drops the entire trail.
func (l *ActivityLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kv.Delete(keyActivityLog)
}

func (l *ActivityLog) load() ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	if _, err := getJSON(l.kv, keyActivityLog, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
