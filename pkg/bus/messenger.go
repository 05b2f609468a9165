package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/apperrors"
	"github.com/nillion-vault/vault-engine/pkg/models"
)

// Default per-kind request deadlines.
const (
	DefaultDataTimeout       = 10 * time.Second
	DefaultPermissionTimeout = 30 * time.Second
)

// Transport carries a message to the peer context. Responses come back
// asynchronously through Deliver.
type Transport interface {
	Dispatch(msg models.Message) error
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(msg models.Message) error

func (f TransportFunc) Dispatch(msg models.Message) error { return f(msg) }

// Messenger relays typed request/response pairs between extension contexts.
// Every outbound request is correlated by a generated request id; the
// pending entry is registered before dispatch so a response can never race
// the sender. Requests time out per kind with no automatic retry.
type Messenger struct {
	mu      sync.Mutex
	pending map[string]chan models.Response

	transport         Transport
	dataTimeout       time.Duration
	permissionTimeout time.Duration
	logger            *zap.Logger
}

// Option configures a Messenger.
type Option func(*Messenger)

// WithTimeouts overrides the per-kind request deadlines.
func WithTimeouts(data, permission time.Duration) Option {
	return func(m *Messenger) {
		m.dataTimeout = data
		m.permissionTimeout = permission
	}
}

// NewMessenger creates a Messenger over the given transport.
func NewMessenger(transport Transport, logger *zap.Logger, opts ...Option) *Messenger {
	m := &Messenger{
		pending:           make(map[string]chan models.Response),
		transport:         transport,
		dataTimeout:       DefaultDataTimeout,
		permissionTimeout: DefaultPermissionTimeout,
		logger:            logger.Named("messenger"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send dispatches the message and blocks until the correlated response
// arrives, the per-kind timeout fires, or the context is cancelled. The
// pending entry is always removed before returning.
func (m *Messenger) Send(ctx context.Context, msg models.Message) (models.Response, error) {
	if msg.RequestID == "" {
		msg.RequestID = uuid.NewString()
	}

	ch := make(chan models.Response, 1)
	m.mu.Lock()
	m.pending[msg.RequestID] = ch
	m.mu.Unlock()

	if err := m.transport.Dispatch(msg); err != nil {
		m.remove(msg.RequestID)
		return models.Response{}, fmt.Errorf("dispatch %s: %w", msg.Type, err)
	}

	timer := time.NewTimer(m.timeoutFor(msg.Type))
	defer timer.Stop()

	select {
	case resp := <-ch:
		m.remove(msg.RequestID)
		return resp, nil
	case <-timer.C:
		m.remove(msg.RequestID)
		m.logger.Warn("Request timed out",
			zap.String("type", string(msg.Type)),
			zap.String("request_id", msg.RequestID))
		return models.Response{}, fmt.Errorf("%s: %w", msg.Type, apperrors.ErrTimeout)
	case <-ctx.Done():
		m.remove(msg.RequestID)
		return models.Response{}, ctx.Err()
	}
}

// Deliver routes a response to its pending request. Responses with no
// matching pending request are dropped silently.
func (m *Messenger) Deliver(resp models.Response) {
	m.mu.Lock()
	ch, ok := m.pending[resp.RequestID]
	if ok {
		delete(m.pending, resp.RequestID)
	}
	m.mu.Unlock()

	if !ok {
		m.logger.Debug("Dropping uncorrelated response",
			zap.String("request_id", resp.RequestID))
		return
	}
	ch <- resp
}

// Respond is a convenience for answering a request successfully.
func (m *Messenger) Respond(requestID string, data any) {
	m.Deliver(models.OK(requestID, data))
}

// PendingCount reports the number of in-flight requests.
func (m *Messenger) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Messenger) remove(requestID string) {
	m.mu.Lock()
	delete(m.pending, requestID)
	m.mu.Unlock()
}

func (m *Messenger) timeoutFor(t models.MessageType) time.Duration {
	if t.PermissionKind() {
		return m.permissionTimeout
	}
	return m.dataTimeout
}
