// Package content implements the content-script layer: the relay between
// the page-level API and the background controller.
package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/models"
)

// Backend dispatches a message in the background context and returns the
// correlated response.
type Backend interface {
	Dispatch(ctx context.Context, msg models.Message) models.Response
}

// ResponseSink posts a response back into the page context.
type ResponseSink interface {
	Post(resp models.Response)
}

// ResponseSinkFunc adapts a function to the ResponseSink interface.
type ResponseSinkFunc func(resp models.Response)

func (f ResponseSinkFunc) Post(resp models.Response) { f(resp) }

// PageMessage is an inbound message from hosted page content, tagged with
// the origin the host environment observed.
type PageMessage struct {
	Origin  string
	Message models.Message
}

// Relay forwards page-originated requests to the background and posts
// responses back. Inbound messages are accepted only when their origin
// equals the hosting document's own origin, which blocks spoofing from
// embedded cross-origin frames.
type Relay struct {
	origin  string
	backend Backend
	sink    ResponseSink
	logger  *zap.Logger
}

// NewRelay creates a Relay bound to the hosting document's origin.
func NewRelay(origin string, backend Backend, sink ResponseSink, logger *zap.Logger) *Relay {
	return &Relay{
		origin:  origin,
		backend: backend,
		sink:    sink,
		logger:  logger.Named("content-relay"),
	}
}

// HandlePageMessage verifies the origin, forwards the request and posts the
// response. Origin mismatches are dropped without a response.
func (r *Relay) HandlePageMessage(ctx context.Context, pm PageMessage) {
	if pm.Origin != r.origin {
		r.logger.Warn("Dropping message from foreign origin",
			zap.String("origin", pm.Origin),
			zap.String("expected", r.origin))
		return
	}

	msg := pm.Message
	msg.Origin = pm.Origin

	resp := r.backend.Dispatch(ctx, msg)
	if resp.RequestID == "" {
		resp.RequestID = msg.RequestID
	}
	r.sink.Post(resp)
}
