package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/config"
	"github.com/nillion-vault/vault-engine/pkg/delegation"
)

// HealthResponse reports service and builder status.
type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Version    string `json:"version"`
	Builder    string `json:"builder"`
	Collection string `json:"collection"`
}

// HealthHandler handles the health check endpoint.
type HealthHandler struct {
	cfg    *config.Config
	issuer *delegation.Issuer
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg *config.Config, issuer *delegation.Issuer, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, issuer: issuer, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	builderStatus := "disconnected"
	collectionStatus := "not created"
	if h.issuer != nil {
		builderStatus = "connected"
		collectionStatus = "created"
	}

	response := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Version:    h.cfg.Version,
		Builder:    builderStatus,
		Collection: collectionStatus,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}
