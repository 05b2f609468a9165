package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/delegation"
	"github.com/nillion-vault/vault-engine/pkg/logging"
	"github.com/nillion-vault/vault-engine/pkg/store"
)

// tokenRequest is the body of every delegation endpoint.
type tokenRequest struct {
	UserDid string `json:"userDid"`
}

// TokenHandler serves the delegation-token endpoints. Each endpoint scopes
// the issued token to a single storage command.
type TokenHandler struct {
	issuer   *delegation.Issuer
	activity *store.ActivityLog
	logger   *zap.Logger
}

// NewTokenHandler creates a TokenHandler. issuer may be nil when the
// builder failed to initialize, in which case every endpoint returns 503.
func NewTokenHandler(issuer *delegation.Issuer, activity *store.ActivityLog, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{issuer: issuer, activity: activity, logger: logger}
}

// RegisterRoutes registers the token handler's routes on the given mux.
func (h *TokenHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/delegation-token", h.issue(delegation.CommandCreate))
	mux.HandleFunc("POST /api/read-delegation-token", h.issue(delegation.CommandRead))
	mux.HandleFunc("POST /api/list-delegation-token", h.issue(delegation.CommandList))
	mux.HandleFunc("POST /api/delete-delegation-token", h.issue(delegation.CommandDelete))
	mux.HandleFunc("GET /api/collection-info", h.CollectionInfo)
}

// issue builds the handler for one command-scoped token endpoint.
func (h *TokenHandler) issue(cmd delegation.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.UserDid) == "" {
			_ = ErrorResponse(w, http.StatusBadRequest, "userDid is required")
			return
		}
		if h.issuer == nil {
			_ = ErrorResponse(w, http.StatusServiceUnavailable, "Builder not initialized")
			return
		}

		token, err := h.issuer.Issue(req.UserDid, cmd)
		if err != nil {
			h.logger.Error("Failed to issue delegation token",
				zap.String("command", string(cmd)),
				zap.String("error", logging.SanitizeError(err)))
			_ = ErrorResponse(w, http.StatusInternalServerError, logging.SanitizeError(err))
			return
		}

		if h.activity != nil {
			h.activity.Append("delegation", "issued", string(cmd)+" for "+req.UserDid)
		}
		if err := WriteData(w, http.StatusOK, token); err != nil {
			h.logger.Error("Failed to encode token response", zap.Error(err))
		}
	}
}

// CollectionInfo handles GET /api/collection-info requests.
func (h *TokenHandler) CollectionInfo(w http.ResponseWriter, r *http.Request) {
	if h.issuer == nil {
		_ = ErrorResponse(w, http.StatusServiceUnavailable, "Builder not initialized")
		return
	}
	if err := WriteData(w, http.StatusOK, h.issuer.Collection()); err != nil {
		h.logger.Error("Failed to encode collection response", zap.Error(err))
	}
}
