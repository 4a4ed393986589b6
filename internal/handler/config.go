package handler

import (
	"encoding/json"
	"net/http"

	"github.com/askbq/askbq/internal/auth"
	"github.com/askbq/askbq/internal/models"
	"github.com/askbq/askbq/internal/settings"
)

// Invalidator resets the warehouse session (client handle plus schema
// cache) after a credential-relevant write.
type Invalidator interface {
	Invalidate()
}

// ConfigHandler handles the settings endpoints.
type ConfigHandler struct {
	store    *settings.Store
	resolver *auth.Resolver
	session  Invalidator
}

func NewConfigHandler(store *settings.Store, resolver *auth.Resolver, session Invalidator) *ConfigHandler {
	return &ConfigHandler{store: store, resolver: resolver, session: session}
}

// Load handles GET /api/v1/config
func (h *ConfigHandler) Load(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.Load()
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	models.WriteJSON(w, http.StatusOK, models.ConfigResponse{
		ProjectID:     cfg.ProjectID,
		DatasetID:     cfg.DatasetID,
		GeminiKey:     cfg.GeminiKey,
		AuthMethod:    cfg.AuthMethod,
		ModelProvider: cfg.ModelProvider,
		HasJSONKey:    cfg.HasServiceAccount(),
	})
}

// Save handles POST /api/v1/config. When the write touched a
// credential-relevant field the warehouse session is reset before
// replying, so the next turn reconnects with the new values.
func (h *ConfigHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.SaveConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.AuthMethod != nil && !settings.ValidAuthMethod(*req.AuthMethod) {
		models.WriteError(w, http.StatusBadRequest, "unknown auth method: "+*req.AuthMethod)
		return
	}
	if req.ModelProvider != nil && !settings.ValidProvider(*req.ModelProvider) {
		models.WriteError(w, http.StatusBadRequest, "unknown model provider: "+*req.ModelProvider)
		return
	}

	credChanged, err := h.store.Save(settings.Update{
		ProjectID:         req.ProjectID,
		DatasetID:         req.DatasetID,
		GeminiKey:         req.GeminiKey,
		AuthMethod:        req.AuthMethod,
		OAuthClientID:     req.OAuthClientID,
		OAuthClientSecret: req.OAuthClientSecret,
		ModelProvider:     req.ModelProvider,
		AnthropicKey:      req.AnthropicKey,
	})
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if credChanged {
		h.session.Invalidate()
	}
	models.WriteJSON(w, http.StatusOK, models.OKResponse{OK: true})
}

// UploadServiceAccount handles POST /api/v1/config/service-account
func (h *ConfigHandler) UploadServiceAccount(w http.ResponseWriter, r *http.Request) {
	var req models.UploadKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.JSON == "" {
		models.WriteError(w, http.StatusBadRequest, "json is required")
		return
	}

	email, err := h.resolver.StoreServiceAccountKey(req.JSON)
	if err != nil {
		models.WriteJSON(w, http.StatusOK, models.UploadKeyResponse{OK: false, Error: err.Error()})
		return
	}
	h.session.Invalidate()
	models.WriteJSON(w, http.StatusOK, models.UploadKeyResponse{OK: true, Email: email})
}
