package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/askbq/askbq/internal/models"
	"github.com/rs/zerolog/log"
)

// BrowserSignIn is the two-phase out-of-band OAuth flow: build and hand
// out an authorization URL, then exchange the pasted code for tokens.
type BrowserSignIn interface {
	InitiateBrowserSignIn(ctx context.Context) (string, error)
	CompleteBrowserSignIn(ctx context.Context, code string) error
}

// LinkOpener opens a URL in the user's default browser.
type LinkOpener interface {
	Open(rawURL string) error
}

// AuthHandler handles the browser sign-in endpoints.
type AuthHandler struct {
	flow    BrowserSignIn
	opener  LinkOpener
	session Invalidator
}

func NewAuthHandler(flow BrowserSignIn, opener LinkOpener, session Invalidator) *AuthHandler {
	return &AuthHandler{flow: flow, opener: opener, session: session}
}

// Initiate handles POST /api/v1/auth/browser/initiate. Opening the
// browser is best-effort: the URL is returned either way so the user
// can paste it by hand.
func (h *AuthHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	url, err := h.flow.InitiateBrowserSignIn(r.Context())
	if err != nil {
		models.WriteJSON(w, http.StatusOK, models.SignInResponse{OK: false, Error: err.Error()})
		return
	}
	if err := h.opener.Open(url); err != nil {
		log.Warn().Err(err).Msg("could not open browser for sign-in")
	}
	models.WriteJSON(w, http.StatusOK, models.SignInResponse{OK: true, AuthURL: url})
}

// SubmitCode handles POST /api/v1/auth/browser/code. Fresh tokens are a
// credential change, so the warehouse session is reset on success.
func (h *AuthHandler) SubmitCode(w http.ResponseWriter, r *http.Request) {
	var req models.AuthCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Code == "" {
		models.WriteError(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := h.flow.CompleteBrowserSignIn(r.Context(), req.Code); err != nil {
		models.WriteJSON(w, http.StatusOK, models.OKResponse{OK: false, Error: err.Error()})
		return
	}
	h.session.Invalidate()
	models.WriteJSON(w, http.StatusOK, models.OKResponse{OK: true})
}
