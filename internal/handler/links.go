package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/askbq/askbq/internal/browse"
	"github.com/askbq/askbq/internal/models"
)

// LinksHandler handles POST /api/v1/open
type LinksHandler struct {
	opener LinkOpener
}

func NewLinksHandler(opener LinkOpener) *LinksHandler {
	return &LinksHandler{opener: opener}
}

// Open handles POST /api/v1/open. A disallowed scheme is a silent
// no-op, not an error the caller needs to handle.
func (h *LinksHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req models.OpenLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.opener.Open(req.URL); err != nil && !errors.Is(err, browse.ErrSchemeNotAllowed) {
		models.WriteJSON(w, http.StatusOK, models.OKResponse{OK: false, Error: err.Error()})
		return
	}
	models.WriteJSON(w, http.StatusOK, models.OKResponse{OK: true})
}
