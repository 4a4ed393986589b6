package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/askbq/askbq/internal/models"
)

// QueryAgent runs natural-language turns against the warehouse.
type QueryAgent interface {
	Answer(ctx context.Context, question string) *models.ResultEnvelope
	TestConnection(ctx context.Context) ([]string, error)
}

// AskHandler handles POST /api/v1/ask and GET /api/v1/connection/test
type AskHandler struct {
	agent QueryAgent
}

func NewAskHandler(agent QueryAgent) *AskHandler {
	return &AskHandler{agent: agent}
}

// Ask handles POST /api/v1/ask. Empty questions are rejected here; the
// agent itself performs no validation on the question text.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		models.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	models.WriteJSON(w, http.StatusOK, h.agent.Answer(r.Context(), req.Question))
}

// TestConnection handles GET /api/v1/connection/test
func (h *AskHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	tables, err := h.agent.TestConnection(r.Context())
	if err != nil {
		models.WriteJSON(w, http.StatusOK, models.TablesResponse{OK: false, Tables: []string{}, Error: err.Error()})
		return
	}
	models.WriteJSON(w, http.StatusOK, models.TablesResponse{OK: true, Tables: tables})
}
