package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"khata/internal/core"
)

type budgetRequest struct {
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request, ident core.Identity) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if len(req.Amount) == 0 {
		badRequest(w, "amount is required")
		return
	}
	amount, err := decodeAmount(req.Amount)
	if err != nil {
		badRequest(w, "invalid amount: "+err.Error())
		return
	}

	budget, err := s.svc.SetBudget(r.Context(), ident, sanitizeInput(req.Category), amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(ident)
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request, ident core.Identity) {
	budgets, err := s.svc.ListBudgets(r.Context(), ident)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

// handleDeleteBudget always reports success: removing a budget that is
// already gone leaves the caller in the state they asked for.
func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request, ident core.Identity) {
	id, err := parseID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.svc.DeleteBudget(r.Context(), ident, id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(ident)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleRetireCategory reassigns every transaction in the category to
// "Uncategorized" and reports how many moved.
func (s *Server) handleRetireCategory(w http.ResponseWriter, r *http.Request, ident core.Identity) {
	// PathValue already yields the percent-decoded segment.
	name := strings.TrimSpace(r.PathValue("name"))

	moved, err := s.svc.RetireCategory(r.Context(), ident, name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(ident)
	writeJSON(w, http.StatusOK, map[string]int64{"transactions_moved": moved})
}
