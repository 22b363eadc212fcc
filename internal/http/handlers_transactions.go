package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"khata/internal/core"
	"khata/internal/ledger"
)

// transactionRequest is the JSON body for create and update. Every
// field is optional on update; create applies the same defaulting as
// the service layer. Amounts may be sent as JSON numbers or strings,
// both go through the exact decimal parser.
type transactionRequest struct {
	Type        *string         `json:"type"`
	Category    *string         `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Currency    *string         `json:"currency"`
	Description *string         `json:"description"`
	ReceiptURL  *string         `json:"receipt_url"`
	Date        *string         `json:"date"`
}

// decodeAmount parses a raw JSON amount, number or quoted string.
func decodeAmount(raw json.RawMessage) (core.Money, error) {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	return core.ParseAmount(s)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, ident core.Identity) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	tx := core.Transaction{}
	if req.Type != nil {
		tx.Type = core.TransactionType(strings.ToLower(sanitizeInput(*req.Type)))
	}
	if req.Category != nil {
		tx.Category = sanitizeInput(*req.Category)
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
	tx.Amount = amount
	if req.Currency != nil {
		tx.Currency = strings.ToUpper(sanitizeInput(*req.Currency))
	}
	if req.Description != nil {
		tx.Description = sanitizeInput(*req.Description)
	}
	if req.ReceiptURL != nil {
		tx.ReceiptURL = sanitizeInput(*req.ReceiptURL)
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			badRequest(w, "invalid date: expected RFC 3339 or YYYY-MM-DD")
			return
		}
		tx.Date = date
	}

	created, err := s.svc.CreateTransaction(r.Context(), ident, tx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(ident)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request, ident core.Identity) {
	id, err := parseID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	tx, err := s.svc.GetTransaction(r.Context(), ident, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, ident core.Identity) {
	id, err := parseID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	var patch ledger.TransactionPatch
	if req.Type != nil {
		t := core.TransactionType(strings.ToLower(sanitizeInput(*req.Type)))
		patch.Type = &t
	}
	if req.Category != nil {
		c := sanitizeInput(*req.Category)
		patch.Category = &c
	}
	if len(req.Amount) > 0 {
		amount, err := decodeAmount(req.Amount)
		if err != nil {
			badRequest(w, "invalid amount: "+err.Error())
			return
		}
		patch.Amount = &amount
	}
	if req.Currency != nil {
		c := strings.ToUpper(sanitizeInput(*req.Currency))
		patch.Currency = &c
	}
	if req.Description != nil {
		d := sanitizeInput(*req.Description)
		patch.Description = &d
	}
	if req.ReceiptURL != nil {
		u := sanitizeInput(*req.ReceiptURL)
		patch.ReceiptURL = &u
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			badRequest(w, "invalid date: expected RFC 3339 or YYYY-MM-DD")
			return
		}
		patch.Date = &date
	}

	updated, err := s.svc.UpdateTransaction(r.Context(), ident, id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(ident)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, ident core.Identity) {
	id, err := parseID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.svc.DeleteTransaction(r.Context(), ident, id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(ident)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, ident core.Identity) {
	var f ledger.TransactionFilter

	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		f.Category = v
	}
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t := core.TransactionType(strings.ToLower(v))
		if !t.Valid() {
			badRequest(w, "invalid type filter")
			return
		}
		f.Type = t
	}
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		from, err := parseDate(v)
		if err != nil {
			badRequest(w, "invalid from date")
			return
		}
		f.From = from
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		to, err := parseDate(v)
		if err != nil {
			badRequest(w, "invalid to date")
			return
		}
		f.To = to
	}

	txs, err := s.svc.ListTransactions(r.Context(), ident, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}
