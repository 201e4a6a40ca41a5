package http

import (
	"net/http"

	"moneypilot/internal/core"
	"moneypilot/internal/log"
)

type transactionRequest struct {
	Title         string               `json:"title"`
	Amount        Amount               `json:"amount"`
	Type          core.TransactionType `json:"type"`
	Date          string               `json:"date"`
	BudgetID      string               `json:"budgetId"`
	CategoryID    string               `json:"categoryId"`
	SubcategoryID string               `json:"subcategoryId"`
}

func (t transactionRequest) transaction(id string) core.Transaction {
	return core.Transaction{
		ID:            id,
		Title:         sanitizeInput(t.Title),
		Amount:        float64(t.Amount),
		Type:          t.Type,
		Date:          sanitizeInput(t.Date),
		BudgetID:      sanitizeInput(t.BudgetID),
		CategoryID:    sanitizeInput(t.CategoryID),
		SubcategoryID: sanitizeInput(t.SubcategoryID),
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	tx, err := s.ledger.AddTransaction(r.Context(), req.transaction(""))
	if err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	respond(w, r, Created(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, log.OpUpdate, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		fail(w, r, log.OpUpdate, err)
		return
	}
	tx, err := s.ledger.UpdateTransaction(r.Context(), req.transaction(id))
	if err != nil {
		fail(w, r, log.OpUpdate, err)
		return
	}
	respond(w, r, OK(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.ledger.DeleteTransaction)
}

type budgetRequest struct {
	Name  string `json:"name"`
	Limit Amount `json:"limit"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	b, err := s.ledger.AddBudget(r.Context(), core.Budget{Name: sanitizeInput(req.Name), Limit: float64(req.Limit)})
	if err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	respond(w, r, Created(b))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.ledger.DeleteBudget)
}
