package api

import (
	"net/http"

	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type expenseHandler struct {
	responder Responder
	repo      *database.ExpenseRepo
}

func newExpenseHandler(repo *database.ExpenseRepo) expenseHandler {
	logger := log.With().Str("handlerName", "expenseHandler").Logger()
	return expenseHandler{
		responder: NewResponder(logger),
		repo:      repo,
	}
}

// getExpenses lists a project's expenses, most recently incurred first
func (h expenseHandler) getExpenses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		expenses, err := h.repo.ListForProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "expenses", err))
			return
		}

		h.responder.WriteJSON(w, expenses)
	}
}

func (h expenseHandler) getExpense() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expenseID, err := uuidParam(r, "expenseID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		expense, err := h.repo.Get(r.Context(), expenseID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "expense", err))
			return
		}

		h.responder.WriteJSON(w, expense)
	}
}

type createExpenseRequest struct {
	BudgetID    uuid.UUID   `json:"budget_id"`
	Description *string     `json:"description"`
	Amount      *float64    `json:"amount"`
	IncurredOn  models.Date `json:"incurred_on"`
}

// createExpense records spending against one of the project's budgets
// @Summary Create expense
// @Description Totals are not checked against the budget amount
// @Tags Expenses
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param expense body createExpenseRequest true "Expense data"
// @Success 201 {object} models.Expense "Created expense"
// @Router /project/{projectID}/expenses [post]
func (h expenseHandler) createExpense() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req createExpenseRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.BudgetID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("budget_id"))
			return
		}
		if req.Amount == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("amount"))
			return
		}

		expense := models.Expense{
			ProjectID:   projectID,
			BudgetID:    req.BudgetID,
			Description: req.Description,
			Amount:      *req.Amount,
			IncurredOn:  req.IncurredOn,
		}
		if err := h.repo.Create(r.Context(), &expense); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "expense", err))
			return
		}

		h.responder.WriteCreated(w, expense)
	}
}

func (h expenseHandler) updateExpense() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expenseID, err := uuidParam(r, "expenseID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		changes, err := h.responder.DecodeChanges(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		expense, err := h.repo.Update(r.Context(), expenseID, changes)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "expense", err))
			return
		}

		h.responder.WriteJSON(w, expense)
	}
}

func (h expenseHandler) deleteExpense() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expenseID, err := uuidParam(r, "expenseID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.repo.Delete(r.Context(), expenseID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "expense", err))
			return
		}

		h.responder.WriteJSON(w, deleted("expense"))
	}
}
