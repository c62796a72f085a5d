package api

import (
	"net/http"

	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/rs/zerolog/log"
)

type budgetHandler struct {
	responder Responder
	repo      *database.BudgetRepo
}

func newBudgetHandler(repo *database.BudgetRepo) budgetHandler {
	logger := log.With().Str("handlerName", "budgetHandler").Logger()
	return budgetHandler{
		responder: NewResponder(logger),
		repo:      repo,
	}
}

func (h budgetHandler) getBudgets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		budgets, err := h.repo.ListForProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "budgets", err))
			return
		}

		h.responder.WriteJSON(w, budgets)
	}
}

func (h budgetHandler) getBudget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		budgetID, err := uuidParam(r, "budgetID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		budget, err := h.repo.Get(r.Context(), budgetID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "budget", err))
			return
		}

		h.responder.WriteJSON(w, budget)
	}
}

// createBudget adds a spending category to a project
// @Summary Create budget
// @Tags Budgets
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param budget body models.Budget true "Budget data"
// @Success 201 {object} models.Budget "Created budget"
// @Router /project/{projectID}/budgets [post]
func (h budgetHandler) createBudget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var budget models.Budget
		if err := h.responder.DecodeJSON(r, &budget); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if budget.Category == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("category"))
			return
		}
		budget.ProjectID = projectID

		if err := h.repo.Create(r.Context(), &budget); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "budget", err))
			return
		}

		h.responder.WriteCreated(w, budget)
	}
}

func (h budgetHandler) updateBudget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		budgetID, err := uuidParam(r, "budgetID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		changes, err := h.responder.DecodeChanges(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		budget, err := h.repo.Update(r.Context(), budgetID, changes)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "budget", err))
			return
		}

		h.responder.WriteJSON(w, budget)
	}
}

func (h budgetHandler) deleteBudget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		budgetID, err := uuidParam(r, "budgetID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.repo.Delete(r.Context(), budgetID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "budget", err))
			return
		}

		h.responder.WriteJSON(w, deleted("budget"))
	}
}
