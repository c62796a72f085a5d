package database

import (
	"context"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type BudgetRepo struct {
	table  table[models.Budget]
	logger zerolog.Logger
}

func NewBudgetRepo(client backend.Client) *BudgetRepo {
	return &BudgetRepo{
		table:  table[models.Budget]{client: client, name: models.Budget{}.TableName()},
		logger: log.With().Str("repo", "budgetRepo").Logger(),
	}
}

func (r *BudgetRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Budget, error) {
	q := backend.From(r.table.name).Eq("project_id", projectID).OrderBy("created_at", false)
	budgets, err := r.table.list(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Error fetching budgets")
		return nil, err
	}
	return budgets, nil
}

func (r *BudgetRepo) Get(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	budget, err := r.table.get(ctx, id)
	if err != nil {
		r.logger.Error().Err(err).Str("budgetID", id.String()).Msg("Error fetching budget")
		return nil, err
	}
	return budget, nil
}

func (r *BudgetRepo) Create(ctx context.Context, budget *models.Budget) error {
	if err := r.table.insert(ctx, budget); err != nil {
		r.logger.Error().Err(err).Str("projectID", budget.ProjectID.String()).Msg("Error creating budget")
		return err
	}
	return nil
}

func (r *BudgetRepo) Update(ctx context.Context, id uuid.UUID, values map[string]any) (*models.Budget, error) {
	budget, err := r.table.update(ctx, id, withoutKeys(values, "id", "project_id", "created_at"))
	if err != nil {
		r.logger.Error().Err(err).Str("budgetID", id.String()).Msg("Error updating budget")
		return nil, err
	}
	return budget, nil
}

func (r *BudgetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.table.delete(ctx, id); err != nil {
		r.logger.Error().Err(err).Str("budgetID", id.String()).Msg("Error deleting budget")
		return err
	}
	return nil
}

type ExpenseRepo struct {
	table  table[models.Expense]
	logger zerolog.Logger
}

func NewExpenseRepo(client backend.Client) *ExpenseRepo {
	return &ExpenseRepo{
		table:  table[models.Expense]{client: client, name: models.Expense{}.TableName()},
		logger: log.With().Str("repo", "expenseRepo").Logger(),
	}
}

// ListForProject returns expenses newest first by the day they were incurred.
func (r *ExpenseRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Expense, error) {
	q := backend.From(r.table.name).Eq("project_id", projectID).OrderBy("incurred_on", true)
	expenses, err := r.table.list(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Error fetching expenses")
		return nil, err
	}
	return expenses, nil
}

func (r *ExpenseRepo) Get(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	expense, err := r.table.get(ctx, id)
	if err != nil {
		r.logger.Error().Err(err).Str("expenseID", id.String()).Msg("Error fetching expense")
		return nil, err
	}
	return expense, nil
}

func (r *ExpenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	if err := r.table.insert(ctx, expense); err != nil {
		r.logger.Error().Err(err).
			Str("projectID", expense.ProjectID.String()).
			Str("budgetID", expense.BudgetID.String()).
			Msg("Error creating expense")
		return err
	}
	return nil
}

func (r *ExpenseRepo) Update(ctx context.Context, id uuid.UUID, values map[string]any) (*models.Expense, error) {
	expense, err := r.table.update(ctx, id, withoutKeys(values, "id", "project_id", "created_at"))
	if err != nil {
		r.logger.Error().Err(err).Str("expenseID", id.String()).Msg("Error updating expense")
		return nil, err
	}
	return expense, nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.table.delete(ctx, id); err != nil {
		r.logger.Error().Err(err).Str("expenseID", id.String()).Msg("Error deleting expense")
		return err
	}
	return nil
}
