package models

import (
	"time"

	"github.com/google/uuid"
)

// Budget is a spending category of a project.
type Budget struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index:idx_budgets_project_id"`
	Category  string    `json:"category" gorm:"type:text;not null"`
	Amount    float64   `json:"amount" gorm:"type:numeric;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Budget) TableName() string {
	return "budgets"
}

// Expense is charged against a budget. Totals are not compared to Budget.Amount.
type Expense struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID   uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index:idx_expenses_project_id"`
	BudgetID    uuid.UUID `json:"budget_id" gorm:"type:uuid;not null;index:idx_expenses_budget_id"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	Amount      float64   `json:"amount" gorm:"type:numeric;not null"`
	IncurredOn  Date      `json:"incurred_on" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}
