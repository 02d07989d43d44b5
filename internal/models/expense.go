package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense categories.
const (
	ExpenseCategoryFuel        = "fuel"
	ExpenseCategoryEquipment   = "equipment"
	ExpenseCategoryMaintenance = "maintenance"
	ExpenseCategoryOther       = "other"
)

// ValidExpenseCategory reports whether c is a known category.
func ValidExpenseCategory(c string) bool {
	switch c {
	case ExpenseCategoryFuel, ExpenseCategoryEquipment, ExpenseCategoryMaintenance, ExpenseCategoryOther:
		return true
	}
	return false
}

// Expense is a general business expense, not tied to a specific visit.
// Visit-specific costs live on the visit row as direct_expenses.
type Expense struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
