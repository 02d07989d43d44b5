package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Visit statuses. A visit is created pending, transitions to completed
// exactly once, or to canceled with no financial side effects.
const (
	VisitStatusPending   = "pending"
	VisitStatusCompleted = "completed"
	VisitStatusCanceled  = "canceled"
)

// Visit is a scheduled or completed service event at one property.
// TotalPrice and DirectExpenses are null until the visit is completed.
type Visit struct {
	ID             uuid.UUID           `json:"id"`
	OrganizationID uuid.UUID           `json:"organization_id"`
	PropertyID     uuid.UUID           `json:"property_id"`
	ScheduledDate  time.Time           `json:"scheduled_date"`
	Status         string              `json:"status"`
	TotalPrice     decimal.NullDecimal `json:"total_price"`
	DirectExpenses decimal.NullDecimal `json:"direct_expenses"`
	Notes          string              `json:"notes,omitempty"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// VisitListItem is a visit joined with its property address and client name
// for calendar and list views.
type VisitListItem struct {
	Visit
	PropertyAddress string `json:"property_address"`
	ClientName      string `json:"client_name"`
}
