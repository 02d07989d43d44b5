package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutTypeShare marks a partner's share of a visit's net margin, as
// opposed to flat wages which are recorded elsewhere.
const PayoutTypeShare = "share"

// Payout records one worker's share of one visit's net margin. Rows are
// written only inside the visit-completion transaction and are immutable:
// for a given visit the payout amounts sum exactly to total_price minus
// direct_expenses.
type Payout struct {
	ID              uuid.UUID       `json:"id"`
	OrganizationID  uuid.UUID       `json:"organization_id"`
	VisitID         uuid.UUID       `json:"visit_id"`
	WorkerID        uuid.UUID       `json:"worker_id"`
	Amount          decimal.Decimal `json:"amount"`
	SharePercentage decimal.Decimal `json:"share_percentage"`
	Type            string          `json:"type"`
	CreatedAt       time.Time       `json:"created_at"`
}
