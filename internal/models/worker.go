package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Worker is a person who attends visits. Partners share the net margin of
// completed visits proportionally to SharePoints; non-partners are paid a
// flat daily wage and never participate in the split.
type Worker struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Name           string          `json:"name"`
	IsPartner      bool            `json:"is_partner"`
	DailyWage      decimal.Decimal `json:"daily_wage"`
	SharePoints    int             `json:"share_points"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
