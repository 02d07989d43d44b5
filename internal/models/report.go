package models

import (
	"time"

	"github.com/google/uuid"
)

// Report export statuses.
const (
	ReportStatusPending   = "pending"
	ReportStatusCompleted = "completed"
	ReportStatusFailed    = "failed"
)

// ReportExport tracks an asynchronous monthly report export: requested via
// the API, built by the background worker, stored in S3.
type ReportExport struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	Status         string    `json:"status"`
	S3Key          string    `json:"-"`
	RequestedBy    uuid.UUID `json:"requested_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
