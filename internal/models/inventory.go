package models

import (
	"time"

	"github.com/google/uuid"
)

// Tool statuses.
const (
	ToolStatusOK      = "ok"
	ToolStatusService = "service"
	ToolStatusBroken  = "broken"
)

// ValidToolStatus reports whether s is a known tool status.
func ValidToolStatus(s string) bool {
	switch s {
	case ToolStatusOK, ToolStatusService, ToolStatusBroken:
		return true
	}
	return false
}

// Tool is a piece of equipment tracked in inventory.
type Tool struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Supply is a consumable with stock tracking. LowStock is derived at read
// time, never stored.
type Supply struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	CurrentStock   int       `json:"current_stock"`
	MinStock       int       `json:"min_stock"`
	Unit           string    `json:"unit"`
	LowStock       bool      `json:"low_stock"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
