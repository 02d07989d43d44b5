package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer of the gardening business.
type Client struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Property is a serviced location belonging to a client. FrequencyDays is
// the suggested interval between visits, nil when not set.
type Property struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	ClientID       uuid.UUID `json:"client_id"`
	Address        string    `json:"address"`
	GoogleMapsLink string    `json:"google_maps_link,omitempty"`
	FrequencyDays  *int      `json:"frequency_days,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
