package properties

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
)

// ErrPropertyNotFound is returned when a property does not exist in the
// organization.
var ErrPropertyNotFound = errors.New("property not found")

// Repository handles property persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a properties repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const propertyColumns = `id, organization_id, client_id, address, COALESCE(google_maps_link, ''),
	frequency_days, created_at, updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(&p.ID, &p.OrganizationID, &p.ClientID, &p.Address, &p.GoogleMapsLink,
		&p.FrequencyDays, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a property under a client. The client must belong to the
// same organization; the subquery guard makes a cross-tenant client ID fail
// the insert.
func (r *Repository) Create(ctx context.Context, orgID, clientID uuid.UUID, address, mapsLink string, frequencyDays *int) (*models.Property, error) {
	const q = `INSERT INTO properties (organization_id, client_id, address, google_maps_link, frequency_days)
		SELECT $1, $2, $3, NULLIF($4, ''), $5
		WHERE EXISTS (SELECT 1 FROM clients WHERE id = $2 AND organization_id = $1)
		RETURNING ` + propertyColumns
	return scanProperty(r.pool.QueryRow(ctx, q, orgID, clientID, address, mapsLink, frequencyDays))
}

// Update modifies a property.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, address, mapsLink string, frequencyDays *int) (*models.Property, error) {
	const q = `UPDATE properties
		SET address = $3, google_maps_link = NULLIF($4, ''), frequency_days = $5, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + propertyColumns
	return scanProperty(r.pool.QueryRow(ctx, q, id, orgID, address, mapsLink, frequencyDays))
}

// Delete removes a property. Fails while visits reference it.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// ListByClient returns a client's properties ordered by address.
func (r *Repository) ListByClient(ctx context.Context, orgID, clientID uuid.UUID) ([]models.Property, error) {
	const q = `SELECT ` + propertyColumns + ` FROM properties
		WHERE organization_id = $1 AND client_id = $2
		ORDER BY address, id`
	rows, err := r.pool.Query(ctx, q, orgID, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.ClientID, &p.Address, &p.GoogleMapsLink,
			&p.FrequencyDays, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
