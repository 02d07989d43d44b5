package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
)

// ErrClientNotFound is returned when a client does not exist in the
// organization.
var ErrClientNotFound = errors.New("client not found")

// Repository handles client persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a clients repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const clientColumns = `id, organization_id, name, COALESCE(phone, ''), COALESCE(email, ''),
	COALESCE(notes, ''), created_at, updated_at`

func scanClient(row pgx.Row) (*models.Client, error) {
	var cl models.Client
	err := row.Scan(&cl.ID, &cl.OrganizationID, &cl.Name, &cl.Phone, &cl.Email, &cl.Notes,
		&cl.CreatedAt, &cl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &cl, nil
}

// Create inserts a client.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, name, phone, email, notes string) (*models.Client, error) {
	const q = `INSERT INTO clients (organization_id, name, phone, email, notes)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
		RETURNING ` + clientColumns
	return scanClient(r.pool.QueryRow(ctx, q, orgID, name, phone, email, notes))
}

// GetByID fetches one client scoped to the organization.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND organization_id = $2`
	return scanClient(r.pool.QueryRow(ctx, q, id, orgID))
}

// Update modifies a client.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, name, phone, email, notes string) (*models.Client, error) {
	const q = `UPDATE clients
		SET name = $3, phone = NULLIF($4, ''), email = NULLIF($5, ''), notes = NULLIF($6, ''), updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + clientColumns
	return scanClient(r.pool.QueryRow(ctx, q, id, orgID, name, phone, email, notes))
}

// Delete removes a client and cascades to its properties. Visits referencing
// a deleted property keep the historical rows via the FK restriction; the
// delete fails with a constraint error when history exists.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

// List returns all clients in the organization ordered by name.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE organization_id = $1 ORDER BY name, id`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Client
	for rows.Next() {
		var cl models.Client
		if err := rows.Scan(&cl.ID, &cl.OrganizationID, &cl.Name, &cl.Phone, &cl.Email, &cl.Notes,
			&cl.CreatedAt, &cl.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, cl)
	}
	return list, rows.Err()
}
