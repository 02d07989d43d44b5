package workers

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
)

// Repository handles worker persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a workers repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const workerColumns = `id, organization_id, name, is_partner, daily_wage, share_points, created_at, updated_at`

func scanWorker(row pgx.Row) (*models.Worker, error) {
	var w models.Worker
	err := row.Scan(&w.ID, &w.OrganizationID, &w.Name, &w.IsPartner, &w.DailyWage, &w.SharePoints,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts a worker.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, name string, isPartner bool, dailyWage decimal.Decimal, sharePoints int) (*models.Worker, error) {
	const q = `INSERT INTO workers (organization_id, name, is_partner, daily_wage, share_points)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + workerColumns
	return scanWorker(r.pool.QueryRow(ctx, q, orgID, name, isPartner, dailyWage, sharePoints))
}

// Update modifies a worker.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, name string, isPartner bool, dailyWage decimal.Decimal, sharePoints int) (*models.Worker, error) {
	const q = `UPDATE workers
		SET name = $3, is_partner = $4, daily_wage = $5, share_points = $6, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + workerColumns
	return scanWorker(r.pool.QueryRow(ctx, q, id, orgID, name, isPartner, dailyWage, sharePoints))
}

// Delete removes a worker. Fails with a foreign key violation while payouts
// reference the worker, which is intended.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM workers WHERE id = $1 AND organization_id = $2`, id, orgID)
	return err
}

// List returns all workers in the organization ordered by name.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Worker, error) {
	const q = `SELECT ` + workerColumns + ` FROM workers WHERE organization_id = $1 ORDER BY name, id`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkers(rows)
}

// GetByIDs returns workers matching the id set, scoped to the organization,
// in stable name order. The visit completion service relies on this order
// being deterministic between preview and commit.
func (r *Repository) GetByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]models.Worker, error) {
	const q = `SELECT ` + workerColumns + ` FROM workers
		WHERE organization_id = $1 AND id = ANY($2)
		ORDER BY name, id`
	rows, err := r.pool.Query(ctx, q, orgID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkers(rows)
}

func collectWorkers(rows pgx.Rows) ([]models.Worker, error) {
	var list []models.Worker
	for rows.Next() {
		var w models.Worker
		if err := rows.Scan(&w.ID, &w.OrganizationID, &w.Name, &w.IsPartner, &w.DailyWage, &w.SharePoints,
			&w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}
