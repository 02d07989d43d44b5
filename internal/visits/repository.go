package visits

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SebastianTorreiro/jardineria-crm/internal/finance"
	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
)

// Repository handles visit persistence, including the completion
// transaction that writes the visit status and payouts together.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a visits repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const visitColumns = `id, organization_id, property_id, scheduled_date, status,
	total_price, direct_expenses, COALESCE(notes, ''), completed_at, created_at, updated_at`

func scanVisit(row pgx.Row) (*models.Visit, error) {
	var v models.Visit
	err := row.Scan(&v.ID, &v.OrganizationID, &v.PropertyID, &v.ScheduledDate, &v.Status,
		&v.TotalPrice, &v.DirectExpenses, &v.Notes, &v.CompletedAt, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a pending visit.
func (r *Repository) Create(ctx context.Context, orgID, propertyID uuid.UUID, scheduledDate time.Time, notes string) (*models.Visit, error) {
	const q = `INSERT INTO visits (organization_id, property_id, scheduled_date, notes)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING ` + visitColumns
	return scanVisit(r.pool.QueryRow(ctx, q, orgID, propertyID, scheduledDate, notes))
}

// GetByID returns a visit scoped to the organization.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Visit, error) {
	const q = `SELECT ` + visitColumns + ` FROM visits WHERE id = $1 AND organization_id = $2`
	v, err := scanVisit(r.pool.QueryRow(ctx, q, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	return v, nil
}

// ListByDateRange returns visits in [start, end] joined with property
// address and client name, ordered by scheduled date.
func (r *Repository) ListByDateRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]models.VisitListItem, error) {
	const q = `SELECT v.id, v.organization_id, v.property_id, v.scheduled_date, v.status,
			v.total_price, v.direct_expenses, COALESCE(v.notes, ''), v.completed_at, v.created_at, v.updated_at,
			p.address, c.name
		FROM visits v
		INNER JOIN properties p ON p.id = v.property_id
		INNER JOIN clients c ON c.id = p.client_id
		WHERE v.organization_id = $1 AND v.scheduled_date >= $2 AND v.scheduled_date <= $3
		ORDER BY v.scheduled_date`
	rows, err := r.pool.Query(ctx, q, orgID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.VisitListItem
	for rows.Next() {
		var it models.VisitListItem
		if err := rows.Scan(&it.ID, &it.OrganizationID, &it.PropertyID, &it.ScheduledDate, &it.Status,
			&it.TotalPrice, &it.DirectExpenses, &it.Notes, &it.CompletedAt, &it.CreatedAt, &it.UpdatedAt,
			&it.PropertyAddress, &it.ClientName); err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// UpdateSchedule reschedules a pending visit.
func (r *Repository) UpdateSchedule(ctx context.Context, orgID, id, propertyID uuid.UUID, scheduledDate time.Time, notes string) (*models.Visit, error) {
	const q = `UPDATE visits
		SET property_id = $3, scheduled_date = $4, notes = NULLIF($5, ''), updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND status = 'pending'
		RETURNING ` + visitColumns
	v, err := scanVisit(r.pool.QueryRow(ctx, q, id, orgID, propertyID, scheduledDate, notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVisitNotPending
		}
		return nil, err
	}
	return v, nil
}

// Cancel marks a pending visit canceled. No payout side effects.
func (r *Repository) Cancel(ctx context.Context, orgID, id uuid.UUID) error {
	const q = `UPDATE visits SET status = 'canceled', updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND status = 'pending'`
	tag, err := r.pool.Exec(ctx, q, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, orgID, id); err != nil {
			return err
		}
		return ErrVisitNotPending
	}
	return nil
}

// CompleteParams carries the completion write: final amounts plus the
// computed breakdown to persist as payouts.
type CompleteParams struct {
	OrgID          uuid.UUID
	VisitID        uuid.UUID
	TotalPrice     decimal.Decimal
	DirectExpenses decimal.Decimal
	Notes          string
	Shares         []finance.Share
}

// Complete atomically marks the visit completed and inserts one payout row
// per share. The status = 'pending' guard inside the transaction is what
// makes concurrent completions safe: the second writer matches zero rows
// and the whole transaction, payouts included, rolls back.
func (r *Repository) Complete(ctx context.Context, p CompleteParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE visits
		SET status = 'completed', total_price = $3, direct_expenses = $4,
			notes = COALESCE(NULLIF($5, ''), notes), completed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND status = 'pending'`,
		p.VisitID, p.OrgID, p.TotalPrice, p.DirectExpenses, p.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM visits WHERE id = $1 AND organization_id = $2)`,
			p.VisitID, p.OrgID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrVisitNotFound
		}
		return ErrVisitNotPending
	}

	for _, s := range p.Shares {
		_, err = tx.Exec(ctx, `INSERT INTO payouts
			(organization_id, visit_id, worker_id, amount, share_percentage, type)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			p.OrgID, p.VisitID, s.WorkerID, s.Amount, s.Percentage, models.PayoutTypeShare)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
