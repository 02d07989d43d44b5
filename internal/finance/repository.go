package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
)

// ErrExportNotFound is returned when a report export does not exist for the
// organization.
var ErrExportNotFound = errors.New("report export not found")

// Repository runs the aggregation queries behind the monthly summary and
// tracks report export jobs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a finance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// VisitTotals sums revenue and direct expenses over completed visits whose
// scheduled date falls in [start, end). Pending and canceled visits never
// contribute.
func (r *Repository) VisitTotals(ctx context.Context, orgID uuid.UUID, start, end time.Time) (revenue, direct decimal.Decimal, err error) {
	const q = `SELECT COALESCE(SUM(total_price), 0), COALESCE(SUM(direct_expenses), 0)
		FROM visits
		WHERE organization_id = $1 AND status = 'completed'
		  AND scheduled_date >= $2 AND scheduled_date < $3`

	err = r.pool.QueryRow(ctx, q, orgID, start, end).Scan(&revenue, &direct)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return revenue, direct, nil
}

// GeneralExpensesTotal sums general expenses dated in [start, end).
func (r *Repository) GeneralExpensesTotal(ctx context.Context, orgID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE organization_id = $1 AND date >= $2 AND date < $3`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, q, orgID, start, end).Scan(&total); err != nil {
		return decimal.Decimal{}, err
	}
	return total, nil
}

// PayoutTotalsByWorker sums payouts recorded in [start, end), grouped by
// worker. Ordered by total descending so callers can render the list as-is.
func (r *Repository) PayoutTotalsByWorker(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]PartnerPayoutSummary, error) {
	const q = `SELECT p.worker_id, w.name, SUM(p.amount)
		FROM payouts p
		JOIN workers w ON w.id = p.worker_id
		WHERE p.organization_id = $1 AND p.created_at >= $2 AND p.created_at < $3
		GROUP BY p.worker_id, w.name
		ORDER BY SUM(p.amount) DESC, w.name`

	rows, err := r.pool.Query(ctx, q, orgID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []PartnerPayoutSummary
	for rows.Next() {
		var t PartnerPayoutSummary
		if err := rows.Scan(&t.WorkerID, &t.WorkerName, &t.TotalAmount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// CreateExport inserts a pending report export row.
func (r *Repository) CreateExport(ctx context.Context, export *models.ReportExport) error {
	const q = `INSERT INTO report_exports (organization_id, month, year, requested_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at, updated_at`

	return r.pool.QueryRow(ctx, q,
		export.OrganizationID, export.Month, export.Year, export.RequestedBy,
	).Scan(&export.ID, &export.Status, &export.CreatedAt, &export.UpdatedAt)
}

// GetExport fetches one export scoped to the organization.
func (r *Repository) GetExport(ctx context.Context, orgID, exportID uuid.UUID) (*models.ReportExport, error) {
	const q = `SELECT id, organization_id, month, year, status, COALESCE(s3_key, ''),
			requested_by, created_at, updated_at
		FROM report_exports
		WHERE id = $1 AND organization_id = $2`

	var e models.ReportExport
	err := r.pool.QueryRow(ctx, q, exportID, orgID).Scan(
		&e.ID, &e.OrganizationID, &e.Month, &e.Year,
		&e.Status, &e.S3Key, &e.RequestedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExportNotFound
		}
		return nil, err
	}
	return &e, nil
}

// MarkExportCompleted records the uploaded object key and completes the export.
func (r *Repository) MarkExportCompleted(ctx context.Context, exportID uuid.UUID, s3Key string) error {
	const q = `UPDATE report_exports
		SET status = $2, s3_key = $3, updated_at = NOW()
		WHERE id = $1`

	_, err := r.pool.Exec(ctx, q, exportID, models.ReportStatusCompleted, s3Key)
	return err
}

// MarkExportFailed flags the export as failed after retries are exhausted.
func (r *Repository) MarkExportFailed(ctx context.Context, exportID uuid.UUID) error {
	const q = `UPDATE report_exports SET status = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.pool.Exec(ctx, q, exportID, models.ReportStatusFailed)
	return err
}
