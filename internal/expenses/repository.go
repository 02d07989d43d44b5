package expenses

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

// ErrExpenseNotFound is returned when an expense does not exist in the
// organization.
var ErrExpenseNotFound = errors.New("expense not found")

// Repository handles general expense persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an expenses repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const expenseColumns = `id, organization_id, amount, category, date, COALESCE(description, ''),
	created_at, updated_at`

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.OrganizationID, &e.Amount, &e.Category, &e.Date, &e.Description,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts an expense.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal, category string, date time.Time, description string) (*models.Expense, error) {
	const q = `INSERT INTO expenses (organization_id, amount, category, date, description)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING ` + expenseColumns
	return scanExpense(r.pool.QueryRow(ctx, q, orgID, amount, category, date, description))
}

// Delete removes an expense.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

// ListByDateRange returns expenses dated in [start, end), newest first.
func (r *Repository) ListByDateRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]models.Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses
		WHERE organization_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC, created_at DESC`
	rows, err := r.pool.Query(ctx, q, orgID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.Amount, &e.Category, &e.Date, &e.Description,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
