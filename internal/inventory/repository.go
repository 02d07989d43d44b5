package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
)

// Not-found sentinels per inventory kind.
var (
	ErrToolNotFound   = errors.New("tool not found")
	ErrSupplyNotFound = errors.New("supply not found")
)

// Repository handles tool and supply persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an inventory repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const toolColumns = `id, organization_id, name, COALESCE(brand, ''), status, created_at, updated_at`

func scanTool(row pgx.Row) (*models.Tool, error) {
	var t models.Tool
	err := row.Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Brand, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrToolNotFound
		}
		return nil, err
	}
	return &t, nil
}

// CreateTool inserts a tool.
func (r *Repository) CreateTool(ctx context.Context, orgID uuid.UUID, name, brand, status string) (*models.Tool, error) {
	const q = `INSERT INTO tools (organization_id, name, brand, status)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING ` + toolColumns
	return scanTool(r.pool.QueryRow(ctx, q, orgID, name, brand, status))
}

// UpdateTool modifies a tool.
func (r *Repository) UpdateTool(ctx context.Context, orgID, id uuid.UUID, name, brand, status string) (*models.Tool, error) {
	const q = `UPDATE tools
		SET name = $3, brand = NULLIF($4, ''), status = $5, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + toolColumns
	return scanTool(r.pool.QueryRow(ctx, q, id, orgID, name, brand, status))
}

// DeleteTool removes a tool.
func (r *Repository) DeleteTool(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tools WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrToolNotFound
	}
	return nil
}

// ListTools returns all tools in the organization ordered by name.
func (r *Repository) ListTools(ctx context.Context, orgID uuid.UUID) ([]models.Tool, error) {
	const q = `SELECT ` + toolColumns + ` FROM tools WHERE organization_id = $1 ORDER BY name, id`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Tool
	for rows.Next() {
		var t models.Tool
		if err := rows.Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Brand, &t.Status,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

const supplyColumns = `id, organization_id, name, current_stock, min_stock, unit, created_at, updated_at`

func scanSupply(row pgx.Row) (*models.Supply, error) {
	var s models.Supply
	err := row.Scan(&s.ID, &s.OrganizationID, &s.Name, &s.CurrentStock, &s.MinStock, &s.Unit,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSupplyNotFound
		}
		return nil, err
	}
	s.LowStock = s.CurrentStock <= s.MinStock
	return &s, nil
}

// CreateSupply inserts a supply.
func (r *Repository) CreateSupply(ctx context.Context, orgID uuid.UUID, name string, currentStock, minStock int, unit string) (*models.Supply, error) {
	const q = `INSERT INTO supplies (organization_id, name, current_stock, min_stock, unit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + supplyColumns
	return scanSupply(r.pool.QueryRow(ctx, q, orgID, name, currentStock, minStock, unit))
}

// UpdateSupply modifies a supply.
func (r *Repository) UpdateSupply(ctx context.Context, orgID, id uuid.UUID, name string, currentStock, minStock int, unit string) (*models.Supply, error) {
	const q = `UPDATE supplies
		SET name = $3, current_stock = $4, min_stock = $5, unit = $6, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + supplyColumns
	return scanSupply(r.pool.QueryRow(ctx, q, id, orgID, name, currentStock, minStock, unit))
}

// AdjustSupplyStock applies a delta to current stock, clamped at zero.
func (r *Repository) AdjustSupplyStock(ctx context.Context, orgID, id uuid.UUID, delta int) (*models.Supply, error) {
	const q = `UPDATE supplies
		SET current_stock = GREATEST(current_stock + $3, 0), updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + supplyColumns
	return scanSupply(r.pool.QueryRow(ctx, q, id, orgID, delta))
}

// DeleteSupply removes a supply.
func (r *Repository) DeleteSupply(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM supplies WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSupplyNotFound
	}
	return nil
}

// ListSupplies returns all supplies in the organization ordered by name.
func (r *Repository) ListSupplies(ctx context.Context, orgID uuid.UUID) ([]models.Supply, error) {
	const q = `SELECT ` + supplyColumns + ` FROM supplies WHERE organization_id = $1 ORDER BY name, id`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Supply
	for rows.Next() {
		var s models.Supply
		if err := rows.Scan(&s.ID, &s.OrganizationID, &s.Name, &s.CurrentStock, &s.MinStock, &s.Unit,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.LowStock = s.CurrentStock <= s.MinStock
		list = append(list, s)
	}
	return list, rows.Err()
}
