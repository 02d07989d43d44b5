package organizations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
)

// ErrNoMembership is returned when a user belongs to no organization.
var ErrNoMembership = errors.New("user has no organization membership")

// Repository handles organization and membership persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateWithOwner creates an organization and the owner membership in one
// transaction.
func (r *Repository) CreateWithOwner(ctx context.Context, name string, ownerID uuid.UUID) (*models.Organization, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var org models.Organization
	err = tx.QueryRow(ctx,
		`INSERT INTO organizations (name) VALUES ($1)
		RETURNING id, name, created_at, updated_at`, name).
		Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO memberships (user_id, organization_id, role) VALUES ($1, $2, $3)`,
		ownerID, org.ID, models.MembershipRoleOwner)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &org, nil
}

// GetForUser returns the organization the user is a member of. The
// dashboard is single-org per user; the first membership wins.
func (r *Repository) GetForUser(ctx context.Context, userID uuid.UUID) (*models.Organization, error) {
	const q = `SELECT o.id, o.name, o.created_at, o.updated_at
		FROM organizations o
		INNER JOIN memberships m ON m.organization_id = o.id
		WHERE m.user_id = $1
		ORDER BY m.created_at
		LIMIT 1`
	var org models.Organization
	err := r.pool.QueryRow(ctx, q, userID).Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoMembership
		}
		return nil, err
	}
	return &org, nil
}

// AddMember adds a user to an organization.
func (r *Repository) AddMember(ctx context.Context, orgID, userID uuid.UUID, role string) error {
	const q = `INSERT INTO memberships (user_id, organization_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, organization_id) DO UPDATE SET role = EXCLUDED.role`
	_, err := r.pool.Exec(ctx, q, userID, orgID, role)
	return err
}

// IsMember reports whether the user belongs to the organization.
func (r *Repository) IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM memberships WHERE organization_id = $1 AND user_id = $2)`
	var ok bool
	err := r.pool.QueryRow(ctx, q, orgID, userID).Scan(&ok)
	return ok, err
}
