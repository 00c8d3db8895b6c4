package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weblease/weblease-backend/internal/domain"
)

// SiteRepository implements domain.SiteRepository using PostgreSQL
type SiteRepository struct {
	pool *pgxpool.Pool
}

// NewSiteRepository creates a new SiteRepository
func NewSiteRepository(pool *pgxpool.Pool) *SiteRepository {
	return &SiteRepository{pool: pool}
}

const siteColumns = `id, name, slug, description, monthly_price, active, created_at, updated_at, deleted_at`

// Create inserts a new catalog site
func (r *SiteRepository) Create(site *domain.Site) (*domain.Site, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO sites (id, name, slug, description, monthly_price, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+siteColumns,
		uuid.New(), site.Name, site.Slug, textFromPtr(site.Description),
		site.MonthlyPrice.String(), site.Active,
	)
	return scanSite(row)
}

// GetByID retrieves a site by ID, excluding soft-deleted sites
func (r *SiteRepository) GetByID(id uuid.UUID) (*domain.Site, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE id = $1 AND deleted_at IS NULL`, id)
	site, err := scanSite(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSiteNotFound
		}
		return nil, err
	}
	return site, nil
}

// List retrieves catalog sites; includeInactive widens the listing for admin
func (r *SiteRepository) List(includeInactive bool) ([]*domain.Site, error) {
	ctx := context.Background()
	query := `SELECT ` + siteColumns + ` FROM sites WHERE deleted_at IS NULL`
	if !includeInactive {
		query += ` AND active`
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, site)
	}
	return result, rows.Err()
}

// Update updates a catalog site
func (r *SiteRepository) Update(site *domain.Site) (*domain.Site, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE sites
		SET name = $2, slug = $3, description = $4, monthly_price = $5, active = $6, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+siteColumns,
		site.ID, site.Name, site.Slug, textFromPtr(site.Description),
		site.MonthlyPrice.String(), site.Active,
	)
	updated, err := scanSite(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSiteNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a site as deleted. Rentals referencing it keep working
// and degrade to the removed-site placeholder on display.
func (r *SiteRepository) SoftDelete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE sites SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSiteNotFound
	}
	return nil
}

func scanSite(row pgx.Row) (*domain.Site, error) {
	var (
		site         domain.Site
		description  pgtype.Text
		monthlyPrice pgtype.Numeric
		deletedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&site.ID, &site.Name, &site.Slug, &description, &monthlyPrice,
		&site.Active, &site.CreatedAt, &site.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if site.MonthlyPrice, err = numericToDecimal(monthlyPrice); err != nil {
		return nil, err
	}
	site.Description = textOrNil(description)
	site.DeletedAt = timeOrNil(deletedAt)

	return &site, nil
}
