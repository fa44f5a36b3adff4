// AngelaMos | 2026
// repository.go

package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
)

type FeaturedRepository interface {
	Create(ctx context.Context, f *FeaturedProduct) error
	GetByID(ctx context.Context, id string) (*FeaturedProduct, error)
	Update(ctx context.Context, f *FeaturedProduct) error
	Delete(ctx context.Context, id string) error
	// List returns featured slots joined to their products, active
	// first when activeOnly, ordered by display_order.
	List(ctx context.Context, activeOnly bool) ([]FeaturedView, error)
}

type PartnerRepository interface {
	Create(ctx context.Context, p *Partner) error
	GetByID(ctx context.Context, id string) (*Partner, error)
	Update(ctx context.Context, p *Partner) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Partner, error)
}

type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, s *Setting) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Setting, error)
}

type featuredRepository struct {
	db core.DBTX
}

func NewFeaturedRepository(db core.DBTX) FeaturedRepository {
	return &featuredRepository{db: db}
}

func (r *featuredRepository) Create(
	ctx context.Context,
	f *FeaturedProduct,
) error {
	query := `
		INSERT INTO featured_products (id, product_id, display_order, active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, f, query,
		f.ID,
		f.ProductID,
		f.DisplayOrder,
		f.Active,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create featured product: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create featured product: %w", err)
	}

	return nil
}

func (r *featuredRepository) GetByID(
	ctx context.Context,
	id string,
) (*FeaturedProduct, error) {
	query := `
		SELECT id, product_id, display_order, active, created_at, updated_at
		FROM featured_products
		WHERE id = $1`

	var f FeaturedProduct
	err := r.db.GetContext(ctx, &f, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get featured product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get featured product: %w", err)
	}

	return &f, nil
}

func (r *featuredRepository) Update(
	ctx context.Context,
	f *FeaturedProduct,
) error {
	query := `
		UPDATE featured_products
		SET display_order = $2, active = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &f.UpdatedAt, query,
		f.ID,
		f.DisplayOrder,
		f.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update featured product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update featured product: %w", err)
	}

	return nil
}

func (r *featuredRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM featured_products WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete featured product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete featured product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete featured product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *featuredRepository) List(
	ctx context.Context,
	activeOnly bool,
) ([]FeaturedView, error) {
	query := `
		SELECT f.id, f.product_id, f.display_order, f.active,
		       f.created_at, f.updated_at,
		       p.name AS product_name,
		       p.price AS product_price,
		       p.images AS product_images
		FROM featured_products f
		LEFT JOIN products p ON p.id = f.product_id`

	if activeOnly {
		query += ` WHERE f.active = true`
	}

	query += ` ORDER BY f.display_order ASC, f.created_at ASC`

	var views []FeaturedView
	if err := r.db.SelectContext(ctx, &views, query); err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}

	return views, nil
}

type partnerRepository struct {
	db core.DBTX
}

func NewPartnerRepository(db core.DBTX) PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) Create(ctx context.Context, p *Partner) error {
	query := `
		INSERT INTO partners (id, name, website, logo_url, logo_public_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Name,
		p.Website,
		p.LogoURL,
		p.LogoPublicID,
	)
	if err != nil {
		return fmt.Errorf("create partner: %w", err)
	}

	return nil
}

func (r *partnerRepository) GetByID(
	ctx context.Context,
	id string,
) (*Partner, error) {
	query := `
		SELECT id, name, website, logo_url, logo_public_id, created_at, updated_at
		FROM partners
		WHERE id = $1`

	var p Partner
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get partner: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get partner: %w", err)
	}

	return &p, nil
}

func (r *partnerRepository) Update(ctx context.Context, p *Partner) error {
	query := `
		UPDATE partners
		SET name = $2, website = $3, logo_url = $4, logo_public_id = $5,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &p.UpdatedAt, query,
		p.ID,
		p.Name,
		p.Website,
		p.LogoURL,
		p.LogoPublicID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update partner: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}

	return nil
}

func (r *partnerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM partners WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete partner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete partner: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete partner: %w", core.ErrNotFound)
	}

	return nil
}

func (r *partnerRepository) List(ctx context.Context) ([]Partner, error) {
	query := `
		SELECT id, name, website, logo_url, logo_public_id, created_at, updated_at
		FROM partners
		ORDER BY name ASC`

	var partners []Partner
	if err := r.db.SelectContext(ctx, &partners, query); err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}

	return partners, nil
}

type settingRepository struct {
	db core.DBTX
}

func NewSettingRepository(db core.DBTX) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(
	ctx context.Context,
	key string,
) (*Setting, error) {
	query := `SELECT key, value, updated_at FROM settings WHERE key = $1`

	var s Setting
	err := r.db.GetContext(ctx, &s, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get setting: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get setting: %w", err)
	}

	return &s, nil
}

func (r *settingRepository) Upsert(ctx context.Context, s *Setting) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &s.UpdatedAt, query, s.Key, s.Value)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}

	return nil
}

func (r *settingRepository) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM settings WHERE key = $1`,
		key,
	)
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete setting: %w", core.ErrNotFound)
	}

	return nil
}

func (r *settingRepository) List(ctx context.Context) ([]Setting, error) {
	query := `SELECT key, value, updated_at FROM settings ORDER BY key ASC`

	var settings []Setting
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	return settings, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
