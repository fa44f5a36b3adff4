// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
)

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]Product, int, error)
	// DecrementStock conditionally takes qty units. Returns false
	// without error when stock is insufficient.
	DecrementStock(ctx context.Context, db core.DBTX, id string, qty int) (bool, error)
	RestoreStock(ctx context.Context, db core.DBTX, id string, qty int) error
}

type NewArrivalRepository interface {
	Create(ctx context.Context, a *NewArrival) error
	GetByID(ctx context.Context, id string) (*NewArrival, error)
	Update(ctx context.Context, a *NewArrival) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]NewArrival, int, error)
}

type productRepository struct {
	db core.DBTX
}

func NewProductRepository(db core.DBTX) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (id, name, description, price, category, brand, stock, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Brand,
		p.Stock,
		p.Images,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *productRepository) GetByID(
	ctx context.Context,
	id string,
) (*Product, error) {
	query := `
		SELECT id, name, description, price, category, brand, stock, images,
		       created_at, updated_at
		FROM products
		WHERE id = $1`

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

func (r *productRepository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5,
		    brand = $6, stock = $7, images = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &p.UpdatedAt, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Brand,
		p.Stock,
		p.Images,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM products WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *productRepository) List(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	params.Normalize()

	whereClause, args, argIdx := buildCatalogFilter(params)

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM products %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, price, category, brand, stock, images,
		       created_at, updated_at
		FROM products
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		whereClause, params.OrderBy(), argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) DecrementStock(
	ctx context.Context,
	db core.DBTX,
	id string,
	qty int,
) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2`

	result, err := db.ExecContext(ctx, query, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}

	return rows > 0, nil
}

func (r *productRepository) RestoreStock(
	ctx context.Context,
	db core.DBTX,
	id string,
	qty int,
) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1`

	if _, err := db.ExecContext(ctx, query, id, qty); err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}

	return nil
}

type newArrivalRepository struct {
	db core.DBTX
}

func NewNewArrivalRepository(db core.DBTX) NewArrivalRepository {
	return &newArrivalRepository{db: db}
}

func (r *newArrivalRepository) Create(
	ctx context.Context,
	a *NewArrival,
) error {
	query := `
		INSERT INTO new_arrivals (id, name, description, price, category, brand, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, a, query,
		a.ID,
		a.Name,
		a.Description,
		a.Price,
		a.Category,
		a.Brand,
		a.Images,
	)
	if err != nil {
		return fmt.Errorf("create new arrival: %w", err)
	}

	return nil
}

func (r *newArrivalRepository) GetByID(
	ctx context.Context,
	id string,
) (*NewArrival, error) {
	query := `
		SELECT id, name, description, price, category, brand, images,
		       created_at, updated_at
		FROM new_arrivals
		WHERE id = $1`

	var a NewArrival
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get new arrival: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get new arrival: %w", err)
	}

	return &a, nil
}

func (r *newArrivalRepository) Update(
	ctx context.Context,
	a *NewArrival,
) error {
	query := `
		UPDATE new_arrivals
		SET name = $2, description = $3, price = $4, category = $5,
		    brand = $6, images = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &a.UpdatedAt, query,
		a.ID,
		a.Name,
		a.Description,
		a.Price,
		a.Category,
		a.Brand,
		a.Images,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update new arrival: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update new arrival: %w", err)
	}

	return nil
}

func (r *newArrivalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM new_arrivals WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete new arrival: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete new arrival: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete new arrival: %w", core.ErrNotFound)
	}

	return nil
}

func (r *newArrivalRepository) List(
	ctx context.Context,
	params ListParams,
) ([]NewArrival, int, error) {
	params.Normalize()

	whereClause, args, argIdx := buildCatalogFilter(params)

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM new_arrivals %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count new arrivals: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, price, category, brand, images,
		       created_at, updated_at
		FROM new_arrivals
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		whereClause, params.OrderBy(), argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var arrivals []NewArrival
	if err := r.db.SelectContext(ctx, &arrivals, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list new arrivals: %w", err)
	}

	return arrivals, total, nil
}

func buildCatalogFilter(params ListParams) (string, []any, int) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	return whereClause, args, argIdx
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
