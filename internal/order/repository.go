// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
)

type Repository interface {
	Create(ctx context.Context, db core.DBTX, o *Order, items []OrderItem) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetItems(ctx context.Context, orderID string) ([]OrderItemView, error)
	List(ctx context.Context, params ListParams) ([]Order, int, error)
	UpdateStatus(ctx context.Context, db core.DBTX, id, status string) error
	// MarkStockRestored flips the restored flag. Returns false when the
	// flag was already set, so stock moves back at most once per order.
	MarkStockRestored(ctx context.Context, db core.DBTX, id string) (bool, error)
	Delete(ctx context.Context, db core.DBTX, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	db core.DBTX,
	o *Order,
	items []OrderItem,
) error {
	query := `
		INSERT INTO orders (
			id, user_id, status, total_amount, payment_method,
			shipping_name, shipping_email, shipping_phone, shipping_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := db.GetContext(ctx, o, query,
		o.ID,
		o.UserID,
		o.Status,
		o.TotalAmount,
		o.PaymentMethod,
		o.ShippingName,
		o.ShippingEmail,
		o.ShippingPhone,
		o.ShippingAddress,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, item_id, product_type, name, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i := range items {
		item := &items[i]
		_, err := db.ExecContext(ctx, itemQuery,
			item.ID,
			item.OrderID,
			item.ItemID,
			item.ProductType,
			item.Name,
			item.Quantity,
			item.Price,
		)
		if err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `
		SELECT id, user_id, status, total_amount, payment_method,
		       shipping_name, shipping_email, shipping_phone, shipping_address,
		       stock_restored, created_at, updated_at
		FROM orders
		WHERE id = $1`

	var o Order
	err := r.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &o, nil
}

// GetItems joins each line item back to its source table by the
// product_type tag; current_name comes back NULL for deleted rows.
func (r *repository) GetItems(
	ctx context.Context,
	orderID string,
) ([]OrderItemView, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.item_id, oi.product_type, oi.name,
		       oi.quantity, oi.price,
		       COALESCE(p.name, na.name) AS current_name
		FROM order_items oi
		LEFT JOIN products p
			ON oi.product_type = 'product' AND p.id = oi.item_id
		LEFT JOIN new_arrivals na
			ON oi.product_type = 'new_arrival' AND na.id = oi.item_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	var items []OrderItemView
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}

	return items, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Order, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, params.UserID)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, status, total_amount, payment_method,
		       shipping_name, shipping_email, shipping_phone, shipping_address,
		       stock_restored, created_at, updated_at
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	db core.DBTX,
	id, status string,
) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update order status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) MarkStockRestored(
	ctx context.Context,
	db core.DBTX,
	id string,
) (bool, error) {
	query := `
		UPDATE orders
		SET stock_restored = true, updated_at = NOW()
		WHERE id = $1 AND stock_restored = false`

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark stock restored: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark stock restored: %w", err)
	}

	return rows > 0, nil
}

func (r *repository) Delete(
	ctx context.Context,
	db core.DBTX,
	id string,
) error {
	result, err := db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete order: %w", core.ErrNotFound)
	}

	return nil
}
