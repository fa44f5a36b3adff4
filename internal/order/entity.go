// AngelaMos | 2026
// entity.go

package order

import (
	"database/sql"
	"time"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Status          string    `db:"status"`
	TotalAmount     float64   `db:"total_amount"`
	PaymentMethod   string    `db:"payment_method"`
	ShippingName    string    `db:"shipping_name"`
	ShippingEmail   string    `db:"shipping_email"`
	ShippingPhone   string    `db:"shipping_phone"`
	ShippingAddress string    `db:"shipping_address"`
	StockRestored   bool      `db:"stock_restored"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// OrderItem captures the resolved item at checkout time: which table
// it came from (ProductType), and the price that was charged. The
// source row may vanish later; the captured fields keep the order
// renderable.
type OrderItem struct {
	ID          string  `db:"id"`
	OrderID     string  `db:"order_id"`
	ItemID      string  `db:"item_id"`
	ProductType string  `db:"product_type"`
	Name        string  `db:"name"`
	Quantity    int     `db:"quantity"`
	Price       float64 `db:"price"`
}

// OrderItemView joins an item to its source table; CurrentName is NULL
// when the source row no longer exists.
type OrderItemView struct {
	OrderItem
	CurrentName sql.NullString `db:"current_name"`
}
