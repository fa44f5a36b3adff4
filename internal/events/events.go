// AngelaMos | 2026
// events.go

package events

import (
	"time"
)

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrderCancelled     = "order.cancelled"
)

// Envelope is the wire shape of every published event. Version guards
// consumers against payload changes.
type Envelope struct {
	Type       string    `json:"type"`
	Version    int       `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type OrderItemPayload struct {
	ItemID      string  `json:"item_id"`
	ProductType string  `json:"product_type"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderPayload struct {
	OrderID string             `json:"order_id"`
	UserID  string             `json:"user_id"`
	Status  string             `json:"status"`
	Total   float64            `json:"total"`
	Items   []OrderItemPayload `json:"items,omitempty"`
}
