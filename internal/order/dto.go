// AngelaMos | 2026
// dto.go

package order

import (
	"time"
)

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,gte=1"`
}

type ShippingDetails struct {
	Name    string `json:"name"    validate:"required,min=1,max=200"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Phone   string `json:"phone"   validate:"required,min=5,max=30"`
	Address string `json:"address" validate:"required,min=1,max=500"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"            validate:"required,min=1,dive"`
	ShippingDetails ShippingDetails    `json:"shipping_details" validate:"required"`
	TotalAmount     float64            `json:"total_amount"     validate:"required,gt=0"`
	PaymentMethod   string             `json:"payment_method"   validate:"required,min=1,max=50"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

type OrderItemResponse struct {
	ItemID      string  `json:"item_id"`
	ProductType string  `json:"product_type"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	Status          string              `json:"status"`
	TotalAmount     float64             `json:"total_amount"`
	PaymentMethod   string              `json:"payment_method"`
	ShippingDetails ShippingDetails     `json:"shipping_details"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type ListParams struct {
	Page     int
	PageSize int
	Status   string
	UserID   string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// missingItemName is what a line item renders as once its source row
// has been deleted from the catalog.
const missingItemName = "Product not found"

func toItemResponse(v *OrderItemView) OrderItemResponse {
	name := missingItemName
	if v.CurrentName.Valid {
		name = v.CurrentName.String
	}

	return OrderItemResponse{
		ItemID:      v.ItemID,
		ProductType: v.ProductType,
		Name:        name,
		Quantity:    v.Quantity,
		Price:       v.Price,
	}
}

func ToOrderResponse(o *Order, items []OrderItemView) OrderResponse {
	itemResponses := make([]OrderItemResponse, 0, len(items))
	for i := range items {
		itemResponses = append(itemResponses, toItemResponse(&items[i]))
	}

	return OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod,
		ShippingDetails: ShippingDetails{
			Name:    o.ShippingName,
			Email:   o.ShippingEmail,
			Phone:   o.ShippingPhone,
			Address: o.ShippingAddress,
		},
		Items:     itemResponses,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
