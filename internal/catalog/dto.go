// AngelaMos | 2026
// dto.go

package catalog

import (
	"time"

	"github.com/Kukusha-yon/carecorner-sub000/internal/images"
)

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Category    string  `json:"category"    validate:"required,min=1,max=100"`
	Brand       string  `json:"brand"       validate:"max=100"`
	Stock       int     `json:"stock"       validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price,omitempty"       validate:"omitempty,gt=0"`
	Category    *string  `json:"category,omitempty"    validate:"omitempty,min=1,max=100"`
	Brand       *string  `json:"brand,omitempty"       validate:"omitempty,max=100"`
	Stock       *int     `json:"stock,omitempty"       validate:"omitempty,gte=0"`
}

type CreateNewArrivalRequest struct {
	Name        string  `json:"name"        validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Category    string  `json:"category"    validate:"required,min=1,max=100"`
	Brand       string  `json:"brand"       validate:"max=100"`
}

type UpdateNewArrivalRequest struct {
	Name        *string  `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price,omitempty"       validate:"omitempty,gt=0"`
	Category    *string  `json:"category,omitempty"    validate:"omitempty,min=1,max=100"`
	Brand       *string  `json:"brand,omitempty"       validate:"omitempty,max=100"`
}

type ProductResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Brand       string         `json:"brand,omitempty"`
	Stock       int            `json:"stock"`
	Images      []images.Image `json:"images"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type NewArrivalResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Brand       string         `json:"brand,omitempty"`
	Images      []images.Image `json:"images"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// sortColumns whitelists the ORDER BY clause; anything else falls back
// to newest.
var sortColumns = map[string]string{
	SortNewest:    "created_at DESC",
	SortPriceAsc:  "price ASC",
	SortPriceDesc: "price DESC",
	SortName:      "name ASC",
}

type ListParams struct {
	Page     int
	PageSize int
	Category string
	Search   string
	Sort     string
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
	if _, ok := sortColumns[p.Sort]; !ok {
		p.Sort = SortNewest
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *ListParams) OrderBy() string {
	return sortColumns[p.Sort]
}

func ToProductResponse(p *Product) ProductResponse {
	imgs := []images.Image(p.Images)
	if imgs == nil {
		imgs = []images.Image{}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Brand:       p.Brand,
		Stock:       p.Stock,
		Images:      imgs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}

func ToNewArrivalResponse(a *NewArrival) NewArrivalResponse {
	imgs := []images.Image(a.Images)
	if imgs == nil {
		imgs = []images.Image{}
	}
	return NewArrivalResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Price:       a.Price,
		Category:    a.Category,
		Brand:       a.Brand,
		Images:      imgs,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func ToNewArrivalResponseList(arrivals []NewArrival) []NewArrivalResponse {
	responses := make([]NewArrivalResponse, 0, len(arrivals))
	for i := range arrivals {
		responses = append(responses, ToNewArrivalResponse(&arrivals[i]))
	}
	return responses
}
