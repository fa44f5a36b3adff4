// AngelaMos | 2026
// dto.go

package content

import (
	"time"

	"github.com/Kukusha-yon/carecorner-sub000/internal/images"
)

type CreateFeaturedRequest struct {
	ProductID    string `json:"product_id"    validate:"required"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	Active       *bool  `json:"active,omitempty"`
}

type UpdateFeaturedRequest struct {
	DisplayOrder *int  `json:"display_order,omitempty" validate:"omitempty,gte=0"`
	Active       *bool `json:"active,omitempty"`
}

type FeaturedResponse struct {
	ID           string         `json:"id"`
	ProductID    string         `json:"product_id"`
	DisplayOrder int            `json:"display_order"`
	Active       bool           `json:"active"`
	ProductName  string         `json:"product_name,omitempty"`
	ProductPrice *float64       `json:"product_price,omitempty"`
	Images       []images.Image `json:"images,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type CreatePartnerRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=200"`
	Website string `json:"website" validate:"omitempty,url,max=500"`
}

type UpdatePartnerRequest struct {
	Name    *string `json:"name,omitempty"    validate:"omitempty,min=1,max=200"`
	Website *string `json:"website,omitempty" validate:"omitempty,url,max=500"`
}

type PartnerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpsertSettingRequest struct {
	Value SettingValue `json:"value" validate:"required"`
}

type SettingResponse struct {
	Key       string       `json:"key"`
	Value     SettingValue `json:"value"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func ToFeaturedResponse(v *FeaturedView) FeaturedResponse {
	resp := FeaturedResponse{
		ID:           v.ID,
		ProductID:    v.ProductID,
		DisplayOrder: v.DisplayOrder,
		Active:       v.Active,
		CreatedAt:    v.CreatedAt,
	}

	if v.ProductName.Valid {
		resp.ProductName = v.ProductName.String
	}
	if v.ProductPrice.Valid {
		price := v.ProductPrice.Float64
		resp.ProductPrice = &price
	}
	if len(v.ProductImages) > 0 {
		resp.Images = v.ProductImages
	}

	return resp
}

func ToFeaturedResponseList(views []FeaturedView) []FeaturedResponse {
	responses := make([]FeaturedResponse, 0, len(views))
	for i := range views {
		responses = append(responses, ToFeaturedResponse(&views[i]))
	}
	return responses
}

func ToPartnerResponse(p *Partner) PartnerResponse {
	return PartnerResponse{
		ID:        p.ID,
		Name:      p.Name,
		Website:   p.Website,
		LogoURL:   p.LogoURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToPartnerResponseList(partners []Partner) []PartnerResponse {
	responses := make([]PartnerResponse, 0, len(partners))
	for i := range partners {
		responses = append(responses, ToPartnerResponse(&partners[i]))
	}
	return responses
}

func ToSettingResponse(s *Setting) SettingResponse {
	return SettingResponse{
		Key:       s.Key,
		Value:     s.Value,
		UpdatedAt: s.UpdatedAt,
	}
}
