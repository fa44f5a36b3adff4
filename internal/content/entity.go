// AngelaMos | 2026
// entity.go

package content

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kukusha-yon/carecorner-sub000/internal/catalog"
)

type FeaturedProduct struct {
	ID           string    `db:"id"`
	ProductID    string    `db:"product_id"`
	DisplayOrder int       `db:"display_order"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// FeaturedView joins a featured slot to its product; the product
// columns are NULL when the product has been deleted.
type FeaturedView struct {
	FeaturedProduct
	ProductName   sql.NullString    `db:"product_name"`
	ProductPrice  sql.NullFloat64   `db:"product_price"`
	ProductImages catalog.ImageList `db:"product_images"`
}

type Partner struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Website      string    `db:"website"`
	LogoURL      string    `db:"logo_url"`
	LogoPublicID string    `db:"logo_public_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// SettingValue is an arbitrary JSON document stored per key.
type SettingValue map[string]any

func (v SettingValue) Value() (driver.Value, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

func (v *SettingValue) Scan(src any) error {
	switch s := src.(type) {
	case []byte:
		return json.Unmarshal(s, v)
	case string:
		return json.Unmarshal([]byte(s), v)
	case nil:
		*v = nil
		return nil
	default:
		return fmt.Errorf("scan setting value: unsupported type %T", src)
	}
}

type Setting struct {
	Key       string       `db:"key"`
	Value     SettingValue `db:"value"`
	UpdatedAt time.Time    `db:"updated_at"`
}
