// AngelaMos | 2026
// entity.go

package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kukusha-yon/carecorner-sub000/internal/images"
)

// ImageList stores upload references as a JSONB column.
type ImageList []images.Image

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *ImageList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("scan image list: unsupported type %T", src)
	}
}

type Product struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	Category    string    `db:"category"`
	Brand       string    `db:"brand"`
	Stock       int       `db:"stock"`
	Images      ImageList `db:"images"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// NewArrival is a promotional listing. It carries no stock and never
// participates in inventory movement.
type NewArrival struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	Category    string    `db:"category"`
	Brand       string    `db:"brand"`
	Images      ImageList `db:"images"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const (
	KindProduct    = "product"
	KindNewArrival = "new_arrival"
)

// ResolvedItem is the catalog's answer for an arbitrary item ID:
// which table it lives in, its authoritative price, and stock when
// the kind tracks it.
type ResolvedItem struct {
	Kind  string
	ID    string
	Name  string
	Price float64
	Stock *int
}

func (i *ResolvedItem) TracksStock() bool {
	return i.Kind == KindProduct
}
