// AngelaMos | 2026
// dto_test.go

package order

import (
	"database/sql"
	"testing"

	"github.com/Kukusha-yon/carecorner-sub000/internal/catalog"
)

func TestToOrderResponseRendersCurrentName(t *testing.T) {
	o := &Order{ID: "o1", UserID: "u1", Status: StatusPending}
	items := []OrderItemView{
		{
			OrderItem: OrderItem{
				ItemID:      "p1",
				ProductType: catalog.KindProduct,
				Name:        "Old Name",
				Quantity:    1,
				Price:       10,
			},
			CurrentName: sql.NullString{String: "Renamed Product", Valid: true},
		},
	}

	resp := ToOrderResponse(o, items)
	if resp.Items[0].Name != "Renamed Product" {
		t.Errorf("name = %q, want the live catalog name", resp.Items[0].Name)
	}
}

func TestToOrderResponsePlaceholderForDeletedItem(t *testing.T) {
	o := &Order{ID: "o1", UserID: "u1", Status: StatusDelivered}
	items := []OrderItemView{
		{
			OrderItem: OrderItem{
				ItemID:      "p-gone",
				ProductType: catalog.KindProduct,
				Name:        "Captured Name",
				Quantity:    2,
				Price:       5,
			},
			// NULL join result: the product row no longer exists.
			CurrentName: sql.NullString{},
		},
	}

	resp := ToOrderResponse(o, items)
	if resp.Items[0].Name != "Product not found" {
		t.Errorf("name = %q, want placeholder", resp.Items[0].Name)
	}
	// The captured price and quantity still render.
	if resp.Items[0].Price != 5 || resp.Items[0].Quantity != 2 {
		t.Errorf("item = %+v, captured fields lost", resp.Items[0])
	}
}

func TestToOrderResponseEmptyItems(t *testing.T) {
	o := &Order{ID: "o1"}
	resp := ToOrderResponse(o, nil)
	if resp.Items == nil {
		t.Error("items should serialize as an empty array, not null")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled,
	} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	if ValidStatus("returned") {
		t.Error(`ValidStatus("returned") = true`)
	}
	if ValidStatus("") {
		t.Error(`ValidStatus("") = true`)
	}
}
