// AngelaMos | 2026
// dto_test.go

package catalog

import (
	"testing"
)

func TestListParamsNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       ListParams
		wantPage int
		wantSize int
		wantSort string
	}{
		{
			name:     "defaults",
			in:       ListParams{},
			wantPage: 1, wantSize: 20, wantSort: SortNewest,
		},
		{
			name:     "negative page",
			in:       ListParams{Page: -3, PageSize: 10, Sort: SortName},
			wantPage: 1, wantSize: 10, wantSort: SortName,
		},
		{
			name:     "page size capped",
			in:       ListParams{Page: 2, PageSize: 5000, Sort: SortPriceAsc},
			wantPage: 2, wantSize: 100, wantSort: SortPriceAsc,
		},
		{
			name:     "unknown sort falls back",
			in:       ListParams{Page: 1, PageSize: 20, Sort: "price; DROP TABLE products"},
			wantPage: 1, wantSize: 20, wantSort: SortNewest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", tt.in.Page, tt.wantPage)
			}
			if tt.in.PageSize != tt.wantSize {
				t.Errorf("page size = %d, want %d", tt.in.PageSize, tt.wantSize)
			}
			if tt.in.Sort != tt.wantSort {
				t.Errorf("sort = %q, want %q", tt.in.Sort, tt.wantSort)
			}
		})
	}
}

func TestOrderByOnlyEmitsWhitelistedColumns(t *testing.T) {
	for sort, clause := range sortColumns {
		p := ListParams{Sort: sort}
		p.Normalize()
		if got := p.OrderBy(); got != clause {
			t.Errorf("OrderBy(%q) = %q, want %q", sort, got, clause)
		}
	}
}

func TestToProductResponseNeverReturnsNilImages(t *testing.T) {
	p := Product{ID: "p1", Name: "Wheelchair", Price: 120.00}

	resp := ToProductResponse(&p)
	if resp.Images == nil {
		t.Fatal("images should serialize as an empty array, not null")
	}
	if len(resp.Images) != 0 {
		t.Errorf("images = %v, want empty", resp.Images)
	}
}

func TestOffset(t *testing.T) {
	p := ListParams{Page: 3, PageSize: 20}
	if got := p.Offset(); got != 40 {
		t.Errorf("offset = %d, want 40", got)
	}
}
