// AngelaMos | 2026
// resolver_test.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
)

type stubProductRepo struct {
	ProductRepository
	products map[string]*Product
	err      error
}

func (s *stubProductRepo) GetByID(
	_ context.Context,
	id string,
) (*Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	return p, nil
}

type stubArrivalRepo struct {
	NewArrivalRepository
	arrivals map[string]*NewArrival
}

func (s *stubArrivalRepo) GetByID(
	_ context.Context,
	id string,
) (*NewArrival, error) {
	a, ok := s.arrivals[id]
	if !ok {
		return nil, fmt.Errorf("get new arrival: %w", core.ErrNotFound)
	}
	return a, nil
}

func newTestResolver(productErr error) *Resolver {
	return NewResolver(
		&stubProductRepo{
			products: map[string]*Product{
				"p1": {ID: "p1", Name: "Wheelchair", Price: 120.00, Stock: 7},
			},
			err: productErr,
		},
		&stubArrivalRepo{
			arrivals: map[string]*NewArrival{
				"a1": {ID: "a1", Name: "Cane", Price: 15.50},
			},
		},
	)
}

func TestResolveProduct(t *testing.T) {
	r := newTestResolver(nil)

	ri, err := r.Resolve(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if ri.Kind != KindProduct {
		t.Errorf("kind = %q, want %q", ri.Kind, KindProduct)
	}
	if !ri.TracksStock() {
		t.Error("product item should track stock")
	}
	if ri.Stock == nil || *ri.Stock != 7 {
		t.Errorf("stock = %v, want 7", ri.Stock)
	}
	if ri.Price != 120.00 {
		t.Errorf("price = %v, want 120.00", ri.Price)
	}
}

func TestResolveFallsThroughToNewArrivals(t *testing.T) {
	r := newTestResolver(nil)

	ri, err := r.Resolve(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if ri.Kind != KindNewArrival {
		t.Errorf("kind = %q, want %q", ri.Kind, KindNewArrival)
	}
	if ri.TracksStock() {
		t.Error("new arrival item should not track stock")
	}
}

func TestResolveUnknownID(t *testing.T) {
	r := newTestResolver(nil)

	_, err := r.Resolve(context.Background(), "ghost")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveSurfacesRepositoryErrors(t *testing.T) {
	boom := errors.New("connection reset")
	r := newTestResolver(boom)

	// A real failure must not be mistaken for a missing row, otherwise
	// the arrival lookup could shadow a database outage.
	_, err := r.Resolve(context.Background(), "p1")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped repository error", err)
	}
}
