// AngelaMos | 2026
// resolver.go

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
)

// Resolver is the single dispatch point for "what is this item ID":
// products first, then new arrivals. Callers branch on Kind instead of
// probing tables themselves.
type Resolver struct {
	products ProductRepository
	arrivals NewArrivalRepository
}

func NewResolver(
	products ProductRepository,
	arrivals NewArrivalRepository,
) *Resolver {
	return &Resolver{products: products, arrivals: arrivals}
}

func (r *Resolver) Resolve(
	ctx context.Context,
	id string,
) (*ResolvedItem, error) {
	p, err := r.products.GetByID(ctx, id)
	if err == nil {
		stock := p.Stock
		return &ResolvedItem{
			Kind:  KindProduct,
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Stock: &stock,
		}, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("resolve item: %w", err)
	}

	a, err := r.arrivals.GetByID(ctx, id)
	if err == nil {
		return &ResolvedItem{
			Kind:  KindNewArrival,
			ID:    a.ID,
			Name:  a.Name,
			Price: a.Price,
		}, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("resolve item: %w", err)
	}

	return nil, fmt.Errorf("resolve item %s: %w", id, core.ErrNotFound)
}
