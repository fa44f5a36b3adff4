// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Kukusha-yon/carecorner-sub000/internal/audit"
	"github.com/Kukusha-yon/carecorner-sub000/internal/images"
)

const (
	productFolder = "carecorner/products"
	arrivalFolder = "carecorner/new-arrivals"
)

type Service struct {
	products ProductRepository
	arrivals NewArrivalRepository
	cache    *Cache
	uploader images.Uploader
	audit    *audit.Recorder
	logger   *slog.Logger
}

func NewService(
	products ProductRepository,
	arrivals NewArrivalRepository,
	cache *Cache,
	uploader images.Uploader,
	auditRecorder *audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		products: products,
		arrivals: arrivals,
		cache:    cache,
		uploader: uploader,
		audit:    auditRecorder,
		logger:   logger,
	}
}

func (s *Service) ListProducts(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	return s.products.List(ctx, params)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	if p, ok := s.cache.GetProduct(ctx, id); ok {
		return p, nil
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetProduct(ctx, p)
	return p, nil
}

func (s *Service) CreateProduct(
	ctx context.Context,
	actorID string,
	req CreateProductRequest,
	uploads []io.Reader,
) (*Product, error) {
	imgs, err := s.uploadAll(ctx, uploads, productFolder)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		Stock:       req.Stock,
		Images:      imgs,
	}

	if err := s.products.Create(ctx, p); err != nil {
		s.deleteImages(ctx, imgs)
		return nil, err
	}

	s.audit.Record(ctx, actorID, audit.ActionCreate, "product", p.ID, audit.Detail{
		"name": p.Name,
	})

	return p, nil
}

func (s *Service) UpdateProduct(
	ctx context.Context,
	actorID, id string,
	req UpdateProductRequest,
	uploads []io.Reader,
) (*Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	imgs, err := s.uploadAll(ctx, uploads, productFolder)
	if err != nil {
		return nil, err
	}
	p.Images = append(p.Images, imgs...)

	if err := s.products.Update(ctx, p); err != nil {
		s.deleteImages(ctx, imgs)
		return nil, err
	}

	s.cache.InvalidateProduct(ctx, id)

	s.audit.Record(ctx, actorID, audit.ActionUpdate, "product", id, nil)

	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, actorID, id string) error {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidateProduct(ctx, id)
	s.deleteImages(ctx, p.Images)

	s.audit.Record(ctx, actorID, audit.ActionDelete, "product", id, audit.Detail{
		"name": p.Name,
	})

	return nil
}

func (s *Service) ListNewArrivals(
	ctx context.Context,
	params ListParams,
) ([]NewArrival, int, error) {
	return s.arrivals.List(ctx, params)
}

func (s *Service) GetNewArrival(
	ctx context.Context,
	id string,
) (*NewArrival, error) {
	if a, ok := s.cache.GetNewArrival(ctx, id); ok {
		return a, nil
	}

	a, err := s.arrivals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetNewArrival(ctx, a)
	return a, nil
}

func (s *Service) CreateNewArrival(
	ctx context.Context,
	actorID string,
	req CreateNewArrivalRequest,
	uploads []io.Reader,
) (*NewArrival, error) {
	imgs, err := s.uploadAll(ctx, uploads, arrivalFolder)
	if err != nil {
		return nil, err
	}

	a := &NewArrival{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		Images:      imgs,
	}

	if err := s.arrivals.Create(ctx, a); err != nil {
		s.deleteImages(ctx, imgs)
		return nil, err
	}

	s.audit.Record(ctx, actorID, audit.ActionCreate, "new_arrival", a.ID, audit.Detail{
		"name": a.Name,
	})

	return a, nil
}

func (s *Service) UpdateNewArrival(
	ctx context.Context,
	actorID, id string,
	req UpdateNewArrivalRequest,
	uploads []io.Reader,
) (*NewArrival, error) {
	a, err := s.arrivals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Price != nil {
		a.Price = *req.Price
	}
	if req.Category != nil {
		a.Category = *req.Category
	}
	if req.Brand != nil {
		a.Brand = *req.Brand
	}

	imgs, err := s.uploadAll(ctx, uploads, arrivalFolder)
	if err != nil {
		return nil, err
	}
	a.Images = append(a.Images, imgs...)

	if err := s.arrivals.Update(ctx, a); err != nil {
		s.deleteImages(ctx, imgs)
		return nil, err
	}

	s.cache.InvalidateNewArrival(ctx, id)

	s.audit.Record(ctx, actorID, audit.ActionUpdate, "new_arrival", id, nil)

	return a, nil
}

func (s *Service) DeleteNewArrival(
	ctx context.Context,
	actorID, id string,
) error {
	a, err := s.arrivals.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.arrivals.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidateNewArrival(ctx, id)
	s.deleteImages(ctx, a.Images)

	s.audit.Record(ctx, actorID, audit.ActionDelete, "new_arrival", id, audit.Detail{
		"name": a.Name,
	})

	return nil
}

func (s *Service) uploadAll(
	ctx context.Context,
	uploads []io.Reader,
	folder string,
) (ImageList, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	if s.uploader == nil {
		return nil, fmt.Errorf("upload image: no image backend configured")
	}

	imgs := make(ImageList, 0, len(uploads))
	for _, r := range uploads {
		img, err := s.uploader.Upload(ctx, r, folder)
		if err != nil {
			s.deleteImages(ctx, imgs)
			return nil, fmt.Errorf("upload image: %w", err)
		}
		imgs = append(imgs, *img)
	}

	return imgs, nil
}

// deleteImages is best-effort cleanup; the entity is already gone or
// was never written.
func (s *Service) deleteImages(ctx context.Context, imgs ImageList) {
	if s.uploader == nil {
		return
	}
	for _, img := range imgs {
		if img.PublicID == "" {
			continue
		}
		if err := s.uploader.Delete(ctx, img.PublicID); err != nil {
			s.logger.Warn("image cleanup failed",
				"public_id", img.PublicID,
				"error", err,
			)
		}
	}
}
