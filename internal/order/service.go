// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kukusha-yon/carecorner-sub000/internal/audit"
	"github.com/Kukusha-yon/carecorner-sub000/internal/catalog"
	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
	"github.com/Kukusha-yon/carecorner-sub000/internal/events"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrTotalMismatch     = errors.New("total amount mismatch")
	ErrCancelledOrder    = errors.New("order is cancelled")
)

// totalTolerance absorbs float rounding between client and server
// arithmetic. Anything past a cent is a real disagreement.
const totalTolerance = 0.01

// ProductCache drops cached product entries after a stock movement so
// reads never serve a count the database no longer holds. Satisfied by
// catalog.Cache; a nil value disables invalidation along with the cache.
type ProductCache interface {
	InvalidateProduct(ctx context.Context, id string)
}

type Service struct {
	db       *sqlx.DB
	orders   Repository
	resolver *catalog.Resolver
	products catalog.ProductRepository
	cache    ProductCache
	producer *events.Producer
	audit    *audit.Recorder
	logger   *slog.Logger
}

func NewService(
	db *sqlx.DB,
	orders Repository,
	resolver *catalog.Resolver,
	products catalog.ProductRepository,
	cache ProductCache,
	producer *events.Producer,
	auditRecorder *audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:       db,
		orders:   orders,
		resolver: resolver,
		products: products,
		cache:    cache,
		producer: producer,
		audit:    auditRecorder,
		logger:   logger,
	}
}

// Create runs the checkout contract: resolve every item, recompute the
// total from authoritative prices, then decrement stock and persist in
// one transaction. Stock never moves for a rejected order.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateOrderRequest,
) (*OrderResponse, error) {
	resolved := make([]*catalog.ResolvedItem, 0, len(req.Items))
	serverTotal := 0.0

	for _, item := range req.Items {
		ri, err := s.resolver.Resolve(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, ri)
		serverTotal += ri.Price * float64(item.Quantity)
	}

	if math.Abs(serverTotal-req.TotalAmount) > totalTolerance {
		return nil, fmt.Errorf(
			"submitted total %.2f does not match computed total %.2f: %w",
			req.TotalAmount, serverTotal, ErrTotalMismatch,
		)
	}

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          StatusPending,
		TotalAmount:     serverTotal,
		PaymentMethod:   req.PaymentMethod,
		ShippingName:    req.ShippingDetails.Name,
		ShippingEmail:   req.ShippingDetails.Email,
		ShippingPhone:   req.ShippingDetails.Phone,
		ShippingAddress: req.ShippingDetails.Address,
	}

	items := make([]OrderItem, 0, len(req.Items))
	for i, ri := range resolved {
		items = append(items, OrderItem{
			ID:          uuid.New().String(),
			OrderID:     o.ID,
			ItemID:      ri.ID,
			ProductType: ri.Kind,
			Name:        ri.Name,
			Quantity:    req.Items[i].Quantity,
			Price:       ri.Price,
		})
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for i, ri := range resolved {
			if !ri.TracksStock() {
				continue
			}
			ok, err := s.products.DecrementStock(
				ctx, tx, ri.ID, req.Items[i].Quantity,
			)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf(
					"item %s: %w", ri.ID, ErrInsufficientStock,
				)
			}
		}

		return s.orders.Create(ctx, tx, o, items)
	})
	if err != nil {
		return nil, err
	}

	for _, ri := range resolved {
		if ri.TracksStock() {
			s.invalidateProduct(ctx, ri.ID)
		}
	}

	s.producer.Publish(events.OrderCreated, o.ID, orderPayload(o, items))

	views, err := s.orders.GetItems(ctx, o.ID)
	if err != nil {
		s.logger.Warn("read back order items failed",
			"order_id", o.ID, "error", err)
		views = itemViews(items)
	}

	resp := ToOrderResponse(o, views)
	return &resp, nil
}

func (s *Service) Get(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	orderID string,
) (*OrderResponse, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.UserID != requesterID && !isAdmin {
		return nil, fmt.Errorf("get order: %w", core.ErrForbidden)
	}

	items, err := s.orders.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(o, items)
	return &resp, nil
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]OrderResponse, int, error) {
	params.UserID = userID
	return s.list(ctx, params)
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListParams,
) ([]OrderResponse, int, error) {
	return s.list(ctx, params)
}

func (s *Service) list(
	ctx context.Context,
	params ListParams,
) ([]OrderResponse, int, error) {
	orders, total, err := s.orders.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items, err := s.orders.GetItems(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, ToOrderResponse(&orders[i], items))
	}

	return responses, total, nil
}

// Cancel moves an order into cancelled and restores product stock
// exactly once. Already-cancelled orders are left alone.
func (s *Service) Cancel(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	orderID string,
) (*OrderResponse, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.UserID != requesterID && !isAdmin {
		return nil, fmt.Errorf("cancel order: %w", core.ErrForbidden)
	}

	if o.Status == StatusCancelled {
		return nil, fmt.Errorf("cancel order: %w", ErrCancelledOrder)
	}

	if err := s.transitionToCancelled(ctx, o); err != nil {
		return nil, err
	}

	o.Status = StatusCancelled

	s.producer.Publish(events.OrderCancelled, o.ID, orderPayload(o, nil))

	items, err := s.orders.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(o, items)
	return &resp, nil
}

// Delete removes an order. Stock moves back for product items unless a
// prior cancellation already restored it.
func (s *Service) Delete(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	orderID string,
) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if o.UserID != requesterID && !isAdmin {
		return fmt.Errorf("delete order: %w", core.ErrForbidden)
	}

	items, err := s.orders.GetItems(ctx, orderID)
	if err != nil {
		return err
	}

	var restocked bool
	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		restored, err := s.orders.MarkStockRestored(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if restored {
			if err := s.restoreItems(ctx, tx, items); err != nil {
				return err
			}
			restocked = true
		}

		return s.orders.Delete(ctx, tx, orderID)
	})
	if err != nil {
		return err
	}

	if restocked {
		s.invalidateItems(ctx, items)
	}

	return nil
}

// UpdateStatus is the admin transition. Leaving cancelled is rejected;
// entering it restores stock once.
func (s *Service) UpdateStatus(
	ctx context.Context,
	actorID, orderID, status string,
) (*OrderResponse, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf(
			"invalid status %q: %w", status, core.ErrInvalidInput,
		)
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status == StatusCancelled && status != StatusCancelled {
		return nil, fmt.Errorf("update status: %w", ErrCancelledOrder)
	}

	previous := o.Status

	if status == StatusCancelled {
		if err := s.transitionToCancelled(ctx, o); err != nil {
			return nil, err
		}
	} else if err := s.orders.UpdateStatus(ctx, s.db, orderID, status); err != nil {
		return nil, err
	}

	o.Status = status

	s.audit.Record(ctx, actorID, audit.ActionStatusChange, "order", orderID,
		audit.Detail{"from": previous, "to": status})

	eventType := events.OrderStatusChanged
	if status == StatusCancelled {
		eventType = events.OrderCancelled
	}
	s.producer.Publish(eventType, o.ID, orderPayload(o, nil))

	items, err := s.orders.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(o, items)
	return &resp, nil
}

func (s *Service) transitionToCancelled(ctx context.Context, o *Order) error {
	items, err := s.orders.GetItems(ctx, o.ID)
	if err != nil {
		return err
	}

	var restocked bool
	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		restored, err := s.orders.MarkStockRestored(ctx, tx, o.ID)
		if err != nil {
			return err
		}

		if restored {
			if err := s.restoreItems(ctx, tx, items); err != nil {
				return err
			}
			restocked = true
		}

		return s.orders.UpdateStatus(ctx, tx, o.ID, StatusCancelled)
	})
	if err != nil {
		return err
	}

	if restocked {
		s.invalidateItems(ctx, items)
	}

	return nil
}

func (s *Service) restoreItems(
	ctx context.Context,
	tx *sqlx.Tx,
	items []OrderItemView,
) error {
	for i := range items {
		item := &items[i]
		if item.ProductType != catalog.KindProduct {
			continue
		}
		if err := s.products.RestoreStock(
			ctx, tx, item.ItemID, item.Quantity,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) invalidateProduct(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, id)
	}
}

func (s *Service) invalidateItems(ctx context.Context, items []OrderItemView) {
	for i := range items {
		if items[i].ProductType == catalog.KindProduct {
			s.invalidateProduct(ctx, items[i].ItemID)
		}
	}
}

func orderPayload(o *Order, items []OrderItem) events.OrderPayload {
	payload := events.OrderPayload{
		OrderID: o.ID,
		UserID:  o.UserID,
		Status:  o.Status,
		Total:   o.TotalAmount,
	}

	for i := range items {
		item := &items[i]
		payload.Items = append(payload.Items, events.OrderItemPayload{
			ItemID:      item.ItemID,
			ProductType: item.ProductType,
			Name:        item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	return payload
}

func itemViews(items []OrderItem) []OrderItemView {
	views := make([]OrderItemView, 0, len(items))
	for i := range items {
		views = append(views, OrderItemView{
			OrderItem: items[i],
			CurrentName: sql.NullString{
				String: items[i].Name,
				Valid:  true,
			},
		})
	}
	return views
}
