// AngelaMos | 2026
// service_test.go

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/Kukusha-yon/carecorner-sub000/internal/audit"
	"github.com/Kukusha-yon/carecorner-sub000/internal/catalog"
	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
)

type fakeProductRepo struct {
	products map[string]*catalog.Product

	decrementCalls []decrementCall
	restoreCalls   []decrementCall
	decrementOK    bool
}

type decrementCall struct {
	id  string
	qty int
}

func (f *fakeProductRepo) Create(context.Context, *catalog.Product) error {
	return errors.New("not implemented")
}

func (f *fakeProductRepo) GetByID(
	_ context.Context,
	id string,
) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	return p, nil
}

func (f *fakeProductRepo) Update(context.Context, *catalog.Product) error {
	return errors.New("not implemented")
}

func (f *fakeProductRepo) Delete(context.Context, string) error {
	return errors.New("not implemented")
}

func (f *fakeProductRepo) List(
	context.Context,
	catalog.ListParams,
) ([]catalog.Product, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeProductRepo) DecrementStock(
	_ context.Context,
	_ core.DBTX,
	id string,
	qty int,
) (bool, error) {
	f.decrementCalls = append(f.decrementCalls, decrementCall{id: id, qty: qty})
	return f.decrementOK, nil
}

func (f *fakeProductRepo) RestoreStock(
	_ context.Context,
	_ core.DBTX,
	id string,
	qty int,
) error {
	f.restoreCalls = append(f.restoreCalls, decrementCall{id: id, qty: qty})
	return nil
}

type fakeArrivalRepo struct {
	arrivals map[string]*catalog.NewArrival
}

func (f *fakeArrivalRepo) Create(context.Context, *catalog.NewArrival) error {
	return errors.New("not implemented")
}

func (f *fakeArrivalRepo) GetByID(
	_ context.Context,
	id string,
) (*catalog.NewArrival, error) {
	a, ok := f.arrivals[id]
	if !ok {
		return nil, fmt.Errorf("get new arrival: %w", core.ErrNotFound)
	}
	return a, nil
}

func (f *fakeArrivalRepo) Update(context.Context, *catalog.NewArrival) error {
	return errors.New("not implemented")
}

func (f *fakeArrivalRepo) Delete(context.Context, string) error {
	return errors.New("not implemented")
}

func (f *fakeArrivalRepo) List(
	context.Context,
	catalog.ListParams,
) ([]catalog.NewArrival, int, error) {
	return nil, 0, errors.New("not implemented")
}

type fakeOrderRepo struct {
	orders map[string]*Order
	items  map[string][]OrderItemView

	created       *Order
	createdItems  []OrderItem
	statusUpdates []string
	restored      map[string]bool
	deleted       []string
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   make(map[string]*Order),
		items:    make(map[string][]OrderItemView),
		restored: make(map[string]bool),
	}
}

func (f *fakeOrderRepo) Create(
	_ context.Context,
	_ core.DBTX,
	o *Order,
	items []OrderItem,
) error {
	f.created = o
	f.createdItems = items
	f.orders[o.ID] = o
	return nil
}

func (f *fakeOrderRepo) GetByID(
	_ context.Context,
	id string,
) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderRepo) GetItems(
	_ context.Context,
	orderID string,
) ([]OrderItemView, error) {
	return f.items[orderID], nil
}

func (f *fakeOrderRepo) List(
	context.Context,
	ListParams,
) ([]Order, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeOrderRepo) UpdateStatus(
	_ context.Context,
	_ core.DBTX,
	id, status string,
) error {
	o, ok := f.orders[id]
	if !ok {
		return fmt.Errorf("update order status: %w", core.ErrNotFound)
	}
	o.Status = status
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeOrderRepo) MarkStockRestored(
	_ context.Context,
	_ core.DBTX,
	id string,
) (bool, error) {
	if f.restored[id] {
		return false, nil
	}
	f.restored[id] = true
	if o, ok := f.orders[id]; ok {
		o.StockRestored = true
	}
	return true, nil
}

func (f *fakeOrderRepo) Delete(
	_ context.Context,
	_ core.DBTX,
	id string,
) error {
	if _, ok := f.orders[id]; !ok {
		return fmt.Errorf("delete order: %w", core.ErrNotFound)
	}
	delete(f.orders, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCache struct {
	invalidated []string
}

func (f *fakeCache) InvalidateProduct(_ context.Context, id string) {
	f.invalidated = append(f.invalidated, id)
}

type fakeAuditRepo struct{}

func (f *fakeAuditRepo) Create(context.Context, *audit.Log) error { return nil }

func (f *fakeAuditRepo) List(
	context.Context,
	audit.ListParams,
) ([]audit.Log, int, error) {
	return nil, 0, nil
}

type serviceFixture struct {
	svc      *Service
	products *fakeProductRepo
	orders   *fakeOrderRepo
	cache    *fakeCache
	mock     sqlmock.Sqlmock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")

	products := &fakeProductRepo{
		products:    make(map[string]*catalog.Product),
		decrementOK: true,
	}
	arrivals := &fakeArrivalRepo{
		arrivals: make(map[string]*catalog.NewArrival),
	}
	orders := newFakeOrderRepo()
	cache := &fakeCache{}

	logger := slog.New(slog.DiscardHandler)
	recorder := audit.NewRecorder(&fakeAuditRepo{}, logger)

	svc := NewService(
		db,
		orders,
		catalog.NewResolver(products, arrivals),
		products,
		cache,
		nil,
		recorder,
		logger,
	)

	products.products["p1"] = &catalog.Product{
		ID: "p1", Name: "Wheelchair", Price: 10.00, Stock: 5,
	}
	products.products["p2"] = &catalog.Product{
		ID: "p2", Name: "Walker", Price: 4.50, Stock: 2,
	}
	arrivals.arrivals["a1"] = &catalog.NewArrival{
		ID: "a1", Name: "Cane", Price: 3.00,
	}

	return &serviceFixture{
		svc:      svc,
		products: products,
		orders:   orders,
		cache:    cache,
		mock:     mock,
	}
}

func checkoutRequest(
	total float64,
	items ...OrderItemRequest,
) CreateOrderRequest {
	return CreateOrderRequest{
		Items: items,
		ShippingDetails: ShippingDetails{
			Name:    "Abebe Bikila",
			Email:   "abebe@example.com",
			Phone:   "+251911000000",
			Address: "Bole Road, Addis Ababa",
		},
		TotalAmount:   total,
		PaymentMethod: "telebirr",
	}
}

func TestCreateOrder(t *testing.T) {
	fx := newServiceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	req := checkoutRequest(23.00,
		OrderItemRequest{ProductID: "p1", Quantity: 2},
		OrderItemRequest{ProductID: "a1", Quantity: 1},
	)

	resp, err := fx.svc.Create(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.Status != StatusPending {
		t.Errorf("status = %q, want %q", resp.Status, StatusPending)
	}
	if resp.TotalAmount != 23.00 {
		t.Errorf("total = %v, want 23.00", resp.TotalAmount)
	}

	if len(fx.products.decrementCalls) != 1 {
		t.Fatalf("decrement calls = %d, want 1", len(fx.products.decrementCalls))
	}
	call := fx.products.decrementCalls[0]
	if call.id != "p1" || call.qty != 2 {
		t.Errorf("decrement call = %+v, want p1 x2", call)
	}

	if fx.orders.created == nil {
		t.Fatal("order was not persisted")
	}
	if len(fx.orders.createdItems) != 2 {
		t.Fatalf("persisted items = %d, want 2", len(fx.orders.createdItems))
	}
	if fx.orders.createdItems[1].ProductType != catalog.KindNewArrival {
		t.Errorf("item 1 product_type = %q, want %q",
			fx.orders.createdItems[1].ProductType, catalog.KindNewArrival)
	}
	// Price is captured from the catalog, not the client.
	if fx.orders.createdItems[0].Price != 10.00 {
		t.Errorf("item 0 price = %v, want 10.00", fx.orders.createdItems[0].Price)
	}

	// The cached product still holds the pre-checkout stock count, so the
	// entry is dropped for the product item; new arrivals carry no stock.
	if len(fx.cache.invalidated) != 1 || fx.cache.invalidated[0] != "p1" {
		t.Errorf("cache invalidations = %v, want [p1]", fx.cache.invalidated)
	}

	if err := fx.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("tx expectations: %v", err)
	}
}

func TestCreateOrderTotalMismatch(t *testing.T) {
	fx := newServiceFixture(t)

	req := checkoutRequest(25.00,
		OrderItemRequest{ProductID: "p1", Quantity: 2},
	)

	_, err := fx.svc.Create(context.Background(), "user-1", req)
	if !errors.Is(err, ErrTotalMismatch) {
		t.Fatalf("err = %v, want ErrTotalMismatch", err)
	}

	if len(fx.products.decrementCalls) != 0 {
		t.Errorf("stock moved on rejected order")
	}
	if fx.orders.created != nil {
		t.Errorf("order persisted despite total mismatch")
	}
	if len(fx.cache.invalidated) != 0 {
		t.Errorf("cache touched on rejected order")
	}
}

func TestCreateOrderTotalWithinTolerance(t *testing.T) {
	fx := newServiceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	// 20.00 computed; 20.009 is inside the one-cent tolerance.
	req := checkoutRequest(20.009,
		OrderItemRequest{ProductID: "p1", Quantity: 2},
	)

	if _, err := fx.svc.Create(context.Background(), "user-1", req); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestCreateOrderItemNotFound(t *testing.T) {
	fx := newServiceFixture(t)

	req := checkoutRequest(10.00,
		OrderItemRequest{ProductID: "ghost", Quantity: 1},
	)

	_, err := fx.svc.Create(context.Background(), "user-1", req)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	fx := newServiceFixture(t)
	fx.products.decrementOK = false
	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()

	req := checkoutRequest(45.00,
		OrderItemRequest{ProductID: "p2", Quantity: 10},
	)

	_, err := fx.svc.Create(context.Background(), "user-1", req)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	if err := fx.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("tx expectations: %v", err)
	}
}

func TestCreateOrderNewArrivalsSkipStock(t *testing.T) {
	fx := newServiceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	req := checkoutRequest(9.00,
		OrderItemRequest{ProductID: "a1", Quantity: 3},
	)

	if _, err := fx.svc.Create(context.Background(), "user-1", req); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(fx.products.decrementCalls) != 0 {
		t.Errorf("new arrival item touched stock")
	}
}

func seedOrder(fx *serviceFixture, status string) *Order {
	o := &Order{
		ID:          "o1",
		UserID:      "user-1",
		Status:      status,
		TotalAmount: 20.00,
	}
	fx.orders.orders[o.ID] = o
	fx.orders.items[o.ID] = []OrderItemView{
		{OrderItem: OrderItem{
			ID: "i1", OrderID: "o1", ItemID: "p1",
			ProductType: catalog.KindProduct, Quantity: 2, Price: 10.00,
		}},
	}
	return o
}

func TestCancelRestoresStockOnce(t *testing.T) {
	fx := newServiceFixture(t)
	seedOrder(fx, StatusPending)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	resp, err := fx.svc.Cancel(context.Background(), "user-1", false, "o1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if resp.Status != StatusCancelled {
		t.Errorf("status = %q, want cancelled", resp.Status)
	}

	if len(fx.products.restoreCalls) != 1 {
		t.Fatalf("restore calls = %d, want 1", len(fx.products.restoreCalls))
	}
	if fx.products.restoreCalls[0].qty != 2 {
		t.Errorf("restored qty = %d, want 2", fx.products.restoreCalls[0].qty)
	}

	// Cancelling again is rejected and must not move stock.
	if _, err := fx.svc.Cancel(context.Background(), "user-1", false, "o1"); !errors.Is(err, ErrCancelledOrder) {
		t.Fatalf("second cancel err = %v, want ErrCancelledOrder", err)
	}
	if len(fx.products.restoreCalls) != 1 {
		t.Errorf("stock restored twice")
	}
	if len(fx.cache.invalidated) != 1 || fx.cache.invalidated[0] != "p1" {
		t.Errorf("cache invalidations = %v, want [p1]", fx.cache.invalidated)
	}
}

func TestCancelForbiddenForOtherUser(t *testing.T) {
	fx := newServiceFixture(t)
	seedOrder(fx, StatusPending)

	_, err := fx.svc.Cancel(context.Background(), "intruder", false, "o1")
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestDeleteAfterCancelDoesNotRestoreAgain(t *testing.T) {
	fx := newServiceFixture(t)
	seedOrder(fx, StatusPending)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	if _, err := fx.svc.Cancel(context.Background(), "user-1", false, "o1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if err := fx.svc.Delete(context.Background(), "user-1", false, "o1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(fx.products.restoreCalls) != 1 {
		t.Errorf("restore calls = %d, want 1", len(fx.products.restoreCalls))
	}
	if len(fx.orders.deleted) != 1 {
		t.Errorf("order not deleted")
	}
	// Stock only moved once, so the cache entry is only dropped once.
	if len(fx.cache.invalidated) != 1 {
		t.Errorf("cache invalidations = %v, want one entry", fx.cache.invalidated)
	}
}

func TestDeleteActiveOrderRestoresStock(t *testing.T) {
	fx := newServiceFixture(t)
	seedOrder(fx, StatusPending)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	if err := fx.svc.Delete(context.Background(), "user-1", false, "o1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(fx.products.restoreCalls) != 1 {
		t.Errorf("restore calls = %d, want 1", len(fx.products.restoreCalls))
	}
	if len(fx.cache.invalidated) != 1 || fx.cache.invalidated[0] != "p1" {
		t.Errorf("cache invalidations = %v, want [p1]", fx.cache.invalidated)
	}
}

func TestUpdateStatusOutOfCancelledRejected(t *testing.T) {
	fx := newServiceFixture(t)
	seedOrder(fx, StatusCancelled)

	_, err := fx.svc.UpdateStatus(
		context.Background(), "admin-1", "o1", StatusProcessing,
	)
	if !errors.Is(err, ErrCancelledOrder) {
		t.Fatalf("err = %v, want ErrCancelledOrder", err)
	}
}

func TestUpdateStatusToCancelledRestoresStock(t *testing.T) {
	fx := newServiceFixture(t)
	seedOrder(fx, StatusProcessing)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	resp, err := fx.svc.UpdateStatus(
		context.Background(), "admin-1", "o1", StatusCancelled,
	)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if resp.Status != StatusCancelled {
		t.Errorf("status = %q, want cancelled", resp.Status)
	}

	if len(fx.products.restoreCalls) != 1 {
		t.Errorf("restore calls = %d, want 1", len(fx.products.restoreCalls))
	}
	if len(fx.cache.invalidated) != 1 || fx.cache.invalidated[0] != "p1" {
		t.Errorf("cache invalidations = %v, want [p1]", fx.cache.invalidated)
	}
}

func TestUpdateStatusInvalid(t *testing.T) {
	fx := newServiceFixture(t)
	seedOrder(fx, StatusPending)

	_, err := fx.svc.UpdateStatus(
		context.Background(), "admin-1", "o1", "teleported",
	)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
