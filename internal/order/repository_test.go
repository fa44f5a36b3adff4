// AngelaMos | 2026
// repository_test.go

package order

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestMarkStockRestoredFlipsOnce(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec("UPDATE orders").
		WithArgs("o1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE orders").
		WithArgs("o1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.MarkStockRestored(context.Background(), db, "o1")
	if err != nil {
		t.Fatalf("MarkStockRestored: %v", err)
	}
	if !first {
		t.Error("first flip reported already restored")
	}

	// The conditional WHERE makes the second flip a no-op.
	second, err := repo.MarkStockRestored(context.Background(), db, "o1")
	if err != nil {
		t.Fatalf("MarkStockRestored: %v", err)
	}
	if second {
		t.Error("second flip reported restored again")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestGetItemsReturnsNullCurrentName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "order_id", "item_id", "product_type", "name",
		"quantity", "price", "current_name",
	}).
		AddRow("i1", "o1", "p1", "product", "Wheelchair", 1, 120.0, "Wheelchair").
		AddRow("i2", "o1", "p2", "product", "Walker", 2, 45.0, nil)

	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs("o1").
		WillReturnRows(rows)

	items, err := repo.GetItems(context.Background(), "o1")
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}

	if !items[0].CurrentName.Valid {
		t.Error("live item lost its current name")
	}
	if items[1].CurrentName.Valid {
		t.Error("deleted item should come back with NULL current name")
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec("UPDATE orders").
		WithArgs("ghost", StatusShipped).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(context.Background(), db, "ghost", StatusShipped); err == nil {
		t.Fatal("expected not-found error")
	}
}
