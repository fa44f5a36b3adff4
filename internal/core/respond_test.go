// AngelaMos | 2026
// respond_test.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var body SuccessResponse
	decodeBody(t, rec, &body)
	if !body.Success {
		t.Error("success = false")
	}
}

func TestJSONErrorAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, NotFoundError("product"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var body ErrorResponse
	decodeBody(t, rec, &body)
	if body.Success {
		t.Error("success = true on error response")
	}
	if body.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", body.Code)
	}
	if body.Message != "product not found" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestJSONErrorWrappedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := errors.Join(errors.New("outer"), ForbiddenError(""))
	JSONError(rec, wrapped)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestJSONErrorUnknownErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: connection refused on 10.0.0.5"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var body ErrorResponse
	decodeBody(t, rec, &body)
	if body.Message != "internal server error" {
		t.Errorf("leaked internal detail: %q", body.Message)
	}
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []int{1, 2, 3}, 2, 20, 45)

	var body PaginatedResponse
	decodeBody(t, rec, &body)

	if body.Pagination.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", body.Pagination.TotalPages)
	}
	if body.Pagination.Page != 2 {
		t.Errorf("page = %d, want 2", body.Pagination.Page)
	}
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Email string  `validate:"required,email"`
		Price float64 `validate:"gt=0"`
	}

	err := validator.New().Struct(payload{Email: "nope", Price: -1})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	rec := httptest.NewRecorder()
	ValidationError(rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body ErrorResponse
	decodeBody(t, rec, &body)
	if body.Code != "VALIDATION" {
		t.Errorf("code = %q, want VALIDATION", body.Code)
	}
	if body.Errors["email"] != "must be a valid email address" {
		t.Errorf("email error = %q", body.Errors["email"])
	}
	if body.Errors["price"] != "must be greater than 0" {
		t.Errorf("price error = %q", body.Errors["price"])
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := DuplicateError("email")
	if !errors.Is(err, ErrDuplicateKey) {
		t.Error("AppError does not unwrap to its sentinel")
	}
	if err.Status != http.StatusConflict {
		t.Errorf("status = %d, want 409", err.Status)
	}
}
