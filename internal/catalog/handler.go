// AngelaMos | 2026
// handler.go

package catalog

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
	"github.com/Kukusha-yon/carecorner-sub000/internal/middleware"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{productID}", h.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)
			r.Post("/", h.CreateProduct)
			r.Put("/{productID}", h.UpdateProduct)
			r.Delete("/{productID}", h.DeleteProduct)
		})
	})

	r.Route("/new-arrivals", func(r chi.Router) {
		r.Get("/", h.ListNewArrivals)
		r.Get("/{arrivalID}", h.GetNewArrival)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)
			r.Post("/", h.CreateNewArrival)
			r.Put("/{arrivalID}", h.UpdateNewArrival)
			r.Delete("/{arrivalID}", h.DeleteNewArrival)
		})
	})
}

func listParamsFromQuery(r *http.Request) ListParams {
	q := r.URL.Query()
	return ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	products, total, err := h.service.ListProducts(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToProductResponseList(products),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "product")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req CreateProductRequest
	uploads, closers, err := decodeWithUploads(r, &req)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}
	defer closeAll(closers)

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.CreateProduct(r.Context(), actorID, req, uploads)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToProductResponse(p))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "productID")

	var req UpdateProductRequest
	uploads, closers, err := decodeWithUploads(r, &req)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}
	defer closeAll(closers)

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.UpdateProduct(r.Context(), actorID, id, req, uploads)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "product")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "productID")

	if err := h.service.DeleteProduct(r.Context(), actorID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "product")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListNewArrivals(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	arrivals, total, err := h.service.ListNewArrivals(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToNewArrivalResponseList(arrivals),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetNewArrival(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "arrivalID")

	a, err := h.service.GetNewArrival(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "new arrival")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToNewArrivalResponse(a))
}

func (h *Handler) CreateNewArrival(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req CreateNewArrivalRequest
	uploads, closers, err := decodeWithUploads(r, &req)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}
	defer closeAll(closers)

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.CreateNewArrival(r.Context(), actorID, req, uploads)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToNewArrivalResponse(a))
}

func (h *Handler) UpdateNewArrival(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "arrivalID")

	var req UpdateNewArrivalRequest
	uploads, closers, err := decodeWithUploads(r, &req)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}
	defer closeAll(closers)

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.UpdateNewArrival(r.Context(), actorID, id, req, uploads)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "new arrival")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToNewArrivalResponse(a))
}

func (h *Handler) DeleteNewArrival(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "arrivalID")

	if err := h.service.DeleteNewArrival(r.Context(), actorID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "new arrival")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

// decodeWithUploads accepts either a JSON body or a multipart form
// carrying a "data" JSON field plus "images" file parts.
func decodeWithUploads(
	r *http.Request,
	dst any,
) ([]io.Reader, []io.Closer, error) {
	contentType := r.Header.Get("Content-Type")

	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return nil, nil, errors.New("invalid request body")
		}
		return nil, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, errors.New("invalid multipart form")
	}

	data := r.FormValue("data")
	if data == "" {
		return nil, nil, errors.New("missing data field")
	}

	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return nil, nil, errors.New("invalid data field")
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["images"]
	}

	uploads := make([]io.Reader, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll(closers)
			return nil, nil, errors.New("unreadable image upload")
		}
		uploads = append(uploads, f)
		closers = append(closers, f)
	}

	return uploads, closers, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		//nolint:errcheck // nothing useful to do with a close error here
		_ = c.Close()
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
