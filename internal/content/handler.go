// AngelaMos | 2026
// handler.go

package content

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
	"github.com/Kukusha-yon/carecorner-sub000/internal/middleware"
)

const maxLogoBytes = 8 << 20

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
	r.Route("/featured-products", func(r chi.Router) {
		r.Get("/", h.ListFeatured)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)
			r.Post("/", h.CreateFeatured)
			r.Put("/{featuredID}", h.UpdateFeatured)
			r.Delete("/{featuredID}", h.DeleteFeatured)
		})
	})

	r.Route("/partners", func(r chi.Router) {
		r.Get("/", h.ListPartners)
		r.Get("/{partnerID}", h.GetPartner)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)
			r.Post("/", h.CreatePartner)
			r.Put("/{partnerID}", h.UpdatePartner)
			r.Delete("/{partnerID}", h.DeletePartner)
		})
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.ListSettings)
		r.Get("/{key}", h.GetSetting)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)
			r.Put("/{key}", h.UpsertSetting)
			r.Delete("/{key}", h.DeleteSetting)
		})
	})
}

func (h *Handler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"

	views, err := h.service.ListFeatured(r.Context(), activeOnly)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToFeaturedResponseList(views))
}

func (h *Handler) CreateFeatured(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req CreateFeaturedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	f, err := h.service.CreateFeatured(r.Context(), actorID, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("featured product"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, f)
}

func (h *Handler) UpdateFeatured(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "featuredID")

	var req UpdateFeaturedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	f, err := h.service.UpdateFeatured(r.Context(), actorID, id, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "featured product")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, f)
}

func (h *Handler) DeleteFeatured(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "featuredID")

	if err := h.service.DeleteFeatured(r.Context(), actorID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "featured product")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.service.ListPartners(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPartnerResponseList(partners))
}

func (h *Handler) GetPartner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "partnerID")

	p, err := h.service.GetPartner(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "partner")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPartnerResponse(p))
}

func (h *Handler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req CreatePartnerRequest
	logo, closer, err := decodePartnerBody(r, &req)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}
	if closer != nil {
		defer closer.Close() //nolint:errcheck // nothing useful to do with a close error
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.CreatePartner(r.Context(), actorID, req, logo)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToPartnerResponse(p))
}

func (h *Handler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "partnerID")

	var req UpdatePartnerRequest
	logo, closer, err := decodePartnerBody(r, &req)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}
	if closer != nil {
		defer closer.Close() //nolint:errcheck // nothing useful to do with a close error
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.UpdatePartner(r.Context(), actorID, id, req, logo)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "partner")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPartnerResponse(p))
}

func (h *Handler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "partnerID")

	if err := h.service.DeletePartner(r.Context(), actorID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "partner")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.ListSettings(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	responses := make([]SettingResponse, 0, len(settings))
	for i := range settings {
		responses = append(responses, ToSettingResponse(&settings[i]))
	}

	core.OK(w, responses)
}

func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	setting, err := h.service.GetSetting(r.Context(), key)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "setting")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSettingResponse(setting))
}

func (h *Handler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	key := chi.URLParam(r, "key")

	var req UpsertSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	setting, err := h.service.UpsertSetting(r.Context(), actorID, key, req.Value)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSettingResponse(setting))
}

func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	key := chi.URLParam(r, "key")

	if err := h.service.DeleteSetting(r.Context(), actorID, key); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "setting")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

// decodePartnerBody handles JSON bodies and multipart forms with a
// "data" JSON field plus an optional "logo" file part.
func decodePartnerBody(
	r *http.Request,
	dst any,
) (io.Reader, io.Closer, error) {
	contentType := r.Header.Get("Content-Type")

	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return nil, nil, errors.New("invalid request body")
		}
		return nil, nil, nil
	}

	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		return nil, nil, errors.New("invalid multipart form")
	}

	data := r.FormValue("data")
	if data == "" {
		return nil, nil, errors.New("missing data field")
	}

	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return nil, nil, errors.New("invalid data field")
	}

	file, _, err := r.FormFile("logo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, errors.New("unreadable logo upload")
	}

	return file, file, nil
}
