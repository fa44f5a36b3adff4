// AngelaMos | 2026
// service.go

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Kukusha-yon/carecorner-sub000/internal/audit"
	"github.com/Kukusha-yon/carecorner-sub000/internal/images"
)

const partnerFolder = "carecorner/partners"

type Service struct {
	featured FeaturedRepository
	partners PartnerRepository
	settings SettingRepository
	redis    *redis.Client
	cacheTTL time.Duration
	uploader images.Uploader
	audit    *audit.Recorder
	logger   *slog.Logger
}

func NewService(
	featured FeaturedRepository,
	partners PartnerRepository,
	settings SettingRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	uploader images.Uploader,
	auditRecorder *audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		featured: featured,
		partners: partners,
		settings: settings,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		uploader: uploader,
		audit:    auditRecorder,
		logger:   logger,
	}
}

func (s *Service) ListFeatured(
	ctx context.Context,
	activeOnly bool,
) ([]FeaturedView, error) {
	return s.featured.List(ctx, activeOnly)
}

func (s *Service) CreateFeatured(
	ctx context.Context,
	actorID string,
	req CreateFeaturedRequest,
) (*FeaturedProduct, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	f := &FeaturedProduct{
		ID:           uuid.New().String(),
		ProductID:    req.ProductID,
		DisplayOrder: req.DisplayOrder,
		Active:       active,
	}

	if err := s.featured.Create(ctx, f); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, audit.ActionCreate, "featured_product", f.ID,
		audit.Detail{"product_id": f.ProductID})

	return f, nil
}

func (s *Service) UpdateFeatured(
	ctx context.Context,
	actorID, id string,
	req UpdateFeaturedRequest,
) (*FeaturedProduct, error) {
	f, err := s.featured.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayOrder != nil {
		f.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		f.Active = *req.Active
	}

	if err := s.featured.Update(ctx, f); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, audit.ActionUpdate, "featured_product", id, nil)

	return f, nil
}

func (s *Service) DeleteFeatured(
	ctx context.Context,
	actorID, id string,
) error {
	if err := s.featured.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, actorID, audit.ActionDelete, "featured_product", id, nil)

	return nil
}

func (s *Service) ListPartners(ctx context.Context) ([]Partner, error) {
	return s.partners.List(ctx)
}

func (s *Service) GetPartner(ctx context.Context, id string) (*Partner, error) {
	return s.partners.GetByID(ctx, id)
}

func (s *Service) CreatePartner(
	ctx context.Context,
	actorID string,
	req CreatePartnerRequest,
	logo io.Reader,
) (*Partner, error) {
	p := &Partner{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Website: req.Website,
	}

	if logo != nil {
		img, err := s.uploadLogo(ctx, logo)
		if err != nil {
			return nil, err
		}
		p.LogoURL = img.URL
		p.LogoPublicID = img.PublicID
	}

	if err := s.partners.Create(ctx, p); err != nil {
		s.deleteLogo(ctx, p.LogoPublicID)
		return nil, err
	}

	s.audit.Record(ctx, actorID, audit.ActionCreate, "partner", p.ID,
		audit.Detail{"name": p.Name})

	return p, nil
}

func (s *Service) UpdatePartner(
	ctx context.Context,
	actorID, id string,
	req UpdatePartnerRequest,
	logo io.Reader,
) (*Partner, error) {
	p, err := s.partners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Website != nil {
		p.Website = *req.Website
	}

	oldLogoID := ""
	if logo != nil {
		img, err := s.uploadLogo(ctx, logo)
		if err != nil {
			return nil, err
		}
		oldLogoID = p.LogoPublicID
		p.LogoURL = img.URL
		p.LogoPublicID = img.PublicID
	}

	if err := s.partners.Update(ctx, p); err != nil {
		if logo != nil {
			s.deleteLogo(ctx, p.LogoPublicID)
		}
		return nil, err
	}

	s.deleteLogo(ctx, oldLogoID)

	s.audit.Record(ctx, actorID, audit.ActionUpdate, "partner", id, nil)

	return p, nil
}

func (s *Service) DeletePartner(ctx context.Context, actorID, id string) error {
	p, err := s.partners.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.partners.Delete(ctx, id); err != nil {
		return err
	}

	s.deleteLogo(ctx, p.LogoPublicID)

	s.audit.Record(ctx, actorID, audit.ActionDelete, "partner", id,
		audit.Detail{"name": p.Name})

	return nil
}

func settingKey(key string) string {
	return "setting:" + key
}

// GetSetting reads through Redis; misses and Redis errors fall back to
// Postgres.
func (s *Service) GetSetting(ctx context.Context, key string) (*Setting, error) {
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, settingKey(key)).Bytes()
		if err == nil {
			var setting Setting
			if err := json.Unmarshal(raw, &setting); err == nil {
				return &setting, nil
			}
		}
	}

	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	s.cacheSetting(ctx, setting)
	return setting, nil
}

func (s *Service) ListSettings(ctx context.Context) ([]Setting, error) {
	return s.settings.List(ctx)
}

func (s *Service) UpsertSetting(
	ctx context.Context,
	actorID, key string,
	value SettingValue,
) (*Setting, error) {
	setting := &Setting{Key: key, Value: value}

	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	s.invalidateSetting(ctx, key)

	s.audit.Record(ctx, actorID, audit.ActionUpdate, "setting", key, nil)

	return setting, nil
}

func (s *Service) DeleteSetting(ctx context.Context, actorID, key string) error {
	if err := s.settings.Delete(ctx, key); err != nil {
		return err
	}

	s.invalidateSetting(ctx, key)

	s.audit.Record(ctx, actorID, audit.ActionDelete, "setting", key, nil)

	return nil
}

func (s *Service) cacheSetting(ctx context.Context, setting *Setting) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(setting)
	if err != nil {
		return
	}

	if err := s.redis.Set(
		ctx, settingKey(setting.Key), raw, s.cacheTTL,
	).Err(); err != nil {
		s.logger.Debug("setting cache write failed",
			"key", setting.Key, "error", err)
	}
}

func (s *Service) invalidateSetting(ctx context.Context, key string) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, settingKey(key)).Err(); err != nil {
		s.logger.Debug("setting cache invalidate failed",
			"key", key, "error", err)
	}
}

func (s *Service) uploadLogo(
	ctx context.Context,
	logo io.Reader,
) (*images.Image, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("upload logo: no image backend configured")
	}

	img, err := s.uploader.Upload(ctx, logo, partnerFolder)
	if err != nil {
		return nil, fmt.Errorf("upload logo: %w", err)
	}

	return img, nil
}

func (s *Service) deleteLogo(ctx context.Context, publicID string) {
	if s.uploader == nil || publicID == "" {
		return
	}

	if err := s.uploader.Delete(ctx, publicID); err != nil {
		s.logger.Warn("logo cleanup failed", "public_id", publicID, "error", err)
	}
}
