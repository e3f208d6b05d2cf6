package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/entitlement"
	"github.com/getmenuly/menuly/internal/media/domain"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
	"github.com/getmenuly/menuly/pkg/tenantctx"
	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const presignTTL = 15 * time.Minute

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Store      domain.ObjectStore
	TenantRepo tenantdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	store      domain.ObjectStore
	tenantRepo tenantdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("media.service"),
		store:      p.Store,
		tenantRepo: p.TenantRepo,
	}
}

func (s *Service) PresignUpload(ctx context.Context, req domain.PresignUploadRequest) (*domain.PresignUploadResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	filename := sanitizeFilename(req.Filename)
	if filename == "" {
		return nil, domain.ErrInvalidFilename
	}

	restaurant, err := s.tenantRepo.FindByID(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, domain.ErrTenantNotFound
	}

	// The upload check trusts the denormalized count; creation quotas
	// elsewhere count live rows.
	decision := entitlement.Check(restaurant.SubscriptionPlan, entitlement.UploadImage{
		CurrentCount: restaurant.ImageCount,
	})
	if err := entitlement.Deny(decision); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("restaurants/%d/%s-%s", tenantID, ulid.Make().String(), filename)
	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadURL, err := s.store.PresignUpload(ctx, key, contentType, presignTTL)
	if err != nil {
		return nil, err
	}

	return &domain.PresignUploadResponse{
		UploadURL: uploadURL,
		PublicURL: s.store.PublicURL(key),
		Key:       key,
		ExpiresIn: int(presignTTL.Seconds()),
	}, nil
}

func (s *Service) Apply(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, oldURL, newURL *string) error {
	if tenantID == 0 {
		return domain.ErrInvalidTenant
	}

	transition := domain.Classify(oldURL, newURL)
	if transition.Kind == domain.TransitionNone {
		return nil
	}

	if transition.DeleteURL != "" {
		if key := domain.ExtractKey(transition.DeleteURL); key != "" {
			// A stranded object is recoverable; a wrong count is not.
			// Single-object delete failures are logged, never fatal.
			if err := s.store.Delete(ctx, key); err != nil {
				s.log.Warn("image delete failed",
					zap.Int64("tenant_id", int64(tenantID)),
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}
	}

	if transition.Delta != 0 {
		return s.tenantRepo.AdjustImageCount(ctx, db, int64(tenantID), transition.Delta)
	}
	return nil
}

func (s *Service) RemoveAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, urls []string) (int, error) {
	if tenantID == 0 {
		return 0, domain.ErrInvalidTenant
	}

	keys := make([]string, 0, len(urls))
	for _, rawURL := range urls {
		if key := domain.ExtractKey(rawURL); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return 0, nil
	}

	deleted, failed, err := s.store.DeleteBatch(ctx, keys)
	if err != nil {
		return 0, err
	}
	if len(failed) > 0 {
		s.log.Error("batch image delete left stragglers",
			zap.Int64("tenant_id", int64(tenantID)),
			zap.Int("failed", len(failed)),
		)
		return 0, &domain.StorageInconsistencyError{Failed: failed}
	}

	if len(deleted) > 0 {
		if err := s.tenantRepo.AdjustImageCount(ctx, db, int64(tenantID), -len(deleted)); err != nil {
			return 0, err
		}
	}
	return len(deleted), nil
}

func sanitizeFilename(value string) string {
	trimmed := strings.TrimSpace(path.Base(value))
	if trimmed == "" || trimmed == "." || trimmed == "/" {
		return ""
	}

	ext := strings.ToLower(path.Ext(trimmed))
	name := strings.TrimSuffix(trimmed, path.Ext(trimmed))
	name = slug.Make(name)
	if name == "" {
		return ""
	}
	return name + ext
}
