package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/NickEsColR/link-shorterer-seo/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidURL    = errors.New("original URL must be an absolute http or https URL")
	ErrInvalidExpiry = errors.New("expiry must be in the future")
	ErrQuotaExceeded = errors.New("active link quota exceeded")
	ErrNotFound      = errors.New("link not found")
	ErrForbidden     = errors.New("link belongs to another user")
)

type CreateLinkInput struct {
	OwnerID     uint
	OriginalURL string
	CustomCode  string
	ExpiresAt   *time.Time
	ClientIP    string // For Audit Log
}

// MetadataUpdate carries a partial edit. Nil leaves a field unchanged;
// an empty string clears it back to NULL.
type MetadataUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
}

type Dashboard struct {
	Links       []models.Link `json:"links"`
	ActiveLinks int64         `json:"active_links"`
	MaxActive   int           `json:"max_active"`
}

type LinkService struct {
	db        *gorm.DB
	rdb       *redis.Client
	allocator *CodeAllocator
	fetcher   PageFetcher
	audit     *AuditService
	maxActive int
	logger    *slog.Logger
}

func NewLinkService(
	db *gorm.DB,
	rdb *redis.Client,
	allocator *CodeAllocator,
	fetcher PageFetcher,
	audit *AuditService,
	maxActive int,
	logger *slog.Logger,
) *LinkService {
	return &LinkService{
		db:        db,
		rdb:       rdb,
		allocator: allocator,
		fetcher:   fetcher,
		audit:     audit,
		maxActive: maxActive,
		logger:    logger,
	}
}

// CreateLink creates a link and its metadata row as one transactional
// unit, enforcing the per-owner quota against active links only.
//
// Duplicate-URL policy: when the caller supplies neither a custom code
// nor an expiry, an existing active link for the same (owner, URL) pair
// is returned instead of creating a second one. Any explicit code or
// expiry always creates a new record.
func (s *LinkService) CreateLink(ctx context.Context, in CreateLinkInput) (*models.Link, error) {
	if err := validateOriginalURL(in.OriginalURL); err != nil {
		return nil, err
	}

	now := time.Now()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, ErrInvalidExpiry
	}

	if in.CustomCode == "" && in.ExpiresAt == nil {
		// An expired record must not satisfy a request for a non-expiring
		// link, so the lookup skips rows whose expiry has passed.
		var existing models.Link
		err := s.db.WithContext(ctx).Preload("Metadata").
			Where("user_id = ? AND original_url = ? AND is_active = ?", in.OwnerID, in.OriginalURL, true).
			Where("expires_at IS NULL OR expires_at > ?", now).
			First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// Prefetch outside the transaction. A slow or broken destination
	// must not fail the create or hold locks.
	var fetched PageMeta
	if s.fetcher != nil {
		meta, err := s.fetcher.Fetch(ctx, in.OriginalURL)
		if err != nil {
			s.logger.Warn("Metadata fetch failed, creating link without it", "url", in.OriginalURL, "error", err)
		} else {
			fetched = meta
		}
	}

	var link models.Link
	var meta models.Metadata
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize quota-check-then-insert per owner. SQLite has a
		// single writer, so the row lock is postgres-only.
		ownerQuery := tx
		if tx.Dialector.Name() == "postgres" {
			ownerQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var owner models.User
		if err := ownerQuery.First(&owner, in.OwnerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var active int64
		if err := tx.Model(&models.Link{}).
			Where("user_id = ? AND is_active = ?", in.OwnerID, true).
			Count(&active).Error; err != nil {
			return err
		}
		if active >= int64(s.maxActive) {
			return fmt.Errorf("%w: limit is %d", ErrQuotaExceeded, s.maxActive)
		}

		_, err := s.allocator.Allocate(in.CustomCode, func(code string) error {
			link = models.Link{
				UserID:      in.OwnerID,
				ShortCode:   code,
				OriginalURL: in.OriginalURL,
				CreatedAt:   now,
				ExpiresAt:   in.ExpiresAt,
				IsActive:    true,
			}
			// Savepoint per attempt: a unique violation must not poison
			// the outer transaction when the allocator retries.
			insertErr := tx.Transaction(func(itx *gorm.DB) error {
				return itx.Create(&link).Error
			})
			if errors.Is(insertErr, gorm.ErrDuplicatedKey) {
				return ErrCodeTaken
			}
			return insertErr
		})
		if err != nil {
			return err
		}

		meta = models.Metadata{LinkID: link.ID, UpdatedAt: now}
		if fetched.Title != "" {
			meta.Title = &fetched.Title
		}
		if fetched.Description != "" {
			meta.Description = &fetched.Description
		}
		if fetched.ImageURL != "" {
			meta.ImageURL = &fetched.ImageURL
		}
		return tx.Create(&meta).Error
	})
	if err != nil {
		return nil, err
	}

	link.Metadata = &meta

	s.audit.LogAction(&in.OwnerID, "CREATE_LINK", link.ShortCode, map[string]interface{}{
		"original_url": in.OriginalURL,
	}, in.ClientIP)

	return &link, nil
}

// UpdateMetadata applies a partial edit to a link's metadata. Only the
// owner may edit; any edit marks the metadata as custom.
func (s *LinkService) UpdateMetadata(ctx context.Context, linkID, ownerID uint, upd MetadataUpdate, clientIP string) (*models.Metadata, error) {
	link, err := s.ownedLink(ctx, linkID, ownerID)
	if err != nil {
		return nil, err
	}

	meta := link.Metadata
	if meta == nil {
		meta = &models.Metadata{LinkID: link.ID}
	}
	applyField := func(dst **string, src *string) {
		if src == nil {
			return
		}
		if *src == "" {
			*dst = nil
		} else {
			*dst = src
		}
	}
	applyField(&meta.Title, upd.Title)
	applyField(&meta.Description, upd.Description)
	applyField(&meta.ImageURL, upd.ImageURL)
	meta.UpdatedAt = time.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(meta).Error; err != nil {
			return err
		}
		return tx.Model(&models.Link{}).Where("id = ?", link.ID).
			Update("has_custom_metadata", true).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, link.ShortCode)
	s.audit.LogAction(&ownerID, "UPDATE_METADATA", link.ShortCode, nil, clientIP)

	return meta, nil
}

// SoftDelete deactivates a link. The short code stays reserved forever;
// only the quota count drops. Deleting an already-inactive link is a
// no-op.
func (s *LinkService) SoftDelete(ctx context.Context, linkID, ownerID uint, clientIP string) error {
	link, err := s.ownedLink(ctx, linkID, ownerID)
	if err != nil {
		return err
	}
	if !link.IsActive {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Link{}).Where("id = ?", link.ID).
		Update("is_active", false).Error; err != nil {
		return err
	}

	s.invalidate(ctx, link.ShortCode)
	s.audit.LogAction(&ownerID, "DELETE_LINK", link.ShortCode, nil, clientIP)

	return nil
}

// ListLinks returns the owner's links newest first along with the
// active count and configured quota, for the management dashboard.
func (s *LinkService) ListLinks(ctx context.Context, ownerID uint) (*Dashboard, error) {
	var links []models.Link
	if err := s.db.WithContext(ctx).Preload("Metadata").
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Find(&links).Error; err != nil {
		return nil, err
	}

	var active int64
	if err := s.db.WithContext(ctx).Model(&models.Link{}).
		Where("user_id = ? AND is_active = ?", ownerID, true).
		Count(&active).Error; err != nil {
		return nil, err
	}

	return &Dashboard{Links: links, ActiveLinks: active, MaxActive: s.maxActive}, nil
}

func (s *LinkService) ownedLink(ctx context.Context, linkID, ownerID uint) (*models.Link, error) {
	var link models.Link
	if err := s.db.WithContext(ctx).Preload("Metadata").First(&link, linkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if link.UserID != ownerID {
		return nil, ErrForbidden
	}
	return &link, nil
}

func (s *LinkService) invalidate(ctx context.Context, shortCode string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, resolveCacheKey(shortCode)).Err(); err != nil {
		s.logger.Warn("Failed to invalidate resolver cache", "short_code", shortCode, "error", err)
	}
}

func validateOriginalURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}
