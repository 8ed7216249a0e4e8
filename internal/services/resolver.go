package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/NickEsColR/link-shorterer-seo/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type OutcomeState string

const (
	OutcomeFound    OutcomeState = "found"
	OutcomeExpired  OutcomeState = "expired"
	OutcomeNotFound OutcomeState = "not_found"
)

// MetadataSnapshot is the read-side view of a link's metadata, handed to
// the presentation layer for preview rendering.
type MetadataSnapshot struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type RedirectOutcome struct {
	State       OutcomeState     `json:"state"`
	LinkID      uint             `json:"-"`
	OriginalURL string           `json:"original_url,omitempty"`
	Metadata    MetadataSnapshot `json:"metadata,omitempty"`
}

const resolveCacheTTL = 10 * time.Minute

func resolveCacheKey(shortCode string) string {
	return "link:" + shortCode
}

// cachedLink is the record snapshot kept in redis. State (active,
// expiry) is cached raw and evaluated per lookup so an entry cached
// before its expiry still resolves Expired afterwards.
type cachedLink struct {
	LinkID      uint             `json:"link_id"`
	OriginalURL string           `json:"original_url"`
	IsActive    bool             `json:"is_active"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
	Metadata    MetadataSnapshot `json:"metadata"`
}

// Resolver is the read side of a short code: it looks the record up and
// classifies it, never mutating anything beyond the cache fill.
type Resolver struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *slog.Logger
}

func NewResolver(db *gorm.DB, rdb *redis.Client, logger *slog.Logger) *Resolver {
	return &Resolver{db: db, rdb: rdb, logger: logger}
}

// Resolve returns the outcome for a short code. Expired is distinct from
// NotFound so the caller can render a dedicated "link expired" page; a
// soft-deleted link is indistinguishable from one that never existed.
func (r *Resolver) Resolve(ctx context.Context, shortCode string) (RedirectOutcome, error) {
	entry, ok := r.cacheGet(ctx, shortCode)
	if !ok {
		var link models.Link
		err := r.db.WithContext(ctx).Preload("Metadata").
			Where("short_code = ?", shortCode).First(&link).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return RedirectOutcome{State: OutcomeNotFound}, nil
			}
			return RedirectOutcome{}, err
		}

		entry = cachedLink{
			LinkID:      link.ID,
			OriginalURL: link.OriginalURL,
			IsActive:    link.IsActive,
			ExpiresAt:   link.ExpiresAt,
		}
		if link.Metadata != nil {
			entry.Metadata = snapshotOf(link.Metadata)
		}
		r.cacheSet(ctx, shortCode, entry)
	}

	if !entry.IsActive {
		return RedirectOutcome{State: OutcomeNotFound}, nil
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		return RedirectOutcome{State: OutcomeExpired, LinkID: entry.LinkID}, nil
	}

	return RedirectOutcome{
		State:       OutcomeFound,
		LinkID:      entry.LinkID,
		OriginalURL: entry.OriginalURL,
		Metadata:    entry.Metadata,
	}, nil
}

func (r *Resolver) cacheGet(ctx context.Context, shortCode string) (cachedLink, bool) {
	if r.rdb == nil {
		return cachedLink{}, false
	}
	val, err := r.rdb.Get(ctx, resolveCacheKey(shortCode)).Result()
	if err != nil {
		return cachedLink{}, false
	}
	var entry cachedLink
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return cachedLink{}, false
	}
	return entry, true
}

func (r *Resolver) cacheSet(ctx context.Context, shortCode string, entry cachedLink) {
	if r.rdb == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, resolveCacheKey(shortCode), data, resolveCacheTTL).Err(); err != nil {
		r.logger.Debug("Resolver cache write failed", "short_code", shortCode, "error", err)
	}
}

func snapshotOf(meta *models.Metadata) MetadataSnapshot {
	snap := MetadataSnapshot{}
	if meta.Title != nil {
		snap.Title = *meta.Title
	}
	if meta.Description != nil {
		snap.Description = *meta.Description
	}
	if meta.ImageURL != nil {
		snap.ImageURL = *meta.ImageURL
	}
	return snap
}
