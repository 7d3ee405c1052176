package controllers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"jewelstore/storage"
	"jewelstore/store"
)

// Cache is the read cache in front of the hot storefront endpoints.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, int64, error)
	Fill(ctx context.Context, key string, gen int64, value interface{}) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

type Options struct {
	// Cache may be nil, every read then goes to the database.
	Cache          Cache
	JWTSecret      []byte
	MaxUploadBytes int64
}

// Handler serves the catalog API on top of the stores.
type Handler struct {
	db         *gorm.DB
	categories *store.CategoryStore
	products   *store.ProductStore
	prices     *store.PriceLedger
	banners    *store.BannerStore
	users      *store.UserStore
	media      *storage.Media
	cache      Cache
	jwtSecret  []byte
	maxUpload  int64
}

func NewHandler(db *gorm.DB, media *storage.Media, opts Options) *Handler {
	return &Handler{
		db:         db,
		categories: store.NewCategoryStore(db),
		products:   store.NewProductStore(db, media),
		prices:     store.NewPriceLedger(db),
		banners:    store.NewBannerStore(db, media),
		users:      store.NewUserStore(db),
		media:      media,
		cache:      opts.Cache,
		jwtSecret:  opts.JWTSecret,
		maxUpload:  opts.MaxUploadBytes,
	}
}

// cacheGet reports a hit. On a miss it returns the generation to pass to
// cacheFill, or -1 when the cache is unusable. Cache failures count as misses.
func (h *Handler) cacheGet(ctx context.Context, key string, dest interface{}) (bool, int64) {
	if h.cache == nil {
		return false, -1
	}
	found, gen, err := h.cache.Get(ctx, key, dest)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false, -1
	}
	return found, gen
}

// cacheFill stores a value read from the database after a miss. It is
// dropped when a write invalidated key in between.
func (h *Handler) cacheFill(ctx context.Context, key string, gen int64, value interface{}) {
	if h.cache == nil || gen < 0 {
		return
	}
	stored, err := h.cache.Fill(ctx, key, gen, value)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
		return
	}
	if !stored {
		log.Ctx(ctx).Debug().Str("key", key).Msg("cache fill skipped after concurrent write")
	}
}

func (h *Handler) invalidate(ctx context.Context, keys ...string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, keys...); err != nil {
		log.Ctx(ctx).Error().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// idParam parses the :id route segment. Anything but a positive integer
// cannot name a row.
func idParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, store.ErrNotFound
	}
	return uint(id), nil
}

// pageRequest reads page and page_size. Clients always get bounded pages;
// only store callers may ask for every row.
func pageRequest(c *fiber.Ctx) store.PageRequest {
	size := c.QueryInt("page_size", store.DefaultPageSize)
	if size < 1 {
		size = store.DefaultPageSize
	}
	return store.PageRequest{
		Page:     c.QueryInt("page", 1),
		PageSize: size,
	}
}

// Health reports whether the database answers. An unreachable cache is
// reported as degraded.
func (h *Handler) Health(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("cache unreachable")
			return c.JSON(fiber.Map{"status": "degraded", "cache": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
