package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KeplerDE/kinos-go/internal/logger"
	"github.com/KeplerDE/kinos-go/internal/metrics"
	"github.com/KeplerDE/kinos-go/internal/model"
)

// Redis key TTLs. Movie pages change with every review, actors rarely.
const (
	MovieCacheTTL = 5 * time.Minute
	ActorCacheTTL = 15 * time.Minute
)

const (
	kindMovie = "movie"
	kindActor = "actor"
)

// CacheService provides a Redis cache-aside layer for movie and actor detail
// responses. A nil *CacheService, or one without a client, is a valid cache
// that never hits.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or connection
// fails, it returns a CacheService with a nil client (cache operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		logger.Log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		_ = rdb.Close()
		return &CacheService{}
	}

	logger.Log.Info().Str("addr", opts.Addr).Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

func (c *CacheService) enabled() bool {
	return c != nil && c.rdb != nil
}

// GetMovie returns the cached detail of a published movie.
func (c *CacheService) GetMovie(ctx context.Context, slug string) (*model.MovieDetail, bool) {
	var m model.MovieDetail
	if !c.get(ctx, kindMovie, movieKey(slug), &m) {
		return nil, false
	}
	return &m, true
}

func (c *CacheService) SetMovie(ctx context.Context, m *model.MovieDetail) {
	c.set(ctx, movieKey(m.URL), m, MovieCacheTTL)
}

// InvalidateMovie drops a movie page after its reviews, shots or the movie
// itself changed.
func (c *CacheService) InvalidateMovie(ctx context.Context, slug string) {
	c.del(ctx, movieKey(slug))
}

func (c *CacheService) GetActor(ctx context.Context, slug string) (*model.ActorDetail, bool) {
	var a model.ActorDetail
	if !c.get(ctx, kindActor, actorKey(slug), &a) {
		return nil, false
	}
	return &a, true
}

func (c *CacheService) SetActor(ctx context.Context, slug string, a *model.ActorDetail) {
	c.set(ctx, actorKey(slug), a, ActorCacheTTL)
}

func (c *CacheService) InvalidateActor(ctx context.Context, slug string) {
	c.del(ctx, actorKey(slug))
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Close()
}

// get decodes a cached value into dst. Redis errors and corrupt entries count
// as misses so a sick cache never fails a read.
func (c *CacheService) get(ctx context.Context, kind, key string, dst any) bool {
	if !c.enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn().Err(err).Str("key", key).Msg("cache: get failed")
		}
		metrics.CacheMisses.WithLabelValues(kind).Inc()
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("cache: corrupt entry")
		metrics.CacheMisses.WithLabelValues(kind).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(kind).Inc()
	return true
}

func (c *CacheService) set(ctx context.Context, key string, v any, ttl time.Duration) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error().Err(err).Str("key", key).Msg("cache: encode failed")
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("cache: set failed")
	}
}

func (c *CacheService) del(ctx context.Context, key string) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("cache: invalidate failed")
	}
}

func movieKey(slug string) string {
	return "movie:" + slug
}

func actorKey(slug string) string {
	return "actor:" + slug
}
