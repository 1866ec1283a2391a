package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KeplerDE/kinos-go/internal/logger"
)

// NOTIFY channels fed by the *_notify_change triggers. Payloads are slugs.
const (
	MovieChangesChannel = "movie_changes"
	ActorChangesChannel = "actor_changes"
)

// change is one cached page waiting to be dropped.
type change struct {
	channel string
	slug    string
}

// InvalidationWorker listens for PostgreSQL NOTIFY on movie_changes and
// actor_changes and drops the cached pages named in the payloads.
// Notifications are batched: fifty reviews on one movie inside a window cost
// one DEL.
//
// It catches writes made by other API instances, by catalogctl and by direct
// SQL edits, which the in-process invalidation in the services cannot see.
type InvalidationWorker struct {
	pool   *pgxpool.Pool
	cache  *CacheService
	window time.Duration

	mu      sync.Mutex
	pending map[change]struct{}
}

func NewInvalidationWorker(pool *pgxpool.Pool, cache *CacheService, window time.Duration) *InvalidationWorker {
	return &InvalidationWorker{
		pool:    pool,
		cache:   cache,
		window:  window,
		pending: make(map[change]struct{}),
	}
}

// Start listens until ctx is cancelled, reconnecting after errors.
func (w *InvalidationWorker) Start(ctx context.Context) {
	log := logger.Log.With().Str("worker", "cache-invalidation").Logger()
	log.Info().Dur("window", w.window).Msg("starting")

	for {
		err := w.listenLoop(ctx)
		if ctx.Err() != nil {
			log.Info().Msg("stopping")
			return
		}
		log.Warn().Err(err).Msg("listen error, reconnecting in 5s")
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			log.Info().Msg("stopping")
			return
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on both channels and
// collects changes while flushLoop drains them.
func (w *InvalidationWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	for _, ch := range []string{MovieChangesChannel, ActorChangesChannel} {
		if _, err := conn.Exec(ctx, "LISTEN "+ch); err != nil {
			return err
		}
	}

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		w.enqueue(n.Channel, n.Payload)
	}
}

func (w *InvalidationWorker) enqueue(channel, slug string) {
	if slug == "" {
		return
	}
	if channel != MovieChangesChannel && channel != ActorChangesChannel {
		return
	}
	w.mu.Lock()
	w.pending[change{channel: channel, slug: slug}] = struct{}{}
	w.mu.Unlock()
}

func (w *InvalidationWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			w.flush(context.Background())
			return
		}
	}
}

// flush drains the pending set and returns how many pages were dropped.
func (w *InvalidationWorker) flush(ctx context.Context) int {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return 0
	}
	batch := w.pending
	w.pending = make(map[change]struct{})
	w.mu.Unlock()

	movies, actors := 0, 0
	for ch := range batch {
		switch ch.channel {
		case MovieChangesChannel:
			w.cache.InvalidateMovie(ctx, ch.slug)
			movies++
		case ActorChangesChannel:
			w.cache.InvalidateActor(ctx, ch.slug)
			actors++
		}
	}
	logger.Log.Debug().Int("movies", movies).Int("actors", actors).Msg("cache-invalidation: batch flushed")
	return len(batch)
}
