package pricing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/costwatch/costwatch/pkg/metrics"
	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/rs/zerolog"
)

// ErrPriceUnavailable is returned when both the live lookup and the static
// fallback table miss. Callers record the resource with a zero cost instead
// of dropping it, so inventory stays visible.
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceSource is the live price lookup boundary. Implementations may be
// slow or rate-limited; the resolver caches successful results.
type PriceSource interface {
	LookupPrice(ctx context.Context, kind domain.Kind, class, region string) (float64, error)
}

type cacheKey struct {
	kind   domain.Kind
	class  string
	region string
}

type cacheEntry struct {
	price     float64
	expiresAt time.Time
}

type Options struct {
	// CacheTTL bounds how long a live price is reused. Defaults to 4 hours.
	CacheTTL time.Duration
	// MessagingFreeTier prices topics/queues at zero instead of the flat
	// hourly rate. Both policies have shipped; this makes the choice
	// explicit instead of ambiguous.
	MessagingFreeTier bool
}

// Resolver turns (kind, class, region) into a unit price. It is the single
// pricing authority handed to every collector and is safe for concurrent
// use by the scan worker pool.
type Resolver struct {
	source PriceSource
	logger zerolog.Logger
	opts   Options

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry

	now func() time.Time
}

func NewResolver(source PriceSource, logger zerolog.Logger, opts Options) *Resolver {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 4 * time.Hour
	}
	return &Resolver{
		source: source,
		logger: logger.With().Str("component", "pricing").Logger(),
		opts:   opts,
		cache:  make(map[cacheKey]cacheEntry),
		now:    time.Now,
	}
}

// Resolve returns the unit price for a kind/class/region triple.
//
// Cache hits are O(1) and perform no I/O; expired entries are rejected on
// read even if the sweeper has not removed them yet. On a miss the live
// source is consulted and a positive result is cached for the TTL. Live
// failures fall back to the static table, and fallback results are
// deliberately not cached so the next call retries the live source.
func (r *Resolver) Resolve(ctx context.Context, kind domain.Kind, class, region string) (float64, error) {
	key := cacheKey{kind: kind, class: class, region: region}

	r.mu.Lock()
	if e, ok := r.cache[key]; ok && r.now().Before(e.expiresAt) {
		r.mu.Unlock()
		metrics.PriceCacheHit()
		return e.price, nil
	}
	r.mu.Unlock()

	metrics.PriceCacheMiss()
	price, err := r.source.LookupPrice(ctx, kind, class, region)
	if err == nil && price > 0 {
		r.mu.Lock()
		r.cache[key] = cacheEntry{price: price, expiresAt: r.now().Add(r.opts.CacheTTL)}
		r.mu.Unlock()
		return price, nil
	}
	if err != nil {
		r.logger.Warn().Err(err).
			Str("kind", string(kind)).
			Str("class", class).
			Str("region", region).
			Msg("live price lookup failed, using fallback table")
	}

	metrics.PriceFallback()
	fb, ok := fallbackPrice(kind, class, region)
	if !ok {
		return 0, ErrPriceUnavailable
	}
	return fb, nil
}

// MessagingHourly returns the flat hourly rate for a topic or queue under
// the configured policy.
func (r *Resolver) MessagingHourly() float64 {
	if r.opts.MessagingFreeTier {
		return 0
	}
	return messagingHourlyRate
}

// RefreshCache removes every expired entry and reports how many were
// dropped. The sweep is advisory: Resolve never returns a stale price
// whether or not it has run.
func (r *Resolver) RefreshCache() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, e := range r.cache {
		if !now.Before(e.expiresAt) {
			delete(r.cache, key)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug().Int("removed", removed).Msg("swept expired price cache entries")
	}
	return removed
}

// CacheSize reports the current entry count, expired entries included.
func (r *Resolver) CacheSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}
