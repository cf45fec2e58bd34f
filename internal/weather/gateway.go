package weather

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"chronos/internal/plan"
)

// DefaultCacheTTL bounds how long a fetched forecast stays fresh.
const DefaultCacheTTL = 30 * time.Minute

// ForecastStore is an optional persistent cache behind the in-memory
// one. Implemented by the SQLite store.
type ForecastStore interface {
	SaveForecast(ctx context.Context, location string, w plan.WeatherCondition) error
	LoadForecast(ctx context.Context, location, date string, ttl time.Duration) (*plan.WeatherCondition, error)
}

type cacheEntry struct {
	condition plan.WeatherCondition
	fetchedAt time.Time
}

// Gateway is the single forecast access point. Lookup order: in-memory
// cache, persistent cache, then either the simulator (simulation mode)
// or the live provider with a simulator fallback. Fetch never fails;
// the worst case is a simulated forecast.
type Gateway struct {
	provider Provider
	store    ForecastStore // may be nil
	simulate bool
	ttl      time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithSimulation forces synthetic forecasts regardless of provider.
func WithSimulation(on bool) Option {
	return func(g *Gateway) { g.simulate = on }
}

// WithTTL overrides the cache freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(g *Gateway) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithStore attaches a persistent forecast cache.
func WithStore(store ForecastStore) Option {
	return func(g *Gateway) { g.store = store }
}

func NewGateway(provider Provider, opts ...Option) *Gateway {
	g := &Gateway{
		provider: provider,
		ttl:      DefaultCacheTTL,
		cache:    make(map[string]cacheEntry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func cacheKey(location, date string) string {
	return strings.ToLower(location) + "|" + date
}

// Fetch returns the forecast for one location and date.
func (g *Gateway) Fetch(ctx context.Context, location, date string) plan.WeatherCondition {
	if w, ok := g.cached(location, date); ok {
		return w
	}

	if g.store != nil {
		if w, err := g.store.LoadForecast(ctx, location, date, g.ttl); err == nil && w != nil {
			g.remember(location, date, *w)
			return *w
		}
	}

	var w plan.WeatherCondition
	if g.simulate || g.provider == nil {
		w = Simulate(location, date)
	} else {
		fetched, err := g.provider.Fetch(ctx, location, date)
		if err != nil {
			log.Printf("weather: %s fetch failed for %s %s, falling back to simulation: %v",
				g.provider.Name(), location, date, err)
			w = Simulate(location, date)
		} else {
			w = fetched
		}
	}

	g.remember(location, date, w)
	if g.store != nil {
		if err := g.store.SaveForecast(ctx, location, w); err != nil {
			log.Printf("weather: persist forecast for %s %s: %v", location, date, err)
		}
	}
	return w
}

// FetchRange returns one forecast per day of the inclusive [start,
// end] range, in order. Days are fetched concurrently. The only error
// is an unparseable or inverted range.
func (g *Gateway) FetchRange(ctx context.Context, location, start, end string) ([]plan.WeatherCondition, error) {
	dates, err := datesBetween(start, end)
	if err != nil {
		return nil, err
	}

	out := make([]plan.WeatherCondition, len(dates))
	eg, ctx := errgroup.WithContext(ctx)
	for i, date := range dates {
		eg.Go(func() error {
			out[i] = g.Fetch(ctx, location, date)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearCache drops the in-memory cache.
func (g *Gateway) ClearCache() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache = make(map[string]cacheEntry)
}

func (g *Gateway) cached(location, date string) (plan.WeatherCondition, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := cacheKey(location, date)
	entry, ok := g.cache[key]
	if !ok {
		return plan.WeatherCondition{}, false
	}
	if g.now().Sub(entry.fetchedAt) >= g.ttl {
		delete(g.cache, key)
		return plan.WeatherCondition{}, false
	}
	return entry.condition, true
}

func (g *Gateway) remember(location, date string, w plan.WeatherCondition) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache[cacheKey(location, date)] = cacheEntry{condition: w, fetchedAt: g.now()}
}

func datesBetween(start, end string) ([]string, error) {
	from, err := time.Parse(plan.DateLayout, start)
	if err != nil {
		return nil, err
	}
	until, err := time.Parse(plan.DateLayout, end)
	if err != nil {
		return nil, err
	}
	if until.Before(from) {
		return nil, &plan.AgentError{
			ErrorType:         "InvalidDateRange",
			Message:           "end date is before start date",
			FallbackAvailable: false,
			Suggestion:        "Swap the start and end dates.",
		}
	}

	var dates []string
	for d := from; !d.After(until); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(plan.DateLayout))
	}
	return dates, nil
}
