// Package weather resolves forecast readings for coordinates at target
// instants, backed by a bucketed TTL cache that bounds outbound call
// volume toward the forecast provider.
package weather

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"kjorefore/internal/types"
)

// CacheTTL is how long a fetched forecast series stays reusable.
const CacheTTL = 30 * time.Minute

// batchPause is the fixed pause between consecutive calls in a batch,
// per forecast-provider rate etiquette.
const batchPause = 100 * time.Millisecond

// Fetcher is the outbound capability the client depends on. Satisfied by
// external.MetNoClient and by test fakes.
type Fetcher interface {
	Forecast(ctx context.Context, coord types.Coordinate) (*types.ForecastSeries, error)
}

// BatchPoint pairs a coordinate with the instant a reading is wanted for.
type BatchPoint struct {
	Coordinates types.Coordinate
	Time        time.Time
}

// Client resolves weather readings with caching. Failures never propagate:
// a reading that cannot be resolved is absent (nil), and callers must treat
// absence as "no data" rather than an error.
type Client struct {
	fetcher Fetcher
	store   Store
	clock   types.Clock
	logger  types.Logger
	ttl     time.Duration

	// group collapses concurrent fetches for the same bucket so at most
	// one writer per cache key is in flight.
	group singleflight.Group

	sleepFn func(time.Duration) // between batch items; overridable in tests
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithSleepFunc overrides the pause function used between batch calls.
func WithSleepFunc(fn func(time.Duration)) Option {
	return func(c *Client) { c.sleepFn = fn }
}

// WithTTL overrides the cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// NewClient creates a weather client over the given fetcher and store.
func NewClient(fetcher Fetcher, store Store, clock types.Clock, logger types.Logger, opts ...Option) *Client {
	c := &Client{
		fetcher: fetcher,
		store:   store,
		clock:   clock,
		logger:  logger,
		ttl:     CacheTTL,
		sleepFn: time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cacheKey buckets a request to roughly 1.1 km spatially (two coordinate
// decimals) and one hour temporally. A request without a target instant
// uses the distinguished "current" bucket.
func cacheKey(coord types.Coordinate, target time.Time) string {
	bucket := "current"
	if !target.IsZero() {
		bucket = fmt.Sprintf("%d", target.UnixMilli()/(60*60*1000))
	}
	return fmt.Sprintf("%.2f,%.2f,%s", coord.Lat, coord.Lng, bucket)
}

// GetWeather resolves the forecast reading for coord nearest to target.
// A zero target means "current weather" and resolves against the clock's
// now. A nil result means no data; the client never returns an error.
func (c *Client) GetWeather(ctx context.Context, coord types.Coordinate, target time.Time) *types.WeatherReading {
	key := cacheKey(coord, target)
	resolved := target
	if resolved.IsZero() {
		resolved = c.clock.Now()
	}

	series := c.series(ctx, key, coord)
	if series == nil {
		return nil
	}

	entry := closestEntry(series, resolved)
	if entry == nil {
		return nil
	}

	return readingFromEntry(entry)
}

// GetWeatherBatch resolves readings for points sequentially, pausing
// between calls (not before the first) to respect provider rate limits.
// Failures are per-item: a nil slot never aborts the batch.
func (c *Client) GetWeatherBatch(ctx context.Context, points []BatchPoint) []*types.WeatherReading {
	readings := make([]*types.WeatherReading, 0, len(points))

	for i, p := range points {
		if i > 0 {
			c.sleepFn(batchPause)
		}
		readings = append(readings, c.GetWeather(ctx, p.Coordinates, p.Time))
	}

	return readings
}

// ClearCache drops every cached series, forcing fresh fetches.
func (c *Client) ClearCache(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("weather cache clear failed", "error", err.Error())
	}
}

// SweepCache deletes entries whose TTL has elapsed. It is triggered
// externally (a scheduler job in the API process) rather than by writes.
func (c *Client) SweepCache(ctx context.Context) int {
	removed, err := c.store.Sweep(ctx, c.clock.Now())
	if err != nil {
		c.logger.Warn("weather cache sweep failed", "error", err.Error())
		return 0
	}
	return removed
}

// series returns a usable forecast series for the bucket, from cache when
// a non-expired entry exists, otherwise via one collapsed outbound fetch.
// Expired entries are skipped and refetched on read, not evicted on write.
func (c *Client) series(ctx context.Context, key string, coord types.Coordinate) *types.ForecastSeries {
	now := c.clock.Now()

	cached, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("weather cache read failed", "key", key, "error", err.Error())
	} else if cached != nil && now.Before(cached.ExpiresAt) {
		return &cached.Series
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		series, err := c.fetcher.Forecast(ctx, coord)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(ctx, &Entry{
			Key:       key,
			Series:    *series,
			FetchedAt: now,
			ExpiresAt: now.Add(c.ttl),
		}); err != nil {
			c.logger.Warn("weather cache write failed", "key", key, "error", err.Error())
		}
		return series, nil
	})
	if err != nil {
		c.logger.Warn("forecast fetch failed", "key", key, "error", err.Error())
		return nil
	}

	return v.(*types.ForecastSeries)
}

// closestEntry selects the series entry whose timestamp is nearest to
// target. Ties keep the first-encountered entry in series order. Returns
// nil for an empty series.
func closestEntry(series *types.ForecastSeries, target time.Time) *types.ForecastEntry {
	if len(series.Entries) == 0 {
		return nil
	}

	closest := &series.Entries[0]
	minDiff := absDuration(series.Entries[0].Time.Sub(target))

	for i := range series.Entries {
		diff := absDuration(series.Entries[i].Time.Sub(target))
		if diff < minDiff {
			minDiff = diff
			closest = &series.Entries[i]
		}
	}

	return closest
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// readingFromEntry maps a series entry to a WeatherReading. Precipitation
// and the symbol come from the nearest short-range horizon: the one-hour
// block when the provider published it, else the six-hour block.
func readingFromEntry(e *types.ForecastEntry) *types.WeatherReading {
	next := e.Next1Hours
	if next == nil {
		next = e.Next6Hours
	}

	precipitation := 0.0
	symbol := "unknown"
	if next != nil {
		precipitation = next.PrecipitationAmount
		symbol = next.SymbolCode
	}

	windDir := e.Instant.WindFromDirection
	humidity := e.Instant.RelativeHumidity
	cloudiness := e.Instant.CloudAreaFraction
	pressure := e.Instant.AirPressureAtSeaLevel

	return &types.WeatherReading{
		TemperatureC:           e.Instant.AirTemperature,
		PrecipitationMmPerHour: precipitation,
		WindSpeedMps:           e.Instant.WindSpeed,
		WindDirectionDeg:       &windDir,
		HumidityPct:            &humidity,
		CloudinessPct:          &cloudiness,
		PressureHpa:            &pressure,
		SymbolCode:             symbol,
		Description:            SymbolDescription(symbol),
	}
}
