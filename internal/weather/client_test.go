package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"kjorefore/internal/types"
)

// mockClock implements types.Clock for deterministic testing.
type mockClock struct {
	now time.Time
}

func (c *mockClock) Now() time.Time { return c.now }

// mockLogger implements types.Logger as a no-op for tests.
type mockLogger struct{}

func (l *mockLogger) Info(msg string, args ...any)  {}
func (l *mockLogger) Error(msg string, args ...any) {}
func (l *mockLogger) Warn(msg string, args ...any)  {}
func (l *mockLogger) With(args ...any) types.Logger { return l }

// countingFetcher serves a canned series and counts outbound calls.
type countingFetcher struct {
	series *types.ForecastSeries
	err    error
	calls  int
}

func (f *countingFetcher) Forecast(_ context.Context, _ types.Coordinate) (*types.ForecastSeries, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

var testCoord = types.Coordinate{Lat: 59.9139, Lng: 10.7522}

func seriesAt(times ...time.Time) *types.ForecastSeries {
	s := &types.ForecastSeries{}
	for _, tt := range times {
		s.Entries = append(s.Entries, types.ForecastEntry{
			Time: tt,
			Instant: types.InstantDetails{
				AirTemperature: 8,
				WindSpeed:      4,
			},
			Next1Hours: &types.ForecastBlock{
				PrecipitationAmount: 0.2,
				SymbolCode:          "cloudy",
			},
		})
	}
	return s
}

func newTestClient(fetcher Fetcher, clock types.Clock) *Client {
	return NewClient(fetcher, NewMemoryStore(), clock, &mockLogger{},
		WithSleepFunc(func(time.Duration) {}))
}

func TestGetWeather_CacheHitWithinTTL(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := &mockClock{now: base}
	fetcher := &countingFetcher{series: seriesAt(base)}
	client := newTestClient(fetcher, clock)

	target := base.Add(10 * time.Minute)

	if r := client.GetWeather(context.Background(), testCoord, target); r == nil {
		t.Fatal("expected a reading")
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", fetcher.calls)
	}

	// Second lookup for the same bucket within the TTL: no new fetch.
	clock.now = base.Add(29 * time.Minute)
	if r := client.GetWeather(context.Background(), testCoord, target); r == nil {
		t.Fatal("expected a reading")
	}
	if fetcher.calls != 1 {
		t.Errorf("expected cache hit, got %d fetches", fetcher.calls)
	}
}

func TestGetWeather_ExpiredEntryRefetched(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := &mockClock{now: base}
	fetcher := &countingFetcher{series: seriesAt(base)}
	client := newTestClient(fetcher, clock)

	target := base.Add(10 * time.Minute)

	client.GetWeather(context.Background(), testCoord, target)
	if fetcher.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", fetcher.calls)
	}

	// Past the TTL the stale entry is skipped and refetched on read.
	clock.now = base.Add(31 * time.Minute)
	client.GetWeather(context.Background(), testCoord, target)
	if fetcher.calls != 2 {
		t.Errorf("expected refetch after TTL, got %d fetches", fetcher.calls)
	}
}

func TestGetWeather_HourBucketsAreDistinct(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := &mockClock{now: base}
	fetcher := &countingFetcher{series: seriesAt(base)}
	client := newTestClient(fetcher, clock)

	client.GetWeather(context.Background(), testCoord, base.Add(10*time.Minute))
	client.GetWeather(context.Background(), testCoord, base.Add(70*time.Minute))

	if fetcher.calls != 2 {
		t.Errorf("targets in different hours must use different cache keys, got %d fetches", fetcher.calls)
	}

	// Same hour bucket as the first call: cached.
	client.GetWeather(context.Background(), testCoord, base.Add(20*time.Minute))
	if fetcher.calls != 2 {
		t.Errorf("expected cache hit within the hour bucket, got %d fetches", fetcher.calls)
	}
}

func TestGetWeather_ZeroTargetUsesCurrentBucket(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := &mockClock{now: base}
	fetcher := &countingFetcher{series: seriesAt(base)}
	client := newTestClient(fetcher, clock)

	if r := client.GetWeather(context.Background(), testCoord, time.Time{}); r == nil {
		t.Fatal("expected a reading for the current-weather request")
	}
	client.GetWeather(context.Background(), testCoord, time.Time{})
	if fetcher.calls != 1 {
		t.Errorf("current-weather requests must share the distinguished bucket, got %d fetches", fetcher.calls)
	}
}

func TestGetWeather_ClosestEntryTieKeepsFirst(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	series := seriesAt(base, base.Add(time.Hour))
	series.Entries[0].Instant.AirTemperature = -5
	series.Entries[1].Instant.AirTemperature = 5

	clock := &mockClock{now: base}
	client := newTestClient(&countingFetcher{series: series}, clock)

	// 10:30 is equidistant from both entries; the first wins.
	r := client.GetWeather(context.Background(), testCoord, base.Add(30*time.Minute))
	if r == nil {
		t.Fatal("expected a reading")
	}
	if r.TemperatureC != -5 {
		t.Errorf("tie must resolve to the first entry, got temperature %f", r.TemperatureC)
	}
}

func TestGetWeather_PrefersNext1Hours(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	series := &types.ForecastSeries{Entries: []types.ForecastEntry{{
		Time:       base,
		Instant:    types.InstantDetails{AirTemperature: 3},
		Next1Hours: &types.ForecastBlock{PrecipitationAmount: 1.5, SymbolCode: "rain"},
		Next6Hours: &types.ForecastBlock{PrecipitationAmount: 9, SymbolCode: "heavyrain"},
	}}}

	client := newTestClient(&countingFetcher{series: series}, &mockClock{now: base})

	r := client.GetWeather(context.Background(), testCoord, base)
	if r.PrecipitationMmPerHour != 1.5 || r.SymbolCode != "rain" {
		t.Errorf("expected the one-hour block, got precip=%f symbol=%s", r.PrecipitationMmPerHour, r.SymbolCode)
	}
}

func TestGetWeather_FallsBackToNext6Hours(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	series := &types.ForecastSeries{Entries: []types.ForecastEntry{{
		Time:       base,
		Instant:    types.InstantDetails{AirTemperature: 3},
		Next6Hours: &types.ForecastBlock{PrecipitationAmount: 4, SymbolCode: "sleet"},
	}}}

	client := newTestClient(&countingFetcher{series: series}, &mockClock{now: base})

	r := client.GetWeather(context.Background(), testCoord, base)
	if r.PrecipitationMmPerHour != 4 || r.SymbolCode != "sleet" {
		t.Errorf("expected the six-hour block, got precip=%f symbol=%s", r.PrecipitationMmPerHour, r.SymbolCode)
	}
}

func TestGetWeather_NoBlocksYieldDefaults(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	series := &types.ForecastSeries{Entries: []types.ForecastEntry{{
		Time:    base,
		Instant: types.InstantDetails{AirTemperature: 3},
	}}}

	client := newTestClient(&countingFetcher{series: series}, &mockClock{now: base})

	r := client.GetWeather(context.Background(), testCoord, base)
	if r.PrecipitationMmPerHour != 0 {
		t.Errorf("expected zero precipitation, got %f", r.PrecipitationMmPerHour)
	}
	if r.SymbolCode != "unknown" {
		t.Errorf("expected symbol \"unknown\", got %q", r.SymbolCode)
	}
}

func TestGetWeather_FetchFailureIsAbsence(t *testing.T) {
	clock := &mockClock{now: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	client := newTestClient(&countingFetcher{err: errors.New("boom")}, clock)

	if r := client.GetWeather(context.Background(), testCoord, clock.now); r != nil {
		t.Errorf("expected nil on failure, got %+v", r)
	}
}

func TestGetWeather_EmptySeriesIsAbsence(t *testing.T) {
	clock := &mockClock{now: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	client := newTestClient(&countingFetcher{series: &types.ForecastSeries{}}, clock)

	if r := client.GetWeather(context.Background(), testCoord, clock.now); r != nil {
		t.Errorf("expected nil for an empty series, got %+v", r)
	}
}

func TestGetWeatherBatch_PausesBetweenCalls(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := &mockClock{now: base}
	fetcher := &countingFetcher{series: seriesAt(base)}

	var sleeps []time.Duration
	client := NewClient(fetcher, NewMemoryStore(), clock, &mockLogger{},
		WithSleepFunc(func(d time.Duration) { sleeps = append(sleeps, d) }))

	points := []BatchPoint{
		{Coordinates: types.Coordinate{Lat: 59.0, Lng: 10.0}, Time: base},
		{Coordinates: types.Coordinate{Lat: 60.0, Lng: 10.0}, Time: base},
		{Coordinates: types.Coordinate{Lat: 61.0, Lng: 10.0}, Time: base},
	}

	readings := client.GetWeatherBatch(context.Background(), points)
	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}

	// The pause sits between calls, never before the first.
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 pauses, got %d", len(sleeps))
	}
	for _, d := range sleeps {
		if d != batchPause {
			t.Errorf("expected %v pause, got %v", batchPause, d)
		}
	}
}

func TestGetWeatherBatch_PartialFailure(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := &mockClock{now: base}

	// The fetcher fails outright; every slot comes back nil but the batch
	// still returns one slot per point.
	client := newTestClient(&countingFetcher{err: errors.New("down")}, clock)

	points := []BatchPoint{
		{Coordinates: types.Coordinate{Lat: 59.0, Lng: 10.0}, Time: base},
		{Coordinates: types.Coordinate{Lat: 60.0, Lng: 10.0}, Time: base},
	}
	readings := client.GetWeatherBatch(context.Background(), points)
	if len(readings) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(readings))
	}
	for i, r := range readings {
		if r != nil {
			t.Errorf("slot %d: expected nil reading", i)
		}
	}
}

func TestSweepCache(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := &mockClock{now: base}
	fetcher := &countingFetcher{series: seriesAt(base)}
	store := NewMemoryStore()
	client := NewClient(fetcher, store, clock, &mockLogger{},
		WithSleepFunc(func(time.Duration) {}))

	client.GetWeather(context.Background(), testCoord, base)
	if store.Len() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", store.Len())
	}

	// Nothing expired yet.
	if removed := client.SweepCache(context.Background()); removed != 0 {
		t.Errorf("expected 0 removed, got %d", removed)
	}

	clock.now = base.Add(31 * time.Minute)
	if removed := client.SweepCache(context.Background()); removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store after sweep, got %d entries", store.Len())
	}
}

func TestClearCache(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := &mockClock{now: base}
	fetcher := &countingFetcher{series: seriesAt(base)}
	store := NewMemoryStore()
	client := NewClient(fetcher, store, clock, &mockLogger{},
		WithSleepFunc(func(time.Duration) {}))

	client.GetWeather(context.Background(), testCoord, base)
	client.ClearCache(context.Background())

	if store.Len() != 0 {
		t.Errorf("expected empty store after clear, got %d entries", store.Len())
	}

	client.GetWeather(context.Background(), testCoord, base)
	if fetcher.calls != 2 {
		t.Errorf("expected refetch after clear, got %d fetches", fetcher.calls)
	}
}
