// Package search implements the optimal departure-time engine: it walks a
// grid of candidate departure instants over a window, evaluates a fully
// annotated route for each, and ranks the candidates by weather score.
package search

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"kjorefore/internal/trip"
	"kjorefore/internal/types"
	"kjorefore/internal/weather"
)

const (
	// DefaultIntervalMinutes is the slot spacing when the caller does not
	// choose one.
	DefaultIntervalMinutes = 60

	// weatherBatchSize and interBatchPause throttle the per-slot weather
	// fetches: ten back-to-back calls, then a one-second pause. The pause
	// sits between batches, never inside one.
	weatherBatchSize = 10
	interBatchPause  = time.Second
)

// RouteBuilder is the slice of the trip service the engine needs.
type RouteBuilder interface {
	PlanRoute(ctx context.Context, origin, destination types.Location, departure time.Time) (*types.RouteModel, error)
	ResolveSegmentNames(ctx context.Context, segments []types.RouteSegment)
}

// WeatherResolver resolves one reading at a time; the engine applies its
// own batch cadence on top.
type WeatherResolver interface {
	GetWeather(ctx context.Context, coord types.Coordinate, target time.Time) *types.WeatherReading
}

// Request describes one optimal-time search.
type Request struct {
	Origin          types.Location
	Destination     types.Location
	Date            time.Time
	Window          types.TimeWindow
	IntervalMinutes int // 0 means DefaultIntervalMinutes
}

// Result carries the ranked candidates plus the slot accounting callers
// need to distinguish "window was empty" from "every slot failed".
type Result struct {
	Candidates  []types.TimeCandidate `json:"candidates"`
	TotalSlots  int                   `json:"total_slots"`
	FailedSlots int                   `json:"failed_slots"`
}

// ProgressFunc receives the rounded completion percentage after each slot,
// whether the slot produced a candidate or was skipped.
type ProgressFunc func(percent int)

// Engine runs optimal-time searches. It is single-threaded from the
// caller's perspective; every suspension point is an outbound fetch or an
// explicit inter-batch pause.
type Engine struct {
	routes  RouteBuilder
	weather WeatherResolver
	logger  types.Logger
	weights ScoreWeights

	mu     sync.Mutex
	status types.SearchStatus

	sleepFn func(time.Duration) // between weather batches; overridable in tests
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithSleepFunc overrides the inter-batch pause function.
func WithSleepFunc(fn func(time.Duration)) Option {
	return func(e *Engine) { e.sleepFn = fn }
}

// WithScoreWeights overrides the scoring weights.
func WithScoreWeights(w ScoreWeights) Option {
	return func(e *Engine) { e.weights = w }
}

// NewEngine creates a search engine over the given collaborators.
func NewEngine(routes RouteBuilder, weatherResolver WeatherResolver, logger types.Logger, opts ...Option) *Engine {
	e := &Engine{
		routes:  routes,
		weather: weatherResolver,
		logger:  logger,
		weights: DefaultScoreWeights(),
		status:  types.SearchIdle,
		sleepFn: time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Status reports the engine's current lifecycle state.
func (e *Engine) Status() types.SearchStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Engine) setStatus(s types.SearchStatus) {
	e.mu.Lock()
	e.status = s
	e.mu.Unlock()
}

// GenerateSlots emits the candidate departure instants for date within
// window, in increasing time order: every hour from StartHour through
// EndHour, with intra-hour offsets stepped by intervalMinutes — except at
// EndHour, which contributes only its top of the hour.
func GenerateSlots(date time.Time, window types.TimeWindow, intervalMinutes int) []time.Time {
	var slots []time.Time

	for hour := window.StartHour; hour <= window.EndHour; hour++ {
		for minute := 0; minute < 60; minute += intervalMinutes {
			if hour == window.EndHour && minute > 0 {
				break
			}
			slots = append(slots, time.Date(
				date.Year(), date.Month(), date.Day(),
				hour, minute, 0, 0, date.Location(),
			))
		}
	}

	return slots
}

// Search evaluates every slot in the window sequentially and returns the
// candidates sorted descending by score (stable: ties keep slot order).
//
// A slot whose route or weather evaluation fails is logged and skipped;
// its absence is visible in Result.FailedSlots. Cancellation is checked
// between slots: on a done context the candidates produced so far are
// returned alongside the context's error.
func (e *Engine) Search(ctx context.Context, req Request, onProgress ProgressFunc) (*Result, error) {
	interval := req.IntervalMinutes
	if interval == 0 {
		interval = DefaultIntervalMinutes
	}
	if interval < 0 {
		return nil, types.NewAppError(types.ErrCodeValidationInterval,
			"interval must be positive", nil)
	}

	slots := GenerateSlots(req.Date, req.Window, interval)
	result := &Result{
		Candidates: make([]types.TimeCandidate, 0, len(slots)),
		TotalSlots: len(slots),
	}

	e.setStatus(types.SearchRunning)

	for i, slot := range slots {
		if err := ctx.Err(); err != nil {
			e.setStatus(types.SearchAborted)
			return result, err
		}

		candidate, err := e.evaluateSlot(ctx, req, slot)
		if err != nil {
			e.logger.Warn("slot evaluation failed, skipping",
				"departure", slot, "error", err.Error())
			result.FailedSlots++
		} else {
			result.Candidates = append(result.Candidates, *candidate)
		}

		if onProgress != nil {
			onProgress(int(math.Round(100 * float64(i+1) / float64(len(slots)))))
		}
	}

	sort.SliceStable(result.Candidates, func(a, b int) bool {
		return result.Candidates[a].Score > result.Candidates[b].Score
	})

	e.setStatus(types.SearchCompleted)
	return result, nil
}

// evaluateSlot builds and scores the candidate for one departure instant:
// route geometry, segment names, weather in batches of ten, hazard
// classification, score, and summary.
func (e *Engine) evaluateSlot(ctx context.Context, req Request, slot time.Time) (*types.TimeCandidate, error) {
	routeModel, err := e.routes.PlanRoute(ctx, req.Origin, req.Destination, slot)
	if err != nil {
		return nil, err
	}

	e.routes.ResolveSegmentNames(ctx, routeModel.Segments)

	readings := e.fetchWeatherInBatches(ctx, routeModel.Segments)
	trip.AttachWeather(routeModel.Segments, readings)

	hazardCount := 0
	for _, seg := range routeModel.Segments {
		if seg.IsHazardous {
			hazardCount++
		}
	}

	return &types.TimeCandidate{
		DepartureTime:  slot,
		Score:          Score(routeModel.Segments, e.weights),
		WeatherSummary: Summarize(routeModel.Segments),
		HazardCount:    hazardCount,
		Route:          routeModel,
	}, nil
}

// fetchWeatherInBatches resolves one reading per segment, pausing for one
// second after every ten calls. Per-item failures stay nil slots.
func (e *Engine) fetchWeatherInBatches(ctx context.Context, segments []types.RouteSegment) []*types.WeatherReading {
	readings := make([]*types.WeatherReading, 0, len(segments))

	for i, seg := range segments {
		if i > 0 && i%weatherBatchSize == 0 {
			e.sleepFn(interBatchPause)
		}
		readings = append(readings, e.weather.GetWeather(ctx, seg.Location.Coordinates, seg.EstimatedArrivalTime))
	}

	return readings
}

var _ RouteBuilder = (*trip.Service)(nil)
var _ WeatherResolver = (*weather.Client)(nil)
