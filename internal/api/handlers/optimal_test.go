package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kjorefore/internal/core"
	"kjorefore/internal/search"
	"kjorefore/internal/types"
)

// --- Mock Engine ---

type mockSearchEngine struct {
	result *search.Result
	err    error

	capturedReq    search.Request
	progressCalled bool
}

func (m *mockSearchEngine) Search(_ context.Context, req search.Request, onProgress search.ProgressFunc) (*search.Result, error) {
	m.capturedReq = req
	if onProgress != nil {
		onProgress(100)
		m.progressCalled = true
	}
	return m.result, m.err
}

// --- Helpers ---

func newTestOptimalHandler(engine SearchEngineInterface) *OptimalTimeHandler {
	logger := slog.Default()
	return NewOptimalTimeHandler(engine, core.NewValidator(logger), logger)
}

func makeOptimalRouter(h *OptimalTimeHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/v1", h.RegisterRoutes)
	return r
}

// --- HandleSearch Tests ---

func TestHandleSearch_Success(t *testing.T) {
	departure := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	engine := &mockSearchEngine{
		result: &search.Result{
			Candidates: []types.TimeCandidate{
				{DepartureTime: departure, Score: 92},
				{DepartureTime: departure.Add(time.Hour), Score: 78},
			},
			TotalSlots:  3,
			FailedSlots: 1,
		},
	}

	router := makeOptimalRouter(newTestOptimalHandler(engine))

	rec := postJSON(t, router, "/v1/optimal-times", `{
		"origin": {"lat": 59.9139, "lng": 10.7522},
		"destination": {"lat": 60.3913, "lng": 5.3221},
		"date": "2026-03-14T00:00:00Z",
		"start_hour": 6,
		"end_hour": 8
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, 6, engine.capturedReq.Window.StartHour)
	assert.Equal(t, 8, engine.capturedReq.Window.EndHour)
	assert.Equal(t, 0, engine.capturedReq.IntervalMinutes, "absent interval passes through as zero for the engine default")
	assert.True(t, engine.progressCalled)

	var resp struct {
		Data search.Result `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data.Candidates, 2)
	assert.Equal(t, 92, resp.Data.Candidates[0].Score)
	assert.Equal(t, 3, resp.Data.TotalSlots)
	assert.Equal(t, 1, resp.Data.FailedSlots)
}

func TestHandleSearch_CustomInterval(t *testing.T) {
	engine := &mockSearchEngine{result: &search.Result{}}
	router := makeOptimalRouter(newTestOptimalHandler(engine))

	rec := postJSON(t, router, "/v1/optimal-times", `{
		"origin": {"lat": 59.9139, "lng": 10.7522},
		"destination": {"lat": 60.3913, "lng": 5.3221},
		"date": "2026-03-14T00:00:00Z",
		"start_hour": 6,
		"end_hour": 8,
		"interval_minutes": 30
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, engine.capturedReq.IntervalMinutes)
}

func TestHandleSearch_InvertedWindow(t *testing.T) {
	engine := &mockSearchEngine{result: &search.Result{}}
	router := makeOptimalRouter(newTestOptimalHandler(engine))

	rec := postJSON(t, router, "/v1/optimal-times", `{
		"origin": {"lat": 59.9139, "lng": 10.7522},
		"destination": {"lat": 60.3913, "lng": 5.3221},
		"date": "2026-03-14T00:00:00Z",
		"start_hour": 10,
		"end_hour": 6
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp core.APIErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, string(types.ErrCodeValidationTimeWindow), errResp.Error.Code)
	assert.Equal(t, search.Request{}, engine.capturedReq, "engine must not be called for an invalid window")
}

func TestHandleSearch_MissingDate(t *testing.T) {
	engine := &mockSearchEngine{result: &search.Result{}}
	router := makeOptimalRouter(newTestOptimalHandler(engine))

	rec := postJSON(t, router, "/v1/optimal-times", `{
		"origin": {"lat": 59.9139, "lng": 10.7522},
		"destination": {"lat": 60.3913, "lng": 5.3221},
		"start_hour": 6,
		"end_hour": 8
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp core.APIErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, string(types.ErrCodeValidationInvalidRequest), errResp.Error.Code)
}

func TestHandleSearch_IntervalTooLarge(t *testing.T) {
	engine := &mockSearchEngine{result: &search.Result{}}
	router := makeOptimalRouter(newTestOptimalHandler(engine))

	rec := postJSON(t, router, "/v1/optimal-times", `{
		"origin": {"lat": 59.9139, "lng": 10.7522},
		"destination": {"lat": 60.3913, "lng": 5.3221},
		"date": "2026-03-14T00:00:00Z",
		"start_hour": 6,
		"end_hour": 8,
		"interval_minutes": 90
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSearch_EngineError(t *testing.T) {
	engine := &mockSearchEngine{
		err: types.NewAppError(types.ErrCodeUpstreamDirections, "provider down", nil),
	}
	router := makeOptimalRouter(newTestOptimalHandler(engine))

	rec := postJSON(t, router, "/v1/optimal-times", `{
		"origin": {"lat": 59.9139, "lng": 10.7522},
		"destination": {"lat": 60.3913, "lng": 5.3221},
		"date": "2026-03-14T00:00:00Z",
		"start_hour": 6,
		"end_hour": 8
	}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
}
