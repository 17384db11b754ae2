package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kjorefore/internal/core"
	"kjorefore/internal/search"
	"kjorefore/internal/types"
)

// SearchEngineInterface defines the contract for the optimal-time handler.
type SearchEngineInterface interface {
	Search(ctx context.Context, req search.Request, onProgress search.ProgressFunc) (*search.Result, error)
}

// OptimalTimeHandler maps HTTP requests to the search engine.
type OptimalTimeHandler struct {
	engine    SearchEngineInterface
	validator *core.Validator
	logger    *slog.Logger
}

// NewOptimalTimeHandler creates an OptimalTimeHandler.
func NewOptimalTimeHandler(engine SearchEngineInterface, val *core.Validator, logger *slog.Logger) *OptimalTimeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OptimalTimeHandler{
		engine:    engine,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the optimal-time endpoints onto the mux.
func (h *OptimalTimeHandler) RegisterRoutes(r chi.Router) {
	r.Post("/optimal-times", h.HandleSearch)
}

// optimalTimeRequest is the body of POST /v1/optimal-times. Date names the
// day to search (its clock time is ignored); the window bounds are whole
// hours on that day.
type optimalTimeRequest struct {
	Origin          coordinatePayload `json:"origin" validate:"required"`
	Destination     coordinatePayload `json:"destination" validate:"required"`
	Date            time.Time         `json:"date" validate:"required"`
	StartHour       int               `json:"start_hour" validate:"min=0,max=23"`
	EndHour         int               `json:"end_hour" validate:"min=0,max=23"`
	IntervalMinutes int               `json:"interval_minutes" validate:"omitempty,min=1,max=60"`
}

// HandleSearch handles POST /v1/optimal-times:
//  1. Decode and validate the request body.
//  2. Run the slot search; log progress server-side.
//  3. Return the ranked candidates with slot accounting so callers can
//     tell an empty window apart from an all-slots-failed run.
func (h *OptimalTimeHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req optimalTimeRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}
	if req.EndHour < req.StartHour {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationTimeWindow,
			"end_hour must not be before start_hour",
			nil,
		))
		return
	}

	result, err := h.engine.Search(r.Context(), search.Request{
		Origin:          req.Origin.toLocation(),
		Destination:     req.Destination.toLocation(),
		Date:            req.Date,
		Window:          types.TimeWindow{StartHour: req.StartHour, EndHour: req.EndHour},
		IntervalMinutes: req.IntervalMinutes,
	}, func(percent int) {
		h.logger.Debug("search progress",
			slog.Int("percent", percent),
			slog.String("request_id", types.GetRequestID(r.Context())),
		)
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}
