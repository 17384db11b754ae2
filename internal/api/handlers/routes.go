// Package handlers contains the HTTP handler implementations for the
// Kjørefore API:
//   - Route weather retrieval (POST /v1/routes/weather)
//   - Optimal departure-time search (POST /v1/optimal-times)
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kjorefore/internal/core"
	"kjorefore/internal/types"
)

// RouteServiceInterface defines the service contract for the route handler.
// Defined locally to avoid tight coupling to the trip package.
type RouteServiceInterface interface {
	BuildWeatherRoute(ctx context.Context, origin, destination types.Location, departure time.Time) (*types.RouteModel, error)
}

// RouteHandler maps HTTP requests to the trip service.
type RouteHandler struct {
	service   RouteServiceInterface
	validator *core.Validator
	logger    *slog.Logger
}

// NewRouteHandler creates a RouteHandler with the provided dependencies.
func NewRouteHandler(svc RouteServiceInterface, val *core.Validator, logger *slog.Logger) *RouteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteHandler{
		service:   svc,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the route endpoints onto the mux.
func (h *RouteHandler) RegisterRoutes(r chi.Router) {
	r.Post("/routes/weather", h.HandleWeatherRoute)
}

// coordinatePayload is the wire form of a geographic point.
type coordinatePayload struct {
	Lat float64 `json:"lat" validate:"lat"`
	Lng float64 `json:"lng" validate:"lng"`
}

func (p coordinatePayload) toLocation() types.Location {
	return types.Location{
		Coordinates: types.Coordinate{Lat: p.Lat, Lng: p.Lng},
	}
}

// weatherRouteRequest is the body of POST /v1/routes/weather.
type weatherRouteRequest struct {
	Origin        coordinatePayload `json:"origin" validate:"required"`
	Destination   coordinatePayload `json:"destination" validate:"required"`
	DepartureTime time.Time         `json:"departure_time"`
}

// HandleWeatherRoute handles POST /v1/routes/weather:
//  1. Decode and validate the request body.
//  2. Build the route with weather annotations via the trip service.
//  3. Return the annotated route model.
func (h *RouteHandler) HandleWeatherRoute(w http.ResponseWriter, r *http.Request) {
	var req weatherRouteRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	departure := req.DepartureTime
	if departure.IsZero() {
		departure = time.Now().UTC()
	}

	route, err := h.service.BuildWeatherRoute(r.Context(),
		req.Origin.toLocation(), req.Destination.toLocation(), departure)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: route})
}
