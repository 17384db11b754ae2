package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"kjorefore/internal/types"
)

// directionsStatusOK is the only provider status that carries a usable route.
const directionsStatusOK = "OK"

// directionsResponse mirrors the directions provider's JSON wire format.
type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Bounds struct {
			Northeast wireLatLng `json:"northeast"`
			Southwest wireLatLng `json:"southwest"`
		} `json:"bounds"`
		Legs []struct {
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"`
			} `json:"duration"`
			StartAddress  string     `json:"start_address"`
			EndAddress    string     `json:"end_address"`
			StartLocation wireLatLng `json:"start_location"`
			EndLocation   wireLatLng `json:"end_location"`
		} `json:"legs"`
	} `json:"routes"`
}

type wireLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (w wireLatLng) coordinate() types.Coordinate {
	return types.Coordinate{Lat: w.Lat, Lng: w.Lng}
}

// DirectionsClient talks to a Google Directions-shaped routing API.
type DirectionsClient struct {
	base    *BaseClient
	baseURL string
	apiKey  types.SecretString
}

// NewDirectionsClient creates a directions client rooted at baseURL.
func NewDirectionsClient(base *BaseClient, baseURL string, apiKey types.SecretString) *DirectionsClient {
	return &DirectionsClient{
		base:    base,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Route fetches the driving route between origin and destination for the
// given departure instant. A ZERO_RESULTS status maps to not_found_route;
// any other non-OK status maps to upstream_directions_unavailable. Both
// are recoverable and scoped to this query.
func (c *DirectionsClient) Route(ctx context.Context, origin, destination types.Coordinate, departure time.Time) (*DirectionsResult, error) {
	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	q.Set("destination", fmt.Sprintf("%f,%f", destination.Lat, destination.Lng))
	q.Set("departure_time", fmt.Sprintf("%d", departure.Unix()))
	if c.apiKey != "" {
		q.Set("key", c.apiKey.Unmask())
	}

	endpoint := c.baseURL + "/maps/api/directions/json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"building directions request", err)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamDirections,
			"decoding directions response", err)
	}

	if body.Status != directionsStatusOK || len(body.Routes) == 0 {
		if body.Status == "ZERO_RESULTS" {
			return nil, types.NewAppError(types.ErrCodeNotFoundRoute,
				"no route between origin and destination", nil)
		}
		return nil, types.NewAppError(types.ErrCodeUpstreamDirections,
			fmt.Sprintf("directions provider returned status %q", body.Status), nil)
	}

	r := body.Routes[0]
	if len(r.Legs) == 0 {
		return nil, types.NewAppError(types.ErrCodeUpstreamDirections,
			"directions route has no legs", nil)
	}
	leg := r.Legs[0]

	return &DirectionsResult{
		EncodedPolyline: r.OverviewPolyline.Points,
		DistanceMeters:  leg.Distance.Value,
		DurationSeconds: leg.Duration.Value,
		StartAddress:    leg.StartAddress,
		EndAddress:      leg.EndAddress,
		StartLocation:   leg.StartLocation.coordinate(),
		EndLocation:     leg.EndLocation.coordinate(),
		Bounds: types.Bounds{
			Northeast: r.Bounds.Northeast.coordinate(),
			Southwest: r.Bounds.Southwest.coordinate(),
		},
	}, nil
}
