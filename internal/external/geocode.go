package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"kjorefore/internal/types"
)

// geocodeResponse mirrors the Nominatim reverse-geocoding JSON format.
type geocodeResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// GeocodeClient resolves coordinates to addresses via a Nominatim-shaped
// reverse-geocoding API.
type GeocodeClient struct {
	base    *BaseClient
	baseURL string
}

// NewGeocodeClient creates a reverse-geocoding client rooted at baseURL.
func NewGeocodeClient(base *BaseClient, baseURL string) *GeocodeClient {
	return &GeocodeClient{base: base, baseURL: baseURL}
}

// ReverseGeocode resolves coord to a display name. Failures return an
// error so the caller can apply its own fallback; this client never
// fabricates a name.
func (c *GeocodeClient) ReverseGeocode(ctx context.Context, coord types.Coordinate) (string, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", coord.Lat))
	q.Set("lon", fmt.Sprintf("%f", coord.Lng))
	q.Set("format", "jsonv2")

	endpoint := c.baseURL + "/reverse?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected,
			"building reverse-geocode request", err)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", types.NewAppError(types.ErrCodeUpstreamGeocode,
			fmt.Sprintf("geocode provider returned status %d", resp.StatusCode), nil)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", types.NewAppError(types.ErrCodeUpstreamGeocode,
			"decoding reverse-geocode response", err)
	}
	if body.Error != "" || body.DisplayName == "" {
		return "", types.NewAppError(types.ErrCodeUpstreamGeocode,
			"no address for coordinate", nil)
	}

	return body.DisplayName, nil
}
