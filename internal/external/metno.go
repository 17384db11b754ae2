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

// metnoResponse mirrors the locationforecast compact JSON format: a
// GeoJSON-ish envelope whose properties carry the time series.
type metnoResponse struct {
	Properties struct {
		Timeseries []metnoEntry `json:"timeseries"`
	} `json:"properties"`
}

type metnoEntry struct {
	Time time.Time `json:"time"`
	Data struct {
		Instant struct {
			Details metnoInstant `json:"details"`
		} `json:"instant"`
		Next1Hours *metnoBlock `json:"next_1_hours"`
		Next6Hours *metnoBlock `json:"next_6_hours"`
	} `json:"data"`
}

type metnoInstant struct {
	AirTemperature        float64 `json:"air_temperature"`
	WindSpeed             float64 `json:"wind_speed"`
	WindFromDirection     float64 `json:"wind_from_direction"`
	RelativeHumidity      float64 `json:"relative_humidity"`
	CloudAreaFraction     float64 `json:"cloud_area_fraction"`
	AirPressureAtSeaLevel float64 `json:"air_pressure_at_sea_level"`
}

type metnoBlock struct {
	Summary struct {
		SymbolCode string `json:"symbol_code"`
	} `json:"summary"`
	Details struct {
		PrecipitationAmount float64 `json:"precipitation_amount"`
	} `json:"details"`
}

// MetNoClient fetches forecast time series from a MET.no
// locationforecast-shaped API. The provider's terms require a client
// identifier (name/version/contact) on every request; the BaseClient's
// user agent carries it.
type MetNoClient struct {
	base    *BaseClient
	baseURL string
}

// NewMetNoClient creates a forecast client rooted at baseURL.
func NewMetNoClient(base *BaseClient, baseURL string) *MetNoClient {
	return &MetNoClient{base: base, baseURL: baseURL}
}

// Forecast fetches the compact forecast series for coord. Coordinates are
// truncated to four decimals in the query per provider etiquette, which
// also improves upstream cache hit rates.
func (c *MetNoClient) Forecast(ctx context.Context, coord types.Coordinate) (*types.ForecastSeries, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", coord.Lat))
	q.Set("lon", fmt.Sprintf("%.4f", coord.Lng))

	endpoint := c.baseURL + "/weatherapi/locationforecast/2.0/compact?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"building forecast request", err)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAppError(types.ErrCodeUpstreamForecast,
			fmt.Sprintf("forecast provider returned status %d", resp.StatusCode), nil)
	}

	var body metnoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamForecast,
			"decoding forecast response", err)
	}

	series := &types.ForecastSeries{
		Entries: make([]types.ForecastEntry, 0, len(body.Properties.Timeseries)),
	}
	for _, e := range body.Properties.Timeseries {
		entry := types.ForecastEntry{
			Time: e.Time,
			Instant: types.InstantDetails{
				AirTemperature:        e.Data.Instant.Details.AirTemperature,
				WindSpeed:             e.Data.Instant.Details.WindSpeed,
				WindFromDirection:     e.Data.Instant.Details.WindFromDirection,
				RelativeHumidity:      e.Data.Instant.Details.RelativeHumidity,
				CloudAreaFraction:     e.Data.Instant.Details.CloudAreaFraction,
				AirPressureAtSeaLevel: e.Data.Instant.Details.AirPressureAtSeaLevel,
			},
		}
		if e.Data.Next1Hours != nil {
			entry.Next1Hours = &types.ForecastBlock{
				PrecipitationAmount: e.Data.Next1Hours.Details.PrecipitationAmount,
				SymbolCode:          e.Data.Next1Hours.Summary.SymbolCode,
			}
		}
		if e.Data.Next6Hours != nil {
			entry.Next6Hours = &types.ForecastBlock{
				PrecipitationAmount: e.Data.Next6Hours.Details.PrecipitationAmount,
				SymbolCode:          e.Data.Next6Hours.Summary.SymbolCode,
			}
		}
		series.Entries = append(series.Entries, entry)
	}

	return series, nil
}
