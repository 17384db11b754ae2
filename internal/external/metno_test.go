package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kjorefore/internal/types"
)

func newTestMetNoClient(t *testing.T, serverURL string) *MetNoClient {
	t.Helper()
	base := NewBaseClient(
		&http.Client{Timeout: 5 * time.Second},
		"test-metno",
		RetryPolicy{MaxRetries: 0, MinWait: time.Millisecond, MaxWait: 10 * time.Millisecond},
		"Kjorefore-Test/1.0 (test@example.com)",
		types.ErrCodeUpstreamForecast,
		WithSleepFunc(noopSleep),
	)
	return NewMetNoClient(base, serverURL)
}

const metnoBody = `{
	"properties": {
		"timeseries": [
			{
				"time": "2026-03-14T06:00:00Z",
				"data": {
					"instant": {"details": {
						"air_temperature": -1.5,
						"wind_speed": 4.2,
						"wind_from_direction": 180,
						"relative_humidity": 88,
						"cloud_area_fraction": 75,
						"air_pressure_at_sea_level": 1002.3
					}},
					"next_1_hours": {
						"summary": {"symbol_code": "snow"},
						"details": {"precipitation_amount": 0.8}
					},
					"next_6_hours": {
						"summary": {"symbol_code": "cloudy"},
						"details": {"precipitation_amount": 3.1}
					}
				}
			},
			{
				"time": "2026-03-14T12:00:00Z",
				"data": {
					"instant": {"details": {"air_temperature": 2.0, "wind_speed": 6.0}},
					"next_6_hours": {
						"summary": {"symbol_code": "lightrain"},
						"details": {"precipitation_amount": 1.2}
					}
				}
			}
		]
	}
}`

func TestMetNoForecast_ParsesTimeseries(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(metnoBody))
	}))
	defer server.Close()

	client := newTestMetNoClient(t, server.URL)

	series, err := client.Forecast(context.Background(), types.Coordinate{Lat: 60.391263, Lng: 5.322054})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Coordinates are truncated to four decimals in the query.
	if got := gotQuery["lat"]; len(got) != 1 || got[0] != "60.3913" {
		t.Errorf("expected lat=60.3913, got %v", got)
	}
	if got := gotQuery["lon"]; len(got) != 1 || got[0] != "5.3221" {
		t.Errorf("expected lon=5.3221, got %v", got)
	}

	if len(series.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(series.Entries))
	}

	first := series.Entries[0]
	if !first.Time.Equal(time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected first entry time %v", first.Time)
	}
	if first.Instant.AirTemperature != -1.5 {
		t.Errorf("expected air temperature -1.5, got %v", first.Instant.AirTemperature)
	}
	if first.Next1Hours == nil {
		t.Fatal("expected a next_1_hours block on the first entry")
	}
	if first.Next1Hours.SymbolCode != "snow" || first.Next1Hours.PrecipitationAmount != 0.8 {
		t.Errorf("unexpected next_1_hours block %+v", first.Next1Hours)
	}
	if first.Next6Hours == nil || first.Next6Hours.PrecipitationAmount != 3.1 {
		t.Errorf("unexpected next_6_hours block %+v", first.Next6Hours)
	}

	second := series.Entries[1]
	if second.Next1Hours != nil {
		t.Error("expected no next_1_hours block on the second entry")
	}
	if second.Next6Hours == nil || second.Next6Hours.SymbolCode != "lightrain" {
		t.Errorf("unexpected next_6_hours block %+v", second.Next6Hours)
	}
}

func TestMetNoForecast_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestMetNoClient(t, server.URL)

	_, err := client.Forecast(context.Background(), types.Coordinate{Lat: 60.39, Lng: 5.32})

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != types.ErrCodeUpstreamForecast {
		t.Errorf("expected code %s, got %s", types.ErrCodeUpstreamForecast, appErr.Code)
	}
}

func TestMetNoForecast_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"properties": {`))
	}))
	defer server.Close()

	client := newTestMetNoClient(t, server.URL)

	_, err := client.Forecast(context.Background(), types.Coordinate{Lat: 60.39, Lng: 5.32})

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != types.ErrCodeUpstreamForecast {
		t.Errorf("expected code %s, got %s", types.ErrCodeUpstreamForecast, appErr.Code)
	}
}
