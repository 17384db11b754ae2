package types

import "time"

// ForecastSeries is the provider-agnostic time series returned by a
// forecast provider for a single coordinate. Entries are in the provider's
// native order, which the weather client relies on for tie-breaking.
type ForecastSeries struct {
	Entries []ForecastEntry
}

// ForecastEntry is one timestamped point of the series: instantaneous
// conditions plus the short-range precipitation blocks the provider
// publishes alongside it.
type ForecastEntry struct {
	Time       time.Time
	Instant    InstantDetails
	Next1Hours *ForecastBlock
	Next6Hours *ForecastBlock
}

// InstantDetails holds the instantaneous conditions of a series entry.
type InstantDetails struct {
	AirTemperature        float64
	WindSpeed             float64
	WindFromDirection     float64
	RelativeHumidity      float64
	CloudAreaFraction     float64
	AirPressureAtSeaLevel float64
}

// ForecastBlock holds the accumulated precipitation and symbol code for a
// short-range horizon (one or six hours ahead of the entry's timestamp).
type ForecastBlock struct {
	PrecipitationAmount float64
	SymbolCode          string
}
