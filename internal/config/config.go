// Package config defines the global configuration structure for the Kjørefore
// service. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes the application to fail
// immediately on startup.
package config

import (
	"fmt"
	"time"

	"kjorefore/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used throughout configuration to prevent accidental logging of sensitive
// values.
type SecretString = types.SecretString

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified. Sub-components receive only the
// specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"kjorefore"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server    ServerConfig
	Database  DatabaseConfig
	Providers ProviderConfig
	Weather   WeatherConfig
	Search    SearchConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds the optional Postgres cache backend. When URL is
// empty the service runs with the in-memory weather cache instead.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL"`

	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	AcquireTimeout  time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"2s"`
}

// ProviderConfig holds the upstream API endpoints and identification. The
// forecast upstream requires a descriptive User-Agent built from AppName,
// AppVersion and ContactEmail; anonymous clients are rejected.
type ProviderConfig struct {
	DirectionsBaseURL string       `envconfig:"DIRECTIONS_BASE_URL" default:"https://maps.googleapis.com"`
	DirectionsAPIKey  SecretString `envconfig:"DIRECTIONS_API_KEY"`
	ForecastBaseURL   string       `envconfig:"FORECAST_BASE_URL" default:"https://api.met.no"`
	GeocodeBaseURL    string       `envconfig:"GEOCODE_BASE_URL" default:"https://nominatim.openstreetmap.org"`

	AppName      string `envconfig:"APP_NAME" default:"kjorefore"`
	AppVersion   string `envconfig:"APP_VERSION" default:"1.0"`
	ContactEmail string `envconfig:"CONTACT_EMAIL" validate:"omitempty,email"`

	Timeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`
}

// UserAgent builds the identifying User-Agent string sent to upstreams.
func (p ProviderConfig) UserAgent() string {
	ua := fmt.Sprintf("%s/%s", p.AppName, p.AppVersion)
	if p.ContactEmail != "" {
		ua = fmt.Sprintf("%s (%s)", ua, p.ContactEmail)
	}
	return ua
}

// WeatherConfig tunes the forecast cache.
type WeatherConfig struct {
	CacheTTL      time.Duration `envconfig:"WEATHER_CACHE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"WEATHER_SWEEP_INTERVAL" default:"10m"`
}

// SearchConfig tunes the optimal-time search engine.
type SearchConfig struct {
	IntervalMinutes int `envconfig:"SEARCH_INTERVAL_MINUTES" default:"60" validate:"min=1,max=60"`
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
