package config

import (
	"strings"
	"time"

	apperrors "github.com/geolens/geolens/internal/errors"
)

// Config is the complete application configuration, assembled from
// defaults, an optional YAML config file, and GEOLENS_* environment
// variables (in that order of precedence, lowest first).
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Enrich  EnrichConfig  `mapstructure:"enrich"`
}

// APIConfig identifies the upstream geospatial web API.
type APIConfig struct {
	Key     string `mapstructure:"key"`
	BaseURL string `mapstructure:"base_url"`
}

// GatewayConfig controls outbound call policy.
type GatewayConfig struct {
	QPS        float64       `mapstructure:"qps"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	BackoffMin time.Duration `mapstructure:"backoff_min"`
	BackoffMax time.Duration `mapstructure:"backoff_max"`
}

// CacheConfig selects the response cache backend and TTLs.
type CacheConfig struct {
	// Backend is one of "none", "memory", "sqlite".
	Backend    string        `mapstructure:"backend"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`

	GeocodeTTL  time.Duration `mapstructure:"geocode_ttl"`
	PlacesTTL   time.Duration `mapstructure:"places_ttl"`
	DistanceTTL time.Duration `mapstructure:"distance_ttl"`
	TimezoneTTL time.Duration `mapstructure:"timezone_ttl"`
}

// TTLFor returns the TTL for a lookup service, falling back to the
// default when no override is set.
func (c CacheConfig) TTLFor(service string) time.Duration {
	var ttl time.Duration
	switch service {
	case "geocode":
		ttl = c.GeocodeTTL
	case "places":
		ttl = c.PlacesTTL
	case "distance":
		ttl = c.DistanceTTL
	case "timezone":
		ttl = c.TimezoneTTL
	}
	if ttl == 0 {
		ttl = c.DefaultTTL
	}
	return ttl
}

// StoreConfig locates the durable cache database.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// ServerConfig contains HTTP server settings for serve mode.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig controls the server log level.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// EnrichConfig holds spreadsheet enrichment defaults.
type EnrichConfig struct {
	AddressColumn string `mapstructure:"address_column"`
	CityColumn    string `mapstructure:"city_column"`
	StateColumn   string `mapstructure:"state_column"`
	CountryColumn string `mapstructure:"country_column"`
}

// Validate fails fast on configuration the rest of the system would
// otherwise trip over at call time.
func (c *Config) Validate() error {
	if c.Gateway.QPS <= 0 {
		return apperrors.NewConfig("gateway.qps", "must be a positive number of queries per second")
	}
	switch strings.ToLower(strings.TrimSpace(c.Cache.Backend)) {
	case "", "none", "memory", "sqlite":
	default:
		return apperrors.NewConfig("cache.backend", "must be one of none, memory, sqlite")
	}
	if c.Gateway.MaxRetries < 0 {
		return apperrors.NewConfig("gateway.max_retries", "must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return apperrors.NewConfig("server.port", "must be a valid TCP port")
	}
	return nil
}
