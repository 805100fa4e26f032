// Package config provides centralized configuration management.
// Precedence, lowest first: built-in defaults, a YAML config file
// (--config flag, $XDG_CONFIG_HOME/geolens/config.yaml, or ./geolens.yaml),
// then GEOLENS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var (
	appConfig *Config
	configMu  sync.RWMutex
)

const envPrefix = "GEOLENS"

// Load reads configuration and stores it for later Get calls. It is safe
// to call more than once; the last successful load wins.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "geolens"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Running on defaults and environment alone is fine.
	}

	cfg := &Config{}
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configMu.Lock()
	appConfig = cfg
	configMu.Unlock()

	return cfg, nil
}

// Get returns the last loaded configuration, or nil before Load.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	// Every key needs a default registered so AutomaticEnv-provided
	// values survive Unmarshal.
	v.SetDefault("api.key", "")
	v.SetDefault("api.base_url", "https://maps.googleapis.com/maps/api")

	v.SetDefault("gateway.qps", 5.0)
	v.SetDefault("gateway.timeout", 15*time.Second)
	v.SetDefault("gateway.max_retries", 5)
	v.SetDefault("gateway.backoff_min", time.Second)
	v.SetDefault("gateway.backoff_max", 30*time.Second)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.default_ttl", time.Hour)
	v.SetDefault("cache.timezone_ttl", 24*time.Hour)

	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("store.url", "")
	v.SetDefault("store.auth_token", "")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")

	v.SetDefault("enrich.address_column", "Address")
	v.SetDefault("enrich.city_column", "City")
	v.SetDefault("enrich.state_column", "State")
	v.SetDefault("enrich.country_column", "Country")
}

func defaultStorePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "geolens_cache.db"
	}
	return filepath.Join(dir, "geolens", "cache.db")
}
