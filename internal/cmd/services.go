package cmd

import (
	"context"
	"fmt"

	"github.com/geolens/geolens/internal/config"
	"github.com/geolens/geolens/internal/core/cache"
	"github.com/geolens/geolens/internal/core/gateway"
	"github.com/geolens/geolens/internal/core/lookup"
	"github.com/geolens/geolens/internal/core/store"
	"github.com/geolens/geolens/internal/output"
)

// services bundles the lookup adapters a command needs, plus the
// cleanup for whatever cache backend got opened.
type services struct {
	geocoder  *lookup.Geocoder
	places    *lookup.Places
	distance  *lookup.Distance
	timezone  *lookup.Timezone
	staticMap *lookup.StaticMap

	close func()
}

// openCache constructs the configured response cache backend. A nil
// cache (backend "none") disables caching entirely.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, func(), error) {
	switch cfg.Cache.Backend {
	case "none":
		return nil, func() {}, nil
	case "memory":
		return cache.NewMemory(), func() {}, nil
	case "sqlite":
		s, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// buildServices wires the gateway, cache, and lookup adapters from the
// loaded configuration. noCache forces live lookups regardless of the
// configured backend.
func buildServices(ctx context.Context, noCache bool) (*services, error) {
	cfg := config.Get()

	g, err := gateway.New(cfg.API, cfg.Gateway)
	if err != nil {
		return nil, err
	}

	var (
		responseCache cache.Cache
		closeCache    = func() {}
	)
	if !noCache {
		responseCache, closeCache, err = openCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	version := versionInfo.Version
	return &services{
		geocoder: &lookup.Geocoder{
			Gateway:     g,
			Cache:       responseCache,
			TTL:         cfg.Cache.TTLFor("geocode"),
			ToolVersion: version,
		},
		places: &lookup.Places{
			Gateway:     g,
			Cache:       responseCache,
			TTL:         cfg.Cache.TTLFor("places"),
			ToolVersion: version,
		},
		distance: &lookup.Distance{
			Gateway:     g,
			Cache:       responseCache,
			TTL:         cfg.Cache.TTLFor("distance"),
			ToolVersion: version,
		},
		timezone: &lookup.Timezone{
			Gateway:     g,
			Cache:       responseCache,
			TTL:         cfg.Cache.TTLFor("timezone"),
			ToolVersion: version,
		},
		staticMap: &lookup.StaticMap{
			APIKey:  cfg.API.Key,
			Gateway: g,
		},
		close: closeCache,
	}, nil
}

// formatter resolves the --output flag into a renderer.
func formatter() (output.Formatter, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format), nil
}
