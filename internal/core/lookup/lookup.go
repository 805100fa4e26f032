// Package lookup contains the endpoint adapters over the geospatial web
// API: geocoding, places fallback, distance matrix, time zones, and
// static map URLs. Each adapter consults the response cache before
// spending an outbound call and caches what it fetched.
package lookup

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/geolens/geolens/internal/core/cache"
	"github.com/geolens/geolens/internal/metrics"
	"github.com/geolens/geolens/internal/observability"
)

// cacheGet reads the cache, treating backend failures as a miss so the
// live request path is never blocked by the cache.
func cacheGet(ctx context.Context, c cache.Cache, service, key string) *cache.Entry {
	if c == nil {
		return nil
	}

	entry, err := c.Get(ctx, key)
	if err != nil {
		observability.Logger().Warn("cache read failed, falling through to live call",
			zap.String("service", service),
			zap.Error(err))
		metrics.RecordCacheError(service)
		return nil
	}
	if entry == nil {
		metrics.RecordCacheMiss(service)
		return nil
	}
	metrics.RecordCacheHit(service)
	return entry
}

// cacheSet writes the cache, swallowing backend failures.
func cacheSet(ctx context.Context, c cache.Cache, service, key string, value map[string]any, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		observability.Logger().Warn("cache write failed",
			zap.String("service", service),
			zap.Error(err))
		metrics.RecordCacheError(service)
	}
}

// toMap and fromMap shuttle flattened records through the cache's
// map[string]any payloads via their JSON shapes.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromMap(m map[string]any, out any) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Helpers for picking values out of decoded JSON responses.

func mapValue(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	value, _ := m[key].(map[string]any)
	return value
}

func sliceValue(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	value, _ := m[key].([]any)
	return value
}

func stringValue(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	value, _ := m[key].(string)
	return value
}

func floatValue(m map[string]any, key string) float64 {
	if m == nil {
		return 0
	}
	value, _ := m[key].(float64)
	return value
}

func intValue(m map[string]any, key string) int64 {
	return int64(floatValue(m, key))
}
