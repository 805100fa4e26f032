package lookup

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/geolens/geolens/internal/core"
	"github.com/geolens/geolens/internal/core/cache"
	"github.com/geolens/geolens/internal/core/gateway"
	apperrors "github.com/geolens/geolens/internal/errors"
)

const distanceSource = "distance"

// Distance wraps the distance matrix endpoint for single
// origin/destination pairs.
type Distance struct {
	Gateway     *gateway.Gateway
	Cache       cache.Cache
	TTL         time.Duration
	ToolVersion string
	Clock       func() time.Time
}

// Summary returns the compact distance/duration record for one pair.
// Origin and destination accept free-form addresses or "lat,lng" strings
// (use core.Coordinate.String for coordinates).
func (d *Distance) Summary(ctx context.Context, origin, destination string, mode core.TravelMode) (*core.DistanceSummary, error) {
	if d == nil || d.Gateway == nil {
		return nil, errors.New("distance service is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, errors.New("origin and destination are required")
	}
	if mode == "" {
		mode = core.TravelModeDriving
	}

	requestedAt := d.now()

	params := url.Values{}
	params.Set("origins", origin)
	params.Set("destinations", destination)
	params.Set("mode", string(mode))

	key := cache.Key("distancematrix/json", params)
	if entry := cacheGet(ctx, d.Cache, distanceSource, key); entry != nil {
		result := &core.DistanceSummary{}
		if err := fromMap(entry.Value, result); err == nil {
			result.Provenance = core.Provenance{
				RequestID:      uuid.New().String(),
				RequestedAt:    requestedAt,
				ResolvedAt:     entry.StoredAt,
				Source:         distanceSource,
				FromCache:      true,
				CacheExpiresAt: entry.ExpiresAt,
				ToolVersion:    d.ToolVersion,
			}
			return result, nil
		}
	}

	data, err := d.Gateway.Do(ctx, "distancematrix/json", params)
	if err != nil {
		return nil, err
	}

	element := firstElement(data)
	if element == nil || stringValue(element, "status") == "ZERO_RESULTS" {
		return nil, apperrors.NewNotFound(origin + " -> " + destination)
	}

	dist := mapValue(element, "distance")
	dur := mapValue(element, "duration")
	result := &core.DistanceSummary{
		Origin:          origin,
		Destination:     destination,
		Mode:            mode,
		DistanceText:    stringValue(dist, "text"),
		DistanceMeters:  intValue(dist, "value"),
		DurationText:    stringValue(dur, "text"),
		DurationSeconds: intValue(dur, "value"),
		Provenance: core.Provenance{
			RequestID:   uuid.New().String(),
			RequestedAt: requestedAt,
			ResolvedAt:  d.now(),
			Source:      distanceSource,
			ToolVersion: d.ToolVersion,
		},
	}

	if payload, err := toMap(result); err == nil {
		cacheSet(ctx, d.Cache, distanceSource, key, payload, d.TTL)
	}
	return result, nil
}

func (d *Distance) now() time.Time {
	if d != nil && d.Clock != nil {
		return d.Clock()
	}
	return time.Now().UTC()
}

// firstElement digs rows[0].elements[0] out of a distance matrix
// response, tolerating missing pieces.
func firstElement(data map[string]any) map[string]any {
	rows := sliceValue(data, "rows")
	if len(rows) == 0 {
		return nil
	}
	row, _ := rows[0].(map[string]any)
	elements := sliceValue(row, "elements")
	if len(elements) == 0 {
		return nil
	}
	element, _ := elements[0].(map[string]any)
	return element
}
