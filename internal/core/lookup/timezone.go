package lookup

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/geolens/geolens/internal/core"
	"github.com/geolens/geolens/internal/core/cache"
	"github.com/geolens/geolens/internal/core/gateway"
	apperrors "github.com/geolens/geolens/internal/errors"
)

const timezoneSource = "timezone"

// Timezone wraps the time zone endpoint for coordinate lookups.
type Timezone struct {
	Gateway     *gateway.Gateway
	Cache       cache.Cache
	TTL         time.Duration
	ToolVersion string
	Clock       func() time.Time
}

// Lookup fetches the IANA time zone covering a coordinate. The reference
// timestamp is bucketed to the hour so repeated lookups share a cache
// key; a zero instant means "now".
func (t *Timezone) Lookup(ctx context.Context, coord core.Coordinate, at time.Time) (*core.TimezoneResult, error) {
	if t == nil || t.Gateway == nil {
		return nil, errors.New("timezone service is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	requestedAt := t.now()
	if at.IsZero() {
		at = requestedAt
	}
	stamp := at.UTC().Truncate(time.Hour)

	params := url.Values{}
	params.Set("location", coord.String())
	params.Set("timestamp", strconv.FormatInt(stamp.Unix(), 10))

	key := cache.Key("timezone/json", params)
	if entry := cacheGet(ctx, t.Cache, timezoneSource, key); entry != nil {
		result := &core.TimezoneResult{}
		if err := fromMap(entry.Value, result); err == nil {
			result.Provenance = core.Provenance{
				RequestID:      uuid.New().String(),
				RequestedAt:    requestedAt,
				ResolvedAt:     entry.StoredAt,
				Source:         timezoneSource,
				FromCache:      true,
				CacheExpiresAt: entry.ExpiresAt,
				ToolVersion:    t.ToolVersion,
			}
			return result, nil
		}
	}

	data, err := t.Gateway.Do(ctx, "timezone/json", params)
	if err != nil {
		return nil, err
	}

	zoneID := stringValue(data, "timeZoneId")
	if stringValue(data, "status") != "OK" || zoneID == "" {
		return nil, apperrors.NewNotFound(coord.String())
	}

	result := &core.TimezoneResult{
		Coordinate: coord,
		ZoneID:     zoneID,
		ZoneName:   stringValue(data, "timeZoneName"),
		RawOffset:  intValue(data, "rawOffset"),
		DSTOffset:  intValue(data, "dstOffset"),
		Provenance: core.Provenance{
			RequestID:   uuid.New().String(),
			RequestedAt: requestedAt,
			ResolvedAt:  t.now(),
			Source:      timezoneSource,
			ToolVersion: t.ToolVersion,
		},
	}

	if payload, err := toMap(result); err == nil {
		cacheSet(ctx, t.Cache, timezoneSource, key, payload, t.TTL)
	}
	return result, nil
}

func (t *Timezone) now() time.Time {
	if t != nil && t.Clock != nil {
		return t.Clock()
	}
	return time.Now().UTC()
}
