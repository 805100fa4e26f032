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

const placesSource = "places"

// Places recovers locations that plain geocoding misses by running a
// text search and promoting the top candidate through a details fetch.
type Places struct {
	Gateway     *gateway.Gateway
	Cache       cache.Cache
	TTL         time.Duration
	ToolVersion string
	Clock       func() time.Time
}

// TextToLocation resolves a free-text query into a geocode-like record.
func (p *Places) TextToLocation(ctx context.Context, query, countryHint string) (*core.GeocodeResult, error) {
	if p == nil || p.Gateway == nil {
		return nil, errors.New("places service is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}

	requestedAt := p.now()

	params := url.Values{}
	params.Set("query", query)
	if hint := strings.ToUpper(strings.TrimSpace(countryHint)); hint != "" {
		params.Set("region", hint)
	}

	key := cache.Key("place/textsearch/json", params)
	if entry := cacheGet(ctx, p.Cache, placesSource, key); entry != nil {
		result := &core.GeocodeResult{}
		if err := fromMap(entry.Value, result); err == nil {
			result.Provenance = core.Provenance{
				RequestID:      uuid.New().String(),
				RequestedAt:    requestedAt,
				ResolvedAt:     entry.StoredAt,
				Source:         placesSource,
				FromCache:      true,
				CacheExpiresAt: entry.ExpiresAt,
				ToolVersion:    p.ToolVersion,
			}
			return result, nil
		}
	}

	search, err := p.Gateway.Do(ctx, "place/textsearch/json", params)
	if err != nil {
		return nil, err
	}

	candidates := sliceValue(search, "results")
	if len(candidates) == 0 {
		return nil, apperrors.NewNotFound(query)
	}
	top, _ := candidates[0].(map[string]any)
	placeID := stringValue(top, "place_id")
	if placeID == "" {
		return nil, apperrors.NewNotFound(query)
	}

	detailParams := url.Values{}
	detailParams.Set("place_id", placeID)
	detailParams.Set("fields", "formatted_address,geometry,address_component,place_id,type")

	details, err := p.Gateway.Do(ctx, "place/details/json", detailParams)
	if err != nil {
		return nil, err
	}

	result := flattenGeocode(mapValue(details, "result"))
	if result.PlaceID == "" {
		result.PlaceID = placeID
	}
	result.Provenance = core.Provenance{
		RequestID:   uuid.New().String(),
		RequestedAt: requestedAt,
		ResolvedAt:  p.now(),
		Source:      placesSource,
		ToolVersion: p.ToolVersion,
	}

	if payload, err := toMap(result); err == nil {
		cacheSet(ctx, p.Cache, placesSource, key, payload, p.TTL)
	}
	return result, nil
}

func (p *Places) now() time.Time {
	if p != nil && p.Clock != nil {
		return p.Clock()
	}
	return time.Now().UTC()
}
