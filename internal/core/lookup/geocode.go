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

const geocodeSource = "geocode"

// Geocoder resolves addresses and city/state/country triples into
// canonical address data and coordinates.
type Geocoder struct {
	Gateway     *gateway.Gateway
	Cache       cache.Cache
	TTL         time.Duration
	ToolVersion string
	Clock       func() time.Time
}

// Freeform geocodes a free-form address string, optionally biased by an
// ISO-3166 alpha-2 country code.
func (g *Geocoder) Freeform(ctx context.Context, address, countryHint string) (*core.GeocodeResult, error) {
	if g == nil || g.Gateway == nil {
		return nil, errors.New("geocoder is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.New("address is required")
	}

	requestedAt := g.now()

	params := url.Values{}
	params.Set("address", address)
	if hint := strings.ToUpper(strings.TrimSpace(countryHint)); hint != "" {
		params.Set("components", "country:"+hint)
	}

	key := cache.Key("geocode/json", params)
	if entry := cacheGet(ctx, g.Cache, geocodeSource, key); entry != nil {
		result := &core.GeocodeResult{}
		if err := fromMap(entry.Value, result); err == nil {
			result.Provenance = core.Provenance{
				RequestID:      uuid.New().String(),
				RequestedAt:    requestedAt,
				ResolvedAt:     entry.StoredAt,
				Source:         geocodeSource,
				FromCache:      true,
				CacheExpiresAt: entry.ExpiresAt,
				ToolVersion:    g.ToolVersion,
			}
			return result, nil
		}
		// Undecodable cache payloads fall through to the live call.
	}

	data, err := g.Gateway.Do(ctx, "geocode/json", params)
	if err != nil {
		return nil, err
	}

	results := sliceValue(data, "results")
	if stringValue(data, "status") != "OK" || len(results) == 0 {
		return nil, apperrors.NewNotFound(address)
	}

	first, _ := results[0].(map[string]any)
	result := flattenGeocode(first)
	result.Provenance = core.Provenance{
		RequestID:   uuid.New().String(),
		RequestedAt: requestedAt,
		ResolvedAt:  g.now(),
		Source:      geocodeSource,
		ToolVersion: g.ToolVersion,
	}

	if payload, err := toMap(result); err == nil {
		cacheSet(ctx, g.Cache, geocodeSource, key, payload, g.TTL)
	}
	return result, nil
}

// CityStateCountry geocodes a structured (city, optional state/region,
// country) triple. Short country values (ISO-2/3 codes) double as the
// bias hint.
func (g *Geocoder) CityStateCountry(ctx context.Context, city, state, country string) (*core.GeocodeResult, error) {
	parts := make([]string, 0, 3)
	for _, part := range []string{city, state, country} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return nil, errors.New("at least one of city, state, country is required")
	}

	query := strings.Join(parts, ", ")

	hint := ""
	if trimmed := strings.TrimSpace(country); trimmed != "" && len(trimmed) <= 3 {
		hint = strings.ToUpper(trimmed)
	}
	return g.Freeform(ctx, query, hint)
}

func (g *Geocoder) now() time.Time {
	if g != nil && g.Clock != nil {
		return g.Clock()
	}
	return time.Now().UTC()
}

// flattenGeocode reduces one geocode API result into the compact,
// row-friendly record the rest of the system works with.
func flattenGeocode(result map[string]any) *core.GeocodeResult {
	location := mapValue(mapValue(result, "geometry"), "location")
	components := sliceValue(result, "address_components")

	out := &core.GeocodeResult{
		FormattedAddress: stringValue(result, "formatted_address"),
		Lat:              floatValue(location, "lat"),
		Lng:              floatValue(location, "lng"),
		PlaceID:          stringValue(result, "place_id"),
		Types:            joinTypes(sliceValue(result, "types")),
		CountryCode:      componentName(components, "country", false),
		CountryName:      componentName(components, "country", true),
		AdminLevel1:      componentName(components, "administrative_area_level_1", false),
		AdminLevel2:      componentName(components, "administrative_area_level_2", false),
		PostalCode:       componentName(components, "postal_code", false),
	}

	out.Locality = componentName(components, "locality", false)
	if out.Locality == "" {
		out.Locality = componentName(components, "postal_town", false)
	}
	return out
}

// componentName finds the first address component carrying the given
// type and returns its short or long name.
func componentName(components []any, kind string, wantLong bool) string {
	for _, raw := range components {
		component, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for _, t := range sliceValue(component, "types") {
			if name, ok := t.(string); ok && name == kind {
				if wantLong {
					return stringValue(component, "long_name")
				}
				return stringValue(component, "short_name")
			}
		}
	}
	return ""
}

func joinTypes(types []any) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		if name, ok := t.(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}
