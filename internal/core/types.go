package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TravelMode identifies a distance matrix travel mode.
type TravelMode string

const (
	TravelModeDriving   TravelMode = "driving"
	TravelModeWalking   TravelMode = "walking"
	TravelModeBicycling TravelMode = "bicycling"
	TravelModeTransit   TravelMode = "transit"
)

// ParseTravelMode validates and normalizes a travel mode string.
// An empty value defaults to driving.
func ParseTravelMode(value string) (TravelMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(TravelModeDriving):
		return TravelModeDriving, nil
	case string(TravelModeWalking):
		return TravelModeWalking, nil
	case string(TravelModeBicycling):
		return TravelModeBicycling, nil
	case string(TravelModeTransit):
		return TravelModeTransit, nil
	default:
		return "", fmt.Errorf("unsupported travel mode: %s", value)
	}
}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String renders the coordinate in the "lat,lng" form the web API expects.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// ParseCoordinate parses a "lat,lng" string.
func ParseCoordinate(value string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: want \"lat,lng\"", value)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude %q: %w", parts[0], err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude %q: %w", parts[1], err)
	}
	if lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinate{}, fmt.Errorf("longitude %v out of range", lng)
	}
	return Coordinate{Lat: lat, Lng: lng}, nil
}

// Provenance captures metadata about how a lookup was resolved.
type Provenance struct {
	RequestID      string     `json:"request_id,omitempty"`
	RequestedAt    time.Time  `json:"requested_at"`
	ResolvedAt     time.Time  `json:"resolved_at"`
	Source         string     `json:"source"`
	FromCache      bool       `json:"from_cache"`
	CacheExpiresAt *time.Time `json:"cache_expires_at,omitempty"`
	ToolVersion    string     `json:"tool_version,omitempty"`
}

// GeocodeResult is the flattened, row-friendly shape of one geocode match.
type GeocodeResult struct {
	FormattedAddress string     `json:"formatted_address"`
	Lat              float64    `json:"lat"`
	Lng              float64    `json:"lng"`
	PlaceID          string     `json:"place_id"`
	Types            string     `json:"types,omitempty"`
	CountryCode      string     `json:"country_code,omitempty"`
	CountryName      string     `json:"country_name,omitempty"`
	AdminLevel1      string     `json:"admin_level_1,omitempty"`
	AdminLevel2      string     `json:"admin_level_2,omitempty"`
	Locality         string     `json:"locality,omitempty"`
	PostalCode       string     `json:"postal_code,omitempty"`
	Provenance       Provenance `json:"provenance"`
}

// Location returns the result's coordinate.
func (g *GeocodeResult) Location() Coordinate {
	if g == nil {
		return Coordinate{}
	}
	return Coordinate{Lat: g.Lat, Lng: g.Lng}
}

// DistanceSummary is the compact shape of one distance matrix element.
type DistanceSummary struct {
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	Mode            TravelMode `json:"mode"`
	DistanceText    string     `json:"distance_text,omitempty"`
	DistanceMeters  int64      `json:"distance_meters,omitempty"`
	DurationText    string     `json:"duration_text,omitempty"`
	DurationSeconds int64      `json:"duration_seconds,omitempty"`
	Provenance      Provenance `json:"provenance"`
}

// TimezoneResult reports the time zone covering a coordinate.
type TimezoneResult struct {
	Coordinate Coordinate `json:"coordinate"`
	ZoneID     string     `json:"zone_id"`
	ZoneName   string     `json:"zone_name,omitempty"`
	RawOffset  int64      `json:"raw_offset_seconds"`
	DSTOffset  int64      `json:"dst_offset_seconds"`
	Provenance Provenance `json:"provenance"`
}
