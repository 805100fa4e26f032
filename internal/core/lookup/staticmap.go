package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/geolens/geolens/internal/core"
	"github.com/geolens/geolens/internal/core/gateway"
)

var sizePattern = regexp.MustCompile(`^\d{1,4}x\d{1,4}$`)

// StaticMap builds static map image URLs. URL construction is purely
// local; only Fetch spends an outbound (rate-limited) call.
type StaticMap struct {
	BaseURL string
	APIKey  string
	Gateway *gateway.Gateway
}

// DefaultStaticMapBase is the upstream static map endpoint.
const DefaultStaticMapBase = "https://maps.googleapis.com/maps/api/staticmap"

// PinURL builds a GET URL for a map centered on a coordinate with a
// single marker.
func (s *StaticMap) PinURL(coord core.Coordinate, zoom int, size string) (string, error) {
	return s.MarkersURL([]core.Coordinate{coord}, coord, zoom, size)
}

// MarkersURL builds a GET URL for a map centered on center with a marker
// per coordinate.
func (s *StaticMap) MarkersURL(markers []core.Coordinate, center core.Coordinate, zoom int, size string) (string, error) {
	if s == nil {
		return "", errors.New("static map service is not configured")
	}
	if zoom < 1 || zoom > 20 {
		return "", fmt.Errorf("zoom %d out of range 1..20", zoom)
	}
	size = strings.TrimSpace(size)
	if !sizePattern.MatchString(size) {
		return "", fmt.Errorf("invalid size %q: want WxH in pixels", size)
	}
	if len(markers) == 0 {
		return "", errors.New("at least one marker is required")
	}

	params := url.Values{}
	params.Set("center", center.String())
	params.Set("zoom", strconv.Itoa(zoom))
	params.Set("size", size)
	for _, marker := range markers {
		params.Add("markers", marker.String())
	}
	if s.APIKey != "" {
		params.Set("key", s.APIKey)
	}

	base := s.BaseURL
	if base == "" {
		base = DefaultStaticMapBase
	}
	return base + "?" + params.Encode(), nil
}

// PathURL builds a GET URL for a map drawing a polyline through the
// given points, centered on center.
func (s *StaticMap) PathURL(points []core.Coordinate, center core.Coordinate, zoom int, size string) (string, error) {
	if s == nil {
		return "", errors.New("static map service is not configured")
	}
	if len(points) < 2 {
		return "", errors.New("a path needs at least two points")
	}
	if zoom < 1 || zoom > 20 {
		return "", fmt.Errorf("zoom %d out of range 1..20", zoom)
	}
	size = strings.TrimSpace(size)
	if !sizePattern.MatchString(size) {
		return "", fmt.Errorf("invalid size %q: want WxH in pixels", size)
	}

	parts := make([]string, 0, len(points))
	for _, point := range points {
		parts = append(parts, point.String())
	}

	params := url.Values{}
	params.Set("center", center.String())
	params.Set("zoom", strconv.Itoa(zoom))
	params.Set("size", size)
	params.Set("path", strings.Join(parts, "|"))
	if s.APIKey != "" {
		params.Set("key", s.APIKey)
	}

	base := s.BaseURL
	if base == "" {
		base = DefaultStaticMapBase
	}
	return base + "?" + params.Encode(), nil
}

// Fetch downloads the image behind a built URL through the shared
// gateway, so downloads honor the same rate ceiling as API calls.
func (s *StaticMap) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if s == nil || s.Gateway == nil {
		return nil, "", errors.New("static map service is not configured for fetching")
	}
	return s.Gateway.FetchBytes(ctx, rawURL)
}
