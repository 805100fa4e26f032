package output

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geolens/geolens/internal/core"
)

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("table")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	format, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
}

func sampleGeocode() *core.GeocodeResult {
	return &core.GeocodeResult{
		FormattedAddress: "Paris, France",
		Lat:              48.8566,
		Lng:              2.3522,
		PlaceID:          "paris-id",
		Types:            "locality,political",
		CountryCode:      "FR",
		CountryName:      "France",
		AdminLevel1:      "IDF",
		Locality:         "Paris",
		PostalCode:       "75000",
		Provenance:       core.Provenance{Source: "geocode"},
	}
}

func TestGeocodeFormatters(t *testing.T) {
	result := sampleGeocode()

	tableRendered, err := NewFormatter(FormatTable).FormatGeocode(result)
	require.NoError(t, err)
	require.Contains(t, tableRendered, "Paris, France")
	require.Contains(t, tableRendered, "48.8566")
	require.Contains(t, tableRendered, "France (FR)")
	require.Contains(t, tableRendered, "live geocode result")

	jsonRendered, err := NewFormatter(FormatJSON).FormatGeocode(result)
	require.NoError(t, err)
	require.Contains(t, jsonRendered, "\"formatted_address\": \"Paris, France\"")
	require.Contains(t, jsonRendered, "\"place_id\": \"paris-id\"")

	markdownRendered, err := NewFormatter(FormatMarkdown).FormatGeocode(result)
	require.NoError(t, err)
	require.Contains(t, markdownRendered, "## Paris, France")
	require.Contains(t, markdownRendered, "| Field | Value |")
	require.Contains(t, markdownRendered, "| Latitude | 48.8566 |")
}

func TestGeocodeCachedProvenanceLabel(t *testing.T) {
	result := sampleGeocode()
	expires := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	result.Provenance.FromCache = true
	result.Provenance.CacheExpiresAt = &expires

	rendered, err := NewFormatter(FormatTable).FormatGeocode(result)
	require.NoError(t, err)
	require.Contains(t, rendered, "cached geocode result")
	require.Contains(t, rendered, "2025-01-02 03:04 UTC")
}

func TestDistanceFormatters(t *testing.T) {
	summary := &core.DistanceSummary{
		Origin:          "Paris",
		Destination:     "Berlin",
		Mode:            core.TravelModeDriving,
		DistanceText:    "878 km",
		DistanceMeters:  878000,
		DurationText:    "8 hours 5 mins",
		DurationSeconds: 29100,
		Provenance:      core.Provenance{Source: "distance"},
	}

	tableRendered, err := NewFormatter(FormatTable).FormatDistance(summary)
	require.NoError(t, err)
	require.Contains(t, tableRendered, "878 km")
	require.Contains(t, tableRendered, "driving")

	markdownRendered, err := NewFormatter(FormatMarkdown).FormatDistance(summary)
	require.NoError(t, err)
	require.Contains(t, markdownRendered, "| Origin | Destination | Mode | Distance | Duration |")
	require.Contains(t, markdownRendered, "| Paris | Berlin | driving | 878 km | 8 hours 5 mins |")
}

func TestTimezoneFormatters(t *testing.T) {
	result := &core.TimezoneResult{
		Coordinate: core.Coordinate{Lat: 48.8566, Lng: 2.3522},
		ZoneID:     "Europe/Paris",
		ZoneName:   "Central European Summer Time",
		RawOffset:  3600,
		DSTOffset:  3600,
		Provenance: core.Provenance{Source: "timezone"},
	}

	tableRendered, err := NewFormatter(FormatTable).FormatTimezone(result)
	require.NoError(t, err)
	require.Contains(t, tableRendered, "Europe/Paris")
	require.Contains(t, tableRendered, "+02:00")
	require.Contains(t, tableRendered, "+01:00")

	markdownRendered, err := NewFormatter(FormatMarkdown).FormatTimezone(result)
	require.NoError(t, err)
	require.Contains(t, markdownRendered, "## Europe/Paris")
	require.Contains(t, markdownRendered, "| UTC offset | +02:00 |")
}

func TestFormatOffsetNegative(t *testing.T) {
	require.Equal(t, "-05:00", formatOffset(-5*3600))
	require.Equal(t, "+05:30", formatOffset(5*3600+30*60))
	require.Equal(t, "+00:00", formatOffset(0))
}

func TestFormattersNilResults(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatJSON, FormatMarkdown} {
		f := NewFormatter(format)
		rendered, err := f.FormatGeocode(nil)
		require.NoError(t, err)
		require.Empty(t, rendered)
	}
}
