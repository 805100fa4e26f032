package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/geolens/geolens/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

func (f *TableFormatter) FormatGeocode(result *core.GeocodeResult) (string, error) {
	if result == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Value"})

	for _, row := range geocodeRows(result) {
		if row[1] == "" {
			continue
		}
		t.AppendRow(table.Row{row[0], row[1]})
	}
	t.AppendFooter(table.Row{"", provenanceLabel(result.Provenance)})

	return t.Render(), nil
}

func (f *TableFormatter) FormatDistance(summary *core.DistanceSummary) (string, error) {
	if summary == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Origin", "Destination", "Mode", "Distance", "Duration"})
	t.AppendRow(table.Row{
		summary.Origin,
		summary.Destination,
		string(summary.Mode),
		summary.DistanceText,
		summary.DurationText,
	})
	t.AppendFooter(table.Row{"", "", "", "", provenanceLabel(summary.Provenance)})

	return t.Render(), nil
}

func (f *TableFormatter) FormatTimezone(result *core.TimezoneResult) (string, error) {
	if result == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Location", result.Coordinate.String()})
	t.AppendRow(table.Row{"Zone", result.ZoneID})
	if result.ZoneName != "" {
		t.AppendRow(table.Row{"Name", result.ZoneName})
	}
	t.AppendRow(table.Row{"UTC offset", formatOffset(result.RawOffset + result.DSTOffset)})
	if result.DSTOffset != 0 {
		t.AppendRow(table.Row{"DST offset", formatOffset(result.DSTOffset)})
	}
	t.AppendFooter(table.Row{"", provenanceLabel(result.Provenance)})

	return t.Render(), nil
}

// geocodeRows lists the label/value pairs shared by the table and
// markdown renderers. Empty values are filtered by the caller.
func geocodeRows(result *core.GeocodeResult) [][2]string {
	return [][2]string{
		{"Address", result.FormattedAddress},
		{"Latitude", strconv.FormatFloat(result.Lat, 'f', -1, 64)},
		{"Longitude", strconv.FormatFloat(result.Lng, 'f', -1, 64)},
		{"Place ID", result.PlaceID},
		{"Types", result.Types},
		{"Country", countryLabel(result)},
		{"Region", result.AdminLevel1},
		{"Locality", result.Locality},
		{"Postal code", result.PostalCode},
	}
}

func countryLabel(result *core.GeocodeResult) string {
	switch {
	case result.CountryName != "" && result.CountryCode != "":
		return fmt.Sprintf("%s (%s)", result.CountryName, result.CountryCode)
	case result.CountryName != "":
		return result.CountryName
	default:
		return result.CountryCode
	}
}

// formatOffset renders seconds east of UTC as ±HH:MM.
func formatOffset(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	return fmt.Sprintf("%s%02d:%02d", sign, int(d.Hours()), int(d.Minutes())%60)
}
