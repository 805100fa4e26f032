package output

import (
	"fmt"
	"strings"

	"github.com/geolens/geolens/internal/core"
)

// MarkdownFormatter renders results as markdown tables.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) FormatGeocode(result *core.GeocodeResult) (string, error) {
	if result == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdownCell(result.FormattedAddress)))
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	for _, row := range geocodeRows(result) {
		if row[1] == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s |\n",
			escapeMarkdownCell(row[0]), escapeMarkdownCell(row[1])))
	}
	sb.WriteString("\n")
	sb.WriteString(escapeMarkdownCell(provenanceLabel(result.Provenance)))
	sb.WriteString("\n")
	return sb.String(), nil
}

func (f *MarkdownFormatter) FormatDistance(summary *core.DistanceSummary) (string, error) {
	if summary == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("| Origin | Destination | Mode | Distance | Duration |\n")
	sb.WriteString("|--------|-------------|------|----------|----------|\n")
	sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
		escapeMarkdownCell(summary.Origin),
		escapeMarkdownCell(summary.Destination),
		escapeMarkdownCell(string(summary.Mode)),
		escapeMarkdownCell(summary.DistanceText),
		escapeMarkdownCell(summary.DurationText),
	))
	sb.WriteString("\n")
	sb.WriteString(escapeMarkdownCell(provenanceLabel(summary.Provenance)))
	sb.WriteString("\n")
	return sb.String(), nil
}

func (f *MarkdownFormatter) FormatTimezone(result *core.TimezoneResult) (string, error) {
	if result == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdownCell(result.ZoneID)))
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Location | %s |\n", escapeMarkdownCell(result.Coordinate.String())))
	if result.ZoneName != "" {
		sb.WriteString(fmt.Sprintf("| Name | %s |\n", escapeMarkdownCell(result.ZoneName)))
	}
	sb.WriteString(fmt.Sprintf("| UTC offset | %s |\n", formatOffset(result.RawOffset+result.DSTOffset)))
	if result.DSTOffset != 0 {
		sb.WriteString(fmt.Sprintf("| DST offset | %s |\n", formatOffset(result.DSTOffset)))
	}
	sb.WriteString("\n")
	sb.WriteString(escapeMarkdownCell(provenanceLabel(result.Provenance)))
	sb.WriteString("\n")
	return sb.String(), nil
}

// escapeMarkdownCell keeps cell text from breaking table layout.
func escapeMarkdownCell(value string) string {
	value = strings.ReplaceAll(value, "|", "\\|")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}
