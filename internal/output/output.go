package output

import (
	"fmt"
	"strings"

	"github.com/geolens/geolens/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders lookup results for terminal or document use.
type Formatter interface {
	FormatGeocode(result *core.GeocodeResult) (string, error)
	FormatDistance(summary *core.DistanceSummary) (string, error)
	FormatTimezone(result *core.TimezoneResult) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// provenanceLabel is the one-line origin summary shown under results.
func provenanceLabel(p core.Provenance) string {
	source := p.Source
	if source == "" {
		source = "live"
	}
	if p.FromCache {
		label := fmt.Sprintf("cached %s result", source)
		if p.CacheExpiresAt != nil {
			label += fmt.Sprintf(" (expires %s)", p.CacheExpiresAt.UTC().Format("2006-01-02 15:04 MST"))
		}
		return label
	}
	return fmt.Sprintf("live %s result", source)
}
