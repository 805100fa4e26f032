package output

import (
	"encoding/json"

	"github.com/geolens/geolens/internal/core"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) FormatGeocode(result *core.GeocodeResult) (string, error) {
	if result == nil {
		return "", nil
	}
	return f.render(result)
}

func (f *JSONFormatter) FormatDistance(summary *core.DistanceSummary) (string, error) {
	if summary == nil {
		return "", nil
	}
	return f.render(summary)
}

func (f *JSONFormatter) FormatTimezone(result *core.TimezoneResult) (string, error) {
	if result == nil {
		return "", nil
	}
	return f.render(result)
}

func (f *JSONFormatter) render(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
