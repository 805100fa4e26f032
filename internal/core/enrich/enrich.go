// Package enrich appends geocoding results to spreadsheets of
// locations, one column set per input row, without disturbing the
// columns already there.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/geolens/geolens/internal/core"
	"github.com/geolens/geolens/internal/observability"
)

// Geocoder is the slice of the geocoding adapter the enricher calls.
type Geocoder interface {
	Freeform(ctx context.Context, address, countryHint string) (*core.GeocodeResult, error)
	CityStateCountry(ctx context.Context, city, state, country string) (*core.GeocodeResult, error)
}

// Fallback recovers rows that plain geocoding rejects. Optional.
type Fallback interface {
	TextToLocation(ctx context.Context, query, countryHint string) (*core.GeocodeResult, error)
}

// Per-row resolution outcomes recorded in the geocode_status column.
const (
	StatusOK           = "ok"
	StatusOKPlaces     = "ok_places"
	StatusNotFound     = "not_found"
	StatusSkippedEmpty = "skipped_empty"
)

// enrichColumns are appended after the input's own columns, in this
// order.
var enrichColumns = []string{
	"formatted_address",
	"lat",
	"lng",
	"place_id",
	"types",
	"country_code",
	"country_name",
	"admin_level_1",
	"admin_level_2",
	"locality",
	"postal_code",
	"geocode_status",
}

// Options names the input columns and the worksheet to operate on.
// Column matching is case-insensitive.
type Options struct {
	Sheet string

	// FromAddress.
	AddressColumn     string // default "Address"
	CountryHintColumn string // optional ISO-2 bias column

	// FromCityStateCountry.
	CityColumn    string // default "City"
	StateColumn   string // default "State"; missing column is tolerated
	CountryColumn string // default "Country"
}

// Enricher reads a spreadsheet, resolves each row, and writes the
// enriched copy. Row failures never abort the file; they land in the
// status column instead.
type Enricher struct {
	Geocoder Geocoder
	Fallback Fallback
}

// FromAddress enriches a file with a free-form address column.
func (e *Enricher) FromAddress(ctx context.Context, inputPath, outputPath string, opts Options) error {
	if e == nil || e.Geocoder == nil {
		return errors.New("enricher is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.AddressColumn == "" {
		opts.AddressColumn = "Address"
	}

	table, err := ReadTable(inputPath, opts.Sheet)
	if err != nil {
		return err
	}

	addressCol := table.ColumnIndex(opts.AddressColumn)
	if addressCol < 0 {
		return fmt.Errorf("column %q not found in %s", opts.AddressColumn, inputPath)
	}
	hintCol := -1
	if opts.CountryHintColumn != "" {
		hintCol = table.ColumnIndex(opts.CountryHintColumn)
	}

	log := observability.Logger()
	for i, row := range table.Rows {
		address := table.Cell(row, addressCol)
		hint := table.Cell(row, hintCol)

		if address == "" {
			table.Rows[i] = appendResult(row, nil, StatusSkippedEmpty)
			continue
		}

		result, status := e.resolve(ctx, address, hint, func() (*core.GeocodeResult, error) {
			return e.Geocoder.Freeform(ctx, address, hint)
		})
		table.Rows[i] = appendResult(row, result, status)
		log.Debug("row enriched",
			zap.Int("row", i+1),
			zap.String("status", status))
	}

	table.Header = append(table.Header, enrichColumns...)
	return WriteTable(table, outputPath, opts.Sheet)
}

// FromCityStateCountry enriches a file with city/state/country columns.
// The state column is optional.
func (e *Enricher) FromCityStateCountry(ctx context.Context, inputPath, outputPath string, opts Options) error {
	if e == nil || e.Geocoder == nil {
		return errors.New("enricher is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.CityColumn == "" {
		opts.CityColumn = "City"
	}
	if opts.StateColumn == "" {
		opts.StateColumn = "State"
	}
	if opts.CountryColumn == "" {
		opts.CountryColumn = "Country"
	}

	table, err := ReadTable(inputPath, opts.Sheet)
	if err != nil {
		return err
	}

	cityCol := table.ColumnIndex(opts.CityColumn)
	countryCol := table.ColumnIndex(opts.CountryColumn)
	if cityCol < 0 && countryCol < 0 {
		return fmt.Errorf("neither %q nor %q found in %s", opts.CityColumn, opts.CountryColumn, inputPath)
	}
	stateCol := table.ColumnIndex(opts.StateColumn)

	log := observability.Logger()
	for i, row := range table.Rows {
		city := table.Cell(row, cityCol)
		state := table.Cell(row, stateCol)
		country := table.Cell(row, countryCol)

		if city == "" && state == "" && country == "" {
			table.Rows[i] = appendResult(row, nil, StatusSkippedEmpty)
			continue
		}

		query := joinParts(city, state, country)
		result, status := e.resolve(ctx, query, country, func() (*core.GeocodeResult, error) {
			return e.Geocoder.CityStateCountry(ctx, city, state, country)
		})
		table.Rows[i] = appendResult(row, result, status)
		log.Debug("row enriched",
			zap.Int("row", i+1),
			zap.String("status", status))
	}

	table.Header = append(table.Header, enrichColumns...)
	return WriteTable(table, outputPath, opts.Sheet)
}

// resolve runs the primary lookup and, on any failure, the places
// fallback with the combined free-text query.
func (e *Enricher) resolve(ctx context.Context, query, hint string, primary func() (*core.GeocodeResult, error)) (*core.GeocodeResult, string) {
	result, err := primary()
	if err == nil {
		return result, StatusOK
	}
	if e.Fallback != nil {
		if result, err := e.Fallback.TextToLocation(ctx, query, hint); err == nil {
			return result, StatusOKPlaces
		}
	}
	return nil, StatusNotFound
}

func appendResult(row []string, result *core.GeocodeResult, status string) []string {
	if result == nil {
		// Eleven empty enrichment cells, then the status.
		row = append(row, make([]string, len(enrichColumns)-1)...)
		return append(row, status)
	}
	return append(row,
		result.FormattedAddress,
		formatFloat(result.Lat),
		formatFloat(result.Lng),
		result.PlaceID,
		result.Types,
		result.CountryCode,
		result.CountryName,
		result.AdminLevel1,
		result.AdminLevel2,
		result.Locality,
		result.PostalCode,
		status,
	)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinParts(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
