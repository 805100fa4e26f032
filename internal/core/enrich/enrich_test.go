package enrich

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geolens/geolens/internal/core"
	apperrors "github.com/geolens/geolens/internal/errors"
)

type stubGeocoder struct {
	results map[string]*core.GeocodeResult
	calls   []string
}

func (s *stubGeocoder) Freeform(_ context.Context, address, _ string) (*core.GeocodeResult, error) {
	s.calls = append(s.calls, address)
	if r, ok := s.results[address]; ok {
		return r, nil
	}
	return nil, apperrors.NewNotFound(address)
}

func (s *stubGeocoder) CityStateCountry(ctx context.Context, city, state, country string) (*core.GeocodeResult, error) {
	return s.Freeform(ctx, joinParts(city, state, country), "")
}

type stubFallback struct {
	results map[string]*core.GeocodeResult
	queries []string
}

func (s *stubFallback) TextToLocation(_ context.Context, query, _ string) (*core.GeocodeResult, error) {
	s.queries = append(s.queries, query)
	if r, ok := s.results[query]; ok {
		return r, nil
	}
	return nil, apperrors.NewNotFound(query)
}

func parisResult() *core.GeocodeResult {
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
	}
}

func writeCSVFixture(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestFromAddressCSV(t *testing.T) {
	in := writeCSVFixture(t, "Name,Address\nHQ,Paris\nGap,\nLost,Atlantis\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	enricher := &Enricher{
		Geocoder: &stubGeocoder{results: map[string]*core.GeocodeResult{"Paris": parisResult()}},
	}
	require.NoError(t, enricher.FromAddress(context.Background(), in, out, Options{}))

	table, err := ReadTable(out, "")
	require.NoError(t, err)

	require.Equal(t, append([]string{"Name", "Address"}, enrichColumns...), table.Header)
	require.Len(t, table.Rows, 3)

	status := table.ColumnIndex("geocode_status")
	require.Equal(t, "ok", table.Rows[0][status])
	require.Equal(t, "skipped_empty", table.Rows[1][status])
	require.Equal(t, "not_found", table.Rows[2][status])

	// Original columns stay put; enrichment lands after them.
	require.Equal(t, "HQ", table.Rows[0][0])
	require.Equal(t, "Paris, France", table.Rows[0][table.ColumnIndex("formatted_address")])
	require.Equal(t, "48.8566", table.Rows[0][table.ColumnIndex("lat")])
	require.Equal(t, "2.3522", table.Rows[0][table.ColumnIndex("lng")])
	require.Equal(t, "75000", table.Rows[0][table.ColumnIndex("postal_code")])

	// Failed and skipped rows leave the enrichment cells empty.
	require.Empty(t, table.Rows[2][table.ColumnIndex("lat")])
}

func TestFromAddressFallsBackToPlaces(t *testing.T) {
	in := writeCSVFixture(t, "Address\nThe Odd Venue\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	fallback := &stubFallback{results: map[string]*core.GeocodeResult{"The Odd Venue": parisResult()}}
	enricher := &Enricher{
		Geocoder: &stubGeocoder{},
		Fallback: fallback,
	}
	require.NoError(t, enricher.FromAddress(context.Background(), in, out, Options{}))

	table, err := ReadTable(out, "")
	require.NoError(t, err)
	require.Equal(t, "ok_places", table.Rows[0][table.ColumnIndex("geocode_status")])
	require.Equal(t, []string{"The Odd Venue"}, fallback.queries)
}

func TestFromAddressMissingColumn(t *testing.T) {
	in := writeCSVFixture(t, "Name\nHQ\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	enricher := &Enricher{Geocoder: &stubGeocoder{}}
	err := enricher.FromAddress(context.Background(), in, out, Options{AddressColumn: "Address"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"Address"`)
}

func TestFromAddressCountryHintColumn(t *testing.T) {
	in := writeCSVFixture(t, "Address,CC\nParis,FR\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	var gotHint string
	geocoder := &hintRecorder{hint: &gotHint}
	enricher := &Enricher{Geocoder: geocoder}
	require.NoError(t, enricher.FromAddress(context.Background(), in, out, Options{CountryHintColumn: "CC"}))
	require.Equal(t, "FR", gotHint)
}

func TestFromCityStateCountryCSV(t *testing.T) {
	in := writeCSVFixture(t, "City,State,Country\nParis,,France\n,,\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	geocoder := &stubGeocoder{results: map[string]*core.GeocodeResult{"Paris, France": parisResult()}}
	enricher := &Enricher{Geocoder: geocoder}
	require.NoError(t, enricher.FromCityStateCountry(context.Background(), in, out, Options{}))

	table, err := ReadTable(out, "")
	require.NoError(t, err)
	status := table.ColumnIndex("geocode_status")
	require.Equal(t, "ok", table.Rows[0][status])
	require.Equal(t, "skipped_empty", table.Rows[1][status])
}

func TestFromCityStateCountryMissingStateColumn(t *testing.T) {
	in := writeCSVFixture(t, "City,Country\nParis,France\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	geocoder := &stubGeocoder{results: map[string]*core.GeocodeResult{"Paris, France": parisResult()}}
	enricher := &Enricher{Geocoder: geocoder}
	require.NoError(t, enricher.FromCityStateCountry(context.Background(), in, out, Options{}))

	table, err := ReadTable(out, "")
	require.NoError(t, err)
	require.Equal(t, "ok", table.Rows[0][table.ColumnIndex("geocode_status")])
}

func TestEnrichXLSXRoundtrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xlsx")
	out := filepath.Join(dir, "out.xlsx")

	source := &Table{
		Header: []string{"Address"},
		Rows:   [][]string{{"Paris"}},
	}
	require.NoError(t, WriteTable(source, in, ""))

	enricher := &Enricher{
		Geocoder: &stubGeocoder{results: map[string]*core.GeocodeResult{"Paris": parisResult()}},
	}
	require.NoError(t, enricher.FromAddress(context.Background(), in, out, Options{}))

	table, err := ReadTable(out, "")
	require.NoError(t, err)
	require.Equal(t, "ok", table.Rows[0][table.ColumnIndex("geocode_status")])
	require.Equal(t, "Paris, France", table.Rows[0][table.ColumnIndex("formatted_address")])
}

// hintRecorder captures the country hint passed for the row.
type hintRecorder struct {
	hint *string
}

func (h *hintRecorder) Freeform(_ context.Context, _, hint string) (*core.GeocodeResult, error) {
	*h.hint = hint
	return parisResult(), nil
}

func (h *hintRecorder) CityStateCountry(context.Context, string, string, string) (*core.GeocodeResult, error) {
	return parisResult(), nil
}
