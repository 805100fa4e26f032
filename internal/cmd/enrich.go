package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geolens/geolens/internal/config"
	"github.com/geolens/geolens/internal/core/enrich"
)

var (
	enrichSheet      string
	enrichNoCache    bool
	enrichAddressCol string
	enrichHintCol    string
	enrichCityCol    string
	enrichStateCol   string
	enrichCountryCol string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich spreadsheets of locations with geocoding results",
	Long: `Enrich a CSV or XLSX file of locations. Original columns are kept;
geocoding columns (coordinates, canonical address components, and a
per-row geocode_status) are appended. Rows that fail to resolve never
abort the run.`,
}

var enrichAddressCmd = &cobra.Command{
	Use:   "address <input> <output>",
	Short: "Enrich a file with a free-form address column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices(cmd.Context(), enrichNoCache)
		if err != nil {
			return err
		}
		defer svc.close()

		enricher := &enrich.Enricher{Geocoder: svc.geocoder, Fallback: svc.places}
		opts := enrichOptions()
		if err := enricher.FromAddress(cmd.Context(), args[0], args[1], opts); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[1])
		return nil
	},
}

var enrichCityCmd = &cobra.Command{
	Use:   "city-state-country <input> <output>",
	Short: "Enrich a file with city, state, and country columns",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices(cmd.Context(), enrichNoCache)
		if err != nil {
			return err
		}
		defer svc.close()

		enricher := &enrich.Enricher{Geocoder: svc.geocoder, Fallback: svc.places}
		opts := enrichOptions()
		if err := enricher.FromCityStateCountry(cmd.Context(), args[0], args[1], opts); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[1])
		return nil
	},
}

// enrichOptions merges flag values over the configured column defaults.
func enrichOptions() enrich.Options {
	cfg := config.Get()
	opts := enrich.Options{
		Sheet:         enrichSheet,
		AddressColumn: cfg.Enrich.AddressColumn,
		CityColumn:    cfg.Enrich.CityColumn,
		StateColumn:   cfg.Enrich.StateColumn,
		CountryColumn: cfg.Enrich.CountryColumn,
	}
	if enrichAddressCol != "" {
		opts.AddressColumn = enrichAddressCol
	}
	if enrichHintCol != "" {
		opts.CountryHintColumn = enrichHintCol
	}
	if enrichCityCol != "" {
		opts.CityColumn = enrichCityCol
	}
	if enrichStateCol != "" {
		opts.StateColumn = enrichStateCol
	}
	if enrichCountryCol != "" {
		opts.CountryColumn = enrichCountryCol
	}
	return opts
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.AddCommand(enrichAddressCmd)
	enrichCmd.AddCommand(enrichCityCmd)

	enrichCmd.PersistentFlags().StringVar(&enrichSheet, "sheet", "", "XLSX worksheet name (default first sheet)")
	enrichCmd.PersistentFlags().BoolVar(&enrichNoCache, "no-cache", false, "bypass the response cache")

	enrichAddressCmd.Flags().StringVar(&enrichAddressCol, "address-column", "", "column holding free-form addresses (default Address)")
	enrichAddressCmd.Flags().StringVar(&enrichHintCol, "country-column", "", "optional column holding ISO-2 country bias codes")

	enrichCityCmd.Flags().StringVar(&enrichCityCol, "city-column", "", "column holding the city (default City)")
	enrichCityCmd.Flags().StringVar(&enrichStateCol, "state-column", "", "column holding the state/region (default State)")
	enrichCityCmd.Flags().StringVar(&enrichCountryCol, "country-column", "", "column holding the country (default Country)")
}
