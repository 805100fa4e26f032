package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/geolens/geolens/internal/errors"
)

var (
	geocodeCountry  string
	geocodeNoCache  bool
	geocodeNoPlaces bool
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode \"address\"",
	Short: "Resolve an address to coordinates and canonical components",
	Long: `Resolve a free-form address through the geocoding endpoint. When the
address does not geocode directly, the places text search gets a shot
before the command gives up (disable with --no-places).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := formatter()
		if err != nil {
			return err
		}

		svc, err := buildServices(cmd.Context(), geocodeNoCache)
		if err != nil {
			return err
		}
		defer svc.close()

		result, err := svc.geocoder.Freeform(cmd.Context(), args[0], geocodeCountry)
		if apperrors.IsNotFound(err) && !geocodeNoPlaces {
			result, err = svc.places.TextToLocation(cmd.Context(), args[0], geocodeCountry)
		}
		if err != nil {
			return err
		}

		rendered, err := f.FormatGeocode(result)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
	geocodeCmd.Flags().StringVar(&geocodeCountry, "country", "", "ISO-3166 alpha-2 country code to bias results")
	geocodeCmd.Flags().BoolVar(&geocodeNoCache, "no-cache", false, "bypass the response cache")
	geocodeCmd.Flags().BoolVar(&geocodeNoPlaces, "no-places", false, "disable the places text-search fallback")
}
