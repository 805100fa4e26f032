package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geolens/geolens/internal/core"
)

var (
	distanceMode    string
	distanceNoCache bool
)

var distanceCmd = &cobra.Command{
	Use:   "distance \"origin\" \"destination\"",
	Short: "Compute travel distance and duration between two places",
	Long: `Compute the distance and travel time between an origin and a
destination. Both accept free-form addresses or "lat,lng" pairs.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := core.ParseTravelMode(distanceMode)
		if err != nil {
			return err
		}
		f, err := formatter()
		if err != nil {
			return err
		}

		svc, err := buildServices(cmd.Context(), distanceNoCache)
		if err != nil {
			return err
		}
		defer svc.close()

		summary, err := svc.distance.Summary(cmd.Context(), args[0], args[1], mode)
		if err != nil {
			return err
		}

		rendered, err := f.FormatDistance(summary)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(distanceCmd)
	distanceCmd.Flags().StringVar(&distanceMode, "mode", "driving", "travel mode: driving, walking, bicycling, or transit")
	distanceCmd.Flags().BoolVar(&distanceNoCache, "no-cache", false, "bypass the response cache")
}
