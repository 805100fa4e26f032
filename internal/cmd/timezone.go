package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/geolens/geolens/internal/core"
)

var (
	timezoneAt      string
	timezoneNoCache bool
)

var timezoneCmd = &cobra.Command{
	Use:   "timezone \"lat,lng\"",
	Short: "Look up the time zone covering a coordinate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := core.ParseCoordinate(args[0])
		if err != nil {
			return err
		}

		var at time.Time
		if timezoneAt != "" {
			at, err = time.Parse(time.RFC3339, timezoneAt)
			if err != nil {
				return fmt.Errorf("invalid --at value %q: want RFC3339", timezoneAt)
			}
		}

		f, err := formatter()
		if err != nil {
			return err
		}

		svc, err := buildServices(cmd.Context(), timezoneNoCache)
		if err != nil {
			return err
		}
		defer svc.close()

		result, err := svc.timezone.Lookup(cmd.Context(), coord, at)
		if err != nil {
			return err
		}

		rendered, err := f.FormatTimezone(result)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timezoneCmd)
	timezoneCmd.Flags().StringVar(&timezoneAt, "at", "", "reference instant (RFC3339, default now)")
	timezoneCmd.Flags().BoolVar(&timezoneNoCache, "no-cache", false, "bypass the response cache")
}
