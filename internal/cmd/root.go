// Package cmd implements the geolens command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geolens/geolens/internal/config"
	"github.com/geolens/geolens/internal/observability"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string

	// Version info set by main package.
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package to record build metadata.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "geolens",
	Short: "Geocoding, distance, time zone, and static map lookups",
	Long: `geolens wraps a geospatial web API with a persistent response cache
and a client-side rate limiter, for one-off lookups and bulk
spreadsheet enrichment.

Use the subcommands to perform specific operations.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/geolens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, or markdown")
}

// initConfig loads configuration and initializes the CLI logger before
// any subcommand runs.
func initConfig() {
	observability.InitCLILogger(verbose)

	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "geolens: %v\n", err)
		os.Exit(1)
	}
}
