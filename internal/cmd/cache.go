package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geolens/geolens/internal/config"
	"github.com/geolens/geolens/internal/core/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the durable response cache",
}

// openStore opens the sqlite-backed cache for admin operations. The
// memory and none backends have nothing durable to administer.
func openStore(ctx context.Context) (*store.Store, error) {
	cfg := config.Get()
	if cfg.Cache.Backend != "sqlite" {
		return nil, errors.New("cache admin commands require the sqlite backend")
	}
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close() // nolint:errcheck

		stats, err := s.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("entries: %d\n", stats.Entries)
		fmt.Printf("expired: %d\n", stats.Expired)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached response",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close() // nolint:errcheck

		if err := s.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("cache cleared")
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge-expired",
	Short: "Delete cached responses whose TTL has passed",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close() // nolint:errcheck

		purged, err := s.PurgeExpired(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("purged %d expired entries\n", purged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}
