package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geolens/geolens/internal/config"
	"github.com/geolens/geolens/internal/core/store"
	"github.com/geolens/geolens/internal/observability"
	"github.com/geolens/geolens/internal/server"
	"github.com/geolens/geolens/internal/server/handlers"
)

// storeHealthChecker pings the durable cache for /health.
type storeHealthChecker struct {
	store *store.Store
}

func (c storeHealthChecker) CheckHealth(ctx context.Context) error {
	_, err := c.store.Stats(ctx)
	return err
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server. SIGINT or SIGTERM triggers graceful
shutdown: in-flight requests are drained before the process exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		observability.InitServerLogger(cfg.Logging.Level)
		defer observability.Sync()
		log := observability.Logger()

		handlers.SetVersionInfo(versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)

		svc, err := buildServices(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer svc.close()

		srv := server.New(cfg.Server, &handlers.Services{
			Geocoder:  svc.geocoder,
			Places:    svc.places,
			Distance:  svc.distance,
			Timezone:  svc.timezone,
			StaticMap: svc.staticMap,
		}, versionInfo.Version)

		if s, ok := svc.geocoder.Cache.(*store.Store); ok {
			srv.RegisterHealthChecker("cache", storeHealthChecker{store: s})
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case sig := <-stop:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
		}

		timeout := cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown failed", zap.Error(err))
			return err
		}
		log.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
