package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/inventory-simulator/internal/config"
	"github.com/rogerio-castellano/inventory-simulator/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the stock simulation",
		Long: `Run the HTTP API. Settings come from defaults, the config file and
INVENTORY_* environment variables, e.g. INVENTORY_SIM_AUTOSTART=true.

Example:
  inventory-simulator serve --addr :9090 --autostart`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.New(rootOpts.ConfigFile)
			if err != nil {
				return err
			}
			if err := v.BindPFlag("http.addr", cmd.Flags().Lookup("addr")); err != nil {
				return err
			}
			if err := v.BindPFlag("sim.autostart", cmd.Flags().Lookup("autostart")); err != nil {
				return err
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().String("addr", ":8080", "HTTP listen address")
	cmd.Flags().Bool("autostart", false, "start the simulation at boot")

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	logger.Init("inventory-simulator", cfg.LogPretty)
	logger.SetLevel(cfg.LogLevel)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer a.close()

	if cfg.SimAutostart {
		a.engine.Start()
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Logger.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if a.limiter != nil {
		g.Go(func() error { return a.limiter.Run(gctx) })
	}
	if a.redis != nil {
		g.Go(func() error { return a.redis.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.engine.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Warn().Err(err).Msg("simulation did not stop in time")
		}
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
