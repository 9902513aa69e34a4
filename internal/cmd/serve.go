package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planora/internal/engine"
	"github.com/felixgeelhaar/planora/internal/health"
	"github.com/felixgeelhaar/planora/internal/plan"
	"github.com/felixgeelhaar/planora/internal/server"
	"github.com/felixgeelhaar/planora/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the planning HTTP API",
	Long: `Start the HTTP server exposing the conversational planning API and
Kubernetes-style health endpoints.

Routes:
  POST   /api/v1/chat               - one conversational turn
  GET    /api/v1/session/{id}       - session summary
  DELETE /api/v1/session/{id}       - discard a session
  GET    /api/v1/session/{id}/plan  - compiled plan (when complete)
  GET    /health/live|ready|startup - probes

The server drains connections gracefully on SIGTERM or SIGINT.

Example:
  # Serve on the configured address (default :8080)
  planora serve

  # Serve with a durable sqlite session store
  planora serve --store sqlite

  # Custom address and drain timeout
  planora serve --address :9090 --shutdown-timeout 60s`,
	RunE: runServe,
}

var (
	serveAddress         string
	serveStore           string
	serveShutdownTimeout time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address (overrides server.address)")
	serveCmd.Flags().StringVar(&serveStore, "store", "", "session store backend: memory or sqlite (overrides store.backend)")
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 0, "maximum time to drain connections on shutdown (overrides server.shutdown_timeout)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddress != "" {
		cfg.Server.Address = serveAddress
	}
	if serveStore != "" {
		cfg.Store.Backend = serveStore
	}
	if serveShutdownTimeout > 0 {
		cfg.Server.ShutdownTimeout = serveShutdownTimeout
	}

	logger := newLogger(cfg)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	orc, err := newOracle(cfg, logger)
	if err != nil {
		return err
	}
	defer orc.Close()

	info := version.GetInfo()
	pm := health.NewProbeManager(info.Version)
	pm.AddChecker(health.NewOracleChecker(orc))
	pm.AddChecker(health.NewStoreChecker(store))

	srv := server.NewServer(server.Deps{
		Controller:   engine.NewController(orc, logger),
		Assembler:    plan.NewAssembler(logger),
		Store:        store,
		ProbeManager: pm,
		Logger:       logger,
	}, server.Config{
		Address:         cfg.Server.Address,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
	})

	fmt.Printf("planora %s\n", info.Version)
	fmt.Printf("Provider:     %s\n", orc.Provider())
	fmt.Printf("Store:        %s\n", cfg.Store.Backend)
	fmt.Printf("Listening on: http://%s\n", cfg.Server.Address)
	fmt.Printf("Press Ctrl+C to stop\n\n")

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-sigChan:
		logger.Info("shutdown signal received", "signal", sig.String())

		// The root context cancels on the same signal, so the drain
		// deadline must not inherit from it.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}

		logger.Info("server stopped")
		return nil
	}
}
