package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/yukikurage/field-report-api/internal/config"
	"github.com/yukikurage/field-report-api/internal/database"
)

const (
	Version = "0.1.0"
	appName = "field-report-api"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Field work reporting API",
		Long: `Multi-tenant daily field-work reporting: team rosters, attendance,
team submissions fanned out into per-employee daily reports, and their review.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(); err != nil {
				return err
			}
			defer database.Close()
			return database.Migrate()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// setup loads and validates configuration, installs the logger and connects
// to the database.
func setup() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.SetDefault(newLogger(cfg, os.Stderr))
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve() error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := newRouter(cfg, database.GetDB(), registry, slog.Default())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
