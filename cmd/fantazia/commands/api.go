package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fantazia-finance/terminal/internal/api"
	"github.com/fantazia-finance/terminal/internal/api/handlers"
	"github.com/fantazia-finance/terminal/internal/snapshot"
	"github.com/fantazia-finance/terminal/pkg/database"
)

// apiCmd starts the REST API server.
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                       - Health check
  GET  /api/v1/presets               - Built-in sector baskets
  GET  /api/v1/scoreboard            - Run a scoring pass (JSON or CSV)
  GET  /api/v1/scoreboard/history    - Persisted snapshots for a basket
  GET  /api/v1/charts                - Base-100 and spread chart series
  GET  /api/v1/quotes/{ticker}       - Realtime last trade
  POST /api/v1/simulate              - Buy-and-hold simulation
  GET  /api/v1/stream                - Websocket quote stream

Example:
  go run ./cmd/fantazia api
  go run ./cmd/fantazia api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	log := d.log

	// Snapshot persistence is optional: no DATABASE_URL, no history.
	var snapshots *snapshot.Repository
	if d.cfg.Database.Enabled() {
		db, err := database.New(d.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		snapshots = snapshot.NewRepository(db, log)
		if err := snapshots.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		log.Info("Snapshot persistence enabled")
	}

	scoreboardHandler := handlers.NewScoreboardHandler(d.pipeline, snapshots, log)
	quotesHandler := handlers.NewQuotesHandler(d.polygon, log)
	simulateHandler := handlers.NewSimulateHandler(d.pipeline, log)
	streamHandler := handlers.NewStreamHandler(d.polygon, 5*time.Second, log)

	router := api.NewRouter(scoreboardHandler, quotesHandler, simulateHandler, streamHandler, log)
	server := api.New(d.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", d.cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
