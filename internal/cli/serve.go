package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"assessrec/internal/app"
	"assessrec/internal/logger"
	"assessrec/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation HTTP API",
	Long: `Start the HTTP server. The catalog and vector index load before
requests are accepted; /health reports unhealthy until loading finishes.

Endpoints:
  GET  /            service info
  GET  /health      readiness
  POST /recommend   balanced recommendations for a hiring query`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.JSON)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	log.Info("initializing recommendation pipeline")
	a, err := app.Load(cmd.Context(), cfg, log, false, nil)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer a.Close()

	srv := server.New(a, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("server listening", zap.String("address", addr))

	if err := http.ListenAndServe(addr, srv); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
