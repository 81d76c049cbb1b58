// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/research-hub/internal/logger"
	"github.com/pdiddy/research-hub/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the hub page and the JSON query API",
	Long: `Serve renders the hub page at / and answers reference queries at
/api/references?q=&tag=. Tags, page content, health and Prometheus metrics are
served at /api/tags, /api/content, /healthz and /metrics.

The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	bindFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())

	l, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	c, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	l.Info("Starting research-hub",
		zap.String("version", version),
		zap.String("catalog", catalogName(cfg.CatalogPath)),
		zap.Int("references", c.Len()),
		zap.Int("tags", len(c.Tags())),
	)
	for _, issue := range c.Validate() {
		l.Warn("catalog issue", zap.String("kind", string(issue.Kind)), zap.String("detail", issue.String()))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(c, l).Run(ctx, cfg.Server)
}

func catalogName(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
