package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/askbq/askbq/internal/config"
	"github.com/askbq/askbq/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		host    string
		port    int
		dataDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the askbq API server",
		Long:  "Start the HTTP server that the settings and chat panels talk to.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dataDir)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "HTTP listen host (overrides ASKBQ_HOST)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP listen port (overrides ASKBQ_PORT)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory for the settings database (default: per-user config dir)")

	return cmd
}

func runServe(host string, port int, dataDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Host = host
	}
	if port != 0 {
		cfg.Port = port
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	setupLogging(cfg)

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
