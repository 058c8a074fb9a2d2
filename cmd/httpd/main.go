// Command httpd runs the engine HTTP server: candidate ranking, message
// moderation, and the moderation admin API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sparkmatch/engine/internal/bootstrap"
	"github.com/sparkmatch/engine/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting engine",
		logging.String("version", cfg.Service.Version),
		logging.Int("port", cfg.Service.Port),
		logging.Bool("debug", cfg.Service.Debug),
	)

	components, err := bootstrap.NewHTTPComponents(cfg, logger)
	if err != nil {
		return fmt.Errorf("bootstrap components: %w", err)
	}
	defer components.Close()

	return components.Server.RunWithGracefulShutdown(context.Background())
}
