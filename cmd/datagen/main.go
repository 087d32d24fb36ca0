package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/alanceloth/datagen/internal/cache"
	"github.com/alanceloth/datagen/internal/config"
	"github.com/alanceloth/datagen/internal/metrics"
	"github.com/alanceloth/datagen/internal/storage"
	"github.com/alanceloth/datagen/pkg/logger"
)

type configKey struct{}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("datagen failed")
	}
}

func newApp() *cli.App {
	app := &cli.App{
		Name:  "datagen",
		Usage: "Generate synthetic customer datasets and manage them in object storage",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			generateCommand(),
			benchCommand(),
			storageCommand(),
			loadCommand(),
			publishCommand(),
			historyCommand(),
		},
	}
	withConfigBefore(app.Commands)
	return app
}

// withConfigBefore installs loadConfig on every leaf command.
func withConfigBefore(commands []*cli.Command) {
	for _, cmd := range commands {
		if len(cmd.Subcommands) > 0 {
			withConfigBefore(cmd.Subcommands)
			continue
		}
		cmd.Before = loadConfig
	}
}

func loadConfig(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	logger.Init(cfg.Log.Level, cfg.Log.JSON)

	// Store the configuration in the context
	c.Context = context.WithValue(c.Context, configKey{}, cfg)
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.Context.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	panic("datagen: configuration not loaded")
}

func openGateway(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*storage.Gateway, error) {
	store, err := storage.Open(ctx, storage.ConfigFrom(cfg.Storage))
	if err != nil {
		return nil, fmt.Errorf("failed to open object store: %w", err)
	}
	return storage.NewGateway(store, storage.WithGatewayMetrics(m)), nil
}

// openHistory falls back to a no-op history when Redis is unreachable.
func openHistory(cfg *config.Config) cache.RunHistory {
	history, err := cache.NewRunHistory(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("run history disabled")
		return cache.NewNoopRunHistory()
	}
	return history
}
