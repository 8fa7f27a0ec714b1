// Package options contains CLI helpers shared between commands.
package options

import (
	"fmt"

	"github.com/urfave/cli"
	"github.com/vkv-dev/vkv/pkg/config"
	"github.com/vkv-dev/vkv/pkg/mvcc"
	"github.com/vkv-dev/vkv/pkg/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is a CLI flag for the config file path.
var Config = cli.StringFlag{
	Name:  "config, c",
	Usage: "path to the YAML configuration file",
}

// Debug is a CLI flag overriding the configured log level.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (LOTS of output, overrides configuration)",
}

// GetConfigFromContext reads the configuration the config flag points
// to, falling back to the in-memory defaults when the flag is not set.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	path := ctx.String("config")
	if path == "" {
		path = ctx.GlobalString("config")
	}
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

// HandleLoggingParams creates a logger for the configured level. The
// debug flag overrides the level with zapcore.DebugLevel.
func HandleLoggingParams(debug bool, cfg config.Config) (*zap.Logger, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	return cc.Build()
}

// OpenStore opens the versioned store described by the given config.
func OpenStore(cfg config.Config, log *zap.Logger) (*mvcc.Store, error) {
	backend, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage backend: %w", err)
	}
	store, err := mvcc.NewStore(backend, log, mvcc.Options{
		SnapshotCacheSize: cfg.SnapshotCacheSize,
	})
	if err != nil {
		closeErr := backend.Close()
		if closeErr != nil {
			err = fmt.Errorf("%w, failed to close backend: %w", err, closeErr)
		}
		return nil, err
	}
	return store, nil
}
