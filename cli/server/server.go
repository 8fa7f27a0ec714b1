// Package server implements the command keeping the database open and
// serving its monitoring endpoints.
package server

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
	"github.com/vkv-dev/vkv/cli/options"
	"github.com/vkv-dev/vkv/pkg/services/metrics"
	"go.uber.org/zap"
)

// NewCommands returns the 'server' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:   "server",
		Usage:  "open the database and serve monitoring endpoints",
		Action: startServer,
		Flags:  []cli.Flag{options.Config, options.Debug},
	}}
}

func startServer(ctx *cli.Context) error {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	store, err := options.OpenStore(cfg, log)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("could not initialize store: %w", err), 1)
	}
	defer store.Close()

	prometheus := metrics.NewPrometheusService(cfg.Prometheus, log)
	pprof := metrics.NewPprofService(cfg.Pprof, log)
	if err := prometheus.Start(); err != nil {
		return cli.NewExitError(fmt.Errorf("failed to start prometheus service: %w", err), 1)
	}
	defer prometheus.ShutDown()
	if err := pprof.Start(); err != nil {
		return cli.NewExitError(fmt.Errorf("failed to start pprof service: %w", err), 1)
	}
	defer pprof.ShutDown()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	log.Info("database is serving",
		zap.Uint64("version", uint64(store.CurrentVersion())))
	sig := <-sigCh
	log.Info("shutting down", zap.String("signal", sig.String()))
	return nil
}
