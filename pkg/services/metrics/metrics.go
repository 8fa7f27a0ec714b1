// Package metrics provides auxiliary HTTP services exposing runtime
// information: Prometheus counters and pprof endpoints.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/vkv-dev/vkv/pkg/config"
	"go.uber.org/zap"
)

// Service serves metrics-related handlers.
type Service struct {
	servers     []*http.Server
	config      config.BasicService
	log         *zap.Logger
	serviceType string
}

// NewService configures the monitoring service.
func NewService(name string, servers []*http.Server, cfg config.BasicService, log *zap.Logger) *Service {
	return &Service{
		servers:     servers,
		config:      cfg,
		serviceType: name,
		log:         log.With(zap.String("service", name)),
	}
}

// Start runs the HTTP service on the configured endpoints.
func (ms *Service) Start() error {
	if !ms.config.Enabled {
		ms.log.Info("service hasn't started since it's disabled")
		return nil
	}
	for _, srv := range ms.servers {
		ms.log.Info("starting service", zap.String("endpoint", srv.Addr))
		go func(srv *http.Server) {
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				ms.log.Error("failed to start service",
					zap.String("endpoint", srv.Addr),
					zap.Error(err))
			}
		}(srv)
	}
	return nil
}

// ShutDown stops the service.
func (ms *Service) ShutDown() {
	if !ms.config.Enabled {
		return
	}
	for _, srv := range ms.servers {
		ms.log.Info("shutting down service", zap.String("endpoint", srv.Addr))
		err := srv.Shutdown(context.Background())
		if err != nil {
			ms.log.Error("can't shut service down",
				zap.String("endpoint", srv.Addr),
				zap.Error(err))
		}
	}
}
