// Package bootstrap wires the dependency graph shared by toolchainctl and configd.
package bootstrap

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"toolchain_config/internal/app/port"
	"toolchain_config/internal/app/provider"
	"toolchain_config/internal/app/service"
	"toolchain_config/internal/client"
	"toolchain_config/internal/config"
	"toolchain_config/internal/infrastructure/configloader"
	"toolchain_config/internal/infrastructure/envloader"
	"toolchain_config/internal/infrastructure/httpclient"
	networkclient "toolchain_config/internal/infrastructure/network/client"
	"toolchain_config/internal/pkg/metrics"
)

// App holds the loaded configuration and the services built around it.
type App struct {
	Settings  *config.Settings
	Config    provider.ConfigProvider
	Env       port.EnvLookup
	Dotenv    *envloader.DotenvFile
	Clients   *networkclient.EVMClientProvider
	Mirror    httpclient.SourcifyClient
	Preflight *service.PreflightServiceImpl
	Registry  *prometheus.Registry
	Logger    port.Logger
}

// Environment returns the lookup used for secrets: the process environment,
// with the dotenv file at path filling the gaps.
func Environment(path string) (port.EnvLookup, *envloader.DotenvFile, error) {
	dotenv, err := envloader.LoadDotenvFile(path)
	if err != nil {
		return nil, nil, err
	}
	return dotenv.Layered(envloader.OS()), dotenv, nil
}

// New loads the toolchain configuration and builds the services. Errors from
// configloader.LoadConfig are returned unwrapped so callers can inspect them.
func New(s *config.Settings, log port.Logger, zapLogger *zap.Logger) (*App, error) {
	env, dotenv, err := Environment(s.DotenvPath)
	if err != nil {
		return nil, err
	}
	log.Debug("Environment prepared", "dotenv", dotenv.Path(), "dotenv_vars", dotenv.Len())

	cfg, err := configloader.LoadConfig(env)
	if err != nil {
		return nil, err
	}
	cp := provider.NewConfigProvider(cfg, log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	clients := networkclient.NewEVMClientProvider(log, s.Preflight.ConnectionTimeout, s.Preflight.CallTimeout)
	mirror := client.NewSourcifyClient(s.Sourcify.URL, s.Sourcify.Timeout, zapLogger)

	preflight := service.NewPreflightService(cp, cp, clients, mirror, log, service.PreflightOptions{
		Timeout:           s.Preflight.Timeout,
		Concurrency:       s.Preflight.Concurrency,
		RequestsPerSecond: s.Preflight.RequestsPerSecond,
		Burst:             s.Preflight.Burst,
		CacheTTL:          cacheTTL(s.Preflight),
		Metrics:           metrics.NewPreflight(registry),
	})

	return &App{
		Settings:  s,
		Config:    cp,
		Env:       env,
		Dotenv:    dotenv,
		Clients:   clients,
		Mirror:    mirror,
		Preflight: preflight,
		Registry:  registry,
		Logger:    log,
	}, nil
}

// cacheTTL maps a zero TTL in the settings to "no caching".
func cacheTTL(s config.PreflightSettings) time.Duration {
	if s.CacheTTL <= 0 {
		return -1
	}
	return s.CacheTTL
}

// Close releases the RPC connections opened by preflight.
func (a *App) Close() {
	if a == nil || a.Clients == nil {
		return
	}
	a.Clients.Close()
	a.Logger.Debug("Chain clients closed")
}

// DescribeLoadError renders a LoadConfig failure for humans, listing each
// network with a missing credential.
func DescribeLoadError(err error) string {
	networks := configloader.MissingCredentialNetworks(err)
	if len(networks) == 0 {
		return err.Error()
	}
	return fmt.Sprintf("%v (networks without credentials: %v)", err, networks)
}
