package resolver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zachfi/stationgo/pkg/probe"
	"github.com/zachfi/stationgo/pkg/radiobrowser"
	"github.com/zachfi/stationgo/pkg/registry"
	"github.com/zachfi/stationgo/pkg/relay"
	"github.com/zachfi/stationgo/pkg/station"
)

var module = "resolver"

// ErrNotRunning is returned while the module is starting or after it stopped.
var ErrNotRunning = errors.New("resolver is not running")

// Module runs the Resolver as a dskit service.
type Module struct {
	services.Service
	cfg     *Config
	logger  *slog.Logger
	metrics *Metrics
	relay   *relay.Rewriter
	client  *http.Client

	registry *registry.Registry
	resolver *Resolver
}

// New creates and returns a new resolver module. The registry and the
// directory are set up when the service starts.
func New(cfg Config, logger slog.Logger, reg prometheus.Registerer) (*Module, error) {
	rw, err := relay.New(cfg.Relay.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid relay url")
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = defaultMaxLimit
	}
	if cfg.MaxConcurrentStations < 0 {
		cfg.MaxConcurrentStations = 0
	}

	m := &Module{
		cfg:     &cfg,
		logger:  logger.With("module", module),
		metrics: NewMetrics(reg),
		relay:   rw,
		client:  newHTTPClient(),
	}

	m.Service = services.NewBasicService(m.starting, m.running, m.stopping)

	return m, nil
}

func (m *Module) starting(ctx context.Context) error {
	reg, err := m.loadRegistry()
	if err != nil {
		m.logger.Error("error loading registry", "err", err)
		return err
	}

	dirCfg := m.cfg.Directory
	if dirCfg.URL == radiobrowser.AutoURL {
		dirCfg.URL = m.discoverMirror(ctx)
	}

	dir := radiobrowser.New(dirCfg,
		radiobrowser.WithHTTPClient(m.client),
		radiobrowser.WithLogger(m.logger),
	)

	prober := probe.New(
		probe.WithClient(m.client),
		probe.WithTimeout(m.cfg.Probe.Timeout),
		probe.WithUserAgent(m.cfg.Probe.UserAgent),
		probe.WithObserver(m.metrics.observeProbe),
	)

	m.registry = reg
	m.resolver = NewResolver(reg, dir, prober, m.relay, m.logger, Options{
		RequestTimeout:        m.cfg.RequestTimeout,
		MaxConcurrentStations: m.cfg.MaxConcurrentStations,
		Metrics:               m.metrics,
	})

	m.logger.Info("resolver ready",
		"verified", reg.Len(),
		"directory", dir.BaseURL(),
		"relay", m.relay.Base(),
		"probe_timeout", prober.Timeout(),
	)

	return nil
}

func (m *Module) running(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (m *Module) stopping(_ error) error {
	m.client.CloseIdleConnections()
	m.logger.Info("resolver stopped")
	return nil
}

// Resolve lists and resolves stations for q.
func (m *Module) Resolve(ctx context.Context, q station.Query) ([]station.Resolved, error) {
	if m.State() != services.Running {
		return nil, ErrNotRunning
	}
	return m.resolver.Resolve(ctx, q), nil
}

// Verified returns the curated stations without probing them.
func (m *Module) Verified() ([]station.Base, error) {
	if m.State() != services.Running {
		return nil, ErrNotRunning
	}
	return m.registry.List(), nil
}

// VerifiedStation returns one curated station by id.
func (m *Module) VerifiedStation(id string) (station.Base, bool, error) {
	if m.State() != services.Running {
		return station.Base{}, false, ErrNotRunning
	}
	s, ok := m.registry.Lookup(id)
	return s, ok, nil
}

func (m *Module) loadRegistry() (*registry.Registry, error) {
	if m.cfg.Registry.File == "" {
		return registry.Default(), nil
	}

	reg, err := registry.LoadFile(m.cfg.Registry.File, m.cfg.Registry.IncludeDefaults)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load registry file")
	}
	return reg, nil
}

// discoverMirror falls back to the default base when the mirror list cannot
// be read.
func (m *Module) discoverMirror(ctx context.Context) string {
	timeout := m.cfg.Directory.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	base, err := radiobrowser.DiscoverMirror(ctx, m.client, m.cfg.Directory.ServersURL)
	if err != nil {
		m.logger.Warn("mirror discovery failed, using default directory", "err", err, "url", radiobrowser.DefaultURL)
		return radiobrowser.DefaultURL
	}

	m.logger.Info("discovered directory mirror", "url", base)
	return base
}

// newHTTPClient returns the client shared by the prober and the directory.
// Deadlines are applied per request through contexts.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}
