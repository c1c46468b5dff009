package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/grafana/dskit/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachfi/stationgo/modules/resolver"
)

func TestNewModuleDependencies(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := New(Config{}, *logger)
	require.NoError(t, err)

	assert.Equal(t, All, a.cfg.Target)
	assert.ElementsMatch(t, []string{Server, Resolver}, a.ModuleManager.DependenciesForModule(All))
	assert.ElementsMatch(t, []string{Server}, a.ModuleManager.DependenciesForModule(Resolver))
}

func TestReadyHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	path := filepath.Join(t.TempDir(), "stations.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stations:\n  - id: a\n    name: A\n    url: http://a.example/\n"), 0o600))

	r, err := resolver.New(resolver.Config{Registry: resolver.RegistryConfig{File: path}}, *logger, nil)
	require.NoError(t, err)

	server := services.NewIdleService(nil, nil)
	a := &App{
		logger:     *logger,
		Resolver:   r,
		serviceMap: map[string]services.Service{Server: server, Resolver: r},
	}

	get := func() int {
		rec := httptest.NewRecorder()
		a.readyHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusServiceUnavailable, get())

	ctx := context.Background()
	require.NoError(t, services.StartAndAwaitRunning(ctx, server))
	assert.Equal(t, http.StatusServiceUnavailable, get())

	require.NoError(t, services.StartAndAwaitRunning(ctx, r))
	assert.Equal(t, http.StatusOK, get())

	require.NoError(t, services.StopAndAwaitTerminated(ctx, r))
	assert.Equal(t, http.StatusServiceUnavailable, get())

	require.NoError(t, services.StopAndAwaitTerminated(ctx, server))
}
