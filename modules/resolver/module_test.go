package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grafana/dskit/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachfi/stationgo/pkg/radiobrowser"
	"github.com/zachfi/stationgo/pkg/station"
)

// newStreamServer serves audio on paths under /live and 404 elsewhere.
func newStreamServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/live") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("icy-name", "Test Stream")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newDirectoryServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/stations/search" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeRegistry(t *testing.T, stream string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.yaml")
	data := fmt.Sprintf(`stations:
  - id: curated
    name: Curated Worship
    url: %[1]s/down
    alternate_urls:
      - %[1]s/live
    tags: [worship]
    directory_ids: [uuid-curated]
`, stream)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func testModuleConfig(registryFile, directoryURL string) Config {
	return Config{
		Directory: radiobrowser.Config{
			URL:      directoryURL,
			Limit:    10,
			CacheTTL: time.Minute,
			Timeout:  2 * time.Second,
		},
		Probe:          ProbeConfig{Timeout: time.Second},
		Registry:       RegistryConfig{File: registryFile},
		RequestTimeout: 5 * time.Second,
	}
}

func startModule(t *testing.T, cfg Config) *Module {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := New(cfg, *logger, prometheus.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, services.StartAndAwaitRunning(context.Background(), m))
	t.Cleanup(func() {
		_ = services.StopAndAwaitTerminated(context.Background(), m)
	})
	return m
}

func TestModuleResolve(t *testing.T) {
	stream := newStreamServer(t)
	dir := newDirectoryServer(t, http.StatusOK, fmt.Sprintf(`[
  {"stationuuid": "uuid-curated", "name": "Curated Worship", "url_resolved": %[1]q},
  {"stationuuid": "uuid-live", "name": "Live Gospel", "url_resolved": %[1]q, "tags": "gospel"},
  {"stationuuid": "uuid-dead", "name": "Dead Gospel", "url_resolved": %[2]q, "tags": "gospel"}
]`, stream.URL+"/live-dir", stream.URL+"/gone"))

	m := startModule(t, testModuleConfig(writeRegistry(t, stream.URL), dir.URL))

	out, err := m.Resolve(context.Background(), station.Query{})
	require.NoError(t, err)

	got := byKey(out)
	require.Len(t, got, 3)

	curated := got["verified:curated"]
	assert.True(t, curated.IsWorking)
	assert.Equal(t, stream.URL+"/live", curated.ResolvedURL)
	assert.Equal(t, "Christian", curated.Genre)

	assert.True(t, got["radiobrowser:uuid-live"].IsWorking)
	assert.False(t, got["radiobrowser:uuid-dead"].IsWorking)
	assert.Equal(t, stream.URL+"/gone", got["radiobrowser:uuid-dead"].ResolvedURL)
}

func TestModuleDirectoryFailure(t *testing.T) {
	stream := newStreamServer(t)
	dir := newDirectoryServer(t, http.StatusInternalServerError, "oops")

	m := startModule(t, testModuleConfig(writeRegistry(t, stream.URL), dir.URL))

	out, err := m.Resolve(context.Background(), station.Query{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "verified:curated", out[0].Key())
	assert.True(t, out[0].IsWorking)
}

func TestModuleHTTP(t *testing.T) {
	stream := newStreamServer(t)
	dir := newDirectoryServer(t, http.StatusOK, `[]`)

	m := startModule(t, testModuleConfig(writeRegistry(t, stream.URL), dir.URL))

	mux := http.NewServeMux()
	h := m.Handler()
	mux.HandleFunc(StationsPath, h.Stations)
	mux.HandleFunc(VerifiedStationsPath, h.Verified)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + StationsPath + "?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stations []station.Resolved
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stations))
	require.Len(t, stations, 1)
	assert.True(t, stations[0].IsWorking)

	resp, err = http.Get(srv.URL + VerifiedStationsPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var verified []station.Base
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&verified))
	require.Len(t, verified, 1)
	assert.Equal(t, "curated", verified[0].ID)

	resp, err = http.Get(srv.URL + VerifiedStationsPath + "?id=curated")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var one station.Base
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&one))
	assert.Equal(t, "Curated Worship", one.Name)
}

func TestModuleNotRunning(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := New(testModuleConfig("", "http://127.0.0.1:1"), *logger, nil)
	require.NoError(t, err)

	_, err = m.Resolve(context.Background(), station.Query{})
	assert.ErrorIs(t, err, ErrNotRunning)

	_, err = m.Verified()
	assert.ErrorIs(t, err, ErrNotRunning)

	_, _, err = m.VerifiedStation("curated")
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestModuleMirrorDiscovery(t *testing.T) {
	stream := newStreamServer(t)
	servers := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"ip": "127.0.0.1", "name": "mirror.example"}]`)
	}))
	defer servers.Close()

	cfg := testModuleConfig(writeRegistry(t, stream.URL), radiobrowser.AutoURL)
	cfg.Directory.ServersURL = servers.URL
	m := startModule(t, cfg)

	assert.Equal(t, "https://mirror.example", m.resolver.source.(*radiobrowser.Client).BaseURL())
}

func TestModuleBadRelay(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testModuleConfig("", "")
	cfg.Relay.URL = "ftp://relay.example"

	_, err := New(cfg, *logger, nil)
	assert.Error(t, err)
}

func TestModuleRegistryMissing(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := New(testModuleConfig(filepath.Join(t.TempDir(), "missing.yaml"), ""), *logger, nil)
	require.NoError(t, err)

	assert.Error(t, services.StartAndAwaitRunning(context.Background(), m))
}
