// ABOUTME: Tests for server assembly, health endpoints, and lifecycle
// ABOUTME: Covers catalog loading, client restore from SQLite, and graceful shutdown

package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/admin-portal/internal/clients"
	"github.com/2389/admin-portal/internal/config"
	"github.com/2389/admin-portal/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{HTTPAddr: "127.0.0.1:0"},
		Auth: config.AuthConfig{
			Username:      "ram",
			SessionSecret: "server-test-secret-0123456789abcdef",
			SessionTTL:    time.Hour,
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthEndpoints(t *testing.T) {
	srv, err := New(testConfig(t), discardLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready (4 themes, 2 clients)", rec.Body.String())
}

func TestReady_WithoutResolver(t *testing.T) {
	srv := &Server{logger: discardLogger()}

	rec := httptest.NewRecorder()
	srv.handleReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNew_MountsWebAdmin(t *testing.T) {
	srv, err := New(testConfig(t), discardLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/css/themes/default.css")
}

func TestNew_CatalogFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Theming.CatalogPath = filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(cfg.Theming.CatalogPath, []byte(`
version = 1
default_theme = "plain"

[[themes]]
name = "plain"
display_name = "Plain"
css_file = "/css/themes/default.css"
logo_text = "Plain Portal"

[clients.solo]
name = "Solo Ltd"
theme = "plain"
`), 0644))

	srv, err := New(cfg, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, srv.Resolver().Themes().Len())
	assert.Equal(t, "Solo Ltd", srv.Resolver().ResolveBranding("solo").Title)
}

func TestNew_InvalidCatalogFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Theming.CatalogPath = filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(cfg.Theming.CatalogPath, []byte("version = 2\n"), 0644))

	_, err := New(cfg, discardLogger())
	assert.Error(t, err)
}

func TestNew_RestoresSavedClients(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Path = filepath.Join(t.TempDir(), "portal.db")

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	require.NoError(t, err)
	_, err = st.SaveClient(context.Background(), "client3", clients.Client{Name: "Saved Co", Theme: "dark"})
	require.NoError(t, err)
	_, err = st.SaveClient(context.Background(), "client1", clients.Client{Name: "Acme Override", Theme: "green"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	srv, err := New(cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	res := srv.Resolver()
	assert.Equal(t, 3, res.Directory().Len())
	assert.Equal(t, "dark", res.ResolveTheme("client3").Name)
	assert.Equal(t, "green", res.ResolveTheme("client1").Name)
}

func TestServe_GracefulShutdown(t *testing.T) {
	srv, err := New(testConfig(t), discardLogger())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "OK", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := withRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}), logger)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/dashboard")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "bytes=15")
	assert.Contains(t, out, "remote=10.0.0.7")
	assert.True(t, strings.Contains(out, "level=INFO"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, err := New(testConfig(t), discardLogger())
	require.NoError(t, err)

	for _, path := range []string{"/health", "/health", "/no-such-page"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `admin_portal_http_requests_total{endpoint="GET /health",method="GET",status="200"} 2`)
	assert.Contains(t, body, `admin_portal_http_requests_total{endpoint="/",method="GET",status="404"} 1`)
	assert.Contains(t, body, "admin_portal_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "admin_portal_themes 4")
	assert.Contains(t, body, "admin_portal_clients 2")
}

func TestMetricsTrackClientAdds(t *testing.T) {
	srv, err := New(testConfig(t), discardLogger())
	require.NoError(t, err)

	srv.Resolver().AddClient("client3", clients.Client{Name: "Third", Theme: "dark"})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "admin_portal_clients 3")
}

func TestResolveTailscaleAuthKey(t *testing.T) {
	t.Setenv("TS_AUTHKEY", "")

	_, err := resolveTailscaleAuthKey("")
	assert.Error(t, err)

	key, err := resolveTailscaleAuthKey("tskey-config")
	require.NoError(t, err)
	assert.Equal(t, "tskey-config", key)

	t.Setenv("TS_AUTHKEY", "tskey-env")
	key, err = resolveTailscaleAuthKey("")
	require.NoError(t, err)
	assert.Equal(t, "tskey-env", key)
}

func TestResolveTailscaleStateDir(t *testing.T) {
	dir, err := resolveTailscaleStateDir("/var/lib/portal/ts")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/portal/ts", dir)

	dir, err = resolveTailscaleStateDir("")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(dir, filepath.Join("admin-portal", "tailscale")))
}
