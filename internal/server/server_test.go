package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docmark/internal/build"
	"git.home.luguber.info/inful/docmark/internal/metrics"
	smw "git.home.luguber.info/inful/docmark/internal/server/middleware"
)

func newTestServer(t *testing.T, opts Options) (*Server, string) {
	t.Helper()
	docs := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(docs, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("index.md", "# Home\n")
	write("guide/setup.md", "Setup *now*\n")
	write("guide/README.md", "Guide readme\n")
	write("guide/logo.svg", "<svg/>")
	write("wip.md", "---\ndraft: true\n---\nsecret\n")
	write("bad.md", "---\nbroken\n")
	write(".hidden.md", "hidden\n")
	write(".git/config", "[remote]\ntoken=secret\n")
	write(".git/notes.md", "notes\n")
	write("guide/.private/plan.md", "plan\n")

	opts.DocsDir = docs
	return New(build.NewRenderService(nil), opts), docs
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleDocument(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	h := s.Handler()

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{"root index", "/", http.StatusOK, "<h1>Home</h1>\n"},
		{"explicit md", "/guide/setup.md", http.StatusOK, "<p>Setup <em>now</em></p>\n"},
		{"extensionless", "/guide/setup", http.StatusOK, "<p>Setup <em>now</em></p>\n"},
		{"html name", "/guide/setup.html", http.StatusOK, "<p>Setup <em>now</em></p>\n"},
		{"directory readme", "/guide/", http.StatusOK, "<p>Guide readme</p>\n"},
		{"ansi", "/guide/setup?format=ansi", http.StatusOK, "Setup now\n"},
		{"missing", "/nope", http.StatusNotFound, ""},
		{"draft hidden", "/wip", http.StatusNotFound, ""},
		{"dotfile hidden", "/.hidden.md", http.StatusNotFound, ""},
		{"file in hidden dir", "/.git/config", http.StatusNotFound, ""},
		{"document in hidden dir", "/.git/notes", http.StatusNotFound, ""},
		{"nested hidden dir", "/guide/.private/plan.md", http.StatusNotFound, ""},
		{"bad format", "/index.md?format=pdf", http.StatusBadRequest, ""},
		{"bad frontmatter", "/bad.md", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestResolveStaysInDocsDir(t *testing.T) {
	s, docs := newTestServer(t, Options{})
	outside := filepath.Join(filepath.Dir(docs), "outside.md")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	_, ok := s.resolve("/../outside.md")
	assert.False(t, ok)

	_, ok = s.resolve("/.git/config")
	assert.False(t, ok)

	file, ok := s.resolve("/guide/../index")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(docs, "index.md"), file)
}

func TestHandleDocument_ContentTypes(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	h := s.Handler()

	assert.Equal(t, "text/html; charset=utf-8", get(t, h, "/").Header().Get("Content-Type"))
	assert.Equal(t, "text/plain; charset=utf-8", get(t, h, "/?format=terminal").Header().Get("Content-Type"))

	asset := get(t, h, "/guide/logo.svg")
	assert.Equal(t, http.StatusOK, asset.Code)
	assert.Equal(t, "<svg/>", asset.Body.String())
}

func TestHandleDocument_Drafts(t *testing.T) {
	s, _ := newTestServer(t, Options{IncludeDrafts: true})
	rec := get(t, s.Handler(), "/wip")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>secret</p>\n", rec.Body.String())
}

func TestHandleDocument_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := get(t, s.Handler(), "/")
	_, err := uuid.Parse(rec.Header().Get(smw.RequestIDHeader))
	require.NoError(t, err)
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prom.NewRegistry()
	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "index.md"), []byte("hi\n"), 0o644))

	svc := build.NewRenderService(nil).WithRecorder(metrics.NewPrometheusRecorder(reg))
	s := New(svc, Options{DocsDir: docs, MetricsPath: "/metrics", Metrics: metrics.HTTPHandler(reg)})

	require.Equal(t, http.StatusOK, get(t, s.Handler(), "/").Code)
	rec := get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "render_outcomes_total")
}

func TestStartStop(t *testing.T) {
	s, _ := newTestServer(t, Options{Address: "127.0.0.1:0"})
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, s.Stop(ctx))
	})

	resp, err := http.Get("http://" + s.Addr() + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Home</h1>\n", string(body))
}

func TestStart_AddressInUse(t *testing.T) {
	first, _ := newTestServer(t, Options{Address: "127.0.0.1:0"})
	require.NoError(t, first.Start(context.Background()))
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	second, _ := newTestServer(t, Options{Address: first.Addr()})
	require.Error(t, second.Start(context.Background()))
}
