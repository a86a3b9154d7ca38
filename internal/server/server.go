// Package server serves a docs directory over HTTP, rendering markdown
// documents on each request.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docmark/internal/build"
	"git.home.luguber.info/inful/docmark/internal/config"
	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/internal/logfields"
	smw "git.home.luguber.info/inful/docmark/internal/server/middleware"
)

// Options configures the server.
type Options struct {
	Address string
	DocsDir string

	// MetricsPath and Metrics mount a metrics handler; both must be set.
	MetricsPath string
	Metrics     http.Handler

	IncludeDrafts bool
}

// Server renders documents from DocsDir per request.
type Server struct {
	svc          *build.DefaultRenderService
	opts         Options
	errorAdapter *errors.HTTPErrorAdapter
	handler      http.Handler
	httpServer   *http.Server
	ln           net.Listener
}

// New wires the routes. Start must be called to accept connections.
func New(svc *build.DefaultRenderService, opts Options) *Server {
	s := &Server{
		svc:          svc,
		opts:         opts,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if opts.MetricsPath != "" && opts.Metrics != nil {
		mux.Handle(opts.MetricsPath, opts.Metrics)
	}
	mux.HandleFunc("/", s.handleDocument)

	s.handler = smw.Chain(slog.Default(), s.errorAdapter)(mux)
	return s
}

// Handler returns the routed handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the listen address, failing fast when it is in use, and
// serves in the background.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Address)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "failed to bind listen address").
			WithContext("address", s.opts.Address).
			Build()
	}
	s.ln = ln
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("docs server error", logfields.Error(err))
		}
	}()
	slog.Info("HTTP server started", logfields.Addr(ln.Addr().String()), logfields.Path(s.opts.DocsDir))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "docs server shutdown").Build()
	}
	slog.Info("HTTP server stopped")
	return nil
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		s.errorAdapter.WriteErrorResponse(w, r, errors.ValidationError("method not allowed").
			WithContext("method", r.Method).
			Build())
		return
	}

	format := config.OutputFormatHTML
	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := config.ParseOutputFormat(raw)
		if err != nil {
			s.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryValidation, "invalid format").Build())
			return
		}
		format = f
	}

	file, ok := s.resolve(r.URL.Path)
	if !ok {
		s.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("document not found").
			WithContext("path", r.URL.Path).
			Build())
		return
	}
	if !build.IsMarkdownFile(file) {
		http.ServeFile(w, r, file)
		return
	}

	content, err := os.ReadFile(file)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").Build())
		return
	}
	res, err := s.svc.Render(r.Context(), build.RenderRequest{
		Name:    file,
		Content: content,
		Format:  format,
	})
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if res.Draft && !s.opts.IncludeDrafts {
		s.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("document not found").
			WithContext("path", r.URL.Path).
			Build())
		return
	}

	if format == config.OutputFormatANSI {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.Header().Set("Cache-Control", "no-cache")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(res.Output)
}

// resolve maps a URL path to a file under DocsDir. Directories resolve to
// index.md or README.md, "/guide" and "/guide.html" to "guide.md".
func (s *Server) resolve(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if hiddenPath(rel) {
		return "", false
	}
	base := filepath.Join(s.opts.DocsDir, filepath.FromSlash(rel))

	candidates := []string{base}
	if strings.HasSuffix(rel, ".html") {
		candidates = []string{strings.TrimSuffix(base, ".html") + ".md"}
	}
	if info, err := os.Stat(base); err == nil && info.IsDir() {
		candidates = []string{filepath.Join(base, "index.md"), filepath.Join(base, "README.md")}
	} else if filepath.Ext(rel) == "" {
		candidates = append(candidates, base+".md", base+".markdown")
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() && !strings.HasPrefix(filepath.Base(c), ".") {
			return c, true
		}
	}
	return "", false
}

// hiddenPath reports whether any component of a slash separated path
// starts with a dot.
func hiddenPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
