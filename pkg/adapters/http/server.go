// Package http serves hypertext pages for the runtime to navigate.
//
// Pages are html/template files read from an fs.FS. A request for /a/b renders
// a/b.html or a/b/index.html. Templates receive a PageData value, so a demo
// page can echo submitted form fields or branch on soft navigations.
package http

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestHeader marks requests issued by the navigation pipeline.
const RequestHeader = "Way-Request"

// PageData is the template input of every page.
type PageData struct {
	Path   string
	Method string
	Query  url.Values
	Form   url.Values
	// Soft is true when the request carries the navigation marker header.
	Soft bool
	Now  time.Time
}

// Server renders pages from a file system.
type Server struct {
	pages   fs.FS
	logger  *slog.Logger
	metrics http.Handler
	observe func(status int, soft bool)
	clock   func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithObserver is called after every page request with the response status.
func WithObserver(fn func(status int, soft bool)) Option {
	return func(s *Server) {
		s.observe = fn
	}
}

// WithClock overrides the time reported to templates.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// NewHandler creates the page router.
func NewHandler(pages fs.FS, opts ...Option) http.Handler {
	s := &Server{
		pages:  pages,
		logger: slog.New(slog.DiscardHandler),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(enableCORS)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Get("/*", s.Page)
	r.Post("/*", s.Page)
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		if s.observe != nil && r.URL.Path != "/metrics" {
			s.observe(ww.Status(), isSoft(r))
		}
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"soft", isSoft(r),
			"duration", time.Since(start))
	})
}

// Page renders the template matching the request path.
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	name, err := Resolve(s.pages, r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	tmpl, err := template.ParseFS(s.pages, name)
	if err != nil {
		s.logger.Error("page parse failed", "page", name, "err", err)
		http.Error(w, "page error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	data := PageData{
		Path:   r.URL.Path,
		Method: r.Method,
		Query:  r.URL.Query(),
		Form:   r.PostForm,
		Soft:   isSoft(r),
		Now:    s.clock(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("page render failed", "page", name, "err", err)
		http.Error(w, "page error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Vary", RequestHeader)
	_, _ = w.Write(buf.Bytes())
}

// Resolve maps a URL path to a template name inside pages: "/a" serves
// a.html or a/index.html and "/" serves index.html.
func Resolve(pages fs.FS, p string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	candidates := []string{path.Join(clean, "index.html")}
	if clean != "" {
		if strings.HasSuffix(clean, ".html") {
			candidates = []string{clean}
		} else {
			candidates = []string{clean + ".html", path.Join(clean, "index.html")}
		}
	}
	for _, name := range candidates {
		if info, err := fs.Stat(pages, name); err == nil && !info.IsDir() {
			return name, nil
		}
	}
	return "", fs.ErrNotExist
}

func isSoft(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(RequestHeader), "true")
}
