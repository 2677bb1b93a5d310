package testutils

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	pagehttp "github.com/aretw0/hyperway/pkg/adapters/http"
	"github.com/aretw0/hyperway/pkg/domain"
)

// Recorder logs every request a test site receives as "METHOD /uri",
// with a " soft" suffix for runtime-initiated navigations.
type Recorder struct {
	mu   sync.Mutex
	reqs []string
}

// Wrap records the request before handing it to next.
func (r *Recorder) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		line := req.Method + " " + req.URL.RequestURI()
		if req.Header.Get(domain.HeaderRequest) == "true" {
			line += " soft"
		}
		r.mu.Lock()
		r.reqs = append(r.reqs, line)
		r.mu.Unlock()
		next.ServeHTTP(w, req)
	})
}

// Requests returns a copy of the recorded request lines.
func (r *Recorder) Requests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reqs...)
}

// NewSite serves pages through the page server for the duration of the test.
// The server is closed on cleanup.
func NewSite(t *testing.T, pages fs.FS, opts ...pagehttp.Option) (*httptest.Server, *Recorder) {
	t.Helper()

	rec := &Recorder{}
	srv := httptest.NewServer(rec.Wrap(pagehttp.NewHandler(pages, opts...)))
	t.Cleanup(srv.Close)
	return srv, rec
}
