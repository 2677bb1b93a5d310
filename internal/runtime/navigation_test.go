package runtime_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/hyperway/internal/runtime"
	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startPage = `<html><head><title>Start</title></head><body>
<a id="next" href="/next" data-on-click='["NA",[]]'>next</a>
<main data-frame="main:1" id="main">start</main>
<div id="counter">0</div>
<form id="search" action="/search">
  <input name="q" value="go">
  <button id="go">Search</button>
</form>
<form id="save" action="/save" method="post"><input name="title" value="hello"></form>
</body></html>`

type recorder struct {
	mu      sync.Mutex
	headers []http.Header
	bodies  []string
}

func (r *recorder) record(req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers = append(r.headers, req.Header.Clone())
	r.bodies = append(r.bodies, string(body))
}

func (r *recorder) last() (http.Header, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.headers[len(r.headers)-1], r.bodies[len(r.bodies)-1]
}

func newServer(t *testing.T, rec *recorder) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			rec.record(req)
			next.ServeHTTP(w, req)
		})
	})
	html := func(w http.ResponseWriter, s string) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, s)
	}
	r.Get("/next", func(w http.ResponseWriter, req *http.Request) {
		html(w, `<html><head><title>Next</title></head><body><main data-frame="main:2" id="main">next</main><div id="counter">1</div></body></html>`)
	})
	r.Get("/moved", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/next", http.StatusFound)
	})
	r.Get("/search", func(w http.ResponseWriter, req *http.Request) {
		html(w, `<html><body><main data-frame="main:s" id="main">`+req.URL.Query().Get("q")+`</main></body></html>`)
	})
	r.Post("/save", func(w http.ResponseWriter, req *http.Request) {
		html(w, `<html><body><main data-frame="main:p" id="main">saved</main></body></html>`)
	})
	r.Get("/start", func(w http.ResponseWriter, req *http.Request) {
		html(w, `<html><body><main data-frame="main:9" id="main">fresh</main><div id="counter">42</div></body></html>`)
	})
	r.Get("/partial", func(w http.ResponseWriter, req *http.Request) {
		html(w, `<html><body><div id="counter">7</div><p id="fresh">new</p></body></html>`)
	})
	r.Get("/json", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	})
	r.Get("/bare", func(w http.ResponseWriter, req *http.Request) {
		w.Header()["Content-Type"] = nil
		w.Write([]byte("<p>x</p>"))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestNavigate_FollowAnchor(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec)
	var events []*domain.HistoryEvent
	e := newEnv(t, srv.URL+"/start", startPage, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnHistory: func(_ context.Context, ev *domain.HistoryEvent) { events = append(events, ev) },
	}))

	var handled bool
	e.do(t, func() {
		var err error
		handled, err = e.engine.Trigger(context.Background(), e.win.Document().ElementByID("next"), domain.AttrOnClick)
		require.NoError(t, err)
	})
	assert.True(t, handled)
	require.NoError(t, e.wait(t))

	header, _ := rec.last()
	assert.Equal(t, "true", header.Get(domain.HeaderRequest))

	assert.Equal(t, "next", e.text(t, "main"))
	assert.Equal(t, "0", e.text(t, "counter"), "non-frame content is left alone")
	e.do(t, func() {
		h := e.win.History()
		assert.Equal(t, "Next", e.win.Document().Title())
		assert.Equal(t, 2, h.Len())
		assert.Equal(t, srv.URL+"/next", h.Current().URL)
		assert.True(t, h.Current().Marked())
		assert.True(t, h.Entries()[0].Marked(), "the first push replaces the initial entry")
		assert.Equal(t, srv.URL+"/start", h.Entries()[0].URL)
		assert.Equal(t, srv.URL+"/next", e.win.Location().String())
	})
	require.Len(t, events, 2)
	assert.True(t, events[0].Replace)
	assert.False(t, events[1].Replace)
}

func TestNavigate_FirstReplaceOncePerPage(t *testing.T) {
	srv := newServer(t, &recorder{})
	var replaces int
	e := newEnv(t, srv.URL+"/start", startPage, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnHistory: func(_ context.Context, ev *domain.HistoryEvent) {
			if ev.Replace {
				replaces++
			}
		},
	}))

	for range 3 {
		_, err := e.eval(t, "", action.Location(action.Literal("/next")))
		require.NoError(t, err)
		require.NoError(t, e.wait(t))
	}
	assert.Equal(t, 1, replaces)
	e.do(t, func() {
		assert.Equal(t, 4, e.win.History().Len())
		assert.Equal(t, int64(3), e.win.History().Guard().Count())
	})
}

func TestNavigate_RedirectUsesResponseURL(t *testing.T) {
	srv := newServer(t, &recorder{})
	e := newEnv(t, srv.URL+"/start", startPage)

	_, err := e.eval(t, "", action.Location(action.Literal("/moved")))
	require.NoError(t, err)
	require.NoError(t, e.wait(t))
	e.do(t, func() {
		assert.Equal(t, srv.URL+"/next", e.win.Location().String())
	})
}

func TestNavigate_Options(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec)
	e := newEnv(t, srv.URL+"/start", startPage)

	_, err := e.eval(t, "", action.Location(action.Literal("/next"),
		action.WithHistory(false),
		action.WithHead(false),
		action.WithElements("counter"),
		action.WithHeader("X-Trace", "abc"),
	))
	require.NoError(t, err)
	require.NoError(t, e.wait(t))

	header, _ := rec.last()
	assert.Equal(t, "abc", header.Get("X-Trace"))
	assert.Equal(t, "1", e.text(t, "counter"))
	assert.Equal(t, "start", e.text(t, "main"), "only the listed elements are updated")
	e.do(t, func() {
		assert.Equal(t, "Start", e.win.Document().Title())
		assert.Equal(t, 1, e.win.History().Len())
	})
}

func TestNavigate_ElementsMissingOnEitherSide(t *testing.T) {
	cases := map[string]string{
		"missing from the response":  "go",
		"missing from the live page": "fresh",
	}
	for name, id := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, &recorder{})
			e := newEnv(t, srv.URL+"/start", startPage)

			_, err := e.eval(t, "", action.Location(action.Literal("/partial"),
				action.WithHistory(false),
				action.WithElements(id, "counter"),
			))
			require.NoError(t, err)
			require.NoError(t, e.wait(t))

			assert.Equal(t, "7", e.text(t, "counter"))
			e.do(t, func() {
				doc := e.win.Document()
				assert.Nil(t, doc.ElementByID("fresh"), "nothing is inserted for ids absent from the live page")
				assert.NotNil(t, doc.ElementByID("go"), "live elements absent from the response are kept")
			})
		})
	}
}

func TestNavigate_GlobalHistoryFlag(t *testing.T) {
	srv := newServer(t, &recorder{})
	e := newEnv(t, srv.URL+"/start", startPage, runtime.WithHistory(false))

	_, err := e.eval(t, "", action.Location(action.Literal("/next")))
	require.NoError(t, err)
	require.NoError(t, e.wait(t))
	assert.Equal(t, "next", e.text(t, "main"))
	e.do(t, func() {
		assert.Equal(t, 1, e.win.History().Len())
		assert.Equal(t, srv.URL+"/start", e.win.Location().String())
	})
}

func TestNavigate_RejectsNonHypertext(t *testing.T) {
	srv := newServer(t, &recorder{})
	e := newEnv(t, srv.URL+"/start", startPage)

	_, err := e.eval(t, "", action.Location(action.Literal("/json")))
	require.NoError(t, err)
	err = e.wait(t)
	var ctErr *runtime.ContentTypeError
	require.ErrorAs(t, err, &ctErr)
	assert.Equal(t, "application/json", ctErr.ContentType)

	_, err = e.eval(t, "", action.Location(action.Literal("/bare")))
	require.NoError(t, err)
	assert.ErrorIs(t, e.wait(t), runtime.ErrNoContentType)

	assert.Equal(t, "start", e.text(t, "main"), "the document is left untouched")
	e.do(t, func() {
		assert.Equal(t, 1, e.win.History().Len())
	})
}

func TestNavigate_ErrorHandler(t *testing.T) {
	srv := newServer(t, &recorder{})
	var seen []error
	e := newEnv(t, srv.URL+"/start", startPage, runtime.WithErrorHandler(func(err error) error {
		seen = append(seen, err)
		return nil
	}))

	_, err := e.eval(t, "", action.Location(action.Literal("/json")))
	require.NoError(t, err)
	require.NoError(t, e.wait(t), "a handler that swallows the error")
	assert.Len(t, seen, 1)
}

func TestSubmit_GetAndPost(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec)
	e := newEnv(t, srv.URL+"/start", startPage)

	_, err := e.eval(t, "go", action.Submit())
	require.NoError(t, err)
	require.NoError(t, e.wait(t))
	assert.Equal(t, "go", e.text(t, "main"))
	e.do(t, func() {
		assert.Equal(t, srv.URL+"/search?q=go", e.win.Location().String())
	})

	e2 := newEnv(t, srv.URL+"/start", startPage)
	_, err = e2.eval(t, "save", action.Submit(action.WithHistory(false)))
	require.NoError(t, err)
	require.NoError(t, e2.wait(t))
	assert.Equal(t, "saved", e2.text(t, "main"))

	header, body := rec.last()
	assert.Equal(t, "application/x-www-form-urlencoded", header.Get("Content-Type"))
	assert.Equal(t, "title=hello", body)
}

func TestFormRequest_MultipartKeepsDocumentOrder(t *testing.T) {
	doc, err := dom.ParseString(`<form id="f" action="/upload" method="post" enctype="multipart/form-data">
  <input name="zeta" value="1">
  <input name="alpha" value="2">
  <input name="mid" value="3">
  <input name="alpha" value="4">
  <button id="send" name="op" value="send">Send</button>
</form>`)
	require.NoError(t, err)

	target, init, err := runtime.FormRequest(doc.ElementByID("f"), doc.ElementByID("send"))
	require.NoError(t, err)
	assert.Equal(t, "/upload", target)

	_, params, err := mime.ParseMediaType(init.ContentType)
	require.NoError(t, err)
	r := multipart.NewReader(bytes.NewReader(init.Body), params["boundary"])
	var got []string
	for {
		part, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		value, err := io.ReadAll(part)
		require.NoError(t, err)
		got = append(got, part.FormName()+"="+string(value))
	}
	assert.Equal(t, []string{"zeta=1", "alpha=2", "mid=3", "alpha=4", "op=send"}, got)
}

func TestSubmit_RequiresForm(t *testing.T) {
	e := newEnv(t, "http://example.test/", startPage)
	_, err := e.eval(t, "counter", action.Submit())
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "HTMLFormElement"))
}

func TestRender_RefreshesOrigin(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec)
	e := newEnv(t, srv.URL+"/start", startPage)

	_, err := e.eval(t, "counter", action.Render())
	require.NoError(t, err)
	require.NoError(t, e.wait(t))

	assert.Equal(t, "42", e.text(t, "counter"))
	assert.Equal(t, "start", e.text(t, "main"))
	e.do(t, func() {
		assert.Equal(t, 1, e.win.History().Len())
		assert.Equal(t, "Start", e.win.Document().Title())
	})
}

func TestParseOptions(t *testing.T) {
	opts, err := runtime.ParseOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, runtime.DefaultOptions(), opts)

	opts, err = runtime.ParseOptions([]any{[]any{"EL", "a", "b"}, []any{"SC", "a"}})
	require.NoError(t, err)
	assert.False(t, opts.Body)
	assert.Equal(t, []string{"a", "b"}, opts.Elements)
	assert.Equal(t, "a", opts.Scroll)

	assert.Equal(t, action.Seq(action.UpdateHead(), action.UpdateElements("a", "b"), action.ScrollTo("a"), action.HistoryPush()), runtime.Synthesize(opts))

	_, err = runtime.ParseOptions([]any{[]any{"XX"}})
	assert.Error(t, err)
	_, err = runtime.ParseOptions([]any{[]any{"HI", "yes"}})
	assert.Error(t, err)
}
