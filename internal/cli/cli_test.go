package cli_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/aretw0/hyperway/internal/cli"
	"github.com/aretw0/hyperway/internal/config"
	"github.com/aretw0/hyperway/internal/logging"
	"github.com/aretw0/hyperway/internal/testutils"
	"github.com/aretw0/hyperway/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pages = fstest.MapFS{
	"index.html": {Data: []byte(`<html><head><title>Home</title></head><body>
<a id="next" href="/next" data-on-click='["NA", []]'>next</a>
<form id="f" action="/echo"><input id="name" name="name"></form>
<div data-frame="main:1"><p id="content">home</p></div>
</body></html>`)},
	"next.html": {Data: []byte(`<html><head><title>Next</title></head><body>
<div data-frame="main:2"><p id="content">next</p></div>
</body></html>`)},
	"echo.html": {Data: []byte(`<html><head><title>Echo</title></head><body><p id="content">{{.Query.Get "name"}}</p></body></html>`)},
}

func server(t *testing.T) *httptest.Server {
	t.Helper()
	srv, _ := testutils.NewSite(t, pages)
	return srv
}

func TestOpen_ClickPrintsHTML(t *testing.T) {
	srv := server(t)
	var stdout, stderr bytes.Buffer

	err := cli.Open(context.Background(), config.Default(), logging.NewNop(), cli.OpenOptions{
		URL:    srv.URL + "/",
		Clicks: []string{"next"},
		Client: srv.Client(),
	}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "<title>Next</title>")
	assert.Contains(t, stdout.String(), `<p id="content">next</p>`)
}

func TestOpen_InputAndSubmit(t *testing.T) {
	srv := server(t)
	var stdout, stderr bytes.Buffer

	err := cli.Open(context.Background(), config.Default(), logging.NewNop(), cli.OpenOptions{
		URL:    srv.URL + "/",
		Inputs: []string{"name=ada"},
		Submit: "f",
		Client: srv.Client(),
	}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), `<p id="content">ada</p>`)

	err = cli.Open(context.Background(), config.Default(), logging.NewNop(), cli.OpenOptions{
		URL:    srv.URL + "/",
		Inputs: []string{"name"},
		Client: srv.Client(),
	}, &stdout, &stderr)
	assert.ErrorContains(t, err, "expected id=value")
}

func TestOpen_SessionResume(t *testing.T) {
	srv := server(t)
	store := memory.NewStore()
	var stdout, stderr bytes.Buffer

	opts := cli.OpenOptions{
		URL:       srv.URL + "/",
		SessionID: "s1",
		Client:    srv.Client(),
		Store:     store,
	}
	require.NoError(t, cli.Open(context.Background(), config.Default(), logging.NewNop(), opts, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "saved session s1")

	stdout.Reset()
	stderr.Reset()
	opts.URL = ""
	opts.Clicks = []string{"next"}
	opts.Markdown = true
	require.NoError(t, cli.Open(context.Background(), config.Default(), logging.NewNop(), opts, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "resumed session s1")
	assert.Contains(t, stdout.String(), "# Next")
	assert.Contains(t, stdout.String(), "| main | 2 |")

	err := cli.Open(context.Background(), config.Default(), logging.NewNop(), cli.OpenOptions{
		SessionID: "unknown",
		Store:     store,
	}, &stdout, &stderr)
	assert.ErrorContains(t, err, "URL or an existing session")
}

func TestMorph(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "live.html")
	next := filepath.Join(dir, "next.html")
	require.NoError(t, os.WriteFile(live, []byte(`<html><head><title>A</title></head><body>
<div data-frame="a:1">old a</div><div data-frame="b:1">b</div><div data-frame="c">gone</div></body></html>`), 0o644))
	require.NoError(t, os.WriteFile(next, []byte(`<html><head><title>B</title></head><body>
<div data-frame="a:2">new a</div><div data-frame="b:1">ignored</div></body></html>`), 0o644))

	var stdout, stderr bytes.Buffer
	require.NoError(t, cli.Morph(logging.NewNop(), live, next, &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "<title>B</title>")
	assert.Contains(t, out, "new a")
	assert.Contains(t, out, ">b</div>")
	assert.NotContains(t, out, "gone")
	assert.Contains(t, stderr.String(), "replaced [a] removed [c] kept [b]")

	assert.Error(t, cli.Morph(logging.NewNop(), filepath.Join(dir, "nope.html"), next, &stdout, &stderr))
}

func TestServe_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stderr bytes.Buffer
	require.NoError(t, cli.Serve(ctx, logging.NewNop(), t.TempDir(), "127.0.0.1:0", &stderr))
	assert.Contains(t, stderr.String(), "serving")

	assert.Error(t, cli.Serve(context.Background(), logging.NewNop(), filepath.Join(t.TempDir(), "missing"), "127.0.0.1:0", &stderr))
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "run.log")

	logger, closeLog, err := cli.NewLogger(cfg)
	require.NoError(t, err)
	logger.Info("hello", "k", 1)
	require.NoError(t, closeLog())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)

	cfg.LogLevel = "loud"
	_, _, err = cli.NewLogger(cfg)
	assert.Error(t, err)
}

func writePages(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, f := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), f.Data, 0o644))
	}
	return dir
}

func TestLint(t *testing.T) {
	dir := writePages(t)
	var stdout, stderr bytes.Buffer

	require.NoError(t, cli.Lint(context.Background(), config.Default(), logging.NewNop(), cli.LintOptions{Dir: dir}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "/\tlinks=2 actions=1 frames=1")
	assert.Contains(t, stdout.String(), "/next\t")
	assert.Contains(t, stderr.String(), "3 pages, no problems")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "next.html"), []byte(`<a href="/gone" data-on-click='["XX"]'>x</a>`), 0o644))
	stderr.Reset()
	err := cli.Lint(context.Background(), config.Default(), logging.NewNop(), cli.LintOptions{Dir: dir}, &stdout, &stderr)
	assert.ErrorContains(t, err, "broken link: '/gone'")
	assert.ErrorContains(t, err, "unknown operation 'XX'")
}

func TestLint_GraphWithSession(t *testing.T) {
	srv := server(t)
	store := memory.NewStore()
	var stdout, stderr bytes.Buffer

	require.NoError(t, cli.Open(context.Background(), config.Default(), logging.NewNop(), cli.OpenOptions{
		URL:       srv.URL + "/",
		Clicks:    []string{"next"},
		SessionID: "g1",
		Client:    srv.Client(),
		Store:     store,
	}, &stdout, &stderr))

	stdout.Reset()
	require.NoError(t, cli.Lint(context.Background(), config.Default(), logging.NewNop(), cli.LintOptions{
		Dir:       writePages(t),
		Graph:     true,
		SessionID: "g1",
		Store:     store,
	}, &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "root --> p_next")
	assert.Contains(t, out, "class root visited;")
	assert.Contains(t, out, "class p_next current;")

	err := cli.Lint(context.Background(), config.Default(), logging.NewNop(), cli.LintOptions{
		Dir:       writePages(t),
		Graph:     true,
		SessionID: "missing",
		Store:     store,
	}, &stdout, &stderr)
	assert.ErrorContains(t, err, "failed to load session missing")
}
