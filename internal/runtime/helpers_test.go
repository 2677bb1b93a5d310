package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hyperway/internal/runtime"
	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/stretchr/testify/require"
)

type env struct {
	loop   *runtime.Loop
	engine *runtime.Engine
	win    *dom.Window
}

func newEnv(t *testing.T, location, page string, opts ...runtime.EngineOption) *env {
	t.Helper()
	loop := runtime.NewLoop(nil)
	t.Cleanup(loop.Close)

	win, err := dom.NewWindow(location)
	require.NoError(t, err)
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	win.Load(doc, win.Location(), false)

	return &env{loop: loop, engine: runtime.NewEngine(loop, opts...), win: win}
}

// eval evaluates a on the loop with the element of the given id as origin ("" for none).
func (e *env) eval(t *testing.T, originID string, a action.Action) (any, error) {
	t.Helper()
	var v any
	err := e.loop.Do(context.Background(), func() error {
		var origin *dom.Element
		if originID != "" {
			origin = e.win.Document().ElementByID(originID)
			require.NotNil(t, origin, "origin #%s", originID)
		}
		var err error
		v, err = e.engine.Evaluate(runtime.NewContext(context.Background(), e.win, origin), a)
		return err
	})
	return v, err
}

// do runs fn on the loop.
func (e *env) do(t *testing.T, fn func()) {
	t.Helper()
	require.NoError(t, e.loop.Do(context.Background(), func() error {
		fn()
		return nil
	}))
}

func (e *env) wait(t *testing.T) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.loop.Wait(ctx)
}

func (e *env) text(t *testing.T, id string) string {
	t.Helper()
	var s string
	e.do(t, func() {
		el := e.win.Document().ElementByID(id)
		require.NotNil(t, el, "#%s", id)
		s = el.TextContent()
	})
	return s
}
