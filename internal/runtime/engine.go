package runtime

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/hyperway/internal/logging"
	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
	"golang.org/x/net/html"
)

// Engine evaluates actions against the documents of a loop.
// Every method except NewEngine must be called on the loop goroutine.
type Engine struct {
	loop    *Loop
	fetcher Fetcher
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	onError func(error) error
	history bool
	headers http.Header
	timeout time.Duration

	timers map[*html.Node]*timer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFetcher sets the client used by the navigation pipeline (default: http.DefaultClient).
func WithFetcher(f Fetcher) EngineOption {
	return func(e *Engine) {
		e.fetcher = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithErrorHandler sets the hook applied to failures of asynchronous work
// (navigation continuations, timers). Whatever it returns is reported to the loop.
func WithErrorHandler(h func(error) error) EngineOption {
	return func(e *Engine) {
		e.onError = h
	}
}

// WithHistory enables or disables history mutation globally (default: enabled).
func WithHistory(enabled bool) EngineOption {
	return func(e *Engine) {
		e.history = enabled
	}
}

// WithHeaders adds headers to every navigation request.
func WithHeaders(h http.Header) EngineOption {
	return func(e *Engine) {
		e.headers = h.Clone()
	}
}

// WithTimeout bounds each navigation round trip. Zero means no limit.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.timeout = d
	}
}

// NewEngine creates an engine bound to loop.
func NewEngine(loop *Loop, opts ...EngineOption) *Engine {
	e := &Engine{
		loop:    loop,
		fetcher: http.DefaultClient,
		logger:  logging.NewNop(),
		history: true,
		timers:  make(map[*html.Node]*timer),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Loop returns the loop the engine runs on.
func (e *Engine) Loop() *Loop {
	return e.loop
}

// Evaluate runs a in c. The template a is never modified.
func (e *Engine) Evaluate(c *Context, a action.Action) (any, error) {
	if len(a) == 0 {
		return nil, &action.ArgError{Name: "action", Expected: "a non-empty Array", Actual: []any(a)}
	}
	code, ok := a[0].(string)
	if !ok {
		return nil, &action.ArgError{Name: "opcode", Expected: "a String value", Actual: a[0]}
	}
	op, ok := action.ParseOpcode(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", action.ErrUnknownOperation, code)
	}

	v, err := e.dispatch(c, op, action.NewOperands(code, a[1:]))
	e.emitEvaluate(c, code, err)
	if err != nil {
		return nil, attribute(code, err)
	}
	return v, nil
}

func (e *Engine) dispatch(c *Context, op action.Opcode, ops *action.Operands) (any, error) {
	switch op {
	case action.OpArgsRead:
		return e.argsRead(c, ops)
	case action.OpContextRead:
		return e.contextRead(c, ops)
	case action.OpContextWrite:
		return e.contextWrite(c, ops)
	case action.OpElementByID:
		return e.elementByID(c, ops)
	case action.OpElementTarget:
		return orNil(c.Origin), nil
	case action.OpGlobalRead:
		return c.Window()
	case action.OpTypeEnsure:
		return e.typeEnsure(c, ops)
	case action.OpLiteral:
		return ops.Next("value")
	case action.OpNoop:
		return nil, nil
	case action.OpThrowError:
		return e.throwError(c, ops)
	case action.OpPropertyRead:
		return e.propertyRead(c, ops, true)
	case action.OpPropertyReadAny:
		return e.propertyRead(c, ops, false)
	case action.OpPropertyWrite:
		return e.propertyWrite(c, ops)
	case action.OpInvokeVirtual:
		return e.invoke(c, ops, true)
	case action.OpInvokeUnchecked:
		return e.invoke(c, ops, false)
	case action.OpChain:
		return e.chain(c, ops)
	case action.OpSequence:
		return e.sequence(c, ops)
	case action.OpIfElse:
		return e.ifElse(c, ops)
	case action.OpFunction:
		return e.function(c, ops)
	case action.OpForEach:
		return e.forEach(c, ops)
	case action.OpDelay:
		return nil, e.delay(c, ops)
	case action.OpMorph:
		return nil, e.morph(c, ops)
	case action.OpNavigate:
		return nil, e.follow(c, ops)
	case action.OpSubmit:
		return nil, e.submit(c, ops)
	case action.OpRender:
		return nil, e.render(c, ops)
	case action.OpLocation:
		return nil, e.location(c, ops)
	case action.OpUpdateHead:
		return nil, e.updateHead(c)
	case action.OpUpdateBody:
		return nil, e.updateBody(c)
	case action.OpUpdateElements:
		return nil, e.updateElements(c, ops)
	case action.OpScrollTo:
		return nil, e.scrollTo(c, ops)
	case action.OpHistoryPush:
		return nil, e.historyPush(c)
	}
	return nil, fmt.Errorf("%w: %q", action.ErrUnknownOperation, ops.Op())
}

// report routes an asynchronous failure through the error hook to the loop.
func (e *Engine) report(err error) {
	if err == nil {
		return
	}
	if e.onError != nil {
		err = e.onError(err)
	}
	if err != nil {
		e.logger.Error("asynchronous evaluation failed", "error", err)
		e.loop.Report(err)
	}
}

func (e *Engine) emitEvaluate(c *Context, op string, err error) {
	if e.hooks.OnEvaluate == nil {
		return
	}
	e.hooks.OnEvaluate(c.Ctx(), &domain.EvaluateEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventEvaluate},
		Op:        op,
		IsError:   err != nil,
	})
}

// orNil avoids handing a typed nil pointer to actions as a non-nil value.
func orNil(el *dom.Element) any {
	if el == nil {
		return nil
	}
	return el
}
