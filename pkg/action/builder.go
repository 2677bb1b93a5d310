package action

// New builds an action from an opcode and its operands.
// Nested actions are stored as plain sequences so the result is pure JSON data.
func New(op Opcode, operands ...any) Action {
	a := make(Action, 0, len(operands)+1)
	a = append(a, op.Code())
	for _, operand := range operands {
		a = append(a, plain(operand))
	}
	return a
}

func plain(v any) any {
	switch x := v.(type) {
	case Action:
		return []any(x)
	case Option:
		return []any(x)
	case []Action:
		list := make([]any, len(x))
		for i, item := range x {
			list[i] = []any(item)
		}
		return list
	case []Option:
		list := make([]any, len(x))
		for i, item := range x {
			list[i] = []any(item)
		}
		return list
	}
	return v
}

func Literal(v any) Action { return New(OpLiteral, v) }

func Target() Action { return New(OpElementTarget) }

func Global() Action { return New(OpGlobalRead) }

func Noop() Action { return New(OpNoop) }

func ElementByID(id string) Action { return New(OpElementByID, Literal(id)) }

func Arg(index int) Action { return New(OpArgsRead, index) }

func ContextRead(name string) Action { return New(OpContextRead, name) }

func ContextWrite(name string, value Action) Action { return New(OpContextWrite, name, value) }

func TypeEnsure(typeName string) Action { return New(OpTypeEnsure, typeName) }

func ThrowError(msg Action) Action { return New(OpThrowError, msg) }

// Chain evaluates the actions in order, feeding each result into the receiver.
func Chain(actions ...Action) Action {
	operands := make([]any, len(actions))
	for i, a := range actions {
		operands[i] = a
	}
	return New(OpChain, operands...)
}

// Seq evaluates the actions in order for their side effects.
func Seq(actions ...Action) Action {
	operands := make([]any, len(actions))
	for i, a := range actions {
		operands[i] = a
	}
	return New(OpSequence, operands...)
}

func IfElse(onTrue, onFalse Action) Action { return New(OpIfElse, onTrue, onFalse) }

func Function(body Action) Action { return New(OpFunction, body) }

func ForEach(typeName string, body Action) Action { return New(OpForEach, typeName, body) }

func PropertyRead(typeName, name string) Action { return New(OpPropertyRead, typeName, name) }

func PropertyReadUnchecked(name string) Action { return New(OpPropertyReadAny, name) }

func PropertyWrite(typeName, name string, value Action) Action {
	return New(OpPropertyWrite, typeName, name, value)
}

func InvokeVirtual(typeName, method string, args ...Action) Action {
	return New(OpInvokeVirtual, typeName, method, args)
}

func InvokeUnchecked(method string, args ...Action) Action {
	return New(OpInvokeUnchecked, method, args)
}

func Morph(src Action) Action { return New(OpMorph, src) }

// Delay schedules body after ms milliseconds, debounced per origin element.
func Delay(ms int, body Action) Action { return New(OpDelay, ms, body) }

// Navigate follows the origin anchor.
func Navigate(opts ...Option) Action { return New(OpNavigate, opts) }

// Submit submits the origin form.
func Submit(opts ...Option) Action { return New(OpSubmit, opts) }

// Render refreshes the origin element from the current location.
func Render(opts ...Option) Action { return New(OpRender, opts) }

// Location navigates to the URL produced by url.
func Location(url Action, opts ...Option) Action { return New(OpLocation, url, opts) }

func UpdateHead() Action { return New(OpUpdateHead) }

func UpdateBody() Action { return New(OpUpdateBody) }

func UpdateElements(ids ...string) Action {
	operands := make([]any, len(ids))
	for i, id := range ids {
		operands[i] = id
	}
	return New(OpUpdateElements, operands...)
}

func ScrollTo(id string) Action { return New(OpScrollTo, id) }

func HistoryPush() Action { return New(OpHistoryPush) }
