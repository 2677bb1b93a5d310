package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
)

// Fetcher performs navigation requests. *http.Client satisfies it.
type Fetcher interface {
	Do(*http.Request) (*http.Response, error)
}

// Options is the resolved form of a navigation option list.
type Options struct {
	History  bool
	Head     bool
	Body     bool
	Elements []string
	Scroll   string
	Headers  http.Header
}

// DefaultOptions pushes history, updates head and body, and scrolls to the root.
func DefaultOptions() Options {
	return Options{History: true, Head: true, Body: true}
}

// ParseOptions resolves a list of option tuples over the defaults.
func ParseOptions(list []any) (Options, error) {
	opts := DefaultOptions()
	for i, item := range list {
		tuple, err := action.CheckArray(item, fmt.Sprintf("options[%d]", i))
		if err != nil {
			return opts, err
		}
		ops := action.NewOperands("options", tuple)
		code, err := ops.String("code")
		if err != nil {
			return opts, err
		}

		switch code {
		case action.OptionHistory:
			opts.History, err = ops.Boolean("history")
		case action.OptionHead:
			opts.Head, err = ops.Boolean("head")
		case action.OptionBody:
			opts.Body, err = ops.Boolean("body")
		case action.OptionElements:
			opts.Body = false
			for ops.Len() > 0 {
				var id string
				if id, err = ops.String("id"); err != nil {
					break
				}
				opts.Elements = append(opts.Elements, id)
			}
		case action.OptionScroll:
			opts.Scroll, err = ops.String("scroll")
		case action.OptionHeader:
			var name, value string
			if name, err = ops.String("name"); err != nil {
				break
			}
			if value, err = ops.String("value"); err != nil {
				break
			}
			if opts.Headers == nil {
				opts.Headers = http.Header{}
			}
			opts.Headers.Add(name, value)
		default:
			err = &action.ArgError{Op: "options", Name: "code", Expected: "a known option code", Actual: code}
		}
		if err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// Synthesize builds the follow-up sequence that applies a response.
func Synthesize(opts Options) action.Action {
	var steps []action.Action
	if opts.Head {
		steps = append(steps, action.UpdateHead())
	}
	switch {
	case len(opts.Elements) > 0:
		steps = append(steps, action.UpdateElements(opts.Elements...))
	case opts.Body:
		steps = append(steps, action.UpdateBody())
	}
	steps = append(steps, action.ScrollTo(opts.Scroll))
	if opts.History {
		steps = append(steps, action.HistoryPush())
	}
	return action.Seq(steps...)
}

// RequestInit overrides parts of a navigation request.
type RequestInit struct {
	Method      string
	Body        []byte
	ContentType string
	Header      http.Header
}

// Navigate issues a soft navigation to target. The request runs off the loop;
// the response is applied on the loop once it arrives, in completion order.
// Failures of the round trip or of the follow-up sequence go to the error hook.
func (e *Engine) Navigate(c *Context, list []any, target string, init RequestInit) error {
	opts, err := ParseOptions(list)
	if err != nil {
		return err
	}
	return e.navigate(c, opts, target, init)
}

func (e *Engine) navigate(c *Context, opts Options, target string, init RequestInit) error {
	if !e.history {
		opts.History = false
	}
	win, err := c.Window()
	if err != nil {
		return err
	}
	u, err := win.Resolve(target)
	if err != nil {
		return err
	}

	ctx, cancel := c.Ctx(), context.CancelFunc(func() {})
	if e.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
	}
	req, err := e.newRequest(ctx, u, init, opts.Headers)
	if err != nil {
		cancel()
		return err
	}
	req.Header.Set(domain.HeaderRequest, "true")
	method := req.Method

	e.logger.Debug("navigating", "method", method, "url", req.URL.String())
	done := e.loop.Async()
	go func() {
		defer cancel()
		start := time.Now()
		resp, err := e.fetcher.Do(req)
		var page response
		if err == nil {
			page, err = readResponse(req, resp)
		} else {
			err = fmt.Errorf("request %s %s: %w", method, req.URL, err)
		}
		done(func() {
			e.emitNavigate(c, req, page, time.Since(start), err)
			if err != nil {
				e.report(err)
				return
			}
			if err := e.apply(c, opts, page); err != nil {
				e.report(err)
			}
		})
	}()
	return nil
}

// newRequest builds a request carrying the engine headers, then init and extra headers.
func (e *Engine) newRequest(ctx context.Context, u *url.URL, init RequestInit, extra http.Header) (*http.Request, error) {
	method := init.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if init.Body != nil {
		body = bytes.NewReader(init.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for _, h := range []http.Header{e.headers, init.Header, extra} {
		for name, values := range h {
			for _, v := range values {
				req.Header.Add(name, v)
			}
		}
	}
	if init.ContentType != "" {
		req.Header.Set("Content-Type", init.ContentType)
	}
	return req, nil
}

// Fetch performs a full page request: no soft-navigation marker, same response
// checks as Navigate. It blocks and must not be called on the loop.
// It returns the final response URL and the page text.
func (e *Engine) Fetch(ctx context.Context, u *url.URL, init RequestInit) (string, string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	req, err := e.newRequest(ctx, u, init, nil)
	if err != nil {
		return "", "", err
	}
	start := time.Now()
	resp, err := e.fetcher.Do(req)
	var page response
	if err == nil {
		page, err = readResponse(req, resp)
	} else {
		err = fmt.Errorf("request %s %s: %w", req.Method, req.URL, err)
	}
	e.emitNavigate(NewContext(ctx, nil, nil), req, page, time.Since(start), err)
	if err != nil {
		return "", "", err
	}
	return page.url, page.text, nil
}

type response struct {
	url    string
	status int
	text   string
}

// readResponse validates the content type and reads the body. The document is
// parsed later, on the loop.
func readResponse(req *http.Request, resp *http.Response) (response, error) {
	defer resp.Body.Close()

	page := response{url: req.URL.String(), status: resp.StatusCode}
	if resp.Request != nil && resp.Request.URL != nil {
		page.url = resp.Request.URL.String()
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return page, fmt.Errorf("%s: %w", page.url, ErrNoContentType)
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || mediaType != "text/html" {
		return page, &ContentTypeError{ContentType: ct}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return page, fmt.Errorf("failed to read response from %s: %w", page.url, err)
	}
	page.text = string(data)
	return page, nil
}

func (e *Engine) apply(c *Context, opts Options, page response) error {
	doc, err := dom.ParseString(page.text)
	if err != nil {
		return err
	}
	c.ResponseURL = page.url
	c.ResponseDoc = doc
	c.doc = nil
	_, err = e.Evaluate(c, Synthesize(opts))
	return err
}

func (e *Engine) emitNavigate(c *Context, req *http.Request, page response, d time.Duration, err error) {
	if e.hooks.OnNavigate == nil {
		return
	}
	e.hooks.OnNavigate(c.Ctx(), &domain.NavigateEvent{
		EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventNavigate},
		Method:      req.Method,
		URL:         req.URL.String(),
		ResponseURL: page.url,
		Status:      page.status,
		Duration:    d,
		Err:         err,
	})
}

// follow navigates to the href of the origin anchor.
func (e *Engine) follow(c *Context, ops *action.Operands) error {
	list, err := optionList(ops)
	if err != nil {
		return err
	}
	if _, err := dom.CheckType(orNil(c.Origin), "origin", "HTMLAnchorElement"); err != nil {
		return err
	}
	href := c.Origin.Href()
	if href == "" {
		return &action.ArgError{Name: "href", Expected: "a non-empty String", Actual: href}
	}
	return e.Navigate(c, list, href, RequestInit{Method: http.MethodGet})
}

// submit sends the form of the receiver or origin.
func (e *Engine) submit(c *Context, ops *action.Operands) error {
	list, err := optionList(ops)
	if err != nil {
		return err
	}
	form, submitter, err := resolveForm(c)
	if err != nil {
		return err
	}
	target, init, err := FormRequest(form, submitter)
	if err != nil {
		return err
	}
	return e.Navigate(c, list, target, init)
}

func resolveForm(c *Context) (form, submitter *dom.Element, err error) {
	if el, ok := c.Recv.(*dom.Element); ok && el.Tag() == "form" {
		form = el
	}
	if c.Origin != nil {
		if dom.IsSubmitter(c.Origin) {
			submitter = c.Origin
		}
		if form == nil {
			if c.Origin.Tag() == "form" {
				form = c.Origin
			} else {
				form = dom.FormOf(c.Origin)
			}
		}
	}
	if form == nil {
		return nil, nil, &dom.TypeError{Name: "origin", TypeName: "HTMLFormElement", Actual: orNil(c.Origin)}
	}
	return form, submitter, nil
}

// FormRequest derives the target and request of a form submission.
// Read-only methods carry the fields in the query string; others in the body.
func FormRequest(form, submitter *dom.Element) (string, RequestInit, error) {
	values := dom.FormValues(form, submitter)
	target := form.FormAction()

	if form.FormMethod() == "get" {
		base, _, _ := strings.Cut(target, "?")
		base, frag, _ := strings.Cut(base, "#")
		target = base + "?" + values.Encode()
		if frag != "" {
			target += "#" + frag
		}
		return target, RequestInit{Method: http.MethodGet}, nil
	}

	if form.FormEnctype() == dom.EnctypeMultipart {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, entry := range dom.FormEntries(form, submitter) {
			if err := w.WriteField(entry.Name, entry.Value); err != nil {
				return "", RequestInit{}, fmt.Errorf("failed to encode form: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return "", RequestInit{}, fmt.Errorf("failed to encode form: %w", err)
		}
		return target, RequestInit{Method: http.MethodPost, Body: buf.Bytes(), ContentType: w.FormDataContentType()}, nil
	}

	return target, RequestInit{
		Method:      http.MethodPost,
		Body:        []byte(values.Encode()),
		ContentType: dom.EnctypeURLEncoded,
	}, nil
}

// render refreshes the origin element in place from the current location.
func (e *Engine) render(c *Context, ops *action.Operands) error {
	list, err := optionList(ops)
	if err != nil {
		return err
	}
	opts, err := ParseOptions(list)
	if err != nil {
		return err
	}
	if c.Origin == nil || c.Origin.ID() == "" {
		return &action.ArgError{Op: ops.Op(), Name: "origin", Expected: "an element with an id", Actual: orNil(c.Origin)}
	}
	win, err := c.Window()
	if err != nil {
		return err
	}
	opts.History, opts.Head, opts.Body = false, false, false
	opts.Elements = []string{c.Origin.ID()}
	return e.navigate(c, opts, win.Location().String(), RequestInit{Method: http.MethodGet})
}

// location navigates to an explicit URL.
func (e *Engine) location(c *Context, ops *action.Operands) error {
	v, err := e.operand(c, ops, "url")
	if err != nil {
		return err
	}
	target, err := action.CheckString(v, "url")
	if err != nil {
		return err
	}
	list, err := optionList(ops)
	if err != nil {
		return err
	}
	return e.Navigate(c, list, target, RequestInit{Method: http.MethodGet})
}

// optionList reads an optional trailing option list.
func optionList(ops *action.Operands) ([]any, error) {
	if ops.Len() == 0 {
		return nil, nil
	}
	return ops.Array("options")
}
