package runtime

import (
	"errors"
	"time"

	"github.com/aretw0/hyperway/internal/reconcile"
	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
)

var errNoResponse = errors.New("illegal state: no response document")

func (e *Engine) responseDoc(c *Context) (*dom.Document, error) {
	if c.ResponseDoc == nil {
		return nil, errNoResponse
	}
	return c.ResponseDoc, nil
}

func (e *Engine) updateHead(c *Context) error {
	incoming, err := e.responseDoc(c)
	if err != nil {
		return err
	}
	live, err := c.Document()
	if err != nil {
		return err
	}
	e.emitReconcile(c, reconcile.Head(live, incoming))
	return nil
}

// updateBody merges frames when the live document has any and swaps the whole body otherwise.
func (e *Engine) updateBody(c *Context) error {
	incoming, err := e.responseDoc(c)
	if err != nil {
		return err
	}
	live, err := c.Document()
	if err != nil {
		return err
	}

	if len(live.Frames()) > 0 {
		var inserted []*dom.Element
		res := reconcile.Frames(live, incoming, reconcile.Options{
			OnInsert: func(el *dom.Element) { inserted = append(inserted, el) },
			Logger:   e.logger,
		})
		e.emitReconcile(c, res)
		return e.loaded(c, inserted...)
	}

	liveBody, newBody := live.Body(), incoming.Body()
	if liveBody == nil || newBody == nil {
		return nil
	}
	liveBody.ReplaceWith(newBody)
	e.emitReconcile(c, reconcile.Result{Replaced: []string{"body"}})
	return e.loaded(c, newBody)
}

func (e *Engine) updateElements(c *Context, ops *action.Operands) error {
	var ids []string
	for ops.Len() > 0 {
		id, err := ops.String("id")
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	incoming, err := e.responseDoc(c)
	if err != nil {
		return err
	}
	live, err := c.Document()
	if err != nil {
		return err
	}

	var (
		replaced []string
		inserted []*dom.Element
	)
	for _, id := range ids {
		current, next := live.ElementByID(id), incoming.ElementByID(id)
		if current == nil || next == nil {
			e.logger.Debug("element update skipped", "id", id)
			continue
		}
		current.ReplaceWith(next)
		replaced = append(replaced, id)
		inserted = append(inserted, next)
	}
	e.emitReconcile(c, reconcile.Result{Replaced: replaced})
	return e.loaded(c, inserted...)
}

func (e *Engine) scrollTo(c *Context, ops *action.Operands) error {
	id := ""
	if ops.Len() > 0 {
		var err error
		if id, err = ops.String("id"); err != nil {
			return err
		}
	}
	win, err := c.Window()
	if err != nil {
		return err
	}
	if id == "" {
		win.ScrollIntoView(nil)
		return nil
	}
	doc, err := c.Document()
	if err != nil {
		return err
	}
	if el := doc.ElementByID(id); el != nil {
		win.ScrollIntoView(el)
	}
	return nil
}

// historyPush pushes the response URL. The first push of a page is preceded by
// a replace of the current entry so that the initial state can be returned to.
func (e *Engine) historyPush(c *Context) error {
	win, err := c.Window()
	if err != nil {
		return err
	}
	h := win.History()
	target := c.ResponseURL
	if target == "" {
		target = win.Location().String()
	}

	if h.Guard().Advance() == 0 {
		current := win.Location().String()
		h.ReplaceState(domain.MarkerState(), current)
		e.emitHistory(c, true, current)
	}
	h.PushState(domain.MarkerState(), target)
	e.emitHistory(c, false, target)
	return nil
}

// morph reconciles HTML text into the receiver document, or into the live document.
func (e *Engine) morph(c *Context, ops *action.Operands) error {
	v, err := e.operand(c, ops, "html")
	if err != nil {
		return err
	}
	text, err := action.CheckString(v, "html")
	if err != nil {
		return err
	}
	doc, ok := c.Recv.(*dom.Document)
	if !ok {
		if doc, err = c.Document(); err != nil {
			return err
		}
	}

	var inserted []*dom.Element
	res, err := reconcile.Document(doc, text, reconcile.Options{
		OnInsert: func(el *dom.Element) { inserted = append(inserted, el) },
		Logger:   e.logger,
	})
	if err != nil {
		return err
	}
	e.emitReconcile(c, res)
	if doc.Window() == nil {
		return nil
	}
	return e.loaded(c, inserted...)
}

// loaded runs the post-load actions of freshly inserted subtrees.
func (e *Engine) loaded(c *Context, roots ...*dom.Element) error {
	var errs []error
	for _, root := range roots {
		if err := e.RunLoadActions(c.Ctx(), root); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) emitReconcile(c *Context, res reconcile.Result) {
	if e.hooks.OnReconcile == nil {
		return
	}
	e.hooks.OnReconcile(c.Ctx(), &domain.ReconcileEvent{
		EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventReconcile},
		Replaced:    res.Replaced,
		Removed:     res.Removed,
		Kept:        res.Kept,
		HeadAdded:   res.HeadAdded,
		HeadRemoved: res.HeadRemoved,
	})
}

func (e *Engine) emitHistory(c *Context, replace bool, url string) {
	if e.hooks.OnHistory == nil {
		return
	}
	e.hooks.OnHistory(c.Ctx(), &domain.HistoryEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventHistory},
		Replace:   replace,
		URL:       url,
	})
}
