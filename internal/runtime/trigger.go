package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
)

// Trigger decodes the action stored in attr on el and evaluates it in a fresh
// context whose origin is el. It reports false when el carries no such attribute.
func (e *Engine) Trigger(ctx context.Context, el *dom.Element, attr string) (bool, error) {
	raw, ok := el.Attr(attr)
	if !ok {
		return false, nil
	}
	a, err := action.DecodeString(raw)
	if err != nil {
		return true, fmt.Errorf("%s on %s: %w", attr, el, err)
	}
	c := NewContext(ctx, el.Window(), el)
	if _, err := e.Evaluate(c, a); err != nil {
		return true, err
	}
	return true, nil
}

// RunLoadActions runs the post-load action of root and of each descendant carrying one, in document order.
// Every element is tried; failures are joined.
func (e *Engine) RunLoadActions(ctx context.Context, root *dom.Element) error {
	if root == nil {
		return nil
	}
	var errs []error
	for _, el := range root.FindWithAttr(domain.AttrOnLoad) {
		if _, err := e.Trigger(ctx, el, domain.AttrOnLoad); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
