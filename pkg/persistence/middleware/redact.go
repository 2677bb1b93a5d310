package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/aretw0/hyperway/pkg/ports"
)

// Mask replaces redacted field values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware masks, before saving, the value of every form field whose
// name matches one of the patterns. Password inputs are always masked.
func NewRedactMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &redactMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, snap *domain.Snapshot) error {
	doc, err := dom.ParseString(snap.HTML)
	if err != nil {
		return fmt.Errorf("failed to parse snapshot html: %w", err)
	}
	fields, err := doc.Query("//input | //textarea")
	if err != nil {
		return err
	}
	masked := 0
	for _, el := range fields {
		if m.sensitive(el) {
			el.SetValue(Mask)
			masked++
		}
	}
	if masked == 0 {
		return m.next.Save(ctx, snap)
	}

	cloned := *snap
	cloned.HTML = doc.String()
	return m.next.Save(ctx, &cloned)
}

func (m *redactMiddleware) sensitive(el *dom.Element) bool {
	if typ, _ := el.Attr("type"); typ == "password" {
		return true
	}
	name, _ := el.Attr("name")
	if name == "" {
		return false
	}
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

func (m *redactMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
