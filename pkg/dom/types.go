package dom

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/hyperway/pkg/action"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Object is a receiver that exposes properties and methods to actions.
type Object interface {
	Get(name string) (any, error)
	Set(name string, value any) error
	Invoke(name string, args []any) (any, error)
}

// Typed values declare their capability set.
type Typed interface {
	TypeNames() []string
}

// Element capability sets, resolved from the tag.
var (
	elementTypes  = []string{"Node", "EventTarget", "Element", "HTMLElement"}
	formTypes     = append(elementTypes[:len(elementTypes):len(elementTypes)], "HTMLFormElement")
	anchorTypes   = append(elementTypes[:len(elementTypes):len(elementTypes)], "HTMLAnchorElement")
	dialogTypes   = append(elementTypes[:len(elementTypes):len(elementTypes)], "HTMLDialogElement")
	buttonTypes   = append(elementTypes[:len(elementTypes):len(elementTypes)], "HTMLButtonElement")
	inputTypes    = append(elementTypes[:len(elementTypes):len(elementTypes)], "HTMLInputElement")
	textAreaTypes = append(elementTypes[:len(elementTypes):len(elementTypes)], "HTMLInputElement", "HTMLTextAreaElement")
	selectTypes   = append(elementTypes[:len(elementTypes):len(elementTypes)], "HTMLInputElement", "HTMLSelectElement")
)

// TypeNames returns the capability set of any value an action may hold.
func TypeNames(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return []string{"boolean"}
	case string:
		return []string{"string"}
	case int, int32, int64, float32, float64, json.Number:
		return []string{"number"}
	case []any, action.Action:
		return []string{"Array"}
	case map[string]any:
		return []string{"Object"}
	case Typed:
		return x.TypeNames()
	}
	return nil
}

// Is reports whether v satisfies typeName.
func Is(v any, typeName string) bool {
	for _, name := range TypeNames(v) {
		if name == typeName {
			return true
		}
	}
	return false
}

// CheckType returns v when it satisfies typeName.
func CheckType(v any, name, typeName string) (any, error) {
	if !Is(v, typeName) {
		return nil, &TypeError{Name: name, TypeName: typeName, Actual: v}
	}
	return v, nil
}

// TypeError reports a receiver that lacks the required capability.
type TypeError struct {
	Name     string
	TypeName string
	Actual   any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("illegal arg: %s must be of type %s but got %s", e.Name, e.TypeName, describe(e.Actual))
}

// MemberError reports an unknown property or method.
type MemberError struct {
	Recv       any
	Kind       string // "property" or "method"
	Member     string
	Suggestion string
}

func (e *MemberError) Error() string {
	msg := fmt.Sprintf("illegal arg: %s does not declare the %s %s", describe(e.Recv), e.Member, e.Kind)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}
	return msg
}

// NewMemberError builds a MemberError, suggesting the closest of the known members.
func NewMemberError(recv any, kind, member string, known []string) *MemberError {
	return memberError(recv, kind, member, known)
}

func memberError(recv any, kind, member string, known []string) *MemberError {
	return &MemberError{Recv: recv, Kind: kind, Member: member, Suggestion: suggest(member, known)}
}

func suggest(target string, candidates []string) string {
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", len(target)/2+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(target), strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case *Document:
		return "[object Document]"
	case fmt.Stringer:
		return x.String()
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if names := TypeNames(v); len(names) > 0 {
		return names[len(names)-1]
	}
	return fmt.Sprintf("%T", v)
}
