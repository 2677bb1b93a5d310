package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"

	pagehttp "github.com/aretw0/hyperway/pkg/adapters/http"
	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrInvalidSite is wrapped by Report.Err.
var ErrInvalidSite = errors.New("invalid site")

// ActionAttrs are the attributes holding encoded actions.
var ActionAttrs = []string{domain.AttrOnClick, domain.AttrOnInput, domain.AttrOnSubmit, domain.AttrOnLoad}

// Page is one page reached by the crawl.
type Page struct {
	// Path is the URL path the page was reached by.
	Path string
	// Links are the local paths the page points at through anchors and forms.
	Links   []string
	Actions int
	Forms   int
	Frames  []string
}

// Report is the outcome of ValidateSite.
type Report struct {
	Pages    []Page
	Problems []string
}

// Err folds the problems into one error, or returns nil.
func (r *Report) Err() error {
	if len(r.Problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: found %d errors:\n- %s", ErrInvalidSite, len(r.Problems), strings.Join(r.Problems, "\n- "))
}

// ValidateSite crawls the page tree from start, following local links, and
// checks that every link resolves and every action attribute decodes to
// known operations.
func ValidateSite(pages fs.FS, start string) (*Report, error) {
	if _, err := pagehttp.Resolve(pages, start); err != nil {
		return nil, fmt.Errorf("start page '%s' not found: %w", start, err)
	}

	report := &Report{}
	visited := make(map[string]bool)
	queue := []string{cleanPath(start)}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		name, err := pagehttp.Resolve(pages, current)
		if err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("broken link: '%s'", current))
			continue
		}
		page, problems, err := inspect(pages, name, current)
		if err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("%s: %v", current, err))
			continue
		}
		report.Pages = append(report.Pages, page)
		report.Problems = append(report.Problems, problems...)

		for _, link := range page.Links {
			if !visited[link] {
				queue = append(queue, link)
			}
		}
	}
	return report, nil
}

func inspect(pages fs.FS, name, current string) (Page, []string, error) {
	f, err := pages.Open(name)
	if err != nil {
		return Page{}, nil, err
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		return Page{}, nil, err
	}

	page := Page{Path: current}
	var problems []string

	seen := make(map[string]bool)
	links, err := doc.Query("//a[@href] | //form")
	if err != nil {
		return Page{}, nil, err
	}
	for _, el := range links {
		ref, _ := el.Attr("href")
		if el.Tag() == "form" {
			page.Forms++
			ref, _ = el.Attr("action")
			if ref == "" {
				ref = current
			}
		}
		if target, ok := localTarget(current, ref); ok && !seen[target] {
			seen[target] = true
			page.Links = append(page.Links, target)
		}
	}
	sort.Strings(page.Links)

	for _, f := range doc.Frames() {
		v, _ := f.Attr(domain.AttrFrame)
		page.Frames = append(page.Frames, v)
	}

	for _, attr := range ActionAttrs {
		els, err := doc.Query("//*[@" + attr + "]")
		if err != nil {
			return Page{}, nil, err
		}
		for _, el := range els {
			raw, _ := el.Attr(attr)
			page.Actions++
			where := fmt.Sprintf("%s <%s %s>", current, el.Tag(), attr)
			a, err := action.DecodeString(raw)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", where, err))
				continue
			}
			for _, msg := range checkAction(a) {
				problems = append(problems, fmt.Sprintf("%s: %s", where, msg))
			}
		}
	}
	return page, problems, nil
}

// checkAction reports unknown operations in a and in every nested action.
// Literal operands are data and are not inspected.
func checkAction(a action.Action) []string {
	code := a.Opcode()
	op, ok := action.ParseOpcode(code)
	if !ok {
		msg := fmt.Sprintf("%v '%s'", action.ErrUnknownOperation, code)
		if s := suggestOpcode(code); s != "" {
			msg += fmt.Sprintf(" (did you mean '%s'?)", s)
		}
		return []string{msg}
	}
	if op == action.OpLiteral {
		return nil
	}

	var problems []string
	for _, operand := range a.Operands().Rest() {
		if nested, ok := nestedAction(operand); ok {
			problems = append(problems, checkAction(nested)...)
		}
	}
	return problems
}

// nestedAction recognises an operand shaped like an instruction: a sequence
// headed by a two-letter code.
func nestedAction(v any) (action.Action, bool) {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, false
	}
	code, ok := items[0].(string)
	if !ok || len(code) != 2 {
		return nil, false
	}
	return action.Action(items), true
}

func suggestOpcode(code string) string {
	codes := action.Codes()
	ranks := fuzzy.RankFindFold(code, codes)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", len(code)/2+1
	for _, c := range codes {
		if d := fuzzy.LevenshteinDistance(code, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// localTarget resolves ref against current and keeps only same-site paths.
// Template expressions are skipped.
func localTarget(current, ref string) (string, bool) {
	if ref == "" || strings.Contains(ref, "{{") || strings.HasPrefix(ref, "#") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	base := &url.URL{Path: current}
	return cleanPath(base.ResolveReference(u).Path), true
}

func cleanPath(p string) string {
	return path.Clean("/" + p)
}
