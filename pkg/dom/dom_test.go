package dom_test

import (
	"testing"

	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<head><title> Hello
  World </title></head>
<body>
  <div id="root" data-frame="root:1" class="a b">
    <a id="link" href="/next?x=1">next</a>
    <section data-frame="inner">text</section>
  </div>
  <dialog id="dlg"></dialog>
  <form id="f" action="/save" method="POST">
    <input name="q" value="go">
    <input type="checkbox" name="c">
    <input type="checkbox" name="d" checked value="yes">
    <textarea name="t">body</textarea>
    <select name="s"><option>one</option><option value="2" selected>two</option></select>
    <input name="off" value="x" disabled>
    <button id="send" name="go" value="now">Send</button>
  </form>
</body>
</html>`

func newWindow(t *testing.T) *dom.Window {
	t.Helper()
	w, err := dom.NewWindow("http://example.test/start")
	require.NoError(t, err)
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	w.Load(doc, w.Location(), false)
	return w
}

func TestDocument_Lookup(t *testing.T) {
	w := newWindow(t)
	doc := w.Document()

	assert.Equal(t, "Hello World", doc.Title())
	require.NotNil(t, doc.Body())
	require.NotNil(t, doc.Head())
	assert.Nil(t, doc.ElementByID("missing"))

	frames := doc.Frames()
	require.Len(t, frames, 2)
	f0, ok := dom.FrameOf(frames[0])
	require.True(t, ok)
	assert.Equal(t, domain.Frame{Name: "root", Value: "1", HasValue: true}, f0)
	f1, _ := dom.FrameOf(frames[1])
	assert.Equal(t, "inner", f1.Name)
	assert.False(t, f1.HasValue)

	doc.SetTitle("Changed")
	assert.Equal(t, "Changed", doc.Title())
}

func TestElement_Members(t *testing.T) {
	w := newWindow(t)
	root := w.Document().ElementByID("root")
	require.NotNil(t, root)

	v, err := root.Get("tagName")
	require.NoError(t, err)
	assert.Equal(t, "DIV", v)

	require.NoError(t, root.Set("textContent", "plain"))
	assert.Equal(t, "plain", root.TextContent())
	assert.Empty(t, root.Children())

	require.NoError(t, root.Set("innerHTML", `<p id="p">x</p>`))
	require.NotNil(t, w.Document().ElementByID("p"))

	v, err = root.Get("dataset")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"frame": "root:1"}, v)

	_, err = root.Invoke("setAttribute", []any{"aria-label", "x"})
	require.NoError(t, err)
	v, err = root.Invoke("getAttribute", []any{"aria-label"})
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = root.Invoke("getAttribute", []any{"nope"})
	require.NoError(t, err)
	assert.Nil(t, v)

	link := w.Document().ElementByID("link")
	assert.Nil(t, link)
}

func TestElement_UnknownMember(t *testing.T) {
	w := newWindow(t)
	dlg := w.Document().ElementByID("dlg")

	_, err := dlg.Invoke("showModel", nil)
	var me *dom.MemberError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "showModel", me.Member)
	assert.Equal(t, "method", me.Kind)
	assert.Equal(t, "showModal", me.Suggestion)
	assert.Contains(t, err.Error(), `<dialog id="dlg">`)

	_, err = dlg.Invoke("showModal", nil)
	require.NoError(t, err)
	open, err := dlg.Get("open")
	require.NoError(t, err)
	assert.Equal(t, true, open)

	_, err = dlg.Invoke("close", []any{"ok"})
	require.NoError(t, err)
	assert.False(t, dlg.HasAttr("open"))
}

func TestTypeNames(t *testing.T) {
	w := newWindow(t)
	doc := w.Document()

	assert.True(t, dom.Is(doc.ElementByID("f"), "HTMLFormElement"))
	assert.True(t, dom.Is(doc.ElementByID("f"), "Element"))
	assert.False(t, dom.Is(doc.ElementByID("root"), "HTMLFormElement"))
	assert.True(t, dom.Is(doc.ElementByID("dlg"), "HTMLDialogElement"))
	assert.True(t, dom.Is(w, "Window"))
	assert.True(t, dom.Is(doc, "Document"))
	assert.True(t, dom.Is(true, "boolean"))
	assert.True(t, dom.Is([]any{}, "Array"))

	_, err := dom.CheckType(doc.ElementByID("root"), "receiver", "HTMLAnchorElement")
	var te *dom.TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, `illegal arg: receiver must be of type HTMLAnchorElement but got <div id="root">`, err.Error())
}

func TestClassList(t *testing.T) {
	w := newWindow(t)
	root := w.Document().ElementByID("root")
	cl := dom.ClassListOf(root)

	assert.True(t, cl.Contains("a"))
	cl.Add("c", "a")
	class, _ := root.Attr("class")
	assert.Equal(t, "a b c", class)
	cl.Remove("b")
	assert.False(t, cl.Contains("b"))
	assert.True(t, cl.Replace("a", "z"))
	assert.False(t, cl.Toggle("z", nil))

	v, err := cl.Invoke("toggle", []any{"q", true})
	require.NoError(t, err)
	assert.Equal(t, true, v)
	n, err := cl.Get("length")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFormValues(t *testing.T) {
	w := newWindow(t)
	form := w.Document().ElementByID("f")
	send := w.Document().ElementByID("send")

	assert.Equal(t, "http://example.test/save", form.FormAction())
	assert.Equal(t, "post", form.FormMethod())
	assert.Equal(t, dom.EnctypeURLEncoded, form.FormEnctype())
	assert.True(t, dom.IsSubmitter(send))
	assert.Equal(t, form.Node(), dom.FormOf(send).Node())

	values := dom.FormValues(form, send)
	assert.Equal(t, "go", values.Get("q"))
	assert.False(t, values.Has("c"))
	assert.Equal(t, "yes", values.Get("d"))
	assert.Equal(t, "body", values.Get("t"))
	assert.Equal(t, "2", values.Get("s"))
	assert.False(t, values.Has("off"))
	assert.Equal(t, "now", values.Get("go"))

	assert.False(t, dom.FormValues(form, nil).Has("go"))
}

func TestElement_ReplaceAndContains(t *testing.T) {
	w := newWindow(t)
	doc := w.Document()
	root := doc.ElementByID("root")
	inner := doc.Frames()[1]
	assert.True(t, root.Contains(inner))
	assert.False(t, inner.Contains(root))

	other, err := dom.ParseString(`<div id="root" data-frame="root:2">new</div>`)
	require.NoError(t, err)
	root.ReplaceWith(other.ElementByID("root"))

	got := doc.ElementByID("root")
	require.NotNil(t, got)
	assert.Equal(t, "new", got.TextContent())
	assert.Len(t, doc.Frames(), 1)
	assert.Nil(t, other.ElementByID("root"))
}
