package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFragmentAndQuery(t *testing.T) {
	d := NewDocument()
	scripts, err := d.LoadFragment(`<div id="app"><button class="btn primary">Go</button><script>log(1)</script></div>`)
	require.NoError(t, err)
	require.Len(t, scripts, 1)

	btn, ok := d.QuerySelector(d.BodyID, "#app .btn")
	require.True(t, ok)
	assert.Equal(t, "button", d.Node(btn).Tag)
	assert.Equal(t, "Go", d.TextContent(btn))
	assert.True(t, d.Matches(btn, ".primary"))
}

func TestAttributeReflectionAndClassList(t *testing.T) {
	d := NewDocument()
	id := d.NewElement("input")
	n := d.Node(id)
	n.SetAttribute("disabled", "")
	assert.True(t, n.Disabled)
	n.RemoveAttribute("disabled")
	assert.False(t, n.Disabled)

	n.ClassListAdd("a")
	n.ClassListAdd("b")
	assert.Equal(t, []string{"a", "b"}, n.ClassList())
	assert.True(t, n.ClassListToggle("a", nil) == false)
	assert.Equal(t, []string{"b"}, n.ClassList())
}

func TestTreeMutations(t *testing.T) {
	d := NewDocument()
	p := d.NewElement("ul")
	d.AppendChild(d.BodyID, p)
	a := d.NewElement("li")
	b := d.NewElement("li")
	d.Append(p, a, b)
	assert.Equal(t, []uint64{a, b}, d.Node(p).Children)

	c := d.NewElement("li")
	d.InsertBefore(b, c)
	assert.Equal(t, []uint64{a, c, b}, d.Node(p).Children)

	d.Remove(a)
	assert.Equal(t, []uint64{c, b}, d.Node(p).Children)
}

func TestInnerOuterHTML(t *testing.T) {
	d := NewDocument()
	id := d.NewElement("div")
	d.AppendChild(d.BodyID, id)
	_, err := d.SetInnerHTML(id, `<span class="x">hi</span>`)
	require.NoError(t, err)
	assert.Equal(t, `<span class="x">hi</span>`, d.InnerHTML(id))
	assert.Equal(t, `<div><span class="x">hi</span></div>`, d.OuterHTML(id))
}

func TestSelectionRangeAndSetRangeText(t *testing.T) {
	d := NewDocument()
	id := d.NewElement("input")
	n := d.Node(id)
	n.Value = "hello world"
	n.SetSelectionRange(0, 5, "forward")
	assert.Equal(t, 0, n.SelectionStart)
	assert.Equal(t, 5, n.SelectionEnd)

	n.SetRangeText("HELLO", 0, 5, "select")
	assert.Equal(t, "HELLO world", n.Value)
	assert.Equal(t, 0, n.SelectionStart)
	assert.Equal(t, 5, n.SelectionEnd)
}

func TestValidityRequiredAndPattern(t *testing.T) {
	d := NewDocument()
	id := d.NewElement("input")
	n := d.Node(id)
	n.Required = true
	n.SetAttribute("pattern", `[0-9]+`)
	v := d.ComputeValidity(id)
	assert.True(t, v.ValueMissing)
	assert.False(t, v.Valid())

	n.Value = "abc"
	v = d.ComputeValidity(id)
	assert.True(t, v.PatternMismatch)

	n.Value = "123"
	v = d.ComputeValidity(id)
	assert.True(t, v.Valid())
}

func TestComputeValidityRange(t *testing.T) {
	d := NewDocument()
	id := d.NewElement("input")
	n := d.Node(id)
	n.SetAttribute("type", "number")
	n.SetAttribute("min", "0")
	n.SetAttribute("max", "10")
	n.SetAttribute("step", "2")
	n.Value = "3"
	v := d.ComputeValidity(id)
	assert.True(t, v.StepMismatch)

	n.Value = "4"
	v = d.ComputeValidity(id)
	assert.True(t, v.Valid())

	n.Value = "20"
	v = d.ComputeValidity(id)
	assert.True(t, v.RangeOverflow)
}
