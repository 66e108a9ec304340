package events

import (
	"testing"

	"github.com/domharness/domharness/internal/dom"
	"github.com/domharness/domharness/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type strKey string

func (s strKey) EqualHandler(other HandlerKey) bool {
	o, ok := other.(strKey)
	return ok && o == s
}

func nativeListener(fn func(args []value.Value) (value.Value, error)) value.Value {
	return &value.NativeFunc{Fn: fn}
}

func newTestRegistry(t *testing.T) (*Registry, *dom.Document) {
	t.Helper()
	d := dom.NewDocument()
	r := NewRegistry(d)
	r.Call = func(fn, this value.Value, args []value.Value) (value.Value, error) {
		nf := fn.(*value.NativeFunc)
		return nf.Fn(args)
	}
	return r, d
}

func TestDispatchPhaseOrder(t *testing.T) {
	r, d := newTestRegistry(t)
	root := d.NewElement("div")
	btn := d.NewElement("button")
	d.AppendChild(d.BodyID, root)
	d.AppendChild(root, btn)

	var codes []int
	add := func(nodeID uint64, phase Phase, code int) {
		r.AddEventListener(nodeID, "click", phase, nativeListener(func(args []value.Value) (value.Value, error) {
			codes = append(codes, code)
			return value.UndefinedValue, nil
		}), strKey("k"+string(rune('0'+code))))
	}
	add(root, Capture, 1)
	add(root, Bubble, 2)
	add(btn, Capture, 2)
	add(btn, Bubble, 3)

	_, err := r.Dispatch(btn, "click", DispatchOptions{Bubbles: true, Cancelable: true})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2, 3}, codes)
}

func TestAddEventListenerDedup(t *testing.T) {
	r, d := newTestRegistry(t)
	n := d.NewElement("div")
	h := nativeListener(func(args []value.Value) (value.Value, error) { return value.UndefinedValue, nil })
	ok1 := r.AddEventListener(n, "click", Bubble, h, strKey("same"))
	ok2 := r.AddEventListener(n, "click", Bubble, h, strKey("same"))
	assert.True(t, ok1)
	assert.False(t, ok2)

	calls := 0
	r2, d2 := newTestRegistry(t)
	_ = d2
	n2 := d2.NewElement("div")
	h2 := nativeListener(func(args []value.Value) (value.Value, error) { calls++; return value.UndefinedValue, nil })
	r2.AddEventListener(n2, "click", Bubble, h2, strKey("x"))
	r2.AddEventListener(n2, "click", Bubble, h2, strKey("x"))
	_, err := r2.Dispatch(n2, "click", DispatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	_ = r
}

func TestCheckboxClickDefaultAction(t *testing.T) {
	r, d := newTestRegistry(t)
	cb := d.NewElement("input")
	d.Node(cb).SetAttribute("type", "checkbox")
	d.AppendChild(d.BodyID, cb)

	var fired []string
	for _, typ := range []string{"input", "change"} {
		typ := typ
		r.AddEventListener(cb, typ, Bubble, nativeListener(func(args []value.Value) (value.Value, error) {
			fired = append(fired, typ)
			return value.UndefinedValue, nil
		}), strKey(typ))
	}

	require.NoError(t, r.Click(cb))
	assert.True(t, d.Node(cb).Checked)
	assert.Equal(t, []string{"input", "change"}, fired)
}

func TestFocusBlurDispatchOrder(t *testing.T) {
	r, d := newTestRegistry(t)
	a := d.NewElement("input")
	b := d.NewElement("input")
	d.Append(d.BodyID, a, b)
	d.ActiveElement = 0

	var order []string
	for _, id := range []uint64{a, b} {
		id := id
		for _, typ := range []string{"focusin", "focus", "focusout", "blur"} {
			typ := typ
			r.AddEventListener(id, typ, Bubble, nativeListener(func(args []value.Value) (value.Value, error) {
				order = append(order, typ)
				return value.UndefinedValue, nil
			}), strKey(typ))
		}
	}

	require.NoError(t, r.Focus(a))
	require.NoError(t, r.Focus(b))
	require.NoError(t, r.Blur(b))
	assert.Equal(t, []string{"focusin", "focus", "focusout", "blur", "focusin", "focus", "focusout", "blur"}, order)
	assert.Equal(t, uint64(0), d.ActiveElement)
}
