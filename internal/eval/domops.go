package eval

import (
	"strings"

	"github.com/domharness/domharness/internal/dom"
	"github.com/domharness/domharness/internal/events"
	"github.com/domharness/domharness/internal/value"
)

// This file is the single wiring point between the evaluator's generic
// CallExpr/MemberExpr dispatch and the concrete *dom.Document/
// *events.Registry/*scheduler.Scheduler references (§4.1's note that DOM
// operations are recognized by name against ordinary call/assignment
// shapes rather than given dedicated AST nodes).

// DocumentValue is the `document` global: a thin handle back to Interp so
// its methods can reach the live document/selector engine.
type DocumentValue struct{ it *Interp }

func (*DocumentValue) Kind() value.Kind { return value.KindObject }

// ClassListValue is the object `node.classList` evaluates to.
type ClassListValue struct {
	it     *Interp
	nodeID uint64
}

func (*ClassListValue) Kind() value.Kind { return value.KindObject }

// StyleValue is the object `node.style` evaluates to.
type StyleValue struct {
	it     *Interp
	nodeID uint64
}

func (*StyleValue) Kind() value.Kind { return value.KindObject }

// DatasetValue is the object `node.dataset` evaluates to.
type DatasetValue struct {
	it     *Interp
	nodeID uint64
}

func (*DatasetValue) Kind() value.Kind { return value.KindObject }

// domPropertyGet implements Node's property-read table (§4.4).
func (it *Interp) domPropertyGet(id uint64, name string) value.Value {
	n := it.Doc.Node(id)
	if n == nil {
		return value.UndefinedValue
	}
	switch name {
	case "tagName":
		return value.String(strings.ToUpper(n.Tag))
	case "id":
		return value.String(n.Id())
	case "className":
		return value.String(strings.Join(n.ClassList(), " "))
	case "classList":
		return &ClassListValue{it: it, nodeID: id}
	case "style":
		return &StyleValue{it: it, nodeID: id}
	case "dataset":
		return &DatasetValue{it: it, nodeID: id}
	case "textContent":
		return value.String(it.Doc.TextContent(id))
	case "innerHTML":
		return value.String(it.Doc.InnerHTML(id))
	case "outerHTML":
		return value.String(it.Doc.OuterHTML(id))
	case "value":
		return value.String(n.Value)
	case "checked":
		return value.Bool(n.Checked)
	case "indeterminate":
		return value.Bool(n.Indeterminate)
	case "disabled":
		return value.Bool(n.Disabled)
	case "readOnly":
		return value.Bool(n.ReadOnly)
	case "required":
		return value.Bool(n.Required)
	case "selectionStart":
		return value.Number(int64(n.SelectionStart))
	case "selectionEnd":
		return value.Number(int64(n.SelectionEnd))
	case "selectionDirection":
		return value.String(n.SelectionDirection)
	case "validationMessage":
		if n.CustomValidityMessage != "" {
			return value.String(n.CustomValidityMessage)
		}
		return value.String(validityMessage(it.Doc.ComputeValidity(id)))
	case "validity":
		return validityObject(it.Doc.ComputeValidity(id))
	case "parentElement", "parentNode":
		if n.Parent == 0 {
			return value.NullValue
		}
		return value.Node{ID: n.Parent}
	case "children":
		return &value.NodeList{IDs: elementChildren(it.Doc, id)}
	case "childElementCount":
		return value.Number(int64(len(elementChildren(it.Doc, id))))
	case "firstElementChild":
		ch := elementChildren(it.Doc, id)
		if len(ch) == 0 {
			return value.NullValue
		}
		return value.Node{ID: ch[0]}
	case "lastElementChild":
		ch := elementChildren(it.Doc, id)
		if len(ch) == 0 {
			return value.NullValue
		}
		return value.Node{ID: ch[len(ch)-1]}
	case "nextElementSibling":
		return siblingElement(it.Doc, id, 1)
	case "previousElementSibling":
		return siblingElement(it.Doc, id, -1)
	case "files":
		items := make([]value.Value, len(n.Files))
		for i, f := range n.Files {
			items[i] = value.String(f)
		}
		return value.NewArray(items...)
	case "open":
		_, ok := n.GetAttribute("open")
		return value.Bool(ok)
	}
	if v, ok := n.Expando[name]; ok {
		if vv, ok := v.(value.Value); ok {
			return vv
		}
	}
	return value.UndefinedValue
}

// validityMessage renders a short diagnostic string for the first failing
// constraint, in the browser's conventional check order.
func validityMessage(v dom.Validity) string {
	switch {
	case v.CustomError:
		return "custom error"
	case v.ValueMissing:
		return "Please fill out this field."
	case v.TypeMismatch:
		return "Please enter a valid value."
	case v.PatternMismatch:
		return "Please match the requested format."
	case v.TooShort:
		return "Please lengthen this text."
	case v.TooLong:
		return "Please shorten this text."
	case v.RangeUnderflow:
		return "Value must be greater than or equal to the minimum."
	case v.RangeOverflow:
		return "Value must be less than or equal to the maximum."
	case v.StepMismatch:
		return "Please enter a valid value (step mismatch)."
	case v.BadInput:
		return "Please enter a valid value."
	}
	return ""
}

func validityObject(v dom.Validity) *value.Object {
	o := value.NewObject()
	o.Set("valueMissing", value.Bool(v.ValueMissing))
	o.Set("typeMismatch", value.Bool(v.TypeMismatch))
	o.Set("patternMismatch", value.Bool(v.PatternMismatch))
	o.Set("tooLong", value.Bool(v.TooLong))
	o.Set("tooShort", value.Bool(v.TooShort))
	o.Set("rangeUnderflow", value.Bool(v.RangeUnderflow))
	o.Set("rangeOverflow", value.Bool(v.RangeOverflow))
	o.Set("stepMismatch", value.Bool(v.StepMismatch))
	o.Set("badInput", value.Bool(v.BadInput))
	o.Set("customError", value.Bool(v.CustomError))
	o.Set("valid", value.Bool(v.Valid()))
	return o
}

func elementChildren(d *dom.Document, id uint64) []uint64 {
	n := d.Node(id)
	var out []uint64
	for _, c := range n.Children {
		if d.Node(c).Type == dom.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func siblingElement(d *dom.Document, id uint64, dir int) value.Value {
	n := d.Node(id)
	if n.Parent == 0 {
		return value.NullValue
	}
	parent := d.Node(n.Parent)
	idx := -1
	for i, c := range parent.Children {
		if c == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return value.NullValue
	}
	for i := idx + dir; i >= 0 && i < len(parent.Children); i += dir {
		if d.Node(parent.Children[i]).Type == dom.ElementNode {
			return value.Node{ID: parent.Children[i]}
		}
	}
	return value.NullValue
}

// domPropertySet implements Node's property-write table.
func (it *Interp) domPropertySet(id uint64, name string, v value.Value) error {
	n := it.Doc.Node(id)
	if n == nil {
		return dom.ErrNoSuchNode(id)
	}
	switch name {
	case "className":
		n.SetAttribute("class", value.ToDisplayString(v))
	case "textContent":
		it.Doc.SetTextContent(id, value.ToDisplayString(v))
	case "innerHTML":
		scripts, err := it.Doc.SetInnerHTML(id, value.ToDisplayString(v))
		if err != nil {
			return err
		}
		return it.runInlineScripts(scripts)
	case "value":
		n.Value = value.ToDisplayString(v)
	case "checked":
		n.Checked = value.Truthy(v)
	case "indeterminate":
		n.Indeterminate = value.Truthy(v)
	case "disabled":
		n.Disabled = value.Truthy(v)
		if n.Disabled {
			n.SetAttribute("disabled", "")
		} else {
			n.RemoveAttribute("disabled")
		}
	case "readOnly":
		n.ReadOnly = value.Truthy(v)
	case "required":
		n.Required = value.Truthy(v)
	case "id":
		n.SetAttribute("id", value.ToDisplayString(v))
	default:
		n.Expando[name] = v
	}
	return nil
}

// runInlineScripts executes scripts discovered while parsing/assigning
// HTML, in document order, exactly like top-level statements (§6).
func (it *Interp) runInlineScripts(scripts []string) error {
	for _, src := range scripts {
		if err := it.RunSource(src); err != nil {
			return err
		}
	}
	return nil
}

// dispatchDomMethod recognizes the closed vocabulary of DOM/event method
// calls (§4.4, §4.5) against a MemberExpr callee whose receiver is already
// evaluated, returning handled=false for anything outside that vocabulary
// so evalCall can fall through to a generic property-call.
func (it *Interp) dispatchDomMethod(recv value.Value, name string, args []value.Value) (value.Value, bool, error) {
	switch r := recv.(type) {
	case value.Node:
		return it.dispatchNodeMethod(r.ID, name, args)
	case *DocumentValue:
		return it.dispatchDocumentMethod(name, args)
	case *ClassListValue:
		return it.dispatchClassListMethod(r, name, args)
	case *StyleValue:
		return it.dispatchStyleMethod(r, name, args)
	case *events.EventValue:
		return it.dispatchEventMethod(r, name, args)
	}
	return nil, false, nil
}

func (it *Interp) dispatchNodeMethod(id uint64, name string, args []value.Value) (value.Value, bool, error) {
	n := it.Doc.Node(id)
	switch name {
	case "click":
		return value.UndefinedValue, true, it.Events.Click(id)
	case "focus":
		return value.UndefinedValue, true, it.Events.Focus(id)
	case "blur":
		return value.UndefinedValue, true, it.Events.Blur(id)
	case "getAttribute":
		v, ok := n.GetAttribute(argStr(args, 0))
		if !ok {
			return value.NullValue, true, nil
		}
		return value.String(v), true, nil
	case "setAttribute":
		n.SetAttribute(argStr(args, 0), argStr(args, 1))
		return value.UndefinedValue, true, nil
	case "removeAttribute":
		n.RemoveAttribute(argStr(args, 0))
		return value.UndefinedValue, true, nil
	case "hasAttribute":
		return value.Bool(n.HasAttribute(argStr(args, 0))), true, nil
	case "addEventListener":
		return it.nodeAddEventListener(id, args)
	case "removeEventListener":
		return it.nodeRemoveEventListener(id, args)
	case "dispatchEvent":
		return it.nodeDispatchEvent(id, args)
	case "querySelector":
		if nid, ok := it.Doc.QuerySelector(id, argStr(args, 0)); ok {
			return value.Node{ID: nid}, true, nil
		}
		return value.NullValue, true, nil
	case "querySelectorAll":
		return &value.NodeList{IDs: it.Doc.QuerySelectorAll(id, argStr(args, 0))}, true, nil
	case "closest":
		if nid, ok := it.Doc.Closest(id, argStr(args, 0)); ok {
			return value.Node{ID: nid}, true, nil
		}
		return value.NullValue, true, nil
	case "matches":
		return value.Bool(it.Doc.Matches(id, argStr(args, 0))), true, nil
	case "appendChild":
		it.Doc.AppendChild(id, argNodeID(args, 0))
		return args[0], true, nil
	case "append":
		it.Doc.Append(id, it.argNodeIDsOrText(args)...)
		return value.UndefinedValue, true, nil
	case "prepend":
		it.Doc.Prepend(id, it.argNodeIDsOrText(args)...)
		return value.UndefinedValue, true, nil
	case "before":
		it.Doc.Before(id, it.argNodeIDsOrText(args)...)
		return value.UndefinedValue, true, nil
	case "after":
		it.Doc.After(id, it.argNodeIDsOrText(args)...)
		return value.UndefinedValue, true, nil
	case "remove":
		it.Doc.Remove(id)
		return value.UndefinedValue, true, nil
	case "replaceWith":
		it.Doc.ReplaceWith(id, it.argNodeIDsOrText(args)...)
		return value.UndefinedValue, true, nil
	case "setSelectionRange":
		n.SetSelectionRange(argInt(args, 0), argInt(args, 1), argStrOr(args, 2, "none"))
		return value.UndefinedValue, true, nil
	case "setRangeText":
		start, end := n.SelectionStart, n.SelectionEnd
		if len(args) > 1 {
			start = argInt(args, 1)
		}
		if len(args) > 2 {
			end = argInt(args, 2)
		}
		n.SetRangeText(argStr(args, 0), start, end, argStrOr(args, 3, "preserve"))
		return value.UndefinedValue, true, nil
	case "stepUp":
		n.StepUp(argIntOr(args, 0, 1))
		return value.UndefinedValue, true, nil
	case "stepDown":
		n.StepDown(argIntOr(args, 0, 1))
		return value.UndefinedValue, true, nil
	case "checkValidity":
		return value.Bool(it.Doc.ComputeValidity(id).Valid()), true, nil
	case "reportValidity":
		return value.Bool(it.Doc.ComputeValidity(id).Valid()), true, nil
	case "setCustomValidity":
		n.CustomValidityMessage = argStr(args, 0)
		return value.UndefinedValue, true, nil
	}
	return nil, false, nil
}

func (it *Interp) dispatchDocumentMethod(name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "querySelector":
		if nid, ok := it.Doc.QuerySelector(it.Doc.RootID, argStr(args, 0)); ok {
			return value.Node{ID: nid}, true, nil
		}
		return value.NullValue, true, nil
	case "querySelectorAll":
		return &value.NodeList{IDs: it.Doc.QuerySelectorAll(it.Doc.RootID, argStr(args, 0))}, true, nil
	case "getElementById":
		if nid, ok := it.Doc.GetElementById(argStr(args, 0)); ok {
			return value.Node{ID: nid}, true, nil
		}
		return value.NullValue, true, nil
	case "createElement":
		return value.Node{ID: it.Doc.NewElement(argStr(args, 0))}, true, nil
	case "createTextNode":
		return value.Node{ID: it.Doc.NewTextNode(argStr(args, 0))}, true, nil
	}
	return nil, false, nil
}

func (it *Interp) dispatchClassListMethod(c *ClassListValue, name string, args []value.Value) (value.Value, bool, error) {
	n := it.Doc.Node(c.nodeID)
	switch name {
	case "add":
		for _, a := range args {
			n.ClassListAdd(value.ToDisplayString(a))
		}
		return value.UndefinedValue, true, nil
	case "remove":
		for _, a := range args {
			n.ClassListRemove(value.ToDisplayString(a))
		}
		return value.UndefinedValue, true, nil
	case "toggle":
		var force *bool
		if len(args) > 1 {
			f := value.Truthy(args[1])
			force = &f
		}
		return value.Bool(n.ClassListToggle(argStr(args, 0), force)), true, nil
	case "contains":
		return value.Bool(n.ClassListContains(argStr(args, 0))), true, nil
	}
	return nil, false, nil
}

func (it *Interp) dispatchStyleMethod(s *StyleValue, name string, args []value.Value) (value.Value, bool, error) {
	n := it.Doc.Node(s.nodeID)
	switch name {
	case "setProperty":
		n.SetStyleProperty(argStr(args, 0), argStr(args, 1))
		return value.UndefinedValue, true, nil
	case "removeProperty":
		old := n.Style[argStr(args, 0)]
		n.SetStyleProperty(argStr(args, 0), "")
		return value.String(old), true, nil
	case "getPropertyValue":
		return value.String(n.Style[argStr(args, 0)]), true, nil
	}
	return nil, false, nil
}

func (it *Interp) dispatchEventMethod(e *events.EventValue, name string, args []value.Value) (value.Value, bool, error) {
	st := e.State()
	switch name {
	case "preventDefault":
		st.PreventDefault()
		return value.UndefinedValue, true, nil
	case "stopPropagation":
		st.StopPropagation()
		return value.UndefinedValue, true, nil
	case "stopImmediatePropagation":
		st.StopImmediatePropagation()
		return value.UndefinedValue, true, nil
	}
	return nil, false, nil
}

// handlerKey identifies one addEventListener registration by the AST node
// backing its handler (same node pointer whether from a re-evaluated inline
// literal or a shared named function reference) plus capture phase, per
// the dedup invariant §8 exercises.
type handlerKey struct {
	node  any
	phase events.Phase
}

func (h handlerKey) EqualHandler(other events.HandlerKey) bool {
	o, ok := other.(handlerKey)
	return ok && o.node == h.node && o.phase == h.phase
}

func closureASTNode(v value.Value) any {
	switch c := v.(type) {
	case *Closure:
		if c.Decl != nil {
			return c.Decl
		}
		return c.Expr
	case *value.NativeFunc:
		return c
	}
	return v
}

func (it *Interp) nodeAddEventListener(id uint64, args []value.Value) (value.Value, bool, error) {
	typ := argStr(args, 0)
	handler := argOr(args, 1, value.UndefinedValue)
	phase := events.Bubble
	if len(args) > 2 {
		phase = phaseFromOpts(args[2])
	}
	key := handlerKey{node: closureASTNode(handler), phase: phase}
	it.Events.AddEventListener(id, typ, phase, handler, key)
	return value.UndefinedValue, true, nil
}

func (it *Interp) nodeRemoveEventListener(id uint64, args []value.Value) (value.Value, bool, error) {
	typ := argStr(args, 0)
	handler := argOr(args, 1, value.UndefinedValue)
	phase := events.Bubble
	if len(args) > 2 {
		phase = phaseFromOpts(args[2])
	}
	key := handlerKey{node: closureASTNode(handler), phase: phase}
	it.Events.RemoveEventListener(id, typ, phase, key)
	return value.UndefinedValue, true, nil
}

func phaseFromOpts(v value.Value) events.Phase {
	switch o := v.(type) {
	case value.Bool:
		if bool(o) {
			return events.Capture
		}
	case *value.Object:
		if cv, ok := o.Get("capture"); ok && value.Truthy(cv) {
			return events.Capture
		}
	}
	return events.Bubble
}

func (it *Interp) nodeDispatchEvent(id uint64, args []value.Value) (value.Value, bool, error) {
	if len(args) == 0 {
		return value.Bool(true), true, nil
	}
	typ, bubbles, cancelable := "", false, false
	if o, ok := args[0].(*value.Object); ok {
		if tv, ok := o.Get("type"); ok {
			typ = value.ToDisplayString(tv)
		}
		if bv, ok := o.Get("bubbles"); ok {
			bubbles = value.Truthy(bv)
		}
		if cv, ok := o.Get("cancelable"); ok {
			cancelable = value.Truthy(cv)
		}
	}
	st, err := it.Events.Dispatch(id, typ, events.DispatchOptions{Bubbles: bubbles, Cancelable: cancelable})
	if err != nil {
		return nil, true, err
	}
	return value.Bool(!st.DefaultPrevented), true, nil
}

func argStr(args []value.Value, i int) string {
	if i >= len(args) {
		return ""
	}
	return value.ToDisplayString(args[i])
}

func argStrOr(args []value.Value, i int, def string) string {
	if i >= len(args) {
		return def
	}
	if _, isUndef := args[i].(value.Undefined); isUndef {
		return def
	}
	return value.ToDisplayString(args[i])
}

func argInt(args []value.Value, i int) int {
	if i >= len(args) {
		return 0
	}
	return int(value.ToNumeric(args[i]))
}

func argIntOr(args []value.Value, i, def int) int {
	if i >= len(args) {
		return def
	}
	return int(value.ToNumeric(args[i]))
}

func argOr(args []value.Value, i int, def value.Value) value.Value {
	if i >= len(args) {
		return def
	}
	return args[i]
}

func argNodeID(args []value.Value, i int) uint64 {
	if i >= len(args) {
		return 0
	}
	if n, ok := args[i].(value.Node); ok {
		return n.ID
	}
	return 0
}

// argNodeIDsOrText converts append/prepend/before/after/replaceWith's
// arguments to node ids, wrapping bare strings in a fresh text node per
// §4.4's "string arguments become text nodes" rule.
func (it *Interp) argNodeIDsOrText(args []value.Value) []uint64 {
	out := make([]uint64, 0, len(args))
	for _, a := range args {
		if n, ok := a.(value.Node); ok {
			out = append(out, n.ID)
			continue
		}
		out = append(out, it.Doc.NewTextNode(value.ToDisplayString(a)))
	}
	return out
}
