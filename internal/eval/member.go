package eval

import (
	"strconv"

	"github.com/domharness/domharness/internal/events"
	"github.com/domharness/domharness/internal/scriptparse"
	"github.com/domharness/domharness/internal/value"
)

// evalMember evaluates a MemberExpr, returning both the receiver (needed by
// evalCall to supply `this`) and the looked-up property value.
func (it *Interp) evalMember(env *Env, n *scriptparse.MemberExpr) (value.Value, value.Value, error) {
	obj, err := it.evalExpr(env, n.Object)
	if err != nil {
		return nil, nil, err
	}
	if n.Optional {
		if _, isNull := obj.(value.Null); isNull {
			return obj, value.UndefinedValue, nil
		}
		if _, isUndef := obj.(value.Undefined); isUndef {
			return obj, value.UndefinedValue, nil
		}
	}
	name := n.Property
	if n.Computed != nil {
		kv, err := it.evalExpr(env, n.Computed)
		if err != nil {
			return nil, nil, err
		}
		name = value.ToDisplayString(kv)
	}
	v, err := it.getMemberOf(obj, name), error(nil)
	return obj, v, err
}

// getMemberOf implements §4.3's per-Kind property-read tables, covering the
// generic container shapes directly, deferring DOM node property reads to
// domops.go (the single file holding every live *dom.Document /
// *events.Registry reference) and event-object reads to eventPropertyGet.
func (it *Interp) getMemberOf(obj value.Value, name string) value.Value {
	switch o := obj.(type) {
	case value.Node:
		return it.domPropertyGet(o.ID, name)
	case *value.NodeList:
		if name == "length" {
			return value.Number(int64(len(o.IDs)))
		}
		if idx, ok := parseIndex(name); ok && idx < len(o.IDs) {
			return value.Node{ID: o.IDs[idx]}
		}
		return value.UndefinedValue
	case *events.EventValue:
		return eventPropertyGet(o, name)
	case *value.Array:
		if name == "length" {
			return value.Number(int64(len(o.Items)))
		}
		if idx, ok := parseIndex(name); ok {
			if idx < 0 || idx >= len(o.Items) {
				return value.UndefinedValue
			}
			return o.Items[idx]
		}
		return value.UndefinedValue
	case value.String:
		if name == "length" {
			return value.Number(int64(value.RuneLen(string(o))))
		}
		if idx, ok := parseIndex(name); ok {
			rs := []rune(string(o))
			if idx < 0 || idx >= len(rs) {
				return value.UndefinedValue
			}
			return value.String(string(rs[idx]))
		}
		return value.UndefinedValue
	case *value.Object:
		v, ok := o.Get(name)
		if !ok {
			return value.UndefinedValue
		}
		return v
	case *value.MapObject:
		if name == "size" {
			return value.Number(int64(len(o.Pairs)))
		}
		return value.UndefinedValue
	case *value.SetObject:
		if name == "size" {
			return value.Number(int64(len(o.Items)))
		}
		return value.UndefinedValue
	case *value.RegExp:
		switch name {
		case "source":
			return value.String(o.Source)
		case "flags":
			return value.String(o.Flags)
		case "lastIndex":
			return value.Number(int64(o.LastIndex))
		}
		return value.UndefinedValue
	case *value.Date:
		if name == "__epoch" {
			return value.Float(o.EpochMs)
		}
		return value.UndefinedValue
	case *value.Blob:
		switch name {
		case "size":
			return value.Number(int64(len(o.Bytes)))
		case "type":
			return value.String(o.Type)
		}
		return value.UndefinedValue
	case *Closure:
		if name == "name" {
			return value.String(o.name())
		}
		return value.UndefinedValue
	case *MathValue:
		return mathConstant(name)
	case *WindowValue:
		if name == "window" {
			return o
		}
		if v, ok := o.it.Global.Get(name); ok {
			return v
		}
		return value.UndefinedValue
	}
	return value.UndefinedValue
}

func eventPropertyGet(e *events.EventValue, name string) value.Value {
	st := e.State()
	switch name {
	case "type":
		return value.String(st.Type)
	case "target":
		return value.Node{ID: st.Target}
	case "currentTarget":
		return value.Node{ID: st.CurrentTarget}
	case "timeStamp":
		return value.Number(st.Timestamp)
	case "eventPhase":
		switch st.Phase {
		case "capture":
			return value.Number(1)
		case "at-target":
			return value.Number(2)
		case "bubble":
			return value.Number(3)
		}
		return value.Number(0)
	case "defaultPrevented":
		return value.Bool(st.DefaultPrevented)
	case "bubbles":
		return value.Bool(st.Bubbles)
	case "cancelable":
		return value.Bool(st.Cancelable)
	case "isTrusted":
		return value.Bool(st.IsTrusted)
	}
	return value.UndefinedValue
}

func parseIndex(name string) (int, bool) {
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// assignMember implements property-write dispatch for `obj.prop = v` /
// `obj[expr] = v`.
func (it *Interp) assignMember(env *Env, n *scriptparse.MemberExpr, v value.Value) error {
	obj, err := it.evalExpr(env, n.Object)
	if err != nil {
		return err
	}
	name := n.Property
	if n.Computed != nil {
		kv, err := it.evalExpr(env, n.Computed)
		if err != nil {
			return err
		}
		name = value.ToDisplayString(kv)
	}
	switch o := obj.(type) {
	case value.Node:
		return it.domPropertySet(o.ID, name, v)
	case *value.Array:
		if name == "length" {
			n, _ := strconv.Atoi(value.ToDisplayString(v))
			resizeArray(o, n)
			return nil
		}
		if idx, ok := parseIndex(name); ok {
			for idx >= len(o.Items) {
				o.Items = append(o.Items, value.UndefinedValue)
			}
			o.Items[idx] = v
			return nil
		}
		return nil
	case *value.Object:
		o.Set(name, v)
		return nil
	case *events.EventValue:
		// Event objects expose no writable fields beyond the method-driven
		// preventDefault/stopPropagation mutators (handled as calls).
		return nil
	}
	return &ScriptError{Message: "cannot set property '" + name + "' on this value"}
}

func resizeArray(a *value.Array, n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(a.Items) {
		a.Items = a.Items[:n]
		return
	}
	for len(a.Items) < n {
		a.Items = append(a.Items, value.UndefinedValue)
	}
}
