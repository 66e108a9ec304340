package eval

import (
	"github.com/domharness/domharness/internal/scriptparse"
	"github.com/domharness/domharness/internal/value"
)

// bindPattern declares p's names in env, binding v (array/object
// destructuring per §4.1 "Destructuring patterns"). kind selects between
// let/const (error on redeclare) and var (hoist-tolerant) semantics; for
// const the leaf bindings are marked constant.
func (it *Interp) bindPattern(env *Env, p scriptparse.Pattern, v value.Value, kind scriptparse.VarKind) error {
	switch x := p.(type) {
	case scriptparse.IdentPattern:
		return it.declareOne(env, x.Name, v, kind)
	case scriptparse.ArrayPattern:
		items := iterableItems(v)
		for i, el := range x.Elements {
			if el == nil {
				continue
			}
			var ev value.Value = value.UndefinedValue
			if i < len(items) {
				ev = items[i]
			}
			if err := it.bindPattern(env, el, ev, kind); err != nil {
				return err
			}
		}
		return nil
	case scriptparse.ObjectPattern:
		for _, prop := range x.Props {
			pv := it.getMemberOf(v, prop.Source)
			if err := it.declareOne(env, prop.Target, pv, kind); err != nil {
				return err
			}
		}
		return nil
	}
	return &ScriptError{Message: "unsupported binding pattern"}
}

func (it *Interp) declareOne(env *Env, name string, v value.Value, kind scriptparse.VarKind) error {
	if kind == scriptparse.VarVar {
		env.DeclareVar(name, v, true)
		return nil
	}
	return env.Declare(name, v, kind == scriptparse.VarConst)
}

// assignPattern is the `[a, b] = x` / `({a, b} = x)` destructuring-assignment
// variant: targets must already be declared.
func (it *Interp) assignPattern(env *Env, target scriptparse.Expr, v value.Value) error {
	switch t := target.(type) {
	case *scriptparse.Ident:
		return env.Assign(t.Name, v)
	case *scriptparse.MemberExpr:
		return it.assignMember(env, t, v)
	case *scriptparse.ArrayLit:
		items := iterableItems(v)
		for i, el := range t.Elements {
			if el == nil {
				continue
			}
			var ev value.Value = value.UndefinedValue
			if i < len(items) {
				ev = items[i]
			}
			if err := it.assignPattern(env, el, ev); err != nil {
				return err
			}
		}
		return nil
	case *scriptparse.ObjectLit:
		for _, prop := range t.Props {
			pv := it.getMemberOf(v, prop.Key)
			if err := it.assignPattern(env, prop.Value, pv); err != nil {
				return err
			}
		}
		return nil
	}
	return &ScriptError{Message: "invalid assignment target"}
}

// iterableItems extracts the element sequence a destructuring source offers:
// Array and Set items directly, a NodeList as Node handles, a Map as
// [key, value] arrays, a String as one-character strings, otherwise empty.
func iterableItems(v value.Value) []value.Value {
	switch x := v.(type) {
	case *value.Array:
		return x.Items
	case *value.NodeList:
		out := make([]value.Value, len(x.IDs))
		for i, id := range x.IDs {
			out[i] = value.Node{ID: id}
		}
		return out
	case *value.SetObject:
		return x.Items
	case *value.MapObject:
		out := make([]value.Value, len(x.Pairs))
		for i, p := range x.Pairs {
			out[i] = value.NewArray(p.Key, p.Val)
		}
		return out
	case value.String:
		rs := []rune(string(x))
		out := make([]value.Value, len(rs))
		for i, r := range rs {
			out[i] = value.String(string(r))
		}
		return out
	}
	return nil
}
