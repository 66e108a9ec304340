package eval

import (
	"github.com/domharness/domharness/internal/scriptparse"
	"github.com/domharness/domharness/internal/value"
)

// evalCall implements call expressions, §4.1's grammar note that DOM/event
// operations are ordinary calls whose callee is a MemberExpr recognized by
// name (domops.go) rather than a dedicated AST shape, and plain function
// calls/method calls otherwise.
func (it *Interp) evalCall(env *Env, n *scriptparse.CallExpr) (value.Value, error) {
	args, err := it.evalArgs(env, n)
	if err != nil {
		return nil, err
	}

	if mem, ok := n.Callee.(*scriptparse.MemberExpr); ok {
		recv, err := it.evalExpr(env, mem.Object)
		if err != nil {
			return nil, err
		}
		if mem.Optional || n.Optional {
			if _, isNull := recv.(value.Null); isNull {
				return value.UndefinedValue, nil
			}
			if _, isUndef := recv.(value.Undefined); isUndef {
				return value.UndefinedValue, nil
			}
		}
		name := mem.Property
		if mem.Computed != nil {
			kv, err := it.evalExpr(env, mem.Computed)
			if err != nil {
				return nil, err
			}
			name = value.ToDisplayString(kv)
		}

		if v, handled, err := it.dispatchDomMethod(recv, name, args); handled {
			return v, err
		}
		if v, handled, err := it.dispatchBuiltinMethod(recv, name, args); handled {
			return v, err
		}

		fn := it.getMemberOf(recv, name)
		if !it.Callable(fn) {
			return nil, &ScriptError{Message: name + " is not a function"}
		}
		return it.CallValue(fn, recv, args)
	}

	fn, err := it.evalExpr(env, n.Callee)
	if err != nil {
		return nil, err
	}
	if n.Optional {
		if _, isNull := fn.(value.Null); isNull {
			return value.UndefinedValue, nil
		}
		if _, isUndef := fn.(value.Undefined); isUndef {
			return value.UndefinedValue, nil
		}
	}
	if v, handled, err := it.dispatchGlobalCall(n.Callee, args); handled {
		return v, err
	}
	if !it.Callable(fn) {
		return nil, &ScriptError{Message: "value is not a function"}
	}
	return it.CallValue(fn, value.UndefinedValue, args)
}

// evalArgs expands spread arguments in source order.
func (it *Interp) evalArgs(env *Env, n *scriptparse.CallExpr) ([]value.Value, error) {
	var out []value.Value
	for i, a := range n.Args {
		v, err := it.evalExpr(env, a)
		if err != nil {
			return nil, err
		}
		if i < len(n.Spread) && n.Spread[i] {
			out = append(out, iterableItems(v)...)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// evalNew implements `new Ctor(...)` for the closed set of constructible
// built-ins (§4.3); user-defined classes are a Non-goal (the grammar has no
// `class` statement).
func (it *Interp) evalNew(env *Env, n *scriptparse.NewExpr) (value.Value, error) {
	args, err := it.evalArgs(env, &scriptparse.CallExpr{Args: n.Args, Spread: make([]bool, len(n.Args))})
	if err != nil {
		return nil, err
	}
	callee, err := it.evalExpr(env, n.Callee)
	if err != nil {
		return nil, err
	}
	ctor, ok := callee.(value.Constructor)
	if !ok {
		return nil, &ScriptError{Message: "not a constructor"}
	}
	return it.callConstructor(ctor, args)
}
