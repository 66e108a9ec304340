package eval

import (
	"github.com/domharness/domharness/internal/promise"
	"github.com/domharness/domharness/internal/scriptparse"
	"github.com/domharness/domharness/internal/value"
)

// evalExpr evaluates one expression node in env, implementing §4.2's
// operator semantics atop the value package's coercion/arithmetic/equality
// helpers, and §4.1's expression grammar.
func (it *Interp) evalExpr(env *Env, e scriptparse.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *scriptparse.Ident:
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, &ScriptError{Message: n.Name + " is not defined"}
		}
		return v, nil
	case *scriptparse.NumberLit:
		return value.Number(n.Value), nil
	case *scriptparse.FloatLit:
		return value.Float(n.Value), nil
	case *scriptparse.BigIntLit:
		bi, err := parseBigIntLit(n.Text)
		if err != nil {
			return nil, err
		}
		return bi, nil
	case *scriptparse.StringLit:
		return value.String(n.Value), nil
	case *scriptparse.TemplateLit:
		return it.evalTemplate(env, n)
	case *scriptparse.BoolLit:
		return value.Bool(n.Value), nil
	case *scriptparse.NullLit:
		return value.NullValue, nil
	case *scriptparse.UndefinedLit:
		return value.UndefinedValue, nil
	case *scriptparse.RegexLit:
		return it.compileRegex(n.Pattern, n.Flags)
	case *scriptparse.ArrayLit:
		return it.evalArrayLit(env, n)
	case *scriptparse.ObjectLit:
		return it.evalObjectLit(env, n)
	case *scriptparse.UnaryExpr:
		return it.evalUnary(env, n)
	case *scriptparse.UpdateExpr:
		return it.evalUpdate(env, n)
	case *scriptparse.BinaryExpr:
		return it.evalBinary(env, n)
	case *scriptparse.LogicalExpr:
		return it.evalLogical(env, n)
	case *scriptparse.AssignExpr:
		return it.evalAssign(env, n)
	case *scriptparse.CondExpr:
		cond, err := it.evalExpr(env, n.Cond)
		if err != nil {
			return nil, err
		}
		if value.Truthy(cond) {
			return it.evalExpr(env, n.Then)
		}
		return it.evalExpr(env, n.Else)
	case *scriptparse.MemberExpr:
		obj, v, err := it.evalMember(env, n)
		_ = obj
		return v, err
	case *scriptparse.CallExpr:
		return it.evalCall(env, n)
	case *scriptparse.NewExpr:
		return it.evalNew(env, n)
	case *scriptparse.FuncExpr:
		return &Closure{Expr: n, Env: env, Interp: it}, nil
	case *scriptparse.SpreadExpr:
		return it.evalExpr(env, n.X)
	case *scriptparse.SequenceExpr:
		var last value.Value = value.UndefinedValue
		for _, x := range n.Exprs {
			v, err := it.evalExpr(env, x)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	case *scriptparse.AwaitExpr:
		return it.evalAwait(env, n)
	}
	return nil, &ScriptError{Message: "unsupported expression"}
}

func (it *Interp) evalTemplate(env *Env, n *scriptparse.TemplateLit) (value.Value, error) {
	s := n.Parts[0]
	for i, x := range n.Exprs {
		v, err := it.evalExpr(env, x)
		if err != nil {
			return nil, err
		}
		s += value.ToDisplayString(v) + n.Parts[i+1]
	}
	return value.String(s), nil
}

func (it *Interp) evalArrayLit(env *Env, n *scriptparse.ArrayLit) (value.Value, error) {
	items := make([]value.Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		if el == nil {
			items = append(items, value.UndefinedValue)
			continue
		}
		if sp, ok := el.(*scriptparse.SpreadExpr); ok {
			v, err := it.evalExpr(env, sp.X)
			if err != nil {
				return nil, err
			}
			items = append(items, iterableItems(v)...)
			continue
		}
		v, err := it.evalExpr(env, el)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return value.NewArray(items...), nil
}

func (it *Interp) evalObjectLit(env *Env, n *scriptparse.ObjectLit) (value.Value, error) {
	o := value.NewObject()
	for _, p := range n.Props {
		key := p.Key
		if p.Computed != nil {
			kv, err := it.evalExpr(env, p.Computed)
			if err != nil {
				return nil, err
			}
			key = value.ToDisplayString(kv)
		}
		v, err := it.evalExpr(env, p.Value)
		if err != nil {
			return nil, err
		}
		o.Set(key, v)
	}
	return o, nil
}

func (it *Interp) evalAwait(env *Env, n *scriptparse.AwaitExpr) (value.Value, error) {
	v, err := it.evalExpr(env, n.X)
	if err != nil {
		return nil, err
	}
	p, ok := v.(value.Promise)
	if !ok {
		return v, nil
	}
	// The scheduler drains microtasks/timers strictly between script turns
	// (§5), so by the time `await` observes a promise within one script
	// execution, it has already settled or it never will within this turn;
	// pumping the microtask queue here lets a same-turn resolution land.
	it.Timers.DrainMicrotasks()
	rec := it.Proms.Get(p.ID)
	if rec == nil {
		return value.UndefinedValue, nil
	}
	switch rec.State {
	case promise.Fulfilled:
		return rec.Value, nil
	case promise.Rejected:
		return nil, &ThrownValue{Value: rec.Value}
	default:
		return value.UndefinedValue, nil
	}
}
