package eval

import (
	"github.com/domharness/domharness/internal/scriptparse"
	"github.com/domharness/domharness/internal/value"
)

// evalAssign implements `=` and the compound assignment operators, plus
// destructuring assignment (`[a, b] = x`, `({a, b} = x)`) when Target is an
// array/object literal rather than an Ident/MemberExpr (§4.1).
func (it *Interp) evalAssign(env *Env, n *scriptparse.AssignExpr) (value.Value, error) {
	if n.Op == "=" {
		v, err := it.evalExpr(env, n.Value)
		if err != nil {
			return nil, err
		}
		if err := it.assignPattern(env, n.Target, v); err != nil {
			return nil, err
		}
		return v, nil
	}

	cur, err := it.evalExpr(env, n.Target)
	if err != nil {
		return nil, err
	}

	op := n.Op[:len(n.Op)-1] // "+=" -> "+"
	var next value.Value
	switch op {
	case "||":
		if value.Truthy(cur) {
			return cur, nil
		}
		rv, err := it.evalExpr(env, n.Value)
		if err != nil {
			return nil, err
		}
		next = rv
	case "&&":
		if !value.Truthy(cur) {
			return cur, nil
		}
		rv, err := it.evalExpr(env, n.Value)
		if err != nil {
			return nil, err
		}
		next = rv
	case "??":
		_, isNull := cur.(value.Null)
		_, isUndef := cur.(value.Undefined)
		if !isNull && !isUndef {
			return cur, nil
		}
		rv, err := it.evalExpr(env, n.Value)
		if err != nil {
			return nil, err
		}
		next = rv
	default:
		rhs, err := it.evalExpr(env, n.Value)
		if err != nil {
			return nil, err
		}
		nv, err := binaryOp(op, cur, rhs)
		if err != nil {
			return nil, err
		}
		next = nv
	}
	if err := it.assignPattern(env, n.Target, next); err != nil {
		return nil, err
	}
	return next, nil
}
