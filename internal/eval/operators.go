package eval

import (
	"math"
	"math/big"

	"github.com/domharness/domharness/internal/scriptparse"
	"github.com/domharness/domharness/internal/value"
)

func (it *Interp) evalUnary(env *Env, n *scriptparse.UnaryExpr) (value.Value, error) {
	if n.Op == "typeof" {
		if id, ok := n.X.(*scriptparse.Ident); ok {
			if _, found := env.Get(id.Name); !found {
				return value.String("undefined"), nil
			}
		}
		v, err := it.evalExpr(env, n.X)
		if err != nil {
			return nil, err
		}
		return value.String(typeOf(v)), nil
	}
	v, err := it.evalExpr(env, n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "!":
		return value.Bool(!value.Truthy(v)), nil
	case "-":
		if bi, ok := v.(value.BigInt); ok {
			return value.BigInt{V: new(big.Int).Neg(bi.V)}, nil
		}
		return value.Float(-value.ToNumeric(v)), nil
	case "+":
		return value.Float(value.ToNumeric(v)), nil
	case "~":
		return value.Number(^int64(value.ToInt32(v))), nil
	case "void":
		return value.UndefinedValue, nil
	}
	return nil, &ScriptError{Message: "unsupported unary operator " + n.Op}
}

func typeOf(v value.Value) string {
	switch v.(type) {
	case value.Undefined:
		return "undefined"
	case value.Null:
		return "object"
	case value.Bool:
		return "boolean"
	case value.Number, value.Float:
		return "number"
	case value.BigInt:
		return "bigint"
	case value.String:
		return "string"
	case *value.Symbol:
		return "symbol"
	case *Closure, *value.NativeFunc, value.Constructor:
		return "function"
	default:
		return "object"
	}
}

func (it *Interp) evalUpdate(env *Env, n *scriptparse.UpdateExpr) (value.Value, error) {
	old, err := it.evalExpr(env, n.X)
	if err != nil {
		return nil, err
	}
	oldNum := value.ToNumeric(old)
	var next float64
	if n.Op == "++" {
		next = oldNum + 1
	} else {
		next = oldNum - 1
	}
	nv := numericResult(next)
	if err := it.assignPattern(env, n.X, nv); err != nil {
		return nil, err
	}
	if n.Prefix {
		return nv, nil
	}
	return numericResult(oldNum), nil
}

func numericResult(f float64) value.Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < (1<<53) {
		return value.Number(int64(f))
	}
	return value.Float(f)
}

func (it *Interp) evalBinary(env *Env, n *scriptparse.BinaryExpr) (value.Value, error) {
	l, err := it.evalExpr(env, n.Left)
	if err != nil {
		return nil, err
	}
	r, err := it.evalExpr(env, n.Right)
	if err != nil {
		return nil, err
	}
	return binaryOp(n.Op, l, r)
}

// binaryOp is BinaryExpr's operator table, factored out so compound
// assignment (`+=`, ...) can reuse it without an AST node of its own.
func binaryOp(op string, l, r value.Value) (value.Value, error) {
	switch op {
	case "+":
		v, err := value.Add(l, r)
		if err != nil {
			return nil, &ScriptError{Message: err.Error()}
		}
		return v, nil
	case "-":
		return bigOrFloat(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }, func(a, b float64) float64 { return a - b })
	case "*":
		return bigOrFloat(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }, func(a, b float64) float64 { return a * b })
	case "/":
		return bigOrFloat(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).Quo(a, b) }, func(a, b float64) float64 { return a / b })
	case "%":
		return bigOrFloat(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).Rem(a, b) }, math.Mod)
	case "**":
		return bigOrFloat(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).Exp(a, b, nil) }, math.Pow)
	case "==":
		return value.Bool(value.LooseEqual(l, r)), nil
	case "!=":
		return value.Bool(!value.LooseEqual(l, r)), nil
	case "===":
		return value.Bool(value.StrictEqual(l, r)), nil
	case "!==":
		return value.Bool(!value.StrictEqual(l, r)), nil
	case "<", ">", "<=", ">=":
		return compare(op, l, r), nil
	case "&":
		return value.Number(int64(value.ToInt32(l) & value.ToInt32(r))), nil
	case "|":
		return value.Number(int64(value.ToInt32(l) | value.ToInt32(r))), nil
	case "^":
		return value.Number(int64(value.ToInt32(l) ^ value.ToInt32(r))), nil
	case "<<":
		return value.Number(int64(value.ToInt32(l) << (uint32(value.ToInt32(r)) & 31))), nil
	case ">>":
		return value.Number(int64(value.ToInt32(l) >> (uint32(value.ToInt32(r)) & 31))), nil
	case ">>>":
		return value.Number(int64(value.ToUint32(l) >> (uint32(value.ToInt32(r)) & 31))), nil
	case "instanceof":
		return value.Bool(isInstanceOf(l, r)), nil
	case "in":
		return value.Bool(hasProperty(r, value.ToDisplayString(l))), nil
	}
	return nil, &ScriptError{Message: "unsupported binary operator " + op}
}

func bigOrFloat(l, r value.Value, bigOp func(a, b *big.Int) *big.Int, floatOp func(a, b float64) float64) (value.Value, error) {
	lb, lok := l.(value.BigInt)
	rb, rok := r.(value.BigInt)
	if lok || rok {
		if !lok || !rok {
			return nil, &ScriptError{Message: value.ErrBigIntMix.Error()}
		}
		return value.BigInt{V: bigOp(lb.V, rb.V)}, nil
	}
	return value.Float(floatOp(value.ToNumeric(l), value.ToNumeric(r))), nil
}

func compare(op string, l, r value.Value) value.Value {
	ls, lIsStr := l.(value.String)
	rs, rIsStr := r.(value.String)
	if lIsStr && rIsStr {
		switch op {
		case "<":
			return value.Bool(ls < rs)
		case ">":
			return value.Bool(ls > rs)
		case "<=":
			return value.Bool(ls <= rs)
		default:
			return value.Bool(ls >= rs)
		}
	}
	a, b := value.ToNumeric(l), value.ToNumeric(r)
	if math.IsNaN(a) || math.IsNaN(b) {
		return value.Bool(false)
	}
	switch op {
	case "<":
		return value.Bool(a < b)
	case ">":
		return value.Bool(a > b)
	case "<=":
		return value.Bool(a <= b)
	default:
		return value.Bool(a >= b)
	}
}

func isInstanceOf(l, r value.Value) bool {
	ctor, ok := r.(value.Constructor)
	if !ok {
		return false
	}
	switch ctor.Name {
	case "Array":
		_, ok := l.(*value.Array)
		return ok
	case "Object":
		_, ok := l.(*value.Object)
		return ok
	case "Map":
		_, ok := l.(*value.MapObject)
		return ok
	case "Set":
		_, ok := l.(*value.SetObject)
		return ok
	case "Promise":
		_, ok := l.(value.Promise)
		return ok
	case "RegExp":
		_, ok := l.(*value.RegExp)
		return ok
	case "Date":
		_, ok := l.(*value.Date)
		return ok
	case "Function":
		return isCallableValue(l)
	}
	return false
}

func isCallableValue(v value.Value) bool {
	switch v.(type) {
	case *Closure, *value.NativeFunc, value.Constructor:
		return true
	}
	return false
}

func hasProperty(container value.Value, key string) bool {
	switch o := container.(type) {
	case *value.Object:
		_, ok := o.Get(key)
		return ok
	case *value.Array:
		for i := range o.Items {
			if value.FormatFloat(float64(i)) == key {
				return true
			}
		}
		return key == "length"
	}
	return false
}

func (it *Interp) evalLogical(env *Env, n *scriptparse.LogicalExpr) (value.Value, error) {
	l, err := it.evalExpr(env, n.Left)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "&&":
		if !value.Truthy(l) {
			return l, nil
		}
		return it.evalExpr(env, n.Right)
	case "||":
		if value.Truthy(l) {
			return l, nil
		}
		return it.evalExpr(env, n.Right)
	case "??":
		if _, isNull := l.(value.Null); isNull {
			return it.evalExpr(env, n.Right)
		}
		if _, isUndef := l.(value.Undefined); isUndef {
			return it.evalExpr(env, n.Right)
		}
		return l, nil
	}
	return nil, &ScriptError{Message: "unsupported logical operator " + n.Op}
}
