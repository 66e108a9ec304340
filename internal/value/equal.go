package value

import "math"

// StrictEqual implements §4.2 strict equality: same-variant value equality
// for primitives, handle identity for containers, mixed Number/Float
// compared numerically, BigInt by value, Symbol by identity.
func StrictEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Number:
		switch y := b.(type) {
		case Number:
			return x == y
		case Float:
			return float64(x) == float64(y)
		}
		return false
	case Float:
		switch y := b.(type) {
		case Number:
			return float64(x) == float64(y)
		case Float:
			return x == y
		}
		return false
	case BigInt:
		y, ok := b.(BigInt)
		return ok && x.V.Cmp(y.V) == 0
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Null:
		_, ok := b.(Null)
		return ok
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Node:
		y, ok := b.(Node)
		return ok && x.ID == y.ID
	case Promise:
		y, ok := b.(Promise)
		return ok && x.ID == y.ID
	case Constructor:
		y, ok := b.(Constructor)
		return ok && x.Name == y.Name
	default:
		// Container handles and all other kinds: pointer identity.
		return a == b
	}
}

// LooseEqual implements §4.2 loose equality.
func LooseEqual(a, b Value) bool {
	if StrictEqual(a, b) {
		return true
	}
	_, aNull := a.(Null)
	_, aUndef := a.(Undefined)
	_, bNull := b.(Null)
	_, bUndef := b.(Undefined)
	if (aNull || aUndef) && (bNull || bUndef) {
		return true
	}
	if aNull || aUndef || bNull || bUndef {
		return false
	}

	aBig, aIsBig := a.(BigInt)
	bBig, bIsBig := b.(BigInt)
	if aIsBig && !bIsBig {
		return bigLooseEqualOther(aBig, b)
	}
	if bIsBig && !aIsBig {
		return bigLooseEqualOther(bBig, a)
	}

	if isPrimitiveNumericOrString(a) && isPrimitiveNumericOrString(b) {
		return ToNumeric(a) == ToNumeric(b)
	}
	if ab, ok := a.(Bool); ok {
		return LooseEqual(boolToNumber(ab), b)
	}
	if bb, ok := b.(Bool); ok {
		return LooseEqual(a, boolToNumber(bb))
	}
	if isContainer(a) && !isContainer(b) {
		return LooseEqual(toPrimitive(a), b)
	}
	if isContainer(b) && !isContainer(a) {
		return LooseEqual(a, toPrimitive(b))
	}
	return false
}

func boolToNumber(b Bool) Value {
	if b {
		return Number(1)
	}
	return Number(0)
}

func isPrimitiveNumericOrString(v Value) bool {
	switch v.(type) {
	case Number, Float, String:
		return true
	}
	return false
}

func isContainer(v Value) bool {
	switch v.(type) {
	case Number, Float, BigInt, String, Bool, Null, Undefined:
		return false
	default:
		return true
	}
}

// toPrimitive coerces an object-side operand for loose equality: a String
// wrapper yields its string, a Symbol wrapper yields its symbol, otherwise
// string coercion.
func toPrimitive(v Value) Value {
	if o, ok := v.(*Object); ok {
		if sv, ok := o.Get("__string_wrapper_value"); ok {
			return sv
		}
		if sym, ok := o.Get("__symbol_wrapper_value"); ok {
			return sym
		}
	}
	return String(ToDisplayString(v))
}

func bigLooseEqualOther(b BigInt, other Value) bool {
	switch o := other.(type) {
	case String:
		n, ok := new(bigIntParser).parse(string(o))
		return ok && n.Cmp(b.V) == 0
	default:
		f := ToNumeric(other)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		bf, _ := bigFloatOf(b.V).Float64()
		return math.Trunc(f) == f && bf == f
	}
}
