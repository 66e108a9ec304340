package value

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Truthy implements §4.2 truthiness.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Null:
		return false
	case Undefined:
		return false
	case Bool:
		return bool(x)
	case Number:
		return x != 0
	case Float:
		return x != 0 && !math.IsNaN(float64(x))
	case BigInt:
		return x.V.Sign() != 0
	case String:
		return x != ""
	default:
		return true
	}
}

// NodeFormatter renders a Node's display string as §4.2's "tag#id" (tag
// name plus the node's id attribute). This package holds only the opaque
// node id and has no DOM access, so internal/eval wires this in at
// construction time, the same hook-injection shape as events.Registry.Call
// or promise.Table's Caller/IsThenable. Left nil (e.g. value-package unit
// tests exercising ToDisplayString standalone), ToDisplayString falls back
// to the internal id, which is wrong per §4.2 but at least unambiguous.
var NodeFormatter func(Node) string

// ToDisplayString implements §4.2 string coercion, defined for every
// variant. Object coercion consults the hidden __string_wrapper_value key
// set by a String wrapper before falling back to a tag-specific default.
func ToDisplayString(v Value) string {
	switch x := v.(type) {
	case Null:
		return "null"
	case Undefined:
		return "undefined"
	case Bool:
		if x {
			return "true"
		}
		return "false"
	case Number:
		return strconv.FormatInt(int64(x), 10)
	case Float:
		return FormatFloat(float64(x))
	case BigInt:
		return x.V.String()
	case String:
		return string(x)
	case *Array:
		parts := make([]string, len(x.Items))
		for i, it := range x.Items {
			if it == nil {
				continue
			}
			switch it.(type) {
			case Null, Undefined:
				parts[i] = ""
			default:
				parts[i] = ToDisplayString(it)
			}
		}
		return strings.Join(parts, ",")
	case *Object:
		if sv, ok := x.Get("__string_wrapper_value"); ok {
			return ToDisplayString(sv)
		}
		return "[object Object]"
	case *MapObject:
		return "[object Map]"
	case *SetObject:
		return "[object Set]"
	case *RegExp:
		return "/" + x.Source + "/" + x.Flags
	case *Date:
		return FormatFloat(x.EpochMs)
	case Node:
		if NodeFormatter != nil {
			return NodeFormatter(x)
		}
		return fmt.Sprintf("node#%d", x.ID)
	case *NodeList:
		return fmt.Sprintf("nodelist(%d)", len(x.IDs))
	case *Blob:
		return "[object Blob]"
	case *ArrayBuffer:
		return "[object ArrayBuffer]"
	case *TypedArray:
		return string(x.Kind_)
	case *FormData:
		return "[object FormData]"
	case *Symbol:
		return "Symbol(" + x.Description + ")"
	case Constructor:
		return "function " + x.Name + "() { [native code] }"
	case Promise:
		return "[object Promise]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatFloat implements the canonical "no trailing zeros" number-to-string
// conversion used by default coercion and by stepUp/stepDown (§4.4).
func FormatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go emits e+05; the language form is e+5 (no leading zero).
		if i := strings.IndexAny(s, "eE"); i >= 0 {
			mantissa, exp := s[:i], s[i+1:]
			sign := "+"
			if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
				if exp[0] == '-' {
					sign = "-"
				}
				exp = exp[1:]
			}
			exp = strings.TrimLeft(exp, "0")
			if exp == "" {
				exp = "0"
			}
			s = mantissa + "e" + sign + exp
		}
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToNumeric implements §4.2 numeric coercion for arithmetic, returning the
// f64 used by +, -, *, /, %, **, and relational comparisons.
func ToNumeric(v Value) float64 {
	switch x := v.(type) {
	case Number:
		return float64(x)
	case Float:
		return float64(x)
	case BigInt:
		f, _ := new(big.Float).SetInt(x.V).Float64()
		return f
	case Bool:
		if x {
			return 1
		}
		return 0
	case Null:
		return 0
	case Undefined:
		return math.NaN()
	case String:
		return parseNumberLiteral(string(x))
	default:
		return math.NaN()
	}
}

// parseNumberLiteral implements the language's number-parse: decimal, hex,
// scientific, surrounding whitespace tolerant, empty string is 0.
func parseNumberLiteral(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	lower := strings.ToLower(t)
	neg := false
	body := lower
	if strings.HasPrefix(body, "+") {
		body = body[1:]
	} else if strings.HasPrefix(body, "-") {
		neg = true
		body = body[1:]
	}
	if strings.HasPrefix(body, "0x") {
		n, err := strconv.ParseUint(body[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		f := float64(n)
		if neg {
			f = -f
		}
		return f
	}
	if t == "Infinity" || t == "+Infinity" {
		return math.Inf(1)
	}
	if t == "-Infinity" {
		return math.Inf(-1)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToInt32 implements §4.2 integer coercion for bitwise ops: truncate toward
// zero, reduce modulo 2^32, reinterpret the high bit as sign.
func ToInt32(v Value) int32 {
	f := ToNumeric(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	n := math.Trunc(f)
	u := uint32(int64(n) & 0xFFFFFFFF)
	return int32(u)
}

// ToUint32 is ToInt32 without the sign reinterpretation.
func ToUint32(v Value) uint32 {
	f := ToNumeric(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	n := math.Trunc(f)
	return uint32(int64(n) & 0xFFFFFFFF)
}

// IsBigInt reports whether v is the BigInt variant.
func IsBigInt(v Value) bool {
	_, ok := v.(BigInt)
	return ok
}

// RuneLen returns the Unicode scalar count of a String, matching the
// language's .length semantics (not byte length).
func RuneLen(s string) int {
	return len([]rune(s))
}
