package eval

import "github.com/domharness/domharness/internal/value"

// ErrorKind distinguishes the three §6 error-taxonomy shapes a script
// boundary can surface.
type ErrorKind int

const (
	// ScriptRuntime is the zero value: a rule violation, missing binding,
	// arity/type misuse, detached-buffer access, or step-limit breach
	// raised by the evaluator itself rather than an explicit throw.
	ScriptRuntime ErrorKind = iota
	// ScriptParse marks a *scriptparse.ParseError surfaced through this
	// type at the harness boundary.
	ScriptParse
	// ScriptThrown marks a script-executed `throw`; see [ThrownValue].
	ScriptThrown
)

func (k ErrorKind) String() string {
	switch k {
	case ScriptParse:
		return "ScriptParse"
	case ScriptThrown:
		return "ScriptThrown"
	default:
		return "ScriptRuntime"
	}
}

// ScriptError is a script-level thrown value that is a plain string message
// (e.g. ReferenceError/TypeError-equivalent conditions raised by the
// evaluator itself, rather than an explicit `throw` statement). Kind
// defaults to ScriptRuntime; callers crossing the harness boundary that
// need the other two taxonomy members (ScriptParse/ScriptThrown) set Kind
// explicitly or use [ThrownValue].
type ScriptError struct {
	Message string
	Kind    ErrorKind
}

func (e *ScriptError) Error() string { return e.Message }

// ThrownValue wraps an arbitrary script value thrown via `throw expr`, so
// try/catch can recover the original value rather than just a string.
type ThrownValue struct {
	Value value.Value
}

func (t *ThrownValue) Error() string { return value.ToDisplayString(t.Value) }

// ToThrown normalizes any error into the value a `catch` binding should see:
// a *ThrownValue's payload unchanged, anything else wrapped as an Error-like
// object carrying its message.
func ToThrown(err error) value.Value {
	if tv, ok := err.(*ThrownValue); ok {
		return tv.Value
	}
	o := value.NewObject()
	o.Set("name", value.String("Error"))
	o.Set("message", value.String(err.Error()))
	return o
}
