package harness

import (
	"errors"
	"fmt"

	"github.com/domharness/domharness/internal/eval"
	"github.com/domharness/domharness/internal/scriptparse"
)

// Sentinel structural errors, mirroring eventloop/loop.go's
// ErrLoopAlreadyRunning/ErrLoopTerminated style: package-level errors.New
// values composed with fmt.Errorf("...: %w", ...) at call sites, rather
// than ad hoc strings.
var (
	// ErrNoSuchElement is returned when a selector resolves to zero
	// elements for an operation that requires exactly one.
	ErrNoSuchElement = errors.New("harness: no element matches selector")
	// ErrNotFormControl is returned when type_text/set_input_files targets
	// an element without a settable value/files property.
	ErrNotFormControl = errors.New("harness: target is not a form control")
)

// ScriptError is the public, script-facing error taxonomy (§6): every
// error a harness operation can return because of the *script* (as
// opposed to a Go-level usage error like ErrNoSuchElement) is either this
// type or wraps it, so driver code can errors.As into one shape and
// inspect Kind.
type ScriptError struct {
	Kind    eval.ErrorKind
	Message string
	Thrown  error // non-nil only when Kind == eval.ScriptThrown
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ScriptError) Unwrap() error { return e.Thrown }

// wrapScriptErr normalizes any error surfaced by parsing or running script
// into the three-member §6 taxonomy.
func wrapScriptErr(err error) error {
	if err == nil {
		return nil
	}
	var pe *scriptparse.ParseError
	if errors.As(err, &pe) {
		return &ScriptError{Kind: eval.ScriptParse, Message: pe.Error()}
	}
	var tv *eval.ThrownValue
	if errors.As(err, &tv) {
		return &ScriptError{Kind: eval.ScriptThrown, Message: tv.Error(), Thrown: err}
	}
	var se *eval.ScriptError
	if errors.As(err, &se) {
		return &ScriptError{Kind: se.Kind, Message: se.Message}
	}
	return &ScriptError{Kind: eval.ScriptRuntime, Message: err.Error(), Thrown: err}
}
