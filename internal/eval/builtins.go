package eval

import (
	"math"
	"strconv"
	"strings"

	"github.com/domharness/domharness/internal/scriptparse"
	"github.com/domharness/domharness/internal/value"
)

// ConsoleValue is the `console` global.
type ConsoleValue struct{ it *Interp }

func (*ConsoleValue) Kind() value.Kind { return value.KindObject }

// MathValue is the `Math` global.
type MathValue struct{}

func (*MathValue) Kind() value.Kind { return value.KindObject }

// JSONValue is the `JSON` global.
type JSONValue struct{}

func (*JSONValue) Kind() value.Kind { return value.KindObject }

// WindowValue is the `window` global (§6 "script-visible globals"): every
// property read on it falls through to the same global scope `document`/
// `setTimeout`/etc. already live in, the same globalThis-is-window duality
// real browsers expose, rather than a separate object tree to keep in sync.
type WindowValue struct{ it *Interp }

func (*WindowValue) Kind() value.Kind { return value.KindObject }

// installGlobals binds every global name §4.6/§6 expose to script: the DOM
// root objects, timer/microtask scheduling, console, Math, JSON, the
// constructible built-ins, and the platform mocks (fetch/matchMedia/
// alert/confirm/prompt).
func (it *Interp) installGlobals() {
	g := it.Global
	g.Declare("document", &DocumentValue{it: it}, true)
	g.Declare("window", &WindowValue{it: it}, true)
	g.Declare("console", &ConsoleValue{it: it}, true)
	g.Declare("Math", &MathValue{}, true)
	g.Declare("JSON", &JSONValue{}, true)
	g.Declare("NaN", value.Float(math.NaN()), true)
	g.Declare("Infinity", value.Float(math.Inf(1)), true)
	g.Declare("undefined", value.UndefinedValue, true)

	for _, name := range []string{"Array", "Object", "Map", "Set", "Promise", "Date", "RegExp", "Error", "TypeError", "RangeError", "String", "Number", "Boolean", "WeakMap", "WeakSet", "AggregateError"} {
		g.Declare(name, value.Constructor{Name: name}, true)
	}

	native := func(name string, fn func(args []value.Value) (value.Value, error)) {
		g.Declare(name, &value.NativeFunc{Name: name, Fn: fn}, true)
	}
	native("setTimeout", func(args []value.Value) (value.Value, error) {
		return it.scheduleTimer(args, false)
	})
	native("setInterval", func(args []value.Value) (value.Value, error) {
		return it.scheduleTimer(args, true)
	})
	native("clearTimeout", func(args []value.Value) (value.Value, error) {
		it.Timers.ClearTimeout(uint64(argInt(args, 0)))
		return value.UndefinedValue, nil
	})
	native("clearInterval", func(args []value.Value) (value.Value, error) {
		it.Timers.ClearInterval(uint64(argInt(args, 0)))
		return value.UndefinedValue, nil
	})
	native("queueMicrotask", func(args []value.Value) (value.Value, error) {
		fn := argOr(args, 0, value.UndefinedValue)
		it.Timers.QueueMicrotask(func() { it.CallValue(fn, value.UndefinedValue, nil) })
		return value.UndefinedValue, nil
	})
	native("parseInt", func(args []value.Value) (value.Value, error) {
		s := strings.TrimSpace(argStr(args, 0))
		base := 10
		if len(args) > 1 {
			base = argInt(args, 1)
			if base == 0 {
				base = 10
			}
		}
		neg := false
		if strings.HasPrefix(s, "-") {
			neg = true
			s = s[1:]
		} else if strings.HasPrefix(s, "+") {
			s = s[1:]
		}
		if base == 16 {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		}
		end := 0
		for end < len(s) && isBaseDigit(s[end], base) {
			end++
		}
		if end == 0 {
			return value.Float(math.NaN()), nil
		}
		n, err := strconv.ParseInt(s[:end], base, 64)
		if err != nil {
			return value.Float(math.NaN()), nil
		}
		if neg {
			n = -n
		}
		return value.Number(n), nil
	})
	native("parseFloat", func(args []value.Value) (value.Value, error) {
		s := strings.TrimSpace(argStr(args, 0))
		end := 0
		seenDot, seenDigit := false, false
		for end < len(s) {
			c := s[end]
			if c >= '0' && c <= '9' {
				seenDigit = true
			} else if c == '.' && !seenDot {
				seenDot = true
			} else if (c == '-' || c == '+') && end == 0 {
			} else if (c == 'e' || c == 'E') && seenDigit {
			} else {
				break
			}
			end++
		}
		if !seenDigit {
			return value.Float(math.NaN()), nil
		}
		f, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			return value.Float(math.NaN()), nil
		}
		return value.Float(f), nil
	})
	native("isNaN", func(args []value.Value) (value.Value, error) {
		return value.Bool(math.IsNaN(value.ToNumeric(argOr(args, 0, value.UndefinedValue)))), nil
	})
	native("isFinite", func(args []value.Value) (value.Value, error) {
		f := value.ToNumeric(argOr(args, 0, value.UndefinedValue))
		return value.Bool(!math.IsNaN(f) && !math.IsInf(f, 0)), nil
	})
	native("encodeURIComponent", func(args []value.Value) (value.Value, error) {
		return value.String(encodeURIComponentLike(argStr(args, 0))), nil
	})
	native("decodeURIComponent", func(args []value.Value) (value.Value, error) {
		return value.String(decodeURIComponentLike(argStr(args, 0))), nil
	})
	native("fetch", func(args []value.Value) (value.Value, error) {
		return it.callFetch(args)
	})
	native("matchMedia", func(args []value.Value) (value.Value, error) {
		matches := false
		if it.MatchMedia != nil {
			matches = it.MatchMedia(argStr(args, 0))
		}
		o := value.NewObject()
		o.Set("matches", value.Bool(matches))
		o.Set("media", value.String(argStr(args, 0)))
		return o, nil
	})
	native("alert", func(args []value.Value) (value.Value, error) {
		it.AlertLog = append(it.AlertLog, argStr(args, 0))
		return value.UndefinedValue, nil
	})
	native("confirm", func(args []value.Value) (value.Value, error) {
		if len(it.ConfirmResponses) == 0 {
			return value.Bool(false), nil
		}
		v := it.ConfirmResponses[0]
		it.ConfirmResponses = it.ConfirmResponses[1:]
		return value.Bool(v), nil
	})
	native("prompt", func(args []value.Value) (value.Value, error) {
		if len(it.PromptResponses) == 0 {
			return value.NullValue, nil
		}
		v := it.PromptResponses[0]
		it.PromptResponses = it.PromptResponses[1:]
		return value.String(v), nil
	})
}

// mathConstant answers the handful of Math.* named constants scripts read as
// plain properties (methods are dispatched separately, in
// dispatchBuiltinMethod).
func mathConstant(name string) value.Value {
	switch name {
	case "PI":
		return value.Float(math.Pi)
	case "E":
		return value.Float(math.E)
	case "LN2":
		return value.Float(math.Ln2)
	case "LN10":
		return value.Float(math.Log(10))
	case "SQRT2":
		return value.Float(math.Sqrt2)
	}
	return value.UndefinedValue
}

func isBaseDigit(c byte, base int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < base
}

func encodeURIComponentLike(s string) string {
	var b strings.Builder
	const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"
	for _, r := range []byte(s) {
		if strings.IndexByte(unreserved, r) >= 0 {
			b.WriteByte(r)
		} else {
			b.WriteString("%")
			b.WriteString(strings.ToUpper(strconv.FormatInt(int64(r), 16)))
		}
	}
	return b.String()
}

func decodeURIComponentLike(s string) string {
	out, err := decodePercent(s)
	if err != nil {
		return s
	}
	return out
}

func decodePercent(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			n, err := strconv.ParseInt(s[i+1:i+3], 16, 16)
			if err != nil {
				return "", err
			}
			b.WriteByte(byte(n))
			i += 2
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// scheduleTimer implements setTimeout/setInterval: both forward extra
// arguments to the callback per §4.6.
func (it *Interp) scheduleTimer(args []value.Value, interval bool) (value.Value, error) {
	fn := argOr(args, 0, value.UndefinedValue)
	delay := argIntOr(args, 1, 0)
	extra := append([]value.Value(nil), args[min(2, len(args)):]...)
	run := func(a []value.Value) error {
		_, err := it.CallValue(fn, value.UndefinedValue, a)
		return err
	}
	var id uint64
	if interval {
		id = it.Timers.SetInterval(int64(delay), run, extra)
	} else {
		id = it.Timers.SetTimeout(int64(delay), run, extra)
	}
	return value.Number(int64(id)), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// callFetch implements the fetch() platform mock (§6): no FetchMock means
// fetch always rejects.
func (it *Interp) callFetch(args []value.Value) (value.Value, error) {
	id := it.Proms.New().ID
	if it.FetchMock == nil {
		it.Proms.Reject(id, value.String("network error: fetch is not mocked"))
		return value.Promise{ID: id}, nil
	}
	var init value.Value = value.UndefinedValue
	if len(args) > 1 {
		init = args[1]
	}
	res, err := it.FetchMock(argStr(args, 0), init)
	if err != nil {
		it.Proms.Reject(id, value.String(err.Error()))
	} else {
		it.Proms.Resolve(id, res, it.isThenable, it.callForPromise)
	}
	return value.Promise{ID: id}, nil
}

// dispatchGlobalCall recognizes the small set of bare-identifier calls that
// need special evaluation-time handling beyond a plain CallValue (none
// currently — global functions are all plain NativeFunc values — kept as
// the hook point symmetrical with dispatchDomMethod).
func (it *Interp) dispatchGlobalCall(callee scriptparse.Expr, args []value.Value) (value.Value, bool, error) {
	return nil, false, nil
}
