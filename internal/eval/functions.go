package eval

import (
	"github.com/domharness/domharness/internal/promise"
	"github.com/domharness/domharness/internal/scriptparse"
	"github.com/domharness/domharness/internal/value"
)

// Closure is a script function value: a parsed declaration/expression plus
// the scope it closed over at definition time (§4.3 "Closures capture by
// reference"). It implements [value.Value] directly so the tagged-value
// union never needs to know about the evaluator.
type Closure struct {
	Decl    *scriptparse.FuncDeclStmt // set for function declarations/expressions
	Expr    *scriptparse.FuncExpr     // set for arrow/anonymous function expressions
	Env     *Env
	Interp  *Interp
	BoundThis value.Value // set once by .bind(), nil otherwise
}

func (*Closure) Kind() value.Kind { return value.KindFunction }

func (c *Closure) params() []scriptparse.Param {
	if c.Decl != nil {
		return c.Decl.Params
	}
	return c.Expr.Params
}

func (c *Closure) isAsync() bool {
	if c.Decl != nil {
		return c.Decl.IsAsync
	}
	return c.Expr.IsAsync
}

func (c *Closure) isArrow() bool { return c.Expr != nil && c.Expr.Arrow }

func (c *Closure) name() string {
	if c.Decl != nil {
		return c.Decl.Name
	}
	return c.Expr.Name
}

// Call invokes c with this and args, implementing §4.3's function-call
// algorithm: a fresh frame parented on the closure's definition-time scope
// (never the caller's), parameter binding (defaults + rest), an implicit
// `arguments`-equivalent is intentionally omitted (§4.1 Non-goals: only
// rest parameters are supported), and `this`/arrow `this`-forwarding.
func (c *Closure) Call(this value.Value, args []value.Value) (value.Value, error) {
	frame := NewEnv(c.Env)
	if !c.isArrow() {
		thisVal := this
		if c.BoundThis != nil {
			thisVal = c.BoundThis
		}
		if thisVal == nil {
			thisVal = value.UndefinedValue
		}
		frame.Declare("this", thisVal, true)
	}
	if err := c.bindParams(frame, args); err != nil {
		return nil, err
	}

	body := c.body()
	if c.Expr != nil && c.Expr.ExprBody != nil {
		v, err := c.Interp.evalExpr(frame, c.Expr.ExprBody)
		if err != nil {
			return nil, err
		}
		if c.isAsync() {
			return c.Interp.wrapAsyncResult(v, nil)
		}
		return v, nil
	}

	c.Interp.hoist(frame, body)
	if c.isAsync() {
		return c.callAsync(frame, body)
	}
	ctl, v, err := c.Interp.execBlockBody(frame, body)
	if err != nil {
		return nil, err
	}
	if ctl == ctrlReturn {
		return v, nil
	}
	return value.UndefinedValue, nil
}

func (c *Closure) body() []scriptparse.Stmt {
	if c.Decl != nil {
		return c.Decl.Body.Body
	}
	return c.Expr.Body.Body
}

// callAsync runs an async function body synchronously to completion, each
// await draining microtasks in place (this harness has no real concurrency; every awaited promise
// is already resolvable via the deterministic microtask/timer queues by the
// time script observes it per §4.7), wrapping the outcome as a promise.
func (c *Closure) callAsync(frame *Env, body []scriptparse.Stmt) (value.Value, error) {
	ctl, v, err := c.Interp.execBlockBody(frame, body)
	return c.Interp.wrapAsyncResult(v, errOrThrown(ctl, err))
}

func errOrThrown(ctl ctrl, err error) error {
	if ctl == ctrlReturn {
		return nil
	}
	return err
}

// wrapAsyncResult implements "an async function's return value is wrapped
// in a resolved promise; a thrown value rejects the returned promise"
// (§4.7).
func (it *Interp) wrapAsyncResult(v value.Value, err error) (value.Value, error) {
	id := it.Proms.New().ID
	if err != nil {
		it.Proms.Reject(id, ToThrown(err))
	} else {
		it.Proms.Resolve(id, v, it.isThenable, it.callForPromise)
	}
	return value.Promise{ID: id}, nil
}

// bindParams implements §4.3's parameter binding: positional assignment,
// default expressions evaluated in the new frame when the argument is
// undefined/absent, and a single trailing rest parameter collecting the
// remainder into an Array.
func (c *Closure) bindParams(frame *Env, args []value.Value) error {
	params := c.params()
	for i, p := range params {
		if p.Rest {
			rest := make([]value.Value, 0)
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			return c.Interp.bindPattern(frame, p.Name, value.NewArray(rest...), scriptparse.VarLet)
		}
		var av value.Value = value.UndefinedValue
		if i < len(args) && args[i] != nil {
			if _, isUndef := args[i].(value.Undefined); !isUndef {
				av = args[i]
			}
		}
		if _, isUndef := av.(value.Undefined); isUndef && p.Default != nil {
			dv, err := c.Interp.evalExpr(frame, p.Default)
			if err != nil {
				return err
			}
			av = dv
		}
		if err := c.Interp.bindPattern(frame, p.Name, av, scriptparse.VarLet); err != nil {
			return err
		}
	}
	return nil
}

// Callable reports whether v can be invoked as a function, and the call
// dispatch itself, covering both script closures and Go-native adapters
// (promise capability functions, platform-mock bindings).
func (it *Interp) Callable(v value.Value) bool {
	switch v.(type) {
	case *Closure, *value.NativeFunc, value.Constructor:
		return true
	}
	return false
}

// CallValue invokes a callable Value with the given receiver and arguments,
// the single dispatch point every call expression and every injected hook
// (promise.Caller, events.Registry.Call) funnels through.
func (it *Interp) CallValue(fn, this value.Value, args []value.Value) (value.Value, error) {
	switch f := fn.(type) {
	case *Closure:
		return f.Call(this, args)
	case *value.NativeFunc:
		return f.Fn(args)
	case value.Constructor:
		return it.callConstructor(f, args)
	}
	return nil, &ScriptError{Message: "value is not callable"}
}

// callForPromise adapts CallValue to [promise.Caller]'s signature.
func (it *Interp) callForPromise(fn, this value.Value, args []value.Value) (value.Value, error) {
	return it.CallValue(fn, this, args)
}

// isThenable adapts to [promise.IsThenable]: an object exposing a callable
// `then` property.
func (it *Interp) isThenable(v value.Value) (then value.Value, ok bool) {
	o, isObj := v.(*value.Object)
	if !isObj {
		return nil, false
	}
	th, has := o.Get("then")
	if !has || !it.Callable(th) {
		return nil, false
	}
	return th, true
}

var _ promise.Caller = (*Interp)(nil).callForPromise
var _ promise.IsThenable = (*Interp)(nil).isThenable
