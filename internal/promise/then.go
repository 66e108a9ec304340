package promise

import "github.com/domharness/domharness/internal/value"

// Caller abstracts invoking a script function without this package
// importing the evaluator (which itself depends on promise.Table to
// produce/settle promises) — the same dependency-inversion used by Resolve.
type Caller func(fn, this value.Value, args []value.Value) (value.Value, error)

// IsThenable reports whether v is an object with a callable "then",
// returning that then function. Installed once by the evaluator via
// [Table.SetHooks].
type IsThenable func(value.Value) (then value.Value, ok bool)

// SetHooks wires the evaluator's callable-invocation and thenable-detection
// logic, used whenever a Then/Finally handler's return value needs further
// resolution (§4.7's resolve-to-thenable path).
func (t *Table) SetHooks(call Caller, isThenable IsThenable) {
	t.call = call
	t.isThenable = isThenable
}

func isCallable(v value.Value) bool {
	if v == nil {
		return false
	}
	return v.Kind() == value.KindFunction
}

// Then implements §4.7 "then": attach a Then reaction to id and return the
// derived promise. A non-callable handler is treated as absent (settlement
// forwards through unchanged).
func (t *Table) Then(id uint64, onFulfilled, onRejected value.Value) value.Promise {
	derived := t.New()
	r := Reaction{Kind: KindThen, OnFulfilled: onFulfilled, OnRejected: onRejected, Derived: derived.ID}
	t.attachThen(id, r)
	return derived
}

// Finally implements §4.7 "finally".
func (t *Table) Finally(id uint64, cb value.Value) value.Promise {
	derived := t.New()
	r := Reaction{Kind: KindFinally, FinallyCallback: cb, Derived: derived.ID}
	t.attachThen(id, r)
	return derived
}

func (t *Table) attachThen(id uint64, r Reaction) {
	rec := t.promises[id]
	if rec == nil {
		t.enqueue(func() { t.runThen(r, Rejected, value.String("no such promise")) })
		return
	}
	if rec.State == Pending {
		rec.Reactions = append(rec.Reactions, r)
		return
	}
	t.enqueue(func() { t.runThen(r, rec.State, rec.Value) })
}

// runThen executes a Then/Finally reaction's handler (if callable) and
// settles the derived promise from its outcome.
func (t *Table) runThen(r Reaction, st State, v value.Value) {
	switch r.Kind {
	case KindThen:
		handler := r.OnFulfilled
		if st == Rejected {
			handler = r.OnRejected
		}
		if !isCallable(handler) {
			t.settle(r.Derived, st, v)
			return
		}
		out, err := t.call(handler, value.UndefinedValue, []value.Value{v})
		if err != nil {
			t.settle(r.Derived, Rejected, errToValue(err))
			return
		}
		t.Resolve(r.Derived, out, t.isThenable, t.call)
	case KindFinally:
		if !isCallable(r.FinallyCallback) {
			t.settle(r.Derived, st, v)
			return
		}
		out, err := t.call(r.FinallyCallback, value.UndefinedValue, nil)
		if err != nil {
			t.settle(r.Derived, Rejected, errToValue(err))
			return
		}
		// §4.7: a finally callback returning a thenable gates settlement on
		// it, adopting its rejection; otherwise the derived promise settles
		// with the original (pre-finally) outcome, saved on the
		// FinallyContinuation reaction as OrigState/OrigValue.
		waitID, ok := t.resolveWaitable(out)
		if !ok {
			t.settle(r.Derived, st, v)
			return
		}
		t.attachWait(waitID, Reaction{Kind: KindFinallyContinuation, Derived: r.Derived, OrigState: st, OrigValue: v})
	case KindFinallyContinuation:
		if st == Rejected {
			t.settle(r.Derived, Rejected, v)
			return
		}
		t.settle(r.Derived, r.OrigState, r.OrigValue)
	}
}

// resolveWaitable normalizes out into a promise id this table can attach a
// reaction to: a Promise handle directly, or a thenable assimilated into a
// fresh internal promise. ok is false for any other value (nothing to wait
// on, so finally's derived promise settles immediately).
func (t *Table) resolveWaitable(out value.Value) (uint64, bool) {
	if p, ok := out.(value.Promise); ok {
		return p.ID, true
	}
	if _, ok := t.isThenable(out); ok {
		p := t.New()
		t.Resolve(p.ID, out, t.isThenable, t.call)
		return p.ID, true
	}
	return 0, false
}

// attachWait attaches r to waitID's reaction list the same way attachThen
// does for a fresh Then/Finally, generalized to any Reaction kind via
// runReaction rather than runThen specifically.
func (t *Table) attachWait(waitID uint64, r Reaction) {
	rec := t.promises[waitID]
	if rec == nil {
		t.enqueue(func() { t.runReaction(r, Rejected, value.String("no such promise")) })
		return
	}
	if rec.State == Pending {
		rec.Reactions = append(rec.Reactions, r)
		return
	}
	t.queueReaction(r, rec.State, rec.Value)
}
