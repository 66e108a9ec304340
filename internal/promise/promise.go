// Package promise implements §4.7: promise records, reactions and the four
// aggregate combinators, adapted from the teacher's single-shot-resolve
// Promise/A+ shape (eventloop.Promise's State()/Resolve()/Reject() guard
// against a second settlement) but single-threaded and microtask-queue
// driven rather than channel/mutex driven, since §5 rules out concurrency
// entirely.
package promise

import "github.com/domharness/domharness/internal/value"

// State mirrors the teacher's PromiseState naming.
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

// ReactionKind enumerates the reaction shapes from §3's Promise record.
type ReactionKind int

const (
	KindThen ReactionKind = iota
	KindFinally
	KindFinallyContinuation
	KindResolveTo
	KindAll
	KindAllSettled
	KindAny
	KindRace
)

// Reaction is one entry in a promise's reaction list, queued to the
// microtask queue exactly once when the promise settles (or immediately,
// by the same queuing path, if already settled at attach time).
type Reaction struct {
	Kind ReactionKind

	OnFulfilled value.Value // Function or nil
	OnRejected  value.Value // Function or nil
	Derived     uint64      // derived promise id, 0 if none

	FinallyCallback value.Value

	// Original-settled snapshot for FinallyContinuation.
	OrigState  State
	OrigValue  value.Value

	Target uint64 // ResolveTo target promise id

	// Aggregate combinator bookkeeping.
	Agg   *aggregate
	Index int
}

// Record is one promise's mutable state.
type Record struct {
	ID        uint64
	State     State
	Value     value.Value // fulfillment value or rejection reason
	Reactions []Reaction
}

// Table owns every live promise, keyed by id; it is the promise-table
// Value.Promise{ID} is a handle into.
type Table struct {
	promises map[uint64]*Record
	nextID   uint64
	// enqueue is called once per settlement-triggered reaction, handing the
	// reaction to the scheduler's microtask queue. Wired by the evaluator at
	// construction time to avoid an import cycle with internal/scheduler.
	enqueue func(run func())

	// call/isThenable are wired by the evaluator via SetHooks, used whenever
	// a Then/Finally handler's return value needs further resolution.
	call       Caller
	isThenable IsThenable
}

func NewTable(enqueue func(run func())) *Table {
	return &Table{promises: make(map[uint64]*Record), enqueue: enqueue}
}

// New allocates a fresh Pending promise and returns its handle.
func (t *Table) New() value.Promise {
	t.nextID++
	t.promises[t.nextID] = &Record{ID: t.nextID, State: Pending}
	return value.Promise{ID: t.nextID}
}

func (t *Table) Get(id uint64) *Record { return t.promises[id] }

// Resolve implements §4.7 "Resolve semantics": non-thenable settles
// directly; a promise handle attaches a ResolveTo mirror; a thenable
// object schedules assimilation as a microtask.
func (t *Table) Resolve(id uint64, v value.Value, isThenable func(value.Value) (then value.Value, ok bool), call func(fn, this value.Value, args []value.Value) (value.Value, error)) {
	rec := t.promises[id]
	if rec == nil || rec.State != Pending {
		return
	}
	if p, ok := v.(value.Promise); ok {
		if p.ID == id {
			t.settle(id, Rejected, mustStr("chaining cycle detected for promise"))
			return
		}
		target := t.promises[p.ID]
		if target == nil {
			t.settle(id, Rejected, mustStr("no such promise"))
			return
		}
		if target.State != Pending {
			t.settle(id, target.State, target.Value)
			return
		}
		target.Reactions = append(target.Reactions, Reaction{Kind: KindResolveTo, Target: id})
		return
	}
	if then, ok := isThenable(v); ok {
		t.enqueue(func() {
			resolveFn := value.PromiseCapabilityFunc(func(args []value.Value) { t.Resolve(id, arg0(args), isThenable, call) })
			rejectFn := value.PromiseCapabilityFunc(func(args []value.Value) { t.Reject(id, arg0(args)) })
			if _, err := call(then, v, []value.Value{resolveFn, rejectFn}); err != nil {
				t.Reject(id, errToValue(err))
			}
		})
		return
	}
	t.settle(id, Fulfilled, v)
}

// Reject settles id as Rejected with reason, a no-op if already settled.
func (t *Table) Reject(id uint64, reason value.Value) {
	rec := t.promises[id]
	if rec == nil || rec.State != Pending {
		return
	}
	t.settle(id, Rejected, reason)
}

func (t *Table) settle(id uint64, st State, v value.Value) {
	rec := t.promises[id]
	rec.State = st
	rec.Value = v
	reactions := rec.Reactions
	rec.Reactions = nil
	for _, r := range reactions {
		t.queueReaction(r, st, v)
	}
}

// queueReaction schedules exactly one microtask per reaction per §3's
// monotonicity invariant.
func (t *Table) queueReaction(r Reaction, st State, v value.Value) {
	t.enqueue(func() { t.runReaction(r, st, v) })
}

func (t *Table) runReaction(r Reaction, st State, v value.Value) {
	switch r.Kind {
	case KindThen, KindFinally, KindFinallyContinuation:
		t.runThen(r, st, v)
	case KindResolveTo:
		t.settle(r.Target, st, v)
	case KindAll:
		r.Agg.report(r.Index, st == Fulfilled, v)
	case KindAllSettled:
		r.Agg.reportSettled(r.Index, st, v)
	case KindAny:
		r.Agg.reportAny(r.Index, st == Fulfilled, v)
	case KindRace:
		if r.Agg.settled {
			return
		}
		r.Agg.settled = true
		t.settle(r.Agg.derivedID, st, v)
	}
}

func mustStr(s string) value.Value { return value.String(s) }

func arg0(args []value.Value) value.Value {
	if len(args) == 0 {
		return value.UndefinedValue
	}
	return args[0]
}

func errToValue(err error) value.Value { return value.String(err.Error()) }
