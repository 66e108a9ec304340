package promise

import "github.com/domharness/domharness/internal/value"

// aggregate is the shared bookkeeping for all/allSettled/any/race, one per
// combinator call.
type aggregate struct {
	derivedID uint64
	results   []value.Value
	remaining int
	settled   bool

	t *Table
}

// All implements Promise.all: fulfils with the in-order results once every
// input promise fulfils, or rejects as soon as any one rejects. Empty input
// fulfils with [] immediately (§4.7).
func (t *Table) All(ids []uint64) value.Promise {
	derived := t.New()
	if len(ids) == 0 {
		t.settle(derived.ID, Fulfilled, value.NewArray())
		return derived
	}
	agg := &aggregate{derivedID: derived.ID, results: make([]value.Value, len(ids)), remaining: len(ids), t: t}
	for i, id := range ids {
		t.attachAggregate(id, Reaction{Kind: KindAll, Agg: agg, Index: i})
	}
	return derived
}

func (a *aggregate) report(index int, fulfilled bool, v value.Value) {
	if a.settled {
		return
	}
	if !fulfilled {
		a.settled = true
		a.t.settle(a.derivedID, Rejected, v)
		return
	}
	a.results[index] = v
	a.remaining--
	if a.remaining == 0 {
		a.settled = true
		a.t.settle(a.derivedID, Fulfilled, value.NewArray(a.results...))
	}
}

// AllSettled implements Promise.allSettled: always fulfils, with one
// {status, value|reason} object per input, in order.
func (t *Table) AllSettled(ids []uint64) value.Promise {
	derived := t.New()
	if len(ids) == 0 {
		t.settle(derived.ID, Fulfilled, value.NewArray())
		return derived
	}
	agg := &aggregate{derivedID: derived.ID, results: make([]value.Value, len(ids)), remaining: len(ids), t: t}
	for i, id := range ids {
		t.attachAggregate(id, Reaction{Kind: KindAllSettled, Agg: agg, Index: i})
	}
	return derived
}

func (a *aggregate) reportSettled(index int, st State, v value.Value) {
	obj := value.NewObject()
	if st == Fulfilled {
		obj.Set("status", value.String("fulfilled"))
		obj.Set("value", v)
	} else {
		obj.Set("status", value.String("rejected"))
		obj.Set("reason", v)
	}
	a.results[index] = obj
	a.remaining--
	if a.remaining == 0 {
		a.t.settle(a.derivedID, Fulfilled, value.NewArray(a.results...))
	}
}

// Any implements Promise.any: fulfils with the first fulfillment, or
// rejects with an AggregateError-shaped object once every input rejects.
// Empty input rejects immediately with that shape (§4.7).
func (t *Table) Any(ids []uint64) value.Promise {
	derived := t.New()
	if len(ids) == 0 {
		t.settle(derived.ID, Rejected, aggregateError(nil))
		return derived
	}
	agg := &aggregate{derivedID: derived.ID, results: make([]value.Value, len(ids)), remaining: len(ids), t: t}
	for i, id := range ids {
		t.attachAggregate(id, Reaction{Kind: KindAny, Agg: agg, Index: i})
	}
	return derived
}

func (a *aggregate) reportAny(index int, fulfilled bool, v value.Value) {
	if a.settled {
		return
	}
	if fulfilled {
		a.settled = true
		a.t.settle(a.derivedID, Fulfilled, v)
		return
	}
	a.results[index] = v
	a.remaining--
	if a.remaining == 0 {
		a.settled = true
		a.t.settle(a.derivedID, Rejected, aggregateError(a.results))
	}
}

func aggregateError(errs []value.Value) value.Value {
	obj := value.NewObject()
	obj.Set("name", value.String("AggregateError"))
	obj.Set("message", value.String("All promises were rejected"))
	obj.Set("errors", value.NewArray(errs...))
	return obj
}

// Race implements Promise.race: settles to match whichever input settles
// first. Empty input stays pending forever (§4.7).
func (t *Table) Race(ids []uint64) value.Promise {
	derived := t.New()
	if len(ids) == 0 {
		return derived
	}
	agg := &aggregate{derivedID: derived.ID, t: t}
	for _, id := range ids {
		t.attachAggregate(id, Reaction{Kind: KindRace, Agg: agg})
	}
	return derived
}

// attachAggregate attaches r to id's reaction list, or queues it immediately
// if id is already settled — matching the general "reactions run exactly
// once, whether attached before or after settlement" rule.
func (t *Table) attachAggregate(id uint64, r Reaction) {
	rec := t.promises[id]
	if rec == nil {
		t.runReaction(r, Rejected, value.String("no such promise"))
		return
	}
	if rec.State == Pending {
		rec.Reactions = append(rec.Reactions, r)
		return
	}
	t.queueReaction(r, rec.State, rec.Value)
}
