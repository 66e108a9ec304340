package eval

import "github.com/domharness/domharness/internal/value"

func (it *Interp) promiseThen(p value.Promise, onFulfilled, onRejected value.Value) value.Value {
	return it.Proms.Then(p.ID, onFulfilled, onRejected)
}

func (it *Interp) promiseFinally(p value.Promise, cb value.Value) value.Value {
	return it.Proms.Finally(p.ID, cb)
}

// promiseIDs extracts every settled-or-pending promise id an aggregate
// combinator call needs, resolving non-promise args as already-fulfilled
// promises (§4.7's "non-promise values are treated as already resolved").
func (it *Interp) promiseIDs(args []value.Value) []uint64 {
	items := iterableItems(argOr(args, 0, value.UndefinedValue))
	ids := make([]uint64, len(items))
	for i, v := range items {
		if p, ok := v.(value.Promise); ok {
			ids[i] = p.ID
			continue
		}
		np := it.Proms.New()
		it.Proms.Resolve(np.ID, v, it.isThenable, it.callForPromise)
		ids[i] = np.ID
	}
	return ids
}

func (it *Interp) promiseAll(args []value.Value) value.Value        { return it.Proms.All(it.promiseIDs(args)) }
func (it *Interp) promiseAllSettled(args []value.Value) value.Value { return it.Proms.AllSettled(it.promiseIDs(args)) }
func (it *Interp) promiseRace(args []value.Value) value.Value       { return it.Proms.Race(it.promiseIDs(args)) }
func (it *Interp) promiseAny(args []value.Value) value.Value        { return it.Proms.Any(it.promiseIDs(args)) }
