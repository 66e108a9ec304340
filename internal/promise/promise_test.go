package promise

import (
	"testing"

	"github.com/domharness/domharness/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) (*Table, *[]func()) {
	t.Helper()
	var queue []func()
	tbl := NewTable(func(run func()) { queue = append(queue, run) })
	tbl.SetHooks(func(fn, this value.Value, args []value.Value) (value.Value, error) {
		nf := fn.(*value.NativeFunc)
		return nf.Fn(args)
	}, func(value.Value) (value.Value, bool) { return nil, false })
	return tbl, &queue
}

func drain(queue *[]func()) {
	for len(*queue) > 0 {
		q := *queue
		*queue = nil
		for _, fn := range q {
			fn()
		}
	}
}

func TestResolveMonotonicity(t *testing.T) {
	tbl, queue := newTestTable(t)
	p := tbl.New()
	tbl.Resolve(p.ID, value.Number(1), tbl.isThenable, tbl.call)
	tbl.Resolve(p.ID, value.Number(2), tbl.isThenable, tbl.call)
	rec := tbl.Get(p.ID)
	assert.Equal(t, Fulfilled, rec.State)
	assert.Equal(t, value.Number(1), rec.Value)
	_ = queue
}

func TestThenChaining(t *testing.T) {
	tbl, queue := newTestTable(t)
	p := tbl.New()
	var got value.Value
	onF := &value.NativeFunc{Fn: func(args []value.Value) (value.Value, error) {
		got = args[0]
		return value.String("done"), nil
	}}
	derived := tbl.Then(p.ID, onF, nil)
	tbl.Resolve(p.ID, value.Number(42), tbl.isThenable, tbl.call)
	drain(queue)
	assert.Equal(t, value.Number(42), got)
	assert.Equal(t, Fulfilled, tbl.Get(derived.ID).State)
	assert.Equal(t, value.String("done"), tbl.Get(derived.ID).Value)
}

func TestAllEmptyFulfillsWithEmptyArray(t *testing.T) {
	tbl, queue := newTestTable(t)
	derived := tbl.All(nil)
	drain(queue)
	rec := tbl.Get(derived.ID)
	assert.Equal(t, Fulfilled, rec.State)
	arr := rec.Value.(*value.Array)
	assert.Empty(t, arr.Items)
}

func TestAnyEmptyRejectsWithAggregateError(t *testing.T) {
	tbl, queue := newTestTable(t)
	derived := tbl.Any(nil)
	drain(queue)
	rec := tbl.Get(derived.ID)
	require.Equal(t, Rejected, rec.State)
	obj := rec.Value.(*value.Object)
	name, _ := obj.Get("name")
	assert.Equal(t, value.String("AggregateError"), name)
}

func TestAllRejectsOnFirstRejection(t *testing.T) {
	tbl, queue := newTestTable(t)
	a := tbl.New()
	b := tbl.New()
	derived := tbl.All([]uint64{a.ID, b.ID})
	tbl.Reject(a.ID, value.String("boom"))
	drain(queue)
	rec := tbl.Get(derived.ID)
	assert.Equal(t, Rejected, rec.State)
	assert.Equal(t, value.String("boom"), rec.Value)
}

func TestResolveToPendingPromiseMirrorsLater(t *testing.T) {
	tbl, queue := newTestTable(t)
	inner := tbl.New()
	outer := tbl.New()
	tbl.Resolve(outer.ID, inner, tbl.isThenable, tbl.call)
	assert.Equal(t, Pending, tbl.Get(outer.ID).State)
	tbl.Resolve(inner.ID, value.String("v"), tbl.isThenable, tbl.call)
	drain(queue)
	assert.Equal(t, Fulfilled, tbl.Get(outer.ID).State)
	assert.Equal(t, value.String("v"), tbl.Get(outer.ID).Value)
}
