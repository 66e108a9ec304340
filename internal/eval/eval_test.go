package eval

import (
	"testing"

	"github.com/domharness/domharness/internal/dom"
	"github.com/domharness/domharness/internal/events"
	"github.com/domharness/domharness/internal/promise"
	"github.com/domharness/domharness/internal/scheduler"
	"github.com/domharness/domharness/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterp(t *testing.T) *Interp {
	t.Helper()
	doc := dom.NewDocument()
	sched := scheduler.New(1000)
	ev := events.NewRegistry(doc)
	proms := promise.NewTable(func(run func()) { sched.QueueMicrotask(run) })
	it := New(doc, ev, proms, sched)
	ev.Call = it.CallValue
	ev.NowMs = func() int64 { return sched.NowMs }
	it.Console = func(level string, args []value.Value) {}
	return it
}

func run(t *testing.T, it *Interp, src string) {
	t.Helper()
	require.NoError(t, it.RunSource(src))
}

func TestArithmeticAndGlobals(t *testing.T) {
	it := newTestInterp(t)
	run(t, it, `var x = 1 + 2 * 3;`)
	x, ok := it.Global.Get("x")
	require.True(t, ok)
	assert.Equal(t, "7", value.ToDisplayString(x))
}

func TestClosureCapturesByReference(t *testing.T) {
	it := newTestInterp(t)
	run(t, it, `
		function makeCounter() {
			let n = 0;
			return function() { n = n + 1; return n; };
		}
		var counter = makeCounter();
		var a = counter();
		var b = counter();
		var c = counter();
	`)
	av, _ := it.Global.Get("a")
	bv, _ := it.Global.Get("b")
	cv, _ := it.Global.Get("c")
	assert.Equal(t, "1", value.ToDisplayString(av))
	assert.Equal(t, "2", value.ToDisplayString(bv))
	assert.Equal(t, "3", value.ToDisplayString(cv))
}

func TestDefaultAndRestParams(t *testing.T) {
	it := newTestInterp(t)
	run(t, it, `
		function f(a, b = 10, ...rest) {
			return a + b + rest.length;
		}
		var r1 = f(1);
		var r2 = f(1, 2, 3, 4);
	`)
	r1, _ := it.Global.Get("r1")
	r2, _ := it.Global.Get("r2")
	assert.Equal(t, "11", value.ToDisplayString(r1))
	assert.Equal(t, "5", value.ToDisplayString(r2))
}

func TestTryCatchFinallyCompletion(t *testing.T) {
	it := newTestInterp(t)
	run(t, it, `
		var log = [];
		function risky() {
			try {
				log.push("try");
				throw "boom";
			} catch (e) {
				log.push("catch:" + e);
			} finally {
				log.push("finally");
			}
			return log.length;
		}
		var n = risky();
	`)
	n, _ := it.Global.Get("n")
	assert.Equal(t, "3", value.ToDisplayString(n))
}

func TestFinallyOverridesReturn(t *testing.T) {
	it := newTestInterp(t)
	run(t, it, `
		function f() {
			try {
				return 1;
			} finally {
				return 2;
			}
		}
		var r = f();
	`)
	r, _ := it.Global.Get("r")
	assert.Equal(t, "2", value.ToDisplayString(r))
}

func TestAsyncAwaitResolvesSyncPromise(t *testing.T) {
	it := newTestInterp(t)
	run(t, it, `
		async function f() {
			var v = await Promise.resolve(42);
			return v + 1;
		}
		var p = f();
	`)
	pv, ok := it.Global.Get("p")
	require.True(t, ok)
	require.NoError(t, it.Timers.DrainMicrotasks())
	rec := it.Proms.Get(pv.(value.Promise).ID)
	require.NotNil(t, rec)
	assert.Equal(t, promise.Fulfilled, rec.State)
	assert.Equal(t, value.Number(43), rec.Value)
}

func TestDestructuringAssignment(t *testing.T) {
	it := newTestInterp(t)
	run(t, it, `
		var a, b;
		[a, b] = [1, 2];
		var obj = {x: 10, y: 20};
		var {x, y} = obj;
	`)
	a, _ := it.Global.Get("a")
	x, _ := it.Global.Get("x")
	assert.Equal(t, "1", value.ToDisplayString(a))
	assert.Equal(t, "10", value.ToDisplayString(x))
}

func TestArrayHigherOrderMethods(t *testing.T) {
	it := newTestInterp(t)
	run(t, it, `
		var nums = [1, 2, 3, 4];
		var doubled = nums.map(function(n) { return n * 2; });
		var evens = nums.filter(function(n) { return n % 2 === 0; });
		var sum = nums.reduce(function(acc, n) { return acc + n; }, 0);
	`)
	sum, _ := it.Global.Get("sum")
	assert.Equal(t, "10", value.ToDisplayString(sum))
	doubled, _ := it.Global.Get("doubled")
	assert.Equal(t, "2,4,6,8", value.ToDisplayString(doubled))
	evens, _ := it.Global.Get("evens")
	assert.Equal(t, "2,4", value.ToDisplayString(evens))
}

func TestDomClickAddEventListenerDispatch(t *testing.T) {
	it := newTestInterp(t)
	btn := it.Doc.NewElement("button")
	it.Doc.AppendChild(it.Doc.BodyID, btn)
	it.Global.Declare("btn", value.Node{ID: btn}, true)
	run(t, it, `
		var clicks = 0;
		btn.addEventListener("click", function(e) { clicks = clicks + 1; });
		btn.click();
		btn.click();
	`)
	clicks, _ := it.Global.Get("clicks")
	assert.Equal(t, "2", value.ToDisplayString(clicks))
}

func TestSetTimeoutFiresOnAdvanceTime(t *testing.T) {
	it := newTestInterp(t)
	run(t, it, `
		var fired = false;
		setTimeout(function() { fired = true; }, 100);
	`)
	require.NoError(t, it.Timers.AdvanceTime(50))
	fired, _ := it.Global.Get("fired")
	assert.Equal(t, "false", value.ToDisplayString(fired))
	require.NoError(t, it.Timers.AdvanceTime(50))
	fired, _ = it.Global.Get("fired")
	assert.Equal(t, "true", value.ToDisplayString(fired))
}

func TestJSONRoundTrip(t *testing.T) {
	it := newTestInterp(t)
	run(t, it, `
		var obj = {a: 1, b: [2, 3], c: "x"};
		var s = JSON.stringify(obj);
		var back = JSON.parse(s);
		var ok = back.a === 1 && back.b[1] === 3 && back.c === "x";
	`)
	ok, _ := it.Global.Get("ok")
	assert.Equal(t, "true", value.ToDisplayString(ok))
}
