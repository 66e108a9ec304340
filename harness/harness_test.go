package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTMLRunsInlineScript(t *testing.T) {
	h := New()
	_, err := h.FromHTML(`<div id="out"></div><script>document.getElementById("out").textContent = "hi";</script>`)
	require.NoError(t, err)
	assert.NoError(t, h.AssertText("#out", "hi"))
}

func TestClickCheckboxTogglesAndFiresChange(t *testing.T) {
	h := New()
	_, err := h.FromHTML(`
		<input type="checkbox" id="box">
		<div id="log"></div>
		<script>
			var n = 0;
			document.getElementById("box").addEventListener("change", function() {
				n = n + 1;
				document.getElementById("log").textContent = String(n);
			});
		</script>
	`)
	require.NoError(t, err)
	require.NoError(t, h.Click("#box"))
	assert.NoError(t, h.AssertChecked("#box", true))
	assert.NoError(t, h.AssertText("#log", "1"))
	require.NoError(t, h.Click("#box"))
	assert.NoError(t, h.AssertChecked("#box", false))
	assert.NoError(t, h.AssertText("#log", "2"))
}

func TestTypeTextSetsValueAndFiresInputChange(t *testing.T) {
	h := New()
	_, err := h.FromHTML(`
		<input id="name">
		<div id="log"></div>
		<script>
			var events = [];
			var el = document.getElementById("name");
			el.addEventListener("input", function() { events.push("input:" + el.value); });
			el.addEventListener("change", function() { events.push("change:" + el.value); });
		</script>
	`)
	require.NoError(t, err)
	require.NoError(t, h.TypeText("#name", "Ada"))
	assert.NoError(t, h.AssertValue("#name", "Ada"))
	fired, ok := h.Global("events")
	require.True(t, ok)
	assert.Equal(t, "input:Ada,change:Ada", fired)
}

func TestTypeTextStripsCRLFForEmail(t *testing.T) {
	h := New()
	_, err := h.FromHTML(`<input type="email" id="mail">`)
	require.NoError(t, err)
	require.NoError(t, h.TypeText("#mail", "a@b.com\r\n"))
	assert.NoError(t, h.AssertValue("#mail", "a@b.com"))
}

func TestTimerAndMicrotaskOrdering(t *testing.T) {
	// Mirrors spec.md §8 scenario 3: setTimeout/Promise.resolve ordering.
	h := New()
	_, err := h.FromHTML(`
		<script>
			var log = "";
			setTimeout(function() { log = log + "T"; }, 0);
			Promise.resolve().then(function() { log = log + "M"; });
		</script>
	`)
	require.NoError(t, err)
	log, ok := h.Global("log")
	require.True(t, ok)
	assert.Equal(t, "M", log)
	require.NoError(t, h.AdvanceTime(0))
	log, ok = h.Global("log")
	require.True(t, ok)
	assert.Equal(t, "MT", log)
}

func TestDispatchCustomEventType(t *testing.T) {
	h := New()
	_, err := h.FromHTML(`
		<div id="target"></div>
		<script>
			var seen = "";
			document.getElementById("target").addEventListener("custom-thing", function() { seen = "yes"; });
		</script>
	`)
	require.NoError(t, err)
	require.NoError(t, h.Dispatch("#target", "custom-thing"))
	seen, ok := h.Global("seen")
	require.True(t, ok)
	assert.Equal(t, "yes", seen)
}

func TestClickOnMissingSelectorReturnsErrNoSuchElement(t *testing.T) {
	h := New()
	_, err := h.FromHTML(`<div></div>`)
	require.NoError(t, err)
	err = h.Click("#nope")
	assert.ErrorIs(t, err, ErrNoSuchElement)
}

func TestTypeTextOnNonFormControlErrors(t *testing.T) {
	h := New()
	_, err := h.FromHTML(`<div id="d"></div>`)
	require.NoError(t, err)
	err = h.TypeText("#d", "x")
	assert.ErrorIs(t, err, ErrNotFormControl)
}

func TestOperationsAfterCloseReturnErrHarnessClosed(t *testing.T) {
	h := New()
	require.NoError(t, h.Close())
	assert.ErrorIs(t, h.Click("#anything"), ErrHarnessClosed)
	assert.ErrorIs(t, h.Flush(), ErrHarnessClosed)
}

func TestStepLimitOptionSurfacesAsScriptError(t *testing.T) {
	h := New(WithStepLimit(2))
	_, err := h.FromHTML(`
		<script>
			var n = 0;
			function tick() { n = n + 1; setTimeout(tick, 1); }
			setTimeout(tick, 1);
		</script>
	`)
	require.NoError(t, err)
	err = h.AdvanceTime(100)
	require.Error(t, err)
	var se *ScriptError
	require.ErrorAs(t, err, &se)
}
