// Package harness implements §6: the public, driver-facing API that wires
// value, scriptparse, dom, promise, scheduler, events, and eval into one
// headless browser test harness. Construction follows the functional-options
// pattern in eventloop/options.go; every other package in this module takes
// its collaborators as constructor arguments or injected closures, and this
// is the one place that owns all of them at once.
package harness

import (
	"errors"
	"fmt"

	"github.com/domharness/domharness/internal/dom"
	"github.com/domharness/domharness/internal/events"
	"github.com/domharness/domharness/internal/eval"
	"github.com/domharness/domharness/internal/promise"
	"github.com/domharness/domharness/internal/scheduler"
	"github.com/domharness/domharness/internal/value"
)

const defaultStepLimit = 10000

// ErrHarnessClosed is returned by any operation on a Harness after Close.
var ErrHarnessClosed = errors.New("harness: already closed")

// Harness is one script execution world: a document, its event/promise/
// timer machinery, and the tree-walking evaluator over it.
type Harness struct {
	doc    *dom.Document
	events *events.Registry
	proms  *promise.Table
	timers *scheduler.Scheduler
	interp *eval.Interp
	log    Logger
	closed bool
}

// New builds an empty Harness; call FromHTML (or RunScript) to populate it.
func New(opts ...Option) *Harness {
	cfg := resolveOptions(opts)

	doc := dom.NewDocument()
	timers := scheduler.New(cfg.stepLimit)
	reg := events.NewRegistry(doc)
	proms := promise.NewTable(timers.QueueMicrotask)
	interp := eval.New(doc, reg, proms, timers)

	reg.Call = interp.CallValue
	reg.NowMs = func() int64 { return timers.NowMs }
	interp.Console = func(level string, args []value.Value) {
		msg := joinDisplay(args)
		switch level {
		case "error":
			cfg.logger.Errorf("console.error: %s", msg)
		case "warn":
			cfg.logger.Warnf("console.warn: %s", msg)
		default:
			cfg.logger.Debugf("console.%s: %s", level, msg)
		}
	}
	interp.FetchMock = cfg.fetchMock
	interp.MatchMedia = cfg.matchMedia
	interp.ConfirmResponses = cfg.confirmResponses
	interp.PromptResponses = cfg.promptResponses

	return &Harness{doc: doc, events: reg, proms: proms, timers: timers, interp: interp, log: cfg.logger}
}

func joinDisplay(args []value.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.ToDisplayString(a)
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// Close marks the Harness unusable; subsequent operations return
// ErrHarnessClosed. The harness owns no OS resources (no goroutines,
// pollers, or file descriptors — see DESIGN.md on why the teacher's
// poller/wakeup machinery has nothing to attach to here), so Close is
// purely a latch, not a teardown.
func (h *Harness) Close() error {
	h.closed = true
	h.log.Debugf("harness closed")
	return nil
}

func (h *Harness) checkOpen() error {
	if h.closed {
		return ErrHarnessClosed
	}
	return nil
}

// FromHTML implements §6's from_html: parse html into the DOM, compile and
// run every inline <script> block once in the global scope in document
// order, then drain microtasks.
func (h *Harness) FromHTML(html string) (*Harness, error) {
	if err := h.checkOpen(); err != nil {
		return h, err
	}
	scripts, err := h.doc.LoadFragment(html)
	if err != nil {
		return h, fmt.Errorf("from_html: %w", err)
	}
	for _, src := range scripts {
		if err := h.interp.RunSource(src); err != nil {
			return h, wrapScriptErr(err)
		}
	}
	if err := h.timers.DrainMicrotasks(); err != nil {
		return h, wrapScriptErr(err)
	}
	return h, nil
}

// RunScript compiles and runs src as an additional top-level script against
// the current document, then drains microtasks. Not part of the normative
// §6 table but needed by any driver that wants to inject script after
// from_html (e.g. to install spies before an interaction).
func (h *Harness) RunScript(src string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	if err := h.interp.RunSource(src); err != nil {
		return wrapScriptErr(err)
	}
	return wrapScriptErr(h.timers.DrainMicrotasks())
}

// resolve implements the "resolve selector to one element" step shared by
// click/type_text/dispatch/assert_* (§6).
func (h *Harness) resolve(selector string) (uint64, error) {
	id, ok := h.doc.QuerySelector(h.doc.RootID, selector)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoSuchElement, selector)
	}
	return id, nil
}

// Click implements §6's click(selector): resolve, perform default-action
// click semantics, dispatch click, drain microtasks.
func (h *Harness) Click(selector string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	id, err := h.resolve(selector)
	if err != nil {
		return err
	}
	if err := h.events.Click(id); err != nil {
		return wrapScriptErr(err)
	}
	return wrapScriptErr(h.timers.DrainMicrotasks())
}

// Dispatch implements §6's dispatch(selector, type): synthesise an
// untrusted event of the given type at the resolved target and dispatch it.
func (h *Harness) Dispatch(selector, eventType string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	id, err := h.resolve(selector)
	if err != nil {
		return err
	}
	if _, err := h.events.Dispatch(id, eventType, events.DispatchOptions{Bubbles: true, Cancelable: true}); err != nil {
		return wrapScriptErr(err)
	}
	return wrapScriptErr(h.timers.DrainMicrotasks())
}

// AdvanceTime implements §6's advance_time(ms): advance the scheduler by ms,
// firing due timers and draining microtasks after each (the Scheduler
// itself drains after every fired timer; see scheduler.AdvanceTime).
func (h *Harness) AdvanceTime(ms int64) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	err := h.timers.AdvanceTime(ms)
	if err != nil {
		h.log.Warnf("advance_time(%d): %v", ms, err)
	}
	return wrapScriptErr(err)
}

// Flush implements §6's flush(): drain microtasks only.
func (h *Harness) Flush() error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	return wrapScriptErr(h.timers.DrainMicrotasks())
}

// Global reads a script-visible global binding's display string, for
// driver assertions that need to look past the DOM at a script-side
// variable rather than through one of the normative assert_* helpers.
func (h *Harness) Global(name string) (string, bool) {
	v, ok := h.interp.Global.Get(name)
	if !ok {
		return "", false
	}
	return value.ToDisplayString(v), true
}
