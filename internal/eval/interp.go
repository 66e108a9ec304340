// Package eval implements §4.3: the tree-walking evaluator over a parsed
// [scriptparse.Program], wiring the DOM/event/promise/scheduler packages
// behind the closed operation vocabulary §4.1 and §4.4 define. It is the
// only package that imports all of dom/events/promise/scheduler directly,
// keeping the rest of the module's dependency graph acyclic (those packages
// take the call-into-script/call-into-dom hooks they need as injected
// closures instead of importing this one).
package eval

import (
	"fmt"

	"github.com/domharness/domharness/internal/dom"
	"github.com/domharness/domharness/internal/events"
	"github.com/domharness/domharness/internal/promise"
	"github.com/domharness/domharness/internal/scheduler"
	"github.com/domharness/domharness/internal/scriptparse"
	"github.com/domharness/domharness/internal/value"
)

// ConsoleSink receives one console.* call's level and formatted arguments.
type ConsoleSink func(level string, args []value.Value)

// Interp is one script execution context: the global scope plus the
// collaborating subsystems script can observe or drive.
type Interp struct {
	Global *Env
	Doc    *dom.Document
	Events *events.Registry
	Proms  *promise.Table
	Timers *scheduler.Scheduler

	Console ConsoleSink

	// FetchMock answers `fetch(url, init)`; nil means fetch always rejects
	// with a network-error-shaped reason (§6 "fetch mocking").
	FetchMock func(url string, init value.Value) (value.Value, error)
	// MatchMedia answers `matchMedia(query)`.
	MatchMedia func(query string) bool
	// ConfirmResponses/PromptResponses/AlertLog back the alert/confirm/prompt
	// platform mocks (§6): each Confirm/Prompt call pops the next queued
	// response (confirm defaults to false and prompt to null once exhausted).
	ConfirmResponses []bool
	PromptResponses  []string
	AlertLog         []string
}

// New builds an Interp with a fresh global scope over the given document.
func New(doc *dom.Document, ev *events.Registry, proms *promise.Table, timers *scheduler.Scheduler) *Interp {
	it := &Interp{Global: NewEnv(nil), Doc: doc, Events: ev, Proms: proms, Timers: timers}
	proms.SetHooks(it.callForPromise, it.isThenable)
	value.NodeFormatter = it.formatNode
	it.installGlobals()
	return it
}

// formatNode implements §4.2's "tag#id" default string coercion for a DOM
// node, wired into value.NodeFormatter since internal/value has no DOM
// access of its own. A node id no longer present in the document (detached
// and since garbage-collected, which this harness's Doc never actually
// does, but defend anyway) falls back to "node#<id>".
func (it *Interp) formatNode(n value.Node) string {
	dn := it.Doc.Node(n.ID)
	if dn == nil {
		return fmt.Sprintf("node#%d", n.ID)
	}
	if dn.Type == dom.TextNode {
		return "#text"
	}
	return dn.Tag + "#" + dn.Id()
}

// ctrl is a statement completion's non-local control transfer, if any.
type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

// Run executes prog's statements in the global scope, in source order.
func (it *Interp) Run(prog *scriptparse.Program) error {
	it.hoist(it.Global, prog.Statements)
	for _, s := range prog.Statements {
		if _, _, err := it.execStmt(it.Global, s); err != nil {
			return err
		}
	}
	return nil
}

// hoist pre-declares `var` bindings (undefined) and function declarations
// (bound to their closure immediately) throughout body, so forward
// references within the same scope resolve (§4.1 "function declarations and
// var are hoisted to the top of their enclosing function/global scope").
func (it *Interp) hoist(env *Env, body []scriptparse.Stmt) {
	for _, s := range body {
		it.hoistStmt(env, s)
	}
}

func (it *Interp) hoistStmt(env *Env, s scriptparse.Stmt) {
	switch n := s.(type) {
	case *scriptparse.FuncDeclStmt:
		env.DeclareVar(n.Name, &Closure{Decl: n, Env: env, Interp: it}, true)
	case *scriptparse.VarDeclStmt:
		if n.Kind == scriptparse.VarVar {
			for _, d := range n.Decls {
				hoistPatternNames(env, d.Name)
			}
		}
	case *scriptparse.IfStmt:
		it.hoistStmt(env, n.Then)
		if n.Else != nil {
			it.hoistStmt(env, n.Else)
		}
	case *scriptparse.BlockStmt:
		it.hoist(env, n.Body)
	case *scriptparse.WhileStmt:
		it.hoistStmt(env, n.Body)
	case *scriptparse.DoWhileStmt:
		it.hoistStmt(env, n.Body)
	case *scriptparse.ForStmt:
		if n.Init != nil {
			it.hoistStmt(env, n.Init)
		}
		it.hoistStmt(env, n.Body)
	case *scriptparse.ForInStmt:
		it.hoistStmt(env, n.Body)
	case *scriptparse.ForOfStmt:
		it.hoistStmt(env, n.Body)
	case *scriptparse.TryStmt:
		it.hoist(env, n.Block.Body)
		if n.CatchBlock != nil {
			it.hoist(env, n.CatchBlock.Body)
		}
		if n.FinallyBlock != nil {
			it.hoist(env, n.FinallyBlock.Body)
		}
	}
}

func hoistPatternNames(env *Env, p scriptparse.Pattern) {
	switch x := p.(type) {
	case scriptparse.IdentPattern:
		env.DeclareVar(x.Name, value.UndefinedValue, false)
	case scriptparse.ArrayPattern:
		for _, el := range x.Elements {
			if el != nil {
				hoistPatternNames(env, el)
			}
		}
	case scriptparse.ObjectPattern:
		for _, prop := range x.Props {
			env.DeclareVar(prop.Target, value.UndefinedValue, false)
		}
	}
}
