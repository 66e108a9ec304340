package eval

import "github.com/domharness/domharness/internal/value"

// binding is one declared name's storage slot, shared by every closure that
// captures the environment it lives in (§4.3 "Closures capture by
// reference, not by value").
type binding struct {
	value    value.Value
	constant bool
}

// Env is one lexical scope: function body, block, or the global scope. Each
// holds its own slot map and a parent pointer, forming the scope chain
// closures walk at lookup time.
type Env struct {
	vars   map[string]*binding
	parent *Env
}

// NewEnv allocates a child scope of parent (nil for the global scope).
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]*binding), parent: parent}
}

// Declare introduces name in this scope. Redeclaring a name already bound in
// this exact scope is a script error (§4.1 "re-declaring a let/const binding
// in the same scope is a SyntaxError-equivalent runtime error").
func (e *Env) Declare(name string, v value.Value, constant bool) error {
	if _, ok := e.vars[name]; ok {
		return &ScriptError{Message: "identifier '" + name + "' has already been declared"}
	}
	e.vars[name] = &binding{value: v, constant: constant}
	return nil
}

// DeclareVar implements `var` hoisting semantics: redeclaring an existing
// var binding in the same function scope is allowed and simply rebinds the
// slot's initial value only if an initializer is present (callers pass
// value.UndefinedValue with forceInit=false for the hoist pass).
func (e *Env) DeclareVar(name string, v value.Value, forceInit bool) {
	if b, ok := e.vars[name]; ok {
		if forceInit {
			b.value = v
		}
		return
	}
	e.vars[name] = &binding{value: v}
}

// Lookup walks the scope chain, returning the binding and the scope it was
// found in.
func (e *Env) Lookup(name string) (*binding, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Get reads name's current value.
func (e *Env) Get(name string) (value.Value, bool) {
	b, ok := e.Lookup(name)
	if !ok {
		return nil, false
	}
	return b.value, true
}

// Assign writes name's value in the scope it is bound in, failing if name is
// undeclared (a ReferenceError-equivalent) or const (a TypeError-equivalent).
func (e *Env) Assign(name string, v value.Value) error {
	b, ok := e.Lookup(name)
	if !ok {
		return &ScriptError{Message: name + " is not defined"}
	}
	if b.constant {
		return &ScriptError{Message: "assignment to constant variable '" + name + "'"}
	}
	b.value = v
	return nil
}

// Root walks to the outermost (global) scope.
func (e *Env) Root() *Env {
	cur := e
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}
