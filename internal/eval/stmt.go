package eval

import (
	"github.com/domharness/domharness/internal/scriptparse"
	"github.com/domharness/domharness/internal/value"
)

// execStmt runs one statement, returning the completion it produced (if
// any) so enclosing loops/functions/try-blocks can react to
// return/break/continue without Go-level panics.
func (it *Interp) execStmt(env *Env, s scriptparse.Stmt) (ctrl, value.Value, error) {
	switch n := s.(type) {
	case *scriptparse.VarDeclStmt:
		return ctrlNone, nil, it.execVarDecl(env, n)
	case *scriptparse.ExprStmt:
		_, err := it.evalExpr(env, n.X)
		return ctrlNone, nil, err
	case *scriptparse.BlockStmt:
		return it.execBlockScoped(env, n)
	case *scriptparse.IfStmt:
		cond, err := it.evalExpr(env, n.Cond)
		if err != nil {
			return ctrlNone, nil, err
		}
		if value.Truthy(cond) {
			return it.execStmt(env, n.Then)
		}
		if n.Else != nil {
			return it.execStmt(env, n.Else)
		}
		return ctrlNone, nil, nil
	case *scriptparse.WhileStmt:
		return it.execWhile(env, n)
	case *scriptparse.DoWhileStmt:
		return it.execDoWhile(env, n)
	case *scriptparse.ForStmt:
		return it.execFor(env, n)
	case *scriptparse.ForOfStmt:
		return it.execForOf(env, n)
	case *scriptparse.ForInStmt:
		return it.execForIn(env, n)
	case *scriptparse.TryStmt:
		return it.execTry(env, n)
	case *scriptparse.ReturnStmt:
		var v value.Value = value.UndefinedValue
		if n.X != nil {
			rv, err := it.evalExpr(env, n.X)
			if err != nil {
				return ctrlNone, nil, err
			}
			v = rv
		}
		return ctrlReturn, v, nil
	case *scriptparse.ThrowStmt:
		v, err := it.evalExpr(env, n.X)
		if err != nil {
			return ctrlNone, nil, err
		}
		return ctrlNone, nil, &ThrownValue{Value: v}
	case *scriptparse.BreakStmt:
		return ctrlBreak, nil, nil
	case *scriptparse.ContinueStmt:
		return ctrlContinue, nil, nil
	case *scriptparse.FuncDeclStmt:
		// Already bound during hoisting; nothing to do at execution time.
		return ctrlNone, nil, nil
	}
	return ctrlNone, nil, &ScriptError{Message: "unsupported statement"}
}

func (it *Interp) execVarDecl(env *Env, n *scriptparse.VarDeclStmt) error {
	for _, d := range n.Decls {
		var v value.Value = value.UndefinedValue
		if d.Init != nil {
			rv, err := it.evalExpr(env, d.Init)
			if err != nil {
				return err
			}
			v = rv
		}
		if n.Kind == scriptparse.VarVar {
			// Already hoisted as undefined; this just assigns the initializer.
			if ident, ok := d.Name.(scriptparse.IdentPattern); ok && d.Init != nil {
				if err := env.Assign(ident.Name, v); err != nil {
					// Not hoisted into this exact scope (e.g. block-local var in
					// a nested block whose enclosing function scope differs);
					// fall back to declaring here.
					env.DeclareVar(ident.Name, v, true)
				}
				continue
			}
		}
		if err := it.bindPattern(env, d.Name, v, n.Kind); err != nil {
			return err
		}
	}
	return nil
}

// execBlockScoped runs a block in a fresh child scope, as every block
// (if/while/for body, bare block) introduces its own let/const scope.
func (it *Interp) execBlockScoped(env *Env, b *scriptparse.BlockStmt) (ctrl, value.Value, error) {
	child := NewEnv(env)
	it.hoistFuncDeclsOnly(child, b.Body)
	return it.execBlockBody(child, b.Body)
}

// hoistFuncDeclsOnly binds direct function declarations in body to child so
// forward calls within the same block resolve; nested var hoisting to the
// function scope was already done once at function-entry time.
func (it *Interp) hoistFuncDeclsOnly(env *Env, body []scriptparse.Stmt) {
	for _, s := range body {
		if fd, ok := s.(*scriptparse.FuncDeclStmt); ok {
			env.DeclareVar(fd.Name, &Closure{Decl: fd, Env: env, Interp: it}, true)
		}
	}
}

func (it *Interp) execBlockBody(env *Env, body []scriptparse.Stmt) (ctrl, value.Value, error) {
	for _, s := range body {
		c, v, err := it.execStmt(env, s)
		if err != nil || c != ctrlNone {
			return c, v, err
		}
	}
	return ctrlNone, nil, nil
}

func (it *Interp) execWhile(env *Env, n *scriptparse.WhileStmt) (ctrl, value.Value, error) {
	for {
		cond, err := it.evalExpr(env, n.Cond)
		if err != nil {
			return ctrlNone, nil, err
		}
		if !value.Truthy(cond) {
			return ctrlNone, nil, nil
		}
		c, v, err := it.execStmt(env, n.Body)
		if err != nil {
			return ctrlNone, nil, err
		}
		switch c {
		case ctrlBreak:
			return ctrlNone, nil, nil
		case ctrlReturn:
			return ctrlReturn, v, nil
		}
	}
}

func (it *Interp) execDoWhile(env *Env, n *scriptparse.DoWhileStmt) (ctrl, value.Value, error) {
	for {
		c, v, err := it.execStmt(env, n.Body)
		if err != nil {
			return ctrlNone, nil, err
		}
		switch c {
		case ctrlBreak:
			return ctrlNone, nil, nil
		case ctrlReturn:
			return ctrlReturn, v, nil
		}
		cond, err := it.evalExpr(env, n.Cond)
		if err != nil {
			return ctrlNone, nil, err
		}
		if !value.Truthy(cond) {
			return ctrlNone, nil, nil
		}
	}
}

func (it *Interp) execFor(env *Env, n *scriptparse.ForStmt) (ctrl, value.Value, error) {
	loopEnv := NewEnv(env)
	if n.Init != nil {
		if _, _, err := it.execStmt(loopEnv, n.Init); err != nil {
			return ctrlNone, nil, err
		}
	}
	for {
		if n.Cond != nil {
			cond, err := it.evalExpr(loopEnv, n.Cond)
			if err != nil {
				return ctrlNone, nil, err
			}
			if !value.Truthy(cond) {
				return ctrlNone, nil, nil
			}
		}
		c, v, err := it.execStmt(loopEnv, n.Body)
		if err != nil {
			return ctrlNone, nil, err
		}
		switch c {
		case ctrlBreak:
			return ctrlNone, nil, nil
		case ctrlReturn:
			return ctrlReturn, v, nil
		}
		if n.Post != nil {
			if _, _, err := it.execStmt(loopEnv, n.Post); err != nil {
				return ctrlNone, nil, err
			}
		}
	}
}

func (it *Interp) execForOf(env *Env, n *scriptparse.ForOfStmt) (ctrl, value.Value, error) {
	obj, err := it.evalExpr(env, n.Object)
	if err != nil {
		return ctrlNone, nil, err
	}
	for _, item := range iterableItems(obj) {
		iterEnv := NewEnv(env)
		if err := it.bindPattern(iterEnv, n.Name, item, n.Kind); err != nil {
			return ctrlNone, nil, err
		}
		c, v, err := it.execStmt(iterEnv, n.Body)
		if err != nil {
			return ctrlNone, nil, err
		}
		switch c {
		case ctrlBreak:
			return ctrlNone, nil, nil
		case ctrlReturn:
			return ctrlReturn, v, nil
		}
	}
	return ctrlNone, nil, nil
}

func (it *Interp) execForIn(env *Env, n *scriptparse.ForInStmt) (ctrl, value.Value, error) {
	obj, err := it.evalExpr(env, n.Object)
	if err != nil {
		return ctrlNone, nil, err
	}
	// §4.3: for-in iterates numeric indices of arrays and node-lists only.
	var keys []string
	switch o := obj.(type) {
	case *value.Array:
		for i := range o.Items {
			keys = append(keys, value.FormatFloat(float64(i)))
		}
	case *value.NodeList:
		for i := range o.IDs {
			keys = append(keys, value.FormatFloat(float64(i)))
		}
	}
	for _, k := range keys {
		iterEnv := NewEnv(env)
		if err := it.bindPattern(iterEnv, n.Name, value.String(k), n.Kind); err != nil {
			return ctrlNone, nil, err
		}
		c, v, err := it.execStmt(iterEnv, n.Body)
		if err != nil {
			return ctrlNone, nil, err
		}
		switch c {
		case ctrlBreak:
			return ctrlNone, nil, nil
		case ctrlReturn:
			return ctrlReturn, v, nil
		}
	}
	return ctrlNone, nil, nil
}

func (it *Interp) execTry(env *Env, n *scriptparse.TryStmt) (ctrl, value.Value, error) {
	c, v, err := it.execBlockScoped(env, n.Block)
	if err != nil {
		if n.HasCatch {
			catchEnv := NewEnv(env)
			if n.CatchParam != nil {
				if berr := it.bindPattern(catchEnv, n.CatchParam, ToThrown(err), scriptparse.VarLet); berr != nil {
					return ctrlNone, nil, berr
				}
			}
			c, v, err = it.execBlockBody(catchEnv, n.CatchBlock.Body)
		}
	}
	if n.FinallyBlock != nil {
		fc, fv, ferr := it.execBlockScoped(env, n.FinallyBlock)
		if ferr != nil {
			return ctrlNone, nil, ferr
		}
		if fc != ctrlNone {
			// A completion from `finally` overrides the try/catch outcome,
			// including swallowing a pending throw (§4.1 "finally semantics").
			return fc, fv, nil
		}
	}
	return c, v, err
}
