package scriptparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(src)
	require.NoError(t, err)
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := mustParse(t, "let x = 1, y = 2;")
	require.Len(t, prog.Statements, 1)
	decl, ok := prog.Statements[0].(*VarDeclStmt)
	require.True(t, ok)
	assert.Equal(t, VarLet, decl.Kind)
	assert.Len(t, decl.Decls, 2)
}

func TestParseIfElseIfChain(t *testing.T) {
	prog := mustParse(t, `
		if (a) { x = 1; }
		else if (b) { x = 2; }
		else { x = 3; }
	`)
	require.Len(t, prog.Statements, 1)
	top, ok := prog.Statements[0].(*IfStmt)
	require.True(t, ok)
	mid, ok := top.Else.(*IfStmt)
	require.True(t, ok)
	_, ok = mid.Else.(*BlockStmt)
	assert.True(t, ok)
}

func TestParseNoBraceIf(t *testing.T) {
	prog := mustParse(t, "if (a) x = 1; else x = 2;")
	top, ok := prog.Statements[0].(*IfStmt)
	require.True(t, ok)
	_, ok = top.Then.(*ExprStmt)
	assert.True(t, ok)
}

func TestParseForCStyle(t *testing.T) {
	prog := mustParse(t, "for (let i = 0; i < 10; i++) { sum += i; }")
	f, ok := prog.Statements[0].(*ForStmt)
	require.True(t, ok)
	require.NotNil(t, f.Init)
	require.NotNil(t, f.Cond)
	require.NotNil(t, f.Post)
}

func TestParseForOf(t *testing.T) {
	prog := mustParse(t, "for (const x of items) { log(x); }")
	f, ok := prog.Statements[0].(*ForOfStmt)
	require.True(t, ok)
	assert.Equal(t, VarConst, f.Kind)
}

func TestParseForIn(t *testing.T) {
	prog := mustParse(t, "for (let i in arr) { log(i); }")
	f, ok := prog.Statements[0].(*ForInStmt)
	require.True(t, ok)
	assert.Equal(t, VarLet, f.Kind)
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := mustParse(t, `
		try { risky(); }
		catch (e) { handle(e); }
		finally { cleanup(); }
	`)
	tr, ok := prog.Statements[0].(*TryStmt)
	require.True(t, ok)
	assert.True(t, tr.HasCatch)
	assert.NotNil(t, tr.FinallyBlock)
}

func TestParseTryCatchDestructure(t *testing.T) {
	prog := mustParse(t, `try { risky(); } catch ({message}) { log(message); }`)
	tr, ok := prog.Statements[0].(*TryStmt)
	require.True(t, ok)
	_, isObjPat := tr.CatchParam.(ObjectPattern)
	assert.True(t, isObjPat)
}

func TestParseArrowFunctionConcise(t *testing.T) {
	prog := mustParse(t, "const f = (x) => x + 1;")
	decl := prog.Statements[0].(*VarDeclStmt)
	fn, ok := decl.Decls[0].Init.(*FuncExpr)
	require.True(t, ok)
	assert.True(t, fn.Arrow)
	assert.NotNil(t, fn.ExprBody)
}

func TestParseArrowFunctionBlockBody(t *testing.T) {
	prog := mustParse(t, "const f = (x) => { return x + 1; };")
	decl := prog.Statements[0].(*VarDeclStmt)
	fn := decl.Decls[0].Init.(*FuncExpr)
	assert.NotNil(t, fn.Body)
	assert.Nil(t, fn.ExprBody)
}

func TestParseSingleIdentArrow(t *testing.T) {
	prog := mustParse(t, "const f = x => x * 2;")
	decl := prog.Statements[0].(*VarDeclStmt)
	fn := decl.Decls[0].Init.(*FuncExpr)
	require.Len(t, fn.Params, 1)
}

func TestParseMemberChainAndCall(t *testing.T) {
	prog := mustParse(t, "document.getElementById('x').classList.add('y');")
	es := prog.Statements[0].(*ExprStmt)
	call, ok := es.X.(*CallExpr)
	require.True(t, ok)
	m, ok := call.Callee.(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "add", m.Property)
}

func TestParseCompoundAssign(t *testing.T) {
	prog := mustParse(t, "x += 1;")
	es := prog.Statements[0].(*ExprStmt)
	a, ok := es.X.(*AssignExpr)
	require.True(t, ok)
	assert.Equal(t, "+=", a.Op)
}

func TestParseDestructureArrayAssignStmt(t *testing.T) {
	prog := mustParse(t, "[a, b] = pair;")
	es := prog.Statements[0].(*ExprStmt)
	a, ok := es.X.(*AssignExpr)
	require.True(t, ok)
	pe, ok := a.Target.(*PatternExpr)
	require.True(t, ok)
	_, isArr := pe.Pattern.(ArrayPattern)
	assert.True(t, isArr)
}

func TestParseTemplateLiteral(t *testing.T) {
	prog := mustParse(t, "let s = `a${1+1}b`;")
	decl := prog.Statements[0].(*VarDeclStmt)
	tmpl, ok := decl.Decls[0].Init.(*TemplateLit)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, tmpl.Parts)
	require.Len(t, tmpl.Exprs, 1)
}

func TestRegexVsDivisionDisambiguation(t *testing.T) {
	prog := mustParse(t, "let r = /abc/g;")
	decl := prog.Statements[0].(*VarDeclStmt)
	_, ok := decl.Decls[0].Init.(*RegexLit)
	assert.True(t, ok)

	prog2 := mustParse(t, "let q = a / b;")
	decl2 := prog2.Statements[0].(*VarDeclStmt)
	_, ok2 := decl2.Decls[0].Init.(*BinaryExpr)
	assert.True(t, ok2)
}

func TestParseAsyncFunctionDecl(t *testing.T) {
	prog := mustParse(t, "async function f() { await g(); }")
	fn, ok := prog.Statements[0].(*FuncDeclStmt)
	require.True(t, ok)
	assert.True(t, fn.IsAsync)
}

func TestParseBigIntLiteral(t *testing.T) {
	prog := mustParse(t, "let n = 10n;")
	decl := prog.Statements[0].(*VarDeclStmt)
	lit, ok := decl.Decls[0].Init.(*BigIntLit)
	require.True(t, ok)
	assert.Equal(t, "10", lit.Text)
}

func TestParseErrorIncludesFragment(t *testing.T) {
	_, err := Parse("let = ;")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.NotEmpty(t, pe.Fragment)
}
