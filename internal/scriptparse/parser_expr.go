package scriptparse

import "strconv"

// parseExpression parses a full expression, including top-level comma
// (sequence) and assignment.
func (p *Parser) parseExpression() Expr {
	first := p.parseAssign()
	if p.isPunct(",") {
		exprs := []Expr{first}
		for p.eatPunct(",") {
			exprs = append(exprs, p.parseAssign())
		}
		return &SequenceExpr{Exprs: exprs}
	}
	return first
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "**=": true,
	"%=": true, "|=": true, "^=": true, "&=": true, "<<=": true, ">>=": true,
	">>>=": true, "&&=": true, "||=": true, "??=": true,
}

func (p *Parser) parseAssign() Expr {
	left := p.parseConditional()
	if p.cur().Kind == TokPunct && assignOps[p.cur().Text] {
		op := p.advance().Text
		right := p.parseAssign()
		return &AssignExpr{Op: op, Target: left, Value: right}
	}
	return left
}

func (p *Parser) parseConditional() Expr {
	cond := p.parseNullish()
	if p.eatPunct("?") {
		then := p.parseAssign()
		p.expectPunct(":")
		els := p.parseAssign()
		return &CondExpr{Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *Parser) parseNullish() Expr {
	left := p.parseOr()
	for p.isPunct("??") {
		p.advance()
		right := p.parseOr()
		left = &LogicalExpr{Op: "??", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseOr() Expr {
	left := p.parseAnd()
	for p.isPunct("||") {
		p.advance()
		right := p.parseAnd()
		left = &LogicalExpr{Op: "||", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() Expr {
	left := p.parseBitOr()
	for p.isPunct("&&") {
		p.advance()
		right := p.parseBitOr()
		left = &LogicalExpr{Op: "&&", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseBitOr() Expr {
	left := p.parseBitXor()
	for p.isPunct("|") {
		p.advance()
		left = &BinaryExpr{Op: "|", Left: left, Right: p.parseBitXor()}
	}
	return left
}

func (p *Parser) parseBitXor() Expr {
	left := p.parseBitAnd()
	for p.isPunct("^") {
		p.advance()
		left = &BinaryExpr{Op: "^", Left: left, Right: p.parseBitAnd()}
	}
	return left
}

func (p *Parser) parseBitAnd() Expr {
	left := p.parseEquality()
	for p.isPunct("&") {
		p.advance()
		left = &BinaryExpr{Op: "&", Left: left, Right: p.parseEquality()}
	}
	return left
}

var equalityOps = map[string]bool{"==": true, "!=": true, "===": true, "!==": true}

func (p *Parser) parseEquality() Expr {
	left := p.parseRelational()
	for p.cur().Kind == TokPunct && equalityOps[p.cur().Text] {
		op := p.advance().Text
		left = &BinaryExpr{Op: op, Left: left, Right: p.parseRelational()}
	}
	return left
}

var relOps = map[string]bool{"<": true, ">": true, "<=": true, ">=": true}

func (p *Parser) parseRelational() Expr {
	left := p.parseShift()
	for (p.cur().Kind == TokPunct && relOps[p.cur().Text]) || p.isKeyword("instanceof") || p.isKeyword("in") {
		op := p.advance().Text
		left = &BinaryExpr{Op: op, Left: left, Right: p.parseShift()}
	}
	return left
}

var shiftOps = map[string]bool{"<<": true, ">>": true, ">>>": true}

func (p *Parser) parseShift() Expr {
	left := p.parseAdditive()
	for p.cur().Kind == TokPunct && shiftOps[p.cur().Text] {
		op := p.advance().Text
		left = &BinaryExpr{Op: op, Left: left, Right: p.parseAdditive()}
	}
	return left
}

func (p *Parser) parseAdditive() Expr {
	left := p.parseMultiplicative()
	for p.isPunct("+") || p.isPunct("-") {
		op := p.advance().Text
		left = &BinaryExpr{Op: op, Left: left, Right: p.parseMultiplicative()}
	}
	return left
}

func (p *Parser) parseMultiplicative() Expr {
	left := p.parseExponent()
	for p.isPunct("*") || p.isPunct("/") || p.isPunct("%") {
		op := p.advance().Text
		left = &BinaryExpr{Op: op, Left: left, Right: p.parseExponent()}
	}
	return left
}

func (p *Parser) parseExponent() Expr {
	left := p.parseUnary()
	if p.isPunct("**") {
		p.advance()
		right := p.parseExponent() // right-associative
		return &BinaryExpr{Op: "**", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() Expr {
	if p.isPunct("-") || p.isPunct("+") || p.isPunct("!") || p.isPunct("~") {
		op := p.advance().Text
		return &UnaryExpr{Op: op, X: p.parseUnary()}
	}
	if p.isKeyword("typeof") || p.isKeyword("void") || p.isKeyword("delete") {
		op := p.advance().Text
		return &UnaryExpr{Op: op, X: p.parseUnary()}
	}
	if p.isKeyword("await") {
		p.advance()
		return &AwaitExpr{X: p.parseUnary()}
	}
	if p.isPunct("++") || p.isPunct("--") {
		op := p.advance().Text
		return &UpdateExpr{Op: op, Prefix: true, X: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() Expr {
	x := p.parseCallMember(p.parsePrimary())
	if p.isPunct("++") || p.isPunct("--") {
		op := p.advance().Text
		return &UpdateExpr{Op: op, Prefix: false, X: x}
	}
	return x
}

// parseCallMember parses the `.prop`, `[expr]`, `(args)`, `?.` chain after a
// primary expression.
func (p *Parser) parseCallMember(x Expr) Expr {
	for {
		switch {
		case p.isPunct("."):
			p.advance()
			name := p.identName()
			x = &MemberExpr{Object: x, Property: name}
		case p.isPunct("?."):
			p.advance()
			if p.isPunct("(") {
				x = p.parseCallArgs(x, true)
				continue
			}
			if p.isPunct("[") {
				p.advance()
				idx := p.parseExpression()
				p.expectPunct("]")
				x = &MemberExpr{Object: x, Computed: idx, Optional: true}
				continue
			}
			name := p.identName()
			x = &MemberExpr{Object: x, Property: name, Optional: true}
		case p.isPunct("["):
			p.advance()
			idx := p.parseExpression()
			p.expectPunct("]")
			x = &MemberExpr{Object: x, Computed: idx}
		case p.isPunct("("):
			x = p.parseCallArgs(x, false)
		default:
			return x
		}
	}
}

func (p *Parser) parseCallArgs(callee Expr, optional bool) Expr {
	p.expectPunct("(")
	var args []Expr
	var spreads []bool
	for !p.isPunct(")") {
		spread := false
		if p.isPunct("...") {
			p.advance()
			spread = true
		}
		args = append(args, p.parseAssign())
		spreads = append(spreads, spread)
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return &CallExpr{Callee: callee, Args: args, Optional: optional, Spread: spreads}
}

func (p *Parser) parsePrimary() Expr {
	t := p.cur()
	switch t.Kind {
	case TokNumber:
		p.advance()
		n, _ := strconv.ParseInt(t.Text, 0, 64)
		return &NumberLit{Value: n}
	case TokFloat:
		p.advance()
		f, _ := strconv.ParseFloat(t.Text, 64)
		return &FloatLit{Value: f}
	case TokBigInt:
		p.advance()
		return &BigIntLit{Text: t.Text}
	case TokString:
		p.advance()
		return &StringLit{Value: t.Text}
	case TokTemplate:
		p.advance()
		exprs := make([]Expr, len(t.Exprs))
		for i, src := range t.Exprs {
			sub, err := Parse(src + ";")
			if err != nil || len(sub.Statements) == 0 {
				panic(newParseErr(p.src, t.Pos, "invalid template expression"))
			}
			es, ok := sub.Statements[0].(*ExprStmt)
			if !ok {
				panic(newParseErr(p.src, t.Pos, "invalid template expression"))
			}
			exprs[i] = es.X
		}
		return &TemplateLit{Parts: t.Parts, Exprs: exprs}
	case TokRegex:
		p.advance()
		flags := ""
		if len(t.Parts) > 0 {
			flags = t.Parts[0]
		}
		return &RegexLit{Pattern: t.Text, Flags: flags}
	case TokKeyword:
		switch t.Text {
		case "true":
			p.advance()
			return &BoolLit{Value: true}
		case "false":
			p.advance()
			return &BoolLit{Value: false}
		case "null":
			p.advance()
			return &NullLit{}
		case "undefined":
			p.advance()
			return &UndefinedLit{}
		case "function":
			return p.parseFunctionExpr(false)
		case "async":
			if p.nextIsKeyword(1, "function") {
				p.advance()
				return p.parseFunctionExpr(true)
			}
			// async arrow: `async (x) => ...` or `async x => ...`
			p.advance()
			return p.parseArrowOrIdent(true)
		}
	case TokIdent:
		return p.parseArrowOrIdent(false)
	case TokPunct:
		switch t.Text {
		case "(":
			return p.parseParenOrArrow()
		case "[":
			return p.parseArrayLit()
		case "{":
			return p.parseObjectLit()
		}
	}
	p.failf("unexpected token")
	return nil
}

func (p *Parser) nextIsKeyword(offset int, kw string) bool {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return false
	}
	t := p.toks[idx]
	return t.Kind == TokKeyword && t.Text == kw
}

func (p *Parser) nextIsPunct(offset int, s string) bool {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return false
	}
	t := p.toks[idx]
	return t.Kind == TokPunct && t.Text == s
}

// parseArrowOrIdent handles `ident => body` vs a bare identifier reference.
func (p *Parser) parseArrowOrIdent(isAsync bool) Expr {
	name := p.identName()
	if p.isPunct("=>") {
		p.advance()
		param := Param{Name: IdentPattern{Name: name}}
		return p.finishArrowBody([]Param{param}, isAsync)
	}
	return &Ident{Name: name}
}

// parseParenOrArrow disambiguates `(expr)` from `(params) => body`.
func (p *Parser) parseParenOrArrow() Expr {
	save := p.pos
	if params, ok := p.tryParseArrowParams(); ok && p.isPunct("=>") {
		p.advance()
		return p.finishArrowBody(params, false)
	}
	p.pos = save
	p.expectPunct("(")
	x := p.parseExpression()
	p.expectPunct(")")
	return x
}

// tryParseArrowParams attempts to parse `(params)`, restoring position and
// returning ok=false on any failure (used for arrow lookahead).
func (p *Parser) tryParseArrowParams() (params []Param, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	p.expectPunct("(")
	for !p.isPunct(")") {
		params = append(params, p.parseParam())
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return params, true
}

func (p *Parser) parseParam() Param {
	rest := false
	if p.eatPunct("...") {
		rest = true
	}
	var pat Pattern
	if p.isPunct("[") {
		pat = p.parseArrayPattern()
	} else {
		pat = IdentPattern{Name: p.identName()}
	}
	var def Expr
	if !rest && p.eatPunct("=") {
		def = p.parseAssign()
	}
	return Param{Name: pat, Default: def, Rest: rest}
}

func (p *Parser) parseArrayPattern() Pattern {
	p.expectPunct("[")
	var elems []Pattern
	for !p.isPunct("]") {
		if p.isPunct(",") {
			elems = append(elems, nil)
			p.advance()
			continue
		}
		elems = append(elems, IdentPattern{Name: p.identName()})
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct("]")
	return ArrayPattern{Elements: elems}
}

func (p *Parser) parseFunctionExpr(isAsync bool) Expr {
	p.expectKeyword("function")
	name := ""
	if n, ok := p.peekName(); ok && !p.isPunct("(") {
		name = n
		p.advance()
	}
	params := p.mustParseParams()
	body := p.parseBlock()
	return &FuncExpr{Name: name, Params: params, Body: body, IsAsync: isAsync}
}

func (p *Parser) mustParseParams() []Param {
	p.expectPunct("(")
	var params []Param
	for !p.isPunct(")") {
		params = append(params, p.parseParam())
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return params
}

// finishArrowBody parses the `=> body` part: either a braced block or the
// longest expression prefix (concise body).
func (p *Parser) finishArrowBody(params []Param, isAsync bool) Expr {
	if p.isPunct("{") {
		body := p.parseBlock()
		return &FuncExpr{Params: params, Body: body, IsAsync: isAsync, Arrow: true}
	}
	expr := p.parseAssign()
	return &FuncExpr{Params: params, ExprBody: expr, IsAsync: isAsync, Arrow: true}
}

func (p *Parser) parseArrayLit() Expr {
	p.expectPunct("[")
	var elems []Expr
	for !p.isPunct("]") {
		if p.isPunct(",") {
			elems = append(elems, nil)
			p.advance()
			continue
		}
		if p.eatPunct("...") {
			elems = append(elems, &SpreadExpr{X: p.parseAssign()})
		} else {
			elems = append(elems, p.parseAssign())
		}
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct("]")
	return &ArrayLit{Elements: elems}
}

func (p *Parser) parseObjectLit() Expr {
	p.expectPunct("{")
	var props []ObjectProp
	for !p.isPunct("}") {
		var prop ObjectProp
		if p.isPunct("[") {
			p.advance()
			prop.Computed = p.parseAssign()
			p.expectPunct("]")
			p.expectPunct(":")
			prop.Value = p.parseAssign()
		} else {
			name := p.identOrStringKey()
			prop.Key = name
			if p.eatPunct(":") {
				prop.Value = p.parseAssign()
			} else if p.isPunct("(") {
				params := p.mustParseParams()
				body := p.parseBlock()
				prop.Value = &FuncExpr{Name: name, Params: params, Body: body}
			} else {
				prop.Shorthand = true
				prop.Value = &Ident{Name: name}
			}
		}
		props = append(props, prop)
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct("}")
	return &ObjectLit{Props: props}
}

func (p *Parser) identOrStringKey() string {
	if p.cur().Kind == TokString {
		return p.advance().Text
	}
	if p.cur().Kind == TokNumber {
		return p.advance().Text
	}
	return p.identName()
}
