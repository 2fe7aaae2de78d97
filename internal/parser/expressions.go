package parser

import (
	"strconv"

	"github.com/quantum-lang/quantum/internal/ast"
	"github.com/quantum-lang/quantum/internal/lexer"
)

// Precedence levels, lowest to highest, matching §4.2's Pratt ladder:
// assignment < ternary < or < and < bitwise < equality < comparison <
// shift < additive < multiplicative < power < unary < postfix.
const (
	LOWEST int = iota
	ASSIGN_PREC
	TERNARY_PREC
	OR_PREC
	AND_PREC
	BITWISE_PREC
	EQUALITY_PREC
	COMPARE_PREC
	SHIFT_PREC
	ADD_PREC
	MUL_PREC
	POWER_PREC
	UNARY_PREC
	POSTFIX_PREC
)

// parseExpression is the Pratt driver: it parses one prefix term, then
// repeatedly folds in infix operators whose precedence exceeds the
// caller's minimum.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	for {
		prec := p.peekPrecedence()
		if precedence >= prec {
			break
		}
		left = p.parseInfix(left, prec)
	}
	return left
}

func (p *Parser) peekPrecedence() int {
	switch p.cur().Type {
	case lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN, lexer.SLASH_ASSIGN:
		return ASSIGN_PREC
	case lexer.QUESTION, lexer.IF:
		return TERNARY_PREC
	case lexer.OR, lexer.LOGICAL_OR:
		return OR_PREC
	case lexer.AND, lexer.LOGICAL_AND:
		return AND_PREC
	case lexer.PIPE, lexer.CARET, lexer.AMP:
		return BITWISE_PREC
	case lexer.EQ, lexer.NOT_EQ:
		return EQUALITY_PREC
	case lexer.LT, lexer.GT, lexer.LE, lexer.GE, lexer.IN, lexer.NOT_IN:
		return COMPARE_PREC
	case lexer.NOT:
		if p.peek(1).Type == lexer.IN {
			return COMPARE_PREC
		}
		return LOWEST
	case lexer.SHL, lexer.SHR:
		return SHIFT_PREC
	case lexer.PLUS, lexer.MINUS:
		return ADD_PREC
	case lexer.STAR, lexer.SLASH, lexer.PERCENT, lexer.SLASH_SLASH:
		return MUL_PREC
	case lexer.STAR_STAR:
		return POWER_PREC
	case lexer.LPAREN, lexer.LBRACKET, lexer.DOT, lexer.INC, lexer.DEC:
		return POSTFIX_PREC
	}
	return LOWEST
}

func (p *Parser) parseInfix(left ast.Expression, prec int) ast.Expression {
	switch p.cur().Type {
	case lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN, lexer.SLASH_ASSIGN:
		return p.parseAssign(left)
	case lexer.QUESTION:
		return p.parseTernary(left)
	case lexer.IF:
		return p.parseInlineIf(left)
	case lexer.LPAREN:
		return p.parseCall(left)
	case lexer.LBRACKET:
		return p.parseIndexOrSlice(left)
	case lexer.DOT:
		return p.parseMember(left)
	case lexer.INC, lexer.DEC:
		return p.parsePostfixOp(left)
	case lexer.NOT:
		return p.parseNotIn(left, prec)
	default:
		return p.parseBinary(left, prec)
	}
}

func opString(t lexer.TokenType) string {
	switch t {
	case lexer.AND, lexer.LOGICAL_AND:
		return "and"
	case lexer.OR, lexer.LOGICAL_OR:
		return "or"
	default:
		return t.String()
	}
}

func assignOpString(t lexer.TokenType) string {
	switch t {
	case lexer.PLUS_ASSIGN:
		return "+="
	case lexer.MINUS_ASSIGN:
		return "-="
	case lexer.STAR_ASSIGN:
		return "*="
	case lexer.SLASH_ASSIGN:
		return "/="
	default:
		return "="
	}
}

func (p *Parser) parseBinary(left ast.Expression, prec int) ast.Expression {
	tok := p.advance()
	rightPrec := prec
	if tok.Type == lexer.STAR_STAR {
		rightPrec-- // right-associative
	}
	right := p.parseExpression(rightPrec)
	return &ast.BinaryExpression{Base: ast.NewBase(tok.Pos.Line), Op: opString(tok.Type), Left: left, Right: right}
}

func (p *Parser) parseNotIn(left ast.Expression, prec int) ast.Expression {
	tok := p.advance() // not
	p.expect(lexer.IN)
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Base: ast.NewBase(tok.Pos.Line), Op: "not in", Left: left, Right: right}
}

func (p *Parser) parseAssign(left ast.Expression) ast.Expression {
	tok := p.advance()
	value := p.parseExpression(ASSIGN_PREC - 1)
	return &ast.AssignExpression{Base: ast.NewBase(tok.Pos.Line), Op: assignOpString(tok.Type), Target: left, Value: value}
}

// parseTernary handles `cond ? then : else`.
func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	tok := p.advance() // ?
	then := p.parseExpression(ASSIGN_PREC)
	p.expect(lexer.COLON)
	elseExpr := p.parseExpression(TERNARY_PREC - 1)
	return &ast.TernaryExpression{Base: ast.NewBase(tok.Pos.Line), Cond: cond, Then: then, Else: elseExpr}
}

// parseInlineIf handles Python's `then if cond else else_`, where `then`
// was already parsed as the left-hand operand.
func (p *Parser) parseInlineIf(then ast.Expression) ast.Expression {
	tok := p.advance() // if
	cond := p.parseExpression(TERNARY_PREC)
	p.expect(lexer.ELSE)
	elseExpr := p.parseExpression(TERNARY_PREC - 1)
	return &ast.TernaryExpression{Base: ast.NewBase(tok.Pos.Line), Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseCall(left ast.Expression) ast.Expression {
	tok := p.advance() // (
	var args []ast.Expression
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		args = append(args, p.parseExpression(ASSIGN_PREC))
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return &ast.CallExpression{Base: ast.NewBase(tok.Pos.Line), Callee: left, Args: args}
}

// parseIndexOrSlice handles `obj[i]` and `obj[start:stop:step]`, where
// any slice part may be omitted.
func (p *Parser) parseIndexOrSlice(left ast.Expression) ast.Expression {
	tok := p.advance() // [
	var start, stop, step ast.Expression
	if !p.at(lexer.COLON) && !p.at(lexer.RBRACKET) {
		start = p.parseExpression(LOWEST)
	}
	if !p.accept(lexer.COLON) {
		p.expect(lexer.RBRACKET)
		return &ast.IndexExpression{Base: ast.NewBase(tok.Pos.Line), Object: left, Index: start}
	}
	if !p.at(lexer.COLON) && !p.at(lexer.RBRACKET) {
		stop = p.parseExpression(LOWEST)
	}
	if p.accept(lexer.COLON) && !p.at(lexer.RBRACKET) {
		step = p.parseExpression(LOWEST)
	}
	p.expect(lexer.RBRACKET)
	return &ast.SliceExpression{Base: ast.NewBase(tok.Pos.Line), Object: left, Start: start, Stop: stop, Step: step}
}

func (p *Parser) parseMember(left ast.Expression) ast.Expression {
	tok := p.advance() // .
	name := p.expect(lexer.IDENT).Literal
	return &ast.MemberExpression{Base: ast.NewBase(tok.Pos.Line), Object: left, Name: name}
}

func (p *Parser) parsePostfixOp(left ast.Expression) ast.Expression {
	tok := p.advance()
	return &ast.PostfixExpression{Base: ast.NewBase(tok.Pos.Line), Op: opString(tok.Type), Operand: left}
}

// parsePrefix parses a primary term together with any prefix operators.
func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		return &ast.NumberLiteral{Base: ast.NewBase(tok.Pos.Line), Value: v}
	case lexer.STRING:
		p.advance()
		return &ast.StringLiteral{Base: ast.NewBase(tok.Pos.Line), Value: tok.Literal}
	case lexer.TRUE:
		p.advance()
		return &ast.BoolLiteral{Base: ast.NewBase(tok.Pos.Line), Value: true}
	case lexer.FALSE:
		p.advance()
		return &ast.BoolLiteral{Base: ast.NewBase(tok.Pos.Line), Value: false}
	case lexer.NIL:
		p.advance()
		return &ast.NilLiteral{Base: ast.NewBase(tok.Pos.Line)}
	case lexer.SELF:
		p.advance()
		return &ast.Identifier{Base: ast.NewBase(tok.Pos.Line), Name: "self"}
	case lexer.SUPER:
		return p.parseSuper()
	case lexer.IDENT:
		if p.peek(1).Type == lexer.FAT_ARROW {
			return p.parseArrowFromIdent()
		}
		p.advance()
		return &ast.Identifier{Base: ast.NewBase(tok.Pos.Line), Name: tok.Literal}
	case lexer.FUNC:
		return p.parseLambdaExpr()
	case lexer.NEW:
		return p.parseNewExpr()
	case lexer.LPAREN:
		return p.parseParenExpr()
	case lexer.LBRACKET:
		return p.parseBracketExpr()
	case lexer.LBRACE:
		return p.parseDictLiteral()
	case lexer.MINUS, lexer.PLUS, lexer.NOT, lexer.TILDE, lexer.INC, lexer.DEC:
		return p.parseUnary()
	case lexer.AMP:
		// C-style address-of has no pointer semantics here; the operator
		// is stripped and the operand's value is used directly (§4.2).
		p.advance()
		return p.parseExpression(UNARY_PREC)
	}

	if _, ok := typeKeywords[tok.Type]; ok {
		// A type keyword in expression position is a plain identifier
		// under its own spelling, so `str(x)`/`long(x)` reach the builtins.
		p.advance()
		return &ast.Identifier{Base: ast.NewBase(tok.Pos.Line), Name: tok.Literal}
	}

	p.errorf(tok, "unexpected token %s %q", tok.Type, tok.Literal)
	p.advance()
	return &ast.NilLiteral{Base: ast.NewBase(tok.Pos.Line)}
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.advance()
	// Parse the operand one level below POWER_PREC so a trailing "**"
	// binds to the operand before the unary wraps it: "-a**b" is
	// "-(a**b)", not "(-a)**b".
	operand := p.parseExpression(POWER_PREC - 1)
	return &ast.UnaryExpression{Base: ast.NewBase(tok.Pos.Line), Op: opString(tok.Type), Operand: operand}
}

func (p *Parser) parseSuper() ast.Expression {
	tok := p.advance() // super
	if p.accept(lexer.DOT) {
		method := p.expect(lexer.IDENT).Literal
		return &ast.SuperRef{Base: ast.NewBase(tok.Pos.Line), Method: method}
	}
	return &ast.SuperRef{Base: ast.NewBase(tok.Pos.Line)}
}

func (p *Parser) parseLambdaExpr() ast.Expression {
	tok := p.advance() // fn/def/function
	if p.at(lexer.IDENT) {
		p.advance() // discard optional name in expression position
	}
	params := p.parseParamList()
	if p.accept(lexer.ARROW) {
		p.parseTypeExpr()
	}
	body := p.parseBlock()
	return &ast.Lambda{Base: ast.NewBase(tok.Pos.Line), Params: params, Body: body}
}

func (p *Parser) parseNewExpr() ast.Expression {
	tok := p.advance() // new
	name := p.expect(lexer.IDENT).Literal
	callee := &ast.Identifier{Base: ast.NewBase(tok.Pos.Line), Name: name}
	var args []ast.Expression
	if p.accept(lexer.LPAREN) {
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			args = append(args, p.parseExpression(ASSIGN_PREC))
			if !p.accept(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RPAREN)
	}
	return &ast.CallExpression{Base: ast.NewBase(tok.Pos.Line), Callee: callee, Args: args}
}

// parseParenExpr handles grouping, tuple literals, and `(params) =>
// body` arrow functions, disambiguated by a non-consuming scan.
func (p *Parser) parseParenExpr() ast.Expression {
	if p.isArrowParenAhead() {
		return p.parseArrowFromParen()
	}

	tok := p.advance() // (
	if p.accept(lexer.RPAREN) {
		return &ast.TupleLiteral{Base: ast.NewBase(tok.Pos.Line)}
	}
	first := p.parseExpression(LOWEST)
	if p.accept(lexer.COMMA) {
		items := []ast.Expression{first}
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			items = append(items, p.parseExpression(LOWEST))
			if !p.accept(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RPAREN)
		return &ast.TupleLiteral{Base: ast.NewBase(tok.Pos.Line), Items: items}
	}
	p.expect(lexer.RPAREN)
	return first
}

func (p *Parser) isArrowParenAhead() bool {
	i := p.pos
	if i >= len(p.tokens) || p.tokens[i].Type != lexer.LPAREN {
		return false
	}
	depth := 0
	for i < len(p.tokens) {
		switch p.tokens[i].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Type == lexer.FAT_ARROW
			}
		case lexer.EOF:
			return false
		}
		i++
	}
	return false
}

func (p *Parser) parseArrowFromIdent() ast.Expression {
	tok := p.advance() // ident
	p.expect(lexer.FAT_ARROW)
	body := p.parseArrowBody(tok.Pos.Line)
	return &ast.Lambda{Base: ast.NewBase(tok.Pos.Line), Params: []ast.Param{{Name: tok.Literal}}, Body: body}
}

func (p *Parser) parseArrowFromParen() ast.Expression {
	line := p.cur().Pos.Line
	params := p.parseParamList()
	p.expect(lexer.FAT_ARROW)
	body := p.parseArrowBody(line)
	return &ast.Lambda{Base: ast.NewBase(line), Params: params, Body: body}
}

// parseArrowBody accepts either a brace block or a bare expression,
// which is wrapped in an implicit return.
func (p *Parser) parseArrowBody(line int) *ast.Block {
	if p.at(lexer.LBRACE) {
		return p.parseBlock()
	}
	expr := p.parseExpression(ASSIGN_PREC)
	return &ast.Block{Base: ast.NewBase(line), Stmts: []ast.Statement{
		&ast.Return{Base: ast.NewBase(line), Value: expr},
	}}
}

// parseBracketExpr handles `[items...]` array literals and `[expr for
// var in iter if cond]` list comprehensions.
func (p *Parser) parseBracketExpr() ast.Expression {
	tok := p.advance() // [
	if p.accept(lexer.RBRACKET) {
		return &ast.ArrayLiteral{Base: ast.NewBase(tok.Pos.Line)}
	}
	first := p.parseExpression(ASSIGN_PREC)
	if p.at(lexer.FOR) {
		return p.parseListComprehensionTail(tok.Pos.Line, first)
	}
	items := []ast.Expression{first}
	for p.accept(lexer.COMMA) {
		if p.at(lexer.RBRACKET) {
			break
		}
		items = append(items, p.parseExpression(ASSIGN_PREC))
	}
	p.expect(lexer.RBRACKET)
	return &ast.ArrayLiteral{Base: ast.NewBase(tok.Pos.Line), Items: items}
}

func (p *Parser) parseListComprehensionTail(line int, expr ast.Expression) ast.Expression {
	p.advance() // for
	v1 := p.expect(lexer.IDENT).Literal
	var v2 string
	if p.accept(lexer.COMMA) {
		v2 = p.expect(lexer.IDENT).Literal
	}
	if !p.accept(lexer.IN) {
		p.accept(lexer.OF)
	}
	// Stop below TERNARY_PREC so a trailing `if` is the filter, not an
	// inline `x if c else y`.
	iter := p.parseExpression(TERNARY_PREC)
	var cond ast.Expression
	if p.accept(lexer.IF) {
		cond = p.parseExpression(ASSIGN_PREC)
	}
	p.expect(lexer.RBRACKET)
	return &ast.ListComprehension{Base: ast.NewBase(line), Expr: expr, Var: v1, Var2: v2, Iter: iter, Cond: cond}
}

func (p *Parser) parseDictLiteral() ast.Expression {
	tok := p.advance() // {
	dict := &ast.DictLiteral{Base: ast.NewBase(tok.Pos.Line)}
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		key := p.parseExpression(ASSIGN_PREC)
		p.expect(lexer.COLON)
		value := p.parseExpression(ASSIGN_PREC)
		dict.Pairs = append(dict.Pairs, ast.DictPair{Key: key, Value: value})
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return dict
}
