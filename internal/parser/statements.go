package parser

import (
	"github.com/quantum-lang/quantum/internal/ast"
	"github.com/quantum-lang/quantum/internal/lexer"
)

var typeKeywords = map[lexer.TokenType]string{
	lexer.TYPE_INT:    "int",
	lexer.TYPE_FLOAT:  "float",
	lexer.TYPE_STRING: "string",
	lexer.TYPE_BOOL:   "bool",
	lexer.TYPE_CHAR:   "char",
	lexer.TYPE_VOID:   "void",
}

// parseStatement dispatches on the leading keyword (§4.2 "Statement
// dispatch").
func (p *Parser) parseStatement() ast.Statement {
	p.parseDecorators()

	switch p.cur().Type {
	case lexer.LET, lexer.CONST_KW:
		return p.parseVarDecl()
	case lexer.FUNC:
		return p.parseFunctionDeclOrExprStmt()
	case lexer.CLASS:
		return p.parseClassDecl()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.BREAK:
		line := p.advance().Pos.Line
		return &ast.Break{Base: ast.NewBase(line)}
	case lexer.CONTINUE:
		line := p.advance().Pos.Line
		return &ast.Continue{Base: ast.NewBase(line)}
	case lexer.RAISE:
		return p.parseRaise()
	case lexer.TRY:
		return p.parseTry()
	case lexer.PRINT:
		return p.parsePrint()
	case lexer.INPUT:
		return p.parseInputStmt()
	case lexer.IMPORT, lexer.FROM:
		return p.parseImport()
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.NEWLINE, lexer.SEMICOLON:
		p.advance()
		return nil
	}

	if typeName, ok := typeKeywords[p.cur().Type]; ok && p.peek(1).Type == lexer.IDENT {
		return p.parseTypedVarDecl(typeName)
	}

	if n := p.tupleUnpackLen(); n > 0 {
		return p.parseTupleUnpack()
	}

	line := p.cur().Pos.Line
	expr := p.parseExpression(LOWEST)
	return &ast.ExprStmt{Base: ast.NewBase(line), Expr: expr}
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	tok := p.advance()
	isConst := tok.Type == lexer.CONST_KW
	name := p.expect(lexer.IDENT).Literal

	// Optional type annotation `: Type` — parsed and discarded (§4.2
	// "Type annotations and defaults").
	if p.accept(lexer.COLON) {
		p.parseTypeExpr()
	}

	var init ast.Expression
	if p.accept(lexer.ASSIGN) {
		init = p.parseExpression(LOWEST)
	}
	return &ast.VarDecl{Base: ast.NewBase(tok.Pos.Line), IsConst: isConst, Name: name, Init: init}
}

// parseTypeExpr skips a type annotation expression such as `int`,
// `List[int]`, or `Foo`. Its result is discarded per §4.2.
func (p *Parser) parseTypeExpr() {
	if _, ok := typeKeywords[p.cur().Type]; ok {
		p.advance()
	} else {
		p.expect(lexer.IDENT)
	}
	if p.accept(lexer.LBRACKET) {
		for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
			p.parseTypeExpr()
			if !p.accept(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RBRACKET)
	}
}

func (p *Parser) parseTypedVarDecl(typeName string) *ast.VarDecl {
	tok := p.advance() // type keyword
	name := p.expect(lexer.IDENT).Literal
	var init ast.Expression
	if p.accept(lexer.ASSIGN) {
		init = p.parseExpression(LOWEST)
	}
	return &ast.VarDecl{Base: ast.NewBase(tok.Pos.Line), Name: name, Init: init, TypeHint: typeName}
}

// tupleUnpackLen performs a non-consuming scan confirming the upcoming
// tokens are `ident (, ident)+ =`; returns the identifier count or 0.
func (p *Parser) tupleUnpackLen() int {
	i := p.pos
	count := 0
	for i < len(p.tokens) && p.tokens[i].Type == lexer.IDENT {
		count++
		i++
		if i < len(p.tokens) && p.tokens[i].Type == lexer.COMMA {
			i++
			continue
		}
		break
	}
	if count >= 2 && i < len(p.tokens) && p.tokens[i].Type == lexer.ASSIGN {
		return count
	}
	return 0
}

func (p *Parser) parseTupleUnpack() ast.Statement {
	line := p.cur().Pos.Line
	tuple := &ast.TupleLiteral{Base: ast.NewBase(line)}
	for {
		tok := p.expect(lexer.IDENT)
		tuple.Items = append(tuple.Items, &ast.Identifier{Base: ast.NewBase(tok.Pos.Line), Name: tok.Literal})
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.ASSIGN)
	value := p.parseExpression(LOWEST)
	return &ast.ExprStmt{Base: ast.NewBase(line), Expr: &ast.AssignExpression{
		Base: ast.NewBase(line), Op: "unpack", Target: tuple, Value: value,
	}}
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(lexer.LPAREN)
	var params []ast.Param
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		p.accept(lexer.STAR) // tolerate *args-style prefix, normalized away
		if p.accept(lexer.SELF) {
			// explicit Python-style `self`: the evaluator binds self itself
			if !p.accept(lexer.COMMA) {
				break
			}
			continue
		}
		name := p.expect(lexer.IDENT).Literal
		if p.accept(lexer.COLON) {
			p.parseTypeExpr()
		}
		var def ast.Expression
		if p.accept(lexer.ASSIGN) {
			def = p.parseExpression(ASSIGN_PREC)
		}
		params = append(params, ast.Param{Name: name, Default: def})
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

// normalizeMethodName applies §4.2's constructor/destructor/stringifier
// renaming.
func normalizeMethodName(name string) string {
	switch name {
	case "constructor", "__init__":
		return "init"
	case "destructor":
		return "__del__"
	case "toString", "to_string", "to_str":
		return "__str__"
	}
	return name
}

func (p *Parser) parseFunctionDeclOrExprStmt() ast.Statement {
	tok := p.advance() // fn/def/function
	if p.at(lexer.IDENT) {
		name := p.advance().Literal
		params := p.parseParamList()
		if p.accept(lexer.ARROW) {
			p.parseTypeExpr() // return type annotation, discarded
		}
		p.accept(lexer.COLON) // Python-style `def f(a):`
		body := p.parseBlock()
		return &ast.FunctionDecl{Base: ast.NewBase(tok.Pos.Line), Name: name, Params: params, Body: body}
	}
	// Anonymous: `fn(...) { ... }` used as an expression statement.
	params := p.parseParamList()
	if p.accept(lexer.ARROW) {
		p.parseTypeExpr()
	}
	body := p.parseBlock()
	lambda := &ast.Lambda{Base: ast.NewBase(tok.Pos.Line), Params: params, Body: body}
	return &ast.ExprStmt{Base: ast.NewBase(tok.Pos.Line), Expr: lambda}
}

func (p *Parser) parseClassDecl() *ast.ClassDecl {
	tok := p.advance() // class
	name := p.expect(lexer.IDENT).Literal
	class := &ast.ClassDecl{Base: ast.NewBase(tok.Pos.Line), Name: name}

	switch {
	case p.accept(lexer.LPAREN):
		// Python-style: class Child(Parent)
		if p.at(lexer.IDENT) {
			class.Base_ = p.advance().Literal
			for p.accept(lexer.COMMA) {
				p.expect(lexer.IDENT) // multiple parents reduced to the first
			}
		}
		p.expect(lexer.RPAREN)
	case p.accept(lexer.EXTENDS):
		class.Base_ = p.expect(lexer.IDENT).Literal
	}

	if p.accept(lexer.COLON) {
		// optional trailing colon before the body, Python style
	}

	p.parseClassBody(class)
	return class
}

func (p *Parser) parseClassBody(class *ast.ClassDecl) {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}

	closer := lexer.DEDENT
	if p.at(lexer.LBRACE) {
		p.advance()
		closer = lexer.RBRACE
	} else if p.at(lexer.INDENT) {
		p.advance()
	}

	p.skipSeparators()
	for !p.at(closer) && !p.at(lexer.EOF) {
		p.parseDecorators()
		static := p.accept(lexer.STATIC)

		// destructor shorthand `~ClassName`
		if p.at(lexer.TILDE) {
			p.advance()
			p.expect(lexer.IDENT)
			method := p.parseMethodTail("__del__")
			class.Methods = append(class.Methods, method)
			p.skipSeparators()
			continue
		}

		if p.at(lexer.FUNC) {
			p.advance()
		}
		rawName := p.expect(lexer.IDENT).Literal
		method := p.parseMethodTail(normalizeMethodName(rawName))
		method.Static = static
		if static {
			class.StaticMethods = append(class.StaticMethods, method)
		} else {
			class.Methods = append(class.Methods, method)
		}
		p.skipSeparators()
	}
	p.accept(closer)
}

func (p *Parser) parseMethodTail(name string) *ast.Method {
	params := p.parseParamList()
	if p.accept(lexer.ARROW) {
		p.parseTypeExpr()
	}
	p.accept(lexer.COLON)
	body := p.parseBlock()
	return &ast.Method{Name: name, Params: params, Body: body}
}

func (p *Parser) parseIf() *ast.If {
	tok := p.advance() // if
	cond := p.parseExpression(LOWEST)
	p.accept(lexer.COLON)
	then := p.parseBlock()
	node := &ast.If{Base: ast.NewBase(tok.Pos.Line), Cond: cond, Then: then}

	for p.at(lexer.NEWLINE) {
		save := p.pos
		p.advance()
		if p.at(lexer.ELIF) || p.at(lexer.ELSE) {
			break
		}
		p.pos = save
		break
	}

	switch {
	case p.at(lexer.ELIF):
		elifTok := p.cur()
		// desugar elif into a right-leaning If wrapped in a Block
		nested := p.parseIf()
		_ = elifTok
		node.Else = &ast.Block{Stmts: []ast.Statement{nested}}
	case p.atElseIf():
		p.advance() // else
		p.advance() // if
		nested := p.parseIfFromElseIf()
		node.Else = &ast.Block{Stmts: []ast.Statement{nested}}
	case p.at(lexer.ELSE):
		p.advance()
		node.Else = p.parseBlock()
	}
	return node
}

// atElseIf reports whether the upcoming tokens are `else if` (two
// keywords) as opposed to a plain `else`.
func (p *Parser) atElseIf() bool {
	return p.at(lexer.ELSE) && p.peek(1).Type == lexer.IF
}

// parseIfFromElseIf parses the remainder of an `else if` chain after both
// keywords have been consumed.
func (p *Parser) parseIfFromElseIf() *ast.If {
	line := p.tokens[p.pos-1].Pos.Line
	cond := p.parseExpression(LOWEST)
	p.accept(lexer.COLON)
	then := p.parseBlock()
	node := &ast.If{Base: ast.NewBase(line), Cond: cond, Then: then}
	switch {
	case p.at(lexer.ELIF):
		nested := p.parseIf()
		node.Else = &ast.Block{Stmts: []ast.Statement{nested}}
	case p.atElseIf():
		p.advance()
		p.advance()
		nested := p.parseIfFromElseIf()
		node.Else = &ast.Block{Stmts: []ast.Statement{nested}}
	case p.at(lexer.ELSE):
		p.advance()
		node.Else = p.parseBlock()
	}
	return node
}

func (p *Parser) parseWhile() *ast.While {
	tok := p.advance()
	cond := p.parseExpression(LOWEST)
	p.accept(lexer.COLON)
	body := p.parseBlock()
	return &ast.While{Base: ast.NewBase(tok.Pos.Line), Cond: cond, Body: body}
}

// parseFor normalizes all three for-loop flavours to the two AST shapes
// described in §4.2: foreach (ast.For) or a desugared C-style loop
// (ast.Block{init, ast.While{cond, ast.Block{body, post}}}).
func (p *Parser) parseFor() ast.Statement {
	tok := p.advance() // for

	if p.accept(lexer.LPAREN) {
		return p.parseCStyleFor(tok.Pos.Line)
	}

	v1 := p.expect(lexer.IDENT).Literal
	var v2 string
	if p.accept(lexer.COMMA) {
		v2 = p.expect(lexer.IDENT).Literal
	}
	if !p.accept(lexer.IN) {
		p.accept(lexer.OF)
	}
	iter := p.parseExpression(LOWEST)
	p.accept(lexer.COLON)
	body := p.parseBlock()
	return &ast.For{Base: ast.NewBase(tok.Pos.Line), Var: v1, Var2: v2, Iter: iter, Body: body}
}

func (p *Parser) parseCStyleFor(line int) ast.Statement {
	// `for (let x of it)` inside the parens short-circuits to foreach.
	if (p.at(lexer.LET) || p.at(lexer.IDENT)) && p.isForeachHeader() {
		consumedLet := p.accept(lexer.LET)
		_ = consumedLet
		v1 := p.expect(lexer.IDENT).Literal
		var v2 string
		if p.accept(lexer.COMMA) {
			v2 = p.expect(lexer.IDENT).Literal
		}
		if !p.accept(lexer.IN) {
			p.accept(lexer.OF)
		}
		iter := p.parseExpression(LOWEST)
		p.expect(lexer.RPAREN)
		body := p.parseBlock()
		return &ast.For{Base: ast.NewBase(line), Var: v1, Var2: v2, Iter: iter, Body: body}
	}

	var init ast.Statement
	if !p.at(lexer.SEMICOLON) {
		init = p.parseStatement()
	}
	p.accept(lexer.SEMICOLON)
	var cond ast.Expression
	if !p.at(lexer.SEMICOLON) {
		cond = p.parseExpression(LOWEST)
	} else {
		cond = &ast.BoolLiteral{Base: ast.NewBase(line), Value: true}
	}
	p.expect(lexer.SEMICOLON)
	var post ast.Statement
	if !p.at(lexer.RPAREN) {
		post = p.parseStatement()
	}
	p.expect(lexer.RPAREN)
	body := p.parseBlock()

	innerStmts := append([]ast.Statement{}, body.Stmts...)
	if post != nil {
		innerStmts = append(innerStmts, post)
	}
	whileLoop := &ast.While{Base: ast.NewBase(line), Cond: cond, Body: &ast.Block{Stmts: innerStmts}}

	outer := &ast.Block{Stmts: []ast.Statement{}}
	if init != nil {
		outer.Stmts = append(outer.Stmts, init)
	}
	outer.Stmts = append(outer.Stmts, whileLoop)
	return outer
}

// isForeachHeader performs a non-consuming scan for `[let] ident[, ident]
// (in|of)` immediately inside a C-style for's parens.
func (p *Parser) isForeachHeader() bool {
	i := p.pos
	if i < len(p.tokens) && p.tokens[i].Type == lexer.LET {
		i++
	}
	if i >= len(p.tokens) || p.tokens[i].Type != lexer.IDENT {
		return false
	}
	i++
	if i < len(p.tokens) && p.tokens[i].Type == lexer.COMMA {
		i++
		if i >= len(p.tokens) || p.tokens[i].Type != lexer.IDENT {
			return false
		}
		i++
	}
	return i < len(p.tokens) && (p.tokens[i].Type == lexer.IN || p.tokens[i].Type == lexer.OF)
}

func (p *Parser) parseReturn() *ast.Return {
	tok := p.advance()
	if p.at(lexer.NEWLINE) || p.at(lexer.SEMICOLON) || p.at(lexer.RBRACE) || p.at(lexer.DEDENT) || p.at(lexer.EOF) {
		return &ast.Return{Base: ast.NewBase(tok.Pos.Line)}
	}
	value := p.parseExpression(LOWEST)
	return &ast.Return{Base: ast.NewBase(tok.Pos.Line), Value: value}
}

func (p *Parser) parseRaise() *ast.Raise {
	tok := p.advance()
	if p.at(lexer.NEWLINE) || p.at(lexer.SEMICOLON) || p.at(lexer.RBRACE) || p.at(lexer.DEDENT) || p.at(lexer.EOF) {
		return &ast.Raise{Base: ast.NewBase(tok.Pos.Line)}
	}
	value := p.parseExpression(LOWEST)
	return &ast.Raise{Base: ast.NewBase(tok.Pos.Line), Value: value}
}

func (p *Parser) parseTry() *ast.Try {
	tok := p.advance()
	p.accept(lexer.COLON)
	body := p.parseBlock()
	node := &ast.Try{Base: ast.NewBase(tok.Pos.Line), Body: body}

	for p.at(lexer.EXCEPT) {
		p.advance()
		h := &ast.Handler{}
		if p.at(lexer.IDENT) {
			h.Kind = p.advance().Literal
			if p.accept(lexer.AS) {
				h.Alias = p.expect(lexer.IDENT).Literal
			}
		}
		p.accept(lexer.COLON)
		h.Body = p.parseBlock()
		node.Handlers = append(node.Handlers, h)
	}
	if p.accept(lexer.FINALLY) {
		p.accept(lexer.COLON)
		node.Finally = p.parseBlock()
	}
	return node
}

// parsePrint handles both call-style `print(a, b)` and stream-style
// `cout << a << b` (§4.2).
func (p *Parser) parsePrint() *ast.Print {
	tok := p.advance() // print/cout
	node := &ast.Print{Base: ast.NewBase(tok.Pos.Line), TrailingNewline: true}

	if p.accept(lexer.SHL) {
		node.Args = append(node.Args, p.parseExpression(SHIFT_PREC+1))
		for p.accept(lexer.SHL) {
			node.Args = append(node.Args, p.parseExpression(SHIFT_PREC+1))
		}
		return node
	}

	p.expect(lexer.LPAREN)
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		node.Args = append(node.Args, p.parseExpression(LOWEST))
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return node
}

// parseInputStmt handles the native/C++ stream-in form `cin >> name`.
func (p *Parser) parseInputStmt() *ast.Input {
	tok := p.advance() // cin
	p.expect(lexer.SHR)
	name := p.expect(lexer.IDENT).Literal
	return &ast.Input{Base: ast.NewBase(tok.Pos.Line), TargetName: name}
}

func (p *Parser) parseImport() *ast.Import {
	tok := p.advance()
	node := &ast.Import{Base: ast.NewBase(tok.Pos.Line)}

	if tok.Type == lexer.FROM {
		node.Module = p.parseDottedName()
		p.expect(lexer.IMPORT)
		for {
			item := ast.ImportItem{Name: p.expect(lexer.IDENT).Literal}
			if p.accept(lexer.AS) {
				item.Alias = p.expect(lexer.IDENT).Literal
			}
			node.Items = append(node.Items, item)
			if !p.accept(lexer.COMMA) {
				break
			}
		}
		return node
	}

	node.Module = p.parseDottedName()
	if p.accept(lexer.AS) {
		node.Alias = p.expect(lexer.IDENT).Literal
	}
	return node
}

func (p *Parser) parseDottedName() string {
	name := p.expect(lexer.IDENT).Literal
	for p.accept(lexer.DOT) {
		name += "." + p.expect(lexer.IDENT).Literal
	}
	return name
}
