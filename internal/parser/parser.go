package parser

import (
	"fmt"

	"github.com/quantum-lang/quantum/internal/ast"
	"github.com/quantum-lang/quantum/internal/lexer"
)

// Parser is a recursive-descent statement parser combined with a
// Pratt-style expression parser (§4.2).
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []*ParseError
}

// New builds a Parser over an already-tokenized (and layout-reconstructed)
// source. Use ParseSource for the common case of parsing from raw text.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseSource lexes and parses a complete program in one call.
func ParseSource(src string) (*ast.Block, []*ParseError) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		pe := &ParseError{Message: err.Error()}
		if le, ok := err.(*lexer.LexError); ok {
			pe.Line, pe.Column = le.Pos.Line, le.Pos.Column
		}
		return nil, []*ParseError{pe}
	}
	p := New(toks)
	prog := p.ParseProgram()
	return prog, p.errors
}

func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) at(t lexer.TokenType) bool { return p.cur().Type == t }

func (p *Parser) accept(t lexer.TokenType) bool {
	if p.at(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if p.at(t) {
		return p.advance()
	}
	tok := p.cur()
	p.errorf(tok, "expected %s, got %s %q", t, tok.Type, tok.Literal)
	return tok
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Pos.Line,
		Column:  tok.Pos.Column,
	})
}

// skipSeparators consumes statement separators (newlines, semicolons)
// and stray DEDENT tokens between statements.
func (p *Parser) skipSeparators() {
	for {
		switch p.cur().Type {
		case lexer.NEWLINE, lexer.SEMICOLON:
			p.advance()
			continue
		}
		return
	}
}

// ParseProgram parses the whole token stream into a root Block (§4.2
// "The root is a Block containing top-level statements").
func (p *Parser) ParseProgram() *ast.Block {
	root := &ast.Block{}
	p.skipSeparators()
	for !p.at(lexer.EOF) {
		if p.at(lexer.DEDENT) {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			root.Stmts = append(root.Stmts, stmt)
		}
		p.skipSeparators()
	}
	return root
}

// parseBlock parses either a brace-delimited list, an INDENT…DEDENT
// pair, or — if neither follows — wraps a single statement in a
// synthetic Block (§4.2 "Blocks").
func (p *Parser) parseBlock() *ast.Block {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}
	line := p.cur().Pos.Line

	if p.at(lexer.LBRACE) {
		p.advance()
		block := &ast.Block{Base: ast.NewBase(line)}
		p.skipSeparators()
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			stmt := p.parseStatement()
			if stmt != nil {
				block.Stmts = append(block.Stmts, stmt)
			}
			p.skipSeparators()
		}
		p.expect(lexer.RBRACE)
		return block
	}

	if p.at(lexer.INDENT) {
		p.advance()
		block := &ast.Block{Base: ast.NewBase(line)}
		p.skipSeparators()
		for !p.at(lexer.DEDENT) && !p.at(lexer.EOF) {
			stmt := p.parseStatement()
			if stmt != nil {
				block.Stmts = append(block.Stmts, stmt)
			}
			p.skipSeparators()
		}
		p.accept(lexer.DEDENT)
		return block
	}

	stmt := p.parseStatement()
	block := &ast.Block{Base: ast.NewBase(line)}
	if stmt != nil {
		block.Stmts = append(block.Stmts, stmt)
	}
	return block
}

// parseDecorators consumes and discards `@name` / `@name(args)`
// decorators (§4.2).
func (p *Parser) parseDecorators() {
	for p.at(lexer.AT) {
		p.advance()
		p.expect(lexer.IDENT)
		if p.at(lexer.LPAREN) {
			p.advance()
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				p.parseExpression(LOWEST)
				if !p.accept(lexer.COMMA) {
					break
				}
			}
			p.expect(lexer.RPAREN)
		}
		for p.at(lexer.NEWLINE) {
			p.advance()
		}
	}
}
