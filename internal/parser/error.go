// Package parser turns a lexer token stream into a Quantum AST via
// recursive-descent statement parsing and a Pratt-style expression
// parser, accepting all three surface dialects interchangeably (§4.2).
package parser

import "fmt"

// ParseError reports a syntax error with the position of the offending
// token, per §4.2 and §7.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
