package lexer

import "fmt"

// LexError reports a lexical failure: an unterminated string or an
// unrecognized character. Mirrors the teacher's CompilerError shape
// (kind + position) but stays inside the lexer package since the lexer
// has no dependency on internal/errors' formatter.
type LexError struct {
	Message string
	Pos     Position
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func newLexError(pos Position, format string, args ...interface{}) *LexError {
	return &LexError{Message: fmt.Sprintf(format, args...), Pos: pos}
}
