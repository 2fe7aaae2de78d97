// Package errors formats compiler and runtime diagnostics with source
// context, line/column information, and a caret pointing at the
// offending token (§7).
package errors

import (
	"fmt"
	"strings"

	"github.com/quantum-lang/quantum/internal/lexer"
)

// CompilerError represents a single lex/parse-time error with position
// and source context, mirroring the teacher's diagnostic formatter
// (internal/errors/errors.go in the teacher).
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

func NewCompilerError(pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Pos: pos, Message: message, Source: source, File: file}
}

func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders the error with a single source line and caret. With
// color set, ANSI codes highlight the caret and message for terminal
// output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrors renders one or more CompilerErrors, numbering them when
// there's more than one.
func FormatErrors(list []*CompilerError, color bool) string {
	if len(list) == 0 {
		return ""
	}
	if len(list) == 1 {
		return list[0].Format(color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Compilation failed with %d error(s):\n\n", len(list))
	for i, err := range list {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(list))
		sb.WriteString(err.Format(color))
		if i < len(list)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// FromLexError wraps a lexer error as a CompilerError.
func FromLexError(err error, source, file string) *CompilerError {
	if le, ok := err.(*lexer.LexError); ok {
		return NewCompilerError(le.Pos, le.Message, source, file)
	}
	return NewCompilerError(lexer.Position{}, err.Error(), source, file)
}

// ParseDiagnostic is the minimal shape internal/errors needs from a
// parser.ParseError, avoided as a direct import so the parser package
// (which already imports lexer) stays the only consumer of lexer.Position
// in that direction.
type ParseDiagnostic struct {
	Message string
	Line    int
	Column  int
}

// FromParseErrors converts parser diagnostics into CompilerErrors
// carrying source context.
func FromParseErrors(diags []ParseDiagnostic, source, file string) []*CompilerError {
	out := make([]*CompilerError, 0, len(diags))
	for _, d := range diags {
		out = append(out, NewCompilerError(lexer.Position{Line: d.Line, Column: d.Column}, d.Message, source, file))
	}
	return out
}
