// Package quantum is the public embedding facade for the Quantum
// scripting language: parse, compile, and run .sa programs from a host
// Go program, mirroring the teacher's pkg/dwscript embedding surface.
package quantum

import (
	"bytes"
	"io"

	"github.com/quantum-lang/quantum/internal/ast"
	"github.com/quantum-lang/quantum/internal/interp"
	"github.com/quantum-lang/quantum/internal/lexer"
	"github.com/quantum-lang/quantum/internal/parser"
)

// Engine runs Quantum programs against a configured output sink.
type Engine struct {
	output io.Writer
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOutput directs Print/console output to w instead of the default
// (capture into Result.Output).
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.output = w }
}

// New builds an Engine. With no options, each run's output is captured
// into Result.Output.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{output: io.Discard}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Result is the outcome of running a program.
type Result struct {
	// Output is everything the program wrote via Print/console.* while
	// the engine's writer was a buffer this call owned. When the Engine
	// was built with WithOutput, Output is always empty — the caller's
	// writer already received the bytes directly.
	Output string
	// Success is false when the program raised an exception that
	// escaped every try/except.
	Success bool
	// Raised describes an uncaught exception, nil on a clean run.
	Raised *Error
}

// Program is a parsed, ready-to-run Quantum source unit.
type Program struct {
	source string
	block  *ast.Block
}

// AST returns the program's top-level parsed block.
func (p *Program) AST() *ast.Block { return p.block }

// Symbol describes a top-level name a Program declares.
type Symbol struct {
	Name string
	Kind string // "variable", "constant", "function", "class"
}

// Symbols lists the top-level variable, constant, function, and class
// declarations in the program, in source order.
func (p *Program) Symbols() []Symbol {
	var out []Symbol
	for _, stmt := range p.block.Stmts {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			kind := "variable"
			if s.IsConst {
				kind = "constant"
			}
			out = append(out, Symbol{Name: s.Name, Kind: kind})
		case *ast.FunctionDecl:
			out = append(out, Symbol{Name: s.Name, Kind: "function"})
		case *ast.ClassDecl:
			out = append(out, Symbol{Name: s.Name, Kind: "class"})
		}
	}
	return out
}

// Parse parses source into a Program's AST without running it. It
// returns a best-effort AST even on a parse error, paired with a
// *CompileError describing every syntax error found, matching the
// teacher's best-effort Parse() contract. A lexical error yields a nil
// AST and a single error.
func (e *Engine) Parse(source string) (*ast.Block, error) {
	block, errs := parser.ParseSource(source)
	if len(errs) == 0 {
		return block, nil
	}
	return block, &CompileError{Stage: "parsing", Errors: parseErrorsToErrors(errs)}
}

// Compile parses source into a reusable Program. Unlike Parse, it
// fails outright on any syntax error rather than returning a partial
// result, since a Program is meant to be run.
func (e *Engine) Compile(source string) (*Program, error) {
	block, errs := parser.ParseSource(source)
	if len(errs) > 0 {
		return nil, &CompileError{Stage: "parsing", Errors: parseErrorsToErrors(errs)}
	}
	return &Program{source: source, block: block}, nil
}

// Run executes a previously compiled Program.
func (e *Engine) Run(p *Program) (*Result, error) {
	return e.run(p.block)
}

// Eval parses and runs source in one step.
func (e *Engine) Eval(source string) (*Result, error) {
	program, err := e.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Run(program)
}

func (e *Engine) run(block *ast.Block) (*Result, error) {
	w := e.output
	var buf bytes.Buffer
	capturing := w == io.Discard
	if capturing {
		w = &buf
	}

	interpreter := interp.New(w)
	raised := interpreter.Run(block)

	result := &Result{Success: raised == nil}
	if capturing {
		result.Output = buf.String()
	}
	if raised != nil {
		result.Raised = &Error{Message: raised.String(), Severity: SeverityError}
	}
	return result, nil
}

func parseErrorsToErrors(errs []*parser.ParseError) []*Error {
	out := make([]*Error, len(errs))
	for i, pe := range errs {
		out[i] = &Error{Message: pe.Message, Line: pe.Line, Column: pe.Column, Severity: SeverityError}
	}
	return out
}

// Tokenize lexes source and returns its tokens, or an *Error describing
// the first illegal token encountered.
func (e *Engine) Tokenize(source string) ([]lexer.Token, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		le, ok := err.(*lexer.LexError)
		if !ok {
			return tokens, err
		}
		return tokens, &Error{Message: le.Message, Line: le.Pos.Line, Column: le.Pos.Column, Severity: SeverityError}
	}
	return tokens, nil
}
