package errors

import (
	"strings"
	"testing"

	"github.com/quantum-lang/quantum/internal/lexer"
)

func TestCompilerError_Format_WithSourceContext(t *testing.T) {
	src := "let x = \nlet y = 2"
	e := NewCompilerError(lexer.Position{Line: 1, Column: 9}, "unexpected newline", src, "prog.sa")

	out := e.Format(false)
	if !strings.Contains(out, "Error in prog.sa:1:9") {
		t.Errorf("missing file/position header, got %q", out)
	}
	if !strings.Contains(out, "let x = ") {
		t.Errorf("missing source line, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret, got %q", out)
	}
	if !strings.Contains(out, "unexpected newline") {
		t.Errorf("missing message, got %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("color codes present despite color=false: %q", out)
	}
}

func TestCompilerError_Format_Color(t *testing.T) {
	e := NewCompilerError(lexer.Position{Line: 1, Column: 1}, "boom", "x", "")
	out := e.Format(true)
	if !strings.Contains(out, "\033[1;31m") || !strings.Contains(out, "\033[0m") {
		t.Errorf("expected ANSI color codes, got %q", out)
	}
	if !strings.Contains(out, "Error at line 1:1") {
		t.Errorf("expected file-less header form, got %q", out)
	}
}

func TestCompilerError_Format_NoSource(t *testing.T) {
	e := NewCompilerError(lexer.Position{Line: 5, Column: 2}, "no source available", "", "prog.sa")
	out := e.Format(false)
	if strings.Contains(out, "|") {
		t.Errorf("expected no source-line gutter when Source is empty, got %q", out)
	}
}

func TestFormatErrors_Empty(t *testing.T) {
	if got := FormatErrors(nil, false); got != "" {
		t.Errorf("FormatErrors(nil) = %q, want empty string", got)
	}
}

func TestFormatErrors_Single(t *testing.T) {
	e := NewCompilerError(lexer.Position{Line: 1, Column: 1}, "boom", "x", "f.sa")
	got := FormatErrors([]*CompilerError{e}, false)
	if got != e.Format(false) {
		t.Errorf("single-error FormatErrors should match Format() directly")
	}
}

func TestFormatErrors_Multiple(t *testing.T) {
	errs := []*CompilerError{
		NewCompilerError(lexer.Position{Line: 1, Column: 1}, "first", "a\nb", "f.sa"),
		NewCompilerError(lexer.Position{Line: 2, Column: 1}, "second", "a\nb", "f.sa"),
	}
	out := FormatErrors(errs, false)
	if !strings.Contains(out, "Compilation failed with 2 error(s)") {
		t.Errorf("missing error count header, got %q", out)
	}
	if !strings.Contains(out, "[Error 1 of 2]") || !strings.Contains(out, "[Error 2 of 2]") {
		t.Errorf("missing per-error numbering, got %q", out)
	}
}

func TestFromLexError(t *testing.T) {
	lexErr := &lexer.LexError{Message: "illegal character", Pos: lexer.Position{Line: 3, Column: 4}}
	ce := FromLexError(lexErr, "source", "f.sa")
	if ce.Message != "illegal character" || ce.Pos.Line != 3 || ce.Pos.Column != 4 {
		t.Errorf("FromLexError did not preserve position/message: %+v", ce)
	}
}

func TestFromParseErrors(t *testing.T) {
	diags := []ParseDiagnostic{
		{Message: "unexpected token", Line: 2, Column: 5},
	}
	out := FromParseErrors(diags, "source", "f.sa")
	if len(out) != 1 {
		t.Fatalf("expected 1 CompilerError, got %d", len(out))
	}
	if out[0].Message != "unexpected token" || out[0].Pos.Line != 2 || out[0].Pos.Column != 5 || out[0].File != "f.sa" {
		t.Errorf("FromParseErrors produced %+v", out[0])
	}
}
