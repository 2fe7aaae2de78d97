package quantum_test

import (
	"testing"

	"github.com/quantum-lang/quantum/pkg/quantum"
)

func TestEngineParse_ValidCode(t *testing.T) {
	engine, err := quantum.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	block, err := engine.Parse(`
let x = 42
let y = "hello"
fn add(a, b) { return a + b }
`)
	if err != nil {
		t.Fatalf("Parse returned unexpected error: %v", err)
	}
	if block == nil {
		t.Fatal("Parse returned nil AST for valid code")
	}
	if len(block.Stmts) == 0 {
		t.Fatal("Parse returned empty AST")
	}
}

func TestEngineParse_InvalidCode(t *testing.T) {
	engine, err := quantum.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	block, err := engine.Parse("let x = ")
	if block == nil {
		t.Fatal("Parse should return a best-effort AST even with syntax errors")
	}
	if err == nil {
		t.Fatal("Parse should return an error for invalid syntax")
	}

	compileErr, ok := err.(*quantum.CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if compileErr.Stage != "parsing" {
		t.Errorf("expected stage %q, got %q", "parsing", compileErr.Stage)
	}
	if len(compileErr.Errors) == 0 {
		t.Error("expected at least one syntax error")
	}
}

func TestProgram_Symbols(t *testing.T) {
	engine, err := quantum.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	program, err := engine.Compile(`
let x = 42
const PI = 3.14
fn add(a, b) { return a + b }
class Point {}
`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	symbols := program.Symbols()
	wantKinds := map[string]string{
		"x":     "variable",
		"PI":    "constant",
		"add":   "function",
		"Point": "class",
	}
	got := make(map[string]string, len(symbols))
	for _, s := range symbols {
		got[s.Name] = s.Kind
	}
	for name, kind := range wantKinds {
		if got[name] != kind {
			t.Errorf("symbol %q: got kind %q, want %q", name, got[name], kind)
		}
	}
}

func TestEngineEval_UncaughtException(t *testing.T) {
	engine, err := quantum.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := engine.Eval(`raise ValueError("boom")`)
	if err != nil {
		t.Fatalf("Eval transport error: %v", err)
	}
	if result.Success {
		t.Fatal("expected Success=false for an uncaught exception")
	}
	if result.Raised == nil {
		t.Fatal("expected Raised to be populated")
	}
}

func TestErrorSeverity_String(t *testing.T) {
	tests := []struct {
		severity quantum.ErrorSeverity
		want     string
	}{
		{quantum.SeverityError, "error"},
		{quantum.SeverityWarning, "warning"},
		{quantum.SeverityInfo, "info"},
		{quantum.SeverityHint, "hint"},
		{quantum.ErrorSeverity(999), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("ErrorSeverity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := &quantum.Error{
		Message:  "undefined variable 'x'",
		Line:     10,
		Column:   5,
		Severity: quantum.SeverityError,
		Code:     "E_UNDEFINED_VAR",
	}
	want := "error at 10:5: undefined variable 'x' [E_UNDEFINED_VAR]"
	if got := e.Error(); got != want {
		t.Errorf("Error.Error() = %q, want %q", got, want)
	}
}
