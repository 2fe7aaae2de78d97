package parser

import (
	"testing"

	"github.com/quantum-lang/quantum/internal/ast"
)

func parseExprString(t *testing.T, src string) string {
	t.Helper()
	block, errs := ParseSource(src)
	if len(errs) != 0 {
		t.Fatalf("ParseSource(%q) returned errors: %v", src, errs)
	}
	if len(block.Stmts) != 1 {
		t.Fatalf("ParseSource(%q) produced %d statements, want 1", src, len(block.Stmts))
	}
	stmt, ok := block.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("ParseSource(%q) produced %T, want *ast.ExprStmt", src, block.Stmts[0])
	}
	return stmt.Expr.String()
}

// TestPrecedence checks §8's "precedence" property.
func TestPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a+b*c", "(a + (b * c))"},
		{"-a**b", "(-(a ** b))"},
		{"a**b**c", "(a ** (b ** c))"},
		{"a and b or c", "((a and b) or c)"},
	}
	for _, tt := range tests {
		got := parseExprString(t, tt.src)
		if got != tt.want {
			t.Errorf("parse(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParseSource_ReportsErrors(t *testing.T) {
	_, errs := ParseSource("let x =")
	if len(errs) == 0 {
		t.Fatal("expected at least one parse error for a dangling assignment")
	}
}

func TestParseSource_BraceAndIndentAgree(t *testing.T) {
	braced := "fn add(a, b) {\n\treturn a + b\n}\n"
	indented := "fn add(a, b):\n\treturn a + b\n"

	bracedBlock, errs := ParseSource(braced)
	if len(errs) != 0 {
		t.Fatalf("ParseSource(braced) errors: %v", errs)
	}
	indentedBlock, errs := ParseSource(indented)
	if len(errs) != 0 {
		t.Fatalf("ParseSource(indented) errors: %v", errs)
	}

	if len(bracedBlock.Stmts) != 1 || len(indentedBlock.Stmts) != 1 {
		t.Fatalf("expected one top-level statement each")
	}

	bracedFn, ok := bracedBlock.Stmts[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("braced: expected *ast.FunctionDecl, got %T", bracedBlock.Stmts[0])
	}
	indentedFn, ok := indentedBlock.Stmts[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("indented: expected *ast.FunctionDecl, got %T", indentedBlock.Stmts[0])
	}

	if bracedFn.Name != indentedFn.Name {
		t.Errorf("function names differ: %q vs %q", bracedFn.Name, indentedFn.Name)
	}
	if len(bracedFn.Body.Stmts) != len(indentedFn.Body.Stmts) {
		t.Errorf("body statement counts differ: %d vs %d", len(bracedFn.Body.Stmts), len(indentedFn.Body.Stmts))
	}
}

func TestParseClassDecl(t *testing.T) {
	src := "class A:\n  def init(self,x): self.x=x\n  def __str__(self): return \"A=\"+str(self.x)\n"
	block, errs := ParseSource(src)
	if len(errs) != 0 {
		t.Fatalf("ParseSource returned errors: %v", errs)
	}
	if len(block.Stmts) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(block.Stmts))
	}
	class, ok := block.Stmts[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", block.Stmts[0])
	}
	if class.Name != "A" {
		t.Errorf("class name = %q, want %q", class.Name, "A")
	}
	if len(class.Methods) != 2 {
		t.Errorf("expected 2 methods, got %d", len(class.Methods))
	}
}

func TestParseTryExceptFinally(t *testing.T) {
	src := "try:\n  raise ValueError(\"bad\")\nexcept ValueError as e:\n  print(\"caught\", e)\nfinally:\n  print(\"done\")\n"
	block, errs := ParseSource(src)
	if len(errs) != 0 {
		t.Fatalf("ParseSource returned errors: %v", errs)
	}
	if len(block.Stmts) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(block.Stmts))
	}
	tryStmt, ok := block.Stmts[0].(*ast.Try)
	if !ok {
		t.Fatalf("expected *ast.Try, got %T", block.Stmts[0])
	}
	if len(tryStmt.Handlers) != 1 {
		t.Fatalf("expected 1 handler, got %d", len(tryStmt.Handlers))
	}
	if tryStmt.Handlers[0].Kind != "ValueError" {
		t.Errorf("handler kind = %q, want %q", tryStmt.Handlers[0].Kind, "ValueError")
	}
	if tryStmt.Finally == nil {
		t.Error("expected a finally block")
	}
}

func TestParseListComprehension(t *testing.T) {
	src := "let xs = [x*x for x in range(5) if x%2==0]"
	block, errs := ParseSource(src)
	if len(errs) != 0 {
		t.Fatalf("ParseSource returned errors: %v", errs)
	}
	if len(block.Stmts) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(block.Stmts))
	}
	if _, ok := block.Stmts[0].(*ast.VarDecl); !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", block.Stmts[0])
	}
}
