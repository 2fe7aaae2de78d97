package ast

import "testing"

func TestBase_Line(t *testing.T) {
	b := NewBase(42)
	if b.Line() != 42 {
		t.Errorf("Line() = %d, want 42", b.Line())
	}
}

func TestLiteral_String(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{&NumberLiteral{Value: 3.5}, "3.5"},
		{&NumberLiteral{Value: 42}, "42"},
		{&StringLiteral{Value: "hi"}, `"hi"`},
		{&BoolLiteral{Value: true}, "true"},
		{&BoolLiteral{Value: false}, "false"},
		{&NilLiteral{}, "nil"},
		{&Identifier{Name: "x"}, "x"},
	}
	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("%T.String() = %q, want %q", tt.node, got, tt.want)
		}
	}
}

func TestCallExpression_String(t *testing.T) {
	call := &CallExpression{
		Callee: &Identifier{Name: "add"},
		Args:   []Expression{&NumberLiteral{Value: 1}, &NumberLiteral{Value: 2}},
	}
	if got, want := call.String(), "add(1, 2)"; got != want {
		t.Errorf("CallExpression.String() = %q, want %q", got, want)
	}
}

func TestIndexAndMemberExpression_String(t *testing.T) {
	idx := &IndexExpression{Object: &Identifier{Name: "xs"}, Index: &NumberLiteral{Value: 0}}
	if got, want := idx.String(), "xs[0]"; got != want {
		t.Errorf("IndexExpression.String() = %q, want %q", got, want)
	}

	member := &MemberExpression{Object: &Identifier{Name: "self"}, Name: "value"}
	if got, want := member.String(), "self.value"; got != want {
		t.Errorf("MemberExpression.String() = %q, want %q", got, want)
	}
}

func TestTernaryExpression_String(t *testing.T) {
	tern := &TernaryExpression{
		Cond: &Identifier{Name: "ok"},
		Then: &NumberLiteral{Value: 1},
		Else: &NumberLiteral{Value: 0},
	}
	if got, want := tern.String(), "(ok ? 1 : 0)"; got != want {
		t.Errorf("TernaryExpression.String() = %q, want %q", got, want)
	}
}

func TestArrayLiteral_String(t *testing.T) {
	arr := &ArrayLiteral{Items: []Expression{&NumberLiteral{Value: 1}, &NumberLiteral{Value: 2}, &NumberLiteral{Value: 3}}}
	if got, want := arr.String(), "[1, 2, 3]"; got != want {
		t.Errorf("ArrayLiteral.String() = %q, want %q", got, want)
	}
}

func TestDeclarations_String(t *testing.T) {
	fn := &FunctionDecl{Name: "add"}
	if got, want := fn.String(), "fn add"; got != want {
		t.Errorf("FunctionDecl.String() = %q, want %q", got, want)
	}

	class := &ClassDecl{Name: "Point"}
	if got, want := class.String(), "class Point"; got != want {
		t.Errorf("ClassDecl.String() = %q, want %q", got, want)
	}
}

func TestImport_String(t *testing.T) {
	imp := &Import{Module: "math"}
	if got, want := imp.String(), "import math"; got != want {
		t.Errorf("Import.String() = %q, want %q", got, want)
	}
}
