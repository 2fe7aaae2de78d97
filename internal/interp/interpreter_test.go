package interp

import (
	"bytes"
	"testing"

	"github.com/quantum-lang/quantum/internal/ast"
	"github.com/quantum-lang/quantum/internal/parser"
)

// testRun parses and runs a whole program, returning captured output and
// the raised-but-uncaught exception value (nil on a clean run).
func testRun(t *testing.T, input string) (string, Value) {
	t.Helper()
	program, errs := parser.ParseSource(input)
	if len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", input, errs)
	}
	var buf bytes.Buffer
	i := New(&buf)
	raised := i.Run(program)
	return buf.String(), raised
}

func TestRun_IntegerArithmetic(t *testing.T) {
	out, raised := testRun(t, `print(2 + 3 * 4)`)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "14\n" {
		t.Errorf("output = %q, want %q", out, "14\n")
	}
}

func TestRun_StringConcatenation(t *testing.T) {
	out, raised := testRun(t, `print("a" + "b" + "c")`)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "abc\n" {
		t.Errorf("output = %q, want %q", out, "abc\n")
	}
}

func TestRun_Determinism(t *testing.T) {
	src := `
fn fib(n) {
	if n <= 1 { return n }
	return fib(n-1) + fib(n-2)
}
print(fib(10))
`
	out1, _ := testRun(t, src)
	out2, _ := testRun(t, src)
	if out1 != out2 {
		t.Errorf("evaluation is not deterministic: %q vs %q", out1, out2)
	}
	if out1 != "55\n" {
		t.Errorf("output = %q, want %q", out1, "55\n")
	}
}

func TestRun_Closures(t *testing.T) {
	src := `
fn makeCounter() {
	let count = 0
	fn inc() {
		count = count + 1
		return count
	}
	return inc
}
let counter = makeCounter()
print(counter())
print(counter())
print(counter())
`
	out, raised := testRun(t, src)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "1\n2\n3\n" {
		t.Errorf("output = %q, want %q", out, "1\n2\n3\n")
	}
}

func TestRun_Truthiness(t *testing.T) {
	tests := []struct {
		cond string
		want string
	}{
		{"0", "false"},
		{"1", "true"},
		{`""`, "false"},
		{`"x"`, "true"},
		{"nil", "false"},
		{"[]", "false"},
		{"[1]", "true"},
	}
	for _, tt := range tests {
		src := `if ` + tt.cond + ` { print("true") } else { print("false") }`
		out, raised := testRun(t, src)
		if raised != nil {
			t.Fatalf("unexpected raise for %q: %v", tt.cond, raised)
		}
		if out != tt.want+"\n" {
			t.Errorf("truthiness of %q = %q, want %q", tt.cond, out, tt.want+"\n")
		}
	}
}

// TestRun_ArraysAreReferences checks §8's reference-semantics property:
// arrays passed to functions alias the caller's storage.
func TestRun_ArraysAreReferences(t *testing.T) {
	src := `
fn mutate(a) {
	a[0] = 99
}
let xs = [1, 2, 3]
mutate(xs)
print(xs[0])
`
	out, raised := testRun(t, src)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "99\n" {
		t.Errorf("output = %q, want %q", out, "99\n")
	}
}

// TestRun_NumbersAreValues checks that numbers, unlike arrays, do not
// alias across function calls.
func TestRun_NumbersAreValues(t *testing.T) {
	src := `
fn mutate(n) {
	n = 99
}
let x = 1
mutate(x)
print(x)
`
	out, raised := testRun(t, src)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "1\n" {
		t.Errorf("output = %q, want %q", out, "1\n")
	}
}

func TestRun_TryFinally_NormalExit(t *testing.T) {
	src := `
try {
	print("body")
} finally {
	print("finally")
}
`
	out, raised := testRun(t, src)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "body\nfinally\n" {
		t.Errorf("output = %q, want %q", out, "body\nfinally\n")
	}
}

func TestRun_TryFinally_HandledRaise(t *testing.T) {
	src := `
try {
	raise ValueError("boom")
} except ValueError as e {
	print("caught")
} finally {
	print("finally")
}
`
	out, raised := testRun(t, src)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "caught\nfinally\n" {
		t.Errorf("output = %q, want %q", out, "caught\nfinally\n")
	}
}

func TestRun_TryFinally_UnhandledRaise(t *testing.T) {
	src := `
try {
	raise TypeError("nope")
} finally {
	print("finally")
}
`
	out, raised := testRun(t, src)
	if raised == nil {
		t.Fatal("expected the TypeError to escape uncaught")
	}
	if out != "finally\n" {
		t.Errorf("output = %q, want %q (finally must run before the raise escapes)", out, "finally\n")
	}
	if exceptionClassName(raised) != "TypeError" {
		t.Errorf("raised class = %q, want %q", exceptionClassName(raised), "TypeError")
	}
}

func TestRun_TryFinally_ReturnStillRunsFinally(t *testing.T) {
	src := `
fn f() {
	try {
		return 1
	} finally {
		print("finally")
	}
}
print(f())
`
	out, raised := testRun(t, src)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "finally\n1\n" {
		t.Errorf("output = %q, want %q", out, "finally\n1\n")
	}
}

func TestRun_BreakContinueInsideLoop(t *testing.T) {
	src := `
let i = 0
while i < 10 {
	i = i + 1
	if i == 3 { continue }
	if i == 6 { break }
	print(i)
}
`
	out, raised := testRun(t, src)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "1\n2\n4\n5\n" {
		t.Errorf("output = %q, want %q", out, "1\n2\n4\n5\n")
	}
}

func TestRun_RoundTripFormat(t *testing.T) {
	// A printed literal reads back the way it was written in source
	// (strings print without their quotes).
	tests := []struct {
		expr string
		want string
	}{
		{"42", "42"},
		{"3.5", "3.5"},
		{"true", "true"},
		{"nil", "nil"},
		{`"hi"`, "hi"},
	}
	for _, tt := range tests {
		out, raised := testRun(t, `print(`+tt.expr+`)`)
		if raised != nil {
			t.Fatalf("unexpected raise for %q: %v", tt.expr, raised)
		}
		if out != tt.want+"\n" {
			t.Errorf("print(%s) = %q, want %q", tt.expr, out, tt.want+"\n")
		}
	}
}

func TestRun_ReassignConst_Raises(t *testing.T) {
	out, raised := testRun(t, `
const PI = 3
PI = 4
print("unreachable")
`)
	if raised == nil {
		t.Fatal("expected reassigning a const to raise")
	}
	if exceptionClassName(raised) != "RuntimeError" {
		t.Errorf("raised class = %q, want %q", exceptionClassName(raised), "RuntimeError")
	}
	if out != "" {
		t.Errorf("output = %q, want no output (the print must not run)", out)
	}
}

func TestRun_ReassignUndefined_DefinesInCurrentScope(t *testing.T) {
	out, raised := testRun(t, `
x = 5
print(x)
`)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "5\n" {
		t.Errorf("output = %q, want %q", out, "5\n")
	}
}

func TestUnpackPair(t *testing.T) {
	tests := []struct {
		name          string
		item          Value
		first, second Value
	}{
		{"array pair", NewArray([]Value{&NumberValue{Value: 1}, &NumberValue{Value: 2}}), &NumberValue{Value: 1}, &NumberValue{Value: 2}},
		{"tuple pair", &TupleValue{Elements: []Value{&StringValue{Value: "k"}, &StringValue{Value: "v"}}}, &StringValue{Value: "k"}, &StringValue{Value: "v"}},
		{"scalar", &NumberValue{Value: 9}, &NumberValue{Value: 9}, Nil},
	}
	for _, tt := range tests {
		first, second := unpackPair(tt.item)
		if first.String() != tt.first.String() || second.String() != tt.second.String() {
			t.Errorf("%s: unpackPair(%v) = (%v, %v), want (%v, %v)", tt.name, tt.item, first, second, tt.first, tt.second)
		}
	}
}

func TestRun_ForLoop_UnpacksDictItemsArrayPairs(t *testing.T) {
	src := `
let d = {"a": 1, "b": 2}
for k, v in d.items() {
	print(k, v)
}
`
	out, raised := testRun(t, src)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "a 1\nb 2\n" {
		t.Errorf("output = %q, want %q", out, "a 1\nb 2\n")
	}
}

func TestRun_ForLoop_TwoVarOverScalarsBindsNilSecond(t *testing.T) {
	src := `
for x, y in [1, 2, 3] {
	print(x, y)
}
`
	out, raised := testRun(t, src)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != "1 nil\n2 nil\n3 nil\n" {
		t.Errorf("output = %q, want %q", out, "1 nil\n2 nil\n3 nil\n")
	}
}

func TestEval_ListComprehension_UnpacksDictItems(t *testing.T) {
	src := `
let d = {"a": 1, "b": 2}
let xs = [k for k, v in d.items()]
print(xs)
`
	out, raised := testRun(t, src)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	if out != `["a", "b"]`+"\n" {
		t.Errorf("output = %q, want %q", out, `["a", "b"]`+"\n")
	}
}

func TestRun_Environment_ParentChain(t *testing.T) {
	parent := NewEnvironment()
	parent.Define("x", &NumberValue{Value: 1})
	child := NewEnclosedEnvironment(parent)

	if _, ok := child.Get("x"); !ok {
		t.Fatal("child environment should see parent-defined names")
	}
	child.Define("x", &NumberValue{Value: 2})
	if v, _ := child.Get("x"); v.(*NumberValue).Value != 2 {
		t.Error("child shadowing should not mutate the parent binding")
	}
	if v, _ := parent.Get("x"); v.(*NumberValue).Value != 1 {
		t.Error("parent binding was mutated by child shadowing")
	}
}

func TestEval_SingleExpression(t *testing.T) {
	program, errs := parser.ParseSource("1 + 2")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	stmt, ok := program.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", program.Stmts[0])
	}

	i := New(nil)
	val, raised := i.Eval(stmt.Expr)
	if raised != nil {
		t.Fatalf("unexpected raise: %v", raised)
	}
	n, ok := val.(*NumberValue)
	if !ok {
		t.Fatalf("expected *NumberValue, got %T", val)
	}
	if n.Value != 3 {
		t.Errorf("1 + 2 = %v, want 3", n.Value)
	}
}
