// Package ast defines Quantum's tagged-variant AST: a uniform tree that
// the parser produces regardless of which of the three surface dialects
// (brace/C-style, indentation/Python-style, or native) a program is
// written in. Every node carries a source line (§3 "AST node").
package ast

import "fmt"

// Node is implemented by every AST node.
type Node interface {
	Line() int
	String() string
}

// Expression is any node that produces a Value when evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node executed for effect.
type Statement interface {
	Node
	statementNode()
}

// Base carries the line number shared by every concrete node, mirroring
// the teacher's pattern of a small embedded position struct rather than
// repeating Line() on every type (internal/ast/ast.go in the teacher).
type Base struct {
	Ln int
}

func (b Base) Line() int { return b.Ln }

func NewBase(line int) Base { return Base{Ln: line} }

// ---- Literals ----

type NumberLiteral struct {
	Base
	Value float64
}

func (*NumberLiteral) expressionNode()  {}
func (n *NumberLiteral) String() string { return fmt.Sprintf("%g", n.Value) }

type StringLiteral struct {
	Base
	Value string
}

func (*StringLiteral) expressionNode()  {}
func (s *StringLiteral) String() string { return fmt.Sprintf("%q", s.Value) }

type BoolLiteral struct {
	Base
	Value bool
}

func (*BoolLiteral) expressionNode() {}
func (b *BoolLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type NilLiteral struct{ Base }

func (*NilLiteral) expressionNode() {}
func (*NilLiteral) String() string  { return "nil" }

// ---- Names ----

type Identifier struct {
	Base
	Name string
}

func (*Identifier) expressionNode()  {}
func (i *Identifier) String() string { return i.Name }

// SuperRef is `super` or `super.method` — Method holds the method name,
// or "" for a bare super() constructor call.
type SuperRef struct {
	Base
	Method string
}

func (*SuperRef) expressionNode() {}
func (s *SuperRef) String() string {
	if s.Method == "" {
		return "super"
	}
	return "super." + s.Method
}
