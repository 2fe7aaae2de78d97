package ast

import (
	"fmt"
	"strings"
)

type ArrayLiteral struct {
	Base
	Items []Expression
}

func (*ArrayLiteral) expressionNode() {}
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Items))
	for i, it := range a.Items {
		parts[i] = it.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type DictPair struct {
	Key   Expression
	Value Expression
}

type DictLiteral struct {
	Base
	Pairs []DictPair
}

func (*DictLiteral) expressionNode() {}
func (d *DictLiteral) String() string {
	parts := make([]string, len(d.Pairs))
	for i, p := range d.Pairs {
		parts[i] = fmt.Sprintf("%s: %s", p.Key, p.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

type TupleLiteral struct {
	Base
	Items []Expression
}

func (*TupleLiteral) expressionNode() {}
func (t *TupleLiteral) String() string {
	parts := make([]string, len(t.Items))
	for i, it := range t.Items {
		parts[i] = it.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ListComprehension is `[expr for var[, var2] in iter if cond]`.
type ListComprehension struct {
	Base
	Expr    Expression
	Var     string
	Var2    string // "" if single-variable
	Iter    Expression
	Cond    Expression // nil if no filter
}

func (*ListComprehension) expressionNode() {}
func (l *ListComprehension) String() string {
	return fmt.Sprintf("[%s for %s in %s]", l.Expr, l.Var, l.Iter)
}
