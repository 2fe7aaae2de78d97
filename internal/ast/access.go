package ast

import (
	"fmt"
	"strings"
)

type CallExpression struct {
	Base
	Callee Expression
	Args   []Expression
}

func (*CallExpression) expressionNode() {}
func (c *CallExpression) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(parts, ", "))
}

type IndexExpression struct {
	Base
	Object Expression
	Index  Expression
}

func (*IndexExpression) expressionNode() {}
func (i *IndexExpression) String() string {
	return fmt.Sprintf("%s[%s]", i.Object, i.Index)
}

// SliceExpression models `obj[start:stop:step]`; any part may be nil.
type SliceExpression struct {
	Base
	Object Expression
	Start  Expression
	Stop   Expression
	Step   Expression
}

func (*SliceExpression) expressionNode() {}
func (s *SliceExpression) String() string {
	return fmt.Sprintf("%s[%v:%v:%v]", s.Object, s.Start, s.Stop, s.Step)
}

type MemberExpression struct {
	Base
	Object Expression
	Name   string
}

func (*MemberExpression) expressionNode() {}
func (m *MemberExpression) String() string {
	return fmt.Sprintf("%s.%s", m.Object, m.Name)
}
