package ast

import "strings"

// Param is a function/lambda parameter: annotations and defaults are
// parsed (so the parser can recover from them syntactically) but
// discarded semantically per §4.2 "Type annotations and defaults".
// Param carries no type hint; only the C-style Var declaration keeps
// one (VarDecl.TypeHint), since it drives coercion (§4.3 Var).
type Param struct {
	Name    string
	Default Expression // nil if none; evaluates to Nil at call time regardless
}

type Lambda struct {
	Base
	Params []Param
	Body   *Block
}

func (*Lambda) expressionNode() {}
func (l *Lambda) String() string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Name
	}
	return "fn(" + strings.Join(names, ", ") + ")"
}
