package ast

// Print covers `print(...)`, `cout << a << b`. TrailingNewline is false
// only when the native form explicitly suppresses it (kept for symmetry
// with §3; the current grammar always sets it true).
type Print struct {
	Base
	Args            []Expression
	TrailingNewline bool
}

func (*Print) statementNode() {}
func (*Print) String() string { return "print" }

// Input covers `input(...)` and `cin >> name`. Prompt may be nil.
type Input struct {
	Base
	TargetName string
	Prompt     Expression
}

func (*Input) statementNode() {}
func (*Input) String() string { return "input" }

// ImportItem is one name (optionally aliased) in a from-import list.
type ImportItem struct {
	Name  string
	Alias string // "" if not aliased
}

// Import covers `import X [as Y]` (Module set, Items empty) and
// `from X import a, b [as c]` (Module set, Items populated).
type Import struct {
	Base
	Module string
	Alias  string
	Items  []ImportItem
}

func (*Import) statementNode() {}
func (i *Import) String() string { return "import " + i.Module }
