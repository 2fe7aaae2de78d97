package interp

import "fmt"

// constAssignError is returned by Set when name is bound as a const in
// the scope that owns it, distinguishing that case from an undefined
// name so callers can raise rather than silently redefine.
type constAssignError struct{ name string }

func (e *constAssignError) Error() string {
	return fmt.Sprintf("cannot assign to const %s", e.name)
}

// Environment is a lexically-scoped symbol table with a parent chain,
// adapted from the teacher's Environment (internal/interp/runtime/environment.go)
// but case-sensitive: Quantum mixes case-sensitive dialects, unlike
// DWScript's single case-insensitive one.
type Environment struct {
	store  map[string]Value
	consts map[string]bool
	outer  *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Value), consts: make(map[string]bool)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]Value), consts: make(map[string]bool), outer: outer}
}

func (e *Environment) Get(name string) (Value, bool) {
	if val, ok := e.store[name]; ok {
		return val, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Set assigns to an existing binding, walking outward to find it.
// Returns an error if the name is undefined anywhere in the chain or if
// it names a const.
func (e *Environment) Set(name string, val Value) error {
	if _, ok := e.store[name]; ok {
		if e.consts[name] {
			return &constAssignError{name: name}
		}
		e.store[name] = val
		return nil
	}
	if e.outer != nil {
		return e.outer.Set(name, val)
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// Define creates or overwrites a binding in the current scope only.
func (e *Environment) Define(name string, val Value) {
	e.store[name] = val
}

func (e *Environment) DefineConst(name string, val Value) {
	e.store[name] = val
	e.consts[name] = true
}

func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

func (e *Environment) GetLocal(name string) (Value, bool) {
	val, ok := e.store[name]
	return val, ok
}

func (e *Environment) Outer() *Environment { return e.outer }
