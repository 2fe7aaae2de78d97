package interp

import (
	"io"
	"math/rand"

	"github.com/quantum-lang/quantum/internal/ast"
)

// Interpreter tree-walks a Quantum program, mirroring the teacher's
// single-struct evaluator shape (internal/interp/interpreter.go) but
// replacing its flag-based control flow with panic/recover signals
// (signal.go) and dropping everything tied to DWScript's static type
// system.
type Interpreter struct {
	output           io.Writer
	globalEnv        *Environment
	classes          map[string]*ClassValue
	rand             *rand.Rand
	callStack        []string
	currentException Value // the exception bound to the innermost active except handler, for bare `raise`
}

// New builds an Interpreter writing program output to w.
func New(w io.Writer) *Interpreter {
	i := &Interpreter{
		output:    w,
		globalEnv: NewEnvironment(),
		classes:   make(map[string]*ClassValue),
		rand:      rand.New(rand.NewSource(1)),
	}
	i.registerBuiltinExceptions()
	registerBuiltins(i)
	callStrMethod = i.callStrMethodImpl
	return i
}

// Run executes a parsed program's top-level block. A raised exception
// that escapes every try/except is returned as the InstanceValue that
// describes it; nil means a clean run.
func (i *Interpreter) Run(program *ast.Block) (result Value) {
	defer func() {
		if r := recover(); r != nil {
			s, ok := r.(signal)
			if !ok {
				panic(r)
			}
			if s.kind == sigRaise {
				result = s.value
			}
		}
	}()
	i.execBlock(program, i.globalEnv)
	return nil
}

// Eval runs a single expression against the global environment — used
// by the REPL and by pkg/quantum's one-shot evaluation helper.
func (i *Interpreter) Eval(expr ast.Expression) (result Value, raised Value) {
	defer func() {
		if r := recover(); r != nil {
			s, ok := r.(signal)
			if !ok {
				panic(r)
			}
			if s.kind == sigRaise {
				raised = s.value
				return
			}
			panic(r)
		}
	}()
	return i.eval(expr, i.globalEnv), nil
}

func (i *Interpreter) write(s string) {
	if i.output != nil {
		io.WriteString(i.output, s)
	}
}
