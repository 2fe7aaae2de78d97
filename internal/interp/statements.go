package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quantum-lang/quantum/internal/ast"
)

// execBlock runs every statement in a block against env. It does not
// create a new scope itself — callers pass the environment to use
// (function and loop bodies get a fresh one, and exec gives a nested
// plain `{}` block its own enclosed scope).
func (i *Interpreter) execBlock(block *ast.Block, env *Environment) {
	if block == nil {
		return
	}
	for _, stmt := range block.Stmts {
		i.exec(stmt, env)
	}
}

// exec executes a single statement for its effect.
func (i *Interpreter) exec(stmt ast.Statement, env *Environment) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		i.eval(s.Expr, env)
	case *ast.VarDecl:
		i.execVarDecl(s, env)
	case *ast.FunctionDecl:
		env.Define(s.Name, &FunctionValue{Name: s.Name, Params: s.Params, Body: s.Body, Closure: env})
	case *ast.ClassDecl:
		i.execClassDecl(s, env)
	case *ast.Block:
		i.execBlock(s, NewEnclosedEnvironment(env))
	case *ast.If:
		i.execIf(s, env)
	case *ast.While:
		i.execWhile(s, env)
	case *ast.For:
		i.execFor(s, env)
	case *ast.Return:
		var v Value = Nil
		if s.Value != nil {
			v = i.eval(s.Value, env)
		}
		throwSignal(signal{kind: sigReturn, value: v})
	case *ast.Break:
		throwSignal(signal{kind: sigBreak})
	case *ast.Continue:
		throwSignal(signal{kind: sigContinue})
	case *ast.Raise:
		i.execRaise(s, env)
	case *ast.Try:
		i.execTry(s, env)
	case *ast.Print:
		i.execPrint(s, env)
	case *ast.Input:
		i.execInput(s, env)
	case *ast.Import:
		i.execImport(s, env)
	default:
		panic(fmt.Sprintf("interp: unhandled statement %T", stmt))
	}
}

func (i *Interpreter) execVarDecl(s *ast.VarDecl, env *Environment) {
	var val Value = Nil
	if s.Init != nil {
		val = i.eval(s.Init, env)
	}
	if s.TypeHint != "" {
		val = coerceToType(val, s.TypeHint)
	}
	if s.IsConst {
		env.DefineConst(s.Name, val)
	} else {
		env.Define(s.Name, val)
	}
}

// coerceToType applies the C-style declared type to an initializer
// value (§4.3 "Var"). Quantum stays dynamically typed at the value
// level; the hint only nudges the literal's representation.
func coerceToType(v Value, typeHint string) Value {
	switch typeHint {
	case "int":
		if n, ok := v.(*NumberValue); ok {
			return &NumberValue{Value: float64(int64(n.Value))}
		}
	case "float":
		if n, ok := v.(*NumberValue); ok {
			return n
		}
	case "string":
		if v == Nil {
			return &StringValue{Value: ""}
		}
	case "bool":
		if v == Nil {
			return &BoolValue{Value: false}
		}
	}
	return v
}

func (i *Interpreter) execIf(s *ast.If, env *Environment) {
	if Truthy(i.eval(s.Cond, env)) {
		i.execBlock(s.Then, NewEnclosedEnvironment(env))
		return
	}
	if s.Else != nil {
		i.execBlock(s.Else, NewEnclosedEnvironment(env))
	}
}

func (i *Interpreter) execWhile(s *ast.While, env *Environment) {
	for Truthy(i.eval(s.Cond, env)) {
		if i.runLoopBody(s.Body, NewEnclosedEnvironment(env)) {
			break
		}
	}
}

// runLoopBody executes one iteration of a loop body, recovering
// break/continue signals. Returns true if the loop should stop.
func (i *Interpreter) runLoopBody(body *ast.Block, env *Environment) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			if s, ok := recoverSignal(r, sigBreak, sigContinue); ok {
				stop = s.kind == sigBreak
				return
			}
		}
	}()
	i.execBlock(body, env)
	return false
}

func (i *Interpreter) execFor(s *ast.For, env *Environment) {
	iterable := i.eval(s.Iter, env)
	items := i.iterate(iterable)
	for _, item := range items {
		loopEnv := NewEnclosedEnvironment(env)
		if s.Var2 != "" {
			first, second := unpackPair(item)
			loopEnv.Define(s.Var, first)
			loopEnv.Define(s.Var2, second)
		} else {
			loopEnv.Define(s.Var, item)
		}
		if i.runLoopBody(s.Body, loopEnv) {
			break
		}
	}
}

// unpackPair splits a `for var, var2 in ...` item into its two bindings.
// Array/tuple pairs (e.g. Dict.items()'s [key, value] entries) unpack
// directly; any other scalar binds var to the whole item and var2 to
// Nil rather than raising, per §4.3's For semantics.
func unpackPair(item Value) (first, second Value) {
	var elems []Value
	switch v := item.(type) {
	case *TupleValue:
		elems = v.Elements
	case *ArrayValue:
		elems = *v.Elements
	default:
		return item, Nil
	}
	switch len(elems) {
	case 0:
		return Nil, Nil
	case 1:
		return elems[0], Nil
	default:
		return elems[0], elems[1]
	}
}

// iterate produces the Go slice of values a for-loop walks over:
// arrays directly, dicts as key/value tuples, strings as one-character
// strings (§4.3 "For").
func (i *Interpreter) iterate(v Value) []Value {
	switch vv := v.(type) {
	case *ArrayValue:
		return *vv.Elements
	case *TupleValue:
		return vv.Elements
	case *DictValue:
		out := make([]Value, 0, vv.Len())
		for _, e := range *vv.entries {
			out = append(out, &TupleValue{Elements: []Value{e.key, e.value}})
		}
		return out
	case *StringValue:
		runes := []rune(vv.Value)
		out := make([]Value, len(runes))
		for idx, r := range runes {
			out[idx] = &StringValue{Value: string(r)}
		}
		return out
	default:
		i.raiseError("TypeError", "'%s' object is not iterable", v.Type())
		return nil
	}
}

func (i *Interpreter) execRaise(s *ast.Raise, env *Environment) {
	if s.Value == nil {
		// bare re-raise — only valid inside an except handler.
		if i.currentException != nil {
			throwSignal(signal{kind: sigRaise, value: i.currentException})
		}
		i.raiseError("RuntimeError", "no active exception to re-raise")
		return
	}
	val := i.eval(s.Value, env)
	if _, ok := val.(*InstanceValue); !ok {
		val = i.newException("Exception", val.String())
	}
	throwSignal(signal{kind: sigRaise, value: val})
}

func (i *Interpreter) execTry(s *ast.Try, env *Environment) {
	if s.Finally != nil {
		defer i.execBlock(s.Finally, NewEnclosedEnvironment(env))
	}

	raised := i.runTryBody(s.Body, env)
	if raised == nil {
		return
	}

	prevException := i.currentException
	i.currentException = raised
	defer func() { i.currentException = prevException }()

	className := exceptionClassName(raised)
	for _, h := range s.Handlers {
		// A bare `except` or one naming the universal catch-all kinds
		// matches anything; otherwise the kind must appear in the raised
		// value's base chain (§7).
		universal := h.Kind == "" || h.Kind == "Exception" || h.Kind == "Error"
		if !universal && !isInstanceOf(classOf(raised), h.Kind) {
			continue
		}
		handlerEnv := NewEnclosedEnvironment(env)
		if h.Alias != "" {
			handlerEnv.Define(h.Alias, raised)
		}
		i.execBlock(h.Body, handlerEnv)
		return
	}
	_ = className
	// No handler matched: propagate upward (finally above still runs via defer).
	throwSignal(signal{kind: sigRaise, value: raised})
}

func classOf(v Value) *ClassValue {
	if inst, ok := v.(*InstanceValue); ok {
		return inst.Class
	}
	return nil
}

// runTryBody executes the protected block, capturing a raise signal
// (if any) so except handlers can inspect it; break/continue/return
// still propagate through untouched.
func (i *Interpreter) runTryBody(body *ast.Block, env *Environment) (raised Value) {
	defer func() {
		if r := recover(); r != nil {
			if s, ok := recoverSignal(r, sigRaise); ok {
				raised = s.value
				return
			}
		}
	}()
	i.execBlock(body, NewEnclosedEnvironment(env))
	return nil
}

func (i *Interpreter) execPrint(s *ast.Print, env *Environment) {
	if len(s.Args) == 0 {
		if s.TrailingNewline {
			i.write("\n")
		}
		return
	}

	vals := make([]Value, len(s.Args))
	for idx, arg := range s.Args {
		vals[idx] = i.eval(arg, env)
	}

	var line string
	if first, ok := vals[0].(*StringValue); ok && len(vals) > 1 && hasFormatSpecifier(first.Value) {
		line = formatPercent(i, first.Value, vals[1:])
	} else {
		parts := make([]string, len(vals))
		for idx, v := range vals {
			parts[idx] = v.String()
		}
		line = strings.Join(parts, " ")
	}
	if s.TrailingNewline {
		line += "\n"
	}
	i.write(line)
}

func (i *Interpreter) execInput(s *ast.Input, env *Environment) {
	if s.Prompt != nil {
		prompt := i.eval(s.Prompt, env)
		if ps, ok := prompt.(*StringValue); ok {
			i.write(stripFormatSpecs(ps.Value))
		} else {
			i.write(prompt.String())
		}
	}

	var line string
	fmt.Scanln(&line)

	if s.TargetName == "" {
		return
	}

	if s.Prompt != nil {
		if ps, ok := i.eval(s.Prompt, env).(*StringValue); ok {
			if conv, ok := firstSpecifierConv(ps.Value); ok {
				env.Define(s.TargetName, coerceInputValue(line, conv))
				return
			}
		}
	}
	env.Define(s.TargetName, &StringValue{Value: line})
}

// coerceInputValue converts a raw input line per the requested
// specifier's conversion family (§4.3 "Input").
func coerceInputValue(line string, conv byte) Value {
	switch conv {
	case 'd', 'i', 'u':
		n, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			return &NumberValue{Value: 0}
		}
		return &NumberValue{Value: float64(int64(n))}
	case 'f', 'e', 'g', 'F', 'E', 'G':
		n, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			return &NumberValue{Value: 0}
		}
		return &NumberValue{Value: n}
	case 's', 'c':
		return &StringValue{Value: line}
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(line), 64); err == nil {
		return &NumberValue{Value: n}
	}
	return &StringValue{Value: line}
}

func (i *Interpreter) execImport(s *ast.Import, env *Environment) {
	i.importModule(s, env)
}
