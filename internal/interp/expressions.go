package interp

import (
	"errors"
	"math"
	"strings"

	"github.com/quantum-lang/quantum/internal/ast"
)

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// eval evaluates a single expression against env, raising a Quantum
// exception (via throwSignal) for any runtime fault rather than
// returning a Go error — callers that need to observe a fault do so
// through Interpreter.Eval's recover, not through eval's return value.
func (i *Interpreter) eval(expr ast.Expression, env *Environment) Value {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return &NumberValue{Value: e.Value}
	case *ast.StringLiteral:
		return &StringValue{Value: e.Value}
	case *ast.BoolLiteral:
		return &BoolValue{Value: e.Value}
	case *ast.NilLiteral:
		return Nil
	case *ast.Identifier:
		if v, ok := env.Get(e.Name); ok {
			return v
		}
		if cls, ok := i.classes[e.Name]; ok {
			return cls
		}
		i.raiseError("NameError", "name '%s' is not defined", e.Name)
		return Nil
	case *ast.SuperRef:
		return i.evalSuperRef(e, env)
	case *ast.ArrayLiteral:
		elems := make([]Value, len(e.Items))
		for idx, it := range e.Items {
			elems[idx] = i.eval(it, env)
		}
		return NewArray(elems)
	case *ast.DictLiteral:
		d := NewDict()
		for _, p := range e.Pairs {
			d.Set(i.eval(p.Key, env), i.eval(p.Value, env))
		}
		return d
	case *ast.TupleLiteral:
		elems := make([]Value, len(e.Items))
		for idx, it := range e.Items {
			elems[idx] = i.eval(it, env)
		}
		return &TupleValue{Elements: elems}
	case *ast.ListComprehension:
		return i.evalListComprehension(e, env)
	case *ast.Lambda:
		return &FunctionValue{Params: e.Params, Body: e.Body, Closure: env}
	case *ast.CallExpression:
		return i.evalCall(e, env)
	case *ast.IndexExpression:
		return i.evalIndex(e, env)
	case *ast.SliceExpression:
		return i.evalSlice(e, env)
	case *ast.MemberExpression:
		return i.evalMember(e, env)
	case *ast.BinaryExpression:
		return i.evalBinary(e, env)
	case *ast.UnaryExpression:
		return i.evalUnary(e, env)
	case *ast.PostfixExpression:
		return i.evalPostfix(e, env)
	case *ast.AssignExpression:
		return i.evalAssign(e, env)
	case *ast.TernaryExpression:
		if Truthy(i.eval(e.Cond, env)) {
			return i.eval(e.Then, env)
		}
		return i.eval(e.Else, env)
	}
	i.raiseError("RuntimeError", "unhandled expression %T", expr)
	return Nil
}

func (i *Interpreter) evalListComprehension(e *ast.ListComprehension, env *Environment) Value {
	iter := i.eval(e.Iter, env)
	items := i.iterate(iter)
	out := make([]Value, 0, len(items))
	for _, item := range items {
		loopEnv := NewEnclosedEnvironment(env)
		if e.Var2 != "" {
			first, second := unpackPair(item)
			loopEnv.Define(e.Var, first)
			loopEnv.Define(e.Var2, second)
		} else {
			loopEnv.Define(e.Var, item)
		}
		if e.Cond != nil && !Truthy(i.eval(e.Cond, loopEnv)) {
			continue
		}
		out = append(out, i.eval(e.Expr, loopEnv))
	}
	return NewArray(out)
}

// callFunction invokes a closure (plain function, lambda, or bound
// method) with positional args, binding defaults for missing trailing
// params and `self`/`__owner__` when the function is a bound method.
func (i *Interpreter) callFunction(f *FunctionValue, args []Value) (result Value) {
	callEnv := NewEnclosedEnvironment(f.Closure)
	if f.Self != nil {
		callEnv.Define("self", f.Self)
	}
	if f.Owner != nil {
		callEnv.Define("__owner__", f.Owner)
	}
	for idx, p := range f.Params {
		if idx < len(args) {
			callEnv.Define(p.Name, args[idx])
		} else if p.Default != nil {
			callEnv.Define(p.Name, i.eval(p.Default, callEnv))
		} else {
			callEnv.Define(p.Name, Nil)
		}
	}

	result = Nil
	defer func() {
		if r := recover(); r != nil {
			if s, ok := recoverSignal(r, sigReturn); ok {
				result = s.value
				return
			}
		}
	}()
	i.execBlock(f.Body, callEnv)
	return result
}

// callValue dispatches a call to whatever kind of callable fn resolved
// to: a user function/lambda/bound method, a Go-native builtin, or a
// class value used as a constructor (`Point(1, 2)` without `new`).
func (i *Interpreter) callValue(fn Value, args []Value) Value {
	switch f := fn.(type) {
	case *FunctionValue:
		return i.callFunction(f, args)
	case *NativeValue:
		return f.Fn(i, args)
	case *ClassValue:
		return i.instantiate(f, args)
	default:
		i.raiseError("TypeError", "'%s' object is not callable", fn.Type())
		return Nil
	}
}

func (i *Interpreter) evalCall(e *ast.CallExpression, env *Environment) Value {
	args := make([]Value, len(e.Args))
	for idx, a := range e.Args {
		args[idx] = i.eval(a, env)
	}

	switch callee := e.Callee.(type) {
	case *ast.MemberExpression:
		obj := i.eval(callee.Object, env)
		return i.callMethodOn(obj, callee.Name, args)
	case *ast.SuperRef:
		return i.callSuper(callee, env, args)
	default:
		fn := i.eval(e.Callee, env)
		return i.callValue(fn, args)
	}
}

// callSuper resolves `super()` / `super.method()` against the base of
// the class that owns the currently-executing method (§4.3.2).
func (i *Interpreter) callSuper(ref *ast.SuperRef, env *Environment, args []Value) Value {
	selfVal, ok := env.Get("self")
	if !ok {
		i.raiseError("RuntimeError", "'super' used outside a method")
		return Nil
	}
	self, _ := selfVal.(*InstanceValue)

	ownerVal, ok := env.Get("__owner__")
	if !ok {
		i.raiseError("RuntimeError", "'super' used outside a method")
		return Nil
	}
	owner, _ := ownerVal.(*ClassValue)
	if owner == nil || owner.Base == nil {
		i.raiseError("RuntimeError", "class '%s' has no base class", owner.Name)
		return Nil
	}

	name := ref.Method
	if name == "" {
		name = "init"
	}
	method, foundOwner := owner.Base.FindMethod(name)
	if method == nil {
		i.raiseError("NameError", "base class has no method '%s'", name)
		return Nil
	}
	bound := &FunctionValue{Name: method.Name, Params: method.Params, Body: method.Body, Closure: method.Closure, Self: self, Owner: foundOwner}
	return i.callFunction(bound, args)
}

func (i *Interpreter) evalSuperRef(ref *ast.SuperRef, env *Environment) Value {
	selfVal, _ := env.Get("self")
	ownerVal, _ := env.Get("__owner__")
	owner, _ := ownerVal.(*ClassValue)
	if owner == nil || owner.Base == nil {
		i.raiseError("RuntimeError", "'super' used outside a method with a base class")
		return Nil
	}
	name := ref.Method
	if name == "" {
		name = "init"
	}
	method, foundOwner := owner.Base.FindMethod(name)
	if method == nil {
		i.raiseError("NameError", "base class has no method '%s'", name)
		return Nil
	}
	self, _ := selfVal.(*InstanceValue)
	return &FunctionValue{Name: method.Name, Params: method.Params, Body: method.Body, Closure: method.Closure, Self: self, Owner: foundOwner}
}

func (i *Interpreter) evalIndex(e *ast.IndexExpression, env *Environment) Value {
	obj := i.eval(e.Object, env)
	idx := i.eval(e.Index, env)
	switch v := obj.(type) {
	case *ArrayValue:
		n := i.indexToInt(idx, len(*v.Elements))
		if n < 0 || n >= len(*v.Elements) {
			i.raiseError("IndexError", "array index out of range")
			return Nil
		}
		return (*v.Elements)[n]
	case *StringValue:
		runes := []rune(v.Value)
		n := i.indexToInt(idx, len(runes))
		if n < 0 || n >= len(runes) {
			i.raiseError("IndexError", "string index out of range")
			return Nil
		}
		return &StringValue{Value: string(runes[n])}
	case *DictValue:
		val, ok := v.Get(idx)
		if !ok {
			i.raiseError("KeyError", "%s", reprOf(idx))
			return Nil
		}
		return val
	case *TupleValue:
		n := i.indexToInt(idx, len(v.Elements))
		if n < 0 || n >= len(v.Elements) {
			i.raiseError("IndexError", "tuple index out of range")
			return Nil
		}
		return v.Elements[n]
	}
	i.raiseError("TypeError", "'%s' object is not subscriptable", obj.Type())
	return Nil
}

func (i *Interpreter) indexToInt(v Value, length int) int {
	n, ok := v.(*NumberValue)
	if !ok {
		i.raiseError("TypeError", "index must be a number")
		return 0
	}
	idx := int(n.Value)
	if idx < 0 {
		idx += length
	}
	return idx
}

func (i *Interpreter) evalSlice(e *ast.SliceExpression, env *Environment) Value {
	obj := i.eval(e.Object, env)
	step := 1
	if e.Step != nil {
		step = int(i.eval(e.Step, env).(*NumberValue).Value)
		if step == 0 {
			i.raiseError("ValueError", "slice step cannot be zero")
		}
	}

	length := 0
	switch v := obj.(type) {
	case *ArrayValue:
		length = len(*v.Elements)
	case *StringValue:
		length = len([]rune(v.Value))
	default:
		i.raiseError("TypeError", "'%s' object is not sliceable", obj.Type())
		return Nil
	}

	start, stop := sliceBounds(e.Start, e.Stop, step, length, func(ex ast.Expression) int {
		return int(i.eval(ex, env).(*NumberValue).Value)
	})

	switch v := obj.(type) {
	case *ArrayValue:
		out := []Value{}
		for idx := start; (step > 0 && idx < stop) || (step < 0 && idx > stop); idx += step {
			if idx < 0 || idx >= length {
				break
			}
			out = append(out, (*v.Elements)[idx])
		}
		return NewArray(out)
	case *StringValue:
		runes := []rune(v.Value)
		out := make([]rune, 0, len(runes))
		for idx := start; (step > 0 && idx < stop) || (step < 0 && idx > stop); idx += step {
			if idx < 0 || idx >= length {
				break
			}
			out = append(out, runes[idx])
		}
		return &StringValue{Value: string(out)}
	}
	return Nil
}

// sliceBounds resolves Python-style slice defaults: omitted start/stop
// default to the beginning/end in the traversal direction implied by step.
func sliceBounds(startExpr, stopExpr ast.Expression, step, length int, evalInt func(ast.Expression) int) (start, stop int) {
	if step > 0 {
		start, stop = 0, length
	} else {
		start, stop = length-1, -1
	}
	if startExpr != nil {
		start = normalizeSliceIndex(evalInt(startExpr), length)
	}
	if stopExpr != nil {
		stop = normalizeSliceIndex(evalInt(stopExpr), length)
	}
	return start, stop
}

func normalizeSliceIndex(n, length int) int {
	if n < 0 {
		n += length
	}
	return n
}

func (i *Interpreter) evalMember(e *ast.MemberExpression, env *Environment) Value {
	obj := i.eval(e.Object, env)
	return i.getMember(obj, e.Name)
}

func (i *Interpreter) getMember(obj Value, name string) Value {
	switch v := obj.(type) {
	case *InstanceValue:
		if field, ok := v.Fields[name]; ok {
			return field
		}
		if method, owner := v.Class.FindMethod(name); method != nil {
			return &FunctionValue{Name: method.Name, Params: method.Params, Body: method.Body, Closure: method.Closure, Self: v, Owner: owner}
		}
	case *ClassValue:
		if val, ok := v.StaticFields.GetLocal(name); ok {
			return val
		}
		if method := v.FindStaticMethod(name); method != nil {
			return &FunctionValue{Name: method.Name, Params: method.Params, Body: method.Body, Closure: method.Closure}
		}
	case *ArrayValue:
		if name == "length" {
			return &NumberValue{Value: float64(len(*v.Elements))}
		}
	case *StringValue:
		if name == "length" {
			return &NumberValue{Value: float64(len([]rune(v.Value)))}
		}
	case *DictValue:
		if name == "length" {
			return &NumberValue{Value: float64(v.Len())}
		}
	}
	i.raiseError("TypeError", "'%s' object has no attribute '%s'", obj.Type(), name)
	return Nil
}

func (i *Interpreter) evalUnary(e *ast.UnaryExpression, env *Environment) Value {
	if e.Op == "++" || e.Op == "--" {
		return i.evalIncDec(e.Operand, env, e.Op, true)
	}
	v := i.eval(e.Operand, env)
	switch e.Op {
	case "-":
		n := i.asNumber(v)
		return &NumberValue{Value: -n}
	case "+":
		return &NumberValue{Value: i.asNumber(v)}
	case "not":
		return &BoolValue{Value: !Truthy(v)}
	case "~":
		return &NumberValue{Value: float64(^int64(i.asNumber(v)))}
	}
	i.raiseError("RuntimeError", "unknown unary operator %q", e.Op)
	return Nil
}

func (i *Interpreter) evalPostfix(e *ast.PostfixExpression, env *Environment) Value {
	return i.evalIncDec(e.Operand, env, e.Op, false)
}

// evalIncDec implements prefix/postfix ++/--, which both read-modify-
// write whatever lvalue the operand names.
func (i *Interpreter) evalIncDec(target ast.Expression, env *Environment, op string, prefix bool) Value {
	old := i.eval(target, env)
	n := i.asNumber(old)
	delta := 1.0
	if op == "--" {
		delta = -1.0
	}
	updated := &NumberValue{Value: n + delta}
	i.assignTo(target, updated, env)
	if prefix {
		return updated
	}
	return &NumberValue{Value: n}
}

func (i *Interpreter) asNumber(v Value) float64 {
	n, ok := v.(*NumberValue)
	if !ok {
		i.raiseError("TypeError", "expected a number, got %s", v.Type())
		return 0
	}
	return n.Value
}

func (i *Interpreter) evalBinary(e *ast.BinaryExpression, env *Environment) Value {
	switch e.Op {
	case "and":
		left := i.eval(e.Left, env)
		if !Truthy(left) {
			return left
		}
		return i.eval(e.Right, env)
	case "or":
		left := i.eval(e.Left, env)
		if Truthy(left) {
			return left
		}
		return i.eval(e.Right, env)
	}

	left := i.eval(e.Left, env)
	right := i.eval(e.Right, env)

	switch e.Op {
	case "==":
		return &BoolValue{Value: valuesEqual(left, right)}
	case "!=":
		return &BoolValue{Value: !valuesEqual(left, right)}
	case "in":
		return &BoolValue{Value: i.contains(right, left)}
	case "not in":
		return &BoolValue{Value: !i.contains(right, left)}
	}

	if e.Op == "+" {
		if la, ok := left.(*ArrayValue); ok {
			if ra, ok := right.(*ArrayValue); ok {
				out := append(append([]Value{}, (*la.Elements)...), (*ra.Elements)...)
				return NewArray(out)
			}
		}
		// String interpolation lowers to `"lit" + (expr)`, so `+` with a
		// string operand coerces the other side via String() (§4.1).
		if ls, ok := left.(*StringValue); ok {
			return &StringValue{Value: ls.Value + right.String()}
		}
		if rs, ok := right.(*StringValue); ok {
			return &StringValue{Value: left.String() + rs.Value}
		}
	}

	switch e.Op {
	case "<", ">", "<=", ">=":
		return &BoolValue{Value: i.compare(left, right, e.Op)}
	}

	if e.Op == "*" {
		if ls, ok := left.(*StringValue); ok {
			if rn, ok := right.(*NumberValue); ok {
				return &StringValue{Value: strings.Repeat(ls.Value, max0(int(rn.Value)))}
			}
		}
		if rs, ok := right.(*StringValue); ok {
			if ln, ok := left.(*NumberValue); ok {
				return &StringValue{Value: strings.Repeat(rs.Value, max0(int(ln.Value)))}
			}
		}
	}

	ln, lok := left.(*NumberValue)
	rn, rok := right.(*NumberValue)
	if !lok || !rok {
		i.raiseError("TypeError", "unsupported operand types for %s: '%s' and '%s'", e.Op, left.Type(), right.Type())
		return Nil
	}

	switch e.Op {
	case "+":
		return &NumberValue{Value: ln.Value + rn.Value}
	case "-":
		return &NumberValue{Value: ln.Value - rn.Value}
	case "*":
		return &NumberValue{Value: ln.Value * rn.Value}
	case "/":
		if rn.Value == 0 {
			i.raiseError("RuntimeError", "Division by zero")
		}
		return &NumberValue{Value: ln.Value / rn.Value}
	case "//":
		if rn.Value == 0 {
			i.raiseError("RuntimeError", "Division by zero")
		}
		return &NumberValue{Value: math.Floor(ln.Value / rn.Value)}
	case "%":
		if rn.Value == 0 {
			i.raiseError("RuntimeError", "Modulo by zero")
		}
		return &NumberValue{Value: math.Mod(ln.Value, rn.Value)}
	case "**":
		return &NumberValue{Value: math.Pow(ln.Value, rn.Value)}
	case "&":
		return &NumberValue{Value: float64(int64(ln.Value) & int64(rn.Value))}
	case "|":
		return &NumberValue{Value: float64(int64(ln.Value) | int64(rn.Value))}
	case "^":
		return &NumberValue{Value: float64(int64(ln.Value) ^ int64(rn.Value))}
	case "<<":
		return &NumberValue{Value: float64(int64(ln.Value) << uint(int64(rn.Value)))}
	case ">>":
		return &NumberValue{Value: float64(int64(ln.Value) >> uint(int64(rn.Value)))}
	}

	i.raiseError("RuntimeError", "unknown binary operator %q", e.Op)
	return Nil
}

// numericOperand coerces a Number or Bool (true/false -> 1/0, per §4.3's
// "booleans coerced to 1/0 to support chained comparisons") to a float64.
func numericOperand(v Value) (float64, bool) {
	switch vv := v.(type) {
	case *NumberValue:
		return vv.Value, true
	case *BoolValue:
		if vv.Value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func (i *Interpreter) compare(left, right Value, op string) bool {
	if ln, ok := numericOperand(left); ok {
		if rn, ok := numericOperand(right); ok {
			switch op {
			case "<":
				return ln < rn
			case ">":
				return ln > rn
			case "<=":
				return ln <= rn
			case ">=":
				return ln >= rn
			}
		}
	}
	if ls, ok := left.(*StringValue); ok {
		if rs, ok := right.(*StringValue); ok {
			switch op {
			case "<":
				return ls.Value < rs.Value
			case ">":
				return ls.Value > rs.Value
			case "<=":
				return ls.Value <= rs.Value
			case ">=":
				return ls.Value >= rs.Value
			}
		}
	}
	i.raiseError("TypeError", "'%s' not supported between instances of '%s' and '%s'", op, left.Type(), right.Type())
	return false
}

func (i *Interpreter) contains(container, item Value) bool {
	switch c := container.(type) {
	case *ArrayValue:
		for _, e := range *c.Elements {
			if valuesEqual(e, item) {
				return true
			}
		}
		return false
	case *DictValue:
		_, ok := c.Get(item)
		return ok
	case *StringValue:
		s, ok := item.(*StringValue)
		if !ok {
			i.raiseError("TypeError", "'in <string>' requires string as left operand")
			return false
		}
		return indexOfSubstring(c.Value, s.Value) >= 0
	}
	i.raiseError("TypeError", "argument of type '%s' is not iterable", container.Type())
	return false
}

func indexOfSubstring(s, sub string) int {
	if sub == "" {
		return 0
	}
	for idx := 0; idx+len(sub) <= len(s); idx++ {
		if s[idx:idx+len(sub)] == sub {
			return idx
		}
	}
	return -1
}

func (i *Interpreter) evalAssign(e *ast.AssignExpression, env *Environment) Value {
	if e.Op == "unpack" {
		return i.evalTupleUnpack(e, env)
	}

	var newVal Value
	if e.Op == "=" {
		newVal = i.eval(e.Value, env)
	} else {
		cur := i.eval(e.Target, env)
		rhs := i.eval(e.Value, env)
		op := e.Op[:len(e.Op)-1] // "+=" -> "+"
		newVal = i.evalBinaryValues(cur, rhs, op)
	}
	i.assignTo(e.Target, newVal, env)
	return newVal
}

// evalBinaryValues applies a binary operator to already-evaluated
// operands, shared by compound assignment (`+=`) and evalBinary.
func (i *Interpreter) evalBinaryValues(left, right Value, op string) Value {
	switch op {
	case "+":
		if la, ok := left.(*ArrayValue); ok {
			if ra, ok := right.(*ArrayValue); ok {
				out := append(append([]Value{}, (*la.Elements)...), (*ra.Elements)...)
				return NewArray(out)
			}
		}
		if ls, ok := left.(*StringValue); ok {
			return &StringValue{Value: ls.Value + right.String()}
		}
		if rs, ok := right.(*StringValue); ok {
			return &StringValue{Value: left.String() + rs.Value}
		}
	}
	ln, lok := left.(*NumberValue)
	rn, rok := right.(*NumberValue)
	if !lok || !rok {
		i.raiseError("TypeError", "unsupported operand types for %s: '%s' and '%s'", op, left.Type(), right.Type())
		return Nil
	}
	switch op {
	case "+":
		return &NumberValue{Value: ln.Value + rn.Value}
	case "-":
		return &NumberValue{Value: ln.Value - rn.Value}
	case "*":
		return &NumberValue{Value: ln.Value * rn.Value}
	case "/":
		if rn.Value == 0 {
			i.raiseError("RuntimeError", "Division by zero")
		}
		return &NumberValue{Value: ln.Value / rn.Value}
	}
	i.raiseError("RuntimeError", "unknown compound-assignment operator %q", op)
	return Nil
}

func (i *Interpreter) evalTupleUnpack(e *ast.AssignExpression, env *Environment) Value {
	tuple := e.Target.(*ast.TupleLiteral)
	val := i.eval(e.Value, env)

	var elems []Value
	switch v := val.(type) {
	case *TupleValue:
		elems = v.Elements
	case *ArrayValue:
		elems = *v.Elements
	default:
		i.raiseError("TypeError", "cannot unpack non-sequence value")
		return Nil
	}
	if len(elems) != len(tuple.Items) {
		i.raiseError("ValueError", "expected %d values to unpack, got %d", len(tuple.Items), len(elems))
		return Nil
	}
	for idx, target := range tuple.Items {
		i.assignTo(target, elems[idx], env)
	}
	return val
}

// assignTo writes newVal into the lvalue expr names: a plain
// identifier, a member field, or an index slot.
func (i *Interpreter) assignTo(expr ast.Expression, newVal Value, env *Environment) {
	switch t := expr.(type) {
	case *ast.Identifier:
		if err := env.Set(t.Name, newVal); err != nil {
			var constErr *constAssignError
			if errors.As(err, &constErr) {
				i.raiseError("RuntimeError", "%s", err.Error())
			}
			env.Define(t.Name, newVal)
		}
	case *ast.MemberExpression:
		obj := i.eval(t.Object, env)
		switch o := obj.(type) {
		case *InstanceValue:
			o.Fields[t.Name] = newVal
		case *ClassValue:
			o.StaticFields.Define(t.Name, newVal)
		default:
			i.raiseError("TypeError", "'%s' object does not support attribute assignment", obj.Type())
		}
	case *ast.IndexExpression:
		obj := i.eval(t.Object, env)
		idx := i.eval(t.Index, env)
		switch o := obj.(type) {
		case *ArrayValue:
			n := i.indexToInt(idx, len(*o.Elements))
			if n < 0 || n >= len(*o.Elements) {
				i.raiseError("IndexError", "array assignment index out of range")
				return
			}
			(*o.Elements)[n] = newVal
		case *DictValue:
			o.Set(idx, newVal)
		default:
			i.raiseError("TypeError", "'%s' object does not support item assignment", obj.Type())
		}
	default:
		i.raiseError("RuntimeError", "invalid assignment target")
	}
}
