package interp

import "github.com/quantum-lang/quantum/internal/ast"

// execClassDecl builds a ClassValue from a class declaration, resolving
// its base (if any) by name and wrapping each ast.Method in a
// FunctionValue closed over the declaring scope (§4.3.2).
func (i *Interpreter) execClassDecl(s *ast.ClassDecl, env *Environment) {
	var base *ClassValue
	if s.Base_ != "" {
		if b, ok := i.classes[s.Base_]; ok {
			base = b
		} else if v, ok := env.Get(s.Base_); ok {
			if bc, ok2 := v.(*ClassValue); ok2 {
				base = bc
			}
		}
	}

	cls := &ClassValue{
		Name:          s.Name,
		Base:          base,
		Methods:       make(map[string]*FunctionValue),
		StaticMethods: make(map[string]*FunctionValue),
		StaticFields:  NewEnclosedEnvironment(env),
	}
	for _, m := range s.Methods {
		cls.Methods[m.Name] = &FunctionValue{Name: m.Name, Params: m.Params, Body: m.Body, Closure: env}
	}
	for _, m := range s.StaticMethods {
		cls.StaticMethods[m.Name] = &FunctionValue{Name: m.Name, Params: m.Params, Body: m.Body, Closure: env}
	}

	i.classes[s.Name] = cls
	env.Define(s.Name, cls)
}

// instantiate allocates a fresh instance and runs its constructor
// (normalized to "init" by the parser), if one is declared anywhere in
// the base chain.
func (i *Interpreter) instantiate(cls *ClassValue, args []Value) *InstanceValue {
	inst := NewInstance(cls)
	if method, owner := cls.FindMethod("init"); method != nil {
		bound := &FunctionValue{Name: method.Name, Params: method.Params, Body: method.Body, Closure: method.Closure, Self: inst, Owner: owner}
		i.callFunction(bound, args)
		return inst
	}
	// Builtin exception classes declare no `init`: calling one directly,
	// e.g. `raise ValueError("bad input")`, stores the first argument as
	// the instance's message instead (§4.3.3).
	if isInstanceOf(cls, "Exception") {
		msg := ""
		if len(args) > 0 {
			msg = args[0].String()
		}
		inst.Fields["message"] = &StringValue{Value: msg}
	}
	return inst
}

// callMethodOn dispatches `obj.name(args...)`: builtin container methods
// first (§4.3.2's Array/String/Dict dispatch tables), then user-defined
// instance methods, then static-method calls through a class value.
func (i *Interpreter) callMethodOn(obj Value, name string, args []Value) Value {
	switch v := obj.(type) {
	case *ArrayValue:
		if fn, ok := arrayMethods[name]; ok {
			return fn(i, v, args)
		}
	case *StringValue:
		if fn, ok := stringMethods[name]; ok {
			return fn(i, v, args)
		}
	case *DictValue:
		// A callable stored under the key wins over the builtin method
		// table — this is what makes `console.log(x)` work, since
		// `console` is itself a Dict (§4.3.2).
		if stored, ok := v.Get(&StringValue{Value: name}); ok {
			switch stored.(type) {
			case *FunctionValue, *NativeValue:
				return i.callValue(stored, args)
			}
		}
		if fn, ok := dictMethods[name]; ok {
			return fn(i, v, args)
		}
	case *InstanceValue:
		if method, owner := v.Class.FindMethod(name); method != nil {
			bound := &FunctionValue{Name: method.Name, Params: method.Params, Body: method.Body, Closure: method.Closure, Self: v, Owner: owner}
			return i.callFunction(bound, args)
		}
		if field, ok := v.Fields[name]; ok {
			switch field.(type) {
			case *FunctionValue, *NativeValue:
				return i.callValue(field, args)
			}
		}
	case *ClassValue:
		if method := v.FindStaticMethod(name); method != nil {
			bound := &FunctionValue{Name: method.Name, Params: method.Params, Body: method.Body, Closure: method.Closure}
			return i.callFunction(bound, args)
		}
	}
	i.raiseError("TypeError", "'%s' object has no method '%s'", obj.Type(), name)
	return Nil
}

// callStrMethodImpl backs value.go's callStrMethod hook: it runs an
// instance's __str__ method and stringifies whatever it returns.
func (i *Interpreter) callStrMethodImpl(m *FunctionValue, self *InstanceValue) string {
	_, owner := self.Class.FindMethod("__str__")
	bound := &FunctionValue{Name: m.Name, Params: m.Params, Body: m.Body, Closure: m.Closure, Self: self, Owner: owner}
	return i.callFunction(bound, nil).String()
}
