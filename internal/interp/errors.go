package interp

import "fmt"

// builtinExceptionNames are registered into every fresh Interpreter's
// global environment, giving scripts a catchable class hierarchy that
// mirrors the Python/JS exception families named in §4.3.3.
var builtinExceptionNames = []string{
	"Exception",
	"TypeError",
	"ValueError",
	"NameError",
	"IndexError",
	"KeyError",
	"ZeroDivisionError",
	"RuntimeError",
	"StopIteration",
}

func (i *Interpreter) registerBuiltinExceptions() {
	base := &ClassValue{Name: "Exception", Methods: map[string]*FunctionValue{}, StaticMethods: map[string]*FunctionValue{}}
	i.classes["Exception"] = base
	i.globalEnv.Define("Exception", base)

	for _, name := range builtinExceptionNames {
		if name == "Exception" {
			continue
		}
		cls := &ClassValue{Name: name, Base: base, Methods: map[string]*FunctionValue{}, StaticMethods: map[string]*FunctionValue{}}
		i.classes[name] = cls
		i.globalEnv.Define(name, cls)
	}
}

// newException builds an instance of a builtin exception class carrying
// a message field, used both by raiseError and by scripts constructing
// exceptions directly (e.g. `raise ValueError("bad input")`).
func (i *Interpreter) newException(className, message string) *InstanceValue {
	cls, ok := i.classes[className]
	if !ok {
		cls = i.classes["Exception"]
	}
	inst := NewInstance(cls)
	inst.Fields["message"] = &StringValue{Value: message}
	return inst
}

// raiseError is the primary way interpreter internals signal a runtime
// fault: it builds the matching exception instance and throws a raise
// signal that unwinds to the nearest try/except (or the program's top
// level, which reports it as an uncaught error).
func (i *Interpreter) raiseError(className, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	throwSignal(signal{kind: sigRaise, value: i.newException(className, msg)})
}

// exceptionMessage extracts the human-readable message from a raised
// value, whether it's a builtin-exception instance or a bare string.
func exceptionMessage(v Value) string {
	switch vv := v.(type) {
	case *InstanceValue:
		if m, ok := vv.Fields["message"]; ok {
			return m.String()
		}
		return vv.Class.Name
	case *StringValue:
		return vv.Value
	default:
		if v == nil {
			return "unknown error"
		}
		return v.String()
	}
}

// exceptionClassName returns the class name of a raised value for
// except-clause matching.
func exceptionClassName(v Value) string {
	if inst, ok := v.(*InstanceValue); ok {
		return inst.Class.Name
	}
	return "Exception"
}

// isInstanceOf walks a class's base chain looking for name — used to
// match `except NameError` against a subclass instance.
func isInstanceOf(cls *ClassValue, name string) bool {
	for cur := cls; cur != nil; cur = cur.Base {
		if cur.Name == name {
			return true
		}
	}
	return false
}
