// Package interp tree-walks a Quantum AST, evaluating expressions and
// executing statements against a lexically-scoped Environment (§4.3).
package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/quantum-lang/quantum/internal/ast"
)

// Value is implemented by every runtime value. Unlike the AST, values
// mix reference semantics (Array, Dict, Function, Class, Instance) and
// value semantics (Number, Bool, Nil, String) per §3's data model.
type Value interface {
	Type() string
	String() string
}

// NilValue is Quantum's nil/null/None/undefined.
type NilValue struct{}

func (*NilValue) Type() string   { return "nil" }
func (*NilValue) String() string { return "nil" }

var Nil = &NilValue{}

type BoolValue struct{ Value bool }

func (*BoolValue) Type() string { return "bool" }
func (b *BoolValue) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// NumberValue is Quantum's single numeric kind — no separate int/float
// distinction in the surface language (§3 "Number").
type NumberValue struct{ Value float64 }

func (*NumberValue) Type() string { return "number" }
func (n *NumberValue) String() string {
	if n.Value == float64(int64(n.Value)) && !strings.ContainsAny(strconv.FormatFloat(n.Value, 'g', -1, 64), "eE") {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (n *NumberValue) IsInt() bool { return n.Value == float64(int64(n.Value)) }

type StringValue struct{ Value string }

func (*StringValue) Type() string   { return "string" }
func (s *StringValue) String() string { return s.Value }

// ArrayValue has reference semantics: copies of the value share the
// underlying slice pointer (§3).
type ArrayValue struct{ Elements *[]Value }

func NewArray(elems []Value) *ArrayValue { return &ArrayValue{Elements: &elems} }

func (*ArrayValue) Type() string { return "array" }
func (a *ArrayValue) String() string {
	parts := make([]string, len(*a.Elements))
	for i, e := range *a.Elements {
		parts[i] = reprOf(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// dictEntry preserves insertion order alongside the value (§3 "Dict
// preserves insertion order").
type dictEntry struct {
	key   Value
	value Value
}

// DictValue has reference semantics and insertion-ordered keys.
type DictValue struct {
	entries *[]dictEntry
}

func NewDict() *DictValue {
	e := make([]dictEntry, 0)
	return &DictValue{entries: &e}
}

func (*DictValue) Type() string { return "dict" }
func (d *DictValue) String() string {
	parts := make([]string, 0, len(*d.entries))
	for _, e := range *d.entries {
		parts = append(parts, fmt.Sprintf("%s: %s", reprOf(e.key), reprOf(e.value)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// dictKey normalizes a Dict key to its string form — §4.3 "Dict keys are
// stringified", matching JS object-key semantics rather than arbitrary
// hashable keys.
func dictKey(key Value) *StringValue {
	if s, ok := key.(*StringValue); ok {
		return s
	}
	return &StringValue{Value: key.String()}
}

func (d *DictValue) indexOf(key Value) int {
	k := dictKey(key).Value
	for i, e := range *d.entries {
		if e.key.(*StringValue).Value == k {
			return i
		}
	}
	return -1
}

func (d *DictValue) Get(key Value) (Value, bool) {
	if i := d.indexOf(key); i >= 0 {
		return (*d.entries)[i].value, true
	}
	return nil, false
}

func (d *DictValue) Set(key, value Value) {
	k := dictKey(key)
	if i := d.indexOf(k); i >= 0 {
		(*d.entries)[i].value = value
		return
	}
	*d.entries = append(*d.entries, dictEntry{key: k, value: value})
}

func (d *DictValue) Delete(key Value) bool {
	if i := d.indexOf(key); i >= 0 {
		*d.entries = append((*d.entries)[:i], (*d.entries)[i+1:]...)
		return true
	}
	return false
}

func (d *DictValue) Keys() []Value {
	out := make([]Value, len(*d.entries))
	for i, e := range *d.entries {
		out[i] = e.key
	}
	return out
}

func (d *DictValue) Values() []Value {
	out := make([]Value, len(*d.entries))
	for i, e := range *d.entries {
		out[i] = e.value
	}
	return out
}

func (d *DictValue) Len() int { return len(*d.entries) }

// TupleValue is an immutable fixed-size sequence, used for multi-value
// returns and unpacking (§3 "Tuple").
type TupleValue struct{ Elements []Value }

func (*TupleValue) Type() string { return "tuple" }
func (t *TupleValue) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = reprOf(e)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FunctionValue is a user-defined closure: a function/method/lambda
// bundled with the environment it was defined in (§3 "Function").
type FunctionValue struct {
	Name    string
	Params  []ast.Param
	Body    *ast.Block
	Closure *Environment
	Self    Value       // bound receiver for methods, nil for plain functions
	Owner   *ClassValue // class that defined this method, used to resolve `super` from inside it
}

func (*FunctionValue) Type() string { return "function" }
func (f *FunctionValue) String() string {
	if f.Name == "" {
		return "<lambda>"
	}
	return fmt.Sprintf("<function %s>", f.Name)
}

// NativeFunc is a builtin implemented in Go.
type NativeFunc func(i *Interpreter, args []Value) Value

type NativeValue struct {
	Name string
	Fn   NativeFunc
}

func (*NativeValue) Type() string     { return "native" }
func (n *NativeValue) String() string { return fmt.Sprintf("<builtin %s>", n.Name) }

// ClassValue describes a class declaration: its own method table plus a
// pointer to its resolved base class, if any (§4.3.2 "Method dispatch").
type ClassValue struct {
	Name          string
	Base          *ClassValue
	Methods       map[string]*FunctionValue
	StaticMethods map[string]*FunctionValue
	StaticFields  *Environment
}

func (*ClassValue) Type() string     { return "class" }
func (c *ClassValue) String() string { return fmt.Sprintf("<class %s>", c.Name) }

// FindMethod walks the base-class chain looking for name (§4.3.2).
func (c *ClassValue) FindMethod(name string) (*FunctionValue, *ClassValue) {
	for cur := c; cur != nil; cur = cur.Base {
		if m, ok := cur.Methods[name]; ok {
			return m, cur
		}
	}
	return nil, nil
}

func (c *ClassValue) FindStaticMethod(name string) *FunctionValue {
	for cur := c; cur != nil; cur = cur.Base {
		if m, ok := cur.StaticMethods[name]; ok {
			return m
		}
	}
	return nil
}

// InstanceValue is an object: reference semantics, a field map, and a
// back-pointer to its class for method dispatch (§3 "Instance").
type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

func (*InstanceValue) Type() string { return "instance" }
func (i *InstanceValue) String() string {
	if method, owner := i.Class.FindMethod("__str__"); method != nil {
		_ = owner
		return callStrMethod(method, i)
	}
	// Exception instances with no __str__ print as "ClassName: message"
	// (§7, §8 scenario 4), matching how raise/except surfaces them.
	if msg, ok := i.Fields["message"]; ok {
		return fmt.Sprintf("%s: %s", i.Class.Name, msg.String())
	}
	return fmt.Sprintf("<%s instance>", i.Class.Name)
}

// callStrMethod is set by the evaluator (avoids an import cycle between
// value.go's String() and the call machinery in expressions.go).
var callStrMethod = func(m *FunctionValue, self *InstanceValue) string {
	return fmt.Sprintf("<%s instance>", self.Class.Name)
}

// reprOf renders a value the way it would appear nested inside a
// container literal — strings are quoted, everything else uses String().
func reprOf(v Value) string {
	if v == nil {
		return "nil"
	}
	if s, ok := v.(*StringValue); ok {
		return strconv.Quote(s.Value)
	}
	return v.String()
}

func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case *NumberValue:
		bv, ok := b.(*NumberValue)
		return ok && av.Value == bv.Value
	case *StringValue:
		bv, ok := b.(*StringValue)
		return ok && av.Value == bv.Value
	case *BoolValue:
		bv, ok := b.(*BoolValue)
		return ok && av.Value == bv.Value
	case *NilValue:
		_, ok := b.(*NilValue)
		return ok
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		return ok && av.Elements == bv.Elements
	case *DictValue:
		bv, ok := b.(*DictValue)
		return ok && av.entries == bv.entries
	case *InstanceValue:
		bv, ok := b.(*InstanceValue)
		return ok && av == bv
	}
	return a == b
}

// Truthy implements §3's truthiness rules: nil, false, 0, "", empty
// array/dict are falsy; everything else is truthy.
func Truthy(v Value) bool {
	switch vv := v.(type) {
	case *NilValue, nil:
		return false
	case *BoolValue:
		return vv.Value
	case *NumberValue:
		return vv.Value != 0
	case *StringValue:
		return vv.Value != ""
	case *ArrayValue:
		return len(*vv.Elements) != 0
	case *DictValue:
		return vv.Len() != 0
	}
	return true
}

// sortValues is shared by the `sorted` builtin and Array.sort method.
func sortValues(vals []Value, less func(a, b Value) bool) {
	sort.SliceStable(vals, func(i, j int) bool { return less(vals[i], vals[j]) })
}

func defaultLess(a, b Value) bool {
	if an, ok := a.(*NumberValue); ok {
		if bn, ok := b.(*NumberValue); ok {
			return an.Value < bn.Value
		}
	}
	if as, ok := a.(*StringValue); ok {
		if bs, ok := b.(*StringValue); ok {
			return as.Value < bs.Value
		}
	}
	return a.String() < b.String()
}
