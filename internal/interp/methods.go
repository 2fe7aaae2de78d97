package interp

import (
	"math"
	"sort"
	"strings"
)

// Builtin method-dispatch tables (§4.3.2): Array/String/Dict values
// carry no class of their own, so method calls on them are resolved
// here instead of through ClassValue.FindMethod.

type arrayMethodFn func(i *Interpreter, self *ArrayValue, args []Value) Value
type stringMethodFn func(i *Interpreter, self *StringValue, args []Value) Value
type dictMethodFn func(i *Interpreter, self *DictValue, args []Value) Value

// arrayMethods is assigned in init from arrayMethodTable: the table's
// entries call back into the evaluator, which itself reads arrayMethods,
// so initializing it directly would form an initialization cycle.
var arrayMethods map[string]arrayMethodFn

func init() { arrayMethods = arrayMethodTable }

var arrayMethodTable = map[string]arrayMethodFn{
	"push": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		*self.Elements = append(*self.Elements, args...)
		return &NumberValue{Value: float64(len(*self.Elements))}
	},
	"append": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		*self.Elements = append(*self.Elements, args...)
		return Nil
	},
	"pop": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		n := len(*self.Elements)
		if n == 0 {
			i.raiseError("IndexError", "pop from empty array")
			return Nil
		}
		idx := n - 1
		if len(args) > 0 {
			idx = i.indexToInt(args[0], n)
		}
		v := (*self.Elements)[idx]
		*self.Elements = append((*self.Elements)[:idx], (*self.Elements)[idx+1:]...)
		return v
	},
	"shift": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		if len(*self.Elements) == 0 {
			return Nil
		}
		v := (*self.Elements)[0]
		*self.Elements = (*self.Elements)[1:]
		return v
	},
	"unshift": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		*self.Elements = append(append([]Value{}, args...), (*self.Elements)...)
		return &NumberValue{Value: float64(len(*self.Elements))}
	},
	"length": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		return &NumberValue{Value: float64(len(*self.Elements))}
	},
	"join": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		sep := ""
		if len(args) > 0 {
			sep = args[0].String()
		}
		parts := make([]string, len(*self.Elements))
		for idx, e := range *self.Elements {
			parts[idx] = e.String()
		}
		return &StringValue{Value: strings.Join(parts, sep)}
	},
	"sort": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		less := defaultLess
		if len(args) > 0 {
			if fn, ok := args[0].(*FunctionValue); ok {
				less = func(a, b Value) bool { return Truthy(i.callFunction(fn, []Value{a, b})) }
			}
		}
		sortValues(*self.Elements, less)
		return Nil
	},
	"reverse": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		elems := *self.Elements
		for l, r := 0, len(elems)-1; l < r; l, r = l+1, r-1 {
			elems[l], elems[r] = elems[r], elems[l]
		}
		return Nil
	},
	"indexOf": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		if len(args) == 0 {
			return &NumberValue{Value: -1}
		}
		for idx, e := range *self.Elements {
			if valuesEqual(e, args[0]) {
				return &NumberValue{Value: float64(idx)}
			}
		}
		return &NumberValue{Value: -1}
	},
	"contains": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		if len(args) == 0 {
			return &BoolValue{Value: false}
		}
		for _, e := range *self.Elements {
			if valuesEqual(e, args[0]) {
				return &BoolValue{Value: true}
			}
		}
		return &BoolValue{Value: false}
	},
	"slice": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		elems := *self.Elements
		start, stop := 0, len(elems)
		if len(args) > 0 {
			start = normalizeSliceIndex(int(i.asNumber(args[0])), len(elems))
		}
		if len(args) > 1 {
			stop = normalizeSliceIndex(int(i.asNumber(args[1])), len(elems))
		}
		if start < 0 {
			start = 0
		}
		if stop > len(elems) {
			stop = len(elems)
		}
		if start >= stop {
			return NewArray(nil)
		}
		out := append([]Value{}, elems[start:stop]...)
		return NewArray(out)
	},
	"map": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		fn, ok := args[0].(*FunctionValue)
		if !ok {
			i.raiseError("TypeError", "map() argument must be a function")
			return Nil
		}
		out := make([]Value, len(*self.Elements))
		for idx, e := range *self.Elements {
			out[idx] = i.callFunction(fn, []Value{e})
		}
		return NewArray(out)
	},
	"filter": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		fn, ok := args[0].(*FunctionValue)
		if !ok {
			i.raiseError("TypeError", "filter() argument must be a function")
			return Nil
		}
		out := []Value{}
		for _, e := range *self.Elements {
			if Truthy(i.callFunction(fn, []Value{e})) {
				out = append(out, e)
			}
		}
		return NewArray(out)
	},
	"reduce": func(i *Interpreter, self *ArrayValue, args []Value) Value {
		fn, ok := args[0].(*FunctionValue)
		if !ok {
			i.raiseError("TypeError", "reduce() argument must be a function")
			return Nil
		}
		elems := *self.Elements
		var acc Value
		start := 0
		if len(args) > 1 {
			acc = args[1]
		} else if len(elems) > 0 {
			acc = elems[0]
			start = 1
		} else {
			i.raiseError("TypeError", "reduce() of empty array with no initial value")
			return Nil
		}
		for _, e := range elems[start:] {
			acc = i.callFunction(fn, []Value{acc, e})
		}
		return acc
	},
}

var stringMethods = map[string]stringMethodFn{
	"length": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &NumberValue{Value: float64(len([]rune(self.Value)))}
	},
	"upper": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &StringValue{Value: strings.ToUpper(self.Value)}
	},
	"lower": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &StringValue{Value: strings.ToLower(self.Value)}
	},
	"trim": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &StringValue{Value: strings.TrimSpace(self.Value)}
	},
	"strip": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &StringValue{Value: trimWithChars(self.Value, args, strings.Trim)}
	},
	"lstrip": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &StringValue{Value: trimWithChars(self.Value, args, strings.TrimLeft)}
	},
	"rstrip": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &StringValue{Value: trimWithChars(self.Value, args, strings.TrimRight)}
	},
	"chars": func(i *Interpreter, self *StringValue, args []Value) Value {
		runes := []rune(self.Value)
		out := make([]Value, len(runes))
		for idx, r := range runes {
			out[idx] = &StringValue{Value: string(r)}
		}
		return NewArray(out)
	},
	"charAt": func(i *Interpreter, self *StringValue, args []Value) Value {
		runes := []rune(self.Value)
		if len(args) == 0 {
			return &StringValue{Value: ""}
		}
		n := i.indexToInt(args[0], len(runes))
		if n < 0 || n >= len(runes) {
			return &StringValue{Value: ""}
		}
		return &StringValue{Value: string(runes[n])}
	},
	"at": func(i *Interpreter, self *StringValue, args []Value) Value {
		runes := []rune(self.Value)
		if len(args) == 0 {
			return Nil
		}
		n := i.indexToInt(args[0], len(runes))
		if n < 0 || n >= len(runes) {
			return Nil
		}
		return &StringValue{Value: string(runes[n])}
	},
	"charCodeAt": func(i *Interpreter, self *StringValue, args []Value) Value {
		runes := []rune(self.Value)
		n := 0
		if len(args) > 0 {
			n = i.indexToInt(args[0], len(runes))
		}
		if n < 0 || n >= len(runes) {
			return &NumberValue{Value: math.NaN()}
		}
		return &NumberValue{Value: float64(runes[n])}
	},
	"substr": func(i *Interpreter, self *StringValue, args []Value) Value {
		return stringSlice(self.Value, args, i)
	},
	"substring": func(i *Interpreter, self *StringValue, args []Value) Value {
		return stringSlice(self.Value, args, i)
	},
	"slice": func(i *Interpreter, self *StringValue, args []Value) Value {
		return stringSlice(self.Value, args, i)
	},
	"padStart": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &StringValue{Value: pad(self.Value, args, i, true)}
	},
	"padEnd": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &StringValue{Value: pad(self.Value, args, i, false)}
	},
	"translate": func(i *Interpreter, self *StringValue, args []Value) Value {
		if len(args) == 0 {
			return self
		}
		table, ok := args[0].(*DictValue)
		if !ok {
			return self
		}
		var sb strings.Builder
		for _, r := range self.Value {
			if repl, ok := table.Get(&StringValue{Value: string(r)}); ok {
				sb.WriteString(repl.String())
			} else {
				sb.WriteRune(r)
			}
		}
		return &StringValue{Value: sb.String()}
	},
	"isdigit": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &BoolValue{Value: nonEmptyAll(self.Value, func(r rune) bool { return r >= '0' && r <= '9' })}
	},
	"isnumeric": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &BoolValue{Value: nonEmptyAll(self.Value, func(r rune) bool { return r >= '0' && r <= '9' })}
	},
	"isalpha": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &BoolValue{Value: nonEmptyAll(self.Value, func(r rune) bool {
			return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		})}
	},
	"isalnum": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &BoolValue{Value: nonEmptyAll(self.Value, func(r rune) bool {
			return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		})}
	},
	"isspace": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &BoolValue{Value: nonEmptyAll(self.Value, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' })}
	},
	"isupper": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &BoolValue{Value: self.Value != "" && self.Value == strings.ToUpper(self.Value) && self.Value != strings.ToLower(self.Value)}
	},
	"islower": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &BoolValue{Value: self.Value != "" && self.Value == strings.ToLower(self.Value) && self.Value != strings.ToUpper(self.Value)}
	},
	"includes": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &BoolValue{Value: len(args) > 0 && strings.Contains(self.Value, args[0].String())}
	},
	"split": func(i *Interpreter, self *StringValue, args []Value) Value {
		sep := " "
		if len(args) > 0 {
			sep = args[0].String()
		}
		var parts []string
		if sep == "" {
			for _, r := range self.Value {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(self.Value, sep)
		}
		out := make([]Value, len(parts))
		for idx, p := range parts {
			out[idx] = &StringValue{Value: p}
		}
		return NewArray(out)
	},
	"replace": func(i *Interpreter, self *StringValue, args []Value) Value {
		if len(args) < 2 {
			return self
		}
		return &StringValue{Value: strings.ReplaceAll(self.Value, args[0].String(), args[1].String())}
	},
	"contains": func(i *Interpreter, self *StringValue, args []Value) Value {
		if len(args) == 0 {
			return &BoolValue{Value: false}
		}
		return &BoolValue{Value: strings.Contains(self.Value, args[0].String())}
	},
	"startsWith": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &BoolValue{Value: len(args) > 0 && strings.HasPrefix(self.Value, args[0].String())}
	},
	"endsWith": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &BoolValue{Value: len(args) > 0 && strings.HasSuffix(self.Value, args[0].String())}
	},
	"indexOf": func(i *Interpreter, self *StringValue, args []Value) Value {
		if len(args) == 0 {
			return &NumberValue{Value: -1}
		}
		return &NumberValue{Value: float64(indexOfSubstring(self.Value, args[0].String()))}
	},
	"repeat": func(i *Interpreter, self *StringValue, args []Value) Value {
		n := 0
		if len(args) > 0 {
			n = int(i.asNumber(args[0]))
		}
		if n < 0 {
			n = 0
		}
		return &StringValue{Value: strings.Repeat(self.Value, n)}
	},
	"format": func(i *Interpreter, self *StringValue, args []Value) Value {
		return &StringValue{Value: formatPercent(i, self.Value, args)}
	},
}

var dictMethods = map[string]dictMethodFn{
	"keys": func(i *Interpreter, self *DictValue, args []Value) Value {
		return NewArray(self.Keys())
	},
	"values": func(i *Interpreter, self *DictValue, args []Value) Value {
		return NewArray(self.Values())
	},
	"items": func(i *Interpreter, self *DictValue, args []Value) Value {
		keys, vals := self.Keys(), self.Values()
		out := make([]Value, len(keys))
		for idx := range keys {
			out[idx] = NewArray([]Value{keys[idx], vals[idx]})
		}
		return NewArray(out)
	},
	"entries": func(i *Interpreter, self *DictValue, args []Value) Value {
		keys, vals := self.Keys(), self.Values()
		out := make([]Value, len(keys))
		for idx := range keys {
			out[idx] = NewArray([]Value{keys[idx], vals[idx]})
		}
		return NewArray(out)
	},
	"get": func(i *Interpreter, self *DictValue, args []Value) Value {
		if len(args) == 0 {
			return Nil
		}
		if v, ok := self.Get(args[0]); ok {
			return v
		}
		if len(args) > 1 {
			return args[1]
		}
		return Nil
	},
	"has": func(i *Interpreter, self *DictValue, args []Value) Value {
		if len(args) == 0 {
			return &BoolValue{Value: false}
		}
		_, ok := self.Get(args[0])
		return &BoolValue{Value: ok}
	},
	"contains": func(i *Interpreter, self *DictValue, args []Value) Value {
		if len(args) == 0 {
			return &BoolValue{Value: false}
		}
		_, ok := self.Get(args[0])
		return &BoolValue{Value: ok}
	},
	"hasOwnProperty": func(i *Interpreter, self *DictValue, args []Value) Value {
		if len(args) == 0 {
			return &BoolValue{Value: false}
		}
		_, ok := self.Get(args[0])
		return &BoolValue{Value: ok}
	},
	"set": func(i *Interpreter, self *DictValue, args []Value) Value {
		if len(args) < 2 {
			return Nil
		}
		self.Set(args[0], args[1])
		return Nil
	},
	"size": func(i *Interpreter, self *DictValue, args []Value) Value {
		return &NumberValue{Value: float64(self.Len())}
	},
	"delete": func(i *Interpreter, self *DictValue, args []Value) Value {
		if len(args) == 0 {
			return &BoolValue{Value: false}
		}
		return &BoolValue{Value: self.Delete(args[0])}
	},
	"length": func(i *Interpreter, self *DictValue, args []Value) Value {
		return &NumberValue{Value: float64(self.Len())}
	},
}

// sortedKeys is shared by the `sorted` builtin for dict input (§4.3.3).
func sortedKeys(d *DictValue) []Value {
	keys := d.Keys()
	sort.SliceStable(keys, func(i, j int) bool { return defaultLess(keys[i], keys[j]) })
	return keys
}

func trimWithChars(s string, args []Value, trim func(string, string) string) string {
	cutset := " \t\n\r"
	if len(args) > 0 {
		cutset = args[0].String()
	}
	return trim(s, cutset)
}

func stringSlice(s string, args []Value, i *Interpreter) Value {
	runes := []rune(s)
	start, stop := 0, len(runes)
	if len(args) > 0 {
		start = normalizeSliceIndex(int(i.asNumber(args[0])), len(runes))
	}
	if len(args) > 1 {
		stop = normalizeSliceIndex(int(i.asNumber(args[1])), len(runes))
	}
	if start < 0 {
		start = 0
	}
	if stop > len(runes) {
		stop = len(runes)
	}
	if start >= stop {
		return &StringValue{Value: ""}
	}
	return &StringValue{Value: string(runes[start:stop])}
}

func pad(s string, args []Value, i *Interpreter, start bool) string {
	if len(args) == 0 {
		return s
	}
	width := int(i.asNumber(args[0]))
	fill := " "
	if len(args) > 1 {
		fill = args[1].String()
	}
	if fill == "" {
		fill = " "
	}
	runes := []rune(s)
	for len(runes) < width {
		fillRunes := []rune(fill)
		need := width - len(runes)
		if need > len(fillRunes) {
			need = len(fillRunes)
		}
		if start {
			runes = append(append([]rune{}, fillRunes[:need]...), runes...)
		} else {
			runes = append(runes, fillRunes[:need]...)
		}
	}
	return string(runes)
}

func nonEmptyAll(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}
