package interp

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

var stdinReader = bufio.NewReader(os.Stdin)

func native(name string, fn NativeFunc) *NativeValue { return &NativeValue{Name: name, Fn: fn} }

func arg(args []Value, n int) Value {
	if n < len(args) {
		return args[n]
	}
	return Nil
}

// registerBuiltins binds the fixed global registry described in
// §4.3.3: free functions, Math wrappers and constants, the Math and
// console dicts, and exception/type constructor stubs.
func registerBuiltins(i *Interpreter) {
	g := i.globalEnv

	g.Define("num", native("num", biNum))
	g.Define("str", native("str", biStr))
	g.Define("bool", native("bool", biBool))
	g.Define("type", native("type", biType))
	g.Define("isinstance", native("isinstance", biIsInstance))
	g.Define("classname", native("classname", biClassname))
	g.Define("id", native("id", biId))
	g.Define("len", native("len", biLen))
	g.Define("range", native("range", biRange))
	g.Define("enumerate", native("enumerate", biEnumerate))
	g.Define("sum", native("sum", biSum))
	g.Define("any", native("any", biAny))
	g.Define("all", native("all", biAll))
	g.Define("sorted", native("sorted", biSorted))
	g.Define("rand", native("rand", func(i *Interpreter, args []Value) Value {
		return &NumberValue{Value: i.rand.Float64()}
	}))
	g.Define("rand_int", native("rand_int", biRandInt))
	g.Define("time", native("time", func(i *Interpreter, args []Value) Value {
		return &NumberValue{Value: float64(time.Now().UnixNano()) / 1e9}
	}))
	g.Define("sleep", native("sleep", func(i *Interpreter, args []Value) Value {
		time.Sleep(time.Duration(i.asNumber(arg(args, 0)) * float64(time.Second)))
		return Nil
	}))
	g.Define("exit", native("exit", func(i *Interpreter, args []Value) Value {
		code := 0
		if len(args) > 0 {
			code = int(i.asNumber(args[0]))
		}
		os.Exit(code)
		return Nil
	}))
	g.Define("assert", native("assert", biAssert))
	g.Define("chr", native("chr", func(i *Interpreter, args []Value) Value {
		return &StringValue{Value: string(rune(int(i.asNumber(arg(args, 0)))))}
	}))
	g.Define("ord", native("ord", func(i *Interpreter, args []Value) Value {
		s, ok := arg(args, 0).(*StringValue)
		if !ok || s.Value == "" {
			i.raiseError("TypeError", "ord() expects a single character")
			return Nil
		}
		return &NumberValue{Value: float64([]rune(s.Value)[0])}
	}))
	g.Define("hex", native("hex", func(i *Interpreter, args []Value) Value {
		return &StringValue{Value: "0x" + strconv.FormatInt(int64(i.asNumber(arg(args, 0))), 16)}
	}))
	g.Define("bin", native("bin", func(i *Interpreter, args []Value) Value {
		return &StringValue{Value: "0b" + strconv.FormatInt(int64(i.asNumber(arg(args, 0))), 2)}
	}))
	g.Define("array", native("array", biArray))
	g.Define("keys", native("keys", func(i *Interpreter, args []Value) Value {
		d, ok := arg(args, 0).(*DictValue)
		if !ok {
			i.raiseError("TypeError", "keys() expects a dict")
			return Nil
		}
		return NewArray(d.Keys())
	}))
	g.Define("values", native("values", func(i *Interpreter, args []Value) Value {
		d, ok := arg(args, 0).(*DictValue)
		if !ok {
			i.raiseError("TypeError", "values() expects a dict")
			return Nil
		}
		return NewArray(d.Values())
	}))
	g.Define("xor_bytes", native("xor_bytes", biXorBytes))
	g.Define("to_hex", native("to_hex", func(i *Interpreter, args []Value) Value {
		s, _ := arg(args, 0).(*StringValue)
		return &StringValue{Value: hex.EncodeToString([]byte(s.Value))}
	}))
	g.Define("from_hex", native("from_hex", func(i *Interpreter, args []Value) Value {
		s, _ := arg(args, 0).(*StringValue)
		b, err := hex.DecodeString(s.Value)
		if err != nil {
			i.raiseError("ValueError", "invalid hex string")
			return Nil
		}
		return &StringValue{Value: string(b)}
	}))
	g.Define("rot13", native("rot13", func(i *Interpreter, args []Value) Value {
		s, _ := arg(args, 0).(*StringValue)
		return &StringValue{Value: rot13(s.Value)}
	}))
	g.Define("base64_encode", native("base64_encode", func(i *Interpreter, args []Value) Value {
		s, _ := arg(args, 0).(*StringValue)
		return &StringValue{Value: base64.StdEncoding.EncodeToString([]byte(s.Value))}
	}))
	g.Define("printf", native("printf", biPrintf))
	g.Define("sprintf", native("sprintf", biSprintf))
	g.Define("format", native("format", biSprintf))
	g.Define("scanf", native("scanf", biScanf))
	g.Define("input", native("input", biInput))
	g.Define("__format__", native("__format__", biFormatOne))

	registerMathWrappers(g)
	g.Define("PI", &NumberValue{Value: math.Pi})
	g.Define("E", &NumberValue{Value: math.E})
	g.Define("INF", &NumberValue{Value: math.Inf(1)})
	g.Define("NaN", &NumberValue{Value: math.NaN()})

	g.Define("Math", buildMathDict(i))
	g.Define("console", buildConsoleDict())

	registerTypeStubs(g)
}

func biNum(i *Interpreter, args []Value) Value {
	switch v := arg(args, 0).(type) {
	case *NumberValue:
		return v
	case *StringValue:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			i.raiseError("ValueError", "could not convert string to number: '%s'", v.Value)
			return Nil
		}
		return &NumberValue{Value: n}
	case *BoolValue:
		if v.Value {
			return &NumberValue{Value: 1}
		}
		return &NumberValue{Value: 0}
	}
	i.raiseError("TypeError", "cannot convert %s to number", arg(args, 0).Type())
	return Nil
}

func biStr(i *Interpreter, args []Value) Value { return &StringValue{Value: arg(args, 0).String()} }

func biBool(i *Interpreter, args []Value) Value { return &BoolValue{Value: Truthy(arg(args, 0))} }

func biType(i *Interpreter, args []Value) Value { return &StringValue{Value: arg(args, 0).Type()} }

func biIsInstance(i *Interpreter, args []Value) Value {
	val := arg(args, 0)
	want := arg(args, 1)
	inst, ok := val.(*InstanceValue)
	if cls, ok2 := want.(*ClassValue); ok2 {
		return &BoolValue{Value: ok && isInstanceOf(inst.Class, cls.Name)}
	}
	name, _ := want.(*StringValue)
	if name == nil {
		return &BoolValue{Value: false}
	}
	if ok {
		return &BoolValue{Value: isInstanceOf(inst.Class, name.Value)}
	}
	return &BoolValue{Value: val.Type() == name.Value}
}

func biClassname(i *Interpreter, args []Value) Value {
	switch v := arg(args, 0).(type) {
	case *InstanceValue:
		return &StringValue{Value: v.Class.Name}
	case *ClassValue:
		return &StringValue{Value: v.Name}
	}
	return &StringValue{Value: arg(args, 0).Type()}
}

func biId(i *Interpreter, args []Value) Value {
	return &NumberValue{Value: float64(fmt.Sprintf("%p", arg(args, 0))[2] - '0')}
}

func biLen(i *Interpreter, args []Value) Value {
	switch v := arg(args, 0).(type) {
	case *ArrayValue:
		return &NumberValue{Value: float64(len(*v.Elements))}
	case *StringValue:
		return &NumberValue{Value: float64(len([]rune(v.Value)))}
	case *DictValue:
		return &NumberValue{Value: float64(v.Len())}
	case *TupleValue:
		return &NumberValue{Value: float64(len(v.Elements))}
	}
	i.raiseError("TypeError", "object of type '%s' has no len()", arg(args, 0).Type())
	return Nil
}

func biRange(i *Interpreter, args []Value) Value {
	var start, stop, step float64 = 0, 0, 1
	switch len(args) {
	case 1:
		stop = i.asNumber(args[0])
	case 2:
		start, stop = i.asNumber(args[0]), i.asNumber(args[1])
	default:
		start, stop, step = i.asNumber(args[0]), i.asNumber(args[1]), i.asNumber(args[2])
	}
	if step == 0 {
		i.raiseError("ValueError", "range() step must not be zero")
		return Nil
	}
	var out []Value
	if step > 0 {
		for v := start; v < stop; v += step {
			out = append(out, &NumberValue{Value: v})
		}
	} else {
		for v := start; v > stop; v += step {
			out = append(out, &NumberValue{Value: v})
		}
	}
	return NewArray(out)
}

func biEnumerate(i *Interpreter, args []Value) Value {
	start := 0
	if len(args) > 1 {
		start = int(i.asNumber(args[1]))
	}
	items := i.iterate(arg(args, 0))
	out := make([]Value, len(items))
	for idx, item := range items {
		out[idx] = NewArray([]Value{&NumberValue{Value: float64(start + idx)}, item})
	}
	return NewArray(out)
}

func biSum(i *Interpreter, args []Value) Value {
	items := i.iterate(arg(args, 0))
	total := 0.0
	if len(args) > 1 {
		total = i.asNumber(args[1])
	}
	for _, item := range items {
		total += i.asNumber(item)
	}
	return &NumberValue{Value: total}
}

func biAny(i *Interpreter, args []Value) Value {
	for _, item := range i.iterate(arg(args, 0)) {
		if Truthy(item) {
			return &BoolValue{Value: true}
		}
	}
	return &BoolValue{Value: false}
}

func biAll(i *Interpreter, args []Value) Value {
	for _, item := range i.iterate(arg(args, 0)) {
		if !Truthy(item) {
			return &BoolValue{Value: false}
		}
	}
	return &BoolValue{Value: true}
}

func biSorted(i *Interpreter, args []Value) Value {
	var items []Value
	if d, ok := arg(args, 0).(*DictValue); ok {
		items = sortedKeys(d)
		return NewArray(items)
	}
	items = append([]Value{}, i.iterate(arg(args, 0))...)
	reverse := false
	if len(args) > 1 {
		reverse = Truthy(args[1])
	}
	sort.SliceStable(items, func(a, b int) bool {
		if reverse {
			return defaultLess(items[b], items[a])
		}
		return defaultLess(items[a], items[b])
	})
	return NewArray(items)
}

func biRandInt(i *Interpreter, args []Value) Value {
	lo, hi := 0, 0
	if len(args) == 1 {
		hi = int(i.asNumber(args[0]))
	} else if len(args) >= 2 {
		lo, hi = int(i.asNumber(args[0])), int(i.asNumber(args[1]))
	}
	if hi <= lo {
		return &NumberValue{Value: float64(lo)}
	}
	return &NumberValue{Value: float64(lo + i.rand.Intn(hi-lo+1))}
}

func biAssert(i *Interpreter, args []Value) Value {
	if !Truthy(arg(args, 0)) {
		msg := "assertion failed"
		if len(args) > 1 {
			msg = args[1].String()
		}
		i.raiseError("RuntimeError", "%s", msg)
	}
	return Nil
}

func biArray(i *Interpreter, args []Value) Value {
	size := 0
	if len(args) > 0 {
		size = int(i.asNumber(args[0]))
	}
	var fill Value = Nil
	if len(args) > 1 {
		fill = args[1]
	}
	out := make([]Value, size)
	for idx := range out {
		out[idx] = fill
	}
	return NewArray(out)
}

func biXorBytes(i *Interpreter, args []Value) Value {
	a, _ := arg(args, 0).(*StringValue)
	b, _ := arg(args, 1).(*StringValue)
	if a == nil || b == nil || len(b.Value) == 0 {
		return &StringValue{Value: ""}
	}
	out := make([]byte, len(a.Value))
	for idx := range out {
		out[idx] = a.Value[idx] ^ b.Value[idx%len(b.Value)]
	}
	return &StringValue{Value: string(out)}
}

func rot13(s string) string {
	out := []rune(s)
	for idx, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
			out[idx] = 'a' + (r-'a'+13)%26
		case r >= 'A' && r <= 'Z':
			out[idx] = 'A' + (r-'A'+13)%26
		}
	}
	return string(out)
}

func biPrintf(i *Interpreter, args []Value) Value {
	if len(args) == 0 {
		return Nil
	}
	tmpl, _ := args[0].(*StringValue)
	if tmpl == nil {
		i.write(args[0].String())
		return Nil
	}
	i.write(formatPercent(i, tmpl.Value, args[1:]))
	return Nil
}

func biSprintf(i *Interpreter, args []Value) Value {
	if len(args) == 0 {
		return &StringValue{Value: ""}
	}
	tmpl, _ := args[0].(*StringValue)
	if tmpl == nil {
		return &StringValue{Value: args[0].String()}
	}
	return &StringValue{Value: formatPercent(i, tmpl.Value, args[1:])}
}

func biFormatOne(i *Interpreter, args []Value) Value {
	val := arg(args, 0)
	spec, _ := arg(args, 1).(*StringValue)
	if spec == nil || spec.Value == "" {
		return &StringValue{Value: val.String()}
	}
	return &StringValue{Value: formatPercent(i, "%"+spec.Value, []Value{val})}
}

func biScanf(i *Interpreter, args []Value) Value {
	line, _ := stdinReader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	return &StringValue{Value: line}
}

func biInput(i *Interpreter, args []Value) Value {
	if len(args) > 0 {
		if s, ok := args[0].(*StringValue); ok {
			i.write(stripFormatSpecs(s.Value))
		}
	}
	line, _ := stdinReader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	return &StringValue{Value: line}
}

func registerMathWrappers(g *Environment) {
	one := func(name string, fn func(float64) float64) {
		g.Define(name, native(name, func(i *Interpreter, args []Value) Value {
			return &NumberValue{Value: fn(i.asNumber(arg(args, 0)))}
		}))
	}
	one("abs", math.Abs)
	one("sqrt", math.Sqrt)
	one("floor", math.Floor)
	one("ceil", math.Ceil)
	one("sin", math.Sin)
	one("cos", math.Cos)
	one("tan", math.Tan)
	one("log", math.Log)
	one("log2", math.Log2)

	g.Define("round", native("round", func(i *Interpreter, args []Value) Value {
		n := i.asNumber(arg(args, 0))
		if len(args) > 1 {
			p := math.Pow(10, i.asNumber(args[1]))
			return &NumberValue{Value: math.Round(n*p) / p}
		}
		return &NumberValue{Value: math.Round(n)}
	}))
	g.Define("pow", native("pow", func(i *Interpreter, args []Value) Value {
		return &NumberValue{Value: math.Pow(i.asNumber(arg(args, 0)), i.asNumber(arg(args, 1)))}
	}))
	g.Define("min", native("min", func(i *Interpreter, args []Value) Value { return minMax(i, args, true) }))
	g.Define("max", native("max", func(i *Interpreter, args []Value) Value { return minMax(i, args, false) }))
}

// minMax implements both `min`/`max`, which accept either a single
// array argument or variadic values (§4.3.3).
func minMax(i *Interpreter, args []Value, wantMin bool) Value {
	items := args
	if len(args) == 1 {
		if a, ok := args[0].(*ArrayValue); ok {
			items = *a.Elements
		}
	}
	if len(items) == 0 {
		i.raiseError("ValueError", "min()/max() arg is an empty sequence")
		return Nil
	}
	best := items[0]
	for _, item := range items[1:] {
		if wantMin && defaultLess(item, best) {
			best = item
		} else if !wantMin && defaultLess(best, item) {
			best = item
		}
	}
	return best
}

func buildMathDict(i *Interpreter) *DictValue {
	d := NewDict()
	set := func(name string, fn NativeFunc) { d.Set(&StringValue{Value: name}, native(name, fn)) }
	set("floor", func(i *Interpreter, args []Value) Value { return &NumberValue{Value: math.Floor(i.asNumber(arg(args, 0)))} })
	set("ceil", func(i *Interpreter, args []Value) Value { return &NumberValue{Value: math.Ceil(i.asNumber(arg(args, 0)))} })
	set("abs", func(i *Interpreter, args []Value) Value { return &NumberValue{Value: math.Abs(i.asNumber(arg(args, 0)))} })
	set("sqrt", func(i *Interpreter, args []Value) Value { return &NumberValue{Value: math.Sqrt(i.asNumber(arg(args, 0)))} })
	set("pow", func(i *Interpreter, args []Value) Value {
		return &NumberValue{Value: math.Pow(i.asNumber(arg(args, 0)), i.asNumber(arg(args, 1)))}
	})
	set("random", func(i *Interpreter, args []Value) Value { return &NumberValue{Value: i.rand.Float64()} })
	set("clamp", func(i *Interpreter, args []Value) Value {
		v, lo, hi := i.asNumber(arg(args, 0)), i.asNumber(arg(args, 1)), i.asNumber(arg(args, 2))
		if v < lo {
			return &NumberValue{Value: lo}
		}
		if v > hi {
			return &NumberValue{Value: hi}
		}
		return &NumberValue{Value: v}
	})
	set("min", func(i *Interpreter, args []Value) Value { return minMax(i, args, true) })
	set("max", func(i *Interpreter, args []Value) Value { return minMax(i, args, false) })
	d.Set(&StringValue{Value: "PI"}, &NumberValue{Value: math.Pi})
	d.Set(&StringValue{Value: "E"}, &NumberValue{Value: math.E})
	return d
}

func buildConsoleDict() *DictValue {
	d := NewDict()
	d.Set(&StringValue{Value: "log"}, native("log", func(i *Interpreter, args []Value) Value {
		i.write(joinArgs(args) + "\n")
		return Nil
	}))
	d.Set(&StringValue{Value: "warn"}, native("warn", func(i *Interpreter, args []Value) Value {
		i.write("[warn] " + joinArgs(args) + "\n")
		return Nil
	}))
	d.Set(&StringValue{Value: "error"}, native("error", func(i *Interpreter, args []Value) Value {
		fmt.Fprintln(os.Stderr, "[error] "+joinArgs(args))
		return Nil
	}))
	return d
}

func joinArgs(args []Value) string {
	parts := make([]string, len(args))
	for idx, a := range args {
		parts[idx] = a.String()
	}
	return strings.Join(parts, " ")
}

// registerTypeStubs binds coercion-constructor stubs that mirror the
// C-style Var type-hint coercion rules (§4.3 Var).
func registerTypeStubs(g *Environment) {
	coerce := func(name, hint string) {
		g.Define(name, native(name, func(i *Interpreter, args []Value) Value {
			return coerceToType(arg(args, 0), hint)
		}))
	}
	coerce("int", "int")
	coerce("long", "int")
	coerce("short", "int")
	coerce("float", "float")
	coerce("str", "string")
	coerce("bool", "bool")
	coerce("char", "char")

	g.Define("list", native("list", func(i *Interpreter, args []Value) Value {
		if len(args) == 0 {
			return NewArray(nil)
		}
		return NewArray(append([]Value{}, i.iterate(args[0])...))
	}))
	g.Define("tuple", native("tuple", func(i *Interpreter, args []Value) Value {
		if len(args) == 0 {
			return &TupleValue{}
		}
		return &TupleValue{Elements: append([]Value{}, i.iterate(args[0])...)}
	}))
	g.Define("dict", native("dict", func(i *Interpreter, args []Value) Value {
		return NewDict()
	}))
}
