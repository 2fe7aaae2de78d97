package interp

import "github.com/quantum-lang/quantum/internal/ast"

// stdlibModules is the fixed table of stdlib-like module names Quantum
// recognizes on `import` (§4.3 "Import"). Quantum has no real packages
// of its own; these exist so scripts ported from Python/JS don't choke
// on their customary imports. Every recognized module contributes a
// set of names, each registered as either a no-op identity function or
// an empty class stub.
var stdlibModules = map[string][]string{
	"abc":          {"ABC", "abstractmethod"},
	"typing":       {"List", "Dict", "Optional", "Any", "Union", "Tuple"},
	"collections":  {"OrderedDict", "defaultdict", "namedtuple", "deque", "Counter"},
	"dataclasses":  {"dataclass", "field"},
	"enum":         {"Enum", "IntEnum", "auto"},
	"functools":    {"reduce", "partial", "wraps", "lru_cache"},
	"itertools":    {"chain", "product", "count", "cycle", "repeat"},
	"os":           {"getenv", "listdir", "mkdir", "remove", "environ"},
	"os.path":      {"join", "exists", "basename", "dirname"},
	"sys":          {"argv", "exit", "stdout", "stderr"},
	"re":           {"match", "search", "sub", "compile", "findall"},
	"json":         {"dumps", "loads"},
	"math":         {"sqrt", "floor", "ceil", "pow", "log"},
	"random":       {"random", "randint", "choice", "shuffle"},
	"datetime":     {"datetime", "date", "timedelta"},
	"pathlib":      {"Path"},
	"io":           {"StringIO", "BytesIO"},
	"copy":         {"copy", "deepcopy"},
}

// identityStub is the no-op native bound for any recognized name that
// isn't more naturally a class (e.g. `functools.partial`, `os.getenv`):
// it simply returns its first argument, or nil if called with none.
func identityStub(name string) *NativeValue {
	return native(name, func(i *Interpreter, args []Value) Value {
		return arg(args, 0)
	})
}

// classStub models names that read as types rather than functions
// (`typing.List`, `abc.ABC`, `enum.Enum`) as empty, base-less classes
// that can still be instantiated or subclassed harmlessly.
func classStub(name string) *ClassValue {
	return &ClassValue{
		Name:          name,
		Methods:       make(map[string]*FunctionValue),
		StaticMethods: make(map[string]*FunctionValue),
	}
}

var stubIsClass = map[string]bool{
	"ABC": true, "Enum": true, "IntEnum": true, "Path": true,
	"StringIO": true, "BytesIO": true, "datetime": true, "date": true,
	"timedelta": true, "OrderedDict": true, "defaultdict": true,
	"namedtuple": true, "deque": true, "Counter": true,
}

func buildStub(name string) Value {
	if stubIsClass[name] {
		return classStub(name)
	}
	return identityStub(name)
}

// importModule implements `import X [as Y]` and `from X import a, b [as
// c]` against the fixed stdlibModules table (§4.3 "Import"). Unknown
// module or member names still succeed — Quantum treats import as
// advisory, not a hard dependency resolution step: `import X` of an
// unknown module binds an empty dict, and an unknown `from X import a`
// member binds an identity stub, so the script keeps running.
func (i *Interpreter) importModule(s *ast.Import, env *Environment) {
	names := stdlibModules[s.Module]

	if len(s.Items) == 0 {
		alias := s.Module
		if s.Alias != "" {
			alias = s.Alias
		}
		mod := NewDict()
		for _, n := range names {
			mod.Set(&StringValue{Value: n}, buildStub(n))
		}
		env.Define(alias, mod)
		return
	}

	for _, item := range s.Items {
		alias := item.Name
		if item.Alias != "" {
			alias = item.Alias
		}
		env.Define(alias, buildStub(item.Name))
	}
}
