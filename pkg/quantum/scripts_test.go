package quantum_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/quantum-lang/quantum/pkg/quantum"
)

// sampleScripts covers spec.md §8's six concrete scenarios: brace-style
// recursion, Python-style indentation, a class with __str__, try/except/
// finally, a list comprehension, and printf formatting.
var sampleScripts = []struct {
	name   string
	source string
}{
	{
		name:   "factorial_recursion",
		source: "fn f(n){ if n<=1 {return 1} return n*f(n-1) } print(f(5))",
	},
	{
		name: "python_style_function",
		source: "def g(a, b):\n" +
			"    return a + b\n" +
			"print(g(2, 3))\n",
	},
	{
		name: "class_with_str",
		source: "class A:\n" +
			"  def init(self,x): self.x=x\n" +
			"  def __str__(self): return \"A=\"+str(self.x)\n" +
			"print(A(7))\n",
	},
	{
		name: "try_except_finally",
		source: "try:\n" +
			"  raise ValueError(\"bad\")\n" +
			"except ValueError as e:\n" +
			"  print(\"caught\", e)\n" +
			"finally:\n" +
			"  print(\"done\")\n",
	},
	{
		name:   "list_comprehension",
		source: "let xs = [x*x for x in range(5) if x%2==0]; print(xs)",
	},
	{
		name:   "printf_formatting",
		source: `printf("%-5s=%03d\n","hi",7)`,
	},
}

func TestSampleScripts(t *testing.T) {
	for _, tc := range sampleScripts {
		t.Run(tc.name, func(t *testing.T) {
			engine, err := quantum.New()
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			result, err := engine.Eval(tc.source)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if !result.Success {
				t.Fatalf("script raised: %v", result.Raised)
			}

			snaps.MatchSnapshot(t, result.Output)
		})
	}
}
