package quantum_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/quantum-lang/quantum/pkg/quantum"
)

// Example shows basic one-shot evaluation.
func Example() {
	engine, err := quantum.New()
	if err != nil {
		log.Fatal(err)
	}

	result, err := engine.Eval(`print("Hello, World!")`)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(result.Output)
	// Output: Hello, World!
}

// Example_compile demonstrates compiling once and running multiple times.
func Example_compile() {
	engine, err := quantum.New()
	if err != nil {
		log.Fatal(err)
	}

	program, err := engine.Compile(`
let greeting = "Hello!"
print(greeting)
`)
	if err != nil {
		log.Fatal(err)
	}

	result1, _ := engine.Run(program)
	fmt.Print(result1.Output)

	result2, _ := engine.Run(program)
	fmt.Print(result2.Output)

	// Output:
	// Hello!
	// Hello!
}

// Example_withOutput shows how to capture program output to a custom writer.
func Example_withOutput() {
	var buf bytes.Buffer

	engine, err := quantum.New(quantum.WithOutput(&buf))
	if err != nil {
		log.Fatal(err)
	}

	if _, err := engine.Eval(`print("piped")`); err != nil {
		log.Fatal(err)
	}

	fmt.Print(buf.String())
	// Output: piped
}
