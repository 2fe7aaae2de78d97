package cmd

import (
	"fmt"
	"os"

	qerrors "github.com/quantum-lang/quantum/internal/errors"
	"github.com/quantum-lang/quantum/internal/interp"
	"github.com/quantum-lang/quantum/internal/parser"
	"github.com/spf13/cobra"
)

var dumpAST bool

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Quantum file or expression",
	Long: `Execute a Quantum program from a file or inline expression.

Examples:
  # Run a script file
  quantum run script.sa

  # Evaluate an inline expression
  quantum run -e "print(1 + 2)"

  # Run with an AST dump (for debugging)
  quantum run --dump-ast script.sa`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST (for debugging)")
}

func runFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return execute(string(content), path)
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}
	return execute(input, filename)
}

// execute implements §6's run semantics: warn on a non-.sa extension,
// parse, report syntax errors as source-line-and-caret diagnostics, run
// the program, and translate an uncaught exception into exit code 1.
func execute(input, filename string) error {
	if filename != "<eval>" && !hasQuantumExtension(filename) {
		fmt.Fprintf(os.Stderr, "warning: %s does not use the .sa extension\n", filename)
	}

	program, errs := parser.ParseSource(input)
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, qerrors.FormatErrors(toCompilerErrors(errs, input, filename), false))
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if dumpAST {
		fmt.Println("AST:")
		fmt.Println(program.String())
		fmt.Println()
	}

	interpreter := interp.New(os.Stdout)
	if raised := interpreter.Run(program); raised != nil {
		fmt.Fprintf(os.Stderr, "%s\n", raised.String())
		return fmt.Errorf("uncaught exception")
	}
	return nil
}

func hasQuantumExtension(filename string) bool {
	return len(filename) >= 3 && filename[len(filename)-3:] == ".sa"
}
