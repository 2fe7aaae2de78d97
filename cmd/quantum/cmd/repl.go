package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/quantum-lang/quantum/internal/interp"
	"github.com/quantum-lang/quantum/internal/parser"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Quantum REPL",
	Long:  `Open an interactive read-eval-print loop. Equivalent to a bare "quantum" invocation with no file argument.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startRepl()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// startRepl implements §6's no-argument invocation: read one line per
// prompt, parse it standalone, execute it against a persistent
// interpreter, and print any error inline without aborting the session.
func startRepl() error {
	interpreter := interp.New(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("quantum %s — Ctrl-D to exit\n", Version)
	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		program, errs := parser.ParseSource(line)
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "error: %s\n", e)
			}
			continue
		}

		if raised := interpreter.Run(program); raised != nil {
			fmt.Fprintf(os.Stderr, "%s\n", raised.String())
		}
	}
}
