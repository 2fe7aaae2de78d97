package cmd

import (
	"fmt"
	"os"

	"github.com/quantum-lang/quantum/internal/parser"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check PATH",
	Short: "Parse a file without running it",
	Long: `Parse the file at PATH and report syntax errors.

Exits 0 if the file parses cleanly, 1 otherwise, printing each error
as "path:line:col: error: message".`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	_, errs := parser.ParseSource(string(content))
	if len(errs) == 0 {
		return nil
	}
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "%s:%d:%d: error: %s\n", path, e.Line, e.Column, e.Message)
	}
	os.Exit(1)
	return nil
}
