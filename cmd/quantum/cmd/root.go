package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var checkPath string

var rootCmd = &cobra.Command{
	Use:   "quantum",
	Short: "Quantum interpreter",
	Long: `quantum is an interpreter for the Quantum scripting language.

Quantum unifies three interchangeable surface dialects over one AST
and evaluator: brace-delimited C/JS-style syntax, Python-style
significant indentation, and a native form mixing both, plus
JS-flavored template-literal and f-string interpolation. A bare
invocation with a file argument runs it; with no argument it opens a
REPL.`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDefault,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.Flags().BoolP("version", "v", false, "print version information and exit")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.Flags().StringVar(&checkPath, "check", "", "parse PATH and exit 0/1 without running it, per §6's --check flag")
}

// runDefault implements §6's bare-invocation dispatch: --check short-
// circuits to a parse-only check; otherwise one positional argument
// runs that file, no arguments opens the REPL.
func runDefault(cmd *cobra.Command, args []string) error {
	if checkPath != "" {
		return runCheck(cmd, []string{checkPath})
	}
	if len(args) == 1 {
		return runFile(args[0])
	}
	return startRepl()
}
