package cmd

import (
	"fmt"
	"os"

	qerrors "github.com/quantum-lang/quantum/internal/errors"
	"github.com/quantum-lang/quantum/internal/lexer"
	"github.com/quantum-lang/quantum/internal/parser"
	"github.com/spf13/cobra"
)

var (
	showPos    bool
	showType   bool
	onlyErrors bool
	evalExpr   string
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Quantum file or expression",
	Long: `Tokenize (lex) a Quantum program, including layout reconstruction,
and print the resulting tokens.

Examples:
  # Tokenize a script file
  quantum lex script.sa

  # Tokenize an inline expression
  quantum lex -e "1 + 2 * 3"

  # Show token types and positions
  quantum lex --show-type --show-pos script.sa`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal/error tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	tokens, lexErr := lexer.Tokenize(input)
	if lexErr != nil && !onlyErrors {
		ce := qerrors.FromLexError(lexErr, input, filename)
		fmt.Fprintln(os.Stderr, ce.Format(false))
	}

	for _, tok := range tokens {
		if onlyErrors && tok.Type != lexer.ILLEGAL {
			continue
		}
		printToken(tok)
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", len(tokens))
	}

	if lexErr != nil {
		return fmt.Errorf("tokenizing failed: %w", lexErr)
	}
	return nil
}

func printToken(tok lexer.Token) {
	var output string
	if showType {
		output = fmt.Sprintf("[%-12s]", tok.Type)
	}

	switch tok.Type {
	case lexer.EOF:
		output += " EOF"
	case lexer.ILLEGAL:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Literal)
	default:
		if tok.Literal == "" {
			output += fmt.Sprintf(" %s", tok.Type)
		} else {
			output += fmt.Sprintf(" %q", tok.Literal)
		}
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}

	fmt.Println(output)
}

// readSource resolves the -e flag / file-argument precedence shared by
// lex, parse, and run; with neither given it returns an error (stdin is
// not read).
func readSource(inline string, args []string) (input, filename string, err error) {
	if inline != "" {
		return inline, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}

// toCompilerErrors adapts parser diagnostics into internal/errors'
// CompilerError so run and parse report syntax errors with the same
// source-line-and-caret formatting (§7); check prints one
// path:line:col line per error instead.
func toCompilerErrors(errs []*parser.ParseError, source, file string) []*qerrors.CompilerError {
	diags := make([]qerrors.ParseDiagnostic, len(errs))
	for i, e := range errs {
		diags[i] = qerrors.ParseDiagnostic{Message: e.Message, Line: e.Line, Column: e.Column}
	}
	return qerrors.FromParseErrors(diags, source, file)
}
