package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/quantum-lang/quantum/internal/ast"
	qerrors "github.com/quantum-lang/quantum/internal/errors"
	"github.com/quantum-lang/quantum/internal/parser"
	"github.com/spf13/cobra"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Quantum source and display the AST",
	Long: `Parse Quantum source code and display its Abstract Syntax Tree.

Use -e to parse a single expression from the command line.
Use --dump-ast for an indented node-by-node dump instead of the
one-line rendering.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	program, errs := parser.ParseSource(input)
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, qerrors.FormatErrors(toCompilerErrors(errs, input, filename), false))
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if parseDumpAST {
		fmt.Println("Abstract Syntax Tree:")
		fmt.Println("=====================")
		dumpBlock(program, 0)
	} else {
		fmt.Println(program.String())
	}
	return nil
}

func indent(n int) string { return strings.Repeat("  ", n) }

func dumpBlock(block *ast.Block, depth int) {
	fmt.Printf("%sBlock (%d statements)\n", indent(depth), len(block.Stmts))
	for _, stmt := range block.Stmts {
		dumpStmt(stmt, depth+1)
	}
}

func dumpStmt(stmt ast.Statement, depth int) {
	pad := indent(depth)
	switch s := stmt.(type) {
	case *ast.Block:
		dumpBlock(s, depth)
	case *ast.ExprStmt:
		fmt.Printf("%sExprStmt\n", pad)
		dumpExpr(s.Expr, depth+1)
	case *ast.VarDecl:
		fmt.Printf("%sVarDecl %s (const=%v)\n", pad, s.Name, s.IsConst)
		if s.Init != nil {
			dumpExpr(s.Init, depth+1)
		}
	case *ast.FunctionDecl:
		fmt.Printf("%sFunctionDecl %s (%d params)\n", pad, s.Name, len(s.Params))
		dumpBlock(s.Body, depth+1)
	case *ast.ClassDecl:
		fmt.Printf("%sClassDecl %s extends %q (%d methods)\n", pad, s.Name, s.Base_, len(s.Methods))
	case *ast.If:
		fmt.Printf("%sIf\n", pad)
		dumpExpr(s.Cond, depth+1)
		dumpBlock(s.Then, depth+1)
		if s.Else != nil {
			dumpBlock(s.Else, depth+1)
		}
	case *ast.While:
		fmt.Printf("%sWhile\n", pad)
		dumpExpr(s.Cond, depth+1)
		dumpBlock(s.Body, depth+1)
	case *ast.For:
		fmt.Printf("%sFor %s\n", pad, s.Var)
		dumpBlock(s.Body, depth+1)
	case *ast.Return:
		fmt.Printf("%sReturn\n", pad)
		if s.Value != nil {
			dumpExpr(s.Value, depth+1)
		}
	case *ast.Print:
		fmt.Printf("%sPrint (%d args)\n", pad, len(s.Args))
	default:
		fmt.Printf("%s%T: %s\n", pad, stmt, stmt.String())
	}
}

func dumpExpr(expr ast.Expression, depth int) {
	pad := indent(depth)
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		fmt.Printf("%sNumberLiteral: %g\n", pad, e.Value)
	case *ast.StringLiteral:
		fmt.Printf("%sStringLiteral: %q\n", pad, e.Value)
	case *ast.BoolLiteral:
		fmt.Printf("%sBoolLiteral: %v\n", pad, e.Value)
	case *ast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", pad, e.Name)
	case *ast.BinaryExpression:
		fmt.Printf("%sBinaryExpression (%s)\n", pad, e.Op)
		dumpExpr(e.Left, depth+1)
		dumpExpr(e.Right, depth+1)
	case *ast.UnaryExpression:
		fmt.Printf("%sUnaryExpression (%s)\n", pad, e.Op)
		dumpExpr(e.Operand, depth+1)
	case *ast.CallExpression:
		fmt.Printf("%sCallExpression (%d args)\n", pad, len(e.Args))
		dumpExpr(e.Callee, depth+1)
	default:
		fmt.Printf("%s%T: %s\n", pad, expr, expr.String())
	}
}
