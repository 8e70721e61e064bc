/*
Neon-repl is a line-oriented debugging shell for the Neon front/mid-end.

Source lines accumulate into a single growing buffer as they're entered;
a line starting with ":" is a shell command instead of source text:

	:tokens   print the token stream for the buffer so far
	:tree     print the parse tree
	:ast      print the AST
	:types    print the resolved type of every AST node, by kind
	:ir       print the lowered LLVM IR
	:reset    clear the accumulated buffer
	:quit     exit

This gives an incremental, interactive view of every pipeline stage
instead of a one-shot verbose compile.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/llir/llvm/ir"

	"github.com/piilip/neon/internal/ast"
	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/irgen"
	"github.com/piilip/neon/internal/lex"
	"github.com/piilip/neon/internal/lr"
	"github.com/piilip/neon/internal/typecheck"
	"github.com/piilip/neon/internal/types"
)

const moduleName = "<repl>"

func main() {
	rl, err := readline.NewEx(&readline.Config{Prompt: "neon> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create readline config: %s\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	var buf strings.Builder

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if line == ":reset" {
				buf.Reset()
			}
			if !runCommand(line, buf.String()) {
				return
			}
			continue
		}

		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

func runCommand(cmd, source string) bool {
	switch cmd {
	case ":quit", ":q":
		return false
	case ":reset":
		fmt.Println("buffer cleared")
		return true
	case ":tokens":
		printTokens(source)
	case ":tree":
		printTree(source)
	case ":ast":
		printAST(source)
	case ":types":
		printTypes(source)
	case ":ir":
		printIR(source)
	default:
		fmt.Printf("unrecognized command %q\n", cmd)
	}
	return true
}

func printTokens(source string) {
	bag := diag.NewBag()
	lexer := lex.New(moduleName, source, bag)
	for _, tok := range lexer.Tokens() {
		fmt.Println(tok.String())
	}
	reportDiagnostics(bag)
}

func printTree(source string) {
	bag := diag.NewBag()
	tree := lr.Parse(moduleName, source, lr.NeonTable(), bag)
	if tree != nil {
		fmt.Print(tree.String())
	}
	reportDiagnostics(bag)
}

func printAST(source string) {
	bag := diag.NewBag()
	root := buildAST(source, bag)
	if root != nil {
		fmt.Print(ast.Print(root))
	}
	reportDiagnostics(bag)
}

func printTypes(source string) {
	bag := diag.NewBag()
	root := buildAST(source, bag)
	if root == nil {
		reportDiagnostics(bag)
		return
	}
	typeMap, _ := typeCheckREPL(root, bag)
	printTypeMap(root, typeMap)
	reportDiagnostics(bag)
}

func printIR(source string) {
	bag := diag.NewBag()
	root := buildAST(source, bag)
	if root == nil {
		reportDiagnostics(bag)
		return
	}
	typeMap, composites := typeCheckREPL(root, bag)
	if bag.Fatal() {
		reportDiagnostics(bag)
		return
	}

	m := ir.NewModule()
	gen := irgen.NewGenerator(moduleName, bag, typeMap, composites, m, map[string]*ir.Func{}, map[string]*ir.Global{})
	gen.LowerProgram(root)
	gen.Finish()

	irgen.Emit(m, os.Stdout)
	reportDiagnostics(bag)
}

func buildAST(source string, bag *diag.Bag) *ast.Node {
	tree := lr.Parse(moduleName, source, lr.NeonTable(), bag)
	if tree == nil {
		return nil
	}
	builder := ast.NewBuilder(moduleName, bag)
	return builder.Build(tree)
}

func typeCheckREPL(root *ast.Node, bag *diag.Bag) (*types.Map, *types.CompositeSet) {
	typeMap := types.NewMap()
	composites := types.NewCompositeSet()
	analyzer := typecheck.NewAnalyzer(moduleName, bag, typeMap, composites)
	analyzer.Analyze(root)
	return typeMap, composites
}

func printTypeMap(root *ast.Node, typeMap *types.Map) {
	walkAndPrintTypes(root, typeMap, 0)
}

func walkAndPrintTypes(n *ast.Node, typeMap *types.Map, indent int) {
	if n == nil {
		return
	}
	t, _ := typeMap.Get(n)
	fmt.Printf("%s%s: %s\n", strings.Repeat("  ", indent), n.Kind, t)
	for _, c := range ast.Children(n) {
		walkAndPrintTypes(c, typeMap, indent+1)
	}
}

func reportDiagnostics(bag *diag.Bag) {
	for _, d := range bag.All() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}
