/*
Neonc compiles a Neon source file (and everything it transitively imports)
into a single linked module and writes it out as textual LLVM IR (.ll).

Usage:

	neonc [flags] FILE

The flags are:

	-v, --verbose
		After compiling, print the parse tree and AST of every compiled
		module to standard output, then (if the program compiled and
		verified) the IR of the linked module.

	-o, --output FILE
		Write the emitted IR to FILE instead of deriving a name from the
		entry module.

	-c, --config FILE
		Load compiler settings from a TOML config file before applying
		flags (internal/config).
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/piilip/neon/internal/ast"
	"github.com/piilip/neon/internal/compiler"
	"github.com/piilip/neon/internal/config"
	"github.com/piilip/neon/internal/irgen"
)

const (
	ExitSuccess = iota
	ExitCompileError
	ExitVerifyError
	ExitIOError
)

var (
	returnCode   = ExitSuccess
	flagVerbose  = pflag.BoolP("verbose", "v", false, "print each module's parse tree and AST, then the linked IR")
	flagOutput   = pflag.StringP("output", "o", "", "output IR file path (defaults to <entry>.ll)")
	flagConfig   = pflag.StringP("config", "c", "", "path to a TOML config file")
)

func main() {
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()
	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: neonc [flags] FILE")
		returnCode = ExitIOError
		return
	}
	entryPath := pflag.Arg(0)

	cfg := config.Default()
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: loading config: %s\n", err)
			returnCode = ExitIOError
			return
		}
		cfg = loaded
	}

	prog := compiler.CompileWithOptions(entryPath, compiler.Options{
		ImportRoots:  cfg.ImportRoots,
		KeepGoing:    cfg.KeepGoing,
		TargetTriple: cfg.TargetTriple,
	})

	for _, result := range prog.Results {
		if !*flagVerbose {
			continue
		}
		fmt.Printf("=== %s: parse tree ===\n%s\n", result.Path, result.ParseTree)
		fmt.Printf("=== %s: AST ===\n%s\n", result.Path, ast.Print(result.AST))
	}

	for _, d := range prog.Bag.All() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	if prog.Bag.Fatal() {
		returnCode = ExitCompileError
		return
	}

	if err := irgen.Verify(prog.Module); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: IR verification failed: %s\n", err)
		returnCode = ExitVerifyError
		return
	}

	outPath := *flagOutput
	if outPath == "" {
		outPath = strings.TrimSuffix(filepath.Base(entryPath), ".ne") + ".ll"
		if cfg.OutputDir != "" {
			outPath = filepath.Join(cfg.OutputDir, outPath)
		} else {
			outPath = strings.TrimSuffix(entryPath, ".ne") + ".ll"
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitIOError
		return
	}
	defer out.Close()

	if err := irgen.Emit(prog.Module, out); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: writing output: %s\n", err)
		returnCode = ExitIOError
		return
	}

	if *flagVerbose {
		fmt.Printf("=== IR ===\n")
		irgen.Emit(prog.Module, os.Stdout)
	}
}
