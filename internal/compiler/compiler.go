// Package compiler is the driver: it owns the work queue of discovered
// modules, runs each one through lexing, parsing, AST construction, and
// type checking in turn, then links every module's lowered IR into one
// object.
package compiler

import (
	"fmt"

	"github.com/llir/llvm/ir"

	"github.com/piilip/neon/internal/ast"
	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/irgen"
	"github.com/piilip/neon/internal/lr"
	"github.com/piilip/neon/internal/source"
	"github.com/piilip/neon/internal/typecheck"
	"github.com/piilip/neon/internal/types"
)

// ModuleResult is everything retained from compiling one module, for
// callers (CLI verbose output, the compile service) that want to inspect
// intermediate stages.
type ModuleResult struct {
	Path      string
	ParseTree fmt.Stringer
	AST       *ast.Node
	Imports   []string
}

// Program is the result of compiling an entry module and everything it
// (transitively) imports into one linked IR module.
type Program struct {
	Module  *ir.Module
	Results []*ModuleResult
	Bag     *diag.Bag
}

// Options controls optional compiler behavior normally sourced from
// internal/config.
type Options struct {
	// ImportRoots are searched for an import that doesn't resolve relative
	// to its importing file; see source.RootResolver.
	ImportRoots []string

	// KeepGoing continues compiling remaining queued modules after one
	// module accumulates a fatal diagnostic, instead of abandoning
	// discovery at the first parse/build failure.
	KeepGoing bool

	// TargetTriple overrides the LLVM target triple baked into the emitted
	// module; empty leaves the module's default (host) triple.
	TargetTriple string
}

// Compile runs the full pipeline starting from entryPath with default
// options.
func Compile(entryPath string) *Program {
	return CompileWithOptions(entryPath, Options{})
}

// CompileWithOptions is Compile with explicit Options: lexes and parses
// every discovered module, builds and type-checks ASTs across the whole
// program, then lowers every module to IR and links them.
//
// Modules are popped from the queue in reverse-discovery order (a LIFO
// stack) but every module actually compiled is recorded in Results in that
// same pop order, and that is also the order modules are inserted into the
// shared IR module -- linking is therefore deterministic even though import
// discovery order depends on each file's own import statements.
func CompileWithOptions(entryPath string, opts Options) *Program {
	bag := diag.NewBag()
	prog := &Program{
		Module: ir.NewModule(),
		Bag:    bag,
	}
	if opts.TargetTriple != "" {
		prog.Module.TargetTriple = opts.TargetTriple
	}

	entry, err := source.NewFileProvider(entryPath)
	if err != nil {
		bag.Addf(diag.IO, "", nil, "%s", err)
		return prog
	}

	resolve := source.ResolveImport
	if len(opts.ImportRoots) > 0 {
		resolve = source.RootResolver(opts.ImportRoots)
	}

	compiled := map[string]bool{}
	queue := []string{entry.Name()}

	typeMap := types.NewMap()
	composites := types.NewCompositeSet()

	funcs := map[string]*ir.Func{}
	globals := map[string]*ir.Global{}

	var asts []*ModuleResult

	for len(queue) > 0 {
		path := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if compiled[path] {
			continue
		}
		compiled[path] = true

		result, imports, ok := parseAndBuild(path, bag, resolve)
		if !ok {
			if !opts.KeepGoing {
				break
			}
			continue
		}
		asts = append(asts, result)

		// LIFO: push this module's imports so they're explored before
		// modules already queued before it.
		for _, imp := range imports {
			if !compiled[imp] {
				queue = append(queue, imp)
			}
		}
	}

	// Collect every module's function signatures first (into scratch
	// diagnostics and maps), so a module may call into one analysed after it.
	moduleSigs := make([]map[string]ast.DataType, len(asts))
	for i, result := range asts {
		pre := typecheck.NewAnalyzer(result.Path, diag.NewBag(), types.NewMap(), types.NewCompositeSet())
		pre.Analyze(result.AST)
		moduleSigs[i] = pre.Functions()
	}

	for i, result := range asts {
		analyzer := typecheck.NewAnalyzer(result.Path, bag, typeMap, composites)
		for j, sigs := range moduleSigs {
			if j != i {
				analyzer.SeedFunctions(sigs)
			}
		}
		analyzer.Analyze(result.AST)
	}

	if bag.Fatal() && !opts.KeepGoing {
		prog.Results = asts
		return prog
	}

	// One Generator is reused across every module (SetModule just re-points
	// diagnostic attribution) so hasMain detection and the synthesized
	// __ctor body see every module's top-level
	// statements, not just the last one's.
	if len(asts) > 0 && !bag.Fatal() {
		gen := irgen.NewGenerator(asts[0].Path, bag, typeMap, composites, prog.Module, funcs, globals)
		for _, result := range asts {
			gen.SetModule(result.Path)
			gen.LowerProgram(result.AST)
		}
		gen.Finish()
	}

	prog.Results = asts
	return prog
}

func parseAndBuild(path string, bag *diag.Bag, resolve func(fromModule, importPath string) string) (*ModuleResult, []string, bool) {
	provider, err := source.NewFileProvider(path)
	if err != nil {
		bag.Addf(diag.IO, path, nil, "%s", err)
		return nil, nil, false
	}

	text, err := source.ReadAll(provider)
	if err != nil {
		bag.Addf(diag.IO, path, nil, "%s", err)
		return nil, nil, false
	}

	tree := lr.Parse(path, text, lr.NeonTable(), bag)
	if tree == nil {
		return nil, nil, false
	}

	builder := ast.NewBuilder(path, bag)
	root := builder.Build(tree)

	imports := ast.FindImports(root, path, resolve)

	return &ModuleResult{
		Path:      path,
		ParseTree: tree,
		AST:       root,
		Imports:   imports,
	}, imports, true
}
