// Package diag collects compiler diagnostics across every pipeline stage.
// Nothing in the pipeline panics or calls os.Exit on a bad input; errors are
// appended to a Bag and reported together at the end, generalizing a single
// wrapped-error type into a stage-tagged diagnostic taxonomy.
package diag

import (
	"fmt"

	"github.com/piilip/neon/internal/token"
)

// Stage identifies which pipeline phase raised a Diagnostic.
type Stage int

const (
	Lex Stage = iota
	Syntax
	AST
	Type
	Symbol
	IR
	IO
)

func (s Stage) String() string {
	switch s {
	case Lex:
		return "lex"
	case Syntax:
		return "syntax"
	case AST:
		return "ast"
	case Type:
		return "type"
	case Symbol:
		return "symbol"
	case IR:
		return "ir"
	case IO:
		return "io"
	default:
		return "unknown"
	}
}

// Severity distinguishes a hard failure (compilation cannot proceed to
// object emission) from advisory information.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem, optionally anchored to a source
// position and wrapping an underlying cause.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Message  string
	Pos      *token.Position
	Cause    error

	// Module names the .ne file this diagnostic was raised while compiling,
	// empty if not yet known (e.g. an IO error opening the entry file).
	Module string
}

func (d *Diagnostic) Error() string {
	loc := ""
	if d.Pos != nil {
		loc = d.Pos.String() + ": "
	}
	mod := ""
	if d.Module != "" {
		mod = d.Module + ": "
	}
	return fmt.Sprintf("%s: %s%s%s", d.Stage, mod, loc, d.Message)
}

func (d *Diagnostic) Unwrap() error {
	return d.Cause
}

// New builds an error-severity Diagnostic.
func New(stage Stage, module string, pos *token.Position, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Module:   module,
	}
}

// Wrap builds an error-severity Diagnostic around an existing cause.
func Wrap(stage Stage, module string, pos *token.Position, cause error, format string, args ...interface{}) *Diagnostic {
	d := New(stage, module, pos, format, args...)
	d.Cause = cause
	return d
}

// Bag collects diagnostics across an entire compilation run (possibly many
// modules) and is passed explicitly through every stage rather than thrown
// as an error, so a lex error in one module doesn't stop type-checking of
// another.
type Bag struct {
	items []*Diagnostic
}

// NewBag returns an empty diagnostic collector.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends d to the bag. A nil d is a no-op, so callers can write
// bag.Add(maybeNilDiagnostic) without a guard.
func (b *Bag) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	b.items = append(b.items, d)
}

// Addf is shorthand for Add(New(...)).
func (b *Bag) Addf(stage Stage, module string, pos *token.Position, format string, args ...interface{}) {
	b.Add(New(stage, module, pos, format, args...))
}

// All returns every diagnostic added so far, in insertion order.
func (b *Bag) All() []*Diagnostic {
	return b.items
}

// Errors returns only the error-severity diagnostics.
func (b *Bag) Errors() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range b.items {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Fatal reports whether any error-severity diagnostic was collected; the
// compiler driver (internal/compiler) uses this to decide whether to skip
// object file emission for a module.
func (b *Bag) Fatal() bool {
	return len(b.Errors()) > 0
}

// Len returns the total number of diagnostics collected, of any severity.
func (b *Bag) Len() int {
	return len(b.items)
}
