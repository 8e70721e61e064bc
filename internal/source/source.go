// Package source abstracts over where .ne program text comes from, so
// internal/lex never opens a file directly and the REPL can feed it
// in-memory lines the same way the compiler feeds it a file on disk.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Provider supplies the text of one Neon module along with a stable name
// used in diagnostics and import resolution.
type Provider interface {
	// Name is the canonical, normalized path or label identifying this
	// module, suitable both for diagnostics and as an import-graph key.
	Name() string
	// Open returns a fresh reader over the module's full text.
	Open() (io.ReadCloser, error)
}

// FileProvider reads a module from disk. Path is normalized to its absolute,
// NFC-normalized form at construction time so two import statements that
// spell the same file differently (relative vs. absolute, or differing
// Unicode normalization forms in the path) resolve to the same module.
type FileProvider struct {
	path string
}

// NewFileProvider resolves path to an absolute, NFC-normalized form and
// returns a Provider for it.
func NewFileProvider(path string) (*FileProvider, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %q: %w", path, err)
	}
	return &FileProvider{path: norm.NFC.String(abs)}, nil
}

func (f *FileProvider) Name() string {
	return f.path
}

func (f *FileProvider) Open() (io.ReadCloser, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", f.path, err)
	}
	return file, nil
}

// ResolveImport joins an import string against the directory containing
// fromModule, normalized to NFC so repeated imports of the same file compare
// equal regardless of source encoding.
func ResolveImport(fromModule, importPath string) string {
	return resolveAgainst(filepath.Dir(fromModule), importPath)
}

// RootResolver returns an import resolver that first tries the plain
// directory-relative join ResolveImport does, then falls back to joining
// importPath against each of roots in order, the first one that exists on
// disk winning. This gives a standard-library-style shared import set on top
// of plain relative resolution.
func RootResolver(roots []string) func(fromModule, importPath string) string {
	return func(fromModule, importPath string) string {
		direct := ResolveImport(fromModule, importPath)
		if !filepath.IsAbs(importPath) {
			if _, err := os.Stat(direct); err != nil {
				for _, root := range roots {
					candidate := resolveAgainst(root, importPath)
					if _, err := os.Stat(candidate); err == nil {
						return candidate
					}
				}
			}
		}
		return direct
	}
}

func resolveAgainst(dir, importPath string) string {
	joined := filepath.Join(dir, importPath)
	abs, err := filepath.Abs(joined)
	if err != nil {
		abs = joined
	}
	return norm.NFC.String(abs)
}

// LinesProvider serves module text held in memory (one REPL line, or a test
// fixture), named rather than backed by a file.
type LinesProvider struct {
	name string
	text string
}

// NewLinesProvider wraps lines of already-joined source text under name.
func NewLinesProvider(name string, text string) *LinesProvider {
	return &LinesProvider{name: name, text: text}
}

func (l *LinesProvider) Name() string {
	return l.name
}

func (l *LinesProvider) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(l.text)), nil
}

// ReadAll drains a Provider into a string, buffering the read through bufio.
func ReadAll(p Provider) (string, error) {
	r, err := p.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()

	var sb strings.Builder
	scanner := bufio.NewReaderSize(r, 64*1024)
	buf := make([]byte, 4096)
	for {
		n, err := scanner.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
