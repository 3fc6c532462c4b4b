package parser

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/measuregen/internal/annotations"
	"github.com/toyz/measuregen/internal/models"
)

// ErrNoSourceFiles is returned when a directory holds no readable Go files
var ErrNoSourceFiles = errors.New("no Go source files")

// Parser reads Go packages into declaration models
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.Parser
}

// NewParser creates a new declaration reader
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParser(),
	}
}

// Package is one parsed Go package. It is read-only once built.
type Package struct {
	Name      string   // package clause name
	Namespace string   // import path
	Dir       string   // directory holding the files
	Files     []string // file paths in read order

	fset  *token.FileSet
	files []*ast.File
}

// ParseDirectory parses the Go files of a single package directory
func (p *Parser) ParseDirectory(dir, namespace string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	pkg := &Package{Namespace: namespace, Dir: dir, fset: p.fileSet}

	// os.ReadDir returns entries sorted by file name
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isSourceFile(name) {
			continue
		}

		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(p.fileSet, path, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := pkg.add(path, file); err != nil {
			return nil, err
		}
	}

	if pkg.Name == "" {
		return nil, fmt.Errorf("%w in directory %s", ErrNoSourceFiles, dir)
	}
	return pkg, nil
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source, namespace string) (*Package, error) {
	return p.ParseFiles(filepath.Dir(filename), namespace, map[string]string{filename: source})
}

// ParseFiles parses several in-memory files as one package. Files are read
// in name order.
func (p *Parser) ParseFiles(dir, namespace string, sources map[string]string) (*Package, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	pkg := &Package{Namespace: namespace, Dir: dir, fset: p.fileSet}
	for _, name := range names {
		file, err := parser.ParseFile(p.fileSet, name, sources[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse source: %w", err)
		}
		if err := pkg.add(name, file); err != nil {
			return nil, err
		}
	}

	if pkg.Name == "" {
		return nil, ErrNoSourceFiles
	}
	return pkg, nil
}

func (pkg *Package) add(path string, file *ast.File) error {
	if isOwnOutput(path, file) {
		return nil
	}

	switch {
	case pkg.Name == "":
		pkg.Name = file.Name.Name
	case pkg.Name != file.Name.Name:
		return fmt.Errorf("multiple packages found in directory %s: %s and %s", pkg.Dir, pkg.Name, file.Name.Name)
	}

	pkg.Files = append(pkg.Files, path)
	pkg.files = append(pkg.files, file)
	return nil
}

// position converts a token position into a file and line
func (pkg *Package) position(pos token.Pos) token.Position {
	return pkg.fset.Position(pos)
}

func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, TestFileSuffix) &&
		!strings.HasPrefix(name, ".") &&
		!strings.HasPrefix(name, "_")
}

// isOwnOutput reports whether a file is a wrapper previously written by the
// generator. Other generated files stay visible.
func isOwnOutput(path string, file *ast.File) bool {
	return strings.HasPrefix(filepath.Base(path), models.WrapperFilePrefix) && ast.IsGenerated(file)
}
