package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ErrGoModNotFound is returned when no go.mod exists in a directory or any parent
var ErrGoModNotFound = errors.New("go.mod file not found")

// GoModParser reads module paths from go.mod files. Parsed results are kept
// until the file changes, so repeated runs in watch mode do not re-parse.
type GoModParser struct {
	modules *FileCache[string]
}

// NewGoModParser creates a new go.mod parser with caching
func NewGoModParser() *GoModParser {
	return &GoModParser{modules: NewFileCache[string]()}
}

// ParseModuleName extracts the module path from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	if name, ok := p.modules.Get(cleanPath); ok {
		return name, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", WrapReadError("go.mod file", err)
	}

	modFile, err := modfile.ParseLax(cleanPath, content, nil)
	if err != nil {
		return "", WrapParseError("go.mod file", err)
	}
	if modFile.Module == nil || modFile.Module.Mod.Path == "" {
		return "", fmt.Errorf("no module declaration found in %s", cleanPath)
	}

	name := modFile.Module.Mod.Path
	// a failed stat only costs a re-parse next time
	_ = p.modules.Set(cleanPath, name)
	return name, nil
}

// FindGoModFile searches for go.mod starting from startDir and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", WrapProcessError(fmt.Sprintf("path %s", startDir), err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if stat, err := os.Stat(goModPath); err == nil && !stat.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrGoModNotFound
		}
		currentDir = parentDir
	}
}
