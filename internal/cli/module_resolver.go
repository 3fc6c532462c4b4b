package cli

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/toyz/measuregen/internal/utils"
)

// Module is the Go module the scanned packages belong to
type Module struct {
	Path string // module path from go.mod or --module
	Root string // absolute directory the module path maps to
}

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	gomod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{gomod: utils.NewGoModParser()}
}

// ResolveModule finds the module enclosing startDir. A custom module name
// replaces the go.mod module path; it is rooted at the go.mod directory when
// one exists and at startDir otherwise.
func (r *ModuleResolver) ResolveModule(customModule, startDir string) (Module, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return Module{}, fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	goModPath, err := r.gomod.FindGoModFile(absStart)
	if err != nil {
		if customModule != "" && errors.Is(err, utils.ErrGoModNotFound) {
			return Module{Path: customModule, Root: absStart}, nil
		}
		return Module{}, fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}

	root := filepath.Dir(goModPath)
	if customModule != "" {
		return Module{Path: customModule, Root: root}, nil
	}

	name, err := r.gomod.ParseModuleName(goModPath)
	if err != nil {
		return Module{}, fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}
	return Module{Path: name, Root: root}, nil
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(module Module, packageDir string) (string, error) {
	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	relPath, err := filepath.Rel(module.Root, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}

	importPath := filepath.ToSlash(relPath)
	if importPath == ".." || strings.HasPrefix(importPath, "../") {
		return "", fmt.Errorf("package directory %s is outside module %s", packageDir, module.Path)
	}
	if importPath == "." {
		return module.Path, nil
	}

	return path.Join(module.Path, importPath), nil
}

// workingDir returns the directory module resolution starts from
func workingDir(targets []string) string {
	if len(targets) > 0 {
		base, _ := utils.SplitPattern(targets[0])
		if stat, err := os.Stat(base); err == nil && stat.IsDir() {
			return base
		}
	}
	return "."
}
