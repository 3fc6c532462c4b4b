package cli

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
)

// CleanResult lists what a clean touched
type CleanResult struct {
	Removed []string
	Skipped []string // wrapper-named files without a generated-code header
}

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
}

// NewCleaner creates a new cleaner
func NewCleaner(scanner *DirectoryScanner) *Cleaner {
	return &Cleaner{scanner: scanner}
}

// CleanGeneratedFiles removes the wrapper files below the given directories.
// Files named like wrappers but lacking the generated-code header are left
// alone.
func (c *Cleaner) CleanGeneratedFiles(directories []string) (*CleanResult, error) {
	files, err := c.scanner.GeneratedFiles(directories)
	if err != nil {
		return nil, err
	}

	result := &CleanResult{}
	var toRemove []string
	for _, file := range files {
		generated, err := isGeneratedFile(file)
		if err != nil {
			return result, err
		}
		if !generated {
			result.Skipped = append(result.Skipped, file)
			continue
		}
		toRemove = append(toRemove, file)
	}

	result.Removed, err = c.scanner.remove(toRemove)
	return result, err
}

func isGeneratedFile(path string) (bool, error) {
	file, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.PackageClauseOnly|parser.ParseComments)
	if err != nil {
		return false, fmt.Errorf("failed to check file %s: %w", path, err)
	}
	return ast.IsGenerated(file), nil
}
