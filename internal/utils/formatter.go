package utils

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"

	"golang.org/x/tools/imports"
)

// importOptions match goimports defaults
var importOptions = &imports.Options{
	Comments:  true,
	TabIndent: true,
	TabWidth:  8,
}

// FormatGoSource removes unused imports and formats source the way goimports
// does. filename only guides import resolution; nothing is read from disk
// when every referenced package is already imported.
func FormatGoSource(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, importOptions)
	if err != nil {
		if parseErr := ValidateGoCode(string(source)); parseErr != nil {
			return nil, fmt.Errorf("invalid Go syntax: %w", parseErr)
		}
		return nil, fmt.Errorf("failed to format %s: %w", filename, err)
	}
	return formatted, nil
}

// WriteGoFile writes already formatted source, replacing any existing file
func WriteGoFile(filename string, content []byte) error {
	if err := os.WriteFile(filename, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// ValidateGoCode checks if the provided code is valid Go syntax
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}
