package templates

import (
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/measuregen/internal/models"
)

// ImportManager handles import generation and deduplication
type ImportManager struct {
	imports map[models.Import]bool
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		imports: make(map[models.Import]bool),
	}
}

// AddImport adds an import path without an alias
func (im *ImportManager) AddImport(path string) {
	im.AddNamedImport("", path)
}

// AddNamedImport adds an import with an optional alias. A path may be
// imported under several names; identical specs are kept once.
func (im *ImportManager) AddNamedImport(alias, path string) {
	if path == "" {
		return
	}
	im.imports[models.Import{Name: alias, Path: path}] = true
}

// AddImports adds imports copied from source files
func (im *ImportManager) AddImports(imports []models.Import) {
	for _, imp := range imports {
		im.AddNamedImport(imp.Name, imp.Path)
	}
}

// Len returns the number of distinct import specs
func (im *ImportManager) Len() int {
	return len(im.imports)
}

// GenerateImports generates the import section, standard library first
func (im *ImportManager) GenerateImports() string {
	if len(im.imports) == 0 {
		return ""
	}

	var std, other []models.Import
	for imp := range im.imports {
		if isStandardLibrary(imp.Path) {
			std = append(std, imp)
		} else {
			other = append(other, imp)
		}
	}
	sortImports(std)
	sortImports(other)

	var b strings.Builder
	b.WriteString("import (\n")
	for _, imp := range std {
		writeSpec(&b, imp)
	}
	if len(std) > 0 && len(other) > 0 {
		b.WriteString("\n")
	}
	for _, imp := range other {
		writeSpec(&b, imp)
	}
	b.WriteString(")\n")

	return b.String()
}

func sortImports(list []models.Import) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Path != list[j].Path {
			return list[i].Path < list[j].Path
		}
		return list[i].Name < list[j].Name
	})
}

func writeSpec(b *strings.Builder, imp models.Import) {
	b.WriteByte('\t')
	if imp.Name != "" {
		b.WriteString(imp.Name)
		b.WriteByte(' ')
	}
	b.WriteString(strconv.Quote(imp.Path))
	b.WriteByte('\n')
}

// isStandardLibrary reports whether the first path element has no dot
func isStandardLibrary(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
