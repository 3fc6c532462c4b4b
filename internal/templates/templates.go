package templates

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/toyz/measuregen/internal/models"
	"github.com/toyz/measuregen/internal/utils"
)

const (
	// Header marks every wrapper file as generated
	Header = "// Code generated by measuregen. DO NOT EDIT."

	// MeasureImportPath is the runtime package measured bodies report through
	MeasureImportPath = "github.com/toyz/measuregen/pkg/measure"

	// Import names of the packages measured bodies reference. They must not
	// clash with package-level names of the wrapped package.
	TimeAlias    = "measuregentime"
	MeasureAlias = "measuregen"
)

type fileData struct {
	Header       string
	PackageName  string
	Imports      string
	Name         string // wrapper type name
	Source       string // original type name
	Field        models.FieldDeclaration
	Delegating   models.ConstructorDeclaration
	Constructing models.ConstructorDeclaration
	Methods      []methodData
}

type methodData struct {
	Wrapper  string
	Receiver string
	Method   models.WrappedMethod
}

var (
	wrapperOnce     sync.Once
	wrapperTemplate *template.Template
	wrapperErr      error
)

// parsedWrapperTemplate parses the registry once; templates are safe for
// concurrent execution
func parsedWrapperTemplate() (*template.Template, error) {
	wrapperOnce.Do(func() {
		registry := NewTemplateRegistry()
		root := template.New("wrapper").Funcs(templateFuncs)
		for _, name := range registry.Names() {
			if _, err := root.New(name).Parse(registry.MustGet(name)); err != nil {
				wrapperErr = fmt.Errorf("failed to parse template %s: %w", name, err)
				return
			}
		}
		wrapperTemplate = root
	})
	return wrapperTemplate, wrapperErr
}

// FileName returns the wrapper file name for a type
func FileName(typeName string) string {
	return models.WrapperFilePrefix + strings.ToLower(typeName) + ".go"
}

// RenderWrapper renders a synthesized wrapper into a formatted Go file.
// Output is byte-identical for identical input.
func RenderWrapper(spec *models.WrapperSpec) (*models.GeneratedFile, error) {
	if spec == nil || spec.Source == nil {
		return nil, models.WrapEmission(models.TypeIdentity{}, fmt.Errorf("no wrapper to render"))
	}
	src := spec.Source
	id := src.Identity()
	filePath := filepath.Join(src.Dir, FileName(src.Name))

	im := NewImportManager()
	im.AddImports(src.Imports)
	if spec.HasMeasuredMethods() {
		im.AddNamedImport(TimeAlias, "time")
		im.AddNamedImport(MeasureAlias, MeasureImportPath)
	}

	data := fileData{
		Header:       Header,
		PackageName:  src.PackageName,
		Imports:      im.GenerateImports(),
		Name:         spec.Name,
		Source:       src.Name,
		Field:        spec.Field,
		Delegating:   spec.Delegating,
		Constructing: spec.Constructing,
	}
	for _, m := range spec.Methods {
		data.Methods = append(data.Methods, methodData{Wrapper: spec.Name, Receiver: spec.Receiver, Method: m})
	}

	content, err := executeTemplate("wrapper-file", data)
	if err != nil {
		return nil, models.WrapEmission(id, err)
	}

	formatted, err := utils.FormatGoSource(filePath, []byte(content))
	if err != nil {
		genErr := models.WrapEmission(id, err)
		genErr.File = filePath
		return nil, genErr
	}

	return &models.GeneratedFile{
		Type:        id,
		WrapperName: spec.Name,
		PackageName: src.PackageName,
		FilePath:    filePath,
		Content:     string(formatted),
	}, nil
}

// executeTemplate executes one of the registered templates
func executeTemplate(name string, data interface{}) (string, error) {
	tmpl, err := parsedWrapperTemplate()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
