package generator

import (
	"errors"

	"github.com/toyz/measuregen/internal/models"
	"github.com/toyz/measuregen/internal/templates"
)

// Renderer turns a synthesized wrapper into a formatted file
type Renderer func(spec *models.WrapperSpec) (*models.GeneratedFile, error)

// Generator implements the CodeGenerator interface
type Generator struct {
	render Renderer
}

// NewGenerator creates a generator rendering with the built-in templates
func NewGenerator() *Generator {
	return &Generator{render: templates.RenderWrapper}
}

// NewGeneratorWithRenderer creates a generator with a custom renderer
func NewGeneratorWithRenderer(render Renderer) *Generator {
	return &Generator{render: render}
}

// GenerateWrapper synthesizes and renders the wrapper of one type. Nothing is
// written; the caller decides where the file goes.
func (g *Generator) GenerateWrapper(decl *models.TypeDeclaration) (*models.GeneratedFile, error) {
	spec, err := Synthesize(decl)
	if err != nil {
		return nil, err
	}

	file, err := g.render(spec)
	if err != nil {
		if errors.Is(err, models.ErrEmission) {
			return nil, err
		}
		return nil, models.WrapEmission(decl.Identity(), err)
	}
	return file, nil
}
