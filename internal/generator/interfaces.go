package generator

import "github.com/toyz/measuregen/internal/models"

// CodeGenerator produces the wrapper file of a single type
type CodeGenerator interface {
	GenerateWrapper(decl *models.TypeDeclaration) (*models.GeneratedFile, error)
}

var _ CodeGenerator = (*Generator)(nil)
