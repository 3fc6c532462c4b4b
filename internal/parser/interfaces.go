package parser

import "github.com/toyz/measuregen/internal/models"

// DeclarationReader reads Go packages into declaration models
type DeclarationReader interface {
	ParseDirectory(dir, namespace string) (*Package, error)
	Collect(pkg *Package) map[models.TypeIdentity][]models.MethodHandle
	ReadPublicSurface(pkg *Package, typeName string) (*models.TypeDeclaration, error)
}

var _ DeclarationReader = (*Parser)(nil)
