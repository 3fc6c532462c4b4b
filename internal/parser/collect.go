package parser

import (
	"go/ast"

	"github.com/toyz/measuregen/internal/annotations"
	"github.com/toyz/measuregen/internal/models"
)

// Collect finds every exported method whose own doc comment carries the
// marker and groups them by receiver type. Methods keep source order within a group.
// A method with a malformed annotation is collected too, so that reading its
// type reports the syntax error rather than silently dropping the marker.
func (p *Parser) Collect(pkg *Package) map[models.TypeIdentity][]models.MethodHandle {
	found := make(map[models.TypeIdentity][]models.MethodHandle)

	for _, file := range pkg.files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 || !fn.Name.IsExported() {
				continue
			}

			typeName := receiverTypeName(fn.Recv.List[0].Type)
			if typeName == "" {
				continue
			}

			if !p.claimsMarker(pkg, fn.Doc) {
				continue
			}

			id := models.TypeIdentity{Namespace: pkg.Namespace, Name: typeName}
			pos := pkg.position(fn.Name.Pos())
			found[id] = append(found[id], models.MethodHandle{
				Type:     id,
				Name:     fn.Name.Name,
				Position: models.Position{File: pos.Filename, Line: pos.Line},
			})
		}
	}

	return found
}

func (p *Parser) claimsMarker(pkg *Package, doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		ann, ok, err := p.annotations.ParseComment(c.Text, location(pkg, c))
		if !ok {
			continue
		}
		if err != nil || ann.Is(annotations.Marker) {
			return true
		}
	}
	return false
}

// receiverTypeName returns the base type name of a method receiver
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.ParenExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	default:
		return ""
	}
}

func location(pkg *Package, c *ast.Comment) annotations.SourceLocation {
	pos := pkg.position(c.Slash)
	return annotations.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}
}
