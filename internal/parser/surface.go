package parser

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/toyz/measuregen/internal/annotations"
	"github.com/toyz/measuregen/internal/models"
)

// ReadPublicSurface builds the declaration model of one type: its doc
// annotations, constructors and exported methods in source order. Every
// malformed annotation found on the way is reported.
func (p *Parser) ReadPublicSurface(pkg *Package, typeName string) (*models.TypeDeclaration, error) {
	id := models.TypeIdentity{Namespace: pkg.Namespace, Name: typeName}

	spec, doc, declFile := pkg.lookupType(typeName)
	if spec == nil {
		return nil, reportTypeNotFound(pkg, id)
	}

	pos := pkg.position(spec.Name.Pos())
	if spec.Assign.IsValid() {
		return nil, reportUnsupportedType(id, pos, "type alias "+typeName)
	}
	if _, ok := spec.Type.(*ast.InterfaceType); ok {
		return nil, reportUnsupportedType(id, pos, "interface "+typeName)
	}

	decl := &models.TypeDeclaration{
		Name:        typeName,
		Namespace:   pkg.Namespace,
		PackageName: pkg.Name,
		Dir:         pkg.Dir,
		Position:    models.Position{File: pos.Filename, Line: pos.Line},
	}

	var errs error
	var err error

	decl.Annotations, err = p.docAnnotations(pkg, id, doc)
	errs = multierr.Append(errs, err)

	if spec.TypeParams != nil {
		for _, field := range spec.TypeParams.List {
			for _, name := range field.Names {
				decl.TypeParams = append(decl.TypeParams, name.Name)
			}
		}
	}

	used := map[*ast.File]bool{declFile: true}

	for _, file := range pkg.files {
		for _, d := range file.Decls {
			fn, ok := d.(*ast.FuncDecl)
			if !ok {
				continue
			}

			if fn.Recv == nil {
				ctor, ok, err := readConstructor(pkg, id, fn)
				if err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				if !ok {
					continue
				}
				ctor.Parameters, err = p.readParameters(pkg, file, id, fn.Type.Params)
				errs = multierr.Append(errs, err)
				decl.Constructors = append(decl.Constructors, ctor)
				used[file] = true
				continue
			}

			if len(fn.Recv.List) == 0 || receiverTypeName(fn.Recv.List[0].Type) != typeName || !fn.Name.IsExported() {
				continue
			}

			method, err := p.readMethod(pkg, file, id, fn)
			errs = multierr.Append(errs, err)
			decl.Methods = append(decl.Methods, method)
			used[file] = true
		}
	}

	if errs != nil {
		return nil, errs
	}

	decl.Imports = pkg.imports(used)
	return decl, nil
}

// lookupType finds a type spec by name along with its doc comment and file
func (pkg *Package) lookupType(name string) (*ast.TypeSpec, *ast.CommentGroup, *ast.File) {
	for _, file := range pkg.files {
		for _, d := range file.Decls {
			gen, ok := d.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, s := range gen.Specs {
				spec := s.(*ast.TypeSpec)
				if spec.Name.Name != name {
					continue
				}
				doc := spec.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				return spec, doc, file
			}
		}
	}
	return nil, nil, nil
}

// imports returns the union of the imports of the given files in read order.
// Blank imports are dropped.
func (pkg *Package) imports(used map[*ast.File]bool) []models.Import {
	var out []models.Import
	seen := make(map[models.Import]bool)

	for _, file := range pkg.files {
		if !used[file] {
			continue
		}
		for _, spec := range file.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			imp := models.Import{Path: path}
			if spec.Name != nil {
				if spec.Name.Name == "_" {
					continue
				}
				imp.Name = spec.Name.Name
			}
			if seen[imp] {
				continue
			}
			seen[imp] = true
			out = append(out, imp)
		}
	}
	return out
}

// readConstructor recognizes New<Type>... functions returning T, *T,
// (T, error) or (*T, error). A function of that name whose first result is
// the type but whose other results differ cannot be forwarded and is an error.
func readConstructor(pkg *Package, id models.TypeIdentity, fn *ast.FuncDecl) (models.Constructor, bool, error) {
	if !strings.HasPrefix(fn.Name.Name, ConstructorPrefix+id.Name) || fn.Type.TypeParams != nil || fn.Type.Results == nil {
		return models.Constructor{}, false, nil
	}

	var results []ast.Expr
	for _, field := range fn.Type.Results.List {
		for range max(len(field.Names), 1) {
			results = append(results, field.Type)
		}
	}
	if len(results) == 0 {
		return models.Constructor{}, false, nil
	}

	pointer := false
	expr := results[0]
	if star, ok := expr.(*ast.StarExpr); ok {
		pointer = true
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); !ok || ident.Name != id.Name {
		return models.Constructor{}, false, nil
	}

	pos := pkg.position(fn.Name.Pos())
	ctor := models.Constructor{
		Name:           fn.Name.Name,
		ReturnsPointer: pointer,
		Position:       models.Position{File: pos.Filename, Line: pos.Line},
	}

	switch {
	case len(results) == 1:
	case len(results) == 2 && isErrorType(results[1]):
		ctor.ReturnsError = true
	default:
		return models.Constructor{}, false, reportUnsupportedConstructor(id, pos, fn.Name.Name, len(results))
	}
	return ctor, true, nil
}

func isErrorType(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == "error"
}

func (p *Parser) readMethod(pkg *Package, file *ast.File, id models.TypeIdentity, fn *ast.FuncDecl) (models.MethodDeclaration, error) {
	pos := pkg.position(fn.Name.Pos())
	method := models.MethodDeclaration{
		Name:      fn.Name.Name,
		Modifiers: models.Modifiers{models.ModifierExported},
		Returns:   &models.ReturnType{},
		Position:  models.Position{File: pos.Filename, Line: pos.Line},
	}
	if _, ok := fn.Recv.List[0].Type.(*ast.StarExpr); ok {
		method.Modifiers = append(method.Modifiers, models.ModifierPointerReceiver)
	}

	var errs, err error

	method.Annotations, err = p.docAnnotations(pkg, id, fn.Doc)
	errs = multierr.Append(errs, err)

	method.Parameters, err = p.readParameters(pkg, file, id, fn.Type.Params)
	errs = multierr.Append(errs, err)

	method.Returns.Results, err = p.readResults(pkg, file, id, fn.Type.Results, fn.Type.Params.Closing)
	errs = multierr.Append(errs, err)

	return method, errs
}

// readParameters reads a parameter list. Block comments before a name attach
// to the parameter; those between the names and the type attach to the type.
func (p *Parser) readParameters(pkg *Package, file *ast.File, id models.TypeIdentity, list *ast.FieldList) ([]models.Parameter, error) {
	if list == nil || len(list.List) == 0 {
		return nil, nil
	}

	var params []models.Parameter
	var errs error
	boundary := list.Opening

	for _, field := range list.List {
		typeExpr := field.Type
		variadic := false
		if ellipsis, ok := typeExpr.(*ast.Ellipsis); ok {
			variadic = true
			typeExpr = ellipsis.Elt
		}
		typeStr := types.ExprString(typeExpr)

		typeStart := boundary
		if n := len(field.Names); n > 0 {
			typeStart = field.Names[n-1].End()
		}
		typeAnns, err := p.inlineAnnotations(pkg, file, id, typeStart, field.Type.Pos())
		errs = multierr.Append(errs, err)

		if len(field.Names) == 0 {
			params = append(params, models.Parameter{
				Type:            typeStr,
				Variadic:        variadic,
				TypeAnnotations: typeAnns,
			})
		}

		prev := boundary
		for _, name := range field.Names {
			anns, err := p.inlineAnnotations(pkg, file, id, prev, name.Pos())
			errs = multierr.Append(errs, err)
			prev = name.End()

			params = append(params, models.Parameter{
				Name:            name.Name,
				Type:            typeStr,
				Variadic:        variadic,
				Annotations:     anns,
				TypeAnnotations: typeAnns.Clone(),
			})
		}

		boundary = field.End()
	}

	return params, errs
}

// readResults reads a result list. Block comments anywhere before a
// result's type attach to that result.
func (p *Parser) readResults(pkg *Package, file *ast.File, id models.TypeIdentity, list *ast.FieldList, after token.Pos) ([]models.Result, error) {
	if list == nil || len(list.List) == 0 {
		return nil, nil
	}

	var results []models.Result
	var errs error
	boundary := list.Opening
	if !boundary.IsValid() {
		boundary = after
	}

	for _, field := range list.List {
		typeStr := types.ExprString(field.Type)
		anns, err := p.inlineAnnotations(pkg, file, id, boundary, field.Type.Pos())
		errs = multierr.Append(errs, err)

		if len(field.Names) == 0 {
			results = append(results, models.Result{Type: typeStr, Annotations: anns})
		}
		for _, name := range field.Names {
			results = append(results, models.Result{Name: name.Name, Type: typeStr, Annotations: anns.Clone()})
		}

		boundary = field.End()
	}

	return results, errs
}

// docAnnotations parses the annotation lines of a doc comment
func (p *Parser) docAnnotations(pkg *Package, id models.TypeIdentity, doc *ast.CommentGroup) (annotations.List, error) {
	if doc == nil {
		return nil, nil
	}
	return p.parseComments(pkg, id, doc.List)
}

// inlineAnnotations parses annotation comments lying within [from, to)
func (p *Parser) inlineAnnotations(pkg *Package, file *ast.File, id models.TypeIdentity, from, to token.Pos) (annotations.List, error) {
	if !from.IsValid() || !to.IsValid() || from >= to {
		return nil, nil
	}

	var inRange []*ast.Comment
	for _, group := range file.Comments {
		if group.End() <= from || group.Pos() >= to {
			continue
		}
		for _, c := range group.List {
			if c.Slash >= from && c.End() <= to {
				inRange = append(inRange, c)
			}
		}
	}
	return p.parseComments(pkg, id, inRange)
}

func (p *Parser) parseComments(pkg *Package, id models.TypeIdentity, comments []*ast.Comment) (annotations.List, error) {
	var list annotations.List
	var errs error

	for _, c := range comments {
		ann, ok, err := p.annotations.ParseComment(c.Text, location(pkg, c))
		if !ok {
			continue
		}
		if err != nil {
			errs = multierr.Append(errs, reportSyntaxError(id, err))
			continue
		}
		list = append(list, ann)
	}

	return list, errs
}
