package generator

import (
	"github.com/toyz/measuregen/internal/models"
)

// validateDeclaration rejects models that contradict themselves or use a
// shape no wrapper can mirror
func validateDeclaration(decl *models.TypeDeclaration) error {
	id := decl.Identity()

	if decl.Name == "" {
		return models.NewModelInconsistency(id, "type has no name")
	}

	for _, ctor := range decl.Constructors {
		if err := validateParameters(id, ctor.Name, ctor.Position, ctor.Parameters); err != nil {
			return err
		}
	}

	seen := make(map[string]models.Position, len(decl.Methods))
	for _, m := range decl.Methods {
		if m.Name == "" {
			return at(models.NewModelInconsistency(id, "method without a name"), m.Position)
		}
		if first, dup := seen[m.Name]; dup {
			err := models.NewModelInconsistency(id, "method %s declared twice (first at %s)", m.Name, first)
			return at(err, m.Position)
		}
		seen[m.Name] = m.Position

		if m.Returns == nil {
			return at(models.NewModelInconsistency(id, "method %s has no return type slot", m.Name), m.Position)
		}
		for i, r := range m.Returns.Results {
			if r.Type == "" {
				return at(models.NewModelInconsistency(id, "result %d of method %s has no type", i, m.Name), m.Position)
			}
		}
		if err := validateParameters(id, m.Name, m.Position, m.Parameters); err != nil {
			return err
		}
	}

	if n := len(decl.Constructors); n > 1 {
		err := models.NewUnsupportedShape(id,
			"Keep a single New"+decl.Name+" function or rename the others",
			"%d constructors declared (%s and %s)", n, decl.Constructors[0].Name, decl.Constructors[1].Name)
		return at(err, decl.Constructors[1].Position)
	}

	if len(decl.TypeParams) > 0 {
		err := models.NewUnsupportedShape(id,
			"Wrap an instantiated type declared as type X = "+decl.Name+"[...] by hand",
			"generic type with type parameters %v", decl.TypeParams)
		return at(err, decl.Position)
	}

	return nil
}

func validateParameters(id models.TypeIdentity, owner string, pos models.Position, params []models.Parameter) error {
	for i, p := range params {
		if p.Type == "" {
			return at(models.NewModelInconsistency(id, "parameter %d of %s has no type", i, owner), pos)
		}
		if p.Variadic && i != len(params)-1 {
			return at(models.NewModelInconsistency(id, "variadic parameter %d of %s is not last", i, owner), pos)
		}
	}
	return nil
}

func at(err *models.GeneratorError, pos models.Position) *models.GeneratorError {
	err.File = pos.File
	err.Line = pos.Line
	return err
}
