package parser

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/toyz/measuregen/internal/annotations"
	"github.com/toyz/measuregen/internal/models"
)

// reportSyntaxError converts a malformed annotation into a per-type error
// that points at the comment
func reportSyntaxError(id models.TypeIdentity, err error) error {
	var syntaxErr *annotations.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return &models.GeneratorError{
			Kind:    models.ErrorKindSyntax,
			Type:    id,
			Message: "malformed annotation",
			Cause:   err,
		}
	}

	genErr := &models.GeneratorError{
		Kind:    models.ErrorKindSyntax,
		Type:    id,
		File:    syntaxErr.Loc.File,
		Line:    syntaxErr.Loc.Line,
		Message: fmt.Sprintf("malformed annotation at column %d: %s", syntaxErr.Loc.Column, syntaxErr.Msg),
	}
	if syntaxErr.Hint != "" {
		genErr.Suggestions = append(genErr.Suggestions, syntaxErr.Hint)
	}
	return genErr
}

// reportTypeNotFound explains a missing type with the names that do exist
func reportTypeNotFound(pkg *Package, id models.TypeIdentity) error {
	err := &models.GeneratorError{
		Kind:    models.ErrorKindValidation,
		Type:    id,
		Message: fmt.Sprintf("type %s is not declared in package %s", id.Name, pkg.Name),
	}
	if len(pkg.Files) > 0 {
		err.Suggestions = []string{
			"Check that the method receiver names a type declared in " + pkg.Dir,
		}
	}
	return err
}

// reportUnsupportedConstructor rejects a constructor whose results the
// wrapper's constructor cannot mirror
func reportUnsupportedConstructor(id models.TypeIdentity, pos token.Position, name string, results int) error {
	err := models.NewUnsupportedShape(id,
		fmt.Sprintf("Return only %[1]s, *%[1]s, (%[1]s, error) or (*%[1]s, error) from %[2]s", id.Name, name),
		"constructor %s returns %d results", name, results)
	err.File = pos.Filename
	err.Line = pos.Line
	return err
}

// reportUnsupportedType rejects declarations no wrapper can hold
func reportUnsupportedType(id models.TypeIdentity, pos token.Position, what string) error {
	err := models.NewUnsupportedShape(id, "Remove the measure::measured marker from this type's methods", "%s cannot be wrapped", what)
	err.File = pos.Filename
	err.Line = pos.Line
	return err
}
