package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/measuregen/internal/annotations"
)

func TestGeneratorErrorKindsMatchSentinels(t *testing.T) {
	id := TypeIdentity{Namespace: "example.com/calc", Name: "Calculator"}

	inconsistent := NewModelInconsistency(id, "method %s has no return type slot", "Add")
	wrapped := fmt.Errorf("synthesizing: %w", inconsistent)

	assert.True(t, errors.Is(wrapped, ErrModelInconsistency))
	assert.False(t, errors.Is(wrapped, ErrUnsupportedShape))
	assert.Contains(t, inconsistent.Error(), "example.com/calc.Calculator")
	assert.Contains(t, inconsistent.Error(), "model inconsistency")

	shape := NewUnsupportedShape(id, "keep a single New function", "%d constructors", 2)
	assert.True(t, errors.Is(shape, ErrUnsupportedShape))
	assert.Equal(t, []string{"keep a single New function"}, shape.Suggestions)

	cause := errors.New("disk full")
	emission := WrapEmission(id, cause)
	assert.True(t, errors.Is(emission, ErrEmission))
	assert.True(t, errors.Is(emission, cause))

	var genErr *GeneratorError
	require.True(t, errors.As(wrapped, &genErr))
	assert.Equal(t, ErrorKindModelInconsistency, genErr.Kind)
}

func TestGeneratorErrorLocation(t *testing.T) {
	err := &GeneratorError{Kind: ErrorKindSyntax, File: "calc.go", Line: 7, Message: "bad annotation"}
	assert.Equal(t, "calc.go:7: syntax: bad annotation", err.Error())
}

func TestTypeDeclarationCloneIsDeep(t *testing.T) {
	decl := &TypeDeclaration{
		Name:        "Calculator",
		Namespace:   "example.com/calc",
		Annotations: annotations.List{{Namespace: "di", Name: "component"}},
		Constructors: []Constructor{{
			Name:       "NewCalculator",
			Parameters: []Parameter{{Name: "seed", Type: "int"}},
		}},
		Methods: []MethodDeclaration{{
			Name:       "Add",
			Modifiers:  Modifiers{ModifierExported},
			Parameters: []Parameter{{Name: "a", Type: "int", Annotations: annotations.List{{Namespace: "v", Name: "pos"}}}},
			Returns:    &ReturnType{Results: []Result{{Type: "int"}}},
		}},
	}

	c := decl.Clone()
	c.Methods[0].Parameters[0].Annotations[0].Name = "changed"
	c.Methods[0].Returns.Results[0].Type = "string"
	c.Constructors[0].Parameters[0].Name = "other"
	c.Annotations[0].Name = "changed"

	assert.Equal(t, "pos", decl.Methods[0].Parameters[0].Annotations[0].Name)
	assert.Equal(t, "int", decl.Methods[0].Returns.Results[0].Type)
	assert.Equal(t, "seed", decl.Constructors[0].Parameters[0].Name)
	assert.Equal(t, "component", decl.Annotations[0].Name)
}

func TestReturnTypeVoid(t *testing.T) {
	var missing *ReturnType
	assert.False(t, missing.IsVoid())
	assert.True(t, (&ReturnType{}).IsVoid())
	assert.False(t, (&ReturnType{Results: []Result{{Type: "error"}}}).IsVoid())
	assert.Nil(t, missing.Clone())
}

func TestTypeIdentityOrdering(t *testing.T) {
	a := TypeIdentity{Namespace: "a", Name: "Z"}
	b := TypeIdentity{Namespace: "b", Name: "A"}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.Equal(t, "Calculator", TypeIdentity{Name: "Calculator"}.String())
}
