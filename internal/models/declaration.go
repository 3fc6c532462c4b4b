package models

import (
	"fmt"

	"github.com/toyz/measuregen/internal/annotations"
)

// TypeIdentity names a type within its package
type TypeIdentity struct {
	Namespace string // package import path
	Name      string // simple type name
}

// String returns namespace.Name
func (id TypeIdentity) String() string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "." + id.Name
}

// Less orders identities by namespace, then name
func (id TypeIdentity) Less(other TypeIdentity) bool {
	if id.Namespace != other.Namespace {
		return id.Namespace < other.Namespace
	}
	return id.Name < other.Name
}

// Modifier is a visibility or receiver property of a method
type Modifier string

const (
	ModifierExported        Modifier = "exported"
	ModifierPointerReceiver Modifier = "pointer"
)

// Modifiers is the modifier set of a method, kept in a fixed order
type Modifiers []Modifier

// Has reports whether m is in the set
func (ms Modifiers) Has(m Modifier) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}

// Parameter is a single parameter of a method or constructor
type Parameter struct {
	Name            string           // may be empty or "_" for unnamed parameters
	Type            string           // Go type expression, without the variadic ellipsis
	Variadic        bool             // true for a trailing ...T parameter
	Annotations     annotations.List // attached to the parameter itself
	TypeAnnotations annotations.List // attached to the parameter's type
}

// Clone returns a deep copy
func (p Parameter) Clone() Parameter {
	c := p
	c.Annotations = p.Annotations.Clone()
	c.TypeAnnotations = p.TypeAnnotations.Clone()
	return c
}

// Result is one entry of a method's result list
type Result struct {
	Name        string           // empty for unnamed results
	Type        string           // Go type expression
	Annotations annotations.List // attached to the result type
}

// ReturnType is the full result list of a method. A ReturnType with no
// results represents a method that returns nothing.
type ReturnType struct {
	Results []Result
}

// IsVoid reports whether the method returns nothing
func (r *ReturnType) IsVoid() bool {
	return r != nil && len(r.Results) == 0
}

// Clone returns a deep copy
func (r *ReturnType) Clone() *ReturnType {
	if r == nil {
		return nil
	}
	c := &ReturnType{}
	if r.Results != nil {
		c.Results = make([]Result, len(r.Results))
		for i, res := range r.Results {
			res.Annotations = res.Annotations.Clone()
			c.Results[i] = res
		}
	}
	return c
}

// Position locates a declaration in source
type Position struct {
	File string
	Line int
}

// String formats the position as file:line
func (p Position) String() string {
	if p.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// MethodDeclaration is one exported method of a type
type MethodDeclaration struct {
	Name        string
	Modifiers   Modifiers
	Parameters  []Parameter
	Returns     *ReturnType // nil only in an inconsistent model
	Annotations annotations.List
	Position    Position
}

// IsMeasured reports whether the method's own annotations carry the marker
func (m MethodDeclaration) IsMeasured() bool {
	return m.Annotations.HasMarker()
}

// Clone returns a deep copy
func (m MethodDeclaration) Clone() MethodDeclaration {
	c := m
	c.Modifiers = append(Modifiers(nil), m.Modifiers...)
	c.Parameters = cloneParameters(m.Parameters)
	c.Returns = m.Returns.Clone()
	c.Annotations = m.Annotations.Clone()
	return c
}

// Constructor is a package-level New<Type> function returning the type
type Constructor struct {
	Name           string
	Parameters     []Parameter
	ReturnsPointer bool
	ReturnsError   bool // second result is an error
	Position       Position
}

// Clone returns a deep copy
func (c Constructor) Clone() Constructor {
	out := c
	out.Parameters = cloneParameters(c.Parameters)
	return out
}

// Import is one import spec of a source file
type Import struct {
	Name string // explicit alias, "" when none
	Path string
}

// TypeDeclaration is the public surface of one struct type
type TypeDeclaration struct {
	Name         string
	Namespace    string // package import path
	PackageName  string
	Dir          string // directory holding the package
	Annotations  annotations.List
	Constructors []Constructor
	Methods      []MethodDeclaration // exported methods in source order
	TypeParams   []string
	Imports      []Import
	Position     Position
}

// Identity returns the type's identity
func (t *TypeDeclaration) Identity() TypeIdentity {
	return TypeIdentity{Namespace: t.Namespace, Name: t.Name}
}

// Clone returns a deep copy
func (t *TypeDeclaration) Clone() *TypeDeclaration {
	if t == nil {
		return nil
	}
	c := *t
	c.Annotations = t.Annotations.Clone()
	if t.Constructors != nil {
		c.Constructors = make([]Constructor, len(t.Constructors))
		for i, ctor := range t.Constructors {
			c.Constructors[i] = ctor.Clone()
		}
	}
	if t.Methods != nil {
		c.Methods = make([]MethodDeclaration, len(t.Methods))
		for i, m := range t.Methods {
			c.Methods[i] = m.Clone()
		}
	}
	c.TypeParams = append([]string(nil), t.TypeParams...)
	c.Imports = append([]Import(nil), t.Imports...)
	return &c
}

// MethodHandle references a marked method found during collection
type MethodHandle struct {
	Type     TypeIdentity
	Name     string
	Position Position
}

func cloneParameters(params []Parameter) []Parameter {
	if params == nil {
		return nil
	}
	out := make([]Parameter, len(params))
	for i, p := range params {
		out[i] = p.Clone()
	}
	return out
}
