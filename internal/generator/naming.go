package generator

import (
	"fmt"

	"github.com/toyz/measuregen/internal/templates"
)

// Fixed names of the synthesized wrapper
const (
	WrapperPrefix      = "Measured"
	DelegatingPrefix   = "Wrap"
	ConstructingPrefix = "NewMeasured"
	FieldName          = "wrapper"
	ReceiverName       = "measured"
)

// identifiers referenced by every generated method body
var bodyIdentifiers = []string{ReceiverName, templates.TimeAlias, templates.MeasureAlias}

// WrapperName returns the wrapper type name for a type
func WrapperName(typeName string) string {
	return WrapperPrefix + typeName
}

// nameSet tracks identifiers already taken in one function scope
type nameSet map[string]bool

func newNameSet(reserved ...string) nameSet {
	s := make(nameSet, len(reserved))
	for _, name := range reserved {
		s[name] = true
	}
	return s
}

// fresh returns base, or base with trailing underscores when base is taken,
// and marks the result as taken
func (s nameSet) fresh(base string) string {
	name := base
	for s[name] {
		name += "_"
	}
	s[name] = true
	return name
}

// positional returns the synthesized name for an unnamed parameter
func positional(index int) string {
	return fmt.Sprintf("arg%d", index)
}

// resultVar returns the base name of a captured result
func resultVar(index int) string {
	return fmt.Sprintf("r%d", index)
}
