package annotations

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Separator divides an annotation's namespace from its name
	Separator = "::"

	// MarkerNamespace and MarkerName identify the instrumentation marker
	MarkerNamespace = "measure"
	MarkerName      = "measured"

	// Marker is the qualified identity of the instrumentation marker
	Marker = MarkerNamespace + Separator + MarkerName
)

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String formats the location as file:line:column
func (l SourceLocation) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Annotation is a parsed comment directive of the form
//
//	//namespace::name arg1 arg2 -Key=Value -Flag
//
// Two annotations denote the same marker when their qualified names match.
type Annotation struct {
	Namespace string            // e.g. "measure" or "github.com/acme/cache"
	Name      string            // simple name, e.g. "measured"
	Args      []string          // positional arguments in source order
	Params    map[string]string // -Key=Value pairs
	Flags     []string          // -Flag entries in source order, without the dash
	Location  SourceLocation    // where the annotation was read
	Raw       string            // original comment text
}

// QualifiedName returns namespace::name
func (a Annotation) QualifiedName() string {
	return a.Namespace + Separator + a.Name
}

// Is reports whether the annotation has the given qualified identity
func (a Annotation) Is(qualifiedName string) bool {
	return a.QualifiedName() == qualifiedName
}

// IsMarker reports whether this is the instrumentation marker
func (a Annotation) IsMarker() bool {
	return a.Is(Marker)
}

// Param returns the value of -name=value
func (a Annotation) Param(name string) (string, bool) {
	v, ok := a.Params[name]
	return v, ok
}

// Clone returns a deep copy
func (a Annotation) Clone() Annotation {
	c := a
	if a.Args != nil {
		c.Args = append([]string(nil), a.Args...)
	}
	if a.Flags != nil {
		c.Flags = append([]string(nil), a.Flags...)
	}
	if a.Params != nil {
		c.Params = make(map[string]string, len(a.Params))
		for k, v := range a.Params {
			c.Params[k] = v
		}
	}
	return c
}

// String renders the annotation body without comment markers. Params are
// emitted in key order so the output is stable.
func (a Annotation) String() string {
	var b strings.Builder
	b.WriteString(a.QualifiedName())
	for _, arg := range a.Args {
		b.WriteByte(' ')
		b.WriteString(quoteIfNeeded(arg))
	}
	keys := make([]string, 0, len(a.Params))
	for k := range a.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" -")
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(quoteIfNeeded(a.Params[k]))
	}
	for _, f := range a.Flags {
		b.WriteString(" -")
		b.WriteString(f)
	}
	return b.String()
}

// LineComment renders the annotation as a // directive
func (a Annotation) LineComment() string {
	return "//" + a.String()
}

// BlockComment renders the annotation as an inline /* */ comment
func (a Annotation) BlockComment() string {
	return "/*" + a.String() + "*/"
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"=:") || strings.HasPrefix(s, "-") {
		return strconv.Quote(s)
	}
	return s
}

// List is an ordered set of annotations attached to one declaration
type List []Annotation

// Has reports whether any annotation carries the qualified name
func (l List) Has(qualifiedName string) bool {
	for _, a := range l {
		if a.Is(qualifiedName) {
			return true
		}
	}
	return false
}

// HasMarker reports whether the instrumentation marker is present
func (l List) HasMarker() bool {
	return l.Has(Marker)
}

// Without returns a copy of the list minus every annotation with the qualified name
func (l List) Without(qualifiedName string) List {
	var out List
	for _, a := range l {
		if a.Is(qualifiedName) {
			continue
		}
		out = append(out, a.Clone())
	}
	return out
}

// Clone returns a deep copy of the list
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, a := range l {
		out[i] = a.Clone()
	}
	return out
}
