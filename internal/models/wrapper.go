package models

import "github.com/toyz/measuregen/internal/annotations"

// BodyKind selects the shape of a forwarding method body
type BodyKind int

const (
	// BodyPlainForward returns the held instance's result directly
	BodyPlainForward BodyKind = iota
	// BodyMeasuredForward times the call and reports the elapsed milliseconds
	BodyMeasuredForward
)

// String returns the string representation of the body kind
func (k BodyKind) String() string {
	switch k {
	case BodyPlainForward:
		return "plain"
	case BodyMeasuredForward:
		return "measured"
	default:
		return "unknown"
	}
}

// FieldDeclaration is the wrapper's single field holding the original instance
type FieldDeclaration struct {
	Name        string
	Type        string
	Annotations annotations.List // copied from the original type
}

// ConstructorDeclaration describes one generated constructor function
type ConstructorDeclaration struct {
	Name       string
	Parameters []Parameter
	Result     string // e.g. *MeasuredCalculator

	// Exactly one of Assign or Construct is set. Assign names the parameter
	// stored as-is; Construct is the expression building the held instance.
	Assign    string
	Construct *Construction
}

// Construction builds the held instance inside the constructing constructor
type Construction struct {
	Func     string   // constructor function name; empty means new(TypeName)
	Args     []string // forwarded positionally
	TypeName string

	// ReturnsError is set when Func also returns an error. The constructing
	// constructor then captures Value and Err and passes a non-nil Err on.
	ReturnsError bool
	Value        string
	Err          string
}

// MethodBody is the statement shape of a forwarding method
type MethodBody struct {
	Kind       BodyKind
	Receiver   string   // receiver variable of the wrapper method
	Field      string   // field holding the original instance
	Method     string   // method invoked on the held instance
	Args       []string // forwarded positionally; variadic args carry a trailing "..."
	ResultVars []string // measured bodies capture results into these
	Before     string   // measured bodies hold the start time here
	After      string   // and the end time here
	TypeName   string   // original simple type name, reported by measured bodies
	Returns    bool     // whether the method produces results
}

// WrappedMethod is a forwarding method of the wrapper type
type WrappedMethod struct {
	MethodDeclaration
	Body MethodBody
}

// WrapperSpec is the synthesized wrapper type for one TypeDeclaration
type WrapperSpec struct {
	Source       *TypeDeclaration // read-only view of the original type
	Name         string
	Receiver     string
	Field        FieldDeclaration
	Delegating   ConstructorDeclaration
	Constructing ConstructorDeclaration
	Methods      []WrappedMethod
}

// Identity returns the wrapper's identity
func (w *WrapperSpec) Identity() TypeIdentity {
	return TypeIdentity{Namespace: w.Source.Namespace, Name: w.Name}
}

// HasMeasuredMethods reports whether any method times its call
func (w *WrapperSpec) HasMeasuredMethods() bool {
	for _, m := range w.Methods {
		if m.Body.Kind == BodyMeasuredForward {
			return true
		}
	}
	return false
}
