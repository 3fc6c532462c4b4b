package models

import (
	"fmt"
	"strings"
)

// ErrorKind classifies generator failures
type ErrorKind int

const (
	ErrorKindValidation ErrorKind = iota
	ErrorKindSyntax
	ErrorKindModelInconsistency
	ErrorKindUnsupportedShape
	ErrorKindEmission
	ErrorKindFileSystem
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindValidation:
		return "validation"
	case ErrorKindSyntax:
		return "syntax"
	case ErrorKindModelInconsistency:
		return "model inconsistency"
	case ErrorKindUnsupportedShape:
		return "unsupported shape"
	case ErrorKindEmission:
		return "emission"
	case ErrorKindFileSystem:
		return "file system"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is; they match any GeneratorError of the same kind
var (
	ErrModelInconsistency = &GeneratorError{Kind: ErrorKindModelInconsistency, Message: "model inconsistency"}
	ErrUnsupportedShape   = &GeneratorError{Kind: ErrorKindUnsupportedShape, Message: "unsupported shape"}
	ErrEmission           = &GeneratorError{Kind: ErrorKindEmission, Message: "emission failed"}
)

// GeneratorError represents an error that occurred while generating one type
type GeneratorError struct {
	Kind        ErrorKind
	Type        TypeIdentity // type being processed, zero when not type-specific
	File        string       // file where error occurred
	Line        int          // line number where error occurred
	Message     string       // error message
	Cause       error        // underlying error cause
	Suggestions []string
}

// Error implements the error interface
func (e *GeneratorError) Error() string {
	var b strings.Builder
	switch {
	case e.File != "" && e.Line > 0:
		fmt.Fprintf(&b, "%s:%d: ", e.File, e.Line)
	case e.File != "":
		fmt.Fprintf(&b, "%s: ", e.File)
	}
	if e.Type.Name != "" {
		fmt.Fprintf(&b, "%s: ", e.Type)
	}
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying error cause
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// Is matches sentinels by kind
func (e *GeneratorError) Is(target error) bool {
	t, ok := target.(*GeneratorError)
	if !ok {
		return false
	}
	return t == ErrModelInconsistency && e.Kind == ErrorKindModelInconsistency ||
		t == ErrUnsupportedShape && e.Kind == ErrorKindUnsupportedShape ||
		t == ErrEmission && e.Kind == ErrorKindEmission ||
		t == e
}

// NewModelInconsistency reports a contradictory declaration model
func NewModelInconsistency(id TypeIdentity, format string, args ...interface{}) *GeneratorError {
	return &GeneratorError{
		Kind:    ErrorKindModelInconsistency,
		Type:    id,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewUnsupportedShape reports a declaration using a feature the generator rejects
func NewUnsupportedShape(id TypeIdentity, suggestion string, format string, args ...interface{}) *GeneratorError {
	err := &GeneratorError{
		Kind:    ErrorKindUnsupportedShape,
		Type:    id,
		Message: fmt.Sprintf(format, args...),
	}
	if suggestion != "" {
		err.Suggestions = []string{suggestion}
	}
	return err
}

// WrapEmission reports that a wrapper could not be finalized
func WrapEmission(id TypeIdentity, cause error) *GeneratorError {
	return &GeneratorError{
		Kind:    ErrorKindEmission,
		Type:    id,
		Message: "wrapper could not be finalized",
		Cause:   cause,
	}
}
