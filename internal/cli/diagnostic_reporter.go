package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/measuregen/internal/models"
)

// DiagnosticReporter provides user-friendly error reporting
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: os.Stderr}
}

// SetOutput redirects the report
func (r *DiagnosticReporter) SetOutput(w io.Writer) {
	r.out = w
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError provides comprehensive error reporting. A RunError is
// reported one failure at a time.
func (r *DiagnosticReporter) ReportError(err error) {
	var runErr *RunError
	if errors.As(err, &runErr) {
		fmt.Fprintf(r.out, "\nERROR: %d of the run's types failed (run %s)\n", len(runErr.Failures), runErr.RunID)
		fmt.Fprintf(r.out, "%s\n", strings.Repeat("=", 40))
		for i, failure := range runErr.Failures {
			fmt.Fprintf(r.out, "\n[%d/%d] %s\n", i+1, len(runErr.Failures), failure.Type)
			r.reportOne(failure.Err)
		}
		fmt.Fprintf(r.out, "\n")
		return
	}

	fmt.Fprintf(r.out, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.out, "=============================\n\n")
	r.reportOne(err)
	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) reportOne(err error) {
	var genErr *models.GeneratorError
	if errors.As(err, &genErr) {
		r.reportGeneratorError(genErr)
		return
	}
	fmt.Fprintf(r.out, "Message: %s\n", err.Error())
}

// reportGeneratorError reports a GeneratorError with full context and suggestions
func (r *DiagnosticReporter) reportGeneratorError(genErr *models.GeneratorError) {
	title := kindTitle(genErr.Kind)
	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("-", len(title)+6))

	if genErr.Type.Name != "" {
		fmt.Fprintf(r.out, "Declaration: %s\n", genErr.Type)
	}
	fmt.Fprintf(r.out, "Message: %s\n", genErr.Message)

	if genErr.File != "" {
		if genErr.Line > 0 {
			fmt.Fprintf(r.out, "Location: %s:%d\n", genErr.File, genErr.Line)
		} else {
			fmt.Fprintf(r.out, "File: %s\n", genErr.File)
		}
	}

	if len(genErr.Suggestions) > 0 {
		r.printSuggestions(genErr.Suggestions)
	}

	r.printAdditionalHelp(genErr.Kind)

	if r.verbose && genErr.Cause != nil {
		r.printErrorChain(genErr.Cause)
	}
}

func kindTitle(kind models.ErrorKind) string {
	switch kind {
	case models.ErrorKindValidation:
		return "Validation Error"
	case models.ErrorKindSyntax:
		return "Annotation Syntax Error"
	case models.ErrorKindModelInconsistency:
		return "Model Inconsistency"
	case models.ErrorKindUnsupportedShape:
		return "Unsupported Declaration"
	case models.ErrorKindEmission:
		return "Code Generation Error"
	case models.ErrorKindFileSystem:
		return "File System Error"
	default:
		return "Unknown Error"
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}
}

// printAdditionalHelp prints help for the kinds a user can fix in source
func (r *DiagnosticReporter) printAdditionalHelp(kind models.ErrorKind) {
	switch kind {
	case models.ErrorKindSyntax:
		fmt.Fprintf(r.out, "Annotation Syntax Help:\n")
		fmt.Fprintf(r.out, "  - Annotations look like //namespace::name args -Key=Value\n")
		fmt.Fprintf(r.out, "  - Quote values containing spaces or '='\n")
	case models.ErrorKindUnsupportedShape:
		fmt.Fprintf(r.out, "Supported Types:\n")
		fmt.Fprintf(r.out, "  - Non-generic named types declared in the scanned package\n")
		fmt.Fprintf(r.out, "  - At most one New<Type> constructor returning the type or a pointer to it\n")
	}
}

// printErrorChain prints every wrapped cause in verbose mode
func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.out, "Error Chain:\n")
	for level := 1; err != nil; level++ {
		fmt.Fprintf(r.out, "  %d. %s\n", level, err.Error())
		err = errors.Unwrap(err)
	}
}
