package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// Stat is one line of a run summary
type Stat struct {
	Label string
	Value interface{}
}

// DiagnosticSystem provides structured, user-friendly output. It is safe for
// use from the pipeline's worker goroutines.
type DiagnosticSystem struct {
	mu        sync.Mutex
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// SetOutput redirects normal and error output. Colors and timestamps are
// turned off, which keeps captured output stable.
func (d *DiagnosticSystem) SetOutput(output, errorOut io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.output = output
	d.errorOut = errorOut
	d.useColors = false
	d.showTime = false
}

// Level returns the configured verbosity
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.errorOut, "WARN", color.FgYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "INFO", color.FgBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "SUCCESS", color.FgGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, "VERBOSE", color.FgHiBlack, format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	if d.level >= DiagnosticDebug {
		d.writeMessage(d.output, "DEBUG", color.FgMagenta, format, args...)
	}
}

// Header outputs the tool banner
func (d *DiagnosticSystem) Header(message string) {
	if d.level >= DiagnosticInfo {
		d.print(d.output, d.paint(color.FgCyan, "measuregen: "+message)+"\n")
	}
}

// PhaseHeader outputs a phase header
func (d *DiagnosticSystem) PhaseHeader(phase string) {
	if d.level >= DiagnosticInfo {
		d.print(d.output, d.paint(color.FgBlue, phase+":")+"\n")
	}
}

// PhaseItem outputs a completed phase item with a checkmark
func (d *DiagnosticSystem) PhaseItem(message string) {
	if d.level >= DiagnosticInfo {
		d.print(d.output, d.getIndent()+d.paint(color.FgGreen, "✓ ")+message+"\n")
	}
}

// PhaseProgress outputs an in-flight phase item
func (d *DiagnosticSystem) PhaseProgress(message string) {
	if d.level >= DiagnosticInfo {
		d.print(d.output, d.getIndent()+"- "+message+"\n")
	}
}

// PhaseWrite outputs a file write
func (d *DiagnosticSystem) PhaseWrite(path string) {
	if d.level >= DiagnosticInfo {
		d.print(d.output, d.getIndent()+d.paint(color.FgMagenta, "✏ ")+"Writing "+path+"\n")
	}
}

// List outputs a bulleted list item
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.print(d.output, d.getIndent()+"- "+fmt.Sprintf(format, args...)+"\n")
	}
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.mu.Lock()
	d.indent++
	d.mu.Unlock()
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	d.mu.Lock()
	if d.indent > 0 {
		d.indent--
	}
	d.mu.Unlock()
}

// Summary outputs a final summary with statistics in the given order
func (d *DiagnosticSystem) Summary(title string, stats []Stat) {
	if d.level < DiagnosticInfo {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", title)
	for _, s := range stats {
		fmt.Fprintf(&b, "   %s: %v\n", s.Label, s.Value)
	}
	b.WriteString("\n")
	d.print(d.output, b.String())
}

// GenerationComplete outputs the completion message
func (d *DiagnosticSystem) GenerationComplete() {
	if d.level >= DiagnosticInfo {
		d.print(d.output, "\n"+d.paint(color.FgGreen, "measuregen: Generation complete!")+"\n")
	}
}

func (d *DiagnosticSystem) writeMessage(writer io.Writer, level string, attr color.Attribute, format string, args ...interface{}) {
	var output strings.Builder
	output.WriteString(d.getIndent())

	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}

	output.WriteString(d.paint(attr, "["+level+"]"))
	output.WriteString(" ")
	output.WriteString(fmt.Sprintf(format, args...))
	output.WriteString("\n")

	d.print(writer, output.String())
}

func (d *DiagnosticSystem) print(writer io.Writer, s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(writer, s)
}

// paint colors s when colors are enabled, independent of fatih/color's own
// tty detection
func (d *DiagnosticSystem) paint(attr color.Attribute, s string) string {
	if !d.useColors {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func (d *DiagnosticSystem) getIndent() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.Repeat("  ", d.indent)
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
