package annotations

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
)

// SyntaxError represents a malformed annotation
type SyntaxError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SyntaxError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s: annotation syntax error: %s", e.Loc, e.Msg)
	}
	return fmt.Sprintf("%s: annotation syntax error: %s. %s", e.Loc, e.Msg, e.Hint)
}

func (e *SyntaxError) Location() SourceLocation { return e.Loc }
func (e *SyntaxError) Suggestion() string       { return e.Hint }

// newSyntaxError converts a participle failure into a SyntaxError, shifting
// the column by the offset reported by the grammar
func newSyntaxError(err error, body string, location SourceLocation) *SyntaxError {
	loc := location
	msg := err.Error()

	var perr participle.Error
	if errors.As(err, &perr) {
		msg = perr.Message()
		if pos := perr.Position(); pos.Column > 0 {
			loc.Column = location.Column + pos.Column - 1
		}
	}

	return &SyntaxError{
		Msg:  fmt.Sprintf("%s in %q", msg, body),
		Loc:  loc,
		Hint: "expected namespace::name [args] [-Key=Value] [-Flag]",
	}
}
