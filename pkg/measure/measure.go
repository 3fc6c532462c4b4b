// Package measure is the runtime that generated Measured wrappers report
// through. Each measured call produces one line of the form
//
//	<method> from <type> took <milliseconds> ms
//
// and hands it to the installed Sink, which writes to standard output unless
// replaced with SetSink.
package measure

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Sink receives formatted report lines
type Sink interface {
	Report(line string)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(line string)

// Report calls f(line)
func (f SinkFunc) Report(line string) {
	f(line)
}

// WriterSink writes every line, newline terminated, to an io.Writer.
// Concurrent reports are serialized.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Report writes the line; write errors are dropped
func (s *WriterSink) Report(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, line+"\n")
}

// Discard drops every line
var Discard Sink = SinkFunc(func(string) {})

var (
	sinkMu  sync.RWMutex
	current Sink = NewWriterSink(os.Stdout)
)

// SetSink installs s as the destination of all reports and returns the
// previous sink. A nil sink discards reports.
func SetSink(s Sink) Sink {
	if s == nil {
		s = Discard
	}

	sinkMu.Lock()
	defer sinkMu.Unlock()

	previous := current
	current = s
	return previous
}

// CurrentSink returns the installed sink
func CurrentSink() Sink {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return current
}

// Milliseconds returns d in whole milliseconds, clamping negative durations to 0
func Milliseconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}

// Line formats the report line for one call
func Line(method, typeName string, elapsed time.Duration) string {
	return fmt.Sprintf("%s from %s took %d ms", method, typeName, Milliseconds(elapsed))
}

// Report sends the line for one measured call to the installed sink
func Report(method, typeName string, elapsed time.Duration) {
	CurrentSink().Report(Line(method, typeName, elapsed))
}
