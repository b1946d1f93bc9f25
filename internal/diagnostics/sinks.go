package diagnostics

import (
	"fmt"
	"strings"
)

// Sink is an ordered, append-only message buffer. mlox.py's Msg,
// Stats, Old, and New loggers are exactly this: they are the program's
// real output, not logs, so they always record regardless of -d/-p.
type Sink struct {
	lines []string
}

// NewSink creates an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends a formatted message.
func (s *Sink) Add(format string, args ...any) {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

// Lines returns the messages added so far, oldest first.
func (s *Sink) Lines() []string {
	return s.lines
}

// String joins all lines with newlines, with a trailing newline, the
// way mlox.py's logger.get() does.
func (s *Sink) String() string {
	if len(s.lines) == 0 {
		return ""
	}
	return strings.Join(s.lines, "\n") + "\n"
}

// Flush discards all recorded messages.
func (s *Sink) Flush() {
	s.lines = nil
}

// Buffers groups the four output sinks a driver run produces:
// Msg (diagnostics: warnings, conflicts, notes, patches), Stats
// (one-line progress counters), Old (input load order), and New (the
// computed load order, highlighted).
type Buffers struct {
	Msg   *Sink
	Stats *Sink
	Old   *Sink
	New   *Sink
}

// NewBuffers creates a fresh, empty set of buffers.
func NewBuffers() *Buffers {
	return &Buffers{
		Msg:   NewSink(),
		Stats: NewSink(),
		Old:   NewSink(),
		New:   NewSink(),
	}
}

// Flush clears all four buffers, mirroring loadorder.update's flush of
// Msg/Stats/New/Old at the start of each run.
func (b *Buffers) Flush() {
	b.Msg.Flush()
	b.Stats.Flush()
	b.Old.Flush()
	b.New.Flush()
}
