package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/vitalsim/vitalsim/sim"
)

// ConsoleSink writes one formatted line per reading to a single stream,
// normally stdout. Writes are serialized at line level so concurrent tasks
// never corrupt a line.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSink creates a ConsoleSink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// Name implements sim.Sink.
func (c *ConsoleSink) Name() string { return "console" }

// Deliver writes the reading's prose representation as one line.
func (c *ConsoleSink) Deliver(r sim.Reading) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintln(c.w, r.String()); err != nil {
		return fmt.Errorf("console write: %w", err)
	}
	return nil
}

// Close implements sim.Sink. The underlying stream is not owned by the sink.
func (c *ConsoleSink) Close() error { return nil }
