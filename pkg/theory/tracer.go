package theory

import (
	"fmt"
	"io"

	"github.com/go-air/gini/z"
)

// SearchPosition describes the state of a solver thread at the moment
// a theory conflict is found.
type SearchPosition interface {
	ThreadID() int
	TrailSize() int
	Conflict() []z.Lit
}

// Tracer is notified of every theory conflict a propagator reports.
type Tracer interface {
	Trace(p SearchPosition)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ SearchPosition) {
}

type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(p SearchPosition) {
	fmt.Fprintf(t.Writer, "---\nThread %d with %d trailed edges\nConflict:\n", p.ThreadID(), p.TrailSize())
	for _, m := range p.Conflict() {
		fmt.Fprintf(t.Writer, "- %s\n", m)
	}
}
