// Package pump implements the Output Pump (spec section 4.2, C2): a
// dedicated cooperative worker per captured child that drains
// internal/child's Lines() channel and writes each line through the
// internal/sink Output Sink as a prefixed record. It is grounded on the
// teacher's per-template render-event goroutine shape in manager/runner.go,
// generalized from "one goroutine per template" to "one goroutine per
// child's output stream".
package pump

import (
	"github.com/Assada/regilo/internal/child"
	"github.com/Assada/regilo/internal/sink"
)

// Pump drains a single child's captured output into the shared sink until
// the child's read side closes.
type Pump struct {
	prefix string
	src    *child.Child
	dst    *sink.Sink

	done chan struct{}
}

// Start spawns the pump goroutine and returns immediately. prefix names the
// service or periodic this output belongs to (spec section 4.2: "the
// service or periodic name"); it is truncated/padded by the sink.
func Start(prefix string, src *child.Child, dst *sink.Sink) *Pump {
	p := &Pump{
		prefix: prefix,
		src:    src,
		dst:    dst,
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// run reads from src.Lines() until the channel closes -- which happens
// exactly when the child's write end of the pipe is closed by the kernel,
// either on clean exit or after being killed (spec section 4.2: "the pump
// terminates exactly when the child's read side closes; it never blocks
// shutdown"). No select on a stop channel is needed: pipe closure is itself
// the termination signal.
func (p *Pump) run() {
	defer close(p.done)
	lines := p.src.Lines()
	if lines == nil {
		return
	}
	for text := range lines {
		p.dst.Write(p.prefix, 0, text)
	}
}

// Done returns a channel closed once the pump has observed the child's read
// side close and drained everything buffered ahead of it.
func (p *Pump) Done() <-chan struct{} {
	return p.done
}
