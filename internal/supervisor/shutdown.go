// Signal & Shutdown (spec section 4.8, C8).
package supervisor

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Assada/regilo/internal/pump"
	"github.com/Assada/regilo/internal/signals"
)

// rung is one step of the termination ladder.
type rung struct {
	sig  syscall.Signal
	wait time.Duration
}

// ladder is the fixed INT/INT/TERM/KILL escalation with 1/1/2/2-second
// waits (spec section 4.8).
var ladder = []rung{
	{syscall.SIGINT, time.Second},
	{syscall.SIGINT, time.Second},
	{syscall.SIGTERM, 2 * time.Second},
	{syscall.SIGKILL, 2 * time.Second},
}

// WaitForShutdownSignal installs handlers for the fixed shutdown signal
// set (spec section 6: SIGINT/SIGTERM/SIGPIPE) plus a no-op handler for
// SIGHUP (section 6: "SIGHUP is ignored"), and blocks until one of the
// shutdown signals arrives.
func WaitForShutdownSignal() os.Signal {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, append(signals.Shutdown, signals.Ignored...)...)

	for sig := range ch {
		if signals.IsShutdown(sig) {
			return sig
		}
		// SIGHUP and anything else we were handed: log and keep waiting.
		log.Printf("[INFO] (supervisor) ignoring signal %s", signals.Name(sig))
	}
	return nil
}

// Shutdown stops every running service (reverse start order) and every
// live periodic, applying the termination ladder to each, then returns.
// It is idempotent and safe to call more than once; only the first call
// does any work (spec section 4.8: "Shutdown is idempotent and serialized:
// concurrent signals collapse into one run").
func (s *Supervisor) Shutdown() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	log.Printf("[INFO] (supervisor) shutdown initiated")

	for i := len(s.serviceOrder) - 1; i >= 0; i-- {
		name := s.serviceOrder[i]
		rec := s.services[name]
		if rec.state != stateRunning {
			continue
		}
		log.Printf("[INFO] (supervisor) stopping service: %s", name)
		rec.state = stateStopping
		s.terminate(rec.child, rec.pump)
		rec.state = stateStopped
	}

	for key, inst := range s.periodics {
		log.Printf("[INFO] (supervisor) stopping periodic: %s", inst.periodicName)
		s.terminate(inst.child, inst.pump)
		delete(s.periodics, key)
	}

	log.Printf("[INFO] (supervisor) shutdown complete")
}

// terminate applies the ladder to c, reaps it unconditionally, and joins
// its pump (spec section 4.8 step 5).
func (s *Supervisor) terminate(c terminable, p *pump.Pump) {
	for _, r := range ladder {
		if exited, _ := c.Poll(); exited {
			break
		}
		if err := c.Signal(r.sig); err != nil {
			log.Printf("[WARN] (supervisor) signal %s failed: %s", r.sig, err)
		}
		if waitExit(c, r.wait) {
			break
		}
	}
	c.Wait()
	if p != nil {
		<-p.Done()
	}
}

// waitExit polls c at a short interval until it exits or timeout elapses.
func waitExit(c terminable, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if exited, _ := c.Poll(); exited {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	exited, _ := c.Poll()
	return exited
}

// terminable is the subset of *child.Child the ladder needs; defined here
// so shutdown.go and its tests can use a fake child without importing
// internal/child.
type terminable interface {
	Poll() (bool, int)
	Signal(os.Signal) error
	Wait() (int, error)
}
