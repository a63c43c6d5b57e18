// Package reaper centralizes process reaping so regilo behaves correctly
// as PID 1 (spec section 9: "a reimplementation should install a generic
// child-reaper in addition to the per-child waits"). On Unix, wait4(-1, ...)
// collects the next exited child regardless of which goroutine spawned it,
// so exactly one goroutine in the whole program may call it: every
// internal/child.Child registers its pid here instead of calling
// os.Process.Wait itself, and adopted orphans (grandchildren reparented to
// PID 1 when their own parent dies) are reaped and their status discarded
// after a short grace period, which is all a PID-1 reaper owes a process
// it never spawned.
package reaper

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Result is the outcome of reaping one registered child.
type Result struct {
	ExitCode int
	Err      error
}

// stashTTL bounds how long an unregistered exit is held in reaped waiting
// for a Register call to claim it. A real Start-then-Register window is
// microseconds; anything still unclaimed after this long is a genuine
// orphan's exit, not a race, and is pruned so reaped cannot grow without
// bound over a long-running PID-1 lifetime.
const stashTTL = 5 * time.Second

type stashed struct {
	result Result
	at     time.Time
}

var (
	mu      sync.Mutex
	pending = map[int]chan Result{}
	reaped  = map[int]stashed{}
	running bool
	stopCh  chan struct{}
)

// Register records that pid belongs to a tracked child and returns a
// channel that receives exactly one Result once the reap loop observes its
// exit. Called immediately after a successful Start(), but the reap loop
// may have already observed and stashed the exit first if the child died
// before Register ran (a fast-exiting `exec` startup task can do this) --
// reaped is checked first so that race can never strand the caller on a
// channel nothing will ever write to.
func Register(pid int) <-chan Result {
	ch := make(chan Result, 1)

	mu.Lock()
	if s, ok := reaped[pid]; ok {
		delete(reaped, pid)
		mu.Unlock()
		ch <- s.result
		close(ch)
		return ch
	}
	pending[pid] = ch
	mu.Unlock()
	return ch
}

// Unregister removes a pid's registration without waiting for it. A later
// exit of that pid is then stashed like an unregistered orphan's and pruned
// after stashTTL.
func Unregister(pid int) {
	mu.Lock()
	delete(pending, pid)
	mu.Unlock()
}

// Start installs the SIGCHLD-driven reap loop. It is a no-op if already
// running. main calls this once, early, before any child is spawned.
func Start() {
	mu.Lock()
	if running {
		mu.Unlock()
		return
	}
	running = true
	stopCh = make(chan struct{})
	mu.Unlock()

	sigCh := make(chan os.Signal, 8)
	signal.Notify(sigCh, syscall.SIGCHLD)

	go func() {
		// An initial sweep catches children that exited between Start()
		// and Notify() taking effect.
		reapAvailable()
		for {
			select {
			case <-stopCh:
				signal.Stop(sigCh)
				return
			case <-sigCh:
				reapAvailable()
			}
		}
	}()
}

// Stop halts the reap loop. Only used by tests.
func Stop() {
	mu.Lock()
	if !running {
		mu.Unlock()
		return
	}
	running = false
	close(stopCh)
	mu.Unlock()
}

// reapAvailable drains every zombie currently waitable without blocking,
// dispatching each to its registered channel if one is already waiting, or
// stashing the result in reaped for a Register call that hasn't run yet
// (or, for a true orphan, pruning away after stashTTL).
func reapAvailable() {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
		if err != nil || pid <= 0 {
			break
		}

		code := -1
		if ws.Exited() {
			code = ws.ExitStatus()
		}
		result := Result{ExitCode: code}

		mu.Lock()
		dest, ok := pending[pid]
		delete(pending, pid)
		if !ok {
			reaped[pid] = stashed{result: result, at: time.Now()}
		}
		mu.Unlock()

		if ok {
			dest <- result
			close(dest)
		}
	}

	pruneStale()
}

// pruneStale drops stashed exits older than stashTTL, the ones Register
// will now never come to claim.
func pruneStale() {
	cutoff := time.Now().Add(-stashTTL)

	mu.Lock()
	defer mu.Unlock()
	for pid, s := range reaped {
		if s.at.Before(cutoff) {
			delete(reaped, pid)
		}
	}
}
