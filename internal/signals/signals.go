// Package signals names the fixed set of signals the supervisor cares
// about (spec section 6: SIGINT/SIGTERM/SIGPIPE trigger shutdown, SIGHUP is
// ignored) and the termination-ladder signals used to escalate against a
// stubborn child (spec section 4.8). Unlike the teacher's signals package,
// none of this is configurable -- spec.md fixes the signal set, so there is
// no Parse-a-signal-name-from-config surface here, only a name table for
// logging.
package signals

import (
	"os"
	"syscall"
)

// SignalLookup maps a canonical signal name to the concrete os.Signal, used
// only to render readable log lines (e.g. "receiving signal %q").
var SignalLookup = map[string]os.Signal{
	"SIGHUP":  syscall.SIGHUP,
	"SIGINT":  syscall.SIGINT,
	"SIGTERM": syscall.SIGTERM,
	"SIGPIPE": syscall.SIGPIPE,
	"SIGKILL": syscall.SIGKILL,
	"SIGCHLD": syscall.SIGCHLD,
}

// Shutdown is the fixed set of signals that initiate graceful shutdown
// (spec section 6).
var Shutdown = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGPIPE}

// Ignored is the fixed set of signals the supervisor installs a no-op
// handler for (spec section 6: "SIGHUP is ignored").
var Ignored = []os.Signal{syscall.SIGHUP}

// Name returns the canonical name for s, or its String() form if unknown.
func Name(s os.Signal) string {
	for name, candidate := range SignalLookup {
		if candidate == s {
			return name
		}
	}
	return s.String()
}

// IsShutdown reports whether s is one of the fixed shutdown-triggering
// signals.
func IsShutdown(s os.Signal) bool {
	for _, candidate := range Shutdown {
		if candidate == s {
			return true
		}
	}
	return false
}
