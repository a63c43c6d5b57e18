// Package child implements the Child Runner (spec section 4.1, C1): it
// spawns a single child process with merged stdout+stderr, exposes
// non-blocking liveness polling, signalling, and blocking reap, and frames
// captured output into whole UTF-8 lines. It is grounded on the teacher's
// manager/runner.go spawnChild/child.New call shape and on devrunner.go's
// (other_examples) use of a dedicated process group for clean signalling.
package child

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/Assada/regilo/internal/reaper"
)

// maxLineBytes bounds a single framed line (spec section 4.1): a line
// longer than this is split at the boundary without loss, rather than
// grown without bound or dropped.
const maxLineBytes = 64 * 1024

// NewInput is the input to New.
type NewInput struct {
	Path    string
	Args    []string
	Workdir string
	User    string // optional OS user name
	Group   string // optional OS group name
	Capture bool   // if false, stdout/stderr are routed to /dev/null
}

// Child is a spawned, tracked child process (spec section 3,
// "ChildProcess").
type Child struct {
	cmd *exec.Cmd
	pid int

	mu       sync.Mutex
	exited   bool
	exitCode int
	waitErr  error
	waitDone chan struct{}

	lines chan string
}

// New resolves credentials and builds the exec.Cmd, but does not start it.
// A ConfigError-shaped error (see spec section 7) is returned if the
// configured user/group cannot be resolved.
func New(i *NewInput) (*Child, error) {
	cmd := exec.Command(i.Path, i.Args...)
	cmd.Dir = i.Workdir
	cmd.Env = os.Environ()

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if i.User != "" || i.Group != "" {
		cred, err := resolveCredential(i.User, i.Group)
		if err != nil {
			return nil, errors.Wrap(err, "child: resolving credentials")
		}
		cmd.SysProcAttr.Credential = cred
	}

	return &Child{
		cmd:      cmd,
		waitDone: make(chan struct{}),
	}, nil
}

// resolveCredential looks up the numeric uid/gid for the given user/group
// names. Either may be empty. With no user, the supervisor's own uid is
// used; with no group, the named user's primary gid is used, or the
// supervisor's own gid when no user is named either.
func resolveCredential(userName, groupName string) (*syscall.Credential, error) {
	cred := &syscall.Credential{
		Uid: uint32(os.Getuid()),
		Gid: uint32(os.Getgid()),
	}

	if userName != "" {
		u, err := user.Lookup(userName)
		if err != nil {
			return nil, fmt.Errorf("unknown user %q: %w", userName, err)
		}
		uid, err := strconv.ParseUint(u.Uid, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("user %q has non-numeric uid %q", userName, u.Uid)
		}
		cred.Uid = uint32(uid)

		if groupName == "" {
			gid, err := strconv.ParseUint(u.Gid, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("user %q has non-numeric gid %q", userName, u.Gid)
			}
			cred.Gid = uint32(gid)
		}
	}

	if groupName != "" {
		g, err := user.LookupGroup(groupName)
		if err != nil {
			return nil, fmt.Errorf("unknown group %q: %w", groupName, err)
		}
		gid, err := strconv.ParseUint(g.Gid, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("group %q has non-numeric gid %q", groupName, g.Gid)
		}
		cred.Gid = uint32(gid)
	}

	return cred, nil
}

// Spawn starts the child. If capture is true, merged stdout+stderr is
// framed into whole lines retrievable from Lines(); otherwise output is
// discarded to /dev/null (spec section 4.1).
func (c *Child) Spawn(capture bool) error {
	if !capture {
		devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return errors.Wrap(err, "child: opening null device")
		}
		c.cmd.Stdout = devNull
		c.cmd.Stderr = devNull

		if err := c.cmd.Start(); err != nil {
			devNull.Close()
			return &SpawnError{Path: c.cmd.Path, Err: err}
		}
		devNull.Close() // child holds its own descriptor
		c.pid = c.cmd.Process.Pid
		result := reaper.Register(c.pid)
		go c.reap(result)
		return nil
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return errors.Wrap(err, "child: creating pipe")
	}
	c.cmd.Stdout = pw
	c.cmd.Stderr = pw

	if err := c.cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return &SpawnError{Path: c.cmd.Path, Err: err}
	}
	pw.Close() // supervisor's copy; the child holds its own
	c.pid = c.cmd.Process.Pid
	result := reaper.Register(c.pid)

	c.lines = make(chan string, 64)
	go c.pumpLines(pr)
	go c.reap(result)

	return nil
}

// reap waits on the channel the central reaper (internal/reaper) delivers
// this pid's exit status to, records it, and closes waitDone. Poll and
// Wait both observe this single result. The central reaper -- not
// os/exec's own Process.Wait -- owns the actual wait4 call, because this
// process runs as PID 1 and must also collect reparented orphans it never
// spawned; mixing os/exec's per-pid wait4 with a second reaper that scoops
// up "any child" (wait4(-1, ...)) would race the two for the same zombie.
func (c *Child) reap(result <-chan reaper.Result) {
	r := <-result

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exited {
		return
	}
	c.exited = true
	c.exitCode = r.ExitCode
	c.waitErr = r.Err
	close(c.waitDone)
}

// pumpLines frames pr into whole lines with the trailing newline stripped,
// splitting lines longer than maxLineBytes at the boundary without loss
// (spec section 4.1). It closes Lines() on EOF or read error -- the Output
// Pump (C2) observes this as "the child's read side closed".
func (c *Child) pumpLines(pr *os.File) {
	defer close(c.lines)
	defer pr.Close()

	r := bufio.NewReaderSize(pr, maxLineBytes)
	for {
		chunk, err := r.ReadSlice('\n')
		if len(chunk) > 0 {
			text := chunk
			if len(text) > 0 && text[len(text)-1] == '\n' {
				text = text[:len(text)-1]
				if len(text) > 0 && text[len(text)-1] == '\r' {
					text = text[:len(text)-1]
				}
			}
			c.lines <- string(text)
		}
		if err != nil {
			if err == bufio.ErrBufferFull {
				// The line is longer than maxLineBytes: the chunk just
				// emitted is its first part, keep reading the rest.
				continue
			}
			return
		}
	}
}

// Lines returns the channel of framed output lines. It is nil if the child
// was spawned without capture.
func (c *Child) Lines() <-chan string {
	return c.lines
}

// Pid returns the child's process id, or 0 if it has not been spawned.
func (c *Child) Pid() int {
	return c.pid
}

// Poll non-blockingly reports whether the child has exited, and its exit
// code if so (spec section 4.1). It is safe to call repeatedly.
func (c *Child) Poll() (exited bool, code int) {
	select {
	case <-c.waitDone:
		c.mu.Lock()
		defer c.mu.Unlock()
		return true, c.exitCode
	default:
		return false, 0
	}
}

// Signal sends sig to the child's entire process group, so that any
// grandchildren the child itself spawned are reached too (grounded on
// devrunner.go's syscall.Kill(-pid, ...) pattern; golang.org/x/sys/unix is
// used here in place of the stdlib syscall package for the actual kill(2)
// call, consistent with how the rest of the pack reaches for x/sys/unix
// over raw syscall on Linux-specific process control).
func (c *Child) Signal(sig os.Signal) error {
	pid := c.Pid()
	if pid == 0 {
		return nil
	}
	number, ok := sig.(syscall.Signal)
	if !ok {
		return c.cmd.Process.Signal(sig)
	}
	if err := unix.Kill(-pid, unix.Signal(number)); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
		return err
	}
	return nil
}

// Wait blocks until the child has been reaped and returns its exit code.
// It is idempotent: calling it more than once returns the same result.
func (c *Child) Wait() (int, error) {
	<-c.waitDone
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exitCode, c.waitErr
}

// SpawnError is returned by Spawn when the child could not be created at
// all (missing binary, permission denied -- spec section 7).
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %q: %s", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
