// Package startup implements the Startup Executor (spec section 4.3, C3)
// and its two delegates, the Template Filler (C4, template.go) and Tree
// Ensurer (C5, tree.go). It is grounded on the teacher's service.go
// main()-level bootstrap (destination directory creation, save(), a
// single flat sequence of setup steps run once before the steady-state
// ticker starts) generalized into an ordered, idempotent task list.
package startup

import (
	"fmt"
	"log"

	"github.com/Assada/regilo/internal/child"
	"github.com/Assada/regilo/internal/config"
	"github.com/Assada/regilo/internal/identity"
	"github.com/Assada/regilo/internal/pump"
	"github.com/Assada/regilo/internal/sink"
)

// TaskFailed reports that an exec startup task exited non-zero, or a
// template/tree task hit an I/O error (spec section 7, StartupTaskFailed).
// Both are fatal: the caller must not start any services.
type TaskFailed struct {
	Description string
	Err         error
}

func (e *TaskFailed) Error() string {
	return fmt.Sprintf("startup task %q failed: %s", e.Description, e.Err)
}

func (e *TaskFailed) Unwrap() error { return e.Err }

// Run executes cfg.Startup in declared order against out, using stateDir
// as the marker store. It returns the first fatal error encountered (spec
// section 4.3: "unknown task type is fatal at the first occurrence").
func Run(cfg *config.Config, stateDir string, out *sink.Sink) error {
	for i, task := range cfg.Startup {
		if err := runOne(task, cfg.Environment, stateDir, out); err != nil {
			return fmt.Errorf("startup task #%d (%s): %w", i, task.Description, err)
		}
	}
	return nil
}

func runOne(task config.StartupTask, defaults map[string]string, stateDir string, out *sink.Sink) error {
	switch task.Type {
	case config.TaskExec:
		return runExec(task, stateDir, out)
	case config.TaskTemplate:
		return runTemplate(task, defaults, stateDir)
	case config.TaskTree:
		return runTree(task)
	default:
		return fmt.Errorf("unknown startup task type %q", task.Type)
	}
}

// runExec runs an `exec` startup task, honoring the marker (spec section
// 4.3: "if every-start=false and marker exists, log a skip and continue").
// A non-zero exit is fatal.
func runExec(task config.StartupTask, stateDir string, out *sink.Sink) error {
	key, err := identity.Key(task)
	if err != nil {
		return err
	}

	if !task.EveryStart && markerExists(stateDir, key) {
		log.Printf("[INFO] (startup) skipping startup task: %s", task.Description)
		return nil
	}

	c, err := child.New(&child.NewInput{
		Path:    task.Path,
		Args:    task.Args,
		Workdir: task.Workdir,
		User:    task.User,
		Group:   task.Group,
	})
	if err != nil {
		return &TaskFailed{Description: task.Description, Err: err}
	}
	if err := c.Spawn(task.Output); err != nil {
		return &TaskFailed{Description: task.Description, Err: err}
	}

	var p *pump.Pump
	if task.Output {
		p = pump.Start(prefixFor(task.Description), c, out)
	}
	code, err := c.Wait()
	if p != nil {
		<-p.Done()
	}
	if err != nil {
		return &TaskFailed{Description: task.Description, Err: err}
	}
	if code != 0 {
		return &TaskFailed{Description: task.Description, Err: fmt.Errorf("exit code %d", code)}
	}

	return writeMarker(stateDir, key)
}

func runTemplate(task config.StartupTask, defaults map[string]string, stateDir string) error {
	key, err := identity.Key(task)
	if err != nil {
		return err
	}
	if !task.EveryStart && markerExists(stateDir, key) {
		log.Printf("[INFO] (startup) skipping startup task: %s", task.Description)
		return nil
	}

	if err := fillTemplate(task.Source, task.Target, defaults); err != nil {
		return &TaskFailed{Description: task.Description, Err: err}
	}

	return writeMarker(stateDir, key)
}

// runTree always runs: tree creation is itself idempotent (spec section
// 4.3: "if the task type is tree, skip idempotency").
func runTree(task config.StartupTask) error {
	if err := ensureTree("/", task.Tree); err != nil {
		return &TaskFailed{Description: task.Description, Err: err}
	}
	return nil
}

func prefixFor(description string) string {
	if description == "" {
		return "startup"
	}
	return description
}
