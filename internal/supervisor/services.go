package supervisor

import (
	"errors"
	"fmt"
	"log"

	"github.com/Assada/regilo/internal/child"
	"github.com/Assada/regilo/internal/pump"
)

// StartServices runs the dependency-ordered wave scheduling startup phase
// (spec section 4.6). It returns DependencyUnsatisfiable if a wave starts
// zero services while services remain unstarted.
func (s *Supervisor) StartServices() error {
	started := map[string]bool{}

	for {
		progressed := false

		for _, name := range s.cfg.ServiceOrder {
			if started[name] {
				continue
			}
			rec := s.services[name]
			if !s.needsSatisfied(rec.spec.Needs, started) {
				continue
			}
			if err := s.startService(rec); err != nil {
				return err
			}
			started[name] = true
			s.serviceOrder = append(s.serviceOrder, name)
			progressed = true
		}

		if len(started) == len(s.cfg.ServiceOrder) {
			return nil
		}
		if !progressed {
			var remaining []string
			for _, name := range s.cfg.ServiceOrder {
				if !started[name] {
					remaining = append(remaining, name)
				}
			}
			return &DependencyUnsatisfiable{Remaining: remaining}
		}
	}
}

func (s *Supervisor) needsSatisfied(needs []string, started map[string]bool) bool {
	for _, dep := range needs {
		if !started[dep] {
			return false
		}
	}
	return true
}

// startService spawns rec's child. A missing binary (child.SpawnError) is
// not a fatal condition (spec section 7: "for services, logged and treated
// as an immediate exit, triggering the restart path") -- it leaves rec in
// stateFailed so pollServices retries it every tick, the same as a service
// that crashed after running a while. Only a child.New failure (e.g. an
// unresolvable user/group credential) is returned as fatal.
func (s *Supervisor) startService(rec *serviceRecord) error {
	log.Printf("[INFO] (supervisor) starting service: %s", rec.name)

	c, err := child.New(&child.NewInput{
		Path:    rec.spec.Path,
		Args:    rec.spec.Args,
		Workdir: rec.spec.Workdir,
		User:    rec.spec.User,
		Group:   rec.spec.Group,
	})
	if err != nil {
		return fmt.Errorf("service %q: %w", rec.name, err)
	}
	if err := c.Spawn(rec.spec.Output); err != nil {
		var spawnErr *child.SpawnError
		if errors.As(err, &spawnErr) {
			log.Printf("[ERR] (supervisor) service %q failed to spawn: %s", rec.name, spawnErr)
			rec.child = nil
			rec.pump = nil
			rec.state = stateFailed
			return nil
		}
		return fmt.Errorf("service %q: %w", rec.name, err)
	}

	rec.child = c
	rec.state = stateRunning
	if rec.spec.Output {
		rec.pump = pump.Start(rec.name, c, s.out)
	}
	return nil
}

// pollServices implements steady-state loop step 1 (spec section 4.6):
// observe every Running service and restart any that exited on its own,
// and retry any still in stateFailed from a previous spawn failure.
func (s *Supervisor) pollServices() {
	for _, name := range s.serviceOrder {
		rec := s.services[name]

		switch rec.state {
		case stateFailed:
			s.restartService(rec)
		case stateRunning:
			exited, code := rec.child.Poll()
			if !exited {
				continue
			}
			log.Printf("[WARN] (supervisor) service %q unexpectedly stopped (exit code %d)", rec.name, code)
			rec.child.Wait()
			if rec.pump != nil {
				<-rec.pump.Done()
			}
			s.restartService(rec)
		}
	}
}

// restartService re-spawns rec. A credential/config error here is
// permanent (it will not resolve itself between ticks), so it stops the
// service for good; a spawn failure instead leaves rec in stateFailed via
// startService, to be retried on the next tick.
func (s *Supervisor) restartService(rec *serviceRecord) {
	if err := s.startService(rec); err != nil {
		log.Printf("[ERR] (supervisor) service %q failed to restart: %s", rec.name, err)
		rec.state = stateStopped
	}
}
