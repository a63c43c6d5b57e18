// Package supervisor implements the Service Supervisor (C6), Periodic
// Scheduler (C7) integration, and Signal & Shutdown (C8) -- the steady
// -state core of the program. It is grounded on the teacher's Runner type
// in the original manager/runner.go: a single struct owning the process
// tables, started once by main, driven by one control loop that also owns
// a ticker. The redesign replaces the teacher's single `child *child.Child`
// field and render-event bookkeeping with the service/periodic tables
// spec section 9 calls for ("encapsulate in a Supervisor value owned by
// main, passed by reference to helpers; mutation confined to the main
// loop").
package supervisor

import (
	"fmt"
	"sync"
	"time"

	"github.com/Assada/regilo/internal/child"
	"github.com/Assada/regilo/internal/config"
	"github.com/Assada/regilo/internal/pump"
	"github.com/Assada/regilo/internal/schedule"
	"github.com/Assada/regilo/internal/sink"
)

// pollInterval is the steady-state loop's sleep between iterations (spec
// section 4.6 step 4).
const pollInterval = 200 * time.Millisecond

// serviceState enumerates a ServiceRecord's lifecycle (spec section 3).
type serviceState int

const (
	stateStopped serviceState = iota
	stateRunning
	stateStopping
	// stateFailed marks a service whose most recent spawn attempt hit a
	// missing binary (child.SpawnError): not running, but due an
	// immediate retry on the next poll tick rather than a permanent stop.
	stateFailed
)

// serviceRecord is spec section 3's ServiceRecord.
type serviceRecord struct {
	name  string
	spec  *config.ServiceSpec
	child *child.Child
	pump  *pump.Pump
	state serviceState
}

// periodicInstance is spec section 3's PeriodicInstance.
type periodicInstance struct {
	instanceID   string
	periodicName string
	spec         *config.PeriodicSpec
	child        *child.Child
	pump         *pump.Pump
	startedAt    time.Time
}

// Supervisor owns every mutable runtime table (spec section 9): SERVICES,
// SERVICE_ORDER, and PERIODICS. Every field below is touched only by the
// main loop goroutine (StartServices/Run/Shutdown all run on the caller's
// goroutine in sequence); workers (pumps) only ever write to out.
type Supervisor struct {
	cfg *config.Config
	out *sink.Sink

	services     map[string]*serviceRecord
	serviceOrder []string

	periodics map[string]*periodicInstance
	schedules map[string]*schedule.Schedule
	lastTick  int64

	shutdownMu   sync.Mutex
	shuttingDown bool
}

// New builds a Supervisor for cfg, compiling every periodic's cron
// expression up front so a malformed expression fails fast rather than at
// its first possible fire.
func New(cfg *config.Config, out *sink.Sink) (*Supervisor, error) {
	s := &Supervisor{
		cfg:       cfg,
		out:       out,
		services:  map[string]*serviceRecord{},
		periodics: map[string]*periodicInstance{},
		schedules: map[string]*schedule.Schedule{},
	}

	for name, spec := range cfg.Services {
		s.services[name] = &serviceRecord{name: name, spec: spec, state: stateStopped}
	}

	for name, spec := range cfg.Periodic {
		if spec.Timing == "" {
			continue
		}
		sch, err := schedule.Parse(spec.Timing)
		if err != nil {
			return nil, fmt.Errorf("periodic %q: invalid timing %q: %w", name, spec.Timing, err)
		}
		s.schedules[name] = sch
	}

	return s, nil
}

// DependencyUnsatisfiable is returned by StartServices when a startup wave
// makes no progress while services remain unstarted (spec section 7).
type DependencyUnsatisfiable struct {
	Remaining []string
}

func (e *DependencyUnsatisfiable) Error() string {
	return fmt.Sprintf("dependency graph unsatisfiable, services never started: %v", e.Remaining)
}

// Run blocks, repeating the steady-state loop (spec section 4.6) until stop
// is closed, then returns. It stops no child itself; stopping every service
// and periodic is Shutdown's job, which the caller runs after Run returns.
func (s *Supervisor) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		s.pollServices()
		s.drainPeriodics()
		s.tickPeriodics(time.Now())

		select {
		case <-stop:
			return
		case <-time.After(pollInterval):
		}
	}
}
