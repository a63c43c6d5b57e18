package supervisor

import (
	"fmt"
	"log"
	"time"

	"github.com/Assada/regilo/internal/child"
	"github.com/Assada/regilo/internal/pump"
	"github.com/Assada/regilo/internal/schedule"
)

// tickPeriodics implements steady-state loop step 3 (spec section 4.7):
// only re-evaluate cron schedules once the wall-clock minute has advanced
// since the last tick.
func (s *Supervisor) tickPeriodics(now time.Time) {
	bucket := schedule.MinuteBucket(now)
	if bucket == s.lastTick {
		return
	}
	s.lastTick = bucket

	for _, name := range s.cfg.PeriodicOrder {
		sch, ok := s.schedules[name]
		if !ok || !sch.Matches(now) {
			continue
		}
		s.firePeriodic(name, now)
	}
}

func (s *Supervisor) firePeriodic(name string, now time.Time) {
	spec := s.cfg.Periodic[name]

	if !spec.AllowMultiple {
		if _, live := s.periodics[name]; live {
			log.Printf("[WARN] (supervisor) periodic %q still running, skipping fire", name)
			return
		}
	}

	key := name
	if spec.AllowMultiple {
		key = fmt.Sprintf("%s@%d", name, now.UnixNano())
	}

	log.Printf("[INFO] (supervisor) starting periodic: %s", name)

	c, err := child.New(&child.NewInput{
		Path:    spec.Path,
		Args:    spec.Args,
		Workdir: spec.Workdir,
		User:    spec.User,
		Group:   spec.Group,
	})
	if err != nil {
		log.Printf("[ERR] (supervisor) periodic %q failed to spawn: %s", name, err)
		return
	}
	if err := c.Spawn(spec.Output); err != nil {
		log.Printf("[ERR] (supervisor) periodic %q failed to spawn: %s", name, err)
		return
	}

	inst := &periodicInstance{
		instanceID:   key,
		periodicName: name,
		spec:         spec,
		child:        c,
		startedAt:    now,
	}
	if spec.Output {
		inst.pump = pump.Start(name, c, s.out)
	}
	s.periodics[key] = inst
}

// drainPeriodics reaps every finished PeriodicInstance (spec section 4.7:
// "the reaping pass polls every live PeriodicInstance; exited instances
// are waited on, their pump joined, and the record removed").
func (s *Supervisor) drainPeriodics() {
	for key, inst := range s.periodics {
		exited, _ := inst.child.Poll()
		if !exited {
			continue
		}
		inst.child.Wait()
		if inst.pump != nil {
			<-inst.pump.Done()
		}
		delete(s.periodics, key)
	}
}
