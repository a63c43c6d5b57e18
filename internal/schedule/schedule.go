// Package schedule implements the minute-granular cron matcher the
// Periodic Scheduler (spec section 4.7, C7) uses to decide whether a
// periodic's timing expression fires at the current wall-clock minute. It
// is grounded on robfig/cron/v3's standard five-field parser, one of the
// pack's domain dependencies (SPEC_FULL.md, Domain Stack); the teacher
// itself ticks on a plain time.Ticker (manager/runner.go), so the
// minute-advance detection below is new but follows that same
// ticker-driven polling idiom.
package schedule

import (
	"time"

	"github.com/robfig/cron/v3"
)

// parser understands the standard five-field expression (minute, hour,
// day-of-month, month, day-of-week) spec section 4.7 calls for, including
// lists, ranges, steps, and names -- no seconds field, no "descriptors"
// like @daily.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Schedule wraps a single parsed cron expression.
type Schedule struct {
	expr cron.Schedule
}

// Parse compiles a five-field cron expression.
func Parse(expr string) (*Schedule, error) {
	s, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &Schedule{expr: s}, nil
}

// Matches reports whether the schedule fires at the minute containing now.
// It works by asking the underlying matcher for the next fire time strictly
// after the top of the previous minute, then checking whether that next
// fire time falls within now's minute -- the standard way to turn a
// "next(t)" cron API into a "does it match this minute" predicate.
func (s *Schedule) Matches(now time.Time) bool {
	minuteStart := now.Truncate(time.Minute)
	next := s.expr.Next(minuteStart.Add(-time.Second))
	return !next.Before(minuteStart) && next.Before(minuteStart.Add(time.Minute))
}

// MinuteBucket returns the integer wall-clock minute count for now, used by
// the supervisor loop to detect "the minute has advanced since the last
// tick" (spec section 4.7: "detected by floor(now/60) advancing") without
// re-evaluating every schedule on every 200ms iteration.
func MinuteBucket(now time.Time) int64 {
	return now.Unix() / 60
}
