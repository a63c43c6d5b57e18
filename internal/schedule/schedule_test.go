package schedule

import (
	"testing"
	"time"
)

func TestMatchesFiresOnlyInMatchingMinute(t *testing.T) {
	s, err := Parse("30 4 * * *")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}

	match := time.Date(2026, 7, 31, 4, 30, 15, 0, time.UTC)
	if !s.Matches(match) {
		t.Fatalf("expected schedule to match %s", match)
	}

	noMatch := time.Date(2026, 7, 31, 4, 31, 0, 0, time.UTC)
	if s.Matches(noMatch) {
		t.Fatalf("expected schedule not to match %s", noMatch)
	}
}

func TestMatchesEveryFiveMinutes(t *testing.T) {
	s, err := Parse("*/5 * * * *")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}

	fires := 0
	for minute := 0; minute < 60; minute++ {
		at := time.Date(2026, 7, 31, 10, minute, 0, 0, time.UTC)
		if s.Matches(at) {
			fires++
		}
	}
	if fires != 12 {
		t.Fatalf("expected 12 matching minutes in an hour, got %d", fires)
	}
}

func TestParseRejectsInvalidExpression(t *testing.T) {
	if _, err := Parse("not a cron expression"); err == nil {
		t.Fatal("expected error for invalid expression, got nil")
	}
}

func TestMinuteBucketAdvancesEachMinute(t *testing.T) {
	a := time.Date(2026, 7, 31, 10, 0, 30, 0, time.UTC)
	b := time.Date(2026, 7, 31, 10, 1, 0, 0, time.UTC)

	if MinuteBucket(a) == MinuteBucket(b) {
		t.Fatalf("expected minute bucket to advance between %s and %s", a, b)
	}
}
