// Package engine composes an ordered list of rules into per-day schedules
// and streams them as real-time open/closed/unknown intervals. It is the
// only package external callers query.
package engine

import (
	"time"

	"github.com/username/opening-hours/internal/schedule"
	"github.com/username/opening-hours/internal/selector"
)

// Operator selects how a rule's contribution combines with everything
// accumulated from earlier rules for the same date.
type Operator int

const (
	// Normal replaces the accumulated result unconditionally, even when
	// this rule says nothing about the date. A later Normal rule fully
	// supersedes earlier rules.
	Normal Operator = iota

	// Additional merges this rule's contribution into the accumulated
	// result with the schedule addition operator.
	Additional

	// Fallback is consulted only when nothing earlier produced
	// information for the date.
	Fallback
)

// String returns a lowercase label for the operator
func (o Operator) String() string {
	switch o {
	case Additional:
		return "additional"
	case Fallback:
		return "fallback"
	default:
		return "normal"
	}
}

// Rule couples a calendar selector with a time selector, a target state, a
// combination operator and free-form comments. Rules are immutable once the
// domain is built.
type Rule struct {
	Days     selector.DaySelector
	Times    TimeSelector
	State    schedule.State
	Operator Operator
	Comments []string
}

// scheduleAt evaluates the rule against one date. Two contributions are
// considered: the date itself, and the spill of the prior date's intervals
// past midnight. The returned flag distinguishes "no information" (selector
// matched neither day) from an explicit, possibly empty schedule.
func (r Rule) scheduleAt(date time.Time, holidays selector.HolidayOracle) (schedule.Schedule, bool) {
	times := r.times()

	var today schedule.Schedule
	hasToday := r.Days.Matches(date, holidays)
	if hasToday {
		today = schedule.FromRanges(times.IntervalsAt(date), r.State, r.Comments)
	}

	yesterday := date.AddDate(0, 0, -1)

	var spill schedule.Schedule
	hasSpill := r.Days.Matches(yesterday, holidays)
	if hasSpill {
		spill = schedule.FromRanges(times.IntervalsAtNextDay(yesterday), r.State, r.Comments)
	}

	switch {
	case hasToday && hasSpill:
		return today.Addition(spill), true
	case hasToday:
		return today, true
	case hasSpill:
		return spill, true
	default:
		return schedule.Empty(), false
	}
}

func (r Rule) times() TimeSelector {
	if r.Times == nil {
		return FixedTimes{}
	}
	return r.Times
}
