package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/username/opening-hours/internal/schedule"
	"github.com/username/opening-hours/internal/selector"
)

// TimeDomain is an immutable, ordered rule list bound to a holiday oracle.
// It is safe to share across goroutines; every query allocates only its own
// cursor and the current day's schedule.
type TimeDomain struct {
	rules    []Rule
	holidays selector.HolidayOracle
	logger   *zap.Logger
}

// New creates a TimeDomain. The oracle and logger may be nil.
func New(rules []Rule, holidays selector.HolidayOracle, logger *zap.Logger) *TimeDomain {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TimeDomain{
		rules:    rules,
		holidays: holidays,
		logger:   logger,
	}
}

// ScheduleAt folds the rule list into the resolved schedule for one date.
// Rules fold left to right under their operators; when no rule carries
// information for the date the result is the empty schedule, which Filled
// expands to a full Unknown day.
func (d *TimeDomain) ScheduleAt(date time.Time) schedule.Schedule {
	var acc schedule.Schedule
	accSet := false

	for _, rule := range d.rules {
		curr, currSet := rule.scheduleAt(date, d.holidays)

		switch rule.Operator {
		case Additional:
			switch {
			case accSet && currSet:
				acc = acc.Addition(curr)
			case currSet:
				acc, accSet = curr, true
			}
		case Fallback:
			if !accSet {
				acc, accSet = curr, currSet
			}
		default: // Normal replaces unconditionally, information or not.
			acc, accSet = curr, currSet
		}
	}

	if !accSet {
		return schedule.Empty()
	}
	return acc
}

// NextChange returns the end of the current state run, or the queried
// instant itself when the stream is empty.
func (d *TimeDomain) NextChange(t time.Time) time.Time {
	if iv, ok := d.IterFrom(t).Next(); ok {
		return iv.End
	}
	return t
}

// StateAt returns the state in effect at the given instant
func (d *TimeDomain) StateAt(t time.Time) schedule.State {
	if iv, ok := d.IterFrom(t).Next(); ok {
		return iv.State
	}
	return schedule.Unknown
}

// IsOpen reports whether the state at the given instant is Open
func (d *TimeDomain) IsOpen(t time.Time) bool {
	return d.StateAt(t) == schedule.Open
}

// IsClosed reports whether the state at the given instant is Closed
func (d *TimeDomain) IsClosed(t time.Time) bool {
	return d.StateAt(t) == schedule.Closed
}

// IsUnknown reports whether the state at the given instant is Unknown
func (d *TimeDomain) IsUnknown(t time.Time) bool {
	return d.StateAt(t) == schedule.Unknown
}

// Intervals returns the maximal state intervals between two instants, with
// the first clipped to from and the last clipped to to.
func (d *TimeDomain) Intervals(from, to time.Time) []Interval {
	it := d.IterFrom(from)

	var out []Interval
	for {
		iv, ok := it.Next()
		if !ok || !iv.Start.Before(to) {
			break
		}

		if iv.Start.Before(from) {
			iv.Start = from
		}
		if iv.End.After(to) {
			iv.End = to
		}
		if !iv.Start.Before(iv.End) {
			continue
		}
		out = append(out, iv)
	}

	d.logger.Debug("interval query evaluated",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("intervals", len(out)))

	return out
}
