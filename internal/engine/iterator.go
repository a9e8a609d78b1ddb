package engine

import (
	"time"

	"github.com/username/opening-hours/internal/schedule"
	"github.com/username/opening-hours/pkg/dateutil"
)

// maxYear bounds the synthetic calendar. Advancing past it terminates the
// stream; it is the finite stand-in for "forever", not an error.
const maxYear = 9999

// Interval is one maximal run of a single state on the real timeline
type Interval struct {
	Start    time.Time
	End      time.Time
	State    schedule.State
	Comments []string
}

// Iterator walks the timeline forward one day at a time, emitting maximal
// same-state intervals. Consecutive emitted intervals always differ in
// state, and together they partition the timeline from the starting instant
// up to the calendar bound.
type Iterator struct {
	domain *TimeDomain
	date   time.Time
	spans  []schedule.TimeSpan
}

// IterFrom positions a fresh iterator at the given instant
func (d *TimeDomain) IterFrom(from time.Time) *Iterator {
	it := &Iterator{
		domain: d,
		date:   dateutil.StartOfDay(from),
	}

	if it.date.Year() <= maxYear {
		it.spans = d.ScheduleAt(it.date).Filled()
	}

	startMinute := from.Hour()*60 + from.Minute()
	for len(it.spans) > 0 && !spanContains(it.spans[0], startMinute) {
		it.spans = it.spans[1:]
	}

	return it
}

// Next emits the next maximal state interval. The second return value is
// false once the calendar bound has been crossed.
func (it *Iterator) Next() (Interval, bool) {
	if len(it.spans) == 0 {
		return Interval{}, false
	}

	curr := it.spans[0]
	start := dateutil.AtMinutes(it.date, curr.Range.Start.MinutesFromMidnight())

	it.consumeState(curr.State)

	endMinute := 0
	if len(it.spans) > 0 {
		endMinute = it.spans[0].Range.Start.MinutesFromMidnight()
	}
	end := dateutil.AtMinutes(it.date, endMinute)

	return Interval{
		Start:    start,
		End:      end,
		State:    curr.State,
		Comments: curr.Comments,
	}, true
}

// consumeState drops spans while they keep the given state, recomputing the
// filled schedule of each next day as the current one runs out. When the
// calendar bound is crossed the span list stays empty and the stream ends.
func (it *Iterator) consumeState(state schedule.State) {
	for len(it.spans) > 0 && it.spans[0].State == state {
		it.spans = it.spans[1:]

		if len(it.spans) == 0 {
			it.date = it.date.AddDate(0, 0, 1)

			if it.date.Year() <= maxYear {
				it.spans = it.domain.ScheduleAt(it.date).Filled()
			}
		}
	}
}

func spanContains(sp schedule.TimeSpan, minute int) bool {
	return sp.Range.Start.MinutesFromMidnight() <= minute &&
		minute < sp.Range.End.MinutesFromMidnight()
}
