package engine

import (
	"time"

	"github.com/username/opening-hours/internal/timespan"
)

// TimeSelector yields the time-of-day intervals a rule contributes for a
// given date. IntervalsAt returns the part attributable to the date itself;
// IntervalsAtNextDay returns the part that spills past the date's midnight,
// rebased onto the following day's clock.
type TimeSelector interface {
	IntervalsAt(date time.Time) []timespan.Range
	IntervalsAtNextDay(date time.Time) []timespan.Range
}

// FixedTimes is a TimeSelector with the same extended-time ranges on every
// matched date. An empty range list means the whole day.
type FixedTimes struct {
	Ranges []timespan.Range
}

// AllDay returns a selector covering 00:00-24:00
func AllDay() FixedTimes {
	return FixedTimes{Ranges: []timespan.Range{fullDay()}}
}

// IntervalsAt returns the configured ranges; parts past 24:00 are clamped
// away downstream and reappear through IntervalsAtNextDay.
func (ft FixedTimes) IntervalsAt(_ time.Time) []timespan.Range {
	return ft.ranges()
}

// IntervalsAtNextDay returns the portions of the configured ranges lying
// past 24:00, shifted back by one day.
func (ft FixedTimes) IntervalsAtNextDay(_ time.Time) []timespan.Range {
	var out []timespan.Range
	for _, r := range ft.ranges() {
		end := r.End.MinutesFromMidnight()
		if end <= timespan.MinutesPerDay {
			continue
		}

		start := r.Start.MinutesFromMidnight()
		if start < timespan.MinutesPerDay {
			start = timespan.MinutesPerDay
		}

		out = append(out, timespan.Range{
			Start: atMinutes(start - timespan.MinutesPerDay),
			End:   atMinutes(end - timespan.MinutesPerDay),
		})
	}
	return out
}

func (ft FixedTimes) ranges() []timespan.Range {
	if len(ft.Ranges) == 0 {
		return []timespan.Range{fullDay()}
	}
	return ft.Ranges
}

func fullDay() timespan.Range {
	return timespan.Range{Start: atMinutes(0), End: atMinutes(timespan.MinutesPerDay)}
}

func atMinutes(m int) timespan.ExtendedTime {
	et, _ := timespan.FromMinutes(m)
	return et
}
