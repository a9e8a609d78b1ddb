// Package selector implements the calendar side of a rule: which concrete
// dates a rule claims. A selector holds four independent categories (years,
// month/day ranges, ISO weeks, weekdays); a date matches the selector when it
// matches every non-empty category, and matches a category when any of its
// entries matches. Values are built once and never mutated afterwards.
package selector

import (
	"time"

	"github.com/username/opening-hours/pkg/dateutil"
)

// DaySelector is the predicate over calendar dates attached to one rule.
// An empty category imposes no constraint.
type DaySelector struct {
	Year     []YearRange
	Monthday []MonthdayRange
	Week     []WeekRange
	Weekday  []WeekdayRange
}

// Matches reports whether the selector claims the given date. The holiday
// oracle backs holiday-kind weekday entries and may be nil.
func (s DaySelector) Matches(date time.Time, holidays HolidayOracle) bool {
	if len(s.Year) > 0 && !anyYear(s.Year, date) {
		return false
	}
	if len(s.Monthday) > 0 && !anyMonthday(s.Monthday, date) {
		return false
	}
	if len(s.Week) > 0 && !anyWeek(s.Week, date) {
		return false
	}
	if len(s.Weekday) > 0 && !anyWeekday(s.Weekday, date, holidays) {
		return false
	}

	return true
}

func anyYear(ranges []YearRange, date time.Time) bool {
	for _, r := range ranges {
		if r.matches(date.Year()) {
			return true
		}
	}
	return false
}

func anyMonthday(ranges []MonthdayRange, date time.Time) bool {
	for _, r := range ranges {
		if r.matches(date) {
			return true
		}
	}
	return false
}

func anyWeek(ranges []WeekRange, date time.Time) bool {
	_, week := dateutil.GetWeekNumber(date)
	for _, r := range ranges {
		if r.matches(week) {
			return true
		}
	}
	return false
}

func anyWeekday(ranges []WeekdayRange, date time.Time, holidays HolidayOracle) bool {
	for _, r := range ranges {
		if r.matches(date, holidays) {
			return true
		}
	}
	return false
}

// YearRange matches years within inclusive bounds, optionally stepped
// ("every Nth year"). A zero step counts as 1.
type YearRange struct {
	Start int
	End   int
	Step  int
}

func (r YearRange) matches(year int) bool {
	step := r.Step
	if step == 0 {
		step = 1
	}

	return year >= r.Start && year <= r.End && (year-r.Start)%step == 0
}

// WeekRange matches ISO week numbers within inclusive bounds, optionally
// stepped. A zero step counts as 1.
type WeekRange struct {
	Start int
	End   int
	Step  int
}

func (r WeekRange) matches(week int) bool {
	step := r.Step
	if step == 0 {
		step = 1
	}

	return week >= r.Start && week <= r.End && (week-r.Start)%step == 0
}

type monthdayKind int

const (
	monthdayMonths monthdayKind = iota
	monthdayDates
)

// MonthdayRange claims dates either by an inclusive month range (optionally
// pinned to a single year) or by an explicit pair of date bounds. Month
// ranges whose start lies after their end wrap across the year boundary
// (Nov-Feb); date pairs wrap the same way when their resolved start falls
// after their resolved end.
type MonthdayRange struct {
	kind       monthdayKind
	year       int
	startMonth time.Month
	endMonth   time.Month
	start      DateBound
	end        DateBound
}

// MonthRange builds a month-range entry matching any year
func MonthRange(start, end time.Month) MonthdayRange {
	return MonthdayRange{kind: monthdayMonths, startMonth: start, endMonth: end}
}

// MonthRangeInYear builds a month-range entry pinned to one year
func MonthRangeInYear(year int, start, end time.Month) MonthdayRange {
	return MonthdayRange{kind: monthdayMonths, year: year, startMonth: start, endMonth: end}
}

// DateRange builds an explicit date-pair entry
func DateRange(start, end DateBound) MonthdayRange {
	return MonthdayRange{kind: monthdayDates, start: start, end: end}
}

func (r MonthdayRange) matches(date time.Time) bool {
	switch r.kind {
	case monthdayDates:
		return r.matchesDates(date)
	default:
		return r.matchesMonths(date)
	}
}

func (r MonthdayRange) matchesMonths(date time.Time) bool {
	if r.year != 0 && date.Year() != r.year {
		return false
	}

	month := date.Month()
	if r.startMonth <= r.endMonth {
		return month >= r.startMonth && month <= r.endMonth
	}

	// Wrapping range, e.g. Nov-Feb.
	return month >= r.startMonth || month <= r.endMonth
}

func (r MonthdayRange) matchesDates(date time.Time) bool {
	day := civil(date)
	start := r.start.resolve(date.Year())
	end := r.end.resolve(date.Year())

	if !start.After(end) {
		return !day.Before(start) && !day.After(end)
	}

	// Resolved bounds straddle the year boundary, e.g. Dec 20 - Jan 5.
	return !day.Before(start) || !day.After(end)
}

type weekdayKind int

const (
	weekdayFixed weekdayKind = iota
	weekdayHoliday
)

// WeekdayRange claims dates either by a (possibly wrapping) weekday range,
// optionally restricted to given ordinal occurrences within the month and
// shifted by a day offset, or by a holiday kind with a day offset. A
// non-zero offset tests date minus offset days instead of the date itself.
type WeekdayRange struct {
	kind    weekdayKind
	start   time.Weekday
	end     time.Weekday
	offset  int
	nth     [5]bool
	holiday HolidayKind
}

// Weekdays builds a plain weekday-range entry
func Weekdays(start, end time.Weekday) WeekdayRange {
	return WeekdayRange{kind: weekdayFixed, start: start, end: end}
}

// WeekdaysNth builds a weekday-range entry with a day offset and ordinal
// occurrence flags (nth[0] selects the 1st occurrence, nth[4] the 5th).
func WeekdaysNth(start, end time.Weekday, offset int, nth [5]bool) WeekdayRange {
	return WeekdayRange{kind: weekdayFixed, start: start, end: end, offset: offset, nth: nth}
}

// Holiday builds a holiday-kind entry with a day offset
func Holiday(kind HolidayKind, offset int) WeekdayRange {
	return WeekdayRange{kind: weekdayHoliday, holiday: kind, offset: offset}
}

func (r WeekdayRange) matches(date time.Time, holidays HolidayOracle) bool {
	shifted := date.AddDate(0, 0, -r.offset)

	switch r.kind {
	case weekdayHoliday:
		return holidays != nil && holidays.IsHoliday(shifted, r.holiday)
	default:
		return r.matchesFixed(shifted)
	}
}

func (r WeekdayRange) matchesFixed(date time.Time) bool {
	span := (int(r.end) - int(r.start) + 7) % 7
	pos := (int(date.Weekday()) - int(r.start) + 7) % 7
	if pos > span {
		return false
	}

	if !r.anyNth() {
		return true
	}

	n := dateutil.NthWeekdayOfMonth(date)
	return r.nth[n-1]
}

func (r WeekdayRange) anyNth() bool {
	for _, set := range r.nth {
		if set {
			return true
		}
	}
	return false
}

// civil truncates an instant to its calendar day, normalized to UTC so that
// resolved selector dates compare location-independently.
func civil(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}
