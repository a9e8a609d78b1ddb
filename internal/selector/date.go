package selector

import (
	"time"

	"github.com/username/opening-hours/pkg/dateutil"
)

// HolidayKind identifies which class of holiday a rule refers to
type HolidayKind int

const (
	PublicHoliday HolidayKind = iota + 1
	SchoolHoliday
)

// String returns the conventional short tag for the holiday kind
func (k HolidayKind) String() string {
	switch k {
	case PublicHoliday:
		return "PH"
	case SchoolHoliday:
		return "SH"
	default:
		return "?"
	}
}

// HolidayOracle classifies concrete dates as holidays. Implementations live
// outside the selector model; a nil oracle makes every holiday entry miss.
type HolidayOracle interface {
	IsHoliday(date time.Time, kind HolidayKind) bool
}

type dateKind int

const (
	dateFixed dateKind = iota
	dateEaster
)

// Date designates a calendar day: either a fixed (year, month, day) triple
// or the movable Easter Sunday. A zero year means "any year" and is filled
// in from the queried date at resolution time.
type Date struct {
	kind  dateKind
	year  int
	month time.Month
	day   int
}

// FixedDate builds a fixed calendar date. Pass year 0 for "any year".
func FixedDate(year int, month time.Month, day int) Date {
	return Date{kind: dateFixed, year: year, month: month, day: day}
}

// EasterDate builds an Easter Sunday marker. Pass year 0 for "any year".
func EasterDate(year int) Date {
	return Date{kind: dateEaster, year: year}
}

// resolve pins the date to a concrete day, defaulting an absent year to
// fallbackYear.
func (d Date) resolve(fallbackYear int) time.Time {
	year := d.year
	if year == 0 {
		year = fallbackYear
	}

	switch d.kind {
	case dateEaster:
		return dateutil.Easter(year)
	default:
		return time.Date(year, d.month, d.day, 0, 0, 0, 0, time.UTC)
	}
}

// Snap selects the direction of a weekday adjustment in a DateOffset
type Snap int

const (
	SnapNone Snap = iota
	SnapNext
	SnapPrev
)

// DateOffset moves a resolved date by a signed day count and then optionally
// snaps it to the nearest requested weekday. The day shift is applied first.
type DateOffset struct {
	Days    int
	Snap    Snap
	Weekday time.Weekday
}

// Apply shifts the given date by the offset. The weekday snap moves the
// minimal number of days in the requested direction, zero if already there.
func (o DateOffset) Apply(date time.Time) time.Time {
	date = date.AddDate(0, 0, o.Days)

	switch o.Snap {
	case SnapNext:
		diff := (int(o.Weekday) - int(date.Weekday()) + 7) % 7
		date = date.AddDate(0, 0, diff)
	case SnapPrev:
		diff := (int(date.Weekday()) - int(o.Weekday) + 7) % 7
		date = date.AddDate(0, 0, -diff)
	}

	return date
}

// DateBound is one endpoint of an explicit date range: the date plus the
// offset applied to it after resolution.
type DateBound struct {
	Date   Date
	Offset DateOffset
}

// resolve pins the bound to a concrete day
func (b DateBound) resolve(fallbackYear int) time.Time {
	return b.Offset.Apply(b.Date.resolve(fallbackYear))
}
