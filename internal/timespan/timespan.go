// Package timespan models times of day on an extended 48-hour dial, so that
// a span which starts before midnight and continues into the next day can be
// kept as a single record (22:00-26:00 instead of two anchored halves).
package timespan

import "fmt"

const (
	// MaxHour bounds the extended dial. Anything past it cannot be
	// attributed to "the previous day plus spill" anymore.
	MaxHour = 48

	// MinutesPerDay is the number of minutes in a calendar day.
	MinutesPerDay = 24 * 60

	maxMinutes = MaxHour * 60
)

// ExtendedTime is a time of day whose hour may exceed 23 to denote a point
// past the previous midnight. Ordering is lexicographic over (hour, minute).
type ExtendedTime struct {
	hour   int
	minute int
}

// New builds an ExtendedTime, rejecting values outside the representable
// range (minute must be below 60, hour within [0, MaxHour]).
func New(hour, minute int) (ExtendedTime, error) {
	if minute < 0 || minute >= 60 {
		return ExtendedTime{}, fmt.Errorf("invalid time: minute is %d", minute)
	}
	if hour < 0 || hour > MaxHour {
		return ExtendedTime{}, fmt.Errorf("invalid time: hour is %d", hour)
	}

	return ExtendedTime{hour: hour, minute: minute}, nil
}

// Hour returns the hour component (may exceed 23)
func (t ExtendedTime) Hour() int {
	return t.hour
}

// Minute returns the minute component (0-59)
func (t ExtendedTime) Minute() int {
	return t.minute
}

// MinutesFromMidnight returns the total minute offset from the day's start
func (t ExtendedTime) MinutesFromMidnight() int {
	return t.hour*60 + t.minute
}

// FromMinutes builds an ExtendedTime from a minute offset from midnight,
// failing when the offset falls outside the representable range.
func FromMinutes(minutes int) (ExtendedTime, error) {
	if minutes < 0 || minutes > maxMinutes {
		return ExtendedTime{}, fmt.Errorf("time out of range: %d minutes from midnight", minutes)
	}

	return ExtendedTime{hour: minutes / 60, minute: minutes % 60}, nil
}

// AddMinutes returns the time shifted by a signed number of minutes. Shifts
// that leave the representable range are reported as errors; offsets come
// from rule data, so callers must treat this as recoverable.
func (t ExtendedTime) AddMinutes(minutes int) (ExtendedTime, error) {
	return FromMinutes(t.MinutesFromMidnight() + minutes)
}

// AddHours returns the time shifted by a signed number of hours
func (t ExtendedTime) AddHours(hours int) (ExtendedTime, error) {
	return FromMinutes(t.MinutesFromMidnight() + hours*60)
}

// Compare returns -1, 0 or 1 ordering t against u
func (t ExtendedTime) Compare(u ExtendedTime) int {
	switch {
	case t.MinutesFromMidnight() < u.MinutesFromMidnight():
		return -1
	case t.MinutesFromMidnight() > u.MinutesFromMidnight():
		return 1
	default:
		return 0
	}
}

// Before reports whether t is strictly earlier than u
func (t ExtendedTime) Before(u ExtendedTime) bool {
	return t.Compare(u) < 0
}

// After reports whether t is strictly later than u
func (t ExtendedTime) After(u ExtendedTime) bool {
	return t.Compare(u) > 0
}

// Clock returns the ordinary wall-clock (hour, minute) when the value is in
// the 24-hour range; ok is false for values past midnight.
func (t ExtendedTime) Clock() (hour, minute int, ok bool) {
	if t.hour > 23 {
		return 0, 0, false
	}
	return t.hour, t.minute, true
}

// String formats the time as H:MM, e.g. "9:00" or "26:30"
func (t ExtendedTime) String() string {
	return fmt.Sprintf("%d:%02d", t.hour, t.minute)
}

// Range is a half-open [Start, End) span of extended times within one day.
type Range struct {
	Start ExtendedTime
	End   ExtendedTime
}

// NewRange builds a range from two extended times. An end at or before the
// start is taken to continue past midnight and is pushed onto the extended
// dial (21:00-03:00 becomes 21:00-27:00).
func NewRange(start, end ExtendedTime) (Range, error) {
	if end.Compare(start) <= 0 {
		pushed, err := end.AddHours(24)
		if err != nil {
			return Range{}, fmt.Errorf("range %s-%s does not fit the extended dial: %w", start, end, err)
		}
		end = pushed
	}

	return Range{Start: start, End: end}, nil
}

// Contains reports whether the given time falls inside the range
func (r Range) Contains(t ExtendedTime) bool {
	return t.Compare(r.Start) >= 0 && t.Compare(r.End) < 0
}

// Empty reports whether the range covers nothing
func (r Range) Empty() bool {
	return r.End.Compare(r.Start) <= 0
}

// String formats the range as "H:MM-H:MM"
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}
