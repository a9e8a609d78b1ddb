// Package schedule holds the normalized plan for a single calendar day: an
// ordered set of non-overlapping time spans, each carrying a state and the
// comments of the rules that produced it. Schedules merge through Addition
// and expand to a full-day cover through Filled.
package schedule

import (
	"sort"

	"github.com/username/opening-hours/internal/timespan"
)

// State is the resolved answer for a span of time
type State int

const (
	Open State = iota
	Closed
	Unknown
)

// String returns a lowercase label for the state
func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// TimeSpan is one interval of the day with its state and comments. Comments
// are kept sorted and de-duplicated.
type TimeSpan struct {
	Range    timespan.Range
	State    State
	Comments []string
}

// Schedule is an ordered, non-overlapping set of time spans within one day.
// It does not have to cover the whole day.
type Schedule struct {
	spans []TimeSpan
}

// Empty returns a schedule with no spans
func Empty() Schedule {
	return Schedule{}
}

// FromRanges builds a schedule from one rule's resolved time ranges, tagging
// every span with the same state and comment set. Ranges are clamped to the
// day (00:00-24:00); overlapping and adjacent ranges are merged.
func FromRanges(ranges []timespan.Range, state State, comments []string) Schedule {
	comments = normalizeComments(comments)

	clipped := make([]span, 0, len(ranges))
	for _, r := range ranges {
		start := r.Start.MinutesFromMidnight()
		end := r.End.MinutesFromMidnight()

		if start < 0 {
			start = 0
		}
		if end > timespan.MinutesPerDay {
			end = timespan.MinutesPerDay
		}
		if start >= end {
			continue
		}

		clipped = append(clipped, span{start: start, end: end})
	}

	sort.Slice(clipped, func(i, j int) bool { return clipped[i].start < clipped[j].start })

	var spans []TimeSpan
	for _, c := range clipped {
		if n := len(spans); n > 0 && spans[n-1].Range.End.MinutesFromMidnight() >= c.start {
			if spans[n-1].Range.End.MinutesFromMidnight() < c.end {
				spans[n-1].Range.End = atMinutes(c.end)
			}
			continue
		}

		spans = append(spans, TimeSpan{
			Range:    timespan.Range{Start: atMinutes(c.start), End: atMinutes(c.end)},
			State:    state,
			Comments: comments,
		})
	}

	return Schedule{spans: spans}
}

// IsEmpty reports whether the schedule has no spans
func (s Schedule) IsEmpty() bool {
	return len(s.spans) == 0
}

// Spans returns the schedule's spans in order
func (s Schedule) Spans() []TimeSpan {
	return s.spans
}

type span struct {
	start int
	end   int
}

// Addition merges two schedules for the same day. A sub-interval covered by
// only one input keeps that input's state and comments. On overlap the state
// is Open if either side is Open, else Closed if either side is Closed, else
// Unknown, and the comment sets are unioned. The result is re-normalized
// into maximal, sorted, non-overlapping spans.
func (s Schedule) Addition(other Schedule) Schedule {
	if s.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return s
	}

	bounds := boundarySet(s.spans, other.spans)

	var merged []TimeSpan
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]

		left, okLeft := coveringSpan(s.spans, start)
		right, okRight := coveringSpan(other.spans, start)

		var piece TimeSpan
		switch {
		case okLeft && okRight:
			piece = TimeSpan{
				State:    combineStates(left.State, right.State),
				Comments: unionComments(left.Comments, right.Comments),
			}
		case okLeft:
			piece = TimeSpan{State: left.State, Comments: left.Comments}
		case okRight:
			piece = TimeSpan{State: right.State, Comments: right.Comments}
		default:
			continue
		}

		piece.Range = timespan.Range{Start: atMinutes(start), End: atMinutes(end)}
		merged = append(merged, piece)
	}

	return Schedule{spans: mergeAdjacent(merged)}
}

// Filled returns a contiguous cover of the whole day, inserting Unknown
// spans with no comments into every gap.
func (s Schedule) Filled() []TimeSpan {
	var out []TimeSpan
	cursor := 0

	for _, sp := range s.spans {
		start := sp.Range.Start.MinutesFromMidnight()
		if start > cursor {
			out = append(out, gapSpan(cursor, start))
		}
		out = append(out, sp)
		cursor = sp.Range.End.MinutesFromMidnight()
	}

	if cursor < timespan.MinutesPerDay {
		out = append(out, gapSpan(cursor, timespan.MinutesPerDay))
	}

	return mergeAdjacent(out)
}

func gapSpan(start, end int) TimeSpan {
	return TimeSpan{
		Range: timespan.Range{Start: atMinutes(start), End: atMinutes(end)},
		State: Unknown,
	}
}

// boundarySet collects the sorted distinct endpoints of both span lists
func boundarySet(a, b []TimeSpan) []int {
	set := make(map[int]struct{}, 2*(len(a)+len(b)))
	for _, sp := range a {
		set[sp.Range.Start.MinutesFromMidnight()] = struct{}{}
		set[sp.Range.End.MinutesFromMidnight()] = struct{}{}
	}
	for _, sp := range b {
		set[sp.Range.Start.MinutesFromMidnight()] = struct{}{}
		set[sp.Range.End.MinutesFromMidnight()] = struct{}{}
	}

	bounds := make([]int, 0, len(set))
	for m := range set {
		bounds = append(bounds, m)
	}
	sort.Ints(bounds)

	return bounds
}

// coveringSpan finds the span containing the given minute, if any
func coveringSpan(spans []TimeSpan, minute int) (TimeSpan, bool) {
	for _, sp := range spans {
		if sp.Range.Start.MinutesFromMidnight() <= minute && minute < sp.Range.End.MinutesFromMidnight() {
			return sp, true
		}
	}
	return TimeSpan{}, false
}

// combineStates resolves the state of a sub-interval claimed by both sides
func combineStates(a, b State) State {
	if a == Open || b == Open {
		return Open
	}
	if a == Closed || b == Closed {
		return Closed
	}
	return Unknown
}

// mergeAdjacent fuses consecutive spans sharing state and comment set
func mergeAdjacent(spans []TimeSpan) []TimeSpan {
	var out []TimeSpan
	for _, sp := range spans {
		if n := len(out); n > 0 &&
			out[n-1].State == sp.State &&
			out[n-1].Range.End == sp.Range.Start &&
			equalComments(out[n-1].Comments, sp.Comments) {
			out[n-1].Range.End = sp.Range.End
			continue
		}
		out = append(out, sp)
	}
	return out
}

// normalizeComments returns a sorted, de-duplicated copy of the comment list
func normalizeComments(comments []string) []string {
	if len(comments) == 0 {
		return nil
	}

	out := make([]string, len(comments))
	copy(out, comments)
	sort.Strings(out)

	dedup := out[:1]
	for _, c := range out[1:] {
		if c != dedup[len(dedup)-1] {
			dedup = append(dedup, c)
		}
	}
	return dedup
}

// unionComments merges two already-normalized comment lists
func unionComments(a, b []string) []string {
	return normalizeComments(append(append([]string{}, a...), b...))
}

func equalComments(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func atMinutes(m int) timespan.ExtendedTime {
	et, _ := timespan.FromMinutes(m)
	return et
}
