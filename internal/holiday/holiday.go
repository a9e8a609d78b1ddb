// Package holiday provides the holiday classification consumed by rule
// selectors: a file-backed table, an HTTP-backed public-holiday feed and a
// composite that falls back from one source to another.
package holiday

import (
	"errors"
	"time"

	"github.com/username/opening-hours/internal/selector"
)

// ErrKindUnsupported is returned by sources that cannot answer for the
// requested holiday kind at all (as opposed to "not a holiday").
var ErrKindUnsupported = errors.New("holiday kind not supported by this source")

// Source classifies dates as holidays. Implementations may hit the network
// or disk and therefore report errors.
type Source interface {
	// IsHoliday checks whether the date is a holiday of the given kind
	IsHoliday(date time.Time, kind selector.HolidayKind) (bool, error)
}
