package holiday

import (
	"time"

	"go.uber.org/zap"

	"github.com/username/opening-hours/internal/selector"
)

// Oracle adapts a Source to the error-free selector.HolidayOracle interface.
// Lookup failures are logged and counted as "not a holiday" so that rule
// evaluation stays total.
type Oracle struct {
	source Source
	logger *zap.Logger
}

// NewOracle creates a new Oracle instance
func NewOracle(source Source, logger *zap.Logger) *Oracle {
	return &Oracle{
		source: source,
		logger: logger,
	}
}

// IsHoliday reports whether the date is a holiday of the given kind
func (o *Oracle) IsHoliday(date time.Time, kind selector.HolidayKind) bool {
	result, err := o.source.IsHoliday(date, kind)
	if err != nil {
		o.logger.Warn("Holiday lookup failed, treating as regular day",
			zap.String("date", date.Format("2006-01-02")),
			zap.String("kind", kind.String()),
			zap.Error(err))
		return false
	}

	return result
}
