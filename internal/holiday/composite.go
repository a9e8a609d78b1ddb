package holiday

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/username/opening-hours/internal/selector"
)

// Composite queries a primary source and falls back to a secondary one when
// the primary fails or does not carry the requested kind.
type Composite struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewComposite creates a new Composite instance
func NewComposite(primary, fallback Source, logger *zap.Logger) *Composite {
	return &Composite{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// IsHoliday checks whether the date is a holiday of the given kind
func (c *Composite) IsHoliday(date time.Time, kind selector.HolidayKind) (bool, error) {
	result, err := c.primary.IsHoliday(date, kind)
	if err == nil {
		return result, nil
	}

	if !errors.Is(err, ErrKindUnsupported) {
		c.logger.Warn("Primary holiday source failed, using fallback",
			zap.String("date", date.Format("2006-01-02")),
			zap.String("kind", kind.String()),
			zap.Error(err))
	}

	return c.fallback.IsHoliday(date, kind)
}
