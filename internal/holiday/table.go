package holiday

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/username/opening-hours/internal/selector"
)

// Table implements Source using a local text file
type Table struct {
	filePath string
	logger   *zap.Logger
	days     map[selector.HolidayKind]map[string]bool
}

// NewTable creates a new Table instance
func NewTable(filePath string, logger *zap.Logger) *Table {
	return &Table{
		filePath: filePath,
		logger:   logger,
		days:     make(map[selector.HolidayKind]map[string]bool),
	}
}

// Load loads holiday data from file.
//
// Format, one entry per line:
//
//	YYYY-MM-DD kind [note]
//
// where kind is "public" or "school". Blank lines and lines starting with
// '#' are skipped. An entry with an end date "YYYY-MM-DD..YYYY-MM-DD"
// marks the whole inclusive span (school breaks are ranges, not days).
func (t *Table) Load() error {
	file, err := os.Open(t.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	entries := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			t.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		start, end, err := parseDaySpan(parts[0])
		if err != nil {
			t.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		var kind selector.HolidayKind
		switch parts[1] {
		case "public":
			kind = selector.PublicHoliday
		case "school":
			kind = selector.SchoolHoliday
		default:
			t.logger.Warn("Unknown holiday kind", zap.String("kind", parts[1]))
			continue
		}

		if t.days[kind] == nil {
			t.days[kind] = make(map[string]bool)
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			t.days[kind][d.Format("2006-01-02")] = true
			entries++
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	t.logger.Info("Holiday file loaded",
		zap.String("file", t.filePath),
		zap.Int("days", entries))

	return nil
}

// IsHoliday checks whether the date is a holiday of the given kind
func (t *Table) IsHoliday(date time.Time, kind selector.HolidayKind) (bool, error) {
	return t.days[kind][date.Format("2006-01-02")], nil
}

func parseDaySpan(s string) (start, end time.Time, err error) {
	if from, to, ok := strings.Cut(s, ".."); ok {
		start, err = time.Parse("2006-01-02", from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err = time.Parse("2006-01-02", to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("span end before start: %s", s)
		}
		return start, end, nil
	}

	start, err = time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start, nil
}
