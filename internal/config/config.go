package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/opening-hours/internal/engine"
	"github.com/username/opening-hours/internal/schedule"
	"github.com/username/opening-hours/internal/selector"
	"github.com/username/opening-hours/internal/timespan"
)

// Config represents application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// HolidaysConfig represents holiday source configuration
type HolidaysConfig struct {
	Source   string `mapstructure:"source"` // "file", "nager" or "composite"
	File     string `mapstructure:"file"`
	Country  string `mapstructure:"country"`
	APIURL   string `mapstructure:"api_url"`
	CacheTTL string `mapstructure:"cache_ttl"`
}

// ScheduleConfig represents the rule list
type ScheduleConfig struct {
	Rules []RuleConfig `mapstructure:"rules"`
}

// RuleConfig represents one schedule rule.
//
// Selector entries use compact range syntax: "2024", "2020-2030/2" for
// years and weeks, "Nov-Feb" for months, "Mo-Fr" plus "PH"/"SH" for
// weekdays, "09:00-18:00" for times (the end may pass midnight, e.g.
// "21:00-03:00").
type RuleConfig struct {
	State    string   `mapstructure:"state"`    // "open", "closed" or "unknown"
	Operator string   `mapstructure:"operator"` // "normal", "additional" or "fallback"
	Comments []string `mapstructure:"comments"`
	Years    []string `mapstructure:"years"`
	Months   []string `mapstructure:"months"`
	Weeks    []string `mapstructure:"weeks"`
	Weekdays []string `mapstructure:"weekdays"`
	Times    []string `mapstructure:"times"`
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.opening-hours")
		v.AddConfigPath("/etc/opening-hours")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	source := c.Holidays.Source
	if source == "" {
		source = "file"
	}

	switch source {
	case "file":
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for file source")
		}
	case "nager":
		if c.Holidays.Country == "" {
			return fmt.Errorf("holidays.country is required for nager source")
		}
	case "composite":
		if c.Holidays.Country == "" {
			return fmt.Errorf("holidays.country is required for composite source")
		}
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for composite source")
		}
	default:
		return fmt.Errorf("holidays.source must be 'file', 'nager' or 'composite', got '%s'", source)
	}

	if len(c.Schedule.Rules) == 0 {
		return fmt.Errorf("schedule.rules must contain at least one rule")
	}

	return nil
}

// GetCacheTTL returns cache TTL duration
func (c *HolidaysConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// Build converts the rule list into engine rules
func (c *ScheduleConfig) Build() ([]engine.Rule, error) {
	rules := make([]engine.Rule, 0, len(c.Rules))
	for i, rc := range c.Rules {
		rule, err := rc.build()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (rc RuleConfig) build() (engine.Rule, error) {
	state, err := parseState(rc.State)
	if err != nil {
		return engine.Rule{}, err
	}

	operator, err := parseOperator(rc.Operator)
	if err != nil {
		return engine.Rule{}, err
	}

	var days selector.DaySelector

	for _, s := range rc.Years {
		r, err := parseNumericRange(s)
		if err != nil {
			return engine.Rule{}, fmt.Errorf("years entry %q: %w", s, err)
		}
		days.Year = append(days.Year, selector.YearRange(r))
	}

	for _, s := range rc.Months {
		start, end, err := parseMonthRange(s)
		if err != nil {
			return engine.Rule{}, fmt.Errorf("months entry %q: %w", s, err)
		}
		days.Monthday = append(days.Monthday, selector.MonthRange(start, end))
	}

	for _, s := range rc.Weeks {
		r, err := parseNumericRange(s)
		if err != nil {
			return engine.Rule{}, fmt.Errorf("weeks entry %q: %w", s, err)
		}
		days.Week = append(days.Week, selector.WeekRange(r))
	}

	for _, s := range rc.Weekdays {
		r, err := parseWeekdayRange(s)
		if err != nil {
			return engine.Rule{}, fmt.Errorf("weekdays entry %q: %w", s, err)
		}
		days.Weekday = append(days.Weekday, r)
	}

	var times engine.TimeSelector
	if len(rc.Times) > 0 {
		ranges := make([]timespan.Range, 0, len(rc.Times))
		for _, s := range rc.Times {
			r, err := parseTimeRange(s)
			if err != nil {
				return engine.Rule{}, fmt.Errorf("times entry %q: %w", s, err)
			}
			ranges = append(ranges, r)
		}
		times = engine.FixedTimes{Ranges: ranges}
	}

	return engine.Rule{
		Days:     days,
		Times:    times,
		State:    state,
		Operator: operator,
		Comments: rc.Comments,
	}, nil
}

func parseState(s string) (schedule.State, error) {
	switch s {
	case "open", "":
		return schedule.Open, nil
	case "closed":
		return schedule.Closed, nil
	case "unknown":
		return schedule.Unknown, nil
	default:
		return schedule.Open, fmt.Errorf("state must be 'open', 'closed' or 'unknown', got '%s'", s)
	}
}

func parseOperator(s string) (engine.Operator, error) {
	switch s {
	case "normal", "":
		return engine.Normal, nil
	case "additional":
		return engine.Additional, nil
	case "fallback":
		return engine.Fallback, nil
	default:
		return engine.Normal, fmt.Errorf("operator must be 'normal', 'additional' or 'fallback', got '%s'", s)
	}
}

type numericRange struct {
	Start int
	End   int
	Step  int
}

// parseNumericRange parses "2024", "2020-2030" and "2020-2030/2"
func parseNumericRange(s string) (numericRange, error) {
	body, stepPart, hasStep := strings.Cut(s, "/")

	step := 1
	if hasStep {
		var err error
		step, err = strconv.Atoi(stepPart)
		if err != nil || step <= 0 {
			return numericRange{}, fmt.Errorf("invalid step: %s", stepPart)
		}
	}

	startPart, endPart, hasEnd := strings.Cut(body, "-")
	start, err := strconv.Atoi(startPart)
	if err != nil {
		return numericRange{}, fmt.Errorf("invalid range start: %s", startPart)
	}

	end := start
	if hasEnd {
		end, err = strconv.Atoi(endPart)
		if err != nil {
			return numericRange{}, fmt.Errorf("invalid range end: %s", endPart)
		}
	}

	return numericRange{Start: start, End: end, Step: step}, nil
}

var monthNames = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// parseMonthRange parses "Jul" and "Nov-Feb"
func parseMonthRange(s string) (start, end time.Month, err error) {
	startPart, endPart, hasEnd := strings.Cut(s, "-")

	start, ok := monthNames[startPart]
	if !ok {
		return 0, 0, fmt.Errorf("unknown month: %s", startPart)
	}

	end = start
	if hasEnd {
		end, ok = monthNames[endPart]
		if !ok {
			return 0, 0, fmt.Errorf("unknown month: %s", endPart)
		}
	}

	return start, end, nil
}

var weekdayNames = map[string]time.Weekday{
	"Mo": time.Monday, "Tu": time.Tuesday, "We": time.Wednesday,
	"Th": time.Thursday, "Fr": time.Friday, "Sa": time.Saturday,
	"Su": time.Sunday,
}

// parseWeekdayRange parses "Mo", "Mo-Fr", "PH" and "SH"
func parseWeekdayRange(s string) (selector.WeekdayRange, error) {
	switch s {
	case "PH":
		return selector.Holiday(selector.PublicHoliday, 0), nil
	case "SH":
		return selector.Holiday(selector.SchoolHoliday, 0), nil
	}

	startPart, endPart, hasEnd := strings.Cut(s, "-")

	start, ok := weekdayNames[startPart]
	if !ok {
		return selector.WeekdayRange{}, fmt.Errorf("unknown weekday: %s", startPart)
	}

	end := start
	if hasEnd {
		end, ok = weekdayNames[endPart]
		if !ok {
			return selector.WeekdayRange{}, fmt.Errorf("unknown weekday: %s", endPart)
		}
	}

	return selector.Weekdays(start, end), nil
}

// parseTimeRange parses "09:00-18:00"; the end may wrap past midnight
func parseTimeRange(s string) (timespan.Range, error) {
	startPart, endPart, ok := strings.Cut(s, "-")
	if !ok {
		return timespan.Range{}, fmt.Errorf("expected HH:MM-HH:MM")
	}

	start, err := parseClock(startPart)
	if err != nil {
		return timespan.Range{}, err
	}
	end, err := parseClock(endPart)
	if err != nil {
		return timespan.Range{}, err
	}

	return timespan.NewRange(start, end)
}

func parseClock(s string) (timespan.ExtendedTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return timespan.ExtendedTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return timespan.New(h, m)
}
