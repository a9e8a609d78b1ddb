package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/username/opening-hours/internal/engine"
	"github.com/username/opening-hours/internal/schedule"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug

holidays:
  source: file
  file: holidays.txt

schedule:
  rules:
    - state: open
      weekdays: ["Mo-Fr"]
      times: ["09:00-18:00"]
    - state: closed
      operator: normal
      weekdays: ["PH"]
      comments: ["public holiday"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Holidays.File != "holidays.txt" {
		t.Errorf("Holidays.File = %q, want holidays.txt", cfg.Holidays.File)
	}
	if len(cfg.Schedule.Rules) != 2 {
		t.Fatalf("len(Schedule.Rules) = %d, want 2", len(cfg.Schedule.Rules))
	}

	rules, err := cfg.Schedule.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if rules[0].State != schedule.Open {
		t.Errorf("rules[0].State = %v, want Open", rules[0].State)
	}
	if rules[1].State != schedule.Closed {
		t.Errorf("rules[1].State = %v, want Closed", rules[1].State)
	}
	if len(rules[1].Comments) != 1 || rules[1].Comments[0] != "public holiday" {
		t.Errorf("rules[1].Comments = %v, want [public holiday]", rules[1].Comments)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestValidate(t *testing.T) {
	oneRule := []RuleConfig{{State: "open"}}

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid file source",
			config: Config{
				Holidays: HolidaysConfig{Source: "file", File: "h.txt"},
				Schedule: ScheduleConfig{Rules: oneRule},
			},
		},
		{
			name: "default source is file",
			config: Config{
				Holidays: HolidaysConfig{File: "h.txt"},
				Schedule: ScheduleConfig{Rules: oneRule},
			},
		},
		{
			name: "file source without file",
			config: Config{
				Holidays: HolidaysConfig{Source: "file"},
				Schedule: ScheduleConfig{Rules: oneRule},
			},
			wantErr: true,
		},
		{
			name: "nager source requires country",
			config: Config{
				Holidays: HolidaysConfig{Source: "nager"},
				Schedule: ScheduleConfig{Rules: oneRule},
			},
			wantErr: true,
		},
		{
			name: "composite requires both",
			config: Config{
				Holidays: HolidaysConfig{Source: "composite", Country: "DE"},
				Schedule: ScheduleConfig{Rules: oneRule},
			},
			wantErr: true,
		},
		{
			name: "unknown source",
			config: Config{
				Holidays: HolidaysConfig{Source: "astrology", File: "h.txt"},
				Schedule: ScheduleConfig{Rules: oneRule},
			},
			wantErr: true,
		},
		{
			name: "no rules",
			config: Config{
				Holidays: HolidaysConfig{Source: "file", File: "h.txt"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetCacheTTL(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty uses default", "", 24 * time.Hour},
		{"valid duration", "1h30m", 90 * time.Minute},
		{"invalid uses default", "soon", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := HolidaysConfig{CacheTTL: tt.value}
			if got := c.GetCacheTTL(); got != tt.want {
				t.Errorf("GetCacheTTL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleConfigBuild(t *testing.T) {
	tests := []struct {
		name    string
		rule    RuleConfig
		wantErr bool
	}{
		{
			name: "full rule",
			rule: RuleConfig{
				State:    "open",
				Operator: "additional",
				Years:    []string{"2020-2030/2"},
				Months:   []string{"Nov-Feb"},
				Weeks:    []string{"1-26"},
				Weekdays: []string{"Mo-Fr", "PH"},
				Times:    []string{"09:00-18:00", "21:00-03:00"},
			},
		},
		{
			name: "empty rule defaults to open normal all day",
			rule: RuleConfig{},
		},
		{
			name:    "bad state",
			rule:    RuleConfig{State: "ajar"},
			wantErr: true,
		},
		{
			name:    "bad operator",
			rule:    RuleConfig{Operator: "sometimes"},
			wantErr: true,
		},
		{
			name:    "bad year",
			rule:    RuleConfig{Years: []string{"soon"}},
			wantErr: true,
		},
		{
			name:    "bad year step",
			rule:    RuleConfig{Years: []string{"2020-2030/0"}},
			wantErr: true,
		},
		{
			name:    "bad month",
			rule:    RuleConfig{Months: []string{"Smarch"}},
			wantErr: true,
		},
		{
			name:    "bad weekday",
			rule:    RuleConfig{Weekdays: []string{"Funday"}},
			wantErr: true,
		},
		{
			name:    "bad time",
			rule:    RuleConfig{Times: []string{"nine to five"}},
			wantErr: true,
		},
		{
			name:    "time exceeding dial",
			rule:    RuleConfig{Times: []string{"09:00-52:00"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rule.build()
			if (err != nil) != tt.wantErr {
				t.Errorf("build() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildRuleEvaluates(t *testing.T) {
	sc := ScheduleConfig{Rules: []RuleConfig{
		{State: "open", Weekdays: []string{"Mo-Fr"}, Times: []string{"09:00-18:00"}},
	}}

	rules, err := sc.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	domain := engine.New(rules, nil, nil)

	wednesday := time.Date(2024, time.June, 12, 12, 0, 0, 0, time.UTC)
	if !domain.IsOpen(wednesday) {
		t.Error("built rule should report Wednesday noon as open")
	}
	sunday := time.Date(2024, time.June, 16, 12, 0, 0, 0, time.UTC)
	if domain.IsOpen(sunday) {
		t.Error("built rule should not report Sunday noon as open")
	}
}
