package holiday

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/username/opening-hours/internal/selector"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTableLoad(t *testing.T) {
	content := `# national holidays
2024-01-01 public New Year
2024-05-01 public

# autumn break
2024-10-28..2024-11-01 school

not-a-date public
2024-06-01 bank
`
	path := filepath.Join(t.TempDir(), "holidays.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	table := NewTable(path, zap.NewNop())
	if err := table.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		date time.Time
		kind selector.HolidayKind
		want bool
	}{
		{"new year is public", day(2024, time.January, 1), selector.PublicHoliday, true},
		{"entry without note", day(2024, time.May, 1), selector.PublicHoliday, true},
		{"public day is not school", day(2024, time.January, 1), selector.SchoolHoliday, false},
		{"span start", day(2024, time.October, 28), selector.SchoolHoliday, true},
		{"span middle", day(2024, time.October, 30), selector.SchoolHoliday, true},
		{"span end inclusive", day(2024, time.November, 1), selector.SchoolHoliday, true},
		{"day after span", day(2024, time.November, 2), selector.SchoolHoliday, false},
		{"invalid line skipped", day(2024, time.June, 1), selector.PublicHoliday, false},
		{"regular day", day(2024, time.March, 15), selector.PublicHoliday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.IsHoliday(tt.date, tt.kind)
			if err != nil {
				t.Fatalf("IsHoliday() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsHoliday(%s, %s) = %v, want %v",
					tt.date.Format("2006-01-02"), tt.kind, got, tt.want)
			}
		})
	}
}

func TestTableLoadMissingFile(t *testing.T) {
	table := NewTable("/nonexistent/holidays.txt", zap.NewNop())
	if err := table.Load(); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestParseDaySpan(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single day", "2024-01-01", false},
		{"span", "2024-01-01..2024-01-05", false},
		{"reversed span", "2024-01-05..2024-01-01", true},
		{"bad start", "nope..2024-01-01", true},
		{"bad end", "2024-01-01..nope", true},
		{"garbage", "yesterday", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseDaySpan(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseDaySpan(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNagerClient(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/api/v3/PublicHolidays/2024/DE" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date": "2024-01-01", "localName": "Neujahr", "name": "New Year's Day", "global": true},
			{"date": "2024-10-03", "localName": "Tag der Deutschen Einheit", "name": "German Unity Day", "global": true},
			{"date": "bogus", "localName": "", "name": "", "global": false}
		]`))
	}))
	defer server.Close()

	client := NewNagerClient(server.URL, "DE", time.Hour, zap.NewNop())

	got, err := client.IsHoliday(day(2024, time.January, 1), selector.PublicHoliday)
	if err != nil {
		t.Fatalf("IsHoliday() error = %v", err)
	}
	if !got {
		t.Error("2024-01-01 should be a public holiday")
	}

	got, err = client.IsHoliday(day(2024, time.March, 15), selector.PublicHoliday)
	if err != nil {
		t.Fatalf("IsHoliday() error = %v", err)
	}
	if got {
		t.Error("2024-03-15 should not be a public holiday")
	}

	// second lookup in the same year must be served from cache
	if requests != 1 {
		t.Errorf("expected 1 API request, got %d", requests)
	}

	if _, err := client.IsHoliday(day(2024, time.January, 1), selector.SchoolHoliday); !errors.Is(err, ErrKindUnsupported) {
		t.Errorf("school holiday lookup error = %v, want ErrKindUnsupported", err)
	}
}

func TestNagerClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewNagerClient(server.URL, "DE", time.Hour, zap.NewNop())
	if _, err := client.IsHoliday(day(2024, time.January, 1), selector.PublicHoliday); err == nil {
		t.Error("IsHoliday() should fail when the API returns 500")
	}
}

func TestNagerClientClearCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewNagerClient(server.URL, "DE", time.Hour, zap.NewNop())

	client.IsHoliday(day(2024, time.January, 1), selector.PublicHoliday)
	client.ClearCache()
	client.IsHoliday(day(2024, time.January, 1), selector.PublicHoliday)

	if requests != 2 {
		t.Errorf("expected 2 API requests after cache clear, got %d", requests)
	}
}

type stubSource struct {
	result bool
	err    error
	calls  int
}

func (s *stubSource) IsHoliday(date time.Time, kind selector.HolidayKind) (bool, error) {
	s.calls++
	return s.result, s.err
}

func TestComposite(t *testing.T) {
	tests := []struct {
		name          string
		primary       *stubSource
		fallback      *stubSource
		want          bool
		wantErr       bool
		fallbackCalls int
	}{
		{
			name:     "primary answers",
			primary:  &stubSource{result: true},
			fallback: &stubSource{result: false},
			want:     true,
		},
		{
			name:          "primary fails",
			primary:       &stubSource{err: errors.New("network down")},
			fallback:      &stubSource{result: true},
			want:          true,
			fallbackCalls: 1,
		},
		{
			name:          "primary kind unsupported",
			primary:       &stubSource{err: ErrKindUnsupported},
			fallback:      &stubSource{result: true},
			want:          true,
			fallbackCalls: 1,
		},
		{
			name:          "both fail",
			primary:       &stubSource{err: errors.New("network down")},
			fallback:      &stubSource{err: errors.New("file missing")},
			wantErr:       true,
			fallbackCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			composite := NewComposite(tt.primary, tt.fallback, zap.NewNop())
			got, err := composite.IsHoliday(day(2024, time.January, 1), selector.PublicHoliday)
			if (err != nil) != tt.wantErr {
				t.Fatalf("IsHoliday() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("IsHoliday() = %v, want %v", got, tt.want)
			}
			if tt.fallback.calls != tt.fallbackCalls {
				t.Errorf("fallback calls = %d, want %d", tt.fallback.calls, tt.fallbackCalls)
			}
		})
	}
}

func TestOracle(t *testing.T) {
	t.Run("passes through result", func(t *testing.T) {
		oracle := NewOracle(&stubSource{result: true}, zap.NewNop())
		if !oracle.IsHoliday(day(2024, time.January, 1), selector.PublicHoliday) {
			t.Error("IsHoliday() = false, want true")
		}
	})

	t.Run("failure counts as regular day", func(t *testing.T) {
		oracle := NewOracle(&stubSource{result: true, err: errors.New("down")}, zap.NewNop())
		if oracle.IsHoliday(day(2024, time.January, 1), selector.PublicHoliday) {
			t.Error("IsHoliday() = true, want false on source error")
		}
	})
}
