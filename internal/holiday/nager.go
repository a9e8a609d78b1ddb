package holiday

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/opening-hours/internal/selector"
)

const (
	defaultNagerBaseURL = "https://date.nager.at"
	defaultHTTPTimeout  = 10 * time.Second
	defaultCacheTTL     = 24 * time.Hour
)

// NagerClient implements Source for public holidays using the date.nager.at
// API. School holidays are not published there; asking for them yields
// ErrKindUnsupported so a composite can fall back to another source.
type NagerClient struct {
	baseURL     string
	countryCode string
	cacheTTL    time.Duration
	httpClient  *http.Client
	logger      *zap.Logger
	cache       map[int]*cachedYear
	cacheMu     sync.RWMutex
}

type cachedYear struct {
	days      map[string]bool
	fetchedAt time.Time
}

// nagerHoliday represents one entry of the API response
type nagerHoliday struct {
	Date      string `json:"date"` // YYYY-MM-DD
	LocalName string `json:"localName"`
	Name      string `json:"name"`
	Global    bool   `json:"global"`
}

// NewNagerClient creates a new NagerClient instance. An empty baseURL picks
// the public endpoint.
func NewNagerClient(baseURL, countryCode string, cacheTTL time.Duration, logger *zap.Logger) *NagerClient {
	if baseURL == "" {
		baseURL = defaultNagerBaseURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &NagerClient{
		baseURL:     baseURL,
		countryCode: countryCode,
		cacheTTL:    cacheTTL,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger: logger,
		cache:  make(map[int]*cachedYear),
	}
}

// IsHoliday checks whether the date is a holiday of the given kind
func (c *NagerClient) IsHoliday(date time.Time, kind selector.HolidayKind) (bool, error) {
	if kind != selector.PublicHoliday {
		return false, ErrKindUnsupported
	}

	days, err := c.yearDays(date.Year())
	if err != nil {
		return false, err
	}

	return days[date.Format("2006-01-02")], nil
}

// yearDays returns the public holiday set for one year, fetching it from
// the API when the cache misses or has expired.
func (c *NagerClient) yearDays(year int) (map[string]bool, error) {
	c.cacheMu.RLock()
	if cached, ok := c.cache[year]; ok {
		if time.Since(cached.fetchedAt) < c.cacheTTL {
			c.cacheMu.RUnlock()
			c.logger.Debug("Using cached holiday year", zap.Int("year", year))
			return cached.days, nil
		}
	}
	c.cacheMu.RUnlock()

	days, err := c.fetchYear(year)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cache[year] = &cachedYear{
		days:      days,
		fetchedAt: time.Now(),
	}
	c.cacheMu.Unlock()

	c.logger.Info("Holiday year fetched and cached",
		zap.Int("year", year),
		zap.Int("days", len(days)))

	return days, nil
}

// fetchYear fetches one year of public holidays from the API
func (c *NagerClient) fetchYear(year int) (map[string]bool, error) {
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, c.countryCode)

	c.logger.Debug("Fetching holiday data",
		zap.String("url", url),
		zap.Int("year", year))

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holiday data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var holidays []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	days := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		if _, err := time.Parse("2006-01-02", h.Date); err != nil {
			c.logger.Warn("Failed to parse holiday date",
				zap.String("date", h.Date),
				zap.Error(err))
			continue
		}
		days[h.Date] = true
	}

	return days, nil
}

// ClearCache clears the cache
func (c *NagerClient) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[int]*cachedYear)
	c.logger.Info("Holiday cache cleared")
}
