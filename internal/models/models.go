package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxKeywordLength is the longest accepted keyword, in characters.
const MaxKeywordLength = 200

// PressRelease represents a single row of the press release dataset
type PressRelease struct {
	Date     time.Time `json:"date"`
	Year     int       `json:"year"`
	Month    time.Time `json:"month"`
	Ministry string    `json:"ministry"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
}

// NewPressRelease builds a row, deriving Year and Month from date so the three
// calendar fields can never disagree.
func NewPressRelease(date time.Time, ministry, title, url string) PressRelease {
	day := TruncateDay(date)
	return PressRelease{
		Date:     day,
		Year:     day.Year(),
		Month:    time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC),
		Ministry: ministry,
		Title:    title,
		URL:      url,
	}
}

// TruncateDay returns the UTC calendar date of t at midnight.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Granularity selects the time bucket used for trend aggregation
type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Granularities lists the selectable aggregation levels in display order
func Granularities() []Granularity {
	return []Granularity{Daily, Monthly, Yearly}
}

// ParseGranularity accepts daily/day, monthly/month and yearly/year in any case.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return Daily, nil
	case "monthly", "month":
		return Monthly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return "", fmt.Errorf("unknown aggregation %q: expected daily, monthly or yearly", s)
	}
}

// FilterState holds one session's dashboard selections
type FilterState struct {
	Years       []int       `json:"years"`
	Ministries  []string    `json:"ministries"`
	Keyword     string      `json:"keyword"`
	Aggregation Granularity `json:"aggregation"`
}

// Ready reports whether at least one year is selected. The filter pipeline
// must not run before that.
func (s FilterState) Ready() bool {
	return len(s.Years) > 0
}

// Clone returns a deep copy so sessions never share backing arrays.
func (s FilterState) Clone() FilterState {
	return FilterState{
		Years:       slices.Clone(s.Years),
		Ministries:  slices.Clone(s.Ministries),
		Keyword:     s.Keyword,
		Aggregation: s.Aggregation,
	}
}

// CheckKeyword rejects keywords longer than MaxKeywordLength characters.
func CheckKeyword(keyword string) error {
	if utf8.RuneCountInString(keyword) > MaxKeywordLength {
		return fmt.Errorf("keyword too long: maximum %d characters", MaxKeywordLength)
	}
	return nil
}

// Normalized sorts and dedupes the years, trims and dedupes the ministries and
// replaces nil selections with empty ones.
func (s FilterState) Normalized() FilterState {
	years := slices.Clone(s.Years)
	if years == nil {
		years = []int{}
	}
	slices.Sort(years)

	ministries := make([]string, 0, len(s.Ministries))
	for _, m := range s.Ministries {
		if m = strings.TrimSpace(m); m != "" && !slices.Contains(ministries, m) {
			ministries = append(ministries, m)
		}
	}

	return FilterState{
		Years:       slices.Compact(years),
		Ministries:  ministries,
		Keyword:     s.Keyword,
		Aggregation: s.Aggregation,
	}
}

// AggregatedBucket is one point of the trend series
type AggregatedBucket struct {
	Key   string    `json:"key"`
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// Summary represents the scalar counters of the filtered subset
type Summary struct {
	TotalCount        int `json:"total_count"`
	YearsCovered      int `json:"years_covered"`
	MinistriesCovered int `json:"ministries_covered"`
}

// SummaryCard is a labelled, display-formatted summary value
type SummaryCard struct {
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Value   int    `json:"value"`
	Display string `json:"display"`
}

// TableRow is the table projection of a press release
type TableRow struct {
	Date     string `json:"date"`
	Ministry string `json:"ministry"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Link     string `json:"link"`
}

// TableQuery represents the table widget's OData-style query parameters
type TableQuery struct {
	Filter  string   `json:"filter"`
	OrderBy string   `json:"orderby"`
	Search  []string `json:"search"` // Global search terms (OR logic)
	Top     int      `json:"top"`
	Skip    int      `json:"skip"`
}

// TablePage is one page of the table projection
type TablePage struct {
	TotalRecords    int        `json:"total_records"`
	FilteredRecords int        `json:"filtered_records"`
	Rows            []TableRow `json:"rows"`
}

// Choices are the selectable filter values derived from the full dataset
type Choices struct {
	Years         []int         `json:"years"`
	Ministries    []string      `json:"ministries"`
	Granularities []Granularity `json:"granularities"`
}

// DashboardView is a consistent snapshot of all projections for one filter state
type DashboardView struct {
	Filters FilterState        `json:"filters"`
	Summary Summary            `json:"summary"`
	Cards   []SummaryCard      `json:"cards"`
	Series  []AggregatedBucket `json:"series"`
	Table   []TableRow         `json:"table"`
}
