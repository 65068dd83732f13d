package intelligence

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DatePatternsVersion identifies the pattern list below. Bump it whenever a
// pattern or the canonicalization rules change, since results change with it.
const DatePatternsVersion = "2025.1"

// CanonicalDateLayout is the output format of every normalized date
const CanonicalDateLayout = "2006-01-02"

// Pattern names
const (
	PatternDayMonthYear = "day-month-year"
	PatternMonthDayYear = "month-day-year"
	PatternNumericDMY   = "numeric-dmy"
	PatternISO          = "iso"
)

// full names precede their abbreviations so the longest spelling is captured
const monthAlternation = `january|february|march|april|may|june|july|august|september|october|november|december|` +
	`jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`

var monthsByName = func() map[string]time.Month {
	spellings := [][]string{
		{"january", "jan"},
		{"february", "feb"},
		{"march", "mar"},
		{"april", "apr"},
		{"may"},
		{"june", "jun"},
		{"july", "jul"},
		{"august", "aug"},
		{"september", "sept", "sep"},
		{"october", "oct"},
		{"november", "nov"},
		{"december", "dec"},
	}
	m := make(map[string]time.Month, 24)
	for i, names := range spellings {
		for _, name := range names {
			m[name] = time.Month(i + 1)
		}
	}
	return m
}()

// datePattern is one surface syntax for writing a date. The groups index the
// submatches holding year, month and day.
type datePattern struct {
	name     string
	re       *regexp.Regexp
	yearIdx  int
	monthIdx int
	dayIdx   int
}

var datePatterns = []datePattern{
	{
		// 16 June 2025, 16 Jun. 2025, 16th June, 2025
		name:     PatternDayMonthYear,
		re:       regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + monthAlternation + `)\.?,?\s+(\d{4})\b`),
		dayIdx:   1,
		monthIdx: 2,
		yearIdx:  3,
	},
	{
		// June 16, 2025 and June 16 2025
		name:     PatternMonthDayYear,
		re:       regexp.MustCompile(`(?i)\b(` + monthAlternation + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`),
		monthIdx: 1,
		dayIdx:   2,
		yearIdx:  3,
	},
	{
		// 16/06/2025, always day first
		name:     PatternNumericDMY,
		re:       regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		dayIdx:   1,
		monthIdx: 2,
		yearIdx:  3,
	},
	{
		// 2025-10-06
		name:     PatternISO,
		re:       regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`),
		yearIdx:  1,
		monthIdx: 2,
		dayIdx:   3,
	},
}

// DatePatternNames returns the pattern names in the order they are applied
func DatePatternNames() []string {
	names := make([]string, 0, len(datePatterns))
	for _, p := range datePatterns {
		names = append(names, p.name)
	}
	return names
}

// DateExtractor finds dates in free text and normalizes them to YYYY-MM-DD.
// It only reads the package level pattern list and is safe for concurrent use.
type DateExtractor struct {
	patterns []datePattern
}

// NewDateExtractor creates an extractor over the current pattern list
func NewDateExtractor() *DateExtractor {
	return &DateExtractor{patterns: datePatterns}
}

// Extract returns the normalized dates found in text. Patterns are applied
// one after the other over the whole text, so a substring matched by two
// patterns yields two entries. Candidates that do not form a real calendar
// date are dropped. The result is never sorted or deduplicated.
func (de *DateExtractor) Extract(text string) []string {
	dates := []string{}
	for _, m := range de.Scan(text) {
		if m.Valid {
			dates = append(dates, m.Normalized)
		}
	}
	return dates
}

// Scan returns every candidate substring in discovery order, valid or not
func (de *DateExtractor) Scan(text string) []DateMatch {
	var matches []DateMatch
	for _, p := range de.patterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			match := DateMatch{
				Pattern: p.name,
				Raw:     text[loc[0]:loc[1]],
				Offset:  loc[0],
			}
			if normalized, ok := p.canonicalize(text, loc); ok {
				match.Normalized = normalized
				match.Valid = true
			}
			matches = append(matches, match)
		}
	}
	return matches
}

// canonicalize turns the submatches at loc into YYYY-MM-DD
func (p datePattern) canonicalize(text string, loc []int) (string, bool) {
	group := func(i int) string {
		return text[loc[2*i]:loc[2*i+1]]
	}

	year, err := strconv.Atoi(group(p.yearIdx))
	if err != nil || year < 1 {
		return "", false
	}
	day, err := strconv.Atoi(group(p.dayIdx))
	if err != nil {
		return "", false
	}
	month, ok := parseMonth(group(p.monthIdx))
	if !ok {
		return "", false
	}

	return CanonicalDate(year, month, day)
}

func parseMonth(s string) (time.Month, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, false
		}
		return time.Month(n), true
	}
	m, ok := monthsByName[strings.ToLower(s)]
	return m, ok
}

// CanonicalDate formats a calendar date as YYYY-MM-DD. It reports false when
// the components do not name a real day, such as 31 February.
func CanonicalDate(year int, month time.Month, day int) (string, bool) {
	if month < time.January || month > time.December || day < 1 || year < 1 || year > 9999 {
		return "", false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return "", false
	}
	return t.Format(CanonicalDateLayout), true
}
