// Package dates resolves the per-institution date representations found in
// statement exports into calendar dates.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// monthAbbrev is the fixed table for three-letter month abbreviations as they
// appear in payslip documents. An abbreviation outside this table is a hard
// failure, never a guess.
var monthAbbrev = map[string]time.Month{
	"JAN": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"APR": time.April,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AUG": time.August,
	"SEP": time.September,
	"OCT": time.October,
	"NOV": time.November,
	"DEC": time.December,
}

// MonthFromAbbrev resolves a three-letter month abbreviation (case-insensitive).
func MonthFromAbbrev(abbrev string) (time.Month, error) {
	m, ok := monthAbbrev[strings.ToUpper(abbrev)]
	if !ok {
		return 0, fmt.Errorf("unrecognized month abbreviation %q", abbrev)
	}
	return m, nil
}

// ParseSlashDate parses a slash-delimited numeric date in the institutions'
// fixed day/month/year column order, e.g. "18/10/2024" -> 2024-10-18. The
// component order is a per-institution contract, not inferred.
func ParseSlashDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q: expected D/M/Y", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: bad day: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: bad month: %w", s, err)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: bad year: %w", s, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date %q: out of range", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ExpandYear resolves a two-digit year by concatenating the configured century
// prefix with the raw year digits and parsing the result. The prefix is always
// explicit configuration: the source documents emit only two year digits, and
// correcting for that upstream defect is the caller's decision.
func ExpandYear(centuryPrefix, yy string) (int, error) {
	year, err := strconv.Atoi(centuryPrefix + yy)
	if err != nil {
		return 0, fmt.Errorf("year %q with century prefix %q: %w", yy, centuryPrefix, err)
	}
	return year, nil
}

// ParseLabelDate parses a DD-MON-YY token ("28-OCT-24") using the configured
// century prefix, e.g. prefix "20" -> 2024-10-28.
func ParseLabelDate(token, centuryPrefix string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(token), "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date token %q: expected DD-MON-YY", token)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("date token %q: bad day: %w", token, err)
	}
	month, err := MonthFromAbbrev(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("date token %q: %w", token, err)
	}
	year, err := ExpandYear(centuryPrefix, parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("date token %q: %w", token, err)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date token %q: day out of range", token)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}
