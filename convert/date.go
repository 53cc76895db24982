package convert

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const (
	defaultMonth = time.June
	defaultDay   = 15
)

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// PublicationDate derives a YYYY-MM-DD date. Without a year there is no
// date. Month accepts full or three-letter names (case-insensitive) or
// a 1-12 numeric string, day a 1-31 numeric string; absent or
// unparseable values default to June 15. A day the month does not have
// is clamped to the month's last nominal day (28 for February, 30 for
// the 30-day months, 31 otherwise).
func PublicationDate(year int64, month, day string) string {
	if year == 0 {
		return ""
	}
	m := parseMonth(month)
	d := parseDay(day)
	t := time.Date(int(year), m, d, 0, 0, 0, 0, time.UTC)
	if t.Month() != m {
		// day rolled over into the next month
		d = lastDay(m)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(m), d)
}

func parseMonth(month string) time.Month {
	month = strings.ToLower(strings.TrimSpace(month))
	if month == "" {
		return defaultMonth
	}
	if m, ok := monthNames[month]; ok {
		return m
	}
	if n, err := strconv.Atoi(month); err == nil && n >= 1 && n <= 12 {
		return time.Month(n)
	}
	return defaultMonth
}

func parseDay(day string) int {
	day = strings.TrimSpace(day)
	if day == "" {
		return defaultDay
	}
	if n, err := strconv.Atoi(day); err == nil && n >= 1 && n <= 31 {
		return n
	}
	return defaultDay
}

// lastDay returns the nominal last day of a month, leap years ignored
// on purpose: February always clamps to 28.
func lastDay(m time.Month) int {
	if m == time.February {
		return 28
	}
	// any non-leap reference year works for the remaining months
	ref := time.Date(2001, m, 1, 0, 0, 0, 0, time.UTC)
	return now.With(ref).EndOfMonth().Day()
}
