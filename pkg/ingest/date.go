package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDatePattern = regexp.MustCompile(`^(\d{2})[./-](\d{2})[./-](\d{4})$`)
)

// ParseDateToISO normalizes a statement date to YYYY-MM-DD. Already-ISO
// input passes through on shape alone; DD/MM/YYYY (also "." and "-"
// separators) is validated by constructing the calendar date and checking
// that no field rolled over, which rejects day 31 in a 30-day month and
// month 13 outright.
func ParseDateToISO(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if isoDatePattern.MatchString(trimmed) {
		return trimmed, true
	}

	m := dmyDatePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return "", false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
