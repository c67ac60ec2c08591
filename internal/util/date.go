package util

import (
	"regexp"
	"time"
)

var examDatePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// ParseExamDate parses a strict DD-MM-YYYY date as UTC midnight.
func ParseExamDate(s string) (time.Time, bool) {
	if !examDatePattern.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ExamDateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MonthWindow returns the half-open range [first of month, first of next month).
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
