package main

import (
	"strconv"
	"strings"
	"time"
)

// startOfDay returns the time truncated to midnight UTC
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of whole calendar days from a to b
func daysBetween(a, b time.Time) int {
	return int(startOfDay(b).Sub(startOfDay(a)).Hours() / 24)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseDateToken interprets a date token relative to now. It understands
// ISO dates (2006-01-02), today/tomorrow/yesterday, weekday names (the next
// occurrence, never today), and +N/-N day offsets. Unrecognized tokens
// report ok=false; this function never fails hard because metadata dates
// are best-effort by contract.
func parseDateToken(token string, now time.Time) (time.Time, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return time.Time{}, false
	}

	today := startOfDay(now)

	switch token {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "yesterday":
		return today.AddDate(0, 0, -1), true
	}

	if wd, ok := weekdays[token]; ok {
		delta := (int(wd) - int(today.Weekday()) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		return today.AddDate(0, 0, delta), true
	}

	if strings.HasPrefix(token, "+") || strings.HasPrefix(token, "-") {
		offset := strings.TrimSuffix(token[1:], "d")
		n, err := strconv.Atoi(offset)
		if err == nil {
			if token[0] == '-' {
				n = -n
			}
			return today.AddDate(0, 0, n), true
		}
	}

	if parsed, err := time.Parse("2006-01-02", token); err == nil {
		return parsed, true
	}

	return time.Time{}, false
}
