package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// PeriodType identifies the calendar period a note represents
type PeriodType string

const (
	PeriodDay     PeriodType = "day"
	PeriodWeek    PeriodType = "week"
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodYear    PeriodType = "year"
)

// parsePeriodType validates a period name from flags or config
func parsePeriodType(s string) (PeriodType, error) {
	switch PeriodType(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return PeriodType(s), nil
	case "daily":
		return PeriodDay, nil
	case "weekly":
		return PeriodWeek, nil
	case "monthly":
		return PeriodMonth, nil
	case "quarterly":
		return PeriodQuarter, nil
	case "yearly":
		return PeriodYear, nil
	}
	return "", fmt.Errorf("unknown period type %q", s)
}

// periodStart returns the first day of the period containing t
func periodStart(p PeriodType, t time.Time) time.Time {
	day := startOfDay(t)

	switch p {
	case PeriodDay:
		return day
	case PeriodWeek:
		// ISO weeks start on Monday
		delta := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -delta)
	case PeriodMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodQuarter:
		month := time.Month((int(day.Month())-1)/3*3 + 1)
		return time.Date(day.Year(), month, 1, 0, 0, 0, 0, time.UTC)
	case PeriodYear:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return day
}

// periodEnd returns the last day of the period containing t
func periodEnd(p PeriodType, t time.Time) time.Time {
	start := periodStart(p, t)

	switch p {
	case PeriodDay:
		return start
	case PeriodWeek:
		return start.AddDate(0, 0, 6)
	case PeriodMonth:
		return start.AddDate(0, 1, -1)
	case PeriodQuarter:
		return start.AddDate(0, 3, -1)
	case PeriodYear:
		return start.AddDate(1, 0, -1)
	}
	return start
}

// nextPeriodStart returns the first day of the period after the one containing t
func nextPeriodStart(p PeriodType, t time.Time) time.Time {
	return periodEnd(p, t).AddDate(0, 0, 1)
}

// PeriodConfig describes where notes of one period type live in the vault
// and how their filenames encode the date.
type PeriodConfig struct {
	Folder string // vault-relative folder, e.g. "daily"
	Format string // Go time layout for the filename, e.g. "2006/01/02"
}

// defaultPeriodConfigs mirrors the common Obsidian periodic-notes layout
func defaultPeriodConfigs() map[PeriodType]PeriodConfig {
	return map[PeriodType]PeriodConfig{
		PeriodDay:     {Folder: "daily", Format: "2006/01/02"},
		PeriodWeek:    {Folder: "weekly", Format: "2006/W%V"},
		PeriodMonth:   {Folder: "monthly", Format: "2006/01"},
		PeriodQuarter: {Folder: "quarterly", Format: "2006/Q%Q"},
		PeriodYear:    {Folder: "yearly", Format: "2006"},
	}
}

// notePathFor returns the vault-relative path of the note for date in period p.
// Week and quarter formats need ordinal components time layouts cannot
// express, so %V (ISO week) and %Q (quarter) are substituted afterwards.
func notePathFor(cfg PeriodConfig, p PeriodType, date time.Time) string {
	name := date.Format(cfg.Format)

	switch p {
	case PeriodWeek:
		_, week := date.ISOWeek()
		name = strings.ReplaceAll(name, "%V", fmt.Sprintf("%02d", week))
	case PeriodQuarter:
		quarter := (int(date.Month())-1)/3 + 1
		name = strings.ReplaceAll(name, "%Q", fmt.Sprintf("%02d", quarter))
	}

	return filepath.Join(cfg.Folder, name+".md")
}

// datesIn enumerates one date per period between from and to inclusive
func datesIn(p PeriodType, from, to time.Time) []time.Time {
	var dates []time.Time

	for d := periodStart(p, from); !d.After(startOfDay(to)); d = nextPeriodStart(p, d) {
		dates = append(dates, d)
	}

	return dates
}

// noteTitle renders the human heading for a periodic note
func noteTitle(p PeriodType, date time.Time) string {
	switch p {
	case PeriodDay:
		return date.Format("Monday, January 2, 2006")
	case PeriodWeek:
		_, week := date.ISOWeek()
		return fmt.Sprintf("Week %d, %d", week, date.Year())
	case PeriodMonth:
		return date.Format("January 2006")
	case PeriodQuarter:
		quarter := (int(date.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", quarter, date.Year())
	case PeriodYear:
		return date.Format("2006")
	}
	return date.Format("2006-01-02")
}
