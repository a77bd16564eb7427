package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	checkboxRe   = regexp.MustCompile(`^(\s*)([-*+])(\s+)\[([ xX])\](\s+)(.*)$`)
	dueRe        = regexp.MustCompile(`(?i)\bdue:(\S+)`)
	scheduledRe  = regexp.MustCompile(`(?i)\bscheduled:(\S+)`)
	createdRe    = regexp.MustCompile(`(?i)\bcreated:(\S+)`)
	ageRe        = regexp.MustCompile(`(?i)\bage:(\d+)\b`)
	priorityRe   = regexp.MustCompile(`(?i)\bpriority:(high|medium|low)\b`)
	bangRe       = regexp.MustCompile(`(?:^|\s)(!{1,3})(?:\s|$)`)
	tagRe        = regexp.MustCompile(`#([A-Za-z0-9_-]+)`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Priority levels recognized in task metadata
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// TaskMetadata holds the structured tokens extracted from a task body.
// All fields are optional; Age is -1 when no age: token was present.
type TaskMetadata struct {
	Due       *time.Time
	Scheduled *time.Time
	Created   *time.Time
	Priority  string
	Tags      []string
	Age       int
}

// Task represents a single checkbox task parsed from one note line
type Task struct {
	Line      int    // 1-indexed line number at time of parsing
	Text      string // display text with metadata tokens stripped
	Completed bool
	Metadata  TaskMetadata
	Raw       string // original line, byte-exact (sans terminator)
}

// TaskWithSource is a Task tagged with the note it came from
type TaskWithSource struct {
	*Task
	SourcePath string    // vault-relative note path
	SourceDate time.Time // calendar date the note represents
}

// splitLines splits note content on line boundaries, handling both LF and
// CRLF without losing empty lines.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// parseTasks extracts every checkbox task from note content. Lines that do
// not match the checkbox grammar are ignored; malformed metadata degrades
// to an omitted field. This function never fails.
func parseTasks(content string, now time.Time) []*Task {
	var tasks []*Task

	for i, line := range splitLines(content) {
		if task := parseTaskLine(line, i+1, now); task != nil {
			tasks = append(tasks, task)
		}
	}

	return tasks
}

// parseTaskLine parses a single line, returning nil if it is not a task
func parseTaskLine(line string, lineNum int, now time.Time) *Task {
	matches := checkboxRe.FindStringSubmatch(line)
	if matches == nil {
		return nil
	}

	body := matches[6]

	return &Task{
		Line:      lineNum,
		Text:      cleanText(body),
		Completed: strings.EqualFold(matches[4], "x"),
		Metadata:  parseMetadata(body, now),
		Raw:       line,
	}
}

// parseMetadata extracts structured tokens from a task body
func parseMetadata(body string, now time.Time) TaskMetadata {
	meta := TaskMetadata{Age: -1}

	meta.Due = parseDateField(dueRe, body, now)
	meta.Scheduled = parseDateField(scheduledRe, body, now)
	meta.Created = parseDateField(createdRe, body, now)

	if m := ageRe.FindStringSubmatch(body); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil {
			meta.Age = age
		}
	}

	meta.Priority = parsePriority(body)

	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		meta.Tags = append(meta.Tags, m[1])
	}

	return meta
}

// parseDateField resolves a date token field, silently omitting it when the
// token does not parse as a date.
func parseDateField(re *regexp.Regexp, body string, now time.Time) *time.Time {
	m := re.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	date, ok := parseDateToken(m[1], now)
	if !ok {
		return nil
	}
	return &date
}

// parsePriority returns the task priority. The explicit priority: keyword
// always wins; otherwise a standalone !, !! or !!! token is shorthand for
// low, medium and high. Marks attached to words are not priority.
func parsePriority(body string) string {
	if m := priorityRe.FindStringSubmatch(body); m != nil {
		return strings.ToLower(m[1])
	}

	if m := bangRe.FindStringSubmatch(body); m != nil {
		switch len(m[1]) {
		case 3:
			return PriorityHigh
		case 2:
			return PriorityMedium
		case 1:
			return PriorityLow
		}
	}

	return ""
}

// cleanText strips every recognized metadata token from a task body and
// normalizes the remaining whitespace.
func cleanText(body string) string {
	text := body
	text = dueRe.ReplaceAllString(text, " ")
	text = scheduledRe.ReplaceAllString(text, " ")
	text = createdRe.ReplaceAllString(text, " ")
	text = ageRe.ReplaceAllString(text, " ")
	text = priorityRe.ReplaceAllString(text, " ")
	text = bangRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NewTask describes a task to be formatted into a fresh checkbox line
type NewTask struct {
	Text      string
	Completed bool
	Due       *time.Time
	Scheduled *time.Time
	Created   *time.Time
	Priority  string
	Tags      []string
}

// taskFields is the full set of renderable task tokens, including the ones
// NewTask does not expose (created, age) so re-rendered lines keep them.
type taskFields struct {
	text      string
	due       *time.Time
	scheduled *time.Time
	created   *time.Time
	age       int // -1 when absent
	priority  string
	tags      []string
}

// formatTaskBody renders the body portion of a task line: text first, then
// metadata tokens in a fixed order the parser recognizes.
func formatTaskBody(f taskFields) string {
	parts := []string{strings.TrimSpace(f.text)}

	if f.due != nil {
		parts = append(parts, "due:"+f.due.Format("2006-01-02"))
	}
	if f.scheduled != nil {
		parts = append(parts, "scheduled:"+f.scheduled.Format("2006-01-02"))
	}
	if f.created != nil {
		parts = append(parts, "created:"+f.created.Format("2006-01-02"))
	}
	if f.age >= 0 {
		parts = append(parts, fmt.Sprintf("age:%d", f.age))
	}
	if f.priority != "" {
		parts = append(parts, "priority:"+f.priority)
	}
	for _, tag := range f.tags {
		parts = append(parts, "#"+tag)
	}

	return strings.Join(parts, " ")
}

// formatTaskLine renders a NewTask using the same grammar parseTasks
// recognizes, so a round-trip parse reproduces the given fields.
func formatTaskLine(nt NewTask) string {
	checkbox := "[ ]"
	if nt.Completed {
		checkbox = "[x]"
	}

	body := formatTaskBody(taskFields{
		text:      nt.Text,
		due:       nt.Due,
		scheduled: nt.Scheduled,
		created:   nt.Created,
		age:       -1,
		priority:  nt.Priority,
		tags:      nt.Tags,
	})

	return "- " + checkbox + " " + body
}

// effectiveAge returns the task's age in days: the explicit age: value when
// present, otherwise the days elapsed since the note's date.
func (t TaskWithSource) effectiveAge(now time.Time) int {
	if t.Metadata.Age >= 0 {
		return t.Metadata.Age
	}
	age := daysBetween(t.SourceDate, now)
	if age < 0 {
		return 0
	}
	return age
}

// Address returns the path:line identifier for this task, including a
// fingerprint of the raw line so stale addresses can be rejected.
func (t TaskWithSource) Address() string {
	return fmt.Sprintf("%s:%d#%s", t.SourcePath, t.Line, lineFingerprint(t.Raw))
}
