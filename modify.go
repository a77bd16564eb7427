package main

import (
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoteNotFound = errors.New("note does not exist")
	ErrLineRange    = errors.New("line number out of range")
	ErrNotATask     = errors.New("line is not a checkbox task")
	ErrStaleAddress = errors.New("line changed since it was listed")
	ErrBadAddress   = errors.New("malformed task address")
)

var headingRe = regexp.MustCompile(`^#{1,6}\s`)

// TaskAddress identifies one task line: "<relpath>:<line>", optionally
// followed by "#<fingerprint>" of the raw line. The fingerprint lets
// mutations reject addresses that went stale under an external edit; a bare
// path:line address is still accepted.
type TaskAddress struct {
	Path        string
	Line        int
	Fingerprint string
}

func (a TaskAddress) String() string {
	if a.Fingerprint != "" {
		return fmt.Sprintf("%s:%d#%s", a.Path, a.Line, a.Fingerprint)
	}
	return fmt.Sprintf("%s:%d", a.Path, a.Line)
}

// lineFingerprint hashes a raw line for stale-address detection
func lineFingerprint(line string) string {
	h := fnv.New32a()
	h.Write([]byte(line))
	return fmt.Sprintf("%08x", h.Sum32())
}

// parseAddress parses "<path>:<line>" or "<path>:<line>#<fingerprint>".
// The path may itself contain colons, so the line number is taken from the
// last colon.
func parseAddress(s string) (TaskAddress, error) {
	var fingerprint string
	if i := strings.LastIndex(s, "#"); i >= 0 {
		fingerprint = s[i+1:]
		s = s[:i]
	}

	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return TaskAddress{}, fmt.Errorf("%w: %q", ErrBadAddress, s)
	}

	line, err := strconv.Atoi(s[i+1:])
	if err != nil || line < 1 {
		return TaskAddress{}, fmt.Errorf("%w: %q", ErrBadAddress, s)
	}

	return TaskAddress{Path: s[:i], Line: line, Fingerprint: fingerprint}, nil
}

// lineDoc holds a note split into lines, each with its own terminator, so
// an edited note is rejoined byte-identically outside the changed lines.
// Mixed LF/CRLF files stay mixed.
type lineDoc struct {
	lines []string
	ends  []string // terminator after each line; "" only on a final unterminated line
}

func parseLineDoc(content string) *lineDoc {
	doc := &lineDoc{}

	for len(content) > 0 {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			doc.lines = append(doc.lines, content)
			doc.ends = append(doc.ends, "")
			break
		}

		line, end := content[:i], "\n"
		if strings.HasSuffix(line, "\r") {
			line, end = line[:len(line)-1], "\r\n"
		}
		doc.lines = append(doc.lines, line)
		doc.ends = append(doc.ends, end)
		content = content[i+1:]
	}

	return doc
}

func (d *lineDoc) String() string {
	var b strings.Builder
	for i, line := range d.lines {
		b.WriteString(line)
		b.WriteString(d.ends[i])
	}
	return b.String()
}

// line returns the 1-indexed line, or an error when out of range
func (d *lineDoc) line(n int) (string, error) {
	if n < 1 || n > len(d.lines) {
		return "", fmt.Errorf("%w: %d (note has %d lines)", ErrLineRange, n, len(d.lines))
	}
	return d.lines[n-1], nil
}

func (d *lineDoc) setLine(n int, content string) {
	d.lines[n-1] = content
}

func (d *lineDoc) removeLine(n int) {
	i := n - 1

	// Removing a final unterminated line keeps the note unterminated
	if i == len(d.lines)-1 && d.ends[i] == "" && i > 0 {
		d.ends[i-1] = ""
	}

	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	d.ends = append(d.ends[:i], d.ends[i+1:]...)
}

// insertLines splices newLines in before the 0-indexed position at, giving
// them the terminator of the nearest preceding line. A note without a
// trailing newline stays that way when lines are appended at the end.
func (d *lineDoc) insertLines(at int, newLines []string) {
	end := "\n"
	for i := at - 1; i >= 0; i-- {
		if d.ends[i] != "" {
			end = d.ends[i]
			break
		}
	}

	ends := make([]string, len(newLines))
	for i := range ends {
		ends[i] = end
	}

	if at == len(d.lines) && at > 0 && d.ends[at-1] == "" {
		d.ends[at-1] = end
		ends[len(ends)-1] = ""
	}

	d.lines = append(d.lines[:at], append(append([]string{}, newLines...), d.lines[at:]...)...)
	d.ends = append(d.ends[:at], append(ends, d.ends[at:]...)...)
}

// checkedLine fetches an addressed line and verifies it still is a checkbox
// task matching the address fingerprint, if one was given.
func checkedLine(doc *lineDoc, addr TaskAddress) (string, []string, error) {
	line, err := doc.line(addr.Line)
	if err != nil {
		return "", nil, err
	}

	matches := checkboxRe.FindStringSubmatch(line)
	if matches == nil {
		return "", nil, fmt.Errorf("%w: %s:%d", ErrNotATask, addr.Path, addr.Line)
	}

	if addr.Fingerprint != "" && addr.Fingerprint != lineFingerprint(line) {
		return "", nil, fmt.Errorf("%w: %s", ErrStaleAddress, addr)
	}

	return line, matches, nil
}

// toggleTask flips the checkbox on the addressed line and writes the note
// back. Every byte outside the single checkbox character is preserved.
// Returns the rewritten line.
func toggleTask(src NoteSource, addr TaskAddress) (string, error) {
	if !src.Exists(addr.Path) {
		return "", fmt.Errorf("%w: %s", ErrNoteNotFound, addr.Path)
	}

	content, err := src.Read(addr.Path)
	if err != nil {
		return "", err
	}

	doc := parseLineDoc(content)
	_, matches, err := checkedLine(doc, addr)
	if err != nil {
		return "", err
	}

	checkbox := " "
	if matches[4] == " " {
		checkbox = "x"
	}

	newLine := matches[1] + matches[2] + matches[3] + "[" + checkbox + "]" + matches[5] + matches[6]
	doc.setLine(addr.Line, newLine)

	if err := src.Write(addr.Path, doc.String()); err != nil {
		return "", err
	}
	return newLine, nil
}

// addTask formats a new checkbox line and appends it to the note's task
// section, or to the end of the note when no such section exists. Returns
// the address of the added task.
func addTask(src NoteSource, relPath string, nt NewTask, section string) (TaskAddress, error) {
	if !src.Exists(relPath) {
		return TaskAddress{}, fmt.Errorf("%w: %s", ErrNoteNotFound, relPath)
	}

	content, err := src.Read(relPath)
	if err != nil {
		return TaskAddress{}, err
	}

	line := formatTaskLine(nt)
	doc := parseLineDoc(content)
	lineNum := appendToSection(doc, section, []string{line})

	if err := src.Write(relPath, doc.String()); err != nil {
		return TaskAddress{}, err
	}

	return TaskAddress{Path: relPath, Line: lineNum, Fingerprint: lineFingerprint(line)}, nil
}

// appendToSection inserts lines after the last non-blank line of the named
// section, or at the end of the document if the section is missing.
// Returns the 1-indexed line number of the first inserted line.
func appendToSection(doc *lineDoc, section string, newLines []string) int {
	insertAt := len(doc.lines)

	heading := -1
	for i, line := range doc.lines {
		if strings.TrimSpace(line) == section {
			heading = i
			break
		}
	}

	if heading >= 0 {
		end := len(doc.lines)
		for i := heading + 1; i < len(doc.lines); i++ {
			if headingRe.MatchString(doc.lines[i]) {
				end = i
				break
			}
		}
		insertAt = end
		for insertAt > heading+1 && strings.TrimSpace(doc.lines[insertAt-1]) == "" {
			insertAt--
		}
	} else {
		for insertAt > 0 && strings.TrimSpace(doc.lines[insertAt-1]) == "" {
			insertAt--
		}
	}

	doc.insertLines(insertAt, newLines)

	return insertAt + 1
}

// MetadataUpdates is a partial update of one task line's metadata tokens.
// Nil pointer fields leave the current value alone; Clear flags remove it.
type MetadataUpdates struct {
	Due            *time.Time
	ClearDue       bool
	Scheduled      *time.Time
	ClearScheduled bool
	Priority       string
	ClearPriority  bool
	AddTags        []string
	ClearTags      bool
}

// updateMetadata re-renders the addressed line's metadata tokens according
// to the partial updates, preserving the human-readable text, completion
// state, indentation and list marker. Returns the rewritten line.
func updateMetadata(src NoteSource, addr TaskAddress, updates MetadataUpdates, now time.Time) (string, error) {
	if !src.Exists(addr.Path) {
		return "", fmt.Errorf("%w: %s", ErrNoteNotFound, addr.Path)
	}

	content, err := src.Read(addr.Path)
	if err != nil {
		return "", err
	}

	doc := parseLineDoc(content)
	_, matches, err := checkedLine(doc, addr)
	if err != nil {
		return "", err
	}

	body := matches[6]
	meta := parseMetadata(body, now)

	fields := taskFields{
		text:      cleanText(body),
		due:       meta.Due,
		scheduled: meta.Scheduled,
		created:   meta.Created,
		age:       meta.Age,
		priority:  meta.Priority,
		tags:      meta.Tags,
	}

	if updates.ClearDue {
		fields.due = nil
	} else if updates.Due != nil {
		fields.due = updates.Due
	}

	if updates.ClearScheduled {
		fields.scheduled = nil
	} else if updates.Scheduled != nil {
		fields.scheduled = updates.Scheduled
	}

	if updates.ClearPriority {
		fields.priority = ""
	} else if updates.Priority != "" {
		fields.priority = updates.Priority
	}

	if updates.ClearTags {
		fields.tags = nil
	}
	fields.tags = append(fields.tags, updates.AddTags...)

	newLine := matches[1] + matches[2] + matches[3] + "[" + matches[4] + "]" + matches[5] + formatTaskBody(fields)
	doc.setLine(addr.Line, newLine)

	if err := src.Write(addr.Path, doc.String()); err != nil {
		return "", err
	}
	return newLine, nil
}
