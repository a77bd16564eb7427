package main

import (
	"fmt"
	"time"
)

// RolloverOptions controls one rollover run
type RolloverOptions struct {
	Period         PeriodType
	TargetDate     time.Time // the note tasks are migrated into
	SourceDaysBack int       // how many days before the target to scan
	TaskSection    string    // heading the migrated lines are appended under
	DryRun         bool      // compute the result but write nothing
	Now            time.Time
}

// SkippedTask records why one task was not migrated
type SkippedTask struct {
	Task   TaskWithSource
	Reason string
}

// RolloverResult reports what a rollover run moved and what it left behind
type RolloverResult struct {
	RolledOver     []TaskWithSource
	TargetNotePath string
	Skipped        []SkippedTask
}

const (
	skipAlreadyRolled   = "already rolled over"
	skipRolloverOff     = "rollover disabled in note frontmatter"
	skipSourceUnchanged = "source line changed during rollover"
)

// rolloverTasks migrates incomplete tasks from the trailing source window
// into the target note. A task whose raw line already exists verbatim in
// the target is skipped, which makes the operation idempotent: re-running
// on an unchanged vault rolls nothing. Migrated lines are removed from
// their source notes so a task is never actionable in two places at once
// (policy choice documented in DESIGN.md). Per-task problems are reported
// in Skipped; the run itself only fails when the target cannot be written.
func rolloverTasks(src NoteSource, opts RolloverOptions) (RolloverResult, error) {
	target := startOfDay(opts.TargetDate)
	result := RolloverResult{TargetNotePath: src.NotePath(opts.Period, target)}

	targetContent := ""
	if src.Exists(result.TargetNotePath) {
		content, err := src.Read(result.TargetNotePath)
		if err != nil {
			return result, fmt.Errorf("read target note: %w", err)
		}
		targetContent = content
	}

	targetLines := make(map[string]bool)
	for _, line := range splitLines(targetContent) {
		targetLines[line] = true
	}

	from := target.AddDate(0, 0, -opts.SourceDaysBack)
	to := target.AddDate(0, 0, -1)

	type sourceEdit struct {
		path  string
		lines []int // line numbers to delete, collected per note
	}
	var edits []sourceEdit

	for _, ref := range src.NotesInRange(opts.Period, from, to) {
		content, err := src.Read(ref.Path)
		if err != nil {
			continue
		}

		fm, _ := parseFrontmatter(content)
		tasks := parseTasks(content, opts.Now)

		edit := sourceEdit{path: ref.Path}
		for _, task := range tasks {
			if task.Completed {
				continue
			}

			sourced := TaskWithSource{Task: task, SourcePath: ref.Path, SourceDate: ref.Date}

			if !fm.RolloverEnabled() {
				result.Skipped = append(result.Skipped, SkippedTask{Task: sourced, Reason: skipRolloverOff})
				continue
			}

			if targetLines[task.Raw] {
				result.Skipped = append(result.Skipped, SkippedTask{Task: sourced, Reason: skipAlreadyRolled})
				continue
			}

			result.RolledOver = append(result.RolledOver, sourced)
			targetLines[task.Raw] = true
			edit.lines = append(edit.lines, task.Line)
		}

		if len(edit.lines) > 0 {
			edits = append(edits, edit)
		}
	}

	if opts.DryRun || len(result.RolledOver) == 0 {
		return result, nil
	}

	rawLines := make([]string, 0, len(result.RolledOver))
	for _, task := range result.RolledOver {
		rawLines = append(rawLines, task.Raw)
	}

	targetDoc := parseLineDoc(targetContent)
	appendToSection(targetDoc, opts.TaskSection, rawLines)
	if err := src.Write(result.TargetNotePath, targetDoc.String()); err != nil {
		return result, fmt.Errorf("write target note: %w", err)
	}

	// Remove migrated lines from their source notes. The target already
	// holds the tasks, so a failed source edit downgrades those tasks to
	// skipped rather than failing the run; the idempotence guard keeps
	// them from being copied again.
	for _, edit := range edits {
		if err := removeSourceLines(src, edit.path, edit.lines, &result); err != nil {
			continue
		}
	}

	return result, nil
}

// removeSourceLines deletes the rolled-over lines from one source note,
// verifying each line still holds the task it held when scanned.
func removeSourceLines(src NoteSource, path string, lines []int, result *RolloverResult) error {
	content, err := src.Read(path)
	if err != nil {
		return err
	}

	byLine := make(map[int]TaskWithSource)
	for _, task := range result.RolledOver {
		if task.SourcePath == path {
			byLine[task.Line] = task
		}
	}

	doc := parseLineDoc(content)

	// Delete bottom-up so earlier line numbers stay valid
	for i := len(lines) - 1; i >= 0; i-- {
		n := lines[i]
		task, ok := byLine[n]
		if !ok {
			continue
		}

		current, err := doc.line(n)
		if err != nil || current != task.Raw {
			demoteToSkipped(result, task, skipSourceUnchanged)
			continue
		}
		doc.removeLine(n)
	}

	return src.Write(path, doc.String())
}

// demoteToSkipped moves a task from RolledOver into Skipped
func demoteToSkipped(result *RolloverResult, task TaskWithSource, reason string) {
	for i, rolled := range result.RolledOver {
		if rolled.SourcePath == task.SourcePath && rolled.Line == task.Line {
			result.RolledOver = append(result.RolledOver[:i], result.RolledOver[i+1:]...)
			break
		}
	}
	result.Skipped = append(result.Skipped, SkippedTask{Task: task, Reason: reason})
}
