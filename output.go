package main

import (
	"fmt"
	"io"
	"time"

	"github.com/savioxavier/termlink"
)

// taskView selects which aggregate bucket a listing shows
type taskView string

const (
	viewOpen      taskView = "open"
	viewCompleted taskView = "completed"
	viewOverdue   taskView = "overdue"
	viewStale     taskView = "stale"
	viewPriority  taskView = "priority"
)

// printTaskList writes one bucket of aggregated tasks with source
// addresses. Addresses carry the line fingerprint so they can be pasted
// straight into `pn toggle` / `pn meta`.
func printTaskList(out io.Writer, title string, tasks []TaskWithSource, src NoteSource, now time.Time) {
	header := sectionStyle.Render(title) + countStyle.Render(fmt.Sprintf(" (%d)", len(tasks)))
	fmt.Fprintln(out, header)

	if len(tasks) == 0 {
		fmt.Fprintln(out, fileStyle.Render("  (none)"))
		return
	}

	for _, task := range tasks {
		fmt.Fprintln(out, "  "+formatTaskListLine(task, src, now))
	}
}

// formatTaskListLine renders one task for a non-interactive listing
func formatTaskListLine(task TaskWithSource, src NoteSource, now time.Time) string {
	checkbox := "[ ]"
	if task.Completed {
		checkbox = "[x]"
	}

	line := fmt.Sprintf("%s %s", checkbox, task.Text)
	if task.Completed {
		line = doneStyle.Render(line)
	}

	var marks string
	if task.Metadata.Due != nil {
		due := task.Metadata.Due.Format("2006-01-02")
		if !task.Completed && startOfDay(*task.Metadata.Due).Before(startOfDay(now)) {
			marks += " " + overdueStyle.Render("due "+due)
		} else {
			marks += " " + fileStyle.Render("due "+due)
		}
	}
	if task.Metadata.Priority != "" {
		marks += " " + priorityStyle.Render(task.Metadata.Priority)
	}
	for _, tag := range task.Metadata.Tags {
		marks += " " + countStyle.Render("#"+tag)
	}

	addr := task.Address()
	link := termlink.Link(addr, "file://"+src.Abs(task.SourcePath))

	return fmt.Sprintf("%s%s %s", line, marks, fileStyle.Render("("+link+")"))
}

// printRolloverResult reports what a rollover run did
func printRolloverResult(out io.Writer, result RolloverResult, dryRun bool) {
	verb := "Rolled over"
	if dryRun {
		verb = "Would roll over"
	}

	fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("%s %d task(s) into %s", verb, len(result.RolledOver), result.TargetNotePath)))

	for _, task := range result.RolledOver {
		fmt.Fprintf(out, "  %s %s\n", "→", task.Text)
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintln(out, countStyle.Render(fmt.Sprintf("Skipped %d task(s):", len(result.Skipped))))
		for _, skipped := range result.Skipped {
			fmt.Fprintf(out, "  %s %s\n", skipped.Task.Text, fileStyle.Render("("+skipped.Reason+")"))
		}
	}
}
