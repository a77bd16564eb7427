package main

import (
	"strings"
	"testing"
)

func rolloverOpts(target string) RolloverOptions {
	return RolloverOptions{
		Period:         PeriodDay,
		TargetDate:     date(target),
		SourceDaysBack: 7,
		TaskSection:    "## Tasks",
		Now:            date(target),
	}
}

func TestRolloverMigratesIncompleteTasks(t *testing.T) {
	vault := newFakeVault()
	source := vault.addNote(date("2024-01-14"), "# Sunday\n\n## Tasks\n\n- [ ] unfinished due:2024-01-16\n- [x] finished\n")
	target := vault.addNote(date("2024-01-15"), "# Monday\n\n## Tasks\n\n## Notes\n")

	result, err := rolloverTasks(vault, rolloverOpts("2024-01-15"))
	if err != nil {
		t.Fatalf("rolloverTasks failed: %v", err)
	}

	if len(result.RolledOver) != 1 {
		t.Fatalf("RolledOver = %d, want 1", len(result.RolledOver))
	}
	if result.RolledOver[0].Text != "unfinished" {
		t.Errorf("rolled task = %q", result.RolledOver[0].Text)
	}
	if result.TargetNotePath != target {
		t.Errorf("TargetNotePath = %q, want %q", result.TargetNotePath, target)
	}

	// the raw line lands verbatim under the task section
	targetContent := vault.notes[target]
	if !strings.Contains(targetContent, "- [ ] unfinished due:2024-01-16") {
		t.Errorf("target missing migrated line:\n%s", targetContent)
	}
	tasksIdx := strings.Index(targetContent, "## Tasks")
	notesIdx := strings.Index(targetContent, "## Notes")
	lineIdx := strings.Index(targetContent, "- [ ] unfinished")
	if lineIdx < tasksIdx || lineIdx > notesIdx {
		t.Errorf("migrated line not inside the task section:\n%s", targetContent)
	}

	// migrated line leaves the source; the completed one stays
	sourceContent := vault.notes[source]
	if strings.Contains(sourceContent, "- [ ] unfinished") {
		t.Errorf("source still holds the migrated task:\n%s", sourceContent)
	}
	if !strings.Contains(sourceContent, "- [x] finished") {
		t.Errorf("completed task vanished from source:\n%s", sourceContent)
	}
}

func TestRolloverIsIdempotent(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-14"), "- [ ] carry me\n")
	vault.addNote(date("2024-01-15"), "# Monday\n\n## Tasks\n")

	first, err := rolloverTasks(vault, rolloverOpts("2024-01-15"))
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if len(first.RolledOver) != 1 {
		t.Fatalf("first run RolledOver = %d, want 1", len(first.RolledOver))
	}

	second, err := rolloverTasks(vault, rolloverOpts("2024-01-15"))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(second.RolledOver) != 0 {
		t.Errorf("second run RolledOver = %d, want 0", len(second.RolledOver))
	}

	// exactly one copy in the target
	if n := strings.Count(vault.notes[vault.NotePath(PeriodDay, date("2024-01-15"))], "- [ ] carry me"); n != 1 {
		t.Errorf("target holds %d copies of the task, want 1", n)
	}
}

func TestRolloverSkipsLinesAlreadyInTarget(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-14"), "- [ ] carry me\n")
	vault.addNote(date("2024-01-15"), "## Tasks\n\n- [ ] carry me\n")

	result, err := rolloverTasks(vault, rolloverOpts("2024-01-15"))
	if err != nil {
		t.Fatalf("rolloverTasks failed: %v", err)
	}

	if len(result.RolledOver) != 0 {
		t.Errorf("RolledOver = %d, want 0", len(result.RolledOver))
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != skipAlreadyRolled {
		t.Errorf("Skipped = %+v, want one %q entry", result.Skipped, skipAlreadyRolled)
	}
}

func TestRolloverDryRun(t *testing.T) {
	vault := newFakeVault()
	source := vault.addNote(date("2024-01-14"), "- [ ] unfinished\n")
	vault.addNote(date("2024-01-15"), "## Tasks\n")
	writesBefore := vault.writes

	opts := rolloverOpts("2024-01-15")
	opts.DryRun = true

	result, err := rolloverTasks(vault, opts)
	if err != nil {
		t.Fatalf("rolloverTasks failed: %v", err)
	}

	if len(result.RolledOver) != 1 {
		t.Errorf("dry run should still report the migration, got %d", len(result.RolledOver))
	}
	if vault.writes != writesBefore {
		t.Errorf("dry run wrote %d notes", vault.writes-writesBefore)
	}
	if !strings.Contains(vault.notes[source], "- [ ] unfinished") {
		t.Error("dry run modified the source note")
	}
}

func TestRolloverFrontmatterOptOut(t *testing.T) {
	vault := newFakeVault()
	pinned := vault.addNote(date("2024-01-14"), "---\nrollover: false\n---\n\n- [ ] stays here\n")
	vault.addNote(date("2024-01-13"), "- [ ] moves\n")
	vault.addNote(date("2024-01-15"), "## Tasks\n")

	result, err := rolloverTasks(vault, rolloverOpts("2024-01-15"))
	if err != nil {
		t.Fatalf("rolloverTasks failed: %v", err)
	}

	if len(result.RolledOver) != 1 || result.RolledOver[0].Text != "moves" {
		t.Errorf("RolledOver = %+v, want just %q", result.RolledOver, "moves")
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != skipRolloverOff {
		t.Errorf("Skipped = %+v, want one %q entry", result.Skipped, skipRolloverOff)
	}
	if !strings.Contains(vault.notes[pinned], "- [ ] stays here") {
		t.Error("opted-out task was removed from its note")
	}
}

func TestRolloverWindow(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-05"), "- [ ] too old\n") // 10 days back, outside window
	vault.addNote(date("2024-01-12"), "- [ ] in window\n")
	vault.addNote(date("2024-01-15"), "## Tasks\n\n- [ ] already on target day\n")

	opts := rolloverOpts("2024-01-15")
	opts.SourceDaysBack = 7

	result, err := rolloverTasks(vault, opts)
	if err != nil {
		t.Fatalf("rolloverTasks failed: %v", err)
	}

	if len(result.RolledOver) != 1 || result.RolledOver[0].Text != "in window" {
		t.Errorf("RolledOver = %+v, want just %q", result.RolledOver, "in window")
	}
}

func TestRolloverCreatesMissingTarget(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-14"), "- [ ] unfinished\n")

	result, err := rolloverTasks(vault, rolloverOpts("2024-01-15"))
	if err != nil {
		t.Fatalf("rolloverTasks failed: %v", err)
	}

	if len(result.RolledOver) != 1 {
		t.Fatalf("RolledOver = %d, want 1", len(result.RolledOver))
	}
	if !vault.Exists(result.TargetNotePath) {
		t.Fatal("target note was not written")
	}
	if !strings.Contains(vault.notes[result.TargetNotePath], "- [ ] unfinished") {
		t.Errorf("target missing migrated line:\n%s", vault.notes[result.TargetNotePath])
	}
}

func TestRolloverNothingToDo(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-14"), "- [x] all done\n")
	writesBefore := vault.writes

	result, err := rolloverTasks(vault, rolloverOpts("2024-01-15"))
	if err != nil {
		t.Fatalf("rolloverTasks failed: %v", err)
	}

	if len(result.RolledOver) != 0 {
		t.Errorf("RolledOver = %d, want 0", len(result.RolledOver))
	}
	if vault.writes != writesBefore {
		t.Error("a run with nothing to migrate should not write")
	}
}
