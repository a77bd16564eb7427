package main

import (
	"testing"
)

func TestAggregateOverdueAcrossNotes(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-10"), "- [ ] pay rent due:2024-01-12\n")
	vault.addNote(date("2024-01-11"), "- [ ] call dentist due:2024-01-13\n")
	vault.addNote(date("2024-01-12"), "- [ ] file report due:2024-01-14\n")

	agg := aggregateTasks(vault, AggregateOptions{
		Period: PeriodDay,
		From:   date("2024-01-10"),
		To:     date("2024-01-15"),
		Now:    date("2024-01-15"),
	})

	if len(agg.Overdue) != 3 {
		t.Fatalf("expected 3 overdue tasks, got %d", len(agg.Overdue))
	}
	if len(agg.Open) != 3 {
		t.Errorf("expected 3 open tasks, got %d", len(agg.Open))
	}
}

func TestAggregateBuckets(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-14"), "# Note\n\n"+
		"- [ ] overdue thing due:2024-01-10\n"+
		"- [ ] due today due:2024-01-15\n"+
		"- [ ] due later due:2024-01-20\n"+
		"- [x] finished due:2024-01-01\n"+
		"- [ ] no metadata\n")

	agg := aggregateTasks(vault, AggregateOptions{
		Period: PeriodDay,
		From:   date("2024-01-14"),
		To:     date("2024-01-15"),
		Now:    date("2024-01-15"),
	})

	if len(agg.Open) != 4 {
		t.Errorf("Open = %d, want 4", len(agg.Open))
	}
	if len(agg.Completed) != 1 {
		t.Errorf("Completed = %d, want 1", len(agg.Completed))
	}

	// due today and due later are not overdue; completed never is
	if len(agg.Overdue) != 1 {
		t.Fatalf("Overdue = %d, want 1", len(agg.Overdue))
	}
	if agg.Overdue[0].Text != "overdue thing" {
		t.Errorf("Overdue[0].Text = %q", agg.Overdue[0].Text)
	}
}

func TestAggregateOverdueInvariant(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-10"), "- [ ] a due:2024-01-11\n- [x] b due:2024-01-11\n- [ ] c\n")

	agg := aggregateTasks(vault, AggregateOptions{
		Period: PeriodDay,
		From:   date("2024-01-10"),
		To:     date("2024-01-15"),
		Now:    date("2024-01-15"),
	})

	for _, task := range agg.Overdue {
		if task.Completed {
			t.Errorf("completed task %q in overdue bucket", task.Text)
		}
		if task.Metadata.Due == nil {
			t.Errorf("task %q without due date in overdue bucket", task.Text)
		}
	}
}

func TestAggregateStale(t *testing.T) {
	vault := newFakeVault()
	// explicit age wins; the note is from yesterday but the task is old
	vault.addNote(date("2024-01-14"), "- [ ] carried over forever age:30\n")
	// no age field, staleness falls back to the note date
	vault.addNote(date("2023-12-20"), "- [ ] forgotten\n")
	vault.addNote(date("2024-01-13"), "- [ ] fresh\n")

	agg := aggregateTasks(vault, AggregateOptions{
		Period:    PeriodDay,
		From:      date("2023-12-20"),
		To:        date("2024-01-15"),
		Now:       date("2024-01-15"),
		StaleDays: 14,
	})

	if len(agg.Stale) != 2 {
		t.Fatalf("Stale = %d, want 2", len(agg.Stale))
	}
	for _, task := range agg.Stale {
		if task.Text == "fresh" {
			t.Error("fresh task marked stale")
		}
	}
}

func TestAggregateStaleDisabled(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2023-01-01"), "- [ ] ancient\n")

	agg := aggregateTasks(vault, AggregateOptions{
		Period:    PeriodDay,
		From:      date("2023-01-01"),
		To:        date("2024-01-15"),
		Now:       date("2024-01-15"),
		StaleDays: 0,
	})

	if len(agg.Stale) != 0 {
		t.Errorf("Stale = %d, want 0 when staleDays is 0", len(agg.Stale))
	}
}

func TestAggregateByPriorityOpenOnly(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-14"), ""+
		"- [ ] urgent priority:high\n"+
		"- [ ] normal priority:medium\n"+
		"- [ ] someday priority:low\n"+
		"- [ ] plain\n"+
		"- [x] done priority:high\n")

	agg := aggregateTasks(vault, AggregateOptions{
		Period: PeriodDay,
		From:   date("2024-01-14"),
		To:     date("2024-01-15"),
		Now:    date("2024-01-15"),
	})

	counts := map[string]int{
		PriorityHigh:   1,
		PriorityMedium: 1,
		PriorityLow:    1,
		PriorityNone:   1,
	}
	for priority, want := range counts {
		if got := len(agg.ByPriority[priority]); got != want {
			t.Errorf("ByPriority[%s] = %d, want %d", priority, got, want)
		}
	}

	for _, task := range agg.ByPriority[PriorityHigh] {
		if task.Completed {
			t.Errorf("completed task %q in priority bucket", task.Text)
		}
	}
}

func TestAggregateOrderMostRecentFirst(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-10"), "- [ ] oldest\n")
	vault.addNote(date("2024-01-12"), "- [ ] middle one\n- [ ] middle two\n")
	vault.addNote(date("2024-01-14"), "- [ ] newest\n")

	agg := aggregateTasks(vault, AggregateOptions{
		Period: PeriodDay,
		From:   date("2024-01-10"),
		To:     date("2024-01-15"),
		Now:    date("2024-01-15"),
	})

	want := []string{"newest", "middle one", "middle two", "oldest"}
	if len(agg.Open) != len(want) {
		t.Fatalf("Open = %d tasks, want %d", len(agg.Open), len(want))
	}
	for i, text := range want {
		if agg.Open[i].Text != text {
			t.Errorf("Open[%d].Text = %q, want %q", i, agg.Open[i].Text, text)
		}
	}
}

func TestAggregateSkipsUnreadableNotes(t *testing.T) {
	vault := newFakeVault()
	vault.addNote(date("2024-01-10"), "- [ ] readable\n")
	bad := vault.addNote(date("2024-01-11"), "- [ ] unreachable\n")
	vault.failReads[bad] = true

	agg := aggregateTasks(vault, AggregateOptions{
		Period: PeriodDay,
		From:   date("2024-01-10"),
		To:     date("2024-01-15"),
		Now:    date("2024-01-15"),
	})

	if len(agg.Open) != 1 {
		t.Fatalf("Open = %d, want 1", len(agg.Open))
	}
	if agg.Open[0].Text != "readable" {
		t.Errorf("Open[0].Text = %q", agg.Open[0].Text)
	}
}

func TestAggregateUsesCache(t *testing.T) {
	vault := newFileVault(t.TempDir(), defaultPeriodConfigs())
	rel := vault.NotePath(PeriodDay, date("2024-01-14"))
	if err := vault.Write(rel, "- [ ] from disk\n"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Seed the cache with different tasks for the same, unmodified file; the
	// aggregation must prefer the cached parse.
	cache := NewNoteCache()
	cache.Set(vault.Abs(rel), parseTasks("- [ ] from cache\n", date("2024-01-15")))

	agg := aggregateTasks(vault, AggregateOptions{
		Period: PeriodDay,
		From:   date("2024-01-14"),
		To:     date("2024-01-15"),
		Now:    date("2024-01-15"),
		Cache:  cache,
	})

	if len(agg.Open) != 1 || agg.Open[0].Text != "from cache" {
		t.Fatalf("cache was not consulted: %+v", agg.Open)
	}
}
