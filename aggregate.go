package main

import (
	"sort"
	"sync"
	"time"
)

// AggregateOptions controls one aggregation scan
type AggregateOptions struct {
	Period    PeriodType
	From      time.Time
	To        time.Time
	Now       time.Time  // reference "today" for overdue/stale
	StaleDays int        // open tasks older than this are stale
	Cache     *NoteCache // optional parse cache, keyed by absolute path
}

// AggregatedTasks classifies a window of tasks into overlapping views.
// A task can appear in several buckets; these are views, not a partition.
type AggregatedTasks struct {
	Open       []TaskWithSource
	Completed  []TaskWithSource
	Overdue    []TaskWithSource
	Stale      []TaskWithSource
	ByPriority map[string][]TaskWithSource
}

// PriorityNone buckets open tasks without priority metadata
const PriorityNone = "none"

// aggregateTasks scans every note in the window and folds the parsed tasks
// into classified buckets. Unreadable notes are skipped; a long-lived vault
// is expected to have holes. Notes are read concurrently but the result is
// ordered by note date, most recent first, regardless of completion order.
func aggregateTasks(src NoteSource, opts AggregateOptions) AggregatedTasks {
	refs := src.NotesInRange(opts.Period, opts.From, opts.To)

	perNote := make([][]TaskWithSource, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref NoteRef) {
			defer wg.Done()
			perNote[i] = readNoteTasks(src, ref, opts.Now, opts.Cache)
		}(i, ref)
	}
	wg.Wait()

	// refs come back oldest first; flip to most-recent-first and keep
	// line order within each note
	var all []TaskWithSource
	for i := len(perNote) - 1; i >= 0; i-- {
		all = append(all, perNote[i]...)
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].SourceDate.After(all[b].SourceDate)
	})

	return classify(all, opts.Now, opts.StaleDays)
}

// readNoteTasks parses one note into sourced tasks, consulting the cache
// when one is provided. Read or parse problems yield no tasks.
func readNoteTasks(src NoteSource, ref NoteRef, now time.Time, cache *NoteCache) []TaskWithSource {
	abs := src.Abs(ref.Path)

	var tasks []*Task
	if cache != nil {
		if cached, ok := cache.Get(abs); ok {
			tasks = cached
		}
	}

	if tasks == nil {
		content, err := src.Read(ref.Path)
		if err != nil {
			return nil
		}
		tasks = parseTasks(content, now)
		if cache != nil {
			cache.Set(abs, tasks)
		}
	}

	sourced := make([]TaskWithSource, 0, len(tasks))
	for _, task := range tasks {
		sourced = append(sourced, TaskWithSource{
			Task:       task,
			SourcePath: ref.Path,
			SourceDate: ref.Date,
		})
	}
	return sourced
}

// classify folds sourced tasks into the aggregate buckets
func classify(all []TaskWithSource, now time.Time, staleDays int) AggregatedTasks {
	agg := AggregatedTasks{
		ByPriority: map[string][]TaskWithSource{
			PriorityHigh:   nil,
			PriorityMedium: nil,
			PriorityLow:    nil,
			PriorityNone:   nil,
		},
	}

	today := startOfDay(now)

	for _, task := range all {
		if task.Completed {
			agg.Completed = append(agg.Completed, task)
			continue
		}

		agg.Open = append(agg.Open, task)

		if task.Metadata.Due != nil && startOfDay(*task.Metadata.Due).Before(today) {
			agg.Overdue = append(agg.Overdue, task)
		}

		if staleDays > 0 && task.effectiveAge(now) > staleDays {
			agg.Stale = append(agg.Stale, task)
		}

		priority := task.Metadata.Priority
		if priority == "" {
			priority = PriorityNone
		}
		agg.ByPriority[priority] = append(agg.ByPriority[priority], task)
	}

	return agg
}
