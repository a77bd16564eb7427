package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

func usage(out io.Writer, cfgPath string) {
	fmt.Fprintln(out, "Usage: pn [--profile <name>] [--vault <path>] <command> [options]")
	fmt.Fprintln(out, "\nCommands:")
	fmt.Fprintln(out, "  tasks      List tasks from a window of periodic notes")
	fmt.Fprintln(out, "  rollover   Migrate incomplete tasks into the target note")
	fmt.Fprintln(out, "  toggle     Flip a task's checkbox by address (path:line)")
	fmt.Fprintln(out, "  add        Append a new task to a periodic note")
	fmt.Fprintln(out, "  meta       Update a task's metadata by address")
	fmt.Fprintln(out, "  show       Render a periodic note in the terminal")
	fmt.Fprintln(out, "  new        Create a periodic note from its template")
	fmt.Fprintln(out, "\nDate values: today, tomorrow, yesterday, weekday names, +N/-N, or YYYY-MM-DD")
	if cfgPath != "" {
		fmt.Fprintln(out, "\nConfig:")
		fmt.Fprintf(out, "  %s\n", cfgPath)
		fmt.Fprintln(out, "  Define profiles with vault/periods and set default_profile to skip flags.")
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now()))
}

// run is the real entry point; main only binds it to the process
func run(args []string, out, errOut io.Writer, now time.Time) int {
	globals := flag.NewFlagSet("pn", flag.ContinueOnError)
	globals.SetOutput(errOut)
	vaultFlag := globals.String("vault", "", "Path to the note vault (overrides profile)")
	profileFlag := globals.String("profile", "", "Profile name from config")

	if err := globals.Parse(args); err != nil {
		return 2
	}

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		fmt.Fprintf(errOut, "Error loading config: %v\n", err)
		return 1
	}

	rest := globals.Args()
	if len(rest) == 0 {
		usage(errOut, cfgPath)
		return 2
	}

	rp, err := buildProfile(*profileFlag, *vaultFlag, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	src := newFileVault(rp.VaultPath, rp.Periods)

	command, cmdArgs := rest[0], rest[1:]
	switch command {
	case "tasks":
		return cmdTasks(src, rp, cmdArgs, out, errOut, now)
	case "rollover":
		return cmdRollover(src, rp, cmdArgs, out, errOut, now)
	case "toggle":
		return cmdToggle(src, rp, cmdArgs, out, errOut)
	case "add":
		return cmdAdd(src, rp, cmdArgs, out, errOut, now)
	case "meta":
		return cmdMeta(src, rp, cmdArgs, out, errOut, now)
	case "show":
		return cmdShow(src, cfg.Theme, cmdArgs, out, errOut, now)
	case "new":
		return cmdNew(src, rp, cmdArgs, out, errOut, now)
	case "help":
		usage(out, cfgPath)
		return 0
	default:
		fmt.Fprintf(errOut, "Unknown command %q\n\n", command)
		usage(errOut, cfgPath)
		return 2
	}
}

// buildProfile resolves the active profile, letting --vault stand in for a
// config when none is set up yet.
func buildProfile(profileFlag, vaultFlag string, cfg Config) (*ResolvedProfile, error) {
	name, profile, err := selectProfile(profileFlag, cfg)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		if vaultFlag == "" {
			return nil, errors.New("no vault: pass --vault or configure a profile")
		}
		profile = &Profile{Vault: vaultFlag}
		name = "(flags)"
	} else if vaultFlag != "" {
		profile.Vault = vaultFlag
	}

	return resolveProfile(name, *profile)
}

// parseDateFlag resolves a --date style flag, defaulting to today
func parseDateFlag(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return startOfDay(now), nil
	}
	date, ok := parseDateToken(value, now)
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}
	return date, nil
}

func parsePeriodFlag(value string) (PeriodType, error) {
	if value == "" {
		return PeriodDay, nil
	}
	return parsePeriodType(value)
}

func cmdTasks(src NoteSource, rp *ResolvedProfile, args []string, out, errOut io.Writer, now time.Time) int {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(errOut)
	days := fs.Int("days", 0, "Days back to scan (default: rollover_days)")
	fromFlag := fs.String("from", "", "Window start date")
	toFlag := fs.String("to", "", "Window end date (default: today)")
	periodFlag := fs.String("type", "", "Period type (day, week, month, quarter, year)")
	view := fs.String("view", "open", "View: open, completed, overdue, stale, priority, all")
	interactive := fs.Bool("i", false, "Interactive mode")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	period, err := parsePeriodFlag(*periodFlag)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	to, err := parseDateFlag(*toFlag, now)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	var from time.Time
	if *fromFlag != "" {
		from, err = parseDateFlag(*fromFlag, now)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return 1
		}
	} else {
		back := *days
		if back <= 0 {
			back = rp.RolloverDays
		}
		from = to.AddDate(0, 0, -back)
	}

	opts := AggregateOptions{
		Period:    period,
		From:      from,
		To:        to,
		Now:       now,
		StaleDays: rp.StaleDays,
		Cache:     NewNoteCache(),
	}

	if *interactive {
		if err := runTUI(src, opts, rp, now); err != nil {
			fmt.Fprintf(errOut, "Error running TUI: %v\n", err)
			return 1
		}
		return 0
	}

	agg := aggregateTasks(src, opts)

	switch taskView(*view) {
	case viewOpen:
		printTaskList(out, "Open", agg.Open, src, now)
	case viewCompleted:
		printTaskList(out, "Completed", agg.Completed, src, now)
	case viewOverdue:
		printTaskList(out, "Overdue", agg.Overdue, src, now)
	case viewStale:
		printTaskList(out, "Stale", agg.Stale, src, now)
	case viewPriority:
		for _, p := range []string{PriorityHigh, PriorityMedium, PriorityLow, PriorityNone} {
			printTaskList(out, strings.ToUpper(p[:1])+p[1:], agg.ByPriority[p], src, now)
			fmt.Fprintln(out)
		}
	case "all":
		printTaskList(out, "Open", agg.Open, src, now)
		fmt.Fprintln(out)
		printTaskList(out, "Overdue", agg.Overdue, src, now)
		fmt.Fprintln(out)
		printTaskList(out, "Stale", agg.Stale, src, now)
		fmt.Fprintln(out)
		printTaskList(out, "Completed", agg.Completed, src, now)
	default:
		fmt.Fprintf(errOut, "Unknown view %q\n", *view)
		return 2
	}

	return 0
}

func cmdRollover(src NoteSource, rp *ResolvedProfile, args []string, out, errOut io.Writer, now time.Time) int {
	fs := flag.NewFlagSet("rollover", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dateFlag := fs.String("date", "", "Target date (default: today)")
	days := fs.Int("days", 0, "Days back to scan (default: rollover_days)")
	periodFlag := fs.String("type", "", "Period type")
	dryRun := fs.Bool("dry-run", false, "Report what would move without writing")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	period, err := parsePeriodFlag(*periodFlag)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	target, err := parseDateFlag(*dateFlag, now)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	back := *days
	if back <= 0 {
		back = rp.RolloverDays
	}

	if !*dryRun {
		if _, _, err := ensureNote(src, rp.Templates, period, target); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return 1
		}
	}

	result, err := rolloverTasks(src, RolloverOptions{
		Period:         period,
		TargetDate:     target,
		SourceDaysBack: back,
		TaskSection:    rp.TaskSection,
		DryRun:         *dryRun,
		Now:            now,
	})
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	printRolloverResult(out, result, *dryRun)

	if !*dryRun && len(result.RolledOver) > 0 {
		runHook(rp.Hooks, HookPostRollover, src.Abs(result.TargetNotePath), errOut)
	}

	return 0
}

func cmdToggle(src NoteSource, rp *ResolvedProfile, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("toggle", flag.ContinueOnError)
	fs.SetOutput(errOut)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "Usage: pn toggle <path:line>")
		return 2
	}

	addr, err := parseAddress(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	line, err := toggleTask(src, addr)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, okStyle.Render("toggled ")+line)
	runHook(rp.Hooks, HookPostToggle, src.Abs(addr.Path), errOut)
	return 0
}

func cmdAdd(src NoteSource, rp *ResolvedProfile, args []string, out, errOut io.Writer, now time.Time) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dateFlag := fs.String("date", "", "Note date (default: today)")
	periodFlag := fs.String("type", "", "Period type")
	dueFlag := fs.String("due", "", "Due date")
	priorityFlag := fs.String("priority", "", "Priority: high, medium, low")
	tagsFlag := fs.String("tags", "", "Comma-separated tags")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(errOut, "Usage: pn add [options] <task text>")
		return 2
	}

	period, err := parsePeriodFlag(*periodFlag)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	date, err := parseDateFlag(*dateFlag, now)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	nt := NewTask{Text: strings.Join(fs.Args(), " ")}

	if *dueFlag != "" {
		due, ok := parseDateToken(*dueFlag, now)
		if !ok {
			fmt.Fprintf(errOut, "Error: unrecognized due date %q\n", *dueFlag)
			return 1
		}
		nt.Due = &due
	}

	if *priorityFlag != "" {
		p := strings.ToLower(*priorityFlag)
		if p != PriorityHigh && p != PriorityMedium && p != PriorityLow {
			fmt.Fprintf(errOut, "Error: unknown priority %q\n", *priorityFlag)
			return 1
		}
		nt.Priority = p
	}

	for _, tag := range strings.Split(*tagsFlag, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			nt.Tags = append(nt.Tags, tag)
		}
	}

	rel, _, err := ensureNote(src, rp.Templates, period, date)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	addr, err := addTask(src, rel, nt, rp.TaskSection)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, okStyle.Render("added ")+addr.String())
	runHook(rp.Hooks, HookPostAdd, src.Abs(rel), errOut)
	return 0
}

func cmdMeta(src NoteSource, rp *ResolvedProfile, args []string, out, errOut io.Writer, now time.Time) int {
	fs := flag.NewFlagSet("meta", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dueFlag := fs.String("due", "", "Set due date")
	clearDue := fs.Bool("clear-due", false, "Remove due date")
	schedFlag := fs.String("scheduled", "", "Set scheduled date")
	clearSched := fs.Bool("clear-scheduled", false, "Remove scheduled date")
	priorityFlag := fs.String("priority", "", "Set priority")
	clearPriority := fs.Bool("clear-priority", false, "Remove priority")
	tagsFlag := fs.String("tags", "", "Comma-separated tags to add")
	clearTags := fs.Bool("clear-tags", false, "Remove all tags first")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "Usage: pn meta [options] <path:line>")
		return 2
	}

	addr, err := parseAddress(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	updates := MetadataUpdates{
		ClearDue:       *clearDue,
		ClearScheduled: *clearSched,
		ClearPriority:  *clearPriority,
		ClearTags:      *clearTags,
	}

	if *dueFlag != "" {
		due, ok := parseDateToken(*dueFlag, now)
		if !ok {
			fmt.Fprintf(errOut, "Error: unrecognized due date %q\n", *dueFlag)
			return 1
		}
		updates.Due = &due
	}

	if *schedFlag != "" {
		sched, ok := parseDateToken(*schedFlag, now)
		if !ok {
			fmt.Fprintf(errOut, "Error: unrecognized scheduled date %q\n", *schedFlag)
			return 1
		}
		updates.Scheduled = &sched
	}

	if *priorityFlag != "" {
		p := strings.ToLower(*priorityFlag)
		if p != PriorityHigh && p != PriorityMedium && p != PriorityLow {
			fmt.Fprintf(errOut, "Error: unknown priority %q\n", *priorityFlag)
			return 1
		}
		updates.Priority = p
	}

	for _, tag := range strings.Split(*tagsFlag, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			updates.AddTags = append(updates.AddTags, tag)
		}
	}

	line, err := updateMetadata(src, addr, updates, now)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, okStyle.Render("updated ")+line)
	return 0
}

func cmdShow(src NoteSource, theme string, args []string, out, errOut io.Writer, now time.Time) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dateFlag := fs.String("date", "", "Note date (default: today)")
	periodFlag := fs.String("type", "", "Period type")
	raw := fs.Bool("raw", false, "Print raw markdown without rendering")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	period, err := parsePeriodFlag(*periodFlag)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	date, err := parseDateFlag(*dateFlag, now)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	rel := src.NotePath(period, date)
	content, err := src.Read(rel)
	if err != nil {
		fmt.Fprintf(errOut, "Error: no note at %s\n", rel)
		return 1
	}

	if *raw {
		fmt.Fprint(out, content)
		return 0
	}

	fm, body := parseFrontmatter(content)
	if fm.Title != "" || len(fm.Tags) > 0 {
		header := titleStyle.Render(fm.Title)
		for _, tag := range fm.Tags {
			header += " " + countStyle.Render("#"+tag)
		}
		fmt.Fprintln(out, strings.TrimSpace(header))
	}
	fmt.Fprint(out, renderNote(body, theme))
	return 0
}

func cmdNew(src NoteSource, rp *ResolvedProfile, args []string, out, errOut io.Writer, now time.Time) int {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dateFlag := fs.String("date", "", "Note date (default: today)")
	periodFlag := fs.String("type", "", "Period type")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	period, err := parsePeriodFlag(*periodFlag)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	date, err := parseDateFlag(*dateFlag, now)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	rel, created, err := ensureNote(src, rp.Templates, period, date)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	if created {
		fmt.Fprintln(out, okStyle.Render("created ")+rel)
	} else {
		fmt.Fprintln(out, rel+" already exists")
	}
	return 0
}
