package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWindowHeight = 24
	defaultWindowWidth  = 80
	reservedUILines     = 5 // title(1) + newline(1) + status(1) + help margin(1) + help(1)
	minVisibleHeight    = 3
	maxInputWidth       = 70
)

// tuiModel is the interactive task browser behind `pn tasks -i`
type tuiModel struct {
	src          NoteSource
	opts         AggregateOptions
	hooks        map[string]string
	taskSection  string
	targetNote   string // note new tasks are added to
	tasks        []TaskWithSource
	cursor       int
	adding       bool
	input        textinput.Model
	status       string
	err          error
	quitting     bool
	windowHeight int
	windowWidth  int
}

func newTUIModel(src NoteSource, opts AggregateOptions, hooks map[string]string, taskSection, targetNote string) tuiModel {
	input := textinput.New()
	input.Placeholder = "New task (metadata tokens welcome: due:… !! #tag)"
	input.CharLimit = 200
	input.Width = maxInputWidth

	m := tuiModel{
		src:          src,
		opts:         opts,
		hooks:        hooks,
		taskSection:  taskSection,
		targetNote:   targetNote,
		input:        input,
		windowHeight: defaultWindowHeight,
		windowWidth:  defaultWindowWidth,
	}
	m.refresh()
	return m
}

func (m tuiModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// invalidate drops a mutated note from the parse cache so the next refresh
// re-reads it even when the filesystem mtime has not ticked over.
func (m *tuiModel) invalidate(relPath string) {
	if m.opts.Cache != nil {
		m.opts.Cache.Invalidate(m.src.Abs(relPath))
	}
}

// refresh re-aggregates the window and rebuilds the open-task list
func (m *tuiModel) refresh() {
	agg := aggregateTasks(m.src, m.opts)
	m.tasks = agg.Open

	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowHeight = msg.Height
		m.windowWidth = msg.Width

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m tuiModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case "g":
		m.cursor = 0

	case "G":
		if len(m.tasks) > 0 {
			m.cursor = len(m.tasks) - 1
		}

	case "enter", " ", "x":
		if len(m.tasks) > 0 {
			task := m.tasks[m.cursor]
			addr := TaskAddress{Path: task.SourcePath, Line: task.Line, Fingerprint: lineFingerprint(task.Raw)}
			if _, err := toggleTask(m.src, addr); err != nil {
				m.err = err
			} else {
				m.status = fmt.Sprintf("toggled %s:%d", task.SourcePath, task.Line)
				runHook(m.hooks, HookPostToggle, m.src.Abs(task.SourcePath), os.Stderr)
				m.invalidate(task.SourcePath)
				m.refresh()
			}
		}

	case "a":
		m.adding = true
		m.input.SetValue("")
		return m, m.input.Focus()

	case "r":
		m.refresh()
		m.status = "refreshed"
	}

	return m, nil
}

func (m tuiModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()

		if text == "" {
			return m, nil
		}

		// Let the parser pick the metadata tokens out of the typed line
		meta := parseMetadata(text, m.opts.Now)
		nt := NewTask{
			Text:      cleanText(text),
			Due:       meta.Due,
			Scheduled: meta.Scheduled,
			Priority:  meta.Priority,
			Tags:      meta.Tags,
		}

		addr, err := addTask(m.src, m.targetNote, nt, m.taskSection)
		if err != nil {
			m.err = err
			return m, nil
		}

		m.status = "added " + addr.String()
		runHook(m.hooks, HookPostAdd, m.src.Abs(m.targetNote), os.Stderr)
		m.invalidate(m.targetNote)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder

	title := titleStyle.Render(fmt.Sprintf("pn - open tasks %s … %s",
		m.opts.From.Format("2006-01-02"), m.opts.To.Format("2006-01-02")))
	b.WriteString(title + "\n")

	if m.adding {
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter add • esc cancel"))
		return b.String()
	}

	if len(m.tasks) == 0 {
		b.WriteString("\nNo open tasks in this window.\n")
		b.WriteString(helpStyle.Render("a add • r refresh • q quit"))
		return b.String()
	}

	visibleHeight := m.windowHeight - reservedUILines
	if visibleHeight < minVisibleHeight {
		visibleHeight = minVisibleHeight
	}

	start := 0
	if m.cursor >= visibleHeight {
		start = m.cursor - visibleHeight + 1
	}
	end := start + visibleHeight
	if end > len(m.tasks) {
		end = len(m.tasks)
	}

	for i := start; i < end; i++ {
		task := m.tasks[i]

		cursor := "  "
		if m.cursor == i {
			cursor = cursorStyle.Render("> ")
		}

		line := fmt.Sprintf("[ ] %s", task.Text)
		if m.cursor == i {
			line = selectedStyle.Render(line)
		}

		info := fileStyle.Render(fmt.Sprintf(" (%s:%d)", task.SourcePath, task.Line))
		b.WriteString(cursor + line + info + "\n")
	}

	if m.status != "" {
		b.WriteString(countStyle.Render(m.status) + "\n")
	}

	help := "↑/k up • ↓/j down • space/enter toggle • a add • r refresh • q quit"
	if len(m.tasks) > visibleHeight {
		help += countStyle.Render(fmt.Sprintf("  [%d-%d of %d]", start+1, end, len(m.tasks)))
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// runTUI starts the interactive browser over the aggregate window. New
// tasks land in the current period's note, created on demand.
func runTUI(src NoteSource, opts AggregateOptions, rp *ResolvedProfile, now time.Time) error {
	targetNote, _, err := ensureNote(src, rp.Templates, opts.Period, startOfDay(now))
	if err != nil {
		return err
	}

	p := tea.NewProgram(newTUIModel(src, opts, rp.Hooks, rp.TaskSection, targetNote), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
