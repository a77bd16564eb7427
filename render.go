package main

import (
	"github.com/charmbracelet/glamour"
)

const defaultTheme = "dracula"

// newNoteRenderer builds a terminal markdown renderer for `pn show`
func newNoteRenderer(theme string) (*glamour.TermRenderer, error) {
	if theme == "" {
		theme = defaultTheme
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(0),
	)
}

// renderNote renders note markdown for the terminal, falling back to the
// raw content when the renderer is unavailable.
func renderNote(content, theme string) string {
	r, err := newNoteRenderer(theme)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
