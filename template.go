package main

import (
	"fmt"
	"strings"
	"time"
)

// defaultTemplate is used when a profile configures no template for a
// period type. Placeholders: {{title}}, {{date}}, {{type}}.
const defaultTemplate = `---
title: "{{title}}"
---

# {{title}}

## Tasks

## Notes
`

// renderTemplate substitutes note placeholders into a template body
func renderTemplate(tmpl string, p PeriodType, date time.Time) string {
	r := strings.NewReplacer(
		"{{title}}", noteTitle(p, date),
		"{{date}}", date.Format("2006-01-02"),
		"{{type}}", string(p),
	)
	return r.Replace(tmpl)
}

// templateFor picks the configured template for a period type, falling
// back to the built-in one. Configured templates are vault-relative note
// paths; a missing or unreadable template file falls back too.
func templateFor(src NoteSource, templates map[string]string, p PeriodType) string {
	rel, ok := templates[string(p)]
	if !ok {
		return defaultTemplate
	}

	content, err := src.Read(rel)
	if err != nil {
		return defaultTemplate
	}
	return content
}

// ensureNote creates the periodic note for date if it does not exist yet,
// rendering it from the profile's template. Returns the note's
// vault-relative path and whether it was created by this call.
func ensureNote(src NoteSource, templates map[string]string, p PeriodType, date time.Time) (string, bool, error) {
	rel := src.NotePath(p, date)

	if src.Exists(rel) {
		return rel, false, nil
	}

	content := renderTemplate(templateFor(src, templates, p), p, date)
	if err := src.Write(rel, content); err != nil {
		return "", false, fmt.Errorf("create note %s: %w", rel, err)
	}

	return rel, true, nil
}
