package main

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the YAML header of a note. Rollover defaults to true;
// a note can opt out of task rollover with `rollover: false`.
type Frontmatter struct {
	Title    string   `yaml:"title"`
	Tags     []string `yaml:"tags"`
	Rollover *bool    `yaml:"rollover"`
}

// RolloverEnabled reports whether tasks may be rolled out of this note
func (f Frontmatter) RolloverEnabled() bool {
	return f.Rollover == nil || *f.Rollover
}

// parseFrontmatter extracts the YAML frontmatter block and returns the
// remaining body. Notes without a frontmatter block, or with one that does
// not parse, yield a zero Frontmatter and the full content: frontmatter is
// metadata, never a reason to reject a note.
func parseFrontmatter(content string) (Frontmatter, string) {
	var fm Frontmatter

	lines := splitLines(content)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return fm, content
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return fm, content
	}

	block := strings.Join(lines[1:end], "\n")
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return Frontmatter{}, content
	}

	body := strings.Join(lines[end+1:], "\n")
	return fm, body
}
