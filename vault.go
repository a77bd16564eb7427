package main

import (
	"os"
	"path/filepath"
	"time"
)

// NoteRef identifies one periodic note: its vault-relative path and the
// calendar date the note represents.
type NoteRef struct {
	Path string
	Date time.Time
}

// NoteSource is the capability the aggregation and rollover pipelines need
// from a vault. The file-backed implementation below is the real one; tests
// substitute an in-memory fake.
type NoteSource interface {
	// NotesInRange yields the notes of one period type whose date falls in
	// the inclusive range, oldest first.
	NotesInRange(p PeriodType, from, to time.Time) []NoteRef

	// Read returns a note's full content.
	Read(relPath string) (string, error)

	// Write replaces a note's full content.
	Write(relPath string, content string) error

	// Exists reports whether the note is present in the vault.
	Exists(relPath string) bool

	// Abs resolves a vault-relative path for display and caching.
	Abs(relPath string) string

	// NotePath returns the vault-relative path a period's note for the
	// given date would have, whether or not it exists yet.
	NotePath(p PeriodType, date time.Time) string
}

// fileVault is the filesystem-backed NoteSource
type fileVault struct {
	root    string
	periods map[PeriodType]PeriodConfig
}

func newFileVault(root string, periods map[PeriodType]PeriodConfig) *fileVault {
	return &fileVault{root: root, periods: periods}
}

func (v *fileVault) NotePath(p PeriodType, date time.Time) string {
	return notePathFor(v.periods[p], p, date)
}

func (v *fileVault) NotesInRange(p PeriodType, from, to time.Time) []NoteRef {
	var refs []NoteRef

	for _, date := range datesIn(p, from, to) {
		rel := v.NotePath(p, date)
		if v.Exists(rel) {
			refs = append(refs, NoteRef{Path: rel, Date: date})
		}
	}

	return refs
}

func (v *fileVault) Read(relPath string) (string, error) {
	data, err := os.ReadFile(v.Abs(relPath))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write replaces the note atomically via a temp file and rename, so a
// crashed write never leaves a half-written note behind.
func (v *fileVault) Write(relPath string, content string) error {
	abs := v.Abs(relPath)

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return err
	}

	tempPath := abs + ".tmp"
	if err := os.WriteFile(tempPath, []byte(content), 0644); err != nil {
		return err
	}

	return os.Rename(tempPath, abs)
}

func (v *fileVault) Exists(relPath string) bool {
	info, err := os.Stat(v.Abs(relPath))
	return err == nil && !info.IsDir()
}

func (v *fileVault) Abs(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(v.root, relPath)
}
