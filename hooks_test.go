package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunHookReceivesNotePath(t *testing.T) {
	tmp := t.TempDir()
	marker := filepath.Join(tmp, "marker")

	hooks := map[string]string{
		HookPostToggle: "echo >" + marker + " hooked",
	}

	var errOut bytes.Buffer
	runHook(hooks, HookPostToggle, filepath.Join(tmp, "it's a note.md"), &errOut)

	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("hook did not run: %v", err)
	}
	if !strings.Contains(string(data), "hooked") {
		t.Errorf("marker content = %q", data)
	}
	if !strings.Contains(string(data), "it's a note.md") {
		t.Errorf("hook did not receive the quoted note path: %q", data)
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr: %s", errOut.String())
	}
}

func TestRunHookFailureIsReported(t *testing.T) {
	var errOut bytes.Buffer
	runHook(map[string]string{HookPostAdd: "exit 3"}, HookPostAdd, "note.md", &errOut)

	if !strings.Contains(errOut.String(), HookPostAdd) {
		t.Errorf("stderr should name the failing hook, got %q", errOut.String())
	}
}

func TestRunHookUnconfigured(t *testing.T) {
	var errOut bytes.Buffer
	runHook(nil, HookPostRollover, "note.md", &errOut)
	runHook(map[string]string{}, HookPostRollover, "note.md", &errOut)

	if errOut.Len() != 0 {
		t.Errorf("unconfigured hooks must be silent, got %q", errOut.String())
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "plain.md", want: "'plain.md'"},
		{input: "with space.md", want: "'with space.md'"},
		{input: "it's.md", want: `'it'\''s.md'`},
	}

	for _, tt := range tests {
		if got := shellQuote(tt.input); got != tt.want {
			t.Errorf("shellQuote(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
