package main

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Hook names a profile can configure under [profiles.<name>.hooks]
const (
	HookPostToggle   = "post_toggle"
	HookPostAdd      = "post_add"
	HookPostRollover = "post_rollover"
)

// runHook executes a configured shell hook with the affected note path as
// its argument. Hooks are observers: a failing hook is reported on errOut
// and never fails the operation that triggered it.
func runHook(hooks map[string]string, name, notePath string, errOut io.Writer) {
	command, ok := hooks[name]
	if !ok || command == "" {
		return
	}

	cmd := exec.Command("sh", "-c", command+" "+shellQuote(notePath))
	if out, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(errOut, "hook %s failed: %v\n%s", name, err, out)
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
