package procfs

import (
	"os"
	"strings"
)

// ReadEnviron returns one pid's environment as "KEY=VALUE" strings, in
// /proc/[pid]/environ's on-disk order. It is read on demand rather than as
// part of ProcessStat since no metric ever needs it — only the
// Environment detail pane does.
func ReadEnviron(pid int) ([]string, error) {
	data, err := os.ReadFile(procPath(pid, "environ"))
	if err != nil {
		return nil, ErrNoSuchProcess
	}
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// ReadLimits returns the raw text of /proc/[pid]/limits: the kernel already
// formats it as an aligned table, so the Limits detail pane can display it
// verbatim rather than re-parsing and re-rendering it.
func ReadLimits(pid int) (string, error) {
	data, err := os.ReadFile(procPath(pid, "limits"))
	if err != nil {
		return "", ErrNoSuchProcess
	}
	return string(data), nil
}
