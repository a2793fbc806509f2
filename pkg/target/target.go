// Package target resolves the user's -t/--target specs (a pid, a pid-file,
// a process name, or the literal "system") into the live processes a
// ProcessManager should sample on each tick.
package target

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oprsmon/oprs/pkg/process"
)

// Kind distinguishes the four ways a target can be specified.
type Kind int

const (
	KindPid Kind = iota
	KindPidFile
	KindProcessName
	KindSystem
)

// Target is one resolved or resolvable monitoring target.
type Target struct {
	Kind Kind
	Name string // display label: the literal spec string

	pid      int    // KindPid, KindPidFile (after the first successful read)
	path     string // KindPidFile
	procName string // KindProcessName
}

// Parse turns one -t/--target spec string into a Target. "system" (case
// sensitive, matching the original's literal keyword) selects the
// synthetic system row; anything parseable as a non-negative integer is a
// pid; a spec ending in ".pid" is treated as a pid-file path; anything
// else is a process-name match.
func Parse(spec string) (Target, error) {
	switch {
	case spec == "system":
		return Target{Kind: KindSystem, Name: spec}, nil
	case spec == "":
		return Target{}, fmt.Errorf("empty target spec")
	}
	if pid, err := strconv.Atoi(spec); err == nil {
		if pid < 0 {
			return Target{}, fmt.Errorf("target spec %q: pid must not be negative", spec)
		}
		return Target{Kind: KindPid, Name: spec, pid: pid}, nil
	}
	if strings.HasSuffix(spec, ".pid") {
		return Target{Kind: KindPidFile, Name: spec, path: spec}, nil
	}
	return Target{Kind: KindProcessName, Name: spec, procName: spec}, nil
}

// Pid resolves the target to a concrete pid against forest, re-reading a
// pid-file target's backing file every call (its contents may have
// changed since the last tick, attaching a new underlying process).
// ok is false when the target currently has no live pid.
func (t *Target) Pid(forest *process.Forest) (pid int, ok bool) {
	switch t.Kind {
	case KindPid:
		if _, alive := forest.Lookup(t.pid); !alive {
			return 0, false
		}
		return t.pid, true
	case KindPidFile:
		data, err := os.ReadFile(t.path)
		if err != nil {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			return 0, false
		}
		t.pid = n
		if _, alive := forest.Lookup(n); !alive {
			return 0, false
		}
		return n, true
	case KindProcessName:
		found := 0
		forest.Walk(func(id process.NodeID, _ int) {
			if found != 0 {
				return
			}
			if info, ok := forest.Info(id); ok && info.DisplayName() == t.procName {
				found = info.Pid
			}
		})
		if found == 0 {
			return 0, false
		}
		return found, true
	default:
		return 0, false
	}
}

// Container is an ordered list of resolved targets plus whether the
// synthetic "system" row was requested.
type Container struct {
	Targets     []Target
	WantsSystem bool
}

// NewContainer parses every spec in order, collecting the "system" target
// separately since it has no pid to track.
func NewContainer(specs []string) (*Container, error) {
	c := &Container{}
	for _, spec := range specs {
		t, err := Parse(spec)
		if err != nil {
			return nil, err
		}
		if t.Kind == KindSystem {
			c.WantsSystem = true
			continue
		}
		c.Targets = append(c.Targets, t)
	}
	return c, nil
}
