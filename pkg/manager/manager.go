// Package manager drives one sampling tick end to end: resolving the
// configured targets (or walking the process forest) to a set of live
// pids, reading their procfs state, and folding the readings into a
// Collector.
package manager

import (
	"github.com/oprsmon/oprs/pkg/collector"
	"github.com/oprsmon/oprs/pkg/metric"
	"github.com/oprsmon/oprs/pkg/procfs"
)

// Filter selects which part of the process forest a ForestManager
// traverses each tick.
type Filter int

const (
	// FilterNone accepts every process, including kernel threads.
	FilterNone Filter = iota
	// FilterUserLand rejects kernel threads (no virtual memory).
	FilterUserLand
	// FilterActive additionally requires the process to have been
	// scheduled recently (idleness below InactivityThreshold).
	FilterActive
)

// InactivityThreshold is the number of consecutive idle ticks (no CPU time
// change) after which FilterActive stops reporting a process. Not
// interval-aware by design, carried forward from the original's own
// documented simplification.
const InactivityThreshold = 5

// Row is one sampled process (or the synthetic system row) ready for
// rendering or export.
type Row struct {
	Pid      int
	IsSystem bool
	Name     string
	Depth    int // tree depth, always 0 for the flat manager and the system row
	Values   []collector.Reported
}

// RowPid returns the row's pid, or 0 for the system row (which has no
// process identity to select, mark or search on).
func (r Row) RowPid() int {
	if r.IsSystem {
		return 0
	}
	return r.Pid
}

// RowName returns the row's display name, for search matching.
func (r Row) RowName() string { return r.Name }

// Manager is the common interface both process managers implement: one
// Refresh+Collect tick, producing the rows for this sampling interval.
type Manager interface {
	Refresh() (changed bool, err error)
	Collect(parsed []metric.Parsed) []Row
}

func isKernelThread(stat procfs.ProcessStat) bool {
	return stat.VmSize == 0
}
