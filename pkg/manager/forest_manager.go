package manager

import (
	"github.com/oprsmon/oprs/pkg/collector"
	"github.com/oprsmon/oprs/pkg/metric"
	"github.com/oprsmon/oprs/pkg/procfs"
	"github.com/oprsmon/oprs/pkg/process"
	"github.com/oprsmon/oprs/pkg/sysconf"
)

// ForestManager samples an entire process tree (or the subtree rooted at
// one pid), applying a Filter to decide which processes are worth walking
// and reporting.
type ForestManager struct {
	cfg       sysconf.Config
	reader    *procfs.Reader
	forest    *process.Forest
	collector *collector.Collector

	filter  Filter
	rootPid int // 0 means "every root"

	idleCPU map[int]uint64 // last total cpu-time ms seen per pid, for idleness tracking
	idle    map[int]int    // consecutive idle ticks per pid
}

// NewForestManager builds a ForestManager that samples rooted at rootPid
// (0 for every tree root) under the given filter.
func NewForestManager(cfg sysconf.Config, filter Filter, rootPid int) *ForestManager {
	reader := procfs.NewReader(cfg)
	return &ForestManager{
		cfg:       cfg,
		reader:    reader,
		forest:    process.NewForest(reader),
		collector: collector.New(),
		filter:    filter,
		rootPid:   rootPid,
		idleCPU:   make(map[int]uint64),
		idle:      make(map[int]int),
	}
}

// Refresh re-reads the system stat and the whole process forest.
func (m *ForestManager) Refresh() (bool, error) {
	sys, err := procfs.ReadSystemStat(m.cfg)
	if err != nil {
		return false, err
	}
	m.collector.UpdateSystem(sys)

	classify := func(info process.Info) bool {
		if m.filter == FilterNone {
			return true
		}
		return !isKernelThread(info.Stat)
	}
	return m.forest.Refresh(classify)
}

// Collect walks the selected subtree (or every root) and returns one Row
// per process that passes hidden/idleness filtering, in tree order.
func (m *ForestManager) Collect(parsed []metric.Parsed) []Row {
	ids := make([]metric.ID, len(parsed))
	for i, p := range parsed {
		ids[i] = p.ID
	}

	var rows []Row
	seen := make(map[int]bool)

	visit := func(id process.NodeID, depth int) {
		info, ok := m.forest.Info(id)
		if !ok || !info.Visible {
			return
		}
		seen[info.Pid] = true

		cpuTotal := info.Stat.UTimeMs + info.Stat.STimeMs
		if last, tracked := m.idleCPU[info.Pid]; tracked && last == cpuTotal {
			m.idle[info.Pid]++
		} else {
			m.idle[info.Pid] = 0
		}
		m.idleCPU[info.Pid] = cpuTotal

		if m.filter == FilterActive && m.idle[info.Pid] >= InactivityThreshold {
			return
		}

		m.collector.Update(info.Pid, info.Stat, ids)
		rows = append(rows, Row{
			Pid:    info.Pid,
			Name:   info.DisplayName(),
			Depth:  depth,
			Values: m.collector.Report(info.Pid, parsed),
		})
	}

	if m.rootPid != 0 {
		if id, ok := m.forest.Lookup(m.rootPid); ok {
			walkFrom(m.forest, id, 0, visit)
		}
	} else {
		for _, root := range m.forest.Roots() {
			walkFrom(m.forest, root, 0, visit)
		}
	}

	for pid := range m.idleCPU {
		if !seen[pid] {
			delete(m.idleCPU, pid)
			delete(m.idle, pid)
			m.collector.Forget(pid)
		}
	}

	return rows
}

func walkFrom(f *process.Forest, id process.NodeID, depth int, visit func(process.NodeID, int)) {
	visit(id, depth)
	for _, child := range f.Children(id) {
		walkFrom(f, child, depth+1, visit)
	}
}
