package manager

import (
	"github.com/oprsmon/oprs/pkg/collector"
	"github.com/oprsmon/oprs/pkg/metric"
	"github.com/oprsmon/oprs/pkg/procfs"
	"github.com/oprsmon/oprs/pkg/process"
	"github.com/oprsmon/oprs/pkg/sysconf"
	"github.com/oprsmon/oprs/pkg/target"
)

// FlatManager samples an explicitly enumerated list of targets (pids,
// pid-files, process names, and/or the synthetic "system" row) rather
// than walking a tree.
type FlatManager struct {
	cfg       sysconf.Config
	reader    *procfs.Reader
	forest    *process.Forest
	collector *collector.Collector
	targets   *target.Container

	lastSystem procfs.SystemStat
	live       map[int]bool
}

// NewFlatManager builds a FlatManager over the given target specs.
func NewFlatManager(cfg sysconf.Config, specs []string) (*FlatManager, error) {
	targets, err := target.NewContainer(specs)
	if err != nil {
		return nil, err
	}
	reader := procfs.NewReader(cfg)
	return &FlatManager{
		cfg:       cfg,
		reader:    reader,
		forest:    process.NewForest(reader),
		collector: collector.New(),
		targets:   targets,
		live:      make(map[int]bool),
	}, nil
}

// Refresh re-reads the system stat and rebuilds the forest (needed so
// process-name targets and pid liveness checks have something to walk),
// accepting every process regardless of kind.
func (m *FlatManager) Refresh() (bool, error) {
	sys, err := procfs.ReadSystemStat(m.cfg)
	if err != nil {
		return false, err
	}
	m.collector.UpdateSystem(sys)
	m.lastSystem = sys

	return m.forest.Refresh(func(process.Info) bool { return true })
}

// Collect resolves every target to its current pid (reconstructing
// pid-file targets whose file changed) and reports one Row per live
// target plus the system row if "system" was requested.
func (m *FlatManager) Collect(parsed []metric.Parsed) []Row {
	ids := make([]metric.ID, len(parsed))
	for i, p := range parsed {
		ids[i] = p.ID
	}

	var rows []Row
	stillLive := make(map[int]bool, len(m.targets.Targets))

	for i := range m.targets.Targets {
		t := &m.targets.Targets[i]
		pid, ok := t.Pid(m.forest)
		if !ok {
			continue
		}
		info, ok := m.forest.Info(nodeFor(m.forest, pid))
		if !ok {
			continue
		}
		stillLive[pid] = true
		m.collector.Update(pid, info.Stat, ids)
		rows = append(rows, Row{
			Pid:    pid,
			Name:   info.DisplayName(),
			Values: m.collector.Report(pid, parsed),
		})
	}

	for pid := range m.live {
		if !stillLive[pid] {
			m.collector.Forget(pid)
		}
	}
	m.live = stillLive

	if m.targets.WantsSystem {
		rows = append(rows, Row{IsSystem: true, Name: "system", Values: m.systemRow(parsed)})
	}

	return rows
}

func nodeFor(f *process.Forest, pid int) process.NodeID {
	id, _ := f.Lookup(pid)
	return id
}

// systemRow formats the machine-wide metrics directly from the last system
// stat reading rather than through the per-pid Collector, since the
// system row has no process identity to key tracker state on.
func (m *FlatManager) systemRow(parsed []metric.Parsed) []collector.Reported {
	out := make([]collector.Reported, 0, len(parsed))
	for _, p := range parsed {
		v := systemRowValue(p.ID, m.lastSystem)
		for _, agg := range p.Aggregations.Ordered() {
			if agg != metric.AggNone {
				continue // min/max/ratio aren't meaningful for a single instantaneous system reading
			}
			out = append(out, collector.Reported{ID: p.ID, Agg: agg, Value: v, Formatted: p.Formatter(v)})
		}
	}
	return out
}

func systemRowValue(id metric.ID, sys procfs.SystemStat) int64 {
	switch id {
	case metric.TimeCpu, metric.TimeSystem, metric.TimeUser, metric.TimeElapsed:
		return int64(sys.TotalTimeMs)
	case metric.MemRss, metric.MemVm, metric.MemData, metric.MemText:
		return int64(sys.MemTotalBytes)
	case metric.ThreadCount:
		return int64(sys.CPUCount)
	default:
		return 0
	}
}
