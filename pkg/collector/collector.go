// Package collector turns ProcessStat/SystemStat snapshots into reported
// metric values: it tracks the raw reading, the min/max seen since the
// metric was last reported, and the per-mille ratio aggregation, then
// resets the min/max window each time a value is actually reported.
package collector

import (
	"github.com/oprsmon/oprs/pkg/metric"
	"github.com/oprsmon/oprs/pkg/procfs"
)

type trackerKey struct {
	pid int
	id  metric.ID
}

type tracker struct {
	raw       int64
	min, max  int64
	prevRaw   int64
	havePrev  bool
}

// Reported is one fully computed, display-ready metric value.
type Reported struct {
	ID        metric.ID
	Agg       metric.Aggregation
	Value     int64
	Formatted string
}

// Collector accumulates per-pid, per-metric tracking state across sample
// ticks and renders it into Reported values on demand.
type Collector struct {
	trackers map[trackerKey]*tracker

	cpuHistory [2]uint64 // most recent system total CPU-time ms, oldest first
	cpuFilled  int
	sysStat    procfs.SystemStat
}

// New builds an empty Collector.
func New() *Collector {
	return &Collector{trackers: make(map[trackerKey]*tracker)}
}

// UpdateSystem records a new system-wide reading, pushing the CPU-time
// history window used by the CPU-time family's ratio aggregation.
func (c *Collector) UpdateSystem(sys procfs.SystemStat) {
	c.sysStat = sys
	if c.cpuFilled < 2 {
		c.cpuHistory[c.cpuFilled] = sys.TotalTimeMs
		c.cpuFilled++
		return
	}
	c.cpuHistory[0] = c.cpuHistory[1]
	c.cpuHistory[1] = sys.TotalTimeMs
}

// Update folds one process's new sample into every metric's tracker state:
// the raw value is replaced and the min/max-since-last-report window is
// extended.
func (c *Collector) Update(pid int, stat procfs.ProcessStat, ids []metric.ID) {
	for _, id := range ids {
		v := rawValue(id, stat)
		k := trackerKey{pid, id}
		t, ok := c.trackers[k]
		if !ok {
			t = &tracker{min: v, max: v}
			c.trackers[k] = t
		}
		if v < t.min {
			t.min = v
		}
		if v > t.max {
			t.max = v
		}
		t.prevRaw, t.havePrev = t.raw, ok
		t.raw = v
	}
}

// Forget drops every tracker for pid, called once its forest node is
// removed so a reused pid starts from a clean slate.
func (c *Collector) Forget(pid int) {
	for k := range c.trackers {
		if k.pid == pid {
			delete(c.trackers, k)
		}
	}
}

// Report computes and formats every requested metric/aggregation pair for
// pid, then resets each reported metric's min/max window to its current
// raw value (the "since the previous report" semantics).
func (c *Collector) Report(pid int, parsed []metric.Parsed) []Reported {
	out := make([]Reported, 0, len(parsed))
	for _, p := range parsed {
		k := trackerKey{pid, p.ID}
		t := c.trackers[k]
		if t == nil {
			continue
		}
		for _, agg := range p.Aggregations.Ordered() {
			value := c.aggregate(p.ID, agg, t)
			formatted := p.Formatter(value)
			if agg == metric.AggRatio {
				formatted = metric.RatioFormatter(value)
			}
			out = append(out, Reported{ID: p.ID, Agg: agg, Value: value, Formatted: formatted})
		}
		t.min, t.max = t.raw, t.raw
	}
	return out
}

func (c *Collector) aggregate(id metric.ID, agg metric.Aggregation, t *tracker) int64 {
	switch agg {
	case metric.AggMin:
		return t.min
	case metric.AggMax:
		return t.max
	case metric.AggRatio:
		return c.ratio(id, t)
	default:
		return t.raw
	}
}

// ratio computes the per-mille rate of change for id. CPU-time metrics are
// rated against the system-wide CPU-time delta over the last two ticks;
// everything else is rated against its own raw value divided by a
// system-wide denominator for the same sample, when one is defined.
func (c *Collector) ratio(id metric.ID, t *tracker) int64 {
	if id.IsCPUTime() {
		if c.cpuFilled < 2 {
			return 0
		}
		sysDelta := c.cpuHistory[1] - c.cpuHistory[0]
		if sysDelta == 0 {
			return 0
		}
		if !t.havePrev || t.raw < t.prevRaw {
			return 0
		}
		delta := t.raw - t.prevRaw
		return int64(delta) * metric.PercentFactor / int64(sysDelta)
	}

	denom, ok := systemValue(id, c.sysStat)
	if !ok || denom == 0 {
		return 0
	}
	return t.raw * metric.PercentFactor / denom
}
