package collector

import "github.com/oprsmon/oprs/pkg/metric"

// Trend is the direction a metric's raw value moved between two
// consecutive samples, used by the table renderer to draw an up/down/flat
// indicator next to a value.
type Trend int

const (
	TrendEqual Trend = iota
	TrendIncreased
	TrendDecreased
)

// alwaysEqual is the metric family that changes on essentially every tick
// (wall-clock and CPU time counters): showing a trend arrow for them would
// just flicker, so they always report TrendEqual regardless of their
// actual raw delta.
func alwaysEqual(id metric.ID) bool {
	switch id {
	case metric.TimeElapsed, metric.TimeCpu, metric.TimeSystem, metric.TimeUser:
		return true
	default:
		return false
	}
}

// TrackChange reports how a metric's raw value moved since the previous
// sample for pid. Only meaningful for the raw aggregation: min/max/ratio
// values don't have a comparable "previous" reading in the same sense.
func (c *Collector) TrackChange(pid int, id metric.ID) Trend {
	if alwaysEqual(id) {
		return TrendEqual
	}
	t, ok := c.trackers[trackerKey{pid, id}]
	if !ok || !t.havePrev {
		return TrendEqual
	}
	switch {
	case t.raw > t.prevRaw:
		return TrendIncreased
	case t.raw < t.prevRaw:
		return TrendDecreased
	default:
		return TrendEqual
	}
}
