package metric

// Aggregation is one of the ways a raw metric sample can be reduced across
// the sampling window. The four kinds pack into a single byte so a metric
// spec like "mem:rss+min+max" can carry its requested set as one bitmask.
type Aggregation uint8

const (
	// AggNone reports the raw, most recently sampled value.
	AggNone Aggregation = 1 << iota
	// AggMin reports the minimum value seen since the previous report.
	AggMin
	// AggMax reports the maximum value seen since the previous report.
	AggMax
	// AggRatio reports a per-mille rate of change, computed against either
	// the system CPU-time delta (for the CPU-time metrics) or against the
	// same metric's system-wide total at the same sample index.
	AggRatio
)

// PercentFactor is the fixed-point scale ratio aggregation is expressed in:
// a ratio of 1000 means 100.0%.
const PercentFactor = 1000

func (a Aggregation) String() string {
	switch a {
	case AggNone:
		return "raw"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggRatio:
		return "ratio"
	default:
		return "?"
	}
}

// Suffix is the column-name suffix applied to every aggregation except the
// raw reading, e.g. "io:read:call (min)".
func (a Aggregation) Suffix() string {
	if a == AggNone {
		return ""
	}
	return " (" + a.String() + ")"
}

// Set is an ordered, deduplicated collection of Aggregations requested for
// a single metric spec.
type Set struct {
	mask  uint8
	order []Aggregation
}

// NewSet builds a Set from an explicit ordered list, ignoring any duplicate.
func NewSet(aggs ...Aggregation) Set {
	var s Set
	for _, a := range aggs {
		s.Add(a)
	}
	return s
}

// Add appends agg to the set if it is not already present. Returns false if
// it was a duplicate.
func (s *Set) Add(agg Aggregation) bool {
	if s.mask&uint8(agg) != 0 {
		return false
	}
	s.mask |= uint8(agg)
	s.order = append(s.order, agg)
	return true
}

// Has reports whether agg was requested.
func (s Set) Has(agg Aggregation) bool { return s.mask&uint8(agg) != 0 }

// Ordered returns the requested aggregations in the order they were added.
func (s Set) Ordered() []Aggregation { return s.order }

// Empty reports whether no aggregation was requested (defaults to raw).
func (s Set) Empty() bool { return len(s.order) == 0 }
