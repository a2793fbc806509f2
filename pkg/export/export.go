// Package export writes each sampling tick's rows to a long-term
// destination: per-pid CSV/TSV files, or an rrdtool round-robin database.
package export

import (
	"time"

	"github.com/oprsmon/oprs/pkg/manager"
	"github.com/oprsmon/oprs/pkg/metric"
)

// Exporter is implemented by every export back-end. Open is called once,
// after the metric list is known but before the first tick; Export once
// per tick; Close once on shutdown.
type Exporter interface {
	Open(metrics []metric.Parsed) error
	Export(rows []manager.Row, timestamp time.Time) error
	Close() error
}

// forEachComputedMetric visits every (id, aggregation) pair a set of parsed
// metrics expands to, in declaration order — the same flattened sequence
// the collector reports values in, and the order CSV/RRD column headers
// must follow to line up with it.
func forEachComputedMetric(parsed []metric.Parsed, visit func(id metric.ID, agg metric.Aggregation)) {
	for _, p := range parsed {
		for _, agg := range p.Aggregations.Ordered() {
			visit(p.ID, agg)
		}
	}
}
