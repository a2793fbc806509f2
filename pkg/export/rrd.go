package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/oprsmon/oprs/pkg/manager"
	"github.com/oprsmon/oprs/pkg/metric"
)

// colors is the fixed 12-color graph palette, consumed LIFO as pids start
// being tracked and returned to the bucket when a pid stops.
var colors = [12]uint32{
	0xfa8072, // salmon
	0xcab2d6, // light purple
	0xffff55, // yellow
	0xb2df8a, // light green
	0xfb9a99, // pink
	0xa6cee3, // light blue
	0xb15928, // maroon
	0x6a3d9a, // purple
	0xff7f00, // orange
	0x33a02c, // green
	0xe31a1c, // red
	0x1f78b4, // blue
}

type rrdProcess struct {
	name  string
	db    string
	color uint32
}

// RrdExporter feeds each tick's samples into one round-robin database per
// pid, via a single long-lived rrdtool subprocess, and optionally renders
// a PNG graph per metric after each update.
type RrdExporter struct {
	interval time.Duration
	rows     int
	period   time.Duration
	tool     *RrdTool
	graph    bool

	variables []string // ds names, in column order, one per non-skipped metric
	ds        []string // "DS:name:type:heartbeat:0:U" definitions
	skip      []bool   // parallel to the flattened (id,agg) sequence

	pids        map[int]*rrdProcess
	colorBucket []uint32
}

// NewRrdExporter starts the rrdtool subprocess rooted at cfg.Dir. interval
// must be a whole number of seconds, since rrdtool steps are integral.
func NewRrdExporter(cfg Config, interval time.Duration) (*RrdExporter, error) {
	if cfg.Rows <= 0 {
		return nil, fmt.Errorf("export: rrd exporter requires a positive row count")
	}
	if interval < time.Second || interval%time.Second != 0 {
		return nil, fmt.Errorf("export: rrd interval must be a whole number of seconds")
	}
	tool, err := NewRrdTool(cfg.RRDTool, cfg.Dir)
	if err != nil {
		return nil, err
	}
	return &RrdExporter{
		interval:    interval,
		rows:        cfg.Rows,
		period:      interval * time.Duration(cfg.Rows),
		tool:        tool,
		graph:       cfg.Graph,
		pids:        make(map[int]*rrdProcess),
		colorBucket: append([]uint32(nil), colors[:]...),
	}, nil
}

func rrdFilename(pid int, name string) string {
	return fmt.Sprintf("%s_%d.rrd", name, pid)
}

// Open records, for every (id, aggregation) pair the collector will
// report, whether it gets its own data source: only the unaggregated
// (AggNone) reading of each metric is tracked in the RRD, since min/max/
// ratio are derived views the database can recompute from the raw series.
func (e *RrdExporter) Open(parsed []metric.Parsed) error {
	heartbeat := int64(e.interval.Seconds()) * 2
	forEachComputedMetric(parsed, func(id metric.ID, agg metric.Aggregation) {
		if agg != metric.AggNone {
			e.skip = append(e.skip, true)
			return
		}
		e.skip = append(e.skip, false)
		dsName := strings.ReplaceAll(id.String(), ":", "_")
		dsType := "GAUGE"
		if id.DataType() == metric.Counter {
			dsType = "COUNTER"
		}
		e.variables = append(e.variables, dsName)
		e.ds = append(e.ds, fmt.Sprintf("DS:%s:%s:%d:0:U", dsName, dsType, heartbeat))
	})
	return nil
}

func (e *RrdExporter) insertProcess(pid int, name string, timestamp time.Time) (*rrdProcess, error) {
	dbname := rrdFilename(pid, name)
	start := timestamp.Add(-e.interval)
	if err := e.tool.Create(dbname, e.ds, start, e.interval, e.rows); err != nil {
		return nil, err
	}
	var color uint32
	if e.graph {
		n := len(e.colorBucket)
		if n == 0 {
			return nil, fmt.Errorf("export: rrd graph color palette exhausted")
		}
		color = e.colorBucket[n-1]
		e.colorBucket = e.colorBucket[:n-1]
	}
	p := &rrdProcess{name: name, db: dbname, color: color}
	e.pids[pid] = p
	return p, nil
}

// Export updates every live pid's database with this tick's unaggregated
// values, then (if graphing is enabled) renders one PNG per tracked
// metric overlaying every currently live pid.
func (e *RrdExporter) Export(rows []manager.Row, timestamp time.Time) error {
	stale := make(map[int]bool, len(e.pids))
	for pid := range e.pids {
		stale[pid] = true
	}

	var graphed []*rrdProcess
	for _, row := range rows {
		if row.IsSystem {
			continue // no pid to key a database file on
		}
		delete(stale, row.Pid)
		proc, tracked := e.pids[row.Pid]
		if !tracked {
			var err error
			if proc, err = e.insertProcess(row.Pid, row.Name, timestamp); err != nil {
				return err
			}
		}
		if e.graph {
			graphed = append(graphed, proc)
		}

		values := make([]int64, 0, len(e.variables))
		for i, v := range row.Values {
			if i < len(e.skip) && !e.skip[i] {
				values = append(values, v.Value)
			}
		}
		if err := e.tool.Update(proc.db, values, timestamp); err != nil {
			return err
		}
	}

	if e.graph && len(graphed) > 0 {
		start := timestamp.Add(-e.period)
		for _, dsName := range e.variables {
			title := strings.ReplaceAll(dsName, "_", " ")
			filename := dsName + ".png"
			defs := make([]string, len(graphed))
			for i, proc := range graphed {
				defs[i] = fmt.Sprintf("DEF:v%d=%s:%s:AVERAGE LINE1:v%d#%06x:%q",
					i, proc.db, dsName, i, proc.color, proc.name)
			}
			if _, _, err := e.tool.Graph(filename, start, timestamp, defs, title); err != nil {
				return err
			}
		}
	}

	for pid := range stale {
		if proc, ok := e.pids[pid]; ok {
			if e.graph {
				e.colorBucket = append(e.colorBucket, proc.color)
			}
			delete(e.pids, pid)
		}
	}
	return nil
}

// Close stops the rrdtool subprocess.
func (e *RrdExporter) Close() error {
	return e.tool.Close()
}
