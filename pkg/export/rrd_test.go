package export

import (
	"testing"
	"time"

	"github.com/oprsmon/oprs/pkg/collector"
	"github.com/oprsmon/oprs/pkg/manager"
	"github.com/oprsmon/oprs/pkg/metric"
)

func newTestRrdExporter(t *testing.T, graph bool, toolOutput string) *RrdExporter {
	t.Helper()
	return &RrdExporter{
		interval:    time.Second,
		rows:        600,
		period:      600 * time.Second,
		tool:        newFakeRrdTool(toolOutput),
		graph:       graph,
		pids:        make(map[int]*rrdProcess),
		colorBucket: append([]uint32(nil), colors[:]...),
	}
}

func TestRrdExporterOpenSkipsAggregatedColumns(t *testing.T) {
	e := newTestRrdExporter(t, false, "")
	parsed := mustParseMetrics(t, "mem:rss+min+max", "thread:count")
	if err := e.Open(parsed); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if len(e.skip) != 4 {
		t.Fatalf("expected 4 flattened (id,agg) slots, got %d", len(e.skip))
	}
	// mem:rss -> raw (kept), min (skipped), max (skipped); thread:count -> raw (kept).
	wantSkip := []bool{false, true, true, false}
	for i, want := range wantSkip {
		if e.skip[i] != want {
			t.Errorf("skip[%d] = %v, want %v", i, e.skip[i], want)
		}
	}
	if len(e.variables) != 2 || e.variables[0] != "mem_rss" || e.variables[1] != "thread_count" {
		t.Errorf("variables = %v, want [mem_rss thread_count] (only the raw slots)", e.variables)
	}
}

func TestRrdExporterDataSourceTypeMatchesCounterOrGauge(t *testing.T) {
	e := newTestRrdExporter(t, false, "")
	parsed := mustParseMetrics(t, "fault:minor", "mem:rss")
	if err := e.Open(parsed); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(e.ds) != 2 {
		t.Fatalf("expected 2 data source definitions, got %d", len(e.ds))
	}
	if got := e.ds[0]; !contains(got, ":COUNTER:") {
		t.Errorf("fault:minor ds = %q, want a COUNTER type", got)
	}
	if got := e.ds[1]; !contains(got, ":GAUGE:") {
		t.Errorf("mem:rss ds = %q, want a GAUGE type", got)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestRrdExporterExportTracksAndReleasesColor(t *testing.T) {
	// Create -> OK, Update -> OK, then (since graphing is on and this
	// tick has a live pid) Graph -> a size line followed by OK.
	e := newTestRrdExporter(t, true, "OK\nOK\n100x100\nOK\n")
	if err := e.Open(mustParseMetrics(t, "mem:rss")); err != nil {
		t.Fatalf("Open: %v", err)
	}
	startColors := len(e.colorBucket)

	row := manager.Row{Pid: 99, Name: "proc", Values: []collector.Reported{
		{ID: metric.MemRss, Agg: metric.AggNone, Value: 4096},
	}}
	if err := e.Export([]manager.Row{row}, time.Unix(2000, 0)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(e.colorBucket) != startColors-1 {
		t.Errorf("expected one color consumed, bucket = %d, want %d", len(e.colorBucket), startColors-1)
	}
	if _, tracked := e.pids[99]; !tracked {
		t.Fatalf("expected pid 99 to be tracked after export")
	}

	// Next tick without pid 99 present: its color must return to the bucket.
	if err := e.Export(nil, time.Unix(2001, 0)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(e.colorBucket) != startColors {
		t.Errorf("expected the color to be returned, bucket = %d, want %d", len(e.colorBucket), startColors)
	}
	if _, tracked := e.pids[99]; tracked {
		t.Errorf("expected pid 99 to be forgotten after it disappears")
	}
}

func TestRrdExporterSkipsSystemRow(t *testing.T) {
	e := newTestRrdExporter(t, false, "")
	if err := e.Open(mustParseMetrics(t, "mem:rss")); err != nil {
		t.Fatalf("Open: %v", err)
	}
	row := manager.Row{IsSystem: true, Name: "system", Values: []collector.Reported{
		{ID: metric.MemRss, Agg: metric.AggNone, Value: 123},
	}}
	if err := e.Export([]manager.Row{row}, time.Unix(3000, 0)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(e.pids) != 0 {
		t.Errorf("expected the system row not to create any tracked pid, got %d", len(e.pids))
	}
}

func TestNewRrdExporterRejectsSubSecondInterval(t *testing.T) {
	if _, err := NewRrdExporter(Config{Kind: "rrd", Dir: t.TempDir(), Rows: 10}, 500*time.Millisecond); err == nil {
		t.Fatalf("expected an error for a sub-second interval")
	}
}

func TestNewRrdExporterRequiresPositiveRows(t *testing.T) {
	if _, err := NewRrdExporter(Config{Kind: "rrd", Dir: t.TempDir(), Rows: 0}, time.Second); err == nil {
		t.Fatalf("expected an error for a non-positive row count")
	}
}
