package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oprsmon/oprs/pkg/collector"
	"github.com/oprsmon/oprs/pkg/manager"
	"github.com/oprsmon/oprs/pkg/metric"
)

func mustParseMetrics(t *testing.T, specs ...string) []metric.Parsed {
	t.Helper()
	parsed, err := metric.Parse(specs)
	if err != nil {
		t.Fatalf("metric.Parse(%v): %v", specs, err)
	}
	return parsed
}

func TestCsvExporterHeaderSuffixesRepeatedMetric(t *testing.T) {
	dir := t.TempDir()
	e, err := NewCsvExporter(Config{Kind: "csv", Dir: dir})
	if err != nil {
		t.Fatalf("NewCsvExporter: %v", err)
	}
	parsed := mustParseMetrics(t, "mem:rss+min+max", "thread:count")
	if err := e.Open(parsed); err != nil {
		t.Fatalf("Open: %v", err)
	}

	want := []string{"time", "mem:rss", "mem:rss (min)", "mem:rss (max)", "thread:count"}
	if strings.Join(e.header, ",") != strings.Join(want, ",") {
		t.Errorf("header = %v, want %v", e.header, want)
	}
}

func rowFor(pid int, name string, value int64) manager.Row {
	return manager.Row{
		Pid:  pid,
		Name: name,
		Values: []collector.Reported{
			{ID: metric.MemRss, Agg: metric.AggNone, Value: value, Formatted: "x"},
		},
	}
}

func TestCsvExporterWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	e, err := NewCsvExporter(Config{Kind: "csv", Dir: dir})
	if err != nil {
		t.Fatalf("NewCsvExporter: %v", err)
	}
	parsed := mustParseMetrics(t, "mem:rss")
	if err := e.Open(parsed); err != nil {
		t.Fatalf("Open: %v", err)
	}

	ts := time.Unix(1700000000, 0)
	if err := e.Export([]manager.Row{rowFor(42, "myproc", 1024)}, ts); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "myproc_42.csv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a header and one data line, got %v", lines)
	}
	if lines[0] != "time,mem:rss" {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], ",1024") {
		t.Errorf("data line = %q, want a trailing \",1024\"", lines[1])
	}
}

func TestCsvExporterClosesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	e, err := NewCsvExporter(Config{Kind: "csv", Dir: dir})
	if err != nil {
		t.Fatalf("NewCsvExporter: %v", err)
	}
	if err := e.Open(mustParseMetrics(t, "mem:rss")); err != nil {
		t.Fatalf("Open: %v", err)
	}

	ts := time.Unix(1700000000, 0)
	if err := e.Export([]manager.Row{rowFor(1, "a", 1)}, ts); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(e.files) != 1 {
		t.Fatalf("expected one open file, got %d", len(e.files))
	}

	// Second tick without pid 1 present: its file must be closed and
	// dropped from the tracked set.
	if err := e.Export(nil, ts.Add(time.Second)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(e.files) != 0 {
		t.Errorf("expected the stale file to be closed, still tracking %d", len(e.files))
	}
}

func TestCsvExporterTsvUsesTabSeparator(t *testing.T) {
	dir := t.TempDir()
	e, err := NewCsvExporter(Config{Kind: "tsv", Dir: dir})
	if err != nil {
		t.Fatalf("NewCsvExporter: %v", err)
	}
	if err := e.Open(mustParseMetrics(t, "mem:rss")); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := e.Export([]manager.Row{rowFor(7, "b", 5)}, time.Unix(1700000000, 0)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	e.Close()

	data, err := os.ReadFile(filepath.Join(dir, "b_7.tsv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "\t") {
		t.Errorf("expected a tab-separated file, got %q", string(data))
	}
}

func TestCsvExporterRejectsUnknownKind(t *testing.T) {
	if _, err := NewCsvExporter(Config{Kind: "rrd", Dir: t.TempDir()}); err == nil {
		t.Fatalf("expected an error for a non-csv/tsv kind")
	}
}

func TestCsvExporterSizeLimitRequiresRotateCount(t *testing.T) {
	if _, err := NewCsvExporter(Config{Kind: "csv", Dir: t.TempDir(), SizeLimit: 100}); err == nil {
		t.Fatalf("expected an error when a size limit is set without a rotate count")
	}
}
