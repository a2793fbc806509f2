package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oprsmon/oprs/pkg/collector"
	"github.com/oprsmon/oprs/pkg/manager"
	"github.com/oprsmon/oprs/pkg/metric"
)

// Config is the subset of ExportConfig every exporter in this package
// needs; the app wiring layer narrows the user's ExportConfig down to this
// before constructing an Exporter.
type Config struct {
	Kind        string // "csv", "tsv" or "rrd"
	Dir         string
	SizeLimit   int64 // bytes, 0 = unbounded
	RotateCount int   // retained siblings before deletion, csv/tsv only
	RRDTool     string
	Rows        int
	Graph       bool
}

// CsvExporter writes one delimited file per pid, opened lazily the first
// time a pid is seen and rotated when it grows past SizeLimit.
type CsvExporter struct {
	separator byte
	extension string
	dir       string
	rotate    int // 0 = rotation disabled
	sizeLimit int64

	files  map[int]*os.File
	header []string
}

// NewCsvExporter builds a CSV or TSV exporter from cfg.Kind ("csv" or
// "tsv").
func NewCsvExporter(cfg Config) (*CsvExporter, error) {
	var sep byte
	var ext string
	switch cfg.Kind {
	case "csv":
		sep, ext = ',', "csv"
	case "tsv":
		sep, ext = '\t', "tsv"
	default:
		return nil, fmt.Errorf("export: csv exporter requires kind csv or tsv, got %q", cfg.Kind)
	}
	if cfg.SizeLimit > 0 && cfg.RotateCount <= 0 {
		return nil, fmt.Errorf("export: a size limit requires a positive rotate count")
	}
	return &CsvExporter{
		separator: sep,
		extension: ext,
		dir:       cfg.Dir,
		rotate:    cfg.RotateCount,
		sizeLimit: cfg.SizeLimit,
		files:     make(map[int]*os.File),
	}, nil
}

// Open builds the header row: "time" followed by one column per computed
// (id, aggregation) pair, with a " (min|max|%)" suffix when the same
// metric id is requested more than once with different aggregations.
func (e *CsvExporter) Open(parsed []metric.Parsed) error {
	e.header = append(e.header[:0], "time")
	var lastID metric.ID
	haveLast := false
	forEachComputedMetric(parsed, func(id metric.ID, agg metric.Aggregation) {
		if !haveLast || lastID != id {
			lastID, haveLast = id, true
			e.header = append(e.header, id.String())
			return
		}
		e.header = append(e.header, fmt.Sprintf("%s (%s)", id.String(), aggSuffix(agg)))
	})
	return nil
}

func aggSuffix(agg metric.Aggregation) string {
	switch agg {
	case metric.AggMin:
		return "min"
	case metric.AggMax:
		return "max"
	case metric.AggRatio:
		return "%"
	default:
		return "none" // never actually emitted: AggNone never repeats a bare column
	}
}

// Close flushes and closes every open file.
func (e *CsvExporter) Close() error {
	var firstErr error
	for pid, f := range e.files {
		if err := f.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(e.files, pid)
	}
	return firstErr
}

// Export appends one row to each live pid's file (opening it first if
// this is the pid's first appearance), then rotates and closes files that
// have grown past the configured size limit. Files for pids no longer
// present are closed.
func (e *CsvExporter) Export(rows []manager.Row, timestamp time.Time) error {
	stale := make(map[int]bool, len(e.files))
	for pid := range e.files {
		stale[pid] = true
	}

	for _, row := range rows {
		if row.IsSystem {
			continue // the system row has no pid-keyed file to append to
		}
		delete(stale, row.Pid)
		f, ok := e.files[row.Pid]
		if !ok {
			var err error
			if f, err = e.createFile(row.Pid, row.Name); err != nil {
				return err
			}
			e.files[row.Pid] = f
		}
		if err := e.writeRow(f, timestamp, row.Values); err != nil {
			return err
		}
		if e.sizeLimit > 0 {
			if size, err := f.Seek(0, io.SeekEnd); err == nil && size >= e.sizeLimit {
				stale[row.Pid] = true // closed below, reopened (and rotated) next tick
			}
		}
	}

	for pid := range stale {
		if f, ok := e.files[pid]; ok {
			f.Close()
			delete(e.files, pid)
		}
	}
	return nil
}

func (e *CsvExporter) writeRow(f *os.File, timestamp time.Time, values []collector.Reported) error {
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%.3f", float64(timestamp.UnixMilli())/1000)
	for _, v := range values {
		w.WriteByte(e.separator)
		e.writeValue(w, strconv.FormatInt(v.Value, 10))
	}
	w.WriteByte('\n')
	return w.Flush()
}

func (e *CsvExporter) writeValue(w *bufio.Writer, value string) {
	if strings.IndexByte(value, e.separator) >= 0 {
		w.WriteByte('"')
		w.WriteString(value)
		w.WriteByte('"')
		return
	}
	w.WriteString(value)
}

func (e *CsvExporter) createFile(pid int, name string) (*os.File, error) {
	filename := filepath.Join(e.dir, fmt.Sprintf("%s_%d.%s", name, pid, e.extension))
	if _, err := os.Stat(filename); err == nil {
		if err := e.shiftFile(filename, 0); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriter(f)
	for i, col := range e.header {
		if i > 0 {
			w.WriteByte(e.separator)
		}
		e.writeValue(w, col)
	}
	w.WriteByte('\n')
	if err := w.Flush(); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// shiftFile recursively renames filename -> filename.1 -> filename.2 …
// keeping at most rotate-1 retained siblings, discarding the oldest.
func (e *CsvExporter) shiftFile(filename string, rank int) error {
	if e.rotate <= 0 || rank+1 >= e.rotate {
		return nil
	}
	source := filename
	if rank > 0 {
		source = shiftedName(filename, rank)
	}
	destination := shiftedName(filename, rank+1)
	if _, err := os.Stat(destination); err == nil {
		if err := e.shiftFile(filename, rank+1); err != nil {
			return err
		}
	}
	return os.Rename(source, destination)
}

func shiftedName(filename string, rank int) string {
	return fmt.Sprintf("%s.%d", filename, rank)
}
