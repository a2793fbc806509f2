package gui

import (
	"testing"

	"github.com/oprsmon/oprs/pkg/collector"
	"github.com/oprsmon/oprs/pkg/manager"
	"github.com/oprsmon/oprs/pkg/metric"
)

func ratioMetrics(t *testing.T) []metric.Parsed {
	t.Helper()
	parsed, err := metric.Parse([]string{"time:cpu-raw+ratio"})
	if err != nil {
		t.Fatalf("metric.Parse: %v", err)
	}
	return parsed
}

func TestGraphColumnFindsRatioAggregation(t *testing.T) {
	gui := &Gui{Metrics: ratioMetrics(t)}
	col, ok := gui.graphColumn()
	if !ok || col != 0 {
		t.Errorf("graphColumn() = (%d, %v), want (0, true)", col, ok)
	}
}

func TestGraphColumnSkipsLeadingRawColumn(t *testing.T) {
	parsed, err := metric.Parse([]string{"time:cpu+ratio"})
	if err != nil {
		t.Fatalf("metric.Parse: %v", err)
	}
	gui := &Gui{Metrics: parsed}
	col, ok := gui.graphColumn()
	if !ok || col != 1 {
		t.Errorf("graphColumn() = (%d, %v), want (1, true)", col, ok)
	}
}

func TestGraphColumnAbsentWithoutRatio(t *testing.T) {
	parsed, err := metric.Parse([]string{"mem:rss"})
	if err != nil {
		t.Fatalf("metric.Parse: %v", err)
	}
	gui := &Gui{Metrics: parsed}
	if _, ok := gui.graphColumn(); ok {
		t.Error("graphColumn() found a ratio column where there is none")
	}
}

func TestRecordHistoryAppendsAndCaps(t *testing.T) {
	gui := &Gui{
		Metrics: ratioMetrics(t),
		State:   guiState{history: make(map[int][]int64)},
	}

	for i := 0; i < historyLength+5; i++ {
		gui.State.rows = []manager.Row{
			{Pid: 10, Name: "a", Values: []collector.Reported{{Value: int64(i)}}},
		}
		gui.recordHistory()
	}

	ring := gui.State.history[10]
	if len(ring) != historyLength {
		t.Fatalf("len(ring) = %d, want %d", len(ring), historyLength)
	}
	if ring[len(ring)-1] != int64(historyLength+4) {
		t.Errorf("ring's last value = %d, want %d", ring[len(ring)-1], historyLength+4)
	}
}

func TestRecordHistoryDropsMissingPid(t *testing.T) {
	gui := &Gui{
		Metrics: ratioMetrics(t),
		State:   guiState{history: make(map[int][]int64)},
	}

	gui.State.rows = []manager.Row{{Pid: 10, Name: "a", Values: []collector.Reported{{Value: 5}}}}
	gui.recordHistory()
	if _, ok := gui.State.history[10]; !ok {
		t.Fatal("expected pid 10 to have a history ring")
	}

	gui.State.rows = []manager.Row{{Pid: 11, Name: "b", Values: []collector.Reported{{Value: 7}}}}
	gui.recordHistory()
	if _, ok := gui.State.history[10]; ok {
		t.Error("pid 10's history ring should have been dropped once it disappeared")
	}
	if _, ok := gui.State.history[11]; !ok {
		t.Error("expected pid 11 to have a history ring")
	}
}

func TestRecordHistorySkipsSystemRow(t *testing.T) {
	gui := &Gui{
		Metrics: ratioMetrics(t),
		State:   guiState{history: make(map[int][]int64)},
	}
	gui.State.rows = []manager.Row{{IsSystem: true, Name: "system", Values: []collector.Reported{{Value: 5}}}}
	gui.recordHistory()
	if len(gui.State.history) != 0 {
		t.Errorf("expected no history recorded for the system row, got %v", gui.State.history)
	}
}
