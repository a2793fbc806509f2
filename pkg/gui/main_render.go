package gui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/oprsmon/oprs/pkg/manager"
)

const mainColumnWidth = 12

// renderMain redraws PaneMain: the process table plus whatever selection
// highlight, marks and search state Bookmarks currently holds. It is the
// controller's only per-tick entry point into Bookmarks.SelectedLine,
// matching spec.md §4.7's "recomputed each tick" contract.
func (gui *Gui) renderMain() error {
	v := gui.Views.Main
	if v == nil {
		return nil
	}

	rows := gui.State.rows
	guiRows := make([]Row, len(rows))
	for i, r := range rows {
		guiRows[i] = r
	}

	scroll := gui.Axes[PaneMain].Vertical.Intent
	selectedLine, hasSelection := gui.Bookmarks.SelectedLine(scroll, gui.State.occurrences, guiRows)

	_, sizeY := v.Size()
	gui.Axes[PaneMain].Vertical.Update(maxInt(0, len(rows)-1), maxInt(1, sizeY-1))
	if hasSelection {
		gui.Axes[PaneMain].Vertical.MoveTo(selectedLine)
	}

	var b strings.Builder
	columns := gui.columnLabels()
	writeMainHeader(&b, columns)
	for i, r := range rows {
		writeMainRow(&b, r, len(columns), gui.Bookmarks.IsMarked(r.RowPid()), hasSelection && i == selectedLine)
	}

	return gui.setViewContent(v, b.String())
}

// columnLabels expands gui.Metrics by their requested aggregations, in the
// exact order collector.Collector.Report emits Reported values — so each
// column lines up positionally with the matching index of every row's
// Values slice.
func (gui *Gui) columnLabels() []string {
	var labels []string
	for _, p := range gui.Metrics {
		for _, agg := range p.Aggregations.Ordered() {
			labels = append(labels, p.ID.ShortName()+agg.Suffix())
		}
	}
	return labels
}

func writeMainHeader(b *strings.Builder, columns []string) {
	b.WriteString(padLeft("NAME", 24))
	for _, c := range columns {
		b.WriteString(" ")
		b.WriteString(padLeft(strings.ToUpper(c), mainColumnWidth))
	}
	b.WriteString("\n")
}

func writeMainRow(b *strings.Builder, r manager.Row, columnCount int, marked, selected bool) {
	marker := "  "
	if marked {
		marker = "* "
	}
	if selected {
		marker = ">" + marker[1:]
	}
	name := r.Name
	if r.Depth > 0 {
		name = strings.Repeat("  ", r.Depth) + name
	}
	b.WriteString(marker)
	b.WriteString(padLeft(name, 22))
	for i := 0; i < columnCount; i++ {
		b.WriteString(" ")
		if i < len(r.Values) {
			b.WriteString(padLeft(r.Values[i].Formatted, mainColumnWidth))
		} else {
			b.WriteString(padLeft("-", mainColumnWidth))
		}
	}
	b.WriteString("\n")
}

func padLeft(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
