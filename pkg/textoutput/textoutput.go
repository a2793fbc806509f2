// Package textoutput renders successive collector snapshots as a plain,
// repeating table for non-interactive use (piped output, logging to a
// file) — the non-TUI counterpart to pkg/gui.
package textoutput

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/oprsmon/oprs/pkg/manager"
)

const (
	defaultColumnWidth       = 15
	defaultRepeatHeaderEvery = 20
	unresolvedPlaceholder    = "----"
)

// Writer lays every tracked target out side by side on one line per tick,
// with the frame, target names and column labels reprinted every
// repeatHeaderEvery ticks so a long-running redirect stays readable
// without scrolling the header out of view.
type Writer struct {
	out               io.Writer
	columnWidth       int
	repeatHeaderEvery int
	tick              int
}

// NewWriter builds a Writer with the package's default column width and
// header-repeat cadence.
func NewWriter(out io.Writer) *Writer {
	return &Writer{
		out:               out,
		columnWidth:       defaultColumnWidth,
		repeatHeaderEvery: defaultRepeatHeaderEvery,
	}
}

// Render prints one tick's worth of output: the three-line frame/name/
// label header when due, followed by one line holding every row's values.
func (w *Writer) Render(labels []string, rows []manager.Row) error {
	blockWidth := len(labels)*(w.columnWidth+3) - 3
	if blockWidth < 0 {
		blockWidth = 0
	}

	var b strings.Builder
	if w.repeatHeaderEvery <= 0 || w.tick%w.repeatHeaderEvery == 0 {
		writeFrame(&b, len(rows), blockWidth)
		writeNames(&b, rows, blockWidth)
		writeLabels(&b, len(rows), labels, w.columnWidth)
	}
	w.tick++
	writeValues(&b, rows, labels, w.columnWidth)

	_, err := io.WriteString(w.out, b.String())
	return err
}

func writeFrame(b *strings.Builder, blocks, blockWidth int) {
	sep := "|"
	for i := 0; i < blocks; i++ {
		b.WriteString(sep)
		b.WriteString(strings.Repeat("-", blockWidth+2))
		sep = "+"
	}
	b.WriteString("|\n")
}

func writeNames(b *strings.Builder, rows []manager.Row, blockWidth int) {
	for _, row := range rows {
		name := fmt.Sprintf("%s [%d]", row.Name, displayPid(row))
		b.WriteString("| ")
		b.WriteString(padLeft(name, blockWidth))
		b.WriteString(" ")
	}
	b.WriteString("|\n")
}

func displayPid(row manager.Row) int {
	if row.IsSystem {
		return -1
	}
	return row.Pid
}

func writeLabels(b *strings.Builder, blocks int, labels []string, columnWidth int) {
	for i := 0; i < blocks; i++ {
		for _, label := range labels {
			b.WriteString("| ")
			b.WriteString(padCenter(label, columnWidth))
			b.WriteString(" ")
		}
	}
	b.WriteString("|\n")
}

func writeValues(b *strings.Builder, rows []manager.Row, labels []string, columnWidth int) {
	for _, row := range rows {
		if len(row.Values) == 0 {
			for range labels {
				b.WriteString("| ")
				b.WriteString(padCenter(unresolvedPlaceholder, columnWidth))
				b.WriteString(" ")
			}
			continue
		}
		for _, v := range row.Values {
			b.WriteString("| ")
			b.WriteString(padCenter(v.Formatted, columnWidth))
			b.WriteString(" ")
		}
	}
	b.WriteString("|\n")
}

// padLeft pads str to width using rune width rather than byte length, so
// multi-byte display names (CJK comm strings, etc.) still line up.
func padLeft(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w >= width {
		return str
	}
	return str + strings.Repeat(" ", width-w)
}

// padCenter centers str within width, putting the extra space on the right
// on an odd remainder, to mirror the original's centered column formatting.
func padCenter(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w >= width {
		return str
	}
	total := width - w
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + str + strings.Repeat(" ", right)
}
