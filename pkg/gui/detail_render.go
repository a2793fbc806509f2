package gui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jesseduffield/asciigraph"

	"github.com/oprsmon/oprs/pkg/metric"
	"github.com/oprsmon/oprs/pkg/procfs"
)

// byteFormatter reuses the same size formatter the main table uses for
// size-typed metrics, so detail pane byte counts read the same way
// (decimal "K"/"M"/"G") as the columns they came from.
func byteFormatter() metric.Formatter {
	f, _ := metric.LookupUnit("sz")
	return f
}

// renderDetail redraws Detail for whatever pane is on top of the stack. It
// is called right after a pane is pushed so the view isn't blank for a
// frame, and again every tick from renderMain so a pinned detail pane
// tracks the selected process as it changes.
func (gui *Gui) renderDetail() error {
	v := gui.Views.Detail
	if v == nil {
		return nil
	}

	switch pane := gui.Panes.Current(); pane {
	case PaneMain:
		return nil
	case PaneHelp:
		return gui.setViewContent(v, gui.helpText())
	default:
		pid, ok := gui.Bookmarks.SelectedPid()
		if !ok {
			return gui.setViewContent(v, "no process selected")
		}
		return gui.renderProcessPane(pane, pid)
	}
}

func (gui *Gui) renderProcessPane(pane Pane, pid int) error {
	switch pane {
	case PaneProcessDetails:
		return gui.renderProcessDetails(pid)
	case PaneProcessEnvironment:
		return gui.renderProcessEnvironment(pid)
	case PaneProcessFiles:
		return gui.renderProcessFiles(pid)
	case PaneProcessMaps:
		return gui.renderProcessMaps(pid)
	case PaneProcessLimits:
		return gui.renderProcessLimits(pid)
	}
	return nil
}

func (gui *Gui) renderProcessDetails(pid int) error {
	stat, err := gui.Reader.ReadProcess(pid)
	if err != nil {
		return gui.setViewContent(gui.Views.Detail, fmt.Sprintf("pid %d: %v", pid, err))
	}

	sizeFmt := byteFormatter()

	var b strings.Builder
	fmt.Fprintf(&b, "pid:      %d\n", stat.Pid)
	fmt.Fprintf(&b, "ppid:     %d\n", stat.Ppid)
	fmt.Fprintf(&b, "comm:     %s\n", stat.Comm)
	fmt.Fprintf(&b, "cmdline:  %s\n", strings.Join(stat.Cmdline, " "))
	fmt.Fprintf(&b, "threads:  %d\n", stat.ThreadCount)
	fmt.Fprintf(&b, "utime:    %d ms\n", stat.UTimeMs)
	fmt.Fprintf(&b, "stime:    %d ms\n", stat.STimeMs)
	fmt.Fprintf(&b, "elapsed:  %d ms\n", stat.ElapsedMs)
	fmt.Fprintf(&b, "minflt:   %d\n", stat.MinFlt)
	fmt.Fprintf(&b, "majflt:   %d\n", stat.MajFlt)
	fmt.Fprintf(&b, "vsize:    %s\n", sizeFmt(int64(stat.VmSize)))
	fmt.Fprintf(&b, "rss:      %s\n", sizeFmt(int64(stat.RssBytes)))
	fmt.Fprintf(&b, "text:     %s\n", sizeFmt(int64(stat.TextBytes)))
	fmt.Fprintf(&b, "data:     %s\n", sizeFmt(int64(stat.DataBytes)))
	fmt.Fprintf(&b, "io read:  %s (%d calls)\n", sizeFmt(int64(stat.IoReadStorage)), stat.IoReadCall)
	fmt.Fprintf(&b, "io write: %s (%d calls)\n", sizeFmt(int64(stat.IoWriteStorage)), stat.IoWriteCall)

	if graph := gui.historyGraph(pid); graph != "" {
		b.WriteString("\n")
		b.WriteString(graph)
		b.WriteString("\n")
	}

	return gui.setViewContent(gui.Views.Detail, b.String())
}

// historyGraph renders pid's recorded ratio history (if any) as an ascii
// sparkline scaled to 0-100%, the same "raw permille -> percent" scale
// metric.RatioFormatter uses for the table column it came from. It is a
// no-op (empty string) when Config.GraphCaption is unset, which is how a
// user config with an empty stats.graphs list disables it.
func (gui *Gui) historyGraph(pid int) string {
	if gui.Config.GraphCaption == "" {
		return ""
	}
	ring := gui.State.history[pid]
	if len(ring) < 2 {
		return ""
	}
	series := make([]float64, len(ring))
	for i, v := range ring {
		series[i] = float64(v) / float64(metric.PercentFactor) * 100
	}

	height := gui.Config.GraphHeight
	if height <= 0 {
		height = 8
	}
	opts := []asciigraph.Option{asciigraph.Height(height), asciigraph.Caption(gui.Config.GraphCaption)}
	if gui.Config.GraphMinZero {
		opts = append(opts, asciigraph.Min(0))
	}
	return asciigraph.Plot(series, opts...)
}

func (gui *Gui) renderProcessEnvironment(pid int) error {
	lines, err := procfs.ReadEnviron(pid)
	if err != nil {
		return gui.setViewContent(gui.Views.Detail, fmt.Sprintf("pid %d: %v", pid, err))
	}
	sort.Strings(lines)
	return gui.setViewContent(gui.Views.Detail, strings.Join(lines, "\n"))
}

func (gui *Gui) renderProcessFiles(pid int) error {
	stat, err := gui.Reader.ReadProcess(pid)
	if err != nil {
		return gui.setViewContent(gui.Views.Detail, fmt.Sprintf("pid %d: %v", pid, err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "open fds: %d (highest %d)\n\n", stat.FdAll, stat.FdHigh)
	for _, kind := range sortedFdKinds(stat.FdByKind) {
		fmt.Fprintf(&b, "%-8s %d\n", kind.String(), stat.FdByKind[kind])
	}
	return gui.setViewContent(gui.Views.Detail, b.String())
}

func (gui *Gui) renderProcessMaps(pid int) error {
	stat, err := gui.Reader.ReadProcess(pid)
	if err != nil {
		return gui.setViewContent(gui.Views.Detail, fmt.Sprintf("pid %d: %v", pid, err))
	}

	sizeFmt := byteFormatter()

	var b strings.Builder
	for _, kind := range sortedMapKinds(stat.MapByKind) {
		s := stat.MapByKind[kind]
		fmt.Fprintf(&b, "%-14s %4d mappings  %s\n", kind.String(), s.Count, sizeFmt(int64(s.Size)))
	}
	return gui.setViewContent(gui.Views.Detail, b.String())
}

func (gui *Gui) renderProcessLimits(pid int) error {
	text, err := procfs.ReadLimits(pid)
	if err != nil {
		return gui.setViewContent(gui.Views.Detail, fmt.Sprintf("pid %d: %v", pid, err))
	}
	return gui.setViewContent(gui.Views.Detail, text)
}

func (gui *Gui) helpText() string {
	return strings.Join([]string{
		"arrows/jk     move selection",
		"pgup/pgdown   page up/down",
		"g/G           first/last row",
		"m             toggle mark on the selected process",
		"/             start a search",
		"n/N           next/previous mark or match",
		"enter/d       process details",
		"e             environment",
		"f             open files",
		"M             memory maps",
		"L             resource limits",
		"esc/q         back, or quit from the main pane",
	}, "\n")
}

func sortedFdKinds(m map[procfs.FdKind]int) []procfs.FdKind {
	kinds := make([]procfs.FdKind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func sortedMapKinds(m map[procfs.MapKind]procfs.MapStat) []procfs.MapKind {
	kinds := make([]procfs.MapKind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
