// Package gui implements the interactive terminal controller: one process
// forest/flat table (PaneMain) plus five on-demand process detail panes, a
// help pane, and the pane-stack/motion/bookmark state that drives them.
// gocui is the out-of-scope "terminal widget library" collaborator —
// this package only owns keymap dispatch and the state above it.
package gui

import (
	"os"
	"os/signal"
	"time"

	throttle "github.com/boz/go-throttle"
	"github.com/jesseduffield/gocui"
	lcUtils "github.com/jesseduffield/lazycore/pkg/utils"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/oprsmon/oprs/pkg/export"
	"github.com/oprsmon/oprs/pkg/manager"
	"github.com/oprsmon/oprs/pkg/metric"
	"github.com/oprsmon/oprs/pkg/procfs"
)

// OverlappingEdges determines if panel edges overlap.
var OverlappingEdges = false

// Config is the handful of runtime knobs the controller needs. It is kept
// separate from the user-facing configuration package so this package has
// no build-order dependency on it; pkg/app constructs one from the loaded
// AppConfig.
type Config struct {
	Version         string
	RefreshInterval time.Duration
	Mouse           bool

	// GraphCaption/GraphHeight/GraphMinZero configure the process-details
	// sparkline (empty/zero Caption disables it). They come from the
	// first entry of UserConfig.Stats.Graphs, if any.
	GraphCaption string
	GraphHeight  int
	GraphMinZero bool

	// Count caps how many ticks Run performs before quitting on its own,
	// 0 for unbounded (the interactive default).
	Count int
}

// Gui wraps the gocui.Gui object that handles rendering and input, plus
// every piece of state spec.md §4.7 assigns to the controller.
type Gui struct {
	g      *gocui.Gui
	Log    *logrus.Entry
	Config Config

	Mgr     manager.Manager
	Metrics []metric.Parsed
	Reader  *procfs.Reader

	// Exporter, if set, receives every tick's rows alongside the live
	// render — wired up by pkg/app when the user configures -e/--export.
	Exporter export.Exporter

	Views Views

	Panes     *PaneStack
	Axes      map[Pane]*Axis
	Bookmarks *Bookmarks

	State guiState

	Mutexes

	ErrorChan chan error
}

type guiState struct {
	rows        []manager.Row
	occurrences map[int]bool
	quitting    bool
	ticks       int

	// history is the per-pid ring of the graphed ratio column's last
	// samples (permille), rebuilt each tick so a pid that disappears
	// doesn't linger forever.
	history map[int][]int64
}

// historyLength caps how many ticks of a pid's graphed ratio column
// renderProcessDetails' sparkline shows.
const historyLength = 60

// Mutexes holds the locks guarding state shared between the main loop and
// the SIGINT handler's goroutine.
type Mutexes struct {
	QuitMutex deadlock.Mutex
}

// NewGui builds a Gui ready to Run. mgr drives sampling, metrics is the
// resolved, ordered set of metrics to report, reader backs the detail
// panes' on-demand procfs reads.
func NewGui(log *logrus.Entry, mgr manager.Manager, metrics []metric.Parsed, reader *procfs.Reader, cfg Config) *Gui {
	return &Gui{
		Log:       log,
		Config:    cfg,
		Mgr:       mgr,
		Metrics:   metrics,
		Reader:    reader,
		Panes:     NewPaneStack(),
		Bookmarks: NewBookmarks(),
		Axes: map[Pane]*Axis{
			PaneMain:               {},
			PaneHelp:               {},
			PaneProcessDetails:     {},
			PaneProcessEnvironment: {},
			PaneProcessFiles:       {},
			PaneProcessMaps:        {},
			PaneProcessLimits:      {},
		},
		State:     guiState{occurrences: make(map[int]bool), history: make(map[int][]int64)},
		ErrorChan: make(chan error),
	}
}

// Run starts the gocui event loop and drives the sampling tick. Per the
// single-threaded cooperative model: gocui's own input-reading goroutine is
// the only auxiliary OS thread, and every refresh this method schedules
// runs on the same main-loop goroutine that dispatches keybindings, via
// g.Update — so no two goroutines ever touch Gui state concurrently.
func (gui *Gui) Run() error {
	g, err := gocui.NewGui(gocui.OutputTrue, OverlappingEdges, gocui.NORMAL, false, map[rune]string{})
	if err != nil {
		return err
	}
	defer g.Close()

	g.Mouse = gui.Config.Mouse
	gui.g = g

	if gui.Exporter != nil {
		if err := gui.Exporter.Open(gui.Metrics); err != nil {
			return err
		}
		defer gui.Exporter.Close()
	}

	// if the deadlock package wants to report a deadlock, close the gui
	// first so the report is actually visible on exit.
	deadlock.Opts.LogBuf = lcUtils.NewOnceWriter(os.Stderr, func() {
		gui.g.Close()
	})

	g.SetManager(gocui.ManagerFunc(gui.layout))

	if err := gui.createAllViews(); err != nil {
		return err
	}

	if err := gui.keybindings(g); err != nil {
		return err
	}

	go func() {
		for err := range gui.ErrorChan {
			if err != nil {
				gui.Log.Error(err)
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			gui.requestQuit()
		case <-done:
		}
	}()

	throttledRender := throttle.ThrottleFunc(time.Millisecond*50, true, gui.renderMain)
	defer throttledRender.Stop()

	ticker := time.NewTicker(gui.Config.RefreshInterval)
	defer ticker.Stop()
	tickerDone := make(chan struct{})
	defer close(tickerDone)
	go func() {
		for {
			select {
			case <-ticker.C:
				g.Update(func(*gocui.Gui) error {
					gui.tick()
					throttledRender.Trigger()
					return nil
				})
			case <-tickerDone:
				return
			}
		}
	}()

	g.Update(func(*gocui.Gui) error {
		gui.tick()
		return gui.renderMain()
	})

	err = g.MainLoop()
	if err == gocui.ErrQuit {
		return nil
	}
	return err
}

// tick runs one Refresh+Collect cycle against the configured manager,
// storing the fresh rows for the next render, forwarding them to the
// configured Exporter (if any), and requesting quit once Config.Count
// ticks have been performed.
func (gui *Gui) tick() {
	if _, err := gui.Mgr.Refresh(); err != nil {
		gui.Log.Warn(err)
		return
	}
	gui.State.rows = gui.Mgr.Collect(gui.Metrics)
	gui.recordHistory()

	if gui.Exporter != nil {
		if err := gui.Exporter.Export(gui.State.rows, time.Now()); err != nil {
			gui.Log.Warn(err)
		}
	}

	gui.State.ticks++
	if gui.Config.Count > 0 && gui.State.ticks >= gui.Config.Count {
		gui.requestQuit()
	}
}

// recordHistory appends the current tick's graphed ratio column (if the
// configured metrics request one) onto each live pid's sample ring, and
// drops the ring for any pid no longer present — so renderProcessDetails'
// sparkline never shows a stale series for an exited process.
func (gui *Gui) recordHistory() {
	col, ok := gui.graphColumn()
	fresh := make(map[int][]int64, len(gui.State.rows))
	for _, r := range gui.State.rows {
		pid := r.RowPid()
		if pid == 0 {
			continue
		}
		ring := gui.State.history[pid]
		if ok && col < len(r.Values) {
			ring = append(ring, r.Values[col].Value)
			if len(ring) > historyLength {
				ring = ring[len(ring)-historyLength:]
			}
		}
		fresh[pid] = ring
	}
	gui.State.history = fresh
}

// graphColumn returns the column index of the first ratio-aggregated
// metric requested, matching columnLabels' ordering — the series
// renderProcessDetails' sparkline plots. Ratio is the only aggregation
// that makes sense as a time series on a single, bounded scale.
func (gui *Gui) graphColumn() (int, bool) {
	col := 0
	for _, p := range gui.Metrics {
		for _, agg := range p.Aggregations.Ordered() {
			if agg == metric.AggRatio {
				return col, true
			}
			col++
		}
	}
	return 0, false
}

func (gui *Gui) requestQuit() {
	gui.QuitMutex.Lock()
	gui.State.quitting = true
	gui.QuitMutex.Unlock()
	gui.g.Update(func(*gocui.Gui) error {
		return gocui.ErrQuit
	})
}

func (gui *Gui) quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// escape pops the current pane, or quits from PaneMain.
func (gui *Gui) escape(g *gocui.Gui, v *gocui.View) error {
	if gui.Panes.Pop() {
		return nil
	}
	return gocui.ErrQuit
}

