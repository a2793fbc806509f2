package app

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/sirupsen/logrus"

	"github.com/oprsmon/oprs/pkg/config"
	"github.com/oprsmon/oprs/pkg/export"
	"github.com/oprsmon/oprs/pkg/gui"
	"github.com/oprsmon/oprs/pkg/log"
	"github.com/oprsmon/oprs/pkg/manager"
	"github.com/oprsmon/oprs/pkg/metric"
	"github.com/oprsmon/oprs/pkg/procfs"
	"github.com/oprsmon/oprs/pkg/sysconf"
)

// App wires together the resolved configuration, the sampling manager, and
// the TUI controller into a runnable unit.
type App struct {
	closers []io.Closer

	Config *config.AppConfig
	Log    *logrus.Entry
	Gui    *gui.Gui
}

// NewApp resolves cfg's metric specs and target specs, builds the
// appropriate manager, and constructs the gui ready to Run. It returns an
// error for anything spec.md §7 classes as a spec error (abort-at-startup):
// unknown/duplicate metrics, invalid target syntax, or an unconstructible
// exporter.
func NewApp(cfg *config.AppConfig) (*App, error) {
	app := &App{
		closers: []io.Closer{},
		Config:  cfg,
	}
	app.Log = log.NewLogger(cfg)

	sys := sysconf.Load()
	reader := procfs.NewReader(sys)

	metrics, err := metric.Parse(cfg.Metrics)
	if err != nil {
		return app, fmt.Errorf("parsing metric specs: %w", err)
	}

	mgr, err := newManager(sys, cfg)
	if err != nil {
		return app, fmt.Errorf("resolving targets: %w", err)
	}

	var exporter export.Exporter
	if cfg.Export != nil && cfg.Export.Kind != "" && cfg.Export.Kind != "none" {
		exporter, err = newExporter(cfg.Export, cfg.Interval)
		if err != nil {
			return app, fmt.Errorf("configuring exporter: %w", err)
		}
	}

	guiCfg := gui.Config{
		Version:         cfg.Version,
		RefreshInterval: cfg.Interval,
		Mouse:           cfg.UserConfig.Gui.Mouse,
		Count:           cfg.Count,
	}
	if graphs := cfg.UserConfig.Stats.Graphs; len(graphs) > 0 {
		guiCfg.GraphCaption = graphs[0].Caption
		guiCfg.GraphHeight = graphs[0].Height
		guiCfg.GraphMinZero = graphs[0].MinType == "static" && graphs[0].Min == 0
	}

	app.Gui = gui.NewGui(app.Log, mgr, metrics, reader, guiCfg)
	app.Gui.Exporter = exporter

	return app, nil
}

// newManager builds a FlatManager over the explicit target list, or — when
// no targets were given — a ForestManager walking every userland process,
// the closest analogue to "monitor everything" in a target-less invocation.
func newManager(sys sysconf.Config, cfg *config.AppConfig) (manager.Manager, error) {
	if len(cfg.Targets) > 0 {
		return manager.NewFlatManager(sys, cfg.Targets)
	}
	return manager.NewForestManager(sys, manager.FilterUserLand, 0), nil
}

func newExporter(cfg *config.ExportConfig, interval time.Duration) (export.Exporter, error) {
	exportCfg := export.Config{
		Kind:        cfg.Kind,
		Dir:         cfg.Dir,
		SizeLimit:   cfg.SizeLimit,
		RotateCount: cfg.RotateCount,
		RRDTool:     cfg.RRDTool,
		Rows:        cfg.Rows,
		Graph:       cfg.Graph,
	}
	switch cfg.Kind {
	case "csv", "tsv":
		return export.NewCsvExporter(exportCfg)
	case "rrd":
		return export.NewRrdExporter(exportCfg, interval)
	default:
		return nil, fmt.Errorf("unknown export kind %q", cfg.Kind)
	}
}

// Run waits for a usable terminal, then hands off to the gui's own event
// loop until the user quits or Config.Count ticks elapse.
func (app *App) Run() error {
	if err := waitForTerminalSpace(); err != nil {
		return err
	}
	return app.Gui.Run()
}

func waitForTerminalSpace() error {
	width, height, err := terminal.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	if width > 0 && height > 0 {
		return nil
	}
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	select {
	case <-winch:
		return nil
	case <-time.After(time.Second):
		return fmt.Errorf("there is no available terminal space")
	}
}

// Close closes any resources opened outside of the gui/manager lifecycle.
func (app *App) Close() error {
	for _, closer := range app.closers {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	return nil
}
