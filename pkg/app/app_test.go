package app

import (
	"testing"
	"time"

	"github.com/oprsmon/oprs/pkg/config"
)

func testAppConfig(t *testing.T, metrics, targets []string) *config.AppConfig {
	t.Helper()
	t.Setenv("OPRS_CONFIG_DIR", t.TempDir())

	cfg, err := config.NewAppConfig("oprs", "test-version", false)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	cfg.Metrics = metrics
	cfg.Targets = targets
	cfg.Interval = time.Second
	return cfg
}

func TestNewAppWithExplicitTargets(t *testing.T) {
	cfg := testAppConfig(t, []string{"mem:rss"}, []string{"system"})

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if app.Gui == nil {
		t.Fatal("expected Gui to be initialized")
	}
	if app.Log == nil {
		t.Fatal("expected Log to be initialized")
	}
}

func TestNewAppDefaultsToForestManagerWithoutTargets(t *testing.T) {
	cfg := testAppConfig(t, []string{"mem:rss"}, nil)

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if app.Gui.Mgr == nil {
		t.Fatal("expected a manager to be constructed")
	}
}

func TestNewAppRejectsUnknownMetric(t *testing.T) {
	cfg := testAppConfig(t, []string{"nonsense:metric"}, []string{"system"})

	if _, err := NewApp(cfg); err == nil {
		t.Fatal("expected an error for an unknown metric spec")
	}
}

func TestNewAppRejectsInvalidTargetSpec(t *testing.T) {
	cfg := testAppConfig(t, []string{"mem:rss"}, []string{""})

	if _, err := NewApp(cfg); err == nil {
		t.Fatal("expected an error for an empty target spec")
	}
}

func TestNewAppRejectsUnknownExportKind(t *testing.T) {
	cfg := testAppConfig(t, []string{"mem:rss"}, []string{"system"})
	cfg.Export = &config.ExportConfig{Kind: "xml"}

	if _, err := NewApp(cfg); err == nil {
		t.Fatal("expected an error for an unsupported export kind")
	}
}

func TestNewAppWiresCsvExporter(t *testing.T) {
	cfg := testAppConfig(t, []string{"mem:rss"}, []string{"system"})
	cfg.Export = &config.ExportConfig{Kind: "csv", Dir: t.TempDir()}

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if app.Gui.Exporter == nil {
		t.Fatal("expected a csv Exporter to be wired onto the gui")
	}
}

func TestNewAppPropagatesGraphDefaults(t *testing.T) {
	cfg := testAppConfig(t, []string{"time:cpu+ratio"}, []string{"system"})

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if app.Gui.Config.GraphCaption != "cpu %" {
		t.Errorf("expected default graph caption 'cpu %%', got %q", app.Gui.Config.GraphCaption)
	}
	if !app.Gui.Config.GraphMinZero {
		t.Error("expected the default cpu graph to pin its floor to zero")
	}
}
