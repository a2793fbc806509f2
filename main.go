package main

import (
	"fmt"
	"log"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-errors/errors"
	"github.com/integrii/flaggy"
	"github.com/samber/lo"

	"github.com/oprsmon/oprs/pkg/app"
	"github.com/oprsmon/oprs/pkg/config"
	"github.com/oprsmon/oprs/pkg/utils"
)

const DEFAULT_VERSION = "unversioned"

var (
	commit  string
	version = DEFAULT_VERSION
	date    string

	metrics       []string
	targets       []string
	intervalSecs  = 1.0
	count         = 0
	exportKind    = "none"
	humanFlag     = false
	themeFlag     = ""
	debuggingFlag = false
)

func main() {
	updateBuildInfo()

	info := fmt.Sprintf(
		"%s\nDate: %s\nCommit: %s\nOS: %s\nArch: %s",
		version, date, commit, runtime.GOOS, runtime.GOARCH,
	)

	flaggy.SetName("oprs")
	flaggy.SetDescription("a terminal process resource monitor")

	flaggy.StringSlice(&metrics, "m", "metric", "a metric spec to sample, repeatable (e.g. mem:rss+max)")
	flaggy.StringSlice(&targets, "t", "target", "a target spec to monitor, repeatable (pid, pidfile path, process name, or 'system')")
	flaggy.Float64(&intervalSecs, "i", "interval", "sampling interval in seconds, fractional allowed")
	flaggy.Int(&count, "c", "count", "number of samples to take before exiting, 0 for unbounded")
	flaggy.String(&exportKind, "e", "export", "export format: none, csv, tsv, or rrd")
	flaggy.Bool(&humanFlag, "", "human", "render values through their human-readable formatter")
	flaggy.String(&themeFlag, "", "theme", "color theme name")
	flaggy.Bool(&debuggingFlag, "d", "debug", "enable debug logging")
	flaggy.SetVersion(info)

	flaggy.Parse()

	appConfig, err := config.NewAppConfig("oprs", version, debuggingFlag)
	if err != nil {
		log.Fatal(err.Error())
	}

	appConfig.Metrics = metrics
	appConfig.Targets = targets
	appConfig.Interval = time.Duration(intervalSecs * float64(time.Second))
	appConfig.Count = count
	appConfig.Theme = themeFlag
	appConfig.HumanFormat = humanFlag || appConfig.UserConfig.Gui.HumanFormat
	if exportKind != "" && exportKind != "none" {
		appConfig.Export = &config.ExportConfig{
			Kind: exportKind,
			Dir:  appConfig.ConfigDir,
			Rows: 1200,
		}
	}

	runApp(appConfig)
}

func runApp(appConfig *config.AppConfig) {
	theApp, err := app.NewApp(appConfig)
	if err == nil {
		err = theApp.Run()
	}
	if theApp != nil {
		theApp.Close()
	}

	if err != nil {
		newErr := errors.Wrap(err, 0)
		stackTrace := newErr.ErrorStack()
		if theApp != nil && theApp.Log != nil {
			theApp.Log.Error(stackTrace)
		}
		log.Fatalf("oprs encountered an error:\n\n%s", stackTrace)
	}
}

func updateBuildInfo() {
	if version == DEFAULT_VERSION {
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			revision, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
				return setting.Key == "vcs.revision"
			})
			if ok {
				commit = revision.Value
				version = utils.SafeTruncate(revision.Value, 7)
			}

			buildTime, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
				return setting.Key == "vcs.time"
			})
			if ok {
				date = buildTime.Value
			}
		}
	}
}
