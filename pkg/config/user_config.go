package config

import "time"

// KeybindingConfig contains all the keybinding configuration for the
// controller: one context per gocui view it's scoped to, plus the
// universal bindings that apply regardless of which view is focused.
type KeybindingConfig struct {
	Universal KeybindingUniversalConfig `yaml:"universal,omitempty"`
	Main      KeybindingMainConfig      `yaml:"main,omitempty"`
	Search    KeybindingSearchConfig    `yaml:"search,omitempty"`
}

// KeybindingUniversalConfig contains keybindings available regardless of
// which pane is focused.
type KeybindingUniversalConfig struct {
	Quit    string `yaml:"quit,omitempty"`
	QuitAlt string `yaml:"quitAlt,omitempty"`
	Back    string `yaml:"back,omitempty"`
}

// KeybindingMainConfig contains keybindings scoped to the main process
// table: motion, marks/search, and opening a detail pane.
type KeybindingMainConfig struct {
	Up         string `yaml:"up,omitempty"`
	UpAlt      string `yaml:"upAlt,omitempty"`
	Down       string `yaml:"down,omitempty"`
	DownAlt    string `yaml:"downAlt,omitempty"`
	PageUp     string `yaml:"pageUp,omitempty"`
	PageDown   string `yaml:"pageDown,omitempty"`
	First      string `yaml:"first,omitempty"`
	Last       string `yaml:"last,omitempty"`
	ToggleMark string `yaml:"toggleMark,omitempty"`
	NextMatch  string `yaml:"nextMatch,omitempty"`
	PrevMatch  string `yaml:"prevMatch,omitempty"`
	Search     string `yaml:"search,omitempty"`

	OpenDetails     string `yaml:"openDetails,omitempty"`
	OpenDetailsAlt  string `yaml:"openDetailsAlt,omitempty"`
	OpenEnvironment string `yaml:"openEnvironment,omitempty"`
	OpenFiles       string `yaml:"openFiles,omitempty"`
	OpenMaps        string `yaml:"openMaps,omitempty"`
	OpenLimits      string `yaml:"openLimits,omitempty"`
	OpenHelp        string `yaml:"openHelp,omitempty"`
}

// KeybindingSearchConfig contains keybindings scoped to the search editor.
type KeybindingSearchConfig struct {
	Commit    string `yaml:"commit,omitempty"`
	Cancel    string `yaml:"cancel,omitempty"`
	Backspace string `yaml:"backspace,omitempty"`
}

// GetDefaultKeybindings returns the default keybinding configuration —
// the same keys pkg/gui/keybindings.go's bindingList registers with gocui.
// bindingList hard-codes those keys and does not read a KeybindingConfig,
// so these values, and any user override of them, are not consulted when
// keys are bound.
func GetDefaultKeybindings() KeybindingConfig {
	return KeybindingConfig{
		Universal: KeybindingUniversalConfig{
			Quit:    "q",
			QuitAlt: "<c-c>",
			Back:    "<esc>",
		},
		Main: KeybindingMainConfig{
			Up:              "<up>",
			UpAlt:           "k",
			Down:            "<down>",
			DownAlt:         "j",
			PageUp:          "<pgup>",
			PageDown:        "<pgdown>",
			First:           "g",
			Last:            "G",
			ToggleMark:      "m",
			NextMatch:       "n",
			PrevMatch:       "N",
			Search:          "/",
			OpenDetails:     "<enter>",
			OpenDetailsAlt:  "d",
			OpenEnvironment: "e",
			OpenFiles:       "f",
			OpenMaps:        "M",
			OpenLimits:      "L",
			OpenHelp:        "?",
		},
		Search: KeybindingSearchConfig{
			Commit:    "<enter>",
			Cancel:    "<esc>",
			Backspace: "<backspace>",
		},
	}
}

// ThemeConfig is for setting the colors of panel borders and text.
type ThemeConfig struct {
	ActiveBorderColor   []string `yaml:"activeBorderColor,omitempty"`
	InactiveBorderColor []string `yaml:"inactiveBorderColor,omitempty"`
	OptionsTextColor    []string `yaml:"optionsTextColor,omitempty"`
}

// GuiConfig configures the look of the controller.
type GuiConfig struct {
	// ScrollHeight determines how many lines a page-up/page-down moves
	// the main table by.
	ScrollHeight int `yaml:"scrollHeight,omitempty"`

	// Mouse enables mouse interaction with the main table and panes.
	Mouse bool `yaml:"mouse,omitempty"`

	// HumanFormat is OR-ed with the --human flag into AppConfig.HumanFormat.
	// No renderer reads that field: metric columns are always rendered
	// through their formatter (e.g. "1.0 M", "1h 3m 12s"), set or not.
	HumanFormat bool `yaml:"humanFormat,omitempty"`

	Theme ThemeConfig `yaml:"theme,omitempty"`
}

// GraphConfig specifies one sparkline the process-details pane can plot
// from a tracked process's history.
type GraphConfig struct {
	// Metric is a metric spec string (e.g. "time:cpu+ratio") naming the
	// ratio-aggregated column to graph. Only a ratio aggregation makes
	// sense as a bounded-scale sparkline.
	Metric string `yaml:"metric,omitempty"`

	Min     float64 `yaml:"min,omitempty"`
	Max     float64 `yaml:"max,omitempty"`
	MinType string  `yaml:"minType,omitempty"`
	MaxType string  `yaml:"maxType,omitempty"`
	Height  int     `yaml:"height,omitempty"`
	Caption string  `yaml:"caption,omitempty"`
	Color   string  `yaml:"color,omitempty"`
}

// StatsConfig contains the stuff relating to the process-details
// sparkline history.
type StatsConfig struct {
	Graphs      []GraphConfig `yaml:"graphs,omitempty"`
	MaxDuration time.Duration `yaml:"maxDuration,omitempty"`
}

// UserConfig holds all of the user-configurable options, loaded from
// (and merged over the defaults from) the XDG config file.
type UserConfig struct {
	Gui        GuiConfig        `yaml:"gui,omitempty"`
	Keybinding KeybindingConfig `yaml:"keybinding,omitempty"`
	Stats      StatsConfig      `yaml:"stats,omitempty"`

	// ConfirmOnQuit prompts for confirmation on q/esc/ctrl-c at the root
	// pane, rather than quitting immediately.
	ConfirmOnQuit bool `yaml:"confirmOnQuit,omitempty"`
}

// GetDefaultConfig returns the application default configuration. NOTE
// (to contributors, not users): do not default a boolean to true,
// because false is the boolean zero value and will be indistinguishable
// from "not set" once merged against a user config. HumanFormat is the
// one exception: it defaults to true, so a config file cannot turn it off.
func GetDefaultConfig() UserConfig {
	return UserConfig{
		Gui: GuiConfig{
			ScrollHeight: 2,
			Mouse:        false,
			HumanFormat:  true,
			Theme: ThemeConfig{
				ActiveBorderColor:   []string{"green", "bold"},
				InactiveBorderColor: []string{"default"},
				OptionsTextColor:    []string{"blue"},
			},
		},
		Keybinding:    GetDefaultKeybindings(),
		ConfirmOnQuit: false,
		Stats: StatsConfig{
			MaxDuration: 5 * time.Minute,
			Graphs: []GraphConfig{
				{
					Metric:  "time:cpu+ratio",
					Caption: "cpu %",
					Color:   "cyan",
					Height:  8,
					MinType: "static",
					Min:     0,
				},
			},
		},
	}
}
