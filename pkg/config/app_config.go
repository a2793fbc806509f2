// Package config handles the application and user configuration. Fields
// here are PascalCase but the config file (searched for in the XDG config
// home under the app name) is camelCase YAML. Settings not present in the
// file fall back to GetDefaultConfig's values, merged in with mergo.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/OpenPeeDeeP/xdg"
	"github.com/imdario/mergo"
	yaml "github.com/jesseduffield/yaml"
)

// ExportConfig configures where and how sampled metrics are written out,
// in addition to (or instead of) the live TUI.
type ExportConfig struct {
	// Kind is one of "none", "csv", "tsv", "rrd".
	Kind string `yaml:"kind,omitempty"`

	// Dir is the directory exported files are written into (csv/tsv files,
	// or the rrd databases and graphs).
	Dir string `yaml:"dir,omitempty"`

	// SizeLimit is the per-file rotation threshold in bytes, 0 = unbounded.
	SizeLimit int64 `yaml:"sizeLimit,omitempty"`

	// RotateCount caps how many files are kept per pid (the live file plus
	// RotateCount-1 rotated siblings); 0 disables rotation, and a SizeLimit
	// then requires a positive RotateCount.
	RotateCount int `yaml:"rotateCount,omitempty"`

	// RRDTool is the path to an rrdtool-compatible executable (rrd export only).
	RRDTool string `yaml:"rrdTool,omitempty"`

	// Rows is how many rows rrdtool keeps per RRA (rrd export only).
	Rows int `yaml:"rows,omitempty"`

	// Graph additionally asks the rrd exporter to render one PNG graph per
	// metric, overlaying every live pid.
	Graph bool `yaml:"graph,omitempty"`
}

// AppConfig is the fully resolved configuration for one run: the CLI flags
// parsed by main, plus the loaded-and-merged UserConfig.
type AppConfig struct {
	Name    string
	Version string
	Debug   bool

	// Metrics is the set of metric specs (e.g. "mem:rss+min+max") to sample
	// and report, in the order columns should appear.
	Metrics []string

	// Targets is the set of target specs (a pid, a path ending in ".pid",
	// a process name, or "system") to monitor.
	Targets []string

	Interval    time.Duration
	Count       int // 0 = unbounded
	Theme       string
	HumanFormat bool
	Export      *ExportConfig

	UserConfig *UserConfig
	ConfigDir  string
}

// NewAppConfig loads (creating if absent) the user config file for name
// from its XDG config directory, merges it over GetDefaultConfig with
// mergo, and returns an AppConfig with no run-specific fields populated
// yet — main fills those in from parsed CLI flags.
func NewAppConfig(name, version string, debug bool) (*AppConfig, error) {
	configDir, err := findOrCreateConfigDir(name)
	if err != nil {
		return nil, err
	}

	userConfig, err := loadUserConfigWithDefaults(configDir)
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		Name:       name,
		Version:    version,
		Debug:      debug || os.Getenv("OPRS_DEBUG") == "TRUE",
		UserConfig: userConfig,
		ConfigDir:  configDir,
	}, nil
}

func configDirForVendor(vendor string, projectName string) string {
	if envConfigDir := os.Getenv("OPRS_CONFIG_DIR"); envConfigDir != "" {
		return envConfigDir
	}
	return xdg.New(vendor, projectName).ConfigHome()
}

func findOrCreateConfigDir(projectName string) (string, error) {
	folder := configDirForVendor("", projectName)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", err
	}
	return folder, nil
}

func loadUserConfigWithDefaults(configDir string) (*UserConfig, error) {
	defaults := GetDefaultConfig()
	return loadUserConfig(configDir, &defaults)
}

// loadUserConfig reads config.yml (creating an empty one if absent) into a
// fresh UserConfig and merges it over base, the values already present in
// base winning only where the file leaves a field at its zero value.
func loadUserConfig(configDir string, base *UserConfig) (*UserConfig, error) {
	fileName := filepath.Join(configDir, "config.yml")

	if _, err := os.Stat(fileName); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		file, err := os.Create(fileName)
		if err != nil {
			return nil, err
		}
		file.Close()
	}

	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	var fromFile UserConfig
	if err := yaml.Unmarshal(content, &fromFile); err != nil {
		return nil, err
	}

	if err := mergo.Merge(base, fromFile, mergo.WithOverride); err != nil {
		return nil, err
	}

	return base, nil
}

// ConfigFilename returns the filename of the current config file.
func (c *AppConfig) ConfigFilename() string {
	return filepath.Join(c.ConfigDir, "config.yml")
}
