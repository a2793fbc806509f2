package config

import (
	"testing"

	yaml "github.com/jesseduffield/yaml"
)

func TestGetDefaultKeybindings(t *testing.T) {
	defaults := GetDefaultKeybindings()

	if defaults.Universal.Quit != "q" {
		t.Errorf("Expected Universal.Quit to be 'q', got '%s'", defaults.Universal.Quit)
	}
	if defaults.Universal.QuitAlt != "<c-c>" {
		t.Errorf("Expected Universal.QuitAlt to be '<c-c>', got '%s'", defaults.Universal.QuitAlt)
	}
	if defaults.Universal.Back != "<esc>" {
		t.Errorf("Expected Universal.Back to be '<esc>', got '%s'", defaults.Universal.Back)
	}

	if defaults.Main.Up != "<up>" {
		t.Errorf("Expected Main.Up to be '<up>', got '%s'", defaults.Main.Up)
	}
	if defaults.Main.ToggleMark != "m" {
		t.Errorf("Expected Main.ToggleMark to be 'm', got '%s'", defaults.Main.ToggleMark)
	}
	if defaults.Main.OpenDetails != "<enter>" {
		t.Errorf("Expected Main.OpenDetails to be '<enter>', got '%s'", defaults.Main.OpenDetails)
	}

	if defaults.Search.Commit != "<enter>" {
		t.Errorf("Expected Search.Commit to be '<enter>', got '%s'", defaults.Search.Commit)
	}
}

func TestKeybindingConfigYAMLUnmarshal(t *testing.T) {
	yamlContent := `
universal:
  quit: 'Q'
main:
  up: 'K'
  down: 'J'
search:
  cancel: 'C-c'
`

	var config KeybindingConfig
	if err := yaml.Unmarshal([]byte(yamlContent), &config); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}

	if config.Universal.Quit != "Q" {
		t.Errorf("Expected Quit to be 'Q', got '%s'", config.Universal.Quit)
	}
	if config.Main.Up != "K" {
		t.Errorf("Expected Main.Up to be 'K', got '%s'", config.Main.Up)
	}
	if config.Main.Down != "J" {
		t.Errorf("Expected Main.Down to be 'J', got '%s'", config.Main.Down)
	}
	if config.Search.Cancel != "C-c" {
		t.Errorf("Expected Search.Cancel to be 'C-c', got '%s'", config.Search.Cancel)
	}
}

func TestKeybindingConfigYAMLMerge(t *testing.T) {
	defaults := GetDefaultKeybindings()

	yamlContent := `
universal:
  quit: 'X'
main:
  toggleMark: 'R'
`

	if err := yaml.Unmarshal([]byte(yamlContent), &defaults); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}

	if defaults.Universal.Quit != "X" {
		t.Errorf("Expected Quit to be overridden to 'X', got '%s'", defaults.Universal.Quit)
	}
	if defaults.Main.ToggleMark != "R" {
		t.Errorf("Expected Main.ToggleMark to be overridden to 'R', got '%s'", defaults.Main.ToggleMark)
	}

	// non-overridden values should remain at their defaults.
	if defaults.Universal.QuitAlt != "<c-c>" {
		t.Errorf("Expected QuitAlt to remain '<c-c>', got '%s'", defaults.Universal.QuitAlt)
	}
	if defaults.Main.Down != "<down>" {
		t.Errorf("Expected Main.Down to remain '<down>', got '%s'", defaults.Main.Down)
	}
}

func TestKeybindingConfigSpecialKeys(t *testing.T) {
	yamlContent := `
universal:
  quit: '<f1>'
  quitAlt: '<c-c>'
  back: '<esc>'
main:
  pageUp: '<pgup>'
  pageDown: '<pgdown>'
  up: '<up>'
  down: '<down>'
  openDetails: '<enter>'
`

	var config KeybindingConfig
	if err := yaml.Unmarshal([]byte(yamlContent), &config); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"F1", config.Universal.Quit, "<f1>"},
		{"Ctrl-C", config.Universal.QuitAlt, "<c-c>"},
		{"Escape", config.Universal.Back, "<esc>"},
		{"PageUp", config.Main.PageUp, "<pgup>"},
		{"PageDown", config.Main.PageDown, "<pgdown>"},
		{"Up Arrow", config.Main.Up, "<up>"},
		{"Down Arrow", config.Main.Down, "<down>"},
		{"Enter", config.Main.OpenDetails, "<enter>"},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: expected '%s', got '%s'", tt.name, tt.expected, tt.got)
		}
	}
}

func TestKeybindingConfigDisabled(t *testing.T) {
	yamlContent := `
universal:
  quit: '<disabled>'
main:
  toggleMark: '<disabled>'
`

	var config KeybindingConfig
	if err := yaml.Unmarshal([]byte(yamlContent), &config); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}

	if config.Universal.Quit != "<disabled>" {
		t.Errorf("Expected Quit to be '<disabled>', got '%s'", config.Universal.Quit)
	}
	if config.Main.ToggleMark != "<disabled>" {
		t.Errorf("Expected Main.ToggleMark to be '<disabled>', got '%s'", config.Main.ToggleMark)
	}
}

func TestKeybindingConfigAllSections(t *testing.T) {
	config := GetDefaultKeybindings()

	if config.Universal.Quit == "" {
		t.Error("Universal section missing Quit field")
	}
	if config.Main.Up == "" {
		t.Error("Main section missing Up field")
	}
	if config.Main.OpenDetails == "" {
		t.Error("Main section missing OpenDetails field")
	}
	if config.Search.Commit == "" {
		t.Error("Search section missing Commit field")
	}
}

func TestGetDefaultConfigGraphs(t *testing.T) {
	defaults := GetDefaultConfig()

	if len(defaults.Stats.Graphs) != 1 {
		t.Fatalf("expected exactly one default graph, got %d", len(defaults.Stats.Graphs))
	}
	graph := defaults.Stats.Graphs[0]
	if graph.Metric != "time:cpu+ratio" {
		t.Errorf("expected default graph metric 'time:cpu+ratio', got '%s'", graph.Metric)
	}
	if graph.MinType != "static" || graph.Min != 0 {
		t.Errorf("expected default graph floor pinned to 0, got MinType=%s Min=%v", graph.MinType, graph.Min)
	}
}
