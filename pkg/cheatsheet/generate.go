// This "script" generates a file called Keybindings.md in the
// keybindings docs directory.
//
// The content of this generated file is a keybindings cheatsheet.
//
// To regenerate it, run:
//   go run ./scripts/generate_cheatsheet.go

package cheatsheet

import (
	"fmt"
	"log"
	"os"

	"github.com/oprsmon/oprs/pkg/app"
	"github.com/oprsmon/oprs/pkg/config"
	"github.com/oprsmon/oprs/pkg/gui"
)

const (
	generateCheatsheetCmd = "go run scripts/generate_cheatsheet.go"
)

type bindingSection struct {
	title    string
	bindings []gui.Binding
}

func Generate() {
	generateAtDir(GetKeybindingsDir())
}

// GetKeybindingsDir returns where the generated cheatsheet lives, relative
// to the project root.
func GetKeybindingsDir() string {
	return "docs/keybindings"
}

func generateAtDir(dir string) {
	mConfig, err := config.NewAppConfig("oprs", "", true)
	if err != nil {
		panic(err)
	}
	mConfig.Metrics = []string{"mem:rss"}
	mConfig.Targets = []string{"system"}

	mApp, err := app.NewApp(mConfig)
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		panic(err)
	}

	file, err := os.Create(dir + "/Keybindings.md")
	if err != nil {
		panic(err)
	}
	defer file.Close()

	bindingSections := getBindingSections(mApp)
	content := formatSections(bindingSections)
	content = fmt.Sprintf(
		"_This file is auto-generated. To update, make the changes in "+
			"pkg/gui/keybindings.go and then run `%s` from the project root._\n\n%s",
		generateCheatsheetCmd,
		content,
	)
	writeString(file, content)
}

func writeString(file *os.File, str string) {
	if _, err := file.WriteString(str); err != nil {
		log.Fatal(err)
	}
}

func formatTitle(title string) string {
	return fmt.Sprintf("\n## %s\n\n", title)
}

func formatBinding(binding gui.Binding) string {
	return fmt.Sprintf("  <kbd>%s</kbd>: %s\n", binding.Key, binding.Description)
}

func getBindingSections(mApp *app.App) []*bindingSection {
	bindingSections := []*bindingSection{}

	titleMap := map[string]string{
		"global": "Global",
		"main":   "Main",
		"search": "Search",
	}

	for _, binding := range mApp.Gui.GetInitialKeybindings() {
		viewName := binding.ViewName
		if viewName == "" {
			viewName = "global"
		}

		title, ok := titleMap[viewName]
		if !ok {
			title = viewName
		}

		bindingSections = addBinding(title, bindingSections, binding)
	}

	return bindingSections
}

func addBinding(title string, bindingSections []*bindingSection, binding gui.Binding) []*bindingSection {
	for _, section := range bindingSections {
		if title == section.title {
			section.bindings = append(section.bindings, binding)
			return bindingSections
		}
	}

	return append(bindingSections, &bindingSection{
		title:    title,
		bindings: []gui.Binding{binding},
	})
}

func formatSections(bindingSections []*bindingSection) string {
	content := "# oprs keybindings\n"

	for _, section := range bindingSections {
		content += formatTitle(section.title)
		content += "<pre>\n"
		for _, binding := range section.bindings {
			content += formatBinding(binding)
		}
		content += "</pre>\n"
	}

	return content
}
