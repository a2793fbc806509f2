package gui

import (
	"github.com/jesseduffield/gocui"
)

// SearchPrefix is shown beside the editable search view while PaneMain is
// in incremental-search mode.
const SearchPrefix = "search: "

// Views holds every gocui.View the controller manages: the always-present
// Main table and bottom Options/Search line, plus Detail, which is
// repurposed for whichever Process* or Help pane is currently on top of
// the pane stack.
type Views struct {
	Main   *gocui.View
	Detail *gocui.View

	Options      *gocui.View
	SearchPrefix *gocui.View
	Search       *gocui.View
}

func (gui *Gui) createAllViews() error {
	var err error
	onErr := func(e error) bool {
		if e != nil && e.Error() != "unknown view" {
			err = e
			return true
		}
		return false
	}

	mainView, e := gui.g.SetView("main", 0, 0, 10, 10, 0)
	if onErr(e) {
		return err
	}
	mainView.FgColor = gocui.ColorDefault
	mainView.Highlight = true
	gui.Views.Main = mainView

	detailView, e := gui.g.SetView("detail", 0, 0, 10, 10, 0)
	if onErr(e) {
		return err
	}
	detailView.FgColor = gocui.ColorDefault
	detailView.Wrap = true
	gui.Views.Detail = detailView

	optionsView, e := gui.g.SetView("options", 0, 0, 10, 2, 0)
	if onErr(e) {
		return err
	}
	optionsView.Frame = false
	optionsView.FgColor = gocui.ColorDefault
	gui.Views.Options = optionsView

	searchPrefixView, e := gui.g.SetView("searchPrefix", 0, 0, 10, 2, 0)
	if onErr(e) {
		return err
	}
	searchPrefixView.Frame = false
	searchPrefixView.FgColor = gocui.ColorCyan
	gui.Views.SearchPrefix = searchPrefixView

	searchView, e := gui.g.SetView("search", 0, 0, 10, 2, 0)
	if onErr(e) {
		return err
	}
	searchView.Frame = false
	searchView.BgColor = gocui.ColorDefault
	searchView.FgColor = gocui.ColorGreen
	searchView.Editable = true
	gui.Views.Search = searchView

	if _, err := gui.g.SetCurrentView("main"); err != nil {
		return err
	}

	return nil
}
