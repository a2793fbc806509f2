package gui

import (
	"github.com/jesseduffield/gocui"
)

// layout is called on every render (startup, resize, or an explicit
// Update): it positions every view for the current pane and writes
// whatever that pane's content currently is.
func (gui *Gui) layout(g *gocui.Gui) error {
	g.Highlight = true
	width, height := g.Size()

	minimumHeight := 6
	minimumWidth := 20
	if height < minimumHeight || width < minimumWidth {
		return nil
	}

	bottomHeight := 2
	usableHeight := height - bottomHeight

	current := gui.Panes.Current()
	detailVisible := current != PaneMain

	mainHeight := usableHeight
	if detailVisible {
		mainHeight = usableHeight / 2
	}

	if _, err := g.SetView("main", 0, 0, width-1, mainHeight-1, 0); err != nil {
		if err.Error() != "unknown view" {
			return err
		}
	}

	if detailVisible {
		if v, err := g.SetView("detail", 0, mainHeight, width-1, usableHeight-1, 0); err != nil {
			if err.Error() != "unknown view" {
				return err
			}
			v.Title = current.String()
		} else {
			v.Title = current.String()
			if _, err := g.SetViewOnTop("detail"); err != nil {
				return err
			}
		}
	} else {
		_, _ = g.SetViewOnBottom("detail")
	}

	optionsWidth := width
	if _, ok := gui.Bookmarks.SearchPattern(); ok && gui.Bookmarks.IsIncrementalSearch() {
		prefixWidth := len(SearchPrefix)
		if v, err := g.SetView("searchPrefix", -1, height-2, prefixWidth, height, 0); err == nil || err.Error() == "unknown view" {
			if v != nil {
				_ = gui.setViewContent(v, SearchPrefix)
			}
		}
		if v, err := g.SetView("search", prefixWidth-1, height-2, width, height, 0); err == nil || err.Error() == "unknown view" {
			if v != nil {
				if _, err := g.SetCurrentView("search"); err != nil {
					return err
				}
			}
		}
		optionsWidth = 0
	} else {
		_, _ = g.SetViewOnBottom("searchPrefix")
		_, _ = g.SetViewOnBottom("search")
	}

	if optionsWidth > 0 {
		if v, err := g.SetView("options", -1, height-2, width, height, 0); err != nil {
			if err.Error() != "unknown view" {
				return err
			}
		} else {
			_ = gui.setViewContent(v, gui.optionsLine())
		}
	}

	if detailVisible {
		if err := gui.renderDetail(); err != nil {
			return err
		}
	}

	return gui.renderMain()
}

func (gui *Gui) optionsLine() string {
	current := gui.Panes.Current()
	if current != PaneMain {
		return "esc/q: back"
	}
	return "arrows/jk: move  enter: details  m: mark  /: search  n/N: next/prev  esc/q: quit"
}
