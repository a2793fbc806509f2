package gui

import (
	"github.com/jesseduffield/gocui"

	"github.com/oprsmon/oprs/pkg/gui/keybindings"
)

// binding maps a key, scoped to a view (empty string for global), to a
// gocui handler. description is shown by the cheatsheet generator; a
// blank description hides the binding from the cheatsheet (used for
// aliases of an already-documented binding).
type binding struct {
	viewName    string
	key         interface{}
	modifier    gocui.Modifier
	handler     func(*gocui.Gui, *gocui.View) error
	description string
}

func (gui *Gui) keybindings(g *gocui.Gui) error {
	bindings := gui.bindingList()
	for _, b := range bindings {
		if b.key == nil {
			continue
		}
		if err := g.SetKeybinding(b.viewName, b.key, b.modifier, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func (gui *Gui) bindingList() []binding {
	key := keybindings.GetKey

	return []binding{
		{"", key("q"), gocui.ModNone, gui.escape, "quit (from the main pane), or go back a pane"},
		{"", key("<esc>"), gocui.ModNone, gui.escape, ""},
		{"", key("<c-c>"), gocui.ModNone, gui.quit, "quit"},

		{"main", key("<down>"), gocui.ModNone, gui.mainSelectNext, "select next process"},
		{"main", key("j"), gocui.ModNone, gui.mainSelectNext, ""},
		{"main", key("<up>"), gocui.ModNone, gui.mainSelectPrev, "select previous process"},
		{"main", key("k"), gocui.ModNone, gui.mainSelectPrev, ""},
		{"main", key("<pgdown>"), gocui.ModNone, gui.mainNextPage, "page down"},
		{"main", key("<pgup>"), gocui.ModNone, gui.mainPreviousPage, "page up"},
		{"main", key("g"), gocui.ModNone, gui.mainFirst, "jump to first process"},
		{"main", key("G"), gocui.ModNone, gui.mainLast, "jump to last process"},

		{"main", key("m"), gocui.ModNone, gui.mainToggleMark, "toggle mark on the selected process (or all matches while searching)"},
		{"main", key("n"), gocui.ModNone, gui.mainNextMarkOrMatch, "jump to next mark or search match"},
		{"main", key("N"), gocui.ModNone, gui.mainPreviousMarkOrMatch, "jump to previous mark or search match"},
		{"main", key("/"), gocui.ModNone, gui.mainStartSearch, "search processes by name"},

		{"main", key("<enter>"), gocui.ModNone, gui.openDetails, "show process details"},
		{"main", key("d"), gocui.ModNone, gui.openDetails, ""},
		{"main", key("e"), gocui.ModNone, gui.openEnvironment, "show process environment"},
		{"main", key("f"), gocui.ModNone, gui.openFiles, "show open file descriptors"},
		{"main", key("M"), gocui.ModNone, gui.openMaps, "show memory maps"},
		{"main", key("L"), gocui.ModNone, gui.openLimits, "show resource limits"},
		{"main", key("?"), gocui.ModNone, gui.openHelp, "show the keybinding cheatsheet"},

		{"search", key("<enter>"), gocui.ModNone, gui.searchCommit, "commit the search and return to the main pane"},
		{"search", key("<esc>"), gocui.ModNone, gui.searchCancel, "cancel the search"},
		{"search", key("<backspace>"), gocui.ModNone, gui.searchBackspace, "delete the last search character"},
	}
}

// Binding is a display-only projection of one keybinding, for the
// cheatsheet generator.
type Binding struct {
	ViewName    string
	Key         string
	Description string
}

// GetInitialKeybindings returns every keybinding with a non-empty
// description, in registration order.
func (gui *Gui) GetInitialKeybindings() []Binding {
	list := gui.bindingList()
	out := make([]Binding, 0, len(list))
	for _, b := range list {
		if b.description == "" {
			continue
		}
		out = append(out, Binding{
			ViewName:    b.viewName,
			Key:         keybindings.LabelFromKey(b.key),
			Description: b.description,
		})
	}
	return out
}

func (gui *Gui) mainSelectNext(g *gocui.Gui, v *gocui.View) error {
	gui.Axes[PaneMain].Vertical.Next()
	return gui.renderMain()
}

func (gui *Gui) mainSelectPrev(g *gocui.Gui, v *gocui.View) error {
	gui.Axes[PaneMain].Vertical.Previous()
	return gui.renderMain()
}

func (gui *Gui) mainNextPage(g *gocui.Gui, v *gocui.View) error {
	gui.Axes[PaneMain].Vertical.NextPage()
	return gui.renderMain()
}

func (gui *Gui) mainPreviousPage(g *gocui.Gui, v *gocui.View) error {
	gui.Axes[PaneMain].Vertical.PreviousPage()
	return gui.renderMain()
}

func (gui *Gui) mainFirst(g *gocui.Gui, v *gocui.View) error {
	gui.Axes[PaneMain].Vertical.First()
	return gui.renderMain()
}

func (gui *Gui) mainLast(g *gocui.Gui, v *gocui.View) error {
	gui.Axes[PaneMain].Vertical.Last()
	return gui.renderMain()
}

func (gui *Gui) mainToggleMark(g *gocui.Gui, v *gocui.View) error {
	gui.Bookmarks.SetAction(BookmarkActionToggleMarks)
	return gui.renderMain()
}

func (gui *Gui) mainNextMarkOrMatch(g *gocui.Gui, v *gocui.View) error {
	gui.Bookmarks.SetAction(BookmarkActionNext)
	return gui.renderMain()
}

func (gui *Gui) mainPreviousMarkOrMatch(g *gocui.Gui, v *gocui.View) error {
	gui.Bookmarks.SetAction(BookmarkActionPrevious)
	return gui.renderMain()
}

func (gui *Gui) mainStartSearch(g *gocui.Gui, v *gocui.View) error {
	gui.Bookmarks.IncrementalSearch()
	return nil
}

func (gui *Gui) searchCommit(g *gocui.Gui, v *gocui.View) error {
	gui.Bookmarks.FixedSearch()
	_, _ = g.SetCurrentView("main")
	return nil
}

func (gui *Gui) searchCancel(g *gocui.Gui, v *gocui.View) error {
	gui.Bookmarks.ClearSearch()
	_, _ = g.SetCurrentView("main")
	return nil
}

func (gui *Gui) searchBackspace(g *gocui.Gui, v *gocui.View) error {
	gui.Bookmarks.EditSearch(SearchPop, 0)
	return nil
}

func (gui *Gui) openDetails(g *gocui.Gui, v *gocui.View) error {
	return gui.openPane(PaneProcessDetails)
}

func (gui *Gui) openEnvironment(g *gocui.Gui, v *gocui.View) error {
	return gui.openPane(PaneProcessEnvironment)
}

func (gui *Gui) openFiles(g *gocui.Gui, v *gocui.View) error {
	return gui.openPane(PaneProcessFiles)
}

func (gui *Gui) openMaps(g *gocui.Gui, v *gocui.View) error {
	return gui.openPane(PaneProcessMaps)
}

func (gui *Gui) openLimits(g *gocui.Gui, v *gocui.View) error {
	return gui.openPane(PaneProcessLimits)
}

func (gui *Gui) openHelp(g *gocui.Gui, v *gocui.View) error {
	return gui.openPane(PaneHelp)
}

// openPane pushes pane and renders its content immediately so the view
// isn't blank for the one frame before the next tick.
func (gui *Gui) openPane(pane Pane) error {
	gui.Panes.Push(pane)
	return gui.renderDetail()
}
