package gui

import (
	"strings"
)

// BookmarkAction is the cross-tick action requested by a keypress, applied
// the next time SelectedLine recomputes the ring against fresh lines.
type BookmarkAction int

const (
	BookmarkActionNone BookmarkAction = iota
	BookmarkActionPrevious
	BookmarkActionNext
	BookmarkActionToggleMarks
)

// searchState is either not running, an editable incremental search (the
// pattern grows/shrinks as the user types), or a fixed one committed with
// Enter.
type searchState struct {
	incremental bool
	runes       []rune // only meaningful while incremental
	fixed       string // only meaningful once frozen
}

func (s *searchState) pattern() string {
	if s.incremental {
		return string(s.runes)
	}
	return s.fixed
}

// SearchEdit is a single incremental-search editing action.
type SearchEdit int

const (
	SearchPush SearchEdit = iota
	SearchPop
)

// Row is the minimal process-identity surface Bookmarks needs from a
// rendered line: a pid to key marks/selection on and a display name to
// match search patterns against. manager.Row satisfies it.
type Row interface {
	RowPid() int
	RowName() string
}

// linePid is a (line index, pid) pair recorded while walking the rendered
// lines, so a resolved ring position can be converted back to a line
// index for the renderer to scroll to.
type linePid struct {
	lineno int
	pid    int
}

func pidIndexIn(pid int, v []linePid) (int, bool) {
	for i, lp := range v {
		if lp.pid == pid {
			return i, true
		}
	}
	return 0, false
}

// previousIn returns the ring entry before lp's pid, wrapping around; if
// lp's pid isn't in the ring, it falls back to the last entry at or
// before lp's line, else the ring's last entry.
func previousIn(lp linePid, v []linePid) (linePid, bool) {
	n := len(v)
	if n == 0 {
		return linePid{}, false
	}
	if i, ok := pidIndexIn(lp.pid, v); ok {
		return v[(i+n-1)%n], true
	}
	for i := n - 1; i >= 0; i-- {
		if v[i].lineno <= lp.lineno {
			return v[i], true
		}
	}
	return v[n-1], true
}

// nextIn returns the ring entry after lp's pid, wrapping around; if lp's
// pid isn't in the ring, it falls back to the first entry at or after
// lp's line, else the ring's first entry.
func nextIn(lp linePid, v []linePid) (linePid, bool) {
	n := len(v)
	if n == 0 {
		return linePid{}, false
	}
	if i, ok := pidIndexIn(lp.pid, v); ok {
		return v[(i+1)%n], true
	}
	for i := 0; i < n; i++ {
		if v[i].lineno >= lp.lineno {
			return v[i], true
		}
	}
	return v[0], true
}

// Bookmarks tracks PaneMain's cross-tick selection state: the selected
// pid, a set of marked pids, an optional search pattern, and a pending
// BookmarkAction to apply once fresh lines arrive.
type Bookmarks struct {
	selectedPid *int
	search      *searchState
	marks       map[int]bool
	action      BookmarkAction
}

// NewBookmarks builds an empty Bookmarks.
func NewBookmarks() *Bookmarks {
	return &Bookmarks{marks: make(map[int]bool)}
}

func (b *Bookmarks) IsMarked(pid int) bool { return b.marks[pid] }

func (b *Bookmarks) ClearMarks() { b.marks = make(map[int]bool) }

func (b *Bookmarks) SelectedPid() (int, bool) {
	if b.selectedPid == nil {
		return 0, false
	}
	return *b.selectedPid, true
}

func (b *Bookmarks) SelectPid(pid int) { b.selectedPid = &pid }

func (b *Bookmarks) SetAction(action BookmarkAction) { b.action = action }

// IncrementalSearch starts (or resumes editing) an incremental search.
func (b *Bookmarks) IncrementalSearch() {
	if b.search == nil {
		b.search = &searchState{incremental: true}
		return
	}
	if !b.search.incremental {
		b.search = &searchState{incremental: true, runes: []rune(b.search.fixed)}
	}
}

// FixedSearch freezes an in-progress incremental search into a fixed
// pattern, or clears the search entirely if the frozen pattern is empty.
func (b *Bookmarks) FixedSearch() {
	if b.search == nil {
		return
	}
	pattern := b.search.pattern()
	if pattern == "" {
		b.ClearSearch()
		return
	}
	b.search = &searchState{fixed: pattern}
}

// ClearSearch drops the active search, reporting whether one was active.
func (b *Bookmarks) ClearSearch() bool {
	if b.search == nil {
		return false
	}
	b.search = nil
	return true
}

func (b *Bookmarks) SearchPattern() (string, bool) {
	if b.search == nil {
		return "", false
	}
	return b.search.pattern(), true
}

func (b *Bookmarks) IsIncrementalSearch() bool {
	return b.search != nil && b.search.incremental
}

// EditSearch pushes or pops a character from an active incremental
// search; it is a no-op outside of one.
func (b *Bookmarks) EditSearch(edit SearchEdit, c rune) {
	if b.search == nil || !b.search.incremental {
		return
	}
	switch edit {
	case SearchPush:
		b.search.runes = append(b.search.runes, c)
	case SearchPop:
		if len(b.search.runes) > 0 {
			b.search.runes = b.search.runes[:len(b.search.runes)-1]
		}
	}
}

// SelectedLine recomputes matches and marks against freshly rendered
// rows, applies any pending BookmarkAction, and returns the index of the
// line that should now be selected (false if no row is selectable).
//
// occurrences, if non-nil, is replaced with the set of pids the active
// search pattern matched this call.
func (b *Bookmarks) SelectedLine(scroll ScrollIntent, occurrences map[int]bool, rows []Row) (int, bool) {
	if occurrences == nil {
		occurrences = make(map[int]bool)
	} else {
		for k := range occurrences {
			delete(occurrences, k)
		}
	}

	var selected *linePid
	var first, last *linePid
	var matches, marks []linePid
	pattern, hasPattern := b.SearchPattern()

	for i, row := range rows {
		pid := row.RowPid()
		if pid == 0 {
			// a row with no real pid (e.g. the system row) can't be
			// individually selected, marked or searched.
			continue
		}
		lp := linePid{lineno: i, pid: pid}
		if first == nil {
			cp := lp
			first = &cp
		}
		if b.marks[pid] {
			marks = append(marks, lp)
		}
		if sel, ok := b.SelectedPid(); ok && sel == pid {
			cp := lp
			selected = &cp
		}
		if hasPattern && strings.Contains(row.RowName(), pattern) {
			matches = append(matches, lp)
			occurrences[pid] = true
		}
		cp := lp
		last = &cp
	}

	switch {
	case selected != nil && len(occurrences) > 0 && occurrences[selected.pid]:
		// selection already sits on a match; leave it.
	case selected != nil && len(matches) > 0:
		if next, ok := nextIn(*selected, matches); ok {
			selected = &next
		}
	case len(matches) > 0:
		cp := matches[0]
		selected = &cp
	}

	if selected != nil {
		pid := selected.pid
		b.selectedPid = &pid
	} else {
		b.selectedPid = nil
	}

	b.marks = make(map[int]bool, len(marks))
	for _, lp := range marks {
		b.marks[lp.pid] = true
	}

	ring := marks
	if hasPattern {
		ring = matches
	}

	action := b.action
	b.action = BookmarkActionNone

	switch action {
	case BookmarkActionNone, BookmarkActionToggleMarks:
		if action == BookmarkActionToggleMarks {
			b.toggleMarks(occurrences)
		}
		selected = applyScroll(scroll, selected, first, last)
	case BookmarkActionPrevious:
		if selected != nil {
			if prev, ok := previousIn(*selected, ring); ok {
				selected = &prev
			} else if len(ring) > 0 {
				cp := ring[len(ring)-1]
				selected = &cp
			}
		}
	case BookmarkActionNext:
		if selected != nil {
			if next, ok := nextIn(*selected, ring); ok {
				selected = &next
			} else if len(ring) > 0 {
				cp := ring[0]
				selected = &cp
			}
		}
	}

	if selected == nil {
		b.selectedPid = nil
		return 0, false
	}
	pid := selected.pid
	b.selectedPid = &pid
	return selected.lineno, true
}

func applyScroll(scroll ScrollIntent, selected, first, last *linePid) *linePid {
	switch scroll {
	case ScrollFirstPosition:
		return first
	case ScrollLastPosition:
		return last
	default:
		return selected
	}
}

func (b *Bookmarks) toggleMarks(occurrences map[int]bool) {
	if len(occurrences) == 0 {
		if sel, ok := b.SelectedPid(); ok {
			b.toggleMark(sel)
		}
		return
	}
	for pid := range occurrences {
		b.toggleMark(pid)
	}
	b.ClearSearch()
}

func (b *Bookmarks) toggleMark(pid int) {
	if b.marks[pid] {
		delete(b.marks, pid)
	} else {
		b.marks[pid] = true
	}
}
