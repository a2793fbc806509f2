package gui

import "testing"

type testRow struct {
	pid  int
	name string
}

func (r testRow) RowPid() int     { return r.pid }
func (r testRow) RowName() string { return r.name }

func rows(specs ...testRow) []Row {
	out := make([]Row, len(specs))
	for i, s := range specs {
		out[i] = s
	}
	return out
}

func TestSelectedLineTracksPidAcrossReorder(t *testing.T) {
	b := NewBookmarks()
	b.SelectPid(20)

	lineno, ok := b.SelectedLine(ScrollCurrentPosition, nil, rows(
		testRow{10, "a"}, testRow{20, "b"}, testRow{30, "c"},
	))
	if !ok || lineno != 1 {
		t.Fatalf("lineno = %d, ok = %v, want 1, true", lineno, ok)
	}

	// pid 20 moved to line 0 on the next tick; selection should follow it.
	lineno, ok = b.SelectedLine(ScrollCurrentPosition, nil, rows(
		testRow{20, "b"}, testRow{10, "a"}, testRow{30, "c"},
	))
	if !ok || lineno != 0 {
		t.Fatalf("lineno = %d, ok = %v, want 0, true", lineno, ok)
	}
}

func TestSelectedLineDropsSelectionWhenPidDisappears(t *testing.T) {
	b := NewBookmarks()
	b.SelectPid(99)
	lineno, ok := b.SelectedLine(ScrollCurrentPosition, nil, rows(testRow{1, "a"}))
	if ok {
		t.Fatalf("expected no selection once the pid is gone, got lineno %d", lineno)
	}
}

func TestSelectedLineFirstAndLastScroll(t *testing.T) {
	b := NewBookmarks()
	lineno, ok := b.SelectedLine(ScrollFirstPosition, nil, rows(
		testRow{1, "a"}, testRow{2, "b"}, testRow{3, "c"},
	))
	if !ok || lineno != 0 {
		t.Fatalf("first scroll lineno = %d, ok = %v, want 0, true", lineno, ok)
	}

	b = NewBookmarks()
	lineno, ok = b.SelectedLine(ScrollLastPosition, nil, rows(
		testRow{1, "a"}, testRow{2, "b"}, testRow{3, "c"},
	))
	if !ok || lineno != 2 {
		t.Fatalf("last scroll lineno = %d, ok = %v, want 2, true", lineno, ok)
	}
}

func TestToggleMarksWithoutSearchFlipsSelection(t *testing.T) {
	b := NewBookmarks()
	b.SelectPid(2)
	b.SetAction(BookmarkActionToggleMarks)
	_, _ = b.SelectedLine(ScrollCurrentPosition, nil, rows(testRow{1, "a"}, testRow{2, "b"}))

	if !b.IsMarked(2) {
		t.Fatal("expected pid 2 to be marked")
	}
	if b.IsMarked(1) {
		t.Fatal("expected pid 1 to remain unmarked")
	}
}

func TestToggleMarksWithSearchMarksEveryMatchAndClearsSearch(t *testing.T) {
	b := NewBookmarks()
	b.IncrementalSearch()
	b.EditSearch(SearchPush, 'b')
	b.FixedSearch()
	b.SetAction(BookmarkActionToggleMarks)

	_, _ = b.SelectedLine(ScrollCurrentPosition, nil, rows(
		testRow{1, "abc"}, testRow{2, "xyz"}, testRow{3, "bbb"},
	))

	if !b.IsMarked(1) || !b.IsMarked(3) {
		t.Fatal("expected both matching pids to be marked")
	}
	if b.IsMarked(2) {
		t.Fatal("pid 2 did not match the search pattern and should stay unmarked")
	}
	if _, active := b.SearchPattern(); active {
		t.Fatal("expected the search to be cleared after toggling matches")
	}
}

func TestBookmarkActionNextCyclesMarkRingWithWraparound(t *testing.T) {
	b := NewBookmarks()
	b.SelectPid(1)
	_, _ = b.SelectedLine(ScrollCurrentPosition, nil, rows(testRow{1, "a"}, testRow{2, "b"}, testRow{3, "c"}))
	b.toggleMark(1)
	b.toggleMark(3)

	b.SetAction(BookmarkActionNext)
	lineno, ok := b.SelectedLine(ScrollCurrentPosition, nil, rows(testRow{1, "a"}, testRow{2, "b"}, testRow{3, "c"}))
	if !ok || lineno != 2 {
		t.Fatalf("expected Next to land on the marked pid 3 (line 2), got lineno=%d ok=%v", lineno, ok)
	}

	b.SetAction(BookmarkActionNext)
	lineno, ok = b.SelectedLine(ScrollCurrentPosition, nil, rows(testRow{1, "a"}, testRow{2, "b"}, testRow{3, "c"}))
	if !ok || lineno != 0 {
		t.Fatalf("expected Next to wrap around to the marked pid 1 (line 0), got lineno=%d ok=%v", lineno, ok)
	}
}

func TestBookmarkActionPreviousWraps(t *testing.T) {
	b := NewBookmarks()
	b.SelectPid(1)
	_, _ = b.SelectedLine(ScrollCurrentPosition, nil, rows(testRow{1, "a"}, testRow{2, "b"}, testRow{3, "c"}))
	b.toggleMark(1)
	b.toggleMark(3)

	b.SetAction(BookmarkActionPrevious)
	lineno, ok := b.SelectedLine(ScrollCurrentPosition, nil, rows(testRow{1, "a"}, testRow{2, "b"}, testRow{3, "c"}))
	if !ok || lineno != 2 {
		t.Fatalf("expected Previous from pid 1 to wrap to pid 3 (line 2), got lineno=%d ok=%v", lineno, ok)
	}
}

func TestIncrementalSearchMatchesEveryRowWhenPatternEmpty(t *testing.T) {
	b := NewBookmarks()
	b.IncrementalSearch()
	occurrences := make(map[int]bool)

	_, _ = b.SelectedLine(ScrollCurrentPosition, occurrences, rows(testRow{1, "a"}, testRow{2, "b"}))
	if len(occurrences) != 2 {
		t.Fatalf("expected an empty pattern to match every row, got %d occurrences", len(occurrences))
	}
}

func TestFixedSearchPopulatesOccurrences(t *testing.T) {
	b := NewBookmarks()
	b.IncrementalSearch()
	b.EditSearch(SearchPush, 'x')
	b.FixedSearch()

	occurrences := make(map[int]bool)
	_, _ = b.SelectedLine(ScrollCurrentPosition, occurrences, rows(testRow{1, "axe"}, testRow{2, "boo"}))
	if !occurrences[1] || occurrences[2] {
		t.Fatalf("occurrences = %v, want only pid 1", occurrences)
	}
}

func TestClearSearchOnEmptyFixedPattern(t *testing.T) {
	b := NewBookmarks()
	b.IncrementalSearch()
	b.FixedSearch()
	if _, active := b.SearchPattern(); active {
		t.Fatal("freezing an empty incremental search should clear it entirely")
	}
}

func TestEditSearchPushAndPop(t *testing.T) {
	b := NewBookmarks()
	b.IncrementalSearch()
	b.EditSearch(SearchPush, 'a')
	b.EditSearch(SearchPush, 'b')
	pattern, _ := b.SearchPattern()
	if pattern != "ab" {
		t.Fatalf("pattern = %q, want \"ab\"", pattern)
	}
	b.EditSearch(SearchPop, 0)
	pattern, _ = b.SearchPattern()
	if pattern != "a" {
		t.Fatalf("pattern after pop = %q, want \"a\"", pattern)
	}
}

func TestSelectedLineFirstAndLastScrollWithSingleRow(t *testing.T) {
	b := NewBookmarks()
	lineno, ok := b.SelectedLine(ScrollFirstPosition, nil, rows(testRow{1, "a"}))
	if !ok || lineno != 0 {
		t.Fatalf("first scroll with a single row: lineno = %d, ok = %v, want 0, true", lineno, ok)
	}

	b = NewBookmarks()
	lineno, ok = b.SelectedLine(ScrollLastPosition, nil, rows(testRow{1, "a"}))
	if !ok || lineno != 0 {
		t.Fatalf("last scroll with a single row: lineno = %d, ok = %v, want 0, true", lineno, ok)
	}
}

func TestRowWithZeroPidIsUnselectable(t *testing.T) {
	b := NewBookmarks()
	b.SelectPid(0)
	_, ok := b.SelectedLine(ScrollCurrentPosition, nil, rows(testRow{0, "system"}, testRow{1, "a"}))
	if ok {
		t.Fatal("a pid-0 row (e.g. the system row) should never be selectable")
	}
}
