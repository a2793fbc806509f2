package gui

import "testing"

func TestMotionResolveFirstAndLast(t *testing.T) {
	m := Motion{Position: 3}
	m.First()
	if got := m.Resolve(10, 5); got != 0 {
		t.Errorf("First resolved to %d, want 0", got)
	}
	m.Last()
	if got := m.Resolve(10, 5); got != 10 {
		t.Errorf("Last resolved to %d, want 10", got)
	}
}

func TestMotionResolvePreviousNextClampAtEdges(t *testing.T) {
	m := Motion{Position: 0}
	m.Previous()
	if got := m.Resolve(10, 5); got != 0 {
		t.Errorf("Previous at position 0 resolved to %d, want 0 (saturating)", got)
	}

	m = Motion{Position: 10}
	m.Next()
	if got := m.Resolve(10, 5); got != 10 {
		t.Errorf("Next at the last position resolved to %d, want 10 (clamped)", got)
	}

	m = Motion{Position: 4}
	m.Next()
	if got := m.Resolve(10, 5); got != 5 {
		t.Errorf("Next resolved to %d, want 5", got)
	}
}

func TestMotionResolvePages(t *testing.T) {
	m := Motion{Position: 8}
	m.PreviousPage()
	if got := m.Resolve(20, 5); got != 3 {
		t.Errorf("PreviousPage resolved to %d, want 3", got)
	}

	m = Motion{Position: 2}
	m.PreviousPage()
	if got := m.Resolve(20, 5); got != 0 {
		t.Errorf("PreviousPage past the start resolved to %d, want 0 (saturating)", got)
	}

	m = Motion{Position: 18}
	m.NextPage()
	if got := m.Resolve(20, 5); got != 20 {
		t.Errorf("NextPage past the end resolved to %d, want 20 (clamped)", got)
	}
}

func TestMotionUpdateMovesAndClearsIntent(t *testing.T) {
	m := Motion{Position: 0}
	m.Last()
	m.Update(7, 5)
	if m.Position != 7 {
		t.Errorf("Position = %d, want 7", m.Position)
	}
	if m.Intent != ScrollCurrentPosition {
		t.Errorf("Intent after Update = %v, want ScrollCurrentPosition", m.Intent)
	}
}

func TestMotionUpResolvePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Resolve to panic on ScrollUp")
		}
	}()
	m := Motion{}
	m.Up()
	m.Resolve(10, 5)
}
