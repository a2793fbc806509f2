package gui

import "testing"

func TestPaneStackStartsAtMain(t *testing.T) {
	s := NewPaneStack()
	if s.Current() != PaneMain {
		t.Fatalf("Current() = %v, want PaneMain", s.Current())
	}
	if s.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", s.Depth())
	}
}

func TestPaneStackPushPop(t *testing.T) {
	s := NewPaneStack()
	s.Push(PaneProcessDetails)
	if s.Current() != PaneProcessDetails {
		t.Fatalf("Current() = %v, want PaneProcessDetails", s.Current())
	}
	s.Push(PaneProcessEnvironment)
	if s.Current() != PaneProcessEnvironment {
		t.Fatalf("Current() = %v, want PaneProcessEnvironment", s.Current())
	}

	if !s.Pop() {
		t.Fatal("Pop() = false, want true")
	}
	if s.Current() != PaneProcessDetails {
		t.Fatalf("Current() after one pop = %v, want PaneProcessDetails", s.Current())
	}

	if !s.Pop() {
		t.Fatal("Pop() = false, want true")
	}
	if s.Current() != PaneMain {
		t.Fatalf("Current() after two pops = %v, want PaneMain", s.Current())
	}
}

func TestPaneStackCannotPopRoot(t *testing.T) {
	s := NewPaneStack()
	if s.Pop() {
		t.Fatal("Pop() at the root returned true, want false")
	}
	if s.Current() != PaneMain {
		t.Fatalf("Current() = %v, want PaneMain", s.Current())
	}
}
