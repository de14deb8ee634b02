package wm

import "testing"

func TestTabSwitch(t *testing.T) {
	g := NewTabGroup("work", []string{"frontend", "backend", "infra"})
	if g.Active() != "frontend" {
		t.Fatalf("active = %q, want first tab", g.Active())
	}

	if !g.Switch("infra") {
		t.Error("switch to another tab should report a change")
	}
	if g.Switch("infra") {
		t.Error("switch to the active tab should be idempotent")
	}
	if g.Switch("nope") {
		t.Error("unknown tab should be ignored")
	}
	if !g.IsActive("infra") || g.ActiveIndex() != 2 {
		t.Errorf("active = %q (%d), want infra (2)", g.Active(), g.ActiveIndex())
	}
}

func TestTabCycleWraps(t *testing.T) {
	g := NewTabGroup("work", []string{"a", "b", "c"})
	steps := []struct {
		dir  int
		want string
	}{
		{1, "b"},
		{1, "c"},
		{1, "a"},
		{-1, "c"},
		{-1, "b"},
	}
	for _, s := range steps {
		g.Cycle(s.dir)
		if g.Active() != s.want {
			t.Fatalf("after Cycle(%d) active = %q, want %q", s.dir, g.Active(), s.want)
		}
	}

	single := NewTabGroup("solo", []string{"only"})
	if single.Cycle(1) {
		t.Error("cycling a single tab should not report a change")
	}
}

func TestSwipeDirection(t *testing.T) {
	tests := []struct {
		name string
		dx   int
		want int
	}{
		{"left swipe goes to next tab", -10, 1},
		{"right swipe goes to previous tab", 10, -1},
		{"exactly the threshold counts", -6, 1},
		{"short left swipe is noise", -5, 0},
		{"short right swipe is noise", 5, 0},
		{"no movement", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SwipeDirection(tt.dx, 6); got != tt.want {
				t.Errorf("SwipeDirection(%d) = %d, want %d", tt.dx, got, tt.want)
			}
		})
	}
}

