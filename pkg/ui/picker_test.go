package ui

import (
	"testing"

	"github.com/kraitsura/termfolio/pkg/loader"
)

func newTestPicker() PanelPickerModel {
	p := NewPanelPickerModel(loader.BuildOutline(testDocument()))
	p.Show()
	return p
}

func TestPickerListsOutline(t *testing.T) {
	p := newTestPicker()
	// about, work, work › Alpha, work › Beta, refs
	if p.ItemCount() != 5 {
		t.Errorf("ItemCount = %d, want 5", p.ItemCount())
	}
}

func TestPickerFilter(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 5},
		{"alp", 1},
		{"work", 3},
		{"zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := newTestPicker()
			for _, r := range tt.query {
				p.Update(string(r))
			}
			if p.ItemCount() != tt.want {
				t.Errorf("ItemCount = %d, want %d", p.ItemCount(), tt.want)
			}
		})
	}
}

func TestPickerNavigationAndConfirm(t *testing.T) {
	p := newTestPicker()
	p.Update("up")
	p.Update("down")
	p.Update("down")
	p.Update("enter")

	if p.IsVisible() {
		t.Error("picker should hide after enter")
	}
	if !p.IsConfirmed() {
		t.Fatal("selection not confirmed")
	}
	item := p.SelectedItem()
	if item.PanelID != "work" || item.Tab != "a" {
		t.Errorf("selected %+v, want work tab a", *item)
	}
}

func TestPickerBackspace(t *testing.T) {
	p := newTestPicker()
	p.Update("z")
	p.Update("z")
	p.Update("backspace")
	if p.SearchValue() != "z" {
		t.Errorf("SearchValue = %q, want z", p.SearchValue())
	}
	if p.Update("ctrl+x") {
		t.Error("non-printable key should not be handled")
	}
}

func TestPickerEnterWithoutMatches(t *testing.T) {
	p := newTestPicker()
	for _, r := range "zzz" {
		p.Update(string(r))
	}
	p.Update("enter")
	if p.IsConfirmed() || p.SelectedItem() != nil {
		t.Error("enter with no matches must not confirm")
	}
}

func TestIsPrintableKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"a", true},
		{" ", true},
		{"é", true},
		{"enter", false},
		{"", false},
		{"\x7f", false},
	}
	for _, tt := range tests {
		if got := IsPrintableKey(tt.key); got != tt.want {
			t.Errorf("IsPrintableKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
