package model

import "testing"

func TestExtractAbbrs(t *testing.T) {
	p := PanelSpec{
		ID:   "about",
		Body: `I write <abbr title="Command line interface">CLI</abbr> tools and <abbr title="again">CLI</abbr> glue.`,
		Tabs: []TabSpec{
			{Name: "a", Body: `Runs on <abbr title=" Linux kernel ">Linux</abbr>`},
			{Name: "b", Body: `<abbr title="">blank</abbr> title`},
		},
	}
	p.ExtractAbbrs()

	if p.Body != "I write CLI tools and CLI glue." {
		t.Errorf("body = %q", p.Body)
	}
	if p.Tabs[0].Body != "Runs on Linux" || p.Tabs[1].Body != "blank title" {
		t.Errorf("tab bodies = %q, %q", p.Tabs[0].Body, p.Tabs[1].Body)
	}
	want := []Abbr{
		{Text: "CLI", Title: "Command line interface"},
		{Text: "Linux", Title: "Linux kernel"},
	}
	if len(p.Abbrs) != len(want) {
		t.Fatalf("abbrs = %+v, want %+v", p.Abbrs, want)
	}
	for i := range want {
		if p.Abbrs[i] != want[i] {
			t.Errorf("abbr %d = %+v, want %+v", i, p.Abbrs[i], want[i])
		}
	}
}

func TestMarkersKeepsRepeats(t *testing.T) {
	p := PanelSpec{
		Body: "one [^1] two [^2] again [^1]",
		Tabs: []TabSpec{{Name: "a", Body: "tab [^3]"}},
	}
	got := p.Markers()
	want := []int{1, 2, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("Markers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Markers = %v, want %v", got, want)
			break
		}
	}
}
