package scene

import (
	"testing"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
)

func TestSelectionToggle(t *testing.T) {
	var s Selection

	s.Toggle("A")
	if id, ok := s.Expanded(); !ok || id != "A" {
		t.Fatalf("after A: %q, %v", id, ok)
	}

	s.Toggle("A")
	if _, ok := s.Expanded(); ok {
		t.Fatal("second click on A should close")
	}

	s.Toggle("A")
	s.Toggle("B")
	if id, _ := s.Expanded(); id != "B" {
		t.Errorf("clicking B while A is open = %q, want B", id)
	}

	s.Toggle("")
	if id, _ := s.Expanded(); id != "B" {
		t.Error("empty id should be ignored")
	}

	s.Close()
	if _, ok := s.Expanded(); ok {
		t.Error("Close should collapse")
	}
}

func TestNewDetail(t *testing.T) {
	r := artifact.Record{
		ID: "lion", ParentID: 2, SlotNo: 3, Name: "Lion Capital", Title: "Sarnath",
		Desc: "Polished sandstone", Recommendations: "Visit Sarnath museum",
	}
	d := NewDetail(r, anchor.Defaults())

	if d.Heading != "Slot #3" {
		t.Errorf("Heading = %q", d.Heading)
	}
	if d.Icon != "⚔️" || d.AnchorTitle != "Mauryan Empire" {
		t.Errorf("anchor info = %q %q", d.Icon, d.AnchorTitle)
	}
	if d.Palette != anchor.ThemeEmerald.Palette() {
		t.Errorf("Palette = %+v", d.Palette)
	}
	if len(d.Sections) != 2 {
		t.Fatalf("sections = %+v", d.Sections)
	}
	if d.Sections[0].Title != "Description" || d.Sections[1].Title != "Recommendations" {
		t.Errorf("section order = %+v", d.Sections)
	}
}

func TestNewDetailUnknownAnchor(t *testing.T) {
	d := NewDetail(artifact.Record{ID: "x", ParentID: 42, SlotNo: 1}, anchor.Defaults())
	if d.Icon != anchor.DefaultIcon {
		t.Errorf("Icon = %q", d.Icon)
	}
	if d.Palette != anchor.Theme("").Palette() {
		t.Errorf("Palette = %+v", d.Palette)
	}
	if len(d.Sections) != 0 {
		t.Errorf("empty record should have no sections: %+v", d.Sections)
	}
}
