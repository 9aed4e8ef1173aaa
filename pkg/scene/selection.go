package scene

import (
	"strconv"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
)

// Selection is the single expanded artifact of a view.
type Selection struct {
	id string
}

// Toggle expands id, or closes the overlay when id is already expanded.
// Selecting a different artifact replaces the current one. An empty id is
// ignored.
func (s *Selection) Toggle(id string) {
	if id == "" {
		return
	}
	if s.id == id {
		s.id = ""
		return
	}
	s.id = id
}

// Close collapses the overlay.
func (s *Selection) Close() { s.id = "" }

// Expanded returns the expanded artifact id.
func (s *Selection) Expanded() (string, bool) {
	return s.id, s.id != ""
}

// Section is one optional block of the detail overlay.
type Section struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Body  string `json:"body"`
}

// Detail is the content of the artifact overlay.
type Detail struct {
	ArtifactID  string         `json:"artifactId"`
	SlotNo      int            `json:"slotNo"`
	Heading     string         `json:"heading"`
	Name        string         `json:"name,omitempty"`
	Title       string         `json:"title,omitempty"`
	AnchorTitle string         `json:"anchorTitle,omitempty"`
	Icon        string         `json:"icon"`
	Palette     anchor.Palette `json:"palette"`
	Sections    []Section      `json:"sections"`
}

// NewDetail prepares the overlay for r. The palette and icon come from r's
// anchor, or fall back to neutral values when the anchor is unknown. Empty
// fields produce no section.
func NewDetail(r artifact.Record, anchors []anchor.Anchor) Detail {
	d := Detail{
		ArtifactID: r.ID,
		SlotNo:     r.SlotNo,
		Heading:    "Slot #" + strconv.Itoa(r.SlotNo),
		Name:       r.Name,
		Title:      r.Title,
		Icon:       anchor.DefaultIcon,
		Palette:    anchor.Theme("").Palette(),
		Sections:   []Section{},
	}
	if a, ok := anchor.Find(anchors, r.ParentID); ok {
		d.AnchorTitle = a.Title
		d.Icon = a.Icon
		d.Palette = a.Theme.Palette()
	}

	for _, sec := range []Section{
		{Title: "Description", Icon: "📝", Body: r.Desc},
		{Title: "Story", Icon: "📖", Body: r.Story},
		{Title: "Recommendations", Icon: "💡", Body: r.Recommendations},
	} {
		if sec.Body != "" {
			d.Sections = append(d.Sections, sec)
		}
	}
	return d
}
