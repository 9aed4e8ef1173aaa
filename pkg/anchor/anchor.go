// Package anchor defines the fixed category nodes of the museum map.
//
// The anchor set is a compile-time list: three collections, each placed at a
// fixed canvas position and drawn as a card of [CardWidth] x [CardHeight]
// units. Anchors are immutable for the lifetime of the process; callers get
// copies from [Defaults] and look them up with [Find].
package anchor

import "github.com/matzehuels/museummap/pkg/geom"

// Card geometry in canvas units.
const (
	CardWidth  = 240.0
	CardHeight = 140.0
)

// Theme names the color family of an anchor card.
type Theme string

const (
	ThemeBlue    Theme = "blue"
	ThemeEmerald Theme = "emerald"
	ThemeAmber   Theme = "amber"
)

// Palette holds the gradient stops and icon background for a theme.
type Palette struct {
	From   string `json:"from"`
	Via    string `json:"via"`
	To     string `json:"to"`
	IconBG string `json:"icon_bg"`
}

var palettes = map[Theme]Palette{
	ThemeBlue:    {From: "#2563eb", Via: "#1d4ed8", To: "#1e3a8a", IconBG: "#3b82f6"},
	ThemeEmerald: {From: "#059669", Via: "#047857", To: "#064e3b", IconBG: "#10b981"},
	ThemeAmber:   {From: "#d97706", Via: "#b45309", To: "#78350f", IconBG: "#f59e0b"},
}

// fallbackPalette is used for overlays whose anchor cannot be resolved.
var fallbackPalette = Palette{From: "#374151", Via: "#1f2937", To: "#111827", IconBG: "#3b82f6"}

// Palette returns the colors for t, or a neutral gray palette for unknown themes.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return fallbackPalette
}

// Anchor is one fixed category node.
type Anchor struct {
	ID       int        `json:"id"`
	Pos      geom.Point `json:"pos"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Theme    Theme      `json:"theme"`
	Icon     string     `json:"icon"`
}

// Bounds returns the card's top-left and bottom-right corners.
func (a Anchor) Bounds() (min, max geom.Point) {
	return a.Pos, a.Pos.Add(geom.Pt(CardWidth, CardHeight))
}

// Contains reports whether the canvas point p falls on the anchor card.
func (a Anchor) Contains(p geom.Point) bool {
	lo, hi := a.Bounds()
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

// DefaultIcon is shown when an overlay's anchor is unknown.
const DefaultIcon = "📜"

var defaults = [...]Anchor{
	{ID: 1, Pos: geom.Pt(200, 300), Title: "British Era Artifacts", Subtitle: "1858-1947", Theme: ThemeBlue, Icon: "🏰"},
	{ID: 2, Pos: geom.Pt(800, 500), Title: "Mauryan Empire", Subtitle: "322-185 BCE", Theme: ThemeEmerald, Icon: "⚔️"},
	{ID: 3, Pos: geom.Pt(500, 900), Title: "Harappan Civilization", Subtitle: "3300-1300 BCE", Theme: ThemeAmber, Icon: "🏛️"},
}

// Defaults returns a fresh copy of the built-in anchor list.
func Defaults() []Anchor {
	out := make([]Anchor, len(defaults))
	copy(out, defaults[:])
	return out
}

// Find returns the anchor with the given id.
func Find(anchors []Anchor, id int) (Anchor, bool) {
	for _, a := range anchors {
		if a.ID == id {
			return a, true
		}
	}
	return Anchor{}, false
}
