package sink

import (
	"encoding/json"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/scene"
	"github.com/matzehuels/museummap/pkg/viewport"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	detail  *scene.Detail
	records bool
}

// WithJSONDetail includes the open overlay's content.
func WithJSONDetail(d scene.Detail) JSONOption { return func(r *jsonRenderer) { r.detail = &d } }

// WithJSONRecords embeds the full bound record in every bound slot. Without
// it, slots carry only the artifact id and label.
func WithJSONRecords() JSONOption { return func(r *jsonRenderer) { r.records = true } }

type jsonOutput struct {
	Canvas      float64            `json:"canvas"`
	ZoomPercent int                `json:"zoom_percent"`
	Viewport    viewport.State     `json:"viewport"`
	Transform   viewport.Transform `json:"transform"`
	Bound       int                `json:"bound"`
	Anchors     []jsonAnchor       `json:"anchors"`
	Slots       []jsonSlot         `json:"slots"`
	Connections []jsonConnection   `json:"connections"`
	Selected    string             `json:"selected,omitempty"`
	Detail      *scene.Detail      `json:"detail,omitempty"`
}

type jsonAnchor struct {
	ID       int            `json:"id"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle,omitempty"`
	Theme    string         `json:"theme"`
	Icon     string         `json:"icon"`
	Palette  anchor.Palette `json:"palette"`
	Bound    int            `json:"bound"`
}

type jsonSlot struct {
	Anchor     int              `json:"anchor"`
	Slot       int              `json:"slot"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Text       string           `json:"text"`
	Bound      bool             `json:"bound"`
	Selected   bool             `json:"selected,omitempty"`
	ArtifactID string           `json:"artifact_id,omitempty"`
	Label      string           `json:"label,omitempty"`
	Record     *artifact.Record `json:"record,omitempty"`
}

type jsonConnection struct {
	Anchor  int     `json:"anchor"`
	Slot    int     `json:"slot"`
	Path    string  `json:"path"`
	Bound   bool    `json:"bound"`
	Dash    string  `json:"dash"`
	Opacity float64 `json:"opacity"`
	Width   float64 `json:"width"`
}

// RenderJSON exports the scene as a pretty-printed JSON document: anchor
// cards, slot positions and bindings, connection paths with their stroke
// styles, and the viewport transform.
//
// RenderJSON returns an error only if JSON marshaling fails. It does not
// modify s and is safe to call concurrently.
func RenderJSON(s *scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Canvas:      s.Canvas,
		ZoomPercent: s.Viewport.Percent(),
		Viewport:    s.Viewport,
		Transform:   s.Transform,
		Bound:       s.BoundCount(),
		Anchors:     buildJSONAnchors(s),
		Slots:       buildJSONSlots(s, r.records),
		Connections: buildJSONConnections(s),
		Selected:    s.Selected,
		Detail:      r.detail,
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONAnchors(s *scene.Scene) []jsonAnchor {
	out := make([]jsonAnchor, 0, len(s.Anchors))
	for _, a := range s.Anchors {
		out = append(out, jsonAnchor{
			ID:       a.ID,
			X:        a.Pos.X,
			Y:        a.Pos.Y,
			Width:    anchor.CardWidth,
			Height:   anchor.CardHeight,
			Title:    a.Title,
			Subtitle: a.Subtitle,
			Theme:    string(a.Theme),
			Icon:     a.Icon,
			Palette:  a.Palette,
			Bound:    a.Bound,
		})
	}
	return out
}

func buildJSONSlots(s *scene.Scene, withRecords bool) []jsonSlot {
	out := make([]jsonSlot, 0, len(s.Slots))
	for _, sl := range s.Slots {
		js := jsonSlot{
			Anchor:   sl.AnchorID,
			Slot:     sl.SlotNo,
			X:        sl.Pos.X,
			Y:        sl.Pos.Y,
			Text:     sl.Text(),
			Bound:    sl.Bound,
			Selected: sl.Selected,
		}
		if sl.Bound {
			js.ArtifactID = sl.Record.ID
			js.Label = sl.Record.Label()
			if withRecords {
				rec := sl.Record
				js.Record = &rec
			}
		}
		out = append(out, js)
	}
	return out
}

func buildJSONConnections(s *scene.Scene) []jsonConnection {
	out := make([]jsonConnection, 0, len(s.Connections))
	for _, c := range s.Connections {
		out = append(out, jsonConnection{
			Anchor:  c.AnchorID,
			Slot:    c.SlotNo,
			Path:    c.Path,
			Bound:   c.Bound,
			Dash:    c.Style.Dash,
			Opacity: c.Style.Opacity,
			Width:   c.Style.Width,
		})
	}
	return out
}
