package scene

import (
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/gesture"
)

// Hit is the result of a hit test.
type Hit struct {
	Target   gesture.Target  `json:"target"`
	Canvas   geom.Point      `json:"canvas"`
	AnchorID int             `json:"anchorId,omitempty"`
	SlotNo   int             `json:"slotNo,omitempty"`
	Bound    bool            `json:"bound,omitempty"`
	Record   artifact.Record `json:"record"`
}

// HitTest resolves what lies under a screen point. Slots are drawn above
// anchor cards and are tested first; later slots win over earlier ones.
func (s *Scene) HitTest(screen geom.Point) Hit {
	c := s.Viewport.ToCanvas(screen)

	for i := len(s.Slots) - 1; i >= 0; i-- {
		sl := s.Slots[i]
		if geom.Distance(c, sl.Pos) <= SlotRadius {
			return Hit{
				Target:   gesture.TargetSlot,
				Canvas:   c,
				AnchorID: sl.AnchorID,
				SlotNo:   sl.SlotNo,
				Bound:    sl.Bound,
				Record:   sl.Record,
			}
		}
	}
	for i := len(s.Anchors) - 1; i >= 0; i-- {
		if a := s.Anchors[i]; a.Contains(c) {
			return Hit{Target: gesture.TargetAnchor, Canvas: c, AnchorID: a.ID}
		}
	}
	return Hit{Target: gesture.TargetBackground, Canvas: c}
}
