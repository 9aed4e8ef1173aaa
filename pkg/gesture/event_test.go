package gesture

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/museummap/pkg/geom"
)

func TestEventJSON(t *testing.T) {
	var e Event
	err := json.Unmarshal([]byte(`{"kind":"pointerdown","pos":{"x":5,"y":6},"target":"background"}`), &e)
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind != PointerDown || e.Pos != geom.Pt(5, 6) || e.Target != TargetBackground {
		t.Errorf("decoded %+v", e)
	}

	if err := json.Unmarshal([]byte(`{"kind":"tap"}`), &e); err == nil {
		t.Error("unknown kind should fail")
	}

	var unresolved Event
	if err := json.Unmarshal([]byte(`{"kind":"wheel","deltaY":-120}`), &unresolved); err != nil {
		t.Fatal(err)
	}
	if unresolved.Target != TargetUnresolved || unresolved.DeltaY != -120 {
		t.Errorf("decoded %+v", unresolved)
	}
}
