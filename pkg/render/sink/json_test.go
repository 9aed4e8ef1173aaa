package sink

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/scene"
)

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testScene(), WithJSONRecords())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out.ZoomPercent != 150 {
		t.Errorf("zoom_percent = %d", out.ZoomPercent)
	}
	if len(out.Anchors) != 3 || len(out.Slots) != 27 || len(out.Connections) != 27 {
		t.Fatalf("counts: %d anchors, %d slots, %d connections", len(out.Anchors), len(out.Slots), len(out.Connections))
	}
	if out.Bound != 2 {
		t.Errorf("bound = %d", out.Bound)
	}

	var bound *jsonSlot
	for i := range out.Slots {
		if out.Slots[i].ArtifactID == "lion" {
			bound = &out.Slots[i]
		}
	}
	if bound == nil || bound.Record == nil || bound.Record.Name != "Lion Capital" || bound.Label != "Lion" {
		t.Errorf("bound slot = %+v", bound)
	}
	if out.Detail != nil {
		t.Error("detail should be omitted")
	}
}

func TestRenderJSONDetail(t *testing.T) {
	d := scene.NewDetail([]artifact.Record(testRecords)[1], anchor.Defaults())
	data, err := RenderJSON(testScene(), WithJSONDetail(d))
	if err != nil {
		t.Fatal(err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Detail == nil || out.Detail.Heading != "Slot #4" {
		t.Errorf("detail = %+v", out.Detail)
	}
	for _, s := range out.Slots {
		if s.Record != nil {
			t.Fatal("records embedded without WithJSONRecords")
		}
	}
}
