package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/binder"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestPrintConflicts(t *testing.T) {
	out := captureStdout(t)

	printConflicts(nil)
	if out.Len() != 0 {
		t.Errorf("no conflicts printed %q", out.String())
	}

	printConflicts([]binder.Conflict{{
		Key:     artifact.Key{ParentID: 2, SlotNo: 1},
		Winner:  "lion",
		Ignored: []string{"dup"},
	}})
	got := out.String()
	for _, want := range []string{"lion wins over dup", "--duplicates"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestAnchorLabel(t *testing.T) {
	anchors := anchor.Defaults()
	if got := anchorLabel(anchors, 2); !strings.Contains(got, "2 ") {
		t.Errorf("anchorLabel(2) = %q", got)
	}
	if got := anchorLabel(anchors, 9); !strings.Contains(got, "9 ?") {
		t.Errorf("anchorLabel(9) = %q", got)
	}
}

func TestSceneStats(t *testing.T) {
	tests := []struct {
		conflicts int
		cached    bool
		want      []string
		not       []string
	}{
		{0, false, []string{"27 slots", "2 bound", "fresh"}, []string{"conflicts"}},
		{1, true, []string{"1 conflicts", "cached"}, []string{"fresh"}},
	}
	for _, tt := range tests {
		got := sceneStats(27, 2, tt.conflicts, tt.cached)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("sceneStats = %q, missing %q", got, w)
			}
		}
		for _, n := range tt.not {
			if strings.Contains(got, n) {
				t.Errorf("sceneStats = %q, should not contain %q", got, n)
			}
		}
	}
}

func TestStatusHelpers(t *testing.T) {
	out := captureStdout(t)
	printSuccess("rendered %d files", 3)
	printKeyValue("Store", "file")
	printNextStep("Browse the map", appName+" browse")

	got := out.String()
	for _, want := range []string{iconSuccess, "rendered 3 files", "Store", "file", "museummap browse"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}
