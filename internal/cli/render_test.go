package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/museummap/pkg/render"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,json,dot", []string{"svg", "json", "dot"}},
		{"spaces and case", " SVG , Json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid json", []string{"json"}, false},
		{"valid dot", []string{"dot"}, false},
		{"valid nodelink", []string{"nodelink"}, false},
		{"valid multiple", []string{"svg", "json", "dot"}, false},
		{"invalid format", []string{"invalid"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormatsRasterNeedsRsvg(t *testing.T) {
	err := validateFormats([]string{"png"})
	if render.Available() && err != nil {
		t.Errorf("png with rsvg-convert installed: %v", err)
	}
	if !render.Available() && err == nil {
		t.Error("png without rsvg-convert should fail")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"", "museummap"},
		{"map.svg", "map"},
		{"out/map.json", "out/map"},
		{"map", "map"},
		{"map.txt", "map.txt"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		format  string
		want    string
	}{
		{"single format uses output", "map.svg", []string{"svg"}, "svg", "map.svg"},
		{"single format default", "", []string{"svg"}, "svg", "museummap.svg"},
		{"multiple formats", "map.svg", []string{"svg", "json"}, "json", "map.json"},
		{"nodelink extension", "", []string{"svg", "nodelink"}, "nodelink", "museummap.nodelink.svg"},
		{"stdout", "-", []string{"json"}, "json", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &renderOpts{output: tt.output, formats: tt.formats}
			if got := outputPath(opts, tt.format); got != tt.want {
				t.Errorf("outputPath = %q, want %q", got, tt.want)
			}
		})
	}
}

// testCLI isolates the XDG directories and config file in a temp dir.
func testCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))

	c := New(io.Discard, LogInfo)
	c.configPath = filepath.Join(dir, "config.toml")
	return c, dir
}

const testArtifacts = `[
  {"id": "lion", "no": 2, "slot": 1, "Title": "Lion Capital", "Story": "Carved at Sarnath."},
  {"id": "seal", "no": 3, "slot": 4, "Title": "Unicorn Seal"},
  {"id": "dup", "no": 2, "slot": 1, "Title": "Second Lion"}
]`

func writeArtifacts(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "artifacts.json")
	if err := os.WriteFile(path, []byte(testArtifacts), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunRender(t *testing.T) {
	c, dir := testCLI(t)
	input := writeArtifacts(t, dir)

	opts := &renderOpts{
		output:   filepath.Join(dir, "out", "map"),
		input:    input,
		formats:  []string{"svg", "json", "dot"},
		zoom:     1,
		width:    800,
		height:   600,
		scale:    2,
		selected: "lion",
		detailed: true,
	}
	if err := c.runRender(context.Background(), opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "out", "map.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Lion Capital") {
		t.Error("svg should contain the map and the selected artifact")
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "map.json"))
	if err != nil {
		t.Fatal(err)
	}
	var sc struct {
		Selected string            `json:"selected"`
		Slots    []json.RawMessage `json:"slots"`
	}
	if err := json.Unmarshal(data, &sc); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if sc.Selected != "lion" || len(sc.Slots) != 27 {
		t.Errorf("scene selected = %q, slots = %d", sc.Selected, len(sc.Slots))
	}

	dot, err := os.ReadFile(filepath.Join(dir, "out", "map.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("dot output starts with %q", string(dot[:min(len(dot), 20)]))
	}

	// A second run is served from the scene cache and must match.
	if err := c.runRender(context.Background(), opts); err != nil {
		t.Fatalf("cached runRender: %v", err)
	}
	again, err := os.ReadFile(filepath.Join(dir, "out", "map.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(svg) {
		t.Error("cached svg differs from the first render")
	}
}

func TestRunRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*renderOpts)
		want   string
	}{
		{"unknown selection", func(o *renderOpts) { o.selected = "ghost" }, "unknown artifact id"},
		{"reject policy", func(o *renderOpts) { o.duplicates = "reject" }, "2/1"},
		{"bad policy", func(o *renderOpts) { o.duplicates = "newest" }, "unknown duplicate policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, dir := testCLI(t)
			opts := &renderOpts{
				output:  filepath.Join(dir, "map.svg"),
				input:   writeArtifacts(t, dir),
				formats: []string{"svg"},
				zoom:    1,
				width:   800,
				height:  600,
				noCache: true,
			}
			tt.modify(opts)

			err := c.runRender(context.Background(), opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
