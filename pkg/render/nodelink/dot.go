package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/museummap/pkg/render"
	"github.com/matzehuels/museummap/pkg/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the artifact label and id to bound slot nodes.
	// When false, slots show only their slot number.
	Detailed bool

	// HideUnbound drops unbound slots from the diagram.
	HideUnbound bool
}

// ToDOT converts a scene to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(s *scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"sans-serif\", fontsize=14];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, a := range s.Anchors {
		label := a.Icon + " " + a.Title
		if a.Subtitle != "" {
			label += "\n" + a.Subtitle
		}
		fmt.Fprintf(&buf, "  %q [shape=box, style=\"rounded,filled\", fillcolor=%q, fontcolor=white, label=%q];\n",
			anchorID(a.ID), a.Palette.From, label)
	}

	buf.WriteString("\n")
	for _, sl := range s.Slots {
		if opts.HideUnbound && !sl.Bound {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", slotID(sl), strings.Join(slotAttrs(sl, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, c := range s.Connections {
		if opts.HideUnbound && !c.Bound {
			continue
		}
		style := "solid"
		if !c.Bound {
			style = "dashed"
		}
		fmt.Fprintf(&buf, "  %q -> %q [style=%s];\n", anchorID(c.AnchorID), slotKey(c.AnchorID, c.SlotNo), style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func anchorID(id int) string { return "anchor-" + strconv.Itoa(id) }

func slotKey(anchorID, slotNo int) string {
	return "slot-" + strconv.Itoa(anchorID) + "-" + strconv.Itoa(slotNo)
}

func slotID(sl scene.Slot) string { return slotKey(sl.AnchorID, sl.SlotNo) }

func slotAttrs(sl scene.Slot, detailed bool) []string {
	label := sl.Text()
	if detailed && sl.Bound {
		label = sl.Text() + "\n" + sl.Record.Label() + "\n" + sl.Record.ID
	}
	attrs := []string{"shape=circle", fmt.Sprintf("label=%q", label)}
	if sl.Bound {
		attrs = append(attrs, "style=filled", "fillcolor=\"#3b82f6\"", "fontcolor=white")
	} else {
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	if sl.Selected {
		attrs = append(attrs, "penwidth=3", "color=\"#facc15\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg element with a plain
// viewBox so the diagram scales like the map sinks.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDFContext(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNGContext(ctx, svg, scale)
}
