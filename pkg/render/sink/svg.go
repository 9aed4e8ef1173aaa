package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/layout"
	"github.com/matzehuels/museummap/pkg/scene"
)

// Default output size in screen units.
const (
	DefaultWidth  = 1280.0
	DefaultHeight = 800.0
)

const (
	backgroundColor = "#0f172a"
	modalMaxWidth   = 640.0
	modalMargin     = 40.0
	lineHeight      = 20.0
	wrapColumns     = 72
)

const slotInteractionCSS = `
    .slot { cursor: default; }
    .slot.bound { cursor: pointer; }
    .slot.bound circle { transition: transform 0.2s ease; transform-origin: center; transform-box: fill-box; }
    .slot.bound:hover circle { transform: scale(1.1); }
    .anchor rect { transition: stroke-width 0.2s ease; }
    .anchor:hover rect { stroke-width: 3; }`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	detail        *scene.Detail
	glow          bool
	labels        bool
	interactive   bool
}

// WithSize sets the output viewport in screen units.
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) {
		if w > 0 && h > 0 {
			r.width, r.height = w, h
		}
	}
}

// WithDetail draws the artifact overlay above the map.
func WithDetail(d scene.Detail) SVGOption { return func(r *svgRenderer) { r.detail = &d } }

// WithGlow adds a soft glow filter to bound slots.
func WithGlow() SVGOption { return func(r *svgRenderer) { r.glow = true } }

// WithLabels writes the artifact's short label under each bound slot.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithInteraction embeds hover styles for browsers.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG draws the scene. It does not modify s and is safe to call
// concurrently.
func RenderSVG(s *scene.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)

	r.renderDefs(&buf, s)
	fmt.Fprintf(&buf, `  <rect class="background" width="%.1f" height="%.1f" fill="%s"/>`+"\n", r.width, r.height, backgroundColor)

	fmt.Fprintf(&buf, `  <g id="viewport" transform="%s">`+"\n", s.Transform.SVG)
	for _, c := range s.Connections {
		renderConnection(&buf, c)
	}
	for _, a := range s.Anchors {
		renderAnchor(&buf, a)
	}
	for _, sl := range s.Slots {
		r.renderSlot(&buf, sl)
	}
	buf.WriteString("  </g>\n")

	if r.detail != nil {
		r.renderOverlay(&buf, *r.detail)
	}
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", slotInteractionCSS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r *svgRenderer) renderDefs(buf *bytes.Buffer, s *scene.Scene) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <linearGradient id="connection" x1="0" y1="0" x2="1" y2="1">` + "\n")
	buf.WriteString(`      <stop offset="0" stop-color="rgba(59,130,246,0.6)"/>` + "\n")
	buf.WriteString(`      <stop offset="1" stop-color="rgba(16,185,129,0.6)"/>` + "\n")
	buf.WriteString("    </linearGradient>\n")
	writeGradient(buf, "slot-bound", "#3b82f6", "#1d4ed8")
	writeGradient(buf, "slot-unbound", "#6b7280", "#374151")

	themes := make([]anchor.Theme, 0, len(s.Anchors))
	for _, a := range s.Anchors {
		if !slices.Contains(themes, a.Theme) {
			themes = append(themes, a.Theme)
		}
	}
	slices.Sort(themes)
	for _, t := range themes {
		p := t.Palette()
		writeGradient(buf, cardGradientID(t), p.From, p.Via, p.To)
	}

	if r.detail != nil {
		p := r.detail.Palette
		writeGradient(buf, "modal", p.From, p.Via, p.To)
	}
	if r.glow {
		buf.WriteString(`    <filter id="glow" x="-50%" y="-50%" width="200%" height="200%">` + "\n")
		buf.WriteString(`      <feGaussianBlur stdDeviation="4" result="blur"/>` + "\n")
		buf.WriteString("      <feMerge><feMergeNode in=\"blur\"/><feMergeNode in=\"SourceGraphic\"/></feMerge>\n")
		buf.WriteString("    </filter>\n")
	}
	buf.WriteString("  </defs>\n")
}

func writeGradient(buf *bytes.Buffer, id string, stops ...string) {
	fmt.Fprintf(buf, `    <linearGradient id="%s" x1="0" y1="0" x2="1" y2="1">`+"\n", id)
	for i, c := range stops {
		offset := 0.0
		if len(stops) > 1 {
			offset = float64(i) / float64(len(stops)-1)
		}
		fmt.Fprintf(buf, `      <stop offset="%.2f" stop-color="%s"/>`+"\n", offset, c)
	}
	buf.WriteString("    </linearGradient>\n")
}

func cardGradientID(t anchor.Theme) string {
	if t == "" {
		return "card-default"
	}
	return "card-" + string(t)
}

func renderConnection(buf *bytes.Buffer, c scene.Connection) {
	class := "connection"
	if c.Bound {
		class += " bound"
	}
	fmt.Fprintf(buf, `    <path class="%s" d="%s" fill="none" stroke="url(#connection)" stroke-width="%.1f" stroke-dasharray="%s" opacity="%.1f"/>`+"\n",
		class, c.Path, c.Style.Width, c.Style.Dash, c.Style.Opacity)
}

func renderAnchor(buf *bytes.Buffer, a scene.AnchorNode) {
	x, y := a.Pos.X, a.Pos.Y
	fmt.Fprintf(buf, `    <g class="anchor" id="anchor-%d">`+"\n", a.ID)
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="16" fill="url(#%s)" stroke="rgba(255,255,255,0.2)" stroke-width="1.5"/>`+"\n",
		x, y, anchor.CardWidth, anchor.CardHeight, cardGradientID(a.Theme))
	fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="22" fill="%s"/>`+"\n", x+40, y+40, a.Palette.IconBG)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" font-size="22">%s</text>`+"\n", x+40, y+48, escape(a.Icon))
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="12" text-anchor="end" fill="rgba(255,255,255,0.75)">%d/%d</text>`+"\n",
		x+anchor.CardWidth-20, y+30, a.Bound, layout.SlotCount)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="18" font-weight="bold" fill="white">%s</text>`+"\n",
		x+20, y+92, escape(a.Title))
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="13" fill="rgba(255,255,255,0.75)">%s</text>`+"\n",
		x+20, y+116, escape(a.Subtitle))
	buf.WriteString("    </g>\n")
}

func (r *svgRenderer) renderSlot(buf *bytes.Buffer, sl scene.Slot) {
	class, fill := "slot", "url(#slot-unbound)"
	if sl.Bound {
		class, fill = "slot bound", "url(#slot-bound)"
	}
	if sl.Selected {
		class += " selected"
	}

	fmt.Fprintf(buf, `    <g class="%s" id="slot-%d-%d"`, class, sl.AnchorID, sl.SlotNo)
	if sl.Bound {
		fmt.Fprintf(buf, ` data-artifact="%s"`, escape(sl.Record.ID))
	}
	buf.WriteString(">\n")

	stroke, width := "rgba(255,255,255,0.8)", 2.0
	if sl.Selected {
		stroke, width = "#facc15", 4.0
	}
	filter := ""
	if r.glow && sl.Bound {
		filter = ` filter="url(#glow)"`
	}
	fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		sl.Pos.X, sl.Pos.Y, scene.SlotRadius, fill, stroke, width, filter)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="16" font-weight="bold" fill="white">%s</text>`+"\n",
		sl.Pos.X, sl.Pos.Y+5, sl.Text())
	if r.labels && sl.Bound {
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="12" fill="#e5e7eb">%s</text>`+"\n",
			sl.Pos.X, sl.Pos.Y+scene.SlotRadius+18, escape(sl.Record.Label()))
	}
	buf.WriteString("    </g>\n")
}

// renderOverlay draws the modal in screen space: a backdrop covering the
// viewport and a centered panel whose height follows its wrapped content.
func (r *svgRenderer) renderOverlay(buf *bytes.Buffer, d scene.Detail) {
	pw := math.Min(modalMaxWidth, r.width-2*modalMargin)
	px := (r.width - pw) / 2
	py := modalMargin

	type line struct {
		text  string
		size  float64
		attrs string
	}
	var lines []line
	lines = append(lines, line{d.Icon + " " + d.Heading, 13, `fill="rgba(255,255,255,0.75)"`})
	if d.Name != "" {
		lines = append(lines, line{d.Name, 22, `font-weight="bold" fill="white"`})
	}
	if d.Title != "" {
		lines = append(lines, line{d.Title, 15, `font-style="italic" fill="rgba(255,255,255,0.85)"`})
	}
	for _, sec := range d.Sections {
		lines = append(lines, line{"", 8, ""})
		lines = append(lines, line{sec.Icon + " " + sec.Title, 16, `font-weight="bold" fill="white"`})
		for _, l := range wrapText(sec.Body, wrapColumns) {
			lines = append(lines, line{l, 14, `fill="rgba(255,255,255,0.9)"`})
		}
	}

	contentHeight := 0.0
	for _, l := range lines {
		contentHeight += math.Max(lineHeight, l.size+6)
	}
	ph := math.Min(contentHeight+110, r.height-2*modalMargin)

	fmt.Fprintf(buf, `  <g id="overlay" data-artifact="%s">`+"\n", escape(d.ArtifactID))
	fmt.Fprintf(buf, `    <rect class="backdrop" width="%.1f" height="%.1f" fill="rgba(0,0,0,0.6)"/>`+"\n", r.width, r.height)
	fmt.Fprintf(buf, `    <rect class="modal" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="20" fill="url(#modal)" stroke="rgba(255,255,255,0.2)"/>`+"\n",
		px, py, pw, ph)

	cx, cy := px+pw-28, py+28
	fmt.Fprintf(buf, `    <g class="close"><circle cx="%.1f" cy="%.1f" r="16" fill="rgba(255,255,255,0.2)"/>`, cx, cy)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="18" fill="white">×</text></g>`+"\n", cx, cy+6)

	y := py + 40
	for _, l := range lines {
		y += math.Max(lineHeight, l.size+6)
		if l.text == "" || y > py+ph-60 {
			continue
		}
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" %s>%s</text>`+"\n",
			px+28, y, l.size, l.attrs, escape(l.text))
	}

	bx, by := px+pw-128, py+ph-52
	fmt.Fprintf(buf, `    <g class="close"><rect x="%.1f" y="%.1f" width="100" height="36" rx="10" fill="rgba(255,255,255,0.2)"/>`, bx, by)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="14" fill="white">Close</text></g>`+"\n", bx+50, by+23)
	buf.WriteString("  </g>\n")
}

func wrapText(s string, width int) []string {
	var lines []string
	var cur strings.Builder
	n := 0
	for _, w := range strings.Fields(s) {
		wl := len([]rune(w))
		if n > 0 && n+1+wl > width {
			lines = append(lines, cur.String())
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(w)
		n += wl
	}
	if n > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
