package browse

import (
	"strconv"
	"strings"

	"github.com/matzehuels/museummap/pkg/layout"
	"github.com/matzehuels/museummap/pkg/scene"
	"github.com/matzehuels/museummap/pkg/viewport"
)

// curveSamples is the number of points plotted per connection.
const curveSamples = 48

// grid is a character canvas with one style per cell.
type grid struct {
	w, h  int
	runes [][]rune
	kinds [][]cellKind
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, runes: make([][]rune, h), kinds: make([][]cellKind, h)}
	for y := range h {
		g.runes[y] = []rune(strings.Repeat(" ", w))
		g.kinds[y] = make([]cellKind, w)
	}
	return g
}

func (g *grid) set(x, y int, r rune, k cellKind) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.runes[y][x] = r
	g.kinds[y][x] = k
}

// text writes s from (x, y) to the right, clipped at the edges.
func (g *grid) text(x, y int, s string, k cellKind) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, k)
	}
}

// drawScene draws connections, then cards, then slots, matching the SVG
// stacking order.
func (g *grid) drawScene(sc *scene.Scene) {
	state := sc.Viewport
	for _, c := range sc.Connections {
		g.drawConnection(state, c)
	}
	for _, a := range sc.Anchors {
		g.drawAnchor(state, a)
	}
	for _, s := range sc.Slots {
		g.drawSlot(state, s)
	}
}

func (g *grid) drawConnection(state viewport.State, c scene.Connection) {
	r := '·'
	if c.Bound {
		r = '•'
	}
	for i := range curveSamples + 1 {
		x, y := ScreenToCell(state.ToScreen(c.Curve.At(float64(i) / curveSamples)))
		if x >= 0 && y >= 0 && x < g.w && y < g.h && g.kinds[y][x] == kindEmpty {
			g.set(x, y, r, kindLine)
		}
	}
}

func (g *grid) drawAnchor(state viewport.State, a scene.AnchorNode) {
	lo, hi := a.Bounds()
	x0, y0 := ScreenToCell(state.ToScreen(lo))
	x1, y1 := ScreenToCell(state.ToScreen(hi))
	if x1-x0 < 2 || y1-y0 < 1 {
		g.text(x0, y0, a.Icon, kindTitle)
		return
	}

	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			g.set(x, y, ' ', kindCard)
		}
		g.set(x, y0, '─', kindCard)
		g.set(x, y1, '─', kindCard)
	}
	for y := y0; y <= y1; y++ {
		g.set(x0, y, '│', kindCard)
		g.set(x1, y, '│', kindCard)
	}
	g.set(x0, y0, '╭', kindCard)
	g.set(x1, y0, '╮', kindCard)
	g.set(x0, y1, '╰', kindCard)
	g.set(x1, y1, '╯', kindCard)

	inner := x1 - x0 - 1
	lines := []string{a.Title, a.Subtitle, strconv.Itoa(a.Bound) + "/" + strconv.Itoa(layout.SlotCount) + " artifacts"}
	for i, line := range lines {
		y := y0 + 1 + i
		if y >= y1 {
			break
		}
		k := kindCard
		if i == 0 {
			k = kindTitle
		}
		g.text(x0+1, y, clip(line, inner), k)
	}
}

func (g *grid) drawSlot(state viewport.State, s scene.Slot) {
	x, y := ScreenToCell(state.ToScreen(s.Pos))
	marker := "(" + s.Text() + ")"
	k := kindUnbound
	switch {
	case s.Selected:
		marker, k = "<"+s.Text()+">", kindSelected
	case s.Bound:
		marker, k = "["+s.Text()+"]", kindBound
	}
	g.text(x-1, y, marker, k)
	if s.Bound {
		g.text(x+len(marker), y, s.Record.Label(), k)
	}
}

// String renders the grid, styling runs of equal kind together.
func (g *grid) String() string {
	var b strings.Builder
	for y := range g.h {
		if y > 0 {
			b.WriteByte('\n')
		}
		row, kinds := g.runes[y], g.kinds[y]
		start := 0
		for x := 1; x <= g.w; x++ {
			if x < g.w && kinds[x] == kinds[start] {
				continue
			}
			run := string(row[start:x])
			if style, ok := kindStyles[kinds[start]]; ok {
				run = style.Render(run)
			}
			b.WriteString(run)
			start = x
		}
	}
	return b.String()
}

func clip(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
