// Package browse is an interactive terminal view of the museum map.
//
// The model drives a mounted [mapview.View] with terminal mouse input: each
// cell maps to a screen point of [CellWidth] x [CellHeight] pixels, left
// drags pan, the wheel zooms and a press released without movement clicks.
// Keys cover the zoom controls, keyboard panning and closing the detail
// panel.
package browse

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/gesture"
	"github.com/matzehuels/museummap/pkg/mapview"
	"github.com/matzehuels/museummap/pkg/scene"
)

// Screen pixels covered by one terminal cell.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

const (
	// wheelDelta is the deltaY of one wheel notch.
	wheelDelta = 100.0

	// keyPan is how far an arrow key pans, in screen pixels.
	keyPan = 80.0

	panelWidth = 44
	chromeRows = 2
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleLine     = lipgloss.NewStyle().Foreground(colorDim)
	styleCard     = lipgloss.NewStyle().Foreground(colorCyan)
	styleTitle    = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleBound    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleUnbound  = lipgloss.NewStyle().Foreground(colorGray)
	styleSelected = lipgloss.NewStyle().Foreground(colorAmber).Bold(true)
	styleStatus   = lipgloss.NewStyle().Foreground(colorGray)
	styleHelp     = lipgloss.NewStyle().Foreground(colorDim)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAmber).
			Padding(0, 1)
)

// cellKind selects the style of one canvas cell.
type cellKind uint8

const (
	kindEmpty cellKind = iota
	kindLine
	kindCard
	kindTitle
	kindUnbound
	kindBound
	kindSelected
)

var kindStyles = map[cellKind]lipgloss.Style{
	kindLine:     styleLine,
	kindCard:     styleCard,
	kindTitle:    styleTitle,
	kindUnbound:  styleUnbound,
	kindBound:    styleBound,
	kindSelected: styleSelected,
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model of the map browser.
type Model struct {
	ctx  context.Context
	view *mapview.View

	width  int
	height int

	press  *geom.Point
	moved  bool
	status string
}

// New returns a model over a mounted view.
func New(ctx context.Context, view *mapview.View) Model {
	return Model{ctx: ctx, view: view, width: 120, height: 40}
}

// Run mounts the view and runs the browser until the user quits.
func Run(ctx context.Context, view *mapview.View) error {
	view.Mount()
	defer view.Unmount()

	p := tea.NewProgram(New(ctx, view),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "+", "=":
		m.view.ZoomIn()
	case "-", "_":
		m.view.ZoomOut()
	case "0":
		m.view.Reset()
	case "esc":
		m.view.CloseDetail()
		m.status = ""
	case "left", "h":
		m.pan(geom.Pt(keyPan, 0))
	case "right", "l":
		m.pan(geom.Pt(-keyPan, 0))
	case "up", "k":
		m.pan(geom.Pt(0, keyPan))
	case "down", "j":
		m.pan(geom.Pt(0, -keyPan))
	}
	return m, nil
}

// pan moves the map directly so the keys keep working while the detail
// panel is open.
func (m Model) pan(d geom.Point) {
	m.view.PanBy(d)
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	p := CellToScreen(msg.X, msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.view.Dispatch(m.ctx, gesture.Event{Kind: gesture.Wheel, Pos: p, DeltaY: -wheelDelta})
		return
	case tea.MouseButtonWheelDown:
		m.view.Dispatch(m.ctx, gesture.Event{Kind: gesture.Wheel, Pos: p, DeltaY: wheelDelta})
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.onPanel(msg.X) {
			return
		}
		m.view.Dispatch(m.ctx, gesture.Event{Kind: gesture.PointerDown, Pos: p})
		m.press, m.moved = &p, false
	case tea.MouseActionMotion:
		if m.press == nil {
			return
		}
		m.view.Dispatch(m.ctx, gesture.Event{Kind: gesture.PointerMove, Pos: p})
		m.moved = m.moved || p != *m.press
	case tea.MouseActionRelease:
		if m.press == nil {
			return
		}
		m.view.Dispatch(m.ctx, gesture.Event{Kind: gesture.PointerUp, Pos: p})
		if !m.moved {
			m.click(p)
		}
		m.press = nil
	}
}

func (m *Model) click(p geom.Point) {
	res := m.view.Click(p)
	switch {
	case res.Selected != "":
		m.status = "opened " + res.Hit.Record.DisplayName()
	case res.Closed:
		m.status = "closed detail"
	case res.Hit.Target == gesture.TargetSlot:
		m.status = fmt.Sprintf("slot %d of anchor %d is empty", res.Hit.SlotNo, res.Hit.AnchorID)
	default:
		m.status = ""
	}
}

// onPanel reports whether column x falls on the open detail panel.
func (m Model) onPanel(x int) bool {
	_, open := m.view.Selected()
	return open && x >= m.mapWidth()
}

func (m Model) mapWidth() int {
	if _, open := m.view.Selected(); open {
		return max(m.width-panelWidth, 10)
	}
	return m.width
}

func (m Model) mapHeight() int {
	return max(m.height-chromeRows, 1)
}

// CellToScreen returns the screen point at the center of a terminal cell.
func CellToScreen(x, y int) geom.Point {
	return geom.Pt((float64(x)+0.5)*CellWidth, (float64(y)+0.5)*CellHeight)
}

// ScreenToCell returns the terminal cell containing a screen point.
func ScreenToCell(p geom.Point) (x, y int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// =============================================================================
// View
// =============================================================================

func (m Model) View() string {
	sc := m.view.Scene(m.ctx)
	canvas := newGrid(m.mapWidth(), m.mapHeight())
	canvas.drawScene(sc)

	body := canvas.String()
	if d, ok := m.view.Detail(); ok {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, renderDetail(d, m.mapHeight()))
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.statusLine(sc))
	b.WriteString("\n")
	b.WriteString(styleHelp.Render("drag pan · wheel/+/- zoom · 0 reset · arrows pan · click slot · esc close · q quit"))
	return b.String()
}

func (m Model) statusLine(sc *scene.Scene) string {
	parts := []string{
		fmt.Sprintf("zoom %d%%", sc.Viewport.Percent()),
		fmt.Sprintf("pan %s", sc.Viewport.Pan),
		fmt.Sprintf("mode %s", m.view.Mode()),
		fmt.Sprintf("%d/%d bound", sc.BoundCount(), len(sc.Slots)),
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return styleStatus.Render(strings.Join(parts, " · "))
}

func renderDetail(d scene.Detail, height int) string {
	var b strings.Builder
	b.WriteString(styleSelected.Render(d.Icon + " " + d.Heading))
	b.WriteString("\n")
	if d.Name != "" {
		b.WriteString(styleTitle.Render(d.Name))
		b.WriteString("\n")
	}
	if d.AnchorTitle != "" {
		b.WriteString(styleHelp.Render(d.AnchorTitle))
		b.WriteString("\n")
	}
	for _, s := range d.Sections {
		b.WriteString("\n")
		b.WriteString(styleCard.Render(s.Icon + " " + s.Title))
		b.WriteString("\n")
		b.WriteString(s.Body)
		b.WriteString("\n")
	}
	return stylePanel.
		Width(panelWidth - 2).
		MaxHeight(height).
		Render(strings.TrimRight(b.String(), "\n"))
}
