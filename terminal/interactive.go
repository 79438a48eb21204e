// Package terminal provides an interactive preview of a flow's connectors.
// Every frame re-runs the arrow generator against the viewer's own copy of
// the snapshot, the same way the editor does while the pointer moves.
package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"flowarrows/connections"
	"flowarrows/core"
	"flowarrows/export"
	"flowarrows/geometry"
	"flowarrows/pathdata"
	"flowarrows/pathfinding"
)

var (
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHovered = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleResolve = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleReject  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHint    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleCursor  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

// Viewer draws panels and arrows on a tcell screen. One cell is one grid
// unit wide and two grid units tall.
type Viewer struct {
	screen tcell.Screen
	cfg    core.Config
	gen    *connections.ArrowGenerator

	panels  []core.Panel
	ctx     connections.Context
	hovered int // index into panels, -1 for none
	origin  core.Point
	message string
}

// NewViewer creates a viewer over a copy of snap.
func NewViewer(screen tcell.Screen, snap connections.Snapshot) (*Viewer, error) {
	cfg := snap.EffectiveConfig()
	gen, err := connections.NewArrowGenerator(cfg)
	if err != nil {
		return nil, err
	}

	panels := make([]core.Panel, len(snap.Panels))
	copy(panels, snap.Panels)

	v := &Viewer{
		screen:  screen,
		cfg:     cfg,
		gen:     gen,
		panels:  panels,
		ctx:     snap.Context,
		hovered: -1,
	}
	v.ctx.ArrowInfo = nil
	for i, p := range panels {
		if p.ID == snap.Context.HoveredPanel {
			v.hovered = i
		}
	}
	v.origin, _ = export.Scene{Config: cfg, Panels: panels}.Bounds(2 * cfg.GridSize)
	return v, nil
}

// Run opens the terminal and runs the viewer until the user quits.
func Run(snap connections.Snapshot) (connections.Snapshot, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return snap, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return snap, fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	v, err := NewViewer(screen, snap)
	if err != nil {
		return snap, err
	}
	v.Loop()
	return v.Snapshot(), nil
}

// Loop polls events and redraws until a quit key is pressed.
func (v *Viewer) Loop() {
	for {
		v.Draw()
		v.screen.Show()

		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return
			}
		case nil:
			// screen finalized
			return
		}
	}
}

// Snapshot returns the viewer's current state, including rewired panels.
func (v *Viewer) Snapshot() connections.Snapshot {
	panels := make([]core.Panel, len(v.panels))
	copy(panels, v.panels)
	cfg := v.cfg
	return connections.Snapshot{Config: &cfg, Panels: panels, Context: v.ctx}
}

// Arrows returns the arrows of the current frame.
func (v *Viewer) Arrows() []connections.Arrow {
	return v.gen.Generate(v.panels, v.ctx)
}

// HandleKey applies a key press and reports whether the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	g := v.cfg.GridSize
	drag := v.ctx.ArrowInfo

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		if len(v.panels) > 0 {
			v.hovered = (v.hovered + 1) % len(v.panels)
			v.ctx.HoveredPanel = v.panels[v.hovered].ID
		}
	case tcell.KeyEscape:
		if drag != nil {
			v.ctx.ArrowInfo = nil
			v.message = "drag cancelled"
		}
	case tcell.KeyEnter:
		if drag != nil {
			v.drop(*drag)
		}
	case tcell.KeyLeft:
		v.moveDrag(-g, 0)
	case tcell.KeyRight:
		v.moveDrag(g, 0)
	case tcell.KeyUp:
		v.moveDrag(0, -g)
	case tcell.KeyDown:
		v.moveDrag(0, g)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'e':
			v.ctx.EditMode = !v.ctx.EditMode
		case 'r':
			v.startDrag(connections.Resolve)
		case 'x':
			v.startDrag(connections.Reject)
		}
	}
	return false
}

func (v *Viewer) startDrag(t connections.ConnectionType) {
	if v.hovered < 0 {
		v.message = "tab to a panel first"
		return
	}
	panel := v.panels[v.hovered]
	start := connections.GetPoints(v.cfg, panel, connections.Offset(v.cfg, t))
	pos := start.Add(core.Point{X: float64(v.cfg.HintLength) * v.cfg.GridSize})
	v.ctx.EditMode = true
	v.ctx.ArrowInfo = &connections.DragInfo{ID: panel.ID, Type: t, Pos: pos}
	v.message = ""
}

func (v *Viewer) moveDrag(dx, dy float64) {
	if v.ctx.ArrowInfo == nil {
		return
	}
	drag := *v.ctx.ArrowInfo
	drag.Pos = drag.Pos.Add(core.Point{X: dx, Y: dy})
	v.ctx.ArrowInfo = &drag
}

// drop wires the dragged outcome to the panel under the pointer, or
// disconnects it when the pointer is over empty canvas.
func (v *Viewer) drop(drag connections.DragInfo) {
	target := ""
	for _, p := range v.panels {
		if p.ID != drag.ID && pathfinding.IsPointInPanel(v.cfg, []core.Panel{p}, drag.Pos) {
			target = p.ID
			break
		}
	}

	for i := range v.panels {
		if v.panels[i].ID != drag.ID {
			continue
		}
		if drag.Type == connections.Reject {
			v.panels[i].Reject = target
		} else {
			v.panels[i].Resolve = target
		}
	}

	v.ctx.ArrowInfo = nil
	if target == "" {
		v.message = fmt.Sprintf("%s %s disconnected", drag.ID, drag.Type)
	} else {
		v.message = fmt.Sprintf("%s %s -> %s", drag.ID, drag.Type, target)
	}
}

// cell maps a screen-space point to a terminal cell.
func (v *Viewer) cell(p core.Point) (int, int) {
	g := v.cfg.GridSize
	return int(math.Floor((p.X - v.origin.X) / g)), int(math.Floor((p.Y - v.origin.Y) / (2 * g)))
}

// Draw renders the current frame.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	for i, p := range v.panels {
		style := styleBorder
		if i == v.hovered {
			style = styleHovered
		}
		o, pw, ph := export.PanelRect(v.cfg, p)
		x0, y0 := v.cell(o)
		x1, y1 := v.cell(o.Add(core.Point{X: pw, Y: ph}))
		v.drawBox(x0, y0, x1-x0, y1-y0, style)
		v.drawString(x0+2, y0+1, truncate(p.ID, x1-x0-3), styleLabel)
	}

	for _, a := range v.Arrows() {
		v.drawArrow(a)
	}

	if drag := v.ctx.ArrowInfo; drag != nil {
		x, y := v.cell(drag.Pos)
		v.screen.SetContent(x, y, '+', nil, styleCursor)
	}

	v.drawStatusBar(w, h)
}

func (v *Viewer) drawArrow(a connections.Arrow) {
	path, err := pathdata.Parse(a.D)
	if err != nil || len(path) == 0 {
		return
	}
	style := styleResolve
	switch {
	case a.IsHint:
		style = styleHint
	case a.Type == connections.Reject:
		style = styleReject
	}

	// the last five commands are the final segment and the arrowhead
	body := path
	var tip *core.Point
	if len(path) >= 6 {
		body = path[:len(path)-4]
		end := path[len(path)-5].End()
		tip = &end
	}

	for _, line := range pathdata.Flatten(body, 4) {
		for i := 0; i+1 < len(line); i++ {
			v.drawSegment(line[i], line[i+1], style)
		}
	}
	if tip != nil {
		x, y := v.cell(*tip)
		v.screen.SetContent(x, y, '►', nil, style)
	}
}

func (v *Viewer) drawSegment(from, to core.Point, style tcell.Style) {
	x0, y0 := v.cell(from)
	x1, y1 := v.cell(to)

	r := '·'
	switch {
	case y0 == y1:
		r = '─'
	case x0 == x1:
		r = '│'
	}

	steps := max(geometry.Abs(x1-x0), geometry.Abs(y1-y0))
	for s := 0; s <= steps; s++ {
		x, y := x0, y0
		if steps > 0 {
			x = x0 + int(math.Round(float64((x1-x0)*s)/float64(steps)))
			y = y0 + int(math.Round(float64((y1-y0)*s)/float64(steps)))
		}
		v.screen.SetContent(x, y, r, nil, style)
	}
}

func (v *Viewer) drawBox(x, y, w, h int, style tcell.Style) {
	if w < 2 || h < 2 {
		return
	}
	// Corners
	v.screen.SetContent(x, y, '┌', nil, style)
	v.screen.SetContent(x+w-1, y, '┐', nil, style)
	v.screen.SetContent(x, y+h-1, '└', nil, style)
	v.screen.SetContent(x+w-1, y+h-1, '┘', nil, style)

	// Horizontal borders
	for i := x + 1; i < x+w-1; i++ {
		v.screen.SetContent(i, y, '─', nil, style)
		v.screen.SetContent(i, y+h-1, '─', nil, style)
	}

	// Vertical borders
	for i := y + 1; i < y+h-1; i++ {
		v.screen.SetContent(x, i, '│', nil, style)
		v.screen.SetContent(x+w-1, i, '│', nil, style)
	}
}

func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (v *Viewer) drawStatusBar(w, h int) {
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, h-1, ' ', nil, styleStatus)
	}
	v.drawString(0, h-1, truncate(v.statusString(), w), styleStatus)
}

func (v *Viewer) statusString() string {
	mode := "VIEW"
	if v.ctx.EditMode {
		mode = "EDIT"
	}
	if drag := v.ctx.ArrowInfo; drag != nil {
		mode = fmt.Sprintf("DRAG %s %s @ %s", drag.ID, drag.Type, drag.Pos)
	}
	s := fmt.Sprintf(" %s | tab hover  e edit  r/x drag  arrows move  enter drop  esc cancel  q quit", mode)
	if v.message != "" {
		s += " | " + v.message
	}
	return s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}
