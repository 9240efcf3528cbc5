package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"floorplan/internal/geom"
	"floorplan/internal/interact"
	"floorplan/internal/plan"
)

type cellStyle struct {
	fg    string
	bold  bool
	faint bool
}

// Canvas is a rune grid the plan is painted onto, one cell per
// cellWidth x cellHeight screen pixels.
type Canvas struct {
	width  int
	height int
	cells  [][]rune
	styles [][]cellStyle
	t      geom.Transform

	pen    cellStyle
	dashed bool
}

func NewCanvas(width, height int, t geom.Transform) *Canvas {
	c := &Canvas{width: width, height: height, t: t}
	c.cells = make([][]rune, height)
	c.styles = make([][]cellStyle, height)
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", width))
		c.styles[y] = make([]cellStyle, width)
	}
	return c
}

func (c *Canvas) isValidPos(x, y int) bool {
	return y >= 0 && y < c.height && x >= 0 && x < c.width
}

func (c *Canvas) set(x, y int, r rune) {
	if !c.isValidPos(x, y) {
		return
	}
	c.cells[y][x] = r
	c.styles[y][x] = c.pen
}

// cell returns the grid cell containing a canvas-local point.
func (c *Canvas) cell(p geom.Point) (int, int) {
	s := geom.ToScreen(p, geom.Point{}, c.t)
	return int(math.Floor(s.X / cellWidth)), int(math.Floor(s.Y / cellHeight))
}

// span returns the inclusive cell range covered by r. Every rect covers at
// least one cell.
func (c *Canvas) span(r geom.Rect) (x0, y0, x1, y1 int) {
	lo := geom.ToScreen(r.Origin, geom.Point{}, c.t)
	hi := geom.ToScreen(r.Max(), geom.Point{}, c.t)
	x0 = int(math.Floor(lo.X / cellWidth))
	y0 = int(math.Floor(lo.Y / cellHeight))
	x1 = max(x0, int(math.Ceil(hi.X/cellWidth))-1)
	y1 = max(y0, int(math.Ceil(hi.Y/cellHeight))-1)
	return
}

func (c *Canvas) fill(r geom.Rect, ch rune) {
	x0, y0, x1, y1 := c.span(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.set(x, y, ch)
		}
	}
}

func (c *Canvas) outline(r geom.Rect, corner, horizontal, vertical rune) {
	x0, y0, x1, y1 := c.span(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			edgeY := y == y0 || y == y1
			edgeX := x == x0 || x == x1
			switch {
			case edgeX && edgeY:
				c.set(x, y, corner)
			case edgeY:
				c.set(x, y, horizontal)
			case edgeX:
				c.set(x, y, vertical)
			}
		}
	}
}

func (c *Canvas) frame(r geom.Rect) {
	if c.dashed {
		c.outline(r, '+', '·', ':')
		return
	}
	c.outline(r, '+', '-', '|')
}

// line draws a Bresenham segment between two canvas-local points.
func (c *Canvas) line(a, b geom.Point, ch rune) {
	x0, y0 := c.cell(a)
	x1, y1 := c.cell(b)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, ch)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *Canvas) text(x, y int, s string) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r)
	}
}

// textIn writes s on the middle row of r, truncated to its width.
func (c *Canvas) textIn(r geom.Rect, s, align string) {
	x0, y0, x1, y1 := c.span(r)
	runes := []rune(s)
	room := x1 - x0 + 1
	if len(runes) > room {
		runes = runes[:room]
	}
	x := x0 + (room-len(runes))/2
	switch align {
	case "left":
		x = x0
	case "right":
		x = x1 - len(runes) + 1
	}
	c.text(x, (y0+y1)/2, string(runes))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (c *Canvas) Device(o plan.Object, d plan.Device) {
	c.pen.fg = d.Status.Info().Color
	c.fill(o.Bounds(), '▒')
	x0, y0, x1, y1 := c.span(o.Bounds())
	c.pen.bold = true
	c.set((x0+x1)/2, (y0+y1)/2, d.Type.Info().Symbol)
	c.pen.bold = false
	if o.Name != "" {
		c.pen.fg = ""
		c.text(x0, y1+1, o.Name)
	}
}

func (c *Canvas) Wall(o plan.Object, axis plan.WallAxis) {
	r := o.Bounds()
	switch axis {
	case plan.WallHorizontal:
		c.fill(r, '═')
	case plan.WallVertical:
		c.fill(r, '║')
	case plan.WallDiagonal:
		c.line(geom.Pt(r.Origin.X, r.Max().Y), geom.Pt(r.Max().X, r.Origin.Y), '/')
	case plan.WallDiagonalReverse:
		c.line(r.Origin, r.Max(), '\\')
	}
}

func (c *Canvas) Door(o plan.Object) {
	c.pen.fg = "#92400e"
	c.outline(o.Bounds(), '+', '-', '|')
	c.textIn(o.Bounds(), "∩", "center")
}

func (c *Canvas) Label(o plan.Object, props plan.Properties) {
	c.pen.fg = props.Color
	c.pen.bold = props.FontWeight == "bold"
	c.textIn(o.Bounds(), o.Name, props.TextAlign)
	c.pen.bold = false
}

func (c *Canvas) Box(o plan.Object, props plan.Properties) {
	c.pen.fg = props.Color
	if props.BorderStyle == "dashed" {
		c.outline(o.Bounds(), '+', '·', ':')
		return
	}
	c.frame(o.Bounds())
}

func (c *Canvas) Segment(o plan.Object, a, b geom.Point, props plan.Properties) {
	c.pen.fg = props.Color
	c.line(a, b, segmentRune(a, b))
}

func segmentRune(a, b geom.Point) rune {
	d := b.Sub(a)
	switch {
	case d.Y == 0:
		return '─'
	case d.X == 0:
		return '│'
	case (d.X > 0) == (d.Y > 0):
		return '\\'
	}
	return '/'
}

// Render paints objs in order, then the drag ghost, the draw preview and
// the selection frame on top. The object being dragged is dimmed in place.
func (c *Canvas) Render(objs []plan.Object, e *interact.Editor) []string {
	selected, hasSelection := e.Selected()
	for _, o := range objs {
		c.pen = cellStyle{faint: e.Drag().Dragging(o.ID)}
		if err := plan.Paint(c, o); err != nil {
			c.pen = cellStyle{fg: "#ef4444"}
			c.fill(o.Bounds(), '?')
		}
	}

	c.pen = cellStyle{bold: true}
	c.dashed = true
	if s, ok := e.Drag().Session(); ok {
		if ghost, ok := e.Drag().Ghost(); ok {
			c.frame(geom.Rect{Origin: ghost, Size: s.Target.BoxSize()})
		}
	}
	if p, ok := e.Draw().Preview(); ok {
		switch p.Tool {
		case interact.ToolLine:
			c.line(p.Anchor, p.End, '·')
		case interact.ToolRect:
			c.frame(p.Rect())
		}
	}
	c.dashed = false

	if hasSelection && !e.Drag().Active() {
		c.outline(selected.Bounds(), '#', '#', '#')
	}
	return c.lines()
}

var styleCache = map[cellStyle]lipgloss.Style{}

func (s cellStyle) render(text string) string {
	if s == (cellStyle{}) {
		return text
	}
	st, ok := styleCache[s]
	if !ok {
		st = lipgloss.NewStyle().Bold(s.bold).Faint(s.faint)
		if s.fg != "" && s.fg != "transparent" {
			st = st.Foreground(lipgloss.Color(s.fg))
		}
		styleCache[s] = st
	}
	return st.Render(text)
}

// lines joins each row into runs of equally styled cells.
func (c *Canvas) lines() []string {
	out := make([]string, c.height)
	for y := range c.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= c.width; x++ {
			if x < c.width && c.styles[y][x] == c.styles[y][start] {
				continue
			}
			b.WriteString(c.styles[y][start].render(string(c.cells[y][start:x])))
			start = x
		}
		out[y] = b.String()
	}
	return out
}
