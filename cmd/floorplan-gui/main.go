// Command floorplan-gui is a windowed front end for the floor plan editor.
package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gregoryv/cmdline"
	"go.uber.org/zap"

	"floorplan/internal/config"
	"floorplan/internal/geom"
	"floorplan/internal/interact"
	"floorplan/internal/logger"
	"floorplan/internal/plan"
	"floorplan/internal/store"
)

const (
	screenWidth  = 1280
	screenHeight = 800
	headerHeight = 40
	statusHeight = 24
	fontSize     = 10
)

type App struct {
	store  *store.Store
	editor *interact.Editor
	log    *zap.Logger

	last    geom.Point
	message string
}

func NewApp(st *store.Store, opts interact.Options, zlog *zap.Logger) *App {
	opts.Logger = zlog.Named("editor")
	if locs := plan.Locations(st.Floors()); len(locs) > 0 {
		opts.Location = locs[0]
	}
	app := &App{store: st, log: zlog}
	app.editor = interact.NewEditor(st, interact.GeometryFunc(canvasBounds), opts)
	return app
}

// canvasBounds is the panel between the header and the status bar.
func canvasBounds() (geom.Rect, error) {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	if w <= 0 || h <= headerHeight+statusHeight {
		return geom.Rect{}, interact.ErrNoGeometry
	}
	return geom.Rect{
		Origin: geom.Pt(0, headerHeight),
		Size:   geom.Sz(float64(w), float64(h-headerHeight-statusHeight)),
	}, nil
}

var buttons = []interact.Button{interact.ButtonPrimary, interact.ButtonMiddle, interact.ButtonSecondary}

func mouseButton(b interact.Button) (pressed, released bool) {
	switch b {
	case interact.ButtonPrimary:
		return rl.IsMouseButtonPressed(rl.MouseLeftButton), rl.IsMouseButtonReleased(rl.MouseLeftButton)
	case interact.ButtonMiddle:
		return rl.IsMouseButtonPressed(rl.MouseMiddleButton), rl.IsMouseButtonReleased(rl.MouseMiddleButton)
	case interact.ButtonSecondary:
		return rl.IsMouseButtonPressed(rl.MouseRightButton), rl.IsMouseButtonReleased(rl.MouseRightButton)
	}
	return false, false
}

// Update turns this frame's input into editor events: presses, then
// motion, then releases, then the wheel.
func (app *App) Update() {
	mouse := rl.GetMousePosition()
	pos := geom.Pt(float64(mouse.X), float64(mouse.Y))
	base := interact.PointerEvent{
		Pos:   pos,
		Shift: rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift),
		Alt:   rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt),
		Ctrl:  rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl),
	}

	for _, b := range buttons {
		if pressed, _ := mouseButton(b); pressed {
			ev := base
			ev.Kind, ev.Button = interact.PointerDown, b
			app.editor.HandlePointer(ev)
		}
	}
	if pos != app.last {
		ev := base
		ev.Kind = interact.PointerMove
		app.editor.HandlePointer(ev)
		app.last = pos
	}
	for _, b := range buttons {
		if _, released := mouseButton(b); released {
			ev := base
			ev.Kind, ev.Button = interact.PointerUp, b
			app.editor.HandlePointer(ev)
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		ev := base
		ev.Kind, ev.Wheel = interact.PointerWheel, float64(wheel)
		app.editor.HandlePointer(ev)
	}

	app.handleKeys()
}

func (app *App) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		app.editor.HandleKey(interact.KeyEscape)
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		app.editor.HandleKey(interact.KeyZoomIn)
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		app.editor.HandleKey(interact.KeyZoomOut)
	case rl.IsKeyPressed(rl.KeyZero):
		app.editor.HandleKey(interact.KeyResetView)
	case rl.IsKeyPressed(rl.KeyL):
		app.toggleTool(interact.ToolLine)
	case rl.IsKeyPressed(rl.KeyR):
		app.toggleTool(interact.ToolRect)
	case rl.IsKeyPressed(rl.KeyX):
		draw := app.editor.Draw()
		draw.SetAxisLock(!draw.AxisLock())
	case rl.IsKeyPressed(rl.KeyDelete), rl.IsKeyPressed(rl.KeyBackspace):
		if err := app.editor.DeleteSelected(); err != nil {
			app.message = err.Error()
		}
	case rl.IsKeyPressed(rl.KeyPageDown):
		app.cycleLocation(1)
	case rl.IsKeyPressed(rl.KeyPageUp):
		app.cycleLocation(-1)
	}
}

func (app *App) toggleTool(t interact.Tool) {
	if app.editor.Draw().Tool() == t {
		t = interact.ToolNone
	}
	if !app.editor.SelectTool(t) {
		app.message = fmt.Sprintf("%s tool unavailable during %s", t, app.editor.Mode())
	}
}

func (app *App) cycleLocation(delta int) {
	locs := plan.Locations(app.store.Floors())
	if len(locs) == 0 {
		return
	}
	cur := 0
	for i, l := range locs {
		if l == app.editor.Location() {
			cur = i
		}
	}
	if app.editor.SetLocation(locs[(cur+delta+len(locs))%len(locs)]) {
		app.editor.Viewport().ResetView()
	}
}

func (app *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	bounds, err := canvasBounds()
	if err == nil {
		x, y := int32(bounds.Origin.X), int32(bounds.Origin.Y)
		rl.BeginScissorMode(x, y, int32(bounds.Size.Width), int32(bounds.Size.Height))
		app.drawCanvas(bounds.Origin)
		rl.EndScissorMode()
	}

	w := int32(rl.GetScreenWidth())
	rl.DrawRectangle(0, 0, w, headerHeight, rl.Color{31, 41, 55, 255})
	t := app.editor.Viewport().Transform()
	info := fmt.Sprintf("ZOOM: %.0f%% | ZONE: %s | TOOL: %s | MODE: %s",
		t.Zoom*100, app.locationName(), strings.ToUpper(app.editor.Draw().Tool().String()), app.editor.Mode())
	if app.editor.Draw().AxisLock() {
		info += " | AXIS LOCK"
	}
	rl.DrawText(info, 10, 15, fontSize, rl.White)

	h := int32(rl.GetScreenHeight())
	rl.DrawRectangle(0, h-statusHeight, w, statusHeight, rl.Color{55, 65, 81, 255})
	status := "L line | R rect | X axis lock | Esc cancel | wheel zoom | right drag pan"
	if o, ok := app.editor.Selected(); ok {
		status = fmt.Sprintf("%s (%s) at %s", o.Name, o.TypeName(), o.Position)
	}
	if app.message != "" {
		status += " | " + app.message
	}
	rl.DrawText(status, 10, h-statusHeight+7, fontSize, rl.LightGray)

	rl.EndDrawing()
}

func (app *App) drawCanvas(origin geom.Point) {
	p := &painter{origin: origin, t: app.editor.Viewport().Transform()}
	for _, o := range app.editor.Objects() {
		p.dim = app.editor.Drag().Dragging(o.ID)
		if err := plan.Paint(p, o); err != nil {
			app.log.Debug("paint failed", zap.Error(err))
		}
	}
	p.dim = false

	if s, ok := app.editor.Drag().Session(); ok {
		if ghost, ok := app.editor.Drag().Ghost(); ok {
			rl.DrawRectangleLinesEx(p.rect(geom.Rect{Origin: ghost, Size: s.Target.BoxSize()}), 2, rl.SkyBlue)
		}
	}
	if pv, ok := app.editor.Draw().Preview(); ok {
		switch pv.Tool {
		case interact.ToolLine:
			rl.DrawLineEx(p.vec(pv.Anchor), p.vec(pv.End), 2, rl.SkyBlue)
		case interact.ToolRect:
			rl.DrawRectangleLinesEx(p.rect(pv.Rect()), 2, rl.SkyBlue)
		}
	}
	if o, ok := app.editor.Selected(); ok && !app.editor.Drag().Active() {
		rl.DrawRectangleLinesEx(p.rect(o.Bounds()), 2, rl.Orange)
	}
}

func (app *App) locationName() string {
	loc := app.editor.Location()
	f, err := app.store.Floor(loc.Floor)
	if err != nil {
		return loc.Floor
	}
	if z, ok := f.Zone(loc.Zone); ok {
		return f.Name + " / " + z.Name
	}
	return f.Name
}

// painter draws plan objects in window space.
type painter struct {
	origin geom.Point
	t      geom.Transform
	dim    bool
}

func (p *painter) vec(local geom.Point) rl.Vector2 {
	s := geom.ToScreen(local, p.origin, p.t)
	return rl.Vector2{X: float32(s.X), Y: float32(s.Y)}
}

func (p *painter) rect(r geom.Rect) rl.Rectangle {
	v := p.vec(r.Origin)
	return rl.Rectangle{
		X: v.X, Y: v.Y,
		Width:  float32(r.Size.Width * p.t.Zoom),
		Height: float32(r.Size.Height * p.t.Zoom),
	}
}

func (p *painter) color(hex string, fallback rl.Color) rl.Color {
	c := fallback
	if v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32); err == nil && len(hex) == 7 {
		c = rl.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
	}
	if p.dim {
		c.A = 90
	}
	return c
}

func (p *painter) text(s string, at rl.Vector2, size float64, col rl.Color) {
	px := int32(size * p.t.Zoom)
	width := rl.MeasureText(s, px)
	rl.DrawText(s, int32(at.X)-width/2, int32(at.Y)-px/2, px, col)
}

func (p *painter) Device(o plan.Object, d plan.Device) {
	r := p.rect(o.Bounds())
	rl.DrawRectangleRounded(r, 0.25, 4, p.color(d.Status.Info().Color, rl.Gray))
	center := rl.Vector2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
	p.text(string(d.Type.Info().Symbol), center, 14, p.color("#ffffff", rl.White))
	p.text(o.Name, rl.Vector2{X: center.X, Y: r.Y + r.Height + 8}, 10, p.color("#000000", rl.Black))
}

func (p *painter) Wall(o plan.Object, axis plan.WallAxis) {
	b := o.Bounds()
	col := p.color("#374151", rl.DarkGray)
	thick := float32(8 * p.t.Zoom)
	switch axis {
	case plan.WallHorizontal, plan.WallVertical:
		rl.DrawRectangleRec(p.rect(b), col)
	case plan.WallDiagonal:
		rl.DrawLineEx(p.vec(geom.Pt(b.Origin.X, b.Max().Y)), p.vec(geom.Pt(b.Max().X, b.Origin.Y)), thick, col)
	case plan.WallDiagonalReverse:
		rl.DrawLineEx(p.vec(b.Origin), p.vec(b.Max()), thick, col)
	}
}

func (p *painter) Door(o plan.Object) {
	r := p.rect(o.Bounds())
	col := p.color("#8b5a2b", rl.Brown)
	hinge := rl.Vector2{X: r.X, Y: r.Y + r.Height}
	radius := r.Width
	if r.Height < radius {
		radius = r.Height
	}
	rl.DrawLineEx(hinge, rl.Vector2{X: hinge.X, Y: hinge.Y - radius}, 2, col)
	rl.DrawRing(hinge, radius-1, radius+1, 270, 360, 16, col)
}

func (p *painter) Label(o plan.Object, props plan.Properties) {
	r := p.rect(o.Bounds())
	size := props.FontSize
	if size == 0 {
		size = 16
	}
	p.text(o.Name, rl.Vector2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}, size, p.color(props.Color, rl.Black))
}

func (p *painter) Box(o plan.Object, props plan.Properties) {
	r := p.rect(o.Bounds())
	if bg := props.BackgroundColor; bg != "" && bg != "transparent" {
		rl.DrawRectangleRec(r, p.color(bg, rl.LightGray))
	}
	width := props.BorderWidth
	if width == 0 {
		width = 2
	}
	rl.DrawRectangleLinesEx(r, float32(width*p.t.Zoom), p.color(props.Color, rl.DarkGray))
}

func (p *painter) Segment(o plan.Object, a, b geom.Point, props plan.Properties) {
	width := props.BorderWidth
	if width == 0 {
		width = 2
	}
	rl.DrawLineEx(p.vec(a), p.vec(b), float32(width*p.t.Zoom), p.color(props.Color, rl.DarkGray))
}

func main() {
	cfg := config.Load()
	var (
		cli     = cmdline.NewBasicParser()
		dataDir = cli.Option("-d, --data-dir").String(cfg.DataDir)
		backend = cli.Option("-s, --store").String(cfg.Store)
		logFile = cli.Option("-l, --log-file").String(cfg.LogFile)
		debug   = cli.Flag("--debug")
	)
	u := cli.Usage()
	u.Preface("Windowed floor plan editor")
	cli.Parse()

	cfg.DataDir = dataDir
	cfg.Store = backend
	cfg.LogFile = logFile
	if debug {
		cfg.LogLevel = "debug"
	}
	zlog, err := logger.New(cfg.LogLevel, "console", cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	st, err := cfg.OpenStore(zlog)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(screenWidth, screenHeight, "Floor Plan")
	rl.SetExitKey(0)
	rl.SetTargetFPS(60)

	app := NewApp(st, cfg.EditorOptions(), zlog)
	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()
	}
	rl.CloseWindow()
}
