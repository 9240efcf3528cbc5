package interact

import (
	"math"

	"go.uber.org/zap"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

type Tool int

const (
	ToolNone Tool = iota
	ToolLine
	ToolRect
)

func (t Tool) String() string {
	switch t {
	case ToolNone:
		return "none"
	case ToolLine:
		return "line"
	case ToolRect:
		return "rect"
	}
	return "unknown"
}

type DrawConfig struct {
	// Smallest bounding box extent of a drawn line on each axis, keeps
	// horizontal and vertical lines hit-testable.
	MinLineExtent float64
}

func DefaultDrawConfig() DrawConfig {
	return DrawConfig{MinLineExtent: 4}
}

// ObjectCreator stores a newly drawn shape and returns it with its id.
type ObjectCreator interface {
	CreateObject(o plan.Object) (plan.Object, error)
}

// Preview is the dashed shape shown while a gesture is anchored, in
// canvas-local space.
type Preview struct {
	Tool   Tool
	Anchor geom.Point
	End    geom.Point
}

func (p Preview) Rect() geom.Rect {
	return geom.Normalize(p.Anchor, p.End)
}

// DrawController creates lines and rectangles by dragging on the canvas.
// A selected tool stays selected across shapes until deselected.
type DrawController struct {
	cfg     DrawConfig
	view    TransformSource
	geo     GeometryProvider
	creator ObjectCreator
	guard   *modeGuard
	log     *zap.Logger

	tool     Tool
	loc      plan.Location
	axisLock bool

	anchored bool
	anchor   geom.Point
	preview  geom.Point
	// last pointer sample, replayed when the transform changes
	last PointerEvent
}

// NewDrawController returns a standalone controller. Controllers sharing
// a canvas should come from one Editor instead.
func NewDrawController(cfg DrawConfig, view TransformSource, geo GeometryProvider, creator ObjectCreator, log *zap.Logger) *DrawController {
	return newDrawController(cfg, view, geo, creator, &modeGuard{}, log)
}

func newDrawController(cfg DrawConfig, view TransformSource, geo GeometryProvider, creator ObjectCreator, guard *modeGuard, log *zap.Logger) *DrawController {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MinLineExtent < 0 {
		cfg.MinLineExtent = 0
	}
	return &DrawController{cfg: cfg, view: view, geo: geo, creator: creator, guard: guard, log: log}
}

func (d *DrawController) Tool() Tool {
	return d.tool
}

// Anchored reports whether a shape gesture is in progress.
func (d *DrawController) Anchored() bool {
	return d.anchored
}

// SetLocation sets the floor and zone new shapes are placed in.
func (d *DrawController) SetLocation(loc plan.Location) {
	d.loc = loc
}

// SetAxisLock latches the line axis lock on or off, as if the lock
// modifier were held.
func (d *DrawController) SetAxisLock(on bool) {
	d.axisLock = on
}

func (d *DrawController) AxisLock() bool {
	return d.axisLock
}

// SelectTool activates a drawing tool. Selecting a tool is refused while
// another interaction holds the canvas; ToolNone always succeeds and drops
// any anchored gesture.
func (d *DrawController) SelectTool(t Tool) bool {
	if t == ToolNone {
		if d.tool != ToolNone {
			d.log.Debug("draw tool deselected", zap.Stringer("tool", d.tool))
		}
		d.clear()
		d.tool = ToolNone
		d.guard.release(ModeDrawing)
		return true
	}
	if !d.guard.acquire(ModeDrawing) {
		d.log.Debug("draw tool refused", zap.Stringer("tool", t), zap.Stringer("mode", d.guard.current()))
		return false
	}
	if d.tool != t {
		d.clear()
	}
	d.tool = t
	return true
}

// Preview returns the shape being drawn.
func (d *DrawController) Preview() (Preview, bool) {
	if !d.anchored {
		return Preview{}, false
	}
	return Preview{Tool: d.tool, Anchor: d.anchor, End: d.preview}, true
}

// PointerDown anchors a new shape at the pointer.
func (d *DrawController) PointerDown(ev PointerEvent) bool {
	if d.tool == ToolNone || d.anchored || ev.Button != ButtonPrimary {
		return false
	}
	local, err := d.local(ev.Pos)
	if err != nil {
		d.log.Warn("draw anchor aborted", zap.Stringer("tool", d.tool), zap.Error(err))
		return false
	}
	d.anchored = true
	d.anchor = local
	d.preview = local
	d.last = ev
	d.log.Debug("draw anchor", zap.Stringer("tool", d.tool), zap.Stringer("anchor", local))
	return true
}

// PointerMove updates the preview end point.
func (d *DrawController) PointerMove(ev PointerEvent) {
	if !d.anchored {
		return
	}
	if err := d.track(ev); err != nil {
		d.log.Warn("draw preview aborted", zap.Error(err))
		d.clear()
	}
}

// PointerUp finishes the shape. A gesture ending on its anchor creates
// nothing. The tool stays selected.
func (d *DrawController) PointerUp(ev PointerEvent) (plan.Object, bool) {
	if !d.anchored {
		return plan.Object{}, false
	}
	defer d.clear()
	if err := d.track(ev); err != nil {
		d.log.Warn("draw commit aborted", zap.Error(err))
		return plan.Object{}, false
	}
	if d.preview == d.anchor {
		d.log.Debug("draw dropped, zero size", zap.Stringer("tool", d.tool))
		return plan.Object{}, false
	}
	obj := d.shape()
	created, err := d.creator.CreateObject(obj)
	if err != nil {
		d.log.Warn("draw create failed", zap.Stringer("tool", d.tool), zap.Error(err))
		return plan.Object{}, false
	}
	d.log.Debug("draw commit", zap.String("id", created.ID), zap.Stringer("position", created.Position))
	return created, true
}

// Cancel drops an anchored gesture, keeping the tool.
func (d *DrawController) Cancel() bool {
	if !d.anchored {
		return false
	}
	d.clear()
	return true
}

func (d *DrawController) clear() {
	d.anchored = false
	d.anchor = geom.Point{}
	d.preview = geom.Point{}
	d.last = PointerEvent{}
}

// refresh replays the last pointer sample against the current transform.
func (d *DrawController) refresh() {
	if !d.anchored {
		return
	}
	_ = d.track(d.last)
}

func (d *DrawController) track(ev PointerEvent) error {
	local, err := d.local(ev.Pos)
	if err != nil {
		return err
	}
	if d.tool == ToolLine && (ev.Shift || d.axisLock) {
		local = snapAxis(d.anchor, local)
	}
	d.preview = local
	d.last = ev
	return nil
}

func (d *DrawController) local(screen geom.Point) (geom.Point, error) {
	bounds, err := d.geo.Bounds()
	if err != nil {
		return geom.Point{}, err
	}
	return geom.ToCanvasLocal(screen, bounds.Origin, d.view.Transform()), nil
}

// snapAxis keeps the larger displacement from anchor and flattens the
// other, ties go horizontal.
func snapAxis(anchor, p geom.Point) geom.Point {
	d := p.Sub(anchor)
	if math.Abs(d.X) >= math.Abs(d.Y) {
		return geom.Pt(p.X, anchor.Y)
	}
	return geom.Pt(anchor.X, p.Y)
}

func (d *DrawController) shape() plan.Object {
	r := geom.Normalize(d.anchor, d.preview)
	obj := plan.Object{
		Kind:     plan.KindRoomObject,
		Position: r.Origin,
		Size:     r.Size,
		Floor:    d.loc.Floor,
		Zone:     d.loc.Zone,
	}
	switch d.tool {
	case ToolLine:
		obj.Size.Width = math.Max(obj.Size.Width, d.cfg.MinLineExtent)
		obj.Size.Height = math.Max(obj.Size.Height, d.cfg.MinLineExtent)
		obj.Room = &plan.Room{
			Type:       plan.RoomLine,
			Properties: plan.RoomLine.DefaultProperties(),
			Points:     []geom.Point{d.anchor, d.preview},
		}
	case ToolRect:
		obj.Room = &plan.Room{Type: plan.RoomRect, Properties: plan.RoomRect.DefaultProperties()}
	}
	obj.Name = obj.Room.Type.Info().Name
	return obj
}
