package interact

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

// ObjectStore is what the editor needs from the object store. Controllers
// write through CommitPosition and CreateObject only.
type ObjectStore interface {
	Objects(floor, zone string) []plan.Object
	CommitPosition(id string, p geom.Point) error
	CreateObject(o plan.Object) (plan.Object, error)
	DeleteObject(id string) error
}

type Options struct {
	Viewport ViewportConfig
	Drag     DragConfig
	Draw     DrawConfig
	Location plan.Location
	Logger   *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		Viewport: DefaultViewportConfig(),
		Drag:     DefaultDragConfig(),
		Draw:     DefaultDrawConfig(),
	}
}

var ErrNothingSelected = errors.New("nothing selected")

// Editor routes pointer and key events to the viewport, drag and draw
// controllers of one canvas. The controllers share a single mode guard.
type Editor struct {
	store ObjectStore
	geo   GeometryProvider
	log   *zap.Logger

	guard    *modeGuard
	viewport *Viewport
	drag     *DragController
	draw     *DrawController

	loc      plan.Location
	selected string
}

func NewEditor(store ObjectStore, geo GeometryProvider, opts Options) *Editor {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	guard := &modeGuard{}
	viewport := NewViewport(opts.Viewport, log.Named("viewport"))
	e := &Editor{
		store:    store,
		geo:      geo,
		log:      log,
		guard:    guard,
		viewport: viewport,
		drag:     newDragController(opts.Drag, viewport, geo, guard, log.Named("drag")),
		draw:     newDrawController(opts.Draw, viewport, geo, store, guard, log.Named("draw")),
		loc:      opts.Location,
	}
	e.draw.SetLocation(opts.Location)
	viewport.Subscribe(func(geom.Transform) {
		e.drag.refresh()
		e.draw.refresh()
	})
	return e
}

func (e *Editor) Viewport() *Viewport     { return e.viewport }
func (e *Editor) Drag() *DragController   { return e.drag }
func (e *Editor) Draw() *DrawController   { return e.draw }
func (e *Editor) Location() plan.Location { return e.loc }

// Mode reports the interaction currently holding the canvas.
func (e *Editor) Mode() Mode {
	if e.viewport.Panning() {
		return ModePanning
	}
	return e.guard.current()
}

// busy reports whether a gesture is in progress. A selected tool without
// an anchor is not a gesture.
func (e *Editor) busy() bool {
	return e.drag.Active() || e.draw.Anchored() || e.viewport.Panning()
}

// SetLocation switches the workspace; refused mid-gesture.
func (e *Editor) SetLocation(loc plan.Location) bool {
	if e.busy() {
		return false
	}
	e.loc = loc
	e.selected = ""
	e.draw.SetLocation(loc)
	return true
}

// SelectTool selects a draw tool, see DrawController.SelectTool.
func (e *Editor) SelectTool(t Tool) bool {
	if t != ToolNone && e.viewport.Panning() {
		return false
	}
	ok := e.draw.SelectTool(t)
	if ok && t != ToolNone {
		e.selected = ""
	}
	return ok
}

// Objects returns the objects of the current zone bottom to top.
func (e *Editor) Objects() []plan.Object {
	objs := e.store.Objects(e.loc.Floor, e.loc.Zone)
	plan.SortByLayer(objs)
	return objs
}

// Container returns the current canvas container box.
func (e *Editor) Container() (geom.Rect, error) {
	return e.geo.Bounds()
}

// Selected returns the selected object when it is still in the current zone.
func (e *Editor) Selected() (plan.Object, bool) {
	if e.selected == "" {
		return plan.Object{}, false
	}
	for _, o := range e.store.Objects(e.loc.Floor, e.loc.Zone) {
		if o.ID == e.selected {
			return o, true
		}
	}
	return plan.Object{}, false
}

func (e *Editor) Select(id string) {
	e.selected = id
}

func (e *Editor) ClearSelection() {
	e.selected = ""
}

// DeleteSelected removes the selected object from the store.
func (e *Editor) DeleteSelected() error {
	if e.busy() {
		return fmt.Errorf("delete: gesture in progress")
	}
	o, ok := e.Selected()
	if !ok {
		return ErrNothingSelected
	}
	if err := e.store.DeleteObject(o.ID); err != nil {
		return fmt.Errorf("delete %s: %w", o.ID, err)
	}
	e.selected = ""
	return nil
}

// HitTest returns the top-most object under a screen point, skipping the
// object being dragged.
func (e *Editor) HitTest(screen geom.Point) (plan.Object, bool) {
	bounds, err := e.geo.Bounds()
	if err != nil {
		return plan.Object{}, false
	}
	local := geom.ToCanvasLocal(screen, bounds.Origin, e.viewport.Transform())
	objs := e.Objects()
	for i := len(objs) - 1; i >= 0; i-- {
		o := objs[i]
		if e.drag.Dragging(o.ID) {
			continue
		}
		if o.Bounds().Contains(local) {
			return o, true
		}
	}
	return plan.Object{}, false
}

func isPanGesture(ev PointerEvent) bool {
	switch ev.Button {
	case ButtonSecondary, ButtonMiddle:
		return true
	case ButtonPrimary:
		return ev.Alt || ev.Ctrl
	}
	return false
}

// HandlePointer routes one pointer event. Events the current state does
// not accept are ignored.
func (e *Editor) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		e.pointerDown(ev)
	case PointerMove:
		e.pointerMove(ev)
	case PointerUp:
		e.pointerUp(ev)
	case PointerWheel:
		e.wheel(ev)
	}
}

func (e *Editor) pointerDown(ev PointerEvent) {
	if ev.Button == ButtonPrimary && !isPanGesture(ev) && (e.drag.Active() || e.draw.Anchored()) {
		// the release of the running gesture never arrived
		e.log.Debug("stale gesture dropped", zap.Stringer("mode", e.Mode()))
		e.CancelGesture()
		return
	}
	if e.busy() {
		e.log.Debug("pointer down ignored, gesture in progress", zap.Stringer("mode", e.Mode()))
		return
	}
	if isPanGesture(ev) {
		e.viewport.BeginPan(ev.Pos)
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}
	if e.draw.Tool() != ToolNone {
		e.draw.PointerDown(ev)
		return
	}
	obj, ok := e.HitTest(ev.Pos)
	if !ok {
		e.selected = ""
		return
	}
	e.drag.Start(obj, ev)
}

func (e *Editor) pointerMove(ev PointerEvent) {
	switch {
	case e.viewport.Panning():
		e.viewport.UpdatePan(ev.Pos)
	case e.drag.Active():
		e.drag.Update(ev)
	case e.draw.Anchored():
		e.draw.PointerMove(ev)
	}
}

func (e *Editor) pointerUp(ev PointerEvent) {
	switch {
	case e.viewport.Panning():
		e.viewport.UpdatePan(ev.Pos)
		e.viewport.EndPan()
	case e.drag.Active():
		e.drag.Update(ev)
		res := e.drag.End(e.store.CommitPosition)
		switch res.Outcome {
		case DragClicked, DragMoved:
			e.selected = res.ID
		}
	case e.draw.Anchored():
		if obj, ok := e.draw.PointerUp(ev); ok {
			e.selected = obj.ID
		}
	}
}

func (e *Editor) wheel(ev PointerEvent) {
	if ev.Wheel == 0 {
		return
	}
	bounds, err := e.geo.Bounds()
	if err != nil {
		e.log.Debug("wheel ignored", zap.Error(err))
		return
	}
	e.viewport.ZoomAt(ev.Pos, bounds.Origin, ev.Wheel > 0)
}

// CancelGesture drops a drag, an anchored shape or a pan without
// committing anything. The tool and the selection are kept.
func (e *Editor) CancelGesture() bool {
	cancelled := e.drag.Cancel()
	if e.draw.Cancel() {
		cancelled = true
	}
	if e.viewport.Panning() {
		e.viewport.EndPan()
		cancelled = true
	}
	return cancelled
}

// HandleKey applies a key press and reports whether it was consumed.
// Escape unwinds one level: the drag, then an anchored shape, then the
// tool, then the selection.
func (e *Editor) HandleKey(k Key) bool {
	switch k {
	case KeyEscape:
		switch {
		case e.drag.Cancel():
		case e.draw.Cancel():
		case e.draw.Tool() != ToolNone:
			e.draw.SelectTool(ToolNone)
		case e.selected != "":
			e.selected = ""
		default:
			return false
		}
		return true
	case KeyZoomIn:
		e.viewport.ZoomIn()
	case KeyZoomOut:
		e.viewport.ZoomOut()
	case KeyResetView:
		e.viewport.ResetView()
	default:
		return false
	}
	return true
}
