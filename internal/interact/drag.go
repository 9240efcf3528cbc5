package interact

import (
	"go.uber.org/zap"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

type DragConfig struct {
	// Total pointer travel, in screen px, at or below which a gesture is
	// a click rather than a move.
	ClickThreshold float64
}

func DefaultDragConfig() DragConfig {
	return DragConfig{ClickThreshold: 3}
}

// DragSession is the state of one move gesture, in screen space.
type DragSession struct {
	Target         plan.Object
	PointerStart   geom.Point
	PointerCurrent geom.Point
	// pointer position minus the rendered top-left of Target at press time
	GrabOffset geom.Point
}

// Displacement is the pointer travel since the press.
func (s DragSession) Displacement() geom.Point {
	return s.PointerCurrent.Sub(s.PointerStart)
}

type DragOutcome int

const (
	// no drag was in progress
	DragIgnored DragOutcome = iota
	// travel within the click threshold, nothing committed
	DragClicked
	// final position committed
	DragMoved
	// gesture dropped without commit, geometry or commit failed
	DragAborted
)

func (o DragOutcome) String() string {
	switch o {
	case DragIgnored:
		return "ignored"
	case DragClicked:
		return "clicked"
	case DragMoved:
		return "moved"
	case DragAborted:
		return "aborted"
	}
	return "unknown"
}

type DragResult struct {
	Outcome  DragOutcome
	ID       string
	Position geom.Point
}

// CommitFunc receives the final canvas-local position of a moved object.
type CommitFunc func(id string, p geom.Point) error

// DragController moves existing objects: Idle -> Dragging -> Idle.
type DragController struct {
	cfg   DragConfig
	view  TransformSource
	geo   GeometryProvider
	guard *modeGuard
	log   *zap.Logger

	session *DragSession
	ghost   geom.Point
}

// NewDragController returns a standalone controller. Controllers sharing
// a canvas should come from one Editor instead.
func NewDragController(cfg DragConfig, view TransformSource, geo GeometryProvider, log *zap.Logger) *DragController {
	return newDragController(cfg, view, geo, &modeGuard{}, log)
}

func newDragController(cfg DragConfig, view TransformSource, geo GeometryProvider, guard *modeGuard, log *zap.Logger) *DragController {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ClickThreshold < 0 {
		cfg.ClickThreshold = 0
	}
	return &DragController{cfg: cfg, view: view, geo: geo, guard: guard, log: log}
}

// Active reports whether a drag is in progress.
func (d *DragController) Active() bool {
	return d.session != nil
}

// Session returns a copy of the current session.
func (d *DragController) Session() (DragSession, bool) {
	if d.session == nil {
		return DragSession{}, false
	}
	return *d.session, true
}

// Dragging reports whether id is the object being dragged. Renderers draw
// it dimmed and hit tests skip it.
func (d *DragController) Dragging(id string) bool {
	return d.session != nil && d.session.Target.ID == id
}

// Ghost is the canvas-local top-left of the floating preview.
func (d *DragController) Ghost() (geom.Point, bool) {
	if d.session == nil {
		return geom.Point{}, false
	}
	return d.ghost, true
}

// Start begins dragging obj from a primary button press.
func (d *DragController) Start(obj plan.Object, ev PointerEvent) bool {
	if d.session != nil {
		d.log.Debug("drag start ignored, already dragging", zap.String("id", d.session.Target.ID))
		return false
	}
	if ev.Button != ButtonPrimary {
		return false
	}
	if !d.guard.acquire(ModeDragging) {
		d.log.Debug("drag start refused", zap.Stringer("mode", d.guard.current()), zap.String("id", obj.ID))
		return false
	}
	bounds, err := d.geo.Bounds()
	if err != nil {
		d.guard.release(ModeDragging)
		d.log.Warn("drag start aborted", zap.String("id", obj.ID), zap.Error(err))
		return false
	}
	rendered := geom.ToScreen(obj.Position, bounds.Origin, d.view.Transform())
	d.session = &DragSession{
		Target:         obj.Clone(),
		PointerStart:   ev.Pos,
		PointerCurrent: ev.Pos,
		GrabOffset:     ev.Pos.Sub(rendered),
	}
	d.ghost = obj.Position
	d.log.Debug("drag start", zap.String("id", obj.ID), zap.Stringer("grab", d.session.GrabOffset))
	return true
}

// Update records the pointer position and moves the ghost. The stored
// object position is untouched until End.
func (d *DragController) Update(ev PointerEvent) {
	if d.session == nil {
		return
	}
	d.session.PointerCurrent = ev.Pos
	d.refresh()
}

// refresh recomputes the ghost from the current pointer and transform.
func (d *DragController) refresh() {
	if d.session == nil {
		return
	}
	bounds, err := d.geo.Bounds()
	if err != nil {
		return
	}
	d.ghost = d.unclamped(bounds.Origin)
}

func (d *DragController) unclamped(origin geom.Point) geom.Point {
	topLeft := d.session.PointerCurrent.Sub(d.session.GrabOffset)
	return geom.ToCanvasLocal(topLeft, origin, d.view.Transform())
}

// End finishes the gesture. Travel within the click threshold commits
// nothing; otherwise the clamped canvas-local position goes to commit. The
// controller is Idle afterwards whatever the outcome.
func (d *DragController) End(commit CommitFunc) DragResult {
	if d.session == nil {
		return DragResult{Outcome: DragIgnored}
	}
	s := *d.session
	d.reset()

	res := DragResult{ID: s.Target.ID, Position: s.Target.Position}
	if s.Displacement().Len() <= d.cfg.ClickThreshold {
		res.Outcome = DragClicked
		return res
	}
	bounds, err := d.geo.Bounds()
	if err != nil {
		d.log.Warn("drag end aborted", zap.String("id", s.Target.ID), zap.Error(err))
		res.Outcome = DragAborted
		return res
	}
	t := d.view.Transform()
	topLeft := s.PointerCurrent.Sub(s.GrabOffset)
	final := geom.ClampToBounds(
		geom.ToCanvasLocal(topLeft, bounds.Origin, t),
		s.Target.BoxSize(), bounds.Size, t,
	)
	if err := commit(s.Target.ID, final); err != nil {
		d.log.Warn("drag commit failed", zap.String("id", s.Target.ID), zap.Error(err))
		res.Outcome = DragAborted
		return res
	}
	d.log.Debug("drag commit", zap.String("id", s.Target.ID), zap.Stringer("position", final))
	res.Outcome = DragMoved
	res.Position = final
	return res
}

// Cancel drops the gesture without committing.
func (d *DragController) Cancel() bool {
	if d.session == nil {
		return false
	}
	d.log.Debug("drag cancel", zap.String("id", d.session.Target.ID))
	d.reset()
	return true
}

func (d *DragController) reset() {
	d.session = nil
	d.ghost = geom.Point{}
	d.guard.release(ModeDragging)
}
