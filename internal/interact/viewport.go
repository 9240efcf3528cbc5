package interact

import (
	"math"

	"go.uber.org/zap"

	"floorplan/internal/geom"
)

type ViewportConfig struct {
	ZoomMin  float64
	ZoomMax  float64
	ZoomStep float64
}

func DefaultViewportConfig() ViewportConfig {
	return ViewportConfig{ZoomMin: 0.3, ZoomMax: 3.0, ZoomStep: 1.2}
}

func (c ViewportConfig) sanitized() ViewportConfig {
	d := DefaultViewportConfig()
	if c.ZoomMin <= 0 {
		c.ZoomMin = d.ZoomMin
	}
	if c.ZoomMax < c.ZoomMin {
		c.ZoomMax = math.Max(d.ZoomMax, c.ZoomMin)
	}
	if c.ZoomStep <= 1 {
		c.ZoomStep = d.ZoomStep
	}
	return c
}

// Viewport owns zoom and pan. It is the only writer of the transform; every
// change is pushed synchronously to subscribers before the mutating call
// returns.
type Viewport struct {
	cfg ViewportConfig
	t   geom.Transform
	log *zap.Logger

	panning     bool
	basePan     geom.Point
	basePointer geom.Point
	lastPointer geom.Point

	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(geom.Transform)
}

func NewViewport(cfg ViewportConfig, log *zap.Logger) *Viewport {
	if log == nil {
		log = zap.NewNop()
	}
	return &Viewport{
		cfg: cfg.sanitized(),
		t:   geom.Identity,
		log: log,
	}
}

func (v *Viewport) Transform() geom.Transform {
	return v.t
}

func (v *Viewport) Config() ViewportConfig {
	return v.cfg
}

func (v *Viewport) Panning() bool {
	return v.panning
}

// Subscribe registers fn for transform changes and returns a function
// removing it again.
func (v *Viewport) Subscribe(fn func(geom.Transform)) (unsubscribe func()) {
	id := v.nextID
	v.nextID++
	v.subs = append(v.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

func (v *Viewport) set(t geom.Transform) {
	if t == v.t {
		return
	}
	v.t = t
	for _, s := range v.subs {
		s.fn(t)
	}
}

// apply sets a transform that did not come from the pan gesture. A
// running pan continues from it instead of from its old baseline.
func (v *Viewport) apply(t geom.Transform) {
	v.set(t)
	if v.panning {
		v.basePan = v.t.Pan
		v.basePointer = v.lastPointer
	}
}

func (v *Viewport) clampZoom(z float64) float64 {
	return math.Min(math.Max(z, v.cfg.ZoomMin), v.cfg.ZoomMax)
}

func (v *Viewport) ZoomIn() {
	v.setZoom(v.t.Zoom * v.cfg.ZoomStep)
}

func (v *Viewport) ZoomOut() {
	v.setZoom(v.t.Zoom / v.cfg.ZoomStep)
}

func (v *Viewport) setZoom(z float64) {
	t := v.t
	t.Zoom = v.clampZoom(z)
	v.apply(t)
}

// ZoomAt zooms one step in or out keeping the canvas point under the
// screen position fixed.
func (v *Viewport) ZoomAt(screen, containerOrigin geom.Point, in bool) {
	z := v.t.Zoom / v.cfg.ZoomStep
	if in {
		z = v.t.Zoom * v.cfg.ZoomStep
	}
	z = v.clampZoom(z)
	if z == v.t.Zoom {
		return
	}
	local := geom.ToCanvasLocal(screen, containerOrigin, v.t)
	viewport := screen.Sub(containerOrigin)
	v.apply(geom.Transform{Zoom: z, Pan: viewport.Sub(local.Scale(z))})
}

func (v *Viewport) ResetView() {
	v.apply(geom.Identity)
}

// Nudge pans by a fixed screen delta.
func (v *Viewport) Nudge(dx, dy float64) {
	t := v.t
	t.Pan = t.Pan.Add(geom.Pt(dx, dy))
	v.apply(t)
}

// BeginPan records the baseline for a pan gesture.
func (v *Viewport) BeginPan(pointer geom.Point) {
	v.panning = true
	v.basePan = v.t.Pan
	v.basePointer = pointer
	v.lastPointer = pointer
	v.log.Debug("pan begin", zap.Stringer("pointer", pointer))
}

// UpdatePan moves the pan by the pointer travel since BeginPan. Pan is in
// viewport space and not scaled by zoom.
func (v *Viewport) UpdatePan(pointer geom.Point) {
	if !v.panning {
		return
	}
	v.lastPointer = pointer
	t := v.t
	t.Pan = v.basePan.Add(pointer.Sub(v.basePointer))
	v.set(t)
}

func (v *Viewport) EndPan() {
	if !v.panning {
		return
	}
	v.panning = false
	v.log.Debug("pan end", zap.Stringer("transform", v.t))
}
