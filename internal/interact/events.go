// Package interact implements the pointer interactions of the floor plan
// canvas: viewport pan and zoom, dragging placed objects and drawing new
// lines and rectangles. All of it is synchronous and meant to be driven from
// a single event loop.
package interact

import (
	"errors"

	"floorplan/internal/geom"
)

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerWheel
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerWheel:
		return "wheel"
	}
	return "unknown"
}

type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent is a pointer sample in screen space.
type PointerEvent struct {
	Kind   PointerKind
	Pos    geom.Point
	Button Button
	Shift  bool
	Alt    bool
	Ctrl   bool

	// positive zooms in, only set for PointerWheel
	Wheel float64
}

type Key int

const (
	KeyEscape Key = iota
	KeyZoomIn
	KeyZoomOut
	KeyResetView
)

// ErrNoGeometry is returned by geometry providers while the canvas
// container has no on-screen box, e.g. before the first layout.
var ErrNoGeometry = errors.New("canvas geometry unavailable")

// GeometryProvider reports the on-screen box of the canvas container:
// its origin in screen space and its size.
type GeometryProvider interface {
	Bounds() (geom.Rect, error)
}

// GeometryFunc adapts a function to GeometryProvider.
type GeometryFunc func() (geom.Rect, error)

func (f GeometryFunc) Bounds() (geom.Rect, error) {
	return f()
}

// TransformSource gives read access to the current viewport transform.
type TransformSource interface {
	Transform() geom.Transform
}
