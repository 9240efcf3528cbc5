package geom

import "fmt"

// Transform is the viewport state shared by every interaction controller.
type Transform struct {
	Zoom float64 `json:"zoom"`
	Pan  Point   `json:"pan"`
}

// Identity is zoom 1 with no pan.
var Identity = Transform{Zoom: 1}

func (t Transform) String() string {
	return fmt.Sprintf("zoom=%.2f pan=%s", t.Zoom, t.Pan)
}

// ToCanvasLocal maps a screen point into canvas-local space. It is the
// exact inverse of ToScreen.
func ToCanvasLocal(screen, containerOrigin Point, t Transform) Point {
	viewport := screen.Sub(containerOrigin)
	return viewport.Sub(t.Pan).Scale(1 / t.Zoom)
}

// ToScreen maps a canvas-local point to where it is rendered on screen.
func ToScreen(local, containerOrigin Point, t Transform) Point {
	return containerOrigin.Add(local.Scale(t.Zoom)).Add(t.Pan)
}

// ClampToBounds keeps an object of objectSize placed at p inside the
// visible container, i.e. each axis in [0, containerSize/zoom - objectSize].
// An object larger than the visible canvas collapses the range to 0.
func ClampToBounds(p Point, objectSize, containerSize Size, t Transform) Point {
	maxX := containerSize.Width/t.Zoom - objectSize.Width
	maxY := containerSize.Height/t.Zoom - objectSize.Height
	return Point{X: clamp(p.X, 0, maxX), Y: clamp(p.Y, 0, maxY)}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
