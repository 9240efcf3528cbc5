// Package geom holds the coordinate spaces of the floor plan canvas.
//
// Three spaces are involved. Screen space is what the pointer source
// reports. Viewport space is screen space relative to the top-left corner
// of the canvas container. Canvas-local space is where object positions are
// stored; it is related to viewport space by
//
//	canvasLocal = (viewport - pan) / zoom
//
// and rendered back with
//
//	screen = containerOrigin + canvasLocal*zoom + pan
package geom

import (
	"fmt"
	"math"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Len returns the euclidean length of p seen as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y)
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func Sz(w, h float64) Size {
	return Size{Width: w, Height: h}
}

type Rect struct {
	Origin Point
	Size   Size
}

func (r Rect) Max() Point {
	return Point{X: r.Origin.X + r.Size.Width, Y: r.Origin.Y + r.Size.Height}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	max := r.Max()
	return p.X >= r.Origin.X && p.X <= max.X && p.Y >= r.Origin.Y && p.Y <= max.Y
}

// Normalize returns the rectangle spanned by two corners in any order: the
// origin is the min corner and the size the absolute difference.
func Normalize(a, b Point) Rect {
	return Rect{
		Origin: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Size:   Size{Width: math.Abs(b.X - a.X), Height: math.Abs(b.Y - a.Y)},
	}
}
