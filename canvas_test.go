package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

func TestCanvas_box(t *testing.T) {
	c := NewCanvas(8, 3, geom.Identity)
	rect := plan.Object{Position: geom.Pt(0, 0), Size: geom.Sz(40, 48)}
	c.Box(rect, plan.Properties{})
	assert.Equal(t, []string{
		"+---+   ",
		"|   |   ",
		"+---+   ",
	}, c.lines())
}

func TestCanvas_zoomedSpan(t *testing.T) {
	c := NewCanvas(8, 2, geom.Transform{Zoom: 2, Pan: geom.Pt(8, 0)})
	x0, y0, x1, y1 := c.span(geom.Rect{Origin: geom.Pt(0, 0), Size: geom.Sz(1, 1)})
	assert.Equal(t, []int{1, 0, 1, 0}, []int{x0, y0, x1, y1}, "a tiny rect still covers one cell")

	x0, _, x1, _ = c.span(geom.Rect{Origin: geom.Pt(4, 0), Size: geom.Sz(8, 8)})
	assert.Equal(t, 2, x0)
	assert.Equal(t, 3, x1)
}

func TestCanvas_segment(t *testing.T) {
	c := NewCanvas(6, 1, geom.Identity)
	c.Segment(plan.Object{}, geom.Pt(0, 0), geom.Pt(32, 0), plan.Properties{})
	assert.Equal(t, []string{"───── "}, c.lines())
}

func TestCanvas_clipsOutside(t *testing.T) {
	c := NewCanvas(4, 1, geom.Identity)
	c.text(-2, 0, "abcdef")
	assert.Equal(t, []string{"cdef"}, c.lines())
}
