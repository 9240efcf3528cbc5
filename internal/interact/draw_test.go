package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

var office = plan.Location{Floor: "planta-1", Zone: "contabilidad"}

func newDraw(tr geom.Transform, geo *fakeGeometry) (*DrawController, *fakeStore) {
	s := &fakeStore{}
	d := NewDrawController(DefaultDrawConfig(), fixedTransform(tr), geo, s, nil)
	d.SetLocation(office)
	return d, s
}

func TestDraw_rectFromAnyCorner(t *testing.T) {
	d, s := newDraw(geom.Identity, newGeometry(0, 0, 800, 600))
	require.True(t, d.SelectTool(ToolRect))

	require.True(t, d.PointerDown(down(50, 50)))
	d.PointerMove(move(30, 60))
	p, ok := d.Preview()
	require.True(t, ok)
	assert.Equal(t, geom.Rect{Origin: geom.Pt(30, 50), Size: geom.Sz(20, 10)}, p.Rect())

	obj, ok := d.PointerUp(up(20, 80))
	require.True(t, ok)
	assert.Equal(t, geom.Pt(20, 50), obj.Position)
	assert.Equal(t, geom.Sz(30, 30), obj.Size)
	assert.Equal(t, plan.KindRoomObject, obj.Kind)
	require.NotNil(t, obj.Room)
	assert.Equal(t, plan.RoomRect, obj.Room.Type)
	assert.Equal(t, "#374151", obj.Room.Properties.Color)
	assert.Equal(t, 2.0, obj.Room.Properties.BorderWidth)
	assert.Equal(t, "transparent", obj.Room.Properties.BackgroundColor)
	assert.Equal(t, office.Floor, obj.Floor)
	assert.Equal(t, office.Zone, obj.Zone)
	assert.NotEmpty(t, obj.ID)
	assert.Len(t, s.created, 1)
}

func TestDraw_zeroDisplacementCreatesNothing(t *testing.T) {
	for _, tool := range []Tool{ToolLine, ToolRect} {
		t.Run(tool.String(), func(t *testing.T) {
			d, s := newDraw(geom.Identity, newGeometry(0, 0, 800, 600))
			require.True(t, d.SelectTool(tool))

			require.True(t, d.PointerDown(down(70, 90)))
			d.PointerMove(move(120, 140))
			_, ok := d.PointerUp(up(70, 90))

			assert.False(t, ok)
			assert.Empty(t, s.created)
			assert.False(t, d.Anchored())
			assert.Equal(t, tool, d.Tool())
		})
	}
}

func TestDraw_lineKeepsEndpointsAndMinimumBox(t *testing.T) {
	d, s := newDraw(geom.Identity, newGeometry(0, 0, 800, 600))
	require.True(t, d.SelectTool(ToolLine))

	require.True(t, d.PointerDown(down(100, 40)))
	obj, ok := d.PointerUp(up(100, 240))
	require.True(t, ok)

	assert.Equal(t, plan.RoomLine, obj.Room.Type)
	assert.Equal(t, []geom.Point{geom.Pt(100, 40), geom.Pt(100, 240)}, obj.Room.Points)
	assert.Equal(t, geom.Pt(100, 40), obj.Position)
	assert.Equal(t, geom.Sz(4, 200), obj.Size)
	assert.Len(t, s.created, 1)
}

func TestDraw_axisLock(t *testing.T) {
	tests := []struct {
		name  string
		to    geom.Point
		shift bool
		latch bool
		want  geom.Point
	}{
		{"free", geom.Pt(50, 5), false, false, geom.Pt(50, 5)},
		{"shift horizontal", geom.Pt(50, 5), true, false, geom.Pt(50, 0)},
		{"shift vertical", geom.Pt(5, 50), true, false, geom.Pt(0, 50)},
		{"tie goes horizontal", geom.Pt(-20, 20), true, false, geom.Pt(-20, 0)},
		{"latched", geom.Pt(50, 5), false, true, geom.Pt(50, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newDraw(geom.Identity, newGeometry(0, 0, 800, 600))
			d.SetAxisLock(tt.latch)
			require.True(t, d.SelectTool(ToolLine))
			require.True(t, d.PointerDown(down(100, 100)))

			ev := up(100+tt.to.X, 100+tt.to.Y)
			ev.Shift = tt.shift
			obj, ok := d.PointerUp(ev)
			require.True(t, ok)
			assert.Equal(t, geom.Pt(100, 100).Add(tt.want), obj.Room.Points[1])
		})
	}
}

func TestDraw_axisLockIgnoredForRect(t *testing.T) {
	d, _ := newDraw(geom.Identity, newGeometry(0, 0, 800, 600))
	d.SetAxisLock(true)
	require.True(t, d.SelectTool(ToolRect))
	require.True(t, d.PointerDown(down(0, 0)))

	obj, ok := d.PointerUp(up(50, 5))
	require.True(t, ok)
	assert.Equal(t, geom.Sz(50, 5), obj.Size)
}

func TestDraw_usesCanvasLocalSpace(t *testing.T) {
	tr := geom.Transform{Zoom: 2, Pan: geom.Pt(10, 0)}
	d, _ := newDraw(tr, newGeometry(0, 16, 800, 600))
	require.True(t, d.SelectTool(ToolRect))

	require.True(t, d.PointerDown(down(110, 116)))
	obj, ok := d.PointerUp(up(210, 216))
	require.True(t, ok)
	assert.Equal(t, geom.Pt(50, 50), obj.Position)
	assert.Equal(t, geom.Sz(50, 50), obj.Size)
}

func TestDraw_toolPersistsAfterCommit(t *testing.T) {
	d, s := newDraw(geom.Identity, newGeometry(0, 0, 800, 600))
	require.True(t, d.SelectTool(ToolLine))

	for i := 0; i < 3; i++ {
		x := float64(10 + i*50)
		require.True(t, d.PointerDown(down(x, 10)))
		_, ok := d.PointerUp(up(x+40, 60))
		require.True(t, ok)
		assert.Equal(t, ToolLine, d.Tool())
	}
	assert.Len(t, s.created, 3)
	assert.Equal(t, ModeDrawing, d.guard.current())

	require.True(t, d.SelectTool(ToolNone))
	assert.Equal(t, ModeIdle, d.guard.current())
}

func TestDraw_cancelKeepsTool(t *testing.T) {
	d, s := newDraw(geom.Identity, newGeometry(0, 0, 800, 600))
	require.True(t, d.SelectTool(ToolRect))
	require.True(t, d.PointerDown(down(10, 10)))
	d.PointerMove(move(90, 90))

	assert.True(t, d.Cancel())
	assert.False(t, d.Anchored())
	assert.Equal(t, ToolRect, d.Tool())
	_, ok := d.Preview()
	assert.False(t, ok)

	_, ok = d.PointerUp(up(90, 90))
	assert.False(t, ok)
	assert.Empty(t, s.created)
	assert.False(t, d.Cancel())
}

func TestDraw_switchingToolDropsAnchor(t *testing.T) {
	d, _ := newDraw(geom.Identity, newGeometry(0, 0, 800, 600))
	require.True(t, d.SelectTool(ToolRect))
	require.True(t, d.PointerDown(down(10, 10)))

	require.True(t, d.SelectTool(ToolLine))
	assert.False(t, d.Anchored())
	assert.Equal(t, ToolLine, d.Tool())
}

func TestDraw_ignoresInvalidTransitions(t *testing.T) {
	d, s := newDraw(geom.Identity, newGeometry(0, 0, 800, 600))

	assert.False(t, d.PointerDown(down(10, 10)), "no tool selected")
	d.PointerMove(move(20, 20))
	_, ok := d.PointerUp(up(30, 30))
	assert.False(t, ok)

	require.True(t, d.SelectTool(ToolLine))
	middle := down(10, 10)
	middle.Button = ButtonMiddle
	assert.False(t, d.PointerDown(middle))

	require.True(t, d.PointerDown(down(10, 10)))
	assert.False(t, d.PointerDown(down(40, 40)), "already anchored")
	assert.Empty(t, s.created)
}

func TestDraw_missingGeometry(t *testing.T) {
	geo := &fakeGeometry{err: ErrNoGeometry}
	d, s := newDraw(geom.Identity, geo)
	require.True(t, d.SelectTool(ToolRect))
	assert.False(t, d.PointerDown(down(10, 10)))

	geo.err = nil
	geo.bounds = geom.Rect{Size: geom.Sz(800, 600)}
	require.True(t, d.PointerDown(down(10, 10)))
	geo.err = ErrNoGeometry
	_, ok := d.PointerUp(up(60, 60))

	assert.False(t, ok)
	assert.False(t, d.Anchored())
	assert.Empty(t, s.created)
}

func TestDraw_createFailure(t *testing.T) {
	d, s := newDraw(geom.Identity, newGeometry(0, 0, 800, 600))
	s.failing = true
	require.True(t, d.SelectTool(ToolRect))
	require.True(t, d.PointerDown(down(10, 10)))

	_, ok := d.PointerUp(up(60, 60))
	assert.False(t, ok)
	assert.False(t, d.Anchored())
	assert.Equal(t, ToolRect, d.Tool())
}
