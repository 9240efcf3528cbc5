package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/geom"
)

func TestViewport_zoomStepsAndClamps(t *testing.T) {
	v := NewViewport(DefaultViewportConfig(), nil)
	require.Equal(t, geom.Identity, v.Transform())

	v.ZoomIn()
	assert.InDelta(t, 1.2, v.Transform().Zoom, 1e-9)
	v.ZoomOut()
	assert.InDelta(t, 1.0, v.Transform().Zoom, 1e-9)

	for i := 0; i < 30; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, 3.0, v.Transform().Zoom)

	for i := 0; i < 30; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, 0.3, v.Transform().Zoom)
}

func TestViewport_resetView(t *testing.T) {
	v := NewViewport(DefaultViewportConfig(), nil)
	v.ZoomIn()
	v.Nudge(40, -16)
	require.NotEqual(t, geom.Identity, v.Transform())

	v.ResetView()
	assert.Equal(t, geom.Identity, v.Transform())
}

func TestViewport_panIsNotScaledByZoom(t *testing.T) {
	v := NewViewport(DefaultViewportConfig(), nil)
	v.ZoomIn()
	v.ZoomIn()

	v.BeginPan(geom.Pt(10, 10))
	assert.True(t, v.Panning())
	v.UpdatePan(geom.Pt(30, 50))
	v.UpdatePan(geom.Pt(40, 60))
	v.EndPan()

	assert.False(t, v.Panning())
	assert.Equal(t, geom.Pt(30, 50), v.Transform().Pan)

	// a second gesture starts from the current pan
	v.BeginPan(geom.Pt(0, 0))
	v.UpdatePan(geom.Pt(-30, 0))
	v.EndPan()
	assert.Equal(t, geom.Pt(0, 50), v.Transform().Pan)
}

func TestViewport_resetViewMidPan(t *testing.T) {
	v := NewViewport(DefaultViewportConfig(), nil)
	v.Nudge(200, 0)

	v.BeginPan(geom.Pt(50, 50))
	v.UpdatePan(geom.Pt(60, 50))
	require.Equal(t, geom.Pt(210, 0), v.Transform().Pan)

	v.ResetView()
	assert.Equal(t, geom.Identity, v.Transform())
	v.UpdatePan(geom.Pt(61, 50))
	assert.Equal(t, geom.Pt(1, 0), v.Transform().Pan, "pan continues from the reset view")

	v.Nudge(0, 32)
	v.UpdatePan(geom.Pt(61, 52))
	v.EndPan()
	assert.Equal(t, geom.Pt(1, 34), v.Transform().Pan)
}

func TestViewport_updatePanWithoutBegin(t *testing.T) {
	v := NewViewport(DefaultViewportConfig(), nil)
	v.UpdatePan(geom.Pt(100, 100))
	v.EndPan()
	assert.Equal(t, geom.Identity, v.Transform())
}

func TestViewport_notifiesSubscribers(t *testing.T) {
	v := NewViewport(DefaultViewportConfig(), nil)
	var got []geom.Transform
	unsubscribe := v.Subscribe(func(t geom.Transform) { got = append(got, t) })

	v.ZoomIn()
	require.Len(t, got, 1)
	assert.Equal(t, v.Transform(), got[0])

	v.ResetView()
	v.ResetView() // unchanged, no notification
	assert.Len(t, got, 2)

	unsubscribe()
	v.ZoomIn()
	assert.Len(t, got, 2)
}

func TestViewport_noNotificationAtZoomLimit(t *testing.T) {
	v := NewViewport(ViewportConfig{ZoomMin: 0.5, ZoomMax: 1, ZoomStep: 2}, nil)
	calls := 0
	v.Subscribe(func(geom.Transform) { calls++ })

	v.ZoomIn()
	v.ZoomAt(geom.Pt(50, 50), geom.Pt(0, 0), true)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1.0, v.Transform().Zoom)
}

func TestViewport_zoomAtKeepsPointFixed(t *testing.T) {
	v := NewViewport(DefaultViewportConfig(), nil)
	origin := geom.Pt(0, 16)
	v.Nudge(-25, 12)

	pointer := geom.Pt(212, 148)
	for _, in := range []bool{true, true, false, true, false, false, false} {
		before := geom.ToCanvasLocal(pointer, origin, v.Transform())
		v.ZoomAt(pointer, origin, in)
		after := geom.ToCanvasLocal(pointer, origin, v.Transform())
		assert.InDelta(t, before.X, after.X, 1e-9)
		assert.InDelta(t, before.Y, after.Y, 1e-9)
	}
}

func TestViewportConfig_sanitized(t *testing.T) {
	c := ViewportConfig{ZoomMin: -1, ZoomMax: 0, ZoomStep: 0.5}.sanitized()
	assert.Equal(t, DefaultViewportConfig(), c)

	c = ViewportConfig{ZoomMin: 4, ZoomMax: 2, ZoomStep: 1.5}.sanitized()
	assert.Equal(t, 4.0, c.ZoomMin)
	assert.Equal(t, 4.0, c.ZoomMax)
	assert.Equal(t, 1.5, c.ZoomStep)
}
