package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/snap"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

var (
	canvas  = layer.CanvasSize{Width: 1080, Height: 1920}
	noGrid  = Bound{Canvas: canvas}
	onGrid  = Bound{Canvas: canvas, Grid: snap.Grid{Enabled: true, Size: 20}}
	deltas  = []Point{{X: 0, Y: 0}, {X: 37, Y: -12}, {X: -80, Y: 45}, {X: 600, Y: 900}, {X: -900, Y: -1500}, {X: 15, Y: 2000}}
	handles = types.Handles
)

func assertInside(t *testing.T, r Rect) {
	t.Helper()
	assertInsideCanvas(t, r, canvas)
}

func assertInsideCanvas(t *testing.T, r Rect, c layer.CanvasSize) {
	t.Helper()
	assert.GreaterOrEqual(t, r.X, 0.0)
	assert.GreaterOrEqual(t, r.Y, 0.0)
	assert.LessOrEqual(t, r.Right(), c.Width+1e-9)
	assert.LessOrEqual(t, r.Bottom(), c.Height+1e-9)
}

func TestResizeEdgeHandles(t *testing.T) {
	start := Rect{X: 100, Y: 200, Width: 300, Height: 200}
	c := Constraint{MinSize: 50}

	r := Resize(start, types.HandleE, Point{X: 40, Y: 99}, c, noGrid)
	assert.Equal(t, Rect{X: 100, Y: 200, Width: 340, Height: 200}, r)

	r = Resize(start, types.HandleW, Point{X: 40, Y: 99}, c, noGrid)
	assert.Equal(t, Rect{X: 140, Y: 200, Width: 260, Height: 200}, r, "right edge stays fixed")

	r = Resize(start, types.HandleS, Point{X: 99, Y: 30}, c, noGrid)
	assert.Equal(t, Rect{X: 100, Y: 200, Width: 300, Height: 230}, r)

	r = Resize(start, types.HandleN, Point{X: 99, Y: 30}, c, noGrid)
	assert.Equal(t, Rect{X: 100, Y: 230, Width: 300, Height: 170}, r, "bottom edge stays fixed")
}

func TestResizeCornerHandles(t *testing.T) {
	start := Rect{X: 100, Y: 200, Width: 300, Height: 200}
	c := Constraint{MinSize: 50}
	d := Point{X: 20, Y: 10}

	assert.Equal(t, Rect{X: 100, Y: 200, Width: 320, Height: 210}, Resize(start, types.HandleSE, d, c, noGrid))
	assert.Equal(t, Rect{X: 120, Y: 200, Width: 280, Height: 210}, Resize(start, types.HandleSW, d, c, noGrid))
	assert.Equal(t, Rect{X: 100, Y: 210, Width: 320, Height: 190}, Resize(start, types.HandleNE, d, c, noGrid))
	assert.Equal(t, Rect{X: 120, Y: 210, Width: 280, Height: 190}, Resize(start, types.HandleNW, d, c, noGrid))
}

func TestResizeFloorsAtMinSize(t *testing.T) {
	start := Rect{X: 100, Y: 200, Width: 300, Height: 200}
	c := Constraint{MinSize: 50}

	r := Resize(start, types.HandleNW, Point{X: 1000, Y: 1000}, c, noGrid)
	assert.Equal(t, 50.0, r.Width)
	assert.Equal(t, 50.0, r.Height)
	assert.Equal(t, 350.0, r.X, "right edge fixed at 400")
	assert.Equal(t, 350.0, r.Y, "bottom edge fixed at 400")
}

func TestResizeAspectLockedAllHandles(t *testing.T) {
	portrait := layer.CanvasSize{Width: 1080, Height: 1350}
	tests := []struct {
		name  string
		start Rect
		bound Bound
	}{
		{"free", Rect{X: 200, Y: 300, Width: 320, Height: 180}, noGrid},
		{"grid", Rect{X: 200, Y: 300, Width: 320, Height: 180}, onGrid},
		{"off-grid canvas", Rect{X: 200, Y: 300, Width: 320, Height: 180},
			Bound{Canvas: portrait, Grid: snap.Grid{Enabled: true, Size: 20}}},
		{"off-grid canvas tall layer", Rect{X: 100, Y: 0, Width: 50, Height: 900},
			Bound{Canvas: portrait, Grid: snap.Grid{Enabled: true, Size: 20}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Constraint{MinSize: 50, AspectLocked: true, AspectRatio: tt.start.Width / tt.start.Height}
			for _, h := range handles {
				for _, d := range deltas {
					r := Resize(tt.start, h, d, c, tt.bound)
					assert.InDelta(t, c.AspectRatio, r.Width/r.Height, 1e-9, "handle %s delta %+v", h, d)
					assert.GreaterOrEqual(t, r.Width, c.MinSize-1e-9)
					assert.GreaterOrEqual(t, r.Height, c.MinSize-1e-9)
					assertInsideCanvas(t, r, tt.bound.Canvas)
				}
			}
		})
	}
}

func TestResizeAspectLockedSnapsDownAtCanvasEdge(t *testing.T) {
	b := Bound{Canvas: layer.CanvasSize{Width: 1080, Height: 1350}, Grid: snap.Grid{Enabled: true, Size: 20}}
	start := Rect{X: 100, Y: 0, Width: 50, Height: 900}
	c := Constraint{MinSize: 50, AspectLocked: true, AspectRatio: 50.0 / 900.0}

	for _, h := range []types.Handle{types.HandleE, types.HandleSE} {
		r := Resize(start, h, Point{X: 100, Y: 100}, c, b)
		assert.Equal(t, 100.0, r.X, "handle %s", h)
		assert.Equal(t, 0.0, r.Y, "handle %s", h)
		assert.InDelta(t, 60, r.Width, 1e-9, "handle %s", h)
		assert.InDelta(t, 1080, r.Height, 1e-6, "handle %s", h)
	}
}

func TestResizeAspectLockedTallRatio(t *testing.T) {
	start := Rect{X: 0, Y: 0, Width: 100, Height: 400}
	c := Constraint{MinSize: 50, AspectLocked: true, AspectRatio: 0.25}

	for _, h := range handles {
		r := Resize(start, h, Point{X: -500, Y: -500}, c, noGrid)
		assert.InDelta(t, 0.25, r.Width/r.Height, 1e-9, "handle %s", h)
		assert.GreaterOrEqual(t, r.Width, 50-1e-9, "handle %s", h)
	}
}

func TestResizeStaysInsideCanvas(t *testing.T) {
	starts := []Rect{
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 980, Y: 1820, Width: 100, Height: 100},
		{X: 400, Y: 900, Width: 200, Height: 120},
	}
	for _, b := range []Bound{noGrid, onGrid} {
		for _, start := range starts {
			for _, h := range handles {
				for _, d := range deltas {
					r := Resize(start, h, d, Constraint{MinSize: 50}, b)
					assertInside(t, r)
				}
			}
		}
	}
}

func TestResizeSnapsToGrid(t *testing.T) {
	start := Rect{X: 100, Y: 200, Width: 300, Height: 200}
	r := Resize(start, types.HandleSE, Point{X: 13, Y: 27}, Constraint{MinSize: 50}, onGrid)
	assert.Equal(t, Rect{X: 100, Y: 200, Width: 320, Height: 220}, r)
}

func TestDrag(t *testing.T) {
	bounds := Rect{X: 100, Y: 100, Width: 200, Height: 100}
	grab := Point{X: 30, Y: 20}

	r := Drag(bounds, Point{X: 500, Y: 700}, grab, noGrid)
	assert.Equal(t, Rect{X: 470, Y: 680, Width: 200, Height: 100}, r)

	r = Drag(bounds, Point{X: 5000, Y: -700}, grab, noGrid)
	assert.Equal(t, Rect{X: 880, Y: 0, Width: 200, Height: 100}, r)

	r = Drag(bounds, Point{X: 513, Y: 707}, grab, onGrid)
	assert.Equal(t, Rect{X: 480, Y: 680, Width: 200, Height: 100}, r)
}

func TestDragNearEdgeWithGridStaysInside(t *testing.T) {
	bounds := Rect{Width: 333, Height: 77}
	for x := -100.0; x < 1300; x += 7 {
		r := Drag(bounds, Point{X: x, Y: x * 1.5}, Point{}, onGrid)
		assertInside(t, r)
	}
}
