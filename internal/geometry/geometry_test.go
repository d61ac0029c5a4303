package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/textmetrics"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

var approx = textmetrics.Approx{Advance: 0.5}

func video(id string, z int, x, y, w, h float64) layer.Video {
	return layer.Video{
		Base:   layer.Meta{ID: id, Name: id, X: x, Y: y, Visible: true, ZIndex: z},
		Width:  w,
		Height: h,
	}
}

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 50}

	assert.True(t, r.Contains(Point{X: 10, Y: 10}))
	assert.True(t, r.Contains(Point{X: 109.9, Y: 59.9}))
	assert.False(t, r.Contains(Point{X: 110, Y: 30}))
	assert.False(t, r.Contains(Point{X: 50, Y: 60}))
	assert.False(t, r.Contains(Point{X: 9.9, Y: 30}))
}

func TestBoundsText(t *testing.T) {
	txt := layer.Text{
		Base:     layer.Meta{ID: "t", X: 5, Y: 7, Visible: true},
		Text:     "abcd",
		FontSize: 20,
	}
	b := Bounds(txt, approx)
	assert.Equal(t, 5.0, b.X)
	assert.Equal(t, 7.0, b.Y)
	assert.Equal(t, 4*20*0.5+10, b.Width)
	assert.InDelta(t, 28, b.Height, 1e-9)

	txt.Text = "abcdefgh"
	assert.Greater(t, Bounds(txt, approx).Width, b.Width)
}

func TestTopmostAt(t *testing.T) {
	bottom := video("bottom", 1, 0, 0, 200, 200)
	top := video("top", 3, 50, 50, 100, 100)
	hidden := video("hidden", 9, 0, 0, 500, 500)
	hidden.Base.Visible = false
	layers := []layer.Layer{top, hidden, bottom}

	l, ok := TopmostAt(layers, Point{X: 60, Y: 60}, approx)
	require.True(t, ok)
	assert.Equal(t, "top", l.Meta().ID)

	l, ok = TopmostAt(layers, Point{X: 10, Y: 10}, approx)
	require.True(t, ok)
	assert.Equal(t, "bottom", l.Meta().ID)

	_, ok = TopmostAt(layers, Point{X: 400, Y: 400}, approx)
	assert.False(t, ok, "invisible layers never match")
}

func TestHandleAt(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 200, Height: 100}

	tests := []struct {
		p    Point
		want types.Handle
	}{
		{Point{X: 100, Y: 100}, types.HandleNW},
		{Point{X: 203, Y: 97}, types.HandleN},
		{Point{X: 304, Y: 100}, types.HandleNE},
		{Point{X: 300, Y: 150}, types.HandleE},
		{Point{X: 300, Y: 200}, types.HandleSE},
		{Point{X: 200, Y: 204}, types.HandleS},
		{Point{X: 96, Y: 200}, types.HandleSW},
		{Point{X: 100, Y: 150}, types.HandleW},
	}
	for _, tt := range tests {
		h, ok := HandleAt(r, tt.p, 10)
		require.True(t, ok, "point %+v", tt.p)
		assert.Equal(t, tt.want, h)
	}

	_, ok := HandleAt(r, Point{X: 150, Y: 130}, 10)
	assert.False(t, ok)
}

func TestHandleCursorDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, h := range types.Handles {
		c := HandleCursor(h)
		assert.False(t, seen[c], "duplicate cursor %s", c)
		seen[c] = true
	}
	assert.Equal(t, "nw-resize", HandleCursor(types.HandleNW))
	assert.Equal(t, CursorDefault, HandleCursor(types.HandleNone))
}

func TestHasHandles(t *testing.T) {
	assert.True(t, HasHandles(video("v", 1, 0, 0, 60, 60)))
	assert.False(t, HasHandles(layer.Text{}))
}
