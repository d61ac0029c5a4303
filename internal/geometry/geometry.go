package geometry

import (
	"slices"

	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/textmetrics"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

// Point is a canvas-local coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies in the half-open box [X, X+W) x [Y, Y+H).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// TextStyle extracts the measurement style of a text layer.
func TextStyle(t layer.Text) textmetrics.Style {
	return textmetrics.Style{
		FontSize: t.FontSize,
		Family:   t.FontFamily,
		Bold:     t.Bold,
		Italic:   t.Italic,
	}
}

// Bounds returns the current bounding box of l. Text layers are measured on
// every call so edits to text or style are always reflected.
func Bounds(l layer.Layer, m textmetrics.Measurer) Rect {
	meta := l.Meta()
	switch l := l.(type) {
	case layer.Video:
		return Rect{X: meta.X, Y: meta.Y, Width: l.Width, Height: l.Height}
	case layer.Text:
		w, h := m.Measure(l.Text, TextStyle(l))
		return Rect{X: meta.X, Y: meta.Y, Width: w, Height: h}
	default:
		return Rect{X: meta.X, Y: meta.Y}
	}
}

// HasHandles reports whether l can be resized with handles.
func HasHandles(l layer.Layer) bool {
	switch l.(type) {
	case layer.Video:
		return true
	default:
		return false
	}
}

// TopmostAt returns the visible layer with the highest zIndex whose bounding
// box contains p.
func TopmostAt(layers []layer.Layer, p Point, m textmetrics.Measurer) (layer.Layer, bool) {
	sorted := layer.SortedByZ(layers)
	slices.Reverse(sorted)
	for _, l := range sorted {
		if !l.Meta().Visible {
			continue
		}
		if Bounds(l, m).Contains(p) {
			return l, true
		}
	}
	return nil, false
}

// HandleCenter returns the anchor point of h on r.
func HandleCenter(r Rect, h types.Handle) Point {
	midX := r.X + r.Width/2
	midY := r.Y + r.Height/2
	switch h {
	case types.HandleNW:
		return Point{X: r.X, Y: r.Y}
	case types.HandleN:
		return Point{X: midX, Y: r.Y}
	case types.HandleNE:
		return Point{X: r.Right(), Y: r.Y}
	case types.HandleE:
		return Point{X: r.Right(), Y: midY}
	case types.HandleSE:
		return Point{X: r.Right(), Y: r.Bottom()}
	case types.HandleS:
		return Point{X: midX, Y: r.Bottom()}
	case types.HandleSW:
		return Point{X: r.X, Y: r.Bottom()}
	case types.HandleW:
		return Point{X: r.X, Y: midY}
	default:
		return Point{X: midX, Y: midY}
	}
}

// HandleRect returns the square of side size centred on h's anchor.
func HandleRect(r Rect, h types.Handle, size float64) Rect {
	c := HandleCenter(r, h)
	return Rect{X: c.X - size/2, Y: c.Y - size/2, Width: size, Height: size}
}

// HandleAt returns the handle of r under p, if any.
func HandleAt(r Rect, p Point, size float64) (types.Handle, bool) {
	for _, h := range types.Handles {
		if HandleRect(r, h, size).Contains(p) {
			return h, true
		}
	}
	return types.HandleNone, false
}

// Cursor hints shown while hovering or manipulating a layer.
const (
	CursorDefault  = "default"
	CursorMove     = "move"
	CursorGrabbing = "grabbing"
)

// HandleCursor maps a handle to its resize cursor, e.g. "nw-resize".
func HandleCursor(h types.Handle) string {
	if h == types.HandleNone {
		return CursorDefault
	}
	return string(h) + "-resize"
}
