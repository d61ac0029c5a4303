package geometry

import (
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/snap"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

// Constraint limits how a video layer may be resized.
type Constraint struct {
	MinSize      float64
	AspectLocked bool
	AspectRatio  float64
}

func (c Constraint) locked() bool {
	return c.AspectLocked && c.AspectRatio > 0
}

// Bound is the space a transform must keep a layer inside.
type Bound struct {
	Canvas layer.CanvasSize
	Grid   snap.Grid
}

type edges struct {
	left, right, top, bottom bool
}

func movingEdges(h types.Handle) edges {
	switch h {
	case types.HandleNW:
		return edges{left: true, top: true}
	case types.HandleN:
		return edges{top: true}
	case types.HandleNE:
		return edges{right: true, top: true}
	case types.HandleE:
		return edges{right: true}
	case types.HandleSE:
		return edges{right: true, bottom: true}
	case types.HandleS:
		return edges{bottom: true}
	case types.HandleSW:
		return edges{left: true, bottom: true}
	case types.HandleW:
		return edges{left: true}
	default:
		return edges{}
	}
}

// heightDrives reports whether the height is the primary dimension of h under
// an aspect lock. Only the pure vertical edges are height driven.
func heightDrives(h types.Handle) bool {
	return h == types.HandleN || h == types.HandleS
}

// Resize computes the geometry of a layer being resized from start by
// dragging handle h by delta. The result respects the minimum size, the
// aspect lock, the canvas bounds and the grid, in that order.
func Resize(start Rect, h types.Handle, delta Point, c Constraint, b Bound) Rect {
	e := movingEdges(h)
	if e == (edges{}) {
		return start
	}

	r := resizeFree(start, e, delta, c.MinSize)
	if c.locked() {
		if heightDrives(h) {
			r.Width = r.Height * c.AspectRatio
		} else {
			r.Height = r.Width / c.AspectRatio
		}
		r.Width, r.Height = floorLocked(r.Width, r.Height, c)
	}
	r = anchor(start, e, r.Width, r.Height)

	r = fitCanvas(start, e, r, c, b.Canvas)
	r = snapResized(start, e, r, h, c, b)
	return ClampRect(r, b.Canvas)
}

// resizeFree applies the per-handle delta, keeping the opposite edges fixed.
func resizeFree(start Rect, e edges, d Point, minSize float64) Rect {
	w, h := start.Width, start.Height
	switch {
	case e.right:
		w = snap.Floor(start.Width+d.X, minSize)
	case e.left:
		w = snap.Floor(start.Width-d.X, minSize)
	}
	switch {
	case e.bottom:
		h = snap.Floor(start.Height+d.Y, minSize)
	case e.top:
		h = snap.Floor(start.Height-d.Y, minSize)
	}
	return anchor(start, e, w, h)
}

// floorLocked scales w and h up together until both satisfy the minimum size.
func floorLocked(w, h float64, c Constraint) (float64, float64) {
	if c.MinSize <= 0 || w <= 0 || h <= 0 {
		return w, h
	}
	scale := max(1, c.MinSize/w, c.MinSize/h)
	if scale == 1 {
		return w, h
	}
	w *= scale
	return w, w / c.AspectRatio
}

// anchor places a w x h box so the edges that do not move stay where they
// were in start.
func anchor(start Rect, e edges, w, h float64) Rect {
	x, y := start.X, start.Y
	if e.left {
		x = start.Right() - w
	}
	if e.top {
		y = start.Bottom() - h
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// fitCanvas shrinks r so its moving edges stay on the canvas. Under an aspect
// lock both dimensions shrink together.
func fitCanvas(start Rect, e edges, r Rect, c Constraint, canvas layer.CanvasSize) Rect {
	maxW, maxH := limits(start, e, canvas)

	w, h := r.Width, r.Height
	if w > maxW {
		w = maxW
		if c.locked() {
			h = w / c.AspectRatio
		}
	}
	if h > maxH {
		h = maxH
		if c.locked() {
			w = h * c.AspectRatio
		}
	}
	return anchor(start, e, w, h)
}

// limits is the largest size the moving edges of start can reach on the
// canvas.
func limits(start Rect, e edges, canvas layer.CanvasSize) (maxW, maxH float64) {
	maxW = canvas.Width - start.X
	if e.left {
		maxW = start.Right()
	}
	maxH = canvas.Height - start.Y
	if e.top {
		maxH = start.Bottom()
	}
	return maxW, maxH
}

// snapWithin snaps v to the grid, rounding down instead when the nearest
// multiple would pass limit.
func snapWithin(g snap.Grid, v, limit float64) float64 {
	if s := g.Snap(v); s <= limit+1e-9 {
		return s
	}
	return g.SnapDown(v)
}

func snapResized(start Rect, e edges, r Rect, h types.Handle, c Constraint, b Bound) Rect {
	g := b.Grid
	if !g.Enabled {
		return r
	}

	out := Rect{X: g.Snap(r.X), Y: g.Snap(r.Y)}
	if c.locked() {
		// snap the driver within the room both dimensions have on the canvas
		maxW, maxH := limits(start, e, b.Canvas)
		if heightDrives(h) {
			out.Height = snapWithin(g, r.Height, min(maxH, maxW/c.AspectRatio))
			out.Width = out.Height * c.AspectRatio
		} else {
			out.Width = snapWithin(g, r.Width, min(maxW, maxH*c.AspectRatio))
			out.Height = out.Width / c.AspectRatio
		}
		out.Width, out.Height = floorLocked(out.Width, out.Height, c)
		return out
	}

	out.Width = snap.Floor(g.Snap(r.Width), c.MinSize)
	out.Height = snap.Floor(g.Snap(r.Height), c.MinSize)
	return out
}

// Drag moves a box of bounds' size so that the grab offset stays under the
// pointer, clamped to the canvas and snapped. Only X and Y of the result are
// meaningful: a box larger than the canvas comes back shrunk to it.
func Drag(bounds Rect, pointer, grab Point, b Bound) Rect {
	r := bounds
	r.X = pointer.X - grab.X
	r.Y = pointer.Y - grab.Y
	r = ClampRect(r, b.Canvas)

	r.X = b.Grid.Snap(r.X)
	r.Y = b.Grid.Snap(r.Y)
	return ClampRect(r, b.Canvas)
}

// ClampRect keeps r fully inside the canvas. Boxes larger than the canvas are
// shrunk to it.
func ClampRect(r Rect, canvas layer.CanvasSize) Rect {
	r.Width = snap.Clamp(r.Width, 0, canvas.Width)
	r.Height = snap.Clamp(r.Height, 0, canvas.Height)
	r.X = snap.Clamp(r.X, 0, canvas.Width-r.Width)
	r.Y = snap.Clamp(r.Y, 0, canvas.Height-r.Height)
	return r
}
