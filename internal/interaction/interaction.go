// Package interaction turns pointer events into layer mutations. It tracks
// whether a gesture is dragging or resizing a layer and applies the geometry
// transforms on every move. All functions are pure: they take the current
// state and return the next one.
package interaction

import (
	"github.com/ZacxDev/layout-composer/internal/geometry"
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/snap"
	"github.com/ZacxDev/layout-composer/internal/textmetrics"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

// Mode is the kind of gesture in progress.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeResizing
)

func (m Mode) String() string {
	switch m {
	case ModeDragging:
		return "dragging"
	case ModeResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// State is the gesture in progress. Only the fields of the current Mode are
// meaningful: Grab while dragging; Handle, Anchor and Pointer while resizing.
type State struct {
	Mode    Mode
	LayerID string
	Grab    geometry.Point
	Handle  types.Handle
	Anchor  geometry.Rect
	Pointer geometry.Point
}

// Idle is the resting state.
var Idle = State{Mode: ModeIdle}

// Scene is the part of the editor state a gesture reads and writes.
type Scene struct {
	Layers   []layer.Layer
	Canvas   layer.CanvasSize
	Selected string
}

// Machine applies pointer events using one set of editor settings.
type Machine struct {
	Measurer   textmetrics.Measurer
	Grid       snap.Grid
	MinSize    float64
	HandleSize float64
}

func (m Machine) bound(sc Scene) geometry.Bound {
	return geometry.Bound{Canvas: sc.Canvas, Grid: m.Grid}
}

// handleUnder returns the handle of the selected layer under p. Handles are
// only live on a selected, visible video layer.
func (m Machine) handleUnder(sc Scene, p geometry.Point) (layer.Layer, types.Handle, bool) {
	sel, ok := layer.Find(sc.Layers, sc.Selected)
	if !ok || !sel.Meta().Visible || !geometry.HasHandles(sel) {
		return nil, types.HandleNone, false
	}
	h, ok := geometry.HandleAt(geometry.Bounds(sel, m.Measurer), p, m.HandleSize)
	return sel, h, ok
}

// Down starts a gesture. A handle of the selected video layer starts a
// resize; otherwise the topmost visible layer under p is selected and
// dragged; a miss clears the selection.
func (m Machine) Down(_ State, sc Scene, p geometry.Point) (State, Scene) {
	if sel, h, ok := m.handleUnder(sc, p); ok {
		return State{
			Mode:    ModeResizing,
			LayerID: sel.Meta().ID,
			Handle:  h,
			Anchor:  geometry.Bounds(sel, m.Measurer),
			Pointer: p,
		}, sc
	}

	hit, ok := geometry.TopmostAt(sc.Layers, p, m.Measurer)
	if !ok {
		sc.Selected = ""
		return Idle, sc
	}

	meta := hit.Meta()
	sc.Selected = meta.ID
	return State{
		Mode:    ModeDragging,
		LayerID: meta.ID,
		Grab:    p.Sub(geometry.Point{X: meta.X, Y: meta.Y}),
	}, sc
}

// Move applies the active gesture to its layer. Idle moves and gestures
// whose layer no longer exists change nothing.
func (m Machine) Move(s State, sc Scene, p geometry.Point) (State, Scene) {
	l, ok := layer.Find(sc.Layers, s.LayerID)
	if !ok {
		return s, sc
	}

	switch s.Mode {
	case ModeDragging:
		r := geometry.Drag(geometry.Bounds(l, m.Measurer), p, s.Grab, m.bound(sc))
		meta := l.Meta()
		meta.X, meta.Y = r.X, r.Y
		sc.Layers = layer.Replace(sc.Layers, l.WithMeta(meta))

	case ModeResizing:
		v, ok := l.(layer.Video)
		if !ok {
			return s, sc
		}
		c := geometry.Constraint{
			MinSize:      m.MinSize,
			AspectLocked: v.AspectLocked,
			AspectRatio:  v.AspectRatio,
		}
		r := geometry.Resize(s.Anchor, s.Handle, p.Sub(s.Pointer), c, m.bound(sc))
		v.Base.X, v.Base.Y = r.X, r.Y
		v.Width, v.Height = r.Width, r.Height
		sc.Layers = layer.Replace(sc.Layers, v)
	}
	return s, sc
}

// Up ends any gesture.
func (m Machine) Up(State) State { return Idle }

// Leave ends any gesture when the pointer leaves the canvas.
func (m Machine) Leave(State) State { return Idle }

// Cursor returns the cursor hint for a pointer at p.
func (m Machine) Cursor(s State, sc Scene, p geometry.Point) string {
	switch s.Mode {
	case ModeDragging:
		return geometry.CursorGrabbing
	case ModeResizing:
		return geometry.HandleCursor(s.Handle)
	}
	if _, h, ok := m.handleUnder(sc, p); ok {
		return geometry.HandleCursor(h)
	}
	if _, ok := geometry.TopmostAt(sc.Layers, p, m.Measurer); ok {
		return geometry.CursorMove
	}
	return geometry.CursorDefault
}
