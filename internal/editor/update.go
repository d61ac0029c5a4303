package editor

import (
	"strconv"
	"strings"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/geometry"
	"github.com/ZacxDev/layout-composer/internal/interaction"
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/platform"
	"github.com/ZacxDev/layout-composer/internal/snap"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

// Patch is a partial layer update. Nil fields are left alone and fields that
// do not apply to the layer's kind are ignored.
type Patch struct {
	Name    *string  `json:"name,omitempty" yaml:"name,omitempty"`
	X       *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y       *float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Visible *bool    `json:"visible,omitempty" yaml:"visible,omitempty"`

	Width        *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height       *float64 `json:"height,omitempty" yaml:"height,omitempty"`
	AspectLocked *bool    `json:"aspectLocked,omitempty" yaml:"aspectLocked,omitempty"`

	Text       *string           `json:"text,omitempty" yaml:"text,omitempty"`
	FontSize   *float64          `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontFamily *types.FontFamily `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	Color      *string           `json:"color,omitempty" yaml:"color,omitempty"`
	Bold       *bool             `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic     *bool             `json:"italic,omitempty" yaml:"italic,omitempty"`
}

// Update applies p to id. Switching the aspect lock on captures the current
// width/height ratio. The result is floored at the minimum size and kept on
// the canvas.
func (e *Editor) Update(s State, id string, p Patch) State {
	l, ok := layer.Find(s.Layers, id)
	if !ok {
		return s
	}

	m := l.Meta()
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.X != nil {
		m.X = *p.X
	}
	if p.Y != nil {
		m.Y = *p.Y
	}
	if p.Visible != nil {
		m.Visible = *p.Visible
	}

	switch l := l.(type) {
	case layer.Video:
		l.Base = m
		s.Layers = layer.Replace(s.Layers, e.patchVideo(l, p, s.Canvas))
	case layer.Text:
		l.Base = m
		s.Layers = layer.Replace(s.Layers, e.patchText(l, p, s.Canvas))
	}
	return s
}

func (e *Editor) patchVideo(v layer.Video, p Patch, canvas layer.CanvasSize) layer.Video {
	minSize := e.minSize()
	if p.Width != nil {
		v.Width = snap.Floor(*p.Width, minSize)
		if v.AspectLocked && v.AspectRatio > 0 && p.Height == nil {
			v.Height = v.Width / v.AspectRatio
		}
	}
	if p.Height != nil {
		v.Height = snap.Floor(*p.Height, minSize)
		if v.AspectLocked && v.AspectRatio > 0 && p.Width == nil {
			v.Width = v.Height * v.AspectRatio
		}
	}
	if p.AspectLocked != nil {
		if *p.AspectLocked && !v.AspectLocked && v.Height > 0 {
			v.AspectRatio = v.Width / v.Height
		}
		v.AspectLocked = *p.AspectLocked
	}
	return e.fitVideo(v, canvas)
}

func (e *Editor) patchText(t layer.Text, p Patch, canvas layer.CanvasSize) layer.Text {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
		if t.FontSize <= 0 {
			t.FontSize = config.DefaultFontSize
		}
	}
	if p.FontFamily != nil {
		t.FontFamily = types.ParseFontFamily(string(*p.FontFamily))
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Bold != nil {
		t.Bold = *p.Bold
	}
	if p.Italic != nil {
		t.Italic = *p.Italic
	}
	return e.fitText(t, canvas)
}

// fitVideo enforces the minimum size and keeps v on the canvas. A locked
// ratio is scaled, never distorted.
func (e *Editor) fitVideo(v layer.Video, canvas layer.CanvasSize) layer.Video {
	minSize := e.minSize()
	if v.AspectLocked && v.Width > 0 && v.Height > 0 {
		grow := max(1, minSize/v.Width, minSize/v.Height)
		v.Width *= grow
		v.Height *= grow
	}
	v.Width = snap.Floor(v.Width, minSize)
	v.Height = snap.Floor(v.Height, minSize)

	if v.AspectLocked {
		scale := min(1, canvas.Width/v.Width, canvas.Height/v.Height)
		v.Width *= scale
		v.Height *= scale
	}
	r := geometry.ClampRect(geometry.Rect{X: v.Base.X, Y: v.Base.Y, Width: v.Width, Height: v.Height}, canvas)
	v.Base.X, v.Base.Y = r.X, r.Y
	v.Width, v.Height = r.Width, r.Height
	return v
}

// fitText keeps the measured text box on the canvas where it fits.
func (e *Editor) fitText(t layer.Text, canvas layer.CanvasSize) layer.Text {
	b := geometry.Bounds(t, e.measurer)
	t.Base.X = snap.Clamp(t.Base.X, 0, canvas.Width-b.Width)
	t.Base.Y = snap.Clamp(t.Base.Y, 0, canvas.Height-b.Height)
	return t
}

// Editable field names accepted by SetField.
const (
	FieldName         = "name"
	FieldX            = "x"
	FieldY            = "y"
	FieldVisible      = "visible"
	FieldWidth        = "width"
	FieldHeight       = "height"
	FieldAspectLocked = "aspectLocked"
	FieldText         = "text"
	FieldFontSize     = "fontSize"
	FieldFontFamily   = "fontFamily"
	FieldColor        = "color"
	FieldBold         = "bold"
	FieldItalic       = "italic"
)

// SetField updates a single field from its raw text form, the way a property
// panel submits it. Values that do not parse fall back to the field default:
// 0 for a position, the minimum size for a dimension and the default font
// size. Unknown fields are ignored.
func (e *Editor) SetField(s State, id, field, raw string) State {
	raw = strings.TrimSpace(raw)
	var p Patch

	switch field {
	case FieldName:
		p.Name = &raw
	case FieldX, FieldY:
		v := parseFloat(raw, 0)
		if field == FieldX {
			p.X = &v
		} else {
			p.Y = &v
		}
	case FieldWidth, FieldHeight:
		v := parseFloat(raw, e.minSize())
		if field == FieldWidth {
			p.Width = &v
		} else {
			p.Height = &v
		}
	case FieldFontSize:
		v := parseFloat(raw, config.DefaultFontSize)
		p.FontSize = &v
	case FieldText:
		p.Text = &raw
	case FieldColor:
		p.Color = &raw
	case FieldFontFamily:
		f := types.ParseFontFamily(raw)
		p.FontFamily = &f
	case FieldVisible, FieldAspectLocked, FieldBold, FieldItalic:
		b, _ := strconv.ParseBool(raw)
		switch field {
		case FieldVisible:
			p.Visible = &b
		case FieldAspectLocked:
			p.AspectLocked = &b
		case FieldBold:
			p.Bold = &b
		default:
			p.Italic = &b
		}
	default:
		return s
	}
	return e.Update(s, id, p)
}

// SetGridSize parses a grid size typed by the user, falling back to the
// default size.
func (e *Editor) SetGridSize(s State, raw string) State {
	return e.SetGrid(s, s.Grid.Enabled, parseFloat(strings.TrimSpace(raw), 0))
}

func parseFloat(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

// SetCanvas resizes the canvas and pulls every layer back inside it.
func (e *Editor) SetCanvas(s State, size layer.CanvasSize) State {
	if size.Width <= 0 || size.Height <= 0 {
		return s
	}
	s.Canvas = size
	s.Layers = e.refit(s.Layers, size)
	return s
}

func (e *Editor) refit(layers []layer.Layer, canvas layer.CanvasSize) []layer.Layer {
	out := make([]layer.Layer, len(layers))
	for i, l := range layers {
		switch l := l.(type) {
		case layer.Video:
			out[i] = e.fitVideo(l, canvas)
		case layer.Text:
			out[i] = e.fitText(l, canvas)
		default:
			out[i] = l
		}
	}
	return out
}

// ApplyPlatform sizes the canvas for p and selects its encoder preset.
func (e *Editor) ApplyPlatform(s State, p platform.Platform) State {
	s = e.SetCanvas(s, p.GetCanvas())
	s.Codec = p.GetCodecPreset()
	return s
}

// LoadTemplate marks a template as present and adopts its natural size as the
// canvas.
func (e *Editor) LoadTemplate(s State, name string, size layer.CanvasSize) State {
	if size.Width <= 0 || size.Height <= 0 {
		return s
	}
	opacity := s.Template.Opacity
	if !s.Template.Present {
		opacity = 1
	}
	s.Template = Template{Name: name, Size: size, Opacity: opacity, Present: true}
	return e.SetCanvas(s, size)
}

// ClearTemplate removes the template and restores the default canvas.
func (e *Editor) ClearTemplate(s State) State {
	if !s.Template.Present {
		return s
	}
	s.Template = Template{}
	return e.SetCanvas(s, e.settings.Canvas)
}

// SetTemplateOpacity stores the preview opacity, clamped to [0, 1].
func (e *Editor) SetTemplateOpacity(s State, opacity float64) State {
	s.Template.Opacity = snap.Clamp(opacity, 0, 1)
	return s
}

func (e *Editor) machine(s State) interaction.Machine {
	handle := e.settings.HandleSize
	if handle <= 0 {
		handle = config.HandleSize
	}
	return interaction.Machine{
		Measurer:   e.measurer,
		Grid:       s.Grid,
		MinSize:    e.minSize(),
		HandleSize: handle,
	}
}

func scene(s State) interaction.Scene {
	return interaction.Scene{Layers: s.Layers, Canvas: s.Canvas, Selected: s.Selected}
}

func (s State) withScene(sc interaction.Scene) State {
	s.Layers = sc.Layers
	s.Selected = sc.Selected
	return s
}

// PointerDown starts a drag or resize gesture at p.
func (e *Editor) PointerDown(s State, p geometry.Point) State {
	is, sc := e.machine(s).Down(s.Interaction, scene(s), p)
	s = s.withScene(sc)
	s.Interaction = is
	return s
}

// PointerMove continues the active gesture.
func (e *Editor) PointerMove(s State, p geometry.Point) State {
	is, sc := e.machine(s).Move(s.Interaction, scene(s), p)
	s = s.withScene(sc)
	s.Interaction = is
	return s
}

// PointerUp ends the active gesture.
func (e *Editor) PointerUp(s State) State {
	s.Interaction = e.machine(s).Up(s.Interaction)
	return s
}

// PointerLeave ends the active gesture when the pointer exits the canvas.
func (e *Editor) PointerLeave(s State) State {
	s.Interaction = e.machine(s).Leave(s.Interaction)
	return s
}

// Cursor returns the cursor hint for a pointer hovering at p.
func (e *Editor) Cursor(s State, p geometry.Point) string {
	return e.machine(s).Cursor(s.Interaction, scene(s), p)
}
