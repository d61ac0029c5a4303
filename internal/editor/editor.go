// Package editor holds the application state of a layout session and the
// reducer-style operations that change it. Every operation takes a State and
// returns the next State; the input is never modified.
package editor

import (
	"fmt"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/ffmpeg"
	"github.com/ZacxDev/layout-composer/internal/geometry"
	"github.com/ZacxDev/layout-composer/internal/interaction"
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/snap"
	"github.com/ZacxDev/layout-composer/internal/textmetrics"
	"github.com/ZacxDev/layout-composer/internal/typeid"
	"github.com/ZacxDev/layout-composer/internal/zorder"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

// Template is the overlay image composited above every layer.
type Template struct {
	Name    string
	Size    layer.CanvasSize
	Opacity float64 // preview only, never compiled
	Present bool
}

// State is everything a session knows about its layout.
type State struct {
	Layers      []layer.Layer
	Canvas      layer.CanvasSize
	Selected    string
	Interaction interaction.State
	Grid        snap.Grid
	Template    Template
	Codec       string
}

// Settings are the per-process knobs an editor is created with.
type Settings struct {
	Canvas          layer.CanvasSize
	GridSize        float64
	SnapEnabled     bool
	MinSize         float64
	HandleSize      float64
	DuplicateOffset float64
	FontDir         string
	OutputFile      string
}

// SettingsFromConfig copies the editor knobs out of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Canvas:          layer.CanvasSize{Width: float64(cfg.CanvasWidth), Height: float64(cfg.CanvasHeight)},
		GridSize:        cfg.GridSize,
		SnapEnabled:     cfg.SnapEnabled,
		MinSize:         cfg.MinLayerSize,
		HandleSize:      cfg.HandleSize,
		DuplicateOffset: cfg.DuplicateOffset,
		FontDir:         cfg.FontDir,
		OutputFile:      cfg.OutputFile,
	}
}

// Editor applies operations to States.
type Editor struct {
	settings Settings
	measurer textmetrics.Measurer
	newID    func() string
}

type Option func(*Editor)

// WithIDs replaces the layer id generator.
func WithIDs(next func() string) Option {
	return func(e *Editor) { e.newID = next }
}

// WithMeasurer replaces the text measurer.
func WithMeasurer(m textmetrics.Measurer) Option {
	return func(e *Editor) { e.measurer = m }
}

// New creates an editor. Without options it measures text with the embedded
// Go fonts and mints typeid layer ids.
func New(s Settings, opts ...Option) *Editor {
	e := &Editor{
		settings: s,
		newID:    typeid.NewLayerID,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.measurer == nil {
		e.measurer = textmetrics.NewFontBank()
	}
	return e
}

// Settings returns the settings the editor was created with.
func (e *Editor) Settings() Settings { return e.settings }

// Measurer returns the text measurer used for text bounds.
func (e *Editor) Measurer() textmetrics.Measurer { return e.measurer }

// Initial returns an empty session on the default canvas.
func (e *Editor) Initial() State {
	return State{
		Canvas:      e.settings.Canvas,
		Interaction: interaction.Idle,
		Grid:        snap.Grid{Enabled: e.settings.SnapEnabled, Size: e.gridSize(0)},
		Codec:       ffmpeg.DefaultCodec,
	}
}

func (e *Editor) gridSize(size float64) float64 {
	if size > 0 {
		return size
	}
	if e.settings.GridSize > 0 {
		return e.settings.GridSize
	}
	return config.DefaultGridSize
}

func (e *Editor) minSize() float64 {
	if e.settings.MinSize > 0 {
		return e.settings.MinSize
	}
	return config.MinLayerSize
}

// uniqueID mints an id not present in layers.
func (e *Editor) uniqueID(layers []layer.Layer) string {
	for {
		id := e.newID()
		if _, taken := layer.Find(layers, id); !taken && id != "" {
			return id
		}
	}
}

// Selection returns the selected layer, if it still exists.
func (e *Editor) Selection(s State) (layer.Layer, bool) {
	return layer.Find(s.Layers, s.Selected)
}

// Bounds returns the current bounding box of l.
func (e *Editor) Bounds(l layer.Layer) geometry.Rect {
	return geometry.Bounds(l, e.measurer)
}

// AddVideo appends a video layer with default geometry and selects it.
func (e *Editor) AddVideo(s State) State {
	n := layer.CountKind(s.Layers, types.LayerKindVideo) + 1
	v := layer.Video{
		Base: layer.Meta{
			ID:      e.uniqueID(s.Layers),
			Name:    fmt.Sprintf("Video %d", n),
			X:       config.DefaultVideoX,
			Y:       config.DefaultVideoY,
			Visible: true,
			ZIndex:  layer.NextZ(s.Layers),
		},
		Width:       config.DefaultVideoWidth,
		Height:      config.DefaultVideoHeight,
		AspectRatio: config.DefaultVideoWidth / config.DefaultVideoHeight,
	}
	v = e.fitVideo(v, s.Canvas)

	s.Layers = append(cloneLayers(s.Layers), v)
	s.Selected = v.Base.ID
	return s
}

// AddText appends a text layer with the default style and selects it.
func (e *Editor) AddText(s State) State {
	n := layer.CountKind(s.Layers, types.LayerKindText) + 1
	t := layer.Text{
		Base: layer.Meta{
			ID:      e.uniqueID(s.Layers),
			Name:    fmt.Sprintf("Text %d", n),
			X:       config.DefaultTextX,
			Y:       config.DefaultTextY,
			Visible: true,
			ZIndex:  layer.NextZ(s.Layers),
		},
		Text:       config.DefaultText,
		FontSize:   config.DefaultFontSize,
		FontFamily: types.DefaultFontFamily,
		Color:      config.DefaultTextColor,
	}
	t = e.fitText(t, s.Canvas)

	s.Layers = append(cloneLayers(s.Layers), t)
	s.Selected = t.Base.ID
	return s
}

// Duplicate copies id under a fresh id, shifted by the duplicate offset and
// stacked above every other layer. The copy becomes the selection. Text
// copies are clamped with a fixed size estimate instead of their measured
// bounds.
func (e *Editor) Duplicate(s State, id string) State {
	src, ok := layer.Find(s.Layers, id)
	if !ok {
		return s
	}

	var w, h float64
	switch src := src.(type) {
	case layer.Video:
		w, h = src.Width, src.Height
	case layer.Text:
		w, h = config.TextEstimateWidth, config.TextEstimateHeight
	}

	m := src.Meta()
	m.ID = e.uniqueID(s.Layers)
	m.Name += " (copy)"
	m.ZIndex = layer.NextZ(s.Layers)
	m.X = snap.Clamp(m.X+e.settings.DuplicateOffset, 0, s.Canvas.Width-w)
	m.Y = snap.Clamp(m.Y+e.settings.DuplicateOffset, 0, s.Canvas.Height-h)

	dup := src.WithMeta(m)
	s.Layers = append(cloneLayers(s.Layers), dup)
	s.Selected = m.ID
	return s
}

// Remove deletes id. Removing the selected layer clears the selection and a
// gesture on the removed layer is abandoned.
func (e *Editor) Remove(s State, id string) State {
	if layer.Index(s.Layers, id) < 0 {
		return s
	}
	s.Layers = layer.Remove(s.Layers, id)
	if s.Selected == id {
		s.Selected = ""
	}
	if s.Interaction.LayerID == id {
		s.Interaction = interaction.Idle
	}
	return s
}

// Select makes id the selection. An empty id clears it; unknown ids are
// ignored.
func (e *Editor) Select(s State, id string) State {
	if id == "" {
		s.Selected = ""
		return s
	}
	if _, ok := layer.Find(s.Layers, id); ok {
		s.Selected = id
	}
	return s
}

// ToggleVisibility flips the visible flag of id.
func (e *Editor) ToggleVisibility(s State, id string) State {
	l, ok := layer.Find(s.Layers, id)
	if !ok {
		return s
	}
	m := l.Meta()
	m.Visible = !m.Visible
	s.Layers = layer.Replace(s.Layers, l.WithMeta(m))
	return s
}

// Raise moves id one step up the stack.
func (e *Editor) Raise(s State, id string) State {
	s.Layers = zorder.Raise(s.Layers, id)
	return s
}

// Lower moves id one step down the stack.
func (e *Editor) Lower(s State, id string) State {
	s.Layers = zorder.Lower(s.Layers, id)
	return s
}

// SetGrid turns snapping on or off. A non-positive size selects the default.
func (e *Editor) SetGrid(s State, enabled bool, size float64) State {
	s.Grid = snap.Grid{Enabled: enabled, Size: e.gridSize(size)}
	return s
}

// SetCodec selects the encoder preset for compiled commands.
func (e *Editor) SetCodec(s State, name string) State {
	s.Codec = name
	return s
}

// Compile renders the current layout as an ffmpeg command.
func (e *Editor) Compile(s State) string {
	c := ffmpeg.NewCompiler(e.settings.FontDir, e.settings.OutputFile)
	c.Codec = ffmpeg.GetCodecSettings(s.Codec)
	return c.Compile(s.Layers, s.Canvas, s.Template.Present)
}

func cloneLayers(layers []layer.Layer) []layer.Layer {
	out := make([]layer.Layer, len(layers), len(layers)+1)
	copy(out, layers)
	return out
}
