// Package layout reads and writes layout documents and action scripts. Both
// come in JSON or YAML; the format follows the file extension.
package layout

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/editor"
	"github.com/ZacxDev/layout-composer/internal/interaction"
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/snap"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension; anything that is not
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a format name given on the command line.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("unsupported format: %s (supported: json, yaml)", name)
	}
}

// Document is the on-disk form of an editor session.
type Document struct {
	Canvas   layer.CanvasSize `json:"canvas" yaml:"canvas"`
	Grid     snap.Grid        `json:"grid" yaml:"grid"`
	Codec    string           `json:"codec,omitempty" yaml:"codec,omitempty"`
	Template *TemplateDoc     `json:"template,omitempty" yaml:"template,omitempty"`
	Selected string           `json:"selected,omitempty" yaml:"selected,omitempty"`
	Layers   []LayerDoc       `json:"layers" yaml:"layers"`
}

type TemplateDoc struct {
	Name    string  `json:"name" yaml:"name"`
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
}

// LayerDoc is a flattened layer. Type selects which of the variant fields
// are meaningful.
type LayerDoc struct {
	Type    types.LayerKind `json:"type" yaml:"type"`
	ID      string          `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string          `json:"name" yaml:"name"`
	X       float64         `json:"x" yaml:"x"`
	Y       float64         `json:"y" yaml:"y"`
	Visible *bool           `json:"visible,omitempty" yaml:"visible,omitempty"`
	ZIndex  int             `json:"zIndex" yaml:"zIndex"`

	Width        float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height       float64 `json:"height,omitempty" yaml:"height,omitempty"`
	AspectLocked bool    `json:"aspectLocked,omitempty" yaml:"aspectLocked,omitempty"`
	AspectRatio  float64 `json:"aspectRatio,omitempty" yaml:"aspectRatio,omitempty"`

	Text       string  `json:"text,omitempty" yaml:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	Color      string  `json:"color,omitempty" yaml:"color,omitempty"`
	Bold       bool    `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty" yaml:"italic,omitempty"`
}

// FromState captures the persistent part of s. The gesture in progress is
// not saved.
func FromState(s editor.State) Document {
	d := Document{
		Canvas:   s.Canvas,
		Grid:     s.Grid,
		Codec:    s.Codec,
		Selected: s.Selected,
		Layers:   make([]LayerDoc, 0, len(s.Layers)),
	}
	if s.Template.Present {
		d.Template = &TemplateDoc{
			Name:    s.Template.Name,
			Width:   s.Template.Size.Width,
			Height:  s.Template.Size.Height,
			Opacity: s.Template.Opacity,
		}
	}
	for _, l := range s.Layers {
		d.Layers = append(d.Layers, fromLayer(l))
	}
	return d
}

func fromLayer(l layer.Layer) LayerDoc {
	m := l.Meta()
	visible := m.Visible
	doc := LayerDoc{
		Type:    l.Kind(),
		ID:      m.ID,
		Name:    m.Name,
		X:       m.X,
		Y:       m.Y,
		Visible: &visible,
		ZIndex:  m.ZIndex,
	}
	switch l := l.(type) {
	case layer.Video:
		doc.Width, doc.Height = l.Width, l.Height
		doc.AspectLocked, doc.AspectRatio = l.AspectLocked, l.AspectRatio
	case layer.Text:
		doc.Text = l.Text
		doc.FontSize = l.FontSize
		doc.FontFamily = string(l.FontFamily)
		doc.Color = l.Color
		doc.Bold, doc.Italic = l.Bold, l.Italic
	}
	return doc
}

// State converts d into an editor state. Missing fields take their defaults;
// callers should pass the result through editor.Normalize before use.
func (d Document) State() (editor.State, error) {
	s := editor.State{
		Canvas:      d.Canvas,
		Grid:        d.Grid,
		Codec:       d.Codec,
		Selected:    d.Selected,
		Interaction: interaction.Idle,
	}
	if t := d.Template; t != nil {
		s.Template = editor.Template{
			Name:    t.Name,
			Size:    layer.CanvasSize{Width: t.Width, Height: t.Height},
			Opacity: snap.Clamp(t.Opacity, 0, 1),
			Present: true,
		}
		if s.Canvas.Width <= 0 || s.Canvas.Height <= 0 {
			s.Canvas = s.Template.Size
		}
	}

	for i, doc := range d.Layers {
		l, err := doc.layer()
		if err != nil {
			return editor.State{}, errors.Wrapf(err, "layer %d", i)
		}
		s.Layers = append(s.Layers, l)
	}
	return s, nil
}

func (doc LayerDoc) layer() (layer.Layer, error) {
	m := layer.Meta{
		ID:      doc.ID,
		Name:    doc.Name,
		X:       doc.X,
		Y:       doc.Y,
		Visible: doc.Visible == nil || *doc.Visible,
		ZIndex:  doc.ZIndex,
	}

	switch doc.Type {
	case types.LayerKindVideo:
		v := layer.Video{
			Base:         m,
			Width:        doc.Width,
			Height:       doc.Height,
			AspectLocked: doc.AspectLocked,
			AspectRatio:  doc.AspectRatio,
		}
		if v.Width == 0 && v.Height == 0 {
			v.Width, v.Height = config.DefaultVideoWidth, config.DefaultVideoHeight
		}
		if v.AspectLocked && v.AspectRatio <= 0 && v.Height > 0 {
			v.AspectRatio = v.Width / v.Height
		}
		return v, nil

	case types.LayerKindText:
		t := layer.Text{
			Base:       m,
			Text:       doc.Text,
			FontSize:   doc.FontSize,
			FontFamily: types.ParseFontFamily(doc.FontFamily),
			Color:      doc.Color,
			Bold:       doc.Bold,
			Italic:     doc.Italic,
		}
		if t.FontSize <= 0 {
			t.FontSize = config.DefaultFontSize
		}
		if t.Color == "" {
			t.Color = config.DefaultTextColor
		}
		return t, nil

	default:
		return nil, errors.Errorf("unknown layer type %q", doc.Type)
	}
}

// Unmarshal decodes a document.
func Unmarshal(data []byte, f Format) (Document, error) {
	var d Document
	if err := unmarshal(data, f, &d); err != nil {
		return Document{}, errors.Wrap(err, "failed to decode layout")
	}
	return d, nil
}

// Marshal encodes a document with two-space indentation.
func Marshal(d Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, errors.Wrap(err, "failed to encode layout")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return nil, errors.Wrap(err, "failed to encode layout")
		}
	}
	return buf.Bytes(), nil
}

// Load reads the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "failed to read layout")
	}
	return Unmarshal(data, FormatFor(path))
}

// Save writes d to path in the format its extension names.
func Save(path string, d Document) error {
	data, err := Marshal(d, FormatFor(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write layout")
	}
	return nil
}

func unmarshal(data []byte, f Format, v any) error {
	if f == FormatYAML {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}
