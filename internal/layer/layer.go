// Package layer holds the data model of the composer: the video and text
// layers placed on the canvas and the canvas size itself.
package layer

import (
	"slices"

	"github.com/ZacxDev/layout-composer/pkg/types"
)

// CanvasSize is the logical size of the target frame in pixels.
type CanvasSize struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Meta holds the fields shared by every layer variant.
type Meta struct {
	ID      string
	Name    string
	X       float64
	Y       float64
	Visible bool
	ZIndex  int
}

// Layer is a closed sum type: the only implementations are Video and Text.
// Callers switch on the concrete type wherever variant-specific behaviour is
// needed.
type Layer interface {
	Meta() Meta
	Kind() types.LayerKind
	// WithMeta returns a copy of the layer carrying m.
	WithMeta(m Meta) Layer
	sealed()
}

// Video is a rectangular placeholder for one input clip.
type Video struct {
	Base         Meta
	Width        float64
	Height       float64
	AspectLocked bool
	AspectRatio  float64
}

// Text is a caption drawn with drawtext. Its size is derived from the text
// and font style, never stored.
type Text struct {
	Base       Meta
	Text       string
	FontSize   float64
	FontFamily types.FontFamily
	Color      string
	Bold       bool
	Italic     bool
}

func (v Video) Meta() Meta            { return v.Base }
func (v Video) Kind() types.LayerKind { return types.LayerKindVideo }
func (v Video) sealed()               {}

func (v Video) WithMeta(m Meta) Layer {
	v.Base = m
	return v
}

func (t Text) Meta() Meta            { return t.Base }
func (t Text) Kind() types.LayerKind { return types.LayerKindText }
func (t Text) sealed()               {}

func (t Text) WithMeta(m Meta) Layer {
	t.Base = m
	return t
}

// Find returns the layer with the given id.
func Find(layers []Layer, id string) (Layer, bool) {
	if i := Index(layers, id); i >= 0 {
		return layers[i], true
	}
	return nil, false
}

// Index returns the position of id in layers, or -1.
func Index(layers []Layer, id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(layers, func(l Layer) bool { return l.Meta().ID == id })
}

// Replace returns a copy of layers with the layer sharing l's id swapped for
// l. Unknown ids leave the collection untouched.
func Replace(layers []Layer, l Layer) []Layer {
	i := Index(layers, l.Meta().ID)
	if i < 0 {
		return layers
	}
	out := slices.Clone(layers)
	out[i] = l
	return out
}

// Remove returns a copy of layers without id.
func Remove(layers []Layer, id string) []Layer {
	i := Index(layers, id)
	if i < 0 {
		return layers
	}
	out := slices.Clone(layers)
	return slices.Delete(out, i, i+1)
}

// MaxZ returns the highest zIndex in layers, or 0 for an empty collection.
func MaxZ(layers []Layer) int {
	maxZ := 0
	for i, l := range layers {
		if z := l.Meta().ZIndex; i == 0 || z > maxZ {
			maxZ = z
		}
	}
	return maxZ
}

// NextZ is the zIndex a newly created layer receives.
func NextZ(layers []Layer) int {
	if len(layers) == 0 {
		return 1
	}
	return MaxZ(layers) + 1
}

// SortedByZ returns the layers stable-sorted by ascending zIndex.
func SortedByZ(layers []Layer) []Layer {
	out := slices.Clone(layers)
	slices.SortStableFunc(out, func(a, b Layer) int {
		return a.Meta().ZIndex - b.Meta().ZIndex
	})
	return out
}

// CountKind returns how many layers of kind k exist, used for default names.
func CountKind(layers []Layer, k types.LayerKind) int {
	n := 0
	for _, l := range layers {
		if l.Kind() == k {
			n++
		}
	}
	return n
}
