package editor

import (
	"slices"

	"github.com/ZacxDev/layout-composer/internal/ffmpeg"
	"github.com/ZacxDev/layout-composer/internal/interaction"
	"github.com/ZacxDev/layout-composer/internal/layer"
)

// Normalize repairs a State assembled outside the editor, such as one read
// from a layout file. Missing or repeated ids get fresh ones. Tied zIndex
// values are renumbered in collection order. Every layer is pulled onto the
// canvas and a dangling selection is dropped.
func (e *Editor) Normalize(s State) State {
	if s.Canvas.Width <= 0 || s.Canvas.Height <= 0 {
		s.Canvas = e.settings.Canvas
	}
	s.Grid.Size = e.gridSize(s.Grid.Size)
	if !slices.Contains(ffmpeg.CodecNames(), s.Codec) {
		s.Codec = ffmpeg.DefaultCodec
	}
	s.Interaction = interaction.Idle

	layers := make([]layer.Layer, 0, len(s.Layers))
	seen := make(map[string]bool, len(s.Layers))
	for _, l := range s.Layers {
		m := l.Meta()
		for m.ID == "" || seen[m.ID] {
			m.ID = e.uniqueID(s.Layers)
			l = l.WithMeta(m)
		}
		seen[m.ID] = true
		layers = append(layers, l)
	}
	if hasZTies(layers) {
		layers = renumberZ(layers)
	}
	s.Layers = e.refit(layers, s.Canvas)

	if _, ok := layer.Find(s.Layers, s.Selected); !ok {
		s.Selected = ""
	}
	return s
}

func hasZTies(layers []layer.Layer) bool {
	seen := make(map[int]bool, len(layers))
	for _, l := range layers {
		z := l.Meta().ZIndex
		if seen[z] {
			return true
		}
		seen[z] = true
	}
	return false
}

// renumberZ assigns 1..n following the current stacking order, ties resolved
// by position in the collection.
func renumberZ(layers []layer.Layer) []layer.Layer {
	order := layer.SortedByZ(layers)
	rank := make(map[string]int, len(order))
	for i, l := range order {
		rank[l.Meta().ID] = i + 1
	}
	out := make([]layer.Layer, len(layers))
	for i, l := range layers {
		m := l.Meta()
		m.ZIndex = rank[m.ID]
		out[i] = l.WithMeta(m)
	}
	return out
}
