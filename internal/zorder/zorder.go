// Package zorder moves layers up and down the stack by swapping zIndex
// values with their immediate neighbour. Swapping never creates ties and
// leaves every other layer's zIndex untouched.
package zorder

import (
	"github.com/ZacxDev/layout-composer/internal/layer"
)

// Raise swaps id's zIndex with the layer holding the smallest zIndex strictly
// greater than it. Topmost layers and unknown ids are left as they are.
func Raise(layers []layer.Layer, id string) []layer.Layer {
	return swapWith(layers, id, func(target, candidate, best int, found bool) bool {
		return candidate > target && (!found || candidate < best)
	})
}

// Lower swaps id's zIndex with the layer holding the largest zIndex strictly
// less than it.
func Lower(layers []layer.Layer, id string) []layer.Layer {
	return swapWith(layers, id, func(target, candidate, best int, found bool) bool {
		return candidate < target && (!found || candidate > best)
	})
}

// IsTop reports whether id holds the highest zIndex.
func IsTop(layers []layer.Layer, id string) bool {
	l, ok := layer.Find(layers, id)
	return ok && l.Meta().ZIndex == layer.MaxZ(layers)
}

// IsBottom reports whether id holds the lowest zIndex.
func IsBottom(layers []layer.Layer, id string) bool {
	l, ok := layer.Find(layers, id)
	if !ok {
		return false
	}
	for _, other := range layers {
		if other.Meta().ZIndex < l.Meta().ZIndex {
			return false
		}
	}
	return true
}

type better func(target, candidate, best int, found bool) bool

func swapWith(layers []layer.Layer, id string, pick better) []layer.Layer {
	ti := layer.Index(layers, id)
	if ti < 0 {
		return layers
	}
	target := layers[ti].Meta()

	ni := -1
	best := 0
	for i, l := range layers {
		if i == ti {
			continue
		}
		z := l.Meta().ZIndex
		if pick(target.ZIndex, z, best, ni >= 0) {
			ni, best = i, z
		}
	}
	if ni < 0 {
		return layers
	}

	neighbour := layers[ni].Meta()
	out := make([]layer.Layer, len(layers))
	copy(out, layers)

	tm, nm := target, neighbour
	tm.ZIndex, nm.ZIndex = neighbour.ZIndex, target.ZIndex
	out[ti] = layers[ti].WithMeta(tm)
	out[ni] = layers[ni].WithMeta(nm)
	return out
}
