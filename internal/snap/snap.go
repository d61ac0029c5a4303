package snap

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Number is any integer or float type the clamp helpers accept.
type Number interface {
	constraints.Integer | constraints.Float
}

// Grid quantizes coordinates and sizes to multiples of Size while Enabled.
type Grid struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Size    float64 `json:"size" yaml:"size"`
}

// Snap returns v rounded to the nearest multiple of the grid size. Disabled
// grids and non-positive sizes pass v through unchanged.
func (g Grid) Snap(v float64) float64 {
	if !g.Enabled || g.Size <= 0 {
		return v
	}
	return math.Round(v/g.Size) * g.Size
}

// SnapDown returns the largest multiple of the grid size not above v.
func (g Grid) SnapDown(v float64) float64 {
	if !g.Enabled || g.Size <= 0 {
		return v
	}
	return math.Floor(v/g.Size) * g.Size
}

// Clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func Clamp[T Number](v, lo, hi T) T {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Floor returns v raised to at least lo.
func Floor[T Number](v, lo T) T {
	if v < lo {
		return lo
	}
	return v
}
