package platform

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

// Platform describes the frame a layout is composed for on a target platform
type Platform interface {
	// GetName returns the platform name
	GetName() types.TargetPlatform

	// GetCanvas returns the frame size layouts are composed on
	GetCanvas() layer.CanvasSize

	// GetMaxDuration returns the maximum allowed video duration in seconds
	GetMaxDuration() int

	// GetCodecPreset names the encoder preset the compiled command uses
	GetCodecPreset() string
}

var platforms = make(map[types.TargetPlatform]Platform)

// Register adds a platform to the registry
func Register(p Platform) {
	platforms[p.GetName()] = p
}

// Get returns a platform by name
func Get(name string) (Platform, error) {
	p, ok := platforms[types.TargetPlatform(name)]
	if !ok {
		return nil, errors.Errorf("unsupported platform: %s", name)
	}
	return p, nil
}

// GetSupportedPlatforms returns the registered platform names in sorted order
func GetSupportedPlatforms() []string {
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// IsPortrait reports whether the platform's frame is taller than it is wide
func IsPortrait(p Platform) bool {
	c := p.GetCanvas()
	return c.Height > c.Width
}
