package platform

import (
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

type Reddit struct{}

func init() {
	Register(&Reddit{})
}

func (p *Reddit) GetName() types.TargetPlatform {
	return types.TargetPlatformReddit
}

func (p *Reddit) GetCanvas() layer.CanvasSize {
	return layer.CanvasSize{Width: 1920, Height: 1080}
}

func (p *Reddit) GetMaxDuration() int {
	return 300 // 5 minutes
}

func (p *Reddit) GetCodecPreset() string {
	return "mp4"
}
