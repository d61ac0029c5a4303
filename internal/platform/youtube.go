package platform

import (
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

type YouTube struct{}

func init() {
	Register(&YouTube{})
}

func (p *YouTube) GetName() types.TargetPlatform {
	return types.TargetPlatformYouTube
}

func (p *YouTube) GetCanvas() layer.CanvasSize {
	return layer.CanvasSize{Width: 1920, Height: 1080}
}

func (p *YouTube) GetMaxDuration() int {
	return 43200 // 12 hours
}

func (p *YouTube) GetCodecPreset() string {
	return "mp4"
}
