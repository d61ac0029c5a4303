package platform

import (
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

type InstagramReel struct{}

func init() {
	Register(&InstagramReel{})
}

func (p *InstagramReel) GetName() types.TargetPlatform {
	return types.TargetPlatformInstagramReel
}

func (p *InstagramReel) GetCanvas() layer.CanvasSize {
	return layer.CanvasSize{Width: 1080, Height: 1920}
}

func (p *InstagramReel) GetMaxDuration() int {
	return 90
}

func (p *InstagramReel) GetCodecPreset() string {
	return "mp4-faststart"
}
