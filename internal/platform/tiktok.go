package platform

import (
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

type TikTok struct{}

func init() {
	Register(&TikTok{})
}

func (p *TikTok) GetName() types.TargetPlatform {
	return types.TargetPlatformTikTok
}

func (p *TikTok) GetCanvas() layer.CanvasSize {
	return layer.CanvasSize{Width: 1080, Height: 1920}
}

func (p *TikTok) GetMaxDuration() int {
	return 180
}

func (p *TikTok) GetCodecPreset() string {
	return "mp4-faststart"
}
