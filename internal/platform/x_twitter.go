package platform

import (
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

type XTwitter struct{}

func init() {
	Register(&XTwitter{})
}

func (p *XTwitter) GetName() types.TargetPlatform {
	return types.TargetPlatformXTwitter
}

func (p *XTwitter) GetCanvas() layer.CanvasSize {
	return layer.CanvasSize{Width: 1920, Height: 1200}
}

func (p *XTwitter) GetMaxDuration() int {
	return 140
}

func (p *XTwitter) GetCodecPreset() string {
	return "mp4-faststart"
}
