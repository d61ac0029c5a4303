package platform

import (
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

type YouTubeShorts struct{}

func init() {
	Register(&YouTubeShorts{})
}

func (p *YouTubeShorts) GetName() types.TargetPlatform {
	return types.TargetPlatformYouTubeShorts
}

func (p *YouTubeShorts) GetCanvas() layer.CanvasSize {
	return layer.CanvasSize{Width: 1080, Height: 1920}
}

func (p *YouTubeShorts) GetMaxDuration() int {
	return 60
}

func (p *YouTubeShorts) GetCodecPreset() string {
	return "mp4-faststart"
}
