// Package template reads template images. The editor only needs the natural
// size, so Decode stops at the header; Load decodes the pixels for previews.
package template

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ZacxDev/layout-composer/internal/layer"
)

// Image is a decoded template header.
type Image struct {
	Name   string           `json:"name"`
	Format string           `json:"format"`
	Size   layer.CanvasSize `json:"size"`
}

// Decode reads the image header from r.
func Decode(r io.Reader, name string) (Image, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Image{}, errors.Wrapf(err, "failed to decode template %s", name)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, errors.Errorf("template %s has no pixels", name)
	}
	return Image{
		Name:   name,
		Format: format,
		Size:   layer.CanvasSize{Width: float64(cfg.Width), Height: float64(cfg.Height)},
	}, nil
}

// Open decodes the header of the image at path.
func Open(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, errors.Wrap(err, "failed to open template")
	}
	defer f.Close()

	return Decode(f, filepath.Base(path))
}

// DecodeImage decodes the full image from r.
func DecodeImage(r io.Reader, name string) (image.Image, Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, Image{}, errors.Wrapf(err, "failed to decode template %s", name)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, Image{}, errors.Errorf("template %s has no pixels", name)
	}
	return img, Image{
		Name:   name,
		Format: format,
		Size:   layer.CanvasSize{Width: float64(b.Dx()), Height: float64(b.Dy())},
	}, nil
}

// Load decodes the full image at path.
func Load(path string) (image.Image, Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Image{}, errors.Wrap(err, "failed to open template")
	}
	defer f.Close()

	return DecodeImage(f, filepath.Base(path))
}
