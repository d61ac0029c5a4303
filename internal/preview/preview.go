// Package preview draws a wireframe PNG of a layout: video placeholders as
// filled boxes, text layers in their font and colour, the template overlay
// and the selection handles.
package preview

import (
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/ZacxDev/layout-composer/internal/editor"
	"github.com/ZacxDev/layout-composer/internal/geometry"
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/textmetrics"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

var (
	backgroundColor = color.Black
	gridColor       = color.RGBA{R: 255, G: 255, B: 255, A: 28}
	videoFill       = color.RGBA{R: 60, G: 90, B: 140, A: 255}
	videoOutline    = color.RGBA{R: 140, G: 170, B: 220, A: 255}
	labelColor      = color.White
	selectionColor  = color.RGBA{R: 0, G: 200, B: 255, A: 255}
	handleColor     = color.White
)

const labelSize = 12.0

type fontKey struct {
	family       types.FontFamily
	bold, italic bool
}

type faceKey struct {
	fontKey
	size float64
}

// Renderer draws layouts at a fixed scale.
type Renderer struct {
	measurer textmetrics.Measurer
	scale    float64

	mu    sync.Mutex
	fonts map[fontKey]*truetype.Font
	faces map[faceKey]font.Face
}

// New returns a Renderer. Scale is output pixels per canvas pixel.
func New(m textmetrics.Measurer, scale float64) *Renderer {
	if scale <= 0 {
		scale = 1
	}
	return &Renderer{
		measurer: m,
		scale:    scale,
		fonts:    make(map[fontKey]*truetype.Font),
		faces:    make(map[faceKey]font.Face),
	}
}

// face returns nil when the font cannot be parsed; gg then keeps the
// previous face.
func (r *Renderer) face(key fontKey, size float64) font.Face {
	r.mu.Lock()
	defer r.mu.Unlock()

	fk := faceKey{fontKey: key, size: size}
	if face, ok := r.faces[fk]; ok {
		return face
	}
	f, ok := r.fonts[key]
	if !ok {
		var err error
		f, err = truetype.Parse(textmetrics.TTF(key.family, key.bold, key.italic))
		if err != nil {
			return nil
		}
		r.fonts[key] = f
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[fk] = face
	return face
}

func (r *Renderer) setFace(dc *gg.Context, key fontKey, size float64) {
	if face := r.face(key, size); face != nil {
		dc.SetFontFace(face)
	}
}

func (r *Renderer) px(v float64) float64 { return v * r.scale }

// Render draws s. tmpl is the template image, if one is loaded; it is drawn
// over the layers at the state's template opacity.
func (r *Renderer) Render(s editor.State, tmpl image.Image) image.Image {
	w := max(1, int(r.px(s.Canvas.Width)))
	h := max(1, int(r.px(s.Canvas.Height)))
	dc := gg.NewContext(w, h)
	dc.SetColor(backgroundColor)
	dc.Clear()

	if s.Grid.Enabled && s.Grid.Size > 0 {
		r.drawGrid(dc, s)
	}

	for _, l := range layer.SortedByZ(s.Layers) {
		if !l.Meta().Visible {
			continue
		}
		switch l := l.(type) {
		case layer.Video:
			r.drawVideo(dc, l)
		case layer.Text:
			r.drawText(dc, l)
		}
	}

	if tmpl != nil && s.Template.Present && s.Template.Opacity > 0 {
		dc.DrawImage(fade(tmpl, w, h, s.Template.Opacity), 0, 0)
	}

	if sel, ok := layer.Find(s.Layers, s.Selected); ok && sel.Meta().Visible {
		r.drawSelection(dc, sel)
	}
	return dc.Image()
}

func (r *Renderer) drawGrid(dc *gg.Context, s editor.State) {
	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	for x := s.Grid.Size; x < s.Canvas.Width; x += s.Grid.Size {
		dc.DrawLine(r.px(x), 0, r.px(x), r.px(s.Canvas.Height))
	}
	for y := s.Grid.Size; y < s.Canvas.Height; y += s.Grid.Size {
		dc.DrawLine(0, r.px(y), r.px(s.Canvas.Width), r.px(y))
	}
	dc.Stroke()
}

func (r *Renderer) drawVideo(dc *gg.Context, v layer.Video) {
	x, y := r.px(v.Base.X), r.px(v.Base.Y)
	w, h := r.px(v.Width), r.px(v.Height)

	dc.SetColor(videoFill)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()

	dc.SetColor(videoOutline)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x+0.5, y+0.5, w-1, h-1)
	dc.Stroke()

	dc.SetColor(labelColor)
	r.setFace(dc, fontKey{family: types.DefaultFontFamily}, r.px(labelSize))
	dc.DrawStringAnchored(v.Base.Name, x+4, y+4, 0, 1)
}

func (r *Renderer) drawText(dc *gg.Context, t layer.Text) {
	text := t.Text
	if text == "" {
		return
	}
	r.setFace(dc, fontKey{family: t.FontFamily, bold: t.Bold, italic: t.Italic}, r.px(t.FontSize))
	dc.SetHexColor(t.Color)
	dc.DrawStringAnchored(text, r.px(t.Base.X), r.px(t.Base.Y), 0, 1)
}

func (r *Renderer) drawSelection(dc *gg.Context, l layer.Layer) {
	b := geometry.Bounds(l, r.measurer)

	dc.SetColor(selectionColor)
	dc.SetLineWidth(2)
	dc.DrawRectangle(r.px(b.X), r.px(b.Y), r.px(b.Width), r.px(b.Height))
	dc.Stroke()

	if !geometry.HasHandles(l) {
		return
	}
	dc.SetColor(handleColor)
	for _, h := range types.Handles {
		hr := geometry.HandleRect(b, h, 10)
		dc.DrawRectangle(r.px(hr.X), r.px(hr.Y), r.px(hr.Width), r.px(hr.Height))
	}
	dc.Fill()
}

// fade scales src to w x h and multiplies its alpha by opacity.
func fade(src image.Image, w, h int, opacity float64) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	if opacity >= 1 {
		return dst
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = uint8(float64(dst.Pix[i]) * opacity)
	}
	return dst
}

// WritePNG renders s and encodes it as PNG.
func (r *Renderer) WritePNG(w io.Writer, s editor.State, tmpl image.Image) error {
	dc := gg.NewContextForImage(r.Render(s, tmpl))
	if err := dc.EncodePNG(w); err != nil {
		return errors.Wrap(err, "failed to encode preview")
	}
	return nil
}

// SavePNG renders s into the file at path.
func (r *Renderer) SavePNG(path string, s editor.State, tmpl image.Image) error {
	dc := gg.NewContextForImage(r.Render(s, tmpl))
	if err := dc.SavePNG(path); err != nil {
		return errors.Wrap(err, "failed to save preview")
	}
	return nil
}
