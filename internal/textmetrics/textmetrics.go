// Package textmetrics estimates the on-canvas size of a text layer. The
// estimate is used for hit-testing and clamping only; it does not try to
// match the metrics of the font ffmpeg will eventually load.
package textmetrics

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

// Style is the subset of a text layer that affects its measured size.
type Style struct {
	FontSize float64
	Family   types.FontFamily
	Bold     bool
	Italic   bool
}

// Measurer reports the bounding size of text rendered in a style.
type Measurer interface {
	Measure(text string, s Style) (width, height float64)
}

// Height is the line box height for a font size.
func Height(fontSize float64) float64 {
	return fontSize * config.TextLineHeight
}

// Approx measures with a fixed average glyph advance. It is the fallback
// when no font could be parsed.
type Approx struct {
	// Advance is the average glyph width as a fraction of the font size.
	Advance float64
}

func (a Approx) Measure(text string, s Style) (float64, float64) {
	if text == "" {
		text = config.PlaceholderText
	}
	adv := a.Advance
	if adv <= 0 {
		adv = 0.6
	}
	if s.Bold {
		adv *= 1.1
	}
	w := float64(len([]rune(text))) * s.FontSize * adv
	return w + config.TextPadding, Height(s.FontSize)
}

type variant int

const (
	variantSans variant = iota
	variantMono
	variantHeavy
)

type fontKey struct {
	variant variant
	size    float64
	bold    bool
	italic  bool
}

// FontBank measures text with the Go font family, picking the mono faces for
// monospaced families and the medium faces for display families.
type FontBank struct {
	mu       sync.Mutex
	fonts    map[fontKey]*opentype.Font
	faces    map[fontKey]font.Face
	fallback Approx
}

var ttfs = map[fontKey][]byte{
	{variant: variantSans}:                            goregular.TTF,
	{variant: variantSans, bold: true}:                gobold.TTF,
	{variant: variantSans, italic: true}:              goitalic.TTF,
	{variant: variantSans, bold: true, italic: true}:  gobolditalic.TTF,
	{variant: variantMono}:                            gomono.TTF,
	{variant: variantMono, bold: true}:                gomonobold.TTF,
	{variant: variantMono, italic: true}:              gomonoitalic.TTF,
	{variant: variantMono, bold: true, italic: true}:  gomonobolditalic.TTF,
	{variant: variantHeavy}:                           gomedium.TTF,
	{variant: variantHeavy, bold: true}:               gobold.TTF,
	{variant: variantHeavy, italic: true}:             gomediumitalic.TTF,
	{variant: variantHeavy, bold: true, italic: true}: gobolditalic.TTF,
}

// NewFontBank parses the embedded Go fonts. Fonts that fail to parse are
// measured with the Approx fallback instead.
func NewFontBank() *FontBank {
	bank := &FontBank{
		fonts: make(map[fontKey]*opentype.Font, len(ttfs)),
		faces: make(map[fontKey]font.Face),
	}
	for key, data := range ttfs {
		f, err := opentype.Parse(data)
		if err != nil {
			continue
		}
		bank.fonts[key] = f
	}
	return bank
}

// TTF returns the embedded font data that stands in for family in the given
// style.
func TTF(f types.FontFamily, bold, italic bool) []byte {
	return ttfs[fontKey{variant: familyVariant(f), bold: bold, italic: italic}]
}

func familyVariant(f types.FontFamily) variant {
	switch f {
	case types.FontCourierNew:
		return variantMono
	case types.FontImpact:
		return variantHeavy
	default:
		return variantSans
	}
}

// Measure returns the advance width of text plus padding, and the line height.
func (b *FontBank) Measure(text string, s Style) (float64, float64) {
	if text == "" {
		text = config.PlaceholderText
	}
	if s.FontSize <= 0 {
		return config.TextPadding, 0
	}

	face := b.face(fontKey{
		variant: familyVariant(s.Family),
		size:    s.FontSize,
		bold:    s.Bold,
		italic:  s.Italic,
	})
	if face == nil {
		return b.fallback.Measure(text, s)
	}

	adv := font.MeasureString(face, text)
	return float64(adv)/64 + config.TextPadding, Height(s.FontSize)
}

func (b *FontBank) face(key fontKey) font.Face {
	b.mu.Lock()
	defer b.mu.Unlock()

	if face, ok := b.faces[key]; ok {
		return face
	}

	f, ok := b.fonts[fontKey{variant: key.variant, bold: key.bold, italic: key.italic}]
	if !ok {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	b.faces[key] = face
	return face
}
