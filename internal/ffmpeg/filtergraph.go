// Package ffmpeg compiles a layer arrangement into an ffmpeg command line. The
// filter graph is built as text: a black base sized to the canvas, one
// scale/pad/overlay chain per video layer, one drawtext stage per text layer
// and an optional template overlay on top.
package ffmpeg

import (
	"fmt"
	"path"
	"strings"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

// NoLayersMessage is returned instead of a command when nothing is visible.
const NoLayersMessage = "# No visible layers to compile. Add a video or text layer to generate an FFmpeg command."

// FontResolver maps a text style to the font file drawtext should load.
type FontResolver interface {
	FontFile(family types.FontFamily, bold, italic bool) string
}

// DirFonts resolves "<Dir>/<Family without spaces>.ttf". Bold and italic are
// selected through drawtext's font option, not the file name.
type DirFonts struct {
	Dir string
}

func (d DirFonts) FontFile(family types.FontFamily, _, _ bool) string {
	return path.Join(d.Dir, strings.ReplaceAll(string(family), " ", "")+".ttf")
}

// Graph is a compiled filter graph before it is rendered as a command.
type Graph struct {
	Inputs []string
	Stages []string
	Output string // label passed to -map
}

// Compiler renders layouts into commands.
type Compiler struct {
	Fonts  FontResolver
	Codec  CodecSettings
	Output string
}

// NewCompiler returns a compiler using the mp4 preset and fonts from fontDir.
func NewCompiler(fontDir, output string) Compiler {
	return Compiler{
		Fonts:  DirFonts{Dir: fontDir},
		Codec:  GetCodecSettings(DefaultCodec),
		Output: output,
	}
}

// Compile renders layers with the default compiler.
func Compile(layers []layer.Layer, canvas layer.CanvasSize, templatePresent bool) string {
	return NewCompiler(config.DefaultFontDir, config.DefaultOutputFile).Compile(layers, canvas, templatePresent)
}

// Compile returns the command text, or NoLayersMessage when no layer is
// visible. The result depends only on its arguments.
func (c Compiler) Compile(layers []layer.Layer, canvas layer.CanvasSize, templatePresent bool) string {
	g, ok := c.Build(layers, canvas, templatePresent)
	if !ok {
		return NoLayersMessage
	}
	return c.Command(g)
}

// Build assembles the filter graph. It reports false when no layer is visible.
func (c Compiler) Build(layers []layer.Layer, canvas layer.CanvasSize, templatePresent bool) (Graph, bool) {
	var videos []layer.Video
	var texts []layer.Text
	for _, l := range layer.SortedByZ(layers) {
		if !l.Meta().Visible {
			continue
		}
		switch l := l.(type) {
		case layer.Video:
			videos = append(videos, l)
		case layer.Text:
			texts = append(texts, l)
		}
	}
	if len(videos) == 0 && len(texts) == 0 {
		return Graph{}, false
	}

	g := Graph{}
	for i, v := range videos {
		g.Inputs = append(g.Inputs, InputName(v.Base.Name, i))
	}
	if templatePresent {
		g.Inputs = append(g.Inputs, config.TemplateInputName)
	}

	g.Stages = append(g.Stages, fmt.Sprintf("color=c=%s:s=%dx%d[base]",
		config.BaseBackgroundColor, px(canvas.Width), px(canvas.Height)))

	for i, v := range videos {
		w, h := px(v.Width), px(v.Height)
		g.Stages = append(g.Stages, fmt.Sprintf(
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2[v%d]",
			i, w, h, w, h, i))
	}

	last := "base"
	for i, v := range videos {
		out := fmt.Sprintf("tmp%d", i)
		if i == len(videos)-1 {
			out = "vout"
			if len(texts) == 0 {
				out = "pre"
			}
		}
		g.Stages = append(g.Stages, fmt.Sprintf("[%s][v%d]overlay=%d:%d[%s]",
			last, i, px(v.Base.X), px(v.Base.Y), out))
		last = out
	}

	for i, t := range texts {
		out := fmt.Sprintf("txt%d", i)
		if i == len(texts)-1 {
			out = "pre"
		}
		g.Stages = append(g.Stages, fmt.Sprintf("[%s]%s[%s]", last, c.drawtext(t), out))
		last = out
	}

	g.Output = last
	if templatePresent {
		g.Stages = append(g.Stages, fmt.Sprintf("[%s][%d:v]overlay=0:0[out]", last, len(videos)))
		g.Output = "out"
	}
	return g, true
}

func (c Compiler) fonts() FontResolver {
	if c.Fonts == nil {
		return DirFonts{Dir: config.DefaultFontDir}
	}
	return c.Fonts
}

func (c Compiler) drawtext(t layer.Text) string {
	opts := []string{
		fmt.Sprintf("text='%s'", Escape(t.Text)),
		"fontfile=" + Escape(c.fonts().FontFile(t.FontFamily, t.Bold, t.Italic)),
		fmt.Sprintf("fontsize=%d", px(t.FontSize)),
		"fontcolor=" + FontColor(t.Color),
		fmt.Sprintf("x=%d", px(t.Base.X)),
		fmt.Sprintf("y=%d", px(t.Base.Y)),
	}
	if v := fontVariant(t.Bold, t.Italic); v != "" {
		opts = append(opts, fmt.Sprintf("font='%s %s'", Escape(string(t.FontFamily)), v))
	}
	return "drawtext=" + strings.Join(opts, ":")
}

func fontVariant(bold, italic bool) string {
	switch {
	case bold && italic:
		return "Bold Italic"
	case bold:
		return "Bold"
	case italic:
		return "Italic"
	default:
		return ""
	}
}

// Command renders g as a multi-line shell command.
func (c Compiler) Command(g Graph) string {
	output := c.Output
	if output == "" {
		output = config.DefaultOutputFile
	}
	codec := c.Codec
	if codec.VideoCodec == "" {
		codec = GetCodecSettings(DefaultCodec)
	}

	var b strings.Builder
	b.WriteString("ffmpeg \\\n")
	for _, in := range g.Inputs {
		fmt.Fprintf(&b, "  -i %s \\\n", ShellQuote(in))
	}
	b.WriteString("  -filter_complex \"\n    ")
	b.WriteString(strings.Join(g.Stages, ";\n    "))
	b.WriteString("\n  \" \\\n")
	fmt.Fprintf(&b, "  -map \"[%s]\" \\\n", g.Output)
	fmt.Fprintf(&b, "  %s \\\n", codec.Flags())
	b.WriteString("  -shortest \\\n")
	fmt.Fprintf(&b, "  %s\n", output)
	return b.String()
}
