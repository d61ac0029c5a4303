package processor

import (
	"image"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/preview"
	"github.com/ZacxDev/layout-composer/internal/template"
)

// Process renders the layout and writes the PNG, returning its path.
func (p *Previewer) Process() (string, error) {
	s, err := loadState(p.editor, p.opts.LayoutPath)
	if err != nil {
		return "", err
	}

	var tmpl image.Image
	if p.opts.TemplatePath != "" {
		img, meta, err := template.Load(p.opts.TemplatePath)
		if err != nil {
			return "", err
		}
		opacity := s.Template.Opacity
		s = p.editor.LoadTemplate(s, meta.Name, meta.Size)
		if opacity > 0 {
			s = p.editor.SetTemplateOpacity(s, opacity)
		}
		tmpl = img
	}

	out := p.opts.OutputPath
	if out == "" {
		out = config.DefaultPreviewFile
	}
	out, err = ensureOutputPath(out, ".png")
	if err != nil {
		return "", err
	}

	scale := p.opts.Scale
	if scale <= 0 {
		scale = config.DefaultPreviewScale
	}
	r := preview.New(p.editor.Measurer(), scale)
	if err := r.SavePNG(out, s, tmpl); err != nil {
		return "", err
	}
	p.logger.Info("wrote preview", "path", out, "canvas", s.Canvas, "scale", scale)
	return out, nil
}
