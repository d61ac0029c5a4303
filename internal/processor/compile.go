package processor

import (
	"github.com/ZacxDev/layout-composer/internal/export"
	"github.com/ZacxDev/layout-composer/internal/ffmpeg"
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/pkg/types"
)

type CompileResult struct {
	Command    string
	ScriptPath string // empty unless the command was written to a file
	Copied     bool
	Layers     int // visible layers that reached the filter graph
}

// Process loads the layout, applies the platform and template, and compiles
// the command. The command is also written and copied when the options ask
// for it.
func (c *Compiler) Process() (*CompileResult, error) {
	s, err := loadState(c.editor, c.opts.LayoutPath)
	if err != nil {
		return nil, err
	}
	if s, err = applyPlatform(c.editor, s, c.opts.Platform, c.logger); err != nil {
		return nil, err
	}
	if s, err = applyTemplate(c.editor, s, c.opts.TemplatePath, c.logger); err != nil {
		return nil, err
	}

	visible := 0
	for _, l := range s.Layers {
		if l.Meta().Visible {
			visible++
		}
	}
	c.logger.Debug("compiling layout",
		"layers", len(s.Layers),
		"visible", visible,
		"videos", layer.CountKind(s.Layers, types.LayerKindVideo),
		"canvas", s.Canvas,
		"codec", s.Codec)

	res := &CompileResult{
		Command: c.editor.Compile(s),
		Layers:  visible,
	}
	if res.Command == ffmpeg.NoLayersMessage {
		c.logger.Warn("layout has no visible layers")
		return res, nil
	}

	if c.opts.OutputPath != "" {
		path, err := export.WriteScript(c.opts.OutputPath, res.Command)
		if err != nil {
			return nil, err
		}
		res.ScriptPath = path
		c.logger.Info("wrote command", "path", path)
	}

	if c.opts.Copy {
		if err := c.clipboard.Copy(res.Command); err != nil {
			return nil, err
		}
		res.Copied = true
		c.logger.Info("copied command to clipboard")
	}
	return res, nil
}
