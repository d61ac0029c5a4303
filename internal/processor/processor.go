// Package processor runs the command-line jobs: compiling a layout into an
// ffmpeg command, replaying an action script and rendering a preview.
package processor

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/editor"
	"github.com/ZacxDev/layout-composer/internal/export"
	"github.com/ZacxDev/layout-composer/internal/layout"
	"github.com/ZacxDev/layout-composer/internal/platform"
	"github.com/ZacxDev/layout-composer/internal/template"
)

// Compiler turns a layout file into an ffmpeg command
type Compiler struct {
	opts      *config.CompileOptions
	editor    *editor.Editor
	clipboard *export.Clipboard
	logger    *slog.Logger
}

// NewCompiler creates a new layout compiler
func NewCompiler(cfg *config.Config, opts *config.CompileOptions, logger *slog.Logger) *Compiler {
	return &Compiler{
		opts:      opts,
		editor:    editor.New(editor.SettingsFromConfig(cfg)),
		clipboard: export.NewClipboard(cfg.CopiedReset),
		logger:    logger,
	}
}

// Replayer applies an action script to a layout
type Replayer struct {
	opts   *config.ReplayOptions
	editor *editor.Editor
	logger *slog.Logger
}

// NewReplayer creates a new script replayer
func NewReplayer(cfg *config.Config, opts *config.ReplayOptions, logger *slog.Logger) *Replayer {
	return &Replayer{
		opts:   opts,
		editor: editor.New(editor.SettingsFromConfig(cfg)),
		logger: logger,
	}
}

// Previewer renders a layout to a PNG wireframe
type Previewer struct {
	opts   *config.PreviewOptions
	editor *editor.Editor
	logger *slog.Logger
}

// NewPreviewer creates a new preview renderer
func NewPreviewer(cfg *config.Config, opts *config.PreviewOptions, logger *slog.Logger) *Previewer {
	return &Previewer{
		opts:   opts,
		editor: editor.New(editor.SettingsFromConfig(cfg)),
		logger: logger,
	}
}

// GetSupportedPlatforms returns a list of supported platforms
func GetSupportedPlatforms() []string {
	return platform.GetSupportedPlatforms()
}

// loadState reads the layout at path, or starts an empty session when path
// is empty.
func loadState(e *editor.Editor, path string) (editor.State, error) {
	if path == "" {
		return e.Initial(), nil
	}
	doc, err := layout.Load(path)
	if err != nil {
		return editor.State{}, err
	}
	s, err := doc.State()
	if err != nil {
		return editor.State{}, errors.Wrapf(err, "invalid layout %s", path)
	}
	return e.Normalize(s), nil
}

// applyPlatform switches s to the named platform's frame and codec preset.
func applyPlatform(e *editor.Editor, s editor.State, name string, logger *slog.Logger) (editor.State, error) {
	if name == "" {
		return s, nil
	}
	plat, err := platform.Get(name)
	if err != nil {
		return s, errors.WithStack(err)
	}
	logger.Debug("applying platform",
		"platform", plat.GetName(),
		"canvas", plat.GetCanvas(),
		"codec", plat.GetCodecPreset(),
		"max_duration", plat.GetMaxDuration())
	return e.ApplyPlatform(s, plat), nil
}

// applyTemplate loads the header of the template image at path into s.
func applyTemplate(e *editor.Editor, s editor.State, path string, logger *slog.Logger) (editor.State, error) {
	if path == "" {
		return s, nil
	}
	img, err := template.Open(path)
	if err != nil {
		return s, err
	}
	logger.Debug("loaded template", "name", img.Name, "format", img.Format, "size", img.Size)
	return e.LoadTemplate(s, img.Name, img.Size), nil
}

// ensureOutputPath creates the parent directory of path and forces ext.
func ensureOutputPath(path, ext string) (string, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	if !strings.HasSuffix(strings.ToLower(path), ext) {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ext
	}
	return path, nil
}
