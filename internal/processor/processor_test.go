package processor

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/export"
	"github.com/ZacxDev/layout-composer/internal/ffmpeg"
	"github.com/ZacxDev/layout-composer/internal/layer"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const sampleLayout = `{
  "layers": [
    {"type": "video", "name": "Main", "x": 0, "y": 0, "width": 540, "height": 540, "zIndex": 1},
    {"type": "text", "name": "Title", "text": "Hi", "x": 10, "y": 10, "zIndex": 2}
  ]
}`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return writeFile(t, "frame.png", buf.Bytes())
}

func TestCompile(t *testing.T) {
	opts := &config.CompileOptions{LayoutPath: writeFile(t, "layout.json", []byte(sampleLayout))}
	res, err := NewCompiler(config.Default(), opts, discard).Process()
	require.NoError(t, err)

	assert.Equal(t, 2, res.Layers)
	assert.Contains(t, res.Command, `-i "main.mp4"`)
	assert.Contains(t, res.Command, "color=c=black:s=1080x1920[base]")
	assert.Contains(t, res.Command, "drawtext=text='Hi'")
	assert.Empty(t, res.ScriptPath)
	assert.False(t, res.Copied)
}

func TestCompileWithPlatformAndTemplate(t *testing.T) {
	opts := &config.CompileOptions{
		LayoutPath:   writeFile(t, "layout.json", []byte(sampleLayout)),
		Platform:     "reddit",
		TemplatePath: writePNG(t, 720, 1280),
	}
	res, err := NewCompiler(config.Default(), opts, discard).Process()
	require.NoError(t, err)

	assert.Contains(t, res.Command, "s=720x1280[base]", "template size wins over the platform frame")
	assert.Contains(t, res.Command, `-i "template.png"`)
	assert.Contains(t, res.Command, "[1:v]overlay=0:0[out]")
}

func TestCompileUnknownPlatform(t *testing.T) {
	opts := &config.CompileOptions{Platform: "myspace"}
	_, err := NewCompiler(config.Default(), opts, discard).Process()
	assert.ErrorContains(t, err, "unsupported platform: myspace")
}

func TestCompileEmptyLayout(t *testing.T) {
	opts := &config.CompileOptions{OutputPath: filepath.Join(t.TempDir(), "cmd.sh")}
	res, err := NewCompiler(config.Default(), opts, discard).Process()
	require.NoError(t, err)

	assert.Equal(t, ffmpeg.NoLayersMessage, res.Command)
	assert.Empty(t, res.ScriptPath, "placeholder text is not written out")
	assert.NoFileExists(t, opts.OutputPath)
}

func TestCompileWritesAndCopies(t *testing.T) {
	var copied string
	opts := &config.CompileOptions{
		LayoutPath: writeFile(t, "layout.json", []byte(sampleLayout)),
		OutputPath: filepath.Join(t.TempDir(), "out", "command.txt"),
		Copy:       true,
	}
	c := NewCompiler(config.Default(), opts, discard)
	c.clipboard = export.NewClipboard(time.Minute, export.WithWriter(func(s string) error {
		copied = s
		return nil
	}))

	res, err := c.Process()
	require.NoError(t, err)

	assert.Equal(t, "command.sh", filepath.Base(res.ScriptPath))
	data, err := os.ReadFile(res.ScriptPath)
	require.NoError(t, err)
	assert.Equal(t, res.Command, string(data))

	assert.True(t, res.Copied)
	assert.Equal(t, res.Command, copied)
}

func TestReplay(t *testing.T) {
	script := writeFile(t, "script.yaml", []byte("- type: add-text\n- type: set-grid\n  grid: {enabled: true, size: 10}\n"))

	res, err := NewReplayer(config.Default(), &config.ReplayOptions{
		LayoutPath: writeFile(t, "layout.json", []byte(sampleLayout)),
		ScriptPath: script,
		Format:     "yaml",
	}, discard).Process()
	require.NoError(t, err)

	assert.Equal(t, 2, res.Actions)
	assert.Len(t, res.State.Layers, 3)
	assert.True(t, res.State.Grid.Enabled)
	assert.Contains(t, string(res.Data), "type: text")
	assert.Contains(t, string(res.Data), "New Text")
}

func TestReplaySavesLayout(t *testing.T) {
	script := writeFile(t, "script.json", []byte(`[{"type":"add-video"}]`))
	out := filepath.Join(t.TempDir(), "nested", "result")

	res, err := NewReplayer(config.Default(), &config.ReplayOptions{
		ScriptPath: script,
		OutputPath: out,
	}, discard).Process()
	require.NoError(t, err)

	assert.Equal(t, out+".json", res.Path)
	assert.FileExists(t, res.Path)
	assert.Nil(t, res.Data)
}

func TestReplayBadFormat(t *testing.T) {
	script := writeFile(t, "script.json", []byte(`[]`))
	_, err := NewReplayer(config.Default(), &config.ReplayOptions{ScriptPath: script, Format: "toml"}, discard).Process()
	assert.ErrorContains(t, err, "unsupported format")
}

func TestPreview(t *testing.T) {
	out := filepath.Join(t.TempDir(), "wire")
	path, err := NewPreviewer(config.Default(), &config.PreviewOptions{
		LayoutPath:   writeFile(t, "layout.json", []byte(sampleLayout)),
		TemplatePath: writePNG(t, 720, 1280),
		OutputPath:   out,
	}, discard).Process()
	require.NoError(t, err)
	assert.Equal(t, out+".png", path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 360, cfg.Width)
	assert.Equal(t, 640, cfg.Height)
}

func TestEnsureOutputPath(t *testing.T) {
	dir := t.TempDir()
	path, err := ensureOutputPath(filepath.Join(dir, "a", "b.jpg"), ".png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "b.png"), path)
	assert.DirExists(t, filepath.Join(dir, "a"))
}

func TestLoadStateDefaults(t *testing.T) {
	c := NewCompiler(config.Default(), &config.CompileOptions{}, discard)
	s, err := loadState(c.editor, "")
	require.NoError(t, err)
	assert.Equal(t, layer.CanvasSize{Width: 1080, Height: 1920}, s.Canvas)

	_, err = loadState(c.editor, writeFile(t, "bad.json", []byte(`{"layers":[{"type":"blob"}]}`)))
	assert.ErrorContains(t, err, "invalid layout")
}
