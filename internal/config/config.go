package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds the process-wide defaults. Every field can be overridden from
// the environment with the LAYOUT_ prefix, e.g. LAYOUT_GRID_SIZE=10.
type Config struct {
	CanvasWidth     int           `envconfig:"CANVAS_WIDTH" default:"1080"`
	CanvasHeight    int           `envconfig:"CANVAS_HEIGHT" default:"1920"`
	GridSize        float64       `envconfig:"GRID_SIZE" default:"20"`
	SnapEnabled     bool          `envconfig:"SNAP_ENABLED" default:"false"`
	MinLayerSize    float64       `envconfig:"MIN_LAYER_SIZE" default:"50"`
	HandleSize      float64       `envconfig:"HANDLE_SIZE" default:"10"`
	DuplicateOffset float64       `envconfig:"DUPLICATE_OFFSET" default:"20"`
	FontDir         string        `envconfig:"FONT_DIR" default:"/usr/share/fonts/truetype"`
	OutputFile      string        `envconfig:"OUTPUT_FILE" default:"output.mp4"`
	CopiedReset     time.Duration `envconfig:"COPIED_RESET" default:"2s"`
	Port            int           `envconfig:"PORT" default:"8080"`
	AllowedOrigins  string        `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("layout", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return &cfg, nil
}

// Default returns the built-in defaults without consulting the environment.
func Default() *Config {
	return &Config{
		CanvasWidth:     DefaultCanvasWidth,
		CanvasHeight:    DefaultCanvasHeight,
		GridSize:        DefaultGridSize,
		MinLayerSize:    MinLayerSize,
		HandleSize:      HandleSize,
		DuplicateOffset: DuplicateOffset,
		FontDir:         DefaultFontDir,
		OutputFile:      DefaultOutputFile,
		CopiedReset:     2 * time.Second,
		Port:            8080,
		AllowedOrigins:  "localhost:5173,localhost:3000",
	}
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// CompileOptions defines options for compiling a layout into a command
type CompileOptions struct {
	LayoutPath   string
	TemplatePath string
	Platform     string
	OutputPath   string // write the command to a .sh file when set
	Copy         bool   // copy the command to the system clipboard
	Verbose      bool
}

// ReplayOptions defines options for replaying an action script over a layout
type ReplayOptions struct {
	LayoutPath string
	ScriptPath string
	OutputPath string
	Format     string // "json" or "yaml"
	Verbose    bool
}

// PreviewOptions defines options for rendering a wireframe preview
type PreviewOptions struct {
	LayoutPath   string
	TemplatePath string
	OutputPath   string
	Scale        float64 // output pixels per canvas pixel
	Verbose      bool
}

// ServeOptions defines options for the editing server
type ServeOptions struct {
	Port    int
	Verbose bool
}

const (
	// Default canvas (portrait 1080x1920)
	DefaultCanvasWidth  = 1080
	DefaultCanvasHeight = 1920

	// Geometry
	MinLayerSize    = 50.0 // floor for video width/height
	HandleSize      = 10.0 // side of a resize handle square
	DuplicateOffset = 20.0 // x/y shift applied to duplicates
	DefaultGridSize = 20.0

	// Text layers
	DefaultFontSize    = 48.0
	DefaultTextColor   = "#ffffff"
	DefaultText        = "New Text"
	PlaceholderText    = "Text"
	TextPadding        = 10.0 // added to the measured text width
	TextLineHeight     = 1.4  // height = fontSize * TextLineHeight
	TextEstimateWidth  = 200.0
	TextEstimateHeight = 50.0

	// Default video geometry
	DefaultVideoX      = 20.0
	DefaultVideoY      = 20.0
	DefaultVideoWidth  = 540.0
	DefaultVideoHeight = 540.0
	DefaultTextX       = 100.0
	DefaultTextY       = 100.0

	// Command output
	DefaultFontDir      = "/usr/share/fonts/truetype"
	DefaultOutputFile   = "output.mp4"
	CommandFileName     = "ffmpeg_command"
	CommandFileExt      = ".sh"
	TemplateInputName   = "template.png"
	BaseBackgroundColor = "black"

	DefaultPreviewScale = 0.5
	DefaultPreviewFile  = "preview.png"
)
