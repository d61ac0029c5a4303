package ffmpeg

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// CodecSettings holds the encoder flags written after the filter graph.
type CodecSettings struct {
	VideoCodec    string
	PixelFormat   string
	CRF           int
	Preset        string
	FileExtension string
	Extra         ffmpeg.KwArgs
}

var codecPresets = map[string]CodecSettings{
	"mp4": {
		VideoCodec:    "libx264",
		PixelFormat:   "yuv420p",
		CRF:           23,
		Preset:        "medium",
		FileExtension: ".mp4",
	},
	"mp4-faststart": {
		VideoCodec:    "libx264",
		PixelFormat:   "yuv420p",
		CRF:           23,
		Preset:        "medium",
		FileExtension: ".mp4",
		Extra: ffmpeg.KwArgs{
			"movflags": "+faststart",
		},
	},
	"webm": {
		VideoCodec:    "libvpx-vp9",
		PixelFormat:   "yuv420p",
		CRF:           31,
		FileExtension: ".webm",
		Extra: ffmpeg.KwArgs{
			"b:v":      "0",
			"deadline": "good",
			"cpu-used": 2,
			"row-mt":   1,
		},
	},
}

// DefaultCodec is the preset used when none is named.
const DefaultCodec = "mp4"

// leadingFlags are always written first and in this order.
var leadingFlags = []string{"c:v", "pix_fmt", "crf", "preset"}

// GetCodecSettings returns the named preset, falling back to mp4.
func GetCodecSettings(name string) CodecSettings {
	if settings, ok := codecPresets[name]; ok {
		return settings
	}
	return codecPresets[DefaultCodec]
}

// CodecNames lists the known presets in sorted order.
func CodecNames() []string {
	names := make([]string, 0, len(codecPresets))
	for name := range codecPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KwArgs merges the fixed settings with the preset's extra options.
func (c CodecSettings) KwArgs() ffmpeg.KwArgs {
	base := ffmpeg.KwArgs{
		"c:v":     c.VideoCodec,
		"pix_fmt": c.PixelFormat,
		"crf":     c.CRF,
	}
	if c.Preset != "" {
		base["preset"] = c.Preset
	}
	return ffmpeg.MergeKwArgs([]ffmpeg.KwArgs{base, c.Extra})
}

// Flags renders the settings as command-line flags. Map iteration order is
// random, so the leading flags are fixed and the rest sorted by key.
func (c CodecSettings) Flags() string {
	kw := c.KwArgs()

	keys := make([]string, 0, len(kw))
	for _, k := range leadingFlags {
		if _, ok := kw[k]; ok {
			keys = append(keys, k)
		}
	}
	rest := make([]string, 0, len(kw))
	for k := range kw {
		if !slices.Contains(leadingFlags, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("-%s %v", k, kw[k]))
	}
	return strings.Join(parts, " ")
}

// EnsureExtension replaces any known media or script extension on filename
// with extension.
func EnsureExtension(filename, extension string) string {
	extensions := []string{".mp4", ".webm", ".mkv", ".avi", ".mov", ".sh", ".txt"}
	for _, ext := range extensions {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename + extension
}
