package ffmpeg

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`:`, `\:`,
	`"`, `\"`,
	`$`, `\$`,
	"`", "\\`",
)

// Escape makes s safe inside a quoted drawtext option that itself sits in a
// double-quoted shell argument. The shell sees no expansions in the result.
func Escape(s string) string {
	return textEscaper.Replace(s)
}

var shellEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"`", "\\`",
)

// ShellQuote wraps s in double quotes for a POSIX shell, keeping it literal.
func ShellQuote(s string) string {
	return `"` + shellEscaper.Replace(s) + `"`
}

var whitespace = regexp.MustCompile(`\s+`)

// InputName derives the input file name for a video layer from its display
// name, e.g. "Video 1" becomes "video_1.mp4".
func InputName(name string, index int) string {
	if strings.TrimSpace(name) == "" {
		return fmt.Sprintf("video_%d.mp4", index+1)
	}
	return strings.ToLower(whitespace.ReplaceAllString(name, "_")) + ".mp4"
}

// FontColor converts a "#rrggbb" colour into ffmpeg's "0xrrggbb" form.
func FontColor(hex string) string {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if hex == "" {
		return "0xffffff"
	}
	return "0x" + strings.ToLower(hex)
}

func px(v float64) int {
	return int(math.Round(v))
}
