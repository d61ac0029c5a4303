// Package export hands a compiled command to the outside world: the system
// clipboard or a downloadable shell script.
package export

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/ffmpeg"
)

// Clipboard copies text and remembers that it did for a short while, so a
// UI can show a "copied" acknowledgement that clears itself.
type Clipboard struct {
	write func(string) error
	reset time.Duration

	mu     sync.Mutex
	copied bool
	timer  *time.Timer
}

type ClipboardOption func(*Clipboard)

// WithWriter replaces the system clipboard, e.g. in tests or headless runs.
func WithWriter(write func(string) error) ClipboardOption {
	return func(c *Clipboard) { c.write = write }
}

// NewClipboard returns a clipboard whose copied flag clears after reset.
func NewClipboard(reset time.Duration, opts ...ClipboardOption) *Clipboard {
	c := &Clipboard{
		write: clipboard.WriteAll,
		reset: reset,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy writes text to the clipboard and raises the copied flag. A new copy
// restarts the reset timer.
func (c *Clipboard) Copy(text string) error {
	if err := c.write(text); err != nil {
		return errors.Wrap(err, "failed to copy command to clipboard")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.copied = true
	if c.timer != nil {
		c.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(c.reset, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.timer == t {
			c.copied = false
			c.timer = nil
		}
	})
	c.timer = t
	return nil
}

// Copied reports whether a copy happened within the reset window.
func (c *Clipboard) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}

// Stop cancels a pending reset and clears the flag.
func (c *Clipboard) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.copied = false
}

// ScriptName returns name with the .sh extension enforced. An empty name
// gets the default command file name.
func ScriptName(name string) string {
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = config.CommandFileName
	}
	return ffmpeg.EnsureExtension(name, config.CommandFileExt)
}

// WriteScript saves command as an executable .sh file. The extension of path
// is replaced when it is not .sh; the final path is returned.
func WriteScript(path, command string) (string, error) {
	dir := filepath.Dir(path)
	path = filepath.Join(dir, ScriptName(path))

	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, []byte(command), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to write command file")
	}
	return path, nil
}
