package processor

import (
	"path/filepath"

	"github.com/ZacxDev/layout-composer/internal/editor"
	"github.com/ZacxDev/layout-composer/internal/layout"
)

type ReplayResult struct {
	State   editor.State
	Actions int
	Path    string // set when the result was saved
	Data    []byte // encoded layout when no output path was given
}

// Process replays the script over the layout and either saves the result or
// returns it encoded.
func (r *Replayer) Process() (*ReplayResult, error) {
	s, err := loadState(r.editor, r.opts.LayoutPath)
	if err != nil {
		return nil, err
	}
	actions, err := layout.LoadScript(r.opts.ScriptPath)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("replaying script", "path", r.opts.ScriptPath, "actions", len(actions))
	s = r.editor.Replay(s, actions)
	res := &ReplayResult{State: s, Actions: len(actions)}
	doc := layout.FromState(s)

	if r.opts.OutputPath != "" {
		ext := filepath.Ext(r.opts.OutputPath)
		if ext == "" {
			ext = ".json"
		}
		path, err := ensureOutputPath(r.opts.OutputPath, ext)
		if err != nil {
			return nil, err
		}
		if err := layout.Save(path, doc); err != nil {
			return nil, err
		}
		res.Path = path
		r.logger.Info("saved layout", "path", path, "layers", len(s.Layers))
		return res, nil
	}

	format := layout.FormatJSON
	if r.opts.Format != "" {
		if format, err = layout.ParseFormat(r.opts.Format); err != nil {
			return nil, err
		}
	}
	if res.Data, err = layout.Marshal(doc, format); err != nil {
		return nil, err
	}
	return res, nil
}
