package layout

import (
	"os"

	"github.com/pkg/errors"

	"github.com/ZacxDev/layout-composer/internal/editor"
)

// Script is a recorded sequence of editor actions.
type Script struct {
	Actions []editor.Action `json:"actions" yaml:"actions"`
}

// UnmarshalScript decodes either {"actions": [...]} or a bare action list.
func UnmarshalScript(data []byte, f Format) ([]editor.Action, error) {
	var s Script
	if err := unmarshal(data, f, &s); err == nil {
		return s.Actions, nil
	}

	var actions []editor.Action
	if err := unmarshal(data, f, &actions); err != nil {
		return nil, errors.Wrap(err, "failed to decode script")
	}
	return actions, nil
}

// LoadScript reads the action script at path.
func LoadScript(path string) ([]editor.Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read script")
	}
	return UnmarshalScript(data, FormatFor(path))
}
