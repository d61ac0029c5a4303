package editor

import (
	"github.com/ZacxDev/layout-composer/internal/geometry"
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/platform"
)

type ActionType string

const (
	ActionAddVideo           ActionType = "add-video"
	ActionAddText            ActionType = "add-text"
	ActionUpdate             ActionType = "update"
	ActionSetField           ActionType = "set-field"
	ActionDuplicate          ActionType = "duplicate"
	ActionRemove             ActionType = "remove"
	ActionSelect             ActionType = "select"
	ActionRaise              ActionType = "raise"
	ActionLower              ActionType = "lower"
	ActionToggleVisibility   ActionType = "toggle-visibility"
	ActionSetGrid            ActionType = "set-grid"
	ActionSetCanvas          ActionType = "set-canvas"
	ActionSetPlatform        ActionType = "set-platform"
	ActionSetCodec           ActionType = "set-codec"
	ActionLoadTemplate       ActionType = "load-template"
	ActionClearTemplate      ActionType = "clear-template"
	ActionSetTemplateOpacity ActionType = "set-template-opacity"
	ActionPointerDown        ActionType = "pointer-down"
	ActionPointerMove        ActionType = "pointer-move"
	ActionPointerUp          ActionType = "pointer-up"
	ActionPointerLeave       ActionType = "pointer-leave"
)

// GridSetting is the payload of a set-grid action.
type GridSetting struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Size    float64 `json:"size,omitempty" yaml:"size,omitempty"`
}

// Action is one serialisable editing step. Only the fields relevant to Type
// are read.
type Action struct {
	Type    ActionType        `json:"type" yaml:"type"`
	ID      string            `json:"id,omitempty" yaml:"id,omitempty"`
	Field   string            `json:"field,omitempty" yaml:"field,omitempty"`
	Value   string            `json:"value,omitempty" yaml:"value,omitempty"`
	X       float64           `json:"x,omitempty" yaml:"x,omitempty"`
	Y       float64           `json:"y,omitempty" yaml:"y,omitempty"`
	Patch   *Patch            `json:"patch,omitempty" yaml:"patch,omitempty"`
	Grid    *GridSetting      `json:"grid,omitempty" yaml:"grid,omitempty"`
	Canvas  *layer.CanvasSize `json:"canvas,omitempty" yaml:"canvas,omitempty"`
	Opacity *float64          `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

func (a Action) point() geometry.Point {
	return geometry.Point{X: a.X, Y: a.Y}
}

// Dispatch applies a to s. Unknown action types and malformed payloads leave
// the state unchanged.
func (e *Editor) Dispatch(s State, a Action) State {
	switch a.Type {
	case ActionAddVideo:
		return e.AddVideo(s)
	case ActionAddText:
		return e.AddText(s)
	case ActionUpdate:
		if a.Patch == nil {
			return s
		}
		return e.Update(s, a.ID, *a.Patch)
	case ActionSetField:
		return e.SetField(s, a.ID, a.Field, a.Value)
	case ActionDuplicate:
		return e.Duplicate(s, a.ID)
	case ActionRemove:
		return e.Remove(s, a.ID)
	case ActionSelect:
		return e.Select(s, a.ID)
	case ActionRaise:
		return e.Raise(s, a.ID)
	case ActionLower:
		return e.Lower(s, a.ID)
	case ActionToggleVisibility:
		return e.ToggleVisibility(s, a.ID)
	case ActionSetGrid:
		if a.Grid == nil {
			return s
		}
		return e.SetGrid(s, a.Grid.Enabled, a.Grid.Size)
	case ActionSetCanvas:
		if a.Canvas == nil {
			return s
		}
		return e.SetCanvas(s, *a.Canvas)
	case ActionSetPlatform:
		p, err := platform.Get(a.Value)
		if err != nil {
			return s
		}
		return e.ApplyPlatform(s, p)
	case ActionSetCodec:
		return e.SetCodec(s, a.Value)
	case ActionLoadTemplate:
		if a.Canvas == nil {
			return s
		}
		return e.LoadTemplate(s, a.Value, *a.Canvas)
	case ActionClearTemplate:
		return e.ClearTemplate(s)
	case ActionSetTemplateOpacity:
		if a.Opacity == nil {
			return s
		}
		return e.SetTemplateOpacity(s, *a.Opacity)
	case ActionPointerDown:
		return e.PointerDown(s, a.point())
	case ActionPointerMove:
		return e.PointerMove(s, a.point())
	case ActionPointerUp:
		return e.PointerUp(s)
	case ActionPointerLeave:
		return e.PointerLeave(s)
	default:
		return s
	}
}

// Replay dispatches actions in order starting from s.
func (e *Editor) Replay(s State, actions []Action) State {
	for _, a := range actions {
		s = e.Dispatch(s, a)
	}
	return s
}
