package view

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
)

// itemActions are offered per item to privileged sessions.
var itemActions = []humastar.ActionDef{
	{Rel: "edit", Pattern: PathEditForm, Method: http.MethodPost, Title: "Edit %s"},
	{Rel: "delete", Pattern: PathItem, Method: http.MethodDelete, Title: "Delete %s"},
}

// PointBody is a position in rendered canvas pixels.
type PointBody struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MarkerBody is one drawn marker.
type MarkerBody struct {
	ItemID int       `json:"item_id,omitempty" doc:"Item the marker belongs to, 0 for the selection"`
	Name   string    `json:"name,omitempty"`
	At     PointBody `json:"at"`
	Color  string    `json:"color"`
	Radius float64   `json:"radius"`
}

// SceneBody is the current canvas of a session as JSON. Available actions
// are returned as Link headers.
type SceneBody struct {
	MapID      int          `json:"map_id" doc:"Selected map, 0 for none"`
	Ready      bool         `json:"ready" doc:"Whether scale and backdrop size are known"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	Scale      float64      `json:"scale"`
	Backdrop   string       `json:"backdrop,omitempty"`
	Background string       `json:"background,omitempty"`
	Markers    []MarkerBody `json:"markers"`
	Selected   *MarkerBody  `json:"selected,omitempty"`
	Highlight  *MarkerBody  `json:"highlight,omitempty"`
	Form       string       `json:"form" enum:"closed,create,edit"`

	actions []humastar.Action
}

// Actions implements humastar.Actor.
func (b SceneBody) Actions() []humastar.Action {
	return b.actions
}

// SceneOutput wraps SceneBody.
type SceneOutput struct {
	Body SceneBody
}

// Scene returns the session's current scene.
func (h *Handler) Scene(ctx context.Context, input *SessionInput) (*SceneOutput, error) {
	ctrl, ok := h.sessions.Lookup(input.Session)
	if !ok {
		return nil, huma.Error404NotFound("session not found")
	}
	return &SceneOutput{Body: sceneBody(ctrl.View())}, nil
}

func sceneBody(v mapview.View) SceneBody {
	sc := v.Scene
	b := SceneBody{
		MapID:      v.State.MapID(),
		Ready:      sc.Ready,
		Width:      sc.Width,
		Height:     sc.Height,
		Scale:      float64(v.State.Scale),
		Backdrop:   sc.Backdrop,
		Background: sc.Background,
		Markers:    make([]MarkerBody, len(sc.Markers)),
		Form:       v.State.Form.Mode.String(),
	}
	for i, m := range sc.Markers {
		b.Markers[i] = markerBody(m)
	}
	if sc.Selected != nil {
		m := markerBody(*sc.Selected)
		b.Selected = &m
	}
	if sc.Highlight != nil {
		m := markerBody(*sc.Highlight)
		b.Highlight = &m
	}
	b.actions = sceneActions(v.State)
	return b
}

func markerBody(m mapview.Marker) MarkerBody {
	return MarkerBody{
		ItemID: m.ItemID,
		Name:   m.Name,
		At:     PointBody{X: m.At.X(), Y: m.At.Y()},
		Color:  m.Color,
		Radius: m.Radius,
	}
}

func sceneActions(st mapview.State) []humastar.Action {
	if !st.Privileged || st.Map == nil {
		return nil
	}
	var actions []humastar.Action
	if st.Selected != nil && !st.Form.Open() {
		actions = append(actions, humastar.Action{
			Rel: "create-form", Href: PathOpenForm, Method: http.MethodPost, Title: "Add item here",
		})
	}
	if st.Form.Open() {
		actions = append(actions, humastar.Action{
			Rel: "cancel-form", Href: PathCancelForm, Method: http.MethodPost, Title: "Cancel",
		})
	}
	for _, it := range st.Items {
		actions = append(actions, humastar.ActionsFor(it.ID, it.Name, itemActions)...)
	}
	return actions
}

var _ humastar.Actor = SceneBody{}
