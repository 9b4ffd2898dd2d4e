// Package mapview holds the floor-plan view model: the selected map, the
// cached item collection, the image/canvas coordinate model, the add/edit
// form state machine and the pure rendering of all of it into a scene.
//
// A Controller owns one State per browser session. Handlers dispatch intents
// to it (select a map, click the canvas, submit the form) and re-render the
// full view from a snapshot afterwards; nothing is patched incrementally.
package mapview

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// NoticeTTL is how long a banner stays visible.
const NoticeTTL = 5 * time.Second

// NoticeKind selects the banner style.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a transient banner.
type Notice struct {
	Kind    NoticeKind
	Message string
	Expires time.Time
}

// BackdropStatus tracks the browser's load of the backdrop image.
type BackdropStatus int

const (
	BackdropNone BackdropStatus = iota
	BackdropPending
	BackdropReady
	BackdropFailed
)

// Viewport is the rendered canvas size in canvas pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// Layout is the last known on-screen geometry reported by the browser.
type Layout struct {
	Canvas orb.Bound // CSS box of the canvas in viewport coordinates
	Window orb.Point // innerWidth, innerHeight
}

// State is everything the view renders from. Items are in native space,
// Selected is in rendered space.
type State struct {
	Maps       []mapclient.MapSummary
	Map        *mapclient.Map
	Items      []mapclient.Item
	Query      string
	SearchType mapclient.SearchType

	Viewport Viewport
	Scale    Scale
	Backdrop BackdropStatus
	Layout   Layout

	Selected *orb.Point
	Form     Form
	HoverID  int
	Notice   *Notice

	Privileged bool
}

// ItemByID returns the cached item with id.
func (s State) ItemByID(id int) (*mapclient.Item, bool) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// MapID returns the selected map id, or 0.
func (s State) MapID() int {
	if s.Map == nil {
		return 0
	}
	return s.Map.ID
}

// ActiveNotice returns the notice if it has not expired at now.
func (s State) ActiveNotice(now time.Time) *Notice {
	if s.Notice == nil || now.After(s.Notice.Expires) {
		return nil
	}
	return s.Notice
}

// clone returns a copy that shares nothing mutable with s.
func (s *State) clone() State {
	out := *s
	out.Maps = append([]mapclient.MapSummary(nil), s.Maps...)
	out.Items = append([]mapclient.Item(nil), s.Items...)
	if s.Map != nil {
		m := *s.Map
		out.Map = &m
	}
	if s.Selected != nil {
		p := *s.Selected
		out.Selected = &p
	}
	if s.Notice != nil {
		n := *s.Notice
		out.Notice = &n
	}
	out.Form = s.Form.clone()
	return out
}

// rescale recomputes the scale and rendered height from the viewport width
// and the map's native size, moving the rendered selection with it.
func (s *State) rescale() {
	old := s.Scale
	if s.Map == nil {
		s.Scale = 0
		s.Viewport.Height = 0
		return
	}
	s.Scale = NewScale(s.Viewport.Width, s.Map.Width)
	if s.Scale.Valid() {
		s.Viewport.Height = s.Map.Height * float64(s.Scale)
	} else {
		s.Viewport.Height = 0
	}
	if s.Selected != nil && old.Valid() && s.Scale.Valid() && old != s.Scale {
		native, _ := toNative(*s.Selected, old)
		p, _ := ToRenderedSpace(native, s.Scale)
		s.Selected = &p
	}
}
