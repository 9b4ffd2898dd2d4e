package mapview

import (
	"github.com/paulmach/orb"
)

// Marker colors and radii in rendered pixels.
const (
	MarkerColor    = "red"
	SelectedColor  = "blue"
	HighlightColor = "yellow"

	MarkerRadius    = 5.0
	HighlightRadius = 8.0
)

// Marker is one circle on the canvas, in rendered space.
type Marker struct {
	ItemID int
	Name   string
	At     orb.Point
	Color  string
	Radius float64
}

// Scene is a full description of one canvas redraw.
// Backdrop is set whenever a map is selected so the browser can load it,
// even before the scale is known; markers are only present when Ready.
type Scene struct {
	Ready      bool
	Width      float64
	Height     float64
	Backdrop   string
	Background string
	Markers    []Marker
	Selected   *Marker
	Highlight  *Marker
}

// Render turns state into a scene. It is pure: the same state always yields
// the same scene, and nothing from a previous scene survives.
func Render(st State) Scene {
	if st.Map == nil {
		return Scene{}
	}
	sc := Scene{
		Backdrop:   st.Map.SVGPath,
		Background: st.Map.BackgroundColor,
	}
	if sc.Background == "" {
		sc.Background = "white"
	}
	if !st.Scale.Valid() {
		return sc
	}
	sc.Ready = true
	sc.Width, sc.Height = st.Viewport.Width, st.Viewport.Height

	sc.Markers = make([]Marker, 0, len(st.Items))
	for _, it := range st.Items {
		at, _ := ToRenderedSpace(orb.Point{it.X, it.Y}, st.Scale)
		color := it.Color
		if color == "" {
			color = MarkerColor
		}
		m := Marker{ItemID: it.ID, Name: it.Name, At: at, Color: color, Radius: MarkerRadius}
		sc.Markers = append(sc.Markers, m)
		if it.ID == st.HoverID {
			h := m
			h.Color, h.Radius = HighlightColor, HighlightRadius
			sc.Highlight = &h
		}
	}

	if st.Selected != nil {
		sc.Selected = &Marker{At: *st.Selected, Color: SelectedColor, Radius: MarkerRadius}
	}
	return sc
}
