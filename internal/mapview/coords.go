package mapview

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Scale converts native image pixels to rendered canvas pixels.
type Scale float64

// NewScale returns renderedWidth / nativeWidth, or 0 when either is unusable.
func NewScale(renderedWidth, nativeWidth float64) Scale {
	if !finitePositive(renderedWidth) || !finitePositive(nativeWidth) {
		return 0
	}
	return Scale(renderedWidth / nativeWidth)
}

// Valid reports whether the scale can be used in either direction.
func (s Scale) Valid() bool {
	return finitePositive(float64(s))
}

// Pointer is a pointer event position in viewport (client) coordinates.
type Pointer struct {
	ClientX float64
	ClientY float64
}

// Canvas describes the drawing surface at the time of an event.
// Rect is the on-screen CSS box; Backing is the drawing buffer size, which
// differs from the CSS size when the surface is stretched by style rules.
type Canvas struct {
	Rect    orb.Bound
	Backing orb.Point
}

// ToImageSpace converts a pointer position to native image coordinates.
// It returns false when the scale or canvas size is not usable yet.
func ToImageSpace(p Pointer, c Canvas, s Scale) (orb.Point, bool) {
	if !s.Valid() {
		return orb.Point{}, false
	}
	cssW, cssH := c.Rect.Max.X()-c.Rect.Min.X(), c.Rect.Max.Y()-c.Rect.Min.Y()
	if !finitePositive(cssW) || !finitePositive(cssH) {
		return orb.Point{}, false
	}
	sx, sy := 1.0, 1.0
	if finitePositive(c.Backing.X()) && finitePositive(c.Backing.Y()) {
		sx, sy = c.Backing.X()/cssW, c.Backing.Y()/cssH
	}
	x := (p.ClientX - c.Rect.Min.X()) * sx
	y := (p.ClientY - c.Rect.Min.Y()) * sy
	return orb.Point{x / float64(s), y / float64(s)}, true
}

// ToRenderedSpace converts native image coordinates to rendered canvas coordinates.
func ToRenderedSpace(p orb.Point, s Scale) (orb.Point, bool) {
	if !s.Valid() {
		return orb.Point{}, false
	}
	return orb.Point{p.X() * float64(s), p.Y() * float64(s)}, true
}

// toNative is the inverse of ToRenderedSpace for points already in canvas space.
func toNative(p orb.Point, s Scale) (orb.Point, bool) {
	if !s.Valid() {
		return orb.Point{}, false
	}
	return orb.Point{p.X() / float64(s), p.Y() / float64(s)}, true
}

// ScreenRect builds a canvas rect from a DOMRect-style left/top/width/height.
// Screen y grows downward, so Min holds left/top and Max right/bottom.
func ScreenRect(left, top, width, height float64) orb.Bound {
	return orb.Bound{Min: orb.Point{left, top}, Max: orb.Point{left + width, top + height}}
}

// HitTest returns the marker closest to p within tolerance rendered pixels.
func HitTest(markers []Marker, p orb.Point, tolerance float64) (Marker, bool) {
	best, bestDist := Marker{}, math.Inf(1)
	for _, m := range markers {
		d := planar.Distance(m.At, p)
		if d <= tolerance+m.Radius && d < bestDist {
			best, bestDist = m, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// clamp positions a box of size at anchor+offset so it stays inside bounds
// with margin on every side.
func clamp(anchor, offset, size orb.Point, bounds orb.Bound, margin float64) orb.Point {
	x := anchor.X() + offset.X()
	y := anchor.Y() + offset.Y()
	maxX := bounds.Max.X() - size.X() - margin
	maxY := bounds.Max.Y() - size.Y() - margin
	x = math.Min(x, maxX)
	y = math.Min(y, maxY)
	x = math.Max(x, bounds.Min.X()+margin)
	y = math.Max(y, bounds.Min.Y()+margin)
	return orb.Point{x, y}
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
