// Package ring turns a day's lunar illumination into a ring glyph: an
// optional tinted disk, a full yellow outline and a black arc whose sweep
// encodes the illuminated fraction. The arc starts at the top of the ring
// and runs clockwise while the Moon is waxing, counter-clockwise while it
// is waning.
package ring

import (
	"image/color"
	"math"

	"github.com/chrissnell/mooncalendar/pkg/lunar"
)

// StartAngle is where every sweep begins: the top of the ring. Angles are
// in degrees, 0° pointing east and increasing clockwise on screen.
const StartAngle = -90.0

// Stroke widths in pixels
const (
	BorderWidth  = 2.0
	OutlineWidth = 4.0
	SweepWidth   = 4.0
)

var (
	NewMoonFill  = color.RGBA{R: 255, G: 205, B: 210, A: 255}
	FullMoonFill = color.RGBA{R: 187, G: 222, B: 251, A: 255}
	BorderColor  = color.RGBA{R: 180, G: 180, B: 180, A: 255}
	OutlineColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	SweepColor   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// Point is a pixel coordinate
type Point struct {
	X, Y float64
}

// Arc is a stroked circular arc from Start to End degrees. End < Start
// means the arc runs counter-clockwise.
type Arc struct {
	Start float64
	End   float64
	Color color.RGBA
	Width float64
}

// Sweep returns the signed angular extent of the arc in degrees.
func (a Arc) Sweep() float64 {
	return a.End - a.Start
}

// Glyph is everything needed to draw one day's ring.
type Glyph struct {
	Center  Point
	Radius  float64
	Fill    color.Color // nil for no fill
	Border  Arc
	Outline Arc
	Sweep   Arc
}

// Bounds returns the glyph's bounding box corners.
func (g Glyph) Bounds() (min, max Point) {
	return Point{g.Center.X - g.Radius, g.Center.Y - g.Radius},
		Point{g.Center.X + g.Radius, g.Center.Y + g.Radius}
}

// FillFor returns the disk colour for a lunar marker, or nil.
func FillFor(m lunar.Marker) color.Color {
	switch m {
	case lunar.NewMoon:
		return NewMoonFill
	case lunar.FullMoon:
		return FullMoonFill
	default:
		return nil
	}
}

// SweepDegrees rounds 360 × fraction to whole degrees. Out-of-range
// fractions are clamped.
func SweepDegrees(fraction float64) float64 {
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return math.Round(360 * fraction)
}

// Render builds the glyph for one day. It has no side effects.
func Render(center Point, radius, fraction float64, waxing bool, marker lunar.Marker) Glyph {
	sweep := SweepDegrees(fraction)

	end := StartAngle - sweep
	if waxing {
		end = StartAngle + sweep
	}

	return Glyph{
		Center:  center,
		Radius:  radius,
		Fill:    FillFor(marker),
		Border:  Arc{Start: 0, End: 360, Color: BorderColor, Width: BorderWidth},
		Outline: Arc{Start: 0, End: 360, Color: OutlineColor, Width: OutlineWidth},
		Sweep:   Arc{Start: StartAngle, End: end, Color: SweepColor, Width: SweepWidth},
	}
}
