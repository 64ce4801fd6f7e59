package ephemeris

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// kmPerAU is one astronomical unit in kilometers
const kmPerAU = 149597870.7

// Span is the closed time interval a position model can serve.
type Span struct {
	Start time.Time
	End   time.Time
}

// DefaultSpan matches the coverage of the JPL DE421 kernel,
// 1899-07-29 through 2053-10-09.
var DefaultSpan = Span{
	Start: time.Date(1899, time.July, 29, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2053, time.October, 9, 0, 0, 0, 0, time.UTC),
}

// Contains reports whether t lies inside the span.
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}

func (s Span) String() string {
	return fmt.Sprintf("[%s, %s]", s.Start.UTC().Format(time.DateOnly), s.End.UTC().Format(time.DateOnly))
}

// PositionModel supplies geocentric ecliptic positions of the Moon and the
// Sun, in kilometers, at a Julian Ephemeris Day. Implementations must be
// safe for concurrent use once constructed.
type PositionModel interface {
	Name() string
	Span() Span
	Positions(jde float64) (moon, sun r3.Vec)
}

// Analytic evaluates the truncated ELP-2000/82 lunar theory and the
// low-precision solar theory from Meeus' Astronomical Algorithms. It needs
// no dataset on disk.
type Analytic struct {
	span Span
}

// NewAnalytic creates an analytic position model restricted to span.
func NewAnalytic(span Span) *Analytic {
	return &Analytic{span: span}
}

func (a *Analytic) Name() string { return "meeus" }

func (a *Analytic) Span() Span { return a.span }

func (a *Analytic) Positions(jde float64) (moon, sun r3.Vec) {
	T := base.J2000Century(jde)
	λ0 := solar.ApparentLongitude(T)
	R := solar.Radius(T) * kmPerAU
	return apparentMoon(jde), eclipticVec(λ0, 0, R)
}

// apparentMoon returns the Moon's geocentric position with nutation in
// longitude applied, so that it shares the Sun's apparent frame.
func apparentMoon(jde float64) r3.Vec {
	λ, β, Δ := moonposition.Position(jde)
	Δψ, _ := nutation.Nutation(jde)
	return eclipticVec(λ+Δψ, β, Δ)
}

// eclipticVec converts spherical ecliptic coordinates to a rectangular vector.
func eclipticVec(λ, β unit.Angle, r float64) r3.Vec {
	sλ, cλ := λ.Sincos()
	sβ, cβ := β.Sincos()
	return r3.Vec{
		X: r * cβ * cλ,
		Y: r * cβ * sλ,
		Z: r * sβ,
	}
}
