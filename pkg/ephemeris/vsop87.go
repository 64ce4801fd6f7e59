package ephemeris

import (
	"fmt"

	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/solar"
	"gonum.org/v1/gonum/spatial/r3"
)

// VSOP87 takes the Sun's position from the full VSOP87B series for the
// Earth, read once from a dataset directory. The Moon still comes from the
// analytic lunar theory.
type VSOP87 struct {
	earth *pp.V87Planet
	dir   string
	span  Span
}

// LoadVSOP87 reads VSOP87B.ear from dir. The returned model is read-only.
func LoadVSOP87(dir string, span Span) (*VSOP87, error) {
	earth, err := pp.LoadPlanetPath(pp.Earth, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load VSOP87 earth series from %s: %w", dir, err)
	}
	return &VSOP87{earth: earth, dir: dir, span: span}, nil
}

func (v *VSOP87) Name() string { return "vsop87" }

func (v *VSOP87) Span() Span { return v.span }

func (v *VSOP87) Positions(jde float64) (moon, sun r3.Vec) {
	λ0, β0, R := solar.ApparentVSOP87(v.earth, jde)
	return apparentMoon(jde), eclipticVec(λ0, β0, R*kmPerAU)
}
