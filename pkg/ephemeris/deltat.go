package ephemeris

import (
	"time"

	"github.com/soniakeys/meeus/v3/deltat"
	"github.com/soniakeys/meeus/v3/julian"
)

const secondsPerDay = 86400.0

// poly1800Offset tilts the 1800–1899 polynomial so it meets the 1900
// segment exactly; it vanishes at 1800.
var poly1800Offset = deltaT1900 - float64(deltat.Poly1800to1899(1900))

const deltaT1900 = -2.79

// DeltaT returns TT − UT in seconds for a decimal year. Years 1800–1899
// use the Meeus polynomial from the deltat package, 1900–2150 the
// Espenak–Meeus fits, and anything else the long-term parabola. The
// 1900 seam is continuous; later seams meet within half a second.
func DeltaT(y float64) float64 {
	switch {
	case y >= 1800 && y < 1900:
		return float64(deltat.Poly1800to1899(y)) + poly1800Offset*(y-1800)/100
	case y >= 1900 && y < 1920:
		t := y - 1900
		return deltaT1900 + 1.494119*t - 0.0598939*t*t + 0.0061966*t*t*t - 0.000197*t*t*t*t
	case y >= 1920 && y < 1941:
		t := y - 1920
		return 21.20 + 0.84493*t - 0.076100*t*t + 0.0020936*t*t*t
	case y >= 1941 && y < 1961:
		t := y - 1950
		return 29.07 + 0.407*t - t*t/233 + t*t*t/2547
	case y >= 1961 && y < 1986:
		t := y - 1975
		return 45.45 + 1.067*t - t*t/260 - t*t*t/718
	case y >= 1986 && y < 2005:
		t := y - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t +
			0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	case y >= 2005 && y < 2050:
		t := y - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	case y >= 2050 && y < 2150:
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-y)
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u
	}
}

// DecimalYear returns t as a fractional Gregorian year.
func DecimalYear(t time.Time) float64 {
	t = t.UTC()
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return float64(t.Year()) + t.Sub(start).Seconds()/end.Sub(start).Seconds()
}

// TimeToJDE converts a UTC instant to a Julian Ephemeris Day (TT).
func TimeToJDE(t time.Time) float64 {
	return julian.TimeToJD(t.UTC()) + DeltaT(DecimalYear(t))/secondsPerDay
}

// JDEToTime converts a Julian Ephemeris Day back to a UTC instant. ΔT is
// re-evaluated at the UT estimate so instants next to a segment boundary
// land on the same side TimeToJDE used.
func JDEToTime(jde float64) time.Time {
	t := julian.JDToTime(jde)
	for i := 0; i < 2; i++ {
		t = julian.JDToTime(jde - DeltaT(DecimalYear(t))/secondsPerDay)
	}
	return t.UTC()
}
