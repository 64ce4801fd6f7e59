// Package lunar answers lunar-calendar questions about Gregorian dates: the
// day of the Chinese lunisolar month, the new-moon/full-moon markers derived
// from it, and human-readable phase names.
package lunar

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/soniakeys/meeus/v3/moonphase"

	"github.com/chrissnell/mooncalendar/pkg/ephemeris"
)

// SynodicMonth is the average length of the lunar cycle in days
const SynodicMonth = 29.530588853

// lunationsPerYear is the number of mean synodic months in a Julian year
const lunationsPerYear = 12.3685

// chinaStandardTime is the meridian the Chinese calendar reckons days on
var chinaStandardTime = time.FixedZone("CST", 8*3600)

// Marker flags the two lunar days that get a coloured disk.
type Marker int

const (
	None Marker = iota
	NewMoon
	FullMoon
)

func (m Marker) String() string {
	switch m {
	case NewMoon:
		return "new_moon"
	case FullMoon:
		return "full_moon"
	default:
		return "none"
	}
}

// MarkerForDay maps a lunar day of month to its marker
func MarkerForDay(day int) Marker {
	switch day {
	case 1:
		return NewMoon
	case 15:
		return FullMoon
	default:
		return None
	}
}

// MarkerFor returns the marker of a Gregorian date
func MarkerFor(d civil.Date) Marker {
	return MarkerForDay(DayOfMonth(d))
}

// DayOfMonth returns the day (1..30) of the Chinese lunar month containing d.
// A lunar month begins on the China Standard Time date of the new moon.
func DayOfMonth(d civil.Date) int {
	y := ephemeris.DecimalYear(d.In(time.UTC))
	step := 1 / lunationsPerYear

	start := newMoonDate(y)
	for start.After(d) {
		y -= step
		start = newMoonDate(y)
	}
	for {
		next := newMoonDate(y + step)
		if next.After(d) {
			break
		}
		y += step
		start = next
	}

	return d.DaysSince(start) + 1
}

// newMoonDate returns the CST date of the new moon nearest decimal year y
func newMoonDate(y float64) civil.Date {
	t := ephemeris.JDEToTime(moonphase.New(y))
	return civil.DateOf(t.In(chinaStandardTime))
}

// PhaseName returns the 8-phase name based on illumination and direction
func PhaseName(illumination float64, isWaxing bool) string {
	switch {
	case illumination < 0.01:
		return "New Moon"
	case illumination > 0.99:
		return "Full Moon"
	case illumination >= 0.49 && illumination <= 0.51:
		if isWaxing {
			return "First Quarter"
		}
		return "Third Quarter"
	case illumination < 0.50:
		if isWaxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if isWaxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}
