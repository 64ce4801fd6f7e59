// Package ephemeris computes the illuminated fraction of the Moon's disk as
// seen from Earth and whether it is waxing, for civil dates observed at a
// fixed UTC offset. Positions come from a PositionModel handle built once at
// startup and shared read-only by every query.
package ephemeris

import (
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/civil"
	"gonum.org/v1/gonum/spatial/r3"
)

// Supported range of fixed UTC offsets, in hours.
const (
	MinOffsetHours = -12
	MaxOffsetHours = 14
)

// Sample holds the illumination of one civil day.
type Sample struct {
	Date         civil.Date
	OffsetHours  int
	Instant      time.Time // local midnight of Date
	Next         time.Time // local midnight of the following day
	Fraction     float64   // illuminated fraction at Instant, [0,1]
	NextFraction float64   // illuminated fraction at Next, [0,1]
	Waxing       bool      // NextFraction > Fraction
}

// Engine answers illumination queries against a PositionModel.
type Engine struct {
	model PositionModel
	cache *sampleCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache memoizes per-instant illumination. Consecutive days share an
// instant (day N's Next is day N+1's Instant), so a year's worth of samples
// needs roughly half the position queries.
func WithCache() Option {
	return func(e *Engine) {
		e.cache = newSampleCache()
	}
}

// NewEngine creates an engine over model.
func NewEngine(model PositionModel, opts ...Option) *Engine {
	e := &Engine{model: model}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Model returns the position model the engine queries.
func (e *Engine) Model() PositionModel {
	return e.model
}

// Sample computes the illuminated fraction at local midnight of date and
// the waxing flag. Waxing is a one-day forward difference: it compares the
// fraction at this midnight with the fraction at the next one, so it may
// be wrong on the day an extremum (new or full moon) falls in the window.
func (e *Engine) Sample(date civil.Date, offsetHours int) (Sample, error) {
	if !date.IsValid() {
		return Sample{}, &InputError{Date: date, OffsetHours: offsetHours, Reason: "not a valid calendar date"}
	}
	if offsetHours < MinOffsetHours || offsetHours > MaxOffsetHours {
		return Sample{}, &InputError{
			Date:        date,
			OffsetHours: offsetHours,
			Reason:      fmt.Sprintf("UTC offset must be within %+d..%+d hours", MinOffsetHours, MaxOffsetHours),
		}
	}

	zone := FixedZone(offsetHours)
	t0 := date.In(zone)
	t1 := date.AddDays(1).In(zone)

	f0, err := e.illumination(date, t0)
	if err != nil {
		return Sample{}, err
	}
	f1, err := e.illumination(date, t1)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		Date:         date,
		OffsetHours:  offsetHours,
		Instant:      t0,
		Next:         t1,
		Fraction:     f0,
		NextFraction: f1,
		Waxing:       f1 > f0,
	}, nil
}

// Illumination returns the illuminated fraction at an arbitrary instant.
func (e *Engine) Illumination(t time.Time) (float64, error) {
	return e.illumination(civil.DateOf(t), t)
}

func (e *Engine) illumination(date civil.Date, t time.Time) (float64, error) {
	span := e.model.Span()
	if !span.Contains(t) {
		return 0, &RangeError{Date: date, Instant: t, Span: span}
	}

	if e.cache != nil {
		if f, ok := e.cache.get(t); ok {
			return f, nil
		}
	}

	moon, sun := e.model.Positions(TimeToJDE(t))
	f := IlluminatedFraction(moon, sun)

	if e.cache != nil {
		e.cache.put(t, f)
	}
	return f, nil
}

// IlluminatedFraction computes (1 + cos i) / 2 where i is the phase angle
// Sun–Moon–Earth, from geocentric Moon and Sun vectors.
func IlluminatedFraction(moon, sun r3.Vec) float64 {
	toSun := r3.Sub(sun, moon)
	toEarth := r3.Scale(-1, moon)

	n := r3.Norm(toSun) * r3.Norm(toEarth)
	if n == 0 {
		return 0
	}
	cosI := r3.Dot(toSun, toEarth) / n
	cosI = math.Max(-1, math.Min(1, cosI))

	return math.Max(0, math.Min(1, (1+cosI)/2))
}

var zones = func() map[int]*time.Location {
	m := make(map[int]*time.Location, MaxOffsetHours-MinOffsetHours+1)
	for h := MinOffsetHours; h <= MaxOffsetHours; h++ {
		m[h] = time.FixedZone(fmt.Sprintf("UTC%+d", h), h*3600)
	}
	m[0] = time.UTC
	return m
}()

// FixedZone returns the location for a whole-hour UTC offset.
func FixedZone(offsetHours int) *time.Location {
	if loc, ok := zones[offsetHours]; ok {
		return loc
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}
