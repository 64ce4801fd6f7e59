package ephemeris

import (
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(opts ...Option) *Engine {
	return NewEngine(NewAnalytic(DefaultSpan), opts...)
}

func TestIlluminationAtKnownPhases(t *testing.T) {
	engine := testEngine()

	tests := []struct {
		name     string
		time     time.Time
		min, max float64
	}{
		{
			// Known new moon: Jan 21, 2023 20:53 UTC
			name: "New Moon Jan 2023",
			time: time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC),
			min:  0.0, max: 0.01,
		},
		{
			// Known first quarter: Jan 28, 2023 15:19 UTC
			name: "First Quarter Jan 2023",
			time: time.Date(2023, 1, 28, 15, 19, 0, 0, time.UTC),
			min:  0.49, max: 0.51,
		},
		{
			// Known full moon: Feb 5, 2023 18:29 UTC
			name: "Full Moon Feb 2023",
			time: time.Date(2023, 2, 5, 18, 29, 0, 0, time.UTC),
			min:  0.99, max: 1.0,
		},
		{
			// Known third quarter: Feb 13, 2023 16:01 UTC
			name: "Third Quarter Feb 2023",
			time: time.Date(2023, 2, 13, 16, 1, 0, 0, time.UTC),
			min:  0.49, max: 0.51,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := engine.Illumination(tt.time)
			require.NoError(t, err)
			if f < tt.min || f > tt.max {
				t.Errorf("Illumination = %.4f, expected in range [%.2f, %.2f]", f, tt.min, tt.max)
			}
		})
	}
}

func TestIlluminationAtQuarters(t *testing.T) {
	// At quadrature the Moon's phase angle is about 89.85°, not 90°, because
	// the Sun is at a finite distance: k = (1 + cos i) / 2 ≈ 0.5013.
	engine := testEngine()

	for _, ts := range []time.Time{
		time.Date(2023, 1, 28, 15, 19, 0, 0, time.UTC), // first quarter
		time.Date(2023, 2, 13, 16, 1, 0, 0, time.UTC),  // last quarter
		time.Date(2024, 1, 18, 3, 52, 0, 0, time.UTC),  // first quarter
	} {
		f, err := engine.Illumination(ts)
		require.NoError(t, err)
		assert.InDelta(t, 0.5013, f, 1e-3, "illumination at %v", ts)
	}
}

func TestSampleNewMoonDay(t *testing.T) {
	// Midnight UTC on Jan 22, 2023 is about three hours after conjunction.
	s, err := testEngine().Sample(civil.Date{Year: 2023, Month: time.January, Day: 22}, 0)
	require.NoError(t, err)

	assert.Less(t, s.Fraction, 0.02)
	assert.True(t, s.Waxing)
	assert.Greater(t, s.NextFraction, s.Fraction)
}

func TestSampleAroundFullMoon(t *testing.T) {
	engine := testEngine()

	before, err := engine.Sample(civil.Date{Year: 2023, Month: time.February, Day: 5}, 0)
	require.NoError(t, err)
	assert.Greater(t, before.Fraction, 0.98)
	assert.True(t, before.Waxing, "Feb 5 midnight to Feb 6 midnight spans the full moon at 18:29 UTC")

	after, err := engine.Sample(civil.Date{Year: 2023, Month: time.February, Day: 6}, 0)
	require.NoError(t, err)
	assert.Greater(t, after.Fraction, 0.98)
	assert.False(t, after.Waxing)
}

func TestSampleInstants(t *testing.T) {
	engine := testEngine()
	date := civil.Date{Year: 2024, Month: time.March, Day: 30}

	for offset := MinOffsetHours; offset <= MaxOffsetHours; offset++ {
		s, err := engine.Sample(date, offset)
		require.NoError(t, err)

		if got := s.Next.Sub(s.Instant); got != 24*time.Hour {
			t.Errorf("offset %+d: Next - Instant = %v, expected 24h", offset, got)
		}
		want := time.Date(2024, time.March, 30, 0, 0, 0, 0, time.UTC).Add(-time.Duration(offset) * time.Hour)
		if !s.Instant.Equal(want) {
			t.Errorf("offset %+d: Instant = %v, expected %v", offset, s.Instant.UTC(), want)
		}
	}
}

func TestFractionRange(t *testing.T) {
	engine := testEngine()

	for year := 1900; year <= 2050; year++ {
		for month := time.January; month <= time.December; month++ {
			for _, day := range []int{1, 8, 15, 22} {
				s, err := engine.Sample(civil.Date{Year: year, Month: month, Day: day}, 0)
				require.NoError(t, err)
				if s.Fraction < 0 || s.Fraction > 1 || math.IsNaN(s.Fraction) {
					t.Fatalf("Fraction %.4f out of range [0, 1] for %s", s.Fraction, s.Date)
				}
			}
		}
	}
}

func TestWaxingSwitchesOncePerLunation(t *testing.T) {
	engine := testEngine()
	start := civil.Date{Year: 2023, Month: time.January, Day: 22} // new moon day

	var toWaning, toWaxing int
	prev, err := engine.Sample(start, 0)
	require.NoError(t, err)

	for d := 1; d < 30; d++ {
		s, err := engine.Sample(start.AddDays(d), 0)
		require.NoError(t, err)

		switch {
		case prev.Waxing && !s.Waxing:
			toWaning++
		case !prev.Waxing && s.Waxing:
			toWaxing++
		}
		prev = s
	}

	assert.Equal(t, 1, toWaning, "waxing -> waning switches")
	assert.Equal(t, 1, toWaxing, "waning -> waxing switches")
}

func TestSampleErrors(t *testing.T) {
	engine := testEngine()

	t.Run("before span", func(t *testing.T) {
		_, err := engine.Sample(civil.Date{Year: 1850, Month: time.June, Day: 1}, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEphemerisRange))

		var rerr *RangeError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, civil.Date{Year: 1850, Month: time.June, Day: 1}, rerr.Date)
		assert.Contains(t, err.Error(), "1850-06-01")
	})

	t.Run("next instant past span end", func(t *testing.T) {
		// Midnight of the last covered day is in span; the following midnight is not.
		_, err := engine.Sample(civil.Date{Year: 2053, Month: time.October, Day: 9}, 0)
		assert.ErrorIs(t, err, ErrEphemerisRange)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := engine.Sample(civil.Date{Year: 2023, Month: time.February, Day: 30}, 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.False(t, errors.Is(err, ErrEphemerisRange))
	})

	t.Run("offset out of range", func(t *testing.T) {
		for _, offset := range []int{-13, 15} {
			_, err := engine.Sample(civil.Date{Year: 2023, Month: time.May, Day: 1}, offset)
			assert.ErrorIs(t, err, ErrInvalidInput, "offset %d", offset)
		}
	})
}

func TestCachedEngineMatchesUncached(t *testing.T) {
	plain := testEngine()
	cached := testEngine(WithCache())
	start := civil.Date{Year: 2025, Month: time.July, Day: 1}

	for d := 0; d < 10; d++ {
		want, err := plain.Sample(start.AddDays(d), 3)
		require.NoError(t, err)
		got, err := cached.Sample(start.AddDays(d), 3)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Ten consecutive days share nine midnights.
	assert.Equal(t, 11, cached.cache.Len())
}

func TestCacheKeepsSubSecondInstantsApart(t *testing.T) {
	plain := testEngine()
	cached := testEngine(WithCache())
	t0 := time.Date(2023, 1, 28, 15, 19, 0, 0, time.UTC)
	t1 := t0.Add(500 * time.Millisecond)

	_, err := cached.Illumination(t0)
	require.NoError(t, err)
	got, err := cached.Illumination(t1)
	require.NoError(t, err)

	want, err := plain.Illumination(t1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 2, cached.cache.Len())
}

func TestIlluminatedFractionGeometry(t *testing.T) {
	moon := eclipticVec(0, 0, 384400)

	// Sun behind the Earth as seen from the Moon: fully lit.
	full := IlluminatedFraction(moon, eclipticVec(math.Pi, 0, kmPerAU))
	assert.InDelta(t, 1.0, full, 1e-6)

	// Sun behind the Moon: dark.
	dark := IlluminatedFraction(moon, eclipticVec(0, 0, kmPerAU))
	assert.InDelta(t, 0.0, dark, 1e-6)

	// Quadrature from Earth leaves the phase angle just under 90°.
	quarter := IlluminatedFraction(moon, eclipticVec(math.Pi/2, 0, kmPerAU))
	assert.InDelta(t, 0.5, quarter, 0.002)
}

func TestVSOP87AgreesWithAnalytic(t *testing.T) {
	dir := os.Getenv("VSOP87")
	if dir == "" {
		t.Skip("VSOP87 not set; skipping dataset-backed model")
	}

	model, err := LoadVSOP87(dir, DefaultSpan)
	require.NoError(t, err)

	vsop := NewEngine(model)
	analytic := testEngine()

	for _, ts := range []time.Time{
		time.Date(1910, 5, 18, 0, 0, 0, 0, time.UTC),
		time.Date(1969, 7, 20, 20, 17, 0, 0, time.UTC),
		time.Date(2023, 1, 28, 15, 19, 0, 0, time.UTC),
		time.Date(2045, 8, 12, 0, 0, 0, 0, time.UTC),
	} {
		want, err := analytic.Illumination(ts)
		require.NoError(t, err)
		got, err := vsop.Illumination(ts)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-3, "at %v", ts)
	}
}

func BenchmarkSample(b *testing.B) {
	engine := testEngine()
	date := civil.Date{Year: 2023, Month: time.January, Day: 28}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Sample(date, 0)
	}
}
