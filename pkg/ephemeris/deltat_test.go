package ephemeris

import (
	"math"
	"testing"
	"time"
)

func TestDeltaT(t *testing.T) {
	tests := []struct {
		year     float64
		min, max float64
	}{
		{1850, 6, 8},
		{1880, -6, -4.5},
		{1899.9, -3.5, -2},
		{1900, -3.5, -2},
		{1950, 28.5, 29.5},
		{2000, 63.5, 64.2},
		{2020, 65, 75},
		{2100, 100, 220},
	}

	for _, tt := range tests {
		got := DeltaT(tt.year)
		if got < tt.min || got > tt.max {
			t.Errorf("DeltaT(%.0f) = %.2f s, expected in [%.1f, %.1f]", tt.year, got, tt.min, tt.max)
		}
	}
}

func TestDeltaTContinuity(t *testing.T) {
	// Adjacent polynomial segments should meet within half a second.
	for _, boundary := range []float64{1900, 1920, 1941, 1961, 1986, 2005, 2050} {
		before := DeltaT(boundary - 1e-6)
		after := DeltaT(boundary)
		if math.Abs(before-after) > 0.5 {
			t.Errorf("DeltaT jumps %.2f s at %.0f", after-before, boundary)
		}
	}
}

func TestJDERoundTrip(t *testing.T) {
	for _, ts := range []time.Time{
		time.Date(1899, 7, 29, 0, 0, 0, 0, time.UTC),
		time.Date(1899, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1900, 1, 1, 0, 0, 2, 0, time.UTC),
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 18, 30, 0, 0, time.UTC),
	} {
		back := JDEToTime(TimeToJDE(ts))
		if d := back.Sub(ts); d > time.Millisecond || d < -time.Millisecond {
			t.Errorf("round trip of %v drifted by %v", ts, d)
		}
	}
}

func TestDecimalYear(t *testing.T) {
	got := DecimalYear(time.Date(2023, 7, 2, 12, 0, 0, 0, time.UTC))
	if math.Abs(got-2023.5) > 0.001 {
		t.Errorf("DecimalYear = %.4f, expected ~2023.5", got)
	}
}
