package ephemeris

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

var (
	// ErrInvalidInput is returned for malformed dates or UTC offsets.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEphemerisRange is returned when an instant falls outside the span
	// covered by the loaded position model.
	ErrEphemerisRange = errors.New("instant outside ephemeris span")
)

// InputError describes a rejected (date, offset) pair.
type InputError struct {
	Date        civil.Date
	OffsetHours int
	Reason      string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input for %s (UTC%+d): %s", e.Date, e.OffsetHours, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// RangeError reports an instant the position model cannot serve.
type RangeError struct {
	Date    civil.Date
	Instant time.Time
	Span    Span
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("ephemeris query for %s (%s) outside %s",
		e.Date, e.Instant.UTC().Format(time.RFC3339), e.Span)
}

func (e *RangeError) Unwrap() error { return ErrEphemerisRange }
