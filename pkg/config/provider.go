package config

import (
	"fmt"
	"time"

	"github.com/chrissnell/mooncalendar/pkg/ephemeris"
)

// Supported values for enumerated settings
const (
	ModelMeeus  = "meeus"
	ModelVSOP87 = "vsop87"

	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Calendar  CalendarData  `json:"calendar"`
	Ephemeris EphemerisData `json:"ephemeris"`
	Output    OutputData    `json:"output"`
	Logging   LoggingData   `json:"logging"`
}

// CalendarData selects which calendar to draw
type CalendarData struct {
	Year      int `json:"year,omitempty"`
	UTCOffset int `json:"utc_offset"`
}

// EphemerisData selects and bounds the position model
type EphemerisData struct {
	Model     string `json:"model,omitempty"`
	VSOP87Dir string `json:"vsop87_dir,omitempty"`
	SpanStart string `json:"span_start,omitempty"` // YYYY-MM-DD
	SpanEnd   string `json:"span_end,omitempty"`   // YYYY-MM-DD
	Cache     bool   `json:"cache,omitempty"`
}

// OutputData holds where results are written
type OutputData struct {
	Path         string `json:"path,omitempty"`
	Export       string `json:"export,omitempty"`
	ExportFormat string `json:"export_format,omitempty"`
	Progress     bool   `json:"progress,omitempty"`
}

// LoggingData configures the logger
type LoggingData struct {
	Debug bool   `json:"debug,omitempty"`
	File  string `json:"file,omitempty"`
	Level string `json:"level,omitempty"`
}

// ApplyDefaults fills unset fields. now supplies the default year.
func (c *ConfigData) ApplyDefaults(now time.Time) {
	if c.Calendar.Year == 0 {
		c.Calendar.Year = now.Year()
	}
	if c.Ephemeris.Model == "" {
		c.Ephemeris.Model = ModelMeeus
	}
	if c.Output.Path == "" {
		c.Output.Path = "calendar.png"
	}
	if c.Output.ExportFormat == "" {
		c.Output.ExportFormat = FormatJSON
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for values the renderer cannot use
func (c *ConfigData) Validate() error {
	if c.Calendar.UTCOffset < ephemeris.MinOffsetHours || c.Calendar.UTCOffset > ephemeris.MaxOffsetHours {
		return fmt.Errorf("utc_offset %d outside %d..%d", c.Calendar.UTCOffset, ephemeris.MinOffsetHours, ephemeris.MaxOffsetHours)
	}
	if c.Calendar.Year < 1 || c.Calendar.Year > 9999 {
		return fmt.Errorf("year %d out of range", c.Calendar.Year)
	}

	switch c.Ephemeris.Model {
	case ModelMeeus:
	case ModelVSOP87:
		if c.Ephemeris.VSOP87Dir == "" {
			return fmt.Errorf("ephemeris model %q requires vsop87_dir", ModelVSOP87)
		}
	default:
		return fmt.Errorf("unsupported ephemeris model: %s. Use '%s' or '%s'", c.Ephemeris.Model, ModelMeeus, ModelVSOP87)
	}

	if _, err := c.Ephemeris.Span(); err != nil {
		return err
	}

	switch c.Output.ExportFormat {
	case FormatJSON, FormatMsgpack:
	default:
		return fmt.Errorf("unsupported export format: %s. Use '%s' or '%s'", c.Output.ExportFormat, FormatJSON, FormatMsgpack)
	}

	return nil
}

// Span returns the configured ephemeris span, falling back to
// ephemeris.DefaultSpan for unset bounds.
func (e EphemerisData) Span() (ephemeris.Span, error) {
	span := ephemeris.DefaultSpan

	if e.SpanStart != "" {
		t, err := time.Parse(time.DateOnly, e.SpanStart)
		if err != nil {
			return span, fmt.Errorf("invalid span_start %q: %w", e.SpanStart, err)
		}
		span.Start = t
	}
	if e.SpanEnd != "" {
		t, err := time.Parse(time.DateOnly, e.SpanEnd)
		if err != nil {
			return span, fmt.Errorf("invalid span_end %q: %w", e.SpanEnd, err)
		}
		span.End = t
	}
	if !span.End.After(span.Start) {
		return span, fmt.Errorf("ephemeris span end %s is not after start %s", span.End.Format(time.DateOnly), span.Start.Format(time.DateOnly))
	}

	return span, nil
}
