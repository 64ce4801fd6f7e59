package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/mooncalendar/pkg/ephemeris"
)

const sampleYAML = `
calendar:
  year: 2025
  utc-offset: 9
ephemeris:
  model: meeus
  span-start: "1950-01-01"
  cache: true
output:
  path: out/calendar-2025.png
  export: out/phases.msgpack
  export-format: msgpack
logging:
  debug: true
  level: debug
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(writeFile(t, "config.yaml", sampleYAML))
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	require.NoError(t, err)

	want := &ConfigData{
		Calendar:  CalendarData{Year: 2025, UTCOffset: 9},
		Ephemeris: EphemerisData{Model: ModelMeeus, SpanStart: "1950-01-01", Cache: true},
		Output: OutputData{
			Path:         "out/calendar-2025.png",
			Export:       "out/phases.msgpack",
			ExportFormat: FormatMsgpack,
		},
		Logging: LoggingData{Debug: true, Level: "debug"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, provider.IsReadOnly())
	assert.NoError(t, cfg.Validate())
}

func TestYAMLProviderMissingFile(t *testing.T) {
	_, err := NewYAMLProvider(filepath.Join(t.TempDir(), "nope.yaml")).LoadConfig()
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &ConfigData{}
	cfg.ApplyDefaults(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 2026, cfg.Calendar.Year)
	assert.Equal(t, 0, cfg.Calendar.UTCOffset)
	assert.Equal(t, ModelMeeus, cfg.Ephemeris.Model)
	assert.Equal(t, "calendar.png", cfg.Output.Path)
	assert.Equal(t, FormatJSON, cfg.Output.ExportFormat)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigData)
	}{
		{"offset too far east", func(c *ConfigData) { c.Calendar.UTCOffset = 15 }},
		{"offset too far west", func(c *ConfigData) { c.Calendar.UTCOffset = -13 }},
		{"unknown model", func(c *ConfigData) { c.Ephemeris.Model = "de421" }},
		{"vsop87 without dir", func(c *ConfigData) { c.Ephemeris.Model = ModelVSOP87 }},
		{"bad span date", func(c *ConfigData) { c.Ephemeris.SpanStart = "1900/01/01" }},
		{"inverted span", func(c *ConfigData) { c.Ephemeris.SpanStart = "2100-01-01" }},
		{"unknown export format", func(c *ConfigData) { c.Output.ExportFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ConfigData{}
			cfg.ApplyDefaults(time.Now())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEphemerisSpan(t *testing.T) {
	span, err := EphemerisData{}.Span()
	require.NoError(t, err)
	assert.Equal(t, ephemeris.DefaultSpan, span)

	span, err = EphemerisData{SpanStart: "1950-01-01", SpanEnd: "2000-12-31"}.Span()
	require.NoError(t, err)
	assert.Equal(t, time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), span.Start)
	assert.Equal(t, time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC), span.End)
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "config.db")

	provider, err := NewSQLiteProvider(dbPath)
	require.NoError(t, err)
	defer provider.Close()

	// An empty database yields an empty configuration.
	empty, err := provider.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, &ConfigData{}, empty)

	yamlCfg, err := NewYAMLProvider(writeFile(t, "config.yaml", sampleYAML)).LoadConfig()
	require.NoError(t, err)

	require.NoError(t, provider.SaveConfig(yamlCfg))
	// Saving twice replaces rather than duplicates.
	require.NoError(t, provider.SaveConfig(yamlCfg))

	loaded, err := provider.LoadConfig()
	require.NoError(t, err)
	if diff := cmp.Diff(yamlCfg, loaded); diff != "" {
		t.Errorf("SQLite round trip mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, provider.IsReadOnly())
}

func TestSQLiteProviderReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "config.db")

	provider, err := NewSQLiteProvider(dbPath)
	require.NoError(t, err)
	cfg := &ConfigData{Calendar: CalendarData{Year: 2030, UTCOffset: -5}}
	require.NoError(t, provider.SaveConfig(cfg))
	require.NoError(t, provider.Close())

	reopened, err := NewSQLiteProvider(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2030, loaded.Calendar.Year)
	assert.Equal(t, -5, loaded.Calendar.UTCOffset)
}
