package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	return parseYAML(cfgFile)
}

func parseYAML(b []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Calendar  CalendarYAML  `yaml:"calendar"`
		Ephemeris EphemerisYAML `yaml:"ephemeris,omitempty"`
		Output    OutputYAML    `yaml:"output,omitempty"`
		Logging   LoggingYAML   `yaml:"logging,omitempty"`
	}

	if err := yaml.Unmarshal(b, &yamlConfig); err != nil {
		return nil, err
	}

	return &ConfigData{
		Calendar: CalendarData{
			Year:      yamlConfig.Calendar.Year,
			UTCOffset: yamlConfig.Calendar.UTCOffset,
		},
		Ephemeris: EphemerisData{
			Model:     yamlConfig.Ephemeris.Model,
			VSOP87Dir: yamlConfig.Ephemeris.VSOP87Dir,
			SpanStart: yamlConfig.Ephemeris.SpanStart,
			SpanEnd:   yamlConfig.Ephemeris.SpanEnd,
			Cache:     yamlConfig.Ephemeris.Cache,
		},
		Output: OutputData{
			Path:         yamlConfig.Output.Path,
			Export:       yamlConfig.Output.Export,
			ExportFormat: yamlConfig.Output.ExportFormat,
			Progress:     yamlConfig.Output.Progress,
		},
		Logging: LoggingData{
			Debug: yamlConfig.Logging.Debug,
			File:  yamlConfig.Logging.File,
			Level: yamlConfig.Logging.Level,
		},
	}, nil
}

// IsReadOnly returns true since YAML files are treated as read-only
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with YAML tags

type CalendarYAML struct {
	Year      int `yaml:"year,omitempty"`
	UTCOffset int `yaml:"utc-offset,omitempty"`
}

type EphemerisYAML struct {
	Model     string `yaml:"model,omitempty"`
	VSOP87Dir string `yaml:"vsop87-dir,omitempty"`
	SpanStart string `yaml:"span-start,omitempty"`
	SpanEnd   string `yaml:"span-end,omitempty"`
	Cache     bool   `yaml:"cache,omitempty"`
}

type OutputYAML struct {
	Path         string `yaml:"path,omitempty"`
	Export       string `yaml:"export,omitempty"`
	ExportFormat string `yaml:"export-format,omitempty"`
	Progress     bool   `yaml:"progress,omitempty"`
}

type LoggingYAML struct {
	Debug bool   `yaml:"debug,omitempty"`
	File  string `yaml:"file,omitempty"`
	Level string `yaml:"level,omitempty"`
}
