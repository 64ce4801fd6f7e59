package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrissnell/mooncalendar/pkg/config"
)

func newConvertCmd() *cobra.Command {
	var yamlFile, sqliteFile string
	var force bool

	cmd := &cobra.Command{
		Use:   "config-convert",
		Short: "Convert a YAML configuration into a SQLite configuration database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertConfig(cmd.OutOrStdout(), yamlFile, sqliteFile, force)
		},
	}

	cmd.Flags().StringVar(&yamlFile, "yaml", "", "Path to YAML configuration file (required)")
	cmd.Flags().StringVar(&sqliteFile, "sqlite", "", "Path to SQLite database file (required)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing SQLite database")
	cmd.MarkFlagRequired("yaml")
	cmd.MarkFlagRequired("sqlite")
	return cmd
}

func convertConfig(w io.Writer, yamlFile, sqliteFile string, force bool) error {
	if _, err := os.Stat(yamlFile); os.IsNotExist(err) {
		return fmt.Errorf("YAML file does not exist: %s", yamlFile)
	}

	if _, err := os.Stat(sqliteFile); err == nil {
		if !force {
			return fmt.Errorf("SQLite file already exists: %s. Use --force to overwrite or choose a different filename", sqliteFile)
		}
		if err := os.Remove(sqliteFile); err != nil {
			return fmt.Errorf("failed to remove existing SQLite file: %w", err)
		}
	}

	fmt.Fprintf(w, "Converting YAML configuration to SQLite...\n")
	fmt.Fprintf(w, "  Source: %s\n", yamlFile)
	fmt.Fprintf(w, "  Target: %s\n", sqliteFile)

	configData, err := config.NewYAMLProvider(yamlFile).LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading YAML configuration: %w", err)
	}
	// Defaults are applied at load time, so unset fields are stored unset.
	probe := *configData
	probe.ApplyDefaults(time.Now())
	if err := probe.Validate(); err != nil {
		return fmt.Errorf("invalid YAML configuration: %w", err)
	}

	provider, err := config.NewSQLiteProvider(sqliteFile)
	if err != nil {
		return fmt.Errorf("error creating SQLite database: %w", err)
	}
	defer provider.Close()

	if err := provider.SaveConfig(configData); err != nil {
		return fmt.Errorf("error saving configuration: %w", err)
	}

	fmt.Fprintf(w, "Conversion complete.\n")
	return nil
}
