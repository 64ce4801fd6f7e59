package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrissnell/mooncalendar/internal/app"
	"github.com/chrissnell/mooncalendar/internal/constants"
	"github.com/chrissnell/mooncalendar/internal/log"
	"github.com/chrissnell/mooncalendar/pkg/config"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	cfgFile    string
	cfgBackend string
	debug      bool
}

// renderFlags override the loaded configuration when set
type renderFlags struct {
	tz           int
	year         int
	output       string
	export       string
	exportFormat string
	progress     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code. Any
// error from a subcommand is printed to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	r := &renderFlags{}

	rootCmd := &cobra.Command{
		Use:   "mooncalendar",
		Short: "Render a one-page lunar phase wall calendar",
		Long: `mooncalendar draws every day of a year on one A4 landscape page.
Each day carries a ring whose black arc shows how much of the Moon is lit
at local midnight, running clockwise while waxing and counter-clockwise
while waning. Lunar new and full moon days are tinted.`,
		Version:       constants.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, g, r)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.cfgFile, "config", constants.DefaultConfigFile, "Path to configuration source (YAML file or SQLite database)")
	pf.StringVar(&g.cfgBackend, "config-backend", "yaml", "Configuration backend type: 'yaml' or 'sqlite'")
	pf.BoolVar(&g.debug, "debug", false, "Turn on debugging output")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the calendar PNG (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, g, r)
		},
	}
	for _, c := range []*cobra.Command{rootCmd, renderCmd} {
		addRenderFlags(c, r)
	}

	rootCmd.AddCommand(renderCmd, newPhaseCmd(g), newConvertCmd())
	return rootCmd
}

func addRenderFlags(cmd *cobra.Command, r *renderFlags) {
	f := cmd.Flags()
	f.IntVar(&r.tz, "tz", 0, "Fixed UTC offset in whole hours (-12..14)")
	f.IntVar(&r.year, "year", 0, "Calendar year (default: current year)")
	f.StringVarP(&r.output, "output", "o", "", "PNG output path (default: calendar.png)")
	f.StringVar(&r.export, "export", "", "Also write the per-day phase table to this file")
	f.StringVar(&r.exportFormat, "export-format", "", "Phase table format: 'json' or 'msgpack'")
	f.BoolVar(&r.progress, "progress", false, "Show a progress bar while sampling")
}

func runRender(cmd *cobra.Command, g *globalFlags, r *renderFlags) error {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyRenderFlags(cmd, cfg, r)

	if err := initLogging(g, cfg); err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	application := app.New(cfg, log.GetSugaredLogger())
	if err := application.Run(cmd.Context()); err != nil {
		log.Errorf("Application error: %v", err)
		return err
	}
	return nil
}

// applyRenderFlags copies explicitly set flags over the loaded configuration
func applyRenderFlags(cmd *cobra.Command, cfg *config.ConfigData, r *renderFlags) {
	f := cmd.Flags()
	if f.Changed("tz") {
		cfg.Calendar.UTCOffset = r.tz
	}
	if f.Changed("year") {
		cfg.Calendar.Year = r.year
	}
	if f.Changed("output") {
		cfg.Output.Path = r.output
	}
	if f.Changed("export") {
		cfg.Output.Export = r.export
	}
	if f.Changed("export-format") {
		cfg.Output.ExportFormat = r.exportFormat
	}
	if f.Changed("progress") {
		cfg.Output.Progress = r.progress
	}
}

func initLogging(g *globalFlags, cfg *config.ConfigData) error {
	opts := log.Options{
		Debug: g.debug || cfg.Logging.Debug,
		File:  cfg.Logging.File,
		Level: cfg.Logging.Level,
	}
	return log.Init(opts)
}

// loadConfig reads the configuration source and fills defaults. A missing
// default YAML file is not an error; flags alone are enough to render.
func loadConfig(cmd *cobra.Command, g *globalFlags) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(g.cfgFile)

	var provider config.ConfigProvider
	var err error

	switch g.cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", g.cfgBackend)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		cfgData, err = &config.ConfigData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config %s. Run with -h for help: %w", filename, err)
	}

	cfgData.ApplyDefaults(time.Now())
	return cfgData, nil
}
