package main

import (
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/chrissnell/mooncalendar/internal/app"
	"github.com/chrissnell/mooncalendar/pkg/ephemeris"
	"github.com/chrissnell/mooncalendar/pkg/lunar"
	"github.com/chrissnell/mooncalendar/pkg/ring"
)

func newPhaseCmd(g *globalFlags) *cobra.Command {
	var dateStr string
	var tz int

	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Print the lunar state of a single day",
		Example: `  mooncalendar phase --date 2023-01-22 --tz 8
  mooncalendar phase --tz -5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tz") {
				cfg.Calendar.UTCOffset = tz
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			offset := cfg.Calendar.UTCOffset

			var d civil.Date
			if dateStr == "" {
				d = civil.DateOf(time.Now().In(ephemeris.FixedZone(offset)))
			} else {
				d, err = civil.ParseDate(dateStr)
				if err != nil {
					return fmt.Errorf("error parsing date: %w", err)
				}
			}

			engine, err := app.NewEngine(cfg.Ephemeris)
			if err != nil {
				return err
			}

			return printPhase(cmd.OutOrStdout(), engine, d, offset)
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Civil date to sample (YYYY-MM-DD, default: today at the UTC offset)")
	cmd.Flags().IntVar(&tz, "tz", 0, "Fixed UTC offset in whole hours (-12..14, default: calendar.utc-offset)")
	return cmd
}

func printPhase(w io.Writer, engine *ephemeris.Engine, d civil.Date, tz int) error {
	s, err := engine.Sample(d, tz)
	if err != nil {
		return err
	}

	day := lunar.DayOfMonth(d)
	marker := lunar.MarkerForDay(day)
	g := ring.Render(ring.Point{}, 1, s.Fraction, s.Waxing, marker)

	fmt.Fprintf(w, "Moon Phase for %s (UTC%+d)\n", d, tz)
	fmt.Fprintf(w, "  Phase Name:   %s\n", lunar.PhaseName(s.Fraction, s.Waxing))
	fmt.Fprintf(w, "  Illumination: %.1f%% (%.4f)\n", s.Fraction*100, s.Fraction)
	fmt.Fprintf(w, "  Next Day:     %.1f%% (%.4f)\n", s.NextFraction*100, s.NextFraction)
	if s.Waxing {
		fmt.Fprintf(w, "  Direction:    Waxing\n")
	} else {
		fmt.Fprintf(w, "  Direction:    Waning\n")
	}
	fmt.Fprintf(w, "  Lunar Day:    %d\n", day)
	fmt.Fprintf(w, "  Marker:       %s\n", marker)
	fmt.Fprintf(w, "  Sweep:        %.0f° to %.0f°\n", g.Sweep.Start, g.Sweep.End)
	fmt.Fprintf(w, "  Model:        %s\n", engine.Model().Name())
	return nil
}
