package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/mooncalendar/internal/layout"
	"github.com/chrissnell/mooncalendar/pkg/config"
	"github.com/chrissnell/mooncalendar/pkg/ephemeris"
	"github.com/chrissnell/mooncalendar/pkg/export"
	"github.com/chrissnell/mooncalendar/pkg/lunar"
)

// App renders one calendar year from a loaded configuration
type App struct {
	cfg      *config.ConfigData
	logger   *zap.SugaredLogger
	progress io.Writer
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		progress: os.Stderr,
	}
}

// NewModel builds the position model selected by the ephemeris settings.
func NewModel(e config.EphemerisData) (ephemeris.PositionModel, error) {
	span, err := e.Span()
	if err != nil {
		return nil, err
	}

	switch e.Model {
	case "", config.ModelMeeus:
		return ephemeris.NewAnalytic(span), nil
	case config.ModelVSOP87:
		return ephemeris.LoadVSOP87(e.VSOP87Dir, span)
	default:
		return nil, fmt.Errorf("unsupported ephemeris model: %s", e.Model)
	}
}

// NewEngine builds the model and wraps it in a query engine.
func NewEngine(e config.EphemerisData) (*ephemeris.Engine, error) {
	model, err := NewModel(e)
	if err != nil {
		return nil, err
	}

	var opts []ephemeris.Option
	if e.Cache {
		opts = append(opts, ephemeris.WithCache())
	}
	return ephemeris.NewEngine(model, opts...), nil
}

// Run samples every day of the configured year, draws the page and writes
// the PNG and optional phase export.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()
	year := a.cfg.Calendar.Year
	offset := a.cfg.Calendar.UTCOffset

	engine, err := NewEngine(a.cfg.Ephemeris)
	if err != nil {
		return fmt.Errorf("failed to load ephemeris: %w", err)
	}
	a.logger.Infow("ephemeris loaded",
		"model", engine.Model().Name(),
		"span", engine.Model().Span().String())

	cells := layout.PlanYear(year)

	var tick func()
	if a.cfg.Output.Progress {
		bar := progressbar.NewOptions(len(cells),
			progressbar.OptionSetWriter(a.progress),
			progressbar.OptionSetDescription(fmt.Sprintf("Sampling %d...", year)),
			progressbar.OptionSetWidth(30),
		)
		defer bar.Finish()
		tick = func() { bar.Add(1) }
	}

	phases, err := SampleYear(ctx, engine, cells, offset, tick)
	if err != nil {
		return err
	}
	a.logger.Debugw("sampled year", "year", year, "days", len(phases), "elapsed", time.Since(start))

	page, err := layout.NewPage(year)
	if err != nil {
		return err
	}
	if err := page.Draw(cells, phases); err != nil {
		return err
	}
	if err := page.SavePNG(a.cfg.Output.Path); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.cfg.Output.Path, err)
	}
	a.logger.Infow("calendar written", "path", a.cfg.Output.Path, "year", year, "utc_offset", offset)

	if a.cfg.Output.Export != "" {
		table := BuildTable(year, engine.Model().Name(), cells, phases)
		if err := export.WriteFile(a.cfg.Output.Export, a.cfg.Output.ExportFormat, table); err != nil {
			return err
		}
		a.logger.Infow("phase table exported",
			"path", a.cfg.Output.Export,
			"format", a.cfg.Output.ExportFormat,
			"days", len(table.Days))
	}

	a.logger.Infof("rendered %d in %v", year, time.Since(start).Round(time.Millisecond))
	return nil
}

// SampleYear queries the engine for every cell, one goroutine per month.
// Results are in cell order. tick, if non-nil, is called once per day.
func SampleYear(ctx context.Context, engine *ephemeris.Engine, cells []layout.Cell, offset int, tick func()) ([]layout.DayPhase, error) {
	phases := make([]layout.DayPhase, len(cells))

	byMonth := make(map[time.Month][]int, 12)
	for i, c := range cells {
		byMonth[c.Date.Month] = append(byMonth[c.Date.Month], i)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, indices := range byMonth {
		indices := indices // per-iteration copy; go.mod targets go 1.21 loop semantics
		eg.Go(func() error {
			for _, i := range indices {
				if err := egCtx.Err(); err != nil {
					return err
				}

				d := cells[i].Date
				s, err := engine.Sample(d, offset)
				if err != nil {
					return fmt.Errorf("sampling %s: %w", d, err)
				}

				day := lunar.DayOfMonth(d)
				phases[i] = layout.DayPhase{
					Sample:   s,
					LunarDay: day,
					Marker:   lunar.MarkerForDay(day),
				}
				if tick != nil {
					tick()
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return phases, nil
}

// BuildTable converts sampled days into the export document.
func BuildTable(year int, model string, cells []layout.Cell, phases []layout.DayPhase) *export.Table {
	t := &export.Table{
		Year:  year,
		Model: model,
		Days:  make([]export.Record, len(phases)),
	}

	for i, p := range phases {
		g := p.Glyph(cells[i])
		t.Days[i] = export.Record{
			Date:         p.Sample.Date.String(),
			UTCOffset:    p.Sample.OffsetHours,
			Illumination: p.Sample.Fraction,
			Waxing:       p.Sample.Waxing,
			Phase:        lunar.PhaseName(p.Sample.Fraction, p.Sample.Waxing),
			LunarDay:     p.LunarDay,
			Marker:       p.Marker.String(),
			SweepStart:   g.Sweep.Start,
			SweepEnd:     g.Sweep.End,
		}
	}
	return t
}
