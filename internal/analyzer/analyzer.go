package analyzer

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/core/timeline"
	"github.com/penwyp/go-career-timeline/internal/data/parser"
	"github.com/penwyp/go-career-timeline/internal/data/source"
	"github.com/penwyp/go-career-timeline/internal/presentation/formatter"
	"github.com/penwyp/go-career-timeline/internal/presentation/layout"
	"github.com/penwyp/go-career-timeline/internal/util"
)

type Config struct {
	Inputs       []string
	OutputFormat string
	Timezone     string
	Now          string // calendar date or month; empty uses the clock
	Categories   []model.Category

	ColumnWidth    float64 // 0 picks by layout
	ViewportWidth  float64 // 0 uses the terminal width
	LeadingPadding float64
	Layout         string // desktop, compact or empty for automatic
	FullWidth      bool

	Concurrency int
}

// PhaseStats records how long each phase of a run took
type PhaseStats struct {
	Fetch   time.Duration
	Compute time.Duration
	Format  time.Duration
	Records int
	Entries int
}

type Analyzer struct {
	config *Config
	source source.Source
	engine *timeline.Engine
	sizer  *layout.Sizer
	clock  util.Clock
}

// New builds an analyzer for the configured inputs
func New(config *Config) (*Analyzer, error) {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}
	if len(config.Inputs) == 0 {
		return nil, fmt.Errorf("no input given")
	}

	src, err := source.NewMulti(config.Inputs, parser.NewParser(config.Concurrency))
	if err != nil {
		return nil, err
	}

	clock, err := ResolveClock(config.Now, config.Timezone)
	if err != nil {
		return nil, err
	}

	sizer := layout.DetectSizer()
	if config.Layout != "" {
		strategy := layout.GetLayoutStrategyByName(config.Layout)
		if strategy == nil {
			return nil, fmt.Errorf("unknown layout %q (want desktop or compact)", config.Layout)
		}
		sizer.WithStrategy(strategy)
	}

	return &Analyzer{
		config: config,
		source: src,
		engine: timeline.NewEngine(),
		sizer:  sizer,
		clock:  clock,
	}, nil
}

// WithSource replaces the record source
func (a *Analyzer) WithSource(src source.Source) *Analyzer {
	a.source = src
	return a
}

// WithSizer replaces the terminal sizer
func (a *Analyzer) WithSizer(sizer *layout.Sizer) *Analyzer {
	a.sizer = sizer
	return a
}

// Compute fetches records and lays them out once
func (a *Analyzer) Compute(ctx context.Context) (model.Timeline, PhaseStats, error) {
	var stats PhaseStats

	fetchStart := time.Now()
	set, err := a.source.Fetch(ctx)
	if err != nil {
		return model.Timeline{}, stats, fmt.Errorf("failed to fetch records from %s: %w", a.source.Describe(), err)
	}
	stats.Fetch = time.Since(fetchStart)
	stats.Records = set.Len()
	util.LogDebugf("Phase 1 - Fetch duration: %v, %d records", stats.Fetch, stats.Records)

	computeStart := time.Now()
	cw, vw := layout.ResolveViewport(a.config.ColumnWidth, a.config.ViewportWidth, a.sizer)
	tl, err := a.engine.Compute(set, model.LayoutParams{
		Now:            a.clock.Now(),
		ColumnWidth:    cw,
		ViewportWidth:  vw,
		LeadingPadding: a.config.LeadingPadding,
	}, a.config.Categories...)
	if err != nil {
		return model.Timeline{}, stats, fmt.Errorf("failed to compute timeline: %w", err)
	}
	stats.Compute = time.Since(computeStart)
	stats.Entries = len(tl.Entries)
	util.LogDebugf("Phase 2 - Compute duration: %v, %d entries over %d months", stats.Compute, stats.Entries, len(tl.Grid))

	return tl, stats, nil
}

// Run computes the timeline and writes it in the configured format
func (a *Analyzer) Run(ctx context.Context, w io.Writer) error {
	startTime := time.Now()
	util.LogInfo("Starting timeline layout...")

	f, err := formatter.New(a.config.OutputFormat, formatter.Options{
		LabelWidth: a.sizer.LabelWidth(),
		FullWidth:  a.config.FullWidth,
	})
	if err != nil {
		return err
	}

	tl, stats, err := a.Compute(ctx)
	if err != nil {
		return err
	}

	formatStart := time.Now()
	if err := f.Format(w, tl); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	stats.Format = time.Since(formatStart)

	util.LogInfof("Timeline done in %v (fetch %v, compute %v, format %v): %d records, %d entries",
		time.Since(startTime), stats.Fetch, stats.Compute, stats.Format, stats.Records, stats.Entries)
	return nil
}

// ResolveClock returns a fixed clock for a --now value, else the wall clock
// in the given timezone
func ResolveClock(now, timezone string) (util.Clock, error) {
	if now != "" {
		t, err := util.ParseCalendarDate(now)
		if err != nil {
			return nil, fmt.Errorf("invalid --now value: %w", err)
		}
		return util.FixedClock{T: t}, nil
	}
	if err := util.InitializeTimeProvider(timezone); err != nil {
		return nil, err
	}
	return util.GetTimeProvider(), nil
}
