package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-career-timeline/internal/analyzer"
	"github.com/penwyp/go-career-timeline/internal/application/watch"
	"github.com/penwyp/go-career-timeline/internal/data/parser"
	"github.com/penwyp/go-career-timeline/internal/data/source"
	"github.com/penwyp/go-career-timeline/internal/data/watcher"
	"github.com/penwyp/go-career-timeline/internal/presentation/display"
	"github.com/penwyp/go-career-timeline/internal/presentation/formatter"
	"github.com/penwyp/go-career-timeline/internal/presentation/layout"
	"github.com/spf13/cobra"
)

var (
	watchMonthCheck    time.Duration
	watchFetchInterval time.Duration
	watchNoAltScreen   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [input...]",
	Short: "Re-render the timeline whenever its inputs change",
	Long: `Keeps the timeline on screen and redraws it when:
- a watched input file or directory changes
- the calendar month rolls over
- the terminal is resized
- the periodic re-fetch interval elapses (remote inputs)

A failed re-fetch keeps the last good timeline on screen.`,
	Args: cobra.ArbitraryArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchMonthCheck, "month-check-interval", time.Minute,
		"How often to check for a month rollover and terminal resize")
	watchCmd.Flags().DurationVar(&watchFetchInterval, "fetch-interval", 0,
		"Re-fetch all inputs at this interval (0 = only on file change)")
	watchCmd.Flags().BoolVar(&watchNoAltScreen, "no-alt-screen", false,
		"Draw in the normal screen buffer")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("month-check-interval") || cfg.MonthCheckInterval == 0 {
		cfg.MonthCheckInterval = watchMonthCheck
	}
	if cmd.Flags().Changed("fetch-interval") || cfg.FetchInterval == 0 {
		cfg.FetchInterval = watchFetchInterval
	}

	src, err := source.NewMulti(cfg.Inputs, parser.NewParser(cfg.Concurrency))
	if err != nil {
		return err
	}

	sizer := layout.DetectSizer()
	if layoutName != "" {
		strategy := layout.GetLayoutStrategyByName(layoutName)
		if strategy == nil {
			return fmt.Errorf("unknown layout %q (want desktop or compact)", layoutName)
		}
		sizer.WithStrategy(strategy)
	}

	f, err := formatter.New(cfg.Output, formatter.Options{LabelWidth: sizer.LabelWidth()})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	td := display.NewTerminalDisplay(out, f, "go-career-timeline watch")

	opts := []watch.Option{
		watch.WithViewport(func() (float64, float64) {
			current := layout.DetectSizer()
			if layoutName != "" {
				current.WithStrategy(sizer.Strategy())
			}
			return layout.ResolveViewport(cfg.ColumnWidth, cfg.ViewportWidth, current)
		}),
	}
	if now != "" {
		clock, err := analyzer.ResolveClock(now, cfg.Timezone)
		if err != nil {
			return err
		}
		opts = append(opts, watch.WithClock(clock))
	}
	if paths := source.Paths(src); len(paths) > 0 {
		fw, err := watcher.NewFileWatcher(paths)
		if err != nil {
			return fmt.Errorf("failed to watch inputs: %w", err)
		}
		opts = append(opts, watch.WithFileMonitor(fw))
	}

	orchestrator, err := watch.NewOrchestrator(cfg, source.NewCachedSource(src), td, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !watchNoAltScreen {
		td.EnterAlternateScreen()
		defer td.ExitAlternateScreen()
	}
	return orchestrator.Run(ctx)
}
