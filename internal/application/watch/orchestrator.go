package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/core/timeline"
	"github.com/penwyp/go-career-timeline/internal/util"
)

// ViewportFunc reports the current column and viewport widths
type ViewportFunc func() (columnWidth, viewportWidth float64)

// Orchestrator coordinates fetching, recomputing and rendering for watch mode
type Orchestrator struct {
	config *Config

	refreshCtrl  *RefreshController
	stateManager *StateManager

	renderer  Renderer
	monitor   FileMonitor
	viewport  ViewportFunc
	newTicker TickerFactory
	clock     util.Clock
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithClock injects the clock used for "now"
func WithClock(clock util.Clock) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// WithTickerFactory injects the ticker source
func WithTickerFactory(f TickerFactory) Option {
	return func(o *Orchestrator) { o.newTicker = f }
}

// WithFileMonitor re-fetches whenever the monitor reports a change
func WithFileMonitor(m FileMonitor) Option {
	return func(o *Orchestrator) { o.monitor = m }
}

// WithViewport polls f on every tick and recomputes when the widths change
func WithViewport(f ViewportFunc) Option {
	return func(o *Orchestrator) { o.viewport = f }
}

// NewOrchestrator creates a new Orchestrator instance. renderer may be nil
// when the state is consumed elsewhere.
func NewOrchestrator(config *Config, source RecordSource, renderer Renderer, opts ...Option) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	categories, err := config.ParsedCategories()
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		config:       config,
		stateManager: NewStateManager(),
		renderer:     renderer,
		newTicker:    NewTimeTicker,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		if err := util.InitializeTimeProvider(config.Timezone); err != nil {
			return nil, fmt.Errorf("failed to initialize timezone: %w", err)
		}
		o.clock = util.GetTimeProvider()
	}

	o.refreshCtrl = NewRefreshController(source, timeline.NewEngine(), o.clock, o.stateManager, categories)
	o.refreshCtrl.SetLeadingPadding(config.LeadingPadding)
	o.refreshCtrl.SetViewport(config.ColumnWidth, config.ViewportWidth)

	return o, nil
}

// State exposes the shared state
func (o *Orchestrator) State() *StateManager {
	return o.stateManager
}

// RefreshController exposes the recompute triggers
func (o *Orchestrator) RefreshController() *RefreshController {
	return o.refreshCtrl
}

// Run fetches once, renders, then reacts to ticks and file events until ctx
// is done. Only a failed initial fetch is fatal.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting timeline watch...")
	defer o.Close()

	o.applyViewport()
	tl, err := o.refreshCtrl.Refetch(ctx)
	if err != nil {
		return fmt.Errorf("initial fetch failed: %w", err)
	}
	o.render(tl)

	monthTicker := o.newTicker(o.config.MonthCheckInterval)
	defer monthTicker.Stop()

	var fetchC <-chan time.Time
	if o.config.FetchInterval > 0 {
		fetchTicker := o.newTicker(o.config.FetchInterval)
		defer fetchTicker.Stop()
		fetchC = fetchTicker.C()
	}

	var fileEvents <-chan model.FileEvent
	if o.monitor != nil {
		fileEvents = o.monitor.Events()
	}

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down timeline watch...")
			return nil

		case <-monthTicker.C():
			if o.applyViewport() {
				continue
			}
			tl, changed, err := o.refreshCtrl.CheckMonth()
			if err != nil {
				util.LogErrorf("Failed to recompute on month change: %v", err)
				continue
			}
			if changed {
				o.render(tl)
			}

		case <-fetchC:
			o.refetch(ctx)

		case event, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			util.LogDebugf("File changed: %s (%s)", event.Path, event.Operation)
			o.refetch(ctx)
		}
	}
}

// applyViewport pushes new widths to the controller and renders when they
// caused a recompute
func (o *Orchestrator) applyViewport() bool {
	if o.viewport == nil {
		return false
	}
	cw, vw := o.viewport()
	tl, changed, err := o.refreshCtrl.SetViewport(cw, vw)
	if err != nil {
		util.LogErrorf("Failed to recompute for new viewport: %v", err)
		return false
	}
	if changed {
		o.render(tl)
	}
	return changed
}

func (o *Orchestrator) refetch(ctx context.Context) {
	tl, err := o.refreshCtrl.Refetch(ctx)
	if err != nil {
		util.LogErrorf("Failed to refresh records: %v", err)
		return
	}
	o.render(tl)
}

func (o *Orchestrator) render(tl model.Timeline) {
	if o.renderer == nil {
		return
	}
	if err := o.renderer.Render(tl); err != nil {
		util.LogErrorf("Failed to render timeline: %v", err)
	}
}

// Close cleans up all resources
func (o *Orchestrator) Close() error {
	if o.monitor != nil {
		if err := o.monitor.Close(); err != nil {
			return fmt.Errorf("failed to close file watcher: %w", err)
		}
	}
	return nil
}
