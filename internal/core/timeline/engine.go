package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/util"
)

var (
	ErrInvalidColumnWidth   = errors.New("column width must be positive")
	ErrInvalidViewportWidth = errors.New("viewport width must be finite and not negative")
	ErrInvalidPadding       = errors.New("leading padding must be finite and not negative")
)

// Engine composes normalization, grid building, layout, coloring and scroll
// planning into one pure pass over a record set.
type Engine struct {
	normalizer *Normalizer
	colors     *ColorAssigner
}

// NewEngine creates an engine. The color memo is shared across passes.
func NewEngine() *Engine {
	return &Engine{
		normalizer: NewNormalizer(),
		colors:     NewColorAssigner(),
	}
}

// Normalize flattens records into sorted entries
func (e *Engine) Normalize(set model.RecordSet) []model.TimelineEntry {
	return e.normalizer.Normalize(set)
}

// Compute normalizes set, keeps the given categories (all when none) and lays out the result
func (e *Engine) Compute(set model.RecordSet, params model.LayoutParams, categories ...model.Category) (model.Timeline, error) {
	entries := FilterByCategory(e.Normalize(set), categories...)
	return e.Layout(entries, params)
}

// Layout lays out already-normalized entries. Calling it twice with the same
// entries and params yields the same timeline.
func (e *Engine) Layout(entries []model.TimelineEntry, params model.LayoutParams) (model.Timeline, error) {
	if err := validateParams(params); err != nil {
		return model.Timeline{}, err
	}

	grid := BuildMonthGrid(entries, params.Now)
	mapper := NewPositionMapper(grid, params.ColumnWidth, params.LeadingPadding)
	placed := NewLayoutEngine(mapper, params.Now).LayoutAll(entries, e.colors)
	scroll := PlanScroll(mapper, params.Now, params.ViewportWidth)

	current, ok := mapper.IndexOf(params.Now)
	if !ok {
		current = len(grid) - 1
	}

	stats := e.colors.CacheStats()
	util.LogDebug("Timeline layout computed",
		util.F("entries", len(placed)),
		util.F("cells", len(grid)),
		util.F("column_width", params.ColumnWidth),
		util.F("scroll", scroll),
		util.F("color_cache_hits", stats.Hits),
		util.F("color_cache_misses", stats.Misses))

	return model.Timeline{
		Entries:        placed,
		Grid:           grid,
		ScrollOffset:   scroll,
		ColumnWidth:    params.ColumnWidth,
		ViewportWidth:  params.ViewportWidth,
		LeadingPadding: params.LeadingPadding,
		ContentWidth:   mapper.ContentWidth(),
		CurrentMonth:   current,
		ComputedAt:     params.Now,
	}, nil
}

// ColorFor exposes the engine's color assignment
func (e *Engine) ColorFor(entityName string, category model.Category) model.ColorToken {
	return e.colors.ColorFor(entityName, category)
}

func validateParams(p model.LayoutParams) error {
	if p.ColumnWidth <= 0 || !finite(p.ColumnWidth) {
		return fmt.Errorf("%w: got %v", ErrInvalidColumnWidth, p.ColumnWidth)
	}
	if p.ViewportWidth < 0 || !finite(p.ViewportWidth) {
		return fmt.Errorf("%w: got %v", ErrInvalidViewportWidth, p.ViewportWidth)
	}
	if p.LeadingPadding < 0 || !finite(p.LeadingPadding) {
		return fmt.Errorf("%w: got %v", ErrInvalidPadding, p.LeadingPadding)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
