package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/core/timeline"
	"github.com/penwyp/go-career-timeline/internal/data/parser"
	"github.com/penwyp/go-career-timeline/internal/util"
)

// ErrNoRecords is returned when a recompute is requested before any fetch succeeded
var ErrNoRecords = errors.New("no records fetched yet")

// RefreshController owns the recompute triggers: new records, a new month,
// and a viewport change. Every trigger recomputes the whole timeline.
type RefreshController struct {
	source     RecordSource
	engine     *timeline.Engine
	clock      util.Clock
	state      *StateManager
	categories []model.Category

	mu             sync.RWMutex
	columnWidth    float64
	viewportWidth  float64
	leadingPadding float64
	lastMonth      time.Time

	refreshMutex sync.Mutex // Prevent concurrent refreshes
}

// NewRefreshController creates a new RefreshController instance
func NewRefreshController(source RecordSource, engine *timeline.Engine, clock util.Clock, state *StateManager, categories []model.Category) *RefreshController {
	return &RefreshController{
		source:     source,
		engine:     engine,
		clock:      clock,
		state:      state,
		categories: categories,
	}
}

// Params returns the layout inputs for the current instant
func (rc *RefreshController) Params() model.LayoutParams {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	return model.LayoutParams{
		Now:            rc.clock.Now(),
		ColumnWidth:    rc.columnWidth,
		ViewportWidth:  rc.viewportWidth,
		LeadingPadding: rc.leadingPadding,
	}
}

// SetLeadingPadding sets the padding used by later recomputes
func (rc *RefreshController) SetLeadingPadding(padding float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.leadingPadding = padding
}

// SetViewport changes the widths and recomputes when records are loaded.
// An unchanged viewport is a no-op.
func (rc *RefreshController) SetViewport(columnWidth, viewportWidth float64) (model.Timeline, bool, error) {
	rc.mu.Lock()
	changed := rc.columnWidth != columnWidth || rc.viewportWidth != viewportWidth
	rc.columnWidth = columnWidth
	rc.viewportWidth = viewportWidth
	rc.mu.Unlock()

	if !changed {
		tl, _ := rc.state.GetTimeline()
		return tl, false, nil
	}
	if _, ok := rc.state.GetRecords(); !ok {
		return model.Timeline{}, false, nil
	}

	util.LogDebugf("Viewport changed: column=%.0f viewport=%.0f", columnWidth, viewportWidth)
	tl, err := rc.Recompute()
	return tl, err == nil, err
}

// Refetch pulls records from the source and recomputes. On failure the
// previously stored timeline stays in place.
func (rc *RefreshController) Refetch(ctx context.Context) (model.Timeline, error) {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	rc.state.SetLoadingState(true, "Fetching records...")
	defer rc.state.SetLoadingState(false, "")

	set, err := rc.source.Fetch(ctx)
	if err != nil {
		rc.state.SetError(err)
		if errors.Is(err, parser.ErrMalformedRecordSet) {
			util.LogErrorf("Records from %s are malformed: %v", rc.source.Describe(), err)
		}
		return model.Timeline{}, fmt.Errorf("failed to fetch records: %w", err)
	}

	util.LogInfof("Fetched %d records from %s", set.Len(), rc.source.Describe())
	rc.state.SetRecords(set)
	return rc.recomputeLocked()
}

// Recompute lays out the stored records against the current clock
func (rc *RefreshController) Recompute() (model.Timeline, error) {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	return rc.recomputeLocked()
}

func (rc *RefreshController) recomputeLocked() (model.Timeline, error) {
	set, ok := rc.state.GetRecords()
	if !ok {
		return model.Timeline{}, ErrNoRecords
	}

	params := rc.Params()
	tl, err := rc.engine.Compute(set, params, rc.categories...)
	if err != nil {
		rc.state.SetError(err)
		return model.Timeline{}, err
	}

	rc.mu.Lock()
	rc.lastMonth = util.MonthStart(params.Now)
	rc.mu.Unlock()

	rc.state.SetTimeline(tl)
	rc.state.SetError(nil)
	return tl, nil
}

// CheckMonth recomputes when the clock has moved into a different month
// since the last computation. It reports whether a recompute happened.
func (rc *RefreshController) CheckMonth() (model.Timeline, bool, error) {
	rc.mu.RLock()
	last := rc.lastMonth
	rc.mu.RUnlock()

	now := rc.clock.Now()
	if last.IsZero() || util.SameMonth(now, last) {
		return model.Timeline{}, false, nil
	}
	current := util.MonthStart(now)

	util.LogInfof("Month changed from %s to %s, recomputing timeline",
		last.Format("Jan 2006"), current.Format("Jan 2006"))
	tl, err := rc.Recompute()
	if err != nil {
		return model.Timeline{}, false, err
	}
	return tl, true, nil
}
