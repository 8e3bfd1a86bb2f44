package watch

import (
	"context"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
)

// RecordSource supplies raw records
type RecordSource interface {
	// Fetch returns the current record set
	Fetch(ctx context.Context) (model.RecordSet, error)
	// Describe names the source for logs
	Describe() string
}

// Renderer paints a computed timeline
type Renderer interface {
	// Render writes the timeline
	Render(tl model.Timeline) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(tl model.Timeline) error

func (f RendererFunc) Render(tl model.Timeline) error {
	return f(tl)
}

// FileMonitor watches for file changes
type FileMonitor interface {
	// Events returns a channel of file change events
	Events() <-chan model.FileEvent
	// Close stops monitoring and cleans up resources
	Close() error
}

// Ticker delivers periodic ticks
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker for an interval
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

// NewTimeTicker wraps time.Ticker
func NewTimeTicker(d time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(d)}
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }

func (t *timeTicker) Stop() { t.t.Stop() }
