package watch

import (
	"context"
	"sync"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock(t time.Time) *manualClock {
	return &manualClock{t: t}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type manualTicker struct {
	c       chan time.Time
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() { t.stopped = true }

// tickers hands out manual tickers keyed by interval
type tickers struct {
	mu sync.Mutex
	m  map[time.Duration]*manualTicker
}

func newTickers() *tickers {
	return &tickers{m: make(map[time.Duration]*manualTicker)}
}

func (ts *tickers) factory(d time.Duration) Ticker {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t := &manualTicker{c: make(chan time.Time)}
	ts.m[d] = t
	return t
}

func (ts *tickers) get(d time.Duration) *manualTicker {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.m[d]
}

type fakeSource struct {
	mu    sync.Mutex
	set   model.RecordSet
	err   error
	calls int
}

func (s *fakeSource) Fetch(ctx context.Context) (model.RecordSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.set, s.err
}

func (s *fakeSource) Describe() string { return "fake" }

func (s *fakeSource) update(set model.RecordSet, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set, s.err = set, err
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeMonitor struct {
	events chan model.FileEvent
	closed bool
}

func (m *fakeMonitor) Events() <-chan model.FileEvent { return m.events }

func (m *fakeMonitor) Close() error {
	m.closed = true
	return nil
}

type recordingRenderer struct {
	ch chan model.Timeline
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{ch: make(chan model.Timeline, 16)}
}

func (r *recordingRenderer) Render(tl model.Timeline) error {
	r.ch <- tl
	return nil
}

func sampleRecords() model.RecordSet {
	return model.RecordSet{
		Experiences: []model.WorkRecord{{
			Company:   "Acme",
			Positions: []model.WorkPosition{{Title: "Engineer", StartDate: "2024-01"}},
		}},
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}
