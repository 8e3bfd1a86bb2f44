package source

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/data/parser"
	"github.com/penwyp/go-career-timeline/internal/util"
)

// CachedSource wraps another source and serves the last good record set
// when a fetch fails for transport reasons. Malformed payloads are never
// masked.
type CachedSource struct {
	source Source

	mu        sync.RWMutex
	last      *model.RecordSet
	fetchedAt time.Time
}

// NewCachedSource wraps source with last-good fallback
func NewCachedSource(source Source) *CachedSource {
	return &CachedSource{source: source}
}

func (s *CachedSource) Fetch(ctx context.Context) (model.RecordSet, error) {
	set, err := s.source.Fetch(ctx)
	if err == nil {
		s.mu.Lock()
		s.last = &set
		s.fetchedAt = time.Now()
		s.mu.Unlock()
		return set, nil
	}

	if errors.Is(err, parser.ErrMalformedRecordSet) || errors.Is(err, context.Canceled) {
		return model.RecordSet{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return model.RecordSet{}, err
	}
	util.LogInfof("Fetch from %s failed (%v), using records from %s",
		s.source.Describe(), err, s.fetchedAt.Format("2006-01-02 15:04:05"))
	return *s.last, nil
}

func (s *CachedSource) Describe() string {
	return s.source.Describe() + " (cached)"
}
