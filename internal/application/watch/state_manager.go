package watch

import (
	"sync"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
)

// StateManager holds the latest records and timeline in a thread-safe manner
type StateManager struct {
	mu sync.RWMutex

	records    model.RecordSet
	hasRecords bool

	timeline    model.Timeline
	hasTimeline bool
	version     uint64

	isLoading      bool
	loadingMessage string
	lastError      error

	lastDataUpdate time.Time
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{}
}

// SetRecords stores the last successfully fetched records
func (sm *StateManager) SetRecords(records model.RecordSet) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.records = records
	sm.hasRecords = true
	sm.lastDataUpdate = time.Now()
}

// GetRecords returns the stored records and whether any were fetched
func (sm *StateManager) GetRecords() (model.RecordSet, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.records, sm.hasRecords
}

// SetTimeline replaces the current timeline and bumps the version
func (sm *StateManager) SetTimeline(tl model.Timeline) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.timeline = tl
	sm.hasTimeline = true
	sm.version++
}

// GetTimeline returns the latest timeline, if any
func (sm *StateManager) GetTimeline() (model.Timeline, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.timeline, sm.hasTimeline
}

// Version increments on every stored timeline
func (sm *StateManager) Version() uint64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.version
}

// GetLoadingState returns current loading state and message
func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.isLoading, sm.loadingMessage
}

// SetLoadingState updates loading state and message
func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.isLoading = isLoading
	sm.loadingMessage = message
}

// SetError records the last refresh failure; nil clears it
func (sm *StateManager) SetError(err error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.lastError = err
}

// LastError returns the last refresh failure
func (sm *StateManager) LastError() error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.lastError
}

// GetLastDataUpdate returns when records were last stored
func (sm *StateManager) GetLastDataUpdate() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.lastDataUpdate
}
