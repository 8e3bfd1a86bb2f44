package serve

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	records *model.RecordSet
	version uint64
	updated time.Time
	err     error
	loading string
}

func (m *memoryStore) GetRecords() (model.RecordSet, bool) {
	if m.records == nil {
		return model.RecordSet{}, false
	}
	return *m.records, true
}
func (m *memoryStore) Version() uint64              { return m.version }
func (m *memoryStore) GetLastDataUpdate() time.Time { return m.updated }
func (m *memoryStore) LastError() error             { return m.err }
func (m *memoryStore) GetLoadingState() (bool, string) {
	return m.loading != "", m.loading
}

func strPtr(s string) *string { return &s }

func loadedStore() *memoryStore {
	return &memoryStore{
		records: &model.RecordSet{
			Experiences: []model.WorkRecord{{
				Company:   "Acme",
				Positions: []model.WorkPosition{{Title: "Engineer", StartDate: "2024-01"}},
			}},
			Volunteering: []model.VolunteerRecord{{
				Organisation: "Code Club",
				Roles:        []model.VolunteerRole{{Role: "Mentor", StartDate: "2024-02", EndDate: strPtr("2024-03")}},
			}},
		},
		version: 3,
		updated: time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC),
	}
}

func newTestServer(store RecordStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	clock := util.FixedClock{T: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)}
	return NewServer(store, clock, Defaults{ColumnWidth: 10}).Router()
}

func get(t *testing.T, r http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestTimelineEndpoint(t *testing.T) {
	r := newTestServer(loadedStore())

	w := get(t, r, "/api/timeline?viewport_width=30")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var tl model.Timeline
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &tl))
	assert.Len(t, tl.Entries, 2)
	assert.Len(t, tl.Grid, 6)
	assert.Equal(t, 5, tl.CurrentMonth)
	assert.Equal(t, 60.0, tl.ContentWidth)
	// current month centered: 50 - 15 + 5, clamped to 60 - 30
	assert.Equal(t, 30.0, tl.ScrollOffset)
}

func TestTimelineEndpointQuery(t *testing.T) {
	r := newTestServer(loadedStore())

	w := get(t, r, "/api/timeline?column_width=20&now=2024-03&category=volunteer")
	require.Equal(t, http.StatusOK, w.Code)

	var tl model.Timeline
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &tl))
	require.Len(t, tl.Entries, 1)
	assert.Equal(t, "Code Club", tl.Entries[0].Entry.EntityName)
	assert.Equal(t, 20.0, tl.ColumnWidth)
	assert.Len(t, tl.Grid, 2, "Feb through Mar 2024")
}

func TestTimelineEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		store  RecordStore
		url    string
		status int
	}{
		{"not loaded", &memoryStore{}, "/api/timeline", http.StatusServiceUnavailable},
		{"bad column width", loadedStore(), "/api/timeline?column_width=wide", http.StatusBadRequest},
		{"zero column width", loadedStore(), "/api/timeline?column_width=0", http.StatusBadRequest},
		{"negative viewport", loadedStore(), "/api/timeline?viewport_width=-5", http.StatusBadRequest},
		{"bad now", loadedStore(), "/api/timeline?now=tomorrow", http.StatusBadRequest},
		{"bad category", loadedStore(), "/api/timeline?category=hobby", http.StatusBadRequest},
		{"NaN padding", loadedStore(), "/api/timeline?padding=NaN", http.StatusBadRequest},
		{"Inf padding", loadedStore(), "/api/timeline?padding=Inf", http.StatusBadRequest},
		{"Inf viewport", loadedStore(), "/api/timeline?viewport_width=Inf", http.StatusBadRequest},
		{"NaN column width", loadedStore(), "/api/timeline?column_width=NaN", http.StatusBadRequest},
		{"grid with NaN padding", loadedStore(), "/api/timeline/grid?padding=NaN", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, newTestServer(tt.store), tt.url)
			assert.Equal(t, tt.status, w.Code)

			var body map[string]string
			require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGridEndpoint(t *testing.T) {
	store := loadedStore()
	store.records.Experiences[0].Positions[0].StartDate = "2023-11"
	r := newTestServer(store)

	w := get(t, r, "/api/timeline/grid")
	require.Equal(t, http.StatusOK, w.Code)

	var resp gridResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Grid, 8)
	assert.Equal(t, []int{2}, resp.YearStarts)
	assert.Equal(t, 7, resp.CurrentMonth)
	assert.Equal(t, 80.0, resp.ContentWidth)
}

func TestHealthEndpoint(t *testing.T) {
	store := loadedStore()
	store.err = errors.New("connection refused")
	w := get(t, newTestServer(store), "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["ready"])
	assert.EqualValues(t, 3, body["version"])
	assert.Equal(t, "2024-06-15T09:00:00Z", body["last_update"])
	assert.Equal(t, "connection refused", body["last_error"])

	assert.Equal(t, false, body["loading"])

	w = get(t, newTestServer(&memoryStore{loading: "Fetching records..."}), "/healthz")
	body = map[string]any{}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["ready"])
	assert.Equal(t, true, body["loading"])
	assert.Equal(t, "Fetching records...", body["loading_message"])
}

func TestRequestIDLogged(t *testing.T) {
	var buf bytes.Buffer
	logger, err := util.NewLogger("debug", "", false, util.FormatText)
	require.NoError(t, err)
	logger.AddOutput(util.NewConsoleOutput(&buf, util.FormatText))
	util.SetLogger(logger)
	defer util.SetLogger(nil)

	r := newTestServer(loadedStore())

	w := get(t, r, "/healthz")
	generated := w.Header().Get("X-Request-ID")
	_, err = uuid.Parse(generated)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "request_id="+generated)

	req := httptest.NewRequest(http.MethodGet, "/api/timeline", nil)
	req.Header.Set("X-Request-ID", "cv-refresh-7")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "cv-refresh-7", w.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), "path=/api/timeline request_id=cv-refresh-7")
}
