package serve

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/core/timeline"
	"github.com/penwyp/go-career-timeline/internal/util"
)

const requestIDHeader = "X-Request-ID"

// RecordStore is the read side of the watch state
type RecordStore interface {
	GetRecords() (model.RecordSet, bool)
	Version() uint64
	GetLastDataUpdate() time.Time
	LastError() error
	GetLoadingState() (bool, string)
}

// Defaults are used for query parameters the caller leaves out
type Defaults struct {
	ColumnWidth    float64
	ViewportWidth  float64
	LeadingPadding float64
	Categories     []model.Category
}

// Server answers timeline queries from the latest fetched records. Each
// request computes its own layout, so callers with different viewports
// never share geometry.
type Server struct {
	store    RecordStore
	engine   *timeline.Engine
	clock    util.Clock
	defaults Defaults
}

// NewServer creates a server reading records from store. now comes from
// clock unless a request passes its own.
func NewServer(store RecordStore, clock util.Clock, defaults Defaults) *Server {
	return &Server{
		store:    store,
		engine:   timeline.NewEngine(),
		clock:    clock,
		defaults: defaults,
	}
}

// Router builds the gin engine with all routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.handleHealth)
	api := r.Group("/api")
	{
		api.GET("/timeline", s.handleTimeline)
		api.GET("/timeline/grid", s.handleGrid)
	}
	return r
}

type gridResponse struct {
	Grid           []model.MonthCell `json:"grid"`
	YearStarts     []int             `json:"year_starts"`
	CurrentMonth   int               `json:"current_month"`
	ColumnWidth    float64           `json:"column_width"`
	LeadingPadding float64           `json:"leading_padding"`
	ContentWidth   float64           `json:"content_width"`
	ScrollOffset   float64           `json:"scroll_offset"`
}

func (s *Server) handleTimeline(c *gin.Context) {
	tl, ok := s.compute(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, tl)
}

func (s *Server) handleGrid(c *gin.Context) {
	tl, ok := s.compute(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, gridResponse{
		Grid:           tl.Grid,
		YearStarts:     timeline.YearBoundaries(tl.Grid),
		CurrentMonth:   tl.CurrentMonth,
		ColumnWidth:    tl.ColumnWidth,
		LeadingPadding: tl.LeadingPadding,
		ContentWidth:   tl.ContentWidth,
		ScrollOffset:   tl.ScrollOffset,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	_, ready := s.store.GetRecords()
	loading, message := s.store.GetLoadingState()
	body := gin.H{
		"status":  "ok",
		"ready":   ready,
		"loading": loading,
		"version": s.store.Version(),
	}
	if message != "" {
		body["loading_message"] = message
	}
	if ts := s.store.GetLastDataUpdate(); !ts.IsZero() {
		body["last_update"] = ts.Format(time.RFC3339)
	}
	if err := s.store.LastError(); err != nil {
		body["last_error"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

// compute lays out the stored records for the request's parameters,
// writing an error response and returning false on failure
func (s *Server) compute(c *gin.Context) (model.Timeline, bool) {
	params, cats, err := s.parseQuery(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return model.Timeline{}, false
	}

	records, ok := s.store.GetRecords()
	if !ok {
		abortWithError(c, http.StatusServiceUnavailable, errors.New("records not loaded yet"))
		return model.Timeline{}, false
	}

	tl, err := s.engine.Compute(records, params, cats...)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return model.Timeline{}, false
	}
	return tl, true
}

func (s *Server) parseQuery(c *gin.Context) (model.LayoutParams, []model.Category, error) {
	params := model.LayoutParams{
		Now:            s.clock.Now(),
		ColumnWidth:    s.defaults.ColumnWidth,
		ViewportWidth:  s.defaults.ViewportWidth,
		LeadingPadding: s.defaults.LeadingPadding,
	}

	floats := []struct {
		name   string
		target *float64
	}{
		{"column_width", &params.ColumnWidth},
		{"viewport_width", &params.ViewportWidth},
		{"padding", &params.LeadingPadding},
	}
	for _, f := range floats {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, nil, errors.New("invalid " + f.name + ": " + raw)
		}
		*f.target = v
	}

	if raw := c.Query("now"); raw != "" {
		t, err := util.ParseCalendarDate(raw)
		if err != nil {
			return params, nil, err
		}
		params.Now = t
	}

	cats := s.defaults.Categories
	switch raw := c.Query("category"); raw {
	case "":
	case "all":
		cats = nil
	default:
		cats = nil
		for _, name := range strings.Split(raw, ",") {
			cat, err := model.ParseCategory(name)
			if err != nil {
				return params, nil, err
			}
			cats = append(cats, cat)
		}
	}
	return params, cats, nil
}

func writeJSON(c *gin.Context, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}

func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// requestLogger tags each request with an ID, taken from X-Request-ID when
// the caller sent one, and logs it once the handler is done
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), util.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, id)

		c.Next()

		logger := util.GetLogger()
		if logger == nil {
			return
		}
		logger.WithContext(ctx).Debug("HTTP request",
			util.F("method", c.Request.Method),
			util.F("path", c.Request.URL.Path),
			util.F("status", c.Writer.Status()),
			util.F("duration", time.Since(start).String()))
	}
}
