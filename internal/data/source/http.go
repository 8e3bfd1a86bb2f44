package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/data/parser"
	"github.com/penwyp/go-career-timeline/internal/util"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxBodyBytes       = 10 << 20
)

// HTTPSource fetches a record set from the content service
type HTTPSource struct {
	url        string
	parser     *parser.Parser
	httpClient *http.Client
}

// NewHTTPSource creates a source for url with a 30 second client timeout
func NewHTTPSource(url string, p *parser.Parser) *HTTPSource {
	return &HTTPSource{
		url:    url,
		parser: p,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// WithClient replaces the HTTP client
func (s *HTTPSource) WithClient(c *http.Client) *HTTPSource {
	s.httpClient = c
	return s
}

func (s *HTTPSource) Fetch(ctx context.Context) (model.RecordSet, error) {
	util.LogDebugf("Fetching records from %s", s.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return model.RecordSet{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return model.RecordSet{}, fmt.Errorf("failed to fetch records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		util.LogDebugf("Unexpected HTTP status code: %d", resp.StatusCode)
		return model.RecordSet{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return model.RecordSet{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return model.RecordSet{}, fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)
	}

	set, err := s.parser.Parse(body, formatFromContentType(resp.Header.Get("Content-Type")))
	if err != nil {
		return model.RecordSet{}, err
	}

	util.LogDebugf("Fetched %d records from %s", set.Len(), s.url)
	return set, nil
}

func (s *HTTPSource) Describe() string {
	return s.url
}

func formatFromContentType(ct string) parser.Format {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return parser.FormatAuto
	}
	switch mediaType {
	case "application/json":
		return parser.FormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return parser.FormatYAML
	default:
		return parser.FormatAuto
	}
}
