package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/util"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ErrMalformedRecordSet means the input is not a decodable record collection.
// It is the only fatal input error; bad individual dates are handled downstream.
var ErrMalformedRecordSet = errors.New("malformed record set")

// Format is the serialization of a record set
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// envelope is the REST shape some content services wrap payloads in
type envelope struct {
	Data *model.RecordSet `json:"data" yaml:"data"`
}

// Parser decodes record sets from JSON or YAML
type Parser struct {
	concurrency int
}

// NewParser creates a new Parser. concurrency bounds ParseFiles.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{concurrency: concurrency}
}

// DetectFormat picks a format from the file extension, then from the content
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes data in the given format. FormatAuto sniffs the content.
func (p *Parser) Parse(data []byte, format Format) (model.RecordSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return model.RecordSet{}, fmt.Errorf("%w: empty input", ErrMalformedRecordSet)
	}
	if format == FormatAuto || format == "" {
		format = DetectFormat("", data)
	}

	var (
		set model.RecordSet
		env envelope
		err error
	)
	switch format {
	case FormatJSON:
		if err = sonic.Unmarshal(data, &env); err == nil && env.Data != nil {
			return *env.Data, nil
		}
		err = sonic.Unmarshal(data, &set)
	case FormatYAML:
		if err = yaml.Unmarshal(data, &env); err == nil && env.Data != nil {
			return *env.Data, nil
		}
		err = yaml.Unmarshal(data, &set)
	default:
		return model.RecordSet{}, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return model.RecordSet{}, fmt.Errorf("%w: %v", ErrMalformedRecordSet, err)
	}
	return set, nil
}

// ParseFile reads and decodes one record file
func (p *Parser) ParseFile(path string) (model.RecordSet, error) {
	util.LogDebugf("Start parsing record file: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return model.RecordSet{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	set, err := p.Parse(data, DetectFormat(path, data))
	if err != nil {
		return model.RecordSet{}, fmt.Errorf("%s: %w", path, err)
	}

	util.LogDebugf("Parsed %s: %d experiences, %d volunteering", path, len(set.Experiences), len(set.Volunteering))
	return set, nil
}

// ParseFiles decodes files concurrently and merges them in the given order.
// Any malformed file fails the whole batch.
func (p *Parser) ParseFiles(ctx context.Context, files []string) (model.RecordSet, error) {
	start := time.Now()
	results := make([]model.RecordSet, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			set, err := p.ParseFile(file)
			if err != nil {
				return err
			}
			results[i] = set
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.RecordSet{}, err
	}

	var merged model.RecordSet
	for _, set := range results {
		merged = merged.Merge(set)
	}

	util.LogDebugf("Parsed %d record files in %v", len(files), time.Since(start))
	return merged, nil
}
