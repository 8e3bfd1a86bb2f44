package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/data/parser"
	"github.com/penwyp/go-career-timeline/internal/util"
	"golang.org/x/sync/errgroup"
)

// Source supplies one record set per fetch
type Source interface {
	Fetch(ctx context.Context) (model.RecordSet, error)
	Describe() string
}

// New picks a Source for a location: "-" is stdin, http(s) URLs are
// fetched remotely, directories are scanned and anything else is a file.
func New(location string, p *parser.Parser) (Source, error) {
	if p == nil {
		p = parser.NewParser(4)
	}
	location = strings.TrimSpace(location)

	switch {
	case location == "":
		return nil, fmt.Errorf("no input source given")
	case location == "-":
		return NewReaderSource("stdin", os.Stdin, p), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, p), nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input %s: %w", location, err)
	}
	if info.IsDir() {
		util.LogDebugf("Using directory source: %s", location)
		return NewDirSource(location, p), nil
	}
	return NewFileSource(location, p), nil
}

// NewMulti builds one Source per location and combines them
func NewMulti(locations []string, p *parser.Parser) (Source, error) {
	if len(locations) == 1 {
		return New(locations[0], p)
	}
	sources := make([]Source, 0, len(locations))
	for _, loc := range locations {
		src, err := New(loc, p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return NewMultiSource(sources...), nil
}

// MultiSource fetches several sources concurrently and merges them in order
type MultiSource struct {
	sources []Source
}

// NewMultiSource combines sources in the given order
func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

func (m *MultiSource) Fetch(ctx context.Context) (model.RecordSet, error) {
	results := make([]model.RecordSet, len(m.sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range m.sources {
		i, src := i, src
		g.Go(func() error {
			set, err := src.Fetch(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Describe(), err)
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
	return merged, nil
}

func (m *MultiSource) Describe() string {
	names := make([]string, len(m.sources))
	for i, src := range m.sources {
		names[i] = src.Describe()
	}
	return strings.Join(names, ", ")
}

// Paths returns the local files behind src, for watching
func Paths(src Source) []string {
	switch s := src.(type) {
	case *FileSource:
		return []string{s.path}
	case *DirSource:
		return []string{s.dir}
	case *CachedSource:
		return Paths(s.source)
	case *MultiSource:
		var paths []string
		for _, inner := range s.sources {
			paths = append(paths, Paths(inner)...)
		}
		return paths
	default:
		return nil
	}
}
