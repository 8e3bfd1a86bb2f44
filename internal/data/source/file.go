package source

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/data/parser"
	"github.com/penwyp/go-career-timeline/internal/data/scanner"
)

// FileSource reads one JSON or YAML record file
type FileSource struct {
	path   string
	parser *parser.Parser
}

// NewFileSource creates a source for one record file
func NewFileSource(path string, p *parser.Parser) *FileSource {
	return &FileSource{path: path, parser: p}
}

func (s *FileSource) Fetch(ctx context.Context) (model.RecordSet, error) {
	if err := ctx.Err(); err != nil {
		return model.RecordSet{}, err
	}
	return s.parser.ParseFile(s.path)
}

func (s *FileSource) Describe() string {
	return "file:" + s.path
}

// DirSource merges every record file found under a directory
type DirSource struct {
	dir    string
	parser *parser.Parser
}

// NewDirSource creates a source that scans dir on every fetch
func NewDirSource(dir string, p *parser.Parser) *DirSource {
	return &DirSource{dir: dir, parser: p}
}

func (s *DirSource) Fetch(ctx context.Context) (model.RecordSet, error) {
	files, err := scanner.NewFileScanner(s.dir).Scan()
	if err != nil {
		return model.RecordSet{}, fmt.Errorf("failed to scan %s: %w", s.dir, err)
	}
	return s.parser.ParseFiles(ctx, files)
}

func (s *DirSource) Describe() string {
	return "dir:" + s.dir
}

// ReaderSource decodes a single stream, such as stdin. The stream is read
// once; later fetches return the first result.
type ReaderSource struct {
	name   string
	r      io.Reader
	parser *parser.Parser

	once sync.Once
	set  model.RecordSet
	err  error
}

// NewReaderSource creates a source reading r once; name is used in logs
func NewReaderSource(name string, r io.Reader, p *parser.Parser) *ReaderSource {
	return &ReaderSource{name: name, r: r, parser: p}
}

func (s *ReaderSource) Fetch(ctx context.Context) (model.RecordSet, error) {
	if err := ctx.Err(); err != nil {
		return model.RecordSet{}, err
	}
	s.once.Do(func() {
		data, err := io.ReadAll(s.r)
		if err != nil {
			s.err = fmt.Errorf("failed to read %s: %w", s.name, err)
			return
		}
		s.set, s.err = s.parser.Parse(data, parser.FormatAuto)
	})
	return s.set, s.err
}

func (s *ReaderSource) Describe() string {
	return s.name
}
