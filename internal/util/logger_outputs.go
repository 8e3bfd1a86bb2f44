package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// writerOutput writes entries line by line to any io.Writer
type writerOutput struct {
	writer io.Writer
	closer io.Closer
	format LogFormat
	mu     sync.Mutex
}

// NewConsoleOutput creates an output writing to writer (usually stderr)
func NewConsoleOutput(writer io.Writer, format LogFormat) Output {
	return &writerOutput{writer: writer, format: format}
}

// NewFileOutput creates an output appending to the file at path, creating parent dirs
func NewFileOutput(path string, format LogFormat) (Output, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &writerOutput{writer: file, closer: file, format: format}, nil
}

func (w *writerOutput) Write(entry LogEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var line string
	if w.format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return err
		}
		line = string(data)
	} else {
		line = formatText(entry)
	}

	_, err := fmt.Fprintln(w.writer, line)
	return err
}

func (w *writerOutput) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
