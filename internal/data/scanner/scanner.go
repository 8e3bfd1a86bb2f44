package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-career-timeline/internal/util"
)

// DefaultExtensions are the record file types a directory source picks up
var DefaultExtensions = []string{".json", ".yaml", ".yml"}

// FileScanner finds record files under a directory
type FileScanner struct {
	baseDir    string
	extensions []string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string, extensions ...string) *FileScanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return &FileScanner{
		baseDir:    baseDir,
		extensions: exts,
	}
}

// Scan walks the directory and returns matching files in lexical order.
// Hidden files and directories are skipped.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebugf("Start scanning directory: %s", s.baseDir)

	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			util.LogDebugf("Skip file (error): %s - %v", path, err)
			return nil
		}

		if path != s.baseDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if s.matches(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)

	util.LogDebugf("File scan completed: duration %v, scanned %d directories, %d files, found %d record files",
		time.Since(start), dirCount, totalCount, len(files))

	return files, err
}

func (s *FileScanner) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range s.extensions {
		if ext == want {
			return true
		}
	}
	return false
}
