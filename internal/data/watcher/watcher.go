package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/data/scanner"
	"github.com/penwyp/go-career-timeline/internal/util"
)

// FileWatcher reports changes to record files. Files are watched through
// their parent directory so editors that replace files atomically are seen.
// Writes that leave the content unchanged are suppressed by fingerprint.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]bool
	events  chan model.FileEvent
	done    chan struct{}

	mu           sync.Mutex
	fingerprints map[string]string
	closeOnce    sync.Once
}

func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher:      watcher,
		files:        make(map[string]bool),
		dirs:         make(map[string]bool),
		events:       make(chan model.FileEvent, 100),
		done:         make(chan struct{}),
		fingerprints: make(map[string]string),
	}

	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		fw.files[path] = true
		fw.remember(path)
		return fw.watcher.Add(filepath.Dir(path))
	}

	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			fw.dirs[p] = true
			return fw.watcher.Add(p)
		}
		fw.remember(p)
		return nil
	})
}

func (fw *FileWatcher) remember(path string) {
	if fp, err := util.CalculateFileFingerprint(path); err == nil {
		fw.fingerprints[path] = fp
	}
}

func (fw *FileWatcher) relevant(path string) bool {
	if fw.files[path] {
		return true
	}
	if !fw.dirs[filepath.Dir(path)] {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range scanner.DefaultExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// changed reports whether the event altered the file's content
func (fw *FileWatcher) changed(event fsnotify.Event) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(fw.fingerprints, event.Name)
		return true
	}

	fp, err := util.CalculateFileFingerprint(event.Name)
	if err != nil {
		return true
	}
	if fw.fingerprints[event.Name] == fp {
		return false
	}
	fw.fingerprints[event.Name] = fp
	return true
}

func (fw *FileWatcher) processEvents() {
	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Clean(event.Name)
			event.Name = name
			if event.Has(fsnotify.Create) && fw.dirs[filepath.Dir(name)] {
				if info, err := os.Stat(name); err == nil && info.IsDir() {
					if fw.watchNewDir(name) {
						fw.emit(name, event.Op)
					}
					continue
				}
			}
			if !fw.relevant(name) || event.Op == fsnotify.Chmod {
				continue
			}
			if !fw.changed(event) {
				util.LogDebugf("Ignoring %s on %s: content unchanged", event.Op, name)
				continue
			}
			fw.emit(name, event.Op)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// watchNewDir starts watching a directory created under a watched one,
// along with its subdirectories. It reports whether record files were
// already inside when it was added.
func (fw *FileWatcher) watchNewDir(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}

	found := false
	_ = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := fw.watcher.Add(p); err != nil {
				util.LogWarnf("Failed to watch new directory %s: %v", p, err)
				return filepath.SkipDir
			}
			fw.dirs[p] = true
			return nil
		}
		if fw.relevant(p) {
			fw.mu.Lock()
			fw.remember(p)
			fw.mu.Unlock()
			found = true
		}
		return nil
	})

	util.LogDebugf("Watching new directory %s", path)
	return found
}

func (fw *FileWatcher) emit(path string, op fsnotify.Op) {
	select {
	case fw.events <- model.FileEvent{Path: path, Operation: op.String()}:
	default:
		util.LogDebugf("Dropping file event for %s: consumer is behind", path)
	}
}

func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
