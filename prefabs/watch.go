package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Change reports that a prefab or script on disk was written.
type Change struct {
	Path   string
	Name   string
	Script bool
}

// Watcher reports prefab and script edits under one or more directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches dirs and their scripts/ subdirectory when present.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		scripts := filepath.Join(dir, "scripts")
		if info, err := os.Stat(scripts); err == nil && info.IsDir() {
			if err := w.Add(scripts); err != nil {
				_ = w.Close()
				return nil, err
			}
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Poll returns pending changes without blocking.
func (w *Watcher) Poll() []Change {
	if w == nil {
		return nil
	}
	var out []Change
	for {
		select {
		case c, ok := <-w.Events:
			if !ok {
				return out
			}
			out = append(out, c)
		default:
			return out
		}
	}
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			script := isScriptFile(event.Name)
			if !isSpecFile(event.Name) && !script {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < watchDebounce {
				continue
			}
			last[event.Name] = now
			change := Change{Path: event.Name, Name: changeName(event.Name, script), Script: script}
			select {
			case w.Events <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}

// changeName maps a watched file to the name Load or LoadScript would use.
// Prefab directories are flat, so only the base name matters.
func changeName(path string, script bool) string {
	base := filepath.Base(path)
	if script {
		return cleanScriptPath(base)
	}
	return cleanPrefabPath(base)
}
