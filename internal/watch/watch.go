// Package watch reports file changes under a path using fsnotify.
// A directory is watched recursively; a single file is watched through its
// parent directory. A burst of events for one path is collapsed into a single
// callback, delivered once the path has been quiet for DebounceInterval.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is how long a path must be quiet before its callback runs.
const DebounceInterval = 50 * time.Millisecond

var ignoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".skipscan":    true,
	"node_modules": true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
}

var ignoreSuffixes = []string{".swp", ".swx", "~", ".DS_Store"}

// Watcher delivers change notifications for one watched path.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	mu      sync.Mutex
	stopped bool
}

// New creates a watcher. Call Stop to release it.
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fw: fw, done: make(chan struct{})}, nil
}

// Watch starts monitoring path. onChange receives the absolute path of every
// written, created, removed or renamed file, after the last event of a burst.
// Calls are serialized on the watcher goroutine.
func (w *Watcher) Watch(path string, onChange func(path string)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	var only string
	if info.IsDir() {
		if err := w.addTree(abs); err != nil {
			return err
		}
	} else {
		only = abs
		if err := w.fw.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}

	go w.loop(only, onChange)
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && ignoreDirs[d.Name()] {
			return filepath.SkipDir
		}
		return w.fw.Add(p)
	})
}

func (w *Watcher) loop(only string, onChange func(string)) {
	pending := make(map[string]*time.Timer)
	fire := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if only != "" && ev.Name != only {
				continue
			}
			if only == "" && ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !ignoreDirs[fi.Name()] {
					w.addTree(ev.Name)
					continue
				}
			}
			if ignored(ev.Name) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			name := ev.Name
			if t, ok := pending[name]; ok {
				t.Reset(DebounceInterval)
				continue
			}
			pending[name] = time.AfterFunc(DebounceInterval, func() {
				select {
				case fire <- name:
				case <-w.done:
				}
			})

		case name := <-fire:
			delete(pending, name)
			onChange(name)

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}

// Stop ends monitoring. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

func ignored(path string) bool {
	base := filepath.Base(path)
	for _, s := range ignoreSuffixes {
		if strings.HasSuffix(base, s) {
			return true
		}
	}
	for _, part := range strings.Split(filepath.Dir(path), string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}
	return false
}
