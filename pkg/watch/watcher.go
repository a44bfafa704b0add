// Package watch re-runs work when watched files change.
//
// Events for matching files are coalesced: the callback fires once per quiet
// period of Debounce with the deduplicated set of changed paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const defaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned when Run is called twice
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// Config holds the parameters for a Watcher
type Config struct {
	// Roots are directories watched recursively, or single files
	Roots []string
	// Match selects the files that trigger OnChange. nil matches everything.
	Match func(path string) bool
	// Debounce is the quiet period before OnChange fires
	Debounce time.Duration
	// OnChange receives the sorted changed paths
	OnChange func(ctx context.Context, changed []string) error
	Logger   logrus.FieldLogger
}

// Watcher monitors directories and fires a debounced callback
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	log      logrus.FieldLogger
	debounce time.Duration
	started  atomic.Bool
}

// New creates a Watcher and registers every directory below cfg.Roots
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Roots) == 0 {
		return nil, errors.New("watch: no roots to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		log:      cfg.Logger,
		debounce: cfg.Debounce,
	}
	if w.log == nil {
		w.log = logrus.New()
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}

	for _, root := range cfg.Roots {
		if err := w.addRoot(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks.
// Callbacks never overlap; events arriving during a callback are delivered afterwards.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.fsw.Close()

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running sync.Mutex
	)

	fire := func() {
		running.Lock()
		defer running.Unlock()
		if ctx.Err() != nil {
			return
		}

		mu.Lock()
		changed := make([]string, 0, len(pending))
		for path := range pending {
			changed = append(changed, path)
		}
		clear(pending)
		mu.Unlock()

		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}
		sort.Strings(changed)
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.log.WithError(err).Warn("Watch callback failed")
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed")
			}

			// Also watch new directories
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := w.addRoot(event.Name); err != nil {
						w.log.WithError(err).Warnf("Could not watch %s", event.Name)
					}
				}
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if w.cfg.Match != nil && !w.cfg.Match(event.Name) {
				continue
			}

			w.log.Debugf("Modified file: %s", event.Name)
			mu.Lock()
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed")
			}
			w.log.WithError(err).Warn("Watcher error")
		}
	}
}

// addRoot adds a file, or a directory and its subdirectories, to the watcher
func (w *Watcher) addRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return w.fsw.Add(root)
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}
