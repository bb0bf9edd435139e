package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/vecsync/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last event
// before signalling, so editor save bursts trigger a single sync.
const DefaultDebounce = 500 * time.Millisecond

// Watcher signals when markdown files under the corpus root change.
type Watcher struct {
	root     string
	debounce time.Duration
}

// NewWatcher creates a watcher for the corpus root. A non-positive
// debounce falls back to DefaultDebounce.
func NewWatcher(root string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, debounce: debounce}
}

// Watch emits an empty struct on the returned channel each time the
// tree settles after one or more relevant changes. The channel closes
// when ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := addRecursive(fsw, w.root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)
		defer fsw.Close()

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if !relevant(event) {
					continue
				}
				// New directories must be watched as they appear.
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := addRecursive(fsw, event.Name); err != nil {
							logger.Warn("Watch new directory %s: %v", event.Name, err)
						}
					}
				}
				logger.Debug("Change: %s %s", event.Op, event.Name)
				if timer == nil {
					timer = time.NewTimer(w.debounce)
				} else {
					timer.Reset(w.debounce)
				}
				fire = timer.C

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)

			case <-fire:
				fire = nil
				select {
				case changes <- struct{}{}:
				default: // a signal is already pending
				}
			}
		}
	}()

	return changes, nil
}

// relevant filters events down to markdown writes, creates, removes and
// renames, plus creates and removes of any name (which may be
// directories that extend or shrink the watched tree).
func relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) && event.Op&^fsnotify.Chmod == 0 {
		return false
	}
	if strings.EqualFold(filepath.Ext(event.Name), markdownExt) {
		return true
	}
	return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove)
}

// addRecursive registers every directory under root with the watcher.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees are simply not watched
		}
		if entry.IsDir() {
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}
