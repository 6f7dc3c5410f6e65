// Package watch reports when a single command file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// File watches path and sends on the returned channel once per settled
// burst of changes. The parent directory is watched so atomic-rename saves
// are seen. The channel closes when ctx is done or the watcher fails.
func File(ctx context.Context, path string, debounce time.Duration) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: new watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	changes := make(chan struct{}, 1)
	go run(ctx, watcher, abs, debounce, changes)
	return changes, nil
}

func run(ctx context.Context, watcher *fsnotify.Watcher, target string, debounce time.Duration, changes chan<- struct{}) {
	defer close(changes)
	defer watcher.Close()

	settle := newDebouncer(debounce)
	defer settle.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			settle.arm()
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		case <-settle.C():
			select {
			case changes <- struct{}{}:
			default:
			}
		}
	}
}

// debouncer is a stopped timer that each event pushes back by window.
type debouncer struct {
	timer  *time.Timer
	window time.Duration
}

func newDebouncer(window time.Duration) *debouncer {
	timer := time.NewTimer(window)
	if !timer.Stop() {
		<-timer.C
	}
	return &debouncer{timer: timer, window: window}
}

func (d *debouncer) C() <-chan time.Time { return d.timer.C }

// arm restarts the window. A tick that already fired but was never received
// is discarded, so a burst produces one notification.
func (d *debouncer) arm() {
	if !d.timer.Stop() {
		select {
		case <-d.timer.C:
		default:
		}
	}
	d.timer.Reset(d.window)
}

func (d *debouncer) stop() { d.timer.Stop() }
