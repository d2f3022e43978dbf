package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow absorbs editor write bursts (truncate + write + chmod).
const debounceWindow = 200 * time.Millisecond

// Watch implements ports.Watchable. It watches the directory containing
// source (watching the file directly breaks on editors that replace via
// rename) and emits the source path whenever its content changes.
// The returned channel closes when ctx is cancelled.
func (l *Loader) Watch(ctx context.Context, source string) (<-chan string, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		defer w.Close()

		var debounce *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return

			case <-fire:
				select {
				case ch <- source:
				default:
					// A notification is already pending; coalesce.
				}

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if debounce == nil {
					debounce = time.NewTimer(debounceWindow)
					fire = debounce.C
				} else {
					debounce.Reset(debounceWindow)
				}

			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return ch, nil
}
