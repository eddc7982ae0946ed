package markers

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ramanasai/sereni/internal/schedule"
)

// Reloader keeps a Matcher in sync with a catalogue file on disk.
type Reloader struct {
	Path    string
	Matcher *Matcher
	Log     *zap.Logger
	// Delay coalesces a burst of writes into one reload.
	Delay     time.Duration
	Scheduler schedule.Scheduler

	mu    sync.Mutex
	timer schedule.Task
}

// Run watches the catalogue's directory until ctx is cancelled. Editors
// often replace a file by rename, so the directory is watched rather than
// the file itself. A catalogue that fails to load leaves the previous one
// in place.
func (r *Reloader) Run(ctx context.Context) error {
	if r.Log == nil {
		r.Log = zap.NewNop()
	}
	if r.Scheduler == nil {
		r.Scheduler = schedule.Wall{}
	}
	if r.Delay <= 0 {
		r.Delay = 100 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("markers: create watcher: %w", err)
	}
	defer watcher.Close()

	path := filepath.Clean(r.Path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("markers: watch %s: %w", path, err)
	}
	defer r.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Log.Warn("catalogue watcher error", zap.Error(err))
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != path {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			r.enqueue()
		}
	}
}

func (r *Reloader) enqueue() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer == nil {
		r.timer = r.Scheduler.AfterFunc(r.Delay, r.reload)
	}
}

func (r *Reloader) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Reloader) reload() {
	r.mu.Lock()
	r.timer = nil
	r.mu.Unlock()

	c, err := LoadCatalogue(r.Path)
	if err != nil {
		r.Log.Warn("catalogue reload failed, keeping previous", zap.String("path", r.Path), zap.Error(err))
		return
	}
	r.Matcher.Replace(c)
	r.Log.Info("catalogue reloaded", zap.String("path", r.Path), zap.Int("keywords", c.Len()))
}
