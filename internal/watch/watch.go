// Package watch follows a bound value file and reports its settled contents.
//
// The parent directory is watched rather than the file itself so editors that
// save by renaming a temp file over the original keep being followed.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"datepick/internal/store"

	"cloudeng.io/logging/ctxlog"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 150 * time.Millisecond

// Options configure a Watcher.
type Options struct {
	// Path is the bound value file.
	Path string
	// Debounce overrides DefaultDebounce.
	Debounce time.Duration
	// OnValue receives the trimmed first line after each settled change. It is
	// called from the debounce goroutine.
	OnValue func(value string)
}

// Watcher follows one value file.
type Watcher struct {
	path    string
	onValue func(string)
	deb     *debouncer
	fs      *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	ctx     context.Context
	stopped sync.Once
}

// New validates opts. Call Start to begin watching.
func New(opts Options) (*Watcher, error) {
	if opts.Path == "" {
		return nil, errors.New("watch: empty path")
	}
	if opts.OnValue == nil {
		return nil, errors.New("watch: nil OnValue")
	}
	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{path: abs, onValue: opts.OnValue, done: make(chan struct{})}
	w.deb = newDebouncer(opts.Debounce, w.emit)
	return w, nil
}

// Start begins watching. Errors from the event stream are logged to the
// context logger and do not stop the watcher. Start returns once the watch is
// registered.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return err
	}
	w.fs = fw
	w.ctx = ctxlog.WithAttributes(ctx, "bind", w.path)
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop ends watching and waits for the event loop to exit. Pending changes are
// dropped.
func (w *Watcher) Stop() {
	w.stopped.Do(func() {
		close(w.done)
		w.deb.Stop()
		if w.fs != nil {
			_ = w.fs.Close()
		}
		w.wg.Wait()
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.deb.Notify()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			ctxlog.Logger(w.ctx).Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) emit() {
	v, err := store.ReadValueFile(w.path)
	if err != nil {
		// Mid-rename the file may briefly not exist; the Create that follows
		// triggers another read.
		ctxlog.Logger(w.ctx).Debug("read bound value", "error", err)
		return
	}
	ctxlog.Logger(w.ctx).Info("bound value changed", "value", v)
	w.onValue(v)
}
