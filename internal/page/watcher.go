package page

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/inboxdot/inboxdot/internal/logging"
)

// Watcher is the document change-notification feed: it watches the snapshot
// file and emits a (coalesced) signal whenever its structure may have changed.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	logger  zerolog.Logger
}

// WatchFile starts watching the snapshot file for changes. The containing
// directory is watched so that atomic replace-writes are still observed.
func WatchFile(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch snapshot directory: %w", err)
	}

	w := &Watcher{
		path:    path,
		watcher: fsw,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logging.Component("watcher"),
	}
	go w.loop()
	return w, nil
}

// Changes returns the change feed. Signals are coalesced: a pending signal
// absorbs any number of underlying events.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and closes the change feed.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isSnapshotEvent(event) {
				continue
			}
			w.logger.Debug().Str("op", event.Op.String()).Msg("snapshot changed")
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) isSnapshotEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}
