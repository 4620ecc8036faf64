// internal/watch/watch.go
package watch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"slate/internal/inventory"
)

// Kind classifies observed drift against the inventory baseline.
type Kind string

const (
	Created  Kind = "created"
	Modified Kind = "modified"
	Removed  Kind = "removed"
)

// Event reports one observed change under the watched base path.
type Event struct {
	Path string
	Base string
	Kind Kind
}

// Watcher reports filesystem drift under a base path relative to the
// inventory snapshot taken when the session opened. It is a passive
// observer: it never writes.
type Watcher struct {
	base      string
	inventory *inventory.Inventory
	watcher   *fsnotify.Watcher
	events    chan Event
	logger    *zap.Logger
}

// New starts watching base. Events are delivered on Events() until Close.
func New(base string, inv *inventory.Inventory, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(base); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", base, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		base:      base,
		inventory: inv,
		watcher:   fsw,
		events:    make(chan Event, 16),
		logger:    logger,
	}
	go w.loop()

	return w, nil
}

// Events returns the drift event stream. The channel closes when the watcher
// is closed.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops watching and closes the event stream.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.events)

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event, ok := w.classify(ev); ok {
				w.events <- event
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

// classify maps a raw fsnotify event to a drift event. Directory events and
// chmod-only noise are dropped.
func (w *Watcher) classify(ev fsnotify.Event) (Event, bool) {
	base := filepath.Base(ev.Name)
	_, known := w.inventory.Get(base)

	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return Event{Path: ev.Name, Base: base, Kind: Removed}, true

	case ev.Op&fsnotify.Create != 0:
		if isDir(ev.Name) {
			return Event{}, false
		}
		if known {
			// The inventory saw this basename at session start, so a
			// reappearing file reads as a modification.
			return Event{Path: ev.Name, Base: base, Kind: Modified}, true
		}
		return Event{Path: ev.Name, Base: base, Kind: Created}, true

	case ev.Op&fsnotify.Write != 0:
		return Event{Path: ev.Name, Base: base, Kind: Modified}, true
	}

	return Event{}, false
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
