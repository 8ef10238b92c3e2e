// Package watch reports changes to the tracker database made by other processes.
package watch

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Event is a change to one of the database files.
type Event struct {
	Path string
	Op   string
}

// Watcher watches the directory holding the database.
type Watcher struct {
	watcher *fsnotify.Watcher
	base    string
	events  chan Event
	log     zerolog.Logger
}

// New watches the directory of dbPath and emits events for the database
// file and its -wal/-journal siblings.
func New(dbPath string, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(dbPath)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	w := &Watcher{
		watcher: fw,
		base:    filepath.Base(dbPath),
		events:  make(chan Event, 16),
		log:     log.With().Str("component", "watch").Logger(),
	}
	go w.processEvents()
	return w, nil
}

func (w *Watcher) processEvents() {
	defer close(w.events)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event) {
				continue
			}
			select {
			case w.events <- Event{Path: event.Name, Op: event.Op.String()}:
			default:
				// A pending event already triggers a reload.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("file watch error")
		}
	}
}

func (w *Watcher) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return false
	}
	return strings.HasPrefix(filepath.Base(event.Name), w.base)
}

// Events returns the channel of database change events. It is closed after Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
