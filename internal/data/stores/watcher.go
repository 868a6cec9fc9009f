package stores

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 16
)

// Watcher reports keys of a FileKV directory that changed on disk, so an
// open view can pick up writes made by another process.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan string
	log     zerolog.Logger

	mu       sync.Mutex
	debounce map[string]*time.Timer
	closed   bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher starts watching dir. Changed keys are delivered on Events after
// a short debounce; bursts of writes to one key produce a single event.
func NewWatcher(dir string, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fw,
		events:   make(chan string, eventBufferSize),
		log:      log,
		debounce: make(map[string]*time.Timer),
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run(ctx)

	return w, nil
}

// Events returns the channel of changed keys. It is closed by Close.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops watching and closes the events channel.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	for _, timer := range w.debounce {
		timer.Stop()
	}
	w.closed = true
	close(w.events)
	w.mu.Unlock()

	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	key, ok := keyFromFilename(filepath.Base(event.Name))
	if !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if timer, exists := w.debounce[key]; exists {
		timer.Stop()
	}
	w.debounce[key] = time.AfterFunc(debounceDelay, func() {
		w.notify(key)
	})
}

func (w *Watcher) notify(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.debounce, key)
	if w.closed {
		return
	}

	select {
	case w.events <- key:
	default:
		// Receiver is behind; it will reload everything on the next event.
	}
}
