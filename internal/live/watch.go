package live

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ziadkadry99/storyatlas/internal/library"
	"github.com/ziadkadry99/storyatlas/internal/story"
)

// Watcher reloads the served story when its source file changes on
// disk. It watches the file's directory rather than the file itself,
// since editors that save through a rename would otherwise drop the
// watch.
type Watcher struct {
	path  string
	slug  string
	hub   *Hub
	store *library.Store

	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending time.Time
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher prepares a watcher for the story file at path, which is
// served under slug. Call Start to begin watching.
func NewWatcher(path, slug string, hub *Hub, store *library.Store) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		path:     abs,
		slug:     slug,
		hub:      hub,
		store:    store,
		watcher:  fw,
		debounce: 300 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine. Safe to call once.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	log.Printf("watch: watching %s", w.path)
	go w.run()
	return nil
}

// Stop ends watching and waits for the event loop to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		log.Printf("watch: closing watcher: %v", err)
	}
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	// Rapid saves settle in the debounce window before triggering a
	// single reload.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
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
			log.Printf("watch: %v", err)
		case <-ticker.C:
			w.processSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processSettled() {
	w.mu.Lock()
	ready := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
	if ready {
		w.pending = time.Time{}
	}
	w.mu.Unlock()
	if ready {
		w.reload()
	}
}

// reload parses the changed file and publishes it under the original
// slug, so open sessions stay attached even when the title changed. A
// file that no longer parses leaves the served story as it was.
func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		log.Printf("watch: reading %s: %v", w.path, err)
		return
	}
	st, err := story.Parse(data)
	if err != nil {
		log.Printf("watch: reload %s: %v", w.path, err)
		return
	}
	if err := st.Validate(); err != nil {
		log.Printf("watch: reload %s: %v", w.path, err)
		return
	}
	for _, warn := range st.Warnings() {
		log.Printf("watch: %s: %s", w.path, warn)
	}
	st.Slug = w.slug

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.store.UpsertStory(ctx, st.Slug, st.Properties.Title, data); err != nil {
		log.Printf("watch: saving %s: %v", w.slug, err)
	}
	w.hub.SetStory(st)
	log.Printf("watch: reloaded %s", w.slug)
}
