package library

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ziadkadry99/storyatlas/internal/nav"
)

// SessionParams is a nav.Params implementation backed by a session row,
// so a viewer's position survives reconnects and full page reloads. Reads
// are served from memory; the chapter parameter is written through to the
// database best-effort. A write failure costs durability, not
// correctness: navigation keeps deriving state from the in-memory value.
type SessionParams struct {
	mu    sync.Mutex
	store *Store
	id    string
	vals  map[string]string
}

// NewSessionParams wraps an existing session, seeding the chapter
// parameter from its persisted value.
func NewSessionParams(store *Store, sess *Session) *SessionParams {
	p := &SessionParams{store: store, id: sess.ID, vals: make(map[string]string)}
	if sess.ChapterParam != "" {
		p.vals[nav.ChapterParam] = sess.ChapterParam
	}
	return p
}

// SessionID returns the wrapped session's ID.
func (p *SessionParams) SessionID() string {
	return p.id
}

func (p *SessionParams) Get(name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.vals[name]
	return v, ok
}

func (p *SessionParams) Set(name, value string) {
	p.mu.Lock()
	p.vals[name] = value
	p.mu.Unlock()
	if name == nav.ChapterParam {
		p.persist(value)
	}
}

func (p *SessionParams) Clear(name string) {
	p.mu.Lock()
	delete(p.vals, name)
	p.mu.Unlock()
	if name == nav.ChapterParam {
		p.persist("")
	}
}

func (p *SessionParams) persist(value string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.store.SaveSessionParam(ctx, p.id, value); err != nil {
		log.Printf("session %s: %v", p.id, err)
	}
}
