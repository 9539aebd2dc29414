package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/storyatlas/internal/library"
	"github.com/ziadkadry99/storyatlas/internal/nav"
	"github.com/ziadkadry99/storyatlas/internal/story"
	"github.com/ziadkadry99/storyatlas/internal/view"
	"github.com/ziadkadry99/storyatlas/internal/webui"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub owns the served story snapshots and the open viewer sessions. Each
// WebSocket connection gets its own controller over a shared, immutable
// story snapshot; replacing a snapshot (watch mode) tells every open
// session to reload.
type Hub struct {
	store  *library.Store
	icons  view.Icons
	mapCfg webui.MapConfig

	mu       sync.Mutex
	stories  map[string]*story.Story
	sessions map[string]map[*Session]struct{}
}

func NewHub(store *library.Store, icons view.Icons, mapCfg webui.MapConfig) *Hub {
	return &Hub{
		store:    store,
		icons:    icons,
		mapCfg:   mapCfg,
		stories:  make(map[string]*story.Story),
		sessions: make(map[string]map[*Session]struct{}),
	}
}

// RegisterRoutes mounts the story page and its WebSocket endpoint.
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Get("/s/{slug}", h.HandlePage)
	r.Get("/ws/{slug}", h.HandleWS)
}

// SetStory publishes a story snapshot, replacing any previous one under
// the same slug, and notifies that slug's open sessions.
func (h *Hub) SetStory(st *story.Story) {
	h.mu.Lock()
	h.stories[st.Slug] = st
	open := make([]*Session, 0, len(h.sessions[st.Slug]))
	for s := range h.sessions[st.Slug] {
		open = append(open, s)
	}
	h.mu.Unlock()

	for _, s := range open {
		s.notifyReload()
	}
	if len(open) > 0 {
		log.Printf("live: story %s updated, notified %d session(s)", st.Slug, len(open))
	}
}

// Snapshot returns the served story for slug, loading it from the
// library on first use. Returns nil when the slug is unknown.
func (h *Hub) Snapshot(ctx context.Context, slug string) (*story.Story, error) {
	h.mu.Lock()
	st, ok := h.stories[slug]
	h.mu.Unlock()
	if ok {
		return st, nil
	}

	st, err := h.store.LoadStory(ctx, slug)
	if err != nil || st == nil {
		return nil, err
	}
	h.mu.Lock()
	// Another request may have loaded it meanwhile; keep the first.
	if cached, ok := h.stories[slug]; ok {
		st = cached
	} else {
		h.stories[slug] = st
	}
	h.mu.Unlock()
	return st, nil
}

func (h *Hub) addSession(slug string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[slug] == nil {
		h.sessions[slug] = make(map[*Session]struct{})
	}
	h.sessions[slug][s] = struct{}{}
}

func (h *Hub) removeSession(slug string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions[slug], s)
}

func sessionCookie(slug string) string {
	return "storyatlas_sid_" + slug
}

// HandlePage serves the story page with the bootstrap payload injected,
// and pins the viewer's session cookie so their position survives
// reloads.
func (h *Hub) HandlePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	st, err := h.Snapshot(r.Context(), slug)
	if err != nil {
		http.Error(w, "loading story", http.StatusInternalServerError)
		return
	}
	if st == nil {
		http.NotFound(w, r)
		return
	}

	var sid string
	if c, err := r.Cookie(sessionCookie(slug)); err == nil {
		sid = c.Value
	}
	sess, err := h.store.GetOrCreateSession(r.Context(), sid, slug)
	if err != nil {
		log.Printf("live: session for %s: %v", slug, err)
	} else if sess.ID != sid {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie(slug),
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	page, err := webui.Page(st, h.mapCfg)
	if err != nil {
		http.Error(w, "rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// HandleWS runs one viewer's live session: it restores their persisted
// position, performs the initial render after the hello event, and feeds
// navigation inputs to the controller until the connection drops.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	st, err := h.Snapshot(r.Context(), slug)
	if err != nil {
		http.Error(w, "loading story", http.StatusInternalServerError)
		return
	}
	if st == nil {
		http.NotFound(w, r)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	var sid string
	if c, err := r.Cookie(sessionCookie(slug)); err == nil {
		sid = c.Value
	}
	sess, err := h.store.GetOrCreateSession(r.Context(), sid, slug)
	if err != nil {
		log.Printf("live: session for %s: %v", slug, err)
		return
	}

	session := newSession(conn)
	go session.writeLoop()
	defer session.close()

	params := &paramMirror{
		inner:   library.NewSessionParams(h.store, sess),
		session: session,
	}
	synchronizer := view.NewSynchronizer(st, session, session, session, h.icons)
	ctrl := nav.NewController(st, nav.NewCodec(st, params), renderTap{
		view:    synchronizer,
		session: session,
		record:  h.viewRecorder(slug, sess.ID),
	})
	defer ctrl.Close()

	h.addSession(slug, session)
	defer h.removeSession(slug, session)

	initialized := false
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("live: websocket read: %v", err)
			}
			return
		}

		var ev clientEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			log.Printf("live: invalid event: %v", err)
			continue
		}

		if !initialized {
			if ev.Type != "hello" {
				log.Printf("live: event %q before hello", ev.Type)
				continue
			}
			// An explicit chapter in the page URL outranks the stored
			// session position; absence falls back to it.
			if v := ev.Params[nav.ChapterParam]; v != "" {
				params.Set(nav.ChapterParam, v)
			}
			ctrl.Initialize()
			initialized = true
			continue
		}

		switch ev.Type {
		case "start":
			ctrl.Start()
		case "forward":
			ctrl.Forward()
		case "back":
			ctrl.Back()
		case "autoplay":
			ctrl.ToggleAutoplay()
		case "goto":
			ctrl.JumpTo(ev.Index)
		case "reset":
			ctrl.Reset()
		case "hello":
			// Ignore repeats.
		default:
			log.Printf("live: unknown event type %q", ev.Type)
		}
	}
}

func (h *Hub) viewRecorder(slug, sessionID string) func(string) {
	return func(chapterID string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.store.RecordView(ctx, slug, chapterID, sessionID); err != nil {
			log.Printf("live: recording view: %v", err)
		}
	}
}
