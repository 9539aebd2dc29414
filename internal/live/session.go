package live

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/storyatlas/internal/nav"
	"github.com/ziadkadry99/storyatlas/internal/story"
	"github.com/ziadkadry99/storyatlas/internal/view"
)

// Session is the browser side of one viewer's collaborators: it turns
// Surface, Camera and Markers calls into queued ops and ships them over
// the WebSocket. All view calls are fire-and-forget; the session never
// waits for the browser.
type Session struct {
	conn *websocket.Conn

	mu      sync.Mutex
	pending []wireOp

	send chan []byte
	done chan struct{}
	once sync.Once
}

func newSession(conn *websocket.Conn) *Session {
	return &Session{
		conn: conn,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
}

// writeLoop is the sole writer on the connection.
func (s *Session) writeLoop() {
	for {
		select {
		case msg := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("live: websocket write: %v", err)
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) close() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *Session) enqueue(op wireOp) {
	s.mu.Lock()
	s.pending = append(s.pending, op)
	s.mu.Unlock()
}

// flush ships everything queued since the last flush as one batch, so
// all surface updates of a transition apply together.
func (s *Session) flush() {
	s.mu.Lock()
	ops := s.pending
	s.pending = nil
	s.mu.Unlock()
	if len(ops) == 0 {
		return
	}
	s.post(wireEnvelope{Type: "apply", Ops: ops})
}

func (s *Session) post(env wireEnvelope) {
	msg, err := json.Marshal(env)
	if err != nil {
		log.Printf("live: marshalling envelope: %v", err)
		return
	}
	select {
	case s.send <- msg:
	case <-s.done:
	}
}

// notifyReload tells the browser the story changed underneath it.
func (s *Session) notifyReload() {
	s.post(wireEnvelope{Type: "storyReload"})
}

// Surface.

func (s *Session) SetText(target, value string) {
	s.enqueue(wireOp{Op: "setText", Target: target, Value: value})
}

func (s *Session) SetHTML(target, html string) {
	s.enqueue(wireOp{Op: "setHTML", Target: target, Value: html})
}

func (s *Session) SetImage(target, src, alt string) {
	s.enqueue(wireOp{Op: "setImage", Target: target, Src: src, Alt: alt})
}

func (s *Session) SetDisabled(target string, disabled bool) {
	s.enqueue(wireOp{Op: "setDisabled", Target: target, Disabled: disabled})
}

func (s *Session) SetIcon(target, markup string) {
	s.enqueue(wireOp{Op: "setIcon", Target: target, Value: markup})
}

func (s *Session) SetPane(p view.Pane) {
	s.enqueue(wireOp{Op: "setPane", Pane: string(p)})
}

// Camera.

func (s *Session) FlyTo(f view.Flight) {
	s.enqueue(wireOp{
		Op:         "flyTo",
		Lat:        f.Coords.Lat,
		Lng:        f.Coords.Lng,
		DurationMs: f.Duration.Milliseconds(),
		Pitch:      f.Pitch,
		Heading:    f.Heading,
		Roll:       f.Roll,
		Zoom:       f.Zoom,
	})
}

func (s *Session) CreateHighlight(c story.Coordinates, radiusMeters float64) {
	s.enqueue(wireOp{Op: "highlight", Lat: c.Lat, Lng: c.Lng, RadiusM: radiusMeters})
}

func (s *Session) RemoveHighlight() {
	s.enqueue(wireOp{Op: "clearHighlight"})
}

// Markers.

func (s *Session) Select(index int) {
	s.enqueue(wireOp{Op: "selectMarker", Index: index})
}

func (s *Session) Clear() {
	s.enqueue(wireOp{Op: "clearMarker"})
}

// paramMirror wraps the session's parameter store and mirrors chapter
// parameter writes into the browser URL, keeping the address bar
// shareable while the session row keeps the durable copy.
type paramMirror struct {
	inner   nav.Params
	session *Session
}

func (p *paramMirror) Get(name string) (string, bool) {
	return p.inner.Get(name)
}

func (p *paramMirror) Set(name, value string) {
	p.inner.Set(name, value)
	p.session.enqueue(wireOp{Op: "setParam", Name: name, Value: value})
}

func (p *paramMirror) Clear(name string) {
	p.inner.Clear(name)
	p.session.enqueue(wireOp{Op: "clearParam", Name: name})
}

// renderTap wraps the synchronizer with transition boundaries: each full
// render (and each autoplay glyph change) flushes the queued ops as one
// batch, and chapter entries are recorded for stats.
type renderTap struct {
	view    *view.Synchronizer
	session *Session
	record  func(chapterID string)
}

func (r renderTap) RenderChapter(ch *story.Chapter, i int) {
	r.view.RenderChapter(ch, i)
	if r.record != nil {
		r.record(ch.ID)
	}
	r.session.flush()
}

func (r renderTap) RenderIntro() {
	r.view.RenderIntro()
	r.session.flush()
}

func (r renderTap) SelectMarker(i int) {
	r.view.SelectMarker(i)
}

func (r renderTap) ClearMarker() {
	r.view.ClearMarker()
}

func (r renderTap) SetAutoplayIcon(playing bool) {
	r.view.SetAutoplayIcon(playing)
	r.session.flush()
}
