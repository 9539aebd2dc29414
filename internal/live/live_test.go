package live

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/storyatlas/internal/db"
	"github.com/ziadkadry99/storyatlas/internal/library"
	"github.com/ziadkadry99/storyatlas/internal/story"
	"github.com/ziadkadry99/storyatlas/internal/webui"
)

const liveTestYAML = `story:
  title: Voyage of the Beagle
  description: Five years around the world.
  created_by: Charles Darwin
  coords:
    lat: -0.95
    lng: -90.97
  camera:
    zoom: 3
chapters:
  - id: devonport
    title: Devonport
    content: The voyage begins.
    coords:
      lat: 50.37
      lng: -4.17
    camera:
      zoom: 10
  - id: galapagos
    title: The Galapagos
    content: Finches everywhere.
    coords:
      lat: -0.95
      lng: -90.97
    camera:
      zoom: 8
`

func setupHub(t *testing.T) (*Hub, *library.Store) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := library.NewStore(database)
	if err := store.UpsertStory(t.Context(), "beagle", "Voyage of the Beagle", []byte(liveTestYAML)); err != nil {
		t.Fatalf("seeding story: %v", err)
	}

	return NewHub(store, webui.IconSet{}, webui.MapConfig{}), store
}

func setupServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub, _ := setupHub(t)
	r := chi.NewRouter()
	hub.RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return hub, server
}

func dialStory(t *testing.T, server *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/beagle"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, ev clientEvent) {
	t.Helper()
	if err := conn.WriteJSON(ev); err != nil {
		t.Fatalf("write %s: %v", ev.Type, err)
	}
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wireEnvelope {
	t.Helper()
	var env wireEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	return env
}

// readApplyWithOp reads envelopes until one carries the named op.
func readApplyWithOp(t *testing.T, conn *websocket.Conn, op string) wireEnvelope {
	t.Helper()
	for i := 0; i < 10; i++ {
		env := readEnvelope(t, conn)
		if env.Type != "apply" {
			continue
		}
		if _, ok := findOp(env.Ops, op, ""); ok {
			return env
		}
	}
	t.Fatalf("no apply envelope carried op %s", op)
	return wireEnvelope{}
}

func findOp(ops []wireOp, op, target string) (wireOp, bool) {
	for _, o := range ops {
		if o.Op == op && (target == "" || o.Target == target) {
			return o, true
		}
	}
	return wireOp{}, false
}

func TestPageServesBootstrap(t *testing.T) {
	_, server := setupServer(t)

	resp, err := http.Get(server.URL + "/s/beagle")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}

	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == "storyatlas_sid_beagle" {
			sid = c.Value
		}
	}
	if sid == "" {
		t.Error("expected a session cookie")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading page: %v", err)
	}
	if !strings.Contains(string(body), `"slug":"beagle"`) {
		t.Error("expected injected story data")
	}
}

func TestPageUnknownStory(t *testing.T) {
	_, server := setupServer(t)

	resp, err := http.Get(server.URL + "/s/nope")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWebSocketUnknownStory(t *testing.T) {
	_, server := setupServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/nope"
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Fatal("expected dial to fail for unknown story")
	}
}

func TestHelloRendersIntro(t *testing.T) {
	_, server := setupServer(t)
	conn := dialStory(t, server, nil)

	sendEvent(t, conn, clientEvent{Type: "hello", Params: map[string]string{}})
	env := readEnvelope(t, conn)

	if env.Type != "apply" {
		t.Fatalf("expected apply, got %q", env.Type)
	}
	if op, ok := findOp(env.Ops, "setPane", ""); !ok || op.Pane != "intro" {
		t.Errorf("expected intro pane, got %+v", op)
	}
	if op, ok := findOp(env.Ops, "setText", "title"); !ok || op.Value != "Voyage of the Beagle" {
		t.Errorf("expected story title, got %+v", op)
	}
	if op, ok := findOp(env.Ops, "setText", "attribution"); !ok || op.Value != "A story by Charles Darwin" {
		t.Errorf("expected story attribution, got %+v", op)
	}
	if op, ok := findOp(env.Ops, "flyTo", ""); !ok || op.DurationMs != 1000 {
		t.Errorf("expected 1000ms intro flight, got %+v", op)
	}
}

func TestEventsBeforeHelloIgnored(t *testing.T) {
	_, server := setupServer(t)
	conn := dialStory(t, server, nil)

	sendEvent(t, conn, clientEvent{Type: "forward"})
	sendEvent(t, conn, clientEvent{Type: "hello"})

	env := readEnvelope(t, conn)
	if op, ok := findOp(env.Ops, "setPane", ""); !ok || op.Pane != "intro" {
		t.Errorf("expected intro despite early forward, got %+v", op)
	}
}

func TestStartEntersFirstChapter(t *testing.T) {
	_, server := setupServer(t)
	conn := dialStory(t, server, nil)

	sendEvent(t, conn, clientEvent{Type: "hello"})
	readEnvelope(t, conn)

	sendEvent(t, conn, clientEvent{Type: "start"})

	// Stopping autoplay flushes its own icon batch before the render.
	env := readEnvelope(t, conn)
	if len(env.Ops) != 1 || env.Ops[0].Op != "setIcon" {
		t.Fatalf("expected a lone setIcon batch first, got %+v", env.Ops)
	}

	env = readEnvelope(t, conn)
	if op, ok := findOp(env.Ops, "setParam", ""); !ok || op.Name != "chapter" || op.Value != "devonport" {
		t.Errorf("expected chapter param mirror, got %+v", op)
	}
	if _, ok := findOp(env.Ops, "selectMarker", ""); !ok {
		t.Error("expected marker selection")
	}
	if op, ok := findOp(env.Ops, "setPane", ""); !ok || op.Pane != "details" {
		t.Errorf("expected details pane, got %+v", op)
	}
	if op, ok := findOp(env.Ops, "setText", "title"); !ok || op.Value != "Devonport" {
		t.Errorf("expected chapter title, got %+v", op)
	}
	if op, ok := findOp(env.Ops, "setText", "chapter-index"); !ok || op.Value != "1 / 2" {
		t.Errorf("expected chapter index, got %+v", op)
	}
	if op, ok := findOp(env.Ops, "flyTo", ""); !ok || op.DurationMs != 1500 {
		t.Errorf("expected 1500ms chapter flight, got %+v", op)
	}
	if op, ok := findOp(env.Ops, "highlight", ""); !ok || op.RadiusM != 250 {
		t.Errorf("expected 250m highlight, got %+v", op)
	}
}

func TestForwardBlockedAtLastChapter(t *testing.T) {
	_, server := setupServer(t)
	conn := dialStory(t, server, nil)

	sendEvent(t, conn, clientEvent{Type: "hello"})
	readEnvelope(t, conn)

	sendEvent(t, conn, clientEvent{Type: "goto", Index: 1})
	env := readApplyWithOp(t, conn, "setPane")
	if op, ok := findOp(env.Ops, "setText", "chapter-index"); !ok || op.Value != "2 / 2" {
		t.Errorf("expected last chapter, got %+v", op)
	}
	if op, ok := findOp(env.Ops, "setDisabled", "nav-forward"); !ok || !op.Disabled {
		t.Errorf("expected forward disabled at last chapter, got %+v", op)
	}

	// A blocked forward only yields the icon batch, no render.
	sendEvent(t, conn, clientEvent{Type: "forward"})
	env = readEnvelope(t, conn)
	if len(env.Ops) != 1 || env.Ops[0].Op != "setIcon" {
		t.Fatalf("expected no render past the last chapter, got %+v", env.Ops)
	}

	sendEvent(t, conn, clientEvent{Type: "reset"})
	env = readApplyWithOp(t, conn, "setPane")
	if op, _ := findOp(env.Ops, "setPane", ""); op.Pane != "intro" {
		t.Errorf("expected intro after reset, got %+v", op)
	}
	if _, ok := findOp(env.Ops, "clearParam", ""); !ok {
		t.Error("expected chapter param cleared on reset")
	}
}

func TestURLParamWins(t *testing.T) {
	_, server := setupServer(t)
	conn := dialStory(t, server, nil)

	sendEvent(t, conn, clientEvent{Type: "hello", Params: map[string]string{"chapter": "galapagos"}})
	env := readEnvelope(t, conn)

	if op, ok := findOp(env.Ops, "setPane", ""); !ok || op.Pane != "details" {
		t.Fatalf("expected details pane, got %+v", op)
	}
	if op, ok := findOp(env.Ops, "setText", "title"); !ok || op.Value != "The Galapagos" {
		t.Errorf("expected galapagos chapter, got %+v", op)
	}
}

func TestStaleParamFallsBackToIntro(t *testing.T) {
	_, server := setupServer(t)
	conn := dialStory(t, server, nil)

	sendEvent(t, conn, clientEvent{Type: "hello", Params: map[string]string{"chapter": "atlantis"}})
	env := readEnvelope(t, conn)

	if op, ok := findOp(env.Ops, "setPane", ""); !ok || op.Pane != "intro" {
		t.Errorf("expected intro for unknown chapter, got %+v", op)
	}
}

func TestSessionRestoredAcrossConnections(t *testing.T) {
	_, server := setupServer(t)

	resp, err := http.Get(server.URL + "/s/beagle")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	resp.Body.Close()

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "storyatlas_sid_beagle" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}
	header := http.Header{}
	header.Add("Cookie", cookie.Name+"="+cookie.Value)

	conn := dialStory(t, server, header)
	sendEvent(t, conn, clientEvent{Type: "hello"})
	readEnvelope(t, conn)

	sendEvent(t, conn, clientEvent{Type: "start"})
	readApplyWithOp(t, conn, "setParam")
	conn.Close()

	// A fresh connection with the same cookie resumes at the chapter.
	conn2 := dialStory(t, server, header)
	sendEvent(t, conn2, clientEvent{Type: "hello"})
	env := readEnvelope(t, conn2)

	if op, ok := findOp(env.Ops, "setPane", ""); !ok || op.Pane != "details" {
		t.Fatalf("expected restored chapter, got %+v", op)
	}
	if op, ok := findOp(env.Ops, "setText", "title"); !ok || op.Value != "Devonport" {
		t.Errorf("expected devonport restored, got %+v", op)
	}
}

func TestURLParamOverridesSession(t *testing.T) {
	_, server := setupServer(t)

	resp, err := http.Get(server.URL + "/s/beagle")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	resp.Body.Close()

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "storyatlas_sid_beagle" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}
	header := http.Header{}
	header.Add("Cookie", cookie.Name+"="+cookie.Value)

	conn := dialStory(t, server, header)
	sendEvent(t, conn, clientEvent{Type: "hello"})
	readEnvelope(t, conn)
	sendEvent(t, conn, clientEvent{Type: "start"})
	readApplyWithOp(t, conn, "setParam")
	conn.Close()

	// The shared link's chapter outranks the stored position.
	conn2 := dialStory(t, server, header)
	sendEvent(t, conn2, clientEvent{Type: "hello", Params: map[string]string{"chapter": "galapagos"}})
	env := readEnvelope(t, conn2)

	if op, ok := findOp(env.Ops, "setText", "title"); !ok || op.Value != "The Galapagos" {
		t.Errorf("expected URL param to win, got %+v", op)
	}
}

func TestAutoplayIconOverWire(t *testing.T) {
	_, server := setupServer(t)
	conn := dialStory(t, server, nil)

	sendEvent(t, conn, clientEvent{Type: "hello"})
	readEnvelope(t, conn)

	sendEvent(t, conn, clientEvent{Type: "autoplay"})
	env := readEnvelope(t, conn)
	if op, ok := findOp(env.Ops, "setIcon", "nav-autoplay"); !ok || !strings.Contains(op.Value, "<svg") {
		t.Fatalf("expected autoplay icon markup, got %+v", op)
	}
	pause := env.Ops[0].Value

	sendEvent(t, conn, clientEvent{Type: "autoplay"})
	env = readEnvelope(t, conn)
	if op, ok := findOp(env.Ops, "setIcon", "nav-autoplay"); !ok || op.Value == pause {
		t.Errorf("expected the glyph to flip back, got %+v", op)
	}
}

func TestStoryReloadBroadcast(t *testing.T) {
	hub, server := setupServer(t)
	conn := dialStory(t, server, nil)

	sendEvent(t, conn, clientEvent{Type: "hello"})
	readEnvelope(t, conn)

	st, err := story.Parse([]byte(liveTestYAML))
	if err != nil {
		t.Fatalf("parsing story: %v", err)
	}
	st.Slug = "beagle"
	hub.SetStory(st)

	env := readEnvelope(t, conn)
	if env.Type != "storyReload" {
		t.Fatalf("expected storyReload, got %q", env.Type)
	}
}

func TestViewEventsRecorded(t *testing.T) {
	hub, store := setupHub(t)
	r := chi.NewRouter()
	hub.RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	conn := dialStory(t, server, nil)
	sendEvent(t, conn, clientEvent{Type: "hello"})
	readEnvelope(t, conn)
	sendEvent(t, conn, clientEvent{Type: "start"})
	readApplyWithOp(t, conn, "setParam")
	sendEvent(t, conn, clientEvent{Type: "forward"})
	readApplyWithOp(t, conn, "setParam")

	stats, err := store.Stats(t.Context(), "beagle")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Views != 2 {
		t.Errorf("expected 2 view events, got %d", stats.Views)
	}
}
