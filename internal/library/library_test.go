package library

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/storyatlas/internal/db"
	"github.com/ziadkadry99/storyatlas/internal/nav"
)

const testStoryYAML = `
story:
  title: Voyage of the Beagle
  description: Around the world.
  created_by: C. Darwin
  coords: {lat: 50.36, lng: -4.14}
chapters:
  - id: devonport
    title: Devonport
    content: The voyage begins.
    coords: {lat: 50.37, lng: -4.17}
  - id: galapagos
    title: Galápagos
    content: Finches everywhere.
    coords: {lat: -0.77, lng: -91.14}
`

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func seedStory(t *testing.T, store *Store, slug string) {
	t.Helper()
	if err := store.UpsertStory(context.Background(), slug, "Voyage of the Beagle", []byte(testStoryYAML)); err != nil {
		t.Fatalf("UpsertStory: %v", err)
	}
}

func TestUpsertAndLoadStory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seedStory(t, store, "beagle")

	st, err := store.LoadStory(ctx, "beagle")
	if err != nil {
		t.Fatalf("LoadStory: %v", err)
	}
	if st == nil {
		t.Fatal("expected story")
	}
	if st.Slug != "beagle" {
		t.Errorf("slug: got %q, want %q", st.Slug, "beagle")
	}
	if st.Count() != 2 {
		t.Errorf("chapters: got %d, want 2", st.Count())
	}

	// Upsert overwrites in place.
	seedStory(t, store, "beagle")
	recs, err := store.ListStories(ctx)
	if err != nil {
		t.Fatalf("ListStories: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 record after re-import, got %d", len(recs))
	}
}

func TestLoadStoryMissing(t *testing.T) {
	store := setupTestStore(t)

	st, err := store.LoadStory(context.Background(), "nope")
	if err != nil {
		t.Fatalf("LoadStory: %v", err)
	}
	if st != nil {
		t.Error("expected nil story for unknown slug")
	}
}

func TestFirstSlug(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	slug, err := store.FirstSlug(ctx)
	if err != nil {
		t.Fatalf("FirstSlug: %v", err)
	}
	if slug != "" {
		t.Errorf("empty library: got %q", slug)
	}

	seedStory(t, store, "beagle")
	slug, err = store.FirstSlug(ctx)
	if err != nil {
		t.Fatalf("FirstSlug: %v", err)
	}
	if slug != "beagle" {
		t.Errorf("got %q, want %q", slug, "beagle")
	}
}

func TestDeleteStoryCascadesSessions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seedStory(t, store, "beagle")

	sess, err := store.GetOrCreateSession(ctx, "", "beagle")
	if err != nil {
		t.Fatalf("GetOrCreateSession: %v", err)
	}

	if err := store.DeleteStory(ctx, "beagle"); err != nil {
		t.Fatalf("DeleteStory: %v", err)
	}

	got, err := store.getSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("getSession: %v", err)
	}
	if got != nil {
		t.Error("session should be deleted with its story")
	}
}

func TestSessionReuse(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seedStory(t, store, "beagle")

	first, err := store.GetOrCreateSession(ctx, "", "beagle")
	if err != nil {
		t.Fatalf("GetOrCreateSession: %v", err)
	}
	again, err := store.GetOrCreateSession(ctx, first.ID, "beagle")
	if err != nil {
		t.Fatalf("GetOrCreateSession: %v", err)
	}
	if again.ID != first.ID {
		t.Error("known session id should be reused")
	}

	seedStory(t, store, "other")
	fresh, err := store.GetOrCreateSession(ctx, first.ID, "other")
	if err != nil {
		t.Fatalf("GetOrCreateSession: %v", err)
	}
	if fresh.ID == first.ID {
		t.Error("session bound to another story should not be reused")
	}
}

// A viewer's chapter position written through SessionParams must come
// back after a full reconnect that only carries the session ID.
func TestSessionParamsSurviveReload(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seedStory(t, store, "beagle")

	sess, err := store.GetOrCreateSession(ctx, "", "beagle")
	if err != nil {
		t.Fatalf("GetOrCreateSession: %v", err)
	}
	params := NewSessionParams(store, sess)
	params.Set(nav.ChapterParam, "galapagos")

	reloaded, err := store.GetOrCreateSession(ctx, sess.ID, "beagle")
	if err != nil {
		t.Fatalf("GetOrCreateSession: %v", err)
	}
	fresh := NewSessionParams(store, reloaded)
	if v, ok := fresh.Get(nav.ChapterParam); !ok || v != "galapagos" {
		t.Errorf("restored param: got %q (%v), want %q", v, ok, "galapagos")
	}

	// Clearing must also persist.
	fresh.Clear(nav.ChapterParam)
	final, _ := store.GetOrCreateSession(ctx, sess.ID, "beagle")
	if final.ChapterParam != "" {
		t.Errorf("cleared param persisted as %q", final.ChapterParam)
	}
}

func TestStats(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seedStory(t, store, "beagle")

	sess, _ := store.GetOrCreateSession(ctx, "", "beagle")
	for _, ch := range []string{"devonport", "galapagos", "galapagos"} {
		if err := store.RecordView(ctx, "beagle", ch, sess.ID); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}

	stats, err := store.Stats(ctx, "beagle")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Sessions != 1 {
		t.Errorf("sessions: got %d, want 1", stats.Sessions)
	}
	if stats.Views != 3 {
		t.Errorf("views: got %d, want 3", stats.Views)
	}
	if len(stats.Chapters) != 2 {
		t.Fatalf("chapter rows: got %d, want 2", len(stats.Chapters))
	}
	if stats.Chapters[0].ChapterID != "galapagos" || stats.Chapters[0].Views != 2 {
		t.Errorf("top chapter: got %+v", stats.Chapters[0])
	}
}

func setupTestRouter(t *testing.T) (*Store, *chi.Mux) {
	t.Helper()
	store := setupTestStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return store, r
}

func TestRoutesListAndGet(t *testing.T) {
	store, r := setupTestRouter(t)
	seedStory(t, store, "beagle")

	req := httptest.NewRequest(http.MethodGet, "/api/stories", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status: %d", rec.Code)
	}
	var recs []StoryRecord
	if err := json.NewDecoder(rec.Body).Decode(&recs); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(recs) != 1 || recs[0].Slug != "beagle" {
		t.Errorf("list: got %+v", recs)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stories/beagle/chapters/galapagos", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("chapter status: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stories/beagle/chapters/atlantis", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown chapter status: %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stories/missing", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown story status: %d, want 404", rec.Code)
	}
}

func TestRoutesStats(t *testing.T) {
	store, r := setupTestRouter(t)
	seedStory(t, store, "beagle")
	sess, _ := store.GetOrCreateSession(context.Background(), "", "beagle")
	store.RecordView(context.Background(), "beagle", "devonport", sess.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/stories/beagle/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status: %d", rec.Code)
	}
	var stats StoryStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Views != 1 {
		t.Errorf("views: got %d, want 1", stats.Views)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/recent?limit=5", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("recent status: %d", rec.Code)
	}
	var sessions []Session
	if err := json.NewDecoder(rec.Body).Decode(&sessions); err != nil {
		t.Fatalf("decoding recent: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("recent sessions: got %d, want 1", len(sessions))
	}
}
