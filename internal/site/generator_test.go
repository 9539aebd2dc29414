package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/storyatlas/internal/story"
)

const beagleYAML = `story:
  title: Voyage of the Beagle
  description: Five years around the world.
  created_by: Charles Darwin
  date: 1831-1836
  coords:
    lat: -0.95
    lng: -90.97
  camera:
    zoom: 3
chapters:
  - id: devonport
    title: Devonport
    content: The voyage *begins* after two false starts.
    place: Devonport, England
    date: December 1831
    coords:
      lat: 50.37
      lng: -4.17
    camera:
      zoom: 10
  - id: galapagos
    title: The Galapagos
    content: Finches and tortoises differ from island to island.
    place: Galapagos Islands
    coords:
      lat: -0.95
      lng: -90.97
    camera:
      zoom: 8
`

const enduranceYAML = `story:
  title: Endurance
  description: Shackleton in the Weddell Sea.
  created_by: Frank Hurley
  coords:
    lat: -69.0
    lng: -51.0
  camera:
    zoom: 4
chapters:
  - id: pack-ice
    title: Beset in Pack Ice
    content: The ship freezes fast and drifts with the floe.
    place: Weddell Sea
    coords:
      lat: -69.0
      lng: -51.0
    camera:
      zoom: 6
`

func parseStory(t *testing.T, yaml string) *story.Story {
	t.Helper()
	st, err := story.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("parsing fixture story: %v", err)
	}
	return st
}

func TestBuildSearchIndex(t *testing.T) {
	st := parseStory(t, beagleYAML)

	entries := BuildSearchIndex([]*story.Story{st})
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	if entries[0].Path != "voyage-of-the-beagle/index.html" {
		t.Errorf("story entry path = %q", entries[0].Path)
	}
	if entries[0].Title != "Voyage of the Beagle" {
		t.Errorf("story entry title = %q", entries[0].Title)
	}
	if entries[0].Summary != "Five years around the world." {
		t.Errorf("story entry summary = %q", entries[0].Summary)
	}

	if entries[1].Path != "voyage-of-the-beagle/devonport.html" {
		t.Errorf("chapter entry path = %q", entries[1].Path)
	}
	if entries[1].Summary != "Devonport, England, December 1831" {
		t.Errorf("chapter entry summary = %q", entries[1].Summary)
	}
	if entries[2].Summary != "Galapagos Islands" {
		t.Errorf("chapter entry summary = %q", entries[2].Summary)
	}
	if !strings.Contains(entries[1].Content, "false starts") {
		t.Errorf("chapter entry content = %q", entries[1].Content)
	}
}

func TestClampContent(t *testing.T) {
	long := strings.Repeat("word ", 600)
	if got := clampContent(long); len(got) > 2000 {
		t.Errorf("clamped content length = %d", len(got))
	}
	if got := clampContent("two\n  lines here"); got != "two lines here" {
		t.Errorf("clampContent = %q", got)
	}
}

func TestFullSiteGeneration(t *testing.T) {
	outputDir := t.TempDir()

	stories := []*story.Story{
		parseStory(t, beagleYAML),
		parseStory(t, enduranceYAML),
	}

	gen := NewGenerator(outputDir, "Expedition Atlas")
	pageCount, err := gen.Generate(stories)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	// Library index + (intro + 2 chapters) + (intro + 1 chapter).
	if pageCount != 6 {
		t.Errorf("pageCount = %d, want 6", pageCount)
	}

	expectedFiles := []string{
		"index.html",
		"style.css",
		"script.js",
		"search-index.json",
		"voyage-of-the-beagle/index.html",
		"voyage-of-the-beagle/devonport.html",
		"voyage-of-the-beagle/galapagos.html",
		"endurance/index.html",
		"endurance/pack-ice.html",
	}
	for _, f := range expectedFiles {
		path := filepath.Join(outputDir, filepath.FromSlash(f))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected file %s does not exist", f)
		}
	}

	// Verify the library index.
	indexContent, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	if err != nil {
		t.Fatalf("reading index.html: %v", err)
	}
	indexStr := string(indexContent)

	if !strings.Contains(indexStr, "Expedition Atlas") {
		t.Error("index.html should contain the site title")
	}
	if !strings.Contains(indexStr, `href="voyage-of-the-beagle/index.html"`) {
		t.Error("index.html should link to the story intro")
	}
	if !strings.Contains(indexStr, "2 chapters") {
		t.Error("index.html should show the chapter count")
	}

	// Verify the story intro page.
	introContent, err := os.ReadFile(filepath.Join(outputDir, "voyage-of-the-beagle", "index.html"))
	if err != nil {
		t.Fatalf("reading story intro: %v", err)
	}
	introStr := string(introContent)

	if !strings.Contains(introStr, "A story by Charles Darwin") {
		t.Error("intro should contain the byline")
	}
	if !strings.Contains(introStr, `href="devonport.html"`) {
		t.Error("intro should link to its chapters")
	}
	if !strings.Contains(introStr, `../style.css`) {
		t.Error("nested page should reference ../style.css")
	}

	// Verify a chapter page.
	chapterContent, err := os.ReadFile(filepath.Join(outputDir, "voyage-of-the-beagle", "devonport.html"))
	if err != nil {
		t.Fatalf("reading chapter page: %v", err)
	}
	chapterStr := string(chapterContent)

	if !strings.Contains(chapterStr, "Chapter 1 of 2") {
		t.Error("chapter page should show its position")
	}
	if !strings.Contains(chapterStr, "<em>begins</em>") {
		t.Error("chapter page should carry rendered markdown")
	}
	if !strings.Contains(chapterStr, `rel="next" href="galapagos.html"`) {
		t.Error("first chapter should link to the next one")
	}
	if strings.Contains(chapterStr, `rel="prev"`) {
		t.Error("first chapter should not have a prev link")
	}
	if !strings.Contains(chapterStr, "openstreetmap.org") {
		t.Error("chapter page should link to the map")
	}

	// Last chapter gets prev but no next.
	lastContent, err := os.ReadFile(filepath.Join(outputDir, "voyage-of-the-beagle", "galapagos.html"))
	if err != nil {
		t.Fatalf("reading last chapter: %v", err)
	}
	lastStr := string(lastContent)

	if !strings.Contains(lastStr, `rel="prev" href="devonport.html"`) {
		t.Error("last chapter should link back")
	}
	if strings.Contains(lastStr, `rel="next"`) {
		t.Error("last chapter should not have a next link")
	}

	// Verify the search index.
	searchData, err := os.ReadFile(filepath.Join(outputDir, "search-index.json"))
	if err != nil {
		t.Fatalf("reading search-index.json: %v", err)
	}
	var searchEntries []SearchEntry
	if err := json.Unmarshal(searchData, &searchEntries); err != nil {
		t.Fatalf("parsing search-index.json: %v", err)
	}
	if len(searchEntries) != 5 {
		t.Errorf("search entries = %d, want 5", len(searchEntries))
	}
}

func TestGenerateNoStories(t *testing.T) {
	gen := NewGenerator(t.TempDir(), "")
	if _, err := gen.Generate(nil); err == nil {
		t.Error("Generate should fail with no stories")
	}
}

func TestMapURL(t *testing.T) {
	got := mapURL(story.Coordinates{Lat: 50.37, Lng: -4.17}, story.CameraOptions{Zoom: 10})
	want := "https://www.openstreetmap.org/?mlat=50.37000&mlon=-4.17000#map=10/50.37000/-4.17000"
	if got != want {
		t.Errorf("mapURL = %q, want %q", got, want)
	}

	// A zero camera zoom falls back to a sensible default.
	got = mapURL(story.Coordinates{}, story.CameraOptions{})
	if !strings.Contains(got, "#map=10/") {
		t.Errorf("default zoom missing: %q", got)
	}
}
