package story

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `
story:
  title: Voyage of the Beagle
  description: "Five years around the world with **HMS Beagle**."
  created_by: C. Darwin
  date: "1831"
  coords: {lat: 50.36, lng: -4.14}
  camera: {pitch: 30, heading: 0, zoom: 3}
chapters:
  - id: devonport
    title: Devonport
    content: "The voyage begins after *two false starts*."
    date: "1831-12-27"
    place: Devonport, England
    image_url: /assets/devonport.jpg
    image_credit: National Maritime Museum
    coords: {lat: 50.3715, lng: -4.1758}
    camera: {pitch: 60, heading: 120, zoom: 14}
  - id: galapagos
    title: Galápagos Islands
    content: Finches everywhere.
    coords: {lat: -0.7774, lng: -91.1422}
    camera: {pitch: 45, heading: 200, zoom: 11}
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s.Properties.Title != "Voyage of the Beagle" {
		t.Errorf("title: got %q", s.Properties.Title)
	}
	if s.Slug != "voyage-of-the-beagle" {
		t.Errorf("derived slug: got %q", s.Slug)
	}
	if s.Count() != 2 {
		t.Fatalf("expected 2 chapters, got %d", s.Count())
	}
	if s.Chapters[1].Coords.Lat >= 0 {
		t.Errorf("galapagos lat: got %v, want negative", s.Chapters[1].Coords.Lat)
	}
	if !strings.Contains(s.Chapters[0].ContentHTML, "<em>two false starts</em>") {
		t.Errorf("chapter markdown not rendered: %q", s.Chapters[0].ContentHTML)
	}
	if !strings.Contains(s.Properties.DescriptionHTML, "<strong>HMS Beagle</strong>") {
		t.Errorf("description markdown not rendered: %q", s.Properties.DescriptionHTML)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	data, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse of marshalled story failed: %v", err)
	}
	if again.Count() != s.Count() {
		t.Errorf("chapter count changed: got %d, want %d", again.Count(), s.Count())
	}
	if again.Chapters[0].ID != "devonport" {
		t.Errorf("chapter id changed: got %q", again.Chapters[0].ID)
	}
	if strings.Contains(string(data), "content_html") {
		t.Error("derived HTML leaked into YAML output")
	}
}

func TestIndexByID(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}

	if got := s.IndexByID("galapagos"); got != 1 {
		t.Errorf("IndexByID(galapagos): got %d, want 1", got)
	}
	if got := s.IndexByID("atlantis"); got != -1 {
		t.Errorf("IndexByID(atlantis): got %d, want -1", got)
	}
	if got := s.IndexByID(""); got != -1 {
		t.Errorf("IndexByID(empty): got %d, want -1", got)
	}
}

func TestChapterOutOfRange(t *testing.T) {
	s, _ := Parse([]byte(sampleYAML))
	if s.Chapter(-1) != nil {
		t.Error("Chapter(-1) should be nil")
	}
	if s.Chapter(2) != nil {
		t.Error("Chapter(2) should be nil")
	}
	if s.Chapter(0) == nil {
		t.Error("Chapter(0) should exist")
	}
}

func TestValidate(t *testing.T) {
	s, _ := Parse([]byte(sampleYAML))
	if err := s.Validate(); err != nil {
		t.Fatalf("valid story rejected: %v", err)
	}

	dup := *s
	dup.Chapters = append([]Chapter(nil), s.Chapters...)
	dup.Chapters[1].ID = "devonport"
	if err := dup.Validate(); err == nil {
		t.Error("expected duplicate id error")
	}

	badLat := *s
	badLat.Chapters = append([]Chapter(nil), s.Chapters...)
	badLat.Chapters[0].Coords.Lat = 91
	if err := badLat.Validate(); err == nil {
		t.Error("expected lat range error")
	}

	noTitle := *s
	noTitle.Properties.Title = ""
	if err := noTitle.Validate(); err == nil {
		t.Error("expected missing title error")
	}

	badPitch := *s
	badPitch.Chapters = append([]Chapter(nil), s.Chapters...)
	badPitch.Chapters[0].Camera.Pitch = 120
	if err := badPitch.Validate(); err == nil {
		t.Error("expected pitch range error")
	}
}

func TestWarnings(t *testing.T) {
	empty := &Story{Properties: Properties{Title: "Empty"}}
	if err := empty.Validate(); err != nil {
		t.Fatalf("intro-only story should validate: %v", err)
	}
	warns := empty.Warnings()
	if len(warns) != 1 || !strings.Contains(warns[0], "no chapters") {
		t.Errorf("expected no-chapters warning, got %v", warns)
	}

	s, _ := Parse([]byte(sampleYAML))
	if warns := s.Warnings(); len(warns) != 0 {
		t.Errorf("expected no warnings, got %v", warns)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Voyage of the Beagle", "voyage-of-the-beagle"},
		{"  Hello,   World!  ", "hello-world"},
		{"Überlingen 1803", "berlingen-1803"},
		{"---", "story"},
		{"", "story"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}
