package webui

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ziadkadry99/storyatlas/internal/story"
)

//go:embed index.html
var indexHTML string

//go:embed icons/*.svg
var iconFS embed.FS

// DefaultStyleURL is the base map style used when none is configured.
const DefaultStyleURL = "https://demotiles.maplibre.org/style.json"

// MapConfig selects the base map for served story pages.
type MapConfig struct {
	StyleURL string
	Globe    bool
}

type pageMarker struct {
	Index int     `json:"index"`
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// pageData is the bootstrap payload injected into the page: just enough
// for the browser to set up the map and markers before the WebSocket
// session takes over. Panel content never rides along; it always comes
// through session ops so the page cannot drift from the server's state.
type pageData struct {
	Slug     string              `json:"slug"`
	Title    string              `json:"title"`
	StyleURL string              `json:"styleUrl"`
	Globe    bool                `json:"globe,omitempty"`
	Center   story.Coordinates   `json:"center"`
	Camera   story.CameraOptions `json:"camera"`
	Markers  []pageMarker        `json:"markers"`
}

// Page renders the story page with the bootstrap payload injected in
// place of the placeholder.
func Page(st *story.Story, cfg MapConfig) ([]byte, error) {
	if cfg.StyleURL == "" {
		cfg.StyleURL = DefaultStyleURL
	}

	markers := make([]pageMarker, 0, st.Count())
	for i := range st.Chapters {
		ch := &st.Chapters[i]
		markers = append(markers, pageMarker{
			Index: i,
			ID:    ch.ID,
			Title: ch.Title,
			Lat:   ch.Coords.Lat,
			Lng:   ch.Coords.Lng,
		})
	}

	data := pageData{
		Slug:     st.Slug,
		Title:    st.Properties.Title,
		StyleURL: cfg.StyleURL,
		Globe:    cfg.Globe,
		Center:   st.Properties.Coords,
		Camera:   st.Properties.Camera,
		Markers:  markers,
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling story data: %w", err)
	}

	return []byte(strings.Replace(indexHTML, "/*__STORY_DATA__*/null", string(jsonBytes), 1)), nil
}

// IconSet resolves the embedded SVG glyphs used by the navigation bar.
type IconSet struct{}

func (IconSet) Icon(name string) (string, error) {
	b, err := iconFS.ReadFile("icons/" + name + ".svg")
	if err != nil {
		return "", fmt.Errorf("icon %q: %w", name, err)
	}
	return string(b), nil
}
