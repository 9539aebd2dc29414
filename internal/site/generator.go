package site

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/storyatlas/internal/story"
)

// Generator renders stories into a static reading site: a library index,
// one intro page per story and one page per chapter. The map stays
// behind a link; the export is meant for reading offline or hosting
// anywhere a directory of HTML can live.
type Generator struct {
	OutputDir string
	SiteTitle string
}

// NewGenerator creates a Generator writing to outputDir.
func NewGenerator(outputDir, siteTitle string) *Generator {
	if siteTitle == "" {
		siteTitle = "StoryAtlas"
	}
	return &Generator{
		OutputDir: outputDir,
		SiteTitle: siteTitle,
	}
}

// libraryData holds the data passed to the library index template.
type libraryData struct {
	SiteTitle string
	Stories   []libraryEntry
}

type libraryEntry struct {
	Href        string
	Title       string
	CreatedBy   string
	Description string
	Chapters    int
}

// storyPageData holds the data passed to a story's intro page template.
type storyPageData struct {
	SiteTitle   string
	Title       string
	CreatedBy   string
	Date        string
	Description template.HTML
	Chapters    []chapterLink
	BasePath    string
}

type chapterLink struct {
	Href   string
	Title  string
	Place  string
	Date   string
	Number int
}

// chapterPageData holds the data passed to a chapter page template.
type chapterPageData struct {
	SiteTitle   string
	StoryTitle  string
	StoryHref   string
	Title       string
	Position    string
	Place       string
	Date        string
	ImageURL    string
	ImageCredit string
	MapURL      string
	Content     template.HTML
	Prev        *chapterLink
	Next        *chapterLink
	BasePath    string
}

// Generate builds the full static site from the given stories. Returns
// the number of HTML pages written.
func (g *Generator) Generate(stories []*story.Story) (int, error) {
	if len(stories) == 0 {
		return 0, fmt.Errorf("no stories to generate")
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}

	// Write static assets.
	if err := os.WriteFile(filepath.Join(g.OutputDir, "style.css"), []byte(cssContent), 0o644); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "script.js"), []byte(jsContent), 0o644); err != nil {
		return 0, err
	}

	// Build and write the client-side search index.
	entries := BuildSearchIndex(stories)
	if err := WriteSearchIndex(entries, filepath.Join(g.OutputDir, "search-index.json")); err != nil {
		return 0, fmt.Errorf("writing search index: %w", err)
	}

	libraryTmpl, err := template.New("library").Parse(libraryTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing library template: %w", err)
	}
	storyTmpl, err := template.New("story").Parse(storyTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing story template: %w", err)
	}
	chapterTmpl, err := template.New("chapter").Parse(chapterTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing chapter template: %w", err)
	}

	if err := g.renderLibrary(libraryTmpl, stories); err != nil {
		return 0, fmt.Errorf("rendering library index: %w", err)
	}
	pages := 1

	for _, st := range stories {
		n, err := g.renderStory(storyTmpl, chapterTmpl, st)
		if err != nil {
			return 0, fmt.Errorf("rendering %s: %w", st.Slug, err)
		}
		pages += n
	}

	return pages, nil
}

// renderLibrary writes the root index listing every story.
func (g *Generator) renderLibrary(tmpl *template.Template, stories []*story.Story) error {
	data := libraryData{SiteTitle: g.SiteTitle}
	for _, st := range stories {
		data.Stories = append(data.Stories, libraryEntry{
			Href:        st.Slug + "/index.html",
			Title:       st.Properties.Title,
			CreatedBy:   st.Properties.CreatedBy,
			Description: firstLine(st.Properties.Description),
			Chapters:    st.Count(),
		})
	}
	return writePage(filepath.Join(g.OutputDir, "index.html"), tmpl, data)
}

// renderStory writes one story's intro page and all its chapter pages.
func (g *Generator) renderStory(storyTmpl, chapterTmpl *template.Template, st *story.Story) (int, error) {
	storyDir := filepath.Join(g.OutputDir, st.Slug)
	if err := os.MkdirAll(storyDir, 0o755); err != nil {
		return 0, err
	}

	links := make([]chapterLink, st.Count())
	for i := range st.Chapters {
		ch := &st.Chapters[i]
		links[i] = chapterLink{
			Href:   ch.ID + ".html",
			Title:  ch.Title,
			Place:  ch.Place,
			Date:   ch.Date,
			Number: i + 1,
		}
	}

	intro := storyPageData{
		SiteTitle:   g.SiteTitle,
		Title:       st.Properties.Title,
		CreatedBy:   st.Properties.CreatedBy,
		Date:        st.Properties.Date,
		Description: template.HTML(st.Properties.DescriptionHTML),
		Chapters:    links,
		BasePath:    "../",
	}
	if err := writePage(filepath.Join(storyDir, "index.html"), storyTmpl, intro); err != nil {
		return 0, err
	}
	pages := 1

	for i := range st.Chapters {
		ch := &st.Chapters[i]
		data := chapterPageData{
			SiteTitle:   g.SiteTitle,
			StoryTitle:  st.Properties.Title,
			StoryHref:   "index.html",
			Title:       ch.Title,
			Position:    fmt.Sprintf("Chapter %d of %d", i+1, st.Count()),
			Place:       ch.Place,
			Date:        ch.Date,
			ImageURL:    ch.ImageURL,
			ImageCredit: ch.ImageCredit,
			MapURL:      mapURL(ch.Coords, ch.Camera),
			Content:     template.HTML(ch.ContentHTML),
			BasePath:    "../",
		}
		if i > 0 {
			data.Prev = &links[i-1]
		}
		if i < len(links)-1 {
			data.Next = &links[i+1]
		}

		if err := writePage(filepath.Join(storyDir, ch.ID+".html"), chapterTmpl, data); err != nil {
			return 0, err
		}
		pages++
	}

	return pages, nil
}

// writePage executes a template into a freshly created file.
func writePage(path string, tmpl *template.Template, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// mapURL links a chapter's location to OpenStreetMap so the static site
// keeps a map view without shipping a map library.
func mapURL(coords story.Coordinates, camera story.CameraOptions) string {
	zoom := int(camera.Zoom)
	if zoom <= 0 {
		zoom = 10
	}
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f#map=%d/%.5f/%.5f",
		coords.Lat, coords.Lng, zoom, coords.Lat, coords.Lng)
}
