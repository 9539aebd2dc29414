package site

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/ziadkadry99/storyatlas/internal/story"
)

// SearchEntry represents a single searchable page in the generated site.
type SearchEntry struct {
	Path    string `json:"path"`
	Story   string `json:"story"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// BuildSearchIndex creates client-side search entries for every story
// intro and chapter page.
func BuildSearchIndex(stories []*story.Story) []SearchEntry {
	var entries []SearchEntry

	for _, st := range stories {
		entries = append(entries, SearchEntry{
			Path:    st.Slug + "/index.html",
			Story:   st.Properties.Title,
			Title:   st.Properties.Title,
			Summary: firstLine(st.Properties.Description),
			Content: clampContent(st.Properties.Description),
		})

		for i := range st.Chapters {
			ch := &st.Chapters[i]
			summary := ch.Place
			if ch.Date != "" {
				if summary != "" {
					summary += ", "
				}
				summary += ch.Date
			}
			entries = append(entries, SearchEntry{
				Path:    st.Slug + "/" + ch.ID + ".html",
				Story:   st.Properties.Title,
				Title:   ch.Title,
				Summary: summary,
				Content: clampContent(ch.Content),
			})
		}
	}

	return entries
}

// firstLine returns the first non-blank line of a markdown body.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// clampContent flattens text to one line, truncated to keep the index small.
func clampContent(s string) string {
	content := strings.Join(strings.Fields(s), " ")
	if len(content) > 2000 {
		content = content[:2000]
	}
	return content
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
