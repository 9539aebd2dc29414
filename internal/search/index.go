package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/storyatlas/internal/story"
)

const (
	collectionName     = "chapters"
	defaultSearchLimit = 5
)

// Match is one search hit: a chapter and where it sits in its story.
// Similarity is the cosine similarity for vector results; the text
// fallback reuses the field for its term-hit score.
type Match struct {
	Slug       string  `json:"slug"`
	ChapterID  string  `json:"chapter_id"`
	Title      string  `json:"title"`
	Index      int     `json:"index"`
	Snippet    string  `json:"snippet,omitempty"`
	Similarity float32 `json:"similarity"`
}

// Index holds chapter embeddings in an in-memory chromem-go collection,
// one document per chapter. Story indexes are small, so they are rebuilt
// from the library at startup rather than persisted.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   Embedder
}

// NewIndex creates an empty chapter index using the given embedder.
func NewIndex(embedder Embedder) (*Index, error) {
	db := chromem.NewDB()

	collection, err := db.GetOrCreateCollection(collectionName, nil, toChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &Index{
		db:         db,
		collection: collection,
		embedder:   embedder,
	}, nil
}

// Embedder returns the embedding provider backing the index.
func (x *Index) Embedder() Embedder {
	return x.embedder
}

// Count returns the number of indexed chapters across all stories.
func (x *Index) Count() int {
	return x.collection.Count()
}

// IndexStory replaces all indexed chapters for the story's slug.
func (x *Index) IndexStory(ctx context.Context, st *story.Story) error {
	if err := x.collection.Delete(ctx, map[string]string{"slug": st.Slug}, nil); err != nil {
		return fmt.Errorf("failed to clear slug %s: %w", st.Slug, err)
	}
	if st.Count() == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, st.Count())
	for i := range st.Chapters {
		ch := &st.Chapters[i]
		docs = append(docs, chromem.Document{
			ID:      st.Slug + "/" + ch.ID,
			Content: chapterText(ch),
			Metadata: map[string]string{
				"slug":       st.Slug,
				"chapter_id": ch.ID,
				"title":      ch.Title,
				"index":      strconv.Itoa(i),
				"snippet":    snippet(ch.Content),
			},
		})
	}

	if err := x.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("failed to index %s: %w", st.Slug, err)
	}
	return nil
}

// Search returns the chapters of one story most similar to the query,
// best match first.
func (x *Index) Search(ctx context.Context, slug, query string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	// chromem-go rejects queries asking for more results than the
	// collection holds.
	count := x.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := x.collection.Query(ctx, query, limit, map[string]string{"slug": slug}, nil)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, res := range results {
		index, _ := strconv.Atoi(res.Metadata["index"])
		matches = append(matches, Match{
			Slug:       res.Metadata["slug"],
			ChapterID:  res.Metadata["chapter_id"],
			Title:      res.Metadata["title"],
			Index:      index,
			Snippet:    res.Metadata["snippet"],
			Similarity: res.Similarity,
		})
	}
	return matches, nil
}

// chapterText is the embedded document body: the chapter heading and
// context lines followed by the markdown content.
func chapterText(ch *story.Chapter) string {
	var sb strings.Builder
	sb.WriteString(ch.Title)
	sb.WriteString("\n")
	if ch.Place != "" {
		sb.WriteString(ch.Place)
		sb.WriteString("\n")
	}
	if ch.Date != "" {
		sb.WriteString(ch.Date)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(ch.Content)
	return sb.String()
}

// snippet collapses whitespace and trims the content to a short preview.
func snippet(content string) string {
	s := strings.Join(strings.Fields(content), " ")
	runes := []rune(s)
	if len(runes) <= 160 {
		return s
	}
	return strings.TrimRight(string(runes[:160]), " ") + "..."
}
