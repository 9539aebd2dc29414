package search

import (
	"sort"
	"strings"

	"github.com/ziadkadry99/storyatlas/internal/story"
)

// Fallback performs a plain term-matching search over a story's
// chapters. It is used when no embedding provider is configured or the
// vector index is unavailable. Title hits weigh more than place hits,
// which weigh more than body hits.
func Fallback(st *story.Story, query string, limit int) []Match {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	var matches []Match
	for i := range st.Chapters {
		ch := &st.Chapters[i]
		title := strings.ToLower(ch.Title)
		place := strings.ToLower(ch.Place)
		content := strings.ToLower(ch.Content)

		score := 0
		for _, term := range terms {
			if strings.Contains(title, term) {
				score += 3
			}
			if strings.Contains(place, term) {
				score += 2
			}
			score += strings.Count(content, term)
		}
		if score == 0 {
			continue
		}

		matches = append(matches, Match{
			Slug:       st.Slug,
			ChapterID:  ch.ID,
			Title:      ch.Title,
			Index:      i,
			Snippet:    snippet(ch.Content),
			Similarity: float32(score),
		})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Similarity > matches[b].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
