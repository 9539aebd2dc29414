package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/storyatlas/internal/search"
	"github.com/ziadkadry99/storyatlas/internal/story"
)

// handleListStories returns every story in the library.
func (s *Server) handleListStories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := s.store.ListStories(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing stories failed: %v", err)), nil
	}
	if len(recs) == 0 {
		return mcp.NewToolResultText("The library is empty. Run `storyatlas import` to add a story."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Stories in the library (%d):\n", len(recs)))
	for _, rec := range recs {
		line := fmt.Sprintf("\n- %s (slug: %s", rec.Title, rec.Slug)
		if st, err := story.Parse([]byte(rec.Data)); err == nil {
			line += fmt.Sprintf(", %d chapters", st.Count())
		}
		line += ")"
		sb.WriteString(line)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetStoryOverview returns a story's properties and chapter listing.
func (s *Server) handleGetStoryOverview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := request.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: slug"), nil
	}

	st, err := s.loadStory(ctx, slug)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n", st.Properties.Title))
	if st.Properties.CreatedBy != "" {
		sb.WriteString(fmt.Sprintf("A story by %s\n", st.Properties.CreatedBy))
	}
	if st.Properties.Date != "" {
		sb.WriteString(fmt.Sprintf("Date: %s\n", st.Properties.Date))
	}
	if st.Properties.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(st.Properties.Description)
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\nChapters (%d):\n", st.Count()))
	for i := range st.Chapters {
		ch := &st.Chapters[i]
		line := fmt.Sprintf("%d. %s (id: %s", i+1, ch.Title, ch.ID)
		if ch.Place != "" {
			line += ", " + ch.Place
		}
		if ch.Date != "" {
			line += ", " + ch.Date
		}
		line += ")"
		sb.WriteString(line + "\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetChapter returns one chapter's full text and framing.
func (s *Server) handleGetChapter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := request.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: slug"), nil
	}
	chapterID, err := request.RequireString("chapter_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: chapter_id"), nil
	}

	st, err := s.loadStory(ctx, slug)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	i := st.IndexByID(chapterID)
	if i < 0 {
		return mcp.NewToolResultError(fmt.Sprintf(
			"no chapter %q in %q. Use get_story_overview to list chapter IDs.",
			chapterID, slug,
		)), nil
	}
	ch := st.Chapter(i)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n", ch.Title))
	sb.WriteString(fmt.Sprintf("Chapter %d of %d in %s\n", i+1, st.Count(), st.Properties.Title))
	if ch.Place != "" {
		sb.WriteString(fmt.Sprintf("Place: %s\n", ch.Place))
	}
	if ch.Date != "" {
		sb.WriteString(fmt.Sprintf("Date: %s\n", ch.Date))
	}
	sb.WriteString(fmt.Sprintf("Location: %.5f, %.5f (zoom %.1f)\n",
		ch.Coords.Lat, ch.Coords.Lng, ch.Camera.Zoom))
	if ch.ImageURL != "" {
		sb.WriteString(fmt.Sprintf("Image: %s\n", ch.ImageURL))
	}
	sb.WriteString("\n")
	sb.WriteString(ch.Content)
	sb.WriteString("\n")
	return mcp.NewToolResultText(sb.String()), nil
}

// handleSearchChapters searches one story's chapters.
func (s *Server) handleSearchChapters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := request.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: slug"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	st, err := s.loadStory(ctx, slug)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var matches []search.Match
	if s.index != nil {
		matches, err = s.index.Search(ctx, slug, query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
	} else {
		matches = search.Fallback(st, query, limit)
	}

	if len(matches) == 0 {
		return mcp.NewToolResultText("No matching chapters."), nil
	}
	return mcp.NewToolResultText(formatMatches(matches)), nil
}

// loadStory resolves a slug to a parsed story with a tool-friendly error.
func (s *Server) loadStory(ctx context.Context, slug string) (*story.Story, error) {
	st, err := s.store.LoadStory(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("loading story failed: %v", err)
	}
	if st == nil {
		return nil, fmt.Errorf("no story %q in the library. Use list_stories to see what is available.", slug)
	}
	return st, nil
}

// formatMatches converts search matches into a rich text format optimized
// for AI agent consumption.
func formatMatches(matches []search.Match) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d match(es):\n", len(matches)))

	for i, m := range matches {
		sb.WriteString(fmt.Sprintf("\n--- Match %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Chapter: %s (id: %s, position %d)\n", m.Title, m.ChapterID, m.Index+1))
		sb.WriteString(fmt.Sprintf("Score: %.4f\n", m.Similarity))
		if m.Snippet != "" {
			sb.WriteString("\n")
			sb.WriteString(m.Snippet)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
