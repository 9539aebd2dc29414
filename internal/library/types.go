package library

import "time"

// StoryRecord is a library row: the story's YAML source plus display
// metadata. The YAML is the source of truth; it is re-parsed on serve.
type StoryRecord struct {
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Data       string    `json:"-"`
	ImportedAt time.Time `json:"imported_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Session is one viewer's persisted position in one story. ChapterParam
// holds the current chapter ID; empty means the intro.
type Session struct {
	ID           string    `json:"id"`
	StorySlug    string    `json:"story_slug"`
	ChapterParam string    `json:"chapter_param,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChapterViews counts chapter entries for one chapter.
type ChapterViews struct {
	ChapterID string `json:"chapter_id"`
	Views     int    `json:"views"`
}

// StoryStats aggregates viewing activity for one story.
type StoryStats struct {
	Slug     string         `json:"slug"`
	Sessions int            `json:"sessions"`
	Views    int            `json:"views"`
	Chapters []ChapterViews `json:"chapters"`
}
