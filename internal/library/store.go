package library

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ziadkadry99/storyatlas/internal/db"
	"github.com/ziadkadry99/storyatlas/internal/story"
)

// Store provides library, session and view-event persistence.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// UpsertStory inserts or replaces a story's YAML source under its slug.
func (s *Store) UpsertStory(ctx context.Context, slug, title string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stories (slug, title, data) VALUES (?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			data = excluded.data,
			updated_at = datetime('now')`,
		slug, title, string(data),
	)
	if err != nil {
		return fmt.Errorf("upserting story %s: %w", slug, err)
	}
	return nil
}

// GetStory retrieves one library record, or nil when the slug is unknown.
func (s *Store) GetStory(ctx context.Context, slug string) (*StoryRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT slug, title, data, imported_at, updated_at
		FROM stories WHERE slug = ?`, slug)

	var rec StoryRecord
	err := row.Scan(&rec.Slug, &rec.Title, &rec.Data, &rec.ImportedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting story %s: %w", slug, err)
	}
	return &rec, nil
}

// LoadStory parses the stored YAML back into a navigable story.
func (s *Store) LoadStory(ctx context.Context, slug string) (*story.Story, error) {
	rec, err := s.GetStory(ctx, slug)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	st, err := story.Parse([]byte(rec.Data))
	if err != nil {
		return nil, fmt.Errorf("parsing stored story %s: %w", slug, err)
	}
	st.Slug = rec.Slug
	return st, nil
}

// ListStories returns all library records, newest first.
func (s *Store) ListStories(ctx context.Context) ([]StoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, title, data, imported_at, updated_at
		FROM stories ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}
	defer rows.Close()

	var recs []StoryRecord
	for rows.Next() {
		var rec StoryRecord
		if err := rows.Scan(&rec.Slug, &rec.Title, &rec.Data, &rec.ImportedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning story: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DeleteStory removes a story and, through cascade, its sessions.
func (s *Store) DeleteStory(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM stories WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("deleting story %s: %w", slug, err)
	}
	return nil
}

// FirstSlug returns the earliest imported story's slug, or "" for an
// empty library. The server redirects "/" here.
func (s *Store) FirstSlug(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT slug FROM stories ORDER BY imported_at ASC, slug ASC LIMIT 1`)
	var slug string
	err := row.Scan(&slug)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("finding first story: %w", err)
	}
	return slug, nil
}

// GetOrCreateSession resolves a viewer's session for a story. An empty or
// unknown id, or one belonging to a different story, yields a fresh
// session.
func (s *Store) GetOrCreateSession(ctx context.Context, id, slug string) (*Session, error) {
	if id != "" {
		sess, err := s.getSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess != nil && sess.StorySlug == slug {
			return sess, nil
		}
	}

	sess := &Session{ID: uuid.New().String(), StorySlug: slug}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, story_slug, chapter_param) VALUES (?, ?, NULL)`,
		sess.ID, sess.StorySlug,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

func (s *Store) getSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, story_slug, chapter_param, created_at, updated_at
		FROM sessions WHERE id = ?`, id)

	var sess Session
	var param sql.NullString
	err := row.Scan(&sess.ID, &sess.StorySlug, &param, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session %s: %w", id, err)
	}
	sess.ChapterParam = param.String
	return &sess, nil
}

// SaveSessionParam persists the session's chapter parameter; an empty
// value clears it (intro).
func (s *Store) SaveSessionParam(ctx context.Context, id, param string) error {
	var p sql.NullString
	if param != "" {
		p = sql.NullString{String: param, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET chapter_param = ?, updated_at = datetime('now')
		WHERE id = ?`, p, id)
	if err != nil {
		return fmt.Errorf("saving session param: %w", err)
	}
	return nil
}

// RecordView logs one chapter entry.
func (s *Store) RecordView(ctx context.Context, slug, chapterID, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO view_events (id, story_slug, chapter_id, session_id)
		VALUES (?, ?, ?, ?)`,
		uuid.New().String(), slug, chapterID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("recording view: %w", err)
	}
	return nil
}

// Stats aggregates session and view counts for one story.
func (s *Store) Stats(ctx context.Context, slug string) (*StoryStats, error) {
	stats := &StoryStats{Slug: slug, Chapters: []ChapterViews{}}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE story_slug = ?`, slug)
	if err := row.Scan(&stats.Sessions); err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM view_events WHERE story_slug = ?`, slug)
	if err := row.Scan(&stats.Views); err != nil {
		return nil, fmt.Errorf("counting views: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT chapter_id, COUNT(*) AS views
		FROM view_events WHERE story_slug = ?
		GROUP BY chapter_id ORDER BY views DESC, chapter_id ASC`, slug)
	if err != nil {
		return nil, fmt.Errorf("counting chapter views: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cv ChapterViews
		if err := rows.Scan(&cv.ChapterID, &cv.Views); err != nil {
			return nil, fmt.Errorf("scanning chapter views: %w", err)
		}
		stats.Chapters = append(stats.Chapters, cv)
	}
	return stats, rows.Err()
}

// RecentSessions returns the most recently active sessions.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, story_slug, chapter_param, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var param sql.NullString
		if err := rows.Scan(&sess.ID, &sess.StorySlug, &param, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sess.ChapterParam = param.String
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
