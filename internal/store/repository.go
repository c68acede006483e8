package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/vixio-core/internal/story"
	"github.com/nerrad567/vixio-core/internal/timeline"
)

// timeFormat is a fixed-width UTC layout so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Repository defines the document and publish history operations.
type Repository interface {
	GetStory(ctx context.Context) (*story.Story, error)
	LoadStory(ctx context.Context) (*story.Story, error)
	PutStory(ctx context.Context, s *story.Story) error

	GetTimeline(ctx context.Context) (*timeline.Timeline, error)
	PutTimeline(ctx context.Context, tl *timeline.Timeline) error

	RecordPublish(ctx context.Context, p *Publish) error
	ListPublishes(ctx context.Context, limit int) ([]Publish, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a repository over an already migrated
// database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// GetStory returns the saved story, or story.Default when none was saved.
func (r *SQLiteRepository) GetStory(ctx context.Context) (*story.Story, error) {
	s, err := r.LoadStory(ctx)
	if errors.Is(err, ErrNotFound) {
		return story.Default(), nil
	}
	return s, err
}

// LoadStory returns the saved story or ErrNotFound.
func (r *SQLiteRepository) LoadStory(ctx context.Context) (*story.Story, error) {
	body, err := r.getDocument(ctx, KindStory)
	if err != nil {
		return nil, err
	}
	s, err := story.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptDocument, KindStory, err)
	}
	return s, nil
}

// PutStory replaces the saved story.
func (r *SQLiteRepository) PutStory(ctx context.Context, s *story.Story) error {
	if s == nil {
		return fmt.Errorf("storing %s: nil document", KindStory)
	}
	return r.putDocument(ctx, KindStory, s)
}

// GetTimeline returns the saved timeline, or timeline.Default when none
// was saved.
func (r *SQLiteRepository) GetTimeline(ctx context.Context) (*timeline.Timeline, error) {
	body, err := r.getDocument(ctx, KindTimeline)
	if errors.Is(err, ErrNotFound) {
		return timeline.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	tl, err := timeline.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptDocument, KindTimeline, err)
	}
	return tl, nil
}

// PutTimeline replaces the saved timeline.
func (r *SQLiteRepository) PutTimeline(ctx context.Context, tl *timeline.Timeline) error {
	if tl == nil {
		return fmt.Errorf("storing %s: nil document", KindTimeline)
	}
	return r.putDocument(ctx, KindTimeline, tl)
}

func (r *SQLiteRepository) getDocument(ctx context.Context, kind string) ([]byte, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE kind = ?`, kind).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", kind, err)
	}
	return []byte(body), nil
}

func (r *SQLiteRepository) putDocument(ctx context.Context, kind string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", kind, err)
	}
	const query = `INSERT INTO documents (kind, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (kind) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, kind, string(body), r.now().UTC().Format(timeFormat)); err != nil {
		return fmt.Errorf("storing %s: %w", kind, err)
	}
	return nil
}

// RecordPublish inserts a publish history row. An empty ID is filled with
// a new UUID and a zero PublishedAt with the current time.
func (r *SQLiteRepository) RecordPublish(ctx context.Context, p *Publish) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = r.now().UTC()
	}
	if p.Warnings == nil {
		p.Warnings = []string{}
	}
	p.DurationMS = p.Duration.Milliseconds()

	warnings, err := json.Marshal(p.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}

	const query = `INSERT INTO publishes (id, published_at, event_count, warnings, duration_ms)
		VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.PublishedAt.UTC().Format(timeFormat), p.EventCount, string(warnings), p.DurationMS)
	if err != nil {
		return fmt.Errorf("inserting publish %s: %w", p.ID, err)
	}
	return nil
}

// ListPublishes returns the most recent publishes, newest first.
func (r *SQLiteRepository) ListPublishes(ctx context.Context, limit int) ([]Publish, error) {
	if limit < 1 {
		limit = DefaultPublishLimit
	}
	const query = `SELECT id, published_at, event_count, warnings, duration_ms
		FROM publishes ORDER BY published_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying publishes: %w", err)
	}
	defer rows.Close()

	publishes := []Publish{}
	for rows.Next() {
		p, err := scanPublish(rows)
		if err != nil {
			return nil, err
		}
		publishes = append(publishes, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating publishes: %w", err)
	}
	return publishes, nil
}

func scanPublish(rows *sql.Rows) (*Publish, error) {
	var (
		p           Publish
		publishedAt string
		warnings    sql.NullString
	)
	if err := rows.Scan(&p.ID, &publishedAt, &p.EventCount, &warnings, &p.DurationMS); err != nil {
		return nil, fmt.Errorf("scanning publish: %w", err)
	}
	t, err := time.Parse(timeFormat, publishedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing published_at of %s: %w", p.ID, err)
	}
	p.PublishedAt = t
	p.Duration = time.Duration(p.DurationMS) * time.Millisecond

	p.Warnings = []string{}
	if warnings.Valid && warnings.String != "" {
		if err := json.Unmarshal([]byte(warnings.String), &p.Warnings); err != nil {
			return nil, fmt.Errorf("%w: warnings of publish %s: %w", ErrCorruptDocument, p.ID, err)
		}
	}
	return &p, nil
}
