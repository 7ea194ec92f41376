package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	date_published INTEGER NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_date_published ON posts(date_published);
`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
// Use ":memory:" for a throwaway in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Create inserts p. A post with the same ID yields ErrConflict.
func (s *SQLiteStore) Create(ctx context.Context, p Post) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO posts (id, date_published, title, content) VALUES (?, ?, ?, ?)",
		p.ID.String(), p.DatePublished.UTC().UnixNano(), p.Title, p.Content,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrConflict, p.ID)
		}
		return fmt.Errorf("insert post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Get returns the post with the given ID or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	var (
		p       Post
		rawID   string
		pubNano int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, date_published, title, content FROM posts WHERE id = ?",
		id.String(),
	).Scan(&rawID, &pubNano, &p.Title, &p.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query post: %w", err)
	}

	if p.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parse stored id %q: %w", rawID, err)
	}
	p.DatePublished = time.Unix(0, pubNano).UTC()
	return &p, nil
}

// Latest returns up to n posts, newest first.
func (s *SQLiteStore) Latest(ctx context.Context, n int) ([]Summary, error) {
	if n <= 0 {
		return []Summary{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, date_published FROM posts ORDER BY date_published DESC, id LIMIT ?",
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query latest posts: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0, n)
	for rows.Next() {
		var (
			sum     Summary
			rawID   string
			pubNano int64
		)
		if err := rows.Scan(&rawID, &sum.Title, &pubNano); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if sum.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("parse stored id %q: %w", rawID, err)
		}
		sum.DatePublished = time.Unix(0, pubNano).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
