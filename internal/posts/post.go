package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("post not found")
	ErrConflict    = errors.New("post already exists")
	ErrInvalidPost = errors.New("invalid post")
)

// Post is a published blog post. Content is raw markdown.
type Post struct {
	ID            uuid.UUID `json:"id"`
	DatePublished time.Time `json:"date_published"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
}

// Summary is the listing view of a post.
type Summary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	DatePublished time.Time `json:"date_published"`
}

// Validate checks the fields a stored post must carry.
func (p Post) Validate() error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("%w: id is required", ErrInvalidPost)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidPost)
	}
	if p.DatePublished.IsZero() {
		return fmt.Errorf("%w: date_published is required", ErrInvalidPost)
	}
	return nil
}

// Store persists posts.
type Store interface {
	Create(ctx context.Context, p Post) error
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	Latest(ctx context.Context, n int) ([]Summary, error)
	Close() error
}
