// Package client talks to the blogd HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by GetPost for unknown ids.
var ErrNotFound = errors.New("post not found")

// Client communicates with a blogd server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewPost is the body for POST /api/posts. Zero ID and DatePublished are
// filled in by the server.
type NewPost struct {
	ID            uuid.UUID  `json:"id,omitzero"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	DatePublished *time.Time `json:"date_published,omitempty"`
}

// Created is the response from POST /api/posts.
type Created struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	DatePublished time.Time `json:"date_published"`
	Headings      int       `json:"headings"`
	URL           string    `json:"url"`
}

// Post is a rendered post from GET /api/posts/{id}.
type Post struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	DatePublished time.Time `json:"date_published"`
	HTML          string    `json:"html"`
	TOCHTML       string    `json:"toc_html"`
}

// Summary is one entry of GET /api/posts.
type Summary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	DatePublished time.Time `json:"date_published"`
}

// StatusError is a non-success response from the server.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// CreatePost publishes a post.
func (c *Client) CreatePost(ctx context.Context, p NewPost) (*Created, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal post: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/posts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return nil, statusError("create post "+strconv.Quote(p.Title), resp)
	}

	var created Created
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode created post: %w", err)
	}
	return &created, nil
}

// GetPost fetches a rendered post.
func (c *Client) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/posts/"+id.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("get post %s: %w", id, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get post "+id.String(), resp)
	}

	var post Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return &post, nil
}

// LatestPosts lists the newest posts. limit <= 0 uses the server default.
func (c *Client) LatestPosts(ctx context.Context, limit int) ([]Summary, error) {
	u := c.baseURL + "/api/posts"
	if limit > 0 {
		u += "?limit=" + url.QueryEscape(strconv.Itoa(limit))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list posts", resp)
	}

	var result struct {
		Posts []Summary `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return result.Posts, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func statusError(op string, resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
}
