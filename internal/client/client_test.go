package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/blogd/internal/api"
	"github.com/dgallion1/blogd/internal/config"
	"github.com/dgallion1/blogd/internal/posts"
	"github.com/dgallion1/blogd/internal/render"
	"github.com/dgallion1/blogd/internal/view"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlogd(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	store, err := posts.NewSQLiteStore(filepath.Join(t.TempDir(), "blogd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	pages, err := view.NewPages()
	require.NoError(t, err)

	srv := api.NewServer(api.Deps{
		Store:    store,
		Renderer: render.New(),
		Pages:    pages,
	}, config.Config{APIKey: apiKey, LatestPosts: 10, MaxBodyBytes: 1 << 20})

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_RoundTrip(t *testing.T) {
	ts := newBlogd(t, "k")
	c := New(ts.URL+"/", "k")
	defer c.Close()
	ctx := context.Background()

	published := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	created, err := c.CreatePost(ctx, NewPost{
		Title:         "Round trip",
		Content:       "# One\n## Two\n## Two",
		DatePublished: &published,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 3, created.Headings)
	assert.True(t, published.Equal(created.DatePublished))

	post, err := c.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Round trip", post.Title)
	assert.Contains(t, post.HTML, `<h2 id="two-1">Two</h2>`)
	assert.Equal(t,
		`<ul><li><a href="#one">One</a><ul><li><a href="#two">Two</a></li><li><a href="#two-1">Two</a></li></ul></li></ul>`,
		post.TOCHTML)

	latest, err := c.LatestPosts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, created.ID, latest[0].ID)
}

func TestClient_ExplicitID(t *testing.T) {
	ts := newBlogd(t, "k")
	c := New(ts.URL, "k")
	id := uuid.New()

	created, err := c.CreatePost(context.Background(), NewPost{ID: id, Title: "Fixed", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)

	_, err = c.CreatePost(context.Background(), NewPost{ID: id, Title: "Fixed", Content: "x"})
	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusConflict, se.Status)
}

func TestClient_Unauthorized(t *testing.T) {
	ts := newBlogd(t, "k")
	c := New(ts.URL, "wrong")

	_, err := c.CreatePost(context.Background(), NewPost{Title: "Nope", Content: "x"})

	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Contains(t, se.Body, "invalid api key")
}

func TestClient_GetPostNotFound(t *testing.T) {
	ts := newBlogd(t, "k")
	c := New(ts.URL, "k")

	_, err := c.GetPost(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestClient_ErrorBodyIsBounded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		for range 100 {
			_, _ = w.Write([]byte("0123456789abcdef0123456789abcdef"))
		}
	}))
	defer ts.Close()

	_, err := New(ts.URL, "k").LatestPosts(context.Background(), 0)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Len(t, se.Body, 1024)
}
