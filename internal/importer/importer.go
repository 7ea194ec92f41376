// Package importer publishes a directory of markdown files as blog posts.
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dgallion1/blogd/internal/client"
	"github.com/dgallion1/blogd/internal/render"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Status is the outcome of importing one file.
type Status string

const (
	StatusPublished Status = "published"
	StatusDuplicate Status = "duplicate_skipped"
	StatusFailed    Status = "failed"
)

// Publisher stores a post. *client.Client satisfies it.
type Publisher interface {
	CreatePost(ctx context.Context, p client.NewPost) (*client.Created, error)
}

// Result describes one imported file.
type Result struct {
	Path     string    `json:"path"`
	Title    string    `json:"title"`
	ID       uuid.UUID `json:"id"`
	Headings int       `json:"headings"`
	Status   Status    `json:"status"`
	Err      error     `json:"-"`
}

// Importer renders markdown files locally and publishes the ones that render.
type Importer struct {
	publisher   Publisher
	renderer    *render.Renderer
	log         *slog.Logger
	concurrency int
	sleep       func(ctx context.Context, d time.Duration) error
}

func New(pub Publisher, r *render.Renderer, log *slog.Logger, concurrency int) *Importer {
	if concurrency <= 0 {
		concurrency = 4
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Importer{
		publisher:   pub,
		renderer:    r,
		log:         log,
		concurrency: concurrency,
		sleep:       sleepCtx,
	}
}

// ImportDir imports every *.md file directly under dir. Per-file failures are
// reported in the results; the returned error is only set when the directory
// cannot be read or ctx is cancelled.
func (im *Importer) ImportDir(ctx context.Context, dir string) ([]Result, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	return im.ImportFiles(ctx, paths)
}

// ImportFiles imports the given files with bounded concurrency. Results are
// sorted by path.
func (im *Importer) ImportFiles(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = im.importFile(gctx, path)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b Result) int { return strings.Compare(a.Path, b.Path) })
	return results, nil
}

func (im *Importer) importFile(ctx context.Context, path string) Result {
	log := im.log.With("path", path)
	res := Result{Path: path, Status: StatusFailed}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read: %w", err)
		log.Error("read failed", "error", err)
		return res
	}

	post, headings, err := im.Prepare(path, data)
	if err != nil {
		res.Err = err
		log.Error("prepare failed", "error", err)
		return res
	}
	res.Title = post.Title
	res.ID = post.ID
	res.Headings = headings

	for attempt := 0; ; attempt++ {
		_, err = im.publisher.CreatePost(ctx, post)
		if err == nil || !IsRetryable(err) || attempt >= MaxRetries {
			break
		}
		delay := Backoff(attempt)
		log.Warn("publish failed, retrying", "attempt", attempt+1, "delay", delay, "error", err)
		if serr := im.sleep(ctx, delay); serr != nil {
			err = serr
			break
		}
	}

	var se *client.StatusError
	switch {
	case err == nil:
		res.Status = StatusPublished
		log.Info("published", "post_id", post.ID, "headings", headings)
	case errors.As(err, &se) && se.Status == http.StatusConflict:
		res.Status = StatusDuplicate
		log.Info("already published, skipping", "post_id", post.ID)
	default:
		res.Err = fmt.Errorf("publish: %w", err)
		log.Error("publish failed", "post_id", post.ID, "error", err)
	}
	return res
}

// Prepare turns a markdown file into a post ready to publish and returns the
// number of headings it renders with. The title comes from front matter, then
// the first heading, then the file name. Without a front matter id the post
// id is derived from the content so re-importing a file is detected as a
// duplicate.
func (im *Importer) Prepare(path string, data []byte) (client.NewPost, int, error) {
	fm, body, err := SplitFrontMatter(data)
	if err != nil {
		return client.NewPost{}, 0, err
	}

	rendered, err := im.renderer.Render(string(body))
	if err != nil {
		return client.NewPost{}, 0, fmt.Errorf("render: %w", err)
	}

	post := client.NewPost{Title: strings.TrimSpace(fm.Title), Content: string(body)}
	if post.Title == "" && len(rendered.Headings) > 0 {
		post.Title = rendered.Headings[0].Text
	}
	if post.Title == "" {
		post.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if fm.ID != "" {
		post.ID = uuid.MustParse(fm.ID)
	} else {
		post.ID = ContentID(body)
	}
	if !fm.Date.IsZero() {
		d := fm.Date.UTC()
		post.DatePublished = &d
	}
	return post, len(rendered.Headings), nil
}

// importNamespace scopes content-derived post ids.
var importNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/dgallion1/blogd/import"))

// ContentID derives a stable post id from markdown content.
func ContentID(body []byte) uuid.UUID {
	return uuid.NewSHA1(importNamespace, []byte(ContentHashHex(body)))
}

// ContentHashHex returns the hex SHA-256 of data.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
