package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dgallion1/blogd/internal/client"
	"github.com/dgallion1/blogd/internal/importer"
	"github.com/dgallion1/blogd/internal/toc"
	"github.com/google/uuid"
)

var errNoHeadings = errors.New("no headings")

// PostCmd implements the 'post' command.
type PostCmd struct {
	Title string `arg:"" help:"Post title"`
	File  string `arg:"" type:"existingfile" help:"Markdown file"`
}

func (p *PostCmd) Run(g *Global, root *CLI) error {
	content, err := os.ReadFile(p.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", p.File, err)
	}
	// Reject content the server could not render before sending it.
	if _, err := root.renderer().Render(string(content)); err != nil {
		return fmt.Errorf("%s: %w", p.File, err)
	}

	c := root.client()
	defer c.Close()

	created, err := c.CreatePost(context.Background(), client.NewPost{
		ID:      uuid.New(),
		Title:   p.Title,
		Content: string(content),
	})
	if err != nil {
		return err
	}
	g.Logger.Debug("post created", "post_id", created.ID, "headings", created.Headings)
	fmt.Fprintf(g.Out, "%s %s\n", created.ID, strings.TrimRight(root.Server, "/")+created.URL)
	return nil
}

// ImportCmd implements the 'import' command.
type ImportCmd struct {
	Dir         string `arg:"" type:"existingdir" help:"Directory of markdown files"`
	Concurrency int    `short:"j" help:"Files published in parallel" default:"4"`
}

func (i *ImportCmd) Run(g *Global, root *CLI) error {
	c := root.client()
	defer c.Close()

	im := importer.New(c, root.renderer(), g.Logger, i.Concurrency)
	results, err := im.ImportDir(context.Background(), i.Dir)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	failed := 0
	for _, r := range results {
		detail := r.ID.String()
		if r.Err != nil {
			failed++
			detail = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Status, filepath.Base(r.Path), r.Title, detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// LatestCmd implements the 'latest' command.
type LatestCmd struct {
	Limit int `short:"n" help:"Number of posts (server default when 0)"`
}

func (l *LatestCmd) Run(g *Global, root *CLI) error {
	c := root.client()
	defer c.Close()

	latest, err := c.LatestPosts(context.Background(), l.Limit)
	if err != nil {
		return err
	}
	for _, p := range latest {
		fmt.Fprintf(g.Out, "%s  %s  %s\n", p.DatePublished.Format("2006-01-02"), p.ID, p.Title)
	}
	return nil
}

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	ID      uuid.UUID `arg:"" help:"Post id"`
	TOCOnly bool      `name:"toc-only" help:"Print only the table of contents"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	c := root.client()
	defer c.Close()

	post, err := c.GetPost(context.Background(), s.ID)
	if err != nil {
		return err
	}
	if s.TOCOnly {
		if post.TOCHTML == "" {
			return fmt.Errorf("%s: %w", s.ID, errNoHeadings)
		}
		fmt.Fprintln(g.Out, post.TOCHTML)
		return nil
	}
	fmt.Fprintf(g.Out, "<h1>%s</h1>\n", html.EscapeString(post.Title))
	if post.TOCHTML != "" {
		fmt.Fprintf(g.Out, "<nav class=\"toc\">%s</nav>\n", post.TOCHTML)
	}
	fmt.Fprint(g.Out, post.HTML)
	return nil
}

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	File    string `arg:"" type:"existingfile" help:"Markdown file"`
	TOCOnly bool   `name:"toc-only" help:"Print only the table of contents"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	data, err := os.ReadFile(r.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", r.File, err)
	}
	_, body, err := importer.SplitFrontMatter(data)
	if err != nil {
		return fmt.Errorf("%s: %w", r.File, err)
	}

	res, err := root.renderer().Render(string(body))
	if err != nil {
		return fmt.Errorf("%s: %w", r.File, err)
	}
	g.Logger.Debug("rendered", "file", r.File, "toc_entries", toc.Count(res.TOC), "toc_depth", toc.Depth(res.TOC))

	if r.TOCOnly {
		if len(res.TOC) == 0 {
			return fmt.Errorf("%s: %w", r.File, errNoHeadings)
		}
		fmt.Fprintln(g.Out, res.TOCHTML())
		return nil
	}
	if t := res.TOCHTML(); t != "" {
		fmt.Fprintf(g.Out, "<nav class=\"toc\">%s</nav>\n", t)
	}
	fmt.Fprint(g.Out, res.HTML)
	return nil
}
