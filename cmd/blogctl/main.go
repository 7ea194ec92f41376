package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dgallion1/blogd/internal/client"
	"github.com/dgallion1/blogd/internal/render"
)

// Global carries shared state into subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition and global flags.
type CLI struct {
	Server  string `help:"blogd base URL" default:"http://localhost:8080" env:"BLOGD_SERVER"`
	Token   string `help:"API key for write endpoints" env:"BLOGD_TOKEN"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Post   PostCmd   `cmd:"" help:"Publish one markdown file as a new post"`
	Import ImportCmd `cmd:"" help:"Publish every *.md file in a directory"`
	Latest LatestCmd `cmd:"" help:"List the latest published posts"`
	Show   ShowCmd   `cmd:"" help:"Print a published post as rendered by the server"`
	Render RenderCmd `cmd:"" help:"Render a markdown file locally and print the HTML and table of contents"`
}

// AfterApply sets up logging once flags are parsed.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func (c *CLI) client() *client.Client {
	return client.New(c.Server, c.Token)
}

func (c *CLI) renderer() *render.Renderer {
	return render.New()
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("blogctl"),
		kong.Description("Publish and preview blogd posts."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&Global{Logger: slog.Default(), Out: os.Stdout}, cli)
	ctx.FatalIfErrorf(err)
}
