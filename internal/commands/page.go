package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/awesome-arjun11/youtube-image-embed/internal/batch"
	"github.com/awesome-arjun11/youtube-image-embed/internal/page"
)

type Page struct {
	CommonFlags
	Out   string `help:"Where to write the rewritten page; defaults to <name>.embed.html in the output directory" type:"path"`
	Input string `help:"HTML page with .yt-image-embed elements" arg:"" type:"existingfile"`
}

func (c *Page) Run() error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := c.newApp(ctx, 0)
	if err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = EmbedPagePath(c.Input, c.OutputDir)
	}

	in, err := os.Open(c.Input)
	if err != nil {
		return fmt.Errorf("opening page: %w", err)
	}
	doc, err := page.Parse(in, a.Storage, page.WithPageDir(filepath.Dir(out)))
	in.Close()
	if err != nil {
		return err
	}

	fmt.Printf("(<<) Rendering images of %s...\n", c.Input)
	outcomes, err := a.LoadAll(ctx, doc)
	if err != nil {
		return fmt.Errorf("waiting for images: %w", err)
	}
	fmt.Println(summarize(outcomes))

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating output page: %w", err)
	}
	defer f.Close()

	if err := doc.Render(f); err != nil {
		return fmt.Errorf("writing output page: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output page: %w", err)
	}
	fmt.Printf("Success! Saved to '%s'\n", out)

	return nil
}

// EmbedPagePath returns the default path of a rewritten page.
func EmbedPagePath(input, dir string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+".embed"+ext)
}

func summarize(outcomes []batch.Outcome) string {
	counts := make(map[batch.Status]int)
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return fmt.Sprintf(
		"Elements: %d, frames: %d, thumbnails: %d, skipped: %d, failed: %d",
		len(outcomes),
		counts[batch.StatusRendered],
		counts[batch.StatusThumbnail],
		counts[batch.StatusSkipped],
		counts[batch.StatusFailed],
	)
}
