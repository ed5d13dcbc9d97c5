package commands

import (
	"fmt"

	"github.com/awesome-arjun11/youtube-image-embed/internal/batch"
	"github.com/awesome-arjun11/youtube-image-embed/internal/target"
)

type Frame struct {
	CommonFlags
	Time   string `help:"Time of the frame, e.g. 90, 1:30 or 1m30s; a thumbnail is saved if empty" short:"t"`
	Width  int    `help:"Image width" short:"W"`
	Height int    `help:"Image height, derived from the aspect ratio if not set" short:"H"`
	Name   string `help:"Label to prefix the image file name with"`
	Ref    string `help:"YouTube video URL or ID" arg:"" required:""`
}

func (c *Frame) Run() error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := c.newApp(ctx, 0)
	if err != nil {
		return err
	}

	stored := &target.Stored{Storage: a.Storage}
	fmt.Printf("(<<) Rendering %s...\n", c.Ref)
	outcome, err := a.Load(ctx, batch.Element{
		Name:   c.Name,
		Source: c.Ref,
		Time:   c.Time,
		Width:  c.Width,
		Height: c.Height,
		Target: stored,
	})
	if err != nil {
		return fmt.Errorf("waiting for frame: %w", err)
	}
	if outcome.Err != nil {
		return fmt.Errorf("rendering %s: %w", c.Ref, outcome.Err)
	}

	if outcome.Status == batch.StatusThumbnail {
		fmt.Println("No time was given, saved the video thumbnail instead.")
	} else {
		fmt.Printf(
			"Frame at %s from a %dx%d stream.\n",
			outcome.Request.Time,
			outcome.Stream.Width,
			outcome.Stream.Height,
		)
	}
	fmt.Printf("Success! Saved to '%s'\n", stored.Location())

	return nil
}
