package main

import (
	"github.com/alecthomas/kong"

	"github.com/awesome-arjun11/youtube-image-embed/internal/commands"
)

type CLI struct {
	Frame   commands.Frame   `cmd:"" help:"Render the frame of a video at a time"`
	Page    commands.Page    `cmd:"" help:"Render images for the embed elements of an HTML page"`
	Serve   commands.Serve   `cmd:"" help:"Serve video frames over HTTP"`
	Version commands.Version `cmd:"" help:"Show version information"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(
		&cli,
		kong.Name("ytie"),
		kong.Description("Still frames of YouTube videos as images"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
