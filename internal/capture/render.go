package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/awesome-arjun11/youtube-image-embed/internal/batch"
	"github.com/awesome-arjun11/youtube-image-embed/internal/pathutil"
	"github.com/awesome-arjun11/youtube-image-embed/internal/resolver"
	"github.com/awesome-arjun11/youtube-image-embed/internal/target"
	"github.com/awesome-arjun11/youtube-image-embed/internal/urlutil"
)

var errNoTarget = errors.New("request has no target")

// Renderer captures frames and thumbnails for batch requests and attaches
// them to the request targets.
type Renderer struct {
	Capturer    *Capturer
	Thumbnailer *Thumbnailer
}

func (r *Renderer) RenderFrame(
	ctx context.Context,
	stream resolver.ResolvedStream,
	req batch.Request,
) error {
	if req.Target == nil {
		return errNoTarget
	}

	data, err := r.Capturer.Capture(ctx, stream, Frame{
		At:     req.Time,
		Width:  req.TargetWidth,
		Height: req.TargetHeight,
	})
	if err != nil {
		return fmt.Errorf("capturing frame of %s: %w", req.ID, err)
	}

	return req.Target.Attach(ctx, target.Image{
		Name:        pathutil.FrameName(req.Name, string(req.ID), req.Time, req.TargetWidth, "png"),
		ContentType: "image/png",
		Data:        data,
	})
}

func (r *Renderer) RenderThumbnail(ctx context.Context, req batch.Request) error {
	if req.Target == nil {
		return errNoTarget
	}

	url := urlutil.BuildThumbnailURL(string(req.ID))
	if linker, ok := req.Target.(target.Linker); ok {
		return linker.Link(ctx, url)
	}

	data, contentType, err := r.Thumbnailer.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("fetching thumbnail of %s: %w", req.ID, err)
	}

	return req.Target.Attach(ctx, target.Image{
		Name:        pathutil.ThumbnailName(req.Name, string(req.ID), "webp"),
		ContentType: contentType,
		Data:        data,
	})
}
