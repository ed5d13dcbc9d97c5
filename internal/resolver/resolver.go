// Package resolver chooses the stream to capture frames from.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/awesome-arjun11/youtube-image-embed/internal/cache"
	"github.com/awesome-arjun11/youtube-image-embed/internal/fetchers"
	"github.com/awesome-arjun11/youtube-image-embed/internal/info"
	"github.com/awesome-arjun11/youtube-image-embed/internal/videoid"
)

// ResolvedStream is a stream chosen for a video and a target width.
type ResolvedStream struct {
	URL         string  `json:"url"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspectRatio"`
}

type Resolver struct {
	fetcher fetchers.Fetcher
	store   cache.Store
}

// New creates a resolver. A nil store means an unbounded in-memory cache.
func New(fetcher fetchers.Fetcher, store cache.Store) *Resolver {
	if store == nil {
		store = cache.NewMemory()
	}
	return &Resolver{fetcher: fetcher, store: store}
}

// Info returns video information from the cache, fetching it on a miss.
// Concurrent misses for the same ID may fetch twice.
func (r *Resolver) Info(ctx context.Context, id videoid.ID) (*info.VideoInfo, error) {
	if vi, ok := r.store.Get(id); ok {
		slog.Debug("using cached video info", "id", id)
		return vi, nil
	}

	vi, err := r.fetcher.FetchInfo(ctx, id)
	if err != nil {
		return nil, &LookupError{ID: id, Err: err}
	}
	if vi == nil {
		return nil, &LookupError{ID: id, Err: errors.New("empty info")}
	}

	r.store.Put(id, vi)
	return vi, nil
}

// Resolve returns the best-fit stream of a video for targetWidth.
func (r *Resolver) Resolve(
	ctx context.Context,
	id videoid.ID,
	targetWidth int,
) (ResolvedStream, error) {
	vi, err := r.Info(ctx, id)
	if err != nil {
		return ResolvedStream{}, err
	}

	f, err := SelectFormat(vi.Formats, targetWidth)
	if err != nil {
		return ResolvedStream{}, err
	}
	slog.Debug(
		"selected format",
		"id", id,
		"target_width", targetWidth,
		"itag", f.Itag,
		"width", f.Width,
		"height", f.Height,
	)

	stream := ResolvedStream{URL: f.URL, Width: f.Width, Height: f.Height}
	if f.Height > 0 {
		stream.AspectRatio = float64(f.Width) / float64(f.Height)
	}

	return stream, nil
}
