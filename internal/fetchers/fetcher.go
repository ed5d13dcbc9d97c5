// Package fetchers looks up video information from info sources.
package fetchers

import (
	"context"

	"github.com/awesome-arjun11/youtube-image-embed/internal/info"
	"github.com/awesome-arjun11/youtube-image-embed/internal/videoid"
)

type Fetcher interface {
	FetchInfo(ctx context.Context, id videoid.ID) (*info.VideoInfo, error)
}
