package urlutil

import (
	"strings"
)

const thumbnailBaseURL = "https://img.youtube.com/vi_webp/"

func BuildVideoURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// BuildThumbnailURL returns the highest resolution WebP thumbnail of a video.
func BuildThumbnailURL(id string) string {
	return thumbnailBaseURL + id + "/maxresdefault.webp"
}

func FormatServerAddress(addr string) string {
	host, port, found := strings.Cut(addr, ":")
	if !found {
		return "http://" + addr
	}
	if host == "" {
		return "http://localhost:" + port
	}
	return "http://" + addr
}
