package pathutil

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
)

const maxAdjustedLength = 30

// slug settings are package globals.
var slugMu sync.Mutex

// AdjustForFilename turns s into a file name safe slug of at most length
// characters.
func AdjustForFilename(s string, length int) string {
	if length == 0 {
		length = maxAdjustedLength
	}

	slugMu.Lock()
	defer slugMu.Unlock()

	slug.MaxLength = length
	slug.Lowercase = false

	return slug.Make(s)
}

// FormatDuration formats d without zero units, e.g. 1h3s, 2m, 1m30s500ms.
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds() % 1000
	s := d.Truncate(time.Second).String()
	s = strings.ReplaceAll(s, "m0s", "m")
	s = strings.ReplaceAll(s, "h0m", "h")
	if ms != 0 {
		if s == "0s" {
			s = ""
		}
		s += fmt.Sprintf("%dms", ms)
	}
	return s
}

// FrameName builds a file name for a frame captured from a video, e.g.
// Hero-image_abcdefgh123_1m30s_640w.png. The label part is omitted when
// empty.
func FrameName(label, id string, at time.Duration, width int, ext string) string {
	parts := make([]string, 0, 4)
	if adjusted := AdjustForFilename(label, 0); adjusted != "" {
		parts = append(parts, adjusted)
	}
	parts = append(parts, id, FormatDuration(at))
	if width > 0 {
		parts = append(parts, fmt.Sprintf("%dw", width))
	}
	return strings.Join(parts, "_") + "." + ext
}

// ThumbnailName builds a file name for a video thumbnail.
func ThumbnailName(label, id, ext string) string {
	if adjusted := AdjustForFilename(label, 0); adjusted != "" {
		return adjusted + "_" + id + "_thumbnail." + ext
	}
	return id + "_thumbnail." + ext
}
