package resolver

import (
	"slices"

	"github.com/awesome-arjun11/youtube-image-embed/internal/info"
)

// CandidateFormats returns the formats eligible for frame capture ordered
// from the largest width down. Video-only formats are preferred; when there
// are none, every format is a candidate.
func CandidateFormats(formats []info.StreamFormat) []info.StreamFormat {
	candidates := info.VideoInfo{Formats: formats}.VideoOnlyFormats()
	if len(candidates) == 0 {
		candidates = slices.Clone(formats)
	}

	slices.SortStableFunc(candidates, func(a, b info.StreamFormat) int {
		return b.Width - a.Width
	})

	return candidates
}

// SelectFormat picks the smallest candidate format that is at least
// targetWidth wide. When targetWidth exceeds every width, the largest format
// is picked; when every format is wider, the smallest one is.
func SelectFormat(formats []info.StreamFormat, targetWidth int) (info.StreamFormat, error) {
	candidates := CandidateFormats(formats)
	if len(candidates) == 0 {
		return info.StreamFormat{}, ErrNoFormats
	}

	if targetWidth >= candidates[0].Width {
		return candidates[0], nil
	}
	for i, f := range candidates {
		if f.Width < targetWidth {
			return candidates[i-1], nil
		}
	}

	return candidates[len(candidates)-1], nil
}
