package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/awesome-arjun11/youtube-image-embed/internal/info"
	"github.com/awesome-arjun11/youtube-image-embed/internal/videoid"
)

var TestVideoID videoid.ID = "abcdefgh123"

// TestFormats is a typical info service format list: muxed, video-only and
// audio-only entries ordered from the largest resolution down.
var TestFormats = []info.StreamFormat{
	{
		URL:          "https://test/videoplayback/itag/137",
		Itag:         137,
		MimeType:     `video/mp4; codecs="avc1.640028"`,
		Width:        1920,
		Height:       1080,
		QualityLabel: "1080p",
	},
	{
		URL:          "https://test/videoplayback/itag/136",
		Itag:         136,
		MimeType:     `video/mp4; codecs="avc1.4d401f"`,
		Width:        1280,
		Height:       720,
		QualityLabel: "720p",
	},
	{
		URL:             "https://test/videoplayback/itag/18",
		Itag:            18,
		MimeType:        `video/mp4; codecs="avc1.42001E, mp4a.40.2"`,
		Width:           640,
		Height:          360,
		QualityLabel:    "360p",
		AudioBitrate:    96,
		AudioSampleRate: 44100,
	},
	{
		URL:          "https://test/videoplayback/itag/134",
		Itag:         134,
		MimeType:     `video/mp4; codecs="avc1.4d401e"`,
		Width:        640,
		Height:       360,
		QualityLabel: "360p",
	},
	{
		URL:             "https://test/videoplayback/itag/140",
		Itag:            140,
		MimeType:        `audio/mp4; codecs="mp4a.40.2"`,
		AudioBitrate:    128,
		AudioSampleRate: 44100,
	},
}

// MockFetcher serves canned video information and counts lookups.
type MockFetcher struct {
	Infos map[videoid.ID]*info.VideoInfo
	Err   error

	mu    sync.Mutex
	calls map[videoid.ID]int
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Infos: map[videoid.ID]*info.VideoInfo{
			TestVideoID: {ID: string(TestVideoID), Title: "Test title", Formats: TestFormats},
		},
	}
}

func (f *MockFetcher) FetchInfo(_ context.Context, id videoid.ID) (*info.VideoInfo, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[videoid.ID]int)
	}
	f.calls[id]++
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	vi, ok := f.Infos[id]
	if !ok {
		return nil, fmt.Errorf("video %s not found", id)
	}
	return vi, nil
}

// Calls returns how many times id was looked up.
func (f *MockFetcher) Calls(id videoid.ID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}
