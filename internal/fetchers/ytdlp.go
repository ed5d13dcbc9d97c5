package fetchers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/awesome-arjun11/youtube-image-embed/internal/exec"
	"github.com/awesome-arjun11/youtube-image-embed/internal/info"
	"github.com/awesome-arjun11/youtube-image-embed/internal/urlutil"
	"github.com/awesome-arjun11/youtube-image-embed/internal/videoid"
)

// unknownAudioBitrate marks formats carrying an audio track of unknown
// bitrate.
const unknownAudioBitrate info.Number = -1

// YtdlpFetcher looks up video information by dumping it with yt-dlp.
type YtdlpFetcher struct {
	Runner exec.Runner
}

type jsonDump struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Formats []format `json:"formats"`
}

type format struct {
	URL               string   `json:"url"`
	FormatID          string   `json:"format_id"`
	FormatNote        string   `json:"format_note"`
	Extension         string   `json:"ext"`
	Protocol          string   `json:"protocol"`
	AudioCodec        string   `json:"acodec"`
	VideoCodec        string   `json:"vcodec"`
	AudioBitrate      *float64 `json:"abr"`
	AudioSamplingRate *float64 `json:"asr"`
	Width             *int     `json:"width"`
	Height            *int     `json:"height"`
}

func (fetcher *YtdlpFetcher) FetchInfo(ctx context.Context, id videoid.ID) (*info.VideoInfo, error) {
	out, err := fetcher.runDumpJSON(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("dumping video info: %w", err)
	}

	var dump jsonDump
	if err := json.Unmarshal(out, &dump); err != nil {
		return nil, fmt.Errorf("parsing info dump: %w", err)
	}

	formats := make([]info.StreamFormat, 0, len(dump.Formats))
	for _, f := range dump.Formats {
		// Fragmented (DASH/HLS) entries have no single seekable URL.
		if f.URL == "" || (f.Protocol != "" && f.Protocol != "https" && f.Protocol != "http") {
			continue
		}
		formats = append(formats, f.toStreamFormat())
	}

	return &info.VideoInfo{
		ID:      string(id),
		Title:   dump.Title,
		Formats: formats,
	}, nil
}

func (f format) toStreamFormat() info.StreamFormat {
	sf := info.StreamFormat{
		URL:      f.URL,
		MimeType: "video/" + f.Extension,
	}
	if _, err := fmt.Sscanf(f.FormatID, "%d", &sf.Itag); err != nil {
		sf.Itag = 0
	}
	if f.Width != nil {
		sf.Width = *f.Width
	}
	if f.Height != nil {
		sf.Height = *f.Height
	}

	if f.VideoCodec != "" && f.VideoCodec != "none" {
		sf.QualityLabel = f.FormatNote
		if sf.QualityLabel == "" && sf.Height > 0 {
			sf.QualityLabel = fmt.Sprintf("%dp", sf.Height)
		}
	} else {
		sf.MimeType = "audio/" + f.Extension
	}

	if f.AudioCodec != "" && f.AudioCodec != "none" {
		if f.AudioBitrate != nil {
			sf.AudioBitrate = info.Number(*f.AudioBitrate)
		}
		if f.AudioSamplingRate != nil {
			sf.AudioSampleRate = info.Number(*f.AudioSamplingRate)
		}
		// Muxed formats often come without abr and asr.
		if !sf.HasAudio() {
			sf.AudioBitrate = unknownAudioBitrate
		}
	}

	return sf
}

func (fetcher *YtdlpFetcher) runDumpJSON(ctx context.Context, id videoid.ID) ([]byte, error) {
	result, err := fetcher.Runner.RunWith(
		ctx,
		[]exec.Option{exec.WithQuiet()},
		"--dump-json",
		"--skip-download",
		"--no-warnings",
		urlutil.BuildVideoURL(string(id)),
	)
	if err != nil {
		if result != nil && len(result.Stderr) > 0 {
			return nil, fmt.Errorf("%w (stderr: %s)", err, bytes.TrimSpace(result.Stderr))
		}
		return nil, err
	}

	return result.Stdout, nil
}
