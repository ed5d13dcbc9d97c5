// Package info describes the video information returned by info sources.
package info

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type VideoInfo struct {
	ID      string
	Title   string
	Formats []StreamFormat
}

// VideoOnlyFormats returns formats carrying image data without an audio
// track, preserving their order.
func (i VideoInfo) VideoOnlyFormats() []StreamFormat {
	var formats []StreamFormat
	for _, f := range i.Formats {
		if f.IsVideoOnly() {
			formats = append(formats, f)
		}
	}
	return formats
}

type StreamFormat struct {
	URL             string `json:"url"`
	Itag            int    `json:"itag,omitempty"`
	MimeType        string `json:"mimeType,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	QualityLabel    string `json:"qualityLabel,omitempty"`
	AudioBitrate    Number `json:"audioBitrate,omitempty"`
	AudioSampleRate Number `json:"audioSampleRate,omitempty"`
}

func (f StreamFormat) HasAudio() bool {
	return f.AudioBitrate != 0 || f.AudioSampleRate != 0
}

func (f StreamFormat) HasVideo() bool {
	return f.QualityLabel != ""
}

func (f StreamFormat) IsVideoOnly() bool {
	return f.HasVideo() && !f.HasAudio()
}

// Number is a JSON number that may also be encoded as a numeric string, as
// info services commonly do for sample rates.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decoding numeric string: %w", err)
		}
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parsing numeric string %q: %w", s, err)
		}
		*n = Number(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decoding number: %w", err)
	}
	*n = Number(v)
	return nil
}
