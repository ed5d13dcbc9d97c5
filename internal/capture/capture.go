// Package capture grabs still frames from video streams with ffmpeg.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/awesome-arjun11/youtube-image-embed/internal/exec"
	"github.com/awesome-arjun11/youtube-image-embed/internal/resolver"
)

// SeekOutOfRangeError is returned when a frame is requested past the end of
// a video.
type SeekOutOfRangeError struct {
	Time     time.Duration
	Duration time.Duration
}

func (e *SeekOutOfRangeError) Error() string {
	return fmt.Sprintf("timestamp %s exceeds video duration %s", e.Time, e.Duration)
}

// Frame describes the frame to capture and the size to render it at.
type Frame struct {
	At     time.Duration
	Width  int
	Height int
}

type Capturer struct {
	FFmpeg  exec.Runner
	FFprobe exec.Runner
}

// FrameSize returns the output size for a frame: the explicit height if
// given, otherwise the height keeping the stream aspect ratio. A height of
// -2 lets ffmpeg keep the source aspect ratio.
func FrameSize(aspectRatio float64, width, height int) (int, int) {
	if height > 0 {
		return width, height
	}
	if aspectRatio <= 0 {
		return width, -2
	}
	return width, max(1, int(math.Round(float64(width)/aspectRatio)))
}

// Duration probes the duration of the stream at url. A zero duration means
// it is unknown.
func (c *Capturer) Duration(ctx context.Context, url string) (time.Duration, error) {
	result, err := c.FFprobe.RunWith(
		ctx,
		[]exec.Option{exec.WithQuiet()},
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		url,
	)
	if err != nil {
		return 0, fmt.Errorf("probing duration: %w (stderr: %s)", err, stderrOf(result))
	}

	raw := strings.TrimSpace(string(result.Stdout))
	if raw == "" || raw == "N/A" {
		return 0, nil
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration %q: %w", raw, err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// Capture seeks the stream to the frame time and returns the frame encoded
// as PNG. Only a one second window starting at the frame time is read.
func (c *Capturer) Capture(
	ctx context.Context,
	stream resolver.ResolvedStream,
	frame Frame,
) ([]byte, error) {
	duration, err := c.Duration(ctx, stream.URL)
	if err != nil {
		return nil, err
	}
	if duration > 0 && frame.At > duration {
		return nil, &SeekOutOfRangeError{Time: frame.At, Duration: duration}
	}

	width, height := FrameSize(stream.AspectRatio, frame.Width, frame.Height)
	slog.Debug("capturing frame", "t", frame.At, "width", width, "height", height)

	result, err := c.FFmpeg.RunWith(
		ctx,
		nil,
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", frame.At.Seconds()),
		"-t", "1",
		"-i", stream.URL,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-f", "image2pipe",
		"-c:v", "png",
		"pipe:1",
	)
	if err != nil {
		return nil, fmt.Errorf(
			"getting frame at %.3f: %w (stderr: %s)",
			frame.At.Seconds(),
			err,
			stderrOf(result),
		)
	}

	data := result.Stdout
	if len(data) == 0 {
		return nil, errors.New("no frame data captured")
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("invalid frame data: %w", err)
	}

	return data, nil
}

func stderrOf(result *exec.RunResult) string {
	if result == nil {
		return ""
	}
	return strings.TrimSpace(string(result.Stderr))
}
