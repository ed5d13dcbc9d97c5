package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"

	"github.com/awesome-arjun11/youtube-image-embed/internal/app"
	"github.com/awesome-arjun11/youtube-image-embed/internal/target"
)

type S3Flags struct {
	Bucket    string `help:"Bucket to upload images to; enables S3 storage" env:"BUCKET"`
	Region    string `help:"Bucket region" env:"REGION"`
	Endpoint  string `help:"Custom endpoint for S3-compatible stores" env:"ENDPOINT"`
	Prefix    string `help:"Key prefix for uploaded images" env:"PREFIX"`
	PublicURL string `help:"Public base URL of the bucket" env:"PUBLIC_URL" name:"public-url"`
}

type CommonFlags struct {
	WorkerURL    string  `help:"Base URL of the video info service" env:"YTIE_WORKER_URL" name:"worker-url"`
	InfoSource   string  `help:"Where to look up video info" env:"YTIE_INFO_SOURCE" enum:"worker,ytdlp" default:"worker"`
	CacheSize    int     `help:"Maximum number of cached videos, 0 is unlimited" env:"YTIE_CACHE_SIZE" default:"0"`
	DefaultWidth int     `help:"Image width for elements without one" env:"YTIE_DEFAULT_WIDTH" default:"1280"`
	Jobs         int     `help:"Videos resolved at once, 0 is unlimited" env:"YTIE_JOBS" default:"4" short:"j"`
	Rate         float64 `help:"Info lookups per second, 0 is unlimited" env:"YTIE_RATE" default:"0"`
	OutputDir    string  `help:"Directory to save images to" env:"YTIE_OUTPUT_DIR" default:"." short:"o" type:"path"`

	S3 S3Flags `embed:"" prefix:"s3-" envprefix:"YTIE_S3_" group:"S3 storage"`

	FFmpeg   string `help:"Path to ffmpeg" env:"YTIE_FFMPEG" default:"ffmpeg"`
	FFprobe  string `help:"Path to ffprobe" env:"YTIE_FFPROBE" default:"ffprobe"`
	Ytdlp    string `help:"Path to yt-dlp" env:"YTIE_YTDLP" default:"yt-dlp" name:"yt-dlp"`
	LogLevel string `help:"Log level" env:"YTIE_LOG_LEVEL" enum:"debug,info,warn,error" default:"info"`
}

func (f *CommonFlags) Config() (*app.Config, error) {
	if f.CacheSize < 0 {
		return nil, fmt.Errorf("invalid cache size %d: must be 0 or more", f.CacheSize)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(f.LogLevel)); err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	return &app.Config{
		WorkerURL:         f.WorkerURL,
		InfoSource:        f.InfoSource,
		CacheSize:         f.CacheSize,
		DefaultWidth:      f.DefaultWidth,
		Concurrency:       f.Jobs,
		RequestsPerSecond: f.Rate,
		OutputDir:         f.OutputDir,
		S3: target.S3Config{
			Bucket:    f.S3.Bucket,
			Region:    f.S3.Region,
			Endpoint:  f.S3.Endpoint,
			Prefix:    f.S3.Prefix,
			PublicURL: f.S3.PublicURL,
		},
		FFmpegPath:  f.FFmpeg,
		FFprobePath: f.FFprobe,
		YtdlpPath:   f.Ytdlp,
		LogLevel:    level,
	}, nil
}

// newApp checks the external tools are available and initializes the app.
func (f *CommonFlags) newApp(ctx context.Context, port int) (*app.App, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	tools := []string{cfg.FFmpegPath, cfg.FFprobePath}
	if cfg.InfoSource == app.InfoSourceYtdlp {
		tools = append(tools, cfg.YtdlpPath)
	}
	if err := checkTools(tools...); err != nil {
		return nil, err
	}

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func checkTools(paths ...string) error {
	for _, path := range paths {
		if _, err := exec.LookPath(path); err != nil {
			return fmt.Errorf("unable to find %s: %w", path, err)
		}
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
