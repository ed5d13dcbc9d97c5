package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/awesome-arjun11/youtube-image-embed/internal/batch"
	"github.com/awesome-arjun11/youtube-image-embed/internal/cache"
	"github.com/awesome-arjun11/youtube-image-embed/internal/capture"
	"github.com/awesome-arjun11/youtube-image-embed/internal/exec"
	"github.com/awesome-arjun11/youtube-image-embed/internal/fetchers"
	"github.com/awesome-arjun11/youtube-image-embed/internal/page"
	"github.com/awesome-arjun11/youtube-image-embed/internal/resolver"
	"github.com/awesome-arjun11/youtube-image-embed/internal/target"
)

const (
	InfoSourceWorker = "worker"
	InfoSourceYtdlp  = "ytdlp"
)

type Config struct {
	WorkerURL  string
	InfoSource string
	// CacheSize bounds the number of cached video infos. Zero means
	// unbounded.
	CacheSize    int
	DefaultWidth int
	// Concurrency limits how many videos are resolved at once. Zero means
	// no limit.
	Concurrency       int
	RequestsPerSecond float64

	OutputDir string
	S3        target.S3Config

	FFmpegPath  string
	FFprobePath string
	YtdlpPath   string

	Port     int
	LogLevel slog.Level
}

type App struct {
	Config   *Config
	Resolver *resolver.Resolver
	Batcher  *batch.Batcher
	Storage  target.Storage
	Server   *http.Server

	FFmpegRunner  exec.Runner
	FFprobeRunner exec.Runner
	YtdlpRunner   exec.Runner
}

// SetupLogger installs a text logger on stderr as the default logger.
func SetupLogger(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func NewApp(ctx context.Context, cfg *Config) (*App, error) {
	SetupLogger(cfg.LogLevel)

	a := &App{
		Config:        cfg,
		FFmpegRunner:  exec.NewCommandRunner(cfg.FFmpegPath),
		FFprobeRunner: exec.NewCommandRunner(cfg.FFprobePath),
		YtdlpRunner:   exec.NewCommandRunner(cfg.YtdlpPath),
	}

	fetcher, err := a.newFetcher()
	if err != nil {
		return nil, fmt.Errorf("creating info fetcher: %w", err)
	}

	storage, err := a.newStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage: %w", err)
	}
	a.Storage = storage

	a.Resolver = resolver.New(fetcher, cache.New(cfg.CacheSize))
	a.Batcher = batch.New(
		a.Resolver,
		&capture.Renderer{
			Capturer: &capture.Capturer{
				FFmpeg:  a.FFmpegRunner,
				FFprobe: a.FFprobeRunner,
			},
			Thumbnailer: &capture.Thumbnailer{
				Client: fetchers.NewClient().StandardClient(),
			},
		},
		batch.WithDefaultWidth(cfg.DefaultWidth),
		batch.WithConcurrency(cfg.Concurrency),
	)

	a.Server = &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           a.Routes(),
		ReadHeaderTimeout: 20 * time.Second,
	}

	return a, nil
}

func (a *App) newFetcher() (fetchers.Fetcher, error) {
	switch a.Config.InfoSource {
	case InfoSourceYtdlp:
		return &fetchers.YtdlpFetcher{Runner: a.YtdlpRunner}, nil
	case InfoSourceWorker, "":
		f, err := fetchers.NewWorkerFetcher(a.Config.WorkerURL, nil)
		if err != nil {
			return nil, err
		}
		if rps := a.Config.RequestsPerSecond; rps > 0 {
			f.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown info source: %q", a.Config.InfoSource)
	}
}

func (a *App) newStorage(ctx context.Context) (target.Storage, error) {
	if a.Config.S3.Bucket != "" {
		return target.NewS3Storage(ctx, a.Config.S3)
	}
	return &target.DirStorage{Dir: a.Config.OutputDir}, nil
}

// Load renders a single element and waits for its outcome.
func (a *App) Load(ctx context.Context, el batch.Element) (batch.Outcome, error) {
	return a.Batcher.Load(ctx, el).Wait(ctx)
}

// LoadAll renders every embed element of a document and waits for all
// outcomes.
func (a *App) LoadAll(ctx context.Context, doc *page.Document) ([]batch.Outcome, error) {
	return batch.Wait(ctx, a.Batcher.Process(ctx, doc.Elements()))
}
