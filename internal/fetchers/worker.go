package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/awesome-arjun11/youtube-image-embed/internal/info"
	"github.com/awesome-arjun11/youtube-image-embed/internal/videoid"
)

const maxErrorBodyLength = 512

// WorkerFetcher looks up video information from an info service answering
// GET {base}/info/{id} with a JSON document.
type WorkerFetcher struct {
	BaseURL *url.URL
	Client  *http.Client
	Limiter *rate.Limiter
}

type workerResponse struct {
	Formats      []info.StreamFormat `json:"formats"`
	VideoDetails struct {
		VideoID string `json:"videoId"`
		Title   string `json:"title"`
	} `json:"videoDetails"`
}

// NewWorkerFetcher creates a fetcher for the info service at baseURL. A nil
// client means a retrying client from NewClient.
func NewWorkerFetcher(baseURL string, client *http.Client) (*WorkerFetcher, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("info service URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing info service URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("info service URL must be absolute: %s", baseURL)
	}

	if client == nil {
		client = NewClient().StandardClient()
	}

	return &WorkerFetcher{BaseURL: u, Client: client}, nil
}

// InfoURL returns the lookup URL for a video.
func (f *WorkerFetcher) InfoURL(id videoid.ID) string {
	return f.BaseURL.JoinPath("info", string(id)).String()
}

func (f *WorkerFetcher) FetchInfo(ctx context.Context, id videoid.ID) (*info.VideoInfo, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.InfoURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("creating new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading info response: %w", err)
	}

	if contentType := resp.Header.Get("Content-Type"); contentType != "" && !isJSON(contentType) {
		return nil, fmt.Errorf("info service: %s", truncate(string(body)))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("got unexpected status: %s: %s", resp.Status, truncate(string(body)))
	}

	var decoded workerResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("parsing info response: %w", err)
	}

	return &info.VideoInfo{
		ID:      string(id),
		Title:   decoded.VideoDetails.Title,
		Formats: decoded.Formats,
	}, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBodyLength {
		return s[:maxErrorBodyLength] + "..."
	}
	return s
}
