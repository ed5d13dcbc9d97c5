package fetchers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awesome-arjun11/youtube-image-embed/internal/fetchers"
	"github.com/awesome-arjun11/youtube-image-embed/internal/info"
	"github.com/awesome-arjun11/youtube-image-embed/internal/testutil"
)

const testInfoResponse = `{
	"videoDetails": {"videoId": "abcdefgh123", "title": "Test title"},
	"formats": [
		{"url": "https://test/1080", "itag": 137, "width": 1920, "height": 1080, "qualityLabel": "1080p"},
		{"url": "https://test/360a", "itag": 18, "width": 640, "height": 360, "qualityLabel": "360p",
		 "audioBitrate": 96, "audioSampleRate": "44100"}
	]
}`

func TestNewWorkerFetcher_InvalidURL(t *testing.T) {
	t.Parallel()
	for _, u := range []string{"", "  ", "/relative/path", "://bad"} {
		_, err := fetchers.NewWorkerFetcher(u, nil)
		assert.Error(t, err, "url %q", u)
	}
}

func TestWorkerFetcher_InfoURL(t *testing.T) {
	t.Parallel()
	f, err := fetchers.NewWorkerFetcher("https://worker.example.com/api/", nil)
	require.NoError(t, err)
	assert.Equal(
		t,
		"https://worker.example.com/api/info/abcdefgh123",
		f.InfoURL(testutil.TestVideoID),
	)
}

func TestWorkerFetcher_FetchInfo(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/info/abcdefgh123", r.URL.Path)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(testInfoResponse))
		}),
	)
	defer ts.Close()

	f, err := fetchers.NewWorkerFetcher(ts.URL, ts.Client())
	require.NoError(t, err)

	got, err := f.FetchInfo(context.Background(), testutil.TestVideoID)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh123", got.ID)
	assert.Equal(t, "Test title", got.Title)
	require.Len(t, got.Formats, 2)
	assert.Equal(t, info.StreamFormat{
		URL:          "https://test/1080",
		Itag:         137,
		Width:        1920,
		Height:       1080,
		QualityLabel: "1080p",
	}, got.Formats[0])
	assert.True(t, got.Formats[1].HasAudio())
}

func TestWorkerFetcher_FetchInfo_NonJSON(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("Video unavailable"))
		}),
	)
	defer ts.Close()

	f, err := fetchers.NewWorkerFetcher(ts.URL, ts.Client())
	require.NoError(t, err)

	_, err = f.FetchInfo(context.Background(), testutil.TestVideoID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Video unavailable")
}

func TestWorkerFetcher_FetchInfo_BadStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "not found"}`))
		}),
	)
	defer ts.Close()

	f, err := fetchers.NewWorkerFetcher(ts.URL, ts.Client())
	require.NoError(t, err)

	_, err = f.FetchInfo(context.Background(), testutil.TestVideoID)
	assert.ErrorContains(t, err, "404")
}

func TestWorkerFetcher_FetchInfo_Retries(t *testing.T) {
	t.Parallel()

	var requestCount atomic.Int32
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if requestCount.Add(1) < fetchers.DefaultRetryMax {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(testInfoResponse))
		}),
	)
	defer ts.Close()

	client := fetchers.NewClient()
	client.RetryWaitMin = time.Millisecond
	client.RetryWaitMax = time.Millisecond

	f, err := fetchers.NewWorkerFetcher(ts.URL, client.StandardClient())
	require.NoError(t, err)

	got, err := f.FetchInfo(context.Background(), testutil.TestVideoID)
	require.NoError(t, err)
	assert.Len(t, got.Formats, 2)
	assert.Equal(t, int32(fetchers.DefaultRetryMax), requestCount.Load())
}
