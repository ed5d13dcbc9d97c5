package urlutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/awesome-arjun11/youtube-image-embed/internal/urlutil"
)

func TestBuildThumbnailURL(t *testing.T) {
	t.Parallel()
	assert.Equal(
		t,
		"https://img.youtube.com/vi_webp/abcdefgh123/maxresdefault.webp",
		urlutil.BuildThumbnailURL("abcdefgh123"),
	)
}

func TestFormatServerAddress(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		addr string
		want string
	}{
		{addr: ":8080", want: "http://localhost:8080"},
		{addr: "0.0.0.0:80", want: "http://0.0.0.0:80"},
		{addr: "example.com", want: "http://example.com"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, urlutil.FormatServerAddress(tc.addr))
	}
}
