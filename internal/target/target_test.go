package target_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awesome-arjun11/youtube-image-embed/internal/target"
)

func TestStored_Attach(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "frames")
	tgt := &target.Stored{Storage: &target.DirStorage{Dir: dir}}

	err := tgt.Attach(context.Background(), target.Image{
		Name:        "frame.png",
		ContentType: "image/png",
		Data:        []byte("png"),
	})
	require.NoError(t, err)

	want := filepath.Join(dir, "frame.png")
	assert.Equal(t, want, tgt.Location())
	got, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)
}

func TestDirStorage_RejectsPaths(t *testing.T) {
	t.Parallel()
	storage := &target.DirStorage{Dir: t.TempDir()}
	for _, name := range []string{"", "../escape.png", "sub/frame.png"} {
		_, err := storage.Save(context.Background(), name, nil)
		assert.Error(t, err, "name %q", name)
	}
}

func TestBuffer(t *testing.T) {
	t.Parallel()
	var b target.Buffer

	_, ok := b.Image()
	assert.False(t, ok)
	assert.Error(t, b.Attach(context.Background(), target.Image{Name: "empty.png"}))

	require.NoError(t, b.Attach(context.Background(), target.Image{Name: "a.png", Data: []byte{1}}))
	img, ok := b.Image()
	assert.True(t, ok)
	assert.Equal(t, "a.png", img.Name)

	require.NoError(t, b.Link(context.Background(), "https://example.com/a.webp"))
	assert.Equal(t, "https://example.com/a.webp", b.LinkedURL())
}

func TestS3Storage_Key(t *testing.T) {
	t.Parallel()
	storage, err := target.NewS3Storage(context.Background(), target.S3Config{
		Bucket: "frames",
		Region: "us-east-1",
		Prefix: "/embeds/",
	})
	require.NoError(t, err)
	assert.Equal(t, "embeds/frame.png", storage.Key("frame.png"))

	_, err = target.NewS3Storage(context.Background(), target.S3Config{})
	assert.Error(t, err)
}
