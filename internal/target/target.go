// Package target delivers rendered images to where they were requested.
package target

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Image is a rendered frame or thumbnail.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Target receives the image rendered for one request.
type Target interface {
	Attach(ctx context.Context, img Image) error
}

// Linker is implemented by targets able to reference a remote image by URL
// instead of receiving its bytes.
type Linker interface {
	Link(ctx context.Context, url string) error
}

// Storage saves named content and returns its location.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// DirStorage saves content as files under a directory.
type DirStorage struct {
	Dir string
}

func (s *DirStorage) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if strings.TrimSpace(name) == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(s.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	return path, nil
}

// Stored is a target saving images to a storage.
type Stored struct {
	Storage Storage

	mu       sync.Mutex
	location string
}

func (t *Stored) Attach(ctx context.Context, img Image) error {
	location, err := t.Storage.Save(ctx, img.Name, bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("saving %s: %w", img.Name, err)
	}
	slog.Info("saved image", "location", location)

	t.mu.Lock()
	t.location = location
	t.mu.Unlock()

	return nil
}

// Location returns where the last attached image was saved.
func (t *Stored) Location() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.location
}

// Buffer keeps the attached image in memory.
type Buffer struct {
	mu    sync.Mutex
	image *Image
	link  string
}

func (b *Buffer) Attach(_ context.Context, img Image) error {
	if len(img.Data) == 0 {
		return errors.New("empty image")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.image = &img
	return nil
}

func (b *Buffer) Link(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.link = url
	return nil
}

// Image returns the attached image, if any.
func (b *Buffer) Image() (Image, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.image == nil {
		return Image{}, false
	}
	return *b.image, true
}

// LinkedURL returns the URL passed to Link, if any.
func (b *Buffer) LinkedURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.link
}
