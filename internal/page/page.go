// Package page discovers embed elements in HTML documents and inserts the
// rendered images back into them.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/awesome-arjun11/youtube-image-embed/internal/batch"
	"github.com/awesome-arjun11/youtube-image-embed/internal/input"
	"github.com/awesome-arjun11/youtube-image-embed/internal/target"
)

// EmbedClass marks the elements processed by Document.Elements.
const EmbedClass = "yt-image-embed"

// ErrNoMatch is returned when a selector matches no element.
var ErrNoMatch = errors.New("no element matches selector")

// Document is a parsed HTML page. Images attached to its elements are
// saved to the storage and referenced by <img> children.
type Document struct {
	root    *html.Node
	storage target.Storage
	pageDir string

	mu sync.Mutex
}

type Option func(*Document)

// WithPageDir sets the directory the rendered page is written to. Images
// saved as local files are then referenced relative to it.
func WithPageDir(dir string) Option {
	return func(d *Document) {
		d.pageDir = dir
	}
}

func Parse(r io.Reader, storage target.Storage, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	d := &Document{root: root, storage: storage}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// imageSource returns the src referencing a saved image. URLs are kept,
// file paths are made relative to the page directory.
func (d *Document) imageSource(location string) (string, error) {
	if u, err := url.Parse(location); err == nil && len(u.Scheme) > 1 {
		return location, nil
	}
	if d.pageDir == "" {
		return filepath.ToSlash(location), nil
	}

	base, err := filepath.Abs(d.pageDir)
	if err != nil {
		return "", fmt.Errorf("resolving page directory: %w", err)
	}
	path, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("resolving image path: %w", err)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", fmt.Errorf("relating image to page: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// Elements returns an element for every node carrying the embed class, in
// document order.
func (d *Document) Elements() []batch.Element {
	var elements []batch.Element
	for n := range d.root.Descendants() {
		if hasClass(n, EmbedClass) {
			elements = append(elements, d.element(n))
		}
	}
	return elements
}

// Query returns the first element matching a selector of the form #id,
// .class or tag.
func (d *Document) Query(selector string) (batch.Element, error) {
	match, err := matcher(selector)
	if err != nil {
		return batch.Element{}, err
	}
	for n := range d.root.Descendants() {
		if n.Type == html.ElementNode && match(n) {
			return d.element(n), nil
		}
	}
	return batch.Element{}, fmt.Errorf("%w: %q", ErrNoMatch, selector)
}

// Render writes the document including inserted images.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

func (d *Document) element(n *html.Node) batch.Element {
	name := attr(n, "data-name")
	if name == "" {
		name = attr(n, "id")
	}

	// data-width, then the element width, then the parent width.
	width := input.ParseDimension(attr(n, "data-width"))
	if width == 0 {
		width = input.ParseDimension(attr(n, "width"))
	}
	if width == 0 && n.Parent != nil {
		width = input.ParseDimension(attr(n.Parent, "width"))
	}

	return batch.Element{
		Name:   name,
		Source: attr(n, "data-url"),
		Time:   attr(n, "data-time"),
		Width:  width,
		Height: input.ParseDimension(attr(n, "data-height")),
		Target: &elementTarget{doc: d, node: n},
	}
}

func (d *Document) appendImage(n *html.Node, src string) {
	img := &html.Node{
		Type:     html.ElementNode,
		Data:     "img",
		DataAtom: atom.Img,
		Attr:     []html.Attribute{{Key: "src", Val: src}},
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	n.AppendChild(img)
}

// elementTarget inserts images into a document node.
type elementTarget struct {
	doc  *Document
	node *html.Node
}

func (t *elementTarget) Attach(ctx context.Context, img target.Image) error {
	if t.doc.storage == nil {
		return errors.New("document has no storage")
	}
	location, err := t.doc.storage.Save(ctx, img.Name, bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("saving %s: %w", img.Name, err)
	}
	src, err := t.doc.imageSource(location)
	if err != nil {
		return err
	}
	t.doc.appendImage(t.node, src)
	return nil
}

func (t *elementTarget) Link(_ context.Context, url string) error {
	t.doc.appendImage(t.node, url)
	return nil
}

func matcher(selector string) (func(*html.Node) bool, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" || selector == "#" || selector == "." {
		return nil, fmt.Errorf("invalid selector: %q", selector)
	}

	switch selector[0] {
	case '#':
		id := selector[1:]
		return func(n *html.Node) bool { return attr(n, "id") == id }, nil
	case '.':
		class := selector[1:]
		return func(n *html.Node) bool { return hasClass(n, class) }, nil
	default:
		tag := strings.ToLower(selector)
		return func(n *html.Node) bool { return n.Data == tag }, nil
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return slices.Contains(strings.Fields(attr(n, "class")), class)
}
