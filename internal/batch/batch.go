// Package batch groups embed requests by video so that each video is looked
// up and resolved once per batch.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/awesome-arjun11/youtube-image-embed/internal/input"
	"github.com/awesome-arjun11/youtube-image-embed/internal/resolver"
	"github.com/awesome-arjun11/youtube-image-embed/internal/target"
	"github.com/awesome-arjun11/youtube-image-embed/internal/videoid"
)

const DefaultWidth = 1280

// ErrMissingSource is reported for elements without a video reference.
var ErrMissingSource = errors.New("missing video reference")

// Element is a declarative embed request as found on a page.
type Element struct {
	// Name labels the element in logs and output file names.
	Name string
	// Source is a video URL or a raw video ID.
	Source string
	// Time is an unparsed timestamp. Empty means thumbnail only.
	Time   string
	Width  int
	Height int
	Target target.Target
}

// Request is an element resolved to a video ID and a timestamp.
type Request struct {
	Name         string
	ID           videoid.ID
	Time         time.Duration
	TargetWidth  int
	TargetHeight int
	Target       target.Target
}

// Group holds the requests referencing one video. Width is the largest
// target width among them.
type Group struct {
	ID       videoid.ID
	Width    int
	Requests []Request
}

type StreamResolver interface {
	Resolve(ctx context.Context, id videoid.ID, targetWidth int) (resolver.ResolvedStream, error)
}

type Renderer interface {
	RenderFrame(ctx context.Context, stream resolver.ResolvedStream, req Request) error
	RenderThumbnail(ctx context.Context, req Request) error
}

type Batcher struct {
	resolver     StreamResolver
	renderer     Renderer
	defaultWidth int
	concurrency  int
}

type Option func(*Batcher)

// WithDefaultWidth sets the width used for elements without one.
func WithDefaultWidth(width int) Option {
	return func(b *Batcher) {
		if width > 0 {
			b.defaultWidth = width
		}
	}
}

// WithConcurrency limits how many groups and thumbnails are processed at
// once. Zero means no limit.
func WithConcurrency(n int) Option {
	return func(b *Batcher) {
		b.concurrency = n
	}
}

func New(res StreamResolver, ren Renderer, opts ...Option) *Batcher {
	b := &Batcher{
		resolver:     res,
		renderer:     ren,
		defaultWidth: DefaultWidth,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// NewRequest resolves an element. hasTime is false for elements that only
// get a thumbnail.
func (b *Batcher) NewRequest(el Element) (req Request, hasTime bool, err error) {
	req = Request{
		Name:         el.Name,
		TargetWidth:  el.Width,
		TargetHeight: el.Height,
		Target:       el.Target,
	}
	if req.TargetWidth <= 0 {
		req.TargetWidth = b.defaultWidth
	}

	if strings.TrimSpace(el.Source) == "" {
		return req, false, ErrMissingSource
	}
	id, err := videoid.Resolve(el.Source)
	if err != nil {
		return req, false, fmt.Errorf("resolving %q: %w", el.Source, err)
	}
	req.ID = id

	if strings.TrimSpace(el.Time) == "" {
		return req, false, nil
	}
	t, err := input.ParseTimestamp(el.Time)
	if err != nil {
		return req, false, fmt.Errorf("parsing time: %w", err)
	}
	if err := input.ValidateTimestamp(t); err != nil {
		return req, false, fmt.Errorf("bad time: %w", err)
	}
	req.Time = t

	return req, true, nil
}

// GroupRequests groups requests by video ID in order of first appearance,
// keeping the request order within each group.
func GroupRequests(reqs []Request) []Group {
	groups, _ := group(reqs)
	return groups
}

func group(reqs []Request) ([]Group, [][]int) {
	var (
		groups  []Group
		members [][]int
	)
	positions := make(map[videoid.ID]int)

	for i, r := range reqs {
		pos, ok := positions[r.ID]
		if !ok {
			pos = len(groups)
			positions[r.ID] = pos
			groups = append(groups, Group{ID: r.ID, Width: r.TargetWidth})
			members = append(members, nil)
		}
		groups[pos].Requests = append(groups[pos].Requests, r)
		groups[pos].Width = max(groups[pos].Width, r.TargetWidth)
		members[pos] = append(members[pos], i)
	}

	return groups, members
}

// Process renders all elements and returns one handle per element in input
// order. It returns right after grouping; rendering continues in the
// background.
func (b *Batcher) Process(ctx context.Context, elements []Element) []*Handle {
	log := slog.With("batch", uuid.NewString())

	handles := make([]*Handle, len(elements))
	var (
		frames       []Request
		frameHandles []*Handle
		thumbnails   []Request
		thumbHandles []*Handle
	)

	for i, el := range elements {
		h := newHandle()
		handles[i] = h

		req, hasTime, err := b.NewRequest(el)
		switch {
		case err != nil:
			log.Warn("skipping element", "name", el.Name, "source", el.Source, "err", err)
			h.finish(Outcome{Request: req, Status: StatusSkipped, Err: err})
		case !hasTime:
			log.Info("no time was provided, setting thumbnail", "name", el.Name, "id", req.ID)
			thumbnails = append(thumbnails, req)
			thumbHandles = append(thumbHandles, h)
		default:
			frames = append(frames, req)
			frameHandles = append(frameHandles, h)
		}
	}

	groups, members := group(frames)
	log.Debug(
		"batch prepared",
		"elements", len(elements),
		"groups", len(groups),
		"thumbnails", len(thumbnails),
	)

	go func() {
		g := new(errgroup.Group)
		if b.concurrency > 0 {
			g.SetLimit(b.concurrency)
		}

		for i, req := range thumbnails {
			g.Go(func() error {
				b.renderThumbnail(ctx, log, req, thumbHandles[i])
				return nil
			})
		}
		for i, grp := range groups {
			hs := make([]*Handle, len(members[i]))
			for j, idx := range members[i] {
				hs[j] = frameHandles[idx]
			}
			g.Go(func() error {
				b.processGroup(ctx, log, grp, hs)
				return nil
			})
		}

		_ = g.Wait()
		log.Debug("batch done")
	}()

	return handles
}

// Load renders a single element as a one-member batch.
func (b *Batcher) Load(ctx context.Context, el Element) *Handle {
	return b.Process(ctx, []Element{el})[0]
}

func (b *Batcher) processGroup(ctx context.Context, log *slog.Logger, grp Group, handles []*Handle) {
	stream, err := b.resolver.Resolve(ctx, grp.ID, grp.Width)
	if err != nil {
		log.Error("resolving stream", "id", grp.ID, "width", grp.Width, "err", err)
		for i, req := range grp.Requests {
			handles[i].finish(Outcome{Request: req, Status: StatusFailed, Err: err})
		}
		return
	}

	var g errgroup.Group
	for i, req := range grp.Requests {
		g.Go(func() error {
			outcome := Outcome{Request: req, Status: StatusRendered, Stream: &stream}
			if err := b.renderer.RenderFrame(ctx, stream, req); err != nil {
				log.Warn("rendering frame", "name", req.Name, "id", req.ID, "time", req.Time, "err", err)
				outcome.Status = StatusFailed
				outcome.Err = err
			}
			handles[i].finish(outcome)
			return nil
		})
	}
	_ = g.Wait()
}

func (b *Batcher) renderThumbnail(ctx context.Context, log *slog.Logger, req Request, h *Handle) {
	outcome := Outcome{Request: req, Status: StatusThumbnail}
	if err := b.renderer.RenderThumbnail(ctx, req); err != nil {
		log.Warn("rendering thumbnail", "name", req.Name, "id", req.ID, "err", err)
		outcome.Status = StatusFailed
		outcome.Err = err
	}
	h.finish(outcome)
}
