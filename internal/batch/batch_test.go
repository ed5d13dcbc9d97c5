package batch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awesome-arjun11/youtube-image-embed/internal/batch"
	"github.com/awesome-arjun11/youtube-image-embed/internal/resolver"
	"github.com/awesome-arjun11/youtube-image-embed/internal/videoid"
)

type resolveCall struct {
	id    videoid.ID
	width int
}

type fakeResolver struct {
	failing map[videoid.ID]error

	mu    sync.Mutex
	calls []resolveCall
}

func (r *fakeResolver) Resolve(
	_ context.Context,
	id videoid.ID,
	width int,
) (resolver.ResolvedStream, error) {
	r.mu.Lock()
	r.calls = append(r.calls, resolveCall{id: id, width: width})
	r.mu.Unlock()

	if err := r.failing[id]; err != nil {
		return resolver.ResolvedStream{}, err
	}
	return resolver.ResolvedStream{
		URL:         "https://test/" + string(id),
		Width:       1280,
		Height:      720,
		AspectRatio: 16.0 / 9.0,
	}, nil
}

func (r *fakeResolver) Calls() []resolveCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]resolveCall(nil), r.calls...)
}

type frameCall struct {
	name string
	url  string
	at   time.Duration
}

type fakeRenderer struct {
	frameErr error

	mu         sync.Mutex
	frames     []frameCall
	thumbnails []string
}

func (r *fakeRenderer) RenderFrame(
	_ context.Context,
	stream resolver.ResolvedStream,
	req batch.Request,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frameCall{name: req.Name, url: stream.URL, at: req.Time})
	return r.frameErr
}

func (r *fakeRenderer) RenderThumbnail(_ context.Context, req batch.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.thumbnails = append(r.thumbnails, req.Name)
	return nil
}

func waitAll(t *testing.T, handles []*batch.Handle) []batch.Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcomes, err := batch.Wait(ctx, handles)
	require.NoError(t, err)
	return outcomes
}

func TestProcess_SharedVideoResolvedOnce(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{}
	ren := &fakeRenderer{}
	b := batch.New(res, ren)

	outcomes := waitAll(t, b.Process(context.Background(), []batch.Element{
		{Name: "a", Source: "abc12345678", Time: "10", Width: 300},
		{Name: "b", Source: "https://youtu.be/abc12345678", Time: "1:00", Width: 900},
	}))

	assert.Equal(t, []resolveCall{{id: "abc12345678", width: 900}}, res.Calls())
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.Equal(t, batch.StatusRendered, o.Status)
		require.NotNil(t, o.Stream)
		assert.Equal(t, "https://test/abc12345678", o.Stream.URL)
	}
	assert.Equal(t, "a", outcomes[0].Request.Name)
	assert.Equal(t, 10*time.Second, outcomes[0].Request.Time)
	assert.Equal(t, time.Minute, outcomes[1].Request.Time)
	assert.Len(t, ren.frames, 2)
}

func TestProcess_ThumbnailWithoutTime(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{}
	ren := &fakeRenderer{}
	b := batch.New(res, ren)

	outcomes := waitAll(t, b.Process(context.Background(), []batch.Element{
		{Name: "thumb", Source: "https://www.youtube.com/watch?v=abc12345678"},
	}))

	assert.Equal(t, batch.StatusThumbnail, outcomes[0].Status)
	assert.Equal(t, videoid.ID("abc12345678"), outcomes[0].Request.ID)
	assert.Equal(t, []string{"thumb"}, ren.thumbnails)
	assert.Empty(t, ren.frames, "frame capture must not run")
	assert.Empty(t, res.Calls(), "no lookup is needed for thumbnails")
}

func TestProcess_SkipsBadElements(t *testing.T) {
	t.Parallel()
	ren := &fakeRenderer{}
	b := batch.New(&fakeResolver{}, ren)

	outcomes := waitAll(t, b.Process(context.Background(), []batch.Element{
		{Name: "missing", Time: "10"},
		{Name: "invalid", Source: "https://example.com/video", Time: "10"},
		{Name: "bad time", Source: "abc12345678", Time: "soon"},
		{Name: "negative time", Source: "abc12345678", Time: "-5s"},
		{Name: "ok", Source: "abc12345678", Time: "5"},
	}))

	assert.ErrorIs(t, outcomes[0].Err, batch.ErrMissingSource)
	assert.ErrorIs(t, outcomes[1].Err, videoid.ErrInvalidReference)
	for _, o := range outcomes[:4] {
		assert.Equal(t, batch.StatusSkipped, o.Status, o.Request.Name)
		assert.Error(t, o.Err)
	}
	assert.Equal(t, batch.StatusRendered, outcomes[4].Status)
	assert.Len(t, ren.frames, 1)
}

func TestProcess_GroupFailureIsIsolated(t *testing.T) {
	t.Parallel()
	lookupErr := &resolver.LookupError{ID: "broken12345", Err: errors.New("boom")}
	res := &fakeResolver{failing: map[videoid.ID]error{"broken12345": lookupErr}}
	b := batch.New(res, &fakeRenderer{})

	outcomes := waitAll(t, b.Process(context.Background(), []batch.Element{
		{Name: "broken", Source: "broken12345", Time: "1"},
		{Name: "fine", Source: "fine1234567", Time: "1"},
		{Name: "broken again", Source: "broken12345", Time: "2"},
	}))

	assert.Equal(t, batch.StatusFailed, outcomes[0].Status)
	assert.Equal(t, batch.StatusFailed, outcomes[2].Status)
	var target *resolver.LookupError
	assert.ErrorAs(t, outcomes[0].Err, &target)
	assert.Equal(t, batch.StatusRendered, outcomes[1].Status)
	assert.Len(t, res.Calls(), 2)
}

func TestProcess_RenderFailure(t *testing.T) {
	t.Parallel()
	renderErr := errors.New("timestamp exceeds duration")
	b := batch.New(&fakeResolver{}, &fakeRenderer{frameErr: renderErr})

	outcomes := waitAll(t, b.Process(context.Background(), []batch.Element{
		{Source: "abc12345678", Time: "99h"},
	}))

	assert.Equal(t, batch.StatusFailed, outcomes[0].Status)
	assert.ErrorIs(t, outcomes[0].Err, renderErr)
	assert.NotNil(t, outcomes[0].Stream)
}

func TestProcess_DefaultWidthAndConcurrency(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{}
	b := batch.New(res, &fakeRenderer{}, batch.WithDefaultWidth(720), batch.WithConcurrency(1))

	outcomes := waitAll(t, b.Process(context.Background(), []batch.Element{
		{Source: "aaaaaaaaaaa", Time: "1"},
		{Source: "bbbbbbbbbbb", Time: "1", Width: 200},
	}))

	assert.Equal(t, 720, outcomes[0].Request.TargetWidth)
	assert.ElementsMatch(t, []resolveCall{
		{id: "aaaaaaaaaaa", width: 720},
		{id: "bbbbbbbbbbb", width: 200},
	}, res.Calls())
}

func TestLoad(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{}
	b := batch.New(res, &fakeRenderer{})

	h := b.Load(context.Background(), batch.Element{Source: "abc12345678", Time: "3", Width: 480})
	outcome, err := h.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, batch.StatusRendered, outcome.Status)
	assert.Equal(t, []resolveCall{{id: "abc12345678", width: 480}}, res.Calls())
}

func TestWait_ContextCanceled(t *testing.T) {
	t.Parallel()
	block := make(chan struct{})
	defer close(block)
	b := batch.New(&blockingResolver{release: block}, &fakeRenderer{})

	handles := b.Process(context.Background(), []batch.Element{{Source: "abc12345678", Time: "1"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := batch.Wait(ctx, handles)
	assert.ErrorIs(t, err, context.Canceled)

	select {
	case <-handles[0].Done():
		t.Fatal("handle must not be done while resolving")
	default:
	}
}

type blockingResolver struct {
	release chan struct{}
}

func (r *blockingResolver) Resolve(
	_ context.Context,
	_ videoid.ID,
	_ int,
) (resolver.ResolvedStream, error) {
	<-r.release
	return resolver.ResolvedStream{}, errors.New("released")
}
