package batch

import (
	"context"

	"github.com/awesome-arjun11/youtube-image-embed/internal/resolver"
)

type Status int

const (
	StatusPending Status = iota
	StatusRendered
	StatusThumbnail
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRendered:
		return "rendered"
	case StatusThumbnail:
		return "thumbnail"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Outcome is the result of processing one element.
type Outcome struct {
	Request Request
	Status  Status
	// Stream is the stream shared by the element's group, if resolved.
	Stream *resolver.ResolvedStream
	Err    error
}

// Handle tracks the processing of one element.
type Handle struct {
	done    chan struct{}
	outcome Outcome
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

func (h *Handle) finish(o Outcome) {
	h.outcome = o
	close(h.done)
}

// Done is closed once the outcome is known.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the outcome is known or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-h.done:
		return h.outcome, nil
	case <-ctx.Done():
		return Outcome{Status: StatusPending}, ctx.Err()
	}
}

// Wait waits for all handles and returns their outcomes in order.
func Wait(ctx context.Context, handles []*Handle) ([]Outcome, error) {
	outcomes := make([]Outcome, len(handles))
	for i, h := range handles {
		o, err := h.Wait(ctx)
		if err != nil {
			return outcomes, err
		}
		outcomes[i] = o
	}
	return outcomes, nil
}
