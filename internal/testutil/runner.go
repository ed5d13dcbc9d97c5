package testutil

import (
	"context"
	"sync"

	"github.com/awesome-arjun11/youtube-image-embed/internal/exec"
)

// FakeRunner records invocations and replies with canned output.
type FakeRunner struct {
	Stdout []byte
	Stderr []byte
	Err    error

	mu    sync.Mutex
	Calls [][]string
	// Quiet records whether each call asked for quiet output.
	Quiet []bool
}

func (r *FakeRunner) RunWith(
	_ context.Context,
	options []exec.Option,
	args ...string,
) (*exec.RunResult, error) {
	var config exec.RunConfig
	for _, o := range options {
		o(&config)
	}

	r.mu.Lock()
	r.Calls = append(r.Calls, args)
	r.Quiet = append(r.Quiet, config.Quiet)
	r.mu.Unlock()
	return &exec.RunResult{Stdout: r.Stdout, Stderr: r.Stderr}, r.Err
}

func (r *FakeRunner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Calls)
}
