package exec

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	execpkg "os/exec"
	"path/filepath"
	"sync"
)

// Runner defines the interface for executing external tools such as ffmpeg,
// ffprobe and yt-dlp.
type Runner interface {
	RunWith(ctx context.Context, options []Option, args ...string) (*RunResult, error)
}

// RunResult contains the captured output from a command.
type RunResult struct {
	Stdout []byte
	Stderr []byte
}

// RunConfig configures command execution.
type RunConfig struct {
	// Quiet disables logging of stderr lines. Stderr is captured either way.
	Quiet bool
}

// Option is a functional option for configuring RunConfig.
type Option func(*RunConfig)

// WithQuiet captures stderr without logging it.
func WithQuiet() Option {
	return func(o *RunConfig) {
		o.Quiet = true
	}
}

// CommandRunner executes actual commands.
type CommandRunner struct {
	Path string
	Name string
}

// NewCommandRunner creates a new CommandRunner with binary path.
func NewCommandRunner(path string) *CommandRunner {
	return &CommandRunner{Path: path, Name: filepath.Base(path)}
}

// RunWith executes the command and returns its captured output. Unless
// quiet, stderr is also written to the debug log line by line.
func (r *CommandRunner) RunWith(
	ctx context.Context,
	options []Option,
	args ...string,
) (*RunResult, error) {
	var config RunConfig
	for _, o := range options {
		o(&config)
	}

	var stdout, stderr bytes.Buffer
	onStderr := func(line []byte) {
		stderr.Write(line)
		stderr.WriteByte('\n')
	}
	if !config.Quiet {
		logLine := r.LogCallback()
		onStderr = func(line []byte) {
			stderr.Write(line)
			stderr.WriteByte('\n')
			logLine(line)
		}
	}

	err := r.run(ctx, &stdout, onStderr, args...)

	return &RunResult{
		Stdout: stdout.Bytes(),
		Stderr: bytes.TrimSuffix(stderr.Bytes(), []byte("\n")),
	}, err
}

// LogCallback returns a handler writing each output line to the debug log.
func (r *CommandRunner) LogCallback() func([]byte) {
	return func(b []byte) {
		b = bytes.TrimRight(b, "\r")
		if len(b) == 0 {
			return
		}
		slog.Debug(string(b), "cmd", r.Name)
	}
}

func (r *CommandRunner) run(
	ctx context.Context,
	stdout io.Writer,
	onStderr func([]byte),
	args ...string,
) error {
	cmd := execpkg.CommandContext(ctx, r.Path, args...) // #nosec: G204

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting command: %w", err)
	}

	// Pipes must be drained before Wait closes them.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = io.Copy(stdout, stdoutPipe)
	}()
	go func() {
		defer wg.Done()
		streamLines(stderrPipe, onStderr)
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("running %s: %w", r.Name, err)
	}
	return nil
}

// streamLines calls handler for every line, splitting on both \n and \r as
// ffmpeg rewrites progress lines in place.
func streamLines(pipe io.Reader, handler func([]byte)) {
	reader := bufio.NewReader(pipe)
	var buf bytes.Buffer
	for {
		b, err := reader.ReadByte()
		if err != nil {
			if buf.Len() > 0 {
				handler(buf.Bytes())
			}
			break
		}
		switch b {
		case '\n', '\r':
			if buf.Len() > 0 {
				handler(buf.Bytes())
			}
			buf.Reset()
		default:
			buf.WriteByte(b)
		}
	}
}
