package exec_test

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/awesome-arjun11/youtube-image-embed/internal/exec"
	"github.com/awesome-arjun11/youtube-image-embed/internal/testutil"
)

func getShellCommand(script string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd.exe", []string{"/c", script}
	}
	return "sh", []string{"-c", script}
}

func TestCommandRunner_Name(t *testing.T) {
	runner := exec.NewCommandRunner("/usr/bin/test-binary")

	if runner.Name != "test-binary" {
		t.Errorf("expected name 'test-binary', got: %q", runner.Name)
	}
}

func TestCommandRunner_RunWith_Quiet(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	shell, args := getShellCommand(
		`printf "stdout line 1\nstdout line 2\n" && printf "stderr line 1\n" 1>&2`,
	)
	runner := exec.NewCommandRunner(shell)

	got, err := runner.RunWith(context.Background(), []exec.Option{exec.WithQuiet()}, args...)
	if err != nil {
		t.Fatalf("RunWith() error = %v, want nil", err)
	}
	if diff := cmp.Diff([]byte("stdout line 1\nstdout line 2\n"), got.Stdout); diff != "" {
		t.Errorf("captured stdout mismatch %s", testutil.PrintWantGot(diff))
	}
	if diff := cmp.Diff([]byte("stderr line 1"), got.Stderr); diff != "" {
		t.Errorf("captured stderr mismatch %s", testutil.PrintWantGot(diff))
	}
}

//nolint:paralleltest
func TestCommandRunner_RunWith_LogsStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(previous)

	shell, args := getShellCommand(`printf "frame" && printf "line 1\rline 2\n" 1>&2`)
	runner := exec.NewCommandRunner(shell)

	got, err := runner.RunWith(context.Background(), nil, args...)
	if err != nil {
		t.Fatalf("RunWith() error = %v, want nil", err)
	}
	if diff := cmp.Diff([]byte("frame"), got.Stdout); diff != "" {
		t.Errorf("captured stdout mismatch %s", testutil.PrintWantGot(diff))
	}
	if diff := cmp.Diff([]byte("line 1\nline 2"), got.Stderr); diff != "" {
		t.Errorf("captured stderr mismatch %s", testutil.PrintWantGot(diff))
	}
	for _, line := range []string{`msg="line 1" cmd=sh`, `msg="line 2" cmd=sh`} {
		if !strings.Contains(logs.String(), line) {
			t.Errorf("expected log to contain %q, got: %s", line, logs.String())
		}
	}
}

func TestCommandRunner_RunWith_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	shell, args := getShellCommand(`printf "boom" 1>&2; exit 3`)
	runner := exec.NewCommandRunner(shell)

	got, err := runner.RunWith(context.Background(), []exec.Option{exec.WithQuiet()}, args...)
	if err == nil {
		t.Fatal("RunWith() error = nil, want exit error")
	}
	if !bytes.Equal(got.Stderr, []byte("boom")) {
		t.Errorf("expected captured stderr 'boom', got: %q", got.Stderr)
	}
}
