// Package sysexec runs the platform helper programs revisor depends on
// (clipboard tools, audio players) behind a small interface that tests can fake.
package sysexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrTimeout is returned when a command outlives its timeout.
var ErrTimeout = errors.New("command timed out")

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Result holds the captured output of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner abstracts process execution.
type Runner interface {
	// LookPath reports whether name is on PATH.
	LookPath(name string) (string, bool)

	// Run executes name with args, feeding stdin, and waits at most timeout.
	Run(ctx context.Context, name string, args []string, stdin string, timeout time.Duration) (Result, error)

	// Pipe feeds stdin to name with output discarded and waits for it to exit.
	// Clipboard writers that fork a selection owner return once the parent exits.
	Pipe(ctx context.Context, name string, args []string, stdin string, timeout time.Duration) error

	// Start launches name detached with output discarded and does not wait.
	Start(name string, args ...string) error
}

// OSRunner is the Runner backed by os/exec.
type OSRunner struct{}

// NewOSRunner returns a Runner for the host system.
func NewOSRunner() OSRunner {
	return OSRunner{}
}

func (OSRunner) LookPath(name string) (string, bool) {
	p, err := exec.LookPath(name)
	if err != nil || strings.TrimSpace(p) == "" {
		return "", false
	}
	return p, true
}

func (OSRunner) Run(ctx context.Context, name string, args []string, stdin string, timeout time.Duration) (Result, error) {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdline := strings.Join(append([]string{name}, args...), " ")

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	res := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logrus.Warnf("TIMEOUT: %s", cmdline)
		res.ExitCode = 124
		return res, fmt.Errorf("%s: %w", cmdline, ErrTimeout)
	}
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			res.ExitCode = ee.ExitCode()
			logrus.Warnf("NONZERO EXIT %d: %s | stderr=%q", res.ExitCode, cmdline, res.Stderr)
			return res, &ExitError{Command: cmdline, ExitCode: res.ExitCode, Stderr: res.Stderr}
		}
		res.ExitCode = -1
		return res, fmt.Errorf("failed to run %s: %w", cmdline, err)
	}
	return res, nil
}

func (OSRunner) Pipe(ctx context.Context, name string, args []string, stdin string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdline := strings.Join(append([]string{name}, args...), " ")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	// Stderr goes to a file: a forked selection owner keeps any pipe open.
	errFile, err := os.CreateTemp("", "revisor-stderr-*")
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", cmdline, err)
	}
	defer os.Remove(errFile.Name())
	defer errFile.Close()
	cmd.Stderr = errFile

	err = cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logrus.Warnf("TIMEOUT: %s", cmdline)
		return fmt.Errorf("%s: %w", cmdline, ErrTimeout)
	}
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			stderr := readStderr(errFile)
			logrus.Warnf("NONZERO EXIT %d: %s | stderr=%q", ee.ExitCode(), cmdline, stderr)
			return &ExitError{Command: cmdline, ExitCode: ee.ExitCode(), Stderr: stderr}
		}
		return fmt.Errorf("failed to run %s: %w", cmdline, err)
	}
	return nil
}

func readStderr(f *os.File) string {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return ""
	}
	data, _ := io.ReadAll(io.LimitReader(f, 64<<10))
	return string(data)
}

func (OSRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	// Reap the child once it exits.
	go func() { _ = cmd.Wait() }()
	return nil
}
