// Package clipboard reads and writes the desktop clipboard through the
// platform command-line tools (wl-clipboard, xclip, pbcopy/pbpaste), with the
// atotto/clipboard library as a last resort.
//
// Capture order:
//
//   - Wayland: CLIPBOARD, then PRIMARY (wl-paste)
//   - macOS:   the general pasteboard (pbpaste)
//   - X11:     PRIMARY, then CLIPBOARD (xclip)
//
// The first non-blank selection wins. Paste always targets CLIPBOARD.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"revisor/config"
	"revisor/internal/sysexec"

	"github.com/sirupsen/logrus"
)

// ErrNoClipboardTool is returned when no clipboard backend is usable.
var ErrNoClipboardTool = errors.New("no clipboard tool available (install wl-clipboard or xclip)")

const defaultTimeout = 300 * time.Millisecond

type selection struct {
	name string
	cmd  string
	args []string
}

var (
	waylandCapture = []selection{
		{name: "CLIPBOARD", cmd: "wl-paste", args: []string{"--no-newline"}},
		{name: "PRIMARY", cmd: "wl-paste", args: []string{"--primary", "--no-newline"}},
	}
	x11Capture = []selection{
		{name: "PRIMARY", cmd: "xclip", args: []string{"-selection", "primary", "-o"}},
		{name: "CLIPBOARD", cmd: "xclip", args: []string{"-selection", "clipboard", "-o"}},
	}
	darwinCapture = []selection{
		{name: "CLIPBOARD", cmd: "pbpaste"},
	}
)

// System is the desktop clipboard.
type System struct {
	runner   sysexec.Runner
	fallback Fallback
	session  string
	goos     string
	timeout  time.Duration
}

// New creates a System. fallback may be nil.
func New(runner sysexec.Runner, fallback Fallback, cfg config.ClipboardConfig) *System {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &System{
		runner:   runner,
		fallback: fallback,
		session:  strings.ToLower(cfg.Session),
		goos:     runtime.GOOS,
		timeout:  timeout,
	}
}

func (s *System) has(cmd string) bool {
	_, ok := s.runner.LookPath(cmd)
	return ok
}

func (s *System) wayland() bool {
	return s.session == "wayland"
}

// Read captures the current selection. Blank text with a nil error means
// the tools ran but nothing was selected.
func (s *System) Read(ctx context.Context) (string, error) {
	switch {
	case s.wayland() && s.has("wl-paste"):
		return s.capture(ctx, "Wayland", waylandCapture)
	case s.goos == "darwin" && s.has("pbpaste"):
		return s.capture(ctx, "macOS", darwinCapture)
	case s.has("xclip"):
		return s.capture(ctx, "X11", x11Capture)
	case s.fallback != nil && s.fallback.Supported():
		text, err := s.fallback.ReadAll()
		if err != nil {
			return "", fmt.Errorf("clipboard read failed: %w", err)
		}
		logrus.Infof("Captured (fallback) final len=%d", utf8.RuneCountInString(text))
		return text, nil
	}
	return "", ErrNoClipboardTool
}

func (s *System) capture(ctx context.Context, backend string, order []selection) (string, error) {
	text := ""
	for _, sel := range order {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		res, err := s.runner.Run(ctx, sel.cmd, sel.args, "", s.timeout)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			logrus.Debugf("%s %s capture failed: %v", backend, sel.name, err)
			continue
		}
		if strings.TrimSpace(res.Stdout) != "" {
			text = res.Stdout
			logrus.Infof("%s %s grabbed: len=%d", backend, sel.name, utf8.RuneCountInString(text))
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	logrus.Infof("Captured (%s) final len=%d", backend, utf8.RuneCountInString(text))
	return text, nil
}

// Write replaces the CLIPBOARD selection with text.
func (s *System) Write(ctx context.Context, text string) error {
	var cmd string
	var args []string
	switch {
	case s.wayland() && s.has("wl-copy"):
		cmd = "wl-copy"
	case s.goos == "darwin" && s.has("pbcopy"):
		cmd = "pbcopy"
	case s.has("xclip"):
		cmd, args = "xclip", []string{"-selection", "clipboard", "-in"}
	case s.fallback != nil && s.fallback.Supported():
		logrus.Infof("Paste (fallback) len=%d", utf8.RuneCountInString(text))
		if err := s.fallback.WriteAll(text); err != nil {
			return fmt.Errorf("clipboard write failed: %w", err)
		}
		return nil
	default:
		return ErrNoClipboardTool
	}

	logrus.Infof("Paste (%s) len=%d", cmd, utf8.RuneCountInString(text))
	// Writers get longer than readers: wl-copy waits for the compositor.
	if err := s.runner.Pipe(ctx, cmd, args, text, 10*s.timeout); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}
