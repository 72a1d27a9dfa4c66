// Package revise runs the clipboard revision pipeline:
// capture, ask the model, notify, paste.
package revise

import (
	"context"
	"fmt"
	"io"
	"strings"

	"revisor/internal/llm"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Clipboard is the selection the engine reads from and writes to.
type Clipboard interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, text string) error
}

// Notifier signals that the model has answered.
type Notifier interface {
	Notify()
}

// Outcome says how a run ended.
type Outcome int

const (
	// Revised means the model's answer was pasted.
	Revised Outcome = iota
	// Unchanged means the model answered blank and the source was pasted back.
	Unchanged
	// NothingCaptured means the clipboard was blank and nothing was pasted.
	NothingCaptured
	// Failed means an error stopped the run.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Revised:
		return "revised"
	case Unchanged:
		return "unchanged"
	case NothingCaptured:
		return "nothing-captured"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Options configures an Engine.
type Options struct {
	Prompt string
	// Echo also writes the revised text to Out.
	Echo bool
	Out  io.Writer
	// Log is the run-scoped logger; nil starts a new run.
	Log *logrus.Entry
}

// NewRunLog returns a logger tagged with a fresh run id.
func NewRunLog() *logrus.Entry {
	return logrus.WithField("run", uuid.New().String())
}

// Engine orchestrates one revision.
type Engine struct {
	clipboard Clipboard
	client    llm.Client
	notifier  Notifier
	opts      Options
	log       *logrus.Entry
}

// NewEngine creates an Engine. notifier may be nil.
func NewEngine(clipboard Clipboard, client llm.Client, notifier Notifier, opts Options) *Engine {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Log == nil {
		opts.Log = NewRunLog()
	}
	return &Engine{
		clipboard: clipboard,
		client:    client,
		notifier:  notifier,
		opts:      opts,
		log:       opts.Log,
	}
}

// Log returns the run-scoped logger.
func (e *Engine) Log() *logrus.Entry {
	return e.log
}

// Run captures the selection, revises it and pastes the result.
func (e *Engine) Run(ctx context.Context) (Outcome, error) {
	e.log.Info("1. Capturing source text...")
	src, err := e.clipboard.Read(ctx)
	if err != nil {
		return Failed, fmt.Errorf("failed to capture clipboard: %w", err)
	}
	if strings.TrimSpace(src) == "" {
		e.log.Info("No source text captured; abort.")
		return NothingCaptured, nil
	}

	e.log.Info("2. Requesting revision...")
	revised, err := e.client.Request(ctx, e.opts.Prompt, src)
	if err != nil {
		return Failed, fmt.Errorf("failed to revise text: %w", err)
	}
	if e.notifier != nil {
		e.notifier.Notify()
	}

	outcome := Revised
	if strings.TrimSpace(revised) == "" {
		e.log.Warn("LLM returned empty; fallback to source.")
		revised = src
		outcome = Unchanged
	}

	if e.opts.Echo {
		if _, err := fmt.Fprintln(e.opts.Out, revised); err != nil {
			e.log.Warnf("Echo failed: %v", err)
		}
	}

	e.log.Info("3. Pasting revised text...")
	if err := e.clipboard.Write(ctx, revised); err != nil {
		return Failed, fmt.Errorf("failed to paste revised text: %w", err)
	}

	e.log.WithField("outcome", outcome.String()).Info("Done.")
	return outcome, nil
}
