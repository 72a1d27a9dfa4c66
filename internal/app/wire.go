// Package app wires the revisor dependencies from the loaded configuration.
package app

import (
	"io"
	"net/http"

	"revisor/config"
	"revisor/internal/clipboard"
	"revisor/internal/llm"
	"revisor/internal/prompt"
	"revisor/internal/revise"
	"revisor/internal/sound"
	"revisor/internal/sysexec"

	"github.com/sirupsen/logrus"
)

// Options overrides host-facing dependencies. Zero values select the real ones.
type Options struct {
	Runner   sysexec.Runner
	Fallback clipboard.Fallback
	HTTP     *http.Client
	// Log is the run-scoped logger. nil starts a new run.
	Log *logrus.Entry
}

// Wire bundles everything one revision needs.
type Wire struct {
	Config    *config.Config
	Clipboard *clipboard.System
	LLM       llm.Client
	Sound     *sound.Player
	Prompt    string
	Log       *logrus.Entry
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg *config.Config, opts Options) (*Wire, error) {
	runner := opts.Runner
	if runner == nil {
		runner = sysexec.NewOSRunner()
	}
	log := opts.Log
	if log == nil {
		log = revise.NewRunLog()
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = clipboard.NewLibraryFallback()
	}

	client, err := llm.New(cfg, opts.HTTP)
	if err != nil {
		return nil, err
	}

	p, err := prompt.Load(cfg.PromptFile, log)
	if err != nil {
		return nil, err
	}

	return &Wire{
		Config:    cfg,
		Clipboard: clipboard.New(runner, fallback, cfg.Clipboard),
		LLM:       client,
		Sound:     sound.NewPlayer(runner, cfg.Sound),
		Prompt:    p,
		Log:       log,
	}, nil
}

// Engine builds the revision engine. Echoed text goes to out.
func (w *Wire) Engine(out io.Writer) *revise.Engine {
	return revise.NewEngine(w.Clipboard, w.LLM, w.Sound, revise.Options{
		Prompt: w.Prompt,
		Echo:   w.Config.Echo,
		Out:    out,
		Log:    w.Log,
	})
}
