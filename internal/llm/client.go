package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"revisor/config"

	"github.com/sirupsen/logrus"
)

// ErrMissingAPIKey is returned when the OpenAI provider has no credential.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY not set")

// logPreviewLen caps how much of the user text reaches the log.
const logPreviewLen = 500

// Client defines the interface for LLM clients.
type Client interface {
	// Request sends the system message and user text and returns the model's answer.
	// A blank answer with a nil error means the model replied with nothing.
	Request(ctx context.Context, systemMessage, userText string) (string, error)
}

// New returns the client for the configured provider. httpClient may be nil.
func New(cfg *config.Config, httpClient *http.Client) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		c, err := NewOpenAIClient(cfg.OpenAI, cfg.Model, httpClient)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderOllama:
		c, err := NewOllamaClient(cfg.Ollama.Host, cfg.Model)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func logRequest(provider, model, userText string) {
	logrus.Infof("LLM request: provider=%s, model=%s, in_len=%d, text=%q",
		provider, model, len([]rune(userText)), preview(userText))
}

// preview shortens s to logPreviewLen runes, marking the cut with "...".
func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= logPreviewLen {
		return s
	}
	return string(runes[:logPreviewLen]) + "..."
}
