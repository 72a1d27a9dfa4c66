package llm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"revisor/config"

	"github.com/JexSrs/go-ollama"
	"github.com/sirupsen/logrus"
)

// OllamaClient is a structure to interact with the Ollama API.
type OllamaClient struct {
	client *ollama.Ollama
	model  string
}

// NewOllamaClient creates a new client for the Ollama server at host.
func NewOllamaClient(host, model string) (*OllamaClient, error) {
	ollamaURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if ollamaURL.Scheme == "" || ollamaURL.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL %q: want scheme://host:port", host)
	}

	client := ollama.New(*ollamaURL)
	logrus.Debugf("Using Ollama host %s, model %s", host, model)

	return &OllamaClient{
		client: client,
		model:  model,
	}, nil
}

// Request sends one Generate call. The library has no context support, so
// ctx is only checked before the call.
func (oc *OllamaClient) Request(ctx context.Context, systemMessage, userText string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	logRequest(config.ProviderOllama, oc.model, userText)

	res, err := oc.client.Generate(
		oc.client.Generate.WithModel(oc.model),
		oc.client.Generate.WithSystem(systemMessage),
		oc.client.Generate.WithPrompt(userText),
	)
	if err != nil {
		return "", fmt.Errorf("ollama: generate failed: %w", err)
	}
	if !res.Done {
		return "", fmt.Errorf("ollama: request not finished (unexpected streaming behaviour)")
	}

	text := stripFences(res.Response)
	logrus.Infof("LLM text len=%d (ollama)", len([]rune(text)))
	return text, nil
}

// stripFences removes a Markdown code fence wrapped around the whole answer.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(s, "```")
	nl := strings.IndexByte(inner, '\n')
	if nl < 0 {
		return strings.TrimSpace(strings.TrimPrefix(inner, "```"))
	}
	// Drop the opening fence line with its optional language tag.
	return strings.TrimSpace(inner[nl+1:])
}
