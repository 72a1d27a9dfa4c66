package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"revisor/config"

	"github.com/sirupsen/logrus"
)

const maxResponseBytes = 8_000_000

// OpenAIClient talks to the OpenAI Responses API or a compatible proxy.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
}

type responsesReply struct {
	Text   json.RawMessage `json:"text"`
	Output []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAIClient creates a client. httpClient may be nil, in which case one
// with cfg.Timeout is used.
func NewOpenAIClient(cfg config.OpenAIConfig, model string, httpClient *http.Client) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		baseURL: base,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   model,
		http:    httpClient,
	}, nil
}

// Request posts one /responses call.
func (c *OpenAIClient) Request(ctx context.Context, systemMessage, userText string) (string, error) {
	logRequest(config.ProviderOpenAI, c.model, userText)

	body, err := json.Marshal(responsesRequest{
		Model: c.model,
		Input: []inputMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: userText},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("openai: status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("openai: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return extractText(data)
}

// extractText pulls the answer out of a Responses, plain-text or Chat
// Completions shaped body.
func extractText(data []byte) (string, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return "", fmt.Errorf("openai: parse response: %w", err)
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	logrus.Debugf("LLM response keys=%v", names)

	var reply responsesReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return "", fmt.Errorf("openai: parse response: %w", err)
	}

	var text string
	if json.Unmarshal(reply.Text, &text) == nil && strings.TrimSpace(text) != "" {
		text = strings.TrimSpace(text)
		logrus.Infof("LLM text len=%d (from .text)", utf8.RuneCountInString(text))
		return text, nil
	}

	if _, ok := keys["output"]; ok && reply.Output != nil {
		var chunks []string
		for _, item := range reply.Output {
			for _, blk := range item.Content {
				if blk.Type == "output_text" {
					chunks = append(chunks, blk.Text)
				}
			}
		}
		text = strings.TrimSpace(strings.Join(chunks, "\n"))
		logrus.Infof("LLM text len=%d (/responses)", utf8.RuneCountInString(text))
		return text, nil
	}

	if len(reply.Choices) > 0 {
		text = strings.TrimSpace(reply.Choices[0].Message.Content)
		logrus.Infof("LLM text len=%d (/chat)", utf8.RuneCountInString(text))
		return text, nil
	}

	logrus.Errorf("LLM response parse failed. Full response: %s", data)
	return "", fmt.Errorf("openai: unrecognized response shape (keys %v)", names)
}
