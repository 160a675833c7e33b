package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-3.5-turbo"
)

type openAIRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAICompleter calls the OpenAI chat completions endpoint.
type OpenAICompleter struct {
	APIKey  string
	Model   string
	BaseURL string
	httpc   *http.Client
}

// OpenAIOption configures an OpenAICompleter.
type OpenAIOption func(*OpenAICompleter)

// WithBaseURL points the completer at a compatible endpoint. Empty keeps the default.
func WithBaseURL(u string) OpenAIOption {
	return func(c *OpenAICompleter) {
		if u = strings.TrimSpace(u); u != "" {
			c.BaseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPTimeout sets a client-level timeout. Zero means no timeout.
func WithHTTPTimeout(d time.Duration) OpenAIOption {
	return func(c *OpenAICompleter) { c.httpc.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) OpenAIOption {
	return func(c *OpenAICompleter) {
		if h != nil {
			c.httpc = h
		}
	}
}

func NewOpenAICompleter(apiKey, model string, opts ...OpenAIOption) *OpenAICompleter {
	c := &OpenAICompleter{
		APIKey:  strings.TrimSpace(apiKey),
		Model:   strings.TrimSpace(model),
		BaseURL: defaultOpenAIBaseURL,
		httpc:   &http.Client{},
	}
	if c.Model == "" {
		c.Model = defaultOpenAIModel
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *OpenAICompleter) Name() string { return "openai" }

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is empty")
	}

	payload, err := json.Marshal(openAIRequest{
		Model:    c.Model,
		Messages: []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out openAIResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == nil {
		return "", nil
	}
	return *out.Choices[0].Message.Content, nil
}
