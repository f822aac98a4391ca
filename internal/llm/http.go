package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/funvibe/forall/internal/config"
)

// HTTPCaller speaks the OpenAI-compatible chat completions protocol. The
// endpoint and API key environment variable come from configuration, so any
// compatible backend works.
type HTTPCaller struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPCaller builds a caller from config, or an always-failing one when no
// endpoint is configured. Timeouts are enforced per request via context.
func NewHTTPCaller(cfg config.LLMConfig) Caller {
	if cfg.Endpoint == "" {
		return Unconfigured()
	}
	return &HTTPCaller{
		endpoint: cfg.Endpoint,
		apiKey:   os.Getenv(cfg.APIKeyEnv),
		client:   &http.Client{},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *HTTPCaller) Call(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("llm: encode request %s: %w", req.ID, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llm: request %s: %w", req.ID, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	httpReq.Header.Set("X-Request-ID", req.ID)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llm: request %s: %w", req.ID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("llm: read response %s: %w", req.ID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: request %s: status %d", req.ID, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("llm: decode response %s: %w", req.ID, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm: request %s: %s", req.ID, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm: request %s: empty response", req.ID)
	}
	return parsed.Choices[0].Message.Content, nil
}
