package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// TextClient talks to an OpenAI-compatible chat-completions API.
type TextClient struct {
	cfg    TextConfig
	client *http.Client
}

// TextOption configures a TextClient.
type TextOption func(*TextClient)

// WithTextHTTPClient overrides the HTTP client, mainly for tests.
func WithTextHTTPClient(c *http.Client) TextOption {
	return func(tc *TextClient) {
		if c != nil {
			tc.client = c
		}
	}
}

// NewTextClient returns a text generation client.
func NewTextClient(cfg TextConfig, opts ...TextOption) *TextClient {
	tc := &TextClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateText sends a system + user prompt pair and returns the model's
// reply as plain text.
func (tc *TextClient) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	body, err := json.Marshal(chatRequest{
		Model: tc.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", errors.Join(ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(tc.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tc.cfg.APIKey)

	resp, err := tc.client.Do(req)
	if err != nil {
		return "", errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", errors.Join(ErrRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, truncate(raw, 256))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", errors.Join(ErrInvalidResponse, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrRequestFailed, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrInvalidResponse)
	}
	return parsed.Choices[0].Message.Content, nil
}

// GenerateJSON asks for a structured reply and decodes it into v. Markdown
// code fences around the JSON are tolerated and stripped.
func (tc *TextClient) GenerateJSON(ctx context.Context, system, prompt string, v any) error {
	text, err := tc.GenerateText(ctx, system, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripFences(text)), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// stripFences removes ```json / ``` markers that models add despite
// instructions not to.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
