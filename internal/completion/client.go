package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aichat-backend/internal/apperr"
	"aichat-backend/internal/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoChoices    = errors.New("completion response has no choices")
	ErrEmptyContent = errors.New("completion choice has no content")
)

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion endpoint returned status %d", e.StatusCode)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to an OpenAI compatible chat-completions endpoint such as
// OpenRouter.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Referer   string
	Title     string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		HTTP: &http.Client{
			Timeout: cfg.CompletionTimeout,
		},
		BaseURL:   cfg.CompletionBaseURL,
		APIKey:    cfg.CompletionAPIKey,
		Model:     cfg.CompletionModel,
		MaxTokens: cfg.CompletionMaxTokens,
		Referer:   cfg.CompletionReferer,
		Title:     cfg.CompletionTitle,
	}
}

// GenerateReply sends a single-turn conversation and returns the text of the
// first choice. Every failure comes back as an apperr GATEWAY error.
func (c *Client) GenerateReply(ctx context.Context, systemInstruction, userContent string) (string, error) {
	payload := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userContent},
		},
		MaxTokens: c.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperr.Gateway("failed to encode completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", apperr.Gateway("failed to build completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if c.Referer != "" {
		req.Header.Set("HTTP-Referer", c.Referer)
	}
	if c.Title != "" {
		req.Header.Set("X-Title", c.Title)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", apperr.Gateway("completion request failed", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperr.Gateway("failed to read completion response", err)
	}
	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("model", c.Model).
		Msg("completion response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.Gateway("completion request rejected", &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		})
	}

	var data chatResponse
	if err := json.Unmarshal(bodyBytes, &data); err != nil {
		return "", apperr.Gateway("failed to decode completion response", err)
	}
	if len(data.Choices) == 0 {
		return "", apperr.Gateway("completion response incomplete", ErrNoChoices)
	}
	text := strings.TrimSpace(data.Choices[0].Message.Content)
	if text == "" {
		return "", apperr.Gateway("completion response incomplete", ErrEmptyContent)
	}
	return text, nil
}
