// Package claude adapts go-anthropic to the ai.Generator interface.
// Anthropic has no embedding endpoint, so the client is never used as an Embedder.
package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/utils"
)

const (
	defaultModel      = "claude-3-5-haiku-latest"
	defaultRetryDelay = 2 * time.Second
	maxTokens         = 150
)

type api interface {
	CreateMessages(ctx context.Context, request anthropic.MessagesRequest) (anthropic.MessagesResponse, error)
}

type Client struct {
	api        api
	model      string
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

func NewClient(apiKey, model string, maxRetries int, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		api:        anthropic.NewClient(apiKey),
		model:      model,
		maxRetries: maxRetries,
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}, nil
}

func (c *Client) GenerateContent(ctx context.Context, system, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	req := anthropic.MessagesRequest{
		Model:  anthropic.Model(c.model),
		System: strings.TrimSpace(system),
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(message),
		},
		MaxTokens: maxTokens,
	}

	attempts := c.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var output string
	err := utils.Retry(ctx, attempts, c.backoff, func(int) error {
		resp, err := c.api.CreateMessages(ctx, req)
		if err != nil {
			return fmt.Errorf("create messages: %w", err)
		}

		var parts []string
		for _, content := range resp.Content {
			if content.Text == nil {
				continue
			}
			if text := strings.TrimSpace(*content.Text); text != "" {
				parts = append(parts, text)
			}
		}
		output = strings.Join(parts, "\n")
		if output == "" {
			return errors.New("anthropic api returned empty response")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return output, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Client) backoff(attempt int, err error) (time.Duration, bool) {
	if !temporary(err) {
		return 0, false
	}
	delay := time.Duration(attempt) * c.retryDelay
	c.logger.Warn("anthropic request failed, retrying",
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
		zap.Error(err),
	)
	return delay, true
}

func temporary(err error) bool {
	var apiErr *anthropic.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Type {
	case anthropic.ErrTypeRateLimit, anthropic.ErrTypeApi, anthropic.ErrTypeOverloaded:
		return true
	default:
		return false
	}
}
