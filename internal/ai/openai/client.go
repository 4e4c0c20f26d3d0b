// Package openai adapts go-openai to the ai.Generator and ai.Embedder interfaces.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/utils"
)

const (
	defaultModel          = goopenai.GPT4oMini
	defaultEmbeddingModel = goopenai.LargeEmbedding3
	defaultRetryDelay     = 2 * time.Second

	temperature = 0.8
	maxTokens   = 150
)

type api interface {
	CreateChatCompletion(ctx context.Context, request goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
	CreateEmbeddings(ctx context.Context, conv goopenai.EmbeddingRequestConverter) (goopenai.EmbeddingResponse, error)
}

type Client struct {
	api            api
	model          string
	embeddingModel goopenai.EmbeddingModel
	maxRetries     int
	retryDelay     time.Duration
	logger         *zap.Logger
}

// NewClient creates an OpenAI client. An empty baseURL keeps the public endpoint.
func NewClient(apiKey, baseURL, model, embeddingModel string, maxRetries int, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	config := goopenai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		config.BaseURL = baseURL
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	embedding := defaultEmbeddingModel
	if embeddingModel = strings.TrimSpace(embeddingModel); embeddingModel != "" {
		embedding = goopenai.EmbeddingModel(embeddingModel)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		api:            goopenai.NewClientWithConfig(config),
		model:          model,
		embeddingModel: embedding,
		maxRetries:     maxRetries,
		retryDelay:     defaultRetryDelay,
		logger:         logger,
	}, nil
}

func (c *Client) GenerateContent(ctx context.Context, system, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if system = strings.TrimSpace(system); system != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: message})

	req := goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var output string
	err := utils.Retry(ctx, c.attempts(), c.backoff, func(int) error {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return fmt.Errorf("create chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return errors.New("openai api returned no choices")
		}
		output = strings.TrimSpace(resp.Choices[0].Message.Content)
		if output == "" {
			return errors.New("openai api returned empty response")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return output, nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	req := goopenai.EmbeddingRequest{
		Input:          []string{text},
		Model:          c.embeddingModel,
		EncodingFormat: goopenai.EmbeddingEncodingFormatFloat,
	}

	var values []float32
	err := utils.Retry(ctx, c.attempts(), c.backoff, func(int) error {
		resp, err := c.api.CreateEmbeddings(ctx, req)
		if err != nil {
			return fmt.Errorf("create embeddings: %w", err)
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return errors.New("openai api returned no embedding data")
		}
		values = resp.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Client) attempts() int {
	if c.maxRetries < 1 {
		return 1
	}
	return c.maxRetries
}

func (c *Client) backoff(attempt int, err error) (time.Duration, bool) {
	if !temporary(err) {
		return 0, false
	}
	delay := time.Duration(attempt) * c.retryDelay
	c.logger.Warn("openai request failed, retrying",
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
		zap.Error(err),
	)
	return delay, true
}

func temporary(err error) bool {
	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return false
	}
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
