// Package generate writes lesson content with an OpenAI-compatible model:
// the step texts of a new lesson and, optionally, one illustration per
// step. A simulated generator stands in when no API key is configured.
package generate

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/hammamikhairi/railroad/internal/logger"
)

// Defaults for the OpenAI client.
const (
	DefaultModel      = "gpt-4o-mini"
	DefaultImageModel = "gpt-image-1"
	DefaultImageSize  = openai.CreateImageSize1024x1024
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithModel overrides the chat model name.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithImageModel overrides the image model name.
func WithImageModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.imageModel = model
		}
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float32) ClientOption {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// Client wraps the OpenAI API for chat completions and image generation.
type Client struct {
	api         *openai.Client
	model       string
	imageModel  string
	temperature float32
	maxTokens   int
	log         *logger.Logger
}

// NewClient creates an OpenAI client. An empty baseURL keeps the public
// OpenAI endpoint.
func NewClient(apiKey, baseURL string, log *logger.Logger, opts ...ClientOption) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	c := &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       DefaultModel,
		imageModel:  DefaultImageModel,
		temperature: 0.7,
		maxTokens:   1200,
		log:         log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Model returns the chat model name.
func (c *Client) Model() string { return c.model }

// ChatJSON sends a system and a user prompt in JSON mode and returns the
// assistant's reply.
func (c *Client) ChatJSON(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	c.log.Debug("openai: chat model=%s (%d chars prompt)", c.model, len(system)+len(user))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty response (no choices)")
	}

	reply := resp.Choices[0].Message.Content
	c.log.Debug("openai: reply (%d chars, %d tokens): %s", len(reply), resp.Usage.TotalTokens, truncate(reply, 120))
	return reply, nil
}

// Image renders prompt and returns the PNG bytes.
func (c *Client) Image(ctx context.Context, prompt string) ([]byte, error) {
	req := openai.ImageRequest{
		Prompt: prompt,
		Model:  c.imageModel,
		N:      1,
		Size:   DefaultImageSize,
	}
	// gpt-image models always answer in base64 and reject the field.
	if strings.HasPrefix(c.imageModel, "dall-e") {
		req.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}

	c.log.Debug("openai: image model=%s prompt=%q", c.imageModel, truncate(prompt, 80))

	resp, err := c.api.CreateImage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai: create image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.New("openai: image response carried no data")
	}

	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai: decode image: %w", err)
	}
	return img, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
