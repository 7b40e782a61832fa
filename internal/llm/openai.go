package llm

import (
	"context"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Compile-time interface check.
var _ Generator = (*OpenAIClient)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT3Dot5Turbo

// OpenAIClient implements Generator against any OpenAI-compatible chat
// completions endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type clientConfig struct {
	baseURL string
	model   string
	timeout time.Duration
	http    *http.Client
}

// ClientOption configures an OpenAIClient.
type ClientOption func(*clientConfig)

// WithBaseURL points the client at a different OpenAI-compatible endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithModel sets the model name sent with every request.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.http = hc
	}
}

// NewOpenAIClient creates a client authenticated with apiKey.
func NewOpenAIClient(apiKey string, opts ...ClientOption) *OpenAIClient {
	cc := clientConfig{
		model:   DefaultModel,
		timeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(&cc)
	}

	cfg := openai.DefaultConfig(apiKey)
	if cc.baseURL != "" {
		cfg.BaseURL = cc.baseURL
	}
	if cc.http != nil {
		cfg.HTTPClient = cc.http
	} else {
		cfg.HTTPClient = &http.Client{Timeout: cc.timeout}
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  cc.model,
	}
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Generate sends req as a chat completion and returns the first choice.
// An empty content string is returned as-is; a response with no choices
// is an ErrEmptyResponse.
func (c *OpenAIClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: ErrEmptyResponse}
	}
	return resp.Choices[0].Message.Content, nil
}
