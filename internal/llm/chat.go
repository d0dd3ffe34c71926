package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/sozercan/screenai/internal/config"
)

// ChatRequest is the chat-completions request body.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   *int64    `json:"max_tokens,omitempty"`
}

type ChatResponse struct {
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

type ChatChoice struct {
	Message *ChoiceMessage `json:"message"`
}

// ChoiceMessage keeps Content as a pointer so a missing or null content can
// be told apart from an empty one.
type ChoiceMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// FirstContent returns the content of the first choice.
func (r *ChatResponse) FirstContent() (string, error) {
	if len(r.Choices) == 0 {
		return "", ErrNoChoices
	}
	msg := r.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return "", ErrNoMessage
	}
	return *msg.Content, nil
}

// RawResponse is an undecoded reply from the inference server.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

func (r *RawResponse) Decode() (*ChatResponse, error) {
	var out ChatResponse
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	return &out, nil
}

// ChatClient posts raw chat-completions payloads to a single endpoint URL.
type ChatClient struct {
	client *resty.Client
	cfg    *config.LLMConfig
}

func NewChatClient(cfg *config.LLMConfig) (*ChatClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference endpoint cannot be empty")
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &ChatClient{
		client: client,
		cfg:    cfg,
	}, nil
}

// Send posts the request and returns whatever the server answered. Only
// transport failures are reported as errors.
func (c *ChatClient) Send(ctx context.Context, req ChatRequest) (*RawResponse, error) {
	slog.Debug("Sending chat request", "endpoint", c.cfg.Endpoint, "model", req.Model)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

func (c *ChatClient) Complete(ctx context.Context, messages []Message, opts ...Option) (*Response, error) {
	options := c.options(opts)

	req := ChatRequest{
		Model:       options.Model,
		Messages:    messages,
		Temperature: options.Temperature,
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = &options.MaxTokens
	}

	raw, err := c.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if raw.StatusCode < 200 || raw.StatusCode > 299 {
		return nil, &StatusError{Code: raw.StatusCode, Body: string(raw.Body)}
	}

	parsed, err := raw.Decode()
	if err != nil {
		return nil, err
	}

	content, err := parsed.FirstContent()
	if err != nil {
		return nil, err
	}

	response := &Response{Content: content}
	if parsed.Usage != nil {
		response.Usage = *parsed.Usage
	}
	return response, nil
}

func (c *ChatClient) options(opts []Option) *Options {
	options := &Options{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
