package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/sozercan/screenai/internal/config"
)

// Ollama talks to an Ollama server through its native chat API.
type Ollama struct {
	client *api.Client
	cfg    *config.LLMConfig
}

func NewOllama(cfg *config.LLMConfig) (*Ollama, error) {
	base, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	return &Ollama{
		client: api.NewClient(base, httpClient),
		cfg:    cfg,
	}, nil
}

func (o *Ollama) Complete(ctx context.Context, messages []Message, opts ...Option) (*Response, error) {
	options := &Options{
		Model:       o.cfg.Model,
		Temperature: o.cfg.Temperature,
	}
	for _, opt := range opts {
		opt(options)
	}

	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: toOllamaMessages(messages),
		Stream:   func(b bool) *bool { return &b }(false),
		Options: map[string]any{
			"temperature": options.Temperature,
		},
	}
	if options.MaxTokens > 0 {
		req.Options["num_predict"] = options.MaxTokens
	}

	var (
		final    api.ChatResponse
		received bool
	)
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		final = resp
		received = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !received {
		return nil, ErrNoChoices
	}

	return &Response{
		Content: final.Message.Content,
		Usage: Usage{
			PromptTokens:     int64(final.PromptEvalCount),
			CompletionTokens: int64(final.EvalCount),
			TotalTokens:      int64(final.PromptEvalCount + final.EvalCount),
		},
	}, nil
}

func toOllamaMessages(messages []Message) []api.Message {
	out := make([]api.Message, len(messages))
	for i, m := range messages {
		out[i] = api.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
