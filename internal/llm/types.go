package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoChoices = errors.New("API responded without valid choices")
	ErrNoMessage = errors.New("first choice carries no message content")
)

type Provider interface {
	// Complete sends the messages as one chat completion and returns the
	// content of the first choice
	Complete(ctx context.Context, messages []Message, opts ...Option) (*Response, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

type Option func(*Options)

type Options struct {
	Model       string
	Temperature float64
	// MaxTokens is left out of the request when zero.
	MaxTokens int64
}

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

type Response struct {
	Content string
	Usage   Usage
}

// StatusError is returned when the inference server answers with a
// non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}
