package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sozercan/screenai/internal/config"
	"github.com/sozercan/screenai/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyzer(t *testing.T, handler http.HandlerFunc) *Analyzer {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := llm.NewChatClient(&config.LLMConfig{
		Endpoint:    ts.URL + "/v1/chat/completions",
		Model:       "deepseek-r1-distill-qwen-7b:2",
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)
	return New(client)
}

type recordingProvider struct {
	options *llm.Options
}

func (r *recordingProvider) Complete(_ context.Context, _ []llm.Message, opts ...llm.Option) (*llm.Response, error) {
	r.options = &llm.Options{}
	for _, opt := range opts {
		opt(r.options)
	}
	return &llm.Response{Content: "ok"}, nil
}

func TestQueryAppliesOptions(t *testing.T) {
	p := &recordingProvider{}
	a := New(p, llm.WithModel("local-model"), llm.WithTemperature(0.3))

	assert.Equal(t, "ok", a.Query(context.Background(), "text"))
	require.NotNil(t, p.options)
	assert.Equal(t, "local-model", p.options.Model)
	assert.Equal(t, 0.3, p.options.Temperature)
	assert.Zero(t, p.options.MaxTokens)
}

func TestQuery(t *testing.T) {
	var got llm.ChatRequest
	a := newAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	})

	assert.Equal(t, "hello", a.Query(context.Background(), "some screen text"))

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Analyze this text: some screen text", got.Messages[0].Content)
	assert.Equal(t, 0.7, got.Temperature)
	assert.Nil(t, got.MaxTokens)
}

func TestQueryFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, result string)
	}{
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "server error",
			check: func(t *testing.T, result string) {
				assert.True(t, strings.HasPrefix(result, RequestFailedPrefix))
				assert.Contains(t, result, "500")
				assert.Contains(t, result, "server error")
			},
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   "not json",
			check: func(t *testing.T, result string) {
				assert.True(t, strings.HasPrefix(result, RequestFailedPrefix))
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"choices":[]}`,
			check: func(t *testing.T, result string) {
				assert.Equal(t, NoChoicesResponse, result)
			},
		},
		{
			name:   "choice without message",
			status: http.StatusOK,
			body:   `{"choices":[{"index":0}]}`,
			check: func(t *testing.T, result string) {
				assert.Equal(t, NoMessageResponse, result)
			},
		},
		{
			name:   "message without content",
			status: http.StatusOK,
			body:   `{"choices":[{"message":{}}]}`,
			check: func(t *testing.T, result string) {
				assert.Equal(t, NoMessageResponse, result)
			},
		},
		{
			name:   "null content",
			status: http.StatusOK,
			body:   `{"choices":[{"message":{"role":"assistant","content":null}}]}`,
			check: func(t *testing.T, result string) {
				assert.Equal(t, NoMessageResponse, result)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			tt.check(t, a.Query(context.Background(), "text"))
		})
	}
}

type failingProvider struct{ err error }

func (f failingProvider) Complete(context.Context, []llm.Message, ...llm.Option) (*llm.Response, error) {
	return nil, f.err
}

func TestQueryTransportError(t *testing.T) {
	a := New(failingProvider{err: errors.New("dial tcp 127.0.0.1:8080: connect: connection refused")})

	result := a.Query(context.Background(), "text")
	assert.Equal(t, RequestFailedPrefix+"dial tcp 127.0.0.1:8080: connect: connection refused", result)
}
