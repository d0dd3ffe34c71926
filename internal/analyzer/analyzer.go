package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sozercan/screenai/internal/llm"
)

const (
	PromptTemplate = "Analyze this text: %s"

	NoChoicesResponse   = "⚠️ API responded without valid choices."
	NoMessageResponse   = "⚠️ No response received."
	RequestFailedPrefix = "⚠️ API Request Failed: "
)

// Analyzer turns extracted screen text into a model response. Failures are
// folded into the returned text so callers always have something to log.
type Analyzer struct {
	llmProvider llm.Provider
	opts        []llm.Option
}

// New returns an Analyzer that applies opts to every query. No token cap is
// ever set.
func New(llmProvider llm.Provider, opts ...llm.Option) *Analyzer {
	return &Analyzer{
		llmProvider: llmProvider,
		opts:        opts,
	}
}

func (a *Analyzer) Query(ctx context.Context, text string) string {
	startTime := time.Now()

	resp, err := a.llmProvider.Complete(ctx, []llm.Message{
		llm.UserMessage(fmt.Sprintf(PromptTemplate, text)),
	}, a.opts...)
	switch {
	case err == nil:
		slog.Debug("Analysis completed", "duration", time.Since(startTime), "tokens", resp.Usage.TotalTokens)
		return resp.Content
	case errors.Is(err, llm.ErrNoChoices):
		slog.Warn("API responded without valid choices")
		return NoChoicesResponse
	case errors.Is(err, llm.ErrNoMessage):
		slog.Warn("API responded with an empty choice")
		return NoMessageResponse
	default:
		slog.Error("API request failed", "error", err)
		return RequestFailedPrefix + err.Error()
	}
}
