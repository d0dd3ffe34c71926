// cmd/llmquery/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/sozercan/screenai/internal/config"
	"github.com/sozercan/screenai/internal/llm"
)

const (
	systemPrompt = "Always answer in rhymes."
	userPrompt   = "What day is it today?"
	temperature  = 0.7
	maxTokens    = 3000
)

type sender interface {
	Send(ctx context.Context, req llm.ChatRequest) (*llm.RawResponse, error)
}

func main() {
	cfg, err := config.LoadQuery("llmquery", os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := config.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}

	client, err := llm.NewChatClient(&cfg.LLM)
	if err != nil {
		log.Fatalf("failed to create chat client: %v", err)
	}

	// network failures are fatal for a single run
	if err := run(context.Background(), client, cfg.LLM.Model, os.Stdout); err != nil {
		log.Fatalf("query failed: %v", err)
	}
}

func run(ctx context.Context, client sender, model string, out io.Writer) error {
	limit := int64(maxTokens)
	req := llm.ChatRequest{
		Model: model,
		Messages: []llm.Message{
			llm.SystemMessage(systemPrompt),
			llm.UserMessage(userPrompt),
		},
		Temperature: temperature,
		MaxTokens:   &limit,
	}

	resp, err := client.Send(ctx, req)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(out, "Error %d: %s\n", resp.StatusCode, resp.Body)
		return nil
	}

	parsed, err := resp.Decode()
	if err != nil {
		return err
	}
	content, err := parsed.FirstContent()
	if err != nil {
		return fmt.Errorf("unexpected response: %w", err)
	}

	fmt.Fprintln(out, "Model Response:", content)
	return nil
}
