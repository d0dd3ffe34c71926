package llm

import (
	"fmt"

	"github.com/sozercan/screenai/internal/config"
)

const (
	ProviderChat   = "chat"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// NewProvider builds the backend selected by cfg.Provider.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderChat, "":
		return NewChatClient(cfg)
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
