package llm

import (
	"fmt"

	"github.com/skovatch/agora/internal/model"
)

// NewProvider builds the configured provider. An empty provider name
// means enrichment is disabled and returns (nil, nil).
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
