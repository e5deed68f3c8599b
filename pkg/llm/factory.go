package llm

import (
	"fmt"

	"go.uber.org/zap"

	appconfig "github.com/justai-labs/justai-engine/pkg/config"
)

// NewClientFromConfig creates the chat client selected by the configured
// provider. Returns the Client interface to enable dependency injection of
// mocks.
func NewClientFromConfig(cfg *appconfig.LLMConfig, logger *zap.Logger) (Client, error) {
	clientCfg := &Config{
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
	}

	switch cfg.Provider {
	case appconfig.ProviderOpenAI:
		return NewOpenAIClient(clientCfg, logger)
	case appconfig.ProviderAnthropic:
		return NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
