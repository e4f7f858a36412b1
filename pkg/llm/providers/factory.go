package providers

import (
	"fmt"

	"github.com/supportpilot/supportpilot/pkg/llm"
)

func NewProvider(config llm.ProviderConfig) (llm.Provider, error) {
	switch config.Type {
	case "gemini":
		return NewGeminiProvider(config)
	case "anthropic":
		return NewAnthropicProvider(config), nil
	case "openai":
		return NewOpenAIProvider(config), nil
	}
	return nil, fmt.Errorf("unsupported provider: %s", config.Type)
}
