package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportpilot/supportpilot/pkg/llm"
)

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(llm.ProviderConfig{Type: "anthropic", APIKey: "sk-ant-test"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.GetName())

	p, err = NewProvider(llm.ProviderConfig{Type: "openai", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.GetName())

	_, err = NewProvider(llm.ProviderConfig{Type: "cohere"})
	assert.Error(t, err)
}

func TestAnthropicValidateConfig(t *testing.T) {
	p := NewAnthropicProvider(llm.ProviderConfig{})

	assert.Error(t, p.ValidateConfig(llm.ProviderConfig{}))
	assert.Error(t, p.ValidateConfig(llm.ProviderConfig{APIKey: "not-an-anthropic-key"}))
	assert.NoError(t, p.ValidateConfig(llm.ProviderConfig{APIKey: "sk-ant-valid"}))
}

func TestOpenAIValidateConfig(t *testing.T) {
	p := NewOpenAIProvider(llm.ProviderConfig{})

	assert.Error(t, p.ValidateConfig(llm.ProviderConfig{}))
	assert.NoError(t, p.ValidateConfig(llm.ProviderConfig{APIKey: "sk-valid"}))
}
